// Command accreditex-gov is the operations CLI for the accreditation
// governance and quality-outcome service. It reads portfolio data files
// (YAML or JSON), runs governance and scoring operations against the
// configured key-value backend, and prints results as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"accreditex/internal/blob"
	"accreditex/internal/core"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "WARN: .env not loaded:", err)
	}

	root := newRootCommand(os.Stdout)
	if err := root.Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "Error:", ee.msg)
			os.Exit(ee.code)
		}
		// cobra already printed the error
		os.Exit(1)
	}
}

// rootFlags holds options shared by every subcommand.
type rootFlags struct {
	dataPath string
	verbose  bool
}

func newRootCommand(out io.Writer) *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:           "accreditex-gov",
		Short:         "Accreditation standards governance and quality-outcome tooling",
		Long:          "accreditex-gov manages standards baselines, drift detection, audit trails, cross-standard mapping, readiness scoring, and monthly quality-outcome snapshots for accreditation portfolios.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.dataPath, "data", "", "Portfolio data file (YAML or JSON)")
	pf.BoolVar(&flags.verbose, "verbose", false, "Log service operations to stderr")

	root.AddCommand(
		newBaselineCommand(out, &flags),
		newStatusCommand(out, &flags),
		newDriftCommand(out, &flags),
		newLogCommand(out, &flags),
		newExportCommand(out, &flags),
		newMappingCommand(out, &flags),
		newEvidenceCommand(out, &flags),
		newReadinessCommand(out, &flags),
		newSnapshotCommand(out, &flags),
		newCorrelationCommand(out, &flags),
		newRiskCommand(out, &flags),
	)
	return root
}

// openService wires a Service over the env-selected key-value backend. The
// returned close func releases the backend when it supports closing.
func openService(flags *rootFlags, withBlobs bool) (*core.Service, func(), error) {
	store, err := core.OpenKVStore()
	if err != nil {
		return nil, nil, codeError(3, "open store: %s", err)
	}
	closeFn := func() {
		if closer, ok := store.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}

	opts := []core.Option{}
	if flags.verbose {
		opts = append(opts, core.WithLogger(stderrLogger{}))
	}
	if withBlobs {
		blobs, err := blob.Open(context.Background())
		if err != nil {
			closeFn()
			return nil, nil, codeError(3, "open blob store: %s", err)
		}
		opts = append(opts, core.WithBlobStore(blobs))
	}

	svc, err := core.NewService(store, opts...)
	if err != nil {
		closeFn()
		return nil, nil, codeError(3, "init service: %s", err)
	}
	return svc, closeFn, nil
}

// printJSON renders any result record as indented JSON on the output stream.
func printJSON(out io.Writer, v any) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(payload))
	return err
}

// stderrLogger satisfies core.Logger for --verbose runs.
type stderrLogger struct{}

func (stderrLogger) log(level, msg string, kv ...any) {
	fmt.Fprintf(os.Stderr, "%s: %s", level, msg)
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(os.Stderr, " %v=%v", kv[i], kv[i+1])
	}
	fmt.Fprintln(os.Stderr)
}

func (l stderrLogger) Debug(msg string, kv ...any) { l.log("DEBUG", msg, kv...) }
func (l stderrLogger) Info(msg string, kv ...any)  { l.log("INFO", msg, kv...) }
func (l stderrLogger) Warn(msg string, kv ...any)  { l.log("WARN", msg, kv...) }
func (l stderrLogger) Error(msg string, kv ...any) { l.log("ERROR", msg, kv...) }
