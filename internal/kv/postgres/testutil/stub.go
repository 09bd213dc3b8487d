// Package testutil provides a stub database/sql driver speaking exactly the
// statement shapes the postgres kv store issues, backed by an in-memory map.
package testutil

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

var stubSeq uint64

// StubConn is the shared connection state. Data maps kv keys to payloads.
type StubConn struct {
	mu       sync.Mutex
	Data     map[string][]byte
	Execs    []string
	FailPing bool
	FailExec bool
}

// NewStubDB registers a fresh stub driver instance and opens a DB over it.
func NewStubDB() (*sql.DB, *StubConn) {
	conn := &StubConn{Data: make(map[string][]byte)}
	name := fmt.Sprintf("stubkv%d", atomic.AddUint64(&stubSeq, 1))
	sql.Register(name, &stubDriver{conn: conn})
	db, err := sql.Open(name, "stub")
	if err != nil {
		panic(err)
	}
	return db, conn
}

type stubDriver struct {
	conn *StubConn
}

func (d *stubDriver) Open(string) (driver.Conn, error) { return d.conn, nil }

// Prepare implements driver.Conn.
func (c *StubConn) Prepare(string) (driver.Stmt, error) {
	return nil, fmt.Errorf("prepare not supported")
}

// Close implements driver.Conn.
func (c *StubConn) Close() error { return nil }

// Begin implements driver.Conn.
func (c *StubConn) Begin() (driver.Tx, error) { return nil, fmt.Errorf("transactions not supported") }

// Ping implements driver.Pinger.
func (c *StubConn) Ping(context.Context) error {
	if c.FailPing {
		return fmt.Errorf("ping fail")
	}
	return nil
}

// ExecContext implements driver.ExecerContext for the create/upsert/delete
// statements.
func (c *StubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Execs = append(c.Execs, query)
	if c.FailExec {
		return nil, fmt.Errorf("exec fail")
	}

	upper := strings.ToUpper(strings.TrimSpace(query))
	switch {
	case strings.HasPrefix(upper, "CREATE TABLE"):
		return driver.RowsAffected(0), nil
	case strings.HasPrefix(upper, "INSERT INTO"):
		if len(args) != 2 {
			return nil, fmt.Errorf("upsert expects 2 args, got %d", len(args))
		}
		key, ok := args[0].Value.(string)
		if !ok {
			return nil, fmt.Errorf("upsert key must be string, got %T", args[0].Value)
		}
		value, ok := args[1].Value.([]byte)
		if !ok {
			return nil, fmt.Errorf("upsert value must be bytes, got %T", args[1].Value)
		}
		cpy := make([]byte, len(value))
		copy(cpy, value)
		c.Data[key] = cpy
		return driver.RowsAffected(1), nil
	case strings.HasPrefix(upper, "DELETE FROM"):
		if len(args) != 1 {
			return nil, fmt.Errorf("delete expects 1 arg, got %d", len(args))
		}
		key, ok := args[0].Value.(string)
		if !ok {
			return nil, fmt.Errorf("delete key must be string, got %T", args[0].Value)
		}
		delete(c.Data, key)
		return driver.RowsAffected(1), nil
	default:
		return nil, fmt.Errorf("unsupported exec: %s", query)
	}
}

// QueryContext implements driver.QueryerContext for the point and prefix
// selects.
func (c *StubConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lower := strings.ToLower(query)
	switch {
	case strings.Contains(lower, "select value from kv where key ="):
		if len(args) != 1 {
			return nil, fmt.Errorf("point select expects 1 arg, got %d", len(args))
		}
		key, _ := args[0].Value.(string)
		value, ok := c.Data[key]
		if !ok {
			return &stubRows{cols: []string{"value"}}, nil
		}
		cpy := make([]byte, len(value))
		copy(cpy, value)
		return &stubRows{cols: []string{"value"}, rows: [][]driver.Value{{cpy}}}, nil
	case strings.Contains(lower, "select key from kv where key like"):
		if len(args) != 1 {
			return nil, fmt.Errorf("prefix select expects 1 arg, got %d", len(args))
		}
		pattern, _ := args[0].Value.(string)
		prefix := strings.TrimSuffix(pattern, "%")
		var keys []string
		for key := range c.Data {
			if strings.HasPrefix(key, prefix) {
				keys = append(keys, key)
			}
		}
		sort.Strings(keys)
		rows := make([][]driver.Value, 0, len(keys))
		for _, key := range keys {
			rows = append(rows, []driver.Value{key})
		}
		return &stubRows{cols: []string{"key"}, rows: rows}, nil
	default:
		return nil, fmt.Errorf("unsupported query: %s", query)
	}
}

type stubRows struct {
	cols []string
	rows [][]driver.Value
	idx  int
}

func (r *stubRows) Columns() []string { return r.cols }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.idx])
	r.idx++
	return nil
}
