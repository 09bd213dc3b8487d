package kv_test

import (
	"testing"

	"accreditex/testutil"
)

// Drivers move bytes; the accreditation domain must stay out of this tree.
func TestDriversStayDomainFree(t *testing.T) {
	for _, dir := range []string{".", "memory", "sqlite", "postgres"} {
		testutil.AssertNoDirectImports(t, dir, testutil.DomainImportForbidden,
			"kv drivers serialize opaque values and must not depend on domain records")
	}
}
