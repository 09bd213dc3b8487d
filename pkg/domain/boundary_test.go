package domain_test

import (
	"testing"

	"accreditex/testutil"
)

// The domain package is plain data shared by every engine; it must not reach
// back into internal packages.
func TestDomainStaysInternalFree(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InternalImportForbidden,
		"domain records are plain data and must not import engines")
}
