package espalier

import _ "embed"

// Version is the module version, embedded from the VERSION file at the
// repository root. It carries a trailing newline; display code trims it.
//
//go:embed VERSION
var Version string
