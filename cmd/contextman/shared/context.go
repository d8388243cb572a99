// Package shared holds the context passed to all CLI commands.
package shared

// Context carries global CLI state (flags set on the root command).
type Context struct {
	// ContextHome overrides the context home directory.
	// When empty, resolution falls through to CONTEXT_HOME env var → persisted config → ~/.contextman.
	ContextHome string
}
