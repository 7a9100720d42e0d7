// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates a clean exit, including end of input.
	Success = 0

	// UserError indicates bad flags or arguments, or unreadable input.
	UserError = 1

	// AuthError indicates the credential could not be obtained.
	AuthError = 2

	// BackendError indicates the initial workspace listing failed.
	BackendError = 3
)
