package cmd

// Exit codes for the pinga CLI
const (
	// ExitSuccess indicates the request completed
	ExitSuccess = 0

	// ExitFailure indicates a usage, settings or request config error, or a
	// transport failure outside silent mode
	ExitFailure = 1

	// ExitTransportError indicates the request could not be completed (silent mode)
	ExitTransportError = 2

	// ExitHTTPError indicates a response status of 400 or above (silent mode)
	ExitHTTPError = 3
)

// ExitError carries the exit code for a failed run. Its message has already
// been reported to the user when it is returned.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func exitError(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}
