package symbols

import "fmt"

type pathDerivationError struct {
	codeFile string
	reason   string
}

func (e pathDerivationError) Error() string {
	return fmt.Sprintf("cannot derive symbol path for %s: %s", e.codeFile, e.reason)
}

type symbolNotFoundError struct {
	suffix string
}

func (e symbolNotFoundError) Error() string {
	return fmt.Sprintf("symbol server has no file at %s", e.suffix)
}

type httpStatusError struct {
	statusCode int
	status     string
}

func (e httpStatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status: %d %s", e.statusCode, e.status)
}

type conversionError struct {
	command string
	stderr  string
	err     error
}

func (e conversionError) Error() string {
	if e.stderr == "" {
		return fmt.Sprintf("%s failed: %v", e.command, e.err)
	}
	return fmt.Sprintf("%s failed: %v: %s", e.command, e.err, e.stderr)
}

// Helper functions to check if an error is of a specific type
func isPathDerivationError(err error) bool {
	_, ok := err.(pathDerivationError)
	return ok
}

func isSymbolNotFoundError(err error) bool {
	_, ok := err.(symbolNotFoundError)
	return ok
}

func isHTTPStatusError(err error) (int, bool) {
	httpErr, ok := err.(httpStatusError)
	if ok {
		return httpErr.statusCode, true
	}
	return 0, false
}
