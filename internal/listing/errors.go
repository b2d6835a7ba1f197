package listing

import (
	"fmt"
	"net/http"
)

// GenericErrorMessage is shown for every failed fetch regardless of cause.
const GenericErrorMessage = "Could not load data. Please try again later or report an issue if this problem persists."

// NetworkError is a transport failure, a non-2xx response or a body that
// could not be decoded.
type NetworkError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: unexpected status %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
	case e.Err != nil:
		return e.Op + ": " + e.Err.Error()
	default:
		return e.Op + ": network error"
	}
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerReportedError is a successful HTTP response whose body carries an
// application level error.
type ServerReportedError struct {
	Message string
}

func (e *ServerReportedError) Error() string {
	return "server reported error: " + e.Message
}
