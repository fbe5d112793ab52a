package restyutil

import (
	"fmt"

	"github.com/go-resty/resty/v2"
)

// StatusError is returned for a response with a non-2xx status.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %s", e.Method, e.URL, e.Status)
}

// CheckStatus turns a non-2xx response into a *StatusError.
func CheckStatus(res *resty.Response) error {
	if res.IsSuccess() {
		return nil
	}
	status := res.Status()
	if status == "" {
		status = fmt.Sprint(res.StatusCode())
	}
	return &StatusError{
		Method:     res.Request.Method,
		URL:        res.Request.URL,
		StatusCode: res.StatusCode(),
		Status:     status,
	}
}
