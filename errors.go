package ojmicroline

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrSessionExpired = errors.New("session expired")
var ErrNoSession = errors.New("no session")

// APIError surfaces a non-zero vendor ErrorCode.
type APIError struct {
	Code int
	Msg  string
}

func (e APIError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("oj api error %d", e.Code)
	}
	return fmt.Sprintf("oj api error %d: %s", e.Code, e.Msg)
}

// HTTPStatusError surfaces a non-2xx response the vendor returned
// without a parseable ErrorCode payload.
type HTTPStatusError struct {
	Status int
	Body   string
}

func (e HTTPStatusError) Error() string {
	return fmt.Sprintf("oj api status %d: %s", e.Status, strings.TrimSpace(e.Body))
}
