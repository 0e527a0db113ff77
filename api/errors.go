package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// Connect/gRPC error code strings carried in error response bodies.
const (
	CodeInvalidArgument  = "invalid_argument"
	CodeNotFound         = "not_found"
	CodeAlreadyExists    = "already_exists"
	CodePermissionDenied = "permission_denied"
	CodeUnauthenticated  = "unauthenticated"
	CodeInternal         = "internal"
	CodeUnavailable      = "unavailable"
)

// Error is a failed backend call. Code is the Connect error code from the
// response body when the backend supplied one, "" otherwise.
type Error struct {
	Code       string
	Message    string
	HTTPStatus int
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", e.HTTPStatus, e.Message)
}

func errorFromResponse(resp *resty.Response) *Error {
	body := resp.String()

	apiErr := &Error{
		Code:       gjson.Get(body, "code").String(),
		Message:    gjson.Get(body, "message").String(),
		HTTPStatus: resp.StatusCode(),
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(body)
	}
	if apiErr.Message == "" {
		apiErr.Message = resp.Status()
	}
	return apiErr
}

// IsAuthError reports whether err means the caller's token was missing,
// invalid, or expired. The structured code is authoritative; the message
// substrings cover backends that return bare text errors.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Code != "" {
		return apiErr.Code == CodeUnauthenticated
	}

	msg := err.Error()
	return strings.Contains(msg, "expired") || strings.Contains(msg, "unauthenticated")
}
