package dingsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// APIError represents a rejection from the DingTalk platform: a non-success
// HTTP status from the v1.0 API, or a non-zero errcode in a topapi
// envelope. It is never cached; an acquire that ends in an APIError leaves
// the store untouched.
type APIError struct {
	// StatusCode is the HTTP status of the response (200 for topapi
	// envelope errors, which DingTalk reports in-band).
	StatusCode int

	// Code is the platform error code: the v1.0 API's string code, or the
	// topapi errcode rendered in decimal.
	Code string

	// Message is the platform's human-readable description.
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dingtalk: %s (code=%s, status=%d)", e.Message, e.Code, e.StatusCode)
}

// v1ErrorBody is the error shape of api.dingtalk.com v1.0 responses.
type v1ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// newStatusError builds an APIError from a non-2xx v1.0 API response body.
// Bodies that are not the documented error shape still produce a usable
// error carrying the raw status.
func newStatusError(statusCode int, body []byte) *APIError {
	var parsed v1ErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Code != "" {
		return &APIError{StatusCode: statusCode, Code: parsed.Code, Message: parsed.Message}
	}
	return &APIError{
		StatusCode: statusCode,
		Code:       strconv.Itoa(statusCode),
		Message:    http.StatusText(statusCode),
	}
}

// newTopError builds an APIError from a topapi envelope with errcode != 0.
func newTopError(errcode int, errmsg string) *APIError {
	return &APIError{
		StatusCode: http.StatusOK,
		Code:       strconv.Itoa(errcode),
		Message:    errmsg,
	}
}
