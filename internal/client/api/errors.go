package api

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/dmitrijs2005/datavault/internal/common"
	"github.com/go-resty/resty/v2"
)

// errorBody is the JSON the server sends with every error status.
type errorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// APIError is a non-2xx answer from the server. It unwraps to the common
// sentinel matching its status, so callers can use errors.Is.
type APIError struct {
	Status  int
	Message string
	Errors  map[string][]string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if len(e.Errors) == 0 {
		return fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	return fmt.Sprintf("%s (HTTP %d): %s", msg, e.Status, strings.Join(e.FieldMessages(), " "))
}

// FieldMessages flattens Errors, ordered by field name.
func (e *APIError) FieldMessages() []string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var out []string
	for _, f := range fields {
		out = append(out, e.Errors[f]...)
	}
	return out
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case http.StatusForbidden:
		return common.ErrorForbidden
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusConflict:
		return common.ErrorConflict
	case http.StatusUnprocessableEntity:
		return common.ErrorValidation
	case http.StatusServiceUnavailable:
		return common.ErrorUnavailable
	default:
		return common.ErrorInternal
	}
}

func responseError(resp *resty.Response) error {
	if !resp.IsError() {
		return nil
	}
	e := &APIError{Status: resp.StatusCode()}
	if body, ok := resp.Error().(*errorBody); ok && body != nil {
		e.Message = body.Message
		e.Errors = body.Errors
	}
	return e
}
