package resolve

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/vabarbosa/simple-data-vis/internal/conv"
	"github.com/vabarbosa/simple-data-vis/pkg/errors"
)

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	Status     int
	StatusText string
	// Response holds the start of the response body.
	Response string
}

func (e *StatusError) Error() string {
	return statusLine(e.Status, e.StatusText)
}

func statusLine(status int, text string) string {
	if text == "" {
		text = "connection failed"
	}
	if status == 0 {
		return text
	}
	return fmt.Sprintf("%d: %s", status, text)
}

func newStatusError(code int, body string) *StatusError {
	return &StatusError{Status: code, StatusText: http.StatusText(code), Response: body}
}

// ErrorMessage turns a failure into the message handed to a fail callback.
//
// A string is used as-is. Otherwise the first available of these wins: the
// error message, the response body, "status: statusText", and finally the
// JSON encoding of the value.
func ErrorMessage(v any) string {
	switch x := v.(type) {
	case nil:
		return statusLine(0, "")
	case string:
		return x
	case map[string]any:
		return mapMessage(x)
	case error:
		var se *StatusError
		if stderrors.As(x, &se) {
			if se.Response != "" {
				return se.Response
			}
			return se.Error()
		}
		var e *errors.Error
		if stderrors.As(x, &e) && e.Message != "" {
			if e.Cause != nil {
				return e.Message + ": " + e.Cause.Error()
			}
			return e.Message
		}
		if msg := x.Error(); msg != "" {
			return msg
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

func mapMessage(m map[string]any) string {
	if s := conv.String(m["message"]); s != "" {
		return s
	}
	if s := conv.String(m["response"]); s != "" {
		return s
	}
	if status, ok := m["status"]; ok {
		code, _ := conv.Float(status)
		return statusLine(int(code), conv.String(m["statusText"]))
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Sprint(m)
	}
	return string(data)
}
