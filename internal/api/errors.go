package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/scionx/privy-go/internal/apierrors"
)

// parseErrorResponse builds an APIError from a non-2xx response. The message
// is taken from "message", then a string "error", then "error.message",
// falling back to the status default. 404, 429 and 503 always use the
// default message.
func parseErrorResponse(status int, header http.Header, body []byte) *apierrors.APIError {
	apiErr := &apierrors.APIError{
		StatusCode: status,
		RequestID:  header.Get("X-Request-Id"),
	}

	var errResp struct {
		Message   string          `json:"message"`
		Error     json.RawMessage `json:"error"`
		RequestID string          `json:"request_id"`
	}
	var message string
	if err := json.Unmarshal(body, &errResp); err == nil {
		message = strings.TrimSpace(errResp.Message)
		if message == "" {
			message = errorFieldMessage(errResp.Error)
		}
		if apiErr.RequestID == "" {
			apiErr.RequestID = errResp.RequestID
		}
	}

	if message == "" || apierrors.FixedMessage(status) {
		message = apierrors.DefaultMessage(status)
	}
	apiErr.Message = message
	return apiErr
}

func errorFieldMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return strings.TrimSpace(obj.Message)
	}
	return ""
}
