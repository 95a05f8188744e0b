package response

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
)

// encodeFailureBody is sent in place of a body that could not be encoded
const encodeFailureBody = `{"error":"Internal server error"}` + "\n"

// JSON writes an uncacheable JSON response. The body is encoded before the
// status is written, so an unencodable value becomes a 500 rather than a
// truncated success.
func JSON(w http.ResponseWriter, status int, data any) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Cache-Control", "no-store")

	if data == nil {
		w.WriteHeader(status)
		return
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		slog.Default().Error("failed to encode response body", "status", status, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(encodeFailureBody))
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Default().Debug("failed to write response body", "error", err)
	}
}
