package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// fieldError is a single field-level validation failure.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateCreateTask rejects malformed create requests before they reach
// the controller: title must be present and non-empty after trimming, and
// description, when present, must be a string. On failure it short-circuits
// with 400 and a list of field errors; on success the body is passed through
// untouched.
func ValidateCreateTask(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body", nil)
			return
		}
		// Hand the controller the same bytes we just consumed.
		r.Body = io.NopCloser(bytes.NewReader(body))

		var req struct {
			Title       *string         `json:"title"`
			Description json.RawMessage `json:"description"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body", nil)
			return
		}

		var errs []fieldError
		if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
			errs = append(errs, fieldError{Field: "title", Message: "title is required"})
		}
		if len(req.Description) > 0 && !isJSONString(req.Description) {
			errs = append(errs, fieldError{Field: "description", Message: "description must be a string"})
		}
		if len(errs) > 0 {
			respondJSON(w, http.StatusBadRequest, map[string][]fieldError{"errors": errs})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isJSONString(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "null" || strings.HasPrefix(s, `"`)
}
