package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"auroracast/internal/types"
)

// maxRequestBodySize caps request bodies at 64 KB; the settings payload is
// the only writable surface and it is tiny.
const maxRequestBodySize = 64 << 10

// errorResponse is the envelope for all error responses.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// writeJSON writes a JSON response with the given status. Marshal failures
// degrade to a plain 500 envelope.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "response marshal failed", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(errorResponse{
			Error: errorDetail{
				Code:    string(types.ErrCodeInternalUnexpected),
				Message: "failed to marshal response",
			},
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// writeError maps the error chain to a structured response. AppErrors keep
// their code and message; anything else becomes an opaque 500 so internal
// details never leak to clients.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetReqID(r.Context())

	var appErr *types.AppError
	if errors.As(err, &appErr) {
		s.writeJSON(w, r, appErr.HTTPStatus(), errorResponse{
			Error: errorDetail{
				Code:      string(appErr.Code),
				Message:   appErr.Message,
				RequestID: requestID,
			},
		})
		return
	}

	s.logger.ErrorContext(r.Context(), "unhandled error", "error", err)
	s.writeJSON(w, r, http.StatusInternalServerError, errorResponse{
		Error: errorDetail{
			Code:      string(types.ErrCodeInternalUnexpected),
			Message:   "an unexpected error occurred",
			RequestID: requestID,
		},
	})
}

// decodeJSON reads the request body into dst with a size cap and strict
// field checking. Returns a validation AppError on any decode failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return types.NewAppError(types.ErrCodeValidationBadPayload, "invalid request body", err)
	}
	// Reject trailing JSON values.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return types.NewAppError(types.ErrCodeValidationBadPayload, "request body must contain a single JSON object", nil)
	}
	return nil
}
