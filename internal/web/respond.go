package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/cory-johannsen/wisperwind/internal/gameerr"
)

// errorBody is the JSON shape of every failed request.
type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func newErrorBody(err error) errorBody {
	return errorBody{Message: gameerr.MessageOf(err), Code: gameerr.CodeOf(err)}
}

// statusFor maps an error's kind to an HTTP status.
func statusFor(err error) int {
	switch gameerr.KindOf(err) {
	case gameerr.KindValidation:
		return http.StatusBadRequest
	case gameerr.KindUnauthorized:
		return http.StatusUnauthorized
	case gameerr.KindNotFound:
		return http.StatusNotFound
	case gameerr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("writing response failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	s.writeJSON(w, status, newErrorBody(err))
}

// decode reads a JSON body into dst.
//
// Postcondition: Returns an error matching gameerr.ErrMalformedRequest for an
// empty, oversized, or unparsable body.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return gameerr.ErrMalformedRequest.WithMessage("Request body is empty.")
		}
		return gameerr.ErrMalformedRequest.WithMessage("Request body is not valid JSON.")
	}
	return nil
}
