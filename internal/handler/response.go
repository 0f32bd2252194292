package handler

import (
	"encoding/json"
	"net/http"

	"github.com/tripflow/backend/internal/domain"
	"github.com/tripflow/backend/internal/logger"
	"go.uber.org/zap"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logger.Get().Error("failed to encode JSON response", zap.Error(err))
		}
	}
}

// Error writes an error JSON response, using AppError status codes when
// available. AppError details are merged into the body alongside the
// message.
func Error(w http.ResponseWriter, err error) {
	if appErr, ok := domain.AsAppError(err); ok {
		body := map[string]interface{}{"error": appErr.Message}
		for k, v := range appErr.Details {
			body[k] = v
		}
		JSON(w, appErr.Code, body)
		return
	}
	logger.Get().Error("unhandled error", zap.Error(err))
	JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

// DecodeJSON decodes a JSON request body into the given struct.
func DecodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.ErrBadRequest("invalid JSON body")
	}
	return nil
}
