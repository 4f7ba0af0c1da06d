package commons

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	apperrors "stockkeeper/internal/errors"
)

type traceIDKey struct{}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

func TraceID(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey{}).(string); ok {
		return id
	}
	return ""
}

type ErrorResponse struct {
	TraceID   string                       `json:"traceId"`
	Status    int                          `json:"status"`
	Code      string                       `json:"code"`
	Message   string                       `json:"message"`
	Requested *int                         `json:"requested,omitempty"`
	Available *int                         `json:"available,omitempty"`
	Details   []apperrors.ValidationDetail `json:"details,omitempty"`
	Timestamp time.Time                    `json:"timestamp"`
}

func WriteJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func WriteValidationError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, message string, details ...apperrors.ValidationDetail) {
	WriteError(w, r, logger, apperrors.NewValidationError(message, details...))
}

// WriteError maps an application error to its HTTP status. Anything that is
// not an application error is logged and reported as a generic 500.
func WriteError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	resp := ErrorResponse{
		TraceID:   TraceID(r.Context()),
		Code:      string(apperrors.CodeOf(err)),
		Message:   err.Error(),
		Timestamp: time.Now().UTC(),
	}

	switch {
	case isValidation(err, &resp):
		resp.Status = http.StatusBadRequest
	case isForbidden(err):
		resp.Status = http.StatusForbidden
	case isNotFound(err):
		resp.Status = http.StatusNotFound
	case isConflict(err, &resp):
		resp.Status = http.StatusConflict
	case isDeadlock(err):
		resp.Status = http.StatusConflict
	default:
		logger.Error("unexpected error", zap.String("traceId", resp.TraceID), zap.Error(err))
		resp.Status = http.StatusInternalServerError
		resp.Message = "an unexpected error occurred"
	}

	WriteJSON(w, logger, resp.Status, resp)
}

func isValidation(err error, resp *ErrorResponse) bool {
	ve, ok := apperrors.IsValidationError(err)
	if ok {
		resp.Details = ve.Details
	}
	return ok
}

func isConflict(err error, resp *ErrorResponse) bool {
	ce, ok := apperrors.IsConflictError(err)
	if !ok {
		return false
	}
	if ce.Requested != 0 || ce.Available != 0 {
		requested, available := ce.Requested, ce.Available
		resp.Requested = &requested
		resp.Available = &available
	}
	return true
}

func isForbidden(err error) bool {
	_, ok := apperrors.IsForbiddenError(err)
	return ok
}

func isNotFound(err error) bool {
	_, ok := apperrors.IsNotFoundError(err)
	return ok
}

func isDeadlock(err error) bool {
	_, ok := apperrors.IsDeadlockError(err)
	return ok
}

// DecodeJSON decodes the request body into dst and writes a validation error
// when it cannot.
func DecodeJSON(w http.ResponseWriter, r *http.Request, logger *zap.Logger, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.Warn("invalid JSON body", zap.String("traceId", TraceID(r.Context())), zap.Error(err))
		WriteValidationError(w, r, logger, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return false
	}
	return true
}

// ParseID parses a positive integer path or query value.
func ParseID(raw, field string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+field, apperrors.ValidationDetail{
			Field:   field,
			Message: field + " must be a positive integer",
		})
	}
	return id, nil
}

// OptionalID parses raw when set; an empty value yields 0.
func OptionalID(raw, field string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	return ParseID(raw, field)
}

func ParseBool(raw string) bool {
	b, err := strconv.ParseBool(raw)
	return err == nil && b
}
