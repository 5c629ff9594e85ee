package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"linkhub/internal/api/v1/dto"
	"linkhub/internal/middleware"

	"github.com/danielgtaylor/huma/v2"
)

// UseErrorModel makes huma report every error as dto.ErrorResponse.
// Schema violations huma would answer with 422 are reported as 400.
func UseErrorModel() {
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		validation := status == http.StatusUnprocessableEntity || status == http.StatusBadRequest
		if status == http.StatusUnprocessableEntity {
			status = http.StatusBadRequest
		}
		e := dto.NewError(status, msg)
		if !validation {
			return e
		}
		for _, err := range errs {
			var detail *huma.ErrorDetail
			if errors.As(err, &detail) {
				e.Field = fieldFromLocation(detail.Location)
				if detail.Message != "" {
					e.Message = detail.Message
				}
				break
			}
		}
		return e
	}
}

// fieldFromLocation turns "body.socialLinks.github" into "socialLinks.github".
func fieldFromLocation(loc string) string {
	if _, rest, ok := strings.Cut(loc, "."); ok {
		return rest
	}
	return loc
}

// Helper to extract user ID from context (injected by auth middleware)
func getUserIDFromContext(ctx context.Context) (string, error) {
	userID := middleware.UserIDFromContext(ctx)
	if userID == "" {
		return "", dto.NewError(http.StatusUnauthorized, "Unauthorized")
	}
	return userID, nil
}

func badRequest(field, msg string) error {
	return dto.NewFieldError(http.StatusBadRequest, field, msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.NewError(status, msg))
}
