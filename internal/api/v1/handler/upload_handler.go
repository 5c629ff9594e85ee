package handler

import (
	"errors"
	"io"
	"net/http"

	"linkhub/internal/api/v1/dto"
	"linkhub/internal/middleware"
	"linkhub/internal/service"

	"github.com/rs/zerolog"
)

// multipart overhead allowed on top of the file itself
const uploadSlack = 64 << 10

type UploadHandler struct {
	uploadService service.UploadService
	logger        zerolog.Logger
}

func NewUploadHandler(uploadService service.UploadService, logger zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		logger:        logger,
	}
}

// UploadAvatar accepts a multipart form with an image in field "file".
func (h *UploadHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxAvatarBytes+uploadSlack)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusBadRequest, dto.NewFieldError(http.StatusBadRequest, "file", "File must be less than 2MB"))
			return
		}
		writeJSON(w, http.StatusBadRequest, dto.NewFieldError(http.StatusBadRequest, "file", "No file provided"))
		return
	}
	defer func() { _ = file.Close() }()

	// One byte past the limit is enough to reject.
	data, err := io.ReadAll(io.LimitReader(file, service.MaxAvatarBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read file")
		return
	}

	url, err := h.uploadService.UploadAvatar(r.Context(), userID, header.Header.Get("Content-Type"), data)
	if err != nil {
		var uerr *service.UploadError
		if errors.As(err, &uerr) {
			writeJSON(w, http.StatusBadRequest, dto.NewFieldError(http.StatusBadRequest, "file", uerr.Reason))
			return
		}
		if errors.Is(err, service.ErrInvalidUpload) {
			writeJSON(w, http.StatusBadRequest, dto.NewFieldError(http.StatusBadRequest, "file", "File must be an image"))
			return
		}
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to upload avatar")
		writeError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}
	writeJSON(w, http.StatusOK, dto.UploadResponseDTO{URL: url})
}
