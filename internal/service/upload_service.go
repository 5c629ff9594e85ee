package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"linkhub/internal/repository"
	"linkhub/internal/storage"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	MaxAvatarBytes = 2 << 20
	avatarSize     = 400
)

type UploadService interface {
	// UploadAvatar validates and stores an avatar image, sets it on the user and returns its URL.
	UploadAvatar(ctx context.Context, userID, contentType string, data []byte) (string, error)
}

type uploadService struct {
	users  repository.UserRepository
	store  storage.ObjectStore // nil stores the image inline as a data URL
	logger zerolog.Logger
}

func NewUploadService(users repository.UserRepository, store storage.ObjectStore, logger zerolog.Logger) UploadService {
	return &uploadService{
		users:  users,
		store:  store,
		logger: logger.With().Str("service", "UploadService").Logger(),
	}
}

func (s *uploadService) UploadAvatar(ctx context.Context, userID, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", &UploadError{Reason: "No file provided"}
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", &UploadError{Reason: "File must be an image"}
	}
	if len(data) > MaxAvatarBytes {
		return "", &UploadError{Reason: "File must be less than 2MB"}
	}

	var url string
	if s.store == nil {
		url = "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
	} else {
		resized, err := resizeAvatar(data)
		if err != nil {
			return "", &UploadError{Reason: "File must be an image"}
		}
		key := fmt.Sprintf("avatars/%s/%s.jpg", userID, uuid.NewString())
		url, err = s.store.Put(ctx, key, resized, "image/jpeg")
		if err != nil {
			return "", err
		}
	}

	if err := s.users.UpdateImage(ctx, userID, url); err != nil {
		return "", err
	}
	s.logger.Info().Str("user_id", userID).Bool("inline", s.store == nil).Msg("Avatar updated")
	return url, nil
}

// resizeAvatar fits the image into a square thumbnail and re-encodes it as JPEG.
func resizeAvatar(data []byte) ([]byte, error) {
	// Phone photos carry their rotation in EXIF.
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	thumb := imaging.Fill(img, avatarSize, avatarSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("encode avatar: %w", err)
	}
	return buf.Bytes(), nil
}
