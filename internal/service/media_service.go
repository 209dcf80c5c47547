package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"

	"github.com/avantaimpex/console-backend/internal/domain"
	"github.com/avantaimpex/console-backend/internal/repository/storage"
	"github.com/disintegration/imaging"
)

const (
	MaxImageSize   = 5 * 1024 * 1024  // 5MB
	MaxVideoSize   = 50 * 1024 * 1024 // 50MB
	MinImageWidth  = 50
	MinImageHeight = 50
	DisplayWidth   = 1280
	JPEGQuality    = 85
)

var (
	ErrImageTooLarge    = errors.New("file too large. Maximum size is 5MB")
	ErrVideoTooLarge    = errors.New("file too large. Maximum size is 50MB")
	ErrInvalidFormat    = errors.New("invalid format. Supported: JPEG, PNG, WebP")
	ErrInvalidVideo     = errors.New("invalid format. Supported: MP4, WebM")
	ErrImageTooSmall    = errors.New("image too small. Minimum 50x50 pixels")
	ErrInvalidImageData = errors.New("invalid image data")
)

// AllowedImageExtensions maps extensions to content types
var AllowedImageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// AllowedVideoExtensions maps extensions to content types
var AllowedVideoExtensions = map[string]string{
	".mp4":  "video/mp4",
	".webm": "video/webm",
}

// MediaService validates assets and stores them on the media host. Images are
// re-encoded to a bounded-width JPEG before upload; videos pass through with
// size and format checks only.
type MediaService struct {
	storage storage.MediaRepository
}

// NewMediaService creates a new MediaService. A nil storage disables uploads.
func NewMediaService(storage storage.MediaRepository) *MediaService {
	return &MediaService{storage: storage}
}

// IsEnabled indicates whether uploads are supported (storage configured)
func (s *MediaService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// Upload implements domain.MediaUploader
func (s *MediaService) Upload(ctx context.Context, att domain.Attachment) (domain.UploadResult, error) {
	if !s.IsEnabled() {
		return domain.UploadResult{}, domain.ErrMediaNotEnabled
	}
	switch att.Kind {
	case domain.MediaVideo:
		return s.uploadVideo(ctx, att)
	default:
		return s.uploadImage(ctx, att)
	}
}

// ValidateImage validates image format, size and dimensions
func (s *MediaService) ValidateImage(data []byte, filename string) error {
	_, err := s.validateAndDecode(data, filename)
	return err
}

// validateAndDecode validates the image and returns the decoded image
func (s *MediaService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := AllowedImageExtensions[ext]; !ok {
		return nil, ErrInvalidFormat
	}

	// Decode to verify it's a real image and check dimensions
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImageData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinImageWidth || bounds.Dy() < MinImageHeight {
		return nil, ErrImageTooSmall
	}

	return img, nil
}

func (s *MediaService) uploadImage(ctx context.Context, att domain.Attachment) (domain.UploadResult, error) {
	img, err := s.validateAndDecode(att.Data, att.Filename)
	if err != nil {
		return domain.UploadResult{}, err
	}

	if img.Bounds().Dx() > DisplayWidth {
		img = imaging.Resize(img, DisplayWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return domain.UploadResult{}, fmt.Errorf("failed to encode image: %w", err)
	}

	objectPath := storage.GenerateObjectPath(string(domain.MediaImage), ".jpg")
	url, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len()))
	if err != nil {
		return domain.UploadResult{}, wrapUploadFailure(err)
	}

	return domain.UploadResult{URL: url, Kind: domain.MediaImage}, nil
}

func (s *MediaService) uploadVideo(ctx context.Context, att domain.Attachment) (domain.UploadResult, error) {
	if len(att.Data) > MaxVideoSize {
		return domain.UploadResult{}, ErrVideoTooLarge
	}

	ext := strings.ToLower(filepath.Ext(att.Filename))
	contentType, ok := AllowedVideoExtensions[ext]
	if !ok {
		return domain.UploadResult{}, ErrInvalidVideo
	}

	objectPath := storage.GenerateObjectPath(string(domain.MediaVideo), ext)
	url, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(att.Data), contentType, int64(len(att.Data)))
	if err != nil {
		return domain.UploadResult{}, wrapUploadFailure(err)
	}

	return domain.UploadResult{URL: url, Kind: domain.MediaVideo}, nil
}

// wrapUploadFailure classifies a storage error so callers can distinguish an
// unreachable media host from a rejected upload
func wrapUploadFailure(err error) error {
	var re *domain.RemoteError
	if errors.As(err, &re) {
		return err
	}
	return domain.NewRemoteError(domain.FailureNetwork, "", err)
}

// KindForFilename guesses the media kind from a file extension
func KindForFilename(filename string) (domain.MediaKind, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := AllowedImageExtensions[ext]; ok {
		return domain.MediaImage, true
	}
	if _, ok := AllowedVideoExtensions[ext]; ok {
		return domain.MediaVideo, true
	}
	return "", false
}

var _ domain.MediaUploader = (*MediaService)(nil)
