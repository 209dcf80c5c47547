package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/avantaimpex/console-backend/internal/domain"
	"github.com/avantaimpex/console-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// MediaHandler uploads standalone media files, outside the draft flow.
// Useful for rich text bodies that embed images by URL.
type MediaHandler struct {
	media  *service.MediaService
	logger zerolog.Logger
}

func NewMediaHandler(media *service.MediaService, logger zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		media:  media,
		logger: logger.With().Str("component", "media_handler").Logger(),
	}
}

func (h *MediaHandler) Register(g *echo.Group) {
	g.POST("/media", h.Upload)
}

type mediaUploadResponse struct {
	URL  string `json:"url"`
	Kind string `json:"kind"`
}

func (h *MediaHandler) Upload(c echo.Context) error {
	if !h.media.IsEnabled() {
		return NewServiceUnavailableError(c, "media storage is not configured")
	}
	file, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "file is required", nil)
	}
	kind, ok := service.KindForFilename(file.Filename)
	if !ok {
		return NewValidationError(c, "unsupported file format", nil)
	}
	src, err := file.Open()
	if err != nil {
		return NewInternalError(c, "failed to read uploaded file")
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return NewInternalError(c, "failed to read uploaded file")
	}

	result, err := h.media.Upload(c.Request().Context(), domain.Attachment{
		Field:    "file",
		Kind:     kind,
		Filename: file.Filename,
		Data:     data,
	})
	if err != nil {
		if isMediaValidationError(err) {
			return NewValidationError(c, err.Error(), nil)
		}
		h.logger.Error().Err(err).Str("filename", file.Filename).Msg("media upload failed")
		return remoteFailureResponse(c, err, "failed to upload media")
	}
	return c.JSON(http.StatusCreated, mediaUploadResponse{URL: result.URL, Kind: string(result.Kind)})
}

func isMediaValidationError(err error) bool {
	return errors.Is(err, service.ErrImageTooLarge) ||
		errors.Is(err, service.ErrVideoTooLarge) ||
		errors.Is(err, service.ErrImageTooSmall) ||
		errors.Is(err, service.ErrInvalidFormat) ||
		errors.Is(err, service.ErrInvalidVideo) ||
		errors.Is(err, service.ErrInvalidImageData)
}
