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

// AdminCollectionHandler exposes the draft lifecycle of a collection manager
// over HTTP. One instance serves one resource under /admin.
type AdminCollectionHandler[T domain.Entity] struct {
	manager *service.Manager[T]
	logger  zerolog.Logger
}

func NewAdminCollectionHandler[T domain.Entity](manager *service.Manager[T], logger zerolog.Logger) *AdminCollectionHandler[T] {
	return &AdminCollectionHandler[T]{
		manager: manager,
		logger:  logger.With().Str("component", "admin_"+manager.Entity()+"_handler").Logger(),
	}
}

// Register mounts the handler under the given group, e.g. /admin/products
func (h *AdminCollectionHandler[T]) Register(g *echo.Group) {
	g.GET("", h.List)
	g.POST("/refresh", h.Refresh)
	g.POST("/draft", h.BeginCreate)
	g.POST("/:id/draft", h.BeginEdit)
	g.GET("/draft", h.GetDraft)
	g.PATCH("/draft", h.UpdateDraft)
	g.DELETE("/draft", h.CancelDraft)
	g.POST("/draft/attachments", h.AttachFile)
	g.POST("/draft/submit", h.SubmitDraft)
	g.DELETE("/:id", h.Delete)
}

type collectionResponse[T domain.Entity] struct {
	Items []T    `json:"items"`
	State string `json:"state"`
}

type draftResponse struct {
	ItemID   string         `json:"item_id,omitempty"`
	IsCreate bool           `json:"is_create"`
	Changes  domain.Payload `json:"changes"`
	State    string         `json:"state"`
}

func (h *AdminCollectionHandler[T]) draftJSON(c echo.Context, status int) error {
	d := h.manager.Draft()
	if d == nil {
		return NewNotFoundError(c, "no draft in progress")
	}
	return c.JSON(status, draftResponse{
		ItemID:   d.ItemID(),
		IsCreate: d.IsCreate(),
		Changes:  d.Changes(),
		State:    string(h.manager.State()),
	})
}

// List returns the cached items, loading them on first access
func (h *AdminCollectionHandler[T]) List(c echo.Context) error {
	if err := h.manager.EnsureLoaded(c.Request().Context()); err != nil {
		h.logger.Error().Err(err).Msg("failed to load collection")
		return remoteFailureResponse(c, err, "failed to load "+h.manager.Entity()+" list")
	}
	return c.JSON(http.StatusOK, collectionResponse[T]{
		Items: h.manager.Items(),
		State: string(h.manager.State()),
	})
}

// Refresh re-fetches the collection from the remote backend
func (h *AdminCollectionHandler[T]) Refresh(c echo.Context) error {
	if err := h.manager.Load(c.Request().Context()); err != nil {
		h.logger.Error().Err(err).Msg("failed to refresh collection")
		return remoteFailureResponse(c, err, "failed to refresh "+h.manager.Entity()+" list")
	}
	return c.JSON(http.StatusOK, collectionResponse[T]{
		Items: h.manager.Items(),
		State: string(h.manager.State()),
	})
}

// BeginCreate opens a creation draft. A draft already in progress is refused
// unless the caller passes ?discard=true to abandon it first.
func (h *AdminCollectionHandler[T]) BeginCreate(c echo.Context) error {
	if c.QueryParam("discard") == "true" {
		if err := h.manager.CancelEdit(); err != nil {
			return NewConflictError(c, "cannot discard draft while a submit is in flight")
		}
	}
	if _, err := h.manager.BeginCreate(); err != nil {
		return h.draftConflict(c, err)
	}
	return h.draftJSON(c, http.StatusCreated)
}

// BeginEdit opens an editing draft seeded from the cached item
func (h *AdminCollectionHandler[T]) BeginEdit(c echo.Context) error {
	if c.QueryParam("discard") == "true" {
		if err := h.manager.CancelEdit(); err != nil {
			return NewConflictError(c, "cannot discard draft while a submit is in flight")
		}
	}
	if _, err := h.manager.BeginEdit(c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrItemNotCached) {
			return NewNotFoundError(c, h.manager.Entity()+" not found in the loaded list")
		}
		return h.draftConflict(c, err)
	}
	return h.draftJSON(c, http.StatusCreated)
}

// GetDraft returns the draft in progress
func (h *AdminCollectionHandler[T]) GetDraft(c echo.Context) error {
	return h.draftJSON(c, http.StatusOK)
}

// UpdateDraft applies field changes to the draft
func (h *AdminCollectionHandler[T]) UpdateDraft(c echo.Context) error {
	var changes domain.Payload
	if err := c.Bind(&changes); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	for field, value := range changes {
		if err := h.manager.SetField(field, value); err != nil {
			if errors.Is(err, domain.ErrNoDraft) {
				return NewNotFoundError(c, "no draft in progress")
			}
			return NewConflictError(c, "draft is being submitted")
		}
	}
	return h.draftJSON(c, http.StatusOK)
}

// CancelDraft discards the draft in progress
func (h *AdminCollectionHandler[T]) CancelDraft(c echo.Context) error {
	if h.manager.Draft() == nil {
		return NewNotFoundError(c, "no draft in progress")
	}
	if err := h.manager.CancelEdit(); err != nil {
		return NewConflictError(c, "cannot discard draft while a submit is in flight")
	}
	return c.NoContent(http.StatusNoContent)
}

// AttachFile queues a multipart file on the draft for upload at submit time
func (h *AdminCollectionHandler[T]) AttachFile(c echo.Context) error {
	field := c.FormValue("field")
	if field == "" {
		return NewValidationError(c, "field is required", nil)
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
	if err := h.manager.AttachFile(field, kind, file.Filename, data); err != nil {
		if errors.Is(err, domain.ErrNoDraft) {
			return NewNotFoundError(c, "no draft in progress")
		}
		return NewConflictError(c, "draft is being submitted")
	}
	return h.draftJSON(c, http.StatusOK)
}

// SubmitDraft uploads attachments and sends the draft to the remote backend
func (h *AdminCollectionHandler[T]) SubmitDraft(c echo.Context) error {
	item, err := h.manager.Submit(c.Request().Context())
	if err != nil {
		if errors.Is(err, domain.ErrNoDraft) {
			return NewNotFoundError(c, "no draft in progress")
		}
		if errors.Is(err, domain.ErrSubmitInFlight) {
			return NewConflictError(c, "a submit is already in flight")
		}
		h.logger.Error().Err(err).Str("entity", h.manager.Entity()).Msg("draft submit failed")
		return remoteFailureResponse(c, err, "failed to save "+h.manager.Entity())
	}
	return c.JSON(http.StatusOK, item)
}

// Delete removes an item. The caller must confirm with ?confirm=true.
func (h *AdminCollectionHandler[T]) Delete(c echo.Context) error {
	if c.QueryParam("confirm") != "true" {
		return NewValidationError(c, "deletion must be confirmed with confirm=true", nil)
	}
	if err := h.manager.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrSubmitInFlight) {
			return NewConflictError(c, "a submit is already in flight")
		}
		h.logger.Error().Err(err).Str("id", c.Param("id")).Msg("delete failed")
		return remoteFailureResponse(c, err, "failed to delete "+h.manager.Entity())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminCollectionHandler[T]) draftConflict(c echo.Context, err error) error {
	if errors.Is(err, domain.ErrSubmitInFlight) {
		return NewConflictError(c, "a submit is already in flight")
	}
	if errors.Is(err, domain.ErrDraftActive) {
		return NewConflictError(c, "another draft is in progress; discard it first")
	}
	return NewInternalError(c, "failed to open draft")
}
