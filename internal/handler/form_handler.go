package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/avantaimpex/console-backend/internal/domain"
	"github.com/avantaimpex/console-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// FormHandler serves the public contact, trade inquiry and review forms.
// Each request gets a fresh controller and notifier; forms carry no state
// between visitors.
type FormHandler struct {
	messages  domain.Collection[domain.ContactMessage]
	inquiries domain.Collection[domain.TradeInquiry]
	reviews   domain.Collection[domain.Review]
	uploader  domain.MediaUploader
	logger    zerolog.Logger
}

func NewFormHandler(
	messages domain.Collection[domain.ContactMessage],
	inquiries domain.Collection[domain.TradeInquiry],
	reviews domain.Collection[domain.Review],
	uploader domain.MediaUploader,
	logger zerolog.Logger,
) *FormHandler {
	return &FormHandler{
		messages:  messages,
		inquiries: inquiries,
		reviews:   reviews,
		uploader:  uploader,
		logger:    logger.With().Str("component", "form_handler").Logger(),
	}
}

func (h *FormHandler) Register(g *echo.Group) {
	g.POST("/contact", h.SubmitContact)
	g.POST("/inquiries", h.SubmitInquiry)
	g.POST("/reviews", h.SubmitReview)
}

type formResponse struct {
	Item         any                   `json:"item,omitempty"`
	Fields       domain.Payload        `json:"fields"`
	Notification *service.Notification `json:"notification,omitempty"`
}

var contactFormConfig = service.FormConfig{
	Name:           "message",
	ClearOnSuccess: true,
	Required:       []string{"name", "message"},
	EmailFields:    []string{"email"},
	PhoneFields:    []string{"phone"},
	RequireOneOf:   [][]string{{"email", "phone"}},
}

var inquiryFormConfig = service.FormConfig{
	Name:           "inquiry",
	ClearOnSuccess: true,
	Required:       []string{"contactName", "intent", "commodity"},
	EmailFields:    []string{"email"},
	PhoneFields:    []string{"phone"},
	RequireOneOf:   [][]string{{"email", "phone"}},
}

var reviewFormConfig = service.FormConfig{
	Name:           "review",
	ClearOnSuccess: false,
	Required:       []string{"author", "message"},
	EmailFields:    []string{"email"},
	Defaults:       domain.Payload{"status": string(domain.ReviewPending)},
}

// SubmitContact handles the contact form, JSON body only
func (h *FormHandler) SubmitContact(c echo.Context) error {
	var fields domain.Payload
	if err := c.Bind(&fields); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	ctl := service.NewFormController(contactFormConfig, h.messages, h.uploader, requestNotifier())
	ctl.SetFields(fields)
	return submitForm(c, h.logger, ctl)
}

// SubmitInquiry handles the trade inquiry form. Multipart so buyers can
// attach product photos or documents.
func (h *FormHandler) SubmitInquiry(c echo.Context) error {
	ctl := service.NewFormController(inquiryFormConfig, h.inquiries, h.uploader, requestNotifier())
	if err := bindMultipartForm(c, ctl); err != nil {
		return err
	}
	return submitForm(c, h.logger, ctl)
}

// SubmitReview handles the customer review form. New reviews always enter
// moderation as pending regardless of what the client sends.
func (h *FormHandler) SubmitReview(c echo.Context) error {
	var fields domain.Payload
	if err := c.Bind(&fields); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	ctl := service.NewFormController(reviewFormConfig, h.reviews, h.uploader, requestNotifier())
	ctl.SetFields(fields)
	return submitForm(c, h.logger, ctl)
}

// requestNotifier returns a throwaway notifier scoped to one request. The
// TTL only matters long enough to serialize the response.
func requestNotifier() *service.Notifier {
	return service.NewNotifier(time.Minute)
}

func submitForm[T domain.Entity](c echo.Context, logger zerolog.Logger, ctl *service.FormController[T]) error {
	item, err := ctl.Submit(c.Request().Context())
	if err != nil {
		var fieldErrors domain.ValidationErrors
		if errors.As(err, &fieldErrors) {
			return NewValidationError(c, "the form has invalid fields", fieldErrors)
		}
		logger.Error().Err(err).Msg("form submission failed")
		return remoteFailureResponse(c, err, "failed to send the form")
	}
	return c.JSON(http.StatusCreated, formResponse{
		Item:         item,
		Fields:       ctl.Fields(),
		Notification: ctl.Notification(),
	})
}

// bindMultipartForm copies text values and uploaded files from a multipart
// request onto a form controller
func bindMultipartForm[T domain.Entity](c echo.Context, ctl *service.FormController[T]) error {
	form, err := c.MultipartForm()
	if err != nil {
		return NewValidationError(c, "invalid multipart form", nil)
	}
	for name, values := range form.Value {
		if len(values) == 1 {
			ctl.SetField(name, values[0])
		} else if len(values) > 1 {
			ctl.SetField(name, values)
		}
	}
	for field, files := range form.File {
		for _, file := range files {
			kind, ok := service.KindForFilename(file.Filename)
			if !ok {
				return NewValidationError(c, "unsupported file format: "+file.Filename, nil)
			}
			src, err := file.Open()
			if err != nil {
				return NewInternalError(c, "failed to read uploaded file")
			}
			data, err := io.ReadAll(src)
			src.Close()
			if err != nil {
				return NewInternalError(c, "failed to read uploaded file")
			}
			ctl.Attach(domain.Attachment{Field: field, Kind: kind, Filename: file.Filename, Data: data})
		}
	}
	return nil
}
