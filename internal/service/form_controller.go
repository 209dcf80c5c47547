package service

import (
	"context"
	"net/mail"
	"regexp"
	"strings"
	"sync"

	"github.com/avantaimpex/console-backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ()\-\.]{5,19}$`)

// FormConfig describes one public form instance. Validation is declarative so
// the same controller serves the contact, lead and review forms.
type FormConfig struct {
	// Name is the singular form name used in notifications, e.g. "inquiry"
	Name string
	// ClearOnSuccess empties the fields after a successful submission.
	// Observed behavior differs per form, so it is a per-instance choice.
	ClearOnSuccess bool
	// Required lists fields that must be non-blank
	Required []string
	// EmailFields must parse as addresses when non-blank
	EmailFields []string
	// PhoneFields must look like phone numbers when non-blank
	PhoneFields []string
	// RequireOneOf lists groups where at least one member must be non-blank
	RequireOneOf [][]string
	// Defaults are constant payload fields the submitter never sets, e.g.
	// a review's initial moderation status
	Defaults domain.Payload
}

// FormController manages a single-shot form: validate, upload any
// attachments, create against the bound collection, reset. Unlike a Manager
// it keeps no durable local collection. Failed submissions preserve the
// typed fields so the user never re-enters them.
type FormController[T domain.Entity] struct {
	mu          sync.Mutex
	cfg         FormConfig
	collection  domain.Collection[T]
	uploader    domain.MediaUploader
	notifier    *Notifier
	fields      domain.Payload
	attachments []domain.Attachment
	submitting  bool
}

// NewFormController creates a controller for one form instance
func NewFormController[T domain.Entity](cfg FormConfig, collection domain.Collection[T], uploader domain.MediaUploader, notifier *Notifier) *FormController[T] {
	return &FormController[T]{
		cfg:        cfg,
		collection: collection,
		uploader:   uploader,
		notifier:   notifier,
		fields:     domain.Payload{},
	}
}

// SetField records one typed field value
func (f *FormController[T]) SetField(name string, value any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields[name] = value
}

// SetFields records several typed field values at once
func (f *FormController[T]) SetFields(values domain.Payload) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, v := range values {
		f.fields[k] = v
	}
}

// Fields returns a copy of the current field values
func (f *FormController[T]) Fields() domain.Payload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields.Clone()
}

// Notification returns the submission outcome message, if one is live
func (f *FormController[T]) Notification() *Notification {
	return f.notifier.Current()
}

// Attach stores a local file to be uploaded on submit
func (f *FormController[T]) Attach(att domain.Attachment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attachments = append(f.attachments, att)
}

// Validate runs the local field checks. It is synchronous and touches no
// network; an invalid form produces no side effects anywhere.
func (f *FormController[T]) Validate() error {
	f.mu.Lock()
	fields := f.fields.Clone()
	f.mu.Unlock()
	return validateForm(f.cfg, fields)
}

// Submit validates, uploads attachments all-or-nothing, then creates the
// record on the remote backend. Fields are preserved on any failure and
// cleared on success only when the instance is configured to do so.
func (f *FormController[T]) Submit(ctx context.Context) (T, error) {
	var zero T

	// Check and take the gate in one critical section so two concurrent
	// submits can never both pass the check
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return zero, domain.ErrSubmitInFlight
	}
	f.submitting = true
	fields := f.fields.Clone()
	atts := make([]domain.Attachment, len(f.attachments))
	copy(atts, f.attachments)
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	// Validation runs to completion before any network call
	if err := validateForm(f.cfg, fields); err != nil {
		return zero, err
	}

	urls, err := f.uploadAll(ctx, atts)
	if err != nil {
		f.notifier.Error(uploadFailureText(err))
		return zero, err
	}

	// Defaults are applied last so a submitter can never override them
	payload := domain.Payload{}
	for k, v := range fields {
		payload[k] = v
	}
	for k, v := range f.cfg.Defaults {
		payload[k] = v
	}
	for field, fieldURLs := range urls {
		if len(fieldURLs) == 1 {
			payload[field] = fieldURLs[0]
		} else {
			payload[field] = fieldURLs
		}
	}

	item, err := f.collection.Create(ctx, payload)
	if err != nil {
		f.notifier.Error(domain.RemoteMessage(err, "failed to send, please try again"))
		return zero, err
	}

	if f.cfg.ClearOnSuccess {
		f.mu.Lock()
		f.fields = domain.Payload{}
		f.attachments = nil
		f.mu.Unlock()
	}

	f.notifier.Success(f.cfg.Name + " sent, thank you")
	return item, nil
}

// uploadAll uploads every attachment concurrently, all-or-nothing, grouping
// resolved URLs by target field
func (f *FormController[T]) uploadAll(ctx context.Context, atts []domain.Attachment) (map[string][]string, error) {
	if len(atts) == 0 {
		return nil, nil
	}

	results := make([]domain.UploadResult, len(atts))
	g, gctx := errgroup.WithContext(ctx)
	for i, att := range atts {
		g.Go(func() error {
			res, err := f.uploader.Upload(gctx, att)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	urls := make(map[string][]string)
	for i, att := range atts {
		urls[att.Field] = append(urls[att.Field], results[i].URL)
	}
	return urls, nil
}

// validateForm applies the declarative checks from the config
func validateForm(cfg FormConfig, fields domain.Payload) error {
	var errs domain.ValidationErrors

	for _, name := range cfg.Required {
		if blank(fields[name]) {
			errs = append(errs, domain.FieldError{Field: name, Message: "this field is required"})
		}
	}

	for _, name := range cfg.EmailFields {
		v := stringValue(fields[name])
		if v == "" {
			continue
		}
		if _, err := mail.ParseAddress(v); err != nil {
			errs = append(errs, domain.FieldError{Field: name, Message: "must be a valid email address"})
		}
	}

	for _, name := range cfg.PhoneFields {
		v := stringValue(fields[name])
		if v == "" {
			continue
		}
		if !phonePattern.MatchString(v) {
			errs = append(errs, domain.FieldError{Field: name, Message: "must be a valid phone number"})
		}
	}

	for _, group := range cfg.RequireOneOf {
		ok := false
		for _, name := range group {
			if !blank(fields[name]) {
				ok = true
				break
			}
		}
		if !ok {
			errs = append(errs, domain.FieldError{
				Field:   strings.Join(group, "|"),
				Message: "at least one of these fields is required",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func stringValue(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func blank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}
