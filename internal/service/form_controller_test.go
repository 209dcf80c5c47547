package service

import (
	"context"
	"testing"
	"time"

	"github.com/avantaimpex/console-backend/internal/domain"
	"github.com/avantaimpex/console-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contactConfig() FormConfig {
	return FormConfig{
		Name:           "message",
		ClearOnSuccess: true,
		Required:       []string{"name", "message"},
		EmailFields:    []string{"email"},
		PhoneFields:    []string{"phone"},
		RequireOneOf:   [][]string{{"email", "phone"}},
	}
}

func newContactForm(cfg FormConfig) (*FormController[domain.ContactMessage], *testutil.MockCollection[domain.ContactMessage], *testutil.MockUploader) {
	collection := testutil.NewMockCollection[domain.ContactMessage]()
	uploader := testutil.NewMockUploader()
	ctl := NewFormController(cfg, collection, uploader, NewNotifier(time.Minute))
	return ctl, collection, uploader
}

func TestFormValidationRunsBeforeAnyNetwork(t *testing.T) {
	ctl, collection, _ := newContactForm(contactConfig())
	ctl.SetField("name", "A Buyer")
	// message missing, no contact channel

	_, err := ctl.Submit(context.Background())
	require.Error(t, err)

	var fieldErrors domain.ValidationErrors
	require.ErrorAs(t, err, &fieldErrors)
	assert.Len(t, fieldErrors, 2)

	// An invalid form produces zero remote calls
	assert.Equal(t, 0, collection.CreateCalls)
}

func TestFormEmailAndPhoneChecks(t *testing.T) {
	tests := []struct {
		name    string
		fields  domain.Payload
		wantErr bool
	}{
		{"valid email", domain.Payload{"name": "A", "message": "hi", "email": "buyer@example.com"}, false},
		{"invalid email", domain.Payload{"name": "A", "message": "hi", "email": "not-an-email"}, true},
		{"valid phone", domain.Payload{"name": "A", "message": "hi", "phone": "+91 98765 43210"}, false},
		{"invalid phone", domain.Payload{"name": "A", "message": "hi", "phone": "call me"}, true},
		{"neither channel", domain.Payload{"name": "A", "message": "hi"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctl, _, _ := newContactForm(contactConfig())
			ctl.SetFields(tt.fields)
			err := ctl.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFormSubmitClearsFieldsWhenConfigured(t *testing.T) {
	ctl, collection, _ := newContactForm(contactConfig())
	collection.CreateFn = func(payload domain.Payload) (domain.ContactMessage, error) {
		return domain.ContactMessage{ID: "m1"}, nil
	}
	ctl.SetFields(domain.Payload{"name": "A Buyer", "message": "hello", "email": "buyer@example.com"})

	_, err := ctl.Submit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ctl.Fields())

	n := ctl.Notification()
	require.NotNil(t, n)
	assert.Equal(t, NotificationSuccess, n.Kind)
}

func TestFormSubmitKeepsFieldsWhenConfiguredNotToClear(t *testing.T) {
	cfg := contactConfig()
	cfg.ClearOnSuccess = false
	ctl, collection, _ := newContactForm(cfg)
	collection.CreateFn = func(payload domain.Payload) (domain.ContactMessage, error) {
		return domain.ContactMessage{ID: "m1"}, nil
	}
	ctl.SetFields(domain.Payload{"name": "A Buyer", "message": "hello", "email": "buyer@example.com"})

	_, err := ctl.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A Buyer", ctl.Fields()["name"])
}

func TestFormSubmitFailurePreservesFields(t *testing.T) {
	ctl, collection, _ := newContactForm(contactConfig())
	collection.CreateErr = domain.NewRemoteError(domain.FailureNetwork, "", nil)
	ctl.SetFields(domain.Payload{"name": "A Buyer", "message": "hello", "email": "buyer@example.com"})

	_, err := ctl.Submit(context.Background())
	require.Error(t, err)

	// The visitor never retypes after a network hiccup
	assert.Equal(t, "hello", ctl.Fields()["message"])
	n := ctl.Notification()
	require.NotNil(t, n)
	assert.Equal(t, NotificationError, n.Kind)
}

func TestFormDefaultsCannotBeOverridden(t *testing.T) {
	cfg := FormConfig{
		Name:     "review",
		Required: []string{"author", "message"},
		Defaults: domain.Payload{"status": "pending"},
	}
	ctl, collection, _ := newContactForm(cfg)
	// A submitter cannot smuggle a moderation state past the default
	ctl.SetFields(domain.Payload{"author": "A Customer", "message": "great service", "status": "approved"})

	_, err := ctl.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pending", collection.LastCreatePayload["status"])
}

func TestFormUploadFailureAbortsSubmission(t *testing.T) {
	ctl, collection, uploader := newContactForm(FormConfig{Name: "inquiry", Required: []string{"message"}})
	uploader.FailFilenames["broken.jpg"] = domain.NewRemoteError(domain.FailureNetwork, "", nil)

	ctl.SetField("message", "quote please")
	ctl.Attach(domain.Attachment{Field: "attachmentUrls", Kind: domain.MediaImage, Filename: "broken.jpg", Data: []byte("x")})

	_, err := ctl.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, collection.CreateCalls)
}

func TestFormSubmitGateIsExclusive(t *testing.T) {
	ctl, collection, _ := newContactForm(contactConfig())
	entered := make(chan struct{})
	release := make(chan struct{})
	collection.CreateFn = func(payload domain.Payload) (domain.ContactMessage, error) {
		close(entered)
		<-release
		return domain.ContactMessage{ID: "m1"}, nil
	}
	ctl.SetFields(domain.Payload{"name": "A Buyer", "message": "hello", "email": "buyer@example.com"})

	done := make(chan error, 1)
	go func() {
		_, err := ctl.Submit(context.Background())
		done <- err
	}()
	<-entered

	// A second submit is refused while the first is in flight
	_, err := ctl.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrSubmitInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, collection.CreateCalls)
}

func TestFormAttachmentsGroupedByField(t *testing.T) {
	ctl, collection, _ := newContactForm(FormConfig{Name: "inquiry", Required: []string{"message"}})
	ctl.SetField("message", "spec sheet attached")
	ctl.Attach(domain.Attachment{Field: "attachmentUrls", Kind: domain.MediaImage, Filename: "one.jpg", Data: []byte("a")})
	ctl.Attach(domain.Attachment{Field: "attachmentUrls", Kind: domain.MediaImage, Filename: "two.jpg", Data: []byte("b")})

	_, err := ctl.Submit(context.Background())
	require.NoError(t, err)

	urls, ok := collection.LastCreatePayload["attachmentUrls"].([]string)
	require.True(t, ok)
	assert.Len(t, urls, 2)
}
