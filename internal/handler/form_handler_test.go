package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/avantaimpex/console-backend/internal/domain"
	"github.com/avantaimpex/console-backend/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type formFixture struct {
	e         *echo.Echo
	messages  *testutil.MockCollection[domain.ContactMessage]
	inquiries *testutil.MockCollection[domain.TradeInquiry]
	reviews   *testutil.MockCollection[domain.Review]
	uploader  *testutil.MockUploader
}

func newFormFixture() *formFixture {
	f := &formFixture{
		e:         echo.New(),
		messages:  testutil.NewMockCollection[domain.ContactMessage](),
		inquiries: testutil.NewMockCollection[domain.TradeInquiry](),
		reviews:   testutil.NewMockCollection[domain.Review](),
		uploader:  testutil.NewMockUploader(),
	}
	handler := NewFormHandler(f.messages, f.inquiries, f.reviews, f.uploader, zerolog.Nop())
	handler.Register(f.e.Group(""))
	return f
}

func (f *formFixture) postJSON(target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func TestContactFormAccepted(t *testing.T) {
	f := newFormFixture()
	f.messages.CreateFn = func(payload domain.Payload) (domain.ContactMessage, error) {
		return domain.ContactMessage{ID: "m1", Name: payload["name"].(string)}, nil
	}

	rec := f.postJSON("/contact", `{"name":"A Buyer","message":"quote please","email":"buyer@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body formResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Notification)
	assert.Equal(t, "success", string(body.Notification.Kind))
	// Contact form clears after a successful send
	assert.Empty(t, body.Fields)
}

func TestContactFormValidationErrors(t *testing.T) {
	f := newFormFixture()

	rec := f.postJSON("/contact", `{"name":"A Buyer"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var problem ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, ErrorTypeValidation, problem.Type)
	// message missing plus no contact channel
	assert.Len(t, problem.Errors, 2)
	assert.Equal(t, 0, f.messages.CreateCalls)
}

func TestContactFormBackendDown(t *testing.T) {
	f := newFormFixture()
	f.messages.CreateErr = domain.NewRemoteError(domain.FailureNetwork, "", nil)

	rec := f.postJSON("/contact", `{"name":"A Buyer","message":"hello","email":"buyer@example.com"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestReviewFormForcesPendingStatus(t *testing.T) {
	f := newFormFixture()

	rec := f.postJSON("/reviews", `{"author":"A Customer","message":"great service","status":"approved"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "pending", f.reviews.LastCreatePayload["status"])

	// Review form keeps the typed fields after sending
	var body formResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "A Customer", body.Fields["author"])
}

func TestInquiryFormMultipartWithAttachment(t *testing.T) {
	f := newFormFixture()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("contactName", "An Importer"))
	require.NoError(t, w.WriteField("intent", "buy"))
	require.NoError(t, w.WriteField("commodity", "basmati rice"))
	require.NoError(t, w.WriteField("email", "importer@example.com"))
	part, err := w.CreateFormFile("attachmentUrls", "spec.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("image-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/inquiries", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, f.uploader.UploadCount())
	// The uploaded file resolves to a URL on the outgoing payload
	url, ok := f.inquiries.LastCreatePayload["attachmentUrls"].(string)
	require.True(t, ok)
	assert.Contains(t, url, "spec.jpg")
}

func TestInquiryFormRejectsUnknownFileType(t *testing.T) {
	f := newFormFixture()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("contactName", "An Importer"))
	part, err := w.CreateFormFile("attachmentUrls", "malware.exe")
	require.NoError(t, err)
	_, err = part.Write([]byte("bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/inquiries", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, f.inquiries.CreateCalls)
}
