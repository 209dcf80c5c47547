package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/avantaimpex/console-backend/internal/domain"
	"github.com/google/uuid"
)

// MockCollection is a mock implementation of domain.Collection backed by an
// in-memory slice. Error fields inject failures per operation; call counters
// and recorded payloads let tests assert exactly what went over the wire.
type MockCollection[T domain.Entity] struct {
	mu sync.Mutex

	Items []T

	ListErr   error
	GetErr    error
	CreateErr error
	UpdateErr error
	RemoveErr error

	ListCalls   int
	CreateCalls int
	UpdateCalls int
	RemoveCalls int

	LastCreatePayload domain.Payload
	LastUpdatePayload domain.Payload
	LastUpdateID      string
	LastRemoveID      string

	// CreateFn overrides the default create behavior when set
	CreateFn func(payload domain.Payload) (T, error)
}

// NewMockCollection creates a mock collection seeded with the given items
func NewMockCollection[T domain.Entity](items ...T) *MockCollection[T] {
	return &MockCollection[T]{Items: items}
}

// List returns the seeded items
func (m *MockCollection[T]) List(ctx context.Context) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]T, len(m.Items))
	copy(out, m.Items)
	return out, nil
}

// Get returns the item with the given ID
func (m *MockCollection[T]) Get(ctx context.Context, id string) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	if m.GetErr != nil {
		return zero, m.GetErr
	}
	for _, item := range m.Items {
		if item.EntityID() == id {
			return item, nil
		}
	}
	return zero, domain.NewRemoteError(domain.FailureNotFound, "not found", nil)
}

// Create records the payload and returns either CreateFn's result or the
// zero value of the item type
func (m *MockCollection[T]) Create(ctx context.Context, payload domain.Payload) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	m.LastCreatePayload = payload.Clone()
	var zero T
	if m.CreateErr != nil {
		return zero, m.CreateErr
	}
	if m.CreateFn != nil {
		return m.CreateFn(payload)
	}
	return zero, nil
}

// Update records the partial payload and returns the stored item unchanged
func (m *MockCollection[T]) Update(ctx context.Context, id string, payload domain.Payload) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	m.LastUpdateID = id
	m.LastUpdatePayload = payload.Clone()
	var zero T
	if m.UpdateErr != nil {
		return zero, m.UpdateErr
	}
	for _, item := range m.Items {
		if item.EntityID() == id {
			return item, nil
		}
	}
	return zero, domain.NewRemoteError(domain.FailureNotFound, "not found", nil)
}

// Remove records the ID and deletes the item from the backing slice
func (m *MockCollection[T]) Remove(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RemoveCalls++
	m.LastRemoveID = id
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	for i, item := range m.Items {
		if item.EntityID() == id {
			m.Items = append(m.Items[:i], m.Items[i+1:]...)
			return nil
		}
	}
	return domain.NewRemoteError(domain.FailureNotFound, "not found", nil)
}

// MockUploader is a mock implementation of domain.MediaUploader. Failures
// are injected per filename.
type MockUploader struct {
	mu sync.Mutex

	FailFilenames map[string]error
	Uploaded      []domain.Attachment
}

// NewMockUploader creates a new MockUploader
func NewMockUploader() *MockUploader {
	return &MockUploader{FailFilenames: make(map[string]error)}
}

// Upload records the attachment and returns a synthetic URL
func (m *MockUploader) Upload(ctx context.Context, att domain.Attachment) (domain.UploadResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.FailFilenames[att.Filename]; ok {
		return domain.UploadResult{}, err
	}
	m.Uploaded = append(m.Uploaded, att)
	return domain.UploadResult{
		URL:  fmt.Sprintf("https://media.test/%s/%s", uuid.NewString(), att.Filename),
		Kind: att.Kind,
	}, nil
}

// UploadCount returns how many uploads succeeded
func (m *MockUploader) UploadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Uploaded)
}

// MockSessionVerifier is a mock implementation of middleware.SessionVerifier
type MockSessionVerifier struct {
	Subjects map[string]string
	Err      error
}

// NewMockSessionVerifier creates a verifier accepting the given tokens
func NewMockSessionVerifier(tokens map[string]string) *MockSessionVerifier {
	return &MockSessionVerifier{Subjects: tokens}
}

// Verify returns the subject mapped to the token
func (m *MockSessionVerifier) Verify(token string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if subject, ok := m.Subjects[token]; ok {
		return subject, nil
	}
	return "", fmt.Errorf("unknown token")
}
