package service

import (
	"context"
	"sync"

	"github.com/avantaimpex/console-backend/internal/domain"
	"github.com/avantaimpex/console-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ManagerState is the lifecycle state of one admin screen
type ManagerState string

const (
	StateIdle       ManagerState = "idle"
	StateEditing    ManagerState = "editing"
	StateSubmitting ManagerState = "submitting"
)

// Manager owns the authoritative local copy of one remote collection and the
// single in-flight draft edited against it. Mutations reconcile the cache in
// place instead of refetching; a full reload happens only when a mutation
// discovers the target no longer exists server-side.
//
// The Submitting state is a mutual-exclusion gate: while one mutation is in
// flight no second mutation can start and the draft is locked.
type Manager[T domain.Entity] struct {
	mu         sync.Mutex
	entity     string // singular entity name, e.g. "product"
	collection domain.Collection[T]
	uploader   domain.MediaUploader
	notifier   *Notifier
	publisher  websocket.EventPublisher

	state  ManagerState
	items  []T
	loaded bool
	draft  *domain.Draft
}

// NewManager creates a Manager for one resource. entity is the singular name
// used in notifications and change-feed events.
func NewManager[T domain.Entity](entity string, collection domain.Collection[T], uploader domain.MediaUploader, notifier *Notifier) *Manager[T] {
	return &Manager[T]{
		entity:     entity,
		collection: collection,
		uploader:   uploader,
		notifier:   notifier,
		publisher:  &websocket.NoOpPublisher{},
		state:      StateIdle,
	}
}

// SetEventPublisher sets the publisher for the admin change feed
func (m *Manager[T]) SetEventPublisher(publisher websocket.EventPublisher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publisher = publisher
}

// Entity returns the singular entity name the manager was created with
func (m *Manager[T]) Entity() string {
	return m.entity
}

// State returns the current lifecycle state
func (m *Manager[T]) State() ManagerState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Items returns a copy of the cached collection in its current order
func (m *Manager[T]) Items() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]T, len(m.items))
	copy(out, m.items)
	return out
}

// Item returns the cached item with the given id
func (m *Manager[T]) Item(id string) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.EntityID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Draft returns the active draft, or nil
func (m *Manager[T]) Draft() *domain.Draft {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft
}

// Load fetches the collection and replaces the cache wholesale. A fresh load
// is authoritative. On failure the previous cache and state are untouched, so
// a failed background refresh never blanks the screen.
func (m *Manager[T]) Load(ctx context.Context) error {
	items, err := m.collection.List(ctx)
	if err != nil {
		log.Warn().Err(err).Str("entity", m.entity).Msg("Collection load failed")
		return err
	}

	m.mu.Lock()
	m.items = items
	m.loaded = true
	m.mu.Unlock()

	m.publisher.Publish(websocket.CollectionRefreshed(m.entity))
	return nil
}

// EnsureLoaded loads the collection on first use only
func (m *Manager[T]) EnsureLoaded(ctx context.Context) error {
	m.mu.Lock()
	loaded := m.loaded
	m.mu.Unlock()
	if loaded {
		return nil
	}
	return m.Load(ctx)
}

// BeginCreate opens an empty create-mode draft. It refuses when a draft is
// already active; callers that want the old single-form behavior of dropping
// unsaved work call CancelEdit first, making the discard an explicit step.
func (m *Manager[T]) BeginCreate() (*domain.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateSubmitting {
		return nil, domain.ErrSubmitInFlight
	}
	if m.draft != nil {
		return nil, domain.ErrDraftActive
	}

	m.draft = domain.NewDraft()
	m.state = StateEditing
	return m.draft, nil
}

// BeginEdit opens an edit-mode draft seeded by value from the cached item
func (m *Manager[T]) BeginEdit(id string) (*domain.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateSubmitting {
		return nil, domain.ErrSubmitInFlight
	}
	if m.draft != nil {
		return nil, domain.ErrDraftActive
	}

	for _, it := range m.items {
		if it.EntityID() == id {
			m.draft = domain.NewDraftFor(it)
			m.state = StateEditing
			return m.draft, nil
		}
	}
	return nil, domain.ErrItemNotCached
}

// CancelEdit discards the active draft unconditionally and returns to Idle.
// The one exception is a locked draft: while a submission is in flight the
// draft cannot be dropped out from under it.
func (m *Manager[T]) CancelEdit() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateSubmitting {
		return domain.ErrSubmitInFlight
	}
	m.draft = nil
	m.state = StateIdle
	return nil
}

// SetField records a pending change on the active draft. Purely local; no
// network effect.
func (m *Manager[T]) SetField(field string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateSubmitting {
		return domain.ErrSubmitInFlight
	}
	if m.draft == nil {
		return domain.ErrNoDraft
	}
	m.draft.Set(field, value)
	return nil
}

// AttachFile stores a local file on the active draft. Nothing is uploaded
// until submit.
func (m *Manager[T]) AttachFile(field string, kind domain.MediaKind, filename string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateSubmitting {
		return domain.ErrSubmitInFlight
	}
	if m.draft == nil {
		return domain.ErrNoDraft
	}
	m.draft.Attach(domain.Attachment{Field: field, Kind: kind, Filename: filename, Data: data})
	return nil
}

// Submit runs the draft's pending uploads, then the create or update call,
// then reconciles the cache. On any failure the draft survives untouched so
// typed content is never lost; on success the draft is cleared.
func (m *Manager[T]) Submit(ctx context.Context) (T, error) {
	var zero T

	m.mu.Lock()
	if m.state == StateSubmitting {
		m.mu.Unlock()
		return zero, domain.ErrSubmitInFlight
	}
	if m.draft == nil {
		m.mu.Unlock()
		return zero, domain.ErrNoDraft
	}
	draft := m.draft
	m.state = StateSubmitting
	m.mu.Unlock()

	// All-or-nothing upload gate: if any upload fails, the mutation call is
	// never made and the failed attachment stays pending on the draft.
	uploads, err := m.uploadAttachments(ctx, draft)
	if err != nil {
		m.backToEditing()
		m.notifier.Error(uploadFailureText(err))
		return zero, err
	}

	payload := draft.Changes()
	mergeUploads(payload, draft, uploads)

	var item T
	if draft.IsCreate() {
		item, err = m.collection.Create(ctx, payload)
	} else {
		item, err = m.collection.Update(ctx, draft.ItemID(), payload)
	}
	if err != nil {
		m.backToEditing()
		m.reportMutationFailure(ctx, err, "failed to save "+m.entity+", please try again")
		return zero, err
	}

	m.mu.Lock()
	if draft.IsCreate() {
		m.items = append([]T{item}, m.items...)
	} else {
		m.replaceItem(item)
	}
	m.draft = nil
	m.state = StateIdle
	m.mu.Unlock()

	if draft.IsCreate() {
		m.notifier.Success(m.entity + " created")
		m.publisher.Publish(websocket.CollectionCreated(m.entity, item))
	} else {
		m.notifier.Success(m.entity + " updated")
		m.publisher.Publish(websocket.CollectionUpdated(m.entity, item))
	}
	return item, nil
}

// QuickUpdate sends a one-shot partial update without opening a draft, used
// for single-field actions like review moderation. It shares the Submitting
// gate with Submit and Delete and reconciles the cache the same way.
func (m *Manager[T]) QuickUpdate(ctx context.Context, id string, changes domain.Payload) (T, error) {
	var zero T

	m.mu.Lock()
	if m.state == StateSubmitting {
		m.mu.Unlock()
		return zero, domain.ErrSubmitInFlight
	}
	prev := m.state
	m.state = StateSubmitting
	m.mu.Unlock()

	item, err := m.collection.Update(ctx, id, changes)

	m.mu.Lock()
	m.state = prev
	if err == nil {
		m.replaceItem(item)
	}
	m.mu.Unlock()

	if err != nil {
		m.reportMutationFailure(ctx, err, "failed to update "+m.entity+", please try again")
		return zero, err
	}

	m.notifier.Success(m.entity + " updated")
	m.publisher.Publish(websocket.CollectionUpdated(m.entity, item))
	return item, nil
}

// Delete removes an item remotely and reconciles the cache in place. Callers
// are responsible for the explicit user confirmation step; this method
// assumes it already happened.
func (m *Manager[T]) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	if m.state == StateSubmitting {
		m.mu.Unlock()
		return domain.ErrSubmitInFlight
	}
	prev := m.state
	m.state = StateSubmitting
	m.mu.Unlock()

	err := m.collection.Remove(ctx, id)

	m.mu.Lock()
	m.state = prev
	if err == nil {
		kept := m.items[:0]
		for _, it := range m.items {
			if it.EntityID() != id {
				kept = append(kept, it)
			}
		}
		m.items = kept
	}
	m.mu.Unlock()

	if err != nil {
		m.reportMutationFailure(ctx, err, "failed to delete "+m.entity+", please try again")
		return err
	}

	m.notifier.Success(m.entity + " deleted")
	m.publisher.Publish(websocket.CollectionDeleted(m.entity, id))
	return nil
}

// backToEditing reopens the draft after a failed submission
func (m *Manager[T]) backToEditing() {
	m.mu.Lock()
	m.state = StateEditing
	m.mu.Unlock()
}

// replaceItem swaps the cached item with the same id in place, preserving
// collection order. An item the cache has never seen is prepended.
func (m *Manager[T]) replaceItem(item T) {
	for i, it := range m.items {
		if it.EntityID() == item.EntityID() {
			m.items[i] = item
			return
		}
	}
	m.items = append([]T{item}, m.items...)
}

// reportMutationFailure surfaces a mutation failure to the operator. A
// not-found answer means the cache references an entity the backend no longer
// has; local reconciliation cannot recover from that, so this is the one case
// that forces a full reload.
func (m *Manager[T]) reportMutationFailure(ctx context.Context, err error, fallback string) {
	if domain.IsNotFound(err) {
		m.notifier.Error("this " + m.entity + " no longer exists")
		if loadErr := m.Load(ctx); loadErr != nil {
			log.Warn().Err(loadErr).Str("entity", m.entity).Msg("Resync after not-found failed")
		}
		return
	}
	m.notifier.Error(domain.RemoteMessage(err, fallback))
}

// uploadAttachments runs every pending upload concurrently and returns the
// results in attachment order. Any single failure aborts the whole step.
func (m *Manager[T]) uploadAttachments(ctx context.Context, draft *domain.Draft) ([]domain.UploadResult, error) {
	atts := draft.Attachments()
	if len(atts) == 0 {
		return nil, nil
	}

	results := make([]domain.UploadResult, len(atts))
	g, gctx := errgroup.WithContext(ctx)
	for i, att := range atts {
		g.Go(func() error {
			res, err := m.uploader.Upload(gctx, att)
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
	return results, nil
}

// mergeUploads folds resolved upload URLs into the outgoing payload. Fields
// that collected several URLs, or whose draft value is already a string list,
// become lists; single-valued media fields take the lone URL.
func mergeUploads(payload domain.Payload, draft *domain.Draft, uploads []domain.UploadResult) {
	if len(uploads) == 0 {
		return
	}

	atts := draft.Attachments()
	byField := make(map[string][]string)
	order := make([]string, 0, len(atts))
	for i, att := range atts {
		if _, seen := byField[att.Field]; !seen {
			order = append(order, att.Field)
		}
		byField[att.Field] = append(byField[att.Field], uploads[i].URL)
	}

	for _, field := range order {
		urls := byField[field]
		existing, _ := draft.Field(field)
		if list, ok := existing.([]string); ok {
			payload[field] = append(copyList(list), urls...)
			continue
		}
		if len(urls) == 1 {
			payload[field] = urls[0]
			continue
		}
		payload[field] = urls
	}
}

func copyList(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// uploadFailureText picks the operator-facing message for a failed upload
func uploadFailureText(err error) string {
	if domain.FailureKindOf(err) != "" {
		return domain.RemoteMessage(err, "upload failed, please try again")
	}
	// Local validation of the file itself (size, format, dimensions)
	return err.Error()
}
