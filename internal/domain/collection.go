package domain

import "context"

// Payload is the wire shape of a create or partial-update request. A partial
// update carries only the fields the caller intends to change; absent fields
// are left untouched server-side.
type Payload map[string]any

// Clone returns a shallow copy of the payload
func (p Payload) Clone() Payload {
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Entity is a server-owned record of one remote collection. The identifier is
// assigned on create, never reused and never mutated.
type Entity interface {
	EntityID() string
	// EditableFields returns a by-value snapshot of the fields an admin form
	// may change. Slices are copied so a draft never aliases the cached item.
	EditableFields() Payload
}

// Collection is a stateless typed client for one REST resource on the remote
// backend. Implementations never retry; retries are the caller's decision.
type Collection[T Entity] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, payload Payload) (T, error)
	Update(ctx context.Context, id string, payload Payload) (T, error)
	Remove(ctx context.Context, id string) error
}

// MediaUploader uploads one pending attachment to the media host and returns
// its stable URL. Safe for concurrent use. Uploads are not idempotent on the
// remote host, so callers must not retry blindly.
type MediaUploader interface {
	Upload(ctx context.Context, att Attachment) (UploadResult, error)
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
