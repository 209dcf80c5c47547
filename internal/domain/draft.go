package domain

// MediaKind distinguishes the two asset types the media host accepts
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// UploadResult is the outcome of one successful media upload: a stable
// absolute URL plus the resource kind. It is never cached beyond the single
// submission that produced it.
type UploadResult struct {
	URL  string    `json:"url"`
	Kind MediaKind `json:"kind"`
}

// Attachment is a local file pending upload. It has no URL until the media
// host accepts it.
type Attachment struct {
	Field    string
	Kind     MediaKind
	Filename string
	Data     []byte
}

// Draft is the single in-progress, unsaved edit of one collection item. It
// tracks pending changes as an explicit field set, so a partial update sends
// exactly what was touched and nothing else.
type Draft struct {
	itemID      string
	base        Payload
	changes     Payload
	attachments []Attachment
}

// NewDraft creates an empty create-mode draft
func NewDraft() *Draft {
	return &Draft{
		base:    Payload{},
		changes: Payload{},
	}
}

// NewDraftFor creates an edit-mode draft seeded from the item's current
// field values. The seed is copied by value; mutating the draft never
// touches the cached item.
func NewDraftFor(item Entity) *Draft {
	base := Payload{}
	for k, v := range item.EditableFields() {
		if s, ok := v.([]string); ok {
			base[k] = copyStrings(s)
		} else {
			base[k] = v
		}
	}
	return &Draft{
		itemID:  item.EntityID(),
		base:    base,
		changes: Payload{},
	}
}

// ItemID returns the edited item's identifier, or "" in create mode
func (d *Draft) ItemID() string {
	return d.itemID
}

// IsCreate reports whether the draft targets a new item
func (d *Draft) IsCreate() bool {
	return d.itemID == ""
}

// Set records a pending change to one field
func (d *Draft) Set(field string, value any) {
	d.changes[field] = value
}

// Field returns the draft's current view of a field: the pending change if
// one exists, else the seeded base value.
func (d *Draft) Field(name string) (any, bool) {
	if v, ok := d.changes[name]; ok {
		return v, true
	}
	v, ok := d.base[name]
	return v, ok
}

// Changes returns a copy of the pending change set
func (d *Draft) Changes() Payload {
	return d.changes.Clone()
}

// Changed reports whether any field has a pending change
func (d *Draft) Changed() bool {
	return len(d.changes) > 0
}

// Attach stores a local file on the draft. No upload happens until submit.
func (d *Draft) Attach(att Attachment) {
	d.attachments = append(d.attachments, att)
}

// Attachments returns the pending attachments in the order they were added
func (d *Draft) Attachments() []Attachment {
	out := make([]Attachment, len(d.attachments))
	copy(out, d.attachments)
	return out
}
