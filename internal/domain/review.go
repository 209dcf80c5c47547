package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrReviewAuthorEmpty   = errors.New("review author name is required")
	ErrReviewMessageEmpty  = errors.New("review message is required")
	ErrReviewInvalidRating = errors.New("review rating must be between 1 and 5")
	ErrReviewInvalidStatus = errors.New("invalid review status")
)

// ReviewStatus is the moderation state of a customer review
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// ValidReviewStatus reports whether s is a known moderation state
func ValidReviewStatus(s ReviewStatus) bool {
	switch s {
	case ReviewPending, ReviewApproved, ReviewRejected:
		return true
	}
	return false
}

// Review is a customer review. Public submissions land as pending; only
// approved reviews appear on the public site.
type Review struct {
	ID        string       `json:"id"`
	Author    string       `json:"author"`
	Company   string       `json:"company,omitempty"`
	Rating    int          `json:"rating"`
	Message   string       `json:"message"`
	Status    ReviewStatus `json:"status"`
	PhotoURL  string       `json:"photoUrl,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// EntityID implements Entity
func (r Review) EntityID() string {
	return r.ID
}

// EditableFields implements Entity
func (r Review) EditableFields() Payload {
	return Payload{
		"author":   r.Author,
		"company":  r.Company,
		"rating":   r.Rating,
		"message":  r.Message,
		"status":   string(r.Status),
		"photoUrl": r.PhotoURL,
	}
}

func (r *Review) Validate() error {
	if strings.TrimSpace(r.Author) == "" {
		return ErrReviewAuthorEmpty
	}
	if strings.TrimSpace(r.Message) == "" {
		return ErrReviewMessageEmpty
	}
	if r.Rating < 1 || r.Rating > 5 {
		return ErrReviewInvalidRating
	}
	if r.Status != "" && !ValidReviewStatus(r.Status) {
		return ErrReviewInvalidStatus
	}
	return nil
}
