package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidIntent = errors.New("inquiry intent must be buy or sell")

// InquiryIntent is the direction of a trade lead
type InquiryIntent string

const (
	IntentBuy  InquiryIntent = "buy"
	IntentSell InquiryIntent = "sell"
)

// TradeInquiry is a buy/sell lead captured from the public site and pushed to
// the remote backend. It is write-only from this service's point of view.
type TradeInquiry struct {
	ID             string           `json:"id,omitempty"`
	Intent         InquiryIntent    `json:"intent"`
	Company        string           `json:"company,omitempty"`
	ContactName    string           `json:"contactName"`
	Email          string           `json:"email,omitempty"`
	Phone          string           `json:"phone,omitempty"`
	Commodity      string           `json:"commodity"`
	Quantity       *decimal.Decimal `json:"quantity,omitempty"`
	Unit           string           `json:"unit,omitempty"`
	TargetPrice    *decimal.Decimal `json:"targetPrice,omitempty"`
	Message        string           `json:"message,omitempty"`
	AttachmentURLs []string         `json:"attachmentUrls,omitempty"`
	CreatedAt      time.Time        `json:"createdAt,omitempty"`
}

// EntityID implements Entity
func (i TradeInquiry) EntityID() string {
	return i.ID
}

// EditableFields implements Entity
func (i TradeInquiry) EditableFields() Payload {
	fields := Payload{
		"intent":         string(i.Intent),
		"company":        i.Company,
		"contactName":    i.ContactName,
		"email":          i.Email,
		"phone":          i.Phone,
		"commodity":      i.Commodity,
		"unit":           i.Unit,
		"message":        i.Message,
		"attachmentUrls": copyStrings(i.AttachmentURLs),
	}
	if i.Quantity != nil {
		fields["quantity"] = i.Quantity.String()
	}
	if i.TargetPrice != nil {
		fields["targetPrice"] = i.TargetPrice.String()
	}
	return fields
}
