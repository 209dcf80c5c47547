package domain

import "time"

// ContactMessage is a contact-form submission pushed to the remote backend
type ContactMessage struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// EntityID implements Entity
func (m ContactMessage) EntityID() string {
	return m.ID
}

// EditableFields implements Entity
func (m ContactMessage) EditableFields() Payload {
	return Payload{
		"name":    m.Name,
		"email":   m.Email,
		"phone":   m.Phone,
		"subject": m.Subject,
		"message": m.Message,
	}
}
