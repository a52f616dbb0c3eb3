package models

import "time"

// Notification is a site-wide banner message. At most one notification is
// active at a time; activating one deactivates the rest. The optional
// display window further limits when an active notification is shown.
type Notification struct {
	ID       string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Message  string     `json:"message" validate:"required,max=500"`
	IsActive bool       `json:"is_active" gorm:"index"`
	StartsAt *time.Time `json:"starts_at,omitempty"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VisibleAt reports whether the notification should be displayed at t:
// it must be active and t must fall inside the display window when one
// is set.
func (n *Notification) VisibleAt(t time.Time) bool {
	if !n.IsActive {
		return false
	}
	if n.StartsAt != nil && t.Before(*n.StartsAt) {
		return false
	}
	if n.EndsAt != nil && t.After(*n.EndsAt) {
		return false
	}
	return true
}
