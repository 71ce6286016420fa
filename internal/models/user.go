package models

import "time"

// User is an anonymous identity auto-provisioned on first use.
// IDs are opaque strings generated by the client (local storage) or by the
// server when only an email is known; there is no authentication layer.
type User struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"unique;not null;index" json:"email"`
	Plan      string    `gorm:"not null;default:'FREE'" json:"plan"`
	Invoices  []Invoice `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
