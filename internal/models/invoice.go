package models

import "time"

// Invoicing models
type Invoice struct {
	ID            string        `gorm:"primaryKey" json:"id"`
	UserID        string        `gorm:"not null;index" json:"userId"`
	InvoiceNumber string        `gorm:"not null" json:"invoiceNumber"` // display label, not unique
	CustomerName  string        `gorm:"not null" json:"customerName"`
	CustomerEmail string        `json:"customerEmail,omitempty"`
	CustomerPhone string        `json:"customerPhone,omitempty"`
	Address       string        `json:"address,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	LogoURL       string        `json:"logoUrl,omitempty"`
	ThemeColor    string        `gorm:"not null;default:'#000000'" json:"themeColor"`
	Items         []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`
	Total         float64       `gorm:"not null" json:"total"`
	Status        string        `gorm:"not null;default:'pending'" json:"status"` // pending, paid, overdue
	IsPro         bool          `gorm:"not null;default:false" json:"isPro"`      // plan snapshot at creation
	HasQris       bool          `gorm:"not null;default:false" json:"hasQris"`    // plan snapshot at creation
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

type InvoiceItem struct {
	ID          uint    `gorm:"primaryKey" json:"-"`
	InvoiceID   string  `gorm:"not null;index" json:"-"`
	Seq         int     `gorm:"not null" json:"-"` // insertion order
	Name        string  `gorm:"not null" json:"name"`
	Description string  `json:"description,omitempty"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	Price       float64 `gorm:"not null" json:"price"`
}
