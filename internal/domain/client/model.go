package client

import (
	"strings"
	"time"
)

// Client is a billed party. Name is unique after trimming.
type Client struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Phone     string    `db:"phone" json:"phone"`
	Address   string    `db:"address" json:"address"`
	GST       string    `db:"gst" json:"gst"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NewClient trims the name; an empty result means there is nothing to upsert
func NewClient(name, phone, address, gst string) *Client {
	return &Client{
		Name:    strings.TrimSpace(name),
		Phone:   phone,
		Address: address,
		GST:     gst,
	}
}
