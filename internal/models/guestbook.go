package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GuestbookEntry is a persisted guestbook message
type GuestbookEntry struct {
	ID            uuid.UUID `json:"id" db:"id"`
	AuthorName    string    `json:"author_name" db:"author_name"`
	Message       string    `json:"message" db:"message"`
	Organization  *string   `json:"organization" db:"organization"`
	Email         *string   `json:"email" db:"email"`
	IsEmailPublic bool      `json:"is_email_public" db:"is_email_public"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// Public returns a copy safe to show to visitors: the email is dropped
// unless the author chose to publish it.
func (e GuestbookEntry) Public() GuestbookEntry {
	if !e.IsEmailPublic {
		e.Email = nil
	}
	return e
}

// GuestbookSubmission is the contact form as typed by a visitor
type GuestbookSubmission struct {
	AuthorName    string `json:"author_name"`
	Message       string `json:"message"`
	Organization  string `json:"organization"`
	Email         string `json:"email"`
	IsEmailPublic bool   `json:"is_email_public"`
}

// Normalize converts the form into an insert record. Blank optional
// fields become nil so they are stored as NULL, never as "".
func (s GuestbookSubmission) Normalize() GuestbookEntry {
	return GuestbookEntry{
		AuthorName:    strings.TrimSpace(s.AuthorName),
		Message:       strings.TrimSpace(s.Message),
		Organization:  optional(s.Organization),
		Email:         optional(s.Email),
		IsEmailPublic: s.IsEmailPublic,
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
