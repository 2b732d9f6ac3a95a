package models

import "github.com/google/uuid"

// Project is a portfolio work item stored in the projects table
type Project struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description" db:"description"`
	ThumbnailURL string    `json:"thumbnail_url" db:"thumbnail_url"`
	DetailURL    string    `json:"detail_url" db:"detail_url"`
	TechStack    []string  `json:"tech_stack" db:"tech_stack"`
	IsPublished  bool      `json:"is_published" db:"is_published"`
	SortOrder    int       `json:"sort_order" db:"sort_order"`
}
