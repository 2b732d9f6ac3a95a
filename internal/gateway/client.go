// Package gateway wraps the two remote collections the site reads and
// writes: published projects and guestbook entries.
package gateway

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/terra-clan/portfolio/internal/models"
	"github.com/terra-clan/portfolio/internal/storage"
)

// DefaultGuestbookLimit caps the recent guestbook list
const DefaultGuestbookLimit = 20

const (
	projectsTable  = "projects"
	guestbookTable = "guestbook_entries"
)

// ErrValidation is returned when a submission is missing required fields
var ErrValidation = errors.New("validation error")

var projectColumns = []string{
	"id", "title", "description", "thumbnail_url", "detail_url",
	"tech_stack", "is_published", "sort_order",
}

var guestbookColumns = []string{
	"id", "author_name", "message", "organization", "email",
	"is_email_public", "created_at",
}

// Client issues one round trip per operation against the remote store.
// There is no retry: failures are reported once to the caller.
type Client struct {
	db storage.Querier
	sb squirrel.StatementBuilderType
}

// NewClient creates a gateway client over db
func NewClient(db storage.Querier) *Client {
	return &Client{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// FetchPublishedProjects returns every published project by ascending sort_order
func (c *Client) FetchPublishedProjects(ctx context.Context) ([]models.Project, error) {
	query, args, err := c.sb.
		Select(projectColumns...).
		From(projectsTable).
		Where(squirrel.Eq{"is_published": true}).
		OrderBy("sort_order ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build projects query: %w", err)
	}

	rows, err := c.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch projects: %w", err)
	}
	defer rows.Close()

	projects := make([]models.Project, 0)
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Description,
			&p.ThumbnailURL,
			&p.DetailURL,
			&p.TechStack,
			&p.IsPublished,
			&p.SortOrder,
		); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, nil
}

// FetchRecentGuestbookEntries returns the newest entries first, at most limit.
// A non-positive limit means DefaultGuestbookLimit.
func (c *Client) FetchRecentGuestbookEntries(ctx context.Context, limit int) ([]models.GuestbookEntry, error) {
	if limit <= 0 {
		limit = DefaultGuestbookLimit
	}

	query, args, err := c.sb.
		Select(guestbookColumns...).
		From(guestbookTable).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build guestbook query: %w", err)
	}

	rows, err := c.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guestbook entries: %w", err)
	}
	defer rows.Close()

	entries := make([]models.GuestbookEntry, 0)
	for rows.Next() {
		var e models.GuestbookEntry
		if err := rows.Scan(
			&e.ID,
			&e.AuthorName,
			&e.Message,
			&e.Organization,
			&e.Email,
			&e.IsEmailPublic,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan guestbook entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating guestbook entries: %w", err)
	}

	return entries, nil
}

// SubmitGuestbookEntry inserts one entry. Blank organization and email are
// stored as NULL.
func (c *Client) SubmitGuestbookEntry(ctx context.Context, sub models.GuestbookSubmission) (models.GuestbookEntry, error) {
	entry := sub.Normalize()

	if entry.AuthorName == "" {
		return models.GuestbookEntry{}, fmt.Errorf("%w: author_name is required", ErrValidation)
	}
	if entry.Message == "" {
		return models.GuestbookEntry{}, fmt.Errorf("%w: message is required", ErrValidation)
	}

	entry.ID = uuid.New()

	query, args, err := c.sb.
		Insert(guestbookTable).
		Columns("id", "author_name", "message", "organization", "email", "is_email_public").
		Values(
			entry.ID,
			entry.AuthorName,
			entry.Message,
			nullString(entry.Organization),
			nullString(entry.Email),
			entry.IsEmailPublic,
		).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return models.GuestbookEntry{}, fmt.Errorf("failed to build guestbook insert: %w", err)
	}

	if err := c.db.QueryRow(ctx, query, args...).Scan(&entry.CreatedAt); err != nil {
		return models.GuestbookEntry{}, fmt.Errorf("failed to insert guestbook entry: %w", err)
	}

	return entry, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
