package pages

import (
	"context"
	"errors"
	"log/slog"

	"github.com/terra-clan/portfolio/internal/gateway"
	"github.com/terra-clan/portfolio/internal/models"
)

const (
	// MsgGuestbookUnavailable is shown when entries cannot be fetched
	MsgGuestbookUnavailable = "failed to load guestbook"
	// MsgSubmitFailed is shown when a submission could not be stored
	MsgSubmitFailed = "failed to submit guestbook entry"
)

// GuestbookSource reads and writes guestbook entries
type GuestbookSource interface {
	FetchRecentGuestbookEntries(ctx context.Context, limit int) ([]models.GuestbookEntry, error)
	SubmitGuestbookEntry(ctx context.Context, sub models.GuestbookSubmission) (models.GuestbookEntry, error)
}

// GuestbookView is the payload of the guestbook section
type GuestbookView struct {
	Entries []models.GuestbookEntry `json:"entries"`
	Error   string                  `json:"error,omitempty"`
}

// SubmitResult describes the outcome of a guestbook submission.
// Form echoes the visitor's input back when the submission failed.
type SubmitResult struct {
	Entry   *models.GuestbookEntry      `json:"entry,omitempty"`
	Entries []models.GuestbookEntry     `json:"entries"`
	Error   string                      `json:"error,omitempty"`
	Form    *models.GuestbookSubmission `json:"form,omitempty"`
	Invalid bool                        `json:"invalid,omitempty"`
}

// GuestbookController serves and accepts guestbook entries
type GuestbookController struct {
	source GuestbookSource
	limit  int
	state  ListState[models.GuestbookEntry]
}

// NewGuestbookController creates a guestbook controller showing the most
// recent limit entries
func NewGuestbookController(source GuestbookSource, limit int) *GuestbookController {
	if limit <= 0 {
		limit = gateway.DefaultGuestbookLimit
	}
	return &GuestbookController{source: source, limit: limit}
}

// Recent fetches the newest entries, keeping the previous list on failure
func (c *GuestbookController) Recent(ctx context.Context) GuestbookView {
	return c.Latest(ctx, 0)
}

// Latest is Recent with an explicit limit. A non-positive limit uses the
// controller's default. Only fetches at the default limit replace the list
// kept for stale-on-error display; other limits are served from it on failure.
func (c *GuestbookController) Latest(ctx context.Context, limit int) GuestbookView {
	if limit <= 0 {
		limit = c.limit
	}
	entries, err := c.source.FetchRecentGuestbookEntries(ctx, limit)
	if err != nil {
		slog.Error("failed to fetch guestbook entries", "error", err, "limit", limit)
		if limit != c.limit {
			current, _ := c.state.Current()
			return GuestbookView{Entries: publicEntries(current[:min(limit, len(current))]), Error: MsgGuestbookUnavailable}
		}
		return GuestbookView{Entries: publicEntries(c.state.Fail(MsgGuestbookUnavailable)), Error: MsgGuestbookUnavailable}
	}
	if limit != c.limit {
		return GuestbookView{Entries: publicEntries(entries)}
	}
	return GuestbookView{Entries: publicEntries(c.state.Succeed(entries))}
}

// Submit stores a new entry and re-fetches the list on success
func (c *GuestbookController) Submit(ctx context.Context, sub models.GuestbookSubmission) SubmitResult {
	entry, err := c.source.SubmitGuestbookEntry(ctx, sub)
	if err != nil {
		current, _ := c.state.Current()
		result := SubmitResult{
			Entries: publicEntries(current),
			Error:   MsgSubmitFailed,
			Form:    &sub,
		}
		if errors.Is(err, gateway.ErrValidation) {
			result.Error = err.Error()
			result.Invalid = true
		} else {
			slog.Error("failed to submit guestbook entry", "error", err)
		}
		return result
	}

	slog.Info("guestbook entry submitted", "entry_id", entry.ID)

	view := c.Recent(ctx)
	public := entry.Public()
	return SubmitResult{Entry: &public, Entries: view.Entries, Error: view.Error}
}

func publicEntries(entries []models.GuestbookEntry) []models.GuestbookEntry {
	out := make([]models.GuestbookEntry, len(entries))
	for i, e := range entries {
		out[i] = e.Public()
	}
	return out
}
