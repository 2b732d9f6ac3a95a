package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/terra-clan/portfolio/internal/models"
	"github.com/terra-clan/portfolio/internal/pages"
)

// Client is a Go SDK for the portfolio API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithAPIKey sets the admin API key sent with every request
func WithAPIKey(apiKey string) Option {
	return func(c *Client) {
		c.apiKey = apiKey
	}
}

// NewClient creates a new portfolio client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError is an error envelope returned by the server
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (HTTP %d): %s - %s", e.Status, e.Code, e.Message)
}

// SignGuestbookRequest is the guestbook form
type SignGuestbookRequest struct {
	AuthorName    string `json:"author_name"`
	Message       string `json:"message"`
	Organization  string `json:"organization,omitempty"`
	Email         string `json:"email,omitempty"`
	IsEmailPublic bool   `json:"is_email_public,omitempty"`
}

// UpdateProfileRequest is a partial profile update. Nil fields are left unchanged.
type UpdateProfileRequest struct {
	Name            *string `json:"name,omitempty"`
	Education       *string `json:"education,omitempty"`
	Major           *string `json:"major,omitempty"`
	ExperienceLabel *string `json:"experience,omitempty"`
	PhotoRef        *string `json:"photo,omitempty"`
}

// UpdateSectionRequest is a partial section update
type UpdateSectionRequest struct {
	Title      *string `json:"title,omitempty"`
	Content    *string `json:"content,omitempty"`
	ShowInHome *bool   `json:"showInHome,omitempty"`
}

// AddSkillRequest creates a skill
type AddSkillRequest struct {
	Name     string `json:"name"`
	Level    int    `json:"level"`
	Category string `json:"category"`
	IconRef  string `json:"icon,omitempty"`
}

// UpdateSkillRequest is a partial skill update
type UpdateSkillRequest struct {
	Name     *string `json:"name,omitempty"`
	Level    *int    `json:"level,omitempty"`
	Category *string `json:"category,omitempty"`
	IconRef  *string `json:"icon,omitempty"`
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Home retrieves the home page payload
func (c *Client) Home(ctx context.Context) (*pages.HomePage, error) {
	var page pages.HomePage
	if err := c.call(ctx, http.MethodGet, "/api/v1/pages/home", nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// About retrieves the about page payload
func (c *Client) About(ctx context.Context) (*pages.AboutPage, error) {
	var page pages.AboutPage
	if err := c.call(ctx, http.MethodGet, "/api/v1/pages/about", nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Projects retrieves the projects page payload
func (c *Client) Projects(ctx context.Context) (*pages.ProjectsPage, error) {
	var page pages.ProjectsPage
	if err := c.call(ctx, http.MethodGet, "/api/v1/pages/projects", nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Guestbook retrieves recent guestbook entries. A non-positive limit uses
// the server default.
func (c *Client) Guestbook(ctx context.Context, limit int) ([]models.GuestbookEntry, error) {
	path := "/api/v1/guestbook"
	if limit > 0 {
		path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}

	var result struct {
		Entries []models.GuestbookEntry `json:"entries"`
		Total   int                     `json:"total"`
	}
	if err := c.call(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Entries, nil
}

// SignGuestbook submits a guestbook entry. When the server rejects the
// submission the result is still returned alongside the *APIError so the
// caller can re-show the echoed form.
func (c *Client) SignGuestbook(ctx context.Context, req SignGuestbookRequest) (*pages.SubmitResult, error) {
	var result pages.SubmitResult
	err := c.call(ctx, http.MethodPost, "/api/v1/guestbook", req, &result)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return &result, err
		}
		return nil, err
	}
	return &result, nil
}

// Content retrieves the raw content snapshot (admin)
func (c *Client) Content(ctx context.Context) (*models.ContentSnapshot, error) {
	var snap models.ContentSnapshot
	if err := c.call(ctx, http.MethodGet, "/api/v1/admin/content", nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// UpdateProfile applies a partial profile update (admin)
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*models.Profile, error) {
	var profile models.Profile
	if err := c.call(ctx, http.MethodPatch, "/api/v1/admin/profile", req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateSection applies a partial section update (admin)
func (c *Client) UpdateSection(ctx context.Context, id string, req UpdateSectionRequest) (*models.Section, error) {
	var sec models.Section
	if err := c.call(ctx, http.MethodPatch, "/api/v1/admin/sections/"+url.PathEscape(id), req, &sec); err != nil {
		return nil, err
	}
	return &sec, nil
}

// AddSkill creates a skill (admin)
func (c *Client) AddSkill(ctx context.Context, req AddSkillRequest) (*models.Skill, error) {
	var created models.Skill
	if err := c.call(ctx, http.MethodPost, "/api/v1/admin/skills", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateSkill applies a partial skill update (admin)
func (c *Client) UpdateSkill(ctx context.Context, id int64, req UpdateSkillRequest) (*models.Skill, error) {
	var sk models.Skill
	if err := c.call(ctx, http.MethodPatch, fmt.Sprintf("/api/v1/admin/skills/%d", id), req, &sk); err != nil {
		return nil, err
	}
	return &sk, nil
}

// RemoveSkill deletes a skill (admin)
func (c *Client) RemoveSkill(ctx context.Context, id int64) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/admin/skills/%d", id), nil, nil)
}

// Health checks if the service is healthy
func (c *Client) Health(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/health", nil, nil)
}

// call sends payload as JSON and decodes the envelope data into out.
// Error envelopes become *APIError; their data is still decoded into out.
func (c *Client) call(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	status, resp, err := c.doRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(resp, &env); err != nil {
		return fmt.Errorf("HTTP %d: failed to unmarshal response: %w", status, err)
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to unmarshal response data: %w", err)
		}
	}

	if !env.Success {
		apiErr := &APIError{Status: status}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	return nil
}

// doRequest performs an HTTP request
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) (int, []byte, error) {
	endpoint := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, respBody, nil
}
