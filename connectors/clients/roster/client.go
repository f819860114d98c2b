// Package roster is the REST client for the remote roster gateway. It is
// the only place that knows the gateway's routes and wire field names.
package roster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/escala-app/escala/core/model"
)

// Credentials sets the Authorization header on outgoing requests. The auth
// package's PasswordCred implements it.
type Credentials interface {
	SetAuthHeader(r *http.Request) error
}

// Config holds the client settings.
type Config struct {
	// BaseURL is the gateway root, e.g. "https://escala.example.org/api".
	BaseURL string `json:"base_url"`
	// MinistryID scopes every call to one tenant.
	MinistryID int64 `json:"ministry_id"`
	// TimeoutSeconds bounds each request. 0 means 30 seconds.
	TimeoutSeconds int `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 30
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if c.MinistryID <= 0 {
		return fmt.Errorf("ministry_id must be positive")
	}
	return nil
}

// Client talks to the roster gateway. It implements schedule.Gateway.
type Client struct {
	baseURL  string
	ministry int64
	creds    Credentials
	http     *http.Client
}

// New creates a Client. creds may be nil for gateways without auth.
func New(cfg Config, creds Credentials) (*Client, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		baseURL:  cfg.BaseURL,
		ministry: cfg.MinistryID,
		creds:    creds,
		http:     &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}, nil
}

// FetchAssignments returns the period's flat slot collection.
func (c *Client) FetchAssignments(ctx context.Context, period model.Period) ([]model.Slot, error) {
	path := fmt.Sprintf("/ministerios/%d/escala/%d/%d", c.ministry, period.Year, period.Month)
	var dtos []slotDTO
	if err := c.getJSON(ctx, path, nil, &dtos); err != nil {
		return nil, fmt.Errorf("fetch assignments: %w", err)
	}
	slots := make([]model.Slot, 0, len(dtos))
	for _, d := range dtos {
		s, err := d.toModel()
		if err != nil {
			return nil, fmt.Errorf("fetch assignments: %w", err)
		}
		slots = append(slots, s)
	}
	return slots, nil
}

// FetchVolunteers returns the ministry's roster.
func (c *Client) FetchVolunteers(ctx context.Context, activeOnly bool) ([]model.Volunteer, error) {
	path := fmt.Sprintf("/ministerios/%d/voluntarios", c.ministry)
	q := url.Values{"inativos": []string{strconv.FormatBool(!activeOnly)}}
	var dtos []volunteerDTO
	if err := c.getJSON(ctx, path, q, &dtos); err != nil {
		return nil, fmt.Errorf("fetch volunteers: %w", err)
	}
	vols := make([]model.Volunteer, 0, len(dtos))
	for _, d := range dtos {
		vols = append(vols, d.toModel())
	}
	return vols, nil
}

// EligibleCandidates returns the event-aware eligibility list for a
// (role, event) pair.
func (c *Client) EligibleCandidates(ctx context.Context, roleID, eventID int64) ([]model.Candidate, error) {
	q := url.Values{
		"id_funcao": []string{strconv.FormatInt(roleID, 10)},
		"id_evento": []string{strconv.FormatInt(eventID, 10)},
	}
	var dtos []candidateDTO
	if err := c.getJSON(ctx, "/escala/vaga-elegiveis", q, &dtos); err != nil {
		return nil, fmt.Errorf("fetch eligible candidates: %w", err)
	}
	cands := make([]model.Candidate, 0, len(dtos))
	for _, d := range dtos {
		cands = append(cands, model.Candidate{ID: d.ID, Name: d.Name})
	}
	return cands, nil
}

// CommitSlot reassigns or vacates a single slot.
func (c *Client) CommitSlot(ctx context.Context, update model.SlotUpdate) error {
	body := slotUpdateDTO{
		EventID:     update.EventID,
		RoleID:      update.RoleID,
		Instance:    update.Instance,
		VolunteerID: update.VolunteerID,
	}
	if err := c.send(ctx, http.MethodPut, "/escala/vaga", body); err != nil {
		return fmt.Errorf("commit slot %s: %w", update.Key(), err)
	}
	return nil
}

// CreateEvents creates the period's events, replacing existing ones.
func (c *Client) CreateEvents(ctx context.Context, period model.Period) error {
	path := fmt.Sprintf("/ministerios/%d/eventos/criar", c.ministry)
	if err := c.send(ctx, http.MethodPost, path, periodDTO{Year: period.Year, Month: period.Month}); err != nil {
		return fmt.Errorf("create events %s: %w", period, err)
	}
	return nil
}

// GenerateSchedule triggers the remote solver for the period.
func (c *Client) GenerateSchedule(ctx context.Context, period model.Period) error {
	path := fmt.Sprintf("/ministerios/%d/escala/gerar", c.ministry)
	if err := c.send(ctx, http.MethodPost, path, periodDTO{Year: period.Year, Month: period.Month}); err != nil {
		return fmt.Errorf("generate schedule %s: %w", period, err)
	}
	return nil
}

// ExportPDF streams the rendered schedule document into w.
func (c *Client) ExportPDF(ctx context.Context, period model.Period, w io.Writer) error {
	path := fmt.Sprintf("/ministerios/%d/escala/%d/%d/pdf", c.ministry, period.Year, period.Month)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return fmt.Errorf("export pdf: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("export pdf: failed to send request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("export pdf: unexpected status code: %d, body: %s", resp.StatusCode, body)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("export pdf: read response: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, q url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}
	if c.creds != nil {
		if err := c.creds.SetAuthHeader(req); err != nil {
			return nil, fmt.Errorf("failed to set auth header: %w", err)
		}
	}
	return req, nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, q, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, body)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := c.newRequest(ctx, method, path, nil, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, raw)
	}
	return nil
}
