package meeting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPProvisioner is the production Provisioner backed by the meeting
// vendor's REST API.
type HTTPProvisioner struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewHTTPProvisioner constructs an HTTPProvisioner with the given base URL,
// API key, and per-call timeout.
func NewHTTPProvisioner(baseURL, apiKey string, timeout time.Duration) *HTTPProvisioner {
	return &HTTPProvisioner{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: timeout},
	}
}

type createMeetingRequest struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Attendees   []string  `json:"attendees"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
}

type createMeetingResponse struct {
	MeetingLink string `json:"meetingLink"`
	ResourceID  string `json:"resourceId"`
}

// Create provisions a meeting resource for the given window and attendees.
func (p *HTTPProvisioner) Create(ctx context.Context, w Window, attendees []string, summary, description string) (*Details, error) {
	payload, err := json.Marshal(createMeetingRequest{
		Start:       w.Start,
		End:         w.End,
		Attendees:   attendees,
		Summary:     summary,
		Description: description,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal meeting request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/v1/meetings", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build meeting request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create meeting: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("create meeting: vendor returned %d: %s", resp.StatusCode, string(body))
	}

	var out createMeetingResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode meeting response: %w", err)
	}
	if out.ResourceID == "" || out.MeetingLink == "" {
		return nil, fmt.Errorf("create meeting: vendor response missing link or resource id")
	}

	return &Details{Link: out.MeetingLink, ResourceID: out.ResourceID}, nil
}

// Delete removes a provisioned meeting resource. Deleting an already-deleted
// resource is treated as success.
func (p *HTTPProvisioner) Delete(ctx context.Context, resourceID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, p.BaseURL+"/v1/meetings/"+resourceID, nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("delete meeting: vendor returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
