// Package zoom is the scheduling collaborator: it exchanges server-to-server
// OAuth credentials for a bearer token and creates scheduled meetings.
package zoom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultTokenURL = "https://zoom.us/oauth/token"
	defaultAPIBase  = "https://api.zoom.us/v2"

	// a token is refreshed once it is within this window of expiry
	tokenSkew = 60 * time.Second
)

// Client talks to the Zoom API. The bearer token is cached until near-expiry
// and refresh is serialized behind a mutex, so one Client may be shared by
// multiple applications.
type Client struct {
	accountID    string
	clientID     string
	clientSecret string
	tokenURL     string
	apiBase      string
	http         *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time

	now func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURLs overrides the token and API endpoints (used by tests).
func WithBaseURLs(tokenURL, apiBase string) Option {
	return func(c *Client) {
		c.tokenURL = tokenURL
		c.apiBase = apiBase
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func NewClient(accountID, clientID, clientSecret string, opts ...Option) *Client {
	c := &Client{
		accountID:    accountID,
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     defaultTokenURL,
		apiBase:      defaultAPIBase,
		http:         &http.Client{Timeout: 30 * time.Second},
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// token returns a cached bearer token, refreshing it when the cached one is
// within tokenSkew of expiry.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && c.now().Before(c.tokenExpiry.Add(-tokenSkew)) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "account_credentials")
	form.Set("account_id", c.accountID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.clientID, c.clientSecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch access token: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}

	c.accessToken = tok.AccessToken
	c.tokenExpiry = c.now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return c.accessToken, nil
}

type meetingRequest struct {
	Topic     string          `json:"topic"`
	Type      int             `json:"type"`
	StartTime string          `json:"start_time"`
	Duration  int             `json:"duration"`
	Timezone  string          `json:"timezone"`
	Settings  meetingSettings `json:"settings"`
}

type meetingSettings struct {
	JoinBeforeHost bool `json:"join_before_host"`
	WaitingRoom    bool `json:"waiting_room"`
}

type meetingResponse struct {
	JoinURL string `json:"join_url"`
}

// CreateMeeting schedules a meeting at the given UTC start time (ISO 8601)
// and returns the join link. A response without a join_url is an explicit
// error.
func (c *Client) CreateMeeting(ctx context.Context, topic, startTimeUTC string, durationMinutes int) (string, error) {
	token, err := c.token(ctx)
	if err != nil {
		return "", err
	}

	payload, _ := json.Marshal(meetingRequest{
		Topic:     topic,
		Type:      2, // scheduled meeting
		StartTime: startTimeUTC,
		Duration:  durationMinutes,
		Timezone:  "UTC",
		Settings: meetingSettings{
			JoinBeforeHost: true,
			WaitingRoom:    false,
		},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/users/me/meetings", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("create meeting: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("meetings endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var meeting meetingResponse
	if err := json.Unmarshal(body, &meeting); err != nil {
		return "", fmt.Errorf("decode meeting response: %w", err)
	}
	if meeting.JoinURL == "" {
		return "", fmt.Errorf("meeting response missing join_url")
	}
	return meeting.JoinURL, nil
}
