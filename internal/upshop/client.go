// Package upshop is the client for the Upshop order-management API: login,
// export-job submission, and polling to a terminal state.
package upshop

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/storeops/smsimport/internal/domain"
	"github.com/storeops/smsimport/internal/logger"
)

// Terminal status tokens, matched trimmed and case-insensitive.
var (
	terminalSuccess = map[string]bool{
		"finished": true,
	}
	terminalFailure = map[string]bool{
		"failed":    true,
		"error":     true,
		"cancelled": true,
		"canceled":  true,
	}
)

// Client talks to the Upshop API. It is owned by a single run; no
// concurrent use.
type Client struct {
	http         *resty.Client
	baseURL      string
	storeNumber  int
	pollInterval time.Duration
	pollTimeout  time.Duration
}

// Config holds configuration for the Upshop client.
type Config struct {
	BaseURL        string
	StoreNumber    int
	RequestTimeout time.Duration
	PollInterval   time.Duration
	PollTimeout    time.Duration
}

// NewClient creates a new Upshop API client.
// Parameters:
//   - cfg: base URL, store scope, and polling tuning; zero durations get
//     the defaults (90s request timeout, 5s interval, 30m poll window).
//
// Returns:
//   - *Client: initialized client.
func NewClient(cfg *Config) *Client {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 90 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 30 * time.Minute
	}

	client := resty.New()
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(cfg.RequestTimeout)

	return &Client{
		http:         client,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		storeNumber:  cfg.StoreNumber,
		pollInterval: cfg.PollInterval,
		pollTimeout:  cfg.PollTimeout,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

type exportJobRequest struct {
	ApprovedFlag bool  `json:"approved_flag"`
	StoreNumber  []int `json:"store_number"`
}

type exportJobResponse struct {
	JobID domain.FlexString `json:"job_id"`
}

// JobStatusResponse is the polled job payload. Status is reported under
// either "status" or "state" depending on the API version.
type JobStatusResponse struct {
	Status  string             `json:"status"`
	State   string             `json:"state"`
	Message string             `json:"message"`
	Data    []domain.OrderLine `json:"data"`
}

// statusToken returns the normalized terminal-matching token.
func (r *JobStatusResponse) statusToken() string {
	raw := r.Status
	if raw == "" {
		raw = r.State
	}
	return strings.ToLower(strings.TrimSpace(raw))
}

// Authenticate logs in and returns an access token.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - username, password: API credentials.
//
// Returns:
//   - string: bearer token.
//   - error: *APIError on transport/HTTP/decode failure, *AuthError when
//     the response carries no token.
func (c *Client) Authenticate(ctx context.Context, username, password string) (string, error) {
	endpoint := c.baseURL + "/login"

	var body loginResponse
	if err := c.postJSON(ctx, endpoint, "", loginRequest{Username: username, Password: password}, &body); err != nil {
		return "", err
	}

	if body.AccessToken == "" {
		return "", &AuthError{Reason: "no access token in login response"}
	}
	return body.AccessToken, nil
}

// SubmitExportJob requests an export of approved orders for the configured
// store and returns the job id.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - token: bearer token from Authenticate.
//
// Returns:
//   - string: job identifier.
//   - error: *APIError on failure or when no job id is returned.
func (c *Client) SubmitExportJob(ctx context.Context, token string) (string, error) {
	endpoint := c.baseURL + "/export/orders"

	req := exportJobRequest{
		ApprovedFlag: true,
		StoreNumber:  []int{c.storeNumber},
	}
	var body exportJobResponse
	if err := c.postJSON(ctx, endpoint, token, req, &body); err != nil {
		return "", err
	}

	jobID := body.JobID.String()
	if jobID == "" {
		return "", &APIError{Kind: KindDecode, Endpoint: endpoint, StatusCode: 200,
			Body: "no job_id in response"}
	}

	logger.FromContext(ctx).WithField(logger.FieldJobID, jobID).Info("Export job created")
	return jobID, nil
}

// WaitForJob polls the job until it reaches a terminal state.
// Parameters:
//   - ctx: context for cancellation; canceling aborts between polls.
//   - token: bearer token.
//   - jobID: job identifier from SubmitExportJob.
//
// Returns:
//   - []domain.OrderLine: the exported order lines on success (may be empty).
//   - error: *JobFailedError, *JobTimeoutError, or *APIError.
func (c *Client) WaitForJob(ctx context.Context, token, jobID string) ([]domain.OrderLine, error) {
	log := logger.FromContext(ctx).WithField(logger.FieldJobID, jobID)
	log.Info("Waiting for export job completion")

	start := time.Now()
	lastStatus := ""

	for {
		payload, err := c.jobStatus(ctx, token, jobID)
		if err != nil {
			return nil, err
		}

		st := payload.statusToken()

		// Log transitions, not every poll, to keep the log readable over
		// a job that can run for minutes.
		if st != lastStatus {
			log.WithFields(logger.Fields{
				logger.FieldStatus: st,
				"previous":         lastStatus,
				"message":          payload.Message,
			}).Info("Job status changed")
			lastStatus = st
		}

		if terminalSuccess[st] {
			log.WithField(logger.FieldCount, len(payload.Data)).Info("Export job finished")
			return payload.Data, nil
		}
		if terminalFailure[st] {
			return nil, &JobFailedError{Status: st, Message: payload.Message}
		}

		if time.Since(start) > c.pollTimeout {
			return nil, &JobTimeoutError{LastStatus: st, Timeout: c.pollTimeout}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

// jobStatus performs a single status poll.
func (c *Client) jobStatus(ctx context.Context, token, jobID string) (*JobStatusResponse, error) {
	endpoint := c.baseURL + "/job_status/" + jobID

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		Get(endpoint)
	if err != nil {
		return nil, &APIError{Kind: KindNetwork, Endpoint: endpoint, Err: err}
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, &APIError{Kind: KindHTTP, Endpoint: endpoint,
			StatusCode: resp.StatusCode(), Body: truncate(resp.Body())}
	}

	var payload JobStatusResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, &APIError{Kind: KindDecode, Endpoint: endpoint,
			StatusCode: resp.StatusCode(), Body: truncate(resp.Body()), Err: err}
	}
	return &payload, nil
}

// postJSON posts a JSON body and decodes a JSON response, mapping the three
// failure classes (network, HTTP, decode) onto APIError kinds.
func (c *Client) postJSON(ctx context.Context, endpoint, token string, reqBody, respBody interface{}) error {
	r := c.http.R().SetContext(ctx).SetBody(reqBody)
	if token != "" {
		r.SetAuthToken(token)
	}

	resp, err := r.Post(endpoint)
	if err != nil {
		return &APIError{Kind: KindNetwork, Endpoint: endpoint, Err: err}
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return &APIError{Kind: KindHTTP, Endpoint: endpoint,
			StatusCode: resp.StatusCode(), Body: truncate(resp.Body())}
	}
	if err := json.Unmarshal(resp.Body(), respBody); err != nil {
		return &APIError{Kind: KindDecode, Endpoint: endpoint,
			StatusCode: resp.StatusCode(), Body: truncate(resp.Body()), Err: err}
	}
	return nil
}
