// Package webhook posts merge reports to HTTP endpoints.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ccollicutt/chatmerge/pkg/output"
)

// DefaultTimeout applies when SendOptions.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// maxResponseBody bounds how much of a webhook response is kept.
const maxResponseBody = 1024 * 1024

// EventMergeCompleted is sent once a merge has written its transcript.
const EventMergeCompleted = "merge.completed"

// Payload is the JSON body of a webhook request. The headline counts repeat
// values from Report.
type Payload struct {
	Event           string         `json:"event"`
	RunID           string         `json:"run_id"`
	Webhook         string         `json:"webhook,omitempty"`
	Trigger         string         `json:"trigger"`
	Output          string         `json:"output"`
	FilesRead       int            `json:"files_read"`
	MessagesWritten int            `json:"messages_written"`
	Malformed       int            `json:"malformed"`
	Report          *output.Report `json:"report"`
}

// NewPayload wraps a merge report for the named webhook and the trigger that
// fired it.
func NewPayload(report *output.Report, webhook, trigger string) *Payload {
	return &Payload{
		Event:           EventMergeCompleted,
		RunID:           report.Metadata.RunID,
		Webhook:         webhook,
		Trigger:         trigger,
		Output:          report.Metadata.Output,
		FilesRead:       report.Summary.FilesRead,
		MessagesWritten: report.Summary.MessagesWritten,
		Malformed:       report.Summary.MalformedLines,
		Report:          report,
	}
}

// Client posts payloads to webhook endpoints.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a client identifying itself as chatmerge-webhook.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{},
		userAgent:  "chatmerge-webhook",
	}
}

// SendOptions configures a webhook request.
type SendOptions struct {
	URL     string
	Token   string        // Bearer token (optional)
	Timeout time.Duration // Request timeout (uses DefaultTimeout if zero)
}

// Response is the outcome of one delivery.
type Response struct {
	StatusCode int
	Body       string
	Duration   time.Duration
	Error      error
}

// Success reports a 2xx delivery without transport errors.
func (r *Response) Success() bool {
	return r.Error == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Send posts the payload as JSON. The run id and event are also sent as
// headers.
func (c *Client) Send(ctx context.Context, payload *Payload, opts SendOptions) *Response {
	start := time.Now()
	resp := &Response{}
	fail := func(err error) *Response {
		resp.Error = err
		resp.Duration = time.Since(start)
		return resp
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fail(fmt.Errorf("encoding payload: %w", err))
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, opts.URL, bytes.NewReader(body))
	if err != nil {
		return fail(fmt.Errorf("building request for %s: %w", payload.Event, err))
	}
	setHeaders(req, c.userAgent, payload, opts.Token)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(fmt.Errorf("posting %s: %w", payload.Event, err))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		return fail(fmt.Errorf("reading response: %w", err))
	}

	resp.StatusCode = httpResp.StatusCode
	resp.Body = string(respBody)
	resp.Duration = time.Since(start)
	if resp.StatusCode >= 400 {
		resp.Error = fmt.Errorf("webhook %q returned status %d for run %s", payload.Webhook, resp.StatusCode, payload.RunID)
	}

	return resp
}

func setHeaders(req *http.Request, userAgent string, payload *Payload, token string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Chatmerge-Event", payload.Event)
	if payload.RunID != "" {
		req.Header.Set("X-Chatmerge-Run-Id", payload.RunID)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
