package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fkanj70/Accelerated-Report/models"
)

const reportsEndpoint = "/reports"

// Client issues a single network submission attempt for a report. No
// internal retry: a failed attempt surfaces as a *DeliveryError and the
// caller decides whether to queue the report.
type Client interface {
	Submit(ctx context.Context, report *models.QueuedReport) (*models.Receipt, error)
}

// DeliveryError carries the HTTP status of a rejected submission, or a
// wrapped transport error with StatusCode zero. All delivery failures are
// treated uniformly by the retry path regardless of status.
type DeliveryError struct {
	StatusCode int
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("delivery failed with status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("delivery failed: %v", e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// HTTPClient submits reports to the backend's POST /reports endpoint.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a client for the backend at baseURL. A nil
// httpClient falls back to http.DefaultClient.
func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// submitPayload matches the backend's ReportCreate request model.
type submitPayload struct {
	Type       models.ReportType `json:"type"`
	Message    string            `json:"message"`
	Platform   models.Platform   `json:"platform,omitempty"`
	AppVersion string            `json:"app_version,omitempty"`
	Screenshot string            `json:"screenshot,omitempty"`
}

func (c *HTTPClient) Submit(ctx context.Context, report *models.QueuedReport) (*models.Receipt, error) {
	payload := submitPayload{
		Type:       report.Type,
		Message:    report.Message,
		Platform:   report.Platform,
		AppVersion: report.AppVersion,
		Screenshot: report.Screenshot,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+reportsEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create report request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &DeliveryError{Err: fmt.Errorf("report request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &DeliveryError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("backend returned status %d: %s", resp.StatusCode, string(respBody)),
		}
	}

	var receipt models.Receipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return nil, &DeliveryError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to decode submission receipt: %w", err),
		}
	}
	return &receipt, nil
}
