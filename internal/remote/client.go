// Package remote is the client for the diagram-sharing HTTP service. The
// service owns the authoritative diagram list for authenticated users; the
// storage façade routes list and delete calls here for non-guest sessions.
package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mesh-intelligence/blueprints/pkg/types"
)

// apiPath is the versioned path prefix of the sharing service.
const apiPath = "/chartdb/v1"

// Client talks to the sharing service. Failures are response-status driven;
// no client-side timeout is applied.
type Client struct {
	baseURL    string
	httpClient *http.Client
	security   types.Security
}

// NewClient returns a client for the service at baseURL, attaching
// authorization headers from the given security collaborator.
func NewClient(baseURL string, security types.Security) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		security:   security,
	}
}

// DiagramSummary is one row of the remote diagram list. The server reports
// only the shell plus a table count; real table rows stay local.
type DiagramSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	TablesCount int       `json:"tablesCount"`
}

// CreateDiagramRequest is the body of a diagram create call.
type CreateDiagramRequest struct {
	ClientDiagramID string `json:"clientDiagramId"`
	Content         string `json:"content"`
	Name            string `json:"name"`
	TablesCount     int    `json:"tablesCount"`
}

// APIError is a non-2xx response decoded into its user-facing message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("remote call failed with status %d", e.StatusCode)
}

// ListDiagrams fetches the authenticated user's diagram list.
func (c *Client) ListDiagrams() ([]DiagramSummary, error) {
	resp, err := c.do(http.MethodGet, apiPath+"/diagrams", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeError(resp)
	}

	var body struct {
		Diagrams []DiagramSummary `json:"diagrams"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding diagram list: %w", err)
	}
	return body.Diagrams, nil
}

// GetDiagram fetches a single remote diagram and returns its decoded
// interchange content.
func (c *Client) GetDiagram(id string) (string, error) {
	resp, err := c.do(http.MethodGet, apiPath+"/diagrams/"+id, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", decodeError(resp)
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding diagram %s: %w", id, err)
	}
	content, err := types.Deobfuscate(body.Content)
	if err != nil {
		return "", fmt.Errorf("decoding diagram %s content: %w", id, err)
	}
	return content, nil
}

// CreateDiagram uploads a diagram and returns the server-assigned id.
func (c *Client) CreateDiagram(req CreateDiagramRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encoding create request: %w", err)
	}
	resp, err := c.do(http.MethodPost, apiPath+"/diagrams", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", decodeError(resp)
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding create response: %w", err)
	}
	return body.ID, nil
}

// DeleteDiagram removes a diagram from the sharing service.
func (c *Client) DeleteDiagram(id string) error {
	resp, err := c.do(http.MethodDelete, apiPath+"/diagrams/"+id, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	return nil
}

func (c *Client) do(method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("building %s %s: %w", method, path, err)
	}
	for k, v := range c.security.GetAuthorizationHeader() {
		req.Header.Set(k, v)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

// decodeError extracts the user-facing message of a non-2xx response,
// preferring "details" over "message" as the server does.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		Details string `json:"details"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Details != "" {
			apiErr.Message = body.Details
		} else {
			apiErr.Message = body.Message
		}
	}
	return apiErr
}
