/*
gemini.go - Gemini generateContent client

PURPOSE:
  Implements CommandParser and ImageMatcher against the Gemini REST API.
  Command parsing constrains the model with a JSON response schema; image
  matching sends the photo inline and expects a bare product name back.

DEGRADATION:
  Every failure mode maps to ErrUnavailable: no API key, request/transport
  errors, non-200 status, empty candidates, undecodable JSON. The caller's
  only branch is "assist worked" vs "fall back to manual entry".
*/
package assist

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vyapar/inventory-engine/vyapar"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.5-flash"
)

// Client calls the Gemini generateContent endpoint.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API endpoint. Tests point this at httptest.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient overrides the transport.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = h }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client. An empty apiKey is allowed; the client then
// reports unavailable on every call instead of failing construction, so the
// app still serves all manual flows.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		model:      defaultModel,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Available reports whether the client holds a credential.
func (c *Client) Available() bool { return c.apiKey != "" }

// =============================================================================
// WIRE TYPES (generateContent request/response subset)
// =============================================================================

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64
}

type generationConfig struct {
	ResponseMimeType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// parsedInvoiceSchema constrains the parse response to the ParsedInvoice
// shape so the model cannot drift from the contract.
var parsedInvoiceSchema = json.RawMessage(`{
	"type": "OBJECT",
	"properties": {
		"customerName": {"type": "STRING"},
		"items": {
			"type": "ARRAY",
			"items": {
				"type": "OBJECT",
				"properties": {
					"productName": {"type": "STRING"},
					"quantity": {"type": "INTEGER"}
				},
				"required": ["productName", "quantity"]
			}
		}
	},
	"required": ["customerName", "items"]
}`)

// =============================================================================
// COMMAND PARSING
// =============================================================================

// ParseInvoiceCommand asks the model to extract a customer name and product
// quantities from a free-text command, constrained to the current catalog.
func (c *Client) ParseInvoiceCommand(ctx context.Context, command string, catalog vyapar.Catalog) (ParsedInvoice, error) {
	if !c.Available() {
		return ParsedInvoice{}, ErrUnavailable
	}

	var names []string
	for _, p := range catalog {
		names = append(names, fmt.Sprintf("'%s' (Price: %s, Stock: %d)", p.Name, p.Price.String(), p.Stock))
	}

	prompt := fmt.Sprintf(
		"Parse the following user command to create an invoice.\n"+
			"User command: %q\n\n"+
			"Available products are: %s.\n\n"+
			"Identify the customer's name and the products with their quantities. "+
			"The product name in your response must exactly match one of the available product names. "+
			"If a product in the command does not match any available products, ignore it. "+
			"Respond in the requested JSON format.",
		command, strings.Join(names, ", "))

	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   parsedInvoiceSchema,
		},
	}

	text, err := c.generate(ctx, req)
	if err != nil {
		return ParsedInvoice{}, err
	}

	var parsed ParsedInvoice
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		c.logger.Warn("assist: undecodable parse response", "error", err)
		return ParsedInvoice{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return parsed, nil
}

// =============================================================================
// IMAGE MATCHING
// =============================================================================

// FindProductByImage asks the model which catalog product the photo shows.
// The answer is matched case-insensitively against catalog names.
func (c *Client) FindProductByImage(ctx context.Context, image []byte, mimeType string, catalog vyapar.Catalog) (vyapar.Product, error) {
	if !c.Available() {
		return vyapar.Product{}, ErrUnavailable
	}

	var names []string
	for _, p := range catalog {
		names = append(names, p.Name)
	}
	prompt := fmt.Sprintf(
		"From the following list of products, which one best matches the product in this image? "+
			"Respond with ONLY the exact product name from the list and nothing else.\n\n"+
			"Product list: [%s]", strings.Join(names, ", "))

	req := generateRequest{
		Contents: []content{{Parts: []part{
			{InlineData: &inlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(image)}},
			{Text: prompt},
		}}},
	}

	answer, err := c.generate(ctx, req)
	if err != nil {
		return vyapar.Product{}, err
	}

	answer = strings.TrimSpace(answer)
	for _, p := range catalog {
		if strings.EqualFold(p.Name, answer) {
			return p, nil
		}
	}
	return vyapar.Product{}, ErrNoMatch
}

// =============================================================================
// TRANSPORT
// =============================================================================

// generate posts one request and returns the first candidate's text.
func (c *Client) generate(ctx context.Context, req generateRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("assist: request failed", "error", err)
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("assist: upstream error", "status", resp.StatusCode)
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
