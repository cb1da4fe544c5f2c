package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/torrico/rollcall/internal/contact"
	"github.com/torrico/rollcall/internal/message"
)

// DefaultVersion is the Graph API version used when none is configured.
const DefaultVersion = "v22.0"

// ErrCredentials means the client is missing or carries placeholder
// credentials and must not attempt a send.
var ErrCredentials = errors.New("whatsapp credentials not configured")

// Sender is the outbound surface the send pipeline depends on.
type Sender interface {
	Send(ctx context.Context, to string, tpl message.Template, body string) (string, error)
}

// Client sends messages through the WhatsApp Cloud API.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	token         string
	phoneNumberID string
}

// NewClient builds a client for the given credentials. An empty version
// falls back to DefaultVersion.
func NewClient(token, phoneNumberID, version string) *Client {
	if version == "" {
		version = DefaultVersion
	}
	return &Client{
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		baseURL:       fmt.Sprintf("https://graph.facebook.com/%s/%s/messages", version, phoneNumberID),
		token:         token,
		phoneNumberID: phoneNumberID,
	}
}

// WithBaseURL overrides the API endpoint. Used by tests.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

// ValidateCredentials rejects empty or placeholder credentials before
// any send is attempted.
func (c *Client) ValidateCredentials() error {
	if c.token == "" || c.token == "tu_token_aqui" {
		return fmt.Errorf("%w: access token missing", ErrCredentials)
	}
	if c.phoneNumberID == "" {
		return fmt.Errorf("%w: phone number id missing", ErrCredentials)
	}
	return nil
}

// Send dispatches on the template kind and returns the provider message
// id on acceptance. The body argument is the already rendered text; it
// is ignored for pre-approved provider templates.
func (c *Client) Send(ctx context.Context, to string, tpl message.Template, body string) (string, error) {
	switch tpl.Kind {
	case message.KindInteractive:
		return c.SendInteractive(ctx, to, body, tpl.Buttons)
	case message.KindCatalog:
		return c.SendTemplate(ctx, to, tpl.Name, tpl.Language, tpl.Params)
	default:
		return c.SendText(ctx, to, body)
	}
}

// SendText sends a plain text message.
func (c *Client) SendText(ctx context.Context, to, body string) (string, error) {
	phone, err := contact.NormalizePhone(to)
	if err != nil {
		return "", err
	}
	payload, err := buildTextPayload(phone, body)
	if err != nil {
		return "", err
	}
	return c.post(ctx, payload)
}

// SendInteractive sends a message with reply buttons.
func (c *Client) SendInteractive(ctx context.Context, to, body string, buttons []message.Button) (string, error) {
	phone, err := contact.NormalizePhone(to)
	if err != nil {
		return "", err
	}
	payload, err := buildInteractivePayload(phone, body, buttons)
	if err != nil {
		return "", err
	}
	return c.post(ctx, payload)
}

// SendTemplate sends a pre-approved provider template with positional
// body parameters.
func (c *Client) SendTemplate(ctx context.Context, to, name, language string, params []string) (string, error) {
	phone, err := contact.NormalizePhone(to)
	if err != nil {
		return "", err
	}
	if language == "" {
		language = "es"
	}
	payload, err := buildTemplatePayload(phone, name, language, params)
	if err != nil {
		return "", err
	}
	return c.post(ctx, payload)
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) post(ctx context.Context, payload []byte) (string, error) {
	if err := c.ValidateCredentials(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("whatsapp api: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("whatsapp api: reading response: %w", err)
	}

	var decoded sendResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil && resp.StatusCode == http.StatusOK {
			return "", fmt.Errorf("whatsapp api: unexpected response: %s", raw)
		}
	}

	if resp.StatusCode != http.StatusOK {
		if decoded.Error.Message != "" {
			return "", fmt.Errorf("whatsapp api: %d: %s", resp.StatusCode, decoded.Error.Message)
		}
		return "", fmt.Errorf("whatsapp api: %d: %s", resp.StatusCode, raw)
	}
	if len(decoded.Messages) == 0 || decoded.Messages[0].ID == "" {
		return "", fmt.Errorf("whatsapp api: accepted without message id: %s", raw)
	}
	return decoded.Messages[0].ID, nil
}
