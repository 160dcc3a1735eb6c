package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/guiomkt/cheff-guio-sub000/internal/domain/providers"
	"github.com/guiomkt/cheff-guio-sub000/pkg/config"
	apperrors "github.com/guiomkt/cheff-guio-sub000/pkg/errors"
)

// WhatsAppCloudSender sends customer messages via the WhatsApp Cloud API
type WhatsAppCloudSender struct {
	accessToken   string
	phoneNumberID string
	languageCode  string
	httpClient    *http.Client
	baseURL       string
}

var _ providers.Notifier = (*WhatsAppCloudSender)(nil)

// NewWhatsAppCloudSender creates a new WhatsApp sender
func NewWhatsAppCloudSender(cfg config.WhatsAppConfig) (*WhatsAppCloudSender, error) {
	if !cfg.WhatsAppEnabled() {
		return nil, errors.New("WHATSAPP_ACCESS_TOKEN and WHATSAPP_PHONE_NUMBER_ID must be set")
	}

	return &WhatsAppCloudSender{
		accessToken:   cfg.AccessToken,
		phoneNumberID: cfg.PhoneNumberID,
		languageCode:  cfg.LanguageCode,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

// WhatsAppTemplateMessage represents a template message
type WhatsAppTemplateMessage struct {
	MessagingProduct string               `json:"messaging_product"`
	RecipientType    string               `json:"recipient_type"`
	To               string               `json:"to"`
	Type             string               `json:"type"`
	Template         WhatsAppTemplateBody `json:"template"`
}

// WhatsAppTemplateBody names an approved template and its body parameters
type WhatsAppTemplateBody struct {
	Name       string                      `json:"name"`
	Language   WhatsAppLanguage            `json:"language"`
	Components []WhatsAppTemplateComponent `json:"components,omitempty"`
}

// WhatsAppLanguage represents the language code
type WhatsAppLanguage struct {
	Code string `json:"code"`
}

// WhatsAppTemplateComponent represents a template component
type WhatsAppTemplateComponent struct {
	Type       string                      `json:"type"`
	Parameters []WhatsAppTemplateParameter `json:"parameters"`
}

// WhatsAppTemplateParameter represents a template parameter
type WhatsAppTemplateParameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// WhatsAppTextMessage represents a free-form text message
type WhatsAppTextMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	RecipientType    string       `json:"recipient_type"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             WhatsAppText `json:"text"`
}

// WhatsAppText is the body of a text message
type WhatsAppText struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

// WhatsAppResponse represents the API response
type WhatsAppResponse struct {
	MessagingProduct string `json:"messaging_product"`
	Messages         []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// Notify sends message as a free-form text
func (w *WhatsAppCloudSender) Notify(ctx context.Context, phone, message string) (string, error) {
	return w.SendText(ctx, phone, message)
}

// SendTemplate sends an approved template message with positional body parameters
func (w *WhatsAppCloudSender) SendTemplate(ctx context.Context, to, templateName string, parameters []string) (string, error) {
	var components []WhatsAppTemplateComponent
	if len(parameters) > 0 {
		params := make([]WhatsAppTemplateParameter, len(parameters))
		for i, param := range parameters {
			params[i] = WhatsAppTemplateParameter{Type: "text", Text: param}
		}
		components = append(components, WhatsAppTemplateComponent{
			Type:       "body",
			Parameters: params,
		})
	}

	return w.send(ctx, WhatsAppTemplateMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               normalizePhone(to),
		Type:             "template",
		Template: WhatsAppTemplateBody{
			Name:       templateName,
			Language:   WhatsAppLanguage{Code: w.languageCode},
			Components: components,
		},
	})
}

// SendText sends a text message
func (w *WhatsAppCloudSender) SendText(ctx context.Context, to, body string) (string, error) {
	return w.send(ctx, WhatsAppTextMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               normalizePhone(to),
		Type:             "text",
		Text:             WhatsAppText{Body: body},
	})
}

func (w *WhatsAppCloudSender) send(ctx context.Context, message any) (string, error) {
	url := fmt.Sprintf("%s/%s/messages", w.baseURL, w.phoneNumberID)

	payload, err := json.Marshal(message)
	if err != nil {
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+w.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", apperrors.NewExternalError("whatsapp request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.NewExternalError(fmt.Sprintf("whatsapp returned status %d", resp.StatusCode), errors.New(string(body)))
	}

	var parsed WhatsAppResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(parsed.Messages) == 0 {
		return "", errors.New("no message ID in response")
	}

	return parsed.Messages[0].ID, nil
}

// normalizePhone strips formatting characters; the Cloud API expects digits only
func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
