// Package messaging hands formatted orders to the store's messaging channel.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// WhatsAppConfig configures the WhatsApp deep link
type WhatsAppConfig struct {
	BaseURL string // e.g. https://api.whatsapp.com/send
	Phone   string // recipient in international format, digits only
}

// WhatsAppDispatcher builds a click-to-chat link carrying the order
// transcript. Opening the link is left to the client.
type WhatsAppDispatcher struct {
	base   *url.URL
	phone  string
	logger *zap.Logger
}

// NewWhatsAppDispatcher validates cfg and creates a dispatcher
func NewWhatsAppDispatcher(cfg WhatsAppConfig, log *zap.Logger) (*WhatsAppDispatcher, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid whatsapp base url: %w", err)
	}
	if base.Scheme != "https" && base.Scheme != "http" || base.Host == "" {
		return nil, fmt.Errorf("invalid whatsapp base url %q", cfg.BaseURL)
	}
	phone := strings.TrimPrefix(strings.TrimSpace(cfg.Phone), "+")
	if phone == "" {
		return nil, errors.New("whatsapp phone is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &WhatsAppDispatcher{base: base, phone: phone, logger: log}, nil
}

// Link returns the deep link for transcript
func (d *WhatsAppDispatcher) Link(transcript string) string {
	u := *d.base
	u.RawQuery = "phone=" + escape(d.phone) + "&text=" + escape(transcript)
	return u.String()
}

// Dispatch builds the deep link for transcript and records the hand-off.
// It fails only on an empty transcript or a cancelled context.
func (d *WhatsAppDispatcher) Dispatch(ctx context.Context, transcript string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(transcript) == "" {
		return "", errors.New("empty transcript")
	}
	link := d.Link(transcript)
	logger.For(ctx, d.logger).Info("order dispatched to whatsapp",
		zap.String("recipient", d.phone),
		zap.Int("transcript_bytes", len(transcript)),
	)
	return link, nil
}

// escape percent-encodes s with spaces as %20
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
