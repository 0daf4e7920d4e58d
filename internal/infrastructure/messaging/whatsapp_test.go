package messaging

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newDispatcher(t *testing.T) *WhatsAppDispatcher {
	t.Helper()
	d, err := NewWhatsAppDispatcher(WhatsAppConfig{
		BaseURL: "https://api.whatsapp.com/send",
		Phone:   "573028426828",
	}, zap.NewNop())
	require.NoError(t, err)
	return d
}

func TestNewWhatsAppDispatcher_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  WhatsAppConfig
	}{
		{"missing scheme", WhatsAppConfig{BaseURL: "api.whatsapp.com/send", Phone: "57300"}},
		{"ftp scheme", WhatsAppConfig{BaseURL: "ftp://api.whatsapp.com/send", Phone: "57300"}},
		{"missing phone", WhatsAppConfig{BaseURL: "https://api.whatsapp.com/send", Phone: "  "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWhatsAppDispatcher(tt.cfg, nil)
			assert.Error(t, err)
		})
	}

	d, err := NewWhatsAppDispatcher(WhatsAppConfig{BaseURL: "https://api.whatsapp.com/send", Phone: "+573028426828"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "573028426828", d.phone)
}

func TestWhatsAppDispatcher_Link(t *testing.T) {
	d := newDispatcher(t)
	transcript := "¡Hola! Quiero realizar un pedido:\n\n• Creatina x2 = $ 90.000\n"

	link := d.Link(transcript)

	assert.Contains(t, link, "https://api.whatsapp.com/send?phone=573028426828&text=")
	assert.Contains(t, link, "%C2%A1Hola%21%20Quiero")
	assert.Contains(t, link, "%0A")
	assert.NotContains(t, link, "+")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, transcript, u.Query().Get("text"))
	assert.Equal(t, "573028426828", u.Query().Get("phone"))
}

func TestWhatsAppDispatcher_Dispatch(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	d, err := NewWhatsAppDispatcher(WhatsAppConfig{BaseURL: "https://api.whatsapp.com/send", Phone: "573028426828"}, zap.New(core))
	require.NoError(t, err)

	link, err := d.Dispatch(context.Background(), "pedido")
	require.NoError(t, err)
	assert.Equal(t, "https://api.whatsapp.com/send?phone=573028426828&text=pedido", link)
	assert.Equal(t, 1, logs.FilterMessage("order dispatched to whatsapp").Len())

	_, err = d.Dispatch(context.Background(), "   ")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = d.Dispatch(ctx, "pedido")
	assert.ErrorIs(t, err, context.Canceled)
}
