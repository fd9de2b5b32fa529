package stripe

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maherraissi/MedFlow/config"
)

func newTestClient() *Client {
	return New(config.StripeConfig{
		SecretKey:     "sk_test_123",
		WebhookSecret: "whsec_test_secret",
	})
}

func TestConstructEventRoundtrip(t *testing.T) {
	c := newTestClient()
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_1","metadata":{"invoiceId":"abc"}}}}`)

	now := time.Now()
	header := c.SignPayload(payload, now)

	ev, err := c.ConstructEvent(payload, header, now)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", ev.ID)
	assert.Equal(t, "checkout.session.completed", ev.Type)
	assert.NotEmpty(t, ev.Data.Object)
}

func TestConstructEventRejectsBadSignature(t *testing.T) {
	c := newTestClient()
	other := New(config.StripeConfig{WebhookSecret: "whsec_other"})

	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	now := time.Now()
	header := other.SignPayload(payload, now)

	_, err := c.ConstructEvent(payload, header, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestConstructEventRejectsTamperedPayload(t *testing.T) {
	c := newTestClient()
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()
	header := c.SignPayload(payload, now)

	_, err := c.ConstructEvent([]byte(`{"id":"evt_2"}`), header, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestConstructEventRejectsStaleTimestamp(t *testing.T) {
	c := newTestClient()
	payload := []byte(`{"id":"evt_1"}`)

	signedAt := time.Now().Add(-DefaultTolerance - time.Minute)
	header := c.SignPayload(payload, signedAt)

	_, err := c.ConstructEvent(payload, header, time.Now())
	assert.ErrorIs(t, err, ErrSignatureTooOld)
}

func TestConstructEventHeaderParsing(t *testing.T) {
	c := newTestClient()
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{"empty header", "", ErrMissingSignature},
		{"garbage header", "not-a-signature", ErrMalformedSignature},
		{"missing v1", fmt.Sprintf("t=%d", now.Unix()), ErrMalformedSignature},
		{"missing timestamp", "v1=deadbeef", ErrMalformedSignature},
		{"non-numeric timestamp", "t=soon,v1=deadbeef", ErrMalformedSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.ConstructEvent(payload, tt.header, now)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConstructEventIgnoresUnknownSchemes(t *testing.T) {
	c := newTestClient()
	payload := []byte(`{"id":"evt_1","type":"checkout.session.expired"}`)
	now := time.Now()

	header := c.SignPayload(payload, now) + ",v0=ffffffff"

	ev, err := c.ConstructEvent(payload, header, now)
	require.NoError(t, err)
	assert.Equal(t, "checkout.session.expired", ev.Type)
}
