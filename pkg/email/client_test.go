package email

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendSimulatedWhenDisabled(t *testing.T) {
	c, err := New(Config{Enabled: false})
	require.NoError(t, err)
	assert.True(t, c.Simulated())

	err = c.Send(context.Background(), Message{
		To:       []string{"jane@example.com"},
		Subject:  "Welcome",
		TextBody: "hello",
	})
	assert.NoError(t, err)
}

func TestSendSimulatedStillValidates(t *testing.T) {
	c, err := New(Config{Enabled: false})
	require.NoError(t, err)

	err = c.Send(context.Background(), Message{
		To:      []string{"jane@example.com"},
		Subject: "no body",
	})
	var invalid ErrInvalidMessage
	require.ErrorAs(t, err, &invalid)

	err = c.Send(context.Background(), Message{
		Subject:  "no recipient",
		TextBody: "hello",
	})
	require.ErrorAs(t, err, &invalid)
}

func TestSimulatedFlag(t *testing.T) {
	enabled, err := New(Config{Enabled: true, From: "clinic@example.com"})
	require.NoError(t, err)
	assert.False(t, enabled.Simulated())
}
