package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingSignature   = errors.New("stripe: missing webhook signature header")
	ErrInvalidSignature   = errors.New("stripe: webhook signature verification failed")
	ErrSignatureTooOld    = errors.New("stripe: webhook timestamp outside tolerance")
	ErrMalformedSignature = errors.New("stripe: malformed signature header")
)

// DefaultTolerance is how far a webhook timestamp may drift before being rejected.
const DefaultTolerance = 5 * time.Minute

// Event is a decoded webhook envelope. Data.Object is left raw so callers can
// decode only the event types they handle.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// ConstructEvent verifies the Stripe-Signature header against the raw payload
// and decodes the event. The signature scheme is "t=<unix>,v1=<hmac-sha256>"
// over "<t>.<payload>" keyed by the webhook secret.
func (c *Client) ConstructEvent(payload []byte, sigHeader string, now time.Time) (*Event, error) {
	if sigHeader == "" {
		return nil, ErrMissingSignature
	}

	ts, sigs, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return nil, err
	}

	if now.Sub(time.Unix(ts, 0)) > DefaultTolerance {
		return nil, ErrSignatureTooOld
	}

	expected := computeSignature(c.webhookSecret, ts, payload)
	verified := false
	for _, sig := range sigs {
		if subtle.ConstantTimeCompare([]byte(sig), []byte(expected)) == 1 {
			verified = true
			break
		}
	}
	if !verified {
		return nil, ErrInvalidSignature
	}

	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("stripe: decode event: %w", err)
	}
	return &ev, nil
}

// SignPayload produces a valid Stripe-Signature header for a payload. Used by
// tests and local tooling to simulate webhook deliveries.
func (c *Client) SignPayload(payload []byte, at time.Time) string {
	ts := at.Unix()
	return fmt.Sprintf("t=%d,v1=%s", ts, computeSignature(c.webhookSecret, ts, payload))
}

func parseSignatureHeader(header string) (ts int64, v1 []string, err error) {
	ts = -1
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			return 0, nil, ErrMalformedSignature
		}
		switch kv[0] {
		case "t":
			ts, err = strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return 0, nil, ErrMalformedSignature
			}
		case "v1":
			v1 = append(v1, kv[1])
		}
		// Unknown schemes (v0, ...) are ignored.
	}
	if ts < 0 || len(v1) == 0 {
		return 0, nil, ErrMalformedSignature
	}
	return ts, v1, nil
}

func computeSignature(secret string, ts int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
