package phone

import (
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var (
	ErrInvalid = errors.New("invalid phone number")
)

// DefaultRegion is assumed when a number has no international prefix.
const DefaultRegion = "US"

// Normalize parses a phone number and returns it in E.164 form.
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalid
	}

	num, err := phonenumbers.Parse(raw, DefaultRegion)
	if err != nil {
		return "", ErrInvalid
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalid
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// Valid reports whether a phone number parses as a real number.
func Valid(raw string) bool {
	_, err := Normalize(raw)
	return err == nil
}
