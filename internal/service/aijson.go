package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedResponse marks a completion reply that was not valid JSON
// even after fenced-block extraction. Handlers map it to a 500 without
// ever returning partial data.
var ErrMalformedResponse = errors.New("malformed AI response")

var reFencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*\\n(.*?)\\n\\s*```")

// ExtractJSON returns the JSON payload of a model reply. The model is
// not schema-constrained, so the reply is either bare JSON or JSON
// wrapped in a markdown fence; anything else is malformed.
func ExtractJSON(raw string) ([]byte, error) {
	trimmed := strings.TrimSpace(raw)
	if json.Valid([]byte(trimmed)) {
		return []byte(trimmed), nil
	}
	if m := reFencedBlock.FindStringSubmatch(raw); m != nil {
		inner := strings.TrimSpace(m[1])
		if json.Valid([]byte(inner)) {
			return []byte(inner), nil
		}
	}
	return nil, ErrMalformedResponse
}

// DecodeResponse extracts and unmarshals a model reply into dst.
func DecodeResponse(raw string, dst any) error {
	b, err := ExtractJSON(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
