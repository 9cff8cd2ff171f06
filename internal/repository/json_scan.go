package repository

import (
	"encoding/json"

	"github.com/newsletterai/api/internal/model"
)

// jsonb columns come back as []byte or string depending on the driver
// path; these scanners normalize both and tolerate NULL.

type jsonStringArrayScanner struct {
	dst *[]string
}

type jsonMapScanner struct {
	dst *map[string]any
}

type subjectLinesScanner struct {
	dst *[]model.SubjectLine
}

func jsonBytes(src any) []byte {
	switch v := src.(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	default:
		return nil
	}
}

func (s jsonStringArrayScanner) Scan(src any) error {
	if s.dst == nil {
		return nil
	}
	b := jsonBytes(src)
	if len(b) == 0 {
		*s.dst = nil
		return nil
	}
	var out []string
	if err := json.Unmarshal(b, &out); err != nil {
		return err
	}
	*s.dst = out
	return nil
}

func (s jsonMapScanner) Scan(src any) error {
	if s.dst == nil {
		return nil
	}
	b := jsonBytes(src)
	if len(b) == 0 {
		*s.dst = nil
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return err
	}
	*s.dst = out
	return nil
}

func (s subjectLinesScanner) Scan(src any) error {
	if s.dst == nil {
		return nil
	}
	b := jsonBytes(src)
	if len(b) == 0 {
		*s.dst = nil
		return nil
	}
	var out []model.SubjectLine
	if err := json.Unmarshal(b, &out); err != nil {
		return err
	}
	*s.dst = out
	return nil
}

// marshalJSON renders a jsonb parameter; nil values become SQL NULL.
func marshalJSON(v any) (*string, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}
