package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes the result as a JSON object whose keys follow
// insertion order. HTML characters are not escaped.
func (r *ScanResult) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	for lang, summary := range r.All() {
		if !first {
			buf.WriteByte(',')
		}
		first = false

		key, err := marshalNoEscape(lang)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		value, err := marshalNoEscape(summary)
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", lang, err)
		}
		buf.Write(value)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the key order of the input.
func (r *ScanResult) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	r.languages = nil

	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("scan result: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		lang, ok := tok.(string)
		if !ok {
			return fmt.Errorf("scan result: expected language key, got %v", tok)
		}

		summary := NewLanguageSummary()
		if err := dec.Decode(summary); err != nil {
			return fmt.Errorf("decode %q: %w", lang, err)
		}
		if summary.Files == nil {
			summary.Files = []FileRecord{}
		}
		r.m().Set(lang, summary)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// marshalNoEscape encodes v into JSON without escaping <, >, & into \u003c, etc.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// Remove trailing newline from json.Encoder.Encode
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
