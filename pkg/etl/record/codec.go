package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrMalformed : blob is not valid utf-8 json
	ErrMalformed = errors.New("failed to parse JSON data")
	// ErrUnexpectedShape : valid json but neither an object nor an array of objects
	ErrUnexpectedShape = errors.New("unexpected data format")
)

// DecodeBatch : reads a blob holding either one json object (a batch of one)
// or a json array of objects
func DecodeBatch(b []byte) ([]Record, error) {
	if !utf8.Valid(b) {
		return nil, fmt.Errorf("%w: content is not valid UTF-8", ErrMalformed)
	}

	var raw json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	raw = bytes.TrimSpace(raw)

	switch raw[0] {
	case '{':
		var r Record
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		return []Record{r}, nil
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		batch := make([]Record, 0, len(elems))
		for i, elem := range elems {
			elem = bytes.TrimSpace(elem)
			if elem[0] != '{' {
				return nil, fmt.Errorf("%w: element %d is a %s, expected an object", ErrUnexpectedShape, i, kindOf(elem))
			}
			var r Record
			if err := json.Unmarshal(elem, &r); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
			}
			batch = append(batch, r)
		}
		return batch, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnexpectedShape, kindOf(raw))
}

// EncodeBatch : pretty printed json array, two space indent, no trailing
// newline. An empty or nil batch is written as []
func EncodeBatch(batch []Record) ([]byte, error) {
	if batch == nil {
		batch = []Record{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(batch); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func kindOf(raw json.RawMessage) string {
	switch raw[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	}
	return "number"
}
