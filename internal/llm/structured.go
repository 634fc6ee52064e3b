package llm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SchemaValidator checks a decoded payload before it is returned.
type SchemaValidator[T any] func(T) error

// ExtractJSON decodes the first JSON object in raw into T. Code fences and
// prose around the object are ignored, as are // comments inside it. A
// non-nil validator runs on the decoded value.
func ExtractJSON[T any](raw string, validator SchemaValidator[T]) (T, error) {
	var zero T

	obj, err := firstObject(raw)
	if err != nil {
		return zero, err
	}

	var out T
	if err := json.Unmarshal([]byte(obj), &out); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if validator != nil {
		if err := validator(out); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}
	return out, nil
}

// ExtractSlots decodes a flat object of named text values, the shape the
// extraction task answers with. A JSON null, the string "null" and blank
// strings mean the value was not mentioned and are left out. Numbers and
// booleans keep their text form; nested values are dropped.
func ExtractSlots(raw string) (map[string]string, error) {
	fields, err := ExtractJSON[map[string]any](raw, nil)
	if err != nil {
		return nil, err
	}
	slots := make(map[string]string, len(fields))
	for name, v := range fields {
		if s, ok := slotText(v); ok {
			slots[name] = s
		}
	}
	return slots, nil
}

func slotText(v any) (string, bool) {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(t)
	default:
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return "", false
	}
	return s, true
}

// firstObject returns the first balanced {...} in raw, copying it with
// line comments outside string literals removed.
func firstObject(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%w: empty response", ErrInvalidOutput)
	}
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
	}

	var b strings.Builder
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		switch {
		case inString:
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
		case c == '"':
			inString = true
		case c == '/' && i+1 < len(raw) && raw[i+1] == '/':
			for i+1 < len(raw) && raw[i+1] != '\n' {
				i++
			}
			continue
		case c == '{':
			depth++
		case c == '}':
			depth--
		}
		b.WriteByte(c)
		if depth == 0 {
			return b.String(), nil
		}
	}
	return "", fmt.Errorf("%w: unterminated JSON object", ErrInvalidOutput)
}
