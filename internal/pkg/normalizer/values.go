package normalizer

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// pick returns the first alias holding a non-empty value.
func pick(raw map[string]any, aliases ...string) (any, bool) {
	for _, alias := range aliases {
		value, ok := raw[alias]
		if !ok || value == nil {
			continue
		}
		if s, isString := value.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return value, true
	}
	return nil, false
}

func pickString(raw map[string]any, aliases ...string) string {
	value, ok := pick(raw, aliases...)
	if !ok {
		return ""
	}
	return stringValue(value)
}

// stringValue renders scalars the way a person would have typed them into
// the sheet. Spreadsheets hand DNIs and phones back as numbers, so floats
// with no fraction print as plain integers.
func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return numberString(v.String())
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1e18 {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return stringValue(float64(v))
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func numberString(s string) string {
	if !strings.ContainsAny(s, ".eE") {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return stringValue(f)
}

func intValue(value any) (int, bool) {
	switch v := value.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i), true
		}
		if f, err := v.Float64(); err == nil {
			return int(f), true
		}
	case string:
		fields := strings.Fields(v)
		if len(fields) == 0 {
			return 0, false
		}
		if i, err := strconv.Atoi(fields[0]); err == nil {
			return i, true
		}
	}
	return 0, false
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func stringList(value any) []string {
	switch v := value.(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := stringValue(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := strings.TrimSpace(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		return stringList(toAnySlice(strings.Split(v, ",")))
	}
	return nil
}

func toAnySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func nestedMap(raw map[string]any, path ...string) map[string]any {
	current := raw
	for _, key := range path {
		next, ok := current[key].(map[string]any)
		if !ok {
			return nil
		}
		current = next
	}
	return current
}

// decodeList accepts every envelope the webhooks have been seen to answer
// with: a bare array, an object wrapping the array under one of
// envelopeKeys, or a single record. n8n item wrappers ({"json": {...}}) are
// unwrapped.
func decodeList(body []byte, envelopeKeys ...string) ([]map[string]any, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return []map[string]any{}, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var payload any
	if err := decoder.Decode(&payload); err != nil {
		return nil, err
	}

	switch v := payload.(type) {
	case []any:
		return mapsFrom(v), nil
	case map[string]any:
		for _, key := range envelopeKeys {
			switch inner := v[key].(type) {
			case []any:
				return mapsFrom(inner), nil
			case map[string]any:
				return []map[string]any{unwrapItem(inner)}, nil
			}
		}
		if len(v) == 0 {
			return []map[string]any{}, nil
		}
		return []map[string]any{unwrapItem(v)}, nil
	case nil:
		return []map[string]any{}, nil
	default:
		return nil, fmt.Errorf("unexpected payload type %T", payload)
	}
}

func mapsFrom(items []any) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, unwrapItem(m))
		}
	}
	return out
}

func unwrapItem(item map[string]any) map[string]any {
	if len(item) == 1 {
		if inner, ok := item["json"].(map[string]any); ok {
			return inner
		}
	}
	return item
}

// DecodeObject decodes a single record response, unwrapping envelopes.
func DecodeObject(body []byte, envelopeKeys ...string) (map[string]any, error) {
	items, err := decodeList(body, envelopeKeys...)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return map[string]any{}, nil
	}
	return items[0], nil
}
