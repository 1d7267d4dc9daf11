package catalog

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// normalizeCreate assembles a full document from a canonical field bag:
// every declared field is materialized (absent fields take their zero
// value), hooks derive their fields, and the kind's strip list is applied
// last. Incoming id and slug keys are always discarded; the service
// assigns both after normalization.
func normalizeCreate(kind Kind, sc schema, fields map[string]interface{}, now time.Time) (Document, error) {
	doc := make(Document, len(fields)+len(sc.fields))
	for k, v := range fields {
		doc[k] = v
	}
	delete(doc, "id")
	delete(doc, "slug")

	for name, rule := range sc.fields {
		v, present := doc[name]
		switch rule {
		case ruleBool:
			doc[name] = coerceBool(v)
		case ruleFloat:
			doc[name] = coerceFloat(v)
		case ruleInt:
			doc[name] = coerceInt(v)
		case ruleStringList:
			doc[name] = coerceStringList(v)
		case ruleImageList:
			doc[name] = coerceImageList(v)
		case ruleJSONArray:
			if !present {
				doc[name] = []interface{}{}
				continue
			}
			parsed, err := parseEmbeddedJSON(v)
			if err != nil {
				return nil, &InputError{Kind: kind, Field: name, Err: err}
			}
			doc[name] = parsed
		case ruleJSONObject:
			if !present {
				doc[name] = map[string]interface{}{}
				continue
			}
			parsed, err := parseEmbeddedJSON(v)
			if err != nil {
				return nil, &InputError{Kind: kind, Field: name, Err: err}
			}
			doc[name] = parsed
		}
	}

	if sc.onCreate != nil {
		sc.onCreate(doc, now)
	}
	for _, name := range sc.strip {
		delete(doc, name)
	}
	return doc, nil
}

// normalizeUpdate assembles a patch from a canonical field bag: only the
// fields present in the bag are coerced, and embedded JSON that fails to
// parse degrades to an empty container instead of failing the update.
// Incoming id and slug keys are always discarded, which is what keeps both
// immutable.
func normalizeUpdate(sc schema, fields map[string]interface{}) Document {
	patch := make(Document, len(fields))
	for k, v := range fields {
		patch[k] = v
	}
	delete(patch, "id")
	delete(patch, "slug")

	for name, rule := range sc.fields {
		v, present := patch[name]
		if !present {
			continue
		}
		switch rule {
		case ruleBool:
			patch[name] = coerceBool(v)
		case ruleFloat:
			patch[name] = coerceFloat(v)
		case ruleInt:
			patch[name] = coerceInt(v)
		case ruleStringList:
			patch[name] = coerceStringList(v)
		case ruleImageList:
			patch[name] = coerceImageList(v)
		case ruleJSONArray:
			parsed, err := parseEmbeddedJSON(v)
			if err != nil {
				patch[name] = []interface{}{}
				continue
			}
			patch[name] = parsed
		case ruleJSONObject:
			parsed, err := parseEmbeddedJSON(v)
			if err != nil {
				patch[name] = map[string]interface{}{}
				continue
			}
			patch[name] = parsed
		}
	}

	if sc.onUpdate != nil {
		sc.onUpdate(patch)
	}
	for _, name := range sc.strip {
		delete(patch, name)
	}
	return patch
}

// coerceBool keeps true only for boolean true and the literal string
// "true". Checkbox form values arrive as text, so "false", "on", "1" and
// every other shape all mean false.
func coerceBool(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true"
	default:
		return false
	}
}

func coerceFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func coerceInt(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return float64(int64(t))
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.Atoi(s); err == nil {
			return float64(n)
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return float64(int64(f))
		}
		return 0
	default:
		return 0
	}
}

// coerceStringList keeps sequences as-is and splits comma-separated text
// into trimmed entries, dropping empties. Any other shape becomes an empty
// sequence.
func coerceStringList(v interface{}) []interface{} {
	switch t := v.(type) {
	case []interface{}:
		return t
	case string:
		parts := strings.Split(t, ",")
		out := make([]interface{}, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	default:
		return []interface{}{}
	}
}

// coerceImageList keeps sequences only; image names enter documents via
// the upload layer, never as loose text.
func coerceImageList(v interface{}) []interface{} {
	if t, ok := v.([]interface{}); ok {
		return t
	}
	return []interface{}{}
}

// parseEmbeddedJSON decodes field values that arrive as JSON text, which
// is how multipart form submissions carry nested structures. Values that
// are already structured pass through unchanged.
func parseEmbeddedJSON(v interface{}) (interface{}, error) {
	s, ok := v.(string)
	if !ok {
		return v, nil
	}
	var parsed interface{}
	if err := json.Unmarshal([]byte(s), &parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}
