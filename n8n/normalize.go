package n8n

import (
	"encoding/json"
	"strings"
)

// Fixed display strings for degraded outcomes. These are shown to the user
// in place of a reply; none of them is an error.
const (
	// NoResponseMessage is returned when the call itself failed (non-2xx,
	// timeout, connection error).
	NoResponseMessage = "Tidak ada respons dari n8n. Silakan coba lagi."
	// EmptyResponseMessage is returned when the body decoded to nothing
	// displayable.
	EmptyResponseMessage = "Respons kosong dari n8n"
	// NotConfiguredMessage is returned when no webhook URL is configured.
	NotConfiguredMessage = "Webhook n8n tidak dikonfigurasi. Hubungi admin."

	unrecognizedPrefix = "Format respons n8n tidak dikenali: "
)

// Normalize converts a raw webhook response body into a single display
// string. The upstream emits several shapes and occasionally
// double-encoded JSON, so normalization runs an ordered list of shape
// matchers and falls back to progressively cleaner text. Every branch
// yields a display string; this function never fails.
func Normalize(body string, ok bool) string {
	if !ok {
		return NoResponseMessage
	}

	if reply, matched := decodeReply(body); matched {
		return reply
	}

	if json.Valid([]byte(body)) {
		// Valid JSON in an unrecognized shape. Surface the raw body so the
		// operator can see what the workflow returned.
		return unrecognizedPrefix + body
	}

	// Malformed JSON: strip one layer of quoting and unescape, then retry.
	clean := cleanBody(body)
	if reply, matched := decodeReply(clean); matched {
		return reply
	}
	if clean == "" {
		return EmptyResponseMessage
	}
	return clean
}

// decodeReply runs the shape matchers against a candidate body. It reports
// false when the body is not valid JSON or matches no known shape.
func decodeReply(body string) (string, bool) {
	var decoded interface{}
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		return "", false
	}

	// Shape 1: [{"output": ...}, ...] — an n8n item list; the first item
	// carries the reply. An empty list matches nothing.
	if items, isArray := decoded.([]interface{}); isArray && len(items) > 0 {
		if first, isObject := items[0].(map[string]interface{}); isObject {
			if out, present := outputField(first); present {
				return out, true
			}
		}
	}

	// Shape 2: {"output": ...} — a bare object reply.
	if obj, isObject := decoded.(map[string]interface{}); isObject {
		if out, present := outputField(obj); present {
			return out, true
		}
	}

	return "", false
}

// outputField extracts the "output" field as display text. An empty string
// is a valid (if empty) reply; a null or missing field is not a match.
// Non-string values are re-encoded as compact JSON.
func outputField(obj map[string]interface{}) (string, bool) {
	val, exists := obj["output"]
	if !exists || val == nil {
		return "", false
	}
	if s, isString := val.(string); isString {
		return s, true
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return "", false
	}
	return string(raw), true
}

// cleanBody strips one layer of enclosing quotes and unescapes the quote
// and newline sequences the upstream is known to double-encode.
func cleanBody(body string) string {
	clean := strings.Trim(body, `"`)
	clean = strings.ReplaceAll(clean, `\n`, "\n")
	clean = strings.ReplaceAll(clean, `\"`, `"`)
	return clean
}
