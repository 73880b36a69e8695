package check

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// normalizeResult turns a raw model reply into a canonical RuleResult.
// Missing or malformed fields get safe defaults; confidence is clamped to
// [0,100]. The only error is a reply with no parseable JSON object.
func normalizeResult(rule, raw string) (RuleResult, error) {
	obj, err := extractJSONObject(raw)
	if err != nil {
		return RuleResult{}, err
	}
	return RuleResult{
		Rule:       rule,
		Status:     normalizeStatus(obj["status"]),
		Evidence:   stringOrDefault(obj["evidence"], DefaultEvidence),
		Reasoning:  stringOrDefault(obj["reasoning"], DefaultReasoning),
		Confidence: clampConfidence(parseConfidence(obj["confidence"])),
	}, nil
}

// extractJSONObject pulls the first {...} span out of the reply. Models
// occasionally wrap the object in prose or code fences despite instructions.
func extractJSONObject(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty llm response")
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		raw = raw[start : end+1]
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, fmt.Errorf("invalid JSON in llm response: %w", err)
	}
	return obj, nil
}

func normalizeStatus(v any) string {
	s, ok := v.(string)
	if !ok {
		return StatusFail
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case StatusPass:
		return StatusPass
	default:
		return StatusFail
	}
}

func stringOrDefault(v any, def string) string {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// parseConfidence accepts anything integer-like and yields 0 otherwise.
func parseConfidence(v any) int {
	switch c := v.(type) {
	case float64:
		return int(c)
	case json.Number:
		if n, err := c.Int64(); err == nil {
			return int(n)
		}
		if f, err := c.Float64(); err == nil {
			return int(f)
		}
		return 0
	case string:
		s := strings.TrimSpace(c)
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f)
		}
		return 0
	default:
		return 0
	}
}

func clampConfidence(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
