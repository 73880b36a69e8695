package check

import (
	"strings"
	"testing"

	"pdfcheck/internal/config"
	"pdfcheck/internal/extract"
)

func TestBuildSystemPrompt_RequiresJSONOnly(t *testing.T) {
	prompt := buildSystemPrompt()
	if !strings.Contains(prompt, "Return ONLY a valid JSON object") {
		t.Fatalf("expected system prompt to require JSON-only output")
	}
	if !strings.Contains(prompt, `"fail"`) {
		t.Fatalf("expected system prompt to direct unsatisfied rules to fail")
	}
}

func TestBuildUserPrompt_EmbedsRuleAndDocument(t *testing.T) {
	prompt := buildUserPrompt("Document mentions a date.", "Published 2024")
	if !strings.Contains(prompt, "Rule: Document mentions a date.") {
		t.Fatalf("expected user prompt to state the rule")
	}
	if !strings.Contains(prompt, "Published 2024") {
		t.Fatalf("expected user prompt to embed the document text")
	}
	for _, field := range []string{`"status"`, `"evidence"`, `"reasoning"`, `"confidence"`} {
		if !strings.Contains(prompt, field) {
			t.Fatalf("expected user prompt to require field %s", field)
		}
	}
	if !strings.Contains(prompt, `"Not found"`) {
		t.Fatalf("expected user prompt to allow Not found evidence")
	}
}

func TestBuildUserPrompt_TruncatedDocumentKeepsMarker(t *testing.T) {
	doc := extract.Truncate(strings.Repeat("a", config.MaxDocumentChars+500), config.MaxDocumentChars)
	prompt := buildUserPrompt("r", doc)
	if !strings.Contains(prompt, extract.TruncationMarker) {
		t.Fatalf("expected truncation marker to survive into the prompt")
	}
}

func TestResultResponseSchema_MatchesContract(t *testing.T) {
	schema := resultResponseSchema()
	required, ok := schema["required"].([]any)
	if !ok {
		t.Fatalf("expected required field list")
	}
	want := map[string]bool{"status": false, "evidence": false, "reasoning": false, "confidence": false}
	for _, v := range required {
		name, _ := v.(string)
		if _, known := want[name]; known {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("expected schema to require %s", name)
		}
	}

	props := schema["properties"].(map[string]any)
	status := props["status"].(map[string]any)
	enum := status["enum"].([]any)
	if len(enum) != 2 || enum[0] != "pass" || enum[1] != "fail" {
		t.Fatalf("expected status enum [pass fail], got %v", enum)
	}
	confidence := props["confidence"].(map[string]any)
	if confidence["minimum"] != 0 || confidence["maximum"] != 100 {
		t.Fatalf("expected confidence bounds [0,100]")
	}
}

func TestCompileResultSchema_FlagsNonConformingReplies(t *testing.T) {
	schema, err := compileResultSchema()
	if err != nil {
		t.Fatalf("compile schema: %v", err)
	}
	good := `{"status":"pass","evidence":"x","reasoning":"y","confidence":50}`
	if err := conformsToSchema(schema, good); err != nil {
		t.Fatalf("expected conforming reply to validate, got %v", err)
	}
	bad := `{"status":"maybe","evidence":"x","reasoning":"y","confidence":50}`
	if err := conformsToSchema(schema, bad); err == nil {
		t.Fatalf("expected out-of-enum status to fail validation")
	}
	extra := `{"status":"pass","evidence":"x","reasoning":"y","confidence":50,"note":"hi"}`
	if err := conformsToSchema(schema, extra); err == nil {
		t.Fatalf("expected extra fields to fail validation")
	}
}
