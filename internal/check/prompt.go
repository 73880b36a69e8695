package check

import (
	"bytes"
	"fmt"
	"strings"
)

const promptVersion = "pdfcheck-v1"

const (
	temperature     = 0.3
	maxOutputTokens = 500
)

func buildSystemPrompt() string {
	return strings.TrimSpace(`
You are a strict document compliance checker.
Return ONLY a valid JSON object. Do not include markdown, code fences, or any text outside the JSON.
A rule that is not clearly satisfied by the document must get status "fail".
	`)
}

func buildUserPrompt(rule, docText string) string {
	var buf bytes.Buffer
	buf.WriteString("Check whether the document below satisfies this rule.\n")
	buf.WriteString(fmt.Sprintf("Rule: %s\n\n", rule))
	buf.WriteString("Respond with a JSON object containing exactly these four fields:\n")
	buf.WriteString(`- "status": "pass" or "fail"` + "\n")
	buf.WriteString(`- "evidence": a literal quote from the document supporting the verdict, or "Not found"` + "\n")
	buf.WriteString(`- "reasoning": one to two sentences explaining the verdict` + "\n")
	buf.WriteString(`- "confidence": an integer from 0 to 100` + "\n\n")
	buf.WriteString("Document text:\n")
	buf.WriteString(docText)
	return buf.String()
}
