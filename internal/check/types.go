package check

// Rule statuses. Every result carries exactly one of these.
const (
	StatusPass = "pass"
	StatusFail = "fail"
)

// Fallbacks used when the model omits or mangles a field.
const (
	DefaultEvidence    = "No evidence found"
	DefaultReasoning   = "Unable to determine"
	ErrorEvidence      = "Error processing rule"
	EmptyRuleReasoning = "Rule is empty or invalid"
)

// RuleResult is the verdict for one rule against one document.
// Invariants: Status is "pass" or "fail"; Confidence is in [0,100].
type RuleResult struct {
	Rule       string `json:"rule"`
	Status     string `json:"status"`
	Evidence   string `json:"evidence"`
	Reasoning  string `json:"reasoning"`
	Confidence int    `json:"confidence"`
}

// Response is the body of a successful check: one result per submitted
// rule, in submission order.
type Response struct {
	Results []RuleResult `json:"results"`
}
