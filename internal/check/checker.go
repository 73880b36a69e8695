package check

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"pdfcheck/internal/cache"
	"pdfcheck/internal/config"
	"pdfcheck/internal/extract"
	"pdfcheck/internal/llm"
	"pdfcheck/internal/logging"

	"github.com/microcosm-cc/bluemonday"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Checker evaluates natural-language rules against document text by
// delegating judgment to an LLM. It never returns an error for a rule:
// every failure mode degrades into a "fail" RuleResult.
type Checker struct {
	llm       llm.Client
	cache     cache.ResultCache
	schema    *jsonschema.Schema
	sanitizer *bluemonday.Policy
}

// NewChecker builds a Checker. resultCache may be nil to disable caching.
func NewChecker(client llm.Client, resultCache cache.ResultCache) *Checker {
	schema, err := compileResultSchema()
	if err != nil {
		logging.Errorf("compile result schema: %v", err)
	}
	return &Checker{
		llm:       client,
		cache:     resultCache,
		schema:    schema,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Run evaluates every rule concurrently and returns one result per rule,
// in input order. Empty or whitespace-only rules are failed immediately
// without touching the LLM.
func (c *Checker) Run(ctx context.Context, docText string, rules []string) []RuleResult {
	results := make([]RuleResult, len(rules))
	var wg sync.WaitGroup
	for i, rule := range rules {
		if strings.TrimSpace(rule) == "" {
			results[i] = RuleResult{
				Rule:       rule,
				Status:     StatusFail,
				Evidence:   DefaultEvidence,
				Reasoning:  EmptyRuleReasoning,
				Confidence: 0,
			}
			continue
		}
		wg.Add(1)
		go func(i int, rule string) {
			defer wg.Done()
			results[i] = c.CheckRule(ctx, docText, rule)
		}(i, rule)
	}
	wg.Wait()
	return results
}

// CheckRule evaluates a single rule. Call and parse failures are folded
// into a degraded "fail" result rather than propagated.
func (c *Checker) CheckRule(ctx context.Context, docText, rule string) RuleResult {
	docText = extract.Truncate(docText, config.MaxDocumentChars)

	key := cache.Key(c.llm.Model(), promptVersion, rule, docText)
	if cached, ok := c.lookupCache(ctx, key, rule); ok {
		return cached
	}

	raw, err := c.llm.Complete(ctx, llm.Request{
		SystemPrompt:    buildSystemPrompt(),
		UserPrompt:      buildUserPrompt(rule, docText),
		Temperature:     temperature,
		MaxOutputTokens: maxOutputTokens,
		ResponseSchema:  resultResponseSchema(),
	})
	if err != nil {
		logging.Errorf("llm call for rule %q: %v", rule, err)
		return errorResult(rule, err)
	}

	if err := conformsToSchema(c.schema, raw); err != nil {
		logging.Debugf("non-conforming llm reply for rule %q: %v", rule, err)
	}

	res, err := normalizeResult(rule, raw)
	if err != nil {
		logging.Errorf("parse llm reply for rule %q: %v", rule, err)
		return errorResult(rule, err)
	}
	res.Evidence = c.sanitizer.Sanitize(res.Evidence)
	res.Reasoning = c.sanitizer.Sanitize(res.Reasoning)

	c.storeCache(ctx, key, res)
	return res
}

func errorResult(rule string, err error) RuleResult {
	return RuleResult{
		Rule:       rule,
		Status:     StatusFail,
		Evidence:   ErrorEvidence,
		Reasoning:  err.Error(),
		Confidence: 0,
	}
}

func (c *Checker) lookupCache(ctx context.Context, key, rule string) (RuleResult, bool) {
	if c.cache == nil {
		return RuleResult{}, false
	}
	val, found, err := c.cache.Get(ctx, key)
	if err != nil {
		logging.Debugf("result cache get: %v", err)
		return RuleResult{}, false
	}
	if !found {
		return RuleResult{}, false
	}
	var res RuleResult
	if err := json.Unmarshal([]byte(val), &res); err != nil {
		return RuleResult{}, false
	}
	res.Rule = rule
	return res, true
}

func (c *Checker) storeCache(ctx context.Context, key string, res RuleResult) {
	if c.cache == nil {
		return
	}
	b, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, string(b)); err != nil {
		logging.Debugf("result cache set: %v", err)
	}
}
