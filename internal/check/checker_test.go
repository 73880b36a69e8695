package check

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"pdfcheck/internal/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLLM answers per-rule from the user prompt. Rules containing "slow"
// are delayed so completion order differs from submission order.
type fakeLLM struct {
	mu    sync.Mutex
	calls int
	reply func(rule string) (string, error)
}

func (f *fakeLLM) Complete(ctx context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	rule := ruleFromPrompt(req.UserPrompt)
	if strings.Contains(rule, "slow") {
		time.Sleep(50 * time.Millisecond)
	}
	return f.reply(rule)
}

func (f *fakeLLM) Model() string { return "fake-model" }

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func ruleFromPrompt(prompt string) string {
	for _, line := range strings.Split(prompt, "\n") {
		if strings.HasPrefix(line, "Rule: ") {
			return strings.TrimPrefix(line, "Rule: ")
		}
	}
	return ""
}

func passReply(rule string) (string, error) {
	return fmt.Sprintf(`{"status":"pass","evidence":"quote","reasoning":"rule %s holds","confidence":90}`, rule), nil
}

type memCache struct {
	mu sync.Mutex
	m  map[string]string
}

func newMemCache() *memCache { return &memCache{m: map[string]string{}} }

func (c *memCache) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	return v, ok, nil
}

func (c *memCache) Set(ctx context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
	return nil
}

func (c *memCache) Close() error { return nil }

func TestRun_PreservesInputOrder(t *testing.T) {
	client := &fakeLLM{reply: passReply}
	checker := NewChecker(client, nil)

	rules := []string{"slow first rule", "second rule", "slow third rule", "fourth rule"}
	results := checker.Run(context.Background(), "doc text", rules)

	require.Len(t, results, len(rules))
	for i, r := range results {
		assert.Equal(t, rules[i], r.Rule, "result %d out of order", i)
		assert.Equal(t, StatusPass, r.Status)
	}
	assert.Equal(t, len(rules), client.callCount())
}

func TestRun_EmptyRuleShortCircuits(t *testing.T) {
	client := &fakeLLM{reply: passReply}
	checker := NewChecker(client, nil)

	rules := []string{"Document mentions a date.", "", "Document has a summary."}
	results := checker.Run(context.Background(), "Published 2024", rules)

	require.Len(t, results, 3)
	assert.Equal(t, RuleResult{
		Rule:       "",
		Status:     StatusFail,
		Evidence:   DefaultEvidence,
		Reasoning:  EmptyRuleReasoning,
		Confidence: 0,
	}, results[1])
	assert.Equal(t, StatusPass, results[0].Status)
	assert.Equal(t, StatusPass, results[2].Status)
	assert.Equal(t, 2, client.callCount(), "empty rule must not reach the LLM")
}

func TestRun_WhitespaceRuleShortCircuits(t *testing.T) {
	client := &fakeLLM{reply: passReply}
	checker := NewChecker(client, nil)

	results := checker.Run(context.Background(), "doc", []string{"   \t"})
	require.Len(t, results, 1)
	assert.Equal(t, StatusFail, results[0].Status)
	assert.Equal(t, EmptyRuleReasoning, results[0].Reasoning)
	assert.Equal(t, 0, client.callCount())
}

func TestRun_OneFailureDoesNotAffectOthers(t *testing.T) {
	client := &fakeLLM{reply: func(rule string) (string, error) {
		if strings.Contains(rule, "broken") {
			return "", fmt.Errorf("service unavailable")
		}
		return passReply(rule)
	}}
	checker := NewChecker(client, nil)

	rules := []string{"good rule", "broken rule", "another good rule"}
	results := checker.Run(context.Background(), "doc", rules)

	require.Len(t, results, 3)
	assert.Equal(t, StatusPass, results[0].Status)
	assert.Equal(t, StatusFail, results[1].Status)
	assert.Equal(t, ErrorEvidence, results[1].Evidence)
	assert.Contains(t, results[1].Reasoning, "service unavailable")
	assert.Equal(t, 0, results[1].Confidence)
	assert.Equal(t, StatusPass, results[2].Status)
}

func TestCheckRule_UnparseableReplyDegrades(t *testing.T) {
	client := &fakeLLM{reply: func(string) (string, error) {
		return "sorry, I can't help with that", nil
	}}
	checker := NewChecker(client, nil)

	res := checker.CheckRule(context.Background(), "doc", "some rule")
	assert.Equal(t, StatusFail, res.Status)
	assert.Equal(t, ErrorEvidence, res.Evidence)
	assert.Equal(t, 0, res.Confidence)
}

func TestCheckRule_SanitizesMarkup(t *testing.T) {
	client := &fakeLLM{reply: func(string) (string, error) {
		return `{"status":"pass","evidence":"<b>bold</b> quote","reasoning":"<i>styled</i> reasoning","confidence":80}`, nil
	}}
	checker := NewChecker(client, nil)

	res := checker.CheckRule(context.Background(), "doc", "rule")
	assert.Equal(t, "bold quote", res.Evidence)
	assert.Equal(t, "styled reasoning", res.Reasoning)
}

func TestCheckRule_UsesCache(t *testing.T) {
	client := &fakeLLM{reply: passReply}
	checker := NewChecker(client, newMemCache())

	first := checker.CheckRule(context.Background(), "doc", "cached rule")
	second := checker.CheckRule(context.Background(), "doc", "cached rule")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, client.callCount(), "second call should be served from cache")
}

func TestCheckRule_ErrorResultsNotCached(t *testing.T) {
	client := &fakeLLM{reply: func(string) (string, error) {
		return "", fmt.Errorf("timeout")
	}}
	checker := NewChecker(client, newMemCache())

	checker.CheckRule(context.Background(), "doc", "rule")
	checker.CheckRule(context.Background(), "doc", "rule")

	assert.Equal(t, 2, client.callCount(), "error results must not be cached")
}
