package extract

import (
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 100); got != "short" {
		t.Fatalf("expected short text untouched, got %q", got)
	}
	exact := strings.Repeat("a", 100)
	if got := Truncate(exact, 100); got != exact {
		t.Fatalf("expected text at the limit untouched")
	}
	long := strings.Repeat("a", 150)
	got := Truncate(long, 100)
	if !strings.HasSuffix(got, TruncationMarker) {
		t.Fatalf("expected truncation marker, got %q", got[len(got)-30:])
	}
	if len(got) != 100+len(TruncationMarker) {
		t.Fatalf("expected 100 chars plus marker, got %d", len(got))
	}
	if got := Truncate(long, 0); got != long {
		t.Fatalf("expected non-positive limit to disable truncation")
	}
}

func TestLooksLikePDF(t *testing.T) {
	if !LooksLikePDF([]byte("%PDF-1.7\n")) {
		t.Fatalf("expected PDF header to be recognized")
	}
	if LooksLikePDF([]byte("hello world")) {
		t.Fatalf("expected plain text to be rejected")
	}
	if LooksLikePDF(nil) {
		t.Fatalf("expected empty input to be rejected")
	}
}

func TestIsBlank(t *testing.T) {
	if !IsBlank("") {
		t.Fatalf("expected empty string to be blank")
	}
	if !IsBlank("  \n\t ") {
		t.Fatalf("expected whitespace to be blank")
	}
	if IsBlank(" text ") {
		t.Fatalf("expected text not to be blank")
	}
}
