package cache

import "testing"

func TestKey_Deterministic(t *testing.T) {
	a := Key("model", "v1", "rule", "doc")
	b := Key("model", "v1", "rule", "doc")
	if a != b {
		t.Fatalf("expected identical inputs to produce identical keys")
	}
	if len(a) != 64 {
		t.Fatalf("expected hex sha256 key, got length %d", len(a))
	}
}

func TestKey_SensitiveToEveryPart(t *testing.T) {
	base := Key("model", "v1", "rule", "doc")
	variants := []string{
		Key("other-model", "v1", "rule", "doc"),
		Key("model", "v2", "rule", "doc"),
		Key("model", "v1", "other rule", "doc"),
		Key("model", "v1", "rule", "other doc"),
	}
	for i, v := range variants {
		if v == base {
			t.Fatalf("expected variant %d to change the key", i)
		}
	}
}

func TestKey_PartBoundariesMatter(t *testing.T) {
	// "ab"+"c" and "a"+"bc" must not collide.
	if Key("ab", "c") == Key("a", "bc") {
		t.Fatalf("expected part boundaries to be part of the key")
	}
}
