package render

import (
	"strings"
	"testing"
)

func TestSplitPartsShortTextSinglePart(t *testing.T) {
	parts := SplitParts("hello", 1500)
	if len(parts) != 1 {
		t.Fatalf("expected 1 part, got %d", len(parts))
	}
	if parts[0] != "hello" {
		t.Errorf("expected unchanged text, got %q", parts[0])
	}
}

func TestSplitPartsExactCeiling(t *testing.T) {
	text := strings.Repeat("a", 3000)
	parts := SplitParts(text, 1500)

	if len(parts) != 2 {
		t.Fatalf("expected 2 parts for 3000 chars at limit 1500, got %d", len(parts))
	}
	for i, p := range parts {
		if n := len([]rune(p)); n > 1500 {
			t.Errorf("part %d exceeds limit: %d runes", i, n)
		}
	}
	if strings.Join(parts, "") != text {
		t.Error("concatenated parts do not reconstruct the original text")
	}
}

func TestSplitPartsUnevenTail(t *testing.T) {
	text := strings.Repeat("x", 3200)
	parts := SplitParts(text, 1500)

	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(parts))
	}
	if len(parts[2]) != 200 {
		t.Errorf("expected tail of 200, got %d", len(parts[2]))
	}
	if strings.Join(parts, "") != text {
		t.Error("concatenated parts do not reconstruct the original text")
	}
}

func TestSplitPartsKeepsRunesIntact(t *testing.T) {
	text := strings.Repeat("न्याय", 400) // multibyte
	parts := SplitParts(text, 700)

	if strings.Join(parts, "") != text {
		t.Error("concatenated parts do not reconstruct the original text")
	}
	for i, p := range parts {
		if !strings.HasPrefix(p, "न") && i > 0 && !strings.HasPrefix(p, "्") {
			// each part must still be valid text; a byte-level split would
			// corrupt the first rune
			for _, r := range p {
				if r == '�' {
					t.Fatalf("part %d contains replacement characters", i)
				}
			}
		}
	}
}

func TestSplitPartsEmpty(t *testing.T) {
	parts := SplitParts("", 1500)
	if len(parts) != 1 || parts[0] != "" {
		t.Errorf("expected single empty part, got %#v", parts)
	}
}
