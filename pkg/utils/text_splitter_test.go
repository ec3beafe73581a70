package utils

import (
	"strings"
	"testing"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("hello world", 100, 20)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "hello world" {
		t.Errorf("expected input returned as-is, got %q", chunks[0])
	}
}

func TestSplitTextCutsOnWhitespace(t *testing.T) {
	// 95 letters, a space, then 54 more letters. The cut point for a 100-rune
	// chunk should back off to the space at index 95.
	text := strings.Repeat("a", 95) + " " + strings.Repeat("b", 54)

	chunks := SplitText(text, 100, 20)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if len(chunks[0]) != 96 {
		t.Errorf("expected first chunk to end after the space (96 runes), got %d", len(chunks[0]))
	}
	if !strings.HasSuffix(chunks[0], " ") {
		t.Errorf("expected first chunk to end on whitespace")
	}
	// Second chunk starts at the fixed step (80), so the pre-space tail is
	// repeated and nothing is lost.
	if len(chunks[1]) != 70 {
		t.Errorf("expected second chunk of 70 runes, got %d", len(chunks[1]))
	}
	if !strings.HasSuffix(chunks[1], strings.Repeat("b", 54)) {
		t.Errorf("expected second chunk to carry the remaining text")
	}
}

func TestSplitTextMidWordWhenNoWhitespace(t *testing.T) {
	text := strings.Repeat("a", 150)

	chunks := SplitText(text, 100, 20)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if len(chunks[0]) != 100 {
		t.Errorf("expected full-size first chunk, got %d runes", len(chunks[0]))
	}
	if len(chunks[1]) != 70 {
		t.Errorf("expected second chunk of 70 runes, got %d", len(chunks[1]))
	}
}

func TestSplitTextFullCoverage(t *testing.T) {
	// Every rune of the input must appear in some chunk: chunk k starts at
	// k*step and every cut point is at or past the next chunk's start.
	text := strings.Repeat("word and more text ", 40) // 760 runes

	chunkSize, overlap := 100, 20
	step := chunkSize - overlap
	chunks := SplitText(text, chunkSize, overlap)

	covered := 0
	for k, c := range chunks {
		start := k * step
		if start+len([]rune(c)) > covered {
			covered = start + len([]rune(c))
		}
		if start > covered {
			t.Fatalf("gap before chunk %d", k)
		}
	}
	if covered != len([]rune(text)) {
		t.Errorf("expected chunks to cover all %d runes, covered %d", len([]rune(text)), covered)
	}
}

func TestSplitTextOverlapAtLeastChunkSize(t *testing.T) {
	// Degenerate overlap falls back to non-overlapping chunks instead of
	// looping forever.
	text := strings.Repeat("a", 25)

	chunks := SplitText(text, 10, 10)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if chunks[0]+chunks[1]+chunks[2] != text {
		t.Errorf("expected chunks to reassemble the input exactly")
	}
}
