package chunker

import (
	"strings"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "Simple_Sentences",
			text:     "First sentence. Second sentence! Third one?",
			expected: []string{"First sentence.", "Second sentence!", "Third one?"},
		},
		{
			name:     "Trailing_Text_Without_Terminator",
			text:     "Complete sentence. trailing fragment",
			expected: []string{"Complete sentence.", "trailing fragment"},
		},
		{
			name:     "Decimal_Numbers_Stay_Whole",
			text:     "Pi is roughly 3.14 in most classes. Next sentence.",
			expected: []string{"Pi is roughly 3.14 in most classes.", "Next sentence."},
		},
		{
			name:     "Terminator_Runs",
			text:     "Really?! Yes... absolutely.",
			expected: []string{"Really?!", "Yes...", "absolutely."},
		},
		{
			name:     "Empty_Input",
			text:     "",
			expected: nil,
		},
		{
			name:     "Whitespace_Only",
			text:     "   \n\t  ",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.text)
			if len(got) != len(tt.expected) {
				t.Fatalf("got %d sentences %v, want %d", len(got), got, len(tt.expected))
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("sentence %d: got %q, want %q", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestChunk_SentencesNeverSplit(t *testing.T) {
	text := "A. B. C."
	chunks := Chunk(text, 5)

	// "A. B" would break a sentence; each chunk must hold whole sentences
	expected := []string{"A. B.", "C."}
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks %v, want 2", len(chunks), chunks)
	}
	for i, c := range chunks {
		if c != expected[i] {
			t.Errorf("chunk %d: got %q, want %q", i, c, expected[i])
		}
	}
}

func TestChunk_OversizedSentenceKeptWhole(t *testing.T) {
	long := "This single sentence is far longer than the tiny target size used here."
	chunks := Chunk(long, 10)

	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0] != long {
		t.Errorf("oversized sentence was altered: %q", chunks[0])
	}
}

func TestChunk_SmallInputSingleChunk(t *testing.T) {
	text := "Short note. Nothing more."
	chunks := Chunk(text, 500)

	if len(chunks) != 1 {
		t.Fatalf("got %d chunks %v, want 1", len(chunks), chunks)
	}
	if chunks[0] != text {
		t.Errorf("got %q, want %q", chunks[0], text)
	}
}

func TestChunk_EmptyInput(t *testing.T) {
	if chunks := Chunk("", 500); len(chunks) != 0 {
		t.Errorf("expected no chunks for empty input, got %v", chunks)
	}
}

func TestChunk_NoEmptyChunksAndOrderPreserved(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString("Sentence number with some padding words to fill space. ")
	}
	chunks := Chunk(sb.String(), 200)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if strings.TrimSpace(c) == "" {
			t.Errorf("chunk %d is empty", i)
		}
		if len(c) > 200 && !strings.HasSuffix(c, ".") {
			t.Errorf("chunk %d exceeds target without being a single sentence: %q", i, c)
		}
	}

	// joining the chunks back together must reproduce every sentence in order
	joined := strings.Join(chunks, " ")
	original := strings.Join(SplitSentences(sb.String()), " ")
	if joined != original {
		t.Error("chunking lost or reordered text")
	}
}
