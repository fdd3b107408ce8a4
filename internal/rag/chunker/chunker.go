package chunker

import "strings"

// Chunk splits extracted text into ordered, sentence-aligned segments of at
// most targetSize characters. A single sentence longer than targetSize is
// emitted whole - sentence integrity wins over the size bound. Empty input
// yields no chunks and no chunk is ever empty.
func Chunk(text string, targetSize int) []string {
	if targetSize <= 0 {
		targetSize = 500
	}

	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	var buffer strings.Builder

	for _, sentence := range sentences {
		if buffer.Len() > 0 && buffer.Len()+1+len(sentence) > targetSize {
			chunks = append(chunks, buffer.String())
			buffer.Reset()
		}
		if buffer.Len() > 0 {
			buffer.WriteString(" ")
		}
		buffer.WriteString(sentence)
	}

	if buffer.Len() > 0 {
		chunks = append(chunks, buffer.String())
	}
	return chunks
}

// SplitSentences cuts text at '.', '!' or '?' followed by whitespace (or end
// of input), keeping the terminator with its sentence. Trailing text without
// a terminator becomes the final sentence.
func SplitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)

	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}
		//consume a run of terminators, e.g. "?!" or "..."
		end := i
		for end+1 < len(runes) && isTerminator(runes[end+1]) {
			end++
		}
		if end+1 < len(runes) && !isWhitespace(runes[end+1]) {
			i = end
			continue //mid-token punctuation like "3.14" or "e.g"
		}
		if s := strings.TrimSpace(string(runes[start : end+1])); s != "" {
			sentences = append(sentences, s)
		}
		start = end + 1
		i = end
	}

	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
