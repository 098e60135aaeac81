package tts

import "strings"

// Boundary sets used by the chunking cascade, tried in order. Delimiters
// stay attached to the text before them so no characters are lost.
var (
	sentenceDelimiters = []string{". ", "! ", "? "}
	clauseDelimiters   = []string{", ", "; ", " — "}
)

// Chunks splits text into pieces whose UTF-8 encoding fits byteLimit.
// It prefers sentence boundaries, falls back to clause boundaries for a
// sentence that is itself too large, and splits on single spaces as a
// last resort. Concatenating the result reproduces the input.
func Chunks(text string, byteLimit int) []string {
	if len(text) <= byteLimit {
		return []string{text}
	}

	sentences := splitKeepingDelimiters(text, sentenceDelimiters)
	var chunks []string
	current := ""

	for _, sentence := range sentences {
		candidate := current + sentence
		if len(candidate) <= byteLimit {
			current = candidate
			continue
		}
		if current != "" {
			chunks = append(chunks, current)
		}
		if len(sentence) <= byteLimit {
			current = sentence
			continue
		}
		clauseChunks := splitLargeText(sentence, byteLimit)
		chunks = append(chunks, clauseChunks[:len(clauseChunks)-1]...)
		current = clauseChunks[len(clauseChunks)-1]
	}

	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}

// splitKeepingDelimiters splits on each delimiter in turn, keeping the
// delimiter attached to the preceding part.
func splitKeepingDelimiters(text string, delimiters []string) []string {
	parts := []string{text}
	for _, delim := range delimiters {
		var next []string
		for _, part := range parts {
			splits := strings.Split(part, delim)
			for i, piece := range splits {
				if i < len(splits)-1 {
					next = append(next, piece+delim)
				} else if piece != "" {
					next = append(next, piece)
				}
			}
		}
		parts = next
	}
	return parts
}

// splitLargeText breaks one oversized sentence on clause boundaries,
// falling back to word boundaries for a clause that is still too big.
// Always returns at least one chunk.
func splitLargeText(text string, byteLimit int) []string {
	clauses := splitKeepingDelimiters(text, clauseDelimiters)
	var chunks []string
	current := ""

	for _, clause := range clauses {
		candidate := current + clause
		if len(candidate) <= byteLimit {
			current = candidate
			continue
		}
		if current != "" {
			chunks = append(chunks, current)
		}
		if len(clause) <= byteLimit {
			current = clause
			continue
		}
		wordChunks := splitOnWords(clause, byteLimit)
		chunks = append(chunks, wordChunks[:len(wordChunks)-1]...)
		current = wordChunks[len(wordChunks)-1]
	}

	if current != "" {
		chunks = append(chunks, current)
	}
	if len(chunks) == 0 {
		chunks = []string{text}
	}
	return chunks
}

func splitOnWords(text string, byteLimit int) []string {
	words := strings.Split(text, " ")
	var chunks []string
	current := ""

	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if len(candidate) <= byteLimit {
			current = candidate
			continue
		}
		if current != "" {
			chunks = append(chunks, current)
		}
		current = word
	}

	if current != "" {
		chunks = append(chunks, current)
	}
	if len(chunks) == 0 {
		chunks = []string{text}
	}
	return chunks
}
