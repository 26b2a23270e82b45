// Package scan holds the low-level extraction heuristics: printable-run
// tokenization, the token filter grammar, and the unaligned floating-point
// scan. Everything here is a pure function over byte buffers so individual
// heuristics can be tuned or replaced without touching the archive or
// encoding plumbing.
package scan

// Token is a candidate printable-text run found in a binary buffer. Raw
// tokens are kept unfiltered so diagnostics can show what the filter grammar
// rejected.
type Token struct {
	Offset int
	Text   string
}

// Default run-length limits for tokenization. Filtering applies its own,
// tighter length rules on top.
const (
	MinRunLen = 3
	MaxRunLen = 100
)

// Tokens scans buf for maximal runs of printable ASCII bytes (0x20-0x7E),
// interpreting the buffer as single-byte characters. Runs shorter than
// minLen or longer than maxLen are dropped. Zero or negative limits select
// the defaults.
func Tokens(buf []byte, minLen, maxLen int) []Token {
	if minLen <= 0 {
		minLen = MinRunLen
	}
	if maxLen <= 0 {
		maxLen = MaxRunLen
	}

	var out []Token
	start := -1
	for i := 0; i <= len(buf); i++ {
		printable := i < len(buf) && buf[i] >= 0x20 && buf[i] <= 0x7E
		if printable {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			if run := i - start; run >= minLen && run <= maxLen {
				out = append(out, Token{Offset: start, Text: string(buf[start:i])})
			}
			start = -1
		}
	}
	return out
}
