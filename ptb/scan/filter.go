package scan

import "strings"

// The filter grammar decides whether an extracted token is genuine business
// text or an accidental printable run from binary data. It is the single
// most failure-prone heuristic in the engine, so it lives here as an
// isolated pure predicate, tuned empirically against real legacy backups.

// structural keywords that occur in the container's own bookkeeping, never
// as business data.
var structuralKeywords = map[string]struct{}{
	"null": {}, "true": {}, "false": {}, "date": {},
	"time": {}, "default": {}, "group": {},
}

const noiseChars = "\"'$@[]{}\\<>()~"

// KeepToken reports whether a token looks like real business text (a name
// or a code) rather than structural noise. The predicate is a pure function
// of the string: re-applying it always yields the same result.
func KeepToken(s string) bool {
	return keepToken(s, false)
}

// KeepTokenStrict applies the grammar without the looser short-token
// allowances: short tokens must be purely alphabetic and the no-vowel
// acronym exemption is withdrawn.
func KeepTokenStrict(s string) bool {
	return keepToken(s, true)
}

func keepToken(s string, strict bool) bool {
	s = strings.TrimSpace(s)
	n := len(s)

	if n < 3 || n > 60 {
		return false
	}
	if s[0] < 'A' || s[0] > 'Z' {
		return false
	}
	if _, ok := structuralKeywords[strings.ToLower(s)]; ok {
		return false
	}
	if strings.ContainsAny(s, noiseChars) {
		return false
	}

	// Short tokens get extra scrutiny: binary garbage decoded as text tends
	// to be short with improbable case or digit patterns.
	if n <= 5 {
		if hasCamelBreak(s) {
			return false
		}
		if n == 4 && isAlternatingCase(s) {
			return false
		}
		if strings.ContainsFunc(s, isDigit) {
			return false
		}
		if strict && !isAllLetters(s) {
			return false
		}
	}

	if !strings.ContainsFunc(s, isVowel) {
		if strict || !isAcronym(s) {
			return false
		}
	}
	if !strings.ContainsFunc(s, isLower) && !isUpperWords(s) {
		return false
	}
	if hasRepeatedSymbol(s, 3) {
		return false
	}

	// Bare one or two letter fragments never carry data. Redundant with the
	// length gate above, kept as an explicit guard should the gate loosen.
	letters := 0
	for _, r := range s {
		if isLetter(byte(r)) {
			letters++
		}
	}
	return letters > 2
}

// hasCamelBreak reports an internal lowercase-to-uppercase-or-digit
// transition, a pattern indicative of binary garbage decoded as text.
func hasCamelBreak(s string) bool {
	for i := 0; i+1 < len(s); i++ {
		if isLower(rune(s[i])) && (isUpper(s[i+1]) || isDigit(rune(s[i+1]))) {
			return true
		}
	}
	return false
}

func isAlternatingCase(s string) bool {
	for i := range s {
		if !isLetter(s[i]) {
			return false
		}
		upper := isUpper(s[i])
		if i > 0 && upper == isUpper(s[i-1]) {
			return false
		}
	}
	return true
}

// isAcronym reports a short all-uppercase token (3-6 letters), which is kept
// even without a vowel.
func isAcronym(s string) bool {
	if len(s) < 3 || len(s) > 6 {
		return false
	}
	for i := range s {
		if !isUpper(s[i]) {
			return false
		}
	}
	return true
}

// isUpperWords reports a token made only of uppercase letters, spaces,
// ampersands and periods, e.g. company name abbreviations.
func isUpperWords(s string) bool {
	for i := range s {
		c := s[i]
		if !isUpper(c) && c != ' ' && c != '&' && c != '.' {
			return false
		}
	}
	return true
}

// hasRepeatedSymbol reports n or more consecutive repeats of the same
// non-alphanumeric character.
func hasRepeatedSymbol(s string, n int) bool {
	run := 1
	for i := 1; i < len(s); i++ {
		if s[i] == s[i-1] && !isLetter(s[i]) && !isDigit(rune(s[i])) {
			run++
			if run >= n {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}

func isAllLetters(s string) bool {
	for i := range s {
		if !isLetter(s[i]) {
			return false
		}
	}
	return true
}

func isUpper(c byte) bool   { return c >= 'A' && c <= 'Z' }
func isLetter(c byte) bool  { return isUpper(c) || (c >= 'a' && c <= 'z') }
func isLower(r rune) bool   { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool   { return r >= '0' && r <= '9' }

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
		return true
	}
	return false
}
