// Package moderation contains the text classifiers and the escalation
// policy that turn classifier verdicts into enforcement actions. The
// classifiers are pure functions so they can be tested in isolation from
// any gateway I/O.
package moderation

import (
	"strings"
	"unicode"
)

// Spam reasons reported to the channel alongside warnings.
const (
	ReasonRepeatedChars     = "Repeated characters spam"
	ReasonDominantChar      = "Excessive repeated character spam"
	ReasonGibberish         = "Gibberish spam"
	ReasonExcessiveCaps     = "Excessive caps spam"
	ReasonExcessiveMentions = "Excessive mentions spam"
	ReasonExcessiveEmojis   = "Excessive emojis spam"
)

// emojiThreshold is the lowest code point treated as an emoji.
const emojiThreshold = 0x1F300

// DetectSpam classifies text as spam. The rules run in a fixed order and the
// first match wins; the returned reason is empty when the text is clean.
func DetectSpam(text string) (bool, string) {
	lowered := strings.ToLower(strings.TrimSpace(text))
	runes := []rune(lowered)

	// Short messages are never spam
	if len(runes) < 3 {
		return false, ""
	}

	if len(runes) > 5 && singleRepeatedChar(runes) {
		return true, ReasonRepeatedChars
	}

	if dominantCharExceedsHalf(runes) {
		return true, ReasonDominantChar
	}

	if len(runes) > 5 && repeatedPattern(runes) {
		return true, ReasonGibberish
	}

	if len(runes) > 10 && capsFraction(text) > 0.7 {
		return true, ReasonExcessiveCaps
	}

	if strings.Count(text, "@") > 3 {
		return true, ReasonExcessiveMentions
	}

	if emojiCount(text) > 5 && len(runes) < 20 {
		return true, ReasonExcessiveEmojis
	}

	return false, ""
}

// singleRepeatedChar reports whether every non-space character is the same.
func singleRepeatedChar(runes []rune) bool {
	var first rune
	seen := false
	for _, r := range runes {
		if r == ' ' {
			continue
		}
		if !seen {
			first = r
			seen = true
			continue
		}
		if r != first {
			return false
		}
	}
	return seen
}

// dominantCharExceedsHalf reports whether one character makes up more than
// half of all non-space characters.
func dominantCharExceedsHalf(runes []rune) bool {
	freq := make(map[rune]int)
	total := 0
	maxCount := 0
	for _, r := range runes {
		if r == ' ' {
			continue
		}
		freq[r]++
		total++
		if freq[r] > maxCount {
			maxCount = freq[r]
		}
	}
	if total == 0 {
		return false
	}
	return float64(maxCount)/float64(total) > 0.5
}

// repeatedPattern detects keyboard-mash spam like "asdasdasd" by checking
// whether the leading 2- or 3-character pattern repeats, exactly or as a
// character subset, across at least 60% of the pattern-aligned windows.
func repeatedPattern(runes []rune) bool {
	for _, patternLen := range []int{2, 3} {
		if len(runes) < patternLen*3 {
			continue
		}

		pattern := runes[:patternLen]
		patternSet := make(map[rune]struct{}, patternLen)
		for _, r := range pattern {
			patternSet[r] = struct{}{}
		}

		repeats := 0
		for i := 0; i+patternLen <= len(runes); i += patternLen {
			window := runes[i : i+patternLen]
			if equalRunes(window, pattern) || subsetOf(window, patternSet) {
				repeats++
			}
		}

		if float64(repeats) >= float64(len(runes)/patternLen)*0.6 {
			return true
		}
	}
	return false
}

func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func subsetOf(window []rune, set map[rune]struct{}) bool {
	for _, r := range window {
		if _, ok := set[r]; !ok {
			return false
		}
	}
	return true
}

// capsFraction returns the fraction of letters that are uppercase. Digits,
// punctuation, and spaces are excluded from both sides of the ratio so a
// numeric message cannot read as shouting.
func capsFraction(text string) float64 {
	letters := 0
	upper := 0
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(upper) / float64(letters)
}

// emojiCount counts characters in the emoji code point range.
func emojiCount(text string) int {
	count := 0
	for _, r := range text {
		if r > emojiThreshold {
			count++
		}
	}
	return count
}
