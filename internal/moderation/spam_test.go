package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectSpam(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		spam   bool
		reason string
	}{
		{name: "short message never spam", text: "aa", spam: false},
		{name: "empty message", text: "", spam: false},
		{name: "normal sentence", text: "how do I export in premiere?", spam: false},
		{name: "repeated single char", text: "aaaaaaaaa", spam: true, reason: ReasonRepeatedChars},
		{name: "repeated char with spaces", text: "aaa aaa aaa", spam: true, reason: ReasonRepeatedChars},
		{name: "dominant char over half", text: "aaaaabc", spam: true, reason: ReasonDominantChar},
		{name: "keyboard mash", text: "asdasdasdasd", spam: true, reason: ReasonGibberish},
		{name: "mash with subset windows", text: "asdaasdaasda", spam: true, reason: ReasonGibberish},
		{name: "excessive caps", text: "STOP DOING THAT RIGHT NOW", spam: true, reason: ReasonExcessiveCaps},
		{name: "caps with digits still spam", text: "SEND IT NOW 123", spam: true, reason: ReasonExcessiveCaps},
		{name: "numeric message not caps", text: "12345678901", spam: false},
		{name: "timestamps and versions not caps", text: "render at 14:30, v2.0.1 (#42)", spam: false},
		{name: "long lowercase is fine", text: "this is a perfectly calm message", spam: false},
		{name: "mention flood", text: "hey @a @b @c @d look", spam: true, reason: ReasonExcessiveMentions},
		{name: "three mentions allowed", text: "cc @a @b @c", spam: false},
		{name: "emoji flood", text: "\U0001F600\U0001F601\U0001F602\U0001F603\U0001F604\U0001F605", spam: true, reason: ReasonExcessiveEmojis},
		{name: "emojis in long message allowed", text: "great work everyone today \U0001F600\U0001F601\U0001F602\U0001F603\U0001F604\U0001F605", spam: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spam, reason := DetectSpam(tt.text)
			assert.Equal(t, tt.spam, spam)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestDetectSpamRuleOrder(t *testing.T) {
	// A string of one repeated character trips both the repeated-char and
	// dominant-char rules; the repeated-char reason must win.
	spam, reason := DetectSpam("zzzzzzzz")
	assert.True(t, spam)
	assert.Equal(t, ReasonRepeatedChars, reason)
}
