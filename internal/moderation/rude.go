package moderation

import "strings"

// rudeKeywords trigger the sassier reply persona when aimed at the bot.
var rudeKeywords = []string{
	"stupid", "dumb", "idiot", "trash", "garbage", "sucks", "useless", "worthless",
	"shit bot", "bad bot", "fuck you", "fuck off", "screw you", "go die", "kys",
	"annoying", "pathetic", "terrible", "hate you", "hate this", "piss off",
	"get lost", "gtfo", "you suck", "you're useless", "you're trash", "you're garbage",
}

// DetectRudeness reports whether text contains hostile language directed at
// the bot. Substring matching is intentional so "you're stupid!!" still hits.
func DetectRudeness(text string) bool {
	lowered := strings.ToLower(text)
	for _, keyword := range rudeKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}
