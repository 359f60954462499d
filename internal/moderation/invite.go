package moderation

import "regexp"

var invitePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)discord\.gg/[a-zA-Z0-9]+`),
	regexp.MustCompile(`(?i)discord\.com/invite/[a-zA-Z0-9]+`),
	regexp.MustCompile(`(?i)discordapp\.com/invite/[a-zA-Z0-9]+`),
}

// DetectInviteLink reports whether text contains a Discord invite URL.
func DetectInviteLink(text string) bool {
	for _, pattern := range invitePatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}
