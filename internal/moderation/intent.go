package moderation

import "strings"

// editingKeywords mark a message as belonging to the video and photo editing
// domain. Matched as substrings of the lowercased text.
var editingKeywords = []string{
	"after effects", "ae", "premiere", "pr", "photoshop", "ps", "davinci", "resolve",
	"final cut", "fcp", "media encoder", "topaz", "capcut", "edit", "editing",
	"render", "export", "codec", "h264", "h265", "hevc", "prores", "dnxhd",
	"color", "grade", "grading", "correction", "lut", "effect", "transition",
	"keyframe", "animation", "motion", "graphics", "vfx", "composite", "mask",
	"layer", "timeline", "sequence", "clip", "footage", "video", "audio",
	"plugin", "preset", "ffx", "mogrt", "template", "project", "crash",
	"error", "glitch", "lag", "slow", "freeze", "gpu", "cuda", "opencl",
	"ram", "preview", "playback", "frame", "fps", "resolution", "4k", "1080",
	"aspect", "ratio", "crop", "scale", "transform", "opacity", "blend",
	"tracking", "stabilize", "warp", "distort", "blur", "sharpen", "denoise",
	"upscale", "interpolate", "slow motion", "speed", "ramp", "proxy",
	"scratch disk", "cache", "dynamic link", "expression", "script",
	"jpg", "png", "tiff", "psd", "mp4", "mov", "avi", "mkv", "webm",
}

// helpWords signal that the user is asking for guidance rather than chatting.
var helpWords = []string{
	"help", "tutorial", "how to", "teach", "guide", "learn", "explain",
	"show me", "assist", "how do i", "how can i", "how do you",
	"create", "make", "do",
}

// editingHelpKeywords narrow a help request down to the tutorial flow.
var editingHelpKeywords = []string{
	"edit", "effect", "render", "color", "grade", "video", "after effects",
	"premiere", "photoshop", "resolve", "capcut", "topaz", "cc", "grading",
	"correction", "effects", "transition", "animation", "vfx", "motion",
}

// affirmatives accept the detailed-explanation offer.
var affirmatives = []string{
	"yes", "yeah", "yep", "sure", "ok", "okay", "please",
	"y", "more", "detail", "tell me",
}

// IsEditingRelated reports whether text touches any editing topic.
func IsEditingRelated(text string) bool {
	return containsAny(strings.ToLower(text), editingKeywords)
}

// IsEditingHelpRequest reports whether text is asking for editing help,
// which starts the tutorial flow instead of a plain chat reply.
func IsEditingHelpRequest(text string) bool {
	lowered := strings.ToLower(text)
	return containsAny(lowered, helpWords) && containsAny(lowered, editingHelpKeywords)
}

// IsAffirmative reports whether text accepts a yes/no offer.
func IsAffirmative(text string) bool {
	return containsAny(strings.ToLower(text), affirmatives)
}

func containsAny(lowered string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}
