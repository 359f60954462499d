package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEditingRelated(t *testing.T) {
	assert.True(t, IsEditingRelated("my render keeps failing"))
	assert.True(t, IsEditingRelated("After Effects crashed again"))
	assert.True(t, IsEditingRelated("best LUT for night footage?"))
	assert.False(t, IsEditingRelated("what did everyone have for lunch"))
}

func TestIsEditingHelpRequest(t *testing.T) {
	// Needs both a help word and an editing keyword.
	assert.True(t, IsEditingHelpRequest("how do I add a transition"))
	assert.True(t, IsEditingHelpRequest("teach me color grading"))
	assert.False(t, IsEditingHelpRequest("color grading is fun"))
	assert.False(t, IsEditingHelpRequest("how do I bake bread"))
}

func TestIsAffirmative(t *testing.T) {
	assert.True(t, IsAffirmative("yes please"))
	assert.True(t, IsAffirmative("OK"))
	assert.True(t, IsAffirmative("sure, tell me more"))
	assert.False(t, IsAffirmative("no thanks"))
	assert.False(t, IsAffirmative("nah"))
}
