package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlowsFullTutorialPath(t *testing.T) {
	flows := NewFlows()
	const user = uint64(1)

	d := flows.Advance(user, "how do I make a smooth transition")
	assert.Equal(t, DirectiveAskSoftware, d.Kind)
	assert.Equal(t, "how do I make a smooth transition", d.Question)
	assert.Equal(t, PhaseAwaitingSoftware, flows.Phase(user))

	d = flows.Advance(user, "After Effects")
	assert.Equal(t, DirectiveBriefTutorial, d.Kind)
	assert.Equal(t, "After Effects", d.Software)
	assert.Equal(t, "how do I make a smooth transition", d.Question)
	assert.Equal(t, PhaseAwaitingDetail, flows.Phase(user))

	d = flows.Advance(user, "yes please")
	assert.Equal(t, DirectiveDetailedTutorial, d.Kind)
	assert.Equal(t, "After Effects", d.Software)
	assert.Equal(t, PhaseIdle, flows.Phase(user))
}

func TestFlowsDeclinedDetailEndsFlow(t *testing.T) {
	flows := NewFlows()
	const user = uint64(2)

	flows.Advance(user, "teach me color grading")
	flows.Advance(user, "DaVinci Resolve")

	d := flows.Advance(user, "no thanks")
	assert.Equal(t, DirectiveNone, d.Kind)
	assert.Equal(t, PhaseIdle, flows.Phase(user))
}

func TestFlowsPendingStateConsumesAnyMessage(t *testing.T) {
	flows := NewFlows()
	const user = uint64(3)

	flows.Advance(user, "help me edit a video")
	assert.Equal(t, PhaseAwaitingSoftware, flows.Phase(user))

	// Even a command-looking message is treated as the software answer
	// while the question is pending.
	d := flows.Advance(user, "!files glow preset")
	assert.Equal(t, DirectiveBriefTutorial, d.Kind)
	assert.Equal(t, "!files glow preset", d.Software)
}

func TestFlowsPlainChatDoesNotStartFlow(t *testing.T) {
	flows := NewFlows()
	const user = uint64(4)

	d := flows.Advance(user, "good morning everyone")
	assert.Equal(t, DirectiveNone, d.Kind)
	assert.Equal(t, PhaseIdle, flows.Phase(user))
}

func TestFlowsReset(t *testing.T) {
	flows := NewFlows()
	const user = uint64(5)

	flows.Advance(user, "how do I render faster")
	flows.Reset(user)
	assert.Equal(t, PhaseIdle, flows.Phase(user))
}

func TestFlowsIndependentUsers(t *testing.T) {
	flows := NewFlows()

	flows.Advance(10, "how do I render faster")
	assert.Equal(t, PhaseAwaitingSoftware, flows.Phase(10))
	assert.Equal(t, PhaseIdle, flows.Phase(11))
}
