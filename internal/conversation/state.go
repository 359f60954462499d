// Package conversation holds the per-user dialogue state: the tutorial flow
// machine and the rolling chat history fed back to the model.
package conversation

import (
	"strings"

	"github.com/bmrdev/editing-helper/internal/moderation"
	"github.com/bmrdev/editing-helper/internal/state"
)

// Phase identifies where a user is in the tutorial flow.
type Phase int

const (
	// PhaseIdle means no tutorial flow is pending for the user.
	PhaseIdle Phase = iota
	// PhaseAwaitingSoftware means the bot asked which software the user
	// wants help with and is waiting for the answer.
	PhaseAwaitingSoftware
	// PhaseAwaitingDetail means the bot sent a quick summary and offered a
	// detailed walkthrough.
	PhaseAwaitingDetail
)

// Flow is a user's position in the tutorial dialogue. Question carries the
// original help request so the eventual prompt still knows what was asked;
// Software is set once the user has named their tool.
type Flow struct {
	Phase    Phase
	Question string
	Software string
}

// DirectiveKind tells the dispatcher how to respond to a message given the
// user's flow position.
type DirectiveKind int

const (
	// DirectiveNone means the flow did not consume the message; normal
	// routing applies.
	DirectiveNone DirectiveKind = iota
	// DirectiveAskSoftware means the bot should ask which software the
	// user wants help with.
	DirectiveAskSoftware
	// DirectiveBriefTutorial means the bot should answer with a quick
	// summary for the chosen software and offer details.
	DirectiveBriefTutorial
	// DirectiveDetailedTutorial means the user accepted the offer and
	// wants the full walkthrough.
	DirectiveDetailedTutorial
)

// Directive is the flow's decision about one incoming message.
type Directive struct {
	Kind     DirectiveKind
	Question string
	Software string
}

// Flows tracks every user's tutorial flow. All transitions for one user are
// serialized through the underlying store.
type Flows struct {
	store *state.Store[uint64, Flow]
}

// NewFlows creates an empty flow tracker.
func NewFlows() *Flows {
	return &Flows{store: state.NewStore[uint64, Flow]()}
}

// Advance feeds one message into the user's flow and returns what the
// dispatcher should do with it. Pending flows consume the message whatever
// it says; a declined detail offer simply ends the flow.
func (f *Flows) Advance(userID uint64, text string) Directive {
	var directive Directive

	f.store.Do(userID, func(flow Flow, exists bool) (Flow, bool) {
		if !exists {
			flow.Phase = PhaseIdle
		}

		switch flow.Phase {
		case PhaseAwaitingSoftware:
			software := strings.TrimSpace(text)
			directive = Directive{
				Kind:     DirectiveBriefTutorial,
				Question: flow.Question,
				Software: software,
			}
			return Flow{
				Phase:    PhaseAwaitingDetail,
				Question: flow.Question,
				Software: software,
			}, true

		case PhaseAwaitingDetail:
			if moderation.IsAffirmative(text) {
				directive = Directive{
					Kind:     DirectiveDetailedTutorial,
					Question: flow.Question,
					Software: flow.Software,
				}
			}
			return Flow{}, false

		default:
			if moderation.IsEditingHelpRequest(text) {
				directive = Directive{Kind: DirectiveAskSoftware, Question: text}
				return Flow{Phase: PhaseAwaitingSoftware, Question: text}, true
			}
			return flow, exists
		}
	})

	return directive
}

// Phase reports the user's current flow phase.
func (f *Flows) Phase(userID uint64) Phase {
	flow, exists := f.store.Get(userID)
	if !exists {
		return PhaseIdle
	}
	return flow.Phase
}

// Reset drops any pending flow for the user.
func (f *Flows) Reset(userID uint64) {
	f.store.Delete(userID)
}
