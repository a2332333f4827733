package flow

import (
	"fmt"
	"strings"
	"time"

	"feature-intake-bot/internal/constant"
	"feature-intake-bot/pkg/chat"
	"feature-intake-bot/pkg/requirement"
)

// Start creates a fresh flow at the title step and returns the opening
// prompts.
func Start(userID string) (State, []chat.Message) {
	st := State{
		UserID:    userID,
		Step:      StepTitle,
		Fields:    map[string]string{},
		StartedAt: time.Now(),
	}
	return st, []chat.Message{
		chat.Text(constant.PromptTitle),
		chat.Text(constant.PromptTitleExample),
	}
}

// Advance consumes one free-text input and returns the next state plus the
// prompts to send. Input is stored verbatim after trimming, including the
// empty string; the engine does no field validation. Text arriving at the
// priority or confirmation step is ignored (those steps are button-driven),
// so the state comes back unchanged with no prompts.
func Advance(st State, input string) (State, []chat.Message) {
	input = strings.TrimSpace(input)

	switch st.Step {
	case StepTitle:
		st = st.collected(FieldTitle, input, StepStoryUserType)
		return st, []chat.Message{
			chat.Text(constant.PromptStoryIntro),
			chat.Text(constant.PromptStoryUserType),
		}

	case StepStoryUserType:
		st = st.collected(FieldUserType, input, StepStoryAction)
		return st, []chat.Message{
			chat.Text(fmt.Sprintf(constant.PromptStoryActionFmt, input)),
			chat.Text(constant.PromptStoryActionExample),
		}

	case StepStoryAction:
		st = st.collected(FieldAction, input, StepStoryBenefit)
		return st, []chat.Message{
			chat.Text(constant.PromptStoryBenefit),
			chat.Text(constant.PromptStoryBenefitExample),
		}

	case StepStoryBenefit:
		st = st.collected(FieldBenefit, input, StepCriteria)
		return st, []chat.Message{
			chat.Text(constant.PromptCriteria),
			chat.Text(constant.PromptCriteriaExample),
		}

	case StepCriteria:
		st = st.collected(FieldCriteria, input, StepStakeholders)
		return st, []chat.Message{chat.Text(constant.PromptStakeholders)}

	case StepStakeholders:
		st = st.collected(FieldStakeholders, input, StepDependencies)
		return st, []chat.Message{chat.Text(constant.PromptDependencies)}

	case StepDependencies:
		st = st.collected(FieldDependencies, input, StepDeadline)
		return st, []chat.Message{chat.Text(constant.PromptDeadline)}

	case StepDeadline:
		st = st.collected(FieldDeadline, input, StepPriority)
		return st, []chat.Message{PriorityPrompt()}
	}

	return st, nil
}

// ApplyPriority consumes the priority button value and moves the flow to the
// confirmation step, returning the full document preview with Confirm/Cancel
// buttons. The value is stored as delivered; the button prompt is the only
// thing constraining it to the four known levels.
func ApplyPriority(st State, value string) (State, []chat.Message) {
	st = st.collected(FieldPriority, value, StepConfirmation)

	preview := requirement.Render(requirement.FromFields(st.UserID, st.Fields))
	return st, []chat.Message{
		chat.Text(constant.PromptConfirmIntro),
		chat.Text(preview),
		{
			Buttons: []chat.Button{
				{Label: constant.ConfirmButtonLabel, Value: constant.ConfirmButtonValue, ActionID: constant.ActionConfirmPost, Style: chat.StylePrimary},
				{Label: constant.CancelButtonLabel, Value: constant.CancelButtonValue, ActionID: constant.ActionCancelPost, Style: chat.StyleDanger},
			},
		},
	}
}

// PriorityPrompt is the fixed four-option priority question.
func PriorityPrompt() chat.Message {
	return chat.Message{
		Text: constant.PromptPriority,
		Buttons: []chat.Button{
			{Label: constant.PriorityLow, Value: constant.PriorityLow, ActionID: constant.ActionPriorityLow},
			{Label: constant.PriorityMedium, Value: constant.PriorityMedium, ActionID: constant.ActionPriorityMedium},
			{Label: constant.PriorityHigh, Value: constant.PriorityHigh, ActionID: constant.ActionPriorityHigh, Style: chat.StylePrimary},
			{Label: constant.PriorityCritical, Value: constant.PriorityCritical, ActionID: constant.ActionPriorityCritical, Style: chat.StyleDanger},
		},
	}
}

// MatchesTrigger reports whether free text should auto-start a flow.
// Substring match, so "implementation" matches "implement".
func MatchesTrigger(text string) bool {
	lowered := strings.ToLower(text)
	for _, kw := range constant.TriggerKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// IsCancel reports whether the trimmed text is the cancel keyword, any case.
func IsCancel(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), constant.CancelKeyword)
}

// collected copies the state with one more field recorded and the step
// advanced. Copying keeps Advance/ApplyPriority pure with respect to the
// caller's state value.
func (st State) collected(field, value string, next Step) State {
	fields := make(map[string]string, len(st.Fields)+1)
	for k, v := range st.Fields {
		fields[k] = v
	}
	fields[field] = value
	st.Fields = fields
	st.Step = next
	return st
}
