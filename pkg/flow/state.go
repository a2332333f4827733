package flow

import "time"

// Step identifies the user's position in the intake conversation. The user
// story sub-steps are modeled as first-class steps so a state can never hold
// an inconsistent step/sub-step pair.
type Step string

const (
	StepTitle         Step = "AWAITING_TITLE"
	StepStoryUserType Step = "AWAITING_STORY_USER_TYPE"
	StepStoryAction   Step = "AWAITING_STORY_ACTION"
	StepStoryBenefit  Step = "AWAITING_STORY_BENEFIT"
	StepCriteria      Step = "AWAITING_CRITERIA"
	StepStakeholders  Step = "AWAITING_STAKEHOLDERS"
	StepDependencies  Step = "AWAITING_DEPENDENCIES"
	StepDeadline      Step = "AWAITING_DEADLINE"
	StepPriority      Step = "AWAITING_PRIORITY"
	StepConfirmation  Step = "AWAITING_CONFIRMATION"
)

// Field keys collected into State.Fields, in collection order.
const (
	FieldTitle        = "title"
	FieldUserType     = "user_type"
	FieldAction       = "action"
	FieldBenefit      = "benefit"
	FieldCriteria     = "criteria"
	FieldStakeholders = "stakeholders"
	FieldDependencies = "dependencies"
	FieldDeadline     = "deadline"
	FieldPriority     = "priority"
)

// State is one user's in-progress requirement flow. Fields only ever gains
// keys for steps that have completed; Step only moves forward. Cancellation
// deletes the whole state rather than rewinding it.
type State struct {
	UserID    string            `json:"user_id"`
	Step      Step              `json:"step"`
	Fields    map[string]string `json:"fields"`
	StartedAt time.Time         `json:"started_at"`
}

// Store holds active flows keyed by user id. Absence is the normal "no active
// flow" result, not an error. Implementations must be safe for concurrent use
// across distinct users; same-user ordering is the dispatcher's concern.
type Store interface {
	Get(userID string) (*State, bool)
	Set(state *State)
	Delete(userID string)
}
