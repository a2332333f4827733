package constant

// Keyword routing for the intake router. Matching is substring-based on the
// lowercased message, so "implementation" triggers via "implement".
var TriggerKeywords = []string{
	"feature",
	"idea",
	"requirement",
	"enhancement",
	"we should",
	"implement",
	"new feature",
}

const CancelKeyword = "cancel"

// Action IDs posted back by the gateway when a button is clicked.
const (
	ActionPriorityLow      = "priority_low"
	ActionPriorityMedium   = "priority_medium"
	ActionPriorityHigh     = "priority_high"
	ActionPriorityCritical = "priority_critical"

	ActionConfirmPost = "action_confirm_post"
	ActionCancelPost  = "action_cancel_post"
)

// Priority button values. The click payload value is stored as given; the
// prompt is the only thing constraining it to this set.
const (
	PriorityLow      = "Low"
	PriorityMedium   = "Medium"
	PriorityHigh     = "High"
	PriorityCritical = "Critical"
)

// Conversation script, one prompt set per step.
const (
	PromptTitle        = "Excellent! I can help formalize that idea. First, what is the short, descriptive title for this new feature or enhancement?"
	PromptTitleExample = "_For example: 'Dashboard CSV Export Button'_"

	PromptStoryIntro    = "Got it. Now, please describe the User Story. I'll break it down for you."
	PromptStoryUserType = "First, who is the user? (e.g., 'Project Manager', 'Marketing Analyst')"

	PromptStoryActionFmt     = "Okay, the user is a *%s*. Next, what do they want to do?"
	PromptStoryActionExample = "_For example: 'to download a CSV of the project data'_"

	PromptStoryBenefit        = "Perfect. And finally, what is the benefit or goal they achieve by doing this?"
	PromptStoryBenefitExample = "_For example: 'so that I can perform offline analysis in Excel'_"

	PromptCriteria        = "Great user story! Now, please list the Acceptance Criteria."
	PromptCriteriaExample = "_Example:_\n• The button is on the main dashboard.\n• The downloaded file is named 'export.csv'_"

	PromptStakeholders = "Thank you. Now, please @mention any key stakeholders. If there are none, just type `None`."
	PromptDependencies = "Got it. Are there any dependencies on other teams or services? If not, type `None`."
	PromptDeadline     = "Almost done! Is there a target deadline or release date? If flexible, type `None`."
	PromptPriority     = "That's everything I need. What is the priority of this request?"

	PromptConfirmIntro = "Great! Please review the requirement below before I post it."
	PromptPosting      = "✅ Thank you! Posting this requirement to the backlog channel now..."

	ReplyCancelled     = "✅ I've cancelled your current requirement flow. You can start a new one anytime."
	ReplyCancelledPost = "❌ Okay, I've cancelled the submission. Feel free to start over."
	ReplyOutOfSync     = "It looks like we're out of sync. Please start a new requirement if you need to."
	ReplyAlreadyPosted = "It looks like we're out of sync or this has already been posted."
	ReplyPublishFailed = "I ran into an error posting to the channel. Please ensure I'm a member of it."
	ReplyBusy          = "⚠️ I'm handling a burst of messages and couldn't process your last one. Please send it again."

	ConfirmButtonLabel = "✅ Confirm & Post"
	CancelButtonLabel  = "❌ Cancel"
	ConfirmButtonValue = "confirm_post"
	CancelButtonValue  = "cancel_post"
)

// DefaultFallbackReply mirrors the responder's canned answer when the local
// LLM is unreachable or the message is out of its depth.
const DefaultFallbackReply = "I'm sorry, I'm not sure how to respond to that. " +
	"I am designed to help you formulate feature requirements. " +
	"To get started, you can say 'new feature' or 'I have an idea'."

// ResponderSystemPrompt keeps the fallback LLM on-topic.
const ResponderSystemPrompt = `You are FeatureFormulator, a friendly assistant that helps teams write feature requirements.
The user's message did not start a requirement flow. Reply briefly and conversationally (1-2 sentences).
If the user seems to want to propose work, suggest they say "new feature" or "I have an idea" to start a guided flow.
Never invent requirement content yourself.`
