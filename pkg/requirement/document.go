package requirement

import (
	"context"
	"fmt"
)

// Document is the fully collected requirement, produced once per confirmed
// flow and handed straight to the publisher. It is never stored.
type Document struct {
	SubmittedBy  string `json:"submitted_by"`
	Priority     string `json:"priority"`
	Deadline     string `json:"deadline"`
	Title        string `json:"title"`
	UserType     string `json:"user_type"`
	Action       string `json:"action"`
	Benefit      string `json:"benefit"`
	Criteria     string `json:"criteria"`
	Stakeholders string `json:"stakeholders"`
	Dependencies string `json:"dependencies"`
}

// Publisher posts a confirmed requirement to the shared backlog channel.
// Implemented by the NATS event publisher; faked in tests.
type Publisher interface {
	Publish(ctx context.Context, channelID string, doc Document) error
}

// FromFields builds a Document from a completed flow's field map.
func FromFields(userID string, fields map[string]string) Document {
	return Document{
		SubmittedBy:  userID,
		Priority:     fields["priority"],
		Deadline:     fields["deadline"],
		Title:        fields["title"],
		UserType:     fields["user_type"],
		Action:       fields["action"],
		Benefit:      fields["benefit"],
		Criteria:     fields["criteria"],
		Stakeholders: fields["stakeholders"],
		Dependencies: fields["dependencies"],
	}
}

const documentTemplate = `*🚀 New Requirement Submitted*

*Submitted By:* <@%s>
*Priority:* %s
*Target Deadline:* %s

*Title:*
%s

*User Story:*
As a %s, I want %s, so that %s.

*Acceptance Criteria:*
%s

*Key Stakeholders:*
%s

*Dependencies:*
%s`

// Render produces the canonical requirement text posted to the channel. Pure
// and transport-free so the preview and the final post are guaranteed to be
// the same bytes.
func Render(d Document) string {
	return fmt.Sprintf(documentTemplate,
		d.SubmittedBy,
		d.Priority,
		d.Deadline,
		d.Title,
		d.UserType,
		d.Action,
		d.Benefit,
		d.Criteria,
		d.Stakeholders,
		d.Dependencies,
	)
}
