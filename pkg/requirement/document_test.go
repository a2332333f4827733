package requirement

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	doc := Document{
		SubmittedBy:  "U123",
		Priority:     "High",
		Deadline:     "None",
		Title:        "Dashboard CSV Export Button",
		UserType:     "Project Manager",
		Action:       "download a CSV of the project data",
		Benefit:      "perform offline analysis in Excel",
		Criteria:     "• The button is on the main dashboard.",
		Stakeholders: "None",
		Dependencies: "None",
	}

	out := Render(doc)

	wantSubstrings := []string{
		"*Submitted By:* <@U123>",
		"*Priority:* High",
		"*Target Deadline:* None",
		"Dashboard CSV Export Button",
		"As a Project Manager, I want download a CSV of the project data, so that perform offline analysis in Excel.",
		"• The button is on the main dashboard.",
	}
	for _, want := range wantSubstrings {
		if !strings.Contains(out, want) {
			t.Errorf("rendered document missing %q\n---\n%s", want, out)
		}
	}
}

func TestRenderFieldOrder(t *testing.T) {
	doc := Document{
		SubmittedBy: "U1",
		Priority:    "Low",
		Deadline:    "2026-09-01",
		Title:       "T",
	}
	out := Render(doc)

	// Submitter, then priority, then deadline, then title.
	idxSubmitter := strings.Index(out, "*Submitted By:*")
	idxPriority := strings.Index(out, "*Priority:*")
	idxDeadline := strings.Index(out, "*Target Deadline:*")
	idxTitle := strings.Index(out, "*Title:*")

	if !(idxSubmitter < idxPriority && idxPriority < idxDeadline && idxDeadline < idxTitle) {
		t.Errorf("section order wrong: submitter=%d priority=%d deadline=%d title=%d",
			idxSubmitter, idxPriority, idxDeadline, idxTitle)
	}
}

func TestFromFields(t *testing.T) {
	fields := map[string]string{
		"title":        "T",
		"user_type":    "PM",
		"action":       "act",
		"benefit":      "ben",
		"criteria":     "",
		"stakeholders": "None",
		"dependencies": "None",
		"deadline":     "None",
		"priority":     "Medium",
	}

	doc := FromFields("U77", fields)

	if doc.SubmittedBy != "U77" {
		t.Errorf("SubmittedBy = %q", doc.SubmittedBy)
	}
	if doc.Title != "T" || doc.UserType != "PM" || doc.Action != "act" || doc.Benefit != "ben" {
		t.Errorf("story fields wrong: %+v", doc)
	}
	if doc.Criteria != "" {
		t.Errorf("Criteria = %q, want empty", doc.Criteria)
	}
	if doc.Priority != "Medium" {
		t.Errorf("Priority = %q, want Medium", doc.Priority)
	}
}
