package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"feature-intake-bot/internal/constant"
	"feature-intake-bot/internal/repository/memory"
	"feature-intake-bot/pkg/chat"
	"feature-intake-bot/pkg/requirement"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type fakeMessenger struct {
	mu   sync.Mutex
	sent []chat.Message
}

func (m *fakeMessenger) SendToUser(_ context.Context, _ string, msg chat.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMessenger) lastText() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1].Text
}

type fakeResponder struct {
	reply string
	err   error
	asked []string
}

func (r *fakeResponder) Respond(_ context.Context, text string) (string, error) {
	r.asked = append(r.asked, text)
	return r.reply, r.err
}

type fakePublisher struct {
	published []requirement.Document
	channels  []string
	err       error
}

func (p *fakePublisher) Publish(_ context.Context, channelID string, doc requirement.Document) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, doc)
	p.channels = append(p.channels, channelID)
	return nil
}

type intakeFixture struct {
	svc       IIntakeService
	flows     *memory.FlowRepository
	messenger *fakeMessenger
	responder *fakeResponder
	publisher *fakePublisher
}

func newIntakeFixture() *intakeFixture {
	f := &intakeFixture{
		flows:     memory.NewFlowRepository(),
		messenger: &fakeMessenger{},
		responder: &fakeResponder{reply: "hello there"},
		publisher: &fakePublisher{},
	}
	f.svc = NewIntakeService(f.flows, f.messenger, f.responder, f.publisher, nil, "C-BACKLOG", nopLogger{})
	return f
}

func (f *intakeFixture) completeFlow(t *testing.T, userID string) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, f.svc.HandleMessage(ctx, userID, "I have an idea"))
	for _, in := range []string{
		"Dashboard CSV Export Button",
		"Project Manager",
		"download a CSV of the project data",
		"perform offline analysis in Excel",
		"• criteria",
		"None",
		"None",
		"None",
	} {
		require.NoError(t, f.svc.HandleMessage(ctx, userID, in))
	}
	require.NoError(t, f.svc.HandleAction(ctx, userID, constant.ActionPriorityHigh, "High"))
}

func TestKeywordStartsFlow(t *testing.T) {
	f := newIntakeFixture()

	err := f.svc.HandleMessage(context.Background(), "U1", "I have an idea")
	require.NoError(t, err)

	st, found := f.flows.Get("U1")
	require.True(t, found, "flow should exist after trigger keyword")
	assert.Equal(t, "AWAITING_TITLE", string(st.Step))
	require.NotEmpty(t, f.messenger.sent)
	assert.Contains(t, f.messenger.sent[0].Text, "title")
	assert.Empty(t, f.responder.asked, "fallback must not run when a flow starts")
}

func TestSubstringKeywordStartsFlow(t *testing.T) {
	f := newIntakeFixture()

	require.NoError(t, f.svc.HandleMessage(context.Background(), "U1", "implement dark mode"))

	_, found := f.flows.Get("U1")
	assert.True(t, found)
}

func TestUnmatchedTextGoesToFallback(t *testing.T) {
	f := newIntakeFixture()
	f.responder.reply = "verbatim fallback reply"

	require.NoError(t, f.svc.HandleMessage(context.Background(), "U1", "good morning"))

	_, found := f.flows.Get("U1")
	assert.False(t, found)
	assert.Equal(t, []string{"good morning"}, f.responder.asked)
	assert.Equal(t, "verbatim fallback reply", f.messenger.lastText())
}

func TestFallbackErrorUsesDefaultReply(t *testing.T) {
	f := newIntakeFixture()
	f.responder.err = errors.New("llm down")

	require.NoError(t, f.svc.HandleMessage(context.Background(), "U1", "good morning"))

	assert.Equal(t, constant.DefaultFallbackReply, f.messenger.lastText())
}

func TestCancelIsCaseInsensitive(t *testing.T) {
	for _, kw := range []string{"cancel", "CANCEL", "Cancel", " cAnCeL "} {
		t.Run(kw, func(t *testing.T) {
			f := newIntakeFixture()
			ctx := context.Background()

			require.NoError(t, f.svc.HandleMessage(ctx, "U1", "new feature"))
			require.NoError(t, f.svc.HandleMessage(ctx, "U1", "Some Title"))
			require.NoError(t, f.svc.HandleMessage(ctx, "U1", kw))

			_, found := f.flows.Get("U1")
			assert.False(t, found, "cancel should delete the flow")
			assert.Equal(t, constant.ReplyCancelled, f.messenger.lastText())
		})
	}
}

func TestCancelKeywordIsNotStoredAsField(t *testing.T) {
	f := newIntakeFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.HandleMessage(ctx, "U1", "new feature"))
	require.NoError(t, f.svc.HandleMessage(ctx, "U1", "cancel"))

	// A fresh flow must start from scratch.
	require.NoError(t, f.svc.HandleMessage(ctx, "U1", "new feature"))
	st, found := f.flows.Get("U1")
	require.True(t, found)
	assert.Empty(t, st.Fields)
}

func TestEmptyCriteriaAccepted(t *testing.T) {
	f := newIntakeFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.HandleMessage(ctx, "U1", "new feature"))
	for _, in := range []string{"T", "PM", "act", "ben"} {
		require.NoError(t, f.svc.HandleMessage(ctx, "U1", in))
	}
	require.NoError(t, f.svc.HandleMessage(ctx, "U1", ""))

	st, found := f.flows.Get("U1")
	require.True(t, found)
	assert.Equal(t, "AWAITING_STAKEHOLDERS", string(st.Step))
	criteria, ok := st.Fields["criteria"]
	require.True(t, ok)
	assert.Equal(t, "", criteria)
}

func TestConfirmPublishesExactlyOnce(t *testing.T) {
	f := newIntakeFixture()
	ctx := context.Background()

	f.completeFlow(t, "U1")
	require.NoError(t, f.svc.HandleAction(ctx, "U1", constant.ActionConfirmPost, constant.ConfirmButtonValue))

	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, "C-BACKLOG", f.publisher.channels[0])
	doc := f.publisher.published[0]
	assert.Equal(t, "U1", doc.SubmittedBy)
	assert.Equal(t, "High", doc.Priority)
	assert.Equal(t, "Dashboard CSV Export Button", doc.Title)

	_, found := f.flows.Get("U1")
	assert.False(t, found, "flow must be cleared on submission")

	// Re-delivered Confirm: no second post, out-of-sync notice instead.
	require.NoError(t, f.svc.HandleAction(ctx, "U1", constant.ActionConfirmPost, constant.ConfirmButtonValue))
	assert.Len(t, f.publisher.published, 1)
	assert.Equal(t, constant.ReplyAlreadyPosted, f.messenger.lastText())
}

func TestPublishFailureNotifiesSubmitter(t *testing.T) {
	f := newIntakeFixture()
	f.publisher.err = errors.New("channel unreachable")
	ctx := context.Background()

	f.completeFlow(t, "U1")
	require.NoError(t, f.svc.HandleAction(ctx, "U1", constant.ActionConfirmPost, constant.ConfirmButtonValue))

	assert.Empty(t, f.publisher.published)
	assert.Equal(t, constant.ReplyPublishFailed, f.messenger.lastText())

	// Failure is terminal: the flow is gone and a retry click is out of sync.
	_, found := f.flows.Get("U1")
	assert.False(t, found)
}

func TestCancelPostDeletesFlow(t *testing.T) {
	f := newIntakeFixture()
	ctx := context.Background()

	f.completeFlow(t, "U1")
	require.NoError(t, f.svc.HandleAction(ctx, "U1", constant.ActionCancelPost, constant.CancelButtonValue))

	assert.Empty(t, f.publisher.published)
	_, found := f.flows.Get("U1")
	assert.False(t, found)
	assert.Equal(t, constant.ReplyCancelledPost, f.messenger.lastText())
}

func TestCancelPostAtWrongStepIsOutOfSync(t *testing.T) {
	f := newIntakeFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.HandleMessage(ctx, "U1", "new feature"))
	require.NoError(t, f.svc.HandleAction(ctx, "U1", constant.ActionCancelPost, constant.CancelButtonValue))

	assert.Equal(t, constant.ReplyOutOfSync, f.messenger.lastText())
	st, found := f.flows.Get("U1")
	require.True(t, found, "stale cancel click must not delete a mid-flow state")
	assert.Equal(t, "AWAITING_TITLE", string(st.Step))
}

func TestPriorityClickWithoutFlowIsOutOfSync(t *testing.T) {
	f := newIntakeFixture()

	require.NoError(t, f.svc.HandleAction(context.Background(), "U1", constant.ActionPriorityHigh, "High"))

	assert.Equal(t, constant.ReplyOutOfSync, f.messenger.lastText())
	_, found := f.flows.Get("U1")
	assert.False(t, found)
}

func TestPriorityClickAtWrongStepIsOutOfSync(t *testing.T) {
	f := newIntakeFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.HandleMessage(ctx, "U1", "new feature"))
	require.NoError(t, f.svc.HandleAction(ctx, "U1", constant.ActionPriorityLow, "Low"))

	assert.Equal(t, constant.ReplyOutOfSync, f.messenger.lastText())
	st, found := f.flows.Get("U1")
	require.True(t, found)
	assert.Equal(t, "AWAITING_TITLE", string(st.Step), "wrong-step click must not change state")
	assert.NotContains(t, st.Fields, "priority")
}

func TestPriorityValueStoredAsDelivered(t *testing.T) {
	// The click payload value is not validated against the four options;
	// an injected value passes through as literal priority text.
	f := newIntakeFixture()

	f.completeFlow(t, "U1")
	st, found := f.flows.Get("U1")
	require.True(t, found)
	assert.Equal(t, "High", st.Fields["priority"])
}

func TestConfirmPreviewContainsDocument(t *testing.T) {
	f := newIntakeFixture()

	f.completeFlow(t, "U1")

	var preview string
	for _, msg := range f.messenger.sent {
		if strings.Contains(msg.Text, "*Priority:* High") {
			preview = msg.Text
		}
	}
	require.NotEmpty(t, preview, "preview with rendered document expected")
	assert.Contains(t, preview, "As a Project Manager, I want download a CSV of the project data, so that perform offline analysis in Excel.")
}
