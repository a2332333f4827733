// Local conversation simulator: drives the intake core end to end without
// any transport, printing both sides of the dialogue. Useful for eyeballing
// prompt copy and the rendered requirement document.
package main

import (
	"context"
	"fmt"

	"feature-intake-bot/internal/constant"
	"feature-intake-bot/internal/pkg/logger"
	"feature-intake-bot/internal/repository/memory"
	"feature-intake-bot/internal/service"
	"feature-intake-bot/pkg/chat"
	"feature-intake-bot/pkg/requirement"

	"github.com/fatih/color"
)

const simUserID = "U0SIMULATOR"

var (
	userColor = color.New(color.FgCyan, color.Bold)
	botColor  = color.New(color.FgGreen)
	postColor = color.New(color.FgYellow, color.Bold)
)

// consoleMessenger prints DMs instead of delivering them.
type consoleMessenger struct{}

func (consoleMessenger) SendToUser(_ context.Context, _ string, msg chat.Message) error {
	if msg.Text != "" {
		botColor.Printf("BOT:  %s\n", msg.Text)
	}
	for _, b := range msg.Buttons {
		botColor.Printf("      [%s]\n", b.Label)
	}
	return nil
}

// cannedResponder stands in for the Ollama fallback.
type cannedResponder struct{}

func (cannedResponder) Respond(_ context.Context, _ string) (string, error) {
	return constant.DefaultFallbackReply, nil
}

// consolePublisher prints the channel post instead of emitting it to NATS.
type consolePublisher struct{}

func (consolePublisher) Publish(_ context.Context, channelID string, doc requirement.Document) error {
	postColor.Printf("\n--- POSTED TO #%s ---\n%s\n--- END POST ---\n\n", channelID, requirement.Render(doc))
	return nil
}

func main() {
	fmt.Println("=== Requirement Intake Simulation ===")

	sysLogger := logger.NewIsolatedLogger("logs/simulate.log")
	intake := service.NewIntakeService(
		memory.NewFlowRepository(),
		consoleMessenger{},
		cannedResponder{},
		consolePublisher{},
		nil,
		"backlog",
		sysLogger,
	)

	ctx := context.Background()

	say := func(text string) {
		userColor.Printf("USER: %s\n", text)
		if err := intake.HandleMessage(ctx, simUserID, text); err != nil {
			color.Red("error: %v", err)
		}
	}
	click := func(actionID, value string) {
		userColor.Printf("USER: *clicks %s*\n", value)
		if err := intake.HandleAction(ctx, simUserID, actionID, value); err != nil {
			color.Red("error: %v", err)
		}
	}

	say("good morning bot")
	say("I have an idea for the dashboard")
	say("Dashboard CSV Export Button")
	say("Project Manager")
	say("download a CSV of the project data")
	say("perform offline analysis in Excel")
	say("• The button is on the main dashboard.\n• The downloaded file is named 'export.csv'")
	say("None")
	say("None")
	say("None")
	click(constant.ActionPriorityHigh, constant.PriorityHigh)
	click(constant.ActionConfirmPost, constant.ConfirmButtonValue)

	// A second confirm must be a no-op apart from the out-of-sync notice.
	click(constant.ActionConfirmPost, constant.ConfirmButtonValue)
}
