package cmd

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/frahmantamala/mediscript/internal"
	"github.com/frahmantamala/mediscript/internal/core/events"
	"github.com/frahmantamala/mediscript/internal/report"
	"github.com/frahmantamala/mediscript/pkg/logger"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Inspect the report event bus: list event types, publish test events through the audit subscriber`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test event",
	Long:  `Publish a test report event to an in-process bus wired with the audit subscriber`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(args[0])
	},
}

var listEventsCmd = &cobra.Command{
	Use:   "list",
	Short: "List report event types",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range events.ReportEventTypes {
			fmt.Println(t)
		}
	},
}

var (
	eventReportID string
	eventData     string
)

func publishTestEvent(eventType string) error {
	if !slices.Contains(events.ReportEventTypes, eventType) {
		return fmt.Errorf("unknown event type %q, expected one of: %s", eventType, strings.Join(events.ReportEventTypes, ", "))
	}

	lg := logger.LoggerWrapper()
	eventBus := events.NewEventBus(lg)
	report.NewAuditHandler(lg).RegisterEventHandlers(eventBus)

	testEvent := events.BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"report_id": eventReportID,
			"message":   eventData,
			"source":    "cli-command",
		},
	}

	lg.Info("publishing test event", "event_type", eventType, "event_id", testEvent.ID)

	ctx, cancel := internal.WithTimeout(context.Background(), 0)
	defer cancel()

	if err := eventBus.Publish(ctx, testEvent); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	if err := eventBus.Drain(ctx); err != nil {
		return fmt.Errorf("wait for handlers: %w", err)
	}

	lg.Info("test event published successfully")
	return nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventReportID, "report", "cli-test", "Report id to attach to the event")
	publishEventCmd.Flags().StringVar(&eventData, "data", "test message", "Event data message")

	eventCmd.AddCommand(publishEventCmd)
	eventCmd.AddCommand(listEventsCmd)

	rootCmd.AddCommand(eventCmd)
}
