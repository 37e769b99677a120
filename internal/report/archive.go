package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/mediscript/internal/core/events"
)

// Header identifies the archived report a version belongs to.
type Header struct {
	ReportID  string
	PatientID int64
	AuthorID  int64
	Title     string
}

// Archive persists saved versions outside the in-memory ledger.
type Archive interface {
	SaveVersion(ctx context.Context, header Header, v Version) error
	MarkFinalized(ctx context.Context, reportID string, at time.Time) error
}

// ArchiveHandler copies saved versions into the Archive. Failures are
// logged by the bus and never reach the session.
type ArchiveHandler struct {
	archive Archive
	logger  *slog.Logger
}

func NewArchiveHandler(archive Archive, logger *slog.Logger) *ArchiveHandler {
	return &ArchiveHandler{
		archive: archive,
		logger:  logger,
	}
}

func (h *ArchiveHandler) HandleVersionSaved(ctx context.Context, event events.Event) error {
	saved, ok := event.(*events.ReportVersionSavedEvent)
	if !ok {
		h.logger.Error("invalid event type for version saved handler", "event_type", event.EventType())
		return fmt.Errorf("expected ReportVersionSavedEvent, got %T", event)
	}

	header := Header{
		ReportID:  saved.ReportID,
		PatientID: saved.PatientID,
		AuthorID:  saved.UserID,
		Title:     "Medical Report: " + saved.PatientName,
	}
	v := Version{
		ID:         saved.VersionID,
		Timestamp:  saved.SavedAt,
		Content:    saved.Content,
		AuthorName: saved.AuthorName,
	}

	if err := h.archive.SaveVersion(ctx, header, v); err != nil {
		return fmt.Errorf("archive version %s of report %s: %w", v.ID, header.ReportID, err)
	}

	h.logger.Debug("report version archived", "report_id", header.ReportID, "version_id", v.ID)
	return nil
}

// HandleExported finalizes the archived report once a signed export happens.
func (h *ArchiveHandler) HandleExported(ctx context.Context, event events.Event) error {
	exported, ok := event.(*events.ReportExportedEvent)
	if !ok {
		h.logger.Error("invalid event type for exported handler", "event_type", event.EventType())
		return fmt.Errorf("expected ReportExportedEvent, got %T", event)
	}
	if !exported.Signed {
		return nil
	}

	if err := h.archive.MarkFinalized(ctx, exported.ReportID, exported.Timestamp); err != nil {
		return fmt.Errorf("finalize report %s: %w", exported.ReportID, err)
	}
	h.logger.Info("report finalized", "report_id", exported.ReportID, "signer", exported.SignerName)
	return nil
}

func (h *ArchiveHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeReportVersionSaved, h.HandleVersionSaved)
	eventBus.Subscribe(events.EventTypeReportExported, h.HandleExported)

	h.logger.Info("report archive handlers registered",
		"handlers", []string{events.EventTypeReportVersionSaved, events.EventTypeReportExported})
}
