package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeReportSessionOpened = "report.session_opened"
	EventTypeReportVersionSaved  = "report.version_saved"
	EventTypeReportReverted      = "report.reverted"
	EventTypeReportFormalized    = "report.formalized"
	EventTypeReportExported      = "report.exported"
	EventTypeReportSessionClosed = "report.session_closed"
)

// ReportEventTypes lists every report event, for subscribers that want all of them.
var ReportEventTypes = []string{
	EventTypeReportSessionOpened,
	EventTypeReportVersionSaved,
	EventTypeReportReverted,
	EventTypeReportFormalized,
	EventTypeReportExported,
	EventTypeReportSessionClosed,
}

func newBase(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

type ReportSessionOpenedEvent struct {
	BaseEvent
	ReportID  string `json:"report_id"`
	PatientID int64  `json:"patient_id"`
	UserID    int64  `json:"user_id"`
}

func NewReportSessionOpenedEvent(reportID string, patientID, userID int64) *ReportSessionOpenedEvent {
	return &ReportSessionOpenedEvent{
		BaseEvent: newBase(EventTypeReportSessionOpened, map[string]interface{}{
			"report_id":  reportID,
			"patient_id": patientID,
			"user_id":    userID,
		}),
		ReportID:  reportID,
		PatientID: patientID,
		UserID:    userID,
	}
}

// ReportVersionSavedEvent carries the full snapshot so the archive can
// persist it without reaching back into the session.
type ReportVersionSavedEvent struct {
	BaseEvent
	ReportID    string    `json:"report_id"`
	PatientID   int64     `json:"patient_id"`
	PatientName string    `json:"patient_name"`
	UserID      int64     `json:"user_id"`
	VersionID   string    `json:"version_id"`
	Content     string    `json:"content"`
	AuthorName  string    `json:"author_name"`
	SavedAt     time.Time `json:"saved_at"`
}

func NewReportVersionSavedEvent(reportID string, patientID int64, patientName string, userID int64, versionID, content, authorName string, savedAt time.Time) *ReportVersionSavedEvent {
	return &ReportVersionSavedEvent{
		BaseEvent: newBase(EventTypeReportVersionSaved, map[string]interface{}{
			"report_id":  reportID,
			"patient_id": patientID,
			"user_id":    userID,
			"version_id": versionID,
			"author":     authorName,
		}),
		ReportID:    reportID,
		PatientID:   patientID,
		PatientName: patientName,
		UserID:      userID,
		VersionID:   versionID,
		Content:     content,
		AuthorName:  authorName,
		SavedAt:     savedAt,
	}
}

type ReportRevertedEvent struct {
	BaseEvent
	ReportID  string `json:"report_id"`
	VersionID string `json:"version_id"`
	UserID    int64  `json:"user_id"`
}

func NewReportRevertedEvent(reportID, versionID string, userID int64) *ReportRevertedEvent {
	return &ReportRevertedEvent{
		BaseEvent: newBase(EventTypeReportReverted, map[string]interface{}{
			"report_id":  reportID,
			"version_id": versionID,
			"user_id":    userID,
		}),
		ReportID:  reportID,
		VersionID: versionID,
		UserID:    userID,
	}
}

type ReportFormalizedEvent struct {
	BaseEvent
	ReportID string `json:"report_id"`
	UserID   int64  `json:"user_id"`
	Success  bool   `json:"success"`
	Reason   string `json:"reason,omitempty"`
}

func NewReportFormalizedEvent(reportID string, userID int64, success bool, reason string) *ReportFormalizedEvent {
	return &ReportFormalizedEvent{
		BaseEvent: newBase(EventTypeReportFormalized, map[string]interface{}{
			"report_id": reportID,
			"user_id":   userID,
			"success":   success,
			"reason":    reason,
		}),
		ReportID: reportID,
		UserID:   userID,
		Success:  success,
		Reason:   reason,
	}
}

type ReportExportedEvent struct {
	BaseEvent
	ReportID   string `json:"report_id"`
	PatientID  int64  `json:"patient_id"`
	UserID     int64  `json:"user_id"`
	SignerName string `json:"signer_name"`
	Signed     bool   `json:"signed"`
}

func NewReportExportedEvent(reportID string, patientID, userID int64, signerName string, signed bool) *ReportExportedEvent {
	return &ReportExportedEvent{
		BaseEvent: newBase(EventTypeReportExported, map[string]interface{}{
			"report_id":   reportID,
			"patient_id":  patientID,
			"user_id":     userID,
			"signer_name": signerName,
			"signed":      signed,
		}),
		ReportID:   reportID,
		PatientID:  patientID,
		UserID:     userID,
		SignerName: signerName,
		Signed:     signed,
	}
}

type ReportSessionClosedEvent struct {
	BaseEvent
	ReportID        string `json:"report_id"`
	UserID          int64  `json:"user_id"`
	DiscardedEdits  bool   `json:"discarded_edits"`
	VersionsInStore int    `json:"versions"`
}

func NewReportSessionClosedEvent(reportID string, userID int64, discardedEdits bool, versions int) *ReportSessionClosedEvent {
	return &ReportSessionClosedEvent{
		BaseEvent: newBase(EventTypeReportSessionClosed, map[string]interface{}{
			"report_id":       reportID,
			"user_id":         userID,
			"discarded_edits": discardedEdits,
			"versions":        versions,
		}),
		ReportID:        reportID,
		UserID:          userID,
		DiscardedEdits:  discardedEdits,
		VersionsInStore: versions,
	}
}
