package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/echo-engine/pkg/state"
)

// CaseRecord is the summary of one finished playthrough.
type CaseRecord struct {
	ID          uuid.UUID            `json:"id"`
	Scenario    string               `json:"scenario"`
	Ending      string               `json:"ending"`
	Message     string               `json:"message"`
	Choices     []state.ChoiceRecord `json:"choices,omitempty"`
	Interviewed []string             `json:"interviewed,omitempty"`
	StartedAt   time.Time            `json:"started_at"`
	FinishedAt  time.Time            `json:"finished_at"`
}

// Solved reports whether the case ended in GameComplete.
func (r CaseRecord) Solved() bool {
	return r.Ending == state.EndingGameComplete.String()
}

// NewCaseRecord summarises a finished session.
func NewCaseRecord(s *state.Session, finishedAt time.Time) CaseRecord {
	return CaseRecord{
		ID:          s.ID,
		Scenario:    s.Scenario.Name,
		Ending:      s.Ending.String(),
		Message:     s.EndingMessage,
		Choices:     append([]state.ChoiceRecord(nil), s.Choices...),
		Interviewed: s.Flags.InteractedNPCs(),
		StartedAt:   s.StartedAt,
		FinishedAt:  finishedAt,
	}
}

// Ledger records closed cases. It is not a save system: records are
// written once when a playthrough ends and never loaded back into play.
type Ledger interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	Record(ctx context.Context, rec CaseRecord) error
	// Recent returns up to n records, newest first.
	Recent(ctx context.Context, n int) ([]CaseRecord, error)
	Count(ctx context.Context) (int64, error)
}
