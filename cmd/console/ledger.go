package main

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/jwebster45206/echo-engine/internal/storage"
	"github.com/jwebster45206/echo-engine/pkg/state"
)

const (
	ledgerTimeout = 3 * time.Second
	recentCases   = 3
)

type caseSummaryMsg struct {
	count  int64
	recent []storage.CaseRecord
	err    error
}

type caseRecordedMsg struct {
	id  uuid.UUID
	err error
}

type clipboardMsg struct {
	err error
}

// summarizeCases loads the closed-case count and the latest few cases
// for the title screen.
func summarizeCases(l storage.Ledger) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ledgerTimeout)
		defer cancel()
		n, err := l.Count(ctx)
		if err != nil {
			return caseSummaryMsg{err: err}
		}
		recent, err := l.Recent(ctx, recentCases)
		return caseSummaryMsg{count: n, recent: recent, err: err}
	}
}

// recordCase builds the record on the update goroutine and writes it in
// the command, so the session can keep changing after a reset.
func recordCase(l storage.Ledger, s *state.Session) tea.Cmd {
	rec := storage.NewCaseRecord(s, time.Now())
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ledgerTimeout)
		defer cancel()
		return caseRecordedMsg{id: rec.ID, err: l.Record(ctx, rec)}
	}
}

func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{err: clipboard.WriteAll(text)}
	}
}
