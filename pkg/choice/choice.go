package choice

import (
	"log/slog"

	"github.com/jwebster45206/echo-engine/pkg/flags"
	"github.com/jwebster45206/echo-engine/pkg/scenario"
	"github.com/jwebster45206/echo-engine/pkg/state"
)

// Progress events emitted by choices.
const (
	EventReportFiled       = "report_filed"
	EventEvidenceAnalysed  = "evidence_analysed"
	EventEvidenceDestroyed = "evidence_destroyed"
	EventMayorConfronted   = "mayor_confronted"
)

// Result is the outcome of resolving one choice. Flags is a new store;
// the prior store passed to Resolve is never modified.
type Result struct {
	Flags         *flags.Store
	Accepted      bool
	Line          string
	Ending        state.Ending
	EndingMessage string
	Events        []string
}

// handler mutates f for one side of a prompt and returns the ending it
// forces, if any.
type handler func(p scenario.Prompt, accepted bool, f *flags.Store) (state.Ending, []string)

var handlers = map[string]handler{
	scenario.ContextReport:   resolveReport,
	scenario.ContextDecode:   resolveDecode,
	scenario.ContextConfront: resolveConfront,
}

// Handles reports whether context has a resolution rule.
func Handles(context string) bool {
	_, ok := handlers[context]
	return ok
}

func resolveReport(_ scenario.Prompt, accepted bool, f *flags.Store) (state.Ending, []string) {
	if !accepted {
		return state.NoEnding, nil
	}
	f.Set(flags.Reported, true)
	return state.NoEnding, []string{EventReportFiled}
}

func resolveDecode(p scenario.Prompt, accepted bool, f *flags.Store) (state.Ending, []string) {
	f.Set(flags.Decoded, true)
	if !accepted {
		f.Set(flags.EvidenceDestroyed, true)
		f.RemoveFromInventory(p.Consumes)
		return state.EndingGameOver, []string{EventEvidenceDestroyed}
	}
	if p.Produces != "" {
		f.SwapInventory(p.Consumes, p.Produces)
	} else {
		f.RemoveFromInventory(p.Consumes)
	}
	return state.NoEnding, []string{EventEvidenceAnalysed}
}

func resolveConfront(_ scenario.Prompt, accepted bool, f *flags.Store) (state.Ending, []string) {
	f.Set(flags.Confronted, true)
	if accepted {
		return state.EndingGameComplete, []string{EventMayorConfronted}
	}
	return state.EndingGameOver, []string{EventMayorConfronted}
}

// Resolve is the pure resolution function: given a context, the chosen
// index and the prior flags it returns new flags and the next state.
// ok is false for unknown contexts and out-of-range indices.
func Resolve(sc *scenario.Scenario, context string, index int, prior *flags.Store) (Result, bool) {
	h, ok := handlers[context]
	if !ok {
		return Result{}, false
	}
	p, ok := sc.Prompt(context)
	if !ok || index < 0 || index >= len(p.Options) {
		return Result{}, false
	}

	accepted := index == p.CorrectIndex
	branch := p.Reject
	if accepted {
		branch = p.Accept
	}

	next := prior.Clone()
	ending, events := h(p, accepted, next)
	if ending == state.EndingGameOver {
		next.Set(flags.GameOver, true)
	}

	res := Result{
		Flags:    next,
		Accepted: accepted,
		Line:     branch.Line,
		Ending:   ending,
		Events:   events,
	}
	if ending != state.NoEnding {
		res.EndingMessage = branch.Ending
		if res.EndingMessage == "" {
			res.EndingMessage = defaultEndingMessage(sc, ending)
		}
	}
	return res, true
}

func defaultEndingMessage(sc *scenario.Scenario, e state.Ending) string {
	if e == state.EndingGameComplete {
		return sc.Lines.GameComplete
	}
	return sc.Lines.GameOver
}

// Resolver applies choices to a session.
type Resolver struct {
	logger *slog.Logger
}

// NewResolver creates a resolver. A nil logger discards output.
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{logger: logger}
}

// Choose resolves the pending prompt with the option at index. It is a
// logged no-op when no prompt is pending, the game has ended, or index
// is out of range. After a resolution the prompt and its context are
// always cleared.
func (r *Resolver) Choose(s *state.Session, index int) bool {
	if s == nil || s.Prompt == nil {
		return false
	}
	if s.Terminal() {
		r.logger.Debug("Choice ignored, game has ended")
		return false
	}
	ctx := s.Prompt.Context
	if index < 0 || index >= len(s.Prompt.Options) {
		r.logger.Warn("Choice index out of range", "context", ctx, "index", index, "options", len(s.Prompt.Options))
		return false
	}

	res, ok := Resolve(s.Scenario, ctx, index, s.Flags)
	if !ok {
		r.logger.Warn("No resolution for choice", "context", ctx, "index", index)
		s.Dismiss()
		return false
	}

	s.RecordChoice(ctx, index, res.Accepted)
	s.Flags = res.Flags
	s.ClosePrompt()
	s.Say("", res.Line)
	r.logger.Info("Choice resolved", "context", ctx, "index", index, "accepted", res.Accepted, "ending", res.Ending.String())

	s.Progress(res.Events...)
	if res.Ending != state.NoEnding {
		s.End(res.Ending, res.EndingMessage)
	}
	return true
}

// ChooseSelected resolves the pending prompt with its cursor position.
func (r *Resolver) ChooseSelected(s *state.Session) bool {
	if s == nil || s.Prompt == nil {
		return false
	}
	return r.Choose(s, s.Prompt.Selected)
}
