package dialogue

import "strings"

type phaseKind int

const (
	kindDefault phaseKind = iota
	kindInitial
	kindDuring
	kindCompletion
	kindCustom
)

// Phase selects which lines an entity speaks. It is one of Initial,
// During, Completion, Default or a Custom tag.
type Phase struct {
	kind phaseKind
	tag  string
}

var (
	Initial    = Phase{kind: kindInitial}
	During     = Phase{kind: kindDuring}
	Completion = Phase{kind: kindCompletion}
	Default    = Phase{kind: kindDefault}
)

// Custom returns a scenario-specific phase.
func Custom(tag string) Phase {
	return ParsePhase(tag)
}

// ParsePhase maps a data key to a phase. The well-known names are
// case-insensitive; anything else is a Custom tag.
func ParsePhase(s string) Phase {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "initial":
		return Initial
	case "during":
		return During
	case "completion":
		return Completion
	case "default", "":
		return Default
	}
	return Phase{kind: kindCustom, tag: strings.ToLower(strings.TrimSpace(s))}
}

// IsCustom reports whether p is a Custom tag.
func (p Phase) IsCustom() bool { return p.kind == kindCustom }

func (p Phase) String() string {
	switch p.kind {
	case kindInitial:
		return "initial"
	case kindDuring:
		return "during"
	case kindCompletion:
		return "completion"
	case kindCustom:
		return p.tag
	default:
		return "default"
	}
}

// Fallbacks lists the phases consulted, in order, when looking up p.
// Completion falls back to During before Default.
func (p Phase) Fallbacks() []Phase {
	switch p.kind {
	case kindDefault:
		return []Phase{Default}
	case kindCompletion:
		return []Phase{Completion, During, Default}
	default:
		return []Phase{p, Default}
	}
}

// Table maps phases to the ordered lines spoken in that phase.
type Table map[Phase][]string

// NewTable converts a data-keyed map into a Table.
func NewTable(raw map[string][]string) Table {
	t := make(Table, len(raw))
	for k, lines := range raw {
		if len(lines) == 0 {
			continue
		}
		t[ParsePhase(k)] = append([]string(nil), lines...)
	}
	return t
}

// Lines returns the lines for p following its fallback order, or nil
// when no phase in the chain has lines.
func (t Table) Lines(p Phase) []string {
	for _, f := range p.Fallbacks() {
		if lines, ok := t[f]; ok && len(lines) > 0 {
			return lines
		}
	}
	return nil
}

// LinesOr is Lines with a final fallback line.
func (t Table) LinesOr(p Phase, fallback string) []string {
	if lines := t.Lines(p); lines != nil {
		return lines
	}
	return []string{fallback}
}

// Dialogue is the conversation currently on screen: an ordered set of
// lines and the index of the line being shown.
type Dialogue struct {
	Lines []string `json:"lines"`
	Index int      `json:"index"`
}

// New starts a dialogue at its first line. Empty lines are dropped.
func New(lines ...string) *Dialogue {
	d := &Dialogue{Lines: make([]string, 0, len(lines))}
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			d.Lines = append(d.Lines, l)
		}
	}
	return d
}

// Current is the line being shown, or "" when the dialogue is finished.
func (d *Dialogue) Current() string {
	if d == nil || d.Index >= len(d.Lines) {
		return ""
	}
	return d.Lines[d.Index]
}

// Advance moves to the next line and reports whether one remains.
func (d *Dialogue) Advance() bool {
	if d == nil {
		return false
	}
	if d.Index < len(d.Lines) {
		d.Index++
	}
	return d.Index < len(d.Lines)
}

// Done reports whether every line has been shown.
func (d *Dialogue) Done() bool {
	return d == nil || d.Index >= len(d.Lines)
}

// Text joins all lines, as used by renderers that show the whole exchange.
func (d *Dialogue) Text() string {
	if d == nil {
		return ""
	}
	return strings.Join(d.Lines, "\n\n")
}
