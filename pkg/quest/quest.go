package quest

import (
	"fmt"
	"log/slog"
)

// Status is the lifecycle stage of a quest.
type Status int

const (
	NotStarted Status = iota
	InProgress
	Completed
)

func (s Status) String() string {
	switch s {
	case NotStarted:
		return "NOT_STARTED"
	case InProgress:
		return "IN_PROGRESS"
	case Completed:
		return "COMPLETED"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Objective is a single boolean sub-goal within a quest.
type Objective struct {
	Key         string `json:"key"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`

	// Trigger is the progress event that completes this objective.
	Trigger string `json:"trigger,omitempty"`
}

// Quest is a named unit of progress with keyed objectives.
type Quest struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      Status       `json:"status"`
	Objectives  []*Objective `json:"objectives"` // declaration order

	// StartTrigger, when set, starts the quest on the named progress event.
	StartTrigger string `json:"start_trigger,omitempty"`
}

// New builds a NOT_STARTED quest. Objectives are copied.
func New(id, title, description string, objectives ...Objective) *Quest {
	q := &Quest{
		ID:          id,
		Title:       title,
		Description: description,
		Status:      NotStarted,
		Objectives:  make([]*Objective, 0, len(objectives)),
	}
	for _, o := range objectives {
		o.Completed = false
		q.Objectives = append(q.Objectives, &o)
	}
	return q
}

// Objective looks up an objective by key.
func (q *Quest) Objective(key string) (*Objective, bool) {
	for _, o := range q.Objectives {
		if o.Key == key {
			return o, true
		}
	}
	return nil, false
}

// AllObjectivesComplete reports whether every objective is completed.
// A quest with no objectives is trivially complete.
func (q *Quest) AllObjectivesComplete() bool {
	for _, o := range q.Objectives {
		if !o.Completed {
			return false
		}
	}
	return true
}

// Progress returns the number of completed objectives and the total.
func (q *Quest) Progress() (done, total int) {
	for _, o := range q.Objectives {
		if o.Completed {
			done++
		}
	}
	return done, len(q.Objectives)
}

// Registry holds every quest of a playthrough in registration order.
// The available, active and completed collections are views over the
// quests' status, so a quest is always in exactly one of them.
type Registry struct {
	order  []string
	quests map[string]*Quest
	logger *slog.Logger
}

// NewRegistry creates an empty registry. A nil logger discards output.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		quests: make(map[string]*Quest),
		logger: logger,
	}
}

// Register adds a quest to the available set. IDs must be unique.
func (r *Registry) Register(q *Quest) error {
	if q == nil || q.ID == "" {
		return fmt.Errorf("quest id cannot be empty")
	}
	if _, exists := r.quests[q.ID]; exists {
		return fmt.Errorf("quest %q already registered", q.ID)
	}
	r.order = append(r.order, q.ID)
	r.quests[q.ID] = q
	return nil
}

// Get returns the quest with the given id.
func (r *Registry) Get(id string) (*Quest, bool) {
	q, ok := r.quests[id]
	return q, ok
}

// Status returns the status of a quest, NotStarted for unknown ids.
func (r *Registry) Status(id string) Status {
	if q, ok := r.quests[id]; ok {
		return q.Status
	}
	return NotStarted
}

// StartQuest moves an available quest to active. It is a logged no-op
// if the quest is unknown or already started.
func (r *Registry) StartQuest(id string) bool {
	q, ok := r.quests[id]
	if !ok {
		r.logger.Warn("Cannot start unknown quest", "quest", id)
		return false
	}
	if q.Status != NotStarted {
		r.logger.Debug("Quest already started", "quest", id, "status", q.Status.String())
		return false
	}
	q.Status = InProgress
	r.logger.Info("Quest started", "quest", id)
	return true
}

// SetObjectiveComplete flips an objective of an active quest. It does not
// complete the quest; see TryCompleteQuest.
func (r *Registry) SetObjectiveComplete(questID, objectiveKey string) bool {
	q, ok := r.quests[questID]
	if !ok || q.Status != InProgress {
		r.logger.Debug("Objective ignored, quest not active", "quest", questID, "objective", objectiveKey)
		return false
	}
	o, ok := q.Objective(objectiveKey)
	if !ok {
		r.logger.Warn("Unknown objective", "quest", questID, "objective", objectiveKey)
		return false
	}
	if o.Completed {
		return false
	}
	o.Completed = true
	r.logger.Debug("Objective completed", "quest", questID, "objective", objectiveKey)
	return true
}

// TryCompleteQuest completes an active quest whose objectives are all
// done. The return value tells callers whether completion happened on
// this call, so completion-only side effects run exactly once.
func (r *Registry) TryCompleteQuest(id string) bool {
	q, ok := r.quests[id]
	if !ok || q.Status != InProgress {
		return false
	}
	if !q.AllObjectivesComplete() {
		return false
	}
	q.Status = Completed
	r.logger.Info("Quest completed", "quest", id)
	return true
}

// TryCompleteAll attempts completion of every active quest in
// registration order and returns the quests completed by this call.
func (r *Registry) TryCompleteAll() []*Quest {
	var completed []*Quest
	for _, id := range r.order {
		if r.TryCompleteQuest(id) {
			completed = append(completed, r.quests[id])
		}
	}
	return completed
}

// Handle applies a progress event: quests whose StartTrigger matches are
// started, then matching objectives of active quests are completed.
// Quests are visited in registration order.
func (r *Registry) Handle(event string) {
	if event == "" {
		return
	}
	for _, id := range r.order {
		q := r.quests[id]
		if q.Status == NotStarted && q.StartTrigger == event {
			r.StartQuest(id)
		}
		if q.Status != InProgress {
			continue
		}
		for _, o := range q.Objectives {
			if o.Trigger == event {
				r.SetObjectiveComplete(id, o.Key)
			}
		}
	}
}

// Available returns NOT_STARTED quests in registration order.
func (r *Registry) Available() []*Quest {
	return r.withStatus(NotStarted)
}

// Active returns IN_PROGRESS quests in registration order.
func (r *Registry) Active() []*Quest {
	return r.withStatus(InProgress)
}

// Completed returns COMPLETED quests in registration order.
func (r *Registry) Completed() []*Quest {
	return r.withStatus(Completed)
}

// All returns every quest in registration order.
func (r *Registry) All() []*Quest {
	all := make([]*Quest, 0, len(r.order))
	for _, id := range r.order {
		all = append(all, r.quests[id])
	}
	return all
}

func (r *Registry) withStatus(s Status) []*Quest {
	var out []*Quest
	for _, id := range r.order {
		if q := r.quests[id]; q.Status == s {
			out = append(out, q)
		}
	}
	return out
}
