package flags

import (
	"fmt"
	"maps"
	"slices"

	"github.com/zyedidia/generic/mapset"
)

// Flag names a boolean progress flag for one playthrough.
type Flag string

// Core narrative flags. Scenarios may set additional custom flags
// (for example one-time guards on witnesses).
const (
	QuestStarted      Flag = "quest_started"
	Reported          Flag = "reported"
	Decoded           Flag = "decoded"
	Confronted        Flag = "confronted"
	HasFakePoster     Flag = "has_fake_poster"
	HasRealPoster     Flag = "has_real_poster"
	EvidenceDestroyed Flag = "evidence_destroyed"
	GameOver          Flag = "game_over"
)

// Item identifiers used by the default scenario.
const (
	FakePoster = "fake_poster"
	RealPoster = "real_poster"
)

// PossessionFlag returns the flag that mirrors possession of an item,
// e.g. "fake_poster" -> "has_fake_poster".
func PossessionFlag(item string) Flag {
	return Flag("has_" + item)
}

// Store is the mutable record of progress flags, interacted NPCs
// and inventory for one playthrough.
//
// Possession flags are kept in step with the inventory: an item is in
// the inventory exactly when its has_<item> flag is true.
type Store struct {
	bools     map[Flag]bool
	npcs      mapset.Set[string]
	inventory []string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		bools:     make(map[Flag]bool),
		npcs:      mapset.New[string](),
		inventory: make([]string, 0),
	}
}

// Get reports the value of a flag. Unset flags are false.
func (s *Store) Get(f Flag) bool {
	return s.bools[f]
}

// Set assigns a flag. Possession flags must be changed through the
// inventory operations instead.
func (s *Store) Set(f Flag, v bool) {
	if v {
		s.bools[f] = true
		return
	}
	delete(s.bools, f)
}

// Has reports whether item is in the inventory.
func (s *Store) Has(item string) bool {
	return slices.Contains(s.inventory, item)
}

// AddToInventory appends item and raises its possession flag.
// Adding an item already held is a no-op.
func (s *Store) AddToInventory(item string) bool {
	if s.Has(item) {
		return false
	}
	s.inventory = append(s.inventory, item)
	s.bools[PossessionFlag(item)] = true
	return true
}

// RemoveFromInventory drops item and clears its possession flag.
func (s *Store) RemoveFromInventory(item string) bool {
	i := slices.Index(s.inventory, item)
	if i < 0 {
		return false
	}
	s.inventory = slices.Delete(s.inventory, i, i+1)
	delete(s.bools, PossessionFlag(item))
	return true
}

// SwapInventory replaces from with to in a single step, so the two
// possession flags are never true together. It is a no-op unless from
// is held.
func (s *Store) SwapInventory(from, to string) bool {
	if !s.Has(from) {
		return false
	}
	s.RemoveFromInventory(from)
	s.AddToInventory(to)
	return true
}

// Inventory returns a copy of the inventory in insertion order.
func (s *Store) Inventory() []string {
	return slices.Clone(s.inventory)
}

// MarkInteracted records that the player spoke to npc. Returns true the
// first time npc is recorded.
func (s *Store) MarkInteracted(npc string) bool {
	if s.npcs.Has(npc) {
		return false
	}
	s.npcs.Put(npc)
	return true
}

// Interacted reports whether npc has been recorded.
func (s *Store) Interacted(npc string) bool {
	return s.npcs.Has(npc)
}

// InteractedCount is the size of the interacted-NPC set.
func (s *Store) InteractedCount() int {
	return s.npcs.Size()
}

// InteractedWithAll reports whether every name in roster has been recorded.
func (s *Store) InteractedWithAll(roster []string) bool {
	for _, name := range roster {
		if !s.npcs.Has(name) {
			return false
		}
	}
	return true
}

// InteractedNPCs returns the recorded NPCs sorted by name.
func (s *Store) InteractedNPCs() []string {
	names := make([]string, 0, s.npcs.Size())
	s.npcs.Each(func(name string) {
		names = append(names, name)
	})
	slices.Sort(names)
	return names
}

// ResetAll clears every flag, the NPC set and the inventory.
func (s *Store) ResetAll() {
	s.bools = make(map[Flag]bool)
	s.npcs = mapset.New[string]()
	s.inventory = make([]string, 0)
}

// Clone returns an independent copy of the store.
func (s *Store) Clone() *Store {
	c := NewStore()
	maps.Copy(c.bools, s.bools)
	s.npcs.Each(func(name string) {
		c.npcs.Put(name)
	})
	c.inventory = slices.Clone(s.inventory)
	return c
}

// Snapshot is a comparable, serializable view of a Store.
type Snapshot struct {
	Flags     map[Flag]bool `json:"flags"`
	NPCs      []string      `json:"npcs_interacted"`
	Inventory []string      `json:"inventory"`
}

// Snapshot captures the current contents of the store.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Flags:     maps.Clone(s.bools),
		NPCs:      s.InteractedNPCs(),
		Inventory: s.Inventory(),
	}
}

// Equal reports whether two snapshots hold the same state.
func (a Snapshot) Equal(b Snapshot) bool {
	return maps.Equal(a.Flags, b.Flags) &&
		slices.Equal(a.NPCs, b.NPCs) &&
		slices.Equal(a.Inventory, b.Inventory)
}

// CheckInvariants returns an error describing the first broken invariant,
// or nil. A broken invariant is a programming error in a resolver.
func (s *Store) CheckInvariants() error {
	if s.Get(HasFakePoster) && s.Get(HasRealPoster) {
		return fmt.Errorf("both %s and %s are set", HasFakePoster, HasRealPoster)
	}
	for f, v := range s.bools {
		if !v || len(f) <= len("has_") || f[:4] != "has_" {
			continue
		}
		if item := string(f[4:]); !s.Has(item) {
			return fmt.Errorf("%s is set but %s is not in the inventory", f, item)
		}
	}
	for _, item := range s.inventory {
		if !s.Get(PossessionFlag(item)) {
			return fmt.Errorf("%s is in the inventory but %s is not set", item, PossessionFlag(item))
		}
	}
	seen := make(map[string]bool, len(s.inventory))
	for _, item := range s.inventory {
		if seen[item] {
			return fmt.Errorf("%s appears in the inventory more than once", item)
		}
		seen[item] = true
	}
	return nil
}
