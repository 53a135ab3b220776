package flags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AddToInventory(t *testing.T) {
	s := NewStore()

	assert.True(t, s.AddToInventory(FakePoster))
	assert.False(t, s.AddToInventory(FakePoster), "second add should be a no-op")

	assert.Equal(t, []string{FakePoster}, s.Inventory())
	assert.True(t, s.Get(HasFakePoster))
	require.NoError(t, s.CheckInvariants())
}

func TestStore_RemoveFromInventory(t *testing.T) {
	s := NewStore()
	s.AddToInventory(FakePoster)
	s.AddToInventory("badge")

	assert.True(t, s.RemoveFromInventory(FakePoster))
	assert.False(t, s.RemoveFromInventory(FakePoster))

	assert.Equal(t, []string{"badge"}, s.Inventory())
	assert.False(t, s.Get(HasFakePoster))
	require.NoError(t, s.CheckInvariants())
}

func TestStore_SwapInventory(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(s *Store)
		wantSwap  bool
		wantItems []string
	}{
		{
			name:      "nothing held",
			setup:     func(s *Store) {},
			wantSwap:  false,
			wantItems: []string{},
		},
		{
			name:      "fake poster held",
			setup:     func(s *Store) { s.AddToInventory(FakePoster) },
			wantSwap:  true,
			wantItems: []string{RealPoster},
		},
		{
			name: "order preserved for other items",
			setup: func(s *Store) {
				s.AddToInventory("notebook")
				s.AddToInventory(FakePoster)
			},
			wantSwap:  true,
			wantItems: []string{"notebook", RealPoster},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			tt.setup(s)

			assert.Equal(t, tt.wantSwap, s.SwapInventory(FakePoster, RealPoster))
			assert.Equal(t, tt.wantItems, s.Inventory())
			assert.False(t, s.Get(HasFakePoster) && s.Get(HasRealPoster))
			require.NoError(t, s.CheckInvariants())
		})
	}
}

func TestStore_MarkInteracted(t *testing.T) {
	s := NewStore()
	roster := []string{"npc1", "npc2", "good", "bad"}

	assert.True(t, s.MarkInteracted("npc1"))
	assert.False(t, s.MarkInteracted("npc1"))
	assert.Equal(t, 1, s.InteractedCount())
	assert.False(t, s.InteractedWithAll(roster))

	for _, name := range roster {
		s.MarkInteracted(name)
	}
	assert.Equal(t, 4, s.InteractedCount())
	assert.True(t, s.InteractedWithAll(roster))
	assert.Equal(t, []string{"bad", "good", "npc1", "npc2"}, s.InteractedNPCs())
}

func TestStore_ResetAll(t *testing.T) {
	s := NewStore()
	s.Set(QuestStarted, true)
	s.MarkInteracted("npc1")
	s.AddToInventory(FakePoster)

	s.ResetAll()

	assert.False(t, s.Get(QuestStarted))
	assert.Zero(t, s.InteractedCount())
	assert.Empty(t, s.Inventory())
	assert.True(t, s.Snapshot().Equal(NewStore().Snapshot()))
}

func TestStore_CloneIsIndependent(t *testing.T) {
	s := NewStore()
	s.Set(Reported, true)
	s.MarkInteracted("bad")
	s.AddToInventory(FakePoster)

	c := s.Clone()
	c.SwapInventory(FakePoster, RealPoster)
	c.MarkInteracted("good")
	c.Set(Decoded, true)

	assert.Equal(t, []string{FakePoster}, s.Inventory())
	assert.False(t, s.Interacted("good"))
	assert.False(t, s.Get(Decoded))
	assert.True(t, c.Get(Reported))
}

func TestStore_CheckInvariants(t *testing.T) {
	s := NewStore()
	s.Set(HasRealPoster, true)
	assert.Error(t, s.CheckInvariants(), "flag without item")

	s = NewStore()
	s.AddToInventory(FakePoster)
	s.Set(HasRealPoster, true)
	assert.Error(t, s.CheckInvariants(), "both posters")

	s = NewStore()
	s.Set(Flag("has"), true)
	assert.NoError(t, s.CheckInvariants(), "short flag names are not possession flags")
}
