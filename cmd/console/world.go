package main

import (
	"github.com/jwebster45206/echo-engine/pkg/interaction"
	"github.com/jwebster45206/echo-engine/pkg/scenario"
)

// A terminal cell is roughly twice as tall as it is wide.
const (
	cellW = 20
	cellH = 40
	reach = 10 // world units around the player that count as touching
)

type rect struct {
	x, y, w, h int
}

func entityRect(e scenario.Entity) rect {
	return rect{x: e.Position.X, y: e.Position.Y, w: e.Size.W, h: e.Size.H}
}

func (a rect) intersects(b rect) bool {
	return a.x < b.x+b.w && b.x < a.x+a.w && a.y < b.y+b.h && b.y < a.y+a.h
}

func (a rect) grow(d int) rect {
	return rect{x: a.x - d, y: a.y - d, w: a.w + 2*d, h: a.h + 2*d}
}

// world is the top-down layout the console draws and walks around in.
type world struct {
	sc     *scenario.Scenario
	solids []rect
}

func newWorld(sc *scenario.Scenario) *world {
	w := &world{sc: sc}
	for _, e := range sc.Entities {
		if e.Collidable {
			w.solids = append(w.solids, entityRect(e))
		}
	}
	return w
}

func (w *world) playerRect(p scenario.Point) rect {
	size := w.sc.World.PlayerSize
	return rect{x: p.X, y: p.Y, w: size.W, h: size.H}
}

// move returns the player position after a step of (dx, dy), or p when the
// step would leave the world or walk into a collidable entity.
func (w *world) move(p scenario.Point, dx, dy int) scenario.Point {
	next := scenario.Point{X: p.X + dx, Y: p.Y + dy}
	size := w.sc.World.PlayerSize
	next.X = clamp(next.X, 0, w.sc.World.Width-size.W)
	next.Y = clamp(next.Y, 0, w.sc.World.Height-size.H)

	pr := w.playerRect(next)
	for _, s := range w.solids {
		if pr.intersects(s) {
			return p
		}
	}
	return next
}

// overlaps is the collision predicate handed to the scene machine.
func (w *world) overlaps(p scenario.Point) func(interaction.Interactable) bool {
	pr := w.playerRect(p).grow(reach)
	return func(e interaction.Interactable) bool {
		return pr.intersects(entityRect(e.Definition()))
	}
}

// camera returns the first visible cell so that center stays in view
// without showing anything past the world edge.
func camera(center, view, worldCells int) int {
	return clamp(center-view/2, 0, max(0, worldCells-view))
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
