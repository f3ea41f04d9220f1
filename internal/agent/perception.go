package agent

import "emberdelve-server/internal/domain"

// Perception - локальная картина мира одной сущности: она сама, видимые
// сущности и сетка уровня. AI принимает решения только по перцепции,
// а не по полному состоянию - боты не видят сквозь стены.
type Perception struct {
	Self    domain.Entity
	Visible []domain.Entity
	Grid    [][]domain.Tile
}

// BuildPerception строит перцепцию для сущности. false, если сущности
// нет в состоянии или она мертва.
func BuildPerception(state *domain.GameState, selfID string) (Perception, bool) {
	self := state.Entity(selfID)
	if self == nil || !self.Alive() {
		return Perception{}, false
	}

	per := Perception{
		Self: self.Clone(),
		Grid: state.Dungeon,
	}

	radius := self.Vision.Radius
	if radius <= 0 {
		radius = 8
	}

	for i := range state.Entities {
		other := &state.Entities[i]
		if other.ID == selfID || !other.Alive() {
			continue
		}
		if self.Pos.DistanceTo(other.Pos) > float64(radius) {
			continue
		}
		if !HasLineOfSight(state.Dungeon, self.Pos, other.Pos) {
			continue
		}
		per.Visible = append(per.Visible, other.Clone())
	}
	return per, true
}

// HasLineOfSight проверяет прямую видимость между клетками по Брезенхэму.
// Стены блокируют луч; сами конечные точки считаются прозрачными.
func HasLineOfSight(grid [][]domain.Tile, from, to domain.Position) bool {
	x0, y0 := from.X, from.Y
	x1, y1 := to.X, to.Y

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		if x0 == x1 && y0 == y1 {
			return true
		}
		if (x0 != from.X || y0 != from.Y) && blocks(grid, x0, y0) {
			return false
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func blocks(grid [][]domain.Tile, x, y int) bool {
	if y < 0 || y >= len(grid) || x < 0 || x >= len(grid[y]) {
		return true
	}
	return !grid[y][x].Walkable()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
