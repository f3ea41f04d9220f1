package agent

import (
	"math"

	"emberdelve-server/internal/domain"
)

// Brain - мозг одной управляемой хостом сущности (враг или бот).
// Decide детерминирован: одинаковая перцепция всегда дает одинаковое
// действие, никакого собственного рандома у мозга нет.
type Brain struct {
	EntityID string
	Behavior string
}

// Decide выбирает следующее действие по перцепции.
// Поведение "hunt" преследует ближайшую цель противоположного типа;
// пустое поведение - статичный страж, бьет только вплотную.
func (b Brain) Decide(per Perception) domain.Action {
	wait := domain.Action{Type: domain.ActionWait, ActorID: b.EntityID}

	target := b.nearestTarget(per)
	if target == nil {
		return wait
	}

	// Вплотную - бьем шагом в цель (bump-to-attack)
	if per.Self.Pos.Adjacent4(target.Pos) {
		return domain.Action{
			Type:    domain.ActionMove,
			ActorID: b.EntityID,
			Move: &domain.MoveArgs{
				Dx: sign(target.Pos.X - per.Self.Pos.X),
				Dy: sign(target.Pos.Y - per.Self.Pos.Y),
			},
		}
	}

	if b.Behavior != "hunt" {
		return wait
	}

	dx, dy := chaseStep(per, target.Pos)
	if dx == 0 && dy == 0 {
		return wait
	}
	return domain.Action{
		Type:    domain.ActionMove,
		ActorID: b.EntityID,
		Move:    &domain.MoveArgs{Dx: dx, Dy: dy},
	}
}

// nearestTarget ищет ближайшую живую цель противоположного типа.
// Равные дистанции разрешаются порядком в перцепции - решение остается
// детерминированным.
func (b Brain) nearestTarget(per Perception) *domain.Entity {
	var best *domain.Entity
	bestDist := math.MaxFloat64
	for i := range per.Visible {
		other := &per.Visible[i]
		if other.Type == per.Self.Type {
			continue
		}
		d := per.Self.Pos.DistanceTo(other.Pos)
		if d < bestDist {
			best = other
			bestDist = d
		}
	}
	return best
}

// chaseStep выбирает кардинальный шаг к цели: сперва приоритетная ось
// (большая дельта), затем скольжение по второй оси, если первая заперта.
func chaseStep(per Perception, target domain.Position) (int, int) {
	self := per.Self.Pos
	dxRaw := target.X - self.X
	dyRaw := target.Y - self.Y
	stepX := sign(dxRaw)
	stepY := sign(dyRaw)

	tryXFirst := abs(dxRaw) > abs(dyRaw)
	if tryXFirst {
		if stepX != 0 && stepFree(per, self.Shift(stepX, 0)) {
			return stepX, 0
		}
		if stepY != 0 && stepFree(per, self.Shift(0, stepY)) {
			return 0, stepY
		}
	} else {
		if stepY != 0 && stepFree(per, self.Shift(0, stepY)) {
			return 0, stepY
		}
		if stepX != 0 && stepFree(per, self.Shift(stepX, 0)) {
			return stepX, 0
		}
	}
	return 0, 0 // Тупик
}

// stepFree проверяет шаг по локальной картине мира: проходимый тайл и
// никого из видимых сущностей в клетке.
func stepFree(per Perception, p domain.Position) bool {
	if blocks(per.Grid, p.X, p.Y) {
		return false
	}
	for i := range per.Visible {
		if per.Visible[i].Pos == p {
			return false
		}
	}
	return true
}

func sign(x int) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}
