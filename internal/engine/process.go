package engine

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"emberdelve-server/internal/agent"
	"emberdelve-server/internal/domain"
	"emberdelve-server/pkg/logger"
)

// ProcessAction - единственная точка входа для действий. Хост
// перезаписывает actorId проверенной личностью (анти-спуфинг), резолвит
// действие, отыгрывает переходы уровней, раунд AI, победу/поражение,
// продвигает ход и пишет запись в журнал.
func (h *Host) ProcessAction(playerID string, action domain.Action, opts Options) (*Delta, error) {
	// Анти-спуфинг: чужой actorId из сообщения клиента не переживает хост
	action.ActorID = playerID

	if err := action.Validate(); err != nil {
		return nil, fmt.Errorf("invalid action: %w", err)
	}

	var prevPos *domain.Position
	if e := h.state.Entity(playerID); e != nil {
		p := e.Pos
		prevPos = &p
	}

	next, events := h.res.ResolveTurn(h.state, action)

	// Переходы уровней и исход партии проверяются после каждого резолва
	events = append(events, h.applyTransitions(next, playerID, prevPos)...)
	events = append(events, h.checkOutcome(next)...)

	if action.Type == domain.ActionJoin && h.state.Entity(action.ActorID) == nil && next.Entity(action.ActorID) != nil {
		h.everJoined = true
	}

	if !opts.SkipAI {
		var aiEvents []domain.Event
		next, aiEvents = h.runAIRound(next)
		events = append(events, aiEvents...)
	}

	recordTurn := next.Turn
	if !opts.SkipTurnAdvance {
		next = h.res.AdvanceTurn(next)
	}

	h.state = next

	if !opts.Replaying {
		h.log.Turns = append(h.log.Turns, domain.TurnRecord{
			Turn:            recordTurn,
			Action:          action.Clone(),
			Events:          events,
			Timestamp:       time.Now().UnixMilli(),
			SkipAI:          opts.SkipAI,
			SkipTurnAdvance: opts.SkipTurnAdvance,
		})
		h.log.StateSnapshot = h.state.Clone()
		h.log.Meta.LastSaved = time.Now().UnixMilli()
	}

	return &Delta{
		Turn:   recordTurn,
		Action: action,
		Events: events,
		State:  h.state.Clone(),
	}, nil
}

// runAIRound дает сходить каждой управляемой хостом сущности текущего
// уровня. Список акторов фиксируется до первого хода: сущности, умершие
// посреди раунда, до своего хода не доживают и пропускаются.
func (h *Host) runAIRound(state *domain.GameState) (*domain.GameState, []domain.Event) {
	var actorIDs []string
	for i := range state.Entities {
		e := &state.Entities[i]
		if e.Type == domain.EntityTypeEnemy && e.Alive() {
			actorIDs = append(actorIDs, e.ID)
		}
	}

	var events []domain.Event
	for _, id := range actorIDs {
		actor := state.Entity(id)
		if actor == nil || !actor.Alive() {
			continue
		}

		per, ok := agent.BuildPerception(state, id)
		if !ok {
			continue
		}
		brain := agent.Brain{EntityID: id, Behavior: actor.AIBehavior}
		action := brain.Decide(per)
		if err := action.Validate(); err != nil {
			continue
		}

		next, aiEvents := h.res.ResolveTurn(state, action)
		events = append(events, aiEvents...)
		state = next
	}

	if len(events) > 0 {
		events = append(events, h.checkOutcome(state)...)
	}
	return state, events
}

// applyTransitions отыгрывает переходы между уровнями. Лестница
// срабатывает только когда актор наступил на нее этим действием: партия
// прибывает к ответной лестнице целевого уровня, и стоять на ней - не
// повод идти обратно. Уровень глобален для партии: спускается и
// поднимается она целиком.
func (h *Host) applyTransitions(state *domain.GameState, actorID string, prevPos *domain.Position) []domain.Event {
	trigger := state.Entity(actorID)
	if trigger == nil || trigger.Type != domain.EntityTypePlayer || !trigger.Alive() {
		return nil
	}
	if prevPos != nil && *prevPos == trigger.Pos {
		return nil
	}

	descend := false
	switch state.TileAt(trigger.Pos).Type {
	case domain.TileStairsDown:
		descend = true
	case domain.TileStairsUp:
	default:
		return nil
	}
	triggerID := trigger.ID

	target := state.CurrentLevel + 1
	if !descend {
		target = state.CurrentLevel - 1
	}
	if target < 0 || target >= len(state.Levels) {
		return nil
	}

	// Ростер врагов текущего уровня замораживается, целевого - оживает
	var staying []domain.Entity
	var party []int
	for i := range state.Entities {
		e := &state.Entities[i]
		if e.Type == domain.EntityTypeEnemy {
			staying = append(staying, e.Clone())
		} else {
			party = append(party, i)
		}
	}
	state.LevelEnemies[state.CurrentLevel] = staying

	kept := make([]domain.Entity, 0, len(party))
	for _, idx := range party {
		kept = append(kept, state.Entities[idx])
	}
	state.Entities = kept
	if revived, ok := state.LevelEnemies[target]; ok {
		state.Entities = append(state.Entities, revived...)
		delete(state.LevelEnemies, target)
	}

	prev := state.CurrentLevel
	state.CurrentLevel = target
	state.Dungeon = state.Levels[target].Clone().Grid

	// Партия прибывает к ответной лестнице целевого уровня
	arrival := levelArrival(&state.Levels[target], descend)
	placePartyAt(state, arrival)

	logger.Log.WithFields(logrus.Fields{
		"component":  "host",
		"trigger_id": triggerID,
		"from_level": prev,
		"to_level":   target,
	}).Info("Party transitioned between levels.")

	msg := "Партия спускается глубже."
	if !descend {
		msg = "Партия поднимается наверх."
	}
	return []domain.Event{{
		Type:    domain.EventLevelTransition,
		ActorID: triggerID,
		Level:   target,
		Message: msg,
	}}
}

// levelArrival выбирает точку прибытия на целевом уровне.
func levelArrival(lvl *domain.Level, descend bool) domain.Position {
	if descend && lvl.StairsUp != nil {
		return *lvl.StairsUp
	}
	if !descend && lvl.StairsDown != nil {
		return *lvl.StairsDown
	}
	if len(lvl.Spawns) > 0 {
		return lvl.Spawns[0]
	}
	return domain.Position{}
}

// placePartyAt расставляет игроков вокруг точки прибытия: первый на саму
// точку, остальные по ближайшим свободным клеткам, по детерминированной
// спирали обхода.
func placePartyAt(state *domain.GameState, center domain.Position) {
	taken := map[domain.Position]bool{}
	for i := range state.Entities {
		e := &state.Entities[i]
		if e.Type != domain.EntityTypePlayer || !e.Alive() {
			continue
		}
		e.Pos = nextFreeAround(state, center, taken)
		taken[e.Pos] = true
	}
}

func nextFreeAround(state *domain.GameState, center domain.Position, taken map[domain.Position]bool) domain.Position {
	if !taken[center] && state.TileAt(center).Walkable() && state.LivingEntityAt(center) == nil {
		return center
	}
	for radius := 1; radius < state.Width()+state.Height(); radius++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if abs(dx)+abs(dy) != radius {
					continue
				}
				p := center.Shift(dx, dy)
				if taken[p] || !state.InBounds(p) || !state.TileAt(p).Walkable() {
					continue
				}
				if state.LivingEntityAt(p) != nil {
					continue
				}
				return p
			}
		}
	}
	return center
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// checkOutcome проверяет исход партии: живой игрок на выходе - победа,
// ни одного живого игрока - поражение. Оба события одноразовые.
func (h *Host) checkOutcome(state *domain.GameState) []domain.Event {
	var events []domain.Event

	if !state.VictoryAchieved {
		for i := range state.Entities {
			e := &state.Entities[i]
			if e.Type != domain.EntityTypePlayer || !e.Alive() {
				continue
			}
			if state.TileAt(e.Pos).Type == domain.TileExit {
				state.VictoryAchieved = true
				events = append(events, domain.Event{
					Type:    domain.EventVictory,
					ActorID: e.ID,
					Message: "Партия выбирается из подземелья. Победа!",
				})
				break
			}
		}
	}

	if !h.defeated && h.everJoined {
		hasPlayers := false
		for i := range state.Entities {
			if state.Entities[i].Type == domain.EntityTypePlayer {
				hasPlayers = true
				break
			}
		}
		if !hasPlayers {
			h.defeated = true
			events = append(events, domain.Event{
				Type:    domain.EventDefeat,
				Message: "Вся партия погибла. Поражение.",
			})
		}
	}
	return events
}
