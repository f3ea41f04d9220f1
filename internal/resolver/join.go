package resolver

import (
	"emberdelve-server/internal/content"
	"emberdelve-server/internal/domain"
	"emberdelve-server/pkg/rng"
)

// handleJoin добавляет новую сущность в партию. Повторный join для уже
// существующего актора - тихий no-op: переподключение не трогает состояние,
// женитьба сессии на сущности происходит уровнем выше, в движке хоста.
func handleJoin(ctx *turnContext) []domain.Event {
	actorID := ctx.action.ActorID
	if actorID == "" {
		return nil
	}
	if existing := ctx.state.Entity(actorID); existing != nil {
		return nil
	}

	templateID := ""
	var hint *domain.Position
	if ctx.action.Join != nil {
		templateID = ctx.action.Join.TemplateID
		hint = ctx.action.Join.SpawnHint
	}
	if templateID == "" {
		templateID = content.DefaultTemplateID(actorID)
	}

	pos, ok := spawnPosition(ctx.state, actorID, hint)
	if !ok {
		return []domain.Event{{
			Type:    domain.EventError,
			ActorID: actorID,
			Message: "Нет свободного места для появления.",
		}}
	}

	entity := ctx.reg.CreateEntity(templateID, actorID, pos)
	if entity == nil {
		fb := content.FallbackEntity(actorID, pos)
		entity = &fb
	}
	ctx.state.Entities = append(ctx.state.Entities, *entity)

	p := pos
	return []domain.Event{{
		Type:    domain.EventSpawned,
		ActorID: actorID,
		Pos:     &p,
		Message: entity.Name + " входит в подземелье.",
	}}
}

// spawnPosition выбирает клетку появления: сначала явная подсказка,
// затем заготовленные точки спавна уровня, затем детерминированный скан
// пола со смещением от ID - разные акторы стартуют с разных клеток,
// но результат остается чистой функцией (state, actorID).
func spawnPosition(state *domain.GameState, actorID string, hint *domain.Position) (domain.Position, bool) {
	if hint != nil && state.Passable(*hint) {
		return *hint, true
	}

	if state.CurrentLevel < len(state.Levels) {
		for _, p := range state.Levels[state.CurrentLevel].Spawns {
			if state.Passable(p) {
				return p, true
			}
		}
	}

	w, h := state.Width(), state.Height()
	if w == 0 || h == 0 {
		return domain.Position{}, false
	}
	total := w * h
	offset := int(rng.Hash32(actorID) % uint32(total))
	for i := 0; i < total; i++ {
		idx := (offset + i) % total
		p := domain.Position{X: idx % w, Y: idx / w}
		if state.TileAt(p).Type == domain.TileFloor && state.Passable(p) {
			return p, true
		}
	}
	return domain.Position{}, false
}
