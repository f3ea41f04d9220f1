package resolver

import "emberdelve-server/internal/domain"

// handleMove - движение на одну клетку по стороне. Шаг во врага другого
// типа превращается в атаку (bump-to-attack); шаг в стену, за границу или
// в занятую союзником клетку - тихий no-op.
func handleMove(ctx *turnContext) []domain.Event {
	actor := ctx.actor
	dest := actor.Pos.Shift(ctx.action.Move.Dx, ctx.action.Move.Dy)

	if !ctx.state.InBounds(dest) || !ctx.state.TileAt(dest).Walkable() {
		return nil
	}

	if occupant := ctx.state.LivingEntityAt(dest); occupant != nil {
		if occupant.Type == actor.Type {
			return nil
		}
		return resolveAttack(ctx, actor, occupant)
	}

	actor.Pos = dest
	events := []domain.Event{{
		Type:    domain.EventMoved,
		ActorID: actor.ID,
		Pos:     &dest,
	}}

	// Автоподбор: все предметы на клетке, пока есть место в рюкзаке
	events = append(events, autoPickup(ctx.state, actor)...)
	return events
}

// autoPickup подбирает предметы с клетки актора в порядке, в котором они
// лежат на полу. Останавливается на полном рюкзаке, остаток лежит дальше.
func autoPickup(state *domain.GameState, actor *domain.Entity) []domain.Event {
	var ids []string
	for _, idx := range state.GroundItemsAt(actor.Pos) {
		ids = append(ids, state.GroundItems[idx].ID)
	}

	var events []domain.Event
	for _, id := range ids {
		if actor.Inventory.Full() {
			break
		}
		ground, ok := state.RemoveGroundItem(id)
		if !ok {
			continue
		}
		item := ground.Item
		if ground.Quantity > 0 {
			item.Quantity = ground.Quantity
		}
		actor.Inventory.Slots = append(actor.Inventory.Slots, item)
		events = append(events, domain.Event{
			Type:     domain.EventItemPickup,
			ActorID:  actor.ID,
			ItemID:   item.ID,
			ItemName: item.Name,
			Message:  actor.Name + " подбирает: " + item.Name + ".",
		})
	}
	return events
}
