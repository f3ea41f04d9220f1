package resolver

import "emberdelve-server/internal/domain"

// handlePickup - явный подбор предмета по ID с клетки актора.
// Предмет в другой клетке или полный рюкзак - тихий no-op.
func handlePickup(ctx *turnContext) []domain.Event {
	actor := ctx.actor
	if actor.Inventory.Full() {
		return []domain.Event{{
			Type:    domain.EventError,
			ActorID: actor.ID,
			Message: "Рюкзак полон.",
		}}
	}

	found := false
	for _, idx := range ctx.state.GroundItemsAt(actor.Pos) {
		if ctx.state.GroundItems[idx].ID == ctx.action.Item.GroundID {
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	ground, ok := ctx.state.RemoveGroundItem(ctx.action.Item.GroundID)
	if !ok {
		return nil
	}
	item := ground.Item
	if ground.Quantity > 0 {
		item.Quantity = ground.Quantity
	}
	actor.Inventory.Slots = append(actor.Inventory.Slots, item)

	return []domain.Event{{
		Type:     domain.EventItemPickup,
		ActorID:  actor.ID,
		ItemID:   item.ID,
		ItemName: item.Name,
		Message:  actor.Name + " подбирает: " + item.Name + ".",
	}}
}

// handleDrop - выброс предмета из слота рюкзака на клетку актора.
func handleDrop(ctx *turnContext) []domain.Event {
	actor := ctx.actor
	slot := ctx.action.Item.Slot
	if slot < 0 || slot >= len(actor.Inventory.Slots) {
		return nil
	}

	item := actor.Inventory.Slots[slot]
	actor.Inventory.Slots = append(actor.Inventory.Slots[:slot], actor.Inventory.Slots[slot+1:]...)

	qty := item.Quantity
	if qty <= 0 {
		qty = 1
	}
	ctx.state.GroundItems = append(ctx.state.GroundItems, domain.GroundItem{
		ID:       item.ID,
		Pos:      actor.Pos,
		Item:     item,
		Quantity: qty,
	})

	p := actor.Pos
	return []domain.Event{{
		Type:     domain.EventItemDrop,
		ActorID:  actor.ID,
		ItemID:   item.ID,
		ItemName: item.Name,
		Pos:      &p,
		Message:  actor.Name + " выбрасывает: " + item.Name + ".",
	}}
}

// handleEquip - надеть предмет из слота рюкзака. Категория определяет слот
// экипировки; уже надетый предмет возвращается в рюкзак (обмен местами).
func handleEquip(ctx *turnContext) []domain.Event {
	actor := ctx.actor
	slot := ctx.action.Item.Slot
	if slot < 0 || slot >= len(actor.Inventory.Slots) {
		return nil
	}

	item := actor.Inventory.Slots[slot]
	var equipSlot string
	switch item.Category {
	case domain.ItemCategoryWeapon:
		equipSlot = domain.SlotWeapon
	case domain.ItemCategoryArmor:
		equipSlot = domain.SlotArmor
	default:
		return nil
	}

	actor.Inventory.Slots = append(actor.Inventory.Slots[:slot], actor.Inventory.Slots[slot+1:]...)
	if actor.Equipment == nil {
		actor.Equipment = make(map[string]domain.Item)
	}
	if prev, ok := actor.Equipment[equipSlot]; ok {
		actor.Inventory.Slots = append(actor.Inventory.Slots, prev)
	}
	actor.Equipment[equipSlot] = item

	return []domain.Event{{
		Type:     domain.EventItemEquip,
		ActorID:  actor.ID,
		ItemID:   item.ID,
		ItemName: item.Name,
		Message:  actor.Name + " надевает: " + item.Name + ".",
	}}
}

// handleUnequip - снять предмет из слота экипировки обратно в рюкзак.
// Без места в рюкзаке снять нельзя.
func handleUnequip(ctx *turnContext) []domain.Event {
	actor := ctx.actor
	item, ok := actor.Equipped(ctx.action.Item.EquipSlot)
	if !ok {
		return nil
	}
	if actor.Inventory.Full() {
		return []domain.Event{{
			Type:    domain.EventError,
			ActorID: actor.ID,
			Message: "Рюкзак полон.",
		}}
	}

	delete(actor.Equipment, ctx.action.Item.EquipSlot)
	if len(actor.Equipment) == 0 {
		actor.Equipment = nil
	}
	actor.Inventory.Slots = append(actor.Inventory.Slots, item)

	return []domain.Event{{
		Type:     domain.EventItemUnequip,
		ActorID:  actor.ID,
		ItemID:   item.ID,
		ItemName: item.Name,
		Message:  actor.Name + " снимает: " + item.Name + ".",
	}}
}

// handleUse - применить расходник из слота рюкзака. Стак уменьшается на
// единицу, последний экземпляр исчезает из рюкзака.
func handleUse(ctx *turnContext) []domain.Event {
	actor := ctx.actor
	slot := ctx.action.Item.Slot
	if slot < 0 || slot >= len(actor.Inventory.Slots) {
		return nil
	}

	item := actor.Inventory.Slots[slot]
	if item.Category != domain.ItemCategoryConsumable {
		return nil
	}

	var amount int
	switch item.Effect {
	case "heal":
		before := actor.HP
		actor.Heal(item.EffectValue)
		amount = actor.HP - before
	default:
		return nil
	}

	if item.Quantity > 1 {
		actor.Inventory.Slots[slot].Quantity--
	} else {
		actor.Inventory.Slots = append(actor.Inventory.Slots[:slot], actor.Inventory.Slots[slot+1:]...)
	}

	return []domain.Event{{
		Type:     domain.EventItemUse,
		ActorID:  actor.ID,
		ItemID:   item.ID,
		ItemName: item.Name,
		Amount:   amount,
		Message:  actor.Name + " использует: " + item.Name + ".",
	}}
}
