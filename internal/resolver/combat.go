package resolver

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"emberdelve-server/internal/content"
	"emberdelve-server/internal/domain"
	"emberdelve-server/pkg/logger"
)

// Пороги опыта: xpThresholds[n] - опыт, необходимый для уровня n+1.
var xpThresholds = []int{0, 100, 300, 600, 1000, 1500, 2100, 2800, 3600, 4500}

// Награды за взятый уровень
const (
	attributePointsPerLevel = 2
	maxHPPerLevel           = 5
)

// resolveAttack полностью разыгрывает одну атаку: урон, шансовые эффекты,
// смерть, выпадение лута, опыт и взятие уровней.
func resolveAttack(ctx *turnContext, attacker, target *domain.Entity) []domain.Event {
	combatLogger := logger.Log.WithFields(logrus.Fields{
		"component":   "combat",
		"attacker_id": attacker.ID,
		"target_id":   target.ID,
	})

	// --- Расчёт урона ---

	weapon, hasWeapon := attacker.Equipped(domain.SlotWeapon)
	damage := attacker.Attack + equipmentBonus(attacker, "attack")
	if hasWeapon {
		damage += weapon.Damage
	}

	// Постоянные модификаторы атакующего (attack_mod)
	statCtx := combatContext(attacker, damage)
	for _, def := range ctx.reg.StatDefs() {
		if def.Trigger != content.TriggerAttackMod {
			continue
		}
		damage += int(def.Eval(statCtx))
	}

	// Эффективность оружия против брони цели
	if hasWeapon {
		if armor, ok := target.Equipped(domain.SlotArmor); ok {
			damage += ctx.reg.Effectiveness(weapon.WeaponType, armor.ArmorType)
		}
	}

	// --- Шансовые эффекты ---

	crit := false
	dodged := false
	for _, def := range ctx.reg.StatDefs() {
		switch def.Trigger {
		case content.TriggerChanceOnAttack:
			if rollChance(ctx, def, attacker) {
				damage = int(content.Apply(def.Op, float64(damage), def.Operand))
				crit = true
			}
		case content.TriggerChanceOnDefend:
			if rollChance(ctx, def, target) {
				damage = int(content.Apply(def.Op, float64(damage), def.Operand))
				dodged = true
			}
		}
	}

	// --- Расчёт защиты ---

	defense := target.Defense + equipmentBonus(target, "defense")
	if armor, ok := target.Equipped(domain.SlotArmor); ok {
		defense += armor.Defense
	}

	final := damage - defense
	if dodged {
		final = 0
	} else if final < 1 {
		// Удар, который не увернули, всегда оставляет хотя бы царапину
		final = 1
	}

	hpBefore := target.HP
	target.HP -= final

	combatLogger.WithFields(logrus.Fields{
		"damage":    damage,
		"defense":   defense,
		"final":     final,
		"crit":      crit,
		"dodged":    dodged,
		"hp_before": hpBefore,
		"hp_after":  target.HP,
	}).Info("Attack resolved.")

	msg := fmt.Sprintf("%s наносит %d урона по %s.", attacker.Name, final, target.Name)
	if crit && !dodged {
		msg = fmt.Sprintf("Критический удар! %s наносит %d урона по %s.", attacker.Name, final, target.Name)
	}
	if dodged {
		msg = fmt.Sprintf("%s уклоняется от атаки %s.", target.Name, attacker.Name)
	}

	pos := target.Pos
	events := []domain.Event{{
		Type:     domain.EventAttacked,
		ActorID:  attacker.ID,
		TargetID: target.ID,
		Pos:      &pos,
		Amount:   final,
		Message:  msg,
	}}

	// Вампиризм оружия: процент нанесенного урона возвращается здоровьем
	if hasWeapon && final > 0 {
		if ls := weapon.Bonus("lifesteal"); ls > 0 {
			healed := int(content.Apply(content.OpPercentOf, float64(final), float64(ls)))
			attacker.Heal(healed)
		}
	}

	if target.Alive() {
		return events
	}

	// --- Смерть цели ---

	events = append(events, domain.Event{
		Type:     domain.EventKilled,
		ActorID:  attacker.ID,
		TargetID: target.ID,
		Pos:      &pos,
		Message:  target.Name + " погибает.",
	})
	events = append(events, dropLoot(ctx.state, target)...)

	if attacker.Type == domain.EntityTypePlayer {
		events = append(events, awardXP(attacker, target)...)
	}
	return events
}

// combatContext собирает числовой контекст боя для стат-определений.
func combatContext(attacker *domain.Entity, damage int) map[string]float64 {
	return map[string]float64{
		"damage":                   float64(damage),
		domain.AbilityStrength:     float64(attacker.Abilities.Strength),
		domain.AbilityDexterity:    float64(attacker.Abilities.Dexterity),
		domain.AbilityConstitution: float64(attacker.Abilities.Constitution),
		domain.AbilityIntelligence: float64(attacker.Abilities.Intelligence),
	}
}

// rollChance бросает шансовый эффект для носителя. Итоговый шанс - базовый
// плюс значение характеристики носителя (если задана ChanceAbility).
func rollChance(ctx *turnContext, def content.StatDef, bearer *domain.Entity) bool {
	chance := def.Chance
	if def.ChanceAbility != "" {
		chance += float64(bearer.Abilities.Get(def.ChanceAbility))
	}
	if chance <= 0 {
		return false
	}
	return ctx.combat.Float64()*100 < chance
}

// equipmentBonus суммирует статовый бонус по всей экипировке.
// Слоты обходятся в отсортированном порядке - порядок обхода map
// не должен просачиваться в результат.
func equipmentBonus(e *domain.Entity, stat string) int {
	if len(e.Equipment) == 0 {
		return 0
	}
	total := 0
	for _, slot := range sortedSlots(e.Equipment) {
		total += e.Equipment[slot].Bonus(stat)
	}
	return total
}

func sortedSlots(equipment map[string]domain.Item) []string {
	slots := make([]string, 0, len(equipment))
	for slot := range equipment {
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	return slots
}

// dropLoot выкладывает рюкзак и экипировку погибшего на его клетку.
// ID предметов на полу совпадают с ID самих предметов.
func dropLoot(state *domain.GameState, dead *domain.Entity) []domain.Event {
	var events []domain.Event

	drop := func(item domain.Item) {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		state.GroundItems = append(state.GroundItems, domain.GroundItem{
			ID:       item.ID,
			Pos:      dead.Pos,
			Item:     item,
			Quantity: qty,
		})
		p := dead.Pos
		events = append(events, domain.Event{
			Type:     domain.EventItemDrop,
			ActorID:  dead.ID,
			ItemID:   item.ID,
			ItemName: item.Name,
			Pos:      &p,
		})
	}

	for _, item := range dead.Inventory.Slots {
		drop(item)
	}
	for _, slot := range sortedSlots(dead.Equipment) {
		drop(dead.Equipment[slot])
	}
	dead.Inventory.Slots = nil
	dead.Equipment = nil
	return events
}

// awardXP начисляет опыт за убийство и разыгрывает взятие уровней.
// Награда - явный XPValue цели, иначе формула от живучести цели и
// силы атаки убийцы.
func awardXP(attacker, target *domain.Entity) []domain.Event {
	xp := target.XPValue
	if xp == 0 {
		xp = 10 + target.MaxHP/5 + attacker.Attack*2
	}
	attacker.XP += xp

	events := []domain.Event{{
		Type:    domain.EventXPGained,
		ActorID: attacker.ID,
		Amount:  xp,
		Message: fmt.Sprintf("%s получает %d опыта.", attacker.Name, xp),
	}}

	for attacker.Level < len(xpThresholds) && attacker.XP >= xpThresholds[attacker.Level] {
		attacker.Level++
		attacker.AttributePoints += attributePointsPerLevel
		if attacker.Level%2 == 1 {
			attacker.SkillPoints++
		}
		attacker.MaxHP += maxHPPerLevel
		attacker.Heal(maxHPPerLevel)

		events = append(events, domain.Event{
			Type:    domain.EventLevelUp,
			ActorID: attacker.ID,
			Level:   attacker.Level,
			Message: fmt.Sprintf("%s достигает уровня %d!", attacker.Name, attacker.Level),
		})
	}
	return events
}
