package resolver

import "emberdelve-server/internal/domain"

// Бонус максимального здоровья за очко телосложения
const hpPerConstitution = 3

// handleLevelUp распределяет накопленные очки характеристик и навыков.
// Распределение атомарно: перерасход или отрицательные значения отклоняют
// действие целиком, событием ошибки.
func handleLevelUp(ctx *turnContext) []domain.Event {
	actor := ctx.actor
	args := ctx.action.LevelUp

	attrTotal := 0
	for name, v := range args.Attributes {
		if v < 0 {
			return levelUpError(actor, "Отрицательные значения недопустимы.")
		}
		if !knownAbility(name) {
			return levelUpError(actor, "Неизвестная характеристика: "+name+".")
		}
		attrTotal += v
	}
	skillTotal := 0
	for _, v := range args.Skills {
		if v < 0 {
			return levelUpError(actor, "Отрицательные значения недопустимы.")
		}
		skillTotal += v
	}

	if attrTotal > actor.AttributePoints {
		return levelUpError(actor, "Недостаточно очков характеристик.")
	}
	if skillTotal > actor.SkillPoints {
		return levelUpError(actor, "Недостаточно очков навыков.")
	}
	if attrTotal == 0 && skillTotal == 0 {
		return nil
	}

	for name, v := range args.Attributes {
		actor.Abilities.Add(name, v)
		if name == domain.AbilityConstitution {
			// Телосложение растит и максимум, и текущее здоровье
			actor.MaxHP += v * hpPerConstitution
			actor.Heal(v * hpPerConstitution)
		}
	}
	actor.AttributePoints -= attrTotal

	if skillTotal > 0 {
		if actor.Skills == nil {
			actor.Skills = make(map[string]int)
		}
		for name, v := range args.Skills {
			actor.Skills[name] += v
		}
		actor.SkillPoints -= skillTotal
	}

	return []domain.Event{{
		Type:    domain.EventLevelUp,
		ActorID: actor.ID,
		Level:   actor.Level,
		Message: actor.Name + " распределяет очки развития.",
	}}
}

func knownAbility(name string) bool {
	switch name {
	case domain.AbilityStrength, domain.AbilityDexterity,
		domain.AbilityConstitution, domain.AbilityIntelligence:
		return true
	}
	return false
}

func levelUpError(actor *domain.Entity, msg string) []domain.Event {
	return []domain.Event{{
		Type:    domain.EventError,
		ActorID: actor.ID,
		Message: msg,
	}}
}
