package content

import "emberdelve-server/internal/domain"

// Встроенный контент ядра. Все числа - часть правил игры: менять их
// между версиями можно только вместе с rulesVersion в журнале.

func coreEntities() map[string]EntityTemplate {
	return map[string]EntityTemplate{
		"core:player": {
			Name:    "Герой",
			Type:    domain.EntityTypePlayer,
			HP:      30,
			Attack:  5,
			Defense: 1,
			Abilities: domain.Abilities{
				Strength: 6, Dexterity: 4, Constitution: 5, Intelligence: 3,
			},
			Vision:   8,
			Capacity: 10,
			Items:    []string{"core:dagger", "core:potion"},
		},
		"core:goblin": {
			Name:    "Гоблин",
			Type:    domain.EntityTypeEnemy,
			HP:      10,
			Attack:  3,
			Defense: 0,
			Abilities: domain.Abilities{
				Strength: 3, Dexterity: 4, Constitution: 2, Intelligence: 1,
			},
			Vision:     7,
			Capacity:   4,
			AIBehavior: "hunt",
		},
		"core:orc": {
			Name:    "Орк",
			Type:    domain.EntityTypeEnemy,
			HP:      18,
			Attack:  5,
			Defense: 1,
			Abilities: domain.Abilities{
				Strength: 6, Dexterity: 2, Constitution: 5, Intelligence: 1,
			},
			Vision:     7,
			Capacity:   4,
			AIBehavior: "hunt",
		},
		"core:skeleton": {
			Name:    "Скелет",
			Type:    domain.EntityTypeEnemy,
			HP:      12,
			Attack:  4,
			Defense: 2,
			Abilities: domain.Abilities{
				Strength: 4, Dexterity: 3, Constitution: 1, Intelligence: 1,
			},
			Vision:     9,
			Capacity:   2,
			AIBehavior: "hunt",
			XPValue:    25,
		},
	}
}

func coreItems() map[string]domain.Item {
	return map[string]domain.Item{
		"core:dagger": {
			TemplateID: "core:dagger",
			Name:       "Кинжал",
			Icon:       "dagger",
			Category:   domain.ItemCategoryWeapon,
			Damage:     3,
			WeaponType: domain.WeaponPierce,
		},
		"core:sword": {
			TemplateID: "core:sword",
			Name:       "Меч",
			Icon:       "sword",
			Category:   domain.ItemCategoryWeapon,
			Damage:     5,
			WeaponType: domain.WeaponSlash,
		},
		"core:club": {
			TemplateID: "core:club",
			Name:       "Дубина",
			Icon:       "club",
			Category:   domain.ItemCategoryWeapon,
			Damage:     4,
			WeaponType: domain.WeaponBlunt,
		},
		"core:vampiric_blade": {
			TemplateID: "core:vampiric_blade",
			Name:       "Вампирский клинок",
			Icon:       "vampiric-blade",
			Category:   domain.ItemCategoryWeapon,
			Damage:     4,
			WeaponType: domain.WeaponSlash,
			Bonuses:    map[string]int{"lifesteal": 25},
		},
		"core:leather_armor": {
			TemplateID: "core:leather_armor",
			Name:       "Кожаный доспех",
			Icon:       "leather-armor",
			Category:   domain.ItemCategoryArmor,
			Defense:    2,
			ArmorType:  domain.ArmorLeather,
		},
		"core:plate_armor": {
			TemplateID: "core:plate_armor",
			Name:       "Латный доспех",
			Icon:       "plate-armor",
			Category:   domain.ItemCategoryArmor,
			Defense:    4,
			ArmorType:  domain.ArmorPlate,
		},
		"core:potion": {
			TemplateID:  "core:potion",
			Name:        "Зелье лечения",
			Icon:        "potion",
			Category:    domain.ItemCategoryConsumable,
			Effect:      "heal",
			EffectValue: 10,
		},
		"core:elixir": {
			TemplateID:  "core:elixir",
			Name:        "Большой эликсир",
			Icon:        "elixir",
			Category:    domain.ItemCategoryConsumable,
			Effect:      "heal",
			EffectValue: 25,
		},
	}
}

func coreStatDefs() []StatDef {
	return []StatDef{
		// Сила добавляет к урону str/2 (с округлением вниз)
		{
			ID:      "core:strength_strike",
			Trigger: TriggerAttackMod,
			Op:      OpFloorDiv,
			Operand: 2,
			Source:  "strength",
			Target:  "bonus",
		},
		// Критический удар: 10% шанс удвоить урон
		{
			ID:      "core:critical_hit",
			Trigger: TriggerChanceOnAttack,
			Chance:  10,
			Op:      OpMultiply,
			Operand: 2,
			Source:  "damage",
			Target:  "damage",
		},
		// Уворот: шанс равен ловкости защитника, урон обнуляется
		{
			ID:            "core:dodge",
			Trigger:       TriggerChanceOnDefend,
			ChanceAbility: domain.AbilityDexterity,
			Op:            OpMultiply,
			Operand:       0,
			Source:        "damage",
			Target:        "damage",
		},
	}
}

// Бонус эффективности оружия против брони: щели в латах пробиваются
// дробящим, кожа режется, ткань колется.
func coreEffectiveness() map[string]map[string]int {
	return map[string]map[string]int{
		domain.WeaponSlash:  {domain.ArmorLeather: 2, domain.ArmorCloth: 1},
		domain.WeaponPierce: {domain.ArmorCloth: 2, domain.ArmorLeather: 1},
		domain.WeaponBlunt:  {domain.ArmorPlate: 2},
	}
}
