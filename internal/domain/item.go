package domain

// Item - полностью денормализованный предмет. Все характеристики лежат
// прямо в предмете, поэтому он остается рабочим, даже когда оторван от
// реестра контента (выброшен на пол, сохранен в журнале, передан клиенту).
type Item struct {
	ID         string `json:"id"`
	TemplateID string `json:"templateId,omitempty"`
	Name       string `json:"name"`
	Icon       string `json:"icon,omitempty"`
	Category   string `json:"category"`

	// Оружие
	Damage     int    `json:"damage,omitempty"`
	WeaponType string `json:"weaponType,omitempty"`

	// Броня
	Defense   int    `json:"defense,omitempty"`
	ArmorType string `json:"armorType,omitempty"`

	// Статовые бонусы ("attack", "defense", "maxHp", "lifesteal" в процентах)
	Bonuses map[string]int `json:"bonuses,omitempty"`

	// Расходники
	Effect      string `json:"effect,omitempty"` // "heal"
	EffectValue int    `json:"effectValue,omitempty"`

	Quantity int `json:"quantity,omitempty"`
}

// Bonus возвращает статовый бонус предмета (0, если не задан).
func (i Item) Bonus(stat string) int {
	if i.Bonuses == nil {
		return 0
	}
	return i.Bonuses[stat]
}

// Clone возвращает глубокую копию предмета.
func (i Item) Clone() Item {
	out := i
	if i.Bonuses != nil {
		out.Bonuses = make(map[string]int, len(i.Bonuses))
		for k, v := range i.Bonuses {
			out.Bonuses[k] = v
		}
	}
	return out
}

// GroundItem - предмет, лежащий на полу. ID совпадает с ID самого
// предмета: предметы получают уникальные ID при создании, и ID никогда
// не переиспользуются, пока состояние живо.
type GroundItem struct {
	ID       string   `json:"id"`
	Pos      Position `json:"pos"`
	Item     Item     `json:"item"`
	Quantity int      `json:"quantity"`
}

func (g GroundItem) Clone() GroundItem {
	out := g
	out.Item = g.Item.Clone()
	return out
}
