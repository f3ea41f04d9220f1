package domain

// Abilities - базовые характеристики
type Abilities struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
}

// Get возвращает характеристику по имени (0 для неизвестных).
func (a Abilities) Get(name string) int {
	switch name {
	case AbilityStrength:
		return a.Strength
	case AbilityDexterity:
		return a.Dexterity
	case AbilityConstitution:
		return a.Constitution
	case AbilityIntelligence:
		return a.Intelligence
	}
	return 0
}

// Add прибавляет к характеристике по имени.
func (a *Abilities) Add(name string, v int) {
	switch name {
	case AbilityStrength:
		a.Strength += v
	case AbilityDexterity:
		a.Dexterity += v
	case AbilityConstitution:
		a.Constitution += v
	case AbilityIntelligence:
		a.Intelligence += v
	}
}

// StatusEffect - временный эффект на сущности (пока только stunned).
type StatusEffect struct {
	Type     string `json:"type"`
	Duration int    `json:"duration"`
}

// Inventory - рюкзак фиксированной вместимости.
type Inventory struct {
	Capacity int    `json:"capacity"`
	Slots    []Item `json:"slots"`
}

// Full сообщает, есть ли еще место.
func (inv Inventory) Full() bool {
	return len(inv.Slots) >= inv.Capacity
}

// Vision - профиль зрения (радиус обзора для перцепции AI и тумана войны).
type Vision struct {
	Radius int `json:"radius"`
}

// Entity - игрок или враг. Инвариант: hp <= 0 не переживает резолв хода,
// трупы вычищаются из состояния в конце каждого ResolveTurn.
type Entity struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	TemplateID string `json:"templateId,omitempty"`
	Name       string `json:"name,omitempty"`

	Pos Position `json:"pos"`

	// Боевые статы
	HP        int       `json:"hp"`
	MaxHP     int       `json:"maxHp"`
	Attack    int       `json:"attack"`
	Defense   int       `json:"defense"`
	Abilities Abilities `json:"abilities"`

	// Прогрессия
	XP              int            `json:"xp"`
	Level           int            `json:"level"`
	AttributePoints int            `json:"attributePoints"`
	SkillPoints     int            `json:"skillPoints"`
	Skills          map[string]int `json:"skills,omitempty"`

	Inventory Inventory       `json:"inventory"`
	Equipment map[string]Item `json:"equipment,omitempty"`

	Vision Vision `json:"vision"`

	AIBehavior string         `json:"aiBehavior,omitempty"`
	Status     []StatusEffect `json:"status,omitempty"`

	// Явный override награды за убийство (иначе считается по формуле)
	XPValue int `json:"xpValue,omitempty"`
}

// Alive сообщает, жива ли сущность.
func (e *Entity) Alive() bool {
	return e.HP > 0
}

// HasStatus проверяет активный статус-эффект.
func (e *Entity) HasStatus(status string) bool {
	for _, s := range e.Status {
		if s.Type == status && s.Duration > 0 {
			return true
		}
	}
	return false
}

// TickStatus уменьшает длительности и выбрасывает истекшие эффекты.
func (e *Entity) TickStatus() {
	if len(e.Status) == 0 {
		return
	}
	kept := e.Status[:0]
	for _, s := range e.Status {
		s.Duration--
		if s.Duration > 0 {
			kept = append(kept, s)
		}
	}
	e.Status = kept
	if len(e.Status) == 0 {
		e.Status = nil
	}
}

// Heal лечит с ограничением по максимуму.
func (e *Entity) Heal(amount int) {
	if amount <= 0 {
		return
	}
	e.HP += amount
	if e.HP > e.MaxHP {
		e.HP = e.MaxHP
	}
}

// Equipped возвращает предмет в слоте экипировки.
func (e *Entity) Equipped(slot string) (Item, bool) {
	if e.Equipment == nil {
		return Item{}, false
	}
	it, ok := e.Equipment[slot]
	return it, ok
}

// Clone возвращает глубокую копию сущности.
func (e Entity) Clone() Entity {
	out := e
	if e.Skills != nil {
		out.Skills = make(map[string]int, len(e.Skills))
		for k, v := range e.Skills {
			out.Skills[k] = v
		}
	}
	if e.Inventory.Slots != nil {
		out.Inventory.Slots = make([]Item, len(e.Inventory.Slots))
		for i, it := range e.Inventory.Slots {
			out.Inventory.Slots[i] = it.Clone()
		}
	}
	if e.Equipment != nil {
		out.Equipment = make(map[string]Item, len(e.Equipment))
		for k, v := range e.Equipment {
			out.Equipment[k] = v.Clone()
		}
	}
	if e.Status != nil {
		out.Status = make([]StatusEffect, len(e.Status))
		copy(out.Status, e.Status)
	}
	return out
}
