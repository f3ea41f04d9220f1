package content

import (
	"fmt"
	"sort"
	"strings"

	"emberdelve-server/internal/domain"
)

// Manifest - краткое описание единицы контента для клиентов и редакторов.
type Manifest struct {
	ID   string `json:"id"`
	Kind string `json:"kind"` // "entity" | "item"
	Name string `json:"name"`
}

// Registry резолвит шаблонные ID вида "namespace:kind" в конкретные
// определения. Все lookups обязаны быть чистыми: резолвер хода опирается
// на то, что одинаковый запрос всегда дает одинаковый ответ.
type Registry interface {
	// CreateEntity материализует сущность из шаблона. nil, если шаблон
	// неизвестен (вызывающий подставляет дефолтный статблок).
	CreateEntity(templateID, instanceID string, pos domain.Position) *domain.Entity
	// Item возвращает определение предмета (nil, если неизвестен).
	Item(templateID string) *domain.Item
	// Manifests перечисляет весь контент в детерминированном порядке.
	Manifests() []Manifest
	// StatDefs возвращает активные стат-определения.
	StatDefs() []StatDef
	// Effectiveness возвращает бонус урона оружия против типа брони.
	Effectiveness(weaponType, armorType string) int
}

// EntityTemplate - заготовка сущности в реестре.
type EntityTemplate struct {
	Name       string
	Type       string
	HP         int
	Attack     int
	Defense    int
	Abilities  domain.Abilities
	Vision     int
	Capacity   int
	AIBehavior string
	XPValue    int
	Items      []string // стартовые предметы (template IDs)
}

// BuiltinRegistry - встроенный контент ядра (namespace "core").
type BuiltinRegistry struct {
	entities      map[string]EntityTemplate
	items         map[string]domain.Item
	statDefs      []StatDef
	effectiveness map[string]map[string]int
}

// NewRegistry создает реестр со встроенным контентом.
func NewRegistry() *BuiltinRegistry {
	return &BuiltinRegistry{
		entities:      coreEntities(),
		items:         coreItems(),
		statDefs:      coreStatDefs(),
		effectiveness: coreEffectiveness(),
	}
}

// CreateEntity материализует сущность. Стартовые предметы получают
// детерминированные ID, производные от instanceID, - реплей и живая
// партия обязаны раздать одни и те же ID.
func (r *BuiltinRegistry) CreateEntity(templateID, instanceID string, pos domain.Position) *domain.Entity {
	tpl, ok := r.entities[templateID]
	if !ok {
		return nil
	}

	e := &domain.Entity{
		ID:         instanceID,
		Type:       tpl.Type,
		TemplateID: templateID,
		Name:       tpl.Name,
		Pos:        pos,
		HP:         tpl.HP,
		MaxHP:      tpl.HP,
		Attack:     tpl.Attack,
		Defense:    tpl.Defense,
		Abilities:  tpl.Abilities,
		Level:      1,
		Vision:     domain.Vision{Radius: tpl.Vision},
		AIBehavior: tpl.AIBehavior,
		XPValue:    tpl.XPValue,
		Inventory:  domain.Inventory{Capacity: tpl.Capacity},
	}

	for i, itemTpl := range tpl.Items {
		item := r.Item(itemTpl)
		if item == nil {
			continue
		}
		inst := item.Clone()
		inst.ID = fmt.Sprintf("%s-item-%d", instanceID, i)
		e.Inventory.Slots = append(e.Inventory.Slots, inst)
	}
	return e
}

func (r *BuiltinRegistry) Item(templateID string) *domain.Item {
	item, ok := r.items[templateID]
	if !ok {
		return nil
	}
	clone := item.Clone()
	return &clone
}

func (r *BuiltinRegistry) Manifests() []Manifest {
	out := make([]Manifest, 0, len(r.entities)+len(r.items))
	for id, tpl := range r.entities {
		out = append(out, Manifest{ID: id, Kind: "entity", Name: tpl.Name})
	}
	for id, item := range r.items {
		out = append(out, Manifest{ID: id, Kind: "item", Name: item.Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *BuiltinRegistry) StatDefs() []StatDef {
	return r.statDefs
}

func (r *BuiltinRegistry) Effectiveness(weaponType, armorType string) int {
	if m, ok := r.effectiveness[weaponType]; ok {
		return m[armorType]
	}
	return 0
}

// DefaultTemplateID возвращает шаблон по умолчанию для join:
// боты получают гоблина, люди - героя.
func DefaultTemplateID(actorID string) string {
	if strings.HasPrefix(actorID, domain.AIPrefix) {
		return "core:goblin"
	}
	return "core:player"
}

// FallbackEntity - жестко зашитый статблок на случай отсутствия
// реестра или неизвестного шаблона: join деградирует, а не падает.
func FallbackEntity(instanceID string, pos domain.Position) domain.Entity {
	typ := domain.EntityTypePlayer
	name := "Странник"
	if strings.HasPrefix(instanceID, domain.AIPrefix) {
		typ = domain.EntityTypeEnemy
		name = "Гоблин"
	}
	return domain.Entity{
		ID:    instanceID,
		Type:  typ,
		Name:  name,
		Pos:   pos,
		HP:    20,
		MaxHP: 20,
		Attack:  4,
		Defense: 0,
		Abilities: domain.Abilities{
			Strength: 4, Dexterity: 3, Constitution: 4, Intelligence: 2,
		},
		Level:     1,
		Vision:    domain.Vision{Radius: 8},
		Inventory: domain.Inventory{Capacity: 10},
	}
}
