package domain

// Типы сущностей
const (
	EntityTypePlayer = "player"
	EntityTypeEnemy  = "enemy"
)

// AIPrefix - префикс идентификатора, по которому хост отличает
// бот-игроков от людей.
const AIPrefix = "ai-"

// TileType - тип клетки подземелья
type TileType string

const (
	TileFloor      TileType = "floor"
	TileWall       TileType = "wall"
	TileDoor       TileType = "door"
	TileStairsUp   TileType = "stairs_up"
	TileStairsDown TileType = "stairs_down"
	TileExit       TileType = "exit"
)

// Tile - одна клетка карты
type Tile struct {
	Type TileType `json:"type"`
	Seen bool     `json:"seen"`
}

// Walkable сообщает, можно ли стоять на клетке (сущности проверяются отдельно).
func (t Tile) Walkable() bool {
	return t.Type != TileWall
}

// Слоты экипировки
const (
	SlotWeapon = "weapon"
	SlotArmor  = "armor"
)

// Категории предметов
const (
	ItemCategoryWeapon     = "weapon"
	ItemCategoryArmor      = "armor"
	ItemCategoryConsumable = "consumable"
	ItemCategoryMisc       = "misc"
)

// Типы оружия и брони (для таблицы эффективности)
const (
	WeaponSlash  = "slash"
	WeaponPierce = "pierce"
	WeaponBlunt  = "blunt"

	ArmorCloth   = "cloth"
	ArmorLeather = "leather"
	ArmorPlate   = "plate"
)

// Статус-эффекты
const (
	StatusStunned = "stunned"
)

// Имена характеристик (ключи распределения очков при level_up)
const (
	AbilityStrength     = "strength"
	AbilityDexterity    = "dexterity"
	AbilityConstitution = "constitution"
	AbilityIntelligence = "intelligence"
)
