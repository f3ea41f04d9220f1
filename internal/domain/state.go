package domain

// Level - предрассчитанный план одного уровня подземелья. Планы всех
// уровней генерируются один раз при старте партии, поэтому раскладка
// уровня N никогда не зависит от порядка посещения.
type Level struct {
	Grid       [][]Tile   `json:"grid"`
	StairsUp   *Position  `json:"stairsUp,omitempty"`
	StairsDown *Position  `json:"stairsDown,omitempty"`
	Exit       *Position  `json:"exit,omitempty"`
	Spawns     []Position `json:"spawns,omitempty"`
}

func (l Level) Clone() Level {
	out := Level{}
	out.Grid = cloneGrid(l.Grid)
	if l.StairsUp != nil {
		p := *l.StairsUp
		out.StairsUp = &p
	}
	if l.StairsDown != nil {
		p := *l.StairsDown
		out.StairsDown = &p
	}
	if l.Exit != nil {
		p := *l.Exit
		out.Exit = &p
	}
	if l.Spawns != nil {
		out.Spawns = make([]Position, len(l.Spawns))
		copy(out.Spawns, l.Spawns)
	}
	return out
}

func cloneGrid(grid [][]Tile) [][]Tile {
	if grid == nil {
		return nil
	}
	out := make([][]Tile, len(grid))
	for y, row := range grid {
		out[y] = make([]Tile, len(row))
		copy(out[y], row)
	}
	return out
}

// GameState - единственный канонический снимок партии. Сущности хранятся
// в порядке вставки, ID никогда не переиспользуются, пока состояние живо.
// Структура обязана точно переживать JSON round-trip: это одновременно
// и снапшот в журнале, и полное состояние в welcome-сообщении.
type GameState struct {
	Dungeon     [][]Tile     `json:"dungeon"`
	Levels      []Level      `json:"levels,omitempty"`
	Entities    []Entity     `json:"entities"`
	GroundItems []GroundItem `json:"groundItems"`

	Turn int    `json:"turn"`
	Seed uint32 `json:"seed"`

	CurrentLevel int              `json:"currentLevel"`
	MaxLevels    int              `json:"maxLevels"`
	LevelEnemies map[int][]Entity `json:"levelEnemies,omitempty"`

	VictoryAchieved bool `json:"victoryAchieved"`
}

// Width возвращает ширину текущего уровня.
func (s *GameState) Width() int {
	if len(s.Dungeon) == 0 {
		return 0
	}
	return len(s.Dungeon[0])
}

// Height возвращает высоту текущего уровня.
func (s *GameState) Height() int {
	return len(s.Dungeon)
}

// InBounds проверяет границы карты.
func (s *GameState) InBounds(p Position) bool {
	return p.Y >= 0 && p.Y < s.Height() && p.X >= 0 && p.X < s.Width()
}

// TileAt возвращает клетку (нулевая стена за границами).
func (s *GameState) TileAt(p Position) Tile {
	if !s.InBounds(p) {
		return Tile{Type: TileWall}
	}
	return s.Dungeon[p.Y][p.X]
}

// Entity возвращает указатель на сущность по ID (nil, если нет).
// Указатель смотрит внутрь слайса состояния - валиден до следующей мутации.
func (s *GameState) Entity(id string) *Entity {
	for i := range s.Entities {
		if s.Entities[i].ID == id {
			return &s.Entities[i]
		}
	}
	return nil
}

// LivingEntityAt возвращает живую сущность в клетке (nil, если пусто).
func (s *GameState) LivingEntityAt(p Position) *Entity {
	for i := range s.Entities {
		e := &s.Entities[i]
		if e.Alive() && e.Pos == p {
			return e
		}
	}
	return nil
}

// Passable сообщает, может ли сущность встать в клетку.
func (s *GameState) Passable(p Position) bool {
	return s.InBounds(p) && s.TileAt(p).Walkable() && s.LivingEntityAt(p) == nil
}

// GroundItemsAt возвращает индексы предметов на полу в клетке
// в порядке вставки.
func (s *GameState) GroundItemsAt(p Position) []int {
	var idxs []int
	for i := range s.GroundItems {
		if s.GroundItems[i].Pos == p {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// RemoveGroundItem удаляет предмет с пола по ID.
func (s *GameState) RemoveGroundItem(id string) (GroundItem, bool) {
	for i := range s.GroundItems {
		if s.GroundItems[i].ID == id {
			g := s.GroundItems[i]
			s.GroundItems = append(s.GroundItems[:i], s.GroundItems[i+1:]...)
			return g, true
		}
	}
	return GroundItem{}, false
}

// PurgeDead вычищает все сущности с hp <= 0. Вызывается в конце каждого
// резолва: трупы никогда не задерживаются в состоянии.
func (s *GameState) PurgeDead() {
	kept := s.Entities[:0]
	for _, e := range s.Entities {
		if e.Alive() {
			kept = append(kept, e)
		}
	}
	s.Entities = kept
}

// LivingPlayers возвращает ID живых человеческих игроков
// (тип player, без префикса ботов).
func (s *GameState) LivingPlayers() []string {
	var out []string
	for i := range s.Entities {
		e := &s.Entities[i]
		if e.Type == EntityTypePlayer && e.Alive() && !isBotID(e.ID) {
			out = append(out, e.ID)
		}
	}
	return out
}

func isBotID(id string) bool {
	return len(id) >= len(AIPrefix) && id[:len(AIPrefix)] == AIPrefix
}

// Clone возвращает глубокую структурную копию состояния. Контракт:
// никакого алиасинга между оригиналом и копией, на любом уровне вложенности.
func (s *GameState) Clone() *GameState {
	out := &GameState{
		Dungeon:         cloneGrid(s.Dungeon),
		Turn:            s.Turn,
		Seed:            s.Seed,
		CurrentLevel:    s.CurrentLevel,
		MaxLevels:       s.MaxLevels,
		VictoryAchieved: s.VictoryAchieved,
	}
	if s.Levels != nil {
		out.Levels = make([]Level, len(s.Levels))
		for i, l := range s.Levels {
			out.Levels[i] = l.Clone()
		}
	}
	if s.Entities != nil {
		out.Entities = make([]Entity, len(s.Entities))
		for i, e := range s.Entities {
			out.Entities[i] = e.Clone()
		}
	}
	if s.GroundItems != nil {
		out.GroundItems = make([]GroundItem, len(s.GroundItems))
		for i, g := range s.GroundItems {
			out.GroundItems[i] = g.Clone()
		}
	}
	if s.LevelEnemies != nil {
		out.LevelEnemies = make(map[int][]Entity, len(s.LevelEnemies))
		for lvl, enemies := range s.LevelEnemies {
			copied := make([]Entity, len(enemies))
			for i, e := range enemies {
				copied[i] = e.Clone()
			}
			out.LevelEnemies[lvl] = copied
		}
	}
	return out
}
