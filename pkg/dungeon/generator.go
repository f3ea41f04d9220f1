package dungeon

import (
	"fmt"

	"emberdelve-server/internal/content"
	"emberdelve-server/internal/domain"
	"emberdelve-server/pkg/rng"
)

// Константы генерации
const (
	DefaultWidth  = 40
	DefaultHeight = 25
	DefaultLevels = 3
	MaxRooms      = 8
	MinSize       = 4
	MaxSize       = 10
)

// Params - параметры генерации подземелья.
type Params struct {
	Levels int
	Width  int
	Height int
}

func (p Params) withDefaults() Params {
	if p.Levels <= 0 {
		p.Levels = DefaultLevels
	}
	if p.Width <= 0 {
		p.Width = DefaultWidth
	}
	if p.Height <= 0 {
		p.Height = DefaultHeight
	}
	return p
}

// Rect - Вспомогательная структура для комнаты
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.W && r.X+r.W >= other.X &&
		r.Y <= other.Y+other.H && r.Y+r.H >= other.Y
}

// Generate строит все уровни подземелья сразу. Чистая функция сида:
// один и тот же seed всегда дает одни и те же планы уровней и одних и
// тех же врагов - на этом держится реплей и проверка детерминизма.
// Возвращает планы уровней и ростеры врагов по глубинам.
func Generate(seed uint32, p Params, reg content.Registry) ([]domain.Level, map[int][]domain.Entity) {
	p = p.withDefaults()
	src := rng.New(seed)

	levels := make([]domain.Level, p.Levels)
	rosters := make(map[int][]domain.Entity, p.Levels)

	for depth := 0; depth < p.Levels; depth++ {
		// Каждому уровню свой суб-сид, чтобы раскладка уровня N
		// не зависела от числа бросков на уровне N-1
		levelSeed := src.Next()
		lvl, enemies := generateLevel(levelSeed, p, reg, depth)
		levels[depth] = lvl
		rosters[depth] = enemies
	}
	Finalize(levels)
	return levels, rosters
}

func generateLevel(seed uint32, p Params, reg content.Registry, depth int) (domain.Level, []domain.Entity) {
	src := rng.New(seed)

	// 1. Заполняем стенами
	grid := make([][]domain.Tile, p.Height)
	for y := 0; y < p.Height; y++ {
		row := make([]domain.Tile, p.Width)
		for x := 0; x < p.Width; x++ {
			row[x] = domain.Tile{Type: domain.TileWall}
		}
		grid[y] = row
	}

	// 2. Генерируем комнаты
	var rooms []Rect
	for i := 0; i < MaxRooms; i++ {
		w := src.Range(MinSize, MaxSize)
		h := src.Range(MinSize, MaxSize)
		x := src.Range(1, p.Width-w-1)
		y := src.Range(1, p.Height-h-1)

		newRoom := Rect{X: x, Y: y, W: w, H: h}
		failed := false
		for _, other := range rooms {
			if newRoom.Intersects(other) {
				failed = true
				break
			}
		}
		if failed {
			continue
		}

		carveRoom(grid, newRoom)
		if len(rooms) > 0 {
			// Соединяем с предыдущей комнатой
			prevX, prevY := rooms[len(rooms)-1].Center()
			currX, currY := newRoom.Center()
			if src.IntN(2) == 0 {
				carveHCorridor(grid, prevX, currX, prevY)
				carveVCorridor(grid, prevY, currY, currX)
			} else {
				carveVCorridor(grid, prevY, currY, prevX)
				carveHCorridor(grid, prevX, currX, currY)
			}
		}
		rooms = append(rooms, newRoom)
	}

	lvl := domain.Level{Grid: grid}
	if len(rooms) == 0 {
		// Дегенеративный случай: ни одной комнаты не поместилось.
		// Вырезаем зал в центре, чтобы уровень оставался играбельным.
		fallback := Rect{X: p.Width/2 - 3, Y: p.Height/2 - 3, W: 6, H: 6}
		carveRoom(grid, fallback)
		rooms = append(rooms, fallback)
	}

	// 3. Точки спавна партии - первая комната
	fx, fy := rooms[0].Center()
	lvl.Spawns = spawnRing(grid, domain.Position{X: fx, Y: fy})

	// 4. Лестницы. Вверх - в первой комнате (кроме первого уровня),
	// вниз - в последней. На дне вместо спуска стоит выход.
	if depth > 0 {
		up := domain.Position{X: fx, Y: fy}
		grid[up.Y][up.X].Type = domain.TileStairsUp
		lvl.StairsUp = &up
	}
	lx, ly := rooms[len(rooms)-1].Center()
	exitPos := domain.Position{X: lx, Y: ly}
	if len(rooms) == 1 {
		exitPos = exitPos.Shift(1, 1)
	}
	// Маркер глубины ставит вызывающий через Finalize: генератор уровня
	// не знает, последний он или нет
	grid[exitPos.Y][exitPos.X].Type = domain.TileStairsDown
	lvl.StairsDown = &exitPos

	// 5. Враги - во всех комнатах кроме первой
	var enemies []domain.Entity
	for i := 1; i < len(rooms); i++ {
		if src.IntN(100) < 30 {
			continue
		}
		cx, cy := rooms[i].Center()
		pos := domain.Position{
			X: cx + src.Range(-1, 1),
			Y: cy + src.Range(-1, 1),
		}
		if !grid[pos.Y][pos.X].Walkable() {
			pos = domain.Position{X: cx, Y: cy}
		}

		tpl := pickEnemyTemplate(src, depth)
		id := fmt.Sprintf("%senemy-%d-%d", domain.AIPrefix, depth, i)
		e := reg.CreateEntity(tpl, id, pos)
		if e == nil {
			fb := content.FallbackEntity(id, pos)
			e = &fb
		}
		enemies = append(enemies, *e)
	}
	return lvl, enemies
}

func pickEnemyTemplate(src *rng.Source, depth int) string {
	roll := src.IntN(100)
	switch {
	case depth >= 2 && roll < 40:
		return "core:skeleton"
	case roll < 30+depth*20:
		return "core:orc"
	default:
		return "core:goblin"
	}
}

// Finalize превращает спуск последнего уровня в выход из подземелья.
func Finalize(levels []domain.Level) {
	if len(levels) == 0 {
		return
	}
	last := &levels[len(levels)-1]
	if last.StairsDown != nil {
		p := *last.StairsDown
		last.Grid[p.Y][p.X].Type = domain.TileExit
		last.Exit = &p
		last.StairsDown = nil
	}
}

// spawnRing собирает проходимые клетки вокруг центра для спавна партии.
func spawnRing(grid [][]domain.Tile, center domain.Position) []domain.Position {
	out := []domain.Position{center}
	offsets := []domain.Position{
		{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1},
		{X: 1, Y: 1}, {X: -1, Y: -1}, {X: 1, Y: -1}, {X: -1, Y: 1},
	}
	for _, off := range offsets {
		p := center.Shift(off.X, off.Y)
		if p.Y >= 0 && p.Y < len(grid) && p.X >= 0 && p.X < len(grid[p.Y]) &&
			grid[p.Y][p.X].Walkable() {
			out = append(out, p)
		}
	}
	return out
}

// --- Вспомогательные функции ---

func carveRoom(grid [][]domain.Tile, room Rect) {
	for y := room.Y + 1; y < room.Y+room.H; y++ {
		for x := room.X + 1; x < room.X+room.W; x++ {
			grid[y][x].Type = domain.TileFloor
		}
	}
}

func carveHCorridor(grid [][]domain.Tile, x1, x2, y int) {
	start := min(x1, x2)
	end := max(x1, x2)
	for x := start; x <= end; x++ {
		grid[y][x].Type = domain.TileFloor
	}
}

func carveVCorridor(grid [][]domain.Tile, y1, y2, x int) {
	start := min(y1, y2)
	end := max(y1, y2)
	for y := start; y <= end; y++ {
		grid[y][x].Type = domain.TileFloor
	}
}
