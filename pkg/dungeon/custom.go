package dungeon

import (
	"fmt"

	"emberdelve-server/internal/content"
	"emberdelve-server/internal/domain"
)

// FromCustom строит уровень из сырого оверрайда (quick-play, редактор).
// Легенда тайлов: '#' стена, '.' пол, '+' дверь, '<' лестница вверх,
// '>' лестница вниз, 'X' выход. Незнакомые символы считаются стеной.
func FromCustom(cl domain.CustomLevel, reg content.Registry) (domain.Level, []domain.Entity) {
	lvl := domain.Level{}
	width := 0
	for _, row := range cl.Grid {
		if len(row) > width {
			width = len(row)
		}
	}

	lvl.Grid = make([][]domain.Tile, len(cl.Grid))
	for y, row := range cl.Grid {
		tiles := make([]domain.Tile, width)
		for x := range tiles {
			tiles[x] = domain.Tile{Type: domain.TileWall}
		}
		for x, ch := range []byte(row) {
			p := domain.Position{X: x, Y: y}
			switch ch {
			case '.':
				tiles[x].Type = domain.TileFloor
			case '+':
				tiles[x].Type = domain.TileDoor
			case '<':
				tiles[x].Type = domain.TileStairsUp
				up := p
				lvl.StairsUp = &up
			case '>':
				tiles[x].Type = domain.TileStairsDown
				down := p
				lvl.StairsDown = &down
			case 'X':
				tiles[x].Type = domain.TileExit
				exit := p
				lvl.Exit = &exit
			}
		}
		lvl.Grid[y] = tiles
	}

	if cl.SpawnHint != nil {
		lvl.Spawns = spawnRing(lvl.Grid, *cl.SpawnHint)
	} else {
		// Первая проходимая клетка как дефолтная точка спавна
	scan:
		for y := range lvl.Grid {
			for x := range lvl.Grid[y] {
				if lvl.Grid[y][x].Type == domain.TileFloor {
					lvl.Spawns = spawnRing(lvl.Grid, domain.Position{X: x, Y: y})
					break scan
				}
			}
		}
	}

	var enemies []domain.Entity
	for i, spawn := range cl.Entities {
		id := spawn.ID
		if id == "" {
			id = fmt.Sprintf("%senemy-custom-%d", domain.AIPrefix, i)
		}
		e := reg.CreateEntity(spawn.TemplateID, id, spawn.Pos)
		if e == nil {
			fb := content.FallbackEntity(id, spawn.Pos)
			e = &fb
		}
		enemies = append(enemies, *e)
	}
	return lvl, enemies
}
