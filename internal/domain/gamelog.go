package domain

// GameConfig - конфигурация партии. Персистентна: движок хоста можно
// целиком пересоздать из нее (плюс журнал действий).
type GameConfig struct {
	DungeonSeed uint32       `json:"dungeonSeed"`
	RNGSeed     uint32       `json:"rngSeed"`
	Players     []string     `json:"players"`
	Mods        []string     `json:"mods,omitempty"`
	MaxLevels   int          `json:"maxLevels,omitempty"`
	CustomLevel *CustomLevel `json:"customLevel,omitempty"`
}

func (c GameConfig) Clone() GameConfig {
	out := c
	if c.Players != nil {
		out.Players = make([]string, len(c.Players))
		copy(out.Players, c.Players)
	}
	if c.Mods != nil {
		out.Mods = make([]string, len(c.Mods))
		copy(out.Mods, c.Mods)
	}
	if c.CustomLevel != nil {
		cl := c.CustomLevel.Clone()
		out.CustomLevel = &cl
	}
	return out
}

// CustomLevel - сырой оверрайд уровня для quick-play и контента из
// редактора. Grid - строки тайлов: '#' стена, '.' пол, '+' дверь,
// '<' лестница вверх, '>' лестница вниз, 'X' выход.
type CustomLevel struct {
	Grid      []string      `json:"grid"`
	Entities  []CustomSpawn `json:"entities,omitempty"`
	Items     []GroundItem  `json:"items,omitempty"`
	SpawnHint *Position     `json:"spawnHint,omitempty"`
}

// CustomSpawn - размещение сущности в кастомном уровне.
type CustomSpawn struct {
	TemplateID string   `json:"templateId"`
	ID         string   `json:"id,omitempty"`
	Pos        Position `json:"pos"`
}

func (c CustomLevel) Clone() CustomLevel {
	out := c
	if c.Grid != nil {
		out.Grid = make([]string, len(c.Grid))
		copy(out.Grid, c.Grid)
	}
	if c.Entities != nil {
		out.Entities = make([]CustomSpawn, len(c.Entities))
		copy(out.Entities, c.Entities)
	}
	if c.Items != nil {
		out.Items = make([]GroundItem, len(c.Items))
		for i, g := range c.Items {
			out.Items[i] = g.Clone()
		}
	}
	if c.SpawnHint != nil {
		p := *c.SpawnHint
		out.SpawnHint = &p
	}
	return out
}

// LogMeta - метаданные сохраненной партии.
type LogMeta struct {
	GameID       string `json:"gameId"`
	GameName     string `json:"gameName"`
	CreatedAt    int64  `json:"createdAt"` // Unix milliseconds
	LastSaved    int64  `json:"lastSaved"`
	RulesVersion string `json:"rulesVersion"`
	CampaignID   string `json:"campaignId,omitempty"`
	NodeID       string `json:"nodeId,omitempty"`
}

// TurnRecord - одна запись журнала: действие и события, которые оно
// породило. SkipAI/SkipTurnAdvance фиксируют, с какими опциями хост
// применял действие (батчи одновременного режима подавляют AI и
// продвижение хода на всех действиях кроме последнего) - без этого
// реплей разошелся бы с живой партией.
type TurnRecord struct {
	Turn            int     `json:"turn"`
	Action          Action  `json:"action"`
	Events          []Event `json:"events"`
	Timestamp       int64   `json:"timestamp"`
	SkipAI          bool    `json:"skipAi,omitempty"`
	SkipTurnAdvance bool    `json:"skipTurnAdvance,omitempty"`
}

func (r TurnRecord) Clone() TurnRecord {
	out := r
	out.Action = r.Action.Clone()
	if r.Events != nil {
		out.Events = make([]Event, len(r.Events))
		copy(out.Events, r.Events)
	}
	return out
}

// GameLog - персистентная единица: метаданные, конфиг, лента действий и
// снапшот состояния. Владеет журналом исключительно движок хоста; движок
// реплея работает только с копией. Снапшот перезаписывается после каждого
// применённого действия и дает O(1)-восстановление вместо полного реплея.
type GameLog struct {
	Meta          LogMeta      `json:"meta"`
	Config        GameConfig   `json:"config"`
	Turns         []TurnRecord `json:"turns"`
	StateSnapshot *GameState   `json:"stateSnapshot,omitempty"`
}

func (l *GameLog) Clone() *GameLog {
	out := &GameLog{
		Meta:   l.Meta,
		Config: l.Config.Clone(),
	}
	if l.Turns != nil {
		out.Turns = make([]TurnRecord, len(l.Turns))
		for i, r := range l.Turns {
			out.Turns[i] = r.Clone()
		}
	}
	if l.StateSnapshot != nil {
		out.StateSnapshot = l.StateSnapshot.Clone()
	}
	return out
}
