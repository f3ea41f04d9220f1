package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"emberdelve-server/internal/content"
	"emberdelve-server/internal/domain"
	"emberdelve-server/internal/resolver"
	"emberdelve-server/internal/version"
	"emberdelve-server/pkg/dungeon"
	"emberdelve-server/pkg/logger"
)

// Host - авторитетный движок партии. Единственный владелец состояния и
// журнала: все действия пиров проходят через него, он перезаписывает
// actorId проверенной личностью, гоняет AI и ведет журнал. Сам движок
// не потокобезопасен по дизайну - всю сериализацию вызовов делает
// игровой цикл сервера; мьютекс ниже страхует только доступ к снимкам.
type Host struct {
	mu sync.Mutex

	reg content.Registry
	res *resolver.Resolver

	state *domain.GameState
	log   *domain.GameLog

	// Женитьба сессий: playerID -> подключен ли сейчас
	connected map[string]bool

	everJoined bool
	defeated   bool
}

// Options управляют применением одного действия.
type Options struct {
	// SkipAI подавляет раунд AI после действия (батчи одновременного режима)
	SkipAI bool
	// SkipTurnAdvance подавляет продвижение счетчика хода
	SkipTurnAdvance bool
	// Replaying отключает запись в журнал (движок реплея применяет
	// уже записанные действия)
	Replaying bool
}

// Delta - результат применения одного действия: что случилось и каким
// стало состояние. Рассылается всем подключенным пирам.
type Delta struct {
	Turn   int
	Action domain.Action
	Events []domain.Event
	State  *domain.GameState
}

// NewHost создает движок новой партии из конфигурации.
func NewHost(cfg domain.GameConfig, reg content.Registry) *Host {
	h := &Host{
		reg:       reg,
		res:       resolver.New(reg),
		connected: make(map[string]bool),
		state:     buildInitialState(cfg, reg),
		log: &domain.GameLog{
			Meta: domain.LogMeta{
				GameID:       uuid.NewString(),
				CreatedAt:    time.Now().UnixMilli(),
				RulesVersion: version.RulesVersion,
			},
			Config: cfg.Clone(),
		},
	}

	logger.Log.WithFields(logrus.Fields{
		"component":    "host",
		"game_id":      h.log.Meta.GameID,
		"dungeon_seed": cfg.DungeonSeed,
		"rng_seed":     cfg.RNGSeed,
		"max_levels":   h.state.MaxLevels,
	}).Info("Host engine created.")

	// Игроки из конфига входят сразу, до первого подключения
	for _, playerID := range cfg.Players {
		if _, err := h.ProcessAction(playerID, domain.Action{Type: domain.ActionJoin}, Options{
			SkipAI:          true,
			SkipTurnAdvance: true,
		}); err != nil {
			logger.Log.WithFields(logrus.Fields{
				"component": "host",
				"player_id": playerID,
			}).WithError(err).Warn("Preconfigured player failed to join.")
		}
	}
	return h
}

// FromLog восстанавливает движок из сохраненного журнала. Снапшот в
// журнале дает мгновенное восстановление; без него партия пересобирается
// реплеем всех записанных действий.
func FromLog(gameLog *domain.GameLog, reg content.Registry) (*Host, error) {
	if gameLog == nil {
		return nil, fmt.Errorf("game log is nil")
	}

	h := &Host{
		reg:       reg,
		res:       resolver.New(reg),
		connected: make(map[string]bool),
		log:       gameLog.Clone(),
	}

	if gameLog.StateSnapshot != nil {
		h.state = gameLog.StateSnapshot.Clone()
		for _, rec := range gameLog.Turns {
			if rec.Action.Type == domain.ActionJoin {
				h.everJoined = true
				break
			}
		}
		h.defeated = h.everJoined && len(h.state.LivingPlayers()) == 0
		logger.Log.WithFields(logrus.Fields{
			"component": "host",
			"game_id":   gameLog.Meta.GameID,
			"turn":      h.state.Turn,
		}).Info("Host restored from snapshot.")
		return h, nil
	}

	// Реплей с нуля: начальное состояние из конфига, затем записанные
	// действия с теми же опциями, с которыми их применяла живая партия
	h.state = buildInitialState(gameLog.Config, reg)
	for i, rec := range gameLog.Turns {
		if _, err := h.ProcessAction(rec.Action.ActorID, rec.Action, Options{
			SkipAI:          rec.SkipAI,
			SkipTurnAdvance: rec.SkipTurnAdvance,
			Replaying:       true,
		}); err != nil {
			return nil, fmt.Errorf("replay turn %d (record %d): %w", rec.Turn, i, err)
		}
	}
	h.log.StateSnapshot = h.state.Clone()
	logger.Log.WithFields(logrus.Fields{
		"component": "host",
		"game_id":   gameLog.Meta.GameID,
		"records":   len(gameLog.Turns),
		"turn":      h.state.Turn,
	}).Info("Host rebuilt by replaying the log.")
	return h, nil
}

// buildInitialState строит стартовое состояние партии: либо кастомный
// уровень из конфига, либо полная генерация подземелья от сида.
func buildInitialState(cfg domain.GameConfig, reg content.Registry) *domain.GameState {
	state := &domain.GameState{
		Seed:         cfg.RNGSeed,
		GroundItems:  []domain.GroundItem{},
		Entities:     []domain.Entity{},
		LevelEnemies: map[int][]domain.Entity{},
	}

	if cfg.CustomLevel != nil {
		lvl, enemies := dungeon.FromCustom(*cfg.CustomLevel, reg)
		state.Levels = []domain.Level{lvl}
		state.Dungeon = lvl.Clone().Grid
		state.MaxLevels = 1
		state.Entities = append(state.Entities, enemies...)
		for _, g := range cfg.CustomLevel.Items {
			state.GroundItems = append(state.GroundItems, g.Clone())
		}
		return state
	}

	maxLevels := cfg.MaxLevels
	if maxLevels <= 0 {
		maxLevels = dungeon.DefaultLevels
	}
	levels, rosters := dungeon.Generate(cfg.DungeonSeed, dungeon.Params{Levels: maxLevels}, reg)
	state.Levels = levels
	state.Dungeon = levels[0].Clone().Grid
	state.MaxLevels = maxLevels
	state.Entities = append(state.Entities, rosters[0]...)
	for depth := 1; depth < maxLevels; depth++ {
		state.LevelEnemies[depth] = rosters[depth]
	}
	return state
}

// Connect женит сессию на сущности. Для нового playerID применяется join;
// переподключение возвращает управление существующей сущностью, не меняя
// состояния. В обоих случаях возвращается дельта со spawned-событием для
// рассылки остальным пирам; при переподключении она синтетическая - в
// журнал ничего не пишется.
func (h *Host) Connect(playerID string) (*Delta, error) {
	if e := h.state.Entity(playerID); e != nil {
		h.mu.Lock()
		h.connected[playerID] = true
		h.mu.Unlock()
		logger.Log.WithFields(logrus.Fields{
			"component": "host",
			"player_id": playerID,
		}).Info("Player reclaimed existing entity.")
		p := e.Pos
		return &Delta{
			Turn:   h.state.Turn,
			Action: domain.Action{Type: domain.ActionJoin, ActorID: playerID},
			Events: []domain.Event{{
				Type:    domain.EventSpawned,
				ActorID: playerID,
				Pos:     &p,
				Message: e.Name + " возвращается в подземелье.",
			}},
			State: h.state.Clone(),
		}, nil
	}

	delta, err := h.ProcessAction(playerID, domain.Action{Type: domain.ActionJoin}, Options{
		SkipAI:          true,
		SkipTurnAdvance: true,
	})
	if err != nil {
		return nil, err
	}
	h.mu.Lock()
	h.connected[playerID] = true
	h.mu.Unlock()
	return delta, nil
}

// Disconnect помечает сессию отключенной. Сущность остается в партии.
func (h *Host) Disconnect(playerID string) {
	h.mu.Lock()
	delete(h.connected, playerID)
	h.mu.Unlock()
}

// ConnectedIDs возвращает ID подключенных сейчас игроков.
func (h *Host) ConnectedIDs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.connected))
	for id := range h.connected {
		out = append(out, id)
	}
	return out
}

// State возвращает глубокую копию текущего состояния.
func (h *Host) State() *domain.GameState {
	return h.state.Clone()
}

// Log возвращает глубокую копию журнала партии.
func (h *Host) Log() *domain.GameLog {
	return h.log.Clone()
}

// Manifests перечисляет контент, на котором собрана партия.
func (h *Host) Manifests() []content.Manifest {
	return h.reg.Manifests()
}

// Meta возвращает метаданные партии.
func (h *Host) Meta() domain.LogMeta {
	return h.log.Meta
}

// SetName задает человекочитаемое имя партии.
func (h *Host) SetName(name string) {
	h.log.Meta.GameName = name
}
