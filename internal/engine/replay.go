package engine

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"emberdelve-server/internal/content"
	"emberdelve-server/internal/domain"
	"emberdelve-server/internal/resolver"
	"emberdelve-server/pkg/logger"
)

// DefaultCheckpointInterval - шаг кэша контрольных точек реплея.
const DefaultCheckpointInterval = 50

// TurnFailure - одна невоспроизведенная запись журнала.
type TurnFailure struct {
	Record int    `json:"record"`
	Turn   int    `json:"turn"`
	Reason string `json:"reason"`
}

// Report - итог прогона реплея. Поврежденные записи не прерывают прогон:
// реплей пропускает их и честно перечисляет в отчете.
type Report struct {
	Applied  int           `json:"applied"`
	Failures []TurnFailure `json:"failures,omitempty"`
}

// Ok сообщает, воспроизвелся ли журнал без потерь.
func (r Report) Ok() bool {
	return len(r.Failures) == 0
}

// ReplayEngine воспроизводит партию из журнала: перемотка на любой ход,
// проверка детерминизма. Работает на собственной копии журнала и никогда
// не пишет в него. Контрольные точки кэшируются каждые interval записей,
// повторные перемотки не начинают с нуля.
type ReplayEngine struct {
	log      *domain.GameLog
	reg      content.Registry
	interval int

	// индекс записи -> состояние ПЕРЕД применением этой записи
	checkpoints map[int]*domain.GameState
}

// NewReplayEngine создает движок реплея поверх копии журнала.
func NewReplayEngine(gameLog *domain.GameLog, reg content.Registry, interval int) *ReplayEngine {
	if interval <= 0 {
		interval = DefaultCheckpointInterval
	}
	return &ReplayEngine{
		log:         gameLog.Clone(),
		reg:         reg,
		interval:    interval,
		checkpoints: make(map[int]*domain.GameState),
	}
}

// Turns возвращает число записей журнала.
func (r *ReplayEngine) Turns() int {
	return len(r.log.Turns)
}

// SeekTo воспроизводит журнал до хода turn (исключительно): применяются
// все записи с rec.Turn < turn. Возвращает состояние на этот момент.
func (r *ReplayEngine) SeekTo(turn int) (*domain.GameState, Report, error) {
	limit := len(r.log.Turns)
	for i, rec := range r.log.Turns {
		if rec.Turn >= turn {
			limit = i
			break
		}
	}
	return r.replayRecords(limit)
}

// End воспроизводит журнал целиком.
func (r *ReplayEngine) End() (*domain.GameState, Report, error) {
	return r.replayRecords(len(r.log.Turns))
}

// replayRecords применяет первые limit записей, начиная с ближайшей
// закэшированной контрольной точки.
func (r *ReplayEngine) replayRecords(limit int) (*domain.GameState, Report, error) {
	start := 0
	var state *domain.GameState
	for idx, cp := range r.checkpoints {
		if idx <= limit && idx > start {
			start = idx
			state = cp
		}
	}
	if state == nil {
		state = buildInitialState(r.log.Config, r.reg)
	} else {
		state = state.Clone()
	}

	// Одноразовый хост-исполнитель: те же правила применения, что и у
	// живой партии, но без записи в журнал
	h := &Host{
		reg:       r.reg,
		res:       resolver.New(r.reg),
		connected: make(map[string]bool),
		state:     state,
		log:       &domain.GameLog{Config: r.log.Config.Clone()},
	}
	for i := 0; i < start; i++ {
		if r.log.Turns[i].Action.Type == domain.ActionJoin {
			h.everJoined = true
		}
	}

	report := Report{}
	for i := start; i < limit; i++ {
		rec := r.log.Turns[i]
		if i%r.interval == 0 && i > 0 {
			r.checkpoints[i] = h.state.Clone()
		}
		_, err := h.ProcessAction(rec.Action.ActorID, rec.Action, Options{
			SkipAI:          rec.SkipAI,
			SkipTurnAdvance: rec.SkipTurnAdvance,
			Replaying:       true,
		})
		if err != nil {
			report.Failures = append(report.Failures, TurnFailure{
				Record: i,
				Turn:   rec.Turn,
				Reason: err.Error(),
			})
			continue
		}
		report.Applied++
	}
	return h.state, report, nil
}

// VerifyDeterminism воспроизводит журнал с нуля и сравнивает итог со
// снапшотом, который вела живая партия. Расхождение байтов JSON значит,
// что правила недетерминированы или журнал поврежден.
func (r *ReplayEngine) VerifyDeterminism() (bool, Report, error) {
	if r.log.StateSnapshot == nil {
		return false, Report{}, fmt.Errorf("log has no state snapshot to verify against")
	}

	final, report, err := r.End()
	if err != nil {
		return false, report, err
	}

	replayed, err := json.Marshal(final)
	if err != nil {
		return false, report, err
	}
	recorded, err := json.Marshal(r.log.StateSnapshot)
	if err != nil {
		return false, report, err
	}

	match := bytes.Equal(replayed, recorded)
	if !match {
		logger.Log.WithFields(logrus.Fields{
			"component": "replay",
			"game_id":   r.log.Meta.GameID,
			"records":   len(r.log.Turns),
		}).Error("Replay diverged from recorded snapshot.")
	}
	return match && report.Ok(), report, nil
}
