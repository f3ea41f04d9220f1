package engine

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"emberdelve-server/internal/domain"
	"emberdelve-server/pkg/logger"
)

// DefaultPlanningTimeout ограничивает фазу планирования: раунд не может
// ждать отставшего игрока вечно.
const DefaultPlanningTimeout = 45 * time.Second

// Coordinator собирает одновременный ход: свободные действия применяются
// сразу, завершающие ход буферизуются, и раунд резолвится разом, когда
// высказались все живые отслеживаемые игроки (или истек таймаут
// планирования). Внутри раунда действия применяются в порядке подачи;
// AI и продвижение хода отыгрываются один раз, на последнем действии
// раунда, а все события раунда сливаются в одну исходящую дельту.
type Coordinator struct {
	host    *Host
	timeout time.Duration

	tracked    []string
	trackedSet map[string]bool
	pending    map[string]domain.Action
	order      []string // порядок подачи буферизованных действий

	planningSince time.Time
}

// NewCoordinator создает координатор поверх движка хоста.
// Неположительный timeout заменяется дефолтным.
func NewCoordinator(host *Host, timeout time.Duration) *Coordinator {
	if timeout <= 0 {
		timeout = DefaultPlanningTimeout
	}
	return &Coordinator{
		host:       host,
		timeout:    timeout,
		trackedSet: make(map[string]bool),
		pending:    make(map[string]domain.Action),
	}
}

// Track добавляет игрока в одновременный режим.
func (c *Coordinator) Track(playerID string) {
	if c.trackedSet[playerID] {
		return
	}
	c.trackedSet[playerID] = true
	c.tracked = append(c.tracked, playerID)
}

// Untrack убирает игрока из одновременного режима (отключение).
// Его буферизованное действие пропадает; если без него раунд готов,
// раунд резолвится.
func (c *Coordinator) Untrack(playerID string) []*Delta {
	if !c.trackedSet[playerID] {
		return nil
	}
	delete(c.trackedSet, playerID)
	delete(c.pending, playerID)
	for i, id := range c.tracked {
		if id == playerID {
			c.tracked = append(c.tracked[:i], c.tracked[i+1:]...)
			break
		}
	}
	for i, id := range c.order {
		if id == playerID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	if len(c.pending) > 0 && c.ready() {
		return c.executeRound()
	}
	return nil
}

// SubmitAction принимает действие игрока. Свободные действия применяются
// немедленно; завершающее ход буферизуется (повторное заменяет прежнее)
// и, возможно, запускает резолв раунда.
func (c *Coordinator) SubmitAction(playerID string, action domain.Action) ([]*Delta, error) {
	if !c.trackedSet[playerID] {
		return nil, fmt.Errorf("player %s is not tracked", playerID)
	}

	if !action.Type.TurnEnding() {
		delta, err := c.host.ProcessAction(playerID, action, Options{
			SkipAI:          true,
			SkipTurnAdvance: true,
		})
		if err != nil {
			return nil, err
		}
		return []*Delta{delta}, nil
	}

	if _, ok := c.pending[playerID]; !ok {
		if len(c.pending) == 0 {
			c.planningSince = time.Now()
		}
		// Повторная подача заменяет действие, но не место в очереди
		c.order = append(c.order, playerID)
	}
	c.pending[playerID] = action

	if c.ready() {
		return c.executeRound(), nil
	}
	return nil, nil
}

// ready сообщает, высказались ли все живые отслеживаемые игроки.
// Один живой игрок (или ноль) - раунд готов немедленно.
func (c *Coordinator) ready() bool {
	living := c.livingTracked()
	if len(living) <= 1 {
		return true
	}
	for _, id := range living {
		if _, ok := c.pending[id]; !ok {
			return false
		}
	}
	return true
}

// executeRound применяет буфер раунда в порядке подачи действий. AI и
// продвижение хода подавляются на всех действиях, кроме последнего, -
// в журнал каждая запись попадает со своими флагами, и реплей
// воспроизводит раунд в точности. Наружу раунд уходит одной дельтой:
// события всех действий слиты, состояние - итоговое.
func (c *Coordinator) executeRound() []*Delta {
	var order []string
	for _, id := range c.order {
		if _, ok := c.pending[id]; ok {
			order = append(order, id)
		}
	}
	if len(order) == 0 {
		return nil
	}

	var merged *Delta
	for i, id := range order {
		last := i == len(order)-1
		delta, err := c.host.ProcessAction(id, c.pending[id], Options{
			SkipAI:          !last,
			SkipTurnAdvance: !last,
		})
		if err != nil {
			logger.Log.WithFields(logrus.Fields{
				"component": "coordinator",
				"player_id": id,
			}).WithError(err).Warn("Buffered action failed to apply.")
			continue
		}
		if merged == nil {
			merged = delta
			continue
		}
		merged.Events = append(merged.Events, delta.Events...)
		merged.Turn = delta.Turn
		merged.Action = delta.Action
		merged.State = delta.State
	}

	c.pending = make(map[string]domain.Action)
	c.order = nil
	c.planningSince = time.Time{}
	if merged == nil {
		return nil
	}
	return []*Delta{merged}
}

// ExpirePlanning закрывает затянувшуюся фазу планирования: не успевшие
// игроки получают автоматический wait, раунд резолвится.
func (c *Coordinator) ExpirePlanning(now time.Time) []*Delta {
	if len(c.pending) == 0 || now.Sub(c.planningSince) < c.timeout {
		return nil
	}

	for _, id := range c.livingTracked() {
		if _, ok := c.pending[id]; !ok {
			logger.Log.WithFields(logrus.Fields{
				"component": "coordinator",
				"player_id": id,
			}).Warn("Planning timed out, forcing wait.")
			c.pending[id] = domain.Action{Type: domain.ActionWait, ActorID: id}
			c.order = append(c.order, id)
		}
	}
	return c.executeRound()
}

// PendingPlayers возвращает живых игроков, чьего действия ждет раунд.
func (c *Coordinator) PendingPlayers() []string {
	var out []string
	for _, id := range c.livingTracked() {
		if _, ok := c.pending[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// TimeRemaining возвращает остаток фазы планирования (0, если фаза
// не идет).
func (c *Coordinator) TimeRemaining(now time.Time) time.Duration {
	if len(c.pending) == 0 {
		return 0
	}
	left := c.timeout - now.Sub(c.planningSince)
	if left < 0 {
		return 0
	}
	return left
}

func (c *Coordinator) livingTracked() []string {
	state := c.host.state
	var out []string
	for _, id := range c.tracked {
		if e := state.Entity(id); e != nil && e.Alive() {
			out = append(out, id)
		}
	}
	return out
}
