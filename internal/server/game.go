package server

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"emberdelve-server/internal/engine"
	"emberdelve-server/internal/network"
	"emberdelve-server/internal/storage"
	"emberdelve-server/pkg/api"
	"emberdelve-server/pkg/logger"
)

// command - входящее сообщение вместе с проверенной личностью сессии.
type command struct {
	playerID string
	msg      api.ClientMessage
}

// Game - игровой цикл одной партии. Движок хоста и координатор не
// потокобезопасны, поэтому все мутации стянуты в одну горутину: пампы
// клиентов только кладут команды в канал, цикл применяет их по одной.
type Game struct {
	host  *engine.Host
	coord *engine.Coordinator
	hub   *network.Broadcaster
	store storage.Store

	saveEvery time.Duration

	commands    chan command
	disconnects chan string
}

func NewGame(host *engine.Host, coord *engine.Coordinator, hub *network.Broadcaster, store storage.Store, saveEvery time.Duration) *Game {
	if saveEvery <= 0 {
		saveEvery = 30 * time.Second
	}
	return &Game{
		host:        host,
		coord:       coord,
		hub:         hub,
		store:       store,
		saveEvery:   saveEvery,
		commands:    make(chan command, 256),
		disconnects: make(chan string, 64),
	}
}

// Submit кладет сообщение клиента в очередь игрового цикла.
func (g *Game) Submit(playerID string, msg api.ClientMessage) {
	g.commands <- command{playerID: playerID, msg: msg}
}

// Disconnect сообщает циклу об отключении сессии.
func (g *Game) Disconnect(playerID string) {
	select {
	case g.disconnects <- playerID:
	default:
	}
}

// Run крутит игровой цикл до отмены контекста. На выходе журнал
// сохраняется последний раз.
func (g *Game) Run(ctx context.Context) {
	phaseTicker := time.NewTicker(time.Second)
	defer phaseTicker.Stop()
	saveTicker := time.NewTicker(g.saveEvery)
	defer saveTicker.Stop()

	logger.Log.WithFields(logrus.Fields{
		"component": "game_loop",
		"game_id":   g.host.Meta().GameID,
	}).Info("Game loop started.")

	for {
		select {
		case cmd := <-g.commands:
			g.handle(cmd)

		case playerID := <-g.disconnects:
			g.host.Disconnect(playerID)
			g.flushDeltas(g.coord.Untrack(playerID))

		case now := <-phaseTicker.C:
			g.flushDeltas(g.coord.ExpirePlanning(now))
			g.broadcastPhase()

		case <-saveTicker.C:
			g.persist(ctx)

		case <-ctx.Done():
			g.persist(context.Background())
			logger.Log.WithFields(logrus.Fields{
				"component": "game_loop",
				"game_id":   g.host.Meta().GameID,
			}).Info("Game loop stopped.")
			return
		}
	}
}

func (g *Game) handle(cmd command) {
	switch cmd.msg.Type {
	case api.ClientTypeIdentity:
		g.handleIdentity(cmd.playerID)
	case api.ClientTypeSpectate:
		g.sendWelcome(cmd.playerID)
	case api.ClientTypeAction:
		g.handleAction(cmd.playerID, cmd.msg)
	default:
		g.hub.SendTo(cmd.playerID, api.ServerMessage{
			Type:    api.ServerTypeError,
			Message: "Неизвестный тип сообщения",
		})
	}
}

// handleIdentity женит сессию на сущности и шлет welcome. Новый игрок
// попадает в партию через join, и все узнают об этом дельтой.
func (g *Game) handleIdentity(playerID string) {
	delta, err := g.host.Connect(playerID)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"component": "game_loop",
			"player_id": playerID,
		}).WithError(err).Warn("Connect failed.")
		g.hub.SendTo(playerID, api.ServerMessage{
			Type:    api.ServerTypeError,
			Message: "Не удалось войти в партию",
		})
		return
	}

	g.coord.Track(playerID)
	g.sendWelcome(playerID)
	if delta != nil {
		g.flushDeltas([]*engine.Delta{delta})
	}
}

func (g *Game) handleAction(playerID string, msg api.ClientMessage) {
	deltas, err := g.coord.SubmitAction(playerID, *msg.Action)
	if err != nil {
		g.hub.SendTo(playerID, api.ServerMessage{
			Type:    api.ServerTypeError,
			Message: "Действие отклонено: " + err.Error(),
		})
		return
	}
	g.flushDeltas(deltas)
	g.broadcastPhase()
}

func (g *Game) sendWelcome(playerID string) {
	var mods []string
	for _, m := range g.host.Manifests() {
		mods = append(mods, m.ID)
	}
	g.hub.SendTo(playerID, api.ServerMessage{
		Type:               api.ServerTypeWelcome,
		PlayerID:           playerID,
		InitialState:       g.host.State(),
		Mods:               mods,
		ConnectedEntityIDs: g.host.ConnectedIDs(),
	})
}

// flushDeltas рассылает применённые действия всем подписчикам. Состояние
// прикладывается только к последней дельте пачки - промежуточные клиенту
// не нужны.
func (g *Game) flushDeltas(deltas []*engine.Delta) {
	for i, d := range deltas {
		msg := api.ServerMessage{
			Type:   api.ServerTypeDelta,
			Turn:   d.Turn,
			Action: &d.Action,
			Events: d.Events,
		}
		if i == len(deltas)-1 {
			msg.CurrentState = d.State
		}
		g.hub.Broadcast(msg)
	}
}

// broadcastPhase сообщает всем статус фазы планирования: кого ждем и
// сколько осталось.
func (g *Game) broadcastPhase() {
	pending := g.coord.PendingPlayers()
	remaining := g.coord.TimeRemaining(time.Now())
	if remaining == 0 {
		return
	}
	g.hub.Broadcast(api.ServerMessage{
		Type:           api.ServerTypePhase,
		Phase:          api.PhasePlanning,
		TimeRemaining:  int(remaining.Milliseconds()),
		PendingPlayers: pending,
	})
}

func (g *Game) persist(ctx context.Context) {
	if g.store == nil {
		return
	}
	gameLog := g.host.Log()
	gameLog.Meta.LastSaved = time.Now().UnixMilli()
	if err := g.store.Save(ctx, gameLog); err != nil {
		logger.Log.WithFields(logrus.Fields{
			"component": "game_loop",
			"game_id":   g.host.Meta().GameID,
		}).WithError(err).Error("Failed to persist game log.")
	}
}
