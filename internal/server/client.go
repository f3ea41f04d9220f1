package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"emberdelve-server/pkg/api"
	"emberdelve-server/pkg/logger"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между WebSocket и игровым циклом. Сам ничего не
// мутирует: проверенные сообщения уходят в канал Game, ответы приходят
// через личный канал брокастера.
type Client struct {
	Game     *Game
	Conn     *websocket.Conn
	Send     chan api.ServerMessage
	PlayerID string
}

func NewClient(game *Game, conn *websocket.Conn) *Client {
	return &Client{
		Game: game,
		Conn: conn,
		Send: make(chan api.ServerMessage, 256),
	}
}

// readPump читает сообщения клиента
func (c *Client) readPump() {
	defer func() {
		if c.PlayerID != "" {
			c.Game.hub.Unregister(c.PlayerID)
			c.Game.Disconnect(c.PlayerID)
			logger.Log.WithField("player_id", c.PlayerID).Info("Client disconnected.")
		}
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("close websocket failed")
		}
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			logger.Log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	// 1. HANDSHAKE: первым сообщением клиент называет себя
	var hello api.ClientMessage
	if err := c.Conn.ReadJSON(&hello); err != nil {
		logger.Log.Warn("Handshake failed")
		return
	}
	if hello.Type != api.ClientTypeIdentity && hello.Type != api.ClientTypeSpectate {
		logger.Log.WithField("type", hello.Type).Warn("Handshake must be identity or spectate")
		return
	}

	c.PlayerID = hello.PlayerID
	if c.PlayerID == "" {
		c.PlayerID = uuid.NewString()
		hello.PlayerID = c.PlayerID
	}

	logger.Log.WithFields(logrus.Fields{
		"player_id": c.PlayerID,
		"mode":      hello.Type,
	}).Info("Client logged in.")

	// 2. ПОДПИСКА НА ОБНОВЛЕНИЯ
	updates := c.Game.hub.Register(c.PlayerID)
	go func() {
		for msg := range updates {
			c.Send <- msg
		}
		close(c.Send)
	}()

	// 3. Handshake уходит в игровой цикл (Connect + welcome)
	c.Game.Submit(c.PlayerID, hello)

	// 4. ЦИКЛ ЧТЕНИЯ СООБЩЕНИЙ
	for {
		var msg api.ClientMessage
		if err := c.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.WithError(err).Error("WS read error")
			}
			break
		}
		// Личность сессии неоспорима: клиент не может говорить за другого
		msg.PlayerID = c.PlayerID
		if err := msg.Validate(); err != nil {
			c.Game.hub.SendTo(c.PlayerID, api.ServerMessage{
				Type:    api.ServerTypeError,
				Message: "Некорректное сообщение: " + err.Error(),
			})
			continue
		}
		c.Game.Submit(c.PlayerID, msg)
	}
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("close websocket in writePump failed")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logger.Log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				logger.Log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
