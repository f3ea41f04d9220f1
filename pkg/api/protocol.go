package api

import "emberdelve-server/internal/domain"

// Типы сообщений клиента
const (
	ClientTypeIdentity = "identity"
	ClientTypeAction   = "action"
	ClientTypeSpectate = "spectate"
)

// Типы сообщений сервера
const (
	ServerTypeWelcome = "welcome"
	ServerTypeDelta   = "delta"
	ServerTypeError   = "error"
	ServerTypePhase   = "phase"
)

// Фазы одновременного хода
const (
	PhasePlanning  = "planning"
	PhaseResolving = "resolving"
)

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientMessage это корневой объект для всех сообщений от клиента к хосту.
type ClientMessage struct {
	// Type тип сообщения: "identity", "action" или "spectate".
	Type string `json:"type"`

	// PlayerID устойчивый идентификатор игрока. Обязателен для "identity" -
	// по нему хост женит сессию на сущности (переподключение возвращает
	// управление той же сущностью).
	PlayerID string `json:"playerId,omitempty"`

	// UserID внешний идентификатор аккаунта (опционально, для кампаний).
	UserID string `json:"userId,omitempty"`

	// Action игровое действие. Поле actorId внутри него хост ПЕРЕЗАПИСЫВАЕТ
	// проверенной личностью сессии - клиенту оно не принадлежит.
	Action *domain.Action `json:"action,omitempty"`
}

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerMessage это корневой объект, который хост отправляет клиенту.
// "welcome" несет полное состояние для нового подключения, "delta" -
// применённое действие и его события, "phase" - статус одновременного хода.
type ServerMessage struct {
	Type string `json:"type"`

	// welcome
	PlayerID           string            `json:"playerId,omitempty"`
	InitialState       *domain.GameState `json:"initialState,omitempty"`
	Mods               []string          `json:"mods,omitempty"`
	ConnectedEntityIDs []string          `json:"connectedEntityIds,omitempty"`

	// delta
	Turn         int               `json:"turn,omitempty"`
	Action       *domain.Action    `json:"action,omitempty"`
	Events       []domain.Event    `json:"events,omitempty"`
	CurrentState *domain.GameState `json:"currentState,omitempty"`

	// phase
	Phase          string   `json:"phase,omitempty"`
	TimeRemaining  int      `json:"timeRemaining,omitempty"` // миллисекунды
	PendingPlayers []string `json:"pendingPlayers,omitempty"`

	// error
	Message string `json:"message,omitempty"`
}
