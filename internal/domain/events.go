package domain

import (
	"encoding/json"
	"strings"
)

// EventType - внутренний числовой идентификатор события
type EventType uint8

const (
	EventUnknown EventType = iota
	EventMoved
	EventAttacked
	EventKilled
	EventSpawned
	EventXPGained
	EventLevelUp
	EventItemPickup
	EventItemDrop
	EventItemEquip
	EventItemUnequip
	EventItemUse
	EventVictory
	EventDefeat
	EventLevelTransition
	EventStunned
	EventWait
	EventError
)

var eventStringToCmd = map[string]EventType{
	"moved":            EventMoved,
	"attacked":         EventAttacked,
	"killed":           EventKilled,
	"spawned":          EventSpawned,
	"xp_gained":        EventXPGained,
	"level_up":         EventLevelUp,
	"item_pickup":      EventItemPickup,
	"item_drop":        EventItemDrop,
	"item_equip":       EventItemEquip,
	"item_unequip":     EventItemUnequip,
	"item_use":         EventItemUse,
	"victory":          EventVictory,
	"defeat":           EventDefeat,
	"level_transition": EventLevelTransition,
	"stunned":          EventStunned,
	"wait":             EventWait,
	"error":            EventError,
}

var eventCmdToString = func() map[EventType]string {
	m := make(map[EventType]string, len(eventStringToCmd))
	for s, t := range eventStringToCmd {
		m[t] = s
	}
	return m
}()

// ParseEvent конвертирует строку из JSON в EventType
func ParseEvent(s string) EventType {
	if val, ok := eventStringToCmd[strings.ToLower(s)]; ok {
		return val
	}
	return EventUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (e EventType) String() string {
	if val, ok := eventCmdToString[e]; ok {
		return val
	}
	return "unknown"
}

func (e EventType) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

func (e *EventType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*e = ParseEvent(s)
	return nil
}

// Event описывает, что произошло при резолве действия. События - это
// производные данные: они никогда не хранятся в состоянии, а служат
// дельтой для клиентов и единицей записи в журнале партии.
type Event struct {
	Type     EventType `json:"type"`
	ActorID  string    `json:"actorId,omitempty"`
	TargetID string    `json:"targetId,omitempty"`
	Pos      *Position `json:"pos,omitempty"`
	Amount   int       `json:"amount,omitempty"`
	ItemID   string    `json:"itemId,omitempty"`
	ItemName string    `json:"itemName,omitempty"`
	Level    int       `json:"level,omitempty"`
	Message  string    `json:"message,omitempty"`
}
