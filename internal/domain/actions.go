package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ActionType - внутренний числовой идентификатор действия
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionMove
	ActionWait
	ActionJoin
	ActionPickupItem
	ActionDropItem
	ActionEquipItem
	ActionUnequipItem
	ActionUseItem
	ActionLevelUp
)

// Маппинг для конвертации JSON -> Domain
var actionStringToCmd = map[string]ActionType{
	"move":         ActionMove,
	"wait":         ActionWait,
	"join":         ActionJoin,
	"pickup_item":  ActionPickupItem,
	"drop_item":    ActionDropItem,
	"equip_item":   ActionEquipItem,
	"unequip_item": ActionUnequipItem,
	"use_item":     ActionUseItem,
	"level_up":     ActionLevelUp,
}

// Маппинг для логов Domain -> String
var actionCmdToString = map[ActionType]string{
	ActionMove:        "move",
	ActionWait:        "wait",
	ActionJoin:        "join",
	ActionPickupItem:  "pickup_item",
	ActionDropItem:    "drop_item",
	ActionEquipItem:   "equip_item",
	ActionUnequipItem: "unequip_item",
	ActionUseItem:     "use_item",
	ActionLevelUp:     "level_up",
}

// ParseAction конвертирует строку из JSON в ActionType.
// Нечувствителен к регистру для надежности.
func ParseAction(s string) ActionType {
	if val, ok := actionStringToCmd[strings.ToLower(s)]; ok {
		return val
	}
	return ActionUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "unknown"
}

// MarshalJSON сериализует тип как строку - журнал партии должен
// переживать JSON round-trip в читаемом виде.
func (a ActionType) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *ActionType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed := ParseAction(s)
	if parsed == ActionUnknown && s != "" && s != "unknown" {
		return fmt.Errorf("unknown action type %q", s)
	}
	*a = parsed
	return nil
}

// TurnEnding сообщает, завершает ли действие ход игрока в одновременном
// режиме. Все остальные действия - "свободные" и применяются сразу.
func (a ActionType) TurnEnding() bool {
	return a == ActionMove
}
