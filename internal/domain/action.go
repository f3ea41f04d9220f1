package domain

import "fmt"

// Action - команда одного актора. Тегированное объединение: на каждый тип
// действия свой вариант полезной нагрузки, лишние варианты должны быть nil.
// ActorID всегда перезаписывается хостом на проверенную личность сессии
// до резолва - подделать чужой ID с клиента нельзя.
type Action struct {
	Type    ActionType `json:"type"`
	ActorID string     `json:"actorId"`

	Move    *MoveArgs    `json:"move,omitempty"`
	Join    *JoinArgs    `json:"join,omitempty"`
	Item    *ItemArgs    `json:"item,omitempty"`
	LevelUp *LevelUpArgs `json:"levelUp,omitempty"`
}

// MoveArgs - смещение на одну клетку по стороне.
type MoveArgs struct {
	Dx int `json:"dx"`
	Dy int `json:"dy"`
}

// JoinArgs - параметры входа в игру. SpawnHint передается явно в действии
// (а не через глобальное состояние), чтобы резолвер оставался чистым.
type JoinArgs struct {
	TemplateID string    `json:"templateId,omitempty"`
	SpawnHint  *Position `json:"spawnHint,omitempty"`
}

// ItemArgs - параметры предметных действий.
// pickup_item использует GroundID, drop/equip/use - Slot,
// unequip_item - EquipSlot.
type ItemArgs struct {
	GroundID  string `json:"groundId,omitempty"`
	Slot      int    `json:"slot"`
	EquipSlot string `json:"equipSlot,omitempty"`
}

// LevelUpArgs - распределение накопленных очков.
type LevelUpArgs struct {
	Attributes map[string]int `json:"attributes,omitempty"`
	Skills     map[string]int `json:"skills,omitempty"`
}

// Validate проверяет, что вариант полезной нагрузки соответствует типу.
// Это граница "truly malformed input": внутри резолвера нелегальные
// по игровым правилам действия - тихие no-op, а вот отсутствие
// обязательного варианта - ошибка.
func (a Action) Validate() error {
	switch a.Type {
	case ActionMove:
		if a.Move == nil {
			return fmt.Errorf("move action requires move args")
		}
		if a.Move.Dx == 0 && a.Move.Dy == 0 {
			return fmt.Errorf("movement vector cannot be zero")
		}
		if a.Move.Dx < -1 || a.Move.Dx > 1 || a.Move.Dy < -1 || a.Move.Dy > 1 {
			return fmt.Errorf("movement step too large")
		}
		if a.Move.Dx != 0 && a.Move.Dy != 0 {
			return fmt.Errorf("diagonal movement is not allowed")
		}
	case ActionPickupItem:
		if a.Item == nil || a.Item.GroundID == "" {
			return fmt.Errorf("pickup_item requires item.groundId")
		}
	case ActionDropItem, ActionEquipItem, ActionUseItem:
		if a.Item == nil {
			return fmt.Errorf("%s requires item args", a.Type)
		}
	case ActionUnequipItem:
		if a.Item == nil || a.Item.EquipSlot == "" {
			return fmt.Errorf("unequip_item requires item.equipSlot")
		}
	case ActionLevelUp:
		if a.LevelUp == nil {
			return fmt.Errorf("level_up requires levelUp args")
		}
	case ActionWait, ActionJoin:
		// Полезная нагрузка не обязательна
	default:
		return fmt.Errorf("unknown action type")
	}
	return nil
}

// Clone возвращает глубокую копию действия.
func (a Action) Clone() Action {
	out := a
	if a.Move != nil {
		m := *a.Move
		out.Move = &m
	}
	if a.Join != nil {
		j := *a.Join
		if a.Join.SpawnHint != nil {
			p := *a.Join.SpawnHint
			j.SpawnHint = &p
		}
		out.Join = &j
	}
	if a.Item != nil {
		it := *a.Item
		out.Item = &it
	}
	if a.LevelUp != nil {
		lv := LevelUpArgs{}
		if a.LevelUp.Attributes != nil {
			lv.Attributes = make(map[string]int, len(a.LevelUp.Attributes))
			for k, v := range a.LevelUp.Attributes {
				lv.Attributes[k] = v
			}
		}
		if a.LevelUp.Skills != nil {
			lv.Skills = make(map[string]int, len(a.LevelUp.Skills))
			for k, v := range a.LevelUp.Skills {
				lv.Skills[k] = v
			}
		}
		out.LevelUp = &lv
	}
	return out
}
