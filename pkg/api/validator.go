package api

import "errors"

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (m ClientMessage) Validate() error {
	switch m.Type {
	case ClientTypeIdentity:
		if m.PlayerID == "" {
			return errors.New("identity requires playerId")
		}
	case ClientTypeAction:
		if m.Action == nil {
			return errors.New("action message requires action")
		}
		return m.Action.Validate()
	case ClientTypeSpectate:
		// Полезная нагрузка не обязательна
	default:
		return errors.New("unknown message type")
	}
	return nil
}
