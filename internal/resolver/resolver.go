package resolver

import (
	"github.com/sirupsen/logrus"

	"emberdelve-server/internal/content"
	"emberdelve-server/internal/domain"
	"emberdelve-server/pkg/logger"
	"emberdelve-server/pkg/rng"
)

// turnContext передает хендлеру все, что нужно для резолва одного действия.
// Хендлер мутирует state напрямую - это уже приватная копия резолвера.
type turnContext struct {
	state  *domain.GameState
	action domain.Action
	actor  *domain.Entity
	reg    content.Registry
	combat *rng.Source
}

// handlerFunc - контракт для любого действия (move, wait, pickup_item...).
type handlerFunc func(ctx *turnContext) []domain.Event

// Resolver - детерминированный резолвер ходов. Чистая функция состояния:
// входное состояние никогда не мутируется, одинаковые (state, action)
// всегда дают одинаковые (nextState, events). Никаких часов, никакого
// глобального рандома - вся случайность выводится из сида состояния.
type Resolver struct {
	reg      content.Registry
	handlers map[domain.ActionType]handlerFunc
}

// New создает резолвер с полным набором хендлеров.
func New(reg content.Registry) *Resolver {
	r := &Resolver{reg: reg}
	r.handlers = map[domain.ActionType]handlerFunc{
		domain.ActionMove:        handleMove,
		domain.ActionWait:        handleWait,
		domain.ActionJoin:        handleJoin,
		domain.ActionPickupItem:  handlePickup,
		domain.ActionDropItem:    handleDrop,
		domain.ActionEquipItem:   handleEquip,
		domain.ActionUnequipItem: handleUnequip,
		domain.ActionUseItem:     handleUse,
		domain.ActionLevelUp:     handleLevelUp,
	}
	return r
}

// ResolveTurn применяет одно действие к состоянию и возвращает следующее
// состояние плюс события. Контракт:
//   - вход не мутируется (клонирование на входе);
//   - нелегальные по игровым правилам действия - тихие no-op;
//   - мертвые сущности вычищаются последним шагом, всегда.
func (r *Resolver) ResolveTurn(state *domain.GameState, action domain.Action) (*domain.GameState, []domain.Event) {
	next := state.Clone()

	ctx := &turnContext{
		state:  next,
		action: action,
		reg:    r.reg,
		// Боевой рандом солится ID актора: в одном раунде разные акторы
		// получают разные броски, но пара (state, action) всегда дает
		// один и тот же результат
		combat: rng.New(state.Seed ^ rng.Hash32(action.ActorID)),
	}

	var events []domain.Event
	switch {
	case action.Type == domain.ActionJoin:
		// join - единственное действие, чей актор еще не существует
		events = handleJoin(ctx)
	default:
		actor := next.Entity(action.ActorID)
		if actor == nil || !actor.Alive() {
			logger.Log.WithFields(logrus.Fields{
				"component": "resolver",
				"actor_id":  action.ActorID,
				"action":    action.Type.String(),
			}).Debug("Action dropped: actor is missing or dead.")
			break
		}
		if actor.HasStatus(domain.StatusStunned) {
			actor.TickStatus()
			events = []domain.Event{{
				Type:    domain.EventStunned,
				ActorID: actor.ID,
				Message: actor.Name + " оглушен и пропускает ход.",
			}}
			break
		}
		actor.TickStatus()
		ctx.actor = actor

		handler, ok := r.handlers[action.Type]
		if !ok {
			events = []domain.Event{{
				Type:    domain.EventError,
				ActorID: action.ActorID,
				Message: "Неизвестное действие.",
			}}
			break
		}
		events = handler(ctx)
	}

	// Трупы никогда не переживают резолв
	next.PurgeDead()
	return next, events
}

// AdvanceTurn переводит состояние на следующий ход: счетчик хода растет,
// сид перекатывается одним броском от старого сида. Вызывается движком
// один раз на раунд, отдельно от резолва действий.
func (r *Resolver) AdvanceTurn(state *domain.GameState) *domain.GameState {
	next := state.Clone()
	next.Turn++
	next.Seed = rng.New(state.Seed).Next()
	return next
}
