package resolver

import "emberdelve-server/internal/domain"

// handleWait - пропуск хода. Всегда успешен.
func handleWait(ctx *turnContext) []domain.Event {
	return []domain.Event{{
		Type:    domain.EventWait,
		ActorID: ctx.actor.ID,
	}}
}
