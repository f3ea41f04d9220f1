package storage

import (
	"context"
	"errors"

	"emberdelve-server/internal/domain"
)

// ErrNotFound возвращается, когда партии с таким ID нет в хранилище.
var ErrNotFound = errors.New("game log not found")

// Store - персистентное хранилище журналов партий. Журнал - единица
// хранения: сохраняется и загружается целиком, вместе со снапшотом.
type Store interface {
	Save(ctx context.Context, gameLog *domain.GameLog) error
	Load(ctx context.Context, gameID string) (*domain.GameLog, error)
	List(ctx context.Context) ([]domain.LogMeta, error)
	Delete(ctx context.Context, gameID string) error
}
