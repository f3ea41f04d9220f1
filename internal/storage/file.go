package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"emberdelve-server/internal/domain"
	"emberdelve-server/pkg/logger"
)

// FileStore хранит каждую партию отдельным JSON-файлом в каталоге
// сохранений. Запись атомарна: сначала временный файл, потом rename.
type FileStore struct {
	dir string
}

// NewFileStore создает хранилище в каталоге (каталог создается).
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(gameID string) (string, error) {
	if gameID == "" || strings.ContainsAny(gameID, "/\\") || strings.Contains(gameID, "..") {
		return "", fmt.Errorf("invalid game id %q", gameID)
	}
	return filepath.Join(s.dir, gameID+".json"), nil
}

func (s *FileStore) Save(ctx context.Context, gameLog *domain.GameLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(gameLog.Meta.GameID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(gameLog, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal game log: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write game log: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("commit game log: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "file_store",
		"game_id":   gameLog.Meta.GameID,
		"records":   len(gameLog.Turns),
		"bytes":     len(data),
	}).Debug("Game log saved.")
	return nil
}

func (s *FileStore) Load(ctx context.Context, gameID string) (*domain.GameLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(gameID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read game log: %w", err)
	}

	var gameLog domain.GameLog
	if err := json.Unmarshal(data, &gameLog); err != nil {
		return nil, fmt.Errorf("parse game log %s: %w", gameID, err)
	}
	return &gameLog, nil
}

func (s *FileStore) List(ctx context.Context) ([]domain.LogMeta, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list save dir: %w", err)
	}

	var metas []domain.LogMeta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		// Читаем только метаданные, без разбора журнала целиком
		var head struct {
			Meta domain.LogMeta `json:"meta"`
		}
		if err := json.Unmarshal(data, &head); err != nil {
			logger.Log.WithFields(logrus.Fields{
				"component": "file_store",
				"file":      entry.Name(),
			}).WithError(err).Warn("Skipping unreadable save file.")
			continue
		}
		metas = append(metas, head.Meta)
	}
	return metas, nil
}

func (s *FileStore) Delete(ctx context.Context, gameID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(gameID)
	if err != nil {
		return err
	}
	if err := os.Remove(path); os.IsNotExist(err) {
		return ErrNotFound
	} else if err != nil {
		return fmt.Errorf("delete game log: %w", err)
	}
	return nil
}
