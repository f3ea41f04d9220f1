package server

import (
	"encoding/json"
	"net/http"
	_ "net/http/pprof" // Profiling

	"emberdelve-server/internal/storage"
	"emberdelve-server/internal/version"
	"emberdelve-server/pkg/logger"
)

type Server struct {
	Game  *Game
	Store storage.Store
	Port  string
}

func New(game *Game, store storage.Store, port string) *Server {
	return &Server{
		Game:  game,
		Store: store,
		Port:  port,
	}
}

// Run запускает HTTP сервер
func (s *Server) Run() error {
	mux := http.DefaultServeMux

	// Регистрируем роуты
	mux.HandleFunc("/ws", enableCORS(s.handleWS))
	mux.HandleFunc("/health", enableCORS(s.handleHealth))
	mux.HandleFunc("/version", enableCORS(s.handleVersion))
	mux.HandleFunc("/games", enableCORS(s.handleGames))

	logger.Log.Infof("🔥 Emberdelve host running on :%s", s.Port)
	return http.ListenAndServe(":"+s.Port, mux)
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Разрешаем запросы с фронтенда
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next(w, r)
	}
}

// handleWS обрабатывает подключение по WebSocket
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Error("Upgrade error")
		return
	}

	client := NewClient(s.Game, conn)

	go client.writePump()
	go client.readPump()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(version.Info())
}

// handleGames отдает список сохраненных партий
func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		http.Error(w, "no store configured", http.StatusServiceUnavailable)
		return
	}
	metas, err := s.Store.List(r.Context())
	if err != nil {
		logger.Log.WithError(err).Error("Failed to list games")
		http.Error(w, "list failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(metas)
}
