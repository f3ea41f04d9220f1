package server

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config - конфигурация процесса хоста. Все параметры берутся из
// окружения с префиксом ED_.
type Config struct {
	Port string `env:"ED_PORT" envDefault:"8080"`

	// Каталог файловых сохранений. Игнорируется, если задан RedisAddr.
	SaveDir string `env:"ED_SAVE_DIR" envDefault:"./saves"`

	// Адрес Redis (host:port). Пустой - журналы пишутся в файлы.
	RedisAddr string `env:"ED_REDIS_ADDR"`

	// Лимит фазы планирования одновременного хода.
	PlanningTimeout time.Duration `env:"ED_PLANNING_TIMEOUT" envDefault:"45s"`

	// Интервал чекпоинтов движка реплея (в записях журнала).
	CheckpointInterval int `env:"ED_CHECKPOINT_INTERVAL" envDefault:"50"`

	// Как часто автосохранять журнал партии.
	SaveInterval time.Duration `env:"ED_SAVE_INTERVAL" envDefault:"30s"`
}

// LoadConfig читает конфигурацию из переменных окружения.
func LoadConfig() (Config, error) {
	return env.ParseAs[Config]()
}
