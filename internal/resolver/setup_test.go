package resolver

import (
	"os"
	"testing"

	"emberdelve-server/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}
