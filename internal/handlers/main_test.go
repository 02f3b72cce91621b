package handlers

import (
	"os"
	"testing"

	"github.com/bilashs/StudyBuddy-Server/pkg/logger"
)

// Handlers log through the package-level logger.Log, which main.go normally
// initializes at startup; tests need the same setup.
func TestMain(m *testing.M) {
	logger.InitLogger()
	os.Exit(m.Run())
}
