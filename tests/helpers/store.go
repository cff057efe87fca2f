package helpers

import (
	"testing"

	"github.com/smilelifes/ai-weather-chat/internal/repository"
)

// NewTestSQLiteStore returns an in-memory trace store closed at test cleanup.
func NewTestSQLiteStore(t *testing.T) *repository.SQLiteStore {
	t.Helper()

	s, err := repository.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}
