package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/rinkbook/internal/dependencies/mocks"
	"github.com/mcoot/rinkbook/internal/metrics"
	"github.com/mcoot/rinkbook/internal/storage/memory"
)

// TestEpoch is the time every TestApp clock starts at
var TestEpoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	MockIDs   *mocks.MockIDs
	Memory    *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies,
// an in-memory store and live metrics
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(TestEpoch)
	mockIDs := mocks.NewMockIDs()
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

	app := newWithDependencies(store, mockClock, mockIDs, metrics.NewRecorder(), logger)

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		MockIDs:   mockIDs,
		Memory:    store,
	}
}
