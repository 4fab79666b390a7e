package services

import (
	"medilens/internal/persistence"
	"medilens/internal/structures"
	"medilens/internal/testutil"
	"time"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func testConfig() *structures.Config {
	return &structures.Config{
		Persistence: structures.Persistence{Key: "medilens_history"},
	}
}

func newHistory(medium *testutil.MockMedium) (*HistoryService, *testutil.MockLogger) {
	logger := &testutil.MockLogger{}
	store := persistence.NewHistoryStore(testConfig(), medium, &testutil.MockCompressor{}, logger, testutil.NoopMetrics())
	return NewHistoryService(store, logger, testutil.NoopMetrics()).(*HistoryService), logger
}
