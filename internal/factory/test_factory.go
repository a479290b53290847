package factory

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/bankroll/internal/dependencies/mocks"
	"github.com/mcoot/bankroll/internal/services/auth"
	"github.com/mcoot/bankroll/internal/services/ledger"
	"github.com/mcoot/bankroll/internal/storage/memory"
	"github.com/mcoot/bankroll/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	Memory     *memory.Storage
}

// NewTestApp creates an App over empty in-memory storage with mocked
// dependencies and cheap password hashing
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	authCfg := auth.DefaultConfig()
	authCfg.BcryptCost = bcrypt.MinCost

	app, err := newWithDependencies(context.Background(), store, mockClock, mockRandom, authCfg, ledger.DefaultConfig(), testutil.NopLogger())
	if err != nil {
		// empty memory storage cannot fail to load
		panic(err)
	}

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Memory:     store,
	}
}
