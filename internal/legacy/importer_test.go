package legacy

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/bankroll/internal/dependencies/mocks"
	"github.com/mcoot/bankroll/internal/dependencies/random"
	"github.com/mcoot/bankroll/internal/model"
	"github.com/mcoot/bankroll/internal/services/auth"
	"github.com/mcoot/bankroll/internal/services/ledger"
	"github.com/mcoot/bankroll/internal/storage/memory"
	"github.com/mcoot/bankroll/internal/testutil"
)

type ImporterSuite struct {
	suite.Suite
	ctx      context.Context
	storage  *memory.Storage
	clock    *mocks.MockClock
	importer *Importer
}

func TestImporterSuite(t *testing.T) {
	suite.Run(t, new(ImporterSuite))
}

func (s *ImporterSuite) SetupTest() {
	s.ctx = context.Background()
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s.importer = NewImporter(s.storage, s.clock, testutil.NopLogger())
}

// writeFixture creates a legacy root with the given files, keyed by path
// relative to the root
func (s *ImporterSuite) writeFixture(files map[string]string) string {
	root := s.T().TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		s.Require().NoError(os.MkdirAll(filepath.Dir(path), 0o755))
		s.Require().NoError(os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func (s *ImporterSuite) TestImportFixture() {
	result, err := s.importer.Import(s.ctx, "testdata/basic", Options{})
	s.Require().NoError(err)

	s.Equal(2, result.Users)
	s.Equal(3, result.PokerSessions)
	s.Equal(2, result.Bets)
	s.Equal([]string{"bad user!"}, result.SkippedUsers)
	s.Zero(result.SkippedRows)

	alice, err := s.storage.GetUser(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1002.5, alice.PokerRating)
	s.Equal(1032.7, alice.SportsRating)
	s.Equal(s.clock.Now(), alice.CreatedAt)

	bob, err := s.storage.GetUser(s.ctx, "bob")
	s.Require().NoError(err)
	s.Equal(model.DefaultRating, bob.PokerRating)
	s.Equal(model.DefaultRating, bob.SportsRating)

	_, err = s.storage.GetUser(s.ctx, "bad user!")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *ImporterSuite) TestImportKeepsEntryOrderAndRecomputes() {
	_, err := s.importer.Import(s.ctx, "testdata/basic", Options{})
	s.Require().NoError(err)

	sessions, err := s.storage.LoadPokerSessions(s.ctx, "alice")
	s.Require().NoError(err)
	s.Require().Len(sessions, 3)

	s.Equal("Casino A", sessions[0].Location)
	s.Equal("Casino B", sessions[1].Location)
	s.Equal(time.Date(2024, 5, 2, 21, 0, 0, 500000000, time.UTC), sessions[2].Date)

	s.Equal(25.0, sessions[0].CumulativeProfit)
	s.Equal(15.0, sessions[1].CumulativeProfit)
	s.Equal(-35.0, sessions[2].CumulativeProfit)

	// stored deltas are kept; derived fields are recomputed
	s.Equal(8.75, sessions[0].RatingDelta)
	s.Equal(-6.25, sessions[2].RatingDelta)
	s.Equal(0.0, sessions[1].HourlyRate)
	s.Equal(-10.0, sessions[1].BBWon)
	s.NotEmpty(sessions[0].ID)

	bets, err := s.storage.LoadBets(s.ctx, "alice")
	s.Require().NoError(err)
	s.Require().Len(bets, 2)
	s.Equal("NBA", bets[0].Sport)
	s.Equal(3.0, bets[0].PickCount)
	s.Equal(15.2, bets[0].RatingDelta)
	s.Equal(-5.0, bets[1].CumulativeProfit)

	empty, err := s.storage.LoadPokerSessions(s.ctx, "bob")
	s.Require().NoError(err)
	s.Empty(empty)
}

func (s *ImporterSuite) TestImportedLegacyPasswordLogsInAndUpgrades() {
	_, err := s.importer.Import(s.ctx, "testdata/basic", Options{})
	s.Require().NoError(err)

	store, err := ledger.Open(s.ctx, s.storage, ledger.DefaultConfig(), testutil.NopLogger())
	s.Require().NoError(err)
	authService := auth.New(store, s.clock, random.New(), auth.Config{BcryptCost: bcrypt.MinCost}, testutil.NopLogger())

	_, err = authService.Login(s.ctx, "alice", "wrongpass")
	s.ErrorIs(err, auth.ErrInvalidCredentials)

	session, err := authService.Login(s.ctx, "alice", "secret123")
	s.Require().NoError(err)
	s.Equal("alice", session.Username)

	stored, err := s.storage.GetUser(s.ctx, "alice")
	s.Require().NoError(err)
	s.NoError(bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")))
	s.Equal(1002.5, stored.PokerRating)
}

func (s *ImporterSuite) TestExistingUsersSkippedUnlessOverwrite() {
	existing := model.NewUser("alice", "$2a$04$existing", s.clock.Now())
	existing.PokerRating = 1500
	s.Require().NoError(s.storage.SaveUser(s.ctx, existing))

	result, err := s.importer.Import(s.ctx, "testdata/basic", Options{})
	s.Require().NoError(err)
	s.Contains(result.SkippedUsers, "alice")
	s.Equal(1, result.Users)

	alice, err := s.storage.GetUser(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1500.0, alice.PokerRating)

	_, err = s.importer.Import(s.ctx, "testdata/basic", Options{Overwrite: true})
	s.Require().NoError(err)

	alice, err = s.storage.GetUser(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1002.5, alice.PokerRating)
}

func (s *ImporterSuite) TestDryRunWritesNothing() {
	result, err := s.importer.Import(s.ctx, "testdata/basic", Options{DryRun: true})
	s.Require().NoError(err)
	s.Equal(2, result.Users)

	users, err := s.storage.LoadUsers(s.ctx)
	s.Require().NoError(err)
	s.Empty(users)
}

func (s *ImporterSuite) TestInvalidRowsAreSkipped() {
	root := s.writeFixture(map[string]string{
		"userdata/users.json": `{"carol": {"password_hash": "pbkdf2:sha256:1000$salt$00ff", "elo": 990}}`,
		"userdata/poker_data_carol.csv": "date,location,small_blind,big_blind,buy_in,buy_out,duration,elo_change\n" +
			"2024-05-01 20:00:00,Home,0.5,1.0,20.0,30.0,1.0,12.5\n" +
			"2024-05-02 20:00:00,Home,0.5,0.0,20.0,30.0,1.0,0.0\n" +
			"not a date,Home,0.5,1.0,20.0,30.0,1.0,0.0\n" +
			"2024-05-02 21:00:00,Home,0.5,1.0,20.0,30.0,1.0,inf\n" +
			"2024-05-03 20:00:00,\"Home, upstairs\",0.5,1.0,20.0,10.0,-2.0,0.0\n" +
			"2024-05-04 20:00:00,\"Home, upstairs\",0.5,1.0,20.0,10.0,,-10.0\n",
	})

	result, err := s.importer.Import(s.ctx, root, Options{})
	s.Require().NoError(err)
	s.Equal(4, result.SkippedRows)
	s.Equal(2, result.PokerSessions)

	sessions, err := s.storage.LoadPokerSessions(s.ctx, "carol")
	s.Require().NoError(err)
	s.Require().Len(sessions, 2)
	s.Equal("Home, upstairs", sessions[1].Location)
	s.Equal(0.0, sessions[1].Duration)
	s.Equal(0.0, sessions[1].CumulativeProfit)
}

func (s *ImporterSuite) TestOverflowingLedgerSkipsUser() {
	root := s.writeFixture(map[string]string{
		"sportsdata/users.json": `{"erin": {"password_hash": "pbkdf2:sha256:1000$salt$00ff", "elo": 1000}}`,
		"sportsdata/bet_data_erin.csv": "date,sport,# picks,bet amount,amountwonlost,elochange\n" +
			"2024-05-01 20:00:00,NBA,1,1e308,5,7.5\n" +
			"2024-05-02 20:00:00,NBA,1,1e308,5,7.5\n",
	})

	result, err := s.importer.Import(s.ctx, root, Options{})
	s.Require().NoError(err)
	s.Equal([]string{"erin"}, result.SkippedUsers)
	s.Zero(result.Users)

	users, err := s.storage.LoadUsers(s.ctx)
	s.Require().NoError(err)
	s.Empty(users)
}

func (s *ImporterSuite) TestMissingColumnFails() {
	root := s.writeFixture(map[string]string{
		"sportsdata/users.json":        `{"dave": {"password_hash": "pbkdf2:sha256:1000$salt$00ff", "elo": 1000}}`,
		"sportsdata/bet_data_dave.csv": "date,sport,bet amount\n2024-05-01 20:00:00,NBA,10\n",
	})

	_, err := s.importer.Import(s.ctx, root, Options{})
	s.ErrorContains(err, `missing column "# picks"`)

	users, err := s.storage.LoadUsers(s.ctx)
	s.Require().NoError(err)
	s.Empty(users)
}

func (s *ImporterSuite) TestEmptyRootImportsNothing() {
	result, err := s.importer.Import(s.ctx, s.T().TempDir(), Options{})
	s.Require().NoError(err)
	s.Zero(result.Users)
}
