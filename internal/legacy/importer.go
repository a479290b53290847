// Package legacy imports data written by the original tracker: a users.json
// registry per subsystem and one CSV ledger per user and subsystem.
package legacy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/mcoot/bankroll/internal/dependencies/clock"
	"github.com/mcoot/bankroll/internal/model"
	"github.com/mcoot/bankroll/internal/services/auth"
	"github.com/mcoot/bankroll/internal/services/ledger"
	"github.com/mcoot/bankroll/internal/storage"
)

// Directory layout under the legacy root
const (
	PokerDir  = "userdata"
	SportsDir = "sportsdata"

	registryFile = "users.json"
)

// Options controls an import
type Options struct {
	// Overwrite replaces users that already exist in storage; otherwise they
	// are skipped
	Overwrite bool
	// DryRun parses everything but writes nothing
	DryRun bool
}

// Result summarises an import
type Result struct {
	Users         int
	PokerSessions int
	Bets          int
	// SkippedUsers lists usernames that were not imported
	SkippedUsers []string
	// SkippedRows counts ledger rows rejected by validation
	SkippedRows int
}

// Importer reads a legacy data directory into storage
type Importer struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// NewImporter creates an Importer writing to store
func NewImporter(store storage.Storage, clock clock.Clock, logger *slog.Logger) *Importer {
	return &Importer{
		storage: store,
		clock:   clock,
		logger:  logger,
	}
}

// registryEntry is one value of a legacy users.json
type registryEntry struct {
	PasswordHash string   `json:"password_hash"`
	Elo          *float64 `json:"elo"`
}

type userLedgers struct {
	user   *model.User
	poker  []model.PokerSession
	sports []model.Bet
}

// Import reads root and writes every valid user with their ledgers. Ratings
// come from the registries; cumulative profit is recomputed from entry order.
func (im *Importer) Import(ctx context.Context, root string, opts Options) (Result, error) {
	var result Result

	pokerRegistry, err := readRegistry(filepath.Join(root, PokerDir, registryFile))
	if err != nil {
		return result, err
	}
	sportsRegistry, err := readRegistry(filepath.Join(root, SportsDir, registryFile))
	if err != nil {
		return result, err
	}

	existing, err := im.storage.LoadUsers(ctx)
	if err != nil {
		return result, fmt.Errorf("loading existing users: %w", err)
	}

	now := im.clock.Now()
	var imported []userLedgers
	for _, username := range usernames(pokerRegistry, sportsRegistry) {
		entry, ok := pokerRegistry[username]
		if !ok || entry.PasswordHash == "" {
			entry = sportsRegistry[username]
		}

		if reason := im.skipReason(username, entry, existing, opts); reason != "" {
			im.logger.Warn("skipping legacy user",
				slog.String("username", username),
				slog.String("reason", reason),
			)
			result.SkippedUsers = append(result.SkippedUsers, username)
			continue
		}

		u := model.NewUser(username, entry.PasswordHash, now)
		if e, ok := pokerRegistry[username]; ok && e.Elo != nil {
			u.PokerRating = *e.Elo
		}
		if e, ok := sportsRegistry[username]; ok && e.Elo != nil {
			u.SportsRating = *e.Elo
		}

		sessions, skipped, err := readPokerLedger(filepath.Join(root, PokerDir, "poker_data_"+username+".csv"))
		if err != nil {
			return result, fmt.Errorf("user %s: %w", username, err)
		}
		im.logSkippedRows(username, "poker", skipped)
		result.SkippedRows += len(skipped)

		bets, skipped, err := readBetLedger(filepath.Join(root, SportsDir, "bet_data_"+username+".csv"))
		if err != nil {
			return result, fmt.Errorf("user %s: %w", username, err)
		}
		im.logSkippedRows(username, "sports", skipped)
		result.SkippedRows += len(skipped)

		if !ledger.Bounded(sessions) || !ledger.Bounded(bets) {
			im.logger.Warn("skipping legacy user",
				slog.String("username", username),
				slog.String("reason", "ledger totals overflow"),
			)
			result.SkippedUsers = append(result.SkippedUsers, username)
			continue
		}

		imported = append(imported, userLedgers{
			user:   u,
			poker:  ledger.Recompute(sessions),
			sports: ledger.Recompute(bets),
		})
		result.Users++
		result.PokerSessions += len(sessions)
		result.Bets += len(bets)
	}

	if opts.DryRun || len(imported) == 0 {
		return result, nil
	}

	// Ledgers are written before the registry so imported users never appear
	// without their data
	users := make(map[string]*model.User, len(imported))
	for _, ul := range imported {
		if err := im.storage.SavePokerSessions(ctx, ul.user.Username, ul.poker); err != nil {
			return result, fmt.Errorf("saving poker sessions for %s: %w", ul.user.Username, err)
		}
		if err := im.storage.SaveBets(ctx, ul.user.Username, ul.sports); err != nil {
			return result, fmt.Errorf("saving bets for %s: %w", ul.user.Username, err)
		}
		users[ul.user.Username] = ul.user
	}
	if err := im.storage.SaveUsers(ctx, users); err != nil {
		return result, fmt.Errorf("saving users: %w", err)
	}

	im.logger.Info("legacy import complete",
		slog.Int("users", result.Users),
		slog.Int("poker_sessions", result.PokerSessions),
		slog.Int("bets", result.Bets),
		slog.Int("skipped_users", len(result.SkippedUsers)),
		slog.Int("skipped_rows", result.SkippedRows),
	)
	return result, nil
}

func (im *Importer) skipReason(username string, entry registryEntry, existing map[string]*model.User, opts Options) string {
	switch {
	case auth.ValidateUsername(username) != nil:
		return "invalid username"
	case entry.PasswordHash == "":
		return "no password hash"
	case existing[username] != nil && !opts.Overwrite:
		return "already exists"
	}
	return ""
}

func (im *Importer) logSkippedRows(username, subsystem string, skipped []rowError) {
	for _, re := range skipped {
		im.logger.Warn("skipping legacy row",
			slog.String("username", username),
			slog.String("subsystem", subsystem),
			slog.Int("line", re.line),
			slog.String("error", re.err.Error()),
		)
	}
}

// readRegistry decodes a users.json; a missing file is an empty registry
func readRegistry(path string) (map[string]registryEntry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]registryEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	registry := make(map[string]registryEntry)
	if err := json.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return registry, nil
}

// usernames returns the union of both registries, sorted
func usernames(registries ...map[string]registryEntry) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range registries {
		for name := range r {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				out = append(out, name)
			}
		}
	}
	sort.Strings(out)
	return out
}
