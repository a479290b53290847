package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/mcoot/bankroll/internal/model"
)

// Mutation derives the next ledger from the current one and returns the
// change to apply to the owner's rating. current is a private copy.
type Mutation[R any] func(current []R) (next []R, ratingChange float64, err error)

// Book is one subsystem's ledgers, keyed by username
type Book[R model.Record[R]] struct {
	store   *Store
	name    string
	entries map[string][]R // guarded by store.mu

	load   func(ctx context.Context, username string) ([]R, error)
	save   func(ctx context.Context, username string, records []R) error
	rating func(u *model.User) *float64
}

func newBook[R model.Record[R]](
	store *Store,
	name string,
	load func(ctx context.Context, username string) ([]R, error),
	save func(ctx context.Context, username string, records []R) error,
	rating func(u *model.User) *float64,
) *Book[R] {
	return &Book[R]{
		store:   store,
		name:    name,
		entries: make(map[string][]R),
		load:    load,
		save:    save,
		rating:  rating,
	}
}

func (b *Book[R]) warm(ctx context.Context, username string) error {
	records, err := b.load(ctx, username)
	if err != nil {
		return fmt.Errorf("loading %s ledger for %s: %w", b.name, username, err)
	}
	records = Recompute(records)

	b.store.mu.Lock()
	b.entries[username] = records
	b.store.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the user's ledger in entry order together with
// the user's current rating for this book
func (b *Book[R]) Snapshot(username string) ([]R, float64, error) {
	lock, err := b.store.lockFor(username)
	if err != nil {
		return nil, 0, err
	}
	lock.RLock()
	defer lock.RUnlock()

	b.store.mu.RLock()
	defer b.store.mu.RUnlock()
	records := make([]R, len(b.entries[username]))
	copy(records, b.entries[username])
	user := *b.store.users[username]
	return records, *b.rating(&user), nil
}

// Apply runs mutate against the user's ledger, persists the result and the
// adjusted rating, then commits both in memory. If mutate or persistence
// fails nothing changes in memory. A mutation that does not shrink the ledger
// is refused with ErrInvalidInput when its totals or the rating would stop
// being finite.
func (b *Book[R]) Apply(ctx context.Context, username string, mutate Mutation[R]) error {
	lock, err := b.store.lockFor(username)
	if err != nil {
		return err
	}
	lock.Lock()
	defer lock.Unlock()

	b.store.mu.RLock()
	current := b.entries[username]
	user := *b.store.users[username]
	b.store.mu.RUnlock()

	working := make([]R, len(current))
	copy(working, current)
	next, change, err := mutate(working)
	if err != nil {
		return err
	}
	if len(next) >= len(current) && !Bounded(next) {
		return model.ErrInvalidInput
	}
	rating := b.rating(&user)
	if math.IsNaN(change) || math.IsInf(change, 0) || math.IsInf(*rating+change, 0) {
		return model.ErrInvalidInput
	}
	*rating += change

	if err := b.save(ctx, username, next); err != nil {
		return fmt.Errorf("saving %s ledger: %w", b.name, err)
	}
	if err := b.store.storage.SaveUser(ctx, &user); err != nil {
		if rerr := b.save(ctx, username, current); rerr != nil {
			b.store.logger.Error("failed to restore ledger after user save failure",
				slog.String("book", b.name),
				slog.String("username", username),
				slog.String("error", rerr.Error()),
			)
		}
		return fmt.Errorf("saving user: %w", err)
	}

	b.store.mu.Lock()
	b.entries[username] = next
	b.store.users[username] = &user
	b.store.mu.Unlock()
	return nil
}
