// Package selection keeps each shopper's cart, wishlist and theme in a
// durable key-value backend.
package selection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/storage"
)

type List string

const (
	Cart     List = "cart"
	Wishlist List = "wishlist"
)

var ErrUnknownList = errors.New("selection: unknown list")

// ErrClearFailed reports that Drain's callback succeeded but the list could
// not be deleted afterwards.
var ErrClearFailed = errors.New("selection: clear failed")

func ParseList(s string) (List, error) {
	switch l := List(strings.ToLower(strings.TrimSpace(s))); l {
	case Cart, Wishlist:
		return l, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownList, s)
	}
}

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"

	DefaultTheme = Dark
)

func (t Theme) Toggle() Theme {
	if t == Light {
		return Dark
	}
	return Light
}

// StorageReadError describes a read that failed and was treated as empty.
type StorageReadError struct {
	Key string
	Err error
}

func (e *StorageReadError) Error() string {
	return fmt.Sprintf("selection: read %s: %v", e.Key, e.Err)
}

func (e *StorageReadError) Unwrap() error { return e.Err }

type Counts struct {
	Cart     int
	Wishlist int
}

type Store struct {
	backend storage.Backend
	logger  *slog.Logger

	mu    sync.Mutex
	locks map[string]*shopperLock
}

// shopperLock is dropped from Store.locks once no caller holds or waits on it.
type shopperLock struct {
	mu   sync.Mutex
	refs int
}

func NewStore(backend storage.Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{backend: backend, logger: logger, locks: map[string]*shopperLock{}}
}

// Get returns the stored ids in insertion order. Missing, unreadable and
// corrupt values all read as an empty list.
func (s *Store) Get(ctx context.Context, shopper string, list List) []int {
	return s.read(ctx, key(shopper, string(list)))
}

// Add appends id unless it is already present. It reports whether the list
// changed.
func (s *Store) Add(ctx context.Context, shopper string, list List, id int) (bool, error) {
	unlock := s.lock(shopper)
	defer unlock()

	k := key(shopper, string(list))
	ids := s.read(ctx, k)
	if slices.Contains(ids, id) {
		return false, nil
	}
	if err := s.write(ctx, k, append(ids, id)); err != nil {
		return false, err
	}
	return true, nil
}

// Remove drops id. Removing an absent id is a no-op.
func (s *Store) Remove(ctx context.Context, shopper string, list List, id int) error {
	unlock := s.lock(shopper)
	defer unlock()

	k := key(shopper, string(list))
	ids := s.read(ctx, k)
	i := slices.Index(ids, id)
	if i < 0 {
		return nil
	}
	return s.write(ctx, k, slices.Delete(ids, i, i+1))
}

// Drain hands the list's ids to fn while holding the shopper's lock and
// deletes the list once fn returns nil. An error from fn is returned as is
// and leaves the list untouched. A failed delete wraps ErrClearFailed.
func (s *Store) Drain(ctx context.Context, shopper string, list List, fn func(ids []int) error) error {
	unlock := s.lock(shopper)
	defer unlock()

	k := key(shopper, string(list))
	if err := fn(s.read(ctx, k)); err != nil {
		return err
	}
	if err := s.backend.Delete(ctx, k); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrClearFailed, list, err)
	}
	return nil
}

func (s *Store) Counts(ctx context.Context, shopper string) Counts {
	return Counts{
		Cart:     len(s.Get(ctx, shopper, Cart)),
		Wishlist: len(s.Get(ctx, shopper, Wishlist)),
	}
}

func (s *Store) Theme(ctx context.Context, shopper string) Theme {
	k := key(shopper, "theme")
	raw, err := s.backend.Get(ctx, k)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.warn(ctx, &StorageReadError{Key: k, Err: err})
		}
		return DefaultTheme
	}
	var t Theme
	if err := json.Unmarshal(raw, &t); err != nil || (t != Light && t != Dark) {
		if err == nil {
			err = fmt.Errorf("unknown theme %q", t)
		}
		s.warn(ctx, &StorageReadError{Key: k, Err: err})
		return DefaultTheme
	}
	return t
}

func (s *Store) SetTheme(ctx context.Context, shopper string, t Theme) error {
	if t != Light && t != Dark {
		return fmt.Errorf("selection: unknown theme %q", t)
	}
	unlock := s.lock(shopper)
	defer unlock()
	return s.write(ctx, key(shopper, "theme"), t)
}

func (s *Store) ToggleTheme(ctx context.Context, shopper string) (Theme, error) {
	unlock := s.lock(shopper)
	defer unlock()

	next := s.Theme(ctx, shopper).Toggle()
	if err := s.write(ctx, key(shopper, "theme"), next); err != nil {
		return "", err
	}
	return next, nil
}

func (s *Store) read(ctx context.Context, k string) []int {
	raw, err := s.backend.Get(ctx, k)
	if errors.Is(err, storage.ErrNotFound) {
		return []int{}
	}
	if err != nil {
		s.warn(ctx, &StorageReadError{Key: k, Err: err})
		return []int{}
	}

	var ids []int
	if err := json.Unmarshal(raw, &ids); err != nil {
		s.warn(ctx, &StorageReadError{Key: k, Err: fmt.Errorf("decode: %w", err)})
		return []int{}
	}
	if ids == nil {
		ids = []int{}
	}
	return dedupe(ids)
}

func (s *Store) write(ctx context.Context, k string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("selection: encode %s: %w", k, err)
	}
	if err := s.backend.Put(ctx, k, raw); err != nil {
		return fmt.Errorf("selection: write %s: %w", k, err)
	}
	return nil
}

func (s *Store) warn(ctx context.Context, err *StorageReadError) {
	s.logger.LogAttrs(ctx, slog.LevelWarn, "selection_read_failed",
		slog.String("key", err.Key),
		slog.String("err", err.Err.Error()),
	)
}

func (s *Store) lock(shopper string) func() {
	s.mu.Lock()
	l, ok := s.locks[shopper]
	if !ok {
		l = &shopperLock{}
		s.locks[shopper] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, shopper)
		}
		s.mu.Unlock()
	}
}

func key(shopper, name string) string {
	return shopper + "/" + name
}

// dedupe keeps the first occurrence of every id. Hand-edited or legacy
// values may carry duplicates.
func dedupe(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
