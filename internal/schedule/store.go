package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/awender/podlink/internal/infrastructure/database"
	"github.com/awender/podlink/internal/infrastructure/logging"
	"github.com/awender/podlink/internal/pod"
)

// Store persists committed weekly schedules, one row per side and
// weekday, with an in-memory cache in front of SQLite.
//
// The cache holds the latest committed week per side. Readers always
// get deep copies, so a caller can never mutate committed state; the
// only path that changes committed state is Commit.
//
// Thread Safety:
//   - All methods are safe for concurrent use. Writers to the same
//     side are expected to be serialized by the caller (the engine
//     holds a per-side lock around its read-merge-commit cycle).
type Store struct {
	db     *database.DB
	mu     sync.RWMutex
	cache  map[pod.SideIndex]WeeklySchedule
	loaded map[pod.SideIndex]bool
	logger *logging.Logger
}

// NewStore creates a schedule store backed by the given database.
func NewStore(db *database.DB) *Store {
	return &Store{
		db:     db,
		cache:  make(map[pod.SideIndex]WeeklySchedule),
		loaded: make(map[pod.SideIndex]bool),
	}
}

// SetLogger attaches a logger for store diagnostics.
func (s *Store) SetLogger(logger *logging.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logger
}

// Load returns the latest committed weekly schedule for a side.
//
// A side with no committed rows gets the empty week; schedules are
// created lazily and never reported as missing to callers.
func (s *Store) Load(ctx context.Context, side pod.SideIndex) (WeeklySchedule, error) {
	s.mu.RLock()
	if s.loaded[side] {
		week := s.cache[side].Clone()
		s.mu.RUnlock()
		return week, nil
	}
	s.mu.RUnlock()

	week, err := s.readSide(ctx, side)
	if err != nil {
		return WeeklySchedule{}, err
	}

	s.mu.Lock()
	// Another goroutine may have loaded (or committed) while we read;
	// the cached copy is authoritative in that case.
	if !s.loaded[side] {
		s.cache[side] = week.Clone()
		s.loaded[side] = true
	} else {
		week = s.cache[side].Clone()
	}
	s.mu.Unlock()

	return week, nil
}

// Commit atomically replaces the committed week for a side.
//
// All seven rows are written in one transaction; the cache is updated
// only after the transaction commits, so concurrent readers never see
// a partially written week.
func (s *Store) Commit(ctx context.Context, side pod.SideIndex, week WeeklySchedule) error {
	if !side.Valid() {
		return fmt.Errorf("schedule: commit for invalid side %d", int(side))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	now := time.Now().UTC().Format(time.RFC3339)
	for day := Monday; day <= Sunday; day++ {
		doc, err := json.Marshal(week[day])
		if err != nil {
			return fmt.Errorf("encoding day schedule: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO schedules (side, weekday, document, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(side, weekday) DO UPDATE SET
				document = excluded.document,
				updated_at = excluded.updated_at
		`, int(side), int(day), string(doc), now); err != nil {
			return fmt.Errorf("writing day %s: %w", day, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schedule: %w", err)
	}

	s.mu.Lock()
	s.cache[side] = week.Clone()
	s.loaded[side] = true
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Debug("schedule committed", "side", side.String())
	}
	return nil
}

// readSide reads all committed rows for a side from SQLite.
// Missing weekdays stay at their zero (empty) value.
func (s *Store) readSide(ctx context.Context, side pod.SideIndex) (WeeklySchedule, error) {
	var week WeeklySchedule

	rows, err := s.db.QueryContext(ctx,
		"SELECT weekday, document FROM schedules WHERE side = ?",
		int(side),
	)
	if err != nil {
		return week, fmt.Errorf("querying schedules: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var day int
		var doc string
		if err := rows.Scan(&day, &doc); err != nil {
			return week, fmt.Errorf("scanning schedule row: %w", err)
		}
		if day < 0 || day >= NumWeekdays {
			continue
		}
		var ds DaySchedule
		if err := json.Unmarshal([]byte(doc), &ds); err != nil {
			return week, fmt.Errorf("decoding day %d: %w", day, err)
		}
		week[day] = ds
	}
	if err := rows.Err(); err != nil {
		return week, fmt.Errorf("iterating schedules: %w", err)
	}

	return week, nil
}
