package sales

import (
	"go.uber.org/zap"

	"github.com/teranos/barista/errors"
	"github.com/teranos/barista/logger"
)

// Series is the in-memory sales history mirrored to a Store.
// It is not safe for concurrent use; the engine serializes access.
type Series struct {
	store        Store
	seedIfAbsent bool
	observations []Observation
	logger       *zap.SugaredLogger
}

// SeriesOption configures a Series
type SeriesOption func(*Series)

// WithoutSeeding makes LoadOrSeed fail with a storage error when the file is
// missing instead of writing the default history.
func WithoutSeeding() SeriesOption {
	return func(s *Series) {
		s.seedIfAbsent = false
	}
}

// NewSeries wraps store. Call LoadOrSeed before reading.
func NewSeries(store Store, log *zap.SugaredLogger, opts ...SeriesOption) *Series {
	if log == nil {
		log = logger.Logger
	}
	s := &Series{store: store, seedIfAbsent: true, logger: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadOrSeed replaces the in-memory history with the durable copy.
// When no copy exists the default seed is written first.
func (s *Series) LoadOrSeed() ([]Observation, error) {
	exists, err := s.store.Exists()
	if err != nil {
		return nil, err
	}

	if !exists {
		if !s.seedIfAbsent {
			return nil, errors.WithHint(
				errors.NewStorageError("sales file not found"),
				"create the file or set sales.seed = true")
		}
		seed := Seed()
		if err := s.store.Save(seed); err != nil {
			return nil, errors.Wrap(err, "failed to write seed history")
		}
		s.observations = seed
		s.logger.Infow("Seeded sales history", logger.FieldCount, len(seed))
		return s.Snapshot(), nil
	}

	observations, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	s.observations = observations
	s.logger.Infow("Loaded sales history", logger.FieldCount, len(observations))
	return s.Snapshot(), nil
}

// Append records a new observation. The whole history is persisted first and
// only committed in memory once the write succeeded.
func (s *Series) Append(o Observation) error {
	if err := o.Validate(); err != nil {
		return err
	}

	next := make([]Observation, len(s.observations), len(s.observations)+1)
	copy(next, s.observations)
	next = append(next, o)

	if err := s.store.Save(next); err != nil {
		return errors.Wrapf(err, "failed to persist day %d", o.DayIndex)
	}
	s.observations = next

	s.logger.Infow("Recorded sales",
		logger.FieldDayIndex, o.DayIndex,
		logger.FieldCupsSold, o.CupsSold,
		logger.FieldCount, len(next))
	return nil
}

// Snapshot returns a copy of the history in entry order
func (s *Series) Snapshot() []Observation {
	out := make([]Observation, len(s.observations))
	copy(out, s.observations)
	return out
}

// Len returns the number of observations
func (s *Series) Len() int {
	return len(s.observations)
}

// NextDayIndex is the default day to forecast: one past the number of rows.
// It is not the latest day index plus one; with gaps or duplicate days the
// two differ, and the row count is what the forecast screen has always used.
func (s *Series) NextDayIndex() int {
	return len(s.observations) + 1
}

// Tail returns the last n observations in entry order.
// n <= 0 returns an empty slice; n larger than the history returns all of it.
func (s *Series) Tail(n int) []Observation {
	if n <= 0 {
		return []Observation{}
	}
	if n > len(s.observations) {
		n = len(s.observations)
	}
	out := make([]Observation, n)
	copy(out, s.observations[len(s.observations)-n:])
	return out
}
