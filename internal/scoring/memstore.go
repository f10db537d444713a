package scoring

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"
)

// MemoryStore is a Store held in process memory. WithTx runs one transaction
// at a time and restores the previous contents when fn fails. CreateMatch and
// AddTournament wait for a running transaction so a rollback cannot drop them;
// they must not be called from inside WithTx.
type MemoryStore struct {
	txMu sync.Mutex
	mu   sync.Mutex
	data memData
}

type memData struct {
	nextID      uint
	matches     map[uint]Match
	overs       map[uint]Over
	balls       map[uint]Ball
	results     map[uint]MatchResult // by match id
	tournaments map[uint]Tournament
	teams       map[uint][]uint // tournament id to team ids
	points      map[uint][]PointsTableEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: memData{
		matches:     make(map[uint]Match),
		overs:       make(map[uint]Over),
		balls:       make(map[uint]Ball),
		results:     make(map[uint]MatchResult),
		tournaments: make(map[uint]Tournament),
		teams:       make(map[uint][]uint),
		points:      make(map[uint][]PointsTableEntry),
	}}
}

func (d memData) clone() memData {
	c := d
	c.matches = maps.Clone(d.matches)
	c.overs = maps.Clone(d.overs)
	c.balls = maps.Clone(d.balls)
	c.results = maps.Clone(d.results)
	c.tournaments = maps.Clone(d.tournaments)
	c.teams = make(map[uint][]uint, len(d.teams))
	for k, v := range d.teams {
		c.teams[k] = append([]uint(nil), v...)
	}
	c.points = make(map[uint][]PointsTableEntry, len(d.points))
	for k, v := range d.points {
		c.points[k] = append([]PointsTableEntry(nil), v...)
	}
	return c
}

func (s *MemoryStore) id() uint {
	s.data.nextID++
	return s.data.nextID
}

func stampNew(m *gorm.Model, id uint) {
	now := time.Now().UTC()
	m.ID = id
	m.CreatedAt = now
	m.UpdatedAt = now
}

// AddTournament seeds a tournament and its accepted teams.
func (s *MemoryStore) AddTournament(t *Tournament, teamIDs ...uint) {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == 0 {
		stampNew(&t.Model, s.id())
	}
	s.data.tournaments[t.ID] = *t
	s.data.teams[t.ID] = append([]uint(nil), teamIDs...)
}

func (s *MemoryStore) CreateMatch(_ context.Context, m *Match) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	stampNew(&m.Model, s.id())
	s.data.matches[m.ID] = *m
	return nil
}

func (s *MemoryStore) GetMatch(_ context.Context, id uint) (*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.data.matches[id]
	if !ok {
		return nil, fmt.Errorf("match %d: %w", id, ErrRecordNotFound)
	}
	return &m, nil
}

func (s *MemoryStore) UpdateMatch(_ context.Context, m *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.matches[m.ID]; !ok {
		return fmt.Errorf("match %d: %w", m.ID, ErrRecordNotFound)
	}
	m.UpdatedAt = time.Now().UTC()
	s.data.matches[m.ID] = *m
	return nil
}

func (s *MemoryStore) CreateOver(_ context.Context, o *Over) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, x := range s.data.overs {
		if x.MatchID == o.MatchID && x.InningNumber == o.InningNumber && x.OverNumber == o.OverNumber {
			return fmt.Errorf("over %d of inning %d already exists", o.OverNumber, o.InningNumber)
		}
	}
	stampNew(&o.Model, s.id())
	s.data.overs[o.ID] = *o
	return nil
}

func (s *MemoryStore) UpdateOver(_ context.Context, o *Over) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.overs[o.ID]; !ok {
		return fmt.Errorf("over %d: %w", o.ID, ErrRecordNotFound)
	}
	o.UpdatedAt = time.Now().UTC()
	s.data.overs[o.ID] = *o
	return nil
}

func (s *MemoryStore) ListOvers(_ context.Context, matchID uint) ([]Over, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Over
	for _, o := range s.data.overs {
		if o.MatchID == matchID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].InningNumber != out[j].InningNumber {
			return out[i].InningNumber < out[j].InningNumber
		}
		return out[i].OverNumber < out[j].OverNumber
	})
	return out, nil
}

func (s *MemoryStore) CreateBall(_ context.Context, b *Ball) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, x := range s.data.balls {
		if x.OverID == b.OverID && x.Sequence == b.Sequence {
			return fmt.Errorf("ball %d of over %d already exists", b.Sequence, b.OverID)
		}
	}
	stampNew(&b.Model, s.id())
	s.data.balls[b.ID] = *b
	return nil
}

func (s *MemoryStore) ListBalls(_ context.Context, matchID uint) ([]Ball, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Ball
	for _, b := range s.data.balls {
		if b.MatchID == matchID {
			out = append(out, b)
		}
	}
	overNumber := func(b Ball) int { return s.data.overs[b.OverID].OverNumber }
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.InningNumber != b.InningNumber {
			return a.InningNumber < b.InningNumber
		}
		if a.OverID != b.OverID {
			return overNumber(a) < overNumber(b)
		}
		return a.Sequence < b.Sequence
	})
	return out, nil
}

func (s *MemoryStore) CreateResult(_ context.Context, r *MatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.results[r.MatchID]; ok {
		return fmt.Errorf("result for match %d already exists", r.MatchID)
	}
	stampNew(&r.Model, s.id())
	s.data.results[r.MatchID] = *r
	return nil
}

func (s *MemoryStore) GetResult(_ context.Context, matchID uint) (*MatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.data.results[matchID]
	if !ok {
		return nil, fmt.Errorf("result of match %d: %w", matchID, ErrRecordNotFound)
	}
	return &r, nil
}

func (s *MemoryStore) GetTournament(_ context.Context, id uint) (*Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.data.tournaments[id]
	if !ok {
		return nil, fmt.Errorf("tournament %d: %w", id, ErrRecordNotFound)
	}
	return &t, nil
}

func (s *MemoryStore) ListTournamentTeams(_ context.Context, tournamentID uint) ([]uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uint(nil), s.data.teams[tournamentID]...), nil
}

func (s *MemoryStore) ListCompletedMatches(_ context.Context, tournamentID uint) ([]Fixture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Fixture
	for _, m := range s.data.matches {
		if m.TournamentID == nil || *m.TournamentID != tournamentID || m.Status != StatusCompleted {
			continue
		}
		f := Fixture{Match: m}
		if r, ok := s.data.results[m.ID]; ok {
			f.Result = &r
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Match.ID < out[j].Match.ID })
	return out, nil
}

func (s *MemoryStore) ReplacePointsTable(_ context.Context, tournamentID uint, entries []PointsTableEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := append([]PointsTableEntry(nil), entries...)
	for i := range stored {
		stampNew(&stored[i].Model, s.id())
	}
	s.data.points[tournamentID] = stored
	return nil
}

func (s *MemoryStore) ListPointsTable(_ context.Context, tournamentID uint) ([]PointsTableEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]PointsTableEntry(nil), s.data.points[tournamentID]...), nil
}

func (s *MemoryStore) WithTx(_ context.Context, fn func(Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	saved := s.data.clone()
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.data = saved
		s.mu.Unlock()
		return err
	}
	return nil
}
