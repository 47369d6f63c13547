package service_test

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/vocabloom/vocabloom-api/internal/domain"
	"github.com/vocabloom/vocabloom-api/internal/platform/dictionary"
	"github.com/vocabloom/vocabloom-api/internal/quiz"
	"github.com/vocabloom/vocabloom-api/internal/store"
)

// fakeWordStore is an in-memory store.WordStore for service tests.
type fakeWordStore struct {
	mu    sync.Mutex
	words map[uuid.UUID]*domain.Word

	failCreate error

	// getByTextMisses forces the next N GetByText calls to miss, used to
	// simulate an ingestion race.
	getByTextMisses int
}

func newFakeWordStore(words ...*domain.Word) *fakeWordStore {
	s := &fakeWordStore{words: map[uuid.UUID]*domain.Word{}}
	for _, w := range words {
		s.words[w.ID] = w
	}
	return s
}

func (s *fakeWordStore) Create(ctx context.Context, word *domain.Word) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreate != nil {
		return s.failCreate
	}
	for _, w := range s.words {
		if w.Text == word.Text {
			return store.ErrWordExists
		}
	}
	s.words[word.ID] = word
	return nil
}

func (s *fakeWordStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.words[id]; ok {
		return w, nil
	}
	return nil, store.ErrWordNotFound
}

func (s *fakeWordStore) GetByText(ctx context.Context, text string) (*domain.Word, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getByTextMisses > 0 {
		s.getByTextMisses--
		return nil, store.ErrWordNotFound
	}
	for _, w := range s.words {
		if w.Text == text {
			return w, nil
		}
	}
	return nil, store.ErrWordNotFound
}

func (s *fakeWordStore) List(
	ctx context.Context,
	query store.ListWordsQuery,
) ([]*domain.Word, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*domain.Word
	for _, w := range s.words {
		if query.Level != "" && w.Level != query.Level {
			continue
		}
		if query.Difficulty > 0 && w.Difficulty != query.Difficulty {
			continue
		}
		matched = append(matched, w)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Text < matched[j].Text })

	total := len(matched)
	if query.Offset >= len(matched) {
		return []*domain.Word{}, total, nil
	}
	matched = matched[query.Offset:]
	if query.Limit > 0 && len(matched) > query.Limit {
		matched = matched[:query.Limit]
	}
	return matched, total, nil
}

func (s *fakeWordStore) Random(
	ctx context.Context,
	level domain.Level,
	count int,
) ([]*domain.Word, error) {
	words, _, err := s.List(ctx, store.ListWordsQuery{Level: level, Limit: count})
	return words, err
}

func (s *fakeWordStore) SampleByLevel(
	ctx context.Context,
	level domain.Level,
	excludeID uuid.UUID,
	limit int,
	requireImage bool,
) ([]*domain.Word, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Word
	for _, w := range s.words {
		if w.Level != level || w.ID == excludeID {
			continue
		}
		if requireImage && w.ImageURL == "" {
			continue
		}
		out = append(out, w)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeWordStore) WithTx(tx *sql.Tx) store.WordStore { return s }

// fakeUserWordStore is an in-memory store.UserWordStore for service tests.
// Words attached via attach() are joined by ListWithWords.
type fakeUserWordStore struct {
	mu     sync.Mutex
	states map[uuid.UUID]*domain.UserWord
	words  map[uuid.UUID]*domain.Word // keyed by word ID

	failList error
}

func newFakeUserWordStore() *fakeUserWordStore {
	return &fakeUserWordStore{
		states: map[uuid.UUID]*domain.UserWord{},
		words:  map[uuid.UUID]*domain.Word{},
	}
}

func (s *fakeUserWordStore) attach(state *domain.UserWord, word *domain.Word) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.ID] = state
	if word != nil {
		s.words[word.ID] = word
	}
}

func (s *fakeUserWordStore) Create(ctx context.Context, state *domain.UserWord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.states {
		if existing.LearnerID == state.LearnerID && existing.WordID == state.WordID {
			return store.ErrUserWordExists
		}
	}
	if _, ok := s.words[state.WordID]; !ok {
		return store.ErrInvalidEntity
	}
	s.states[state.ID] = state.Clone()
	return nil
}

func (s *fakeUserWordStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserWord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.states[id]; ok {
		return state.Clone(), nil
	}
	return nil, store.ErrUserWordNotFound
}

func (s *fakeUserWordStore) GetByIDForUpdate(
	ctx context.Context,
	id uuid.UUID,
) (*domain.UserWord, error) {
	return s.GetByID(ctx, id)
}

func (s *fakeUserWordStore) GetByLearnerAndWord(
	ctx context.Context,
	learnerID string,
	wordID uuid.UUID,
) (*domain.UserWord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, state := range s.states {
		if state.LearnerID == learnerID && state.WordID == wordID {
			return state.Clone(), nil
		}
	}
	return nil, store.ErrUserWordNotFound
}

func (s *fakeUserWordStore) ListByLearner(
	ctx context.Context,
	learnerID string,
	status domain.WordStatus,
) ([]*domain.UserWord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.UserWord
	for _, state := range s.states {
		if state.LearnerID != learnerID {
			continue
		}
		if status != "" && state.Status != status {
			continue
		}
		out = append(out, state.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeUserWordStore) ListWithWords(
	ctx context.Context,
	learnerID string,
) ([]quiz.LearnerWord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failList != nil {
		return nil, s.failList
	}

	var out []quiz.LearnerWord
	for _, state := range s.states {
		if state.LearnerID != learnerID {
			continue
		}
		word, ok := s.words[state.WordID]
		if !ok {
			continue
		}
		out = append(out, quiz.LearnerWord{State: state.Clone(), Word: word})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].State.CreatedAt.Before(out[j].State.CreatedAt)
	})
	return out, nil
}

func (s *fakeUserWordStore) Update(ctx context.Context, state *domain.UserWord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.states[state.ID]; !ok {
		return store.ErrUserWordNotFound
	}
	s.states[state.ID] = state.Clone()
	return nil
}

func (s *fakeUserWordStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.states[id]; !ok {
		return store.ErrUserWordNotFound
	}
	delete(s.states, id)
	return nil
}

func (s *fakeUserWordStore) WithTx(tx *sql.Tx) store.UserWordStore { return s }

// fakeProgressStore is an in-memory store.ProgressStore for service tests.
type fakeProgressStore struct {
	mu      sync.Mutex
	records map[string]*domain.LearnerProgress
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{records: map[string]*domain.LearnerProgress{}}
}

func (s *fakeProgressStore) Get(
	ctx context.Context,
	learnerID string,
) (*domain.LearnerProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.records[learnerID]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, store.ErrProgressNotFound
}

func (s *fakeProgressStore) Upsert(
	ctx context.Context,
	progress *domain.LearnerProgress,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *progress
	s.records[progress.LearnerID] = &clone
	return nil
}

func (s *fakeProgressStore) WithTx(tx *sql.Tx) store.ProgressStore { return s }

// fakeDictionary serves canned dictionary payloads.
type fakeDictionary struct {
	data map[string]*dictionary.WordData
	err  error
}

func (d *fakeDictionary) Fetch(ctx context.Context, word string) (*dictionary.WordData, error) {
	if d.err != nil {
		return nil, d.err
	}
	if data, ok := d.data[word]; ok {
		return data, nil
	}
	return nil, dictionary.ErrWordNotFound
}

// fakeImages returns a fixed image URL.
type fakeImages struct {
	url   string
	calls int
}

func (i *fakeImages) FetchImage(ctx context.Context, query string) string {
	i.calls++
	return i.url
}
