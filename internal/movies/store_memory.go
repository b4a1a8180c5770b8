package movies

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemStore keeps movies in insertion order behind one exclusive lock.
// Reads take the same lock as writes.
type MemStore struct {
	mu     sync.Mutex
	movies []Movie
	newID  func() string
}

type MemOption func(*MemStore)

// WithIDFunc replaces the uuid generator, mostly for tests.
func WithIDFunc(fn func() string) MemOption {
	return func(s *MemStore) { s.newID = fn }
}

func NewMemStore(opts ...MemOption) *MemStore {
	s := &MemStore{newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func NewStore() Store {
	return NewMemStore()
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context) ([]Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Movie, len(s.movies))
	copy(out, s.movies)
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id string) (Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Movie{}, ErrNotFound
	}
	return s.movies[i], nil
}

func (s *MemStore) Create(ctx context.Context, title, director string) (Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	for s.indexOf(id) >= 0 {
		id = s.newID()
	}

	m := Movie{ID: id, Title: title, Director: director}
	s.movies = append(s.movies, m)
	return m, nil
}

func (s *MemStore) Update(ctx context.Context, id, title, director string) (Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Movie{}, ErrNotFound
	}

	s.movies[i].Title = title
	s.movies[i].Director = director
	return s.movies[i], nil
}

func (s *MemStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}

	s.movies = append(s.movies[:i], s.movies[i+1:]...)
	return nil
}

func (s *MemStore) Len(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movies), nil
}

// indexOf must be called with mu held.
func (s *MemStore) indexOf(id string) int {
	for i := range s.movies {
		if s.movies[i].ID == id {
			return i
		}
	}
	return -1
}
