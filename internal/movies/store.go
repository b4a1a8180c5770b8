package movies

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("movie not found")

type Movie struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Director string `json:"director"`
}

// Store owns the movie collection. Implementations must be safe for
// concurrent use and return copies, never references into their state.
type Store interface {
	List(ctx context.Context) ([]Movie, error)
	Get(ctx context.Context, id string) (Movie, error)
	Create(ctx context.Context, title, director string) (Movie, error)
	Update(ctx context.Context, id, title, director string) (Movie, error)
	Delete(ctx context.Context, id string) error
	Len(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}
