package movies

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"MovieStore/pkg/kit"
)

const (
	maxBodyBytes = 1 << 20
	readyTimeout = 1 * time.Second

	msgNotFound = "Movie not found"
)

type Server struct {
	Store Store
	Log   *zap.Logger
}

// movieReq is the create/update body. Any "id" the client sends is dropped
// by the decoder; ids are only ever assigned by the store.
type movieReq struct {
	Title    *string `json:"title"`
	Director *string `json:"director"`
}

var (
	errExtraData     = errors.New("extra data after json object")
	errFieldsMissing = errors.New("title/director required")
)

// mount registers the movie routes on r. writeMW, when non-nil, wraps the
// mutating routes only.
func (s *Server) mount(r chi.Router, writeMW func(http.Handler) http.Handler) {
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.ready)

	r.Route("/movies", func(mr chi.Router) {
		mr.Get("/", s.list)
		mr.Get("/{id}", s.get)

		mr.Group(func(wr chi.Router) {
			if writeMW != nil {
				wr.Use(writeMW)
			}
			wr.Post("/", s.create)
			wr.Put("/{id}", s.update)
			wr.Delete("/{id}", s.delete)
		})
	})
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		s.logger().Warn("readyz failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	movies, err := s.Store.List(r.Context())
	if err != nil {
		s.serverError(w, r, "list movies failed", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, movies)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(r)
	if !ok {
		kit.WriteText(w, r, http.StatusNotFound, msgNotFound)
		return
	}

	m, err := s.Store.Get(r.Context(), id)
	if err != nil {
		s.storeError(w, r, "get movie failed", id, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, m)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	req, err := decodeMovieRequest(w, r)
	if err != nil {
		writeDecodeError(w, r, err)
		return
	}

	m, err := s.Store.Create(r.Context(), *req.Title, *req.Director)
	if err != nil {
		s.serverError(w, r, "create movie failed", err)
		return
	}

	w.Header().Set("Location", "/movies/"+m.ID)
	kit.WriteJSON(w, http.StatusCreated, m)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(r)
	if !ok {
		kit.WriteText(w, r, http.StatusNotFound, msgNotFound)
		return
	}

	req, err := decodeMovieRequest(w, r)
	if err != nil {
		writeDecodeError(w, r, err)
		return
	}

	m, err := s.Store.Update(r.Context(), id, *req.Title, *req.Director)
	if err != nil {
		s.storeError(w, r, "update movie failed", id, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, m)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(r)
	if !ok {
		kit.WriteText(w, r, http.StatusNotFound, msgNotFound)
		return
	}

	if err := s.Store.Delete(r.Context(), id); err != nil {
		s.storeError(w, r, "delete movie failed", id, err)
		return
	}
	kit.WriteNoContent(w)
}

// movieID returns the canonical form of the {id} path parameter. Anything
// that is not a uuid cannot name a movie.
func movieID(r *http.Request) (string, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func decodeMovieRequest(w http.ResponseWriter, r *http.Request) (movieReq, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)

	var req movieReq
	if err := dec.Decode(&req); err != nil {
		return movieReq{}, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return movieReq{}, errExtraData
	}
	if req.Title == nil || req.Director == nil {
		return movieReq{}, errFieldsMissing
	}

	return req, nil
}

func writeDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, errFieldsMissing):
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
	case errors.As(err, &tooLarge):
		kit.WriteError(w, r, http.StatusBadRequest, "body too large", map[string]any{"max_bytes": tooLarge.Limit})
	default:
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
	}
}

func (s *Server) storeError(w http.ResponseWriter, r *http.Request, msg, id string, err error) {
	if errors.Is(err, ErrNotFound) {
		kit.WriteText(w, r, http.StatusNotFound, msgNotFound)
		return
	}
	s.logger().Error(msg, zap.Error(err), zap.String("movie_id", id))
	kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.logger().Error(msg, zap.Error(err))
	kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
}

func (s *Server) logger() *zap.Logger {
	if s.Log != nil {
		return s.Log
	}
	return zap.NewNop()
}
