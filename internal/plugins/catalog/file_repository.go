package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/keyxmakerx/zeromovies/internal/apperror"
	"github.com/keyxmakerx/zeromovies/internal/store/filestore"
)

// fileMovieRepository implements MovieRepository on a JSON file collection
// by scanning records. The collection keeps insertion order, so a stable
// sort on created_at gives the required tie breaking.
type fileMovieRepository struct {
	movies *filestore.Collection[Movie]
}

// NewFileMovieRepository opens the movies collection under dataDir.
func NewFileMovieRepository(dataDir string) (MovieRepository, error) {
	movies, err := filestore.Open[Movie](dataDir, "movies")
	if err != nil {
		return nil, fmt.Errorf("opening movies collection: %w", err)
	}
	return &fileMovieRepository{movies: movies}, nil
}

func (r *fileMovieRepository) Create(_ context.Context, movie *Movie) error {
	if err := r.movies.Put(*movie); err != nil {
		return fmt.Errorf("storing movie: %w", err)
	}
	return nil
}

func (r *fileMovieRepository) FindByID(_ context.Context, id string) (*Movie, error) {
	m, ok := r.movies.Get(id)
	if !ok {
		return nil, apperror.NewNotFound("movie not found")
	}
	return &m, nil
}

func (r *fileMovieRepository) Count(_ context.Context, query string) (int, error) {
	return len(r.matching(query)), nil
}

func (r *fileMovieRepository) List(_ context.Context, query string, offset, limit int) ([]Movie, error) {
	movies := r.matching(query)
	if offset < 0 || offset >= len(movies) || limit < 1 {
		return []Movie{}, nil
	}
	end := min(offset+limit, len(movies))
	return movies[offset:end], nil
}

func (r *fileMovieRepository) ListAll(_ context.Context) ([]Movie, error) {
	return r.matching(""), nil
}

func (r *fileMovieRepository) Delete(_ context.Context, id string) (bool, error) {
	removed, err := r.movies.Delete(id)
	if err != nil {
		return false, fmt.Errorf("deleting movie: %w", err)
	}
	return removed, nil
}

// matching returns the filtered movies, newest first.
func (r *fileMovieRepository) matching(query string) []Movie {
	var movies []Movie
	if query == "" {
		movies = r.movies.List()
	} else {
		needle := strings.ToLower(query)
		movies = r.movies.FindAll(func(m Movie) bool {
			return strings.Contains(strings.ToLower(m.Title), needle)
		})
	}

	sort.SliceStable(movies, func(i, j int) bool {
		return movies[i].CreatedAt.After(movies[j].CreatedAt)
	})
	if movies == nil {
		movies = []Movie{}
	}
	return movies
}
