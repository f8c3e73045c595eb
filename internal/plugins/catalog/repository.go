package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/keyxmakerx/zeromovies/internal/apperror"
)

// MovieRepository defines the data access contract for movies. Listing
// methods order newest first, ties in insertion order, and filter by a
// case-insensitive title substring when query is non-empty.
type MovieRepository interface {
	Create(ctx context.Context, movie *Movie) error
	FindByID(ctx context.Context, id string) (*Movie, error)
	Count(ctx context.Context, query string) (int, error)
	List(ctx context.Context, query string, offset, limit int) ([]Movie, error)
	ListAll(ctx context.Context) ([]Movie, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// movieRepository implements MovieRepository with hand-written MariaDB
// queries. The seq column preserves insertion order for equal timestamps.
type movieRepository struct {
	db *sql.DB
}

// NewMovieRepository creates a new movie repository backed by the given DB pool.
func NewMovieRepository(db *sql.DB) MovieRepository {
	return &movieRepository{db: db}
}

const movieColumns = `id, title, description, thumbnail_url, video_url, download_url, created_at`

// Create inserts a new movie row.
func (r *movieRepository) Create(ctx context.Context, movie *Movie) error {
	query := `INSERT INTO movies (id, title, description, thumbnail_url, video_url, download_url, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		movie.ID,
		movie.Title,
		movie.Description,
		movie.ThumbnailURL,
		movie.VideoURL,
		movie.DownloadURL,
		movie.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting movie: %w", err)
	}
	return nil
}

// FindByID retrieves a movie by its UUID.
func (r *movieRepository) FindByID(ctx context.Context, id string) (*Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = ?`

	m := &Movie{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.Title, &m.Description, &m.ThumbnailURL, &m.VideoURL, &m.DownloadURL, &m.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("movie not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying movie by id: %w", err)
	}
	return m, nil
}

// Count returns how many movies match query.
func (r *movieRepository) Count(ctx context.Context, query string) (int, error) {
	where, args := titleFilter(query)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("counting movies: %w", err)
	}
	return total, nil
}

// List returns one window of the matching movies.
func (r *movieRepository) List(ctx context.Context, query string, offset, limit int) ([]Movie, error) {
	where, args := titleFilter(query)
	args = append(args, limit, offset)

	q := `SELECT ` + movieColumns + ` FROM movies` + where +
		` ORDER BY created_at DESC, seq ASC LIMIT ? OFFSET ?`
	return r.query(ctx, q, args...)
}

// ListAll returns every movie, newest first.
func (r *movieRepository) ListAll(ctx context.Context) ([]Movie, error) {
	q := `SELECT ` + movieColumns + ` FROM movies ORDER BY created_at DESC, seq ASC`
	return r.query(ctx, q)
}

// Delete removes a movie and reports whether a row existed.
func (r *movieRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting movie: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading affected rows: %w", err)
	}
	return n > 0, nil
}

func (r *movieRepository) query(ctx context.Context, q string, args ...any) ([]Movie, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing movies: %w", err)
	}
	defer rows.Close()

	movies := []Movie{}
	for rows.Next() {
		var m Movie
		if err := rows.Scan(
			&m.ID, &m.Title, &m.Description, &m.ThumbnailURL, &m.VideoURL, &m.DownloadURL, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning movie row: %w", err)
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// likeEscaper escapes LIKE wildcards so the query matches literally.
var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

// titleFilter builds the WHERE clause for a title search. The binary
// collation keeps the match accent-sensitive; LOWER on both sides makes it
// case-insensitive, matching the file backend.
func titleFilter(query string) (string, []any) {
	if query == "" {
		return "", nil
	}
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	return ` WHERE LOWER(title COLLATE utf8mb4_bin) LIKE ? ESCAPE '!'`, []any{pattern}
}
