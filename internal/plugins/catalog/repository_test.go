package catalog

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/keyxmakerx/zeromovies/internal/apperror"
)

func newMockMovieRepo(t *testing.T) (MovieRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMovieRepository(db), mock
}

var movieRowColumns = []string{"id", "title", "description", "thumbnail_url", "video_url", "download_url", "created_at"}

func TestMovieRepository_ListFiltersAndOrders(t *testing.T) {
	repo, mock := newMockMovieRepo(t)
	created := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM movies WHERE LOWER(title COLLATE utf8mb4_bin) LIKE ? ESCAPE '!' ORDER BY created_at DESC, seq ASC LIMIT ? OFFSET ?")).
		WithArgs("%matrix%", 12, 24).
		WillReturnRows(sqlmock.NewRows(movieRowColumns).
			AddRow("m1", "The Matrix", "d", "t", "v", "dl", created))

	movies, err := repo.List(context.Background(), "MaTrIx", 24, 12)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	require.Equal(t, "The Matrix", movies[0].Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepository_SearchEscapesWildcards(t *testing.T) {
	repo, mock := newMockMovieRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM movies WHERE LOWER(title COLLATE utf8mb4_bin) LIKE ?")).
		WithArgs("%100!%!_off!!%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	n, err := repo.Count(context.Background(), "100%_OFF!")
	require.NoError(t, err)
	require.Zero(t, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepository_SearchIsAccentSensitive(t *testing.T) {
	repo, mock := newMockMovieRepo(t)

	// The table collation folds accents, so the filter must override it.
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM movies WHERE LOWER(title COLLATE utf8mb4_bin) LIKE ? ESCAPE '!'")).
		WithArgs("%café%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	n, err := repo.Count(context.Background(), "CAFÉ")
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepository_UnfilteredQueriesHaveNoWhere(t *testing.T) {
	repo, mock := newMockMovieRepo(t)

	mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM movies$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta("FROM movies ORDER BY created_at DESC, seq ASC")).
		WillReturnRows(sqlmock.NewRows(movieRowColumns))

	n, err := repo.Count(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, 7, n)

	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.NotNil(t, all)
	require.Empty(t, all)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepository_FindByIDNotFound(t *testing.T) {
	repo, mock := newMockMovieRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM movies WHERE id = ?")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(movieRowColumns))

	_, err := repo.FindByID(context.Background(), "missing")
	require.True(t, apperror.IsCode(err, 404), "got %v", err)
}

func TestMovieRepository_DeleteReportsExistence(t *testing.T) {
	repo, mock := newMockMovieRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM movies WHERE id = ?")).
		WithArgs("m1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM movies WHERE id = ?")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	removed, err := repo.Delete(context.Background(), "m1")
	require.NoError(t, err)
	require.True(t, removed)

	removed, err = repo.Delete(context.Background(), "missing")
	require.NoError(t, err)
	require.False(t, removed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepository_Create(t *testing.T) {
	repo, mock := newMockMovieRepo(t)
	m := &Movie{ID: "m1", Title: "t", Description: "d", ThumbnailURL: "th", VideoURL: "v", DownloadURL: "dl", CreatedAt: time.Now()}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO movies")).
		WithArgs(m.ID, m.Title, m.Description, m.ThumbnailURL, m.VideoURL, m.DownloadURL, m.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), m))
	require.NoError(t, mock.ExpectationsWereMet())
}
