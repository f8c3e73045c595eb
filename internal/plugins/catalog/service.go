package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/keyxmakerx/zeromovies/internal/apperror"
)

// CatalogService defines the business logic contract for the catalog.
// Handlers call these methods; they never touch the repository directly.
type CatalogService interface {
	List(ctx context.Context, opts ListOptions) (*PageResult, error)
	ListAll(ctx context.Context) ([]Movie, error)
	Get(ctx context.Context, id string) (*Movie, error)
	Create(ctx context.Context, actor Actor, input CreateMovieInput) (*Movie, error)
	Delete(ctx context.Context, actor Actor, id string) (bool, error)
}

// catalogService implements CatalogService.
type catalogService struct {
	repo MovieRepository
	now  func() time.Time
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(repo MovieRepository) CatalogService {
	return &catalogService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// List returns one page of movies, newest first. Pages outside [1, Pages]
// are answered with no items rather than clamped.
func (s *catalogService) List(ctx context.Context, opts ListOptions) (*PageResult, error) {
	if opts.PerPage < 1 {
		return nil, apperror.NewBadRequest("per_page must be at least 1")
	}

	total, err := s.repo.Count(ctx, opts.Query)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("counting movies: %w", err))
	}

	pages := (total + opts.PerPage - 1) / opts.PerPage
	inRange := opts.Page >= 1 && opts.Page <= pages

	result := &PageResult{
		Items:   []Movie{},
		Page:    opts.Page,
		PerPage: opts.PerPage,
		Total:   total,
		Pages:   pages,
		HasPrev: opts.Page > 1,
		HasNext: inRange && opts.Page < pages,
		PrevNum: opts.Page - 1,
		NextNum: opts.Page + 1,
		Query:   opts.Query,
	}
	if !inRange {
		return result, nil
	}

	items, err := s.repo.List(ctx, opts.Query, (opts.Page-1)*opts.PerPage, opts.PerPage)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing movies: %w", err))
	}
	result.Items = items
	return result, nil
}

// ListAll returns every movie, newest first.
func (s *catalogService) ListAll(ctx context.Context) ([]Movie, error) {
	movies, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing movies: %w", err))
	}
	return movies, nil
}

// Get returns one movie or a NotFound error.
func (s *catalogService) Get(ctx context.Context, id string) (*Movie, error) {
	movie, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if apperror.IsCode(err, http.StatusNotFound) {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding movie: %w", err))
	}
	return movie, nil
}

// Create adds a movie. Only administrators may call it, and all five
// fields must be non-empty. Values are stored untrimmed.
func (s *catalogService) Create(ctx context.Context, actor Actor, input CreateMovieInput) (*Movie, error) {
	if actor == nil || !actor.CanManageCatalog() {
		return nil, apperror.NewForbidden("Admin access required")
	}

	movie := &Movie{
		ID:           uuid.NewString(),
		Title:        input.Title,
		Description:  input.Description,
		ThumbnailURL: input.ThumbnailURL,
		VideoURL:     input.VideoURL,
		DownloadURL:  input.DownloadURL,
		CreatedAt:    s.now(),
	}
	if !movie.fieldsPresent() {
		return nil, apperror.NewValidation("All fields are required")
	}

	if err := s.repo.Create(ctx, movie); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating movie: %w", err))
	}

	slog.Info("movie added",
		slog.String("movie_id", movie.ID),
		slog.String("title", movie.Title),
	)
	return movie, nil
}

// Delete removes a movie and reports whether it existed. Only
// administrators may call it.
func (s *catalogService) Delete(ctx context.Context, actor Actor, id string) (bool, error) {
	if actor == nil || !actor.CanManageCatalog() {
		return false, apperror.NewForbidden("Admin access required")
	}

	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, apperror.NewInternal(fmt.Errorf("deleting movie: %w", err))
	}
	if removed {
		slog.Info("movie deleted", slog.String("movie_id", id))
	}
	return removed, nil
}
