package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/keyxmakerx/zeromovies/internal/apperror"
)

// --- Test Helpers ---

// actor is a test Actor.
type actor bool

func (a actor) CanManageCatalog() bool { return bool(a) }

const (
	admin   = actor(true)
	visitor = actor(false)
)

// newTestService returns a service on a fresh file store whose clock
// advances one second per created movie, starting at base.
func newTestService(t *testing.T) (*catalogService, MovieRepository) {
	t.Helper()
	repo, err := NewFileMovieRepository(t.TempDir())
	if err != nil {
		t.Fatalf("opening movie repo: %v", err)
	}
	svc := NewCatalogService(repo).(*catalogService)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return svc, repo
}

func movieInput(title string) CreateMovieInput {
	return CreateMovieInput{
		Title:        title,
		Description:  "About " + title,
		ThumbnailURL: "https://img.example/" + title + ".jpg",
		VideoURL:     "https://video.example/" + title,
		DownloadURL:  "https://dl.example/" + title,
	}
}

func seed(t *testing.T, svc CatalogService, titles ...string) []*Movie {
	t.Helper()
	out := make([]*Movie, 0, len(titles))
	for _, title := range titles {
		m, err := svc.Create(context.Background(), admin, movieInput(title))
		if err != nil {
			t.Fatalf("creating %s: %v", title, err)
		}
		out = append(out, m)
	}
	return out
}

func assertAppError(t *testing.T, err error, expectedCode int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", expectedCode)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status %d, got %d (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

func titles(movies []Movie) []string {
	out := make([]string, len(movies))
	for i, m := range movies {
		out[i] = m.Title
	}
	return out
}

// --- List Tests ---

func TestList_NewestFirstAcrossPages(t *testing.T) {
	svc, _ := newTestService(t)
	seed(t, svc, "day1", "day2", "day3")

	first, err := svc.List(context.Background(), ListOptions{Page: 1, PerPage: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := titles(first.Items); fmt.Sprint(got) != "[day3 day2]" {
		t.Errorf("page 1: got %v", got)
	}
	if !first.HasNext || first.HasPrev || first.Pages != 2 || first.Total != 3 {
		t.Errorf("page 1 flags: %+v", first)
	}

	second, err := svc.List(context.Background(), ListOptions{Page: 2, PerPage: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := titles(second.Items); fmt.Sprint(got) != "[day1]" {
		t.Errorf("page 2: got %v", got)
	}
	if second.HasNext || !second.HasPrev || second.PrevNum != 1 || second.NextNum != 3 {
		t.Errorf("page 2 flags: %+v", second)
	}
}

func TestList_PageSizesAddUp(t *testing.T) {
	for _, n := range []int{0, 1, 11, 12, 13, 25, 36} {
		t.Run(fmt.Sprintf("%d movies", n), func(t *testing.T) {
			svc, _ := newTestService(t)
			for i := 0; i < n; i++ {
				seed(t, svc, fmt.Sprintf("m%02d", i))
			}

			first, err := svc.List(context.Background(), ListOptions{Page: 1, PerPage: 12})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			wantPages := (n + 11) / 12
			if first.Pages != wantPages {
				t.Fatalf("expected %d pages, got %d", wantPages, first.Pages)
			}

			seen := map[string]bool{}
			sum := 0
			for p := 1; p <= first.Pages; p++ {
				res, err := svc.List(context.Background(), ListOptions{Page: p, PerPage: 12})
				if err != nil {
					t.Fatalf("page %d: %v", p, err)
				}
				if len(res.Items) > 12 {
					t.Errorf("page %d has %d items", p, len(res.Items))
				}
				for _, m := range res.Items {
					if seen[m.ID] {
						t.Errorf("movie %s appears twice", m.Title)
					}
					seen[m.ID] = true
				}
				sum += len(res.Items)
			}
			if sum != n {
				t.Errorf("expected %d items across pages, got %d", n, sum)
			}
		})
	}
}

func TestList_OutOfRangePagesAreNotClamped(t *testing.T) {
	svc, _ := newTestService(t)
	seed(t, svc, "a", "b", "c")

	beyond, err := svc.List(context.Background(), ListOptions{Page: 5, PerPage: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(beyond.Items) != 0 || beyond.HasNext || !beyond.HasPrev || beyond.Page != 5 {
		t.Errorf("page beyond end: %+v", beyond)
	}

	zero, err := svc.List(context.Background(), ListOptions{Page: 0, PerPage: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(zero.Items) != 0 || zero.HasNext || zero.HasPrev {
		t.Errorf("page zero: %+v", zero)
	}
}

func TestList_EmptyCatalog(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.List(context.Background(), ListOptions{Page: 1, PerPage: 12})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Items == nil || len(res.Items) != 0 || res.Pages != 0 || res.HasNext || res.HasPrev {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestList_InvalidPerPage(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.List(context.Background(), ListOptions{Page: 1, PerPage: 0})
	assertAppError(t, err, 400)
}

func TestList_SearchMatchesTitleOnlyIgnoringCase(t *testing.T) {
	svc, _ := newTestService(t)
	seed(t, svc, "The Matrix", "Matrix Reloaded", "Inception")

	res, err := svc.List(context.Background(), ListOptions{Page: 1, PerPage: 12, Query: "MATRIX"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := titles(res.Items); fmt.Sprint(got) != "[Matrix Reloaded The Matrix]" {
		t.Errorf("unexpected matches %v", got)
	}
	if res.Total != 2 || res.Query != "MATRIX" {
		t.Errorf("unexpected totals: %+v", res)
	}

	// Descriptions contain "About", titles do not.
	res, err = svc.List(context.Background(), ListOptions{Page: 1, PerPage: 12, Query: "about"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 0 {
		t.Errorf("search must ignore descriptions, got %v", titles(res.Items))
	}
}

func TestList_SearchIsAccentSensitive(t *testing.T) {
	svc, _ := newTestService(t)
	seed(t, svc, "Café Society", "Cafe Racer")

	res, err := svc.List(context.Background(), ListOptions{Page: 1, PerPage: 12, Query: "CAFÉ"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := titles(res.Items); fmt.Sprint(got) != "[Café Society]" {
		t.Errorf("unexpected matches %v", got)
	}
}

func TestList_TiesKeepInsertionOrder(t *testing.T) {
	svc, _ := newTestService(t)
	same := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return same }
	seed(t, svc, "first", "second", "third")

	res, err := svc.List(context.Background(), ListOptions{Page: 1, PerPage: 12})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := titles(res.Items); fmt.Sprint(got) != "[first second third]" {
		t.Errorf("unexpected order %v", got)
	}
}

func TestIterPages(t *testing.T) {
	tests := []struct {
		page, pages int
		want        string
	}{
		{1, 0, "[]"},
		{1, 3, "[1 2 3]"},
		{1, 12, "[1 2 3 4 5 0 11 12]"},
		{7, 12, "[1 2 0 5 6 7 8 9 10 11 12]"},
		{12, 20, "[1 2 0 10 11 12 13 14 15 16 0 19 20]"},
	}
	for _, tt := range tests {
		p := &PageResult{Page: tt.page, Pages: tt.pages}
		got := p.IterPages()
		if got == nil {
			got = []int{}
		}
		if fmt.Sprint(got) != tt.want {
			t.Errorf("IterPages(page=%d, pages=%d) = %v, want %s", tt.page, tt.pages, got, tt.want)
		}
	}
}

// --- Get / Create / Delete Tests ---

func TestGet(t *testing.T) {
	svc, _ := newTestService(t)
	m := seed(t, svc, "Heat")[0]

	got, err := svc.Get(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "Heat" {
		t.Errorf("expected Heat, got %s", got.Title)
	}

	_, err = svc.Get(context.Background(), "missing")
	assertAppError(t, err, 404)
}

func TestCreate_RequiresAdmin(t *testing.T) {
	svc, repo := newTestService(t)

	_, err := svc.Create(context.Background(), visitor, movieInput("x"))
	assertAppError(t, err, 403)
	_, err = svc.Create(context.Background(), nil, movieInput("x"))
	assertAppError(t, err, 403)

	if n, _ := repo.Count(context.Background(), ""); n != 0 {
		t.Errorf("expected no movies, got %d", n)
	}
}

func TestCreate_AllFieldsRequired(t *testing.T) {
	svc, repo := newTestService(t)

	blanks := []func(*CreateMovieInput){
		func(in *CreateMovieInput) { in.Title = "" },
		func(in *CreateMovieInput) { in.Description = "" },
		func(in *CreateMovieInput) { in.ThumbnailURL = "" },
		func(in *CreateMovieInput) { in.VideoURL = "" },
		func(in *CreateMovieInput) { in.DownloadURL = "" },
	}
	for i, blank := range blanks {
		in := movieInput("x")
		blank(&in)
		_, err := svc.Create(context.Background(), admin, in)
		assertAppError(t, err, 422)
		if apperror.SafeMessage(err) != "All fields are required" {
			t.Errorf("case %d: unexpected message %q", i, apperror.SafeMessage(err))
		}
	}
	if n, _ := repo.Count(context.Background(), ""); n != 0 {
		t.Errorf("expected no movies, got %d", n)
	}
}

func TestCreate_StoresValuesVerbatim(t *testing.T) {
	svc, repo := newTestService(t)
	in := movieInput("x")
	in.Title = "  Spaced Title  "
	in.Description = "<b>bold</b> & more"

	m, err := svc.Create(context.Background(), admin, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored, err := repo.FindByID(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("finding movie: %v", err)
	}
	if stored.Title != in.Title || stored.Description != in.Description {
		t.Errorf("expected verbatim values, got %+v", stored)
	}
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(t)
	movies := seed(t, svc, "a", "b")

	_, err := svc.Delete(context.Background(), visitor, movies[0].ID)
	assertAppError(t, err, 403)

	removed, err := svc.Delete(context.Background(), admin, "missing")
	if err != nil || removed {
		t.Fatalf("deleting missing id: removed=%v err=%v", removed, err)
	}
	all, _ := svc.ListAll(context.Background())
	if len(all) != 2 {
		t.Fatalf("store must be unchanged, got %d movies", len(all))
	}

	removed, err = svc.Delete(context.Background(), admin, movies[0].ID)
	if err != nil || !removed {
		t.Fatalf("deleting a: removed=%v err=%v", removed, err)
	}
	_, err = svc.Get(context.Background(), movies[0].ID)
	assertAppError(t, err, 404)
}

// --- Store failure ---

// failingRepo fails every call.
type failingRepo struct{ MovieRepository }

var errStore = errors.New("store unavailable")

func (failingRepo) Count(context.Context, string) (int, error) { return 0, errStore }
func (failingRepo) FindByID(context.Context, string) (*Movie, error) { return nil, errStore }
func (failingRepo) Create(context.Context, *Movie) error { return errStore }
func (failingRepo) ListAll(context.Context) ([]Movie, error) { return nil, errStore }
func (failingRepo) Delete(context.Context, string) (bool, error) { return false, errStore }

func TestService_StoreFailuresAreInternal(t *testing.T) {
	svc := NewCatalogService(failingRepo{})
	ctx := context.Background()

	_, err := svc.List(ctx, ListOptions{Page: 1, PerPage: 12})
	assertAppError(t, err, 500)
	_, err = svc.Get(ctx, "x")
	assertAppError(t, err, 500)
	_, err = svc.Create(ctx, admin, movieInput("x"))
	assertAppError(t, err, 500)
	_, err = svc.ListAll(ctx)
	assertAppError(t, err, 500)
	_, err = svc.Delete(ctx, admin, "x")
	assertAppError(t, err, 500)
}
