// Package catalog owns the movie catalog: listing with search and
// pagination, detail lookup, and the admin-only create and delete
// operations.
package catalog

import (
	"errors"
	"time"
)

// Movie is one catalog entry. The locator fields are opaque strings and are
// stored exactly as submitted.
type Movie struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnail_url"`
	VideoURL     string    `json:"video_url"`
	DownloadURL  string    `json:"download_url"`
	CreatedAt    time.Time `json:"created_at"`
}

// RecordID implements filestore.Record.
func (m Movie) RecordID() string { return m.ID }

// Validate rejects records missing required fields before they are stored.
func (m Movie) Validate() error {
	if m.ID == "" {
		return errors.New("movie id is required")
	}
	if m.CreatedAt.IsZero() {
		return errors.New("created_at is required")
	}
	if !m.fieldsPresent() {
		return errors.New("all movie fields are required")
	}
	return nil
}

func (m Movie) fieldsPresent() bool {
	return m.Title != "" && m.Description != "" && m.ThumbnailURL != "" &&
		m.VideoURL != "" && m.DownloadURL != ""
}

// Actor is whoever performs a gated catalog operation. It is passed
// explicitly by handlers rather than read from request state.
type Actor interface {
	CanManageCatalog() bool
}

// --- Request DTOs ---

// MovieRequest holds the data submitted by the add-movie form.
type MovieRequest struct {
	Title        string `form:"title"`
	Description  string `form:"description"`
	ThumbnailURL string `form:"thumbnail_url"`
	VideoURL     string `form:"video_url"`
	DownloadURL  string `form:"download_url"`
}

// CreateMovieInput is the input for creating a movie.
type CreateMovieInput struct {
	Title        string
	Description  string
	ThumbnailURL string
	VideoURL     string
	DownloadURL  string
}

// --- Listing ---

// ListOptions selects one page of the catalog. Query, when non-empty,
// keeps only movies whose title contains it, ignoring case.
type ListOptions struct {
	Page    int
	PerPage int
	Query   string
}

// PageResult is one page of movies plus the numbers a pager needs.
// Out-of-range pages are not clamped: they come back with no items and
// HasNext false.
type PageResult struct {
	Items   []Movie
	Page    int
	PerPage int
	Total   int
	Pages   int
	HasPrev bool
	HasNext bool
	PrevNum int
	NextNum int
	Query   string
}

// IterPages returns the page numbers to show in a pager: the first and last
// two pages plus a window around the current page. Zero marks a gap.
func (p *PageResult) IterPages() []int {
	const leftEdge, leftCurrent, rightCurrent, rightEdge = 2, 2, 4, 2

	var out []int
	last := 0
	for num := 1; num <= p.Pages; num++ {
		if num <= leftEdge ||
			(num > p.Page-leftCurrent-1 && num < p.Page+rightCurrent+1) ||
			num > p.Pages-rightEdge {
			if last+1 != num {
				out = append(out, 0)
			}
			out = append(out, num)
			last = num
		}
	}
	return out
}
