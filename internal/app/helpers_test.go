package app

import (
	"fmt"

	"github.com/keyxmakerx/zeromovies/internal/plugins/catalog"
)

type adminActor struct{}

func (adminActor) CanManageCatalog() bool { return true }

func movieInput(i int) catalog.CreateMovieInput {
	return catalog.CreateMovieInput{
		Title:        fmt.Sprintf("Movie %02d", i),
		Description:  "Description",
		ThumbnailURL: "https://img.example/thumb.jpg",
		VideoURL:     "https://video.example/v",
		DownloadURL:  "https://dl.example/d",
	}
}
