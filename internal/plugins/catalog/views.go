package catalog

import (
	"html/template"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/keyxmakerx/zeromovies/internal/sanitize"
	"github.com/keyxmakerx/zeromovies/internal/templates/layouts"
)

// excerptLength is the number of characters of description shown on a card.
const excerptLength = 140

var catalogFuncs = template.FuncMap{
	"excerpt": func(s string) string { return sanitize.Excerpt(s, excerptLength) },
	"rich":    func(s string) template.HTML { return template.HTML(sanitize.HTML(s)) },
	"pageURL": pageURL,
}

var catalogTmpl = template.Must(template.New("catalog").Funcs(catalogFuncs).Parse(`
{{define "index"}}<section class="catalog">
  {{if .Query}}<h1>Results for &ldquo;{{.Query}}&rdquo;</h1>
  <p class="muted">{{.Total}} match{{if ne .Total 1}}es{{end}}. <a href="/">Clear search</a></p>
  {{else}}<h1>Latest movies</h1>{{end}}
  {{if .Items}}<div class="grid">
    {{range .Items}}<article class="card">
      <a href="/movie/{{.ID}}"><img src="{{.ThumbnailURL}}" alt="{{.Title}}" loading="lazy"></a>
      <h2><a href="/movie/{{.ID}}">{{.Title}}</a></h2>
      <p>{{excerpt .Description}}</p>
    </article>{{end}}
  </div>{{else}}<p class="empty">No movies found.</p>{{end}}
  {{if gt .Pages 1}}<nav class="pager">
    {{if .HasPrev}}<a href="{{pageURL .Query .PrevNum}}">&laquo; Prev</a>{{end}}
    {{$cur := .Page}}{{$q := .Query}}
    {{range .IterPages}}{{if eq . 0}}<span class="gap">&hellip;</span>{{else if eq . $cur}}<span class="current">{{.}}</span>{{else}}<a href="{{pageURL $q .}}">{{.}}</a>{{end}}{{end}}
    {{if .HasNext}}<a href="{{pageURL .Query .NextNum}}">Next &raquo;</a>{{end}}
  </nav>{{end}}
</section>{{end}}

{{define "detail"}}<article class="movie">
  <h1>{{.Title}}</h1>
  <div class="player">
    <video controls preload="metadata" poster="{{.ThumbnailURL}}" src="{{.VideoURL}}"></video>
  </div>
  <div class="actions">
    <a class="button" href="{{.VideoURL}}" rel="noopener">Watch</a>
    <a class="button" href="{{.DownloadURL}}" rel="noopener" download>Download</a>
  </div>
  <div class="description">{{rich .Description}}</div>
  <p class="muted">Added {{.CreatedAt.Format "January 2, 2006"}}</p>
</article>{{end}}
`))

// pageURL links to page n of the index, keeping the search query.
func pageURL(query string, n int) string {
	v := url.Values{}
	if query != "" {
		v.Set("q", query)
	}
	v.Set("page", strconv.Itoa(n))
	return "/?" + v.Encode()
}

// IndexPage renders one page of the catalog.
func IndexPage(result *PageResult) templ.Component {
	title := "Movies"
	if result.Query != "" {
		title = "Search: " + result.Query
	}
	return layouts.Page(title, layouts.Template(catalogTmpl, "index", result))
}

// DetailPage renders a single movie.
func DetailPage(movie *Movie) templ.Component {
	return layouts.Page(movie.Title, layouts.Template(catalogTmpl, "detail", movie))
}
