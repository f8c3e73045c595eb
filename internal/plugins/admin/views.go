package admin

import (
	"html/template"

	"github.com/a-h/templ"

	"github.com/keyxmakerx/zeromovies/internal/plugins/catalog"
	"github.com/keyxmakerx/zeromovies/internal/templates/layouts"
)

type dashboardData struct {
	CSRFToken string
	Movies    []catalog.Movie
	UserCount int
	Added     bool
	Deleted   bool
}

type addMovieData struct {
	CSRFToken string
	Movie     catalog.MovieRequest
	Error     string
}

var adminTmpl = template.Must(template.New("admin").Parse(`
{{define "dashboard"}}<section class="admin">
  <header class="admin-header">
    <h1>Admin dashboard</h1>
    <a class="button" href="/admin/add_movie">Add movie</a>
  </header>
  {{if .Added}}<div class="alert alert-success">Movie added successfully!</div>{{end}}
  {{if .Deleted}}<div class="alert alert-success">Movie deleted successfully!</div>{{end}}
  <p class="muted">{{len .Movies}} movies, {{.UserCount}} registered users.</p>
  {{if .Movies}}<table class="table">
    <thead><tr><th></th><th>Title</th><th>Added</th><th></th></tr></thead>
    <tbody>
    {{range .Movies}}<tr>
      <td><img class="thumb" src="{{.ThumbnailURL}}" alt=""></td>
      <td><a href="/movie/{{.ID}}">{{.Title}}</a></td>
      <td>{{.CreatedAt.Format "2006-01-02 15:04"}}</td>
      <td>
        <form method="post" action="/admin/delete_movie/{{.ID}}" data-confirm="Delete {{.Title}}?">
          <input type="hidden" name="csrf_token" value="{{$.CSRFToken}}">
          <button type="submit" class="danger">Delete</button>
        </form>
      </td>
    </tr>{{end}}
    </tbody>
  </table>{{else}}<p class="empty">No movies yet.</p>{{end}}
</section>{{end}}

{{define "add_movie"}}<section class="admin">
  <h1>Add movie</h1>
  {{if .Error}}<div class="alert alert-danger">{{.Error}}</div>{{end}}
  <form method="post" action="/admin/add_movie" class="movie-form">
    <input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
    <label>Title <input type="text" name="title" value="{{.Movie.Title}}" required></label>
    <label>Description <textarea name="description" rows="6" required>{{.Movie.Description}}</textarea></label>
    <label>Thumbnail URL <input type="url" name="thumbnail_url" id="thumbnail_url" value="{{.Movie.ThumbnailURL}}" required></label>
    <img id="thumbnail_preview" class="thumb-preview" alt="" hidden>
    <label>Video URL <input type="url" name="video_url" value="{{.Movie.VideoURL}}" required></label>
    <label>Download URL <input type="url" name="download_url" value="{{.Movie.DownloadURL}}" required></label>
    <button type="submit">Save</button>
    <a href="/admin/">Cancel</a>
  </form>
</section>{{end}}
`))

// DashboardPage renders the admin dashboard.
func DashboardPage(data dashboardData) templ.Component {
	return layouts.Page("Admin", layouts.Template(adminTmpl, "dashboard", data))
}

// AddMoviePage renders the add-movie form.
func AddMoviePage(data addMovieData) templ.Component {
	return layouts.Page("Add movie", layouts.Template(adminTmpl, "add_movie", data))
}
