package handlers

import (
	"html/template"
	"net/http"

	"sketchgen/internal/domain"
	"sketchgen/internal/sketch"
)

type option struct {
	Value    string
	Label    string
	Selected bool
}

type pageData struct {
	Description        string
	Styles             []option
	Orientations       []option
	OrientationEnabled bool
	Result             *sketch.Result
	ImageURL           string
	DownloadURL        string
	DownloadName       string
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>AI Sketch Generator</title>
<style>
body { font-family: sans-serif; max-width: 760px; margin: 2rem auto; padding: 0 1rem; }
textarea { width: 100%; min-height: 8rem; }
.notice { padding: .6rem .8rem; margin: .5rem 0; border-radius: 4px; white-space: pre-line; }
.info { background: #e8f1fb; } .success { background: #e6f6ea; }
.warning { background: #fff6dd; } .error { background: #fde8e8; }
progress { width: 100%; }
img { max-width: 100%; }
</style>
</head>
<body>
<h1>AI Sketch Generator</h1>
<p>Transform your descriptions into beautiful sketches!</p>
<form method="post" action="/generate">
  <label for="description">Enter your sketch description:</label>
  <textarea id="description" name="description" title="Describe what you want to sketch. Be as detailed as possible!">{{.Description}}</textarea>
  <label for="style">Choose your art style:</label>
  <select id="style" name="style">
  {{range .Styles}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}
  </select>
  {{if .OrientationEnabled}}
  <label for="orientation">Choose orientation:</label>
  <select id="orientation" name="orientation">
  {{range .Orientations}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}
  </select>
  {{end}}
  <button type="submit">Generate Sketch</button>
</form>
{{with .Result}}
<section id="result">
  {{range .Notices}}<div class="notice {{.Level}}">{{.Text}}</div>{{end}}
  {{if .Job}}<progress max="100" value="{{.Progress}}"></progress>{{if .StatusLabel}}<p>{{.StatusLabel}}</p>{{end}}{{end}}
</section>
{{end}}
{{if .ImageURL}}
<figure>
  <img src="{{.ImageURL}}" alt="Your Generated Sketch">
  <figcaption>Your Generated Sketch</figcaption>
</figure>
<a href="{{.DownloadURL}}" download="{{.DownloadName}}">Download Sketch</a>
{{end}}
</body>
</html>
`))

func (a *App) newPage(req domain.UserRequest) pageData {
	data := pageData{
		Description:        req.Description,
		OrientationEnabled: a.OrientationEnabled,
		DownloadName:       sketch.DownloadFilename,
	}
	style := req.Style
	if style == "" {
		style = domain.StyleSketch
	}
	for _, s := range domain.Styles {
		data.Styles = append(data.Styles, option{Value: string(s), Label: s.Label(), Selected: s == style})
	}
	orientation := req.Orientation
	if orientation == domain.OrientationNone {
		orientation = domain.OrientationLandscape
	}
	for _, o := range domain.Orientations {
		data.Orientations = append(data.Orientations, option{Value: string(o), Label: o.Label(), Selected: o == orientation})
	}
	return data
}

func (a *App) render(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		a.Logger.Error().Err(err).Msg("handlers: render page failed")
	}
}
