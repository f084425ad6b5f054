package predict

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/atmx/score-engine/internal/form"
	"github.com/atmx/score-engine/internal/roster"
)

var pageTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>T20 Score Predictor</title>
</head>
<body>
<h1>T20 Score Predictor</h1>
<form method="POST" action="/">
  <label>Batting team
    <select name="batting_team">{{range .Teams}}<option{{if eq . $.Form.batting_team}} selected{{end}}>{{.}}</option>{{end}}</select>
  </label>
  <label>Bowling team
    <select name="bowling_team">{{range .Teams}}<option{{if eq . $.Form.bowling_team}} selected{{end}}>{{.}}</option>{{end}}</select>
  </label>
  <label>City
    <select name="city">{{range .Cities}}<option{{if eq . $.Form.city}} selected{{end}}>{{.}}</option>{{end}}</select>
  </label>
  <label>Current score <input type="number" name="current_score" min="0" value="{{.Form.current_score}}"></label>
  <label>Overs done (e.g. 10.4) <input type="text" name="overs" value="{{.Form.overs}}"></label>
  <label>Wickets out <input type="number" name="wickets" min="0" max="10" value="{{.Form.wickets}}"></label>
  <label>Runs in last 5 overs <input type="number" name="last_five" min="0" value="{{.Form.last_five}}"></label>
  <button type="submit">Predict</button>
</form>
{{if .Error}}<p class="error">Error: {{.Error}}</p>{{end}}
{{if .HasPrediction}}<h2>Predicted score: {{.Prediction}}</h2>{{end}}
</body>
</html>
`))

type pageData struct {
	Teams         []string
	Cities        []string
	Form          form.Fields
	Prediction    int
	HasPrediction bool
	Error         string
}

// Index handles GET /
func (s *Service) Index(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, pageData{Form: form.Fields{}})
}

// Submit handles POST / from the HTML form.
func (s *Service) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, http.StatusBadRequest, pageData{Form: form.Fields{}, Error: "invalid form submission"})
		return
	}
	fields := form.FromValues(r.PostForm)

	rec, err := s.Predict(r.Context(), fields)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, form.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		s.render(w, status, pageData{Form: fields, Error: err.Error()})
		return
	}

	s.render(w, http.StatusOK, pageData{Form: fields, Prediction: rec.Score, HasPrediction: true})
}

func (s *Service) render(w http.ResponseWriter, status int, data pageData) {
	data.Teams = s.teams.Teams()
	data.Cities = roster.Cities()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTmpl.Execute(w, data); err != nil {
		slog.Error("render page", "err", err)
	}
}
