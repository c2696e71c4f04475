package handler

import (
	"html/template"
	"io"

	"github.com/fakhrymubarak/weather-dashboard/internal/dom"
)

type pageData struct {
	SessionID    string
	CurrentID    string
	AdditionalID string
	InputID      string
	Current      template.HTML
	Additional   template.HTML
	Located      bool
}

// Container markup comes from the render package, which escapes every
// interpolated value, so it is trusted here.
func newPageData(sessionID string, doc *dom.Document, located bool) pageData {
	pd := pageData{
		SessionID:    sessionID,
		CurrentID:    dom.CurrentWeatherID,
		AdditionalID: dom.AdditionalWeatherID,
		InputID:      dom.UserInputID,
		Located:      located,
	}
	if el := doc.Lookup(dom.CurrentWeatherID); el != nil {
		pd.Current = template.HTML(el.InnerHTML())
	}
	if el := doc.Lookup(dom.AdditionalWeatherID); el != nil {
		pd.Additional = template.HTML(el.InnerHTML())
	}
	return pd
}

func renderPage(w io.Writer, pd pageData) error {
	return pageTmpl.Execute(w, pd)
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Weather Dashboard</title>
</head>
<body>
<main class="container">
  <input id="{{.InputID}}" type="text" placeholder="Search a city" autocomplete="off">
  <section id="{{.CurrentID}}">{{.Current}}</section>
  <section id="{{.AdditionalID}}" class="d-flex">{{.Additional}}</section>
</main>
<script>
(function () {
  var session = {{.SessionID}};
  var located = {{.Located}};
  var ids = [{{.CurrentID}}, {{.AdditionalID}}];
  var events = new EventSource("/dashboard/" + session + "/events");
  ids.forEach(function (id) {
    events.addEventListener(id, function (e) {
      var update = JSON.parse(e.data);
      var el = document.getElementById(update.id);
      if (el) { el.innerHTML = update.html; }
    });
  });
  var input = document.getElementById({{.InputID}});
  if (input) {
    input.addEventListener("input", function () {
      var body = new URLSearchParams({ value: input.value });
      fetch("/dashboard/" + session + "/input", { method: "POST", body: body });
    });
  }
  if (!located && navigator.geolocation) {
    navigator.geolocation.getCurrentPosition(function (pos) {
      window.location.search = "?lat=" + pos.coords.latitude + "&lon=" + pos.coords.longitude;
    }, function () {});
  }
})();
</script>
</body>
</html>
`))
