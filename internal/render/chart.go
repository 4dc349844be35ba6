package render

import (
	"fmt"
	"strings"

	"github.com/Grabber66/sis-handball/internal/monitor"
)

// Chart renders the position series as a Google Charts line chart. The page
// is expected to load the Google Charts loader. An empty series renders the
// no-data marker.
func (rd Renderer) Chart(series *monitor.Series) string {
	if series == nil || len(series.Chart) == 0 {
		return rd.Error(ErrNoData)
	}

	var points strings.Builder
	for _, p := range series.Chart {
		fmt.Fprintf(&points, "[\"%d\", %d],\n", p.Gameday, p.Position)
	}

	gameday := jsString(rd.Labels.Text("Gameday"))
	position := jsString(rd.Labels.Text("Position"))

	var sb strings.Builder
	sb.WriteString(`<p>` + esc(rd.Labels.Text(LabelChartTitle)+series.Team) + `</p>` + "\n")
	sb.WriteString("<script>\n")
	sb.WriteString(`document.addEventListener("DOMContentLoaded", function() {
  google.charts.load("current", {"packages":["corechart"]});
  google.charts.setOnLoadCallback(function() {
    var data = google.visualization.arrayToDataTable([
      [` + gameday + `, ` + position + `],
` + points.String() + `    ]);
    var options = {
      legend: "none",
      vAxis: {title: ` + position + `, direction: -1, format: 0, maxValue: 2},
      hAxis: {title: ` + gameday + `},
      "width": "100%",
      "height": 350,
      "chartArea": {"width": "75%", "height": "75%"}
    };
    new google.visualization.LineChart(document.getElementById("position_chart")).draw(data, options);
  });
});
`)
	sb.WriteString("</script>\n")
	sb.WriteString(`<div id="position_chart"></div>`)
	return sb.String()
}

// jsString quotes s as a JavaScript string literal safe inside a script element.
func jsString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "<", `\u003c`, ">", `\u003e`)
	return `"` + r.Replace(s) + `"`
}
