package main

import (
	"fmt"
	"html"
	"io"

	ugolnik "github.com/adfgl/3Ugolnik-sub000"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"
)

const reportHead = `<!DOCTYPE html>
<html>
<head>
	<title>%s</title>
	<style>
		body {
			background-color: #1f1f1f;
			color: #d3d3d3;
			font-family: Consolas, monospace;
		}
		#container { display: flex; width: 100%%; height: 100vh; box-sizing: border-box; }
		#chart { width: 60%%; padding: 10px; box-sizing: border-box; }
		#logs {
			width: 40%%;
			padding: 10px;
			box-sizing: border-box;
			border-left: 5px solid #757575;
			overflow: auto;
			white-space: pre-wrap;
			word-wrap: break-word;
		}
	</style>
</head>
<body>
<div id="container">
<div id="chart">
`

const reportMiddle = `</div>
<div id="logs">
`

const reportTail = `</div>
</div>
</body>
</html>
`

var edgeColors = map[ugolnik.Constraint]string{
	ugolnik.None:    "#5f7f8f",
	ugolnik.Contour: "white",
	ugolnik.Hole:    "tomato",
	ugolnik.User:    "violet",
}

// writeReport renders the mesh as an echarts scatter of the vertices with
// every edge overlaid, next to the log of the run.
func writeReport(w io.Writer, name string, result *ugolnik.Result, logs string) error {
	chart := meshChart(name, result)

	if _, err := fmt.Fprintf(w, reportHead, html.EscapeString(name)); err != nil {
		return errors.Wrap(err, "writing report")
	}
	if err := chart.Render(w); err != nil {
		return errors.Wrap(err, "rendering chart")
	}
	if _, err := io.WriteString(w, reportMiddle+logs+reportTail); err != nil {
		return errors.Wrap(err, "writing report")
	}
	return nil
}

func meshChart(name string, result *ugolnik.Result) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Height: "90vh",
			Width:  "100%",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: name,
			Subtitle: fmt.Sprintf("%d vertices, %d triangles, min angle %.2f°",
				result.Summary.Vertices, result.Summary.Triangles, result.Summary.MinAngle),
			TitleStyle: &opts.TextStyle{Color: "white"},
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "value",
			AxisLabel: &opts.AxisLabel{Color: "white"},
			SplitLine: &opts.SplitLine{Show: opts.Bool(false)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "value",
			AxisLabel: &opts.AxisLabel{Color: "white"},
			SplitLine: &opts.SplitLine{Show: opts.Bool(false)},
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			FilterMode: "none",
			Orient:     "horizontal",
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			FilterMode: "none",
			Orient:     "vertical",
		}),
	)

	points := make([]opts.ScatterData, 0, len(result.Vertices))
	for _, p := range result.Vertices {
		points = append(points, opts.ScatterData{Value: []float64{p.X, p.Y}})
	}
	scatter.AddSeries("vertices", points).
		SetSeriesOptions(charts.WithItemStyleOpts(opts.ItemStyle{Color: "lightgreen"}))

	for k, tri := range result.Triangles {
		for i, e := range tri.Edges {
			if e.Adjacent >= 0 && e.Adjacent < k {
				continue
			}
			a, b := result.Vertices[tri.V[i]], result.Vertices[tri.V[(i+1)%3]]
			width := float32(1)
			if e.Constraint != ugolnik.None {
				width = 2
			}
			line := charts.NewLine()
			line.AddSeries(e.Constraint.String(), []opts.LineData{
				{Value: []float64{a.X, a.Y}},
				{Value: []float64{b.X, b.Y}},
			}).SetSeriesOptions(
				charts.WithLineStyleOpts(opts.LineStyle{
					Width: width,
					Color: edgeColors[e.Constraint],
				}),
			)
			scatter.Overlap(line)
		}
	}
	return scatter
}
