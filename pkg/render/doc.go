// Package render turns dashboard views into artifacts.
//
// # Formats
//
// Every view renders to one of [FormatSVG], [FormatPNG] or [FormatJSON]:
//
//   - Line and bar charts are drawn by go-chart, which writes both SVG and
//     PNG through its own renderer.
//   - The EPA landscape SVG is drawn directly with svgo so the repelled team
//     labels land exactly where the placement computed them. Its PNG goes
//     through go-chart with the labels as an annotation layer.
//   - The KPI card is SVG only.
//   - JSON is the view's data, indented.
//
// Renderers take functional options:
//
//	svg, err := render.Landscape(ls, render.FormatSVG, render.WithSize(960, 650), render.WithInvertY())
package render
