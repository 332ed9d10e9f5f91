// Package dashboard provides the view pipeline shared by the CLI and the
// HTTP server.
//
// A view is one chart or table of the dashboard, such as the EPA landscape
// or the DNF rate per season. Running a view takes three stages:
//
//  1. Load: read the dataset the view needs (CSV, JSON or SQLite)
//  2. Compute: filter the data and derive the view's values
//  3. Render: turn the values into SVG, PNG or JSON artifacts
//
// # Usage
//
//	runner := dashboard.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, dashboard.Options{
//	    View:    dashboard.ViewNFLLandscape,
//	    EPAPath: "data/epa.csv",
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// # Caching
//
// Loaded datasets are kept in memory per path and content hash, so editing
// a file invalidates it. Rendered artifacts go through the [cache.Cache]
// under a key built from the dataset hash and every option that changes
// the output.
package dashboard
