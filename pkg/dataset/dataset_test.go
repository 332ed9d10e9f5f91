package dataset

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/matzehuels/statboard/pkg/errors"
)

const resultsCSV = `season,grand_prix,team,driver,points,grid,finish_position_num
2021,Bahrain,Red Bull,Verstappen,18,1,2
2021,Bahrain,Mercedes,Hamilton,25,2,1
2022,Monaco,Ferrari,Leclerc,0,1,
2023,Monaco,Red Bull,Verstappen,25,1,1
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func loadCSV(t *testing.T) dataframe.DataFrame {
	t.Helper()
	df, err := Load(context.Background(), writeFile(t, "results.csv", resultsCSV), LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	return df
}

func TestLoadCSV(t *testing.T) {
	df := loadCSV(t)
	if df.Nrow() != 4 {
		t.Errorf("Nrow = %d, want 4", df.Nrow())
	}
	if !HasColumn(df, "finish_position_num") {
		t.Errorf("missing column, got %v", df.Names())
	}

	finish := Floats(df, "finish_position_num")
	if !math.IsNaN(finish[2]) {
		t.Errorf("blank cell should read as NaN, got %v", finish[2])
	}
	if finish[1] != 1 {
		t.Errorf("finish[1] = %v, want 1", finish[1])
	}
}

func TestLoadCSVWithTypes(t *testing.T) {
	path := writeFile(t, "results.csv", resultsCSV)
	df, err := Load(context.Background(), path, LoadOptions{
		Types: map[string]series.Type{"season": series.String},
	})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := df.Col("season").Type(); got != series.String {
		t.Errorf("season type = %v, want string", got)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "epa.json", `[
		{"season": 2023, "week": 1, "team": "BUF", "rolling_net_epa_4": 0.12},
		{"season": 2023, "week": 2, "team": "BUF", "rolling_net_epa_4": 0.18}
	]`)

	df, err := Load(context.Background(), path, LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if df.Nrow() != 2 {
		t.Errorf("Nrow = %d, want 2", df.Nrow())
	}
	if got := Floats(df, "rolling_net_epa_4"); got[1] != 0.18 {
		t.Errorf("rolling_net_epa_4 = %v", got)
	}
}

func TestLoadErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
		opts LoadOptions
		code errors.Code
	}{
		{"empty path", "", LoadOptions{}, errors.ErrCodeInvalidPath},
		{"traversal", "../secret.csv", LoadOptions{}, errors.ErrCodeInvalidPath},
		{"missing", filepath.Join(dir, "nope.csv"), LoadOptions{}, errors.ErrCodeFileNotFound},
		{"extension", writeFile(t, "data.parquet", "x"), LoadOptions{}, errors.ErrCodeInvalidFormat},
		{"sqlite without table", writeFile(t, "data.db", ""), LoadOptions{}, errors.ErrCodeInvalidInput},
		{"sqlite bad table", writeFile(t, "data.sqlite", ""), LoadOptions{Table: "x; DROP"}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(ctx, tt.path, tt.opts)
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %v, want %v (%v)", got, tt.code, err)
			}
		})
	}
}

func TestLoadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Load(ctx, writeFile(t, "a.csv", resultsCSV), LoadOptions{}); err != context.Canceled {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestImportAndLoadSQLite(t *testing.T) {
	ctx := context.Background()
	df := loadCSV(t)
	db := filepath.Join(t.TempDir(), "snapshot.db")

	n, err := Import(ctx, df, db, "f1_results")
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if n != 4 {
		t.Errorf("Import() = %d rows, want 4", n)
	}

	got, err := Load(ctx, db, LoadOptions{Table: "f1_results"})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.Nrow() != 4 {
		t.Errorf("Nrow = %d, want 4", got.Nrow())
	}
	if !reflect.DeepEqual(Unique(got, "driver"), []string{"Hamilton", "Leclerc", "Verstappen"}) {
		t.Errorf("drivers = %v", Unique(got, "driver"))
	}
	if !math.IsNaN(Floats(got, "finish_position_num")[2]) {
		t.Error("NULL should load as NaN")
	}
	if got := Floats(got, "points"); got[1] != 25 {
		t.Errorf("points = %v", got)
	}

	// A second import replaces the table.
	if _, err := Import(ctx, df.Subset([]int{0}), db, "f1_results"); err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	again, err := Load(ctx, db, LoadOptions{Table: "f1_results"})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if again.Nrow() != 1 {
		t.Errorf("Nrow after replace = %d, want 1", again.Nrow())
	}
}

func TestLoadSQLiteMissingTable(t *testing.T) {
	ctx := context.Background()
	db := filepath.Join(t.TempDir(), "snapshot.db")
	if _, err := Import(ctx, loadCSV(t), db, "results"); err != nil {
		t.Fatal(err)
	}
	_, err := Load(ctx, db, LoadOptions{Table: "other"})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Load() error = %v, want INVALID_FORMAT", err)
	}
}

func TestPickFirstCol(t *testing.T) {
	df := loadCSV(t)

	tests := []struct {
		candidates []string
		want       string
		ok         bool
	}{
		{[]string{"pred", "points", "grid"}, "points", true},
		{[]string{"grid", "points"}, "grid", true},
		{[]string{"a", "b"}, "", false},
		{nil, "", false},
	}
	for _, tt := range tests {
		got, ok := PickFirstCol(df, tt.candidates...)
		if got != tt.want || ok != tt.ok {
			t.Errorf("PickFirstCol(%v) = %q, %v; want %q, %v", tt.candidates, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRequireColumns(t *testing.T) {
	df := loadCSV(t)
	if err := RequireColumns(df, "season", "driver"); err != nil {
		t.Errorf("RequireColumns() error: %v", err)
	}

	err := RequireColumns(df, "season", "is_dnf", "race_date")
	if !errors.Is(err, errors.ErrCodeInvalidColumn) {
		t.Fatalf("RequireColumns() error = %v, want INVALID_COLUMN", err)
	}
	if got := err.Error(); got != "INVALID_COLUMN: missing column(s): is_dnf, race_date" {
		t.Errorf("message = %q", got)
	}
}

func TestMatchingColumns(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"season", "Pred_Spread", "home_prob_raw", "week"},
		{"2023", "3.5", "0.6", "1"},
	})
	got := MatchingColumns(df, "pred", "prob")
	if !reflect.DeepEqual(got, []string{"Pred_Spread", "home_prob_raw"}) {
		t.Errorf("MatchingColumns() = %v", got)
	}
}

func TestIntsAndUnique(t *testing.T) {
	df := loadCSV(t)

	seasons, err := Ints(df, "season")
	if err != nil {
		t.Fatalf("Ints() error: %v", err)
	}
	if !reflect.DeepEqual(seasons, []int{2021, 2021, 2022, 2023}) {
		t.Errorf("Ints() = %v", seasons)
	}
	if _, err := Ints(df, "finish_position_num"); err == nil {
		t.Error("Ints() should fail on a column with missing cells")
	}
	if _, err := Ints(df, "missing"); !errors.Is(err, errors.ErrCodeInvalidColumn) {
		t.Errorf("Ints() on missing column = %v", err)
	}

	if got := UniqueInts(df, "season"); !reflect.DeepEqual(got, []int{2021, 2022, 2023}) {
		t.Errorf("UniqueInts() = %v", got)
	}
	if got := Unique(df, "team"); !reflect.DeepEqual(got, []string{"Ferrari", "Mercedes", "Red Bull"}) {
		t.Errorf("Unique() = %v", got)
	}
	if got := Unique(df, "missing"); got != nil {
		t.Errorf("Unique() on missing column = %v, want nil", got)
	}
}

func TestFilters(t *testing.T) {
	df := loadCSV(t)

	if got := FilterIn(df, "grand_prix", nil); got.Nrow() != 4 {
		t.Errorf("FilterIn(nil) kept %d rows, want 4", got.Nrow())
	}
	if got := FilterIn(df, "grand_prix", []string{"Monaco"}); got.Nrow() != 2 {
		t.Errorf("FilterIn(Monaco) kept %d rows, want 2", got.Nrow())
	}
	if got := FilterIn(df, "team", []string{"Ferrari", "Mercedes"}); got.Nrow() != 2 {
		t.Errorf("FilterIn(teams) kept %d rows, want 2", got.Nrow())
	}

	if got := FilterRange(df, "season", 2022, 2023); got.Nrow() != 2 {
		t.Errorf("FilterRange(2022, 2023) kept %d rows, want 2", got.Nrow())
	}
	if got := FilterRange(df, "season", 2021, 2021); got.Nrow() != 2 {
		t.Errorf("FilterRange(2021, 2021) kept %d rows, want 2", got.Nrow())
	}
}

func TestClamp01(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{-0.2, 0}, {0, 0}, {0.42, 0.42}, {1, 1}, {1.7, 1},
	}
	for _, tt := range tests {
		if got := Clamp01(tt.in); got != tt.want {
			t.Errorf("Clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if !math.IsNaN(Clamp01(math.NaN())) {
		t.Error("Clamp01(NaN) should stay NaN")
	}
}

func TestFillNaN(t *testing.T) {
	if got := FillNaN(math.NaN(), 0.5); got != 0.5 {
		t.Errorf("FillNaN(NaN) = %v, want 0.5", got)
	}
	if got := FillNaN(0.7, 0.5); got != 0.7 {
		t.Errorf("FillNaN(0.7) = %v, want 0.7", got)
	}
}

func TestFlags(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"is_dnf"},
		{"True"}, {"False"}, {"1"}, {"0"}, {"maybe"},
	}, dataframe.WithTypes(map[string]series.Type{"is_dnf": series.String}))

	got := Flags(df, "is_dnf")
	want := []float64{1, 0, 1, 0, math.NaN()}
	for i := range want {
		if math.IsNaN(want[i]) {
			if !math.IsNaN(got[i]) {
				t.Errorf("Flags()[%d] = %v, want NaN", i, got[i])
			}
			continue
		}
		if got[i] != want[i] {
			t.Errorf("Flags()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if Flags(df, "missing") != nil {
		t.Error("Flags() on missing column should be nil")
	}
}

func TestDropNaN(t *testing.T) {
	got := DropNaN([]float64{1, math.NaN(), 2, math.Inf(1)})
	if !reflect.DeepEqual(got, []float64{1, 2}) {
		t.Errorf("DropNaN() = %v", got)
	}
}
