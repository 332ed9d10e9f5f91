package dataset

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/matzehuels/statboard/pkg/errors"
)

// HasColumn reports whether df has a column named col.
func HasColumn(df dataframe.DataFrame, col string) bool {
	for _, name := range df.Names() {
		if name == col {
			return true
		}
	}
	return false
}

// PickFirstCol returns the first candidate that is a column of df.
func PickFirstCol(df dataframe.DataFrame, candidates ...string) (string, bool) {
	for _, c := range candidates {
		if HasColumn(df, c) {
			return c, true
		}
	}
	return "", false
}

// RequireColumns returns an INVALID_COLUMN error naming every missing column.
func RequireColumns(df dataframe.DataFrame, cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !HasColumn(df, c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return errors.New(errors.ErrCodeInvalidColumn, "missing column(s): %s", strings.Join(missing, ", "))
	}
	return nil
}

// MatchingColumns returns the columns whose lower-cased name contains any
// of the given substrings, in column order.
func MatchingColumns(df dataframe.DataFrame, substrings ...string) []string {
	var out []string
	for _, name := range df.Names() {
		lower := strings.ToLower(name)
		for _, s := range substrings {
			if strings.Contains(lower, s) {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

// Floats returns col as float64 values. Missing or unparsable cells are NaN.
// An absent column yields nil.
func Floats(df dataframe.DataFrame, col string) []float64 {
	if !HasColumn(df, col) {
		return nil
	}
	return df.Col(col).Float()
}

// Strings returns col as strings, with missing cells as "".
func Strings(df dataframe.DataFrame, col string) []string {
	if !HasColumn(df, col) {
		return nil
	}
	s := df.Col(col)
	out := make([]string, s.Len())
	for i := range out {
		e := s.Elem(i)
		if e.IsNA() {
			continue
		}
		out[i] = e.String()
	}
	return out
}

// Ints returns col as ints. It fails with INVALID_COLUMN when a cell is
// missing or not a whole number.
func Ints(df dataframe.DataFrame, col string) ([]int, error) {
	if err := RequireColumns(df, col); err != nil {
		return nil, err
	}
	vals := df.Col(col).Float()
	out := make([]int, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) || v != math.Trunc(v) {
			return nil, errors.New(errors.ErrCodeInvalidColumn, "%s: row %d is not an integer", col, i)
		}
		out[i] = int(v)
	}
	return out, nil
}

// Unique returns the sorted distinct non-empty values of col.
func Unique(df dataframe.DataFrame, col string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range Strings(df, col) {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// UniqueInts returns the sorted distinct whole values of col, skipping NaN.
func UniqueInts(df dataframe.DataFrame, col string) []int {
	seen := make(map[int]bool)
	var out []int
	for _, v := range Floats(df, col) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		n := int(v)
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out
}

// FilterIn keeps the rows whose col value is one of values. An empty values
// slice keeps every row.
func FilterIn(df dataframe.DataFrame, col string, values []string) dataframe.DataFrame {
	if len(values) == 0 {
		return df
	}
	return df.Filter(dataframe.F{Colname: col, Comparator: series.In, Comparando: values})
}

// FilterRange keeps the rows with lo <= col <= hi.
func FilterRange(df dataframe.DataFrame, col string, lo, hi float64) dataframe.DataFrame {
	return df.FilterAggregation(dataframe.And,
		dataframe.F{Colname: col, Comparator: series.GreaterEq, Comparando: lo},
		dataframe.F{Colname: col, Comparator: series.LessEq, Comparando: hi},
	)
}

// Clamp01 limits v to [0, 1]. NaN passes through.
func Clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// FillNaN returns def when v is NaN.
func FillNaN(v, def float64) float64 {
	if math.IsNaN(v) {
		return def
	}
	return v
}

// Flags returns col as 1 for true and 0 for false. Booleans, numbers and the
// strings "true"/"false"/"yes"/"no" are understood; anything else is NaN.
func Flags(df dataframe.DataFrame, col string) []float64 {
	raw := Strings(df, col)
	if raw == nil {
		return nil
	}
	out := make([]float64, len(raw))
	for i, s := range raw {
		out[i] = parseFlag(s)
	}
	return out
}

func parseFlag(s string) float64 {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y":
		return 1
	case "false", "f", "no", "n":
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// DropNaN returns the finite values of xs.
func DropNaN(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, v := range xs {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
