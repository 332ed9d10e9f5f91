// Package dataset loads the flat files behind the dashboards into gota
// DataFrames and offers the column helpers the views share.
//
// Three sources are supported, chosen by file extension:
//
//   - .csv: a header row followed by records
//   - .json: an array of row objects
//   - .db, .sqlite: one table of a SQLite snapshot, see [LoadOptions.Table]
//
// Numeric cells that are empty or unparsable read as NaN through [Floats].
package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	// SQLite driver, registered as "sqlite".
	_ "github.com/glebarez/go-sqlite"

	"github.com/matzehuels/statboard/pkg/errors"
)

// LoadOptions configures [Load].
type LoadOptions struct {
	// Table is the SQLite table to read. Required for .db and .sqlite files.
	Table string
	// Types pins column types instead of detecting them. Columns not listed
	// are detected from their values.
	Types map[string]series.Type
}

// Load reads the file at path into a DataFrame.
func Load(ctx context.Context, path string, opts LoadOptions) (dataframe.DataFrame, error) {
	if err := errors.ValidatePath(path); err != nil {
		return dataframe.DataFrame{}, err
	}
	if err := ctx.Err(); err != nil {
		return dataframe.DataFrame{}, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return dataframe.DataFrame{}, errors.New(errors.ErrCodeFileNotFound, "dataset not found: %s", path)
		}
		return dataframe.DataFrame{}, errors.Wrap(errors.ErrCodeInternal, err, "stat dataset")
	}

	var (
		df  dataframe.DataFrame
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		df, err = readFile(path, func(f *os.File) dataframe.DataFrame {
			return dataframe.ReadCSV(f, loadOptions(opts)...)
		})
	case ".json":
		df, err = readFile(path, func(f *os.File) dataframe.DataFrame {
			return dataframe.ReadJSON(f, loadOptions(opts)...)
		})
	case ".db", ".sqlite", ".sqlite3":
		df, err = loadSQLite(ctx, path, opts)
	default:
		return dataframe.DataFrame{}, errors.New(errors.ErrCodeInvalidFormat,
			"unsupported dataset extension %q (want .csv, .json, .db or .sqlite)", ext)
	}
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	if df.Err != nil {
		return dataframe.DataFrame{}, errors.Wrap(errors.ErrCodeInvalidFormat, df.Err, "parse %s", filepath.Base(path))
	}
	return df, nil
}

func readFile(path string, read func(*os.File) dataframe.DataFrame) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, errors.Wrap(errors.ErrCodeInternal, err, "open dataset")
	}
	defer f.Close()
	return read(f), nil
}

func loadOptions(opts LoadOptions) []dataframe.LoadOption {
	var out []dataframe.LoadOption
	if len(opts.Types) > 0 {
		out = append(out, dataframe.WithTypes(opts.Types))
	}
	return out
}

// loadSQLite reads a whole table as strings and lets gota detect the types,
// the same way a CSV export of the table would load.
func loadSQLite(ctx context.Context, path string, opts LoadOptions) (dataframe.DataFrame, error) {
	if opts.Table == "" {
		return dataframe.DataFrame{}, errors.New(errors.ErrCodeInvalidInput,
			"a table name is required for SQLite dataset %s", filepath.Base(path))
	}
	if err := errors.ValidateTableName(opts.Table); err != nil {
		return dataframe.DataFrame{}, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return dataframe.DataFrame{}, errors.Wrap(errors.ErrCodeInternal, err, "open sqlite")
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM "%s"`, opts.Table))
	if err != nil {
		return dataframe.DataFrame{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "query table %s", opts.Table)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return dataframe.DataFrame{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read columns")
	}

	records := [][]string{cols}
	cells := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range cells {
		dest[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return dataframe.DataFrame{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "scan row")
		}
		rec := make([]string, len(cols))
		for i, c := range cells {
			if c.Valid {
				rec[i] = c.String
			} else {
				rec[i] = "NaN"
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return dataframe.DataFrame{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read rows")
	}
	if len(records) == 1 {
		return dataframe.DataFrame{}, errors.New(errors.ErrCodeEmptyDataset, "table %s has no rows", opts.Table)
	}

	return dataframe.LoadRecords(records, loadOptions(opts)...), nil
}

// Import writes df into table of the SQLite database at path, replacing any
// existing table of that name. Every column is stored as TEXT, except
// columns gota typed as Int or Float, which become INTEGER and REAL.
func Import(ctx context.Context, df dataframe.DataFrame, path, table string) (int, error) {
	if err := errors.ValidatePath(path); err != nil {
		return 0, err
	}
	if err := errors.ValidateTableName(table); err != nil {
		return 0, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "open sqlite")
	}
	defer db.Close()

	names := df.Names()
	defs := make([]string, len(names))
	marks := make([]string, len(names))
	for i, name := range names {
		if errors.ValidateTableName(name) != nil {
			return 0, errors.New(errors.ErrCodeInvalidColumn, "column %q is not a valid SQLite identifier", name)
		}
		defs[i] = fmt.Sprintf(`"%s" %s`, name, sqlType(df.Col(name).Type()))
		marks[i] = "?"
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "begin")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS "%s"`, table)); err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "drop table")
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE "%s" (%s)`, table, strings.Join(defs, ", "))); err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "create table")
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO "%s" VALUES (%s)`, table, strings.Join(marks, ", ")))
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "prepare insert")
	}
	defer stmt.Close()

	cols := make([]series.Series, len(names))
	for i, name := range names {
		cols[i] = df.Col(name)
	}
	args := make([]any, len(names))
	for r := 0; r < df.Nrow(); r++ {
		for i, s := range cols {
			args[i] = sqlValue(s.Elem(r))
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, errors.Wrap(errors.ErrCodeInternal, err, "insert row %d", r)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "commit")
	}
	return df.Nrow(), nil
}

func sqlType(t series.Type) string {
	switch t {
	case series.Int:
		return "INTEGER"
	case series.Float:
		return "REAL"
	default:
		return "TEXT"
	}
}

func sqlValue(e series.Element) any {
	if e.IsNA() {
		return nil
	}
	switch e.Type() {
	case series.Int:
		if v, err := e.Int(); err == nil {
			return v
		}
		return nil
	case series.Float:
		return e.Float()
	default:
		return e.String()
	}
}
