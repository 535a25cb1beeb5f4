package storage

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/disaster-triage/internal/common"
	"github.com/Veraticus/disaster-triage/internal/dataset"
)

// reservedTables are managed by migrations and cannot be replaced.
var reservedTables = map[string]bool{
	"etl_runs":      true,
	"training_runs": true,
}

// ReplaceTable drops and recreates the named table from t inside one transaction,
// so readers see either the previous contents or the new ones.
func (s *SQLiteStorage) ReplaceTable(ctx context.Context, name string, t *dataset.Table) (err error) {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}
	if reservedTables[strings.ToLower(name)] || strings.HasPrefix(strings.ToLower(name), "sqlite_") {
		return fmt.Errorf("%w: table name %q is reserved", common.ErrWrite, name)
	}
	if err := validateTable(t); err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", common.ErrWrite, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(name)); err != nil {
		return fmt.Errorf("%w: failed to drop table %s: %v", common.ErrWrite, name, err)
	}

	if _, err = tx.ExecContext(ctx, createTableSQL(name, t.Columns)); err != nil {
		return fmt.Errorf("%w: failed to create table %s: %v", common.ErrWrite, name, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", t.Width()), ", ")
	stmt, err := tx.PreparexContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(name), placeholders))
	if err != nil {
		return fmt.Errorf("%w: failed to prepare insert: %v", common.ErrWrite, err)
	}
	defer func() { _ = stmt.Close() }()

	args := make([]any, t.Width())
	for i, row := range t.Rows {
		for c, v := range row {
			args[c] = cellArg(v, t.Columns[c].Kind)
		}
		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("%w: failed to insert row %d: %v", common.ErrWrite, i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit table %s: %v", common.ErrWrite, name, err)
	}
	return nil
}

// ReadTable loads the named table in insertion order.
func (s *SQLiteStorage) ReadTable(ctx context.Context, name string) (*dataset.Table, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	var info []struct {
		Name string `db:"name"`
		Type string `db:"type"`
	}
	if err := s.db.SelectContext(ctx, &info,
		"SELECT name, type FROM pragma_table_info(?) ORDER BY cid", name); err != nil {
		return nil, fmt.Errorf("%w: failed to describe table %s: %v", common.ErrDataAccess, name, err)
	}
	if len(info) == 0 {
		return nil, fmt.Errorf("%w: table %s", common.ErrNotFound, name)
	}

	t := &dataset.Table{Columns: make([]dataset.Column, len(info))}
	for i, c := range info {
		t.Columns[i] = dataset.Column{Name: c.Name, Kind: kindFromSQL(c.Type)}
	}

	rows, err := s.db.QueryxContext(ctx, fmt.Sprintf("SELECT * FROM %s ORDER BY rowid", quoteIdent(name)))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query table %s: %v", common.ErrDataAccess, name, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		cells, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan row: %v", common.ErrDataAccess, err)
		}

		row := make(dataset.Row, len(cells))
		for i, cell := range cells {
			v, err := cellValue(cell, t.Columns[i].Kind)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %s: %v", common.ErrDataQuality, t.Len(), t.Columns[i].Name, err)
			}
			row[i] = v
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate rows: %v", common.ErrDataAccess, err)
	}

	return t, nil
}

// TableRowCount returns the number of rows in the named table.
func (s *SQLiteStorage) TableRowCount(ctx context.Context, name string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdent(name)))
	if err != nil {
		return 0, fmt.Errorf("%w: failed to count rows in %s: %v", common.ErrDataAccess, name, err)
	}
	return count, nil
}

func createTableSQL(name string, columns []dataset.Column) string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = quoteIdent(c.Name) + " " + sqlType(c.Kind)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(name), strings.Join(defs, ", "))
}

func sqlType(k dataset.Kind) string {
	if k == dataset.KindInteger {
		return "INTEGER"
	}
	return "TEXT"
}

func kindFromSQL(declared string) dataset.Kind {
	if strings.Contains(strings.ToUpper(declared), "INT") {
		return dataset.KindInteger
	}
	return dataset.KindText
}

func cellArg(v dataset.Value, kind dataset.Kind) any {
	switch {
	case v.Null:
		return nil
	case kind == dataset.KindInteger:
		return v.Int
	default:
		return v.Text
	}
}

func cellValue(cell any, kind dataset.Kind) (dataset.Value, error) {
	switch c := cell.(type) {
	case nil:
		return dataset.Null(), nil
	case int64:
		if kind == dataset.KindInteger {
			return dataset.Int(c), nil
		}
		return dataset.Text(strconv.FormatInt(c, 10)), nil
	case float64:
		if kind == dataset.KindInteger {
			return dataset.Int(int64(c)), nil
		}
		return dataset.Text(strconv.FormatFloat(c, 'f', -1, 64)), nil
	case []byte:
		return textValue(string(c), kind)
	case string:
		return textValue(c, kind)
	default:
		return dataset.Value{}, fmt.Errorf("unsupported cell type %T", cell)
	}
}

func textValue(s string, kind dataset.Kind) (dataset.Value, error) {
	if kind != dataset.KindInteger {
		return dataset.Text(s), nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return dataset.Value{}, err
	}
	return dataset.Int(n), nil
}
