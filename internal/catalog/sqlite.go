package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS modules (
		id TEXT NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT '',
		importance INTEGER NOT NULL DEFAULT 0
	);`,
	`CREATE TABLE IF NOT EXISTS tables (
		id TEXT NOT NULL,
		module_position INTEGER NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		schema_name TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT '',
		importance INTEGER NOT NULL DEFAULT 0
	);`,
	`CREATE TABLE IF NOT EXISTS columns (
		id TEXT NOT NULL,
		module_position INTEGER NOT NULL,
		table_position INTEGER NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		data_type TEXT NOT NULL DEFAULT '',
		nullable INTEGER NOT NULL DEFAULT 0,
		description TEXT NOT NULL DEFAULT '',
		business_meaning TEXT NOT NULL DEFAULT '',
		example TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		used_in_model INTEGER NOT NULL DEFAULT 0
	);`,
}

// LoadSQLite reads a catalog written by WriteSQLite. Rows are keyed by
// position so duplicate ids survive the round trip in their original order.
func LoadSQLite(path string) (*Catalog, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer db.Close()

	modules, err := loadModules(db)
	if err != nil {
		return nil, err
	}
	if err := loadTables(db, modules); err != nil {
		return nil, err
	}
	if err := loadColumns(db, modules); err != nil {
		return nil, err
	}
	return New(modules), nil
}

func loadModules(db *sql.DB) ([]Module, error) {
	rows, err := db.Query(`SELECT id, name, description, role, importance FROM modules ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("query modules: %w", err)
	}
	defer rows.Close()

	var modules []Module
	for rows.Next() {
		var m Module
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Role, &m.Importance); err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

func loadTables(db *sql.DB, modules []Module) error {
	rows, err := db.Query(`SELECT module_position, id, name, schema_name, description, role, importance
		FROM tables ORDER BY module_position ASC, position ASC`)
	if err != nil {
		return fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			modulePos int
			t         Table
		)
		if err := rows.Scan(&modulePos, &t.ID, &t.Name, &t.Schema, &t.Description, &t.Role, &t.Importance); err != nil {
			return err
		}
		if modulePos < 0 || modulePos >= len(modules) {
			return fmt.Errorf("table %s references missing module position %d", t.ID, modulePos)
		}
		modules[modulePos].Tables = append(modules[modulePos].Tables, t)
	}
	return rows.Err()
}

func loadColumns(db *sql.DB, modules []Module) error {
	rows, err := db.Query(`SELECT module_position, table_position, id, name, data_type, nullable,
		description, business_meaning, example, category, used_in_model
		FROM columns ORDER BY module_position ASC, table_position ASC, position ASC`)
	if err != nil {
		return fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			modulePos, tablePos int
			col                 Column
			category            string
		)
		if err := rows.Scan(&modulePos, &tablePos, &col.ID, &col.Name, &col.DataType, &col.Nullable,
			&col.Description, &col.BusinessMeaning, &col.Example, &category, &col.UsedInModel); err != nil {
			return err
		}
		if modulePos < 0 || modulePos >= len(modules) {
			return fmt.Errorf("column %s references missing module position %d", col.ID, modulePos)
		}
		tables := modules[modulePos].Tables
		if tablePos < 0 || tablePos >= len(tables) {
			return fmt.Errorf("column %s references missing table position %d", col.ID, tablePos)
		}
		col.Category = Category(category)
		tables[tablePos].Columns = append(tables[tablePos].Columns, col)
	}
	return rows.Err()
}

// WriteSQLite replaces path with a SQLite file holding the catalog.
func WriteSQLite(path string, cat *Catalog) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("create catalog: %w", err)
	}
	defer db.Close()

	for _, stmt := range sqliteSchema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("catalog schema migration failed: %w", err)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := insertCatalog(tx, cat); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func insertCatalog(tx *sql.Tx, cat *Catalog) error {
	moduleStmt, err := tx.Prepare(`INSERT INTO modules (id, position, name, description, role, importance) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer moduleStmt.Close()
	tableStmt, err := tx.Prepare(`INSERT INTO tables (id, module_position, position, name, schema_name, description, role, importance)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer tableStmt.Close()
	columnStmt, err := tx.Prepare(`INSERT INTO columns (id, module_position, table_position, position, name, data_type, nullable,
		description, business_meaning, example, category, used_in_model) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer columnStmt.Close()

	for mi, m := range cat.Modules() {
		if _, err := moduleStmt.Exec(m.ID, mi, m.Name, m.Description, m.Role, m.Importance); err != nil {
			return fmt.Errorf("insert module %s: %w", m.ID, err)
		}
		for ti, t := range m.Tables {
			if _, err := tableStmt.Exec(t.ID, mi, ti, t.Name, t.Schema, t.Description, t.Role, t.Importance); err != nil {
				return fmt.Errorf("insert table %s: %w", t.ID, err)
			}
			for ci, col := range t.Columns {
				if _, err := columnStmt.Exec(col.ID, mi, ti, ci, col.Name, col.DataType, col.Nullable,
					col.Description, col.BusinessMeaning, col.Example, string(col.Category), col.UsedInModel); err != nil {
					return fmt.Errorf("insert column %s/%s: %w", t.ID, col.ID, err)
				}
			}
		}
	}
	return nil
}
