// Package importer loads supplier and product records in bulk from Excel
// workbooks. Sheet and column layouts come from a YAML mapping file so
// spreadsheets from different sources can be ingested without code changes.
package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tealeg/xlsx/v3"
	"gopkg.in/yaml.v3"
)

// ImportOptions configures a single import run.
type ImportOptions struct {
	MappingPath string // default "configs/mapping/suppliers.yaml"
	DryRun      bool
	MaxErrors   int // default 50
}

// RowError describes a row that could not be imported.
type RowError struct {
	Sheet   string `json:"sheet"`
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// SheetSummary holds per-sheet import statistics.
type SheetSummary struct {
	Name     string     `json:"name"`
	Inserted int        `json:"inserted"`
	Skipped  int        `json:"skipped"`
	Errors   int        `json:"errors"`
	Samples  []RowError `json:"error_samples,omitempty"`
}

// ImportSummary holds the overall import statistics.
type ImportSummary struct {
	Inserted int            `json:"inserted"`
	Skipped  int            `json:"skipped"`
	Errors   int            `json:"errors"`
	Sheets   []SheetSummary `json:"sheets"`
	DryRun   bool           `json:"dry_run"`
}

// MappingConfig is the YAML mapping file shape.
type MappingConfig struct {
	Version int                    `yaml:"version"`
	Sheets  map[string]SheetConfig `yaml:"sheets"`
}

// SheetConfig maps a workbook sheet onto one of the entity kinds.
type SheetConfig struct {
	Entity  string              `yaml:"entity"` // "supplier" or "product"
	Aliases map[string][]string `yaml:"aliases"`
}

// ImportExcel reads the workbook from r and inserts the mapped rows inside a
// single transaction. Dry runs roll the transaction back after counting.
func ImportExcel(ctx context.Context, db *pgxpool.Pool, r io.Reader, opts ImportOptions) (ImportSummary, error) {
	summary := ImportSummary{
		DryRun: opts.DryRun,
		Sheets: []SheetSummary{},
	}

	if opts.MappingPath == "" {
		opts.MappingPath = "configs/mapping/suppliers.yaml"
	}
	if opts.MaxErrors == 0 {
		opts.MaxErrors = 50
	}

	mapping, err := loadMappingConfig(opts.MappingPath)
	if err != nil {
		return summary, fmt.Errorf("failed to load mapping config: %w", err)
	}

	// xlsx needs an io.ReaderAt, so buffer the upload first.
	data, err := io.ReadAll(r)
	if err != nil {
		return summary, fmt.Errorf("failed to read Excel file: %w", err)
	}
	xlFile, err := xlsx.OpenBinary(data)
	if err != nil {
		return summary, fmt.Errorf("failed to open Excel file: %w", err)
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, sheet := range xlFile.Sheets {
		sheetConfig, exists := mapping.Sheets[sheet.Name]
		if !exists {
			continue // Skip sheets without mapping
		}

		sheetSummary := processSheet(ctx, tx, sheet, sheetConfig)
		summary.Sheets = append(summary.Sheets, sheetSummary)
		summary.Inserted += sheetSummary.Inserted
		summary.Skipped += sheetSummary.Skipped
		summary.Errors += sheetSummary.Errors

		if summary.Errors > opts.MaxErrors {
			return summary, fmt.Errorf("too many errors (%d), stopping import", summary.Errors)
		}
	}

	if opts.DryRun {
		return summary, nil // deferred rollback discards the work
	}
	if err := tx.Commit(ctx); err != nil {
		return summary, fmt.Errorf("failed to commit import: %w", err)
	}
	return summary, nil
}

func loadMappingConfig(path string) (*MappingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg MappingConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Sheets) == 0 {
		return nil, fmt.Errorf("mapping %s defines no sheets", path)
	}
	return &cfg, nil
}

func processSheet(ctx context.Context, tx pgx.Tx, sheet *xlsx.Sheet, config SheetConfig) SheetSummary {
	summary := SheetSummary{Name: sheet.Name}

	headerRow, err := sheet.Row(0)
	if err != nil {
		summary.Errors++
		summary.Samples = append(summary.Samples, RowError{
			Sheet:   sheet.Name,
			Row:     1,
			Message: "failed to read header row: " + err.Error(),
		})
		return summary
	}

	// Resolve column index per field via the alias table.
	fieldCols := make(map[string]int)
	for colIdx := 0; ; colIdx++ {
		cell := headerRow.GetCell(colIdx)
		if cell == nil || strings.TrimSpace(cell.String()) == "" {
			break
		}
		header := strings.ToLower(strings.TrimSpace(cell.String()))
		for field, aliases := range config.Aliases {
			if header == field {
				fieldCols[field] = colIdx
			}
			for _, alias := range aliases {
				if header == strings.ToLower(alias) {
					fieldCols[field] = colIdx
				}
			}
		}
	}

	for rowIdx := 1; ; rowIdx++ {
		row, err := sheet.Row(rowIdx)
		if err != nil {
			break
		}

		values := make(map[string]string, len(fieldCols))
		empty := true
		for field, colIdx := range fieldCols {
			cell := row.GetCell(colIdx)
			if cell == nil {
				continue
			}
			v := strings.TrimSpace(cell.String())
			if v != "" {
				values[field] = v
				empty = false
			}
		}
		if empty {
			summary.Skipped++
			continue
		}

		if err := insertRow(ctx, tx, config.Entity, values); err != nil {
			summary.Errors++
			if len(summary.Samples) < 10 {
				summary.Samples = append(summary.Samples, RowError{
					Sheet:   sheet.Name,
					Row:     rowIdx + 1,
					Message: err.Error(),
				})
			}
			continue
		}
		summary.Inserted++
	}

	return summary
}

func insertRow(ctx context.Context, tx pgx.Tx, entity string, values map[string]string) error {
	switch entity {
	case "supplier":
		return insertSupplier(ctx, tx, values)
	case "product":
		return insertProduct(ctx, tx, values)
	}
	return fmt.Errorf("unknown entity kind %q", entity)
}

func insertSupplier(ctx context.Context, tx pgx.Tx, values map[string]string) error {
	name := values["name"]
	if name == "" {
		return fmt.Errorf("name is required")
	}
	available := true
	if v, ok := values["available"]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("available: %v", err)
		}
		available = b
	}
	rating := 0.0
	if v, ok := values["rating"]; ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("rating: %v", err)
		}
		rating = f
	}
	gender := strings.ToUpper(values["gender"])
	if gender == "" {
		gender = "UNKNOWN"
	}

	_, err := tx.Exec(ctx, `
		INSERT INTO suppliers (name, email, phone, address, available, gender, rating)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, name, values["email"], values["phone"], values["address"], available, gender, rating)
	return err
}

func insertProduct(ctx context.Context, tx pgx.Tx, values map[string]string) error {
	name := values["name"]
	if name == "" {
		return fmt.Errorf("name is required")
	}
	price, err := strconv.ParseFloat(values["price"], 64)
	if err != nil {
		return fmt.Errorf("price: %v", err)
	}
	supplierID, err := strconv.ParseInt(values["supplier_id"], 10, 64)
	if err != nil {
		return fmt.Errorf("supplier_id: %v", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO products (name, price, supplier_id)
		VALUES ($1,$2,$3)
	`, name, price, supplierID)
	return err
}
