package wordlist

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// definitionSeparator splits several definitions kept in one cell
const definitionSeparator = ";"

// ImportConfig describes the spreadsheet layout of a word list
type ImportConfig struct {
	WordColumn       string // Column with the word
	DefinitionColumn string // Column with definitions separated by ";"
	ExampleColumn    string // Column with an example sentence, optional
	SheetName        string // Name of the sheet to import
	StartRow         int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		WordColumn:       "A",
		DefinitionColumn: "B",
		ExampleColumn:    "C",
		SheetName:        "Sheet1",
		StartRow:         2, // By default, start from the second row (skip header)
	}
}

// importFromExcel reads entries from an Excel workbook
func importFromExcel(path string, cfg ImportConfig) ([]Entry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := cfg.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	var entries []Entry
	for i, row := range rows {
		// Skip header rows
		if i < cfg.StartRow-1 {
			continue
		}
		if e, ok := entryFromRow(row, cfg); ok {
			entries = append(entries, e)
		}
	}
	return clean(entries), nil
}

// importFromCSV reads entries from a CSV file using the same column letters
func importFromCSV(path string, cfg ImportConfig) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var entries []Entry
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}

		rowNum++
		if rowNum < cfg.StartRow {
			continue
		}
		if e, ok := entryFromRow(row, cfg); ok {
			entries = append(entries, e)
		}
	}
	return clean(entries), nil
}

// entryFromRow maps a spreadsheet row to an Entry. Rows without a word are skipped.
func entryFromRow(row []string, cfg ImportConfig) (Entry, bool) {
	word := cleanWord(cell(row, cfg.WordColumn))
	if word == "" {
		return Entry{}, false
	}

	e := Entry{Word: word}
	if defs := cell(row, cfg.DefinitionColumn); defs != "" {
		e.Definitions = strings.Split(defs, definitionSeparator)
	}
	if ex := strings.TrimSpace(cell(row, cfg.ExampleColumn)); ex != "" {
		e.Example = &ex
	}
	return e, true
}

// cell returns the value in column (a letter) or "" when the row is shorter
func cell(row []string, column string) string {
	if column == "" {
		return ""
	}
	if idx := columnToIndex(column); idx >= 0 && idx < len(row) {
		return row[idx]
	}
	return ""
}

// cleanWord удаляет из слова дополнительную информацию в скобках
func cleanWord(word string) string {
	// "go (went, gone)" -> "go"
	if i := strings.Index(word, "("); i > 0 {
		return strings.TrimSpace(word[:i])
	}
	return strings.TrimSpace(word)
}

// columnToIndex converts an Excel column letter to a zero-based index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		if column[i] < 'A' || column[i] > 'Z' {
			return -1
		}
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
