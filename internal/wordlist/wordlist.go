// Package wordlist reads the static local word list used for offline
// definitions and for suggesting new words.
package wordlist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Entry is one word of the local list
type Entry struct {
	Word        string   `json:"word"`
	Definitions []string `json:"definitions"`
	Example     *string  `json:"example"`
}

// document is the JSON layout of the list file
type document struct {
	Words []Entry `json:"words"`
}

// Load reads the list at path. The format follows the file extension:
// .json, .csv or .xlsx (see ImportConfig for spreadsheet columns).
func Load(path string, cfg ImportConfig) ([]Entry, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return importFromCSV(path, cfg)
	case ".xlsx", ".xlsm":
		return importFromExcel(path, cfg)
	default:
		return loadJSON(path)
	}
}

func loadJSON(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse word list: %w", err)
	}
	return clean(doc.Words), nil
}

// WriteJSON stores entries in the JSON layout understood by Load
func WriteJSON(path string, entries []Entry) error {
	data, err := json.MarshalIndent(document{Words: entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal word list: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create word list directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write word list: %w", err)
	}
	return nil
}

// Words returns the spellings of entries in list order
func Words(entries []Entry) []string {
	words := make([]string, len(entries))
	for i, e := range entries {
		words[i] = e.Word
	}
	return words
}

// clean drops entries without a word and trims whitespace
func clean(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		e.Word = strings.TrimSpace(e.Word)
		if e.Word == "" {
			continue
		}
		defs := make([]string, 0, len(e.Definitions))
		for _, d := range e.Definitions {
			if d = strings.TrimSpace(d); d != "" {
				defs = append(defs, d)
			}
		}
		e.Definitions = defs
		if e.Example != nil && strings.TrimSpace(*e.Example) == "" {
			e.Example = nil
		}
		out = append(out, e)
	}
	return out
}
