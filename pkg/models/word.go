package models

import "strings"

// WordInfo is the displayable content of a word. It is never persisted.
type WordInfo struct {
	Word        string   `json:"word"`
	Definitions []string `json:"definitions"`
	Example     *string  `json:"example"`
	Mnemonic    *string  `json:"mnemonic"`
}

// FirstDefinition returns the first definition or an empty string
func (w WordInfo) FirstDefinition() string {
	if len(w.Definitions) == 0 {
		return ""
	}
	return w.Definitions[0]
}

// Level is the difficulty of a suggested word set
type Level string

const (
	LevelEasy   Level = "easy"
	LevelMedium Level = "medium"
	LevelHard   Level = "hard"
)

// ParseLevel maps a user supplied string to a Level. Unknown values map to medium.
func ParseLevel(s string) Level {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelEasy:
		return LevelEasy
	case LevelHard:
		return LevelHard
	default:
		return LevelMedium
	}
}

// Recommendation is the suggested difficulty and size of the next session
type Recommendation struct {
	Level Level `json:"level"`
	Count int   `json:"count"`
}
