package agents

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/example/vocabot/pkg/models"
)

const (
	// PlaceholderDefinition stands in for a word nobody could define
	PlaceholderDefinition = "(definition not available offline)"

	shortWordLen = 5
)

// EnrichWord fills in whatever content is missing: a placeholder definition,
// a template example and a heuristic mnemonic. Present fields are kept.
func EnrichWord(info models.WordInfo) models.WordInfo {
	if len(info.Definitions) == 0 {
		info.Definitions = []string{PlaceholderDefinition}
	}

	if info.Example == nil || *info.Example == "" {
		ex := fmt.Sprintf("I used the word '%s' in a sentence to demonstrate its meaning.", info.Word)
		info.Example = &ex
	}

	if info.Mnemonic == nil || *info.Mnemonic == "" {
		m := heuristicMnemonic(info.Word)
		info.Mnemonic = &m
	}

	return info
}

// heuristicMnemonic: короткие слова запоминаем целиком, длинные делим пополам
func heuristicMnemonic(word string) string {
	w := strings.ToLower(word)
	if utf8.RuneCountInString(w) <= shortWordLen {
		return fmt.Sprintf("Think of '%s' and a short phrase that reminds you of it.", w)
	}

	runes := []rune(w)
	mid := len(runes) / 2
	return fmt.Sprintf("Split: %s-%s, build an image bridging the two.", string(runes[:mid]), string(runes[mid:]))
}
