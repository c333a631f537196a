package dictionary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/vocabot/pkg/models"
)

const (
	// DefaultBaseURL is the FreeDictionary API endpoint
	DefaultBaseURL = "https://api.dictionaryapi.dev/api/v2/entries/en"
	// DefaultTimeout bounds a single lookup
	DefaultTimeout = 5 * time.Second
)

var (
	// ErrNotFound is returned when the service has no entry for the word
	ErrNotFound = errors.New("dictionary: word not found")
	// ErrUnexpectedStatus is returned for any other non-200 response
	ErrUnexpectedStatus = errors.New("dictionary: unexpected status")
)

// apiEntry mirrors one element of the FreeDictionary response array
type apiEntry struct {
	Word     string       `json:"word"`
	Meanings []apiMeaning `json:"meanings"`
}

type apiMeaning struct {
	PartOfSpeech string          `json:"partOfSpeech"`
	Definitions  []apiDefinition `json:"definitions"`
}

type apiDefinition struct {
	Definition string `json:"definition"`
	Example    string `json:"example"`
}

// Client performs remote definition lookups. It makes exactly one request
// per lookup and never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a client. An empty baseURL selects DefaultBaseURL and a
// non-positive timeout selects DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("component", "dictionary"),
	}
}

// Lookup fetches the definitions of word. Definitions of all meaning groups
// of the first entry are flattened into one list; the first example found is kept.
func (c *Client) Lookup(ctx context.Context, word string) (*models.WordInfo, error) {
	reqURL := c.baseURL + "/" + url.PathEscape(word)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dictionary: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dictionary: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("dictionary: read body: %w", err)
	}

	var entries []apiEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("dictionary: decode json: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrNotFound
	}

	info := mapEntry(word, entries[0])

	c.log.DebugContext(ctx, "dictionary response",
		slog.String("word", word),
		slog.Int("definitions", len(info.Definitions)),
	)
	return info, nil
}

// mapEntry flattens meanings -> definitions of a single entry
func mapEntry(word string, entry apiEntry) *models.WordInfo {
	info := &models.WordInfo{
		Word:        word,
		Definitions: []string{},
	}
	for _, m := range entry.Meanings {
		for _, d := range m.Definitions {
			info.Definitions = append(info.Definitions, d.Definition)
			if info.Example == nil && d.Example != "" {
				ex := d.Example
				info.Example = &ex
			}
		}
	}
	return info
}
