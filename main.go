package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/example/vocabot/internal/agents"
	"github.com/example/vocabot/internal/ai"
	"github.com/example/vocabot/internal/bot"
	"github.com/example/vocabot/internal/config"
	"github.com/example/vocabot/internal/database"
	"github.com/example/vocabot/internal/dictionary"
	"github.com/example/vocabot/internal/logger"
	"github.com/example/vocabot/internal/progress"
	"github.com/example/vocabot/internal/scheduler"
	"github.com/example/vocabot/internal/tui"
	"github.com/example/vocabot/internal/wordlist"
	"github.com/example/vocabot/pkg/models"
)

func main() {
	ui := flag.String("ui", "tui", "surface to run: tui or bot")
	importPath := flag.String("import", "", "convert a CSV or Excel word list to the JSON word list and exit")
	flag.Parse()

	if err := run(*ui, *importPath); err != nil {
		slog.Error("vocabot failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ui, importPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Создаем контекст, который отменяется по сигналу
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if importPath != "" {
		logger.New(cfg.Log)
		return importWordlist(cfg, importPath)
	}

	var log *slog.Logger
	switch ui {
	case "bot":
		log = logger.New(cfg.Log)
	case "tui":
		// the terminal belongs to the UI, logs go to a file next to the data
		f, err := openLogFile(cfg)
		if err != nil {
			return err
		}
		defer f.Close()
		log = logger.NewWithWriter(cfg.Log, f)
	default:
		return fmt.Errorf("unknown -ui %q, want tui or bot", ui)
	}

	storage, closeStorage, err := openStorage(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}
	defer closeStorage()

	store := progress.New(storage, progress.WithLogger(log))
	rec, outcome := store.Load(ctx)
	log.Info("progress loaded",
		slog.String("outcome", outcome.String()),
		slog.String("user", rec.User.Name),
		slog.Int("words", rec.Words.Len()),
	)

	entries, err := wordlist.Load(cfg.Dictionary.WordlistPath, importConfig(cfg))
	if err != nil {
		log.Warn("local word list unavailable, suggestions disabled",
			slog.String("path", cfg.Dictionary.WordlistPath),
			slog.Any("error", err),
		)
	}

	client := dictionary.NewClient(cfg.Dictionary.BaseURL, cfg.Dictionary.Timeout, log)
	source := dictionary.NewSource(client, entries, dictionary.WithLogger(log))
	log.Info("word source ready",
		slog.String("remote", cfg.Dictionary.BaseURL),
		slog.Int("local_words", source.Len()),
	)

	agentOpts := []agents.Option{agents.WithLogger(log)}
	if assistant, err := ai.New(cfg.OpenAI, log); err == nil {
		agentOpts = append(agentOpts, agents.WithAssistant(assistant))
		log.Info("generated examples enabled", slog.String("model", cfg.OpenAI.Model))
	} else if !errors.Is(err, ai.ErrNoAPIKey) {
		return err
	}
	sessions := agents.New(store, source, agentOpts...)

	if ui == "bot" {
		return runBot(ctx, cfg, store, sessions, source, log)
	}
	return runTUI(ctx, cfg, store, sessions, source)
}

func runBot(ctx context.Context, cfg *config.Config, store *progress.Store, sessions *agents.Agents, source *dictionary.Source, log *slog.Logger) error {
	b, err := bot.New(cfg.Telegram.Token, bot.ConfigFrom(cfg), store, sessions, source, log)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return b.Run(gctx) })

	if cfg.Reminder.Enabled {
		sched := scheduler.New(store, b, cfg.Reminder, log)
		g.Go(func() error { return sched.Run(gctx) })
	}

	log.Info("bot running, press Ctrl+C to stop")
	return g.Wait()
}

func runTUI(ctx context.Context, cfg *config.Config, store *progress.Store, sessions *agents.Agents, source *dictionary.Source) error {
	model := tui.New(ctx, store, sessions, source, tui.Options{
		QuizSize:  cfg.Session.QuizSize,
		QuizLevel: models.ParseLevel(cfg.Session.DefaultLevel),
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}

// openStorage selects the record backend. The returned func releases it.
func openStorage(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (progress.Storage, func(), error) {
	if cfg.Kind == config.StorageFile {
		fs := progress.NewFileStorage(cfg.ProgressPath)
		log.Info("using file storage", slog.String("path", fs.Path()))
		return fs, func() {}, nil
	}

	driver, err := database.DriverFor(cfg.Kind)
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Connect(driver, cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	repo := database.NewRecordRepository(db)
	if saved, ok, err := repo.UpdatedAt(ctx); err != nil {
		log.Warn("progress timestamp unavailable", slog.Any("error", err))
	} else if ok {
		log.Info("using database storage", slog.String("driver", driver), slog.Time("last_saved", saved))
	} else {
		log.Info("using database storage", slog.String("driver", driver), slog.String("last_saved", "never"))
	}

	return repo, func() {
		if err := db.Close(); err != nil {
			log.Warn("close database", slog.Any("error", err))
		}
	}, nil
}

func importConfig(cfg *config.Config) wordlist.ImportConfig {
	ic := wordlist.DefaultImportConfig()
	ic.SheetName = cfg.Dictionary.SheetName
	return ic
}

// importWordlist converts a spreadsheet to the JSON word list
func importWordlist(cfg *config.Config, path string) error {
	entries, err := wordlist.Load(path, importConfig(cfg))
	if err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	if err := wordlist.WriteJSON(cfg.Dictionary.WordlistPath, entries); err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}

	slog.Info("word list imported",
		slog.String("from", path),
		slog.String("to", cfg.Dictionary.WordlistPath),
		slog.Int("words", len(entries)),
	)
	return nil
}

func openLogFile(cfg *config.Config) (io.WriteCloser, error) {
	dir := filepath.Dir(cfg.Storage.ProgressPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "vocabot.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
