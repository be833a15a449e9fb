package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alexflint/go-arg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/config"
	"github.com/mmcdole/reel/internal/domain"
	applog "github.com/mmcdole/reel/internal/log"
	"github.com/mmcdole/reel/internal/service"
	"github.com/mmcdole/reel/internal/store"
	"github.com/mmcdole/reel/internal/tmdb"
	"github.com/mmcdole/reel/internal/tui"
	"github.com/mmcdole/reel/internal/tui/styles"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

type historyCmd struct {
	Searched bool   `arg:"--searched" help:"show titles opened from search instead of viewed titles"`
	Clear    bool   `arg:"--clear" help:"empty the list"`
	Query    string `arg:"positional" help:"only show titles fuzzily matching QUERY"`
}

type args struct {
	Config   string      `arg:"-c,--config" help:"config file (default: ~/.config/reel/config.yaml)"`
	Kind     string      `arg:"-k,--kind" help:"tab to open on: movie or tv"`
	Category string      `arg:"--category" help:"category to open on, e.g. popular, top_rated"`
	History  *historyCmd `arg:"subcommand:history" help:"print or clear local history"`
}

func (args) Version() string {
	return "reel " + Version
}

func (args) Description() string {
	return "reel browses movies and TV shows from the TMDB catalog in your terminal"
}

func main() {
	var a args
	arg.MustParse(&a)

	if err := run(a); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(a args) error {
	cfg, err := config.LoadConfig(a.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.Kind != "" {
		cfg.Feed.DefaultKind = a.Kind
		if a.Category == "" {
			cfg.Feed.DefaultCategory = string(domain.CategoryPopular)
		}
	}
	if a.Category != "" {
		cfg.Feed.DefaultCategory = a.Category
	}

	logger, closer, err := applog.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = applog.NullLogger()
	} else {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	if a.History != nil {
		return runHistory(cfg, a.History, logger)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("reel needs an interactive terminal (try `reel history` for plain output)")
	}

	logger.Info("starting reel", "version", Version)

	if !cfg.IsConfigured() {
		if err := runSetupFlow(cfg, a.Config, logger); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	kind, err := domain.ParseMediaKind(cfg.Feed.DefaultKind)
	if err != nil {
		return err
	}

	blobs, err := store.Open(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer blobs.Close()
	history := service.NewHistoryService(
		store.NewHistoryStore(blobs, cfg.HistoryKeyMap(), cfg.History.MaxItems, logger),
		logger,
	)

	client := newClient(cfg, logger)

	feedOpts := service.FeedOptions{PageSize: cfg.Feed.PageSize, MaxPage: cfg.Feed.MaxPage}
	feeds := make(map[domain.MediaKind]*service.Paginator, len(domain.Kinds))
	for _, k := range domain.Kinds {
		category := domain.CategoryPopular
		if k == kind {
			category = domain.Category(cfg.Feed.DefaultCategory)
		}
		feeds[k] = service.NewPaginator(client, k, category, feedOpts, logger)
	}

	search := service.NewDebouncer(client, service.SearchOptions{
		Delay:          cfg.Search.Debounce,
		MinQueryLength: cfg.Search.MinQueryLength,
	}, logger)
	defer search.Close()

	model := tui.NewModel(tui.Services{
		Feeds:   feeds,
		Search:  search,
		Detail:  service.NewDetailService(client, history, logger),
		History: history,
	}, tui.Options{
		Kind:           kind,
		ImageBaseURL:   cfg.Catalog.ImageBaseURL,
		CellWidth:      cfg.UI.CellWidth,
		ShowPeek:       cfg.UI.ShowPeek,
		PrefetchRows:   cfg.Feed.PrefetchRows,
		MinQueryLength: cfg.Search.MinQueryLength,
	}, logger)

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI", "kind", kind, "category", cfg.Feed.DefaultCategory)

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

func newClient(cfg *config.Config, logger *slog.Logger) *tmdb.Client {
	opts := []tmdb.Option{tmdb.WithLanguage(cfg.Catalog.Language)}
	if cfg.Catalog.RequestsPerSecond > 0 {
		opts = append(opts, tmdb.WithRateLimit(cfg.Catalog.RequestsPerSecond))
	}
	return tmdb.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Token, logger, opts...)
}

// runHistory prints or clears one history list
func runHistory(cfg *config.Config, h *historyCmd, logger *slog.Logger) error {
	blobs, err := store.Open(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer blobs.Close()

	svc := service.NewHistoryService(
		store.NewHistoryStore(blobs, cfg.HistoryKeyMap(), cfg.History.MaxItems, logger),
		logger,
	)

	list := domain.HistoryViewed
	if h.Searched {
		list = domain.HistorySearched
	}

	if h.Clear {
		if err := svc.Clear(list); err != nil {
			return err
		}
		fmt.Printf("Cleared %s history\n", list)
		return nil
	}

	entries := service.FilterHistory(svc.Recent(list), strings.TrimSpace(h.Query))
	if len(entries) == 0 {
		fmt.Printf("No %s history\n", list)
		return nil
	}

	now := time.Now()
	for _, e := range entries {
		fmt.Printf("%-6s %-8d %-44s %s\n",
			strings.ToUpper(string(e.Kind)),
			e.ID,
			styles.Truncate(e.Title, 44),
			service.VisitedLabel(e, now))
	}
	return nil
}

// runSetupFlow asks for an API token, checks it against the catalog and saves it
func runSetupFlow(cfg *config.Config, path string, logger *slog.Logger) error {
	fmt.Println()
	fmt.Println("Welcome to reel!")
	fmt.Println()
	fmt.Println("reel needs a TMDB API read access token.")
	fmt.Println("Create one at https://www.themoviedb.org/settings/api")
	fmt.Println()

	client := newClient(cfg, logger)
	reader := bufio.NewReader(os.Stdin)
	for {
		token, err := readToken(reader)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if token == "" {
			fmt.Println("Token cannot be empty. Please try again.")
			continue
		}

		client.SetToken(token)
		err = checkTokenWithSpinner(client)
		if errors.Is(err, domain.ErrUnauthorized) {
			fmt.Println("✗ The catalog rejected this token. Please try again.")
			fmt.Println()
			continue
		}
		if err != nil {
			return fmt.Errorf("could not reach the catalog: %w", err)
		}
		cfg.Catalog.Token = token
		break
	}

	written, err := config.SaveConfig(cfg, path)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("✓ Configuration saved to %s\n", written)
	fmt.Println()
	return nil
}

// readToken reads the token without echo when stdin is a terminal
func readToken(reader *bufio.Reader) (string, error) {
	fmt.Print("API read access token: ")
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// checkTokenWithSpinner fetches one listing page with a visual spinner
func checkTokenWithSpinner(client *tmdb.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		_, err := client.ListByCategory(ctx, domain.KindMovie, domain.CategoryPopular, 1)
		errCh <- err
	}()

	frame := 0
	fmt.Printf("\r%s Checking token...", styles.Spinner(frame))

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-errCh:
			fmt.Print(clearSpinnerLine)
			if err == nil {
				fmt.Println("✓ Token accepted")
			}
			return err

		case <-ticker.C:
			frame++
			fmt.Printf("\r%s Checking token...", styles.Spinner(frame))
		}
	}
}
