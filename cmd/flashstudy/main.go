package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vytor/flashstudy/internal/aiwidget"
	"github.com/vytor/flashstudy/internal/config"
	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/sessionclient"
	"github.com/vytor/flashstudy/internal/study"
	"github.com/vytor/flashstudy/internal/tui"
	"github.com/vytor/flashstudy/internal/worker"
)

const usage = `usage:
  flashstudy [-server URL] <set-id>
  flashstudy generate [-server URL] -topic TEXT [-amount N] [-difficulty D] [-source-url URL]
`

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, closer, err := logger.OpenFile(cfg.ClientLogPath, logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer closer.Close()
	logger.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	args := os.Args[1:]
	if len(args) > 0 && args[0] == "generate" {
		err = runGenerate(ctx, cfg, log, args[1:], os.Stdout)
	} else {
		err = runSession(ctx, cfg, log, args)
	}
	if err != nil {
		log.Error("%v", err)
		fmt.Fprintf(os.Stderr, "flashstudy: %v\n", err)
		os.Exit(1)
	}
}

func newClient(cfg config.Config, server string, log *logger.Logger) (*sessionclient.Client, error) {
	if server == "" {
		server = cfg.ServerURL
	}
	return sessionclient.New(server,
		sessionclient.WithTimeout(cfg.HTTPTimeout),
		sessionclient.WithLogger(log),
	)
}

func runSession(ctx context.Context, cfg config.Config, log *logger.Logger, args []string) error {
	fs := flag.NewFlagSet("flashstudy", flag.ContinueOnError)
	server := fs.String("server", "", "server base URL (default $SERVER_URL)")
	fs.Usage = func() { fmt.Fprint(fs.Output(), usage) }
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("expected exactly one set id")
	}
	setID := fs.Arg(0)

	client, err := newClient(cfg, *server, log)
	if err != nil {
		return err
	}
	boot, err := client.FetchBootstrap(ctx, setID)
	if err != nil {
		return fmt.Errorf("load set %s: %w", setID, err)
	}

	pool := worker.NewPool(cfg.SyncWorkerCount, cfg.SyncQueueSize).WithLogger(log)
	pool.Start(ctx)
	defer pool.Stop()

	screen := tui.NewScreen()
	ctrl, err := study.New(boot,
		study.WithView(screen),
		study.WithNavigator(screen),
		study.WithSyncer(client.Syncer(boot)),
		study.WithRunner(pool),
		study.WithLogger(log),
		study.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	ctrl.Start()

	model := tui.NewModel(ctrl, screen, "flashstudy · "+setID)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.Attach(p)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run terminal ui: %w", err)
	}

	if summary := screen.Frame().Summary; summary != "" {
		fmt.Println(summary)
	}
	return nil
}

type consoleUI struct {
	out io.Writer
	log *logger.Logger
}

func (u consoleUI) SetModal(open bool) { u.log.Debug("generation form open=%t", open) }

func (u consoleUI) SetSubmit(enabled bool, label string) {
	if !enabled {
		fmt.Fprintln(u.out, label)
	}
}

func (u consoleUI) Alert(message string) { fmt.Fprintln(u.out, message) }

func (u consoleUI) ResetForm() {}

type printNavigator struct {
	out io.Writer
}

func (n printNavigator) Navigate(url string) { fmt.Fprintf(n.out, "Open %s\n", url) }

func runGenerate(ctx context.Context, cfg config.Config, log *logger.Logger, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	server := fs.String("server", "", "server base URL (default $SERVER_URL)")
	topic := fs.String("topic", "", "what the flashcards should cover")
	amount := fs.Int("amount", 5, "number of flashcards")
	difficulty := fs.String("difficulty", "Medium", "Easy, Medium or Hard")
	sourceURL := fs.String("source-url", "", "optional article to draw from")
	fs.Usage = func() { fmt.Fprint(fs.Output(), usage) }
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *topic == "" {
		fs.Usage()
		return errors.New("-topic is required")
	}

	client, err := newClient(cfg, *server, log)
	if err != nil {
		return err
	}
	if err := client.Prime(ctx); err != nil {
		return fmt.Errorf("contact server: %w", err)
	}

	form := url.Values{
		"topic":      {*topic},
		"amount":     {strconv.Itoa(*amount)},
		"difficulty": {*difficulty},
	}
	if *sourceURL != "" {
		form.Set("source_url", *sourceURL)
	}

	widget := aiwidget.New("/create-ai-activity/flashcards", aiwidget.FlashcardPrompt, client,
		consoleUI{out: out, log: log}, printNavigator{out: out}).WithLogger(log)
	widget.Open()
	result := widget.Submit(ctx, form)
	switch {
	case result == nil:
		return errors.New("generation request failed")
	case !result.Success:
		return fmt.Errorf("generation failed: %s", result.Error)
	}
	return nil
}
