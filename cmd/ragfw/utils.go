package ragfw

import (
	"errors"
	"fmt"
	"os"

	"github.com/ragfw/ragfw/internal/audit"
	"github.com/ragfw/ragfw/internal/config"
	"github.com/ragfw/ragfw/internal/firewall"
	"github.com/ragfw/ragfw/internal/logging"
	"golang.org/x/term"
)

// errDenied signals --fail-on-deny; it maps to exit code 1.
var errDenied = errors.New("one or more documents were denied")

func exitCode(err error) int {
	if errors.Is(err, errDenied) {
		return 1
	}
	return 2
}

// session is everything a command needs to make decisions.
type session struct {
	cfg   config.FileConfig
	built config.Built
	fw    *firewall.Firewall
	log   audit.Log
	close func()
}

func loadConfig() (config.FileConfig, error) {
	wd, _ := os.Getwd()
	cfg, err := config.Resolve(flagConfig, wd)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// setup loads configuration and builds the firewall with its audit sink.
func setup() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	built, err := config.Build(cfg)
	if err != nil {
		return nil, err
	}
	sink, closeSink := cfg.OpenAudit()
	workers := flagWorkers
	if workers == 0 {
		workers = cfg.WorkerCount()
	}
	fw, err := firewall.New(firewall.Config{
		Scanners: built.Scanners,
		Rules:    built.Rules,
		Audit:    sink,
		Logger:   logging.New("firewall"),
		Workers:  workers,
	})
	if err != nil {
		closeSink()
		return nil, err
	}
	return &session{cfg: cfg, built: built, fw: fw, log: sink, close: closeSink}, nil
}

// noColor disables color when asked to or when stdout is not a terminal.
func noColor(cfg config.FileConfig) bool {
	if flagNoColor || os.Getenv("NO_COLOR") != "" {
		return true
	}
	if cfg.NoColor != nil && *cfg.NoColor {
		return true
	}
	return !term.IsTerminal(int(os.Stdout.Fd()))
}
