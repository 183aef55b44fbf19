// Command battlesim runs one battle between two creatures from the local
// catalog and prints the turn log followed by the winner.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cory-johannsen/battlesim/internal/catalog"
	"github.com/cory-johannsen/battlesim/internal/config"
	"github.com/cory-johannsen/battlesim/internal/game/combat"
	"github.com/cory-johannsen/battlesim/internal/game/condition"
	"github.com/cory-johannsen/battlesim/internal/observability"
)

// Flags are parsed by the standard flag package, which stops at the first
// positional argument, so every flag must precede the creature names.
const usage = "usage: battlesim [-config f] [-creatures dir] [-level n] [-max-turns n] [-random] [-status1 list] [-status2 list] <creature1> <creature2>\n" +
	"flags must come before the creature names"

func main() {
	// A missing .env is normal; real environment variables still apply.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run parses args, loads configuration and content, simulates the battle and
// writes the log and winner to out.
//
// Postcondition: Returns nil only when a battle was simulated and printed.
func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("battlesim", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath := fs.String("config", "", "path to YAML config file")
	creaturesDir := fs.String("creatures", "", "directory of creature YAML files (overrides config)")
	level := fs.Int("level", 0, "creature level (overrides config)")
	maxTurns := fs.Int("max-turns", 0, "turn cap before a draw (overrides config)")
	random := fs.Bool("random", false, "seed the battle from crypto/rand instead of running deterministically")
	status1 := fs.String("status1", "", "comma-separated starting statuses for creature 1")
	status2 := fs.String("status2", "", "comma-separated starting statuses for creature 2")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w\n%s", err, usage)
	}
	if fs.NArg() != 2 {
		return errors.New(usage)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "creatures":
			cfg.Catalog.CreaturesDir = *creaturesDir
		case "level":
			cfg.Battle.Level = *level
		case "max-turns":
			cfg.Battle.MaxTurns = *maxTurns
		case "random":
			cfg.Battle.Deterministic = !*random
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	registry, err := catalog.LoadDirectory(cfg.Catalog.CreaturesDir)
	if err != nil {
		return fmt.Errorf("loading creatures: %w", err)
	}
	logger.Info("catalog loaded",
		zap.String("dir", cfg.Catalog.CreaturesDir),
		zap.Int("creatures", registry.Len()),
	)

	in1, err := contender(fs.Arg(0), *status1)
	if err != nil {
		return err
	}
	in2, err := contender(fs.Arg(1), *status2)
	if err != nil {
		return err
	}

	result, err := combat.Simulate(ctx, registry, in1, in2,
		combat.WithLevel(cfg.Battle.Level),
		combat.WithMaxTurns(cfg.Battle.MaxTurns),
		combat.WithDeterministic(cfg.Battle.Deterministic),
		combat.WithLogger(logger),
	)
	if errors.Is(err, catalog.ErrNotFound) {
		return fmt.Errorf("%w (available: %s)", err, strings.Join(registry.Names(), ", "))
	}
	if err != nil {
		return err
	}

	for _, line := range result.Log {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "Winner: %s\n", result.Winner)
	return nil
}

func contender(id, statuses string) (combat.Contender, error) {
	in := combat.ByID(id)
	set, err := condition.ParseSet(statuses)
	if err != nil {
		return combat.Contender{}, fmt.Errorf("statuses for %q: %w", id, err)
	}
	in.Status = set
	return in, nil
}
