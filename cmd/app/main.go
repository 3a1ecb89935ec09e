package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/modeswitch/internal"
	"github.com/starford/modeswitch/internal/api"
	"github.com/starford/modeswitch/internal/apperr"
	"github.com/starford/modeswitch/internal/journal"
	"github.com/starford/modeswitch/internal/mcpserver"
	"github.com/starford/modeswitch/internal/statusfile"
	"github.com/starford/modeswitch/internal/watch"
	pkgconfig "github.com/starford/modeswitch/pkg/config"
)

const usageText = "modeswitch [-h|--help] <max-status> <file>"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("MODESWITCH_CONFIG_FILE"),
	}
}

func fileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "file",
		Aliases: []string{"f"},
		Usage:   "Status file path (overrides config)",
		Sources: cli.EnvVars("MODESWITCH_STATUS_FILE"),
	}
}

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func statusPath(cmd *cli.Command, cfg *internal.Config) string {
	if f := cmd.String("file"); f != "" {
		return f
	}
	return cfg.Status.File
}

// recordTransition appends to the configured journal. Journal problems are
// reported but never fail the operation that triggered them.
func recordTransition(cfg *internal.Config, e journal.Entry) {
	if !cfg.Journal.Enabled() {
		return
	}
	db, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		slog.Warn("journal open failed", slog.String("error", err.Error()))
		return
	}
	defer db.Close()
	if err := db.Record(e); err != nil {
		slog.Warn("journal record failed", slog.String("error", err.Error()))
	}
}

// rotate is the root action: <max-status> <file> per the original script's
// contract. All validation runs before the file is rewritten.
func rotate(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args()
	switch {
	case args.Len() > 2:
		return fmt.Errorf("too many arguments: %w", apperr.ErrUsage)
	case args.Len() < 1:
		return fmt.Errorf("missing required argument <max-status>: %w", apperr.ErrUsage)
	case args.Len() < 2:
		return fmt.Errorf("missing required argument <file>: %w", apperr.ErrUsage)
	}

	max, err := strconv.Atoi(args.Get(0))
	if err != nil || max < 0 {
		return fmt.Errorf("max-status %q is not a non-negative integer: %w", args.Get(0), apperr.ErrUsage)
	}

	path := args.Get(1)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("status file %s does not exist: %w", path, apperr.ErrNotFound)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}

	rot, err := statusfile.New(path).Rotate(max)
	if err != nil {
		return err
	}

	if cfg, cfgErr := loadConfig(cmd); cfgErr == nil {
		recordTransition(cfg, journal.Entry{Old: rot.Old, New: rot.New, Max: max, Source: "cli"})
	}
	return nil
}

func getCommand() *cli.Command {
	return &cli.Command{
		Name:  "get",
		Usage: "Print the current status value and its mode label",
		Flags: []cli.Flag{configFlag(), fileFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			v, err := statusfile.New(statusPath(cmd, cfg)).Read()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.Root().Writer, "%d\t%s\n", v, cfg.Status.Label(v))
			return nil
		},
	}
}

func setCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Write an explicit status value, creating the file when absent",
		ArgsUsage: "<value>",
		Flags:     []cli.Flag{configFlag(), fileFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("set takes exactly one argument <value>: %w", apperr.ErrUsage)
			}
			value, err := strconv.Atoi(cmd.Args().First())
			if err != nil || value < 0 {
				return fmt.Errorf("value %q is not a non-negative integer: %w", cmd.Args().First(), apperr.ErrUsage)
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store := statusfile.New(statusPath(cmd, cfg))

			old := -1
			if prev, readErr := store.Read(); readErr == nil {
				old = prev
			}
			if err := store.Write(value); err != nil {
				return err
			}
			recordTransition(cfg, journal.Entry{Old: old, New: value, Max: cfg.Status.MaxStatus, Source: "set"})
			return nil
		},
	}
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Report status changes made by other processes until interrupted",
		Flags: []cli.Flag{configFlag(), fileFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: cfg.App.LogLevel,
			}))
			store := statusfile.New(statusPath(cmd, cfg))

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return watch.Watch(ctx, store, logger, func(value int) {
				fmt.Fprintf(cmd.Root().Writer, "%d\t%s\n", value, cfg.Status.Label(value))
			})
		},
	}
}

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recent status transitions from the journal",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of transitions to list",
				Value:   20,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cfg.Journal.Enabled() {
				return fmt.Errorf("journal is not configured (set journal.path)")
			}
			db, err := journal.Open(cfg.Journal.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			entries, err := db.Recent(int(cmd.Int("limit")))
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.Root().Writer, "%s\t%d -> %d\t(max %d, %s)\n",
					e.CreatedAt.Format(time.RFC3339), e.Old, e.New, e.Max, e.Source)
			}
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Expose the status file over HTTP with SSE change events",
		Flags: []cli.Flag{configFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
				return fmt.Errorf("app run error: %w", err)
			}
			return nil
		},
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve status tools over the Model Context Protocol on stdio",
		Flags: []cli.Flag{configFlag(), fileFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store := statusfile.New(statusPath(cmd, cfg))

			var rec journal.Recorder
			if cfg.Journal.Enabled() {
				db, openErr := journal.Open(cfg.Journal.Path)
				if openErr != nil {
					return fmt.Errorf("init journal: %w", openErr)
				}
				defer db.Close()
				rec = db
			}

			svc := api.NewService(store, rec, cfg.Status.MaxStatus, cfg.Status.Label)
			modes := make([]mcpserver.Mode, len(cfg.Status.Modes))
			for i, m := range cfg.Status.Modes {
				modes[i] = mcpserver.Mode{Value: m.Value, Label: m.Label}
			}
			return mcpserver.New(svc, modes).ServeStdio()
		},
	}
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:      "modeswitch",
		Usage:     "Rotate the mode number kept in a shared status file",
		UsageText: usageText,
		ArgsUsage: "<max-status> <file>",
		Flags:     []cli.Flag{configFlag()},
		Action:    rotate,
		Commands: []*cli.Command{
			getCommand(),
			setCommand(),
			watchCommand(),
			historyCommand(),
			serveCommand(),
			mcpCommand(),
		},
	}
}

func main() {
	cmd := newRootCommand()

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "modeswitch: %v\n", err)
		if errors.Is(err, apperr.ErrUsage) {
			fmt.Fprintf(os.Stderr, "usage: %s\n", usageText)
		}
		os.Exit(apperr.ExitCode(err))
	}
}
