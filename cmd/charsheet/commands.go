package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/config"
	"github.com/cory-johannsen/charsheet/internal/game/character"
	"github.com/cory-johannsen/charsheet/internal/game/content"
	"github.com/cory-johannsen/charsheet/internal/observability"
	"github.com/cory-johannsen/charsheet/internal/storage"
	"github.com/cory-johannsen/charsheet/internal/storage/backend"
)

// app carries state shared by every subcommand once the root pre-run has
// loaded configuration.
type app struct {
	out        io.Writer
	configPath string
	contentDir string
	timeout    time.Duration

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}
	root := &cobra.Command{
		Use:           "charsheet",
		Short:         "D&D 5e character sheet engine",
		Long:          `charsheet builds characters from YAML sheets, prints every derived value, and stores point-in-time snapshots.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to configuration file (defaults plus CHARSHEET_* environment when empty)")
	root.PersistentFlags().StringVar(&a.contentDir, "content", "", "content directory, overrides content.dir")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 10*time.Second, "storage operation timeout")

	root.AddCommand(
		&cobra.Command{
			Use:   "show <sheet.yaml>",
			Short: "Print the diagnostic dump of a character sheet",
			Args:  cobra.ExactArgs(1),
			RunE:  a.runShow,
		},
		&cobra.Command{
			Use:   "snapshot <sheet.yaml>",
			Short: "Print a character snapshot as JSON",
			Args:  cobra.ExactArgs(1),
			RunE:  a.runSnapshot,
		},
		&cobra.Command{
			Use:   "save <sheet.yaml>",
			Short: "Build a character and store its snapshot",
			Args:  cobra.ExactArgs(1),
			RunE:  a.runSave,
		},
		&cobra.Command{
			Use:   "get <id>",
			Short: "Print a stored snapshot as JSON",
			Args:  cobra.ExactArgs(1),
			RunE:  a.runGet,
		},
		&cobra.Command{
			Use:   "list",
			Short: "List stored snapshots",
			Args:  cobra.NoArgs,
			RunE:  a.runList,
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a stored snapshot",
			Args:  cobra.ExactArgs(1),
			RunE:  a.runDelete,
		},
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.contentDir != "" {
		cfg.Content.Dir = a.contentDir
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) build(path string) (*character.Character, error) {
	start := time.Now()
	catalog, err := content.LoadDirectory(a.cfg.Content.Dir, a.logger)
	if err != nil {
		return nil, fmt.Errorf("loading content: %w", err)
	}
	sheet, err := character.LoadSheet(path)
	if err != nil {
		return nil, err
	}
	logger := observability.ForSheet(a.logger, path)
	c, err := character.Build(sheet, catalog, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("character built",
		zap.String("id", c.ID.String()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return c, nil
}

func (a *app) withStore(fn func(ctx context.Context, store storage.SnapshotStore) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	store, err := backend.Open(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(ctx, store)
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) runShow(_ *cobra.Command, args []string) error {
	c, err := a.build(args[0])
	if err != nil {
		return err
	}
	_, err = io.WriteString(a.out, c.Dump())
	return err
}

func (a *app) runSnapshot(_ *cobra.Command, args []string) error {
	c, err := a.build(args[0])
	if err != nil {
		return err
	}
	return a.writeJSON(c.Snapshot())
}

func (a *app) runSave(_ *cobra.Command, args []string) error {
	c, err := a.build(args[0])
	if err != nil {
		return err
	}
	return a.withStore(func(ctx context.Context, store storage.SnapshotStore) error {
		snap := c.Snapshot()
		if err := store.Save(ctx, snap); err != nil {
			return err
		}
		a.logger.Info("snapshot saved", zap.String("id", snap.ID), zap.String("name", snap.Name))
		_, err := fmt.Fprintln(a.out, snap.ID)
		return err
	})
}

func (a *app) runGet(_ *cobra.Command, args []string) error {
	return a.withStore(func(ctx context.Context, store storage.SnapshotStore) error {
		snap, err := store.Get(ctx, args[0])
		if err != nil {
			return err
		}
		return a.writeJSON(snap)
	})
}

func (a *app) runList(_ *cobra.Command, _ []string) error {
	return a.withStore(func(ctx context.Context, store storage.SnapshotStore) error {
		summaries, err := store.List(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tLEVEL\tCLASS\tTAKEN")
		for _, s := range summaries {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", s.ID, s.Name, s.Level, s.Class, s.TakenAt.Format(time.RFC3339))
		}
		return tw.Flush()
	})
}

func (a *app) runDelete(_ *cobra.Command, args []string) error {
	return a.withStore(func(ctx context.Context, store storage.SnapshotStore) error {
		if err := store.Delete(ctx, args[0]); err != nil {
			return err
		}
		a.logger.Info("snapshot deleted", zap.String("id", args[0]))
		return nil
	})
}
