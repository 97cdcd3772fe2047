// starwebctl is the operator's tool: it works directly against the data
// directory and never talks to a running server.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/starweb/starweb/config"
	"github.com/starweb/starweb/game"
	"github.com/starweb/starweb/store"
)

var (
	configPath string
	log        zerolog.Logger
)

func main() {
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	root := &cobra.Command{
		Use:           "starwebctl",
		Short:         "Administer a starweb game installation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")

	root.AddCommand(
		initCmd(),
		configCmd(),
		backupCmd(),
		restoreCmd(),
		bugsCmd(),
	)

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath, log)
}

func openStore(cfg *config.Config) (*store.Store, error) {
	return store.NewStore(cfg.Server.DataDir, log)
}

func initCmd() *cobra.Command {
	var seed int64
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a fresh game state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			if existing, err := st.LoadState(); err != nil {
				return err
			} else if existing != nil && !force {
				return fmt.Errorf("a game already exists at %s; use --force to overwrite", st.StatePath())
			}

			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			gs := game.NewGameState(cfg, seed)
			gs.GenerateMap(log)
			if err := st.SaveState(gs.Snapshot()); err != nil {
				return err
			}
			fmt.Printf("Initialized game with %d worlds (seed %d) at %s\n",
				len(gs.Worlds), seed, st.StatePath())
			return nil
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "map generation seed (0 = time-based)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing game")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration as JSON",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				out, err := json.MarshalIndent(cfg, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			},
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Check the configuration and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := loadConfig(); err != nil {
					return err
				}
				fmt.Println("Configuration OK")
				return nil
			},
		},
	)
	return cmd
}

func backupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Copy the current game state to a timestamped backup",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			path, err := st.Backup(time.Now())
			if err != nil {
				return err
			}
			fmt.Println("Backed up to", path)
			return nil
		},
	}
}

// snapshotVerifier re-runs the load-time invariant checks before a restore
// replaces the live state.
type snapshotVerifier struct {
	cfg *config.Config
}

func (v snapshotVerifier) VerifySnapshot(snap *game.Snapshot) error {
	_, err := game.LoadSnapshot(v.cfg, snap)
	return err
}

func restoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <backup-file>",
		Short: "Replace the current game state with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			if err := st.RestoreFrom(args[0], snapshotVerifier{cfg: cfg}); err != nil {
				return err
			}
			fmt.Println("Restored game state from", args[0])
			return nil
		},
	}
}

func bugsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bugs",
		Short: "Work with player bug reports",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print all recorded bug reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			reports, err := st.ListBugReports()
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				fmt.Println("No bug reports")
				return nil
			}
			for _, r := range reports {
				fmt.Printf("[%s] turn %d, %s: %s\n",
					r.Timestamp.Format(time.RFC3339), r.GameTurn, r.PlayerName, r.Description)
			}
			return nil
		},
	})
	return cmd
}
