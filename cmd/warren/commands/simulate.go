package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dyluth/warren/internal/config"
	"github.com/dyluth/warren/internal/printer"
	"github.com/dyluth/warren/internal/simulate"
	"github.com/dyluth/warren/pkg/board"
)

var (
	simulateConfigPath string
	simulateBoardFile  string
	simulatePlayers    int
	simulateTurns      int
	simulateSeed       int64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Stress a board with synthetic players",
	Long: `Run an in-process load simulation: N synthetic players make random
flips against a fresh board for a fixed number of turns, then the run
reports how many flips succeeded, were rejected or timed out.

Useful for checking that a board layout survives concurrent play.

Examples:
  warren simulate --board boards/animals.txt --players 8 --turns 100
  warren simulate --config warren.yml --seed 42`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVarP(&simulateConfigPath, "config", "c", "", "Path to warren.yml")
	simulateCmd.Flags().StringVarP(&simulateBoardFile, "board", "b", "", "Path to the board file")
	simulateCmd.Flags().IntVarP(&simulatePlayers, "players", "p", 0, "Concurrent players (default 4)")
	simulateCmd.Flags().IntVarP(&simulateTurns, "turns", "t", 0, "Turns per player (default 25)")
	simulateCmd.Flags().Int64Var(&simulateSeed, "seed", 0, "Random seed (0 derives one from the clock)")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	boardFile := simulateBoardFile
	opts := simulate.Options{
		Players: simulatePlayers,
		Turns:   simulateTurns,
		Seed:    simulateSeed,
	}

	if simulateConfigPath != "" {
		cfg, err := config.Load(simulateConfigPath)
		if err != nil {
			return err
		}
		if boardFile == "" {
			boardFile = cfg.Server.BoardFile
		}
		if cfg.Simulation != nil {
			if opts.Players == 0 {
				opts.Players = cfg.Simulation.Players
			}
			if opts.Turns == 0 {
				opts.Turns = cfg.Simulation.Turns
			}
			if opts.Seed == 0 {
				opts.Seed = cfg.Simulation.Seed
			}
		}
	}
	if opts.Players == 0 {
		opts.Players = 4
	}
	if opts.Turns == 0 {
		opts.Turns = 25
	}

	if boardFile == "" {
		return printer.Error(
			"no board file specified",
			"The simulation needs a board layout to play against.",
			[]string{
				"Pass one directly:\n  warren simulate --board boards/animals.txt",
				"Or set server.board_file in warren.yml and pass --config",
			},
		)
	}

	b, err := board.Load(boardFile)
	if err != nil {
		return fmt.Errorf("failed to load board: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats, err := simulate.Run(ctx, b, opts)
	if err != nil {
		return err
	}

	printer.Success("Simulation complete in %s\n", stats.Elapsed.Round(time.Millisecond))
	printer.Info("  Flips:     %d\n", stats.Attempts)
	printer.Info("  Succeeded: %d\n", stats.Successes)
	printer.Info("  Rejected:  %d\n", stats.Rejections)
	printer.Info("  Timed out: %d\n", stats.Timeouts)

	view, err := b.Look(ctx, "observer")
	if err == nil {
		printer.Info("\nFinal board:\n%s\n", printer.Board(view))
	}
	return nil
}
