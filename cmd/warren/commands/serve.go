package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dyluth/warren/internal/config"
	"github.com/dyluth/warren/internal/printer"
	"github.com/dyluth/warren/internal/server"
	"github.com/dyluth/warren/pkg/board"
)

var (
	serveConfigPath string
	serveAddr       string
	serveBoardFile  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a board server",
	Long: `Start an HTTP server hosting a single shared board.

The board layout is read from a board file: a "<rows>x<cols>" header line
followed by one label per card in row-major order. Flags override anything
set in the config file.

Examples:
  # Serve a board described in boards/animals.txt
  warren serve --board boards/animals.txt

  # Use a config file and a custom listen address
  warren serve --config warren.yml --addr :9090`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "Path to warren.yml")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default :8080)")
	serveCmd.Flags().StringVarP(&serveBoardFile, "board", "b", "", "Path to the board file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := ":8080"
	boardFile := ""

	if serveConfigPath != "" {
		cfg, err := config.Load(serveConfigPath)
		if err != nil {
			return err
		}
		addr = cfg.Server.Addr
		boardFile = cfg.Server.BoardFile
	}
	if serveAddr != "" {
		addr = serveAddr
	}
	if serveBoardFile != "" {
		boardFile = serveBoardFile
	}

	if boardFile == "" {
		return printer.Error(
			"no board file specified",
			"A board file describes the board dimensions and card labels.",
			[]string{
				"Pass one directly:\n  warren serve --board boards/animals.txt",
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

	return server.New(b).Run(ctx, addr)
}
