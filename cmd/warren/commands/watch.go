package commands

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/dyluth/warren/internal/printer"
)

var watchFollow bool

var watchCmd = &cobra.Command{
	Use:   "watch <player>",
	Short: "Wait for the board to change",
	Long: `Block until the board next changes, then print the new state.

Each watch is single-shot on the server; --follow re-registers after every
change so the board can be observed continuously from a terminal.

Examples:
  # Print the next change and exit
  warren watch alice

  # Keep printing changes until interrupted
  warren watch alice --follow`,
	Args: cobra.ExactArgs(1),
	RunE: runWatchBoard,
}

func init() {
	addAddrFlag(watchCmd)
	watchCmd.Flags().BoolVarP(&watchFollow, "follow", "f", false, "Keep watching after each change")
	rootCmd.AddCommand(watchCmd)
}

func runWatchBoard(cmd *cobra.Command, args []string) error {
	url := fmt.Sprintf("%s/watch/%s", clientAddr, args[0])

	for {
		view, err := callBoard(cmd.Context(), http.MethodGet, url, nil)
		if err != nil {
			return err
		}

		printer.Println(printer.Board(view))
		if !watchFollow {
			return nil
		}
		printer.Println()
	}
}
