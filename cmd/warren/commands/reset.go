package commands

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/dyluth/warren/internal/printer"
)

var resetCmd = &cobra.Command{
	Use:   "reset <player>",
	Short: "Restore the board to its starting state",
	Long: `Put every card back, face down, with its original label.

Players blocked on controlled cards are released with a game-reset
rejection; watchers are notified with the fresh board.

Examples:
  warren reset alice`,
	Args: cobra.ExactArgs(1),
	RunE: runReset,
}

func init() {
	addAddrFlag(resetCmd)
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	view, err := callBoard(cmd.Context(), http.MethodPost,
		fmt.Sprintf("%s/reset/%s", clientAddr, args[0]), nil)
	if err != nil {
		return err
	}

	printer.Success("Board reset\n")
	printer.Println(printer.Board(view))
	return nil
}
