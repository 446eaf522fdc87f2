package commands

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/dyluth/warren/internal/printer"
)

var lookCmd = &cobra.Command{
	Use:   "look <player>",
	Short: "Print the board as a player sees it",
	Long: `Print the current board state from one player's perspective.

Cards you control show as "my <label>", other face-up cards as "up <label>".

Examples:
  warren look alice
  warren look alice --addr http://localhost:9090`,
	Args: cobra.ExactArgs(1),
	RunE: runLook,
}

func init() {
	addAddrFlag(lookCmd)
	rootCmd.AddCommand(lookCmd)
}

func runLook(cmd *cobra.Command, args []string) error {
	view, err := callBoard(cmd.Context(), http.MethodGet,
		fmt.Sprintf("%s/look/%s", clientAddr, args[0]), nil)
	if err != nil {
		return err
	}

	printer.Println(printer.Board(view))
	return nil
}
