package commands

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dyluth/warren/internal/printer"
)

var flipCmd = &cobra.Command{
	Use:   "flip <player> <row> <col>",
	Short: "Flip a card",
	Long: `Flip the card at <row>,<col> as <player>.

The first flip of a turn takes control of a card; the second either matches
it (both cards are later removed) or mismatches (both are turned back over).
Flipping a card another player controls blocks until that card frees up.

Examples:
  warren flip alice 0 0
  warren flip alice 0 1`,
	Args: cobra.ExactArgs(3),
	RunE: runFlip,
}

func init() {
	addAddrFlag(flipCmd)
	rootCmd.AddCommand(flipCmd)
}

func runFlip(cmd *cobra.Command, args []string) error {
	if _, err := strconv.Atoi(args[1]); err != nil {
		return fmt.Errorf("row %q is not an integer", args[1])
	}
	if _, err := strconv.Atoi(args[2]); err != nil {
		return fmt.Errorf("column %q is not an integer", args[2])
	}

	view, err := callBoard(cmd.Context(), http.MethodGet,
		fmt.Sprintf("%s/flip/%s/%s/%s", clientAddr, args[0], args[1], args[2]), nil)
	if err != nil {
		return err
	}

	printer.Println(printer.Board(view))
	return nil
}
