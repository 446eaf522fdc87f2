package commands

import (
	"bytes"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/dyluth/warren/internal/printer"
)

var mapCmd = &cobra.Command{
	Use:   "map <player> <script.lua>",
	Short: "Rewrite every card label with a Lua transform",
	Long: `Apply a Lua transform to every card label on the board.

The script must define a global transform(label) function returning the
replacement label. Labels are transformed outside the board's critical
section, so other players keep moving while a slow script runs; cards
removed mid-transform simply skip their update.

Example script:
  function transform(label)
    return string.upper(label)
  end

Examples:
  warren map alice upper.lua`,
	Args: cobra.ExactArgs(2),
	RunE: runMap,
}

func init() {
	addAddrFlag(mapCmd)
	rootCmd.AddCommand(mapCmd)
}

func runMap(cmd *cobra.Command, args []string) error {
	script, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("failed to read transform script: %w", err)
	}

	view, err := callBoard(cmd.Context(), http.MethodPost,
		fmt.Sprintf("%s/map/%s", clientAddr, args[0]), bytes.NewReader(script))
	if err != nil {
		return err
	}

	printer.Success("Transform applied\n")
	printer.Println(printer.Board(view))
	return nil
}
