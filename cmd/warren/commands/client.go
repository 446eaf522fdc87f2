package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/dyluth/warren/internal/printer"
)

// clientAddr is the server base URL shared by all client subcommands.
var clientAddr string

func addAddrFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&clientAddr, "addr", "a", "http://localhost:8080", "Board server base URL")
}

// callBoard performs one request against a running board server and returns
// the response body. Non-2xx responses carry the server's explanation.
func callBoard(ctx context.Context, method, url string, body io.Reader) (string, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", printer.Error(
			"board unreachable",
			fmt.Sprintf("Could not reach the board server: %v", err),
			[]string{
				"Start a server first:\n  warren serve --board <file>",
				"Or point at the right one:\n  warren look <player> --addr http://host:port",
			},
		)
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return string(out), nil
	case http.StatusBadRequest:
		return "", fmt.Errorf("invalid request: %s", out)
	case http.StatusConflict:
		return "", fmt.Errorf("move rejected: %s", out)
	default:
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, out)
	}
}
