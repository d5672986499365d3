package cmd

import (
	"bufio"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hubdeck/hubdeck/internal/log"
)

// NewCmdConnect creates the connect command.
func NewCmdConnect(opts *Options) *cobra.Command {
	var noBrowser bool

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Connect your GitHub account through the backend",
		Long: `Start the GitHub OAuth flow. Your browser opens the authorization
page; after approving, paste the redirect URL (or just the code) back
here to finish connecting.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(opts)
			if err != nil {
				return err
			}
			return runConnect(cmd, rt, noBrowser)
		},
	}

	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Print the authorization URL instead of opening a browser")

	return cmd
}

func runConnect(cmd *cobra.Command, rt *Runtime, noBrowser bool) error {
	ctx := cmd.Context()

	authURL, err := rt.Client.AuthURL(ctx)
	if err != nil {
		return fmt.Errorf("failed to get authorization URL: %w", err)
	}

	if noBrowser {
		fmt.Fprintf(cmd.OutOrStdout(), "Open this URL to authorize:\n\n  %s\n\n", authURL)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Opening %s in your browser...\n", authURL)
		if err := openURL(authURL); err != nil {
			log.Debug("browser open failed", "error", err)
			fmt.Fprintf(cmd.OutOrStdout(), "Could not open a browser. Visit:\n\n  %s\n\n", authURL)
		}
	}

	fmt.Fprint(cmd.OutOrStdout(), "After authorizing, paste the redirect URL (or the code) here: ")
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read callback input: %w", err)
	}

	code, state, err := parseCallbackInput(strings.TrimSpace(line))
	if err != nil {
		return err
	}

	payload, err := rt.Client.ExchangeCallback(ctx, code, state)
	if err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}
	if err := rt.Session.Connect(payload.Token, payload.Profile()); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}

	green := color.New(color.FgGreen, color.Bold)
	green.Fprintf(cmd.OutOrStdout(), "Connected as %s\n", payload.Username)
	return nil
}

// parseCallbackInput accepts either a full redirect URL carrying code and
// state query parameters, or a bare authorization code.
func parseCallbackInput(input string) (code, state string, err error) {
	if input == "" {
		return "", "", fmt.Errorf("no authorization code provided")
	}
	if strings.Contains(input, "://") || strings.Contains(input, "?") {
		u, err := url.Parse(input)
		if err != nil {
			return "", "", fmt.Errorf("could not parse redirect URL: %w", err)
		}
		q := u.Query()
		if q.Get("code") == "" {
			return "", "", fmt.Errorf("redirect URL has no code parameter")
		}
		return q.Get("code"), q.Get("state"), nil
	}
	return input, "", nil
}

func openURL(url string) error {
	var c *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		c = exec.Command("open", url)
	case "windows":
		c = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		c = exec.Command("xdg-open", url)
	}
	return c.Start()
}
