package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/meridian-labs/graphseek-cli/internal/adapters/driving/oauth"
	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
)

// loginTimeout bounds how long the login command waits for the browser
// redirect before giving up.
const loginTimeout = 5 * time.Minute

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the signed-in session",
	Long: `Configure the tenant application and manage the signed-in session.

GraphSeek signs in as you via the tenant's identity platform using the
authorization-code flow with PKCE. A public client (no secret) is the
normal setup; the secret is only needed for confidential clients.

Examples:
  # Configure the app registration (once)
  graphseek auth setup --tenant contoso.example --client-id "xxx"

  # Sign in via the browser
  graphseek auth login

  # Check the session
  graphseek auth status

  # Sign out
  graphseek auth logout`,
}

var authSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure the tenant and client application",
	Long: `Store the tenant and OAuth client application used to sign in.

Runs interactively when flags are omitted. The client secret prompt can
be skipped with Enter; public clients sign in with PKCE alone.`,
	RunE: runAuthSetup,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in via the browser",
	RunE:  runAuthLogin,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the signed-in session",
	RunE:  runAuthStatus,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and discard the session",
	RunE:  runAuthLogout,
}

// Flags for auth setup.
var (
	authSetupTenant   string
	authSetupClientID string
)

func init() {
	authSetupCmd.Flags().StringVar(
		&authSetupTenant, "tenant", "", "Directory tenant (domain name or GUID)")
	authSetupCmd.Flags().StringVar(
		&authSetupClientID, "client-id", "", "Registered application (client) id")

	authCmd.AddCommand(authSetupCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthSetup(cmd *cobra.Command, _ []string) error {
	if configService == nil {
		return errors.New("config service not configured")
	}

	reader := bufio.NewReader(os.Stdin)

	tenant := strings.TrimSpace(authSetupTenant)
	if tenant == "" {
		cmd.Print("Tenant (domain name or GUID): ")
		tenant = readLine(reader)
	}
	if tenant == "" {
		return errors.New("tenant is required")
	}

	clientID := strings.TrimSpace(authSetupClientID)
	if clientID == "" {
		cmd.Print("Client ID: ")
		clientID = readLine(reader)
	}
	if clientID == "" {
		return errors.New("client ID is required")
	}

	if err := configService.Set("auth.tenant", tenant); err != nil {
		return fmt.Errorf("save tenant: %w", err)
	}
	if err := configService.Set("auth.client_id", clientID); err != nil {
		return fmt.Errorf("save client id: %w", err)
	}

	// Secret entry is skippable; public clients use PKCE alone.
	if interactiveSetup(cmd) {
		cmd.Print("Client secret (Enter to skip): ")
		secret := readPassword()
		cmd.Println()
		if secret != "" {
			if err := configService.Set("auth.client_secret", secret); err != nil {
				return fmt.Errorf("save client secret: %w", err)
			}
		}
	}

	cmd.Printf("Configuration saved to %s\n", configService.Path())
	cmd.Println("Sign in with: graphseek auth login")
	return nil
}

// interactiveSetup reports whether setup should prompt beyond the
// required fields. Flag-driven invocations stay non-interactive.
func interactiveSetup(cmd *cobra.Command) bool {
	return !cmd.Flags().Changed("tenant") || !cmd.Flags().Changed("client-id")
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}
	ctx := cmd.Context()

	flow, err := authService.BeginLogin(ctx)
	if err != nil {
		return fmt.Errorf("start sign-in: %w", err)
	}

	callback := oauth.NewCallbackServer(flow.RedirectPort, flow.State)
	if err := callback.Start(); err != nil {
		return fmt.Errorf("start callback server: %w", err)
	}
	defer callback.Stop() //nolint:errcheck // Best-effort shutdown

	cmd.Println("Opening your browser to sign in...")
	if err := oauth.OpenBrowser(flow.AuthURL); err != nil {
		cmd.Println("Could not open a browser. Visit this URL to sign in:")
		cmd.Println()
		cmd.Printf("  %s\n", flow.AuthURL)
	}
	cmd.Println()

	code, err := callback.WaitForCode(loginTimeout)
	if err != nil {
		return fmt.Errorf("waiting for sign-in: %w", err)
	}

	creds, err := authService.CompleteLogin(ctx, flow, code)
	if err != nil {
		return fmt.Errorf("complete sign-in: %w", err)
	}

	if creds.AccountIdentifier != "" {
		cmd.Printf("Signed in as %s.\n", creds.AccountIdentifier)
	} else {
		cmd.Println("Signed in.")
	}
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	creds, err := authService.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	if creds == nil {
		cmd.Println("Signed out.")
		cmd.Println("Sign in with: graphseek auth login")
		return nil
	}

	account := creds.AccountIdentifier
	if account == "" {
		account = "(unknown account)"
	}
	cmd.Printf("Signed in as: %s\n", account)
	cmd.Printf("  Tenant:    %s\n", creds.Tenant)
	cmd.Printf("  Client ID: %s\n", creds.ClientID)
	cmd.Printf("  Token:     %s\n", tokenState(creds))
	cmd.Printf("  Since:     %s\n", creds.CreatedAt.Format(time.RFC3339))
	return nil
}

// tokenState renders the access token's lifecycle for display.
func tokenState(creds *domain.Credentials) string {
	if !creds.IsAuthenticated() {
		return "missing"
	}
	if creds.OAuth.IsExpired() {
		if creds.HasRefreshToken() {
			return "expired (refreshes on next use)"
		}
		return "expired (sign in again)"
	}
	if creds.OAuth.Expiry.IsZero() {
		return "valid"
	}
	remaining := time.Until(creds.OAuth.Expiry).Round(time.Minute)
	return "valid for " + formatRemaining(remaining)
}

func formatRemaining(d time.Duration) string {
	if d < time.Minute {
		return "under a minute"
	}
	minutes := int(d.Minutes())
	if minutes < 60 {
		return strconv.Itoa(minutes) + "m"
	}
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	if err := authService.Logout(cmd.Context()); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			cmd.Println("Already signed out.")
			return nil
		}
		return fmt.Errorf("sign out: %w", err)
	}

	cmd.Println("Signed out.")
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
