package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pomflow/internal/persist"
	"pomflow/internal/remote"
	"pomflow/internal/syncapi"
)

const accountTimeout = 30 * time.Second

var errNoServer = errors.New("no sync server configured; pass --server or set server.url in config.toml")

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a sync account and upload this device's state",
	Long: `Create an account on the sync server. The password is read from the
terminal, or from the first line of stdin when it is not a terminal.
Local tasks, history, settings and session are uploaded afterwards.`,
	Args: cobra.NoArgs,
	RunE: runRegister,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and download the account's state",
	Long: `Sign in to the sync server. The account's state replaces the local copy
for every slice the server has.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the cached sign-in",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Download the account's state, or upload with --push",
	Args:  cobra.NoArgs,
	RunE:  runSync,
}

var (
	accountServer string
	accountEmail  string
	accountName   string
	syncPush      bool
)

func init() {
	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd, syncCmd)

	for _, cmd := range []*cobra.Command{registerCmd, loginCmd} {
		cmd.Flags().StringVar(&accountServer, "server", "", "Sync server URL (default server.url)")
		cmd.Flags().StringVar(&accountEmail, "email", "", "Account email")
		_ = cmd.MarkFlagRequired("email")
		setFlagAliases(cmd.Flags(), map[string]string{"url": "server", "user": "email"})
	}
	registerCmd.Flags().StringVar(&accountName, "name", "", "Display name")

	syncCmd.Flags().BoolVar(&syncPush, "push", false, "Upload local state instead, replacing the account's copy")
}

func runRegister(cmd *cobra.Command, args []string) error {
	a, client, err := openAccount(cmd)
	if err != nil {
		return err
	}
	password, err := readPassword(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), accountTimeout)
	defer cancel()

	auth, err := client.Register(ctx, accountEmail, password, accountName)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	if err := saveSignIn(a, client, auth); err != nil {
		return err
	}
	if err := persist.Push(ctx, client.WithToken(auth.Token), a.state); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Registered %s and uploaded local state\n", auth.User.Email)
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, client, err := openAccount(cmd)
	if err != nil {
		return err
	}
	password, err := readPassword(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), accountTimeout)
	defer cancel()

	auth, err := client.Login(ctx, accountEmail, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := saveSignIn(a, client, auth); err != nil {
		return err
	}
	if err := persist.Pull(ctx, client.WithToken(auth.Token), a.store); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", auth.User.Email)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if !a.signedIn {
		fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
		return nil
	}
	if err := remote.ClearCredentials(a.store); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed out %s\n", a.creds.Email)
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if !a.signedIn {
		fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
		return nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), accountTimeout)
	defer cancel()

	user, err := a.creds.Client().Me(ctx)
	if remote.IsUnauthorized(err) {
		return errors.New("the saved sign-in has expired; run pomflow login")
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s on %s\n", user.Email, a.creds.ServerURL)
	return nil
}

func runSync(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if !a.signedIn {
		return remote.ErrNotSignedIn
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), accountTimeout)
	defer cancel()

	client := a.creds.Client()
	if syncPush {
		if err := persist.Push(ctx, client, a.state); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Uploaded local state")
		return nil
	}
	if err := persist.Pull(ctx, client, a.store); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Downloaded account state")
	return nil
}

func openAccount(cmd *cobra.Command) (*app, *remote.Client, error) {
	a, err := openApp(cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	server := accountServer
	if server == "" {
		server = a.cfg.Server.URL
	}
	if server == "" {
		return nil, nil, errNoServer
	}
	return a, remote.NewClient(server, ""), nil
}

func saveSignIn(a *app, client *remote.Client, auth *syncapi.AuthResponse) error {
	return remote.SaveCredentials(a.store, remote.Credentials{
		ServerURL: client.BaseURL(),
		Token:     auth.Token,
		UserID:    auth.User.ID,
		Email:     auth.User.Email,
	})
}

// readPassword prompts on a terminal and otherwise takes the first line of
// stdin.
func readPassword(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("a password is required")
	}
	return password, nil
}
