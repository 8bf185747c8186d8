package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/api"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/errors"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/session"
)

// loginCommand creates the login command.
func (c *CLI) loginCommand() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the platform",
		Long: `Log in with a username and password. The returned token is stored per API
endpoint under ~/.config/spatialdash/sessions/ and used by later commands.

Missing credentials are read from standard input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			in := bufio.NewReader(cmd.InOrStdin())

			var err error
			if username, err = promptIfEmpty(in, username, "Username: "); err != nil {
				return err
			}
			if password, err = promptPassword(cmd.InOrStdin(), in, password, "Password: "); err != nil {
				return err
			}

			client, err := api.New(c.cfg.APIURL, api.WithTimeout(c.cfg.Timeout), api.WithLogger(c.Logger))
			if err != nil {
				return err
			}
			resp, err := spin(ctx, "Logging in...", func() (*api.Session, error) {
				return client.Login(ctx, username, password)
			})
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			return c.storeSession(ctx, resp)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when omitted)")
	return cmd
}

// registerCommand creates the register command.
func (c *CLI) registerCommand() *cobra.Command {
	var reg api.Registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a platform account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			in := bufio.NewReader(cmd.InOrStdin())

			var err error
			if reg.Username, err = promptIfEmpty(in, reg.Username, "Username: "); err != nil {
				return err
			}
			if reg.Email, err = promptIfEmpty(in, reg.Email, "Email: "); err != nil {
				return err
			}
			if reg.Password, err = promptPassword(cmd.InOrStdin(), in, reg.Password, "Password: "); err != nil {
				return err
			}

			client, err := api.New(c.cfg.APIURL, api.WithTimeout(c.cfg.Timeout), api.WithLogger(c.Logger))
			if err != nil {
				return err
			}
			resp, err := client.Register(ctx, reg)
			if err != nil {
				return fmt.Errorf("register: %w", err)
			}
			return c.storeSession(ctx, resp)
		},
	}

	cmd.Flags().StringVarP(&reg.Username, "username", "u", "", "account username")
	cmd.Flags().StringVar(&reg.Email, "email", "", "account email")
	cmd.Flags().StringVarP(&reg.Password, "password", "p", "", "account password")
	return cmd
}

// logoutCommand creates the logout command.
func (c *CLI) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session for the current API endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.sessionStore()
			if err != nil {
				return err
			}
			if err := store.DeleteSession(cmd.Context()); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
			printSuccess("Logged out of %s", c.cfg.APIURL)
			return nil
		},
	}
}

// whoamiCommand creates the whoami command.
func (c *CLI) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Verify the session and show the current principal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withClient(ctx, false, func(client *api.Client) error {
				user, err := spin(ctx, "Verifying session...", func() (*api.User, error) {
					return client.Me(ctx)
				})
				if err != nil {
					return fmt.Errorf("verify session: %w", err)
				}

				printSuccess("Platform session")
				printKeyValue("Endpoint", c.cfg.APIURL)
				printKeyValue("Principal", user.PrincipalID)
				printKeyValue("Username", user.Username)
				if user.DisplayName != "" {
					printKeyValue("Name", user.DisplayName)
				}
				if user.Email != "" {
					printKeyValue("Email", user.Email)
				}
				printKeyValue("Role", orDash(user.Role))

				if c.cfg.Token == "" {
					if sess := c.loadSession(ctx); sess != nil {
						printKeyValue("Logged in", sess.CreatedAt.Format("Jan 2, 2006"))
						printKeyValue("Expires", sess.ExpiresAt.Format("Jan 2, 2006"))
					}
				}
				return nil
			})
		},
	}
}

func (c *CLI) storeSession(ctx context.Context, resp *api.Session) error {
	if resp.Token == "" {
		return errors.New(errors.ErrCodeAPI, "platform returned no token")
	}
	store, err := c.sessionStore()
	if err != nil {
		return err
	}
	sess, err := session.New(resp.Token, c.cfg.APIURL, resp.User, session.CLITTL)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	if err := store.SaveSession(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	printSuccess("Logged in as %s", sess.Principal())
	printDetail("Session saved to %s", store.Path())
	return nil
}

func (c *CLI) loadSession(ctx context.Context) *session.Session {
	store, err := c.sessionStore()
	if err != nil {
		return nil
	}
	sess, err := store.GetSession(ctx)
	if err != nil {
		c.Logger.Debug("read session", "err", err)
		return nil
	}
	return sess
}

// promptIfEmpty returns value, or a line read from in after printing prompt.
func promptIfEmpty(in *bufio.Reader, value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}
	printInline("%s", prompt)
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", errors.New(errors.ErrCodeInvalidInput, "%s is required", strings.TrimSuffix(strings.ToLower(prompt), ": "))
	}
	return strings.TrimSpace(line), nil
}

// promptPassword is promptIfEmpty without echo when stdin is a terminal.
func promptPassword(stdin io.Reader, in *bufio.Reader, value, prompt string) (string, error) {
	f, ok := stdin.(*os.File)
	if value != "" || !ok || !term.IsTerminal(int(f.Fd())) {
		return promptIfEmpty(in, value, prompt)
	}
	printInline("%s", prompt)
	b, err := term.ReadPassword(int(f.Fd()))
	fmt.Println()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read password")
	}
	if len(b) == 0 {
		return "", errors.New(errors.ErrCodeInvalidInput, "password is required")
	}
	return string(b), nil
}
