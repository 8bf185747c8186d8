package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/mockapi"
)

// serveCommand creates the serve command for the local development API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, token string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an in-memory platform API for development",
		Long: fmt.Sprintf(`Serve the platform API from memory, seeded with a building, a floor, a
room and a few anchors. Log in as %s/%s, or pass --token to accept a fixed
bearer token as the admin.

State is lost when the server stops.`, mockapi.AdminUsername, mockapi.AdminPassword),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			srv := mockapi.New(mockapi.Options{Token: token, Logger: c.Logger})
			return serve(ctx, addr, srv, func(url string) {
				printSuccess("Serving platform API")
				printKeyValue("URL", StyleLink.Render(url))
				printNextStep("Point the CLI at it", "spatialdash --api-url "+url+" login -u "+mockapi.AdminUsername)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8787", "listen address")
	cmd.Flags().StringVar(&token, "token", "", "static admin bearer token")
	return cmd
}

// serve runs h on addr until ctx is cancelled, then shuts down gracefully.
// ready is called with the base URL once the listener is open.
func serve(ctx context.Context, addr string, h http.Handler, ready func(url string)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	srv := &http.Server{Handler: h, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	if ready != nil {
		ready("http://" + ln.Addr().String())
	}

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
