package ragfw

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/ragfw/ragfw/internal/graph"
	"github.com/ragfw/ragfw/internal/logging"
	"github.com/ragfw/ragfw/internal/server"
	"github.com/spf13/cobra"
)

var flagAddr string

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the decision API over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	rootCmd.AddCommand(cmd)
	cmd.Flags().StringVar(&flagAddr, "addr", ":8080", "listen address")
}

func runServe(cmd *cobra.Command, _ []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.close()

	gin.SetMode(gin.ReleaseMode)
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.Run(ctx, flagAddr, &server.Handlers{
		FW:        rt.fw,
		Sanitizer: graph.NewSanitizer(rt.fw, rt.built.Schema),
		Schema:    rt.built.Schema,
		Tail:      rt.log,
		Log:       logging.New("server"),
	})
}
