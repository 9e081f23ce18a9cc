package commands

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"srcpath/internal/pathconv"
	"srcpath/internal/server"
)

func NewServeCommand(opts *rootOptions) (*cobra.Command, error) {
	var listen string
	var persist bool

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves the resolver over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			s, err := opts.newSession()
			if err != nil {
				return err
			}
			if persist && s.manager == nil {
				return errNoProfile
			}

			gin.SetMode(gin.ReleaseMode)
			shared := pathconv.NewSyncResolver(s.resolver)

			var r server.Resolver = shared
			if persist {
				r = newPersistedResolver(shared, s.manager, s.profile)
			}
			onChange := func() {
				logger.Info("Resolver changed: coding=%s rules=%d", shared.Coding(), len(shared.Sourcemaps()))
			}
			return server.New(r, onChange).Run(listen)
		},
	}
	serveCmd.Flags().StringVar(&listen, "listen", "127.0.0.1:7419", "Address to listen on")
	serveCmd.Flags().BoolVar(&persist, "persist", false, "Write changes made over HTTP back to the profile")

	return serveCmd, nil
}
