package commands

import (
	"github.com/spf13/cobra"

	"srcpath/internal/dapsource"
	"srcpath/internal/pathconv"
)

func NewDapProxyCommand(opts *rootOptions) (*cobra.Command, error) {
	var listen, adapter string

	proxyCmd := &cobra.Command{
		Use:   "dap-proxy",
		Short: "Proxies a DAP session and maps source paths",
		Long: `Accepts debugger client connections, dials the debug adapter for each one
and relays messages both ways. Launch and attach arguments sent by the client may carry
"sourceMaps" and "sourceCoding"; sources reported by the adapter are mapped
to client paths.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.newSession()
			if err != nil {
				return err
			}
			rw := dapsource.NewRewriter(pathconv.NewSyncResolver(s.resolver))
			proxy := dapsource.NewProxy(rw, adapter)
			return proxy.ListenAndServe(cmd.Context(), listen)
		},
	}
	proxyCmd.Flags().StringVar(&listen, "listen", "127.0.0.1:4711", "Address the debugger client connects to")
	proxyCmd.Flags().StringVar(&adapter, "adapter", "", "Address of the debug adapter")
	_ = proxyCmd.MarkFlagRequired("adapter")

	return proxyCmd, nil
}
