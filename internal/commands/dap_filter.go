package commands

import (
	"github.com/spf13/cobra"

	"srcpath/internal/dapsource"
)

func NewDapFilterCommand(opts *rootOptions) (*cobra.Command, error) {
	return &cobra.Command{
		Use:   "dap-filter",
		Short: "Rewrites source paths in a DAP stream read from stdin",
		Long: `Reads debug adapter output (Debug Adapter Protocol frames) from stdin and
writes it to stdout with every reported source mapped to its client path.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.newSession()
			if err != nil {
				return err
			}
			rw := dapsource.NewRewriter(s.resolver)
			return dapsource.Pipe(cmd.Context(), cmd.OutOrStdout(), cmd.InOrStdin(), rw.Downstream)
		},
	}, nil
}
