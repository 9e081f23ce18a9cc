package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"srcpath/internal/pathconv"
)

func NewResolveCommand(opts *rootOptions) (*cobra.Command, error) {
	return &cobra.Command{
		Use:   "resolve <source>...",
		Short: "Resolves source identifiers to client paths",
		Long: `Resolves source identifiers to client paths. A path identifier starts
with '@'; anything else has no client path.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.newSession()
			if err != nil {
				return err
			}

			failed := 0
			for _, raw := range args {
				path, ok := s.resolver.Resolve(raw)
				if !ok {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: no client path\n", raw)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			if failed > 0 {
				return fmt.Errorf("%w (%d of %d)", errUnresolved, failed, len(args))
			}
			return nil
		},
	}, nil
}

func NewNormalizeCommand(opts *rootOptions) (*cobra.Command, error) {
	return &cobra.Command{
		Use:   "normalize <path>...",
		Short: "Lexically normalizes paths against the current directory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.newSession()
			if err != nil {
				return err
			}
			for _, p := range args {
				fmt.Fprintln(cmd.OutOrStdout(), s.resolver.Normalize(p))
			}
			return nil
		},
	}, nil
}

func NewFilenameCommand(_ *rootOptions) (*cobra.Command, error) {
	return &cobra.Command{
		Use:   "filename <path>...",
		Short: "Prints the part of each path after its last separator",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range args {
				fmt.Fprintln(cmd.OutOrStdout(), pathconv.FileName(p))
			}
			return nil
		},
	}, nil
}
