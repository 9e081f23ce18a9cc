package commands

import (
	"github.com/spf13/cobra"

	"srcpath/internal/fs"
	"srcpath/internal/pathconv"
)

func NewMountCommand(opts *rootOptions) (*cobra.Command, error) {
	var allowOther bool

	mountCmd := &cobra.Command{
		Use:   "mount <mountpoint>",
		Short: "Mounts a read-only view of the debuggee's source namespace",
		Long: `Mounts a read-only FUSE filesystem. Opening <mountpoint>/<server path>
serves the local file the server path maps to.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.newSession()
			if err != nil {
				return err
			}

			mountPoint := args[0]
			srcFS := fs.NewSrcFS(pathconv.NewSyncResolver(s.resolver), fs.Options{AllowOther: allowOther})
			if err := srcFS.Mount(mountPoint); err != nil {
				return err
			}

			served := make(chan error, 1)
			go func() { served <- srcFS.Wait() }()

			select {
			case <-cmd.Context().Done():
				logger.Info("Shutting down")
				if err := srcFS.Unmount(mountPoint); err != nil {
					return err
				}
				return <-served
			case err := <-served:
				return err
			}
		},
	}
	mountCmd.Flags().BoolVar(&allowOther, "allow-other", false, "Allow other users to access the mount")

	return mountCmd, nil
}
