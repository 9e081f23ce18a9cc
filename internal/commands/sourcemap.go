package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"srcpath/internal/state"
)

func NewSourcemapCommand(opts *rootOptions) (*cobra.Command, error) {
	sourcemapCmd := &cobra.Command{
		Use:   "sourcemap",
		Short: "Lists or edits the sourcemap rules of the profile",
		Args:  cobra.NoArgs,
	}

	sourcemapCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Prints rules in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.newSession()
			if err != nil {
				return err
			}
			for _, rule := range s.resolver.Sourcemaps() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", rule.Server, rule.Client)
			}
			return nil
		},
	})

	sourcemapCmd.AddCommand(&cobra.Command{
		Use:   "add <server-prefix> <client-prefix>",
		Short: "Appends a rule; earlier rules take precedence",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			if args[0] == "" {
				return fmt.Errorf("server prefix must not be empty")
			}
			s, err := opts.newSession()
			if err != nil {
				return err
			}
			if s.manager == nil {
				return errNoProfile
			}
			s.profile.Sourcemaps = append(s.profile.Sourcemaps, state.Rule{Server: args[0], Client: args[1]})
			return s.manager.SaveProfile(s.profile)
		},
	})

	sourcemapCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Removes every rule",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			s, err := opts.newSession()
			if err != nil {
				return err
			}
			if s.manager == nil {
				return errNoProfile
			}
			s.profile.Sourcemaps = []state.Rule{}
			return s.manager.SaveProfile(s.profile)
		},
	})

	return sourcemapCmd, nil
}
