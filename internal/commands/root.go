// Package commands implements the srcpath command line.
package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"srcpath/internal/logging"
	"srcpath/internal/pathconv"
	"srcpath/internal/state"
)

var (
	logger = logging.GetLogger().WithPrefix("cmd")
)

type rootOptions struct {
	profilePath  string
	coding       string
	ansiEncoding string
	maps         []string
	separator    string
}

// session is the resolver built from flags and the optional profile.
// profile holds what was loaded from disk, without flag overrides or
// --map rules.
type session struct {
	resolver *pathconv.Resolver
	manager  *state.Manager
	profile  *state.Profile
}

func NewRootCmd() (*cobra.Command, error) {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "srcpath",
		Short: "Maps debuggee source paths to local files",
		Long: `srcpath resolves source identifiers reported by a debugged process into
paths on the machine running the debugger, using ordered sourcemap rules.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.profilePath, "profile", os.Getenv("SRCPATH_PROFILE"), "JSON profile holding coding and sourcemap rules")
	flags.Var(logging.NewLevelFlag(logging.GetLogger()), "log-level", "Log level (error, warn, info, debug, trace)")
	flags.StringVar(&opts.coding, "coding", "", "Source coding override (ansi or utf8)")
	flags.StringVar(&opts.ansiEncoding, "ansi-encoding", "", "IANA name of the ANSI code page (default "+pathconv.DefaultANSIEncoding+")")
	flags.StringArrayVar(&opts.maps, "map", nil, "Extra sourcemap rule server=client, applied after profile rules")
	flags.StringVar(&opts.separator, "separator", "auto", "Separator of produced paths (auto, slash, backslash)")

	constructors := []struct {
		name string
		fn   func(*rootOptions) (*cobra.Command, error)
	}{
		{"resolve", NewResolveCommand},
		{"normalize", NewNormalizeCommand},
		{"filename", NewFilenameCommand},
		{"sourcemap", NewSourcemapCommand},
		{"mount", NewMountCommand},
		{"serve", NewServeCommand},
		{"dap-filter", NewDapFilterCommand},
		{"dap-proxy", NewDapProxyCommand},
	}
	for _, c := range constructors {
		cmd, err := c.fn(opts)
		if err != nil {
			return nil, fmt.Errorf("could not set up '%s' command: %w", c.name, err)
		}
		rootCmd.AddCommand(cmd)
	}

	return rootCmd, nil
}

func (o *rootOptions) separatorByte() (byte, error) {
	switch strings.ToLower(o.separator) {
	case "", "auto":
		return os.PathSeparator, nil
	case "slash", "/":
		return '/', nil
	case "backslash", `\`:
		return '\\', nil
	default:
		return 0, fmt.Errorf("invalid separator %q", o.separator)
	}
}

// newSession loads the profile, applies flag overrides and builds the
// resolver.
func (o *rootOptions) newSession() (*session, error) {
	s := &session{profile: state.NewProfile()}

	if o.profilePath != "" {
		manager, err := state.NewManager(o.profilePath)
		if err != nil {
			return nil, err
		}
		profile, err := manager.LoadProfile()
		if err != nil {
			return nil, err
		}
		s.manager, s.profile = manager, profile
	}

	// Overrides apply to this run only and never reach the saved profile
	effective := *s.profile
	if o.coding != "" {
		effective.Coding = o.coding
	}
	if o.ansiEncoding != "" {
		effective.ANSIEncoding = o.ansiEncoding
	}

	resolverOpts, err := effective.ResolverOptions()
	if err != nil {
		return nil, err
	}
	sep, err := o.separatorByte()
	if err != nil {
		return nil, err
	}
	resolverOpts = append(resolverOpts, pathconv.WithSeparator(sep))

	s.resolver = pathconv.NewResolver(resolverOpts...)
	s.profile.Apply(s.resolver)

	for _, m := range o.maps {
		server, client, ok := strings.Cut(m, "=")
		if !ok || server == "" {
			return nil, fmt.Errorf("invalid --map %q, expected server=client", m)
		}
		s.resolver.AddSourcemap(server, client)
	}

	logger.Debug("Session ready: coding=%s rules=%d", s.resolver.Coding(), len(s.resolver.Sourcemaps()))
	return s, nil
}
