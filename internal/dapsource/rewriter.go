// Package dapsource maps the Source objects a debug adapter reports onto
// client paths, and applies sourcemap settings found in launch and attach
// arguments.
package dapsource

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/go-dap"

	"srcpath/internal/logging"
	"srcpath/internal/pathconv"
)

var (
	logger = logging.GetLogger().WithPrefix("dap")

	// ErrInvalidSourceMap is returned for a sourceMaps entry that is not a
	// [server, client] pair.
	ErrInvalidSourceMap = errors.New("invalid sourceMaps entry")
)

// Resolver is the part of pathconv.Resolver the rewriter needs.
type Resolver interface {
	Resolve(raw string) (string, bool)
	Map(server string) string
	AddSourcemap(server, client string)
	ClearSourcemap()
	SetCoding(c pathconv.Coding)
}

// LaunchArguments are the source-related launch/attach arguments.
type LaunchArguments struct {
	// SourceMaps is a list of [server, client] prefix pairs in match order.
	SourceMaps   [][]string `json:"sourceMaps,omitempty"`
	SourceCoding string     `json:"sourceCoding,omitempty"`
}

// Rewriter rewrites DAP messages in place.
type Rewriter struct {
	resolver Resolver
}

// NewRewriter creates a rewriter backed by r.
func NewRewriter(r Resolver) *Rewriter {
	return &Rewriter{resolver: r}
}

// Source replaces the server path of src with its client path. A source
// with a path is mapped through the sourcemap; one without a path but
// with a sentinel-prefixed name is resolved as a source identifier.
// It reports whether src was rewritten.
func (rw *Rewriter) Source(src *dap.Source) bool {
	if src == nil {
		return false
	}
	for i := range src.Sources {
		rw.Source(&src.Sources[i])
	}

	var client string
	switch id := pathconv.ParseSourceID(src.Name); {
	case src.Path != "":
		client = rw.resolver.Map(src.Path)
		if client == "" {
			return false
		}
	case id.Kind == pathconv.Virtual:
		path, ok := rw.resolver.Resolve(src.Name)
		if !ok {
			return false
		}
		client = path
	default:
		return false
	}

	logger.Trace("Rewriting source %q (%q) -> %q", src.Name, src.Path, client)
	src.Path = client
	src.Name = pathconv.FileName(client)
	return true
}

// Downstream rewrites sources in a message sent by the adapter to the
// client. Other messages pass through unchanged.
func (rw *Rewriter) Downstream(msg dap.Message) dap.Message {
	switch m := msg.(type) {
	case *dap.LoadedSourceEvent:
		rw.Source(&m.Body.Source)
	case *dap.LoadedSourcesResponse:
		for i := range m.Body.Sources {
			rw.Source(&m.Body.Sources[i])
		}
	case *dap.StackTraceResponse:
		for i := range m.Body.StackFrames {
			rw.Source(m.Body.StackFrames[i].Source)
		}
	case *dap.ScopesResponse:
		for i := range m.Body.Scopes {
			rw.Source(m.Body.Scopes[i].Source)
		}
	case *dap.BreakpointEvent:
		rw.Source(m.Body.Breakpoint.Source)
	case *dap.SetBreakpointsResponse:
		for i := range m.Body.Breakpoints {
			rw.Source(m.Body.Breakpoints[i].Source)
		}
	case *dap.OutputEvent:
		rw.Source(m.Body.Source)
	}
	return msg
}

// Upstream applies launch and attach arguments sent by the client. The
// message itself is forwarded unchanged.
func (rw *Rewriter) Upstream(msg dap.Message) dap.Message {
	var args json.RawMessage
	switch m := msg.(type) {
	case *dap.LaunchRequest:
		args = m.Arguments
	case *dap.AttachRequest:
		args = m.Arguments
	default:
		return msg
	}
	if err := rw.Configure(args); err != nil {
		logger.Warn("Ignoring source settings: %v", err)
	}
	return msg
}

// Configure applies sourceCoding and sourceMaps from raw launch
// arguments. A present sourceMaps list replaces all existing rules.
func (rw *Rewriter) Configure(raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	var args LaunchArguments
	if err := json.Unmarshal(raw, &args); err != nil {
		return fmt.Errorf("failed to parse launch arguments: %w", err)
	}

	for i, pair := range args.SourceMaps {
		if len(pair) != 2 || pair[0] == "" {
			return fmt.Errorf("%w at index %d: %q", ErrInvalidSourceMap, i, pair)
		}
	}

	if args.SourceCoding != "" {
		coding, err := pathconv.ParseCoding(args.SourceCoding)
		if err != nil {
			return err
		}
		rw.resolver.SetCoding(coding)
	}

	if args.SourceMaps != nil {
		rw.resolver.ClearSourcemap()
		for _, pair := range args.SourceMaps {
			rw.resolver.AddSourcemap(pair[0], pair[1])
		}
		logger.Debug("Applied %d sourcemap rules from launch arguments", len(args.SourceMaps))
	}
	return nil
}
