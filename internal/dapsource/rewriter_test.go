package dapsource

import (
	"encoding/json"
	"testing"

	"github.com/google/go-dap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srcpath/internal/pathconv"
)

func newTestRewriter(t *testing.T) (*Rewriter, *pathconv.Resolver) {
	t.Helper()
	r := pathconv.NewResolver(
		pathconv.WithSeparator('/'),
		pathconv.WithDirProvider(pathconv.FixedDir("/work")),
	)
	r.AddSourcemap("/app", "/home/dev/app")
	return NewRewriter(r), r
}

func TestSourcePath(t *testing.T) {
	rw, _ := newTestRewriter(t)

	src := &dap.Source{Name: "main.lua", Path: "/app/src/main.lua"}
	require.True(t, rw.Source(src))
	assert.Equal(t, "/home/dev/app/src/main.lua", src.Path)
	assert.Equal(t, "main.lua", src.Name)
}

func TestSourceVirtualName(t *testing.T) {
	rw, _ := newTestRewriter(t)

	src := &dap.Source{Name: "@scripts/init.lua"}
	require.True(t, rw.Source(src))
	assert.Equal(t, "/work/scripts/init.lua", src.Path)
	assert.Equal(t, "init.lua", src.Name)
}

func TestSourceUnresolvedIsUntouched(t *testing.T) {
	rw, _ := newTestRewriter(t)

	src := &dap.Source{Name: "=[C]", SourceReference: 7}
	assert.False(t, rw.Source(src))
	assert.Equal(t, dap.Source{Name: "=[C]", SourceReference: 7}, *src)
	assert.False(t, rw.Source(nil))
}

func TestSourceEmptyClientPathIsUntouched(t *testing.T) {
	rw, r := newTestRewriter(t)
	r.ClearSourcemap()
	r.AddSourcemap("/gone", "")

	src := &dap.Source{Name: "gone", Path: "/gone"}
	assert.False(t, rw.Source(src))
	assert.Equal(t, dap.Source{Name: "gone", Path: "/gone"}, *src)
}

func TestSourceNested(t *testing.T) {
	rw, _ := newTestRewriter(t)

	src := &dap.Source{
		Name: "bundle",
		Sources: []dap.Source{
			{Path: "/app/a.lua"},
		},
	}
	assert.False(t, rw.Source(src))
	assert.Equal(t, "/home/dev/app/a.lua", src.Sources[0].Path)
}

func TestDownstream(t *testing.T) {
	rw, _ := newTestRewriter(t)

	stack := &dap.StackTraceResponse{}
	stack.Body.StackFrames = []dap.StackFrame{
		{Id: 1, Source: &dap.Source{Path: "/app/x.lua"}},
		{Id: 2},
	}
	rw.Downstream(stack)
	assert.Equal(t, "/home/dev/app/x.lua", stack.Body.StackFrames[0].Source.Path)
	assert.Nil(t, stack.Body.StackFrames[1].Source)

	loaded := &dap.LoadedSourceEvent{}
	loaded.Body.Reason = "new"
	loaded.Body.Source = dap.Source{Name: "@/app/y.lua"}
	rw.Downstream(loaded)
	assert.Equal(t, "/home/dev/app/y.lua", loaded.Body.Source.Path)

	bp := &dap.BreakpointEvent{}
	bp.Body.Breakpoint.Source = &dap.Source{Path: "/app/z.lua"}
	rw.Downstream(bp)
	assert.Equal(t, "/home/dev/app/z.lua", bp.Body.Breakpoint.Source.Path)

	list := &dap.LoadedSourcesResponse{}
	list.Body.Sources = []dap.Source{{Path: "/app/1.lua"}, {Path: "/app/2.lua"}}
	rw.Downstream(list)
	assert.Equal(t, "/home/dev/app/2.lua", list.Body.Sources[1].Path)

	out := &dap.OutputEvent{}
	out.Body.Output = "hello"
	rw.Downstream(out)
	assert.Nil(t, out.Body.Source)
}

func TestUpstreamLaunchArguments(t *testing.T) {
	rw, r := newTestRewriter(t)

	launch := &dap.LaunchRequest{
		Arguments: json.RawMessage(`{"program":"main.lua","sourceCoding":"utf8","sourceMaps":[["/srv/sub","/l/sub"],["/srv","/l"]]}`),
	}
	assert.Same(t, launch, rw.Upstream(launch))

	assert.Equal(t, pathconv.CodingUTF8, r.Coding())
	assert.Equal(t, []pathconv.Rule{
		{Server: "/srv/sub", Client: "/l/sub"},
		{Server: "/srv", Client: "/l"},
	}, r.Sourcemaps())
}

func TestConfigure(t *testing.T) {
	rw, r := newTestRewriter(t)

	require.NoError(t, rw.Configure(nil))
	require.NoError(t, rw.Configure(json.RawMessage(`{"program":"x"}`)))
	assert.Len(t, r.Sourcemaps(), 1, "absent sourceMaps keeps existing rules")

	err := rw.Configure(json.RawMessage(`{"sourceMaps":[["/only-one"]]}`))
	assert.ErrorIs(t, err, ErrInvalidSourceMap)
	assert.Len(t, r.Sourcemaps(), 1, "invalid sourceMaps must not change rules")

	assert.Error(t, rw.Configure(json.RawMessage(`{"sourceCoding":"ebcdic"}`)))
	assert.Error(t, rw.Configure(json.RawMessage(`not json`)))

	require.NoError(t, rw.Configure(json.RawMessage(`{"sourceMaps":[]}`)))
	assert.Empty(t, r.Sourcemaps())
}
