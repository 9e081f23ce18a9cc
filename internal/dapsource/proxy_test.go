package dapsource

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/google/go-dap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srcpath/internal/pathconv"
)

// fakeAdapter answers a launch request with a loadedSource event.
func fakeAdapter(t *testing.T, ln net.Listener, reported string) {
	t.Helper()
	conn, err := ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	reader := bufio.NewReader(conn)
	msg, err := dap.ReadProtocolMessage(reader)
	if err != nil {
		return
	}
	if _, ok := msg.(*dap.LaunchRequest); !ok {
		return
	}

	event := &dap.LoadedSourceEvent{
		Event: dap.Event{
			ProtocolMessage: dap.ProtocolMessage{Seq: 1, Type: "event"},
			Event:           "loadedSource",
		},
	}
	event.Body.Reason = "new"
	event.Body.Source = dap.Source{Path: reported}
	_ = dap.WriteProtocolMessage(conn, event)

	// Hold the connection until the client hangs up
	_, _ = reader.ReadByte()
}

func TestProxyRewritesSession(t *testing.T) {
	adapterLn, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer adapterLn.Close()
	go fakeAdapter(t, adapterLn, "/srv/game/main.lua")

	r := pathconv.NewResolver(pathconv.WithSeparator('/'), pathconv.WithDirProvider(pathconv.FixedDir("/w")))
	proxy := NewProxy(NewRewriter(pathconv.NewSyncResolver(r)), adapterLn.Addr().String())

	proxyLn, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	served := make(chan error, 1)
	go func() { served <- proxy.Serve(ctx, proxyLn) }()

	client, err := net.Dial("tcp", proxyLn.Addr().String())
	require.NoError(t, err)
	defer client.Close()

	launch := &dap.LaunchRequest{
		Request: dap.Request{
			ProtocolMessage: dap.ProtocolMessage{Seq: 1, Type: "request"},
			Command:         "launch",
		},
		Arguments: json.RawMessage(`{"sourceMaps":[["/srv/game","/home/dev/game"]]}`),
	}
	require.NoError(t, dap.WriteProtocolMessage(client, launch))

	require.NoError(t, client.SetReadDeadline(time.Now().Add(5*time.Second)))
	msg, err := dap.ReadProtocolMessage(bufio.NewReader(client))
	require.NoError(t, err)
	loaded, ok := msg.(*dap.LoadedSourceEvent)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, "/home/dev/game/main.lua", loaded.Body.Source.Path)

	client.Close()
	cancel()
	assert.NoError(t, <-served)
}
