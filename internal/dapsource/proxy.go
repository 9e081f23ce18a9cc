package dapsource

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
)

// Proxy relays DAP sessions between debugger clients and one adapter
// address, rewriting messages in both directions.
type Proxy struct {
	rewriter    *Rewriter
	adapterAddr string
}

// NewProxy creates a proxy that dials adapterAddr for every client. The
// rewriter's resolver must be safe for concurrent use.
func NewProxy(rw *Rewriter, adapterAddr string) *Proxy {
	return &Proxy{rewriter: rw, adapterAddr: adapterAddr}
}

// ListenAndServe listens on addr and serves sessions until ctx is done.
func (p *Proxy) ListenAndServe(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	logger.Info("DAP proxy listening on %s, adapter at %s", ln.Addr(), p.adapterAddr)
	return p.Serve(ctx, ln)
}

// Serve accepts client connections on ln until ctx is done. ln is closed
// on return.
func (p *Proxy) Serve(ctx context.Context, ln net.Listener) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, acceptErr := ln.Accept()
		if acceptErr != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to accept DAP client: %w", acceptErr)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.session(ctx, conn); err != nil {
				logger.Warn("DAP session ended with error: %v", err)
			}
		}()
	}
}

// session relays one client connection until either side closes.
func (p *Proxy) session(ctx context.Context, client net.Conn) error {
	defer client.Close()

	var d net.Dialer
	adapter, dialErr := d.DialContext(ctx, "tcp", p.adapterAddr)
	if dialErr != nil {
		return fmt.Errorf("failed to dial adapter %s: %w", p.adapterAddr, dialErr)
	}
	defer adapter.Close()
	logger.Debug("DAP session %s <-> %s", client.RemoteAddr(), adapter.RemoteAddr())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errs := make(chan error, 2)
	go func() { errs <- Pipe(ctx, adapter, client, p.rewriter.Upstream) }()
	go func() { errs <- Pipe(ctx, client, adapter, p.rewriter.Downstream) }()

	var first error
	select {
	case first = <-errs:
	case <-ctx.Done():
	}

	// Closing both ends unblocks the remaining pipe
	cancel()
	client.Close()
	adapter.Close()
	<-errs
	if first == nil || errors.Is(first, net.ErrClosed) || errors.Is(first, context.Canceled) {
		return nil
	}
	return first
}
