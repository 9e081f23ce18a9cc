package dapsource

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/go-dap"
)

// MessageFunc transforms one decoded DAP message.
type MessageFunc func(dap.Message) dap.Message

// Pipe copies DAP frames from src to dst, passing every decodable message
// through fn. Frames go-dap cannot decode are forwarded verbatim. Pipe
// returns nil when src ends cleanly. ctx is checked between frames.
func Pipe(ctx context.Context, dst io.Writer, src io.Reader, fn MessageFunc) error {
	reader := bufio.NewReader(src)
	writer := bufio.NewWriter(dst)

	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		content, readErr := dap.ReadBaseMessage(reader)
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read DAP message: %w", readErr)
		}

		msg, decodeErr := dap.DecodeProtocolMessage(content)
		if decodeErr != nil {
			logger.Debug("Forwarding undecodable DAP message: %v", decodeErr)
			if writeErr := dap.WriteBaseMessage(writer, content); writeErr != nil {
				return fmt.Errorf("failed to write DAP message: %w", writeErr)
			}
		} else if writeErr := dap.WriteProtocolMessage(writer, fn(msg)); writeErr != nil {
			return fmt.Errorf("failed to write DAP message: %w", writeErr)
		}

		if flushErr := writer.Flush(); flushErr != nil {
			return fmt.Errorf("failed to flush DAP message: %w", flushErr)
		}
	}
}
