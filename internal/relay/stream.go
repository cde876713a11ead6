package relay

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"
)

const maxMessageBytes = 1 << 20

// Serve reads one message per line from r and writes each reply as a JSON
// line to w. Blank lines are skipped. It stops at EOF, on a store error, or
// when ctx is done.
func (d *Dispatcher) Serve(ctx context.Context, r io.Reader, w io.Writer) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxMessageBytes)
	enc := json.NewEncoder(w)
	handled := 0
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return handled, err
		}
		line := sc.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		reply, err := d.Handle(ctx, line)
		if err != nil {
			return handled, err
		}
		handled++
		if reply == nil {
			continue
		}
		if err := enc.Encode(reply); err != nil {
			return handled, fmt.Errorf("write reply: %w", err)
		}
	}
	if err := sc.Err(); err != nil {
		return handled, fmt.Errorf("read messages: %w", err)
	}
	d.log().Debug("relay_stream_closed", zap.Int("handled", handled))
	return handled, nil
}
