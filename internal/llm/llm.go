// Package llm provides the hosted language model client used by the
// chat relay.
package llm

import (
	"context"

	"github.com/sidmandirwala/portafina/internal/domain"
)

// Chunk is one unit of streamed model output. Err is set on the final
// chunk when the stream failed; the channel closes after it.
type Chunk struct {
	Text string
	Err  error
}

// StreamClient streams completions for a conversation under a fixed
// system instruction. Implementations send chunks on the returned
// channel and close it when the stream ends, errors, or ctx is done.
type StreamClient interface {
	Stream(ctx context.Context, system string, messages []domain.Message) (<-chan Chunk, error)
}
