package room

import (
	"context"
	"io"
	"log/slog"

	"github.com/nfrund/chatrelay/internal/gateway"
)

// AIPrefix marks assistant output on the wire.
const AIPrefix = "[AI] "

// aiFailureNotice is broadcast whenever the gateway fails. Silent drops are
// deliberately not an option: the room must see that its question went
// unanswered.
const aiFailureNotice = AIPrefix + "The assistant is unavailable right now."

// ReplyMode selects how assistant output is relayed to the room.
type ReplyMode string

const (
	// ReplyStream broadcasts the growing transcript after every fragment.
	ReplyStream ReplyMode = "stream"
	// ReplyWhole broadcasts a single packet with the full completion.
	ReplyWhole ReplyMode = "whole"
)

// Relay turns one user prompt into zero or more broadcast packets on a room.
// Each invocation runs independently; concurrent prompts in the same room
// interleave their packets without coordination.
type Relay struct {
	gw   gateway.Gateway
	mode ReplyMode
}

// NewRelay creates a relay over the given gateway.
func NewRelay(gw gateway.Gateway, mode ReplyMode) *Relay {
	return &Relay{gw: gw, mode: mode}
}

// Ask drives the gateway with the prompt and fans the reply out to the room.
func (rl *Relay) Ask(ctx context.Context, r *Room, prompt string) {
	switch rl.mode {
	case ReplyWhole:
		rl.askWhole(ctx, r, prompt)
	default:
		rl.askStream(ctx, r, prompt)
	}
}

func (rl *Relay) askWhole(ctx context.Context, r *Room, prompt string) {
	completion, err := rl.gw.Complete(ctx, prompt)
	if err != nil {
		slog.Error("Gateway completion failed", "room", r.Name(), "error", err)
		r.Broadcast([]byte(aiFailureNotice))
		return
	}
	r.Broadcast([]byte(AIPrefix + completion))
}

// askStream accumulates fragments into a running buffer and broadcasts the
// entire transcript so far on each fragment. Clients replace their displayed
// assistant line on every packet rather than appending. The sequence ends
// without an explicit done marker.
func (rl *Relay) askStream(ctx context.Context, r *Room, prompt string) {
	stream, err := rl.gw.Stream(ctx, prompt)
	if err != nil {
		slog.Error("Gateway stream failed to open", "room", r.Name(), "error", err)
		r.Broadcast([]byte(aiFailureNotice))
		return
	}
	defer stream.Close()

	var transcript string
	for {
		fragment, err := stream.Recv()
		if err == io.EOF {
			return
		}
		if err != nil {
			slog.Error("Gateway stream died mid-reply", "room", r.Name(), "error", err)
			r.Broadcast([]byte(aiFailureNotice))
			return
		}

		transcript += fragment
		r.Broadcast([]byte(AIPrefix + transcript))
	}
}
