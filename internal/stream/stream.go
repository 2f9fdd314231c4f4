// Package stream carries walker results to the rendering side as an ordered
// event sequence.
package stream

import (
	"context"
	"fmt"

	"github.com/promptpack/promptpack/internal/options"
	"github.com/promptpack/promptpack/internal/types"
	"github.com/promptpack/promptpack/internal/walker"
)

// EventKind labels the payload carried by an Event.
type EventKind string

const (
	// EventKindFile carries one successfully read file record.
	EventKindFile EventKind = "file"
	// EventKindSkip reports a file dropped by a recoverable failure.
	EventKindSkip EventKind = "skip"
	// EventKindDone closes the sequence after the last root.
	EventKindDone EventKind = "done"
)

// Event is one element of the ordered sequence produced by a traversal.
type Event struct {
	Kind EventKind
	File *types.FileRecord
	Skip *SkipEvent
}

// SkipEvent describes a skipped file.
type SkipEvent struct {
	Path   string
	Reason string
}

// WalkOptions configures one streamed traversal.
type WalkOptions struct {
	Roots    []string
	Resolved options.Options
}

type emitter struct {
	ctx context.Context
	out chan<- Event
}

func (sender *emitter) send(event Event) error {
	if sender.out == nil {
		return fmt.Errorf("stream: event channel is nil")
	}
	select {
	case <-sender.ctx.Done():
		return sender.ctx.Err()
	case sender.out <- event:
		return nil
	}
}

// Files walks the configured roots and publishes each record, skip notice,
// and the final done marker onto out, preserving traversal order. The
// traversal itself stays sequential; records are handed over one at a time
// so memory stays bounded by a single file's content.
func Files(ctx context.Context, walkOptions WalkOptions, out chan<- Event) error {
	if ctx == nil {
		ctx = context.Background()
	}
	sender := &emitter{ctx: ctx, out: out}

	walkerInstance := walker.New(walkOptions.Resolved,
		func(record types.FileRecord) error {
			recordCopy := record
			return sender.send(Event{Kind: EventKindFile, File: &recordCopy})
		},
		func(path string, reason error) {
			_ = sender.send(Event{Kind: EventKindSkip, Skip: &SkipEvent{Path: path, Reason: reason.Error()}})
		},
	)
	if walkError := walkerInstance.Walk(walkOptions.Roots); walkError != nil {
		return walkError
	}
	return sender.send(Event{Kind: EventKindDone})
}
