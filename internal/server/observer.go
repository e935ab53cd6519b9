package server

import (
	"context"
	"time"

	"github.com/raaihank/phi-cleanse/internal/events"
	"github.com/raaihank/phi-cleanse/internal/processor"
)

// runObserver forwards processor progress to the event hub and the audit
// recorder. Either may be nil.
type runObserver struct {
	server *Server
}

func (s *Server) observer() processor.RunObserver {
	return &runObserver{server: s}
}

func (o *runObserver) FieldSanitized(field, category string, rows, newMappings int) {
	if o.server.hub == nil {
		return
	}
	o.server.hub.BroadcastEvent(events.Event{
		Type:      events.EventTypeFieldSanitized,
		Timestamp: time.Now(),
		Data: events.FieldSanitizedEvent{
			Field:       field,
			Category:    category,
			Rows:        rows,
			NewMappings: newMappings,
		},
	})
}

func (o *runObserver) RunCompleted(summary processor.RunSummary) {
	if o.server.hub != nil {
		o.server.hub.BroadcastEvent(events.Event{
			Type:      events.EventTypeRunCompleted,
			Timestamp: time.Now(),
			Data:      summary,
		})
	}

	if o.server.recorder != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		// Best effort; Record logs its own failures.
		_ = o.server.recorder.Record(ctx, summary)
	}
}
