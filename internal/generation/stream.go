// internal/generation/stream.go
package generation

import "context"

// Event is one streamed progress notification. After an "error" event
// the stream closes with no further events.
type Event struct {
	Type     string    `json:"type"` // progress | complete | error
	Step     string    `json:"step,omitempty"`
	Message  string    `json:"message,omitempty"`
	Progress int       `json:"progress,omitempty"`
	Data     *Response `json:"data,omitempty"`
	Detail   string    `json:"detail,omitempty"`
}

// GenerateStream runs the pipeline and pushes checkpoint events on the
// returned channel. The channel closes after the terminal complete or
// error event. The pipeline is bound to ctx: a disconnected consumer
// cancels the underlying provider calls.
func (s *Service) GenerateStream(ctx context.Context, req *Request) <-chan Event {
	events := make(chan Event, 8)

	go func() {
		defer close(events)

		emit := func(e Event) {
			select {
			case events <- e:
			case <-ctx.Done():
			}
		}

		resp, err := s.run(ctx, req, func(step, message string, progress int) {
			emit(Event{Type: "progress", Step: step, Message: message, Progress: progress})
		})
		if err != nil {
			emit(Event{Type: "error", Detail: err.Error()})
			return
		}

		emit(Event{
			Type:     "complete",
			Step:     "complete",
			Message:  "Script generated successfully",
			Progress: 100,
			Data:     resp,
		})
	}()

	return events
}
