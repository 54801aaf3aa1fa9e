package annotation

import (
	"context"
	"sync"

	"github.com/preveen-stack/chisel3/internal/pubsub"
)

// Recorder is the ordered, append-only sink for annotations. Emission order
// within one registration call is meaningful and preserved.
//
// Recorded annotations are also published on a broker so downstream passes
// can stream intents as elaboration proceeds.
type Recorder struct {
	mu     sync.Mutex
	anns   []Annotation
	broker *pubsub.Broker[Annotation]
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		broker: pubsub.NewBroker[Annotation](),
	}
}

// Record appends an annotation and publishes it to subscribers.
func (r *Recorder) Record(a Annotation) {
	r.mu.Lock()
	r.anns = append(r.anns, a)
	r.mu.Unlock()

	r.broker.Publish(pubsub.AnnotationRecorded, a)
}

// All returns a copy of the recorded annotations in emission order.
func (r *Recorder) All() []Annotation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Annotation, len(r.anns))
	copy(out, r.anns)
	return out
}

// Len returns the number of recorded annotations.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.anns)
}

// Subscribe streams annotations recorded after the subscription, for the
// lifetime of ctx.
func (r *Recorder) Subscribe(ctx context.Context) <-chan pubsub.Event[Annotation] {
	return r.broker.Subscribe(ctx)
}

// Close shuts down the annotation stream. Recorded annotations remain
// readable through All.
func (r *Recorder) Close() {
	r.broker.Close()
}
