package notification

import (
	"context"
	"sync"
	"sync/atomic"

	"notifier/pkg/models"
)

// fakeProducer is an in-memory queue client for tests. Publish errors
// are consumed one per call; an exhausted list means success.
type fakeProducer struct {
	mu          sync.Mutex
	publishErrs []error
	probeErr    error
	panicPub    bool
	panicProbe  bool
	published   []*models.Envelope

	started chan struct{}
	release chan struct{}

	inFlight      int32
	maxConcurrent int32
}

func (f *fakeProducer) Publish(ctx context.Context, envelope *models.Envelope) error {
	cur := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		max := atomic.LoadInt32(&f.maxConcurrent)
		if cur <= max || atomic.CompareAndSwapInt32(&f.maxConcurrent, max, cur) {
			break
		}
	}

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	if f.panicPub {
		panic("publish blew up")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.published = append(f.published, envelope)
	if len(f.publishErrs) > 0 {
		err := f.publishErrs[0]
		f.publishErrs = f.publishErrs[1:]
		return err
	}
	return nil
}

func (f *fakeProducer) Probe(ctx context.Context) error {
	if f.panicProbe {
		panic("probe blew up")
	}
	return f.probeErr
}

func (f *fakeProducer) Close() error {
	return nil
}

func (f *fakeProducer) publishCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.published)
}
