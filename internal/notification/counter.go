package notification

import "sync/atomic"

// Counter is the process-lifetime iteration counter shared by the
// builder (reads) and the publisher (increments after a confirmed
// send). It resets on process restart; durability is not required.
type Counter struct {
	n atomic.Uint64
}

func NewCounter() *Counter {
	return &Counter{}
}

func (c *Counter) Value() uint64 {
	return c.n.Load()
}

func (c *Counter) Inc() uint64 {
	return c.n.Add(1)
}
