package redis

import (
	"context"
	"sync"
)

// pubsubQueue is an unbounded FIFO of decoded pub/sub frames. It
// exists because, once an Engine enters Subscribed mode, incoming
// messages are pushed by the reader goroutine at whatever rate the
// server sends them, independent of whether nextPublished is currently
// being called.
type pubsubQueue struct {
	mu       sync.Mutex
	cond     *sync.Cond
	items    [][]string
	closed   bool
	closeErr error
}

func newPubsubQueue() *pubsubQueue {
	q := &pubsubQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *pubsubQueue) push(msg []string) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.items = append(q.items, msg)
	q.mu.Unlock()
	q.cond.Signal()
}

func (q *pubsubQueue) closeWith(err error) {
	q.mu.Lock()
	q.closed = true
	q.closeErr = err
	q.mu.Unlock()
	q.cond.Broadcast()
}

// receive blocks until a message is available, the queue is closed, or
// ctx is done.
func (q *pubsubQueue) receive(ctx context.Context) ([]string, error) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			q.cond.Broadcast()
		case <-done:
		}
	}()

	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		q.cond.Wait()
	}
	if len(q.items) > 0 {
		msg := q.items[0]
		q.items = q.items[1:]
		return msg, nil
	}
	return nil, q.closeErr
}
