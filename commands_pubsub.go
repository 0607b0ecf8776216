package redis

import "context"

// Publish sends message to channel, returning the number of
// subscribers that received it.
func (c Commands) Publish(ctx context.Context, channel, message string) (*Future[int64], error) {
	args, err := c.encodeAll("PUBLISH", channel, message)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// Subscribe sends SUBSCRIBE for channels and, once acknowledged,
// commits the engine to Subscribed mode for the rest of its life:
// there is no UNSUBSCRIBE path back to Normal, so a subscribed engine
// should be dialed and managed outside of any Pool (see DialEngine).
// The returned acknowledgement is the raw ["subscribe", channel,
// count] frame for the first channel only. When channels names more
// than one channel, the server's remaining acknowledgements arrive
// later and surface through NextPublished like any other pub/sub
// frame, not through this call's return value.
func (e *Engine) Subscribe(ctx context.Context, channels ...string) ([]string, error) {
	return e.subscribe(ctx, channels)
}

// NextPublished returns the next pub/sub frame delivered to a
// Subscribed engine: a subscribe/unsubscribe acknowledgement, or a
// ["message", channel, payload] / ["pmessage", pattern, channel,
// payload] push. It suspends until one arrives, the engine closes, or
// ctx is done.
func (e *Engine) NextPublished(ctx context.Context) ([]string, error) {
	return e.nextPublished(ctx)
}
