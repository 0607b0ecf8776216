package redis

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

// requestReader parses the command frames an Engine writes onto its
// Transport, using the package's own Decoder -- a request frame is
// itself a multi-bulk of bulk strings, so no separate parser is needed.
type requestReader struct {
	conn    net.Conn
	dec     *Decoder
	buf     []byte
	pending []Reply
}

func newRequestReader(conn net.Conn) *requestReader {
	return &requestReader{conn: conn, dec: NewDecoder(), buf: make([]byte, 4096)}
}

// next blocks until one full command frame has been read and returns
// its words (command name followed by arguments).
func (r *requestReader) next(t *testing.T) []string {
	t.Helper()
	for {
		if len(r.pending) > 0 {
			if mb, ok := r.pending[0].(MultiBulkReply); ok && len(r.pending) >= 1+mb.N {
				out := make([]string, mb.N)
				for i := 0; i < mb.N; i++ {
					b, ok := r.pending[1+i].(BulkReply)
					require.True(t, ok)
					out[i] = string(b.Bytes)
				}
				r.pending = r.pending[1+mb.N:]
				return out
			}
		}
		n, err := r.conn.Read(r.buf)
		require.NoError(t, err)
		replies, err := r.dec.Feed(r.buf[:n])
		require.NoError(t, err)
		r.pending = append(r.pending, replies...)
	}
}

func newTestPair(t *testing.T) (*Engine, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	e := newEngine(client, nil, "utf-8")
	t.Cleanup(func() { _ = e.Close() })
	return e, server
}

func TestEngineFIFOCorrelation(t *testing.T) {
	e, server := newTestPair(t)
	rr := newRequestReader(server)

	res1 := make(chan NullString, 1)
	res2 := make(chan NullString, 1)
	errCh := make(chan error, 2)

	go func() {
		fut, err := e.Get(context.Background(), "k1")
		if err != nil {
			errCh <- err
			return
		}
		v, err := fut.Get(context.Background())
		if err != nil {
			errCh <- err
			return
		}
		res1 <- v
	}()
	require.Equal(t, []string{"GET", "k1"}, rr.next(t))

	go func() {
		fut, err := e.Get(context.Background(), "k2")
		if err != nil {
			errCh <- err
			return
		}
		v, err := fut.Get(context.Background())
		if err != nil {
			errCh <- err
			return
		}
		res2 <- v
	}()
	require.Equal(t, []string{"GET", "k2"}, rr.next(t))

	_, err := server.Write([]byte("$6\r\nvalue1\r\n$6\r\nvalue2\r\n"))
	require.NoError(t, err)

	select {
	case v := <-res1:
		require.Equal(t, NullString{Value: "value1", Valid: true}, v)
	case err := <-errCh:
		t.Fatalf("k1: %v", err)
	}
	select {
	case v := <-res2:
		require.Equal(t, NullString{Value: "value2", Valid: true}, v)
	case err := <-errCh:
		t.Fatalf("k2: %v", err)
	}
}

// TestEngineMultiBulkChildrenConsumedBeforeNextReply exercises the
// head-insertion behavior in pushChildrenLocked: a multi-bulk array's
// children must be attributed to it before the next queued command's
// own reply is dispatched, even though both arrive back to back.
func TestEngineMultiBulkChildrenConsumedBeforeNextReply(t *testing.T) {
	e, server := newTestPair(t)
	rr := newRequestReader(server)

	keysCh := make(chan []string, 1)
	go func() {
		fut, err := e.Keys(context.Background(), "*")
		require.NoError(t, err)
		v, err := fut.Get(context.Background())
		require.NoError(t, err)
		keysCh <- v
	}()
	require.Equal(t, []string{"KEYS", "*"}, rr.next(t))

	pingCh := make(chan string, 1)
	go func() {
		fut, err := e.Ping(context.Background())
		require.NoError(t, err)
		v, err := fut.Get(context.Background())
		require.NoError(t, err)
		pingCh <- v
	}()
	require.Equal(t, []string{"PING"}, rr.next(t))

	_, err := server.Write([]byte("*2\r\n$1\r\na\r\n$1\r\nb\r\n+PONG\r\n"))
	require.NoError(t, err)

	require.ElementsMatch(t, []string{"a", "b"}, <-keysCh)
	require.Equal(t, "PONG", <-pingCh)
}

func TestEngineServerErrorFailsOnlyItsOwnFuture(t *testing.T) {
	e, server := newTestPair(t)
	rr := newRequestReader(server)

	res := make(chan error, 1)
	go func() {
		fut, err := e.Incr(context.Background(), "notanumber")
		require.NoError(t, err)
		_, err = fut.Get(context.Background())
		res <- err
	}()
	require.Equal(t, []string{"INCR", "notanumber"}, rr.next(t))
	_, err := server.Write([]byte("-ERR value is not an integer\r\n"))
	require.NoError(t, err)

	gotErr := <-res
	var se ServerError
	require.ErrorAs(t, gotErr, &se)
	require.Equal(t, "ERR", se.Prefix())

	// The connection must still be usable afterward.
	res2 := make(chan int64, 1)
	go func() {
		fut, err := e.Incr(context.Background(), "k")
		require.NoError(t, err)
		v, err := fut.Get(context.Background())
		require.NoError(t, err)
		res2 <- v
	}()
	require.Equal(t, []string{"INCR", "k"}, rr.next(t))
	_, err = server.Write([]byte(":1\r\n"))
	require.NoError(t, err)
	require.Equal(t, int64(1), <-res2)
}

func TestTransactionExecResolvesQueuedFutures(t *testing.T) {
	e, server := newTestPair(t)
	rr := newRequestReader(server)

	txCh := make(chan *Transaction, 1)
	go func() {
		tx, err := e.EnterMulti(context.Background())
		require.NoError(t, err)
		txCh <- tx
	}()
	require.Equal(t, []string{"MULTI"}, rr.next(t))
	_, err := server.Write([]byte("+OK\r\n"))
	require.NoError(t, err)
	tx := <-txCh

	fut1Ch := make(chan *Future[struct{}], 1)
	go func() {
		fut, err := tx.Set(context.Background(), "k", "v")
		require.NoError(t, err)
		fut1Ch <- fut
	}()
	require.Equal(t, []string{"SET", "k", "v"}, rr.next(t))
	_, err = server.Write([]byte("+QUEUED\r\n"))
	require.NoError(t, err)
	fut1 := <-fut1Ch

	fut2Ch := make(chan *Future[int64], 1)
	go func() {
		fut, err := tx.Incr(context.Background(), "c")
		require.NoError(t, err)
		fut2Ch <- fut
	}()
	require.Equal(t, []string{"INCR", "c"}, rr.next(t))
	_, err = server.Write([]byte("+QUEUED\r\n"))
	require.NoError(t, err)
	fut2 := <-fut2Ch

	execErrCh := make(chan error, 1)
	go func() { execErrCh <- tx.Exec(context.Background()) }()
	require.Equal(t, []string{"EXEC"}, rr.next(t))
	_, err = server.Write([]byte("*2\r\n+OK\r\n:1\r\n"))
	require.NoError(t, err)

	require.NoError(t, <-execErrCh)
	_, err = fut1.Get(context.Background())
	require.NoError(t, err)
	v, err := fut2.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), v)
}

// TestTransactionExecToleratesPerItemErrors verifies that one queued
// command failing inside EXEC's reply array does not prevent its
// siblings' futures from resolving.
func TestTransactionExecToleratesPerItemErrors(t *testing.T) {
	e, server := newTestPair(t)
	rr := newRequestReader(server)

	txCh := make(chan *Transaction, 1)
	go func() {
		tx, err := e.EnterMulti(context.Background())
		require.NoError(t, err)
		txCh <- tx
	}()
	require.Equal(t, []string{"MULTI"}, rr.next(t))
	server.Write([]byte("+OK\r\n"))
	tx := <-txCh

	fut1Ch := make(chan *Future[int64], 1)
	go func() {
		fut, err := tx.Incr(context.Background(), "good1")
		require.NoError(t, err)
		fut1Ch <- fut
	}()
	require.Equal(t, []string{"INCR", "good1"}, rr.next(t))
	server.Write([]byte("+QUEUED\r\n"))
	fut1 := <-fut1Ch

	fut2Ch := make(chan *Future[int64], 1)
	go func() {
		fut, err := tx.Incr(context.Background(), "bad")
		require.NoError(t, err)
		fut2Ch <- fut
	}()
	require.Equal(t, []string{"INCR", "bad"}, rr.next(t))
	server.Write([]byte("+QUEUED\r\n"))
	fut2 := <-fut2Ch

	fut3Ch := make(chan *Future[int64], 1)
	go func() {
		fut, err := tx.Incr(context.Background(), "good2")
		require.NoError(t, err)
		fut3Ch <- fut
	}()
	require.Equal(t, []string{"INCR", "good2"}, rr.next(t))
	server.Write([]byte("+QUEUED\r\n"))
	fut3 := <-fut3Ch

	execErrCh := make(chan error, 1)
	go func() { execErrCh <- tx.Exec(context.Background()) }()
	require.Equal(t, []string{"EXEC"}, rr.next(t))
	_, err := server.Write([]byte("*3\r\n:1\r\n-WRONGTYPE bad\r\n:2\r\n"))
	require.NoError(t, err)

	require.NoError(t, <-execErrCh)

	v1, err := fut1.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), v1)

	_, err = fut2.Get(context.Background())
	require.Error(t, err)

	v3, err := fut3.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), v3)
}

func TestTransactionExecAbortedOnWatchChange(t *testing.T) {
	e, server := newTestPair(t)
	rr := newRequestReader(server)

	txCh := make(chan *Transaction, 1)
	go func() {
		tx, err := e.EnterMulti(context.Background(), "watched")
		require.NoError(t, err)
		txCh <- tx
	}()
	require.Equal(t, []string{"WATCH", "watched"}, rr.next(t))
	server.Write([]byte("+OK\r\n"))
	require.Equal(t, []string{"MULTI"}, rr.next(t))
	server.Write([]byte("+OK\r\n"))
	tx := <-txCh

	futCh := make(chan *Future[struct{}], 1)
	go func() {
		fut, err := tx.Set(context.Background(), "k", "v")
		require.NoError(t, err)
		futCh <- fut
	}()
	require.Equal(t, []string{"SET", "k", "v"}, rr.next(t))
	server.Write([]byte("+QUEUED\r\n"))
	fut := <-futCh

	execErrCh := make(chan error, 1)
	go func() { execErrCh <- tx.Exec(context.Background()) }()
	require.Equal(t, []string{"EXEC"}, rr.next(t))
	_, err := server.Write([]byte("*-1\r\n"))
	require.NoError(t, err)

	require.ErrorIs(t, <-execErrCh, ErrTransactionAborted)
	_, err = fut.Get(context.Background())
	require.ErrorIs(t, err, ErrTransactionAborted)
}

func TestTransactionDiscardFailsQueuedFutures(t *testing.T) {
	e, server := newTestPair(t)
	rr := newRequestReader(server)

	txCh := make(chan *Transaction, 1)
	go func() {
		tx, err := e.EnterMulti(context.Background())
		require.NoError(t, err)
		txCh <- tx
	}()
	require.Equal(t, []string{"MULTI"}, rr.next(t))
	server.Write([]byte("+OK\r\n"))
	tx := <-txCh

	futCh := make(chan *Future[struct{}], 1)
	go func() {
		fut, err := tx.Set(context.Background(), "k", "v")
		require.NoError(t, err)
		futCh <- fut
	}()
	require.Equal(t, []string{"SET", "k", "v"}, rr.next(t))
	server.Write([]byte("+QUEUED\r\n"))
	fut := <-futCh

	discardErrCh := make(chan error, 1)
	go func() { discardErrCh <- tx.Discard(context.Background()) }()
	require.Equal(t, []string{"DISCARD"}, rr.next(t))
	server.Write([]byte("+OK\r\n"))

	require.NoError(t, <-discardErrCh)
	_, err := fut.Get(context.Background())
	require.ErrorIs(t, err, ErrTransactionDiscarded)
}

func TestTransactionRejectsUseAfterFinished(t *testing.T) {
	e, server := newTestPair(t)
	rr := newRequestReader(server)

	txCh := make(chan *Transaction, 1)
	go func() {
		tx, err := e.EnterMulti(context.Background())
		require.NoError(t, err)
		txCh <- tx
	}()
	require.Equal(t, []string{"MULTI"}, rr.next(t))
	server.Write([]byte("+OK\r\n"))
	tx := <-txCh

	discardErrCh := make(chan error, 1)
	go func() { discardErrCh <- tx.Discard(context.Background()) }()
	require.Equal(t, []string{"DISCARD"}, rr.next(t))
	server.Write([]byte("+OK\r\n"))
	require.NoError(t, <-discardErrCh)

	_, err := tx.Set(context.Background(), "k", "v")
	require.ErrorIs(t, err, ErrTransactionFinished)
}

func TestEngineRejectsDirectCommandsMidTransaction(t *testing.T) {
	e, server := newTestPair(t)
	rr := newRequestReader(server)

	txCh := make(chan *Transaction, 1)
	go func() {
		tx, err := e.EnterMulti(context.Background())
		require.NoError(t, err)
		txCh <- tx
	}()
	require.Equal(t, []string{"MULTI"}, rr.next(t))
	server.Write([]byte("+OK\r\n"))
	<-txCh

	_, err := e.Get(context.Background(), "k")
	require.ErrorIs(t, err, ErrNotInTransactionContext)
}

func TestEngineShutdownFailsPendingCommands(t *testing.T) {
	e, server := newTestPair(t)
	rr := newRequestReader(server)

	resCh := make(chan error, 1)
	go func() {
		fut, err := e.Get(context.Background(), "k")
		if err != nil {
			resCh <- err
			return
		}
		_, err = fut.Get(context.Background())
		resCh <- err
	}()
	rr.next(t)

	require.NoError(t, server.Close())

	err := <-resCh
	var cle *ConnectionLostError
	require.ErrorAs(t, err, &cle)
}

func TestEngineSubscribeAndReceivePublished(t *testing.T) {
	e, server := newTestPair(t)
	rr := newRequestReader(server)

	ackCh := make(chan []string, 1)
	go func() {
		ack, err := e.Subscribe(context.Background(), "ch1", "ch2")
		require.NoError(t, err)
		ackCh <- ack
	}()
	require.Equal(t, []string{"SUBSCRIBE", "ch1", "ch2"}, rr.next(t))

	_, err := server.Write([]byte("*3\r\n$9\r\nsubscribe\r\n$3\r\nch1\r\n:1\r\n"))
	require.NoError(t, err)

	ack := <-ackCh
	require.Equal(t, []string{"subscribe", "ch1", "1"}, ack)
	require.True(t, e.InUse())

	_, err = server.Write([]byte("*3\r\n$7\r\nmessage\r\n$3\r\nch1\r\n$5\r\nhello\r\n"))
	require.NoError(t, err)

	msg, err := e.NextPublished(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"message", "ch1", "hello"}, msg)
}

// TestEngineSubscribeSecondChannelAckArrivesViaNextPublished locks in
// Subscribe's documented single-ack behavior for a multi-channel call:
// only ch1's acknowledgement is returned by Subscribe itself, and
// ch2's acknowledgement surfaces later through NextPublished.
func TestEngineSubscribeSecondChannelAckArrivesViaNextPublished(t *testing.T) {
	e, server := newTestPair(t)
	rr := newRequestReader(server)

	ackCh := make(chan []string, 1)
	go func() {
		ack, err := e.Subscribe(context.Background(), "ch1", "ch2")
		require.NoError(t, err)
		ackCh <- ack
	}()
	require.Equal(t, []string{"SUBSCRIBE", "ch1", "ch2"}, rr.next(t))

	_, err := server.Write([]byte("*3\r\n$9\r\nsubscribe\r\n$3\r\nch1\r\n:1\r\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"subscribe", "ch1", "1"}, <-ackCh)

	_, err = server.Write([]byte("*3\r\n$9\r\nsubscribe\r\n$3\r\nch2\r\n:2\r\n"))
	require.NoError(t, err)

	next, err := e.NextPublished(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"subscribe", "ch2", "2"}, next)
}
