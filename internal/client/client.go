// Package client implements the multiplexer that lets many logical
// callers share one TCP connection to the cache, serializing their
// requests strictly FIFO: write one request frame, read exactly one
// response frame, reply, repeat.
package client

import (
	"context"
	"errors"
	"net"

	pkgerrors "github.com/pkg/errors"

	"gofast-cache/internal/domain"
	"gofast-cache/internal/frame"
)

// mailboxCapacity bounds the number of in-flight logical requests queued
// against one physical connection.
const mailboxCapacity = 32

const readChunkSize = 4096

type pendingRequest struct {
	req   domain.Request
	reply chan pendingResult
}

type pendingResult struct {
	resp domain.Response
	err  error
}

// ClientConnection owns a background goroutine and the single TCP
// connection it multiplexes requests over. Construct with Dial; call
// Close to drain and release it.
type ClientConnection struct {
	conn    net.Conn
	mailbox chan pendingRequest
	closed  chan struct{}
}

// Dial opens a TCP connection to addr and starts the background
// multiplexer goroutine.
func Dial(ctx context.Context, addr string) (*ClientConnection, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "dial")
	}

	cc := &ClientConnection{
		conn:    conn,
		mailbox: make(chan pendingRequest, mailboxCapacity),
		closed:  make(chan struct{}),
	}
	go cc.run()
	return cc, nil
}

// Client returns a cheap, cloneable handle to this connection. Many
// Clients may share one ClientConnection; each Get/Set/Delete/Flush call
// enqueues onto the same mailbox and is served strictly in order.
func (cc *ClientConnection) Client() Client {
	return Client{cc: cc}
}

// Close stops accepting new requests, waits for already-queued ones to
// drain, and closes the underlying connection.
func (cc *ClientConnection) Close() {
	close(cc.mailbox)
	<-cc.closed
}

func (cc *ClientConnection) run() {
	defer close(cc.closed)
	defer cc.conn.Close()

	buf := make([]byte, 0, readChunkSize)
	chunk := make([]byte, readChunkSize)
	var failed error

	for p := range cc.mailbox {
		if failed != nil {
			p.reply <- pendingResult{err: failed}
			continue
		}

		out := frame.Encode(frame.FromRequest(p.req))
		if _, err := cc.conn.Write(out); err != nil {
			failed = pkgerrors.Wrap(err, "send request")
			p.reply <- pendingResult{err: failed}
			continue
		}

		resp, err := readOneResponse(cc.conn, &buf, chunk)
		if err != nil {
			failed = pkgerrors.Wrap(err, "receive response")
			p.reply <- pendingResult{err: failed}
			continue
		}
		p.reply <- pendingResult{resp: resp}
	}
}

func readOneResponse(conn net.Conn, buf *[]byte, chunk []byte) (domain.Response, error) {
	for {
		f, consumed, err := frame.Decode(*buf, true)
		if err == nil {
			*buf = (*buf)[consumed:]
			return frame.ToResponse(f)
		}
		if !errors.Is(err, domain.ErrIncomplete) {
			return domain.Response{}, err
		}

		n, readErr := conn.Read(chunk)
		if n > 0 {
			*buf = append(*buf, chunk[:n]...)
		}
		if readErr != nil {
			return domain.Response{}, readErr
		}
	}
}

// send enqueues req and blocks for its matching reply, or until ctx is
// canceled. Canceling ctx does not cancel the in-flight round trip on the
// wire: the multiplexer still writes and reads the frame, it simply
// discards the result because nothing is left listening on reply.
func (cc *ClientConnection) send(ctx context.Context, req domain.Request) (domain.Response, error) {
	reply := make(chan pendingResult, 1)
	select {
	case cc.mailbox <- pendingRequest{req: req, reply: reply}:
	case <-ctx.Done():
		return domain.Response{}, ctx.Err()
	case <-cc.closed:
		return domain.Response{}, domain.ErrSend
	}

	select {
	case res := <-reply:
		if res.err != nil {
			return domain.Response{}, res.err
		}
		if res.resp.Op() != req.Op {
			return domain.Response{}, domain.ErrUnexpectedOpCode
		}
		return res.resp, nil
	case <-ctx.Done():
		return domain.Response{}, ctx.Err()
	}
}

// Client is a cheap, cloneable handle onto a shared ClientConnection.
type Client struct {
	cc *ClientConnection
}

// Get issues a Get request.
func (c Client) Get(ctx context.Context, key domain.Key) (domain.Response, error) {
	return c.cc.send(ctx, domain.NewGetRequest(key))
}

// Set issues a Set request. A zero TTL means no expiry.
func (c Client) Set(ctx context.Context, key domain.Key, value domain.Value, ttl domain.TTL) (domain.Response, error) {
	return c.cc.send(ctx, domain.NewSetRequest(key, value, ttl))
}

// Delete issues a Delete request.
func (c Client) Delete(ctx context.Context, key domain.Key) (domain.Response, error) {
	return c.cc.send(ctx, domain.NewDeleteRequest(key))
}

// Flush issues a Flush request.
func (c Client) Flush(ctx context.Context) (domain.Response, error) {
	return c.cc.send(ctx, domain.NewFlushRequest())
}
