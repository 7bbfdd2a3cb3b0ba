package server

import (
	"errors"
	"io"
	"net"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"gofast-cache/internal/domain"
	"gofast-cache/internal/frame"
	"gofast-cache/internal/store"
)

// initialReadBufferSize matches the 8 KiB growable read buffer the
// connection handler starts with.
const initialReadBufferSize = 8 * 1024

// handler drives one accepted connection through
// Idle -> Decoding -> Dispatching -> Writing -> Idle, closing on shutdown,
// EOF, or any hard decode/I-O error.
type handler struct {
	conn     net.Conn
	store    *store.Store
	shutdown <-chan struct{}
	log      *logrus.Entry
}

func newHandler(conn net.Conn, st *store.Store, shutdown <-chan struct{}, log *logrus.Entry) *handler {
	return &handler{
		conn:     conn,
		store:    st,
		shutdown: shutdown,
		log:      log.WithField("conn_id", uuid.NewString()),
	}
}

func (h *handler) run() {
	defer h.conn.Close()
	h.log.Debug("connection accepted")

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-h.shutdown:
			h.conn.Close()
		case <-stop:
		}
	}()

	buf := make([]byte, 0, initialReadBufferSize)
	chunk := make([]byte, initialReadBufferSize)

	for {
		f, consumed, err := frame.Decode(buf, false)
		switch {
		case err == nil:
			buf = buf[consumed:]
			if h.dispatch(f) {
				return
			}
			continue
		case errors.Is(err, domain.ErrIncomplete):
			// fall through to read more bytes.
		default:
			h.log.WithError(err).Warn("closing connection: malformed request frame")
			return
		}

		n, readErr := h.conn.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				if len(buf) > 0 {
					h.log.WithError(domain.ErrResetByPeer).Debug("peer closed mid-frame")
				} else {
					h.log.Debug("connection closed by peer")
				}
				return
			}
			h.log.WithError(readErr).Debug("read error, closing connection")
			return
		}
	}
}

// dispatch decodes, serves, and answers one request frame. It reports
// whether the connection must be closed.
func (h *handler) dispatch(f frame.Frame) bool {
	req, err := frame.ToRequest(f)
	if err != nil {
		h.log.WithError(err).Warn("closing connection: invalid request")
		return true
	}

	resp := h.handle(req)

	out := frame.Encode(frame.FromResponse(resp))
	if _, err := h.conn.Write(out); err != nil {
		h.log.WithError(err).Debug("write error, closing connection")
		return true
	}
	return false
}

// handle implements the insert-if-absent SET, exists-gated DELETE, and
// lazily-expiring GET dispatch table. The ContainsKey-then-Insert/Remove
// pair is not atomic: a concurrent SET/DELETE on the same key can race
// between the pre-check and the mutation. This mirrors the storage
// actor's serial-but-uncoordinated message order and is preserved rather
// than fixed with a compound actor message.
func (h *handler) handle(req domain.Request) domain.Response {
	log := h.log.WithField("op", req.Op.String())

	switch req.Op {
	case domain.OpGet:
		entry, found := h.store.Get(req.Key)
		if !found {
			log.WithField("status", domain.StatusKeyNotFound.String()).Debug("dispatched")
			return domain.NewMissGetResponse()
		}
		log.WithField("status", domain.StatusOk.String()).Debug("dispatched")
		return domain.NewOkGetResponse(req.Key, entry.Value, entry.TTL)

	case domain.OpSet:
		if h.store.ContainsKey(req.Key) {
			log.WithField("status", domain.StatusKeyExists.String()).Debug("dispatched")
			return domain.NewSetResponse(domain.StatusKeyExists)
		}
		h.store.Insert(req.Key, req.Value, req.TTL)
		log.WithField("status", domain.StatusOk.String()).Debug("dispatched")
		return domain.NewSetResponse(domain.StatusOk)

	case domain.OpDelete:
		if !h.store.ContainsKey(req.Key) {
			log.WithField("status", domain.StatusKeyNotFound.String()).Debug("dispatched")
			return domain.NewDeleteResponse(domain.StatusKeyNotFound)
		}
		h.store.Remove(req.Key)
		log.WithField("status", domain.StatusOk.String()).Debug("dispatched")
		return domain.NewDeleteResponse(domain.StatusOk)

	case domain.OpFlush:
		h.store.Clear()
		log.WithField("status", domain.StatusOk.String()).Debug("dispatched")
		return domain.NewFlushResponse(domain.StatusOk)

	default:
		return domain.NewFlushResponse(domain.StatusInternalError)
	}
}
