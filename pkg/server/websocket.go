package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	errs "github.com/vango-dev/vdiff/internal/errors"
	"github.com/vango-dev/vdiff/pkg/protocol"
)

// handleStream upgrades to a WebSocket and streams the mount's batches,
// one frame per binary message.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	m, ok := s.mount(w, r)
	if !ok {
		return
	}

	var since uint64
	if q := r.URL.Query().Get("since"); q != "" {
		n, err := strconv.ParseUint(q, 10, 64)
		if err != nil {
			s.fail(w, r, errs.New(errs.CodeBadRequest).
				WithDetail("since must be a non-negative batch sequence number.").Wrap(err))
			return
		}
		since = n
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already replied.
		s.logger.Debug("upgrade failed", "mount", m.ID(), "error", err)
		return
	}
	s.streams.Add(1)
	defer s.streams.Done()
	defer conn.Close()

	st := &stream{server: s, conn: conn}

	sub, hello, backlog, err := m.subscribe(since)
	if err != nil {
		code := protocol.ErrServerError
		if errors.Is(err, errHistoryGone) {
			code = protocol.ErrHistoryGone
		} else if errors.Is(err, errFutureSeq) {
			code = protocol.ErrInvalidBatch
		}
		st.writeError(code, err.Error())
		return
	}
	defer m.unsubscribe(sub)

	s.metrics.subscribers.Inc()
	defer s.metrics.subscribers.Dec()
	s.logger.Debug("subscriber joined", "mount", m.ID(), "since", since, "backlog", len(backlog))

	if err := st.write(protocol.FrameHello, protocol.NewFrame(protocol.FrameHello, protocol.EncodeHello(hello)).Encode()); err != nil {
		return
	}
	for i, frame := range backlog {
		if i == len(backlog)-1 {
			frame = withFlags(frame, protocol.FlagFinal)
		}
		if err := st.write(protocol.FrameMutations, frame); err != nil {
			return
		}
	}

	closed := make(chan struct{})
	go st.readLoop(sub, closed)

	ping := time.NewTicker(s.cfg.PingInterval)
	defer ping.Stop()

	for {
		select {
		case frame := <-sub.send:
			if err := st.write(protocol.FrameMutations, frame); err != nil {
				return
			}
		case <-sub.done:
			if sub.code != 0 {
				st.writeError(sub.code, sub.code.String())
			} else {
				st.close(websocket.CloseGoingAway, "server shutting down")
			}
			return
		case <-ping.C:
			deadline := time.Now().Add(s.cfg.WriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

// stream writes frames to one WebSocket connection. Only the handler
// goroutine writes.
type stream struct {
	server *Server
	conn   *websocket.Conn
}

func (st *stream) write(ft protocol.FrameType, frame []byte) error {
	_ = st.conn.SetWriteDeadline(time.Now().Add(st.server.cfg.WriteTimeout))
	if err := st.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		return err
	}
	st.server.metrics.frames.WithLabelValues(ft.String()).Inc()
	st.server.metrics.frameBytes.Add(float64(len(frame)))
	return nil
}

// writeError sends a fatal error frame and closes the connection.
func (st *stream) writeError(code protocol.ErrorCode, message string) {
	payload := protocol.EncodeErrorMessage(protocol.NewFatalError(code, message))
	if err := st.write(protocol.FrameError, protocol.NewFrame(protocol.FrameError, payload).Encode()); err != nil {
		return
	}
	st.close(websocket.ClosePolicyViolation, code.String())
}

func (st *stream) close(code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	_ = st.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(st.server.cfg.WriteTimeout))
}

// readLoop reports when the peer goes away. Streams are read-only: a data
// message from the peer ends the subscription with ErrInvalidFrame.
func (st *stream) readLoop(sub *subscriber, closed chan<- struct{}) {
	defer close(closed)
	st.conn.SetReadLimit(512)
	for {
		if _, _, err := st.conn.NextReader(); err != nil {
			return
		}
		sub.kick(protocol.ErrInvalidFrame)
	}
}

// withFlags returns a copy of an encoded frame with extra header flags.
// History frames are shared, so they are never modified in place.
func withFlags(frame []byte, flags protocol.FrameFlags) []byte {
	out := make([]byte, len(frame))
	copy(out, frame)
	out[1] |= byte(flags)
	return out
}
