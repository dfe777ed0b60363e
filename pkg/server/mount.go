package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vdiff/pkg/host"
	"github.com/vango-dev/vdiff/pkg/protocol"
	"github.com/vango-dev/vdiff/pkg/render"
	"github.com/vango-dev/vdiff/pkg/snapshot"
	"github.com/vango-dev/vdiff/pkg/vdom"
)

var (
	errHistoryGone = errors.New("server: requested batches are no longer buffered")
	errFutureSeq   = errors.New("server: since is ahead of the mount")
)

// RenderResult describes one render request.
type RenderResult struct {
	Seq  uint64 `json:"seq"`
	Ops  int    `json:"ops"`
	HTML string `json:"html"`
}

// MountInfo is the listing entry for a mount.
type MountInfo struct {
	ID          string    `json:"id"`
	Seq         uint64    `json:"seq"`
	Subscribers int       `json:"subscribers"`
	Handles     int       `json:"handles"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Mount is one live node graph with its render session and subscribers.
type Mount struct {
	id      string
	cfg     *Config
	metrics *metrics
	tracer  trace.Tracer
	logger  *slog.Logger

	mu      sync.Mutex
	graph   *host.Graph
	root    vdom.Handle
	capture *protocol.Capture
	session *vdom.Session
	history *History
	subs    map[*subscriber]struct{}
	updated time.Time
}

func newMount(id string, cfg *Config, m *metrics, tracer trace.Tracer, logger *slog.Logger) (*Mount, error) {
	graph := host.New(host.WithRootTag(cfg.RootTag))
	root, err := graph.Root()
	if err != nil {
		return nil, fmt.Errorf("server: mount %s: %w", id, err)
	}
	capture := protocol.NewCapture(graph)

	return &Mount{
		id:      id,
		cfg:     cfg,
		metrics: m,
		tracer:  tracer,
		logger:  logger.With("mount", id),
		graph:   graph,
		root:    root,
		capture: capture,
		session: vdom.NewSession(capture, root, vdom.WithObserver(m.observeRender)),
		history: NewHistory(cfg.History),
		subs:    make(map[*subscriber]struct{}),
		updated: time.Now(),
	}, nil
}

// ID returns the mount id.
func (m *Mount) ID() string {
	return m.id
}

// Render reconciles tree into the mount and publishes the resulting batch.
//
// A failed pass still publishes whatever it applied before failing, so
// subscribers stay in step with the graph.
func (m *Mount) Render(ctx context.Context, tree vdom.Node) (*RenderResult, error) {
	_, span := m.tracer.Start(ctx, "vdiff.render", trace.WithAttributes(
		attribute.String("vdiff.mount", m.id),
	))
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	renderErr := m.session.Render(tree)
	m.metrics.renders.WithLabelValues(outcome(renderErr)).Inc()

	var flags protocol.BatchFlags
	if m.cfg.ReleaseHandles {
		flags |= protocol.BatchRelease
	}
	ops := 0
	if batch := m.capture.Flush(flags); batch != nil {
		ops = len(batch.Mutations)
		if batch.Release() {
			m.graph.ClearHandles(m.root)
		}
		frame := protocol.NewFrame(protocol.FrameMutations, protocol.EncodeBatch(batch)).Encode()
		m.history.Add(batch.Seq, frame)
		m.broadcast(frame)
		m.updated = time.Now()
	}

	seq := m.capture.Seq()
	span.SetAttributes(attribute.Int64("vdiff.seq", int64(seq)), attribute.Int("vdiff.ops", ops))
	if renderErr != nil {
		span.RecordError(renderErr)
		span.SetStatus(codes.Error, renderErr.Error())
		m.logger.Warn("render failed", "seq", seq, "ops", ops, "error", renderErr)
		return nil, renderErr
	}
	m.logger.Debug("rendered", "seq", seq, "ops", ops)

	html, err := m.html()
	if err != nil {
		return nil, err
	}
	return &RenderResult{Seq: seq, Ops: ops, HTML: html}, nil
}

// HTML renders the live contents of the mount root.
func (m *Mount) HTML() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.html()
}

// html must be called with mu held.
func (m *Mount) html() (string, error) {
	live, err := m.graph.Snapshot(m.root)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := render.NewRenderer(render.RendererConfig{}).RenderChildren(&b, live); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Tree returns the tree of the last successful render.
func (m *Mount) Tree() vdom.Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Current()
}

// Snapshot captures the mount's current tree and HTML.
func (m *Mount) Snapshot() (*snapshot.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	html, err := m.html()
	if err != nil {
		return nil, err
	}
	return snapshot.New(m.id, m.capture.Seq(), m.session.Current(), html)
}

// Info returns the listing entry for the mount.
func (m *Mount) Info() MountInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MountInfo{
		ID:          m.id,
		Seq:         m.capture.Seq(),
		Subscribers: len(m.subs),
		Handles:     m.graph.Handles(),
		UpdatedAt:   m.updated,
	}
}

// hello describes the mount to a new subscriber. mu must be held.
func (m *Mount) hello() *protocol.Hello {
	return &protocol.Hello{
		Version: protocol.ProtocolVersion,
		MountID: m.id,
		RootTag: m.cfg.RootTag,
		Root:    m.root,
		Seq:     m.capture.Seq(),
	}
}

// subscribe registers a subscriber that has applied every batch up to
// since. It returns the Hello to send and the buffered frames after since.
// Registration and the history read happen under the render lock, so the
// backlog and the live queue neither overlap nor leave a gap.
func (m *Mount) subscribe(since uint64) (*subscriber, *protocol.Hello, [][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if since > m.capture.Seq() {
		return nil, nil, nil, fmt.Errorf("%w: %d > %d", errFutureSeq, since, m.capture.Seq())
	}
	backlog, ok := m.history.Since(since)
	if !ok {
		return nil, nil, nil, fmt.Errorf("%w: since %d, oldest %d", errHistoryGone, since, m.history.MinSeq())
	}

	sub := newSubscriber(m.cfg.SubscriberBuffer)
	m.subs[sub] = struct{}{}
	return sub, m.hello(), backlog, nil
}

func (m *Mount) unsubscribe(sub *subscriber) {
	m.mu.Lock()
	delete(m.subs, sub)
	m.mu.Unlock()
}

// broadcast must be called with mu held. A subscriber whose queue is full
// is dropped rather than blocking the render.
func (m *Mount) broadcast(frame []byte) {
	for sub := range m.subs {
		select {
		case sub.send <- frame:
		default:
			delete(m.subs, sub)
			sub.kick(protocol.ErrSlowConsumer)
			m.metrics.drops.Inc()
			m.logger.Warn("dropped slow subscriber", "buffer", cap(sub.send))
		}
	}
}

// close disconnects every subscriber.
func (m *Mount) close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for sub := range m.subs {
		delete(m.subs, sub)
		sub.kick(0)
	}
}

// subscriber is one stream's outbound queue.
type subscriber struct {
	send chan []byte
	done chan struct{}
	once sync.Once
	code protocol.ErrorCode
}

func newSubscriber(buffer int) *subscriber {
	return &subscriber{
		send: make(chan []byte, buffer),
		done: make(chan struct{}),
	}
}

// kick ends the subscription. A non-zero code is reported to the peer.
func (s *subscriber) kick(code protocol.ErrorCode) {
	s.once.Do(func() {
		s.code = code
		close(s.done)
	})
}
