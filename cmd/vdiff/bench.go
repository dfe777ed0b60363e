package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"runtime/metrics"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vdiff/pkg/protocol"
	"github.com/vango-dev/vdiff/pkg/server"
	"github.com/vango-dev/vdiff/pkg/vdom"
)

type profile struct {
	Name     string
	Watchers int
	Duration time.Duration
	RPS      float64
	ListSize int
}

var profiles = map[string]profile{
	"fast": {
		Name:     "fast",
		Watchers: 10,
		Duration: 5 * time.Second,
		RPS:      20,
		ListSize: 20,
	},
	"standard": {
		Name:     "standard",
		Watchers: 50,
		Duration: 20 * time.Second,
		RPS:      50,
		ListSize: 50,
	},
	"stress": {
		Name:     "stress",
		Watchers: 200,
		Duration: 60 * time.Second,
		RPS:      200,
		ListSize: 200,
	},
}

type benchConfig struct {
	Profile  string
	Watchers int
	Duration time.Duration
	RPS      float64
	ListSize int
	Release  bool
	History  int
	JSON     string
}

type benchCounters struct {
	renders     atomic.Uint64
	frames      atomic.Uint64
	frameBytes  atomic.Uint64
	mutations   atomic.Uint64
	renderBytes atomic.Uint64
}

type benchErrors struct {
	renderFailures atomic.Uint64
	handshakes     atomic.Uint64
	frameDecode    atomic.Uint64
	replayFailures atomic.Uint64
	errorFrames    atomic.Uint64
	total          atomic.Uint64
}

type opCounts struct {
	counts [256]atomic.Uint64
}

func (p *opCounts) add(op vdom.Op) {
	p.counts[uint8(op)].Add(1)
}

func (p *opCounts) snapshot() map[string]uint64 {
	out := make(map[string]uint64)
	for i := range p.counts {
		count := p.counts[i].Load()
		if count == 0 {
			continue
		}
		name := vdom.Op(uint8(i)).String()
		if name == "Unknown" {
			name = fmt.Sprintf("0x%02x", i)
		}
		out[name] = count
	}
	return out
}

// sendTimes records when each render was posted, indexed by the batch
// sequence number it is expected to produce.
type sendTimes struct {
	mu    sync.RWMutex
	times []time.Time
}

func (s *sendTimes) set(seq uint64, t time.Time) {
	s.mu.Lock()
	for uint64(len(s.times)) <= seq {
		s.times = append(s.times, time.Time{})
	}
	s.times[seq] = t
	s.mu.Unlock()
}

func (s *sendTimes) get(seq uint64) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if seq >= uint64(len(s.times)) || s.times[seq].IsZero() {
		return time.Time{}, false
	}
	return s.times[seq], true
}

func benchCmd() *cobra.Command {
	var (
		profileName string
		cfg         benchConfig
		duration    string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure render-to-replay latency against an in-process server",
		Long: `Start an in-process server with one mount, connect watchers that
replay its stream, and render a changing list at a fixed rate through the
HTTP API. Latency is measured from posting a render to a watcher having
applied the resulting batch.

Profiles: fast, standard, stress. Flags override the profile.

Examples:
  vdiff bench --profile=fast
  vdiff bench --watchers=100 --rps=100 --json=report.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveBench(cmd, profileName, duration, cfg)
			if err != nil {
				return err
			}
			return runBench(cmd.Context(), resolved)
		},
	}

	cmd.Flags().StringVar(&profileName, "profile", "standard", "Profile: fast, standard or stress")
	cmd.Flags().IntVar(&cfg.Watchers, "watchers", 0, "Number of WebSocket watchers")
	cmd.Flags().StringVar(&duration, "duration", "", "Benchmark duration, e.g. 30s")
	cmd.Flags().Float64Var(&cfg.RPS, "rps", 0, "Renders per second")
	cmd.Flags().IntVar(&cfg.ListSize, "list", 0, "List items per tree")
	cmd.Flags().BoolVar(&cfg.Release, "release-handles", false, "Release handles after every render")
	cmd.Flags().IntVar(&cfg.History, "history", 1024, "Batches kept per mount")
	cmd.Flags().StringVar(&cfg.JSON, "json", "", "Write the JSON report to this path ('-' for stdout)")

	return cmd
}

func resolveBench(cmd *cobra.Command, name, duration string, flags benchConfig) (benchConfig, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	base, ok := profiles[name]
	if !ok {
		return benchConfig{}, fmt.Errorf("unknown profile %q", name)
	}

	cfg := benchConfig{
		Profile:  base.Name,
		Watchers: base.Watchers,
		Duration: base.Duration,
		RPS:      base.RPS,
		ListSize: base.ListSize,
		Release:  flags.Release,
		History:  flags.History,
		JSON:     flags.JSON,
	}
	if cmd.Flags().Changed("watchers") {
		cfg.Watchers = flags.Watchers
	}
	if cmd.Flags().Changed("rps") {
		cfg.RPS = flags.RPS
	}
	if cmd.Flags().Changed("list") {
		cfg.ListSize = flags.ListSize
	}
	if duration != "" {
		d, err := time.ParseDuration(duration)
		if err != nil {
			return benchConfig{}, fmt.Errorf("invalid --duration: %w", err)
		}
		cfg.Duration = d
	}

	switch {
	case cfg.Watchers <= 0:
		return benchConfig{}, errors.New("--watchers must be > 0")
	case cfg.Duration <= 0:
		return benchConfig{}, errors.New("--duration must be > 0")
	case cfg.RPS <= 0:
		return benchConfig{}, errors.New("--rps must be > 0")
	case cfg.ListSize < 1:
		return benchConfig{}, errors.New("--list must be >= 1")
	}
	return cfg, nil
}

func runBench(parent context.Context, cfg benchConfig) error {
	if parent == nil {
		parent = context.Background()
	}

	scfg := server.DefaultConfig()
	scfg.Addr = "127.0.0.1:0"
	scfg.History = cfg.History
	scfg.SubscriberBuffer = 1024
	scfg.ReleaseHandles = cfg.Release
	srv := server.New(scfg,
		server.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		server.WithRegistry(prometheus.NewRegistry()),
	)
	if _, err := srv.Mount("bench"); err != nil {
		return err
	}

	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	serveCtx, stopServer := context.WithCancel(parent)
	serveDone := make(chan error, 1)
	go func() { serveDone <- srv.Serve(serveCtx, ln) }()
	defer func() {
		stopServer()
		<-serveDone
	}()

	baseURL := "http://" + ln.Addr().String()
	wsURL := "ws://" + ln.Addr().String() + "/mounts/bench/ws"

	var (
		counters benchCounters
		errCount benchErrors
		ops      opCounts
		sent     sendTimes
	)

	samplesCh := make(chan time.Duration, 4096)
	var samples []time.Duration
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for rtt := range samplesCh {
			samples = append(samples, rtt)
		}
	}()

	var before runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	beforeMetrics := readRuntimeMetrics()

	ctx, cancel := context.WithTimeout(parent, cfg.Duration)
	defer cancel()

	start := time.Now()
	var wg sync.WaitGroup
	ready := make(chan struct{}, cfg.Watchers)
	for i := 0; i < cfg.Watchers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := runWatcher(ctx, wsURL, ready, &sent, &counters, &errCount, &ops, samplesCh); err != nil {
				errCount.total.Add(1)
			}
		}()
	}
	for i := 0; i < cfg.Watchers; i++ {
		select {
		case <-ready:
		case <-ctx.Done():
		}
	}

	runRenderer(ctx, baseURL, cfg, &sent, &counters, &errCount)

	wg.Wait()
	close(samplesCh)
	<-collectorDone
	elapsed := time.Since(start)

	var after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&after)
	afterMetrics := readRuntimeMetrics()

	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	report := buildReport(cfg, elapsed, samples, &counters, &errCount, &ops, before, after, beforeMetrics, afterMetrics)

	writeSummary(os.Stderr, report)
	if cfg.JSON != "" {
		return writeJSON(cfg.JSON, report)
	}
	return nil
}

// runRenderer posts a new tree at the configured rate until ctx is done.
func runRenderer(ctx context.Context, baseURL string, cfg benchConfig, sent *sendTimes, counters *benchCounters, errCount *benchErrors) {
	client := &http.Client{Timeout: 10 * time.Second}
	ticker := time.NewTicker(time.Duration(float64(time.Second) / cfg.RPS))
	defer ticker.Stop()

	items := make([]string, cfg.ListSize)
	for i := range items {
		items[i] = fmt.Sprintf("Item %d", i)
	}

	var seq uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		token := fmt.Sprintf("token-%d", seq+1)
		items[int(fnv1a32(token)%uint32(len(items)))] = token
		doc, err := vdom.Encode(loadTree(token, items), vdom.FormatJSON)
		if err != nil {
			errCount.renderFailures.Add(1)
			continue
		}

		// Every tree differs from the last, so render n produces batch n.
		sent.set(seq+1, time.Now())
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/mounts/bench/render", bytes.NewReader(doc))
		if err != nil {
			errCount.renderFailures.Add(1)
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			errCount.renderFailures.Add(1)
			errCount.total.Add(1)
			continue
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			errCount.renderFailures.Add(1)
			errCount.total.Add(1)
			continue
		}
		seq++
		counters.renders.Add(1)
		counters.renderBytes.Add(uint64(len(doc)))
	}
}

// loadTree is the benchmark page: an echo line and a list where one item
// changes per render.
func loadTree(token string, items []string) vdom.Node {
	lis := make([]vdom.Node, len(items))
	for i, it := range items {
		lis[i] = vdom.Element("li", vdom.Text(it))
	}
	return vdom.Div(
		vdom.Element("div", vdom.Text(token)),
		vdom.Element("ul", lis...),
	)
}

func runWatcher(
	ctx context.Context,
	wsURL string,
	ready chan<- struct{},
	sent *sendTimes,
	counters *benchCounters,
	errCount *benchErrors,
	ops *opCounts,
	samples chan<- time.Duration,
) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		errCount.handshakes.Add(1)
		ready <- struct{}{}
		return err
	}
	defer conn.Close()
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	var mir *mirror
	signalled := false
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !signalled {
				ready <- struct{}{}
			}
			if ctx.Err() != nil || isTimeout(err) {
				return nil
			}
			return err
		}
		f, err := protocol.DecodeFrame(data)
		if err != nil {
			errCount.frameDecode.Add(1)
			return err
		}

		switch f.Type {
		case protocol.FrameHello:
			hello, err := protocol.DecodeHello(f.Payload)
			if err != nil {
				errCount.frameDecode.Add(1)
				return err
			}
			if mir, err = newMirror(hello); err != nil {
				errCount.replayFailures.Add(1)
				return err
			}
			ready <- struct{}{}
			signalled = true

		case protocol.FrameMutations:
			b, err := protocol.DecodeBatch(f.Payload)
			if err != nil {
				errCount.frameDecode.Add(1)
				return err
			}
			if err := mir.replayer.Apply(b); err != nil {
				errCount.replayFailures.Add(1)
				return err
			}
			if t, ok := sent.get(b.Seq); ok {
				samples <- time.Since(t)
			}
			counters.frames.Add(1)
			counters.frameBytes.Add(uint64(len(data)))
			counters.mutations.Add(uint64(len(b.Mutations)))
			for i := range b.Mutations {
				ops.add(b.Mutations[i].Op)
			}

		case protocol.FrameError:
			errCount.errorFrames.Add(1)
			em, err := protocol.DecodeErrorMessage(f.Payload)
			if err != nil {
				return err
			}
			return em
		}
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

type runtimeMetricsSnapshot struct {
	cpuTotalSeconds float64
	cpuGCSeconds    float64

	heapAllocsObjects uint64
}

func readRuntimeMetrics() runtimeMetricsSnapshot {
	samples := []metrics.Sample{
		{Name: "/cpu/classes/total:cpu-seconds"},
		{Name: "/cpu/classes/gc/total:cpu-seconds"},
		{Name: "/gc/heap/allocs:objects"},
	}
	metrics.Read(samples)

	var out runtimeMetricsSnapshot
	for _, s := range samples {
		switch s.Name {
		case "/cpu/classes/total:cpu-seconds":
			out.cpuTotalSeconds = s.Value.Float64()
		case "/cpu/classes/gc/total:cpu-seconds":
			out.cpuGCSeconds = s.Value.Float64()
		case "/gc/heap/allocs:objects":
			out.heapAllocsObjects = s.Value.Uint64()
		}
	}
	return out
}

func cpuFraction(after, before runtimeMetricsSnapshot) float64 {
	total := after.cpuTotalSeconds - before.cpuTotalSeconds
	if total <= 0 {
		return 0
	}
	gc := after.cpuGCSeconds - before.cpuGCSeconds
	if gc < 0 {
		return 0
	}
	return gc / total
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := int(math.Ceil(float64(len(sorted))*p)) - 1
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

type benchReport struct {
	Version    string         `json:"version"`
	Run        runInfo        `json:"run"`
	Workload   workloadInfo   `json:"workload"`
	LatencyMS  latencyInfo    `json:"latency_ms"`
	Throughput throughputInfo `json:"throughput"`
	GC         gcInfo         `json:"gc"`
	Protocol   protocolInfo   `json:"protocol"`
	Errors     errorInfo      `json:"errors"`
}

type runInfo struct {
	Timestamp string `json:"timestamp"`
	Go        string `json:"go"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	CPUCount  int    `json:"cpu_count"`
	GitCommit string `json:"git_commit,omitempty"`
}

type workloadInfo struct {
	Profile    string  `json:"profile"`
	Watchers   int     `json:"watchers"`
	DurationMS int64   `json:"duration_ms"`
	RPS        float64 `json:"rps"`
	ListSize   int     `json:"list_size"`
	Release    bool    `json:"release_handles"`
}

type latencyInfo struct {
	Min float64 `json:"min"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
	Max float64 `json:"max"`
}

type throughputInfo struct {
	RendersTotal  uint64  `json:"renders_total"`
	RendersPerSec float64 `json:"renders_per_sec"`
	FramesTotal   uint64  `json:"frames_total"`
}

type gcInfo struct {
	AllocMB       float64 `json:"alloc_mb"`
	HeapLiveMB    float64 `json:"heap_live_mb"`
	NumGC         uint32  `json:"num_gc"`
	PauseTotalMS  float64 `json:"pause_total_ms"`
	GCCPUFraction float64 `json:"gc_cpu_fraction"`
	AllocsObjects uint64  `json:"allocs_objects"`
}

type protocolInfo struct {
	DocumentBytesTotal uint64            `json:"document_bytes_total"`
	FrameBytesTotal    uint64            `json:"frame_bytes_total"`
	MutationsTotal     uint64            `json:"mutations_total"`
	AvgDocumentBytes   float64           `json:"avg_document_bytes"`
	AvgFrameBytes      float64           `json:"avg_frame_bytes"`
	MutationsPerFrame  float64           `json:"mutations_per_frame"`
	Ops                map[string]uint64 `json:"ops"`
}

type errorInfo struct {
	Total          uint64 `json:"total"`
	RenderFailures uint64 `json:"render_failures"`
	Handshakes     uint64 `json:"handshake_failures"`
	FrameDecode    uint64 `json:"frame_decode_failures"`
	Replay         uint64 `json:"replay_failures"`
	ErrorFrames    uint64 `json:"error_frames"`
}

func ratio(n, d uint64) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

func buildReport(
	cfg benchConfig,
	elapsed time.Duration,
	latencies []time.Duration,
	counters *benchCounters,
	errCount *benchErrors,
	ops *opCounts,
	before runtime.MemStats,
	after runtime.MemStats,
	beforeMetrics runtimeMetricsSnapshot,
	afterMetrics runtimeMetricsSnapshot,
) benchReport {
	renders := counters.renders.Load()
	frames := counters.frames.Load()
	frameBytes := counters.frameBytes.Load()
	mutations := counters.mutations.Load()
	docBytes := counters.renderBytes.Load()

	latency := latencyInfo{}
	if len(latencies) > 0 {
		latency = latencyInfo{
			Min: ms(latencies[0]),
			P50: ms(percentile(latencies, 0.50)),
			P95: ms(percentile(latencies, 0.95)),
			P99: ms(percentile(latencies, 0.99)),
			Max: ms(latencies[len(latencies)-1]),
		}
	}

	return benchReport{
		Version: "1",
		Run: runInfo{
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			Go:        runtime.Version(),
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			CPUCount:  runtime.NumCPU(),
			GitCommit: gitCommit(),
		},
		Workload: workloadInfo{
			Profile:    cfg.Profile,
			Watchers:   cfg.Watchers,
			DurationMS: cfg.Duration.Milliseconds(),
			RPS:        cfg.RPS,
			ListSize:   cfg.ListSize,
			Release:    cfg.Release,
		},
		LatencyMS: latency,
		Throughput: throughputInfo{
			RendersTotal:  renders,
			RendersPerSec: float64(renders) / math.Max(0.001, elapsed.Seconds()),
			FramesTotal:   frames,
		},
		GC: gcInfo{
			AllocMB:       float64(after.TotalAlloc-before.TotalAlloc) / (1024 * 1024),
			HeapLiveMB:    float64(after.HeapAlloc) / (1024 * 1024),
			NumGC:         after.NumGC - before.NumGC,
			PauseTotalMS:  ms(time.Duration(after.PauseTotalNs - before.PauseTotalNs)),
			GCCPUFraction: cpuFraction(afterMetrics, beforeMetrics),
			AllocsObjects: afterMetrics.heapAllocsObjects - beforeMetrics.heapAllocsObjects,
		},
		Protocol: protocolInfo{
			DocumentBytesTotal: docBytes,
			FrameBytesTotal:    frameBytes,
			MutationsTotal:     mutations,
			AvgDocumentBytes:   ratio(docBytes, renders),
			AvgFrameBytes:      ratio(frameBytes, frames),
			MutationsPerFrame:  ratio(mutations, frames),
			Ops:                ops.snapshot(),
		},
		Errors: errorInfo{
			Total:          errCount.total.Load(),
			RenderFailures: errCount.renderFailures.Load(),
			Handshakes:     errCount.handshakes.Load(),
			FrameDecode:    errCount.frameDecode.Load(),
			Replay:         errCount.replayFailures.Load(),
			ErrorFrames:    errCount.errorFrames.Load(),
		},
	}
}

func writeSummary(w io.Writer, report benchReport) {
	fmt.Fprintln(w, "=== vdiff render benchmark ===")
	fmt.Fprintf(w, "Profile: %s\n", report.Workload.Profile)
	fmt.Fprintf(w, "Watchers: %d\n", report.Workload.Watchers)
	fmt.Fprintf(w, "Duration: %s\n", time.Duration(report.Workload.DurationMS)*time.Millisecond)
	fmt.Fprintf(w, "Target rate: %.2f renders/s\n", report.Workload.RPS)
	fmt.Fprintf(w, "List size: %d\n", report.Workload.ListSize)
	fmt.Fprintf(w, "Release handles: %v\n", report.Workload.Release)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Renders: %d (%.1f/s)\n", report.Throughput.RendersTotal, report.Throughput.RendersPerSec)
	fmt.Fprintf(w, "Frames replayed: %d\n", report.Throughput.FramesTotal)
	fmt.Fprintf(w, "Errors: %d\n", report.Errors.Total)
	fmt.Fprintln(w)

	if report.LatencyMS.Max == 0 {
		fmt.Fprintln(w, "No latency samples recorded.")
	} else {
		fmt.Fprintln(w, "Latency (render posted -> batch applied by watcher):")
		fmt.Fprintf(w, "  min: %.2f ms\n", report.LatencyMS.Min)
		fmt.Fprintf(w, "  p50: %.2f ms\n", report.LatencyMS.P50)
		fmt.Fprintf(w, "  p95: %.2f ms\n", report.LatencyMS.P95)
		fmt.Fprintf(w, "  p99: %.2f ms\n", report.LatencyMS.P99)
		fmt.Fprintf(w, "  max: %.2f ms\n", report.LatencyMS.Max)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Protocol:")
	fmt.Fprintf(w, "  document bytes/render: %.1f\n", report.Protocol.AvgDocumentBytes)
	fmt.Fprintf(w, "  frame bytes/batch:     %.1f\n", report.Protocol.AvgFrameBytes)
	fmt.Fprintf(w, "  mutations/batch:       %.2f\n", report.Protocol.MutationsPerFrame)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Go runtime / GC (process-wide):")
	fmt.Fprintf(w, "  alloc:     %.2f MB\n", report.GC.AllocMB)
	fmt.Fprintf(w, "  heap_live: %.2f MB\n", report.GC.HeapLiveMB)
	fmt.Fprintf(w, "  num_gc:    %d\n", report.GC.NumGC)
	fmt.Fprintf(w, "  gc_pause:  %.2f ms (total)\n", report.GC.PauseTotalMS)
	fmt.Fprintf(w, "  gc_cpu:    %.2f%%\n", report.GC.GCCPUFraction*100)
}

func writeJSON(path string, report benchReport) error {
	var out io.Writer
	if path == "-" {
		out = os.Stdout
	} else {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func gitCommit() string {
	if val := strings.TrimSpace(os.Getenv("VDIFF_GIT_COMMIT")); val != "" {
		return val
	}
	if val := strings.TrimSpace(os.Getenv("GIT_COMMIT")); val != "" {
		return val
	}
	out, err := exec.Command("git", "rev-parse", "HEAD").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func fnv1a32(s string) uint32 {
	const (
		offset32 = 2166136261
		prime32  = 16777619
	)
	var h uint32 = offset32
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime32
	}
	return h
}
