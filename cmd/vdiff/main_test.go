package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/vdiff/internal/config"
	"github.com/vango-dev/vdiff/pkg/protocol"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunDiffText(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeFile(t, dir, "old.json", `{"tag":"p","children":["a"]}`)
	newPath := writeFile(t, dir, "new.yaml", "tag: p\nchildren: [b]\n")

	var out bytes.Buffer
	if err := runDiff(&out, nil, oldPath, newPath, diffOptions{output: "text", rootTag: "body", html: true}); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{`CreateText("b")`, "ReplaceChildAt(", "<p>"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "CreateElement") {
		t.Errorf("same-tag diff should not create elements:\n%s", got)
	}
}

func TestRunDiffFrame(t *testing.T) {
	dir := t.TempDir()
	same := writeFile(t, dir, "same.json", `{"tag":"p"}`)

	var out bytes.Buffer
	if err := runDiff(&out, nil, same, same, diffOptions{output: "frame", rootTag: "body"}); err != nil {
		t.Fatal(err)
	}
	f, err := protocol.DecodeFrame(out.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	b, err := protocol.DecodeBatch(f.Payload)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Mutations) != 0 {
		t.Errorf("identical trees produced %d mutations", len(b.Mutations))
	}
}

func TestRunDiffStdinAndErrors(t *testing.T) {
	dir := t.TempDir()
	newPath := writeFile(t, dir, "new.json", `{"tag":"p"}`)

	var out bytes.Buffer
	if err := runDiff(&out, strings.NewReader("null"), "-", newPath, diffOptions{output: "text", rootTag: "body"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `CreateElement("p")`) {
		t.Errorf("mount from empty should create p:\n%s", out.String())
	}

	bad := writeFile(t, dir, "bad.json", `{"text":"x","tag":"p"}`)
	if err := runDiff(&out, nil, bad, newPath, diffOptions{output: "text", rootTag: "body"}); err == nil {
		t.Error("expected an error for an invalid document")
	}
	if err := runDiff(&out, nil, newPath, newPath, diffOptions{output: "xml", rootTag: "body"}); err == nil {
		t.Error("expected an error for an unknown output format")
	}
}

func TestRunDemo(t *testing.T) {
	var out bytes.Buffer
	if err := runDemo(&out); err != nil {
		t.Fatal(err)
	}
	got := out.String()

	parts := strings.SplitN(got, "== update", 2)
	if len(parts) != 2 {
		t.Fatalf("missing update step:\n%s", got)
	}
	mount, update := parts[0], parts[1]
	if strings.Count(mount, "CreateElement") != 4 {
		t.Errorf("mount should create div, h1, h2 and h3:\n%s", mount)
	}
	if strings.Contains(update, "CreateElement") || strings.Contains(update, `CreateText("2")`) {
		t.Errorf("update should only replace the changed text:\n%s", update)
	}
	if strings.Count(update, "ReplaceChildAt") != 2 {
		t.Errorf("update should replace exactly two text nodes:\n%s", update)
	}
}

func TestStreamURL(t *testing.T) {
	tests := []struct {
		base, mount, want string
	}{
		{"http://localhost:7070", "main", "ws://localhost:7070/mounts/main/ws?since=0"},
		{"https://example.com/vdiff/", "a b", "wss://example.com/vdiff/mounts/a%20b/ws?since=0"},
	}
	for _, tt := range tests {
		got, err := streamURL(tt.base, tt.mount)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("streamURL(%q, %q) = %q, want %q", tt.base, tt.mount, got, tt.want)
		}
	}
	if _, err := streamURL("ftp://x", "main"); err == nil {
		t.Error("expected an error for ftp")
	}
}

func TestResolveBench(t *testing.T) {
	cmd := benchCmd()
	if err := cmd.Flags().Set("watchers", "3"); err != nil {
		t.Fatal(err)
	}
	cfg, err := resolveBench(cmd, "fast", "2s", benchConfig{Watchers: 3})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Watchers != 3 || cfg.Duration != 2*time.Second || cfg.ListSize != profiles["fast"].ListSize {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if _, err := resolveBench(cmd, "huge", "", benchConfig{}); err == nil {
		t.Error("expected an error for an unknown profile")
	}
}

func TestPercentile(t *testing.T) {
	sorted := []time.Duration{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	if got := percentile(sorted, 0.5); got != 5 {
		t.Errorf("p50 = %d, want 5", got)
	}
	if got := percentile(sorted, 0.99); got != 10 {
		t.Errorf("p99 = %d, want 10", got)
	}
	if got := percentile(nil, 0.5); got != 0 {
		t.Errorf("p50 of nothing = %d, want 0", got)
	}
}

func TestInitWritesLoadableConfig(t *testing.T) {
	dir := t.TempDir()
	cmd := initCmd()
	cmd.SetArgs([]string{"--dir", dir, "--toml"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path() != filepath.Join(dir, config.TOMLFileName) {
		t.Errorf("loaded %q", cfg.Path())
	}
	if cfg.Server.Addr != config.DefaultAddr {
		t.Errorf("Addr = %q, want %q", cfg.Server.Addr, config.DefaultAddr)
	}
}
