package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vango-dev/vdiff/pkg/vdom"
)

// ErrNotFound is returned when no snapshot exists for a mount.
var ErrNotFound = errors.New("snapshot: not found")

// Snapshot is the exported state of one mount.
type Snapshot struct {
	Mount     string          `json:"mount"`
	Seq       uint64          `json:"seq"`
	Tree      json.RawMessage `json:"tree"`
	HTML      string          `json:"html"`
	CreatedAt time.Time       `json:"createdAt"`
}

// New builds a snapshot of tree as rendered to html.
func New(mount string, seq uint64, tree vdom.Node, html string) (*Snapshot, error) {
	doc, err := vdom.Encode(tree, vdom.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode tree: %w", err)
	}
	return &Snapshot{
		Mount:     mount,
		Seq:       seq,
		Tree:      doc,
		HTML:      html,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Node decodes the stored tree.
func (s *Snapshot) Node() (vdom.Node, error) {
	return vdom.Decode(s.Tree, vdom.FormatJSON)
}

// Store persists snapshots keyed by mount id. Saving a mount overwrites
// its previous snapshot.
type Store interface {
	Save(ctx context.Context, s *Snapshot) error
	Load(ctx context.Context, mount string) (*Snapshot, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, mount string) error
	Close() error
}

func marshal(s *Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

func unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &s, nil
}
