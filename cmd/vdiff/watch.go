package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vdiff/internal/errors"
	"github.com/vango-dev/vdiff/pkg/host"
	"github.com/vango-dev/vdiff/pkg/protocol"
	"github.com/vango-dev/vdiff/pkg/render"
	"github.com/vango-dev/vdiff/pkg/vdom"
)

type watchOptions struct {
	mount string
	ops   bool
	once  bool
}

func watchCmd() *cobra.Command {
	var opts watchOptions

	cmd := &cobra.Command{
		Use:   "watch URL",
		Short: "Mirror a mount by replaying its mutation stream",
		Long: `Connect to a vdiff server, replay the mount's mutation stream onto
a local graph and print the mirrored HTML after every batch.

Examples:
  vdiff watch http://localhost:7070 --mount=main
  vdiff watch http://localhost:7070 --mount=main --ops
  vdiff watch http://localhost:7070 --once`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.mount, "mount", "m", "main", "Mount to watch")
	cmd.Flags().BoolVar(&opts.ops, "ops", false, "Print each mutation instead of the HTML")
	cmd.Flags().BoolVar(&opts.once, "once", false, "Exit after the buffered history has been replayed")

	return cmd
}

// streamURL turns a server base URL into the mount's WebSocket URL.
func streamURL(base, mount string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http", "ws", "":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/mounts/" + mount + "/ws"
	u.RawQuery = "since=0"
	return u.String(), nil
}

// mirror is a local replica of a remote mount.
type mirror struct {
	graph    *host.Graph
	root     vdom.Handle
	replayer *protocol.Replayer
}

func newMirror(hello *protocol.Hello) (*mirror, error) {
	graph := host.New(host.WithRootTag(hello.RootTag))
	root, err := graph.Root()
	if err != nil {
		return nil, err
	}
	if root != hello.Root {
		return nil, errors.New(errors.CodeDesync).
			WithDetail(fmt.Sprintf("The server root is #%d but the local root is #%d.", hello.Root, root))
	}
	return &mirror{
		graph:    graph,
		root:     root,
		replayer: protocol.NewReplayer(graph, root, 0),
	}, nil
}

func (m *mirror) html() (string, error) {
	live, err := m.graph.Snapshot(m.root)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := render.NewRenderer(render.RendererConfig{Pretty: true}).RenderChildren(&b, live); err != nil {
		return "", err
	}
	return b.String(), nil
}

func runWatch(ctx context.Context, w io.Writer, base string, opts watchOptions) error {
	target, err := streamURL(base, opts.mount)
	if err != nil {
		return err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", target, err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	var (
		mir      *mirror
		caughtUp bool
	)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}
		f, err := protocol.DecodeFrame(data)
		if err != nil {
			return errors.Classify(err, errors.CodeDecode)
		}

		switch f.Type {
		case protocol.FrameHello:
			hello, err := protocol.DecodeHello(f.Payload)
			if err != nil {
				return errors.Classify(err, errors.CodeDecode)
			}
			if mir, err = newMirror(hello); err != nil {
				return err
			}
			info("watching %s at seq %d", hello.MountID, hello.Seq)
			if hello.Seq == 0 {
				caughtUp = true
				if opts.once {
					return nil
				}
			}

		case protocol.FrameMutations:
			if mir == nil {
				return errors.New(errors.CodeDecode).WithDetail("Mutations arrived before the hello frame.")
			}
			b, err := protocol.DecodeBatch(f.Payload)
			if err != nil {
				return errors.Classify(err, errors.CodeDecode)
			}
			if err := mir.replayer.Apply(b); err != nil {
				return errors.Classify(err, errors.CodeDesync).WithSource("seq " + strconv.FormatUint(b.Seq, 10))
			}
			if f.Flags.Has(protocol.FlagFinal) {
				caughtUp = true
			}
			if err := printBatch(w, mir, b, opts.ops, caughtUp); err != nil {
				return err
			}
			if caughtUp && opts.once {
				return nil
			}

		case protocol.FrameError:
			em, err := protocol.DecodeErrorMessage(f.Payload)
			if err != nil {
				return errors.Classify(err, errors.CodeDecode)
			}
			if em.IsFatal() {
				return em
			}
			warn("%s", em.Error())
		}
	}
}

// printBatch prints one applied batch. While catching up on history only
// the final state is printed in HTML mode.
func printBatch(w io.Writer, mir *mirror, b *protocol.Batch, ops, caughtUp bool) error {
	if ops {
		fmt.Fprintf(w, "-- seq %d (%d mutations)\n", b.Seq, len(b.Mutations))
		for _, m := range b.Mutations {
			fmt.Fprintf(w, "  %s\n", m)
		}
		return nil
	}
	if !caughtUp {
		return nil
	}
	html, err := mir.html()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "-- seq %d\n%s", b.Seq, html)
	return nil
}
