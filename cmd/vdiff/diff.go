package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vdiff/internal/errors"
	"github.com/vango-dev/vdiff/pkg/host"
	"github.com/vango-dev/vdiff/pkg/protocol"
	"github.com/vango-dev/vdiff/pkg/render"
	"github.com/vango-dev/vdiff/pkg/vdom"
)

type diffOptions struct {
	output  string
	input   string
	rootTag string
	html    bool
}

func diffCmd() *cobra.Command {
	var opts diffOptions

	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Print the mutations that turn one tree document into another",
		Long: `Render OLD into an empty root, then NEW over it, and print the
mutations issued by the second render.

Tree documents are JSON or YAML, picked by file extension or --input.
Use - to read one of them from stdin.

  {"tag": "div", "children": ["text", {"tag": "p"}]}

Output formats:
  text   one mutation per line (default)
  hex    hex dump of the encoded mutation frame
  frame  the raw encoded frame

Examples:
  vdiff diff old.json new.json
  vdiff diff old.yaml new.yaml --output=hex
  vdiff diff old.json new.json --html`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd.OutOrStdout(), cmd.InOrStdin(), args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "text", "Output format: text, hex or frame")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Input format: json or yaml (default from extension)")
	cmd.Flags().StringVar(&opts.rootTag, "root", "body", "Tag of the mount root")
	cmd.Flags().BoolVar(&opts.html, "html", false, "Also print the resulting HTML")

	return cmd
}

func runDiff(w io.Writer, stdin io.Reader, oldPath, newPath string, opts diffOptions) error {
	oldTree, err := readTree(stdin, oldPath, opts.input)
	if err != nil {
		return err
	}
	newTree, err := readTree(stdin, newPath, opts.input)
	if err != nil {
		return err
	}

	graph := host.New(host.WithRootTag(opts.rootTag))
	root, err := graph.Root()
	if err != nil {
		return err
	}
	capture := protocol.NewCapture(graph)
	session := vdom.NewSession(capture, root)

	if err := session.Render(oldTree); err != nil {
		return errors.Classify(err, errors.CodeHostFailed).WithSource(oldPath)
	}
	capture.Flush(0)

	if err := session.Render(newTree); err != nil {
		return errors.Classify(err, errors.CodeHostFailed).WithSource(newPath)
	}
	batch := capture.Flush(0)
	if batch == nil {
		batch = &protocol.Batch{Seq: capture.Seq() + 1}
	}

	switch opts.output {
	case "text":
		if len(batch.Mutations) == 0 {
			fmt.Fprintln(w, "(no mutations)")
		}
		for _, m := range batch.Mutations {
			fmt.Fprintln(w, m)
		}
	case "hex":
		fmt.Fprint(w, hex.Dump(encodeFrame(batch)))
	case "frame":
		if _, err := w.Write(encodeFrame(batch)); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown output format %q (want text, hex or frame)", opts.output)
	}

	if opts.html {
		live, err := graph.Snapshot(root)
		if err != nil {
			return err
		}
		fmt.Fprintln(w)
		return render.NewRenderer(render.RendererConfig{Pretty: true}).RenderChildren(w, live)
	}
	return nil
}

func encodeFrame(b *protocol.Batch) []byte {
	return protocol.NewFrame(protocol.FrameMutations, protocol.EncodeBatch(b)).Encode()
}

// readTree loads a tree document from path, or from stdin for "-".
func readTree(stdin io.Reader, path, input string) (vdom.Node, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	format := vdom.FormatFromPath(path)
	if input != "" {
		if format, err = vdom.ParseFormat(input); err != nil {
			return nil, errors.Classify(err, errors.CodeUnknownFormat)
		}
	}

	tree, err := vdom.Decode(data, format)
	if err != nil {
		return nil, errors.Classify(err, errors.CodeInvalidDocument).WithSource(path)
	}
	return tree, nil
}
