package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vdiff/pkg/host"
	"github.com/vango-dev/vdiff/pkg/render"
	"github.com/vango-dev/vdiff/pkg/vdom"
)

func demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Render a list, then reverse its text, and show the host calls",
		Long: `Mount div[h1 "1", h2 "2", h3 "3"] under the document body, then
render div[h1 "3", h2 "2", h3 "1"] over it. Each step prints the host
calls it made and the resulting document.

The second render only replaces the two text nodes that changed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.OutOrStdout())
		},
	}
}

func runDemo(w io.Writer) error {
	graph := host.New()
	body, err := graph.Query("body")
	if err != nil {
		return err
	}
	rec := host.NewRecorder(graph)
	session := vdom.NewSession(rec, body)
	pretty := render.NewRenderer(render.RendererConfig{Pretty: true})

	steps := []struct {
		name string
		tree vdom.Node
	}{
		{"mount", vdom.Div(vdom.H1("1"), vdom.H2("2"), vdom.H3("3"))},
		{"update", vdom.Div(vdom.H1("3"), vdom.H2("2"), vdom.H3("1"))},
	}

	for i, step := range steps {
		rec.Reset()
		if err := session.Render(step.tree); err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "== %s (%d calls)\n", step.name, rec.Count())
		for _, line := range rec.Lines() {
			fmt.Fprintf(w, "  %s\n", line)
		}
		fmt.Fprintln(w)
		if err := pretty.RenderToWriter(w, graph.Document()); err != nil {
			return err
		}
	}
	return nil
}
