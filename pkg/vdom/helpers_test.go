package vdom

import "testing"

func TestText(t *testing.T) {
	node := Text("Hello, World!")

	if node.Kind() != KindText {
		t.Errorf("Kind = %v, want KindText", node.Kind())
	}
	if node.Content() != "Hello, World!" {
		t.Errorf("Content = %v, want 'Hello, World!'", node.Content())
	}
}

func TestTextf(t *testing.T) {
	node := Textf("Count: %d", 42)

	if node.Content() != "Count: 42" {
		t.Errorf("Content = %v, want 'Count: 42'", node.Content())
	}
}

func TestIf(t *testing.T) {
	t.Run("true condition", func(t *testing.T) {
		node := If(true, Div())
		if node.Kind() != KindElement {
			t.Errorf("If(true) = %v, want Element", node.Kind())
		}
	})

	t.Run("false condition", func(t *testing.T) {
		node := If(false, Div())
		if !IsEmpty(node) {
			t.Errorf("If(false) = %v, want Empty", node.Kind())
		}
	})

	t.Run("dropped by parent", func(t *testing.T) {
		node := Ul(Li("a"), If(false, Li("b")), Li("c"))
		if node.Len() != 2 {
			t.Errorf("Len() = %d, want 2", node.Len())
		}
	})
}

func TestIfElse(t *testing.T) {
	a, b := Text("a"), Text("b")

	if got := IfElse(true, a, b); got != a {
		t.Errorf("IfElse(true) = %v, want a", got)
	}
	if got := IfElse(false, a, b); got != b {
		t.Errorf("IfElse(false) = %v, want b", got)
	}
}

func TestMap(t *testing.T) {
	items := []string{"x", "", "z"}
	list := Ul(Map(items, func(s string) Node {
		return If(s != "", Li(s))
	}))

	if list.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", list.Len())
	}
}

func TestEqual(t *testing.T) {
	shared := Div(P("x"))

	tests := []struct {
		name string
		a, b Node
		want bool
	}{
		{"empty and nil", Empty(), nil, true},
		{"same text", Text("a"), Text("a"), true},
		{"different text", Text("a"), Text("b"), false},
		{"text and element", Text("div"), Div(), false},
		{"same structure", Div(P("x"), Span()), Div(P("x"), Span()), true},
		{"same pointer", shared, shared, true},
		{"different tag", Div(), Span(), false},
		{"different length", Div(P()), Div(P(), P()), false},
		{"deep difference", Div(Ul(Li("a"))), Div(Ul(Li("b"))), false},
		{"element and empty", Div(), Empty(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCountAndDepth(t *testing.T) {
	tests := []struct {
		name  string
		node  Node
		count int
		depth int
	}{
		{"empty", Empty(), 0, 0},
		{"text", Text("a"), 1, 1},
		{"flat", Ul(Li(), Li(), Li()), 4, 2},
		{"nested", Div(H1("title"), Section(P("a"), P("b"))), 8, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Count(tt.node); got != tt.count {
				t.Errorf("Count() = %d, want %d", got, tt.count)
			}
			if got := Depth(tt.node); got != tt.depth {
				t.Errorf("Depth() = %d, want %d", got, tt.depth)
			}
		})
	}
}
