package vdom

import "testing"

func TestCreateElement(t *testing.T) {
	t.Run("basic element", func(t *testing.T) {
		node := Div()
		if node.Kind() != KindElement {
			t.Errorf("Kind = %v, want KindElement", node.Kind())
		}
		if node.Tag() != "div" {
			t.Errorf("Tag = %v, want div", node.Tag())
		}
	})

	t.Run("with child node", func(t *testing.T) {
		node := Div(P(Text("Hello")))
		if node.Len() != 1 {
			t.Fatalf("Children len = %v, want 1", node.Len())
		}
		if node.Child(0).(*ElementNode).Tag() != "p" {
			t.Errorf("Child tag = %v, want p", node.Child(0).(*ElementNode).Tag())
		}
	})

	t.Run("with string shorthand", func(t *testing.T) {
		node := Div("Hello")
		if node.Len() != 1 {
			t.Fatalf("Children len = %v, want 1", node.Len())
		}
		text, ok := node.Child(0).(TextNode)
		if !ok {
			t.Fatalf("Child kind = %v, want KindText", node.Child(0).Kind())
		}
		if text.Content() != "Hello" {
			t.Errorf("Child text = %v, want Hello", text.Content())
		}
	})

	t.Run("with slice of nodes", func(t *testing.T) {
		items := []Node{Li("a"), Li("b")}
		node := Ul(items, Li("c"))
		if node.Len() != 3 {
			t.Errorf("Children len = %v, want 3", node.Len())
		}
	})

	t.Run("with slice of elements", func(t *testing.T) {
		items := []*ElementNode{Li("a"), Li("b")}
		node := Ol(items)
		if node.Len() != 2 {
			t.Errorf("Children len = %v, want 2", node.Len())
		}
	})

	t.Run("nil and unsupported args ignored", func(t *testing.T) {
		node := Div(nil, 42, Span())
		if node.Len() != 1 {
			t.Errorf("Children len = %v, want 1", node.Len())
		}
	})
}

func TestElementFactories(t *testing.T) {
	tests := []struct {
		node *ElementNode
		tag  string
	}{
		{Div(), "div"},
		{Span(), "span"},
		{P(), "p"},
		{H1(), "h1"},
		{H6(), "h6"},
		{Ul(), "ul"},
		{Li(), "li"},
		{Section(), "section"},
		{Table(), "table"},
		{Td(), "td"},
		{CustomElement("my-widget"), "my-widget"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			if tt.node.Tag() != tt.tag {
				t.Errorf("Tag = %v, want %v", tt.node.Tag(), tt.tag)
			}
		})
	}
}

func TestIsVoidElement(t *testing.T) {
	for _, tag := range []string{"br", "hr", "img", "input"} {
		if !IsVoidElement(tag) {
			t.Errorf("IsVoidElement(%q) = false, want true", tag)
		}
	}
	for _, tag := range []string{"div", "span", "p"} {
		if IsVoidElement(tag) {
			t.Errorf("IsVoidElement(%q) = true, want false", tag)
		}
	}
}
