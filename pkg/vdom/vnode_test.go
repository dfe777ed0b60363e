package vdom

import "testing"

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindEmpty, "Empty"},
		{KindElement, "Element"},
		{KindText, "Text"},
		{VKind(255), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("VKind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNodeKinds(t *testing.T) {
	var nilElement *ElementNode

	tests := []struct {
		name string
		node Node
		want VKind
	}{
		{"empty", Empty(), KindEmpty},
		{"element", Element("div"), KindElement},
		{"text", Text("hi"), KindText},
		{"nil", nil, KindEmpty},
		{"nil element", nilElement, KindEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalize(tt.node).Kind(); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestElementChildrenAreCopied(t *testing.T) {
	children := []Node{Text("a"), Text("b")}
	el := Element("ul", children...)

	children[0] = Text("changed")
	if got := el.Child(0).(TextNode).Content(); got != "a" {
		t.Errorf("Child(0) = %q, want a; builder must copy its input", got)
	}

	out := el.Children()
	out[1] = Text("changed")
	if got := el.Child(1).(TextNode).Content(); got != "b" {
		t.Errorf("Child(1) = %q, want b; Children must return a copy", got)
	}
}

func TestElementSkipsEmptyChildren(t *testing.T) {
	var nilElement *ElementNode
	el := Element("div", Text("a"), nil, Empty(), nilElement, Text("b"))

	if el.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", el.Len())
	}
	if el.Tag() != "div" {
		t.Errorf("Tag() = %q, want div", el.Tag())
	}
}

func TestElementWithoutChildren(t *testing.T) {
	el := Element("hr")
	if el.Len() != 0 {
		t.Errorf("Len() = %d, want 0", el.Len())
	}
	if el.Children() == nil {
		t.Error("Children() should be an empty, non-nil slice")
	}
}
