package vdom

import (
	"errors"
	"testing"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want Node
	}{
		{"null", `null`, Empty()},
		{"empty object", `{}`, Empty()},
		{"text", `{"text": "hi"}`, Text("hi")},
		{"empty text", `{"text": ""}`, Text("")},
		{"string shorthand", `"hi"`, Text("hi")},
		{"element", `{"tag": "div"}`, Div()},
		{
			"nested",
			`{"tag": "div", "children": [{"tag": "h1", "children": ["1"]}, {"text": "x"}, null]}`,
			Div(H1("1"), Text("x")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.doc), FormatJSON)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !Equal(got, tt.want) {
				t.Errorf("Decode() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecodeYAML(t *testing.T) {
	doc := `
tag: div
children:
  - tag: h1
    children: ["1"]
  - tag: h2
    children:
      - text: "2"
  - plain text
`
	got, err := Decode([]byte(doc), FormatYAML)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	want := Div(H1("1"), H2("2"), Text("plain text"))
	if !Equal(got, want) {
		t.Errorf("Decode() = %#v, want %#v", got, want)
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		format Format
		shape  bool
	}{
		{"text with tag", `{"tag": "p", "text": "x"}`, FormatJSON, true},
		{"children without tag", `{"children": ["x"]}`, FormatJSON, true},
		{"nested error", `{"tag": "div", "children": [{"text": "a", "children": []}, {"children": ["x"]}]}`, FormatJSON, true},
		{"syntax", `{"tag": `, FormatJSON, false},
		{"yaml syntax", "tag: [", FormatYAML, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc), tt.format)
			if err == nil {
				t.Fatal("Decode() expected error")
			}
			if got := errors.Is(err, ErrInvalidDocument); got != tt.shape {
				t.Errorf("errors.Is(ErrInvalidDocument) = %v, want %v (err: %v)", got, tt.shape, err)
			}
		})
	}
}

func TestDecodeUnknownFormat(t *testing.T) {
	_, err := Decode([]byte(`{}`), Format("xml"))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Decode() error = %v, want ErrUnknownFormat", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	tree := Div(H1("title"), Ul(Li("a"), Li("")), Text("tail"))

	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			data, err := Encode(tree, format)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			got, err := Decode(data, format)
			if err != nil {
				t.Fatalf("Decode() error = %v\n%s", err, data)
			}
			if !Equal(got, tree) {
				t.Errorf("round trip changed the tree:\n%s", data)
			}
		})
	}
}

func TestEncodeJSONShape(t *testing.T) {
	data, err := Encode(Div(Text("x")), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"tag":"div","children":[{"text":"x"}]}`; string(data) != want {
		t.Errorf("Encode() = %s, want %s", data, want)
	}

	data, err = Encode(Empty(), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "null" {
		t.Errorf("Encode(Empty) = %s, want null", data)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{".JSON", FormatJSON, false},
		{"application/json; charset=utf-8", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{".yml", FormatYAML, false},
		{"application/x-yaml", FormatYAML, false},
		{"toml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat() = %v, want %v", got, tt.want)
			}
		})
	}

	if got := FormatFromPath("trees/a.yaml"); got != FormatYAML {
		t.Errorf("FormatFromPath(.yaml) = %v", got)
	}
	if got := FormatFromPath("trees/a"); got != FormatJSON {
		t.Errorf("FormatFromPath(no ext) = %v", got)
	}
}
