package syntax

import (
	"strings"
	"testing"

	"github.com/kobzarvs/multicur/internal/config"
)

func newGoEngine(t *testing.T) *Engine {
	t.Helper()
	e := New()
	if !e.SetFile("main.go", config.DefaultLanguages()) {
		t.Fatalf("SetFile(main.go) = false, want true")
	}
	return e
}

func kindsAt(spans []Span) map[string]bool {
	out := make(map[string]bool)
	for _, s := range spans {
		out[s.Kind] = true
	}
	return out
}

func TestSetFileUnknownExtensionStaysInert(t *testing.T) {
	e := New()
	if e.SetFile("notes.txt", config.DefaultLanguages()) {
		t.Fatalf("SetFile(notes.txt) = true, want false")
	}
	e.ParseSync("hello")
	if hl := e.Highlights(0, 0); hl != nil {
		t.Fatalf("Highlights on inert engine = %v, want nil", hl)
	}
}

func TestGoHighlights(t *testing.T) {
	e := newGoEngine(t)
	e.ParseSync("package main\n\nfunc main() {\n\t// greet\n\ts := \"hi\"\n\t_ = s\n}\n")

	hl := e.Highlights(0, 6)
	if !kindsAt(hl[0])["keyword"] {
		t.Fatalf("row 0 kinds = %v, want keyword", hl[0])
	}
	if !kindsAt(hl[2])["function"] {
		t.Fatalf("row 2 kinds = %v, want function", hl[2])
	}
	if !kindsAt(hl[3])["comment"] {
		t.Fatalf("row 3 kinds = %v, want comment", hl[3])
	}
	if !kindsAt(hl[4])["string"] {
		t.Fatalf("row 4 kinds = %v, want string", hl[4])
	}
}

func TestHighlightsRespectLineRange(t *testing.T) {
	e := newGoEngine(t)
	e.ParseSync("package main\n\nvar x = 1\n")

	hl := e.Highlights(2, 2)
	for row := range hl {
		if row != 2 {
			t.Fatalf("Highlights(2, 2) returned row %d", row)
		}
	}
	if !kindsAt(hl[2])["number"] {
		t.Fatalf("row 2 kinds = %v, want number", hl[2])
	}
}

func TestReparseTracksEdit(t *testing.T) {
	e := newGoEngine(t)
	old := "package main\n\nvar x = 1\n"
	e.ParseSync(old)

	// Replace the literal 1 with a string.
	idx := strings.Index(old, "1")
	next := old[:idx] + "\"one\"" + old[idx+1:]
	e.Reparse(next, idx, idx+1, idx+len("\"one\""))

	hl := e.Highlights(2, 2)
	kinds := kindsAt(hl[2])
	if !kinds["string"] {
		t.Fatalf("row 2 kinds after edit = %v, want string", hl[2])
	}
	if kinds["number"] {
		t.Fatalf("row 2 still highlights a number after edit: %v", hl[2])
	}
}

func TestTomlAndBashGrammars(t *testing.T) {
	langs := config.DefaultLanguages()

	e := New()
	if !e.SetFile("config.toml", langs) {
		t.Fatalf("SetFile(config.toml) = false, want true")
	}
	e.ParseSync("# section\n[server]\nport = 8080\n")
	hl := e.Highlights(0, 2)
	if !kindsAt(hl[0])["comment"] {
		t.Fatalf("toml row 0 kinds = %v, want comment", hl[0])
	}
	if !kindsAt(hl[2])["number"] {
		t.Fatalf("toml row 2 kinds = %v, want number", hl[2])
	}

	e = New()
	if !e.SetFile("run.sh", langs) {
		t.Fatalf("SetFile(run.sh) = false, want true")
	}
	e.ParseSync("export MODE=fast\nif true; then\n\treturn\nfi\n")
	hl = e.Highlights(0, 3)
	if !kindsAt(hl[0])["keyword"] {
		t.Fatalf("bash row 0 kinds = %v, want keyword for export", hl[0])
	}
	if !kindsAt(hl[1])["keyword"] {
		t.Fatalf("bash row 1 kinds = %v, want keyword for if", hl[1])
	}
	// return is an ordinary command word in this grammar
	if !kindsAt(hl[2])["function"] {
		t.Fatalf("bash row 2 kinds = %v, want command highlight", hl[2])
	}
}

func TestBytePoint(t *testing.T) {
	src := []byte("ab\ncd\n")
	p := bytePoint(src, 4)
	if p.Row != 1 || p.Column != 1 {
		t.Fatalf("bytePoint = {%d %d}, want {1 1}", p.Row, p.Column)
	}
	p = bytePoint(src, 100)
	if p.Row != 2 || p.Column != 0 {
		t.Fatalf("bytePoint past end = {%d %d}, want {2 0}", p.Row, p.Column)
	}
}
