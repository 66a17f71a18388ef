// Package syntax highlights the open buffer with tree-sitter,
// reparsing incrementally as edits stream in.
package syntax

import (
	"context"
	"math"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/toml"

	"github.com/kobzarvs/multicur/internal/config"
	"github.com/kobzarvs/multicur/internal/logger"
)

// Span is one highlighted run inside a row. Kind is the query capture
// name, e.g. "keyword" or "string"; the renderer maps kinds to theme
// colors.
type Span struct {
	StartCol int
	EndCol   int
	Kind     string
}

// Engine parses one buffer in one language.
type Engine struct {
	mu     sync.RWMutex
	lang   string
	parser *sitter.Parser
	query  *sitter.Query
	tree   *sitter.Tree
	source []byte
}

func New() *Engine { return &Engine{} }

// SetFile picks the grammar for a file path. Returns false when no
// supported language matches; the engine then stays inert.
func (e *Engine) SetFile(path string, langs config.Languages) bool {
	match := langs.Match(path)
	if match == nil {
		return false
	}

	var tsLang *sitter.Language
	var querySrc string
	switch match.Name {
	case "go":
		tsLang, querySrc = golang.GetLanguage(), goHighlightQuery
	case "toml":
		tsLang, querySrc = toml.GetLanguage(), tomlHighlightQuery
	case "bash":
		tsLang, querySrc = bash.GetLanguage(), bashHighlightQuery
	default:
		return false
	}

	query, err := sitter.NewQuery([]byte(querySrc), tsLang)
	if err != nil {
		logger.Warn("highlight query rejected", "language", match.Name, "err", err)
		return false
	}
	parser := sitter.NewParser()
	parser.SetLanguage(tsLang)

	e.mu.Lock()
	e.lang = match.Name
	e.parser = parser
	e.query = query
	e.tree = nil
	e.source = nil
	e.mu.Unlock()
	return true
}

// Language returns the active language name, empty when inert.
func (e *Engine) Language() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lang
}

// ParseSync parses the full text from scratch.
func (e *Engine) ParseSync(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.parser == nil {
		return
	}
	tree, _ := e.parser.ParseCtx(context.Background(), nil, []byte(text))
	e.tree = tree
	e.source = []byte(text)
}

// Reparse applies one edit, described in byte offsets, and reparses
// incrementally. text is the buffer content after the edit.
func (e *Engine) Reparse(text string, startByte, oldEndByte, newEndByte int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.parser == nil {
		return
	}
	next := []byte(text)
	if e.tree != nil {
		e.tree.Edit(sitter.EditInput{
			StartIndex:  uint32(startByte),
			OldEndIndex: uint32(oldEndByte),
			NewEndIndex: uint32(newEndByte),
			StartPoint:  bytePoint(e.source, startByte),
			OldEndPoint: bytePoint(e.source, oldEndByte),
			NewEndPoint: bytePoint(next, newEndByte),
		})
	}
	tree, _ := e.parser.ParseCtx(context.Background(), e.tree, next)
	e.tree = tree
	e.source = next
}

// bytePoint converts a byte offset to a tree-sitter row/column.
func bytePoint(src []byte, off int) sitter.Point {
	if off > len(src) {
		off = len(src)
	}
	var p sitter.Point
	for i := 0; i < off; i++ {
		if src[i] == '\n' {
			p.Row++
			p.Column = 0
		} else {
			p.Column++
		}
	}
	return p
}

// Highlights returns spans per row for the given line range.
func (e *Engine) Highlights(startLine, endLine int) map[int][]Span {
	if startLine < 0 || endLine < startLine {
		return nil
	}
	e.mu.RLock()
	query, tree, source := e.query, e.tree, e.source
	e.mu.RUnlock()
	if query == nil || tree == nil {
		return nil
	}

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.SetPointRange(
		sitter.Point{Row: uint32(startLine), Column: 0},
		sitter.Point{Row: uint32(endLine + 1), Column: 0},
	)
	cursor.Exec(query, tree.RootNode())

	out := make(map[int][]Span)
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		if source != nil {
			match = cursor.FilterPredicates(match, source)
			if match == nil {
				continue
			}
		}
		for _, capture := range match.Captures {
			kind := query.CaptureNameForId(capture.Index)
			start := capture.Node.StartPoint()
			end := capture.Node.EndPoint()
			if int(end.Row) < startLine || int(start.Row) > endLine {
				continue
			}
			for row := int(start.Row); row <= int(end.Row); row++ {
				if row < startLine || row > endLine {
					continue
				}
				span := Span{StartCol: 0, EndCol: math.MaxInt32, Kind: kind}
				if row == int(start.Row) {
					span.StartCol = int(start.Column)
				}
				if row == int(end.Row) {
					span.EndCol = int(end.Column)
				}
				out[row] = append(out[row], span)
			}
		}
	}
	return out
}

const goHighlightQuery = `
((comment) @comment)
((interpreted_string_literal) @string)
((raw_string_literal) @string)
((rune_literal) @string)
((int_literal) @number)
((float_literal) @number)
[
  "break" "case" "chan" "const" "continue" "default" "defer" "else"
  "fallthrough" "for" "func" "go" "goto" "if" "import" "interface"
  "map" "package" "range" "return" "select" "struct" "switch"
  "type" "var"
] @keyword
((nil) @constant)
((true) @constant)
((false) @constant)
((iota) @constant)
((type_spec name: (type_identifier) @type))
((type_identifier) @type)
((function_declaration name: (identifier) @function))
((method_declaration name: (field_identifier) @function))
((call_expression function: (identifier) @function))
((call_expression function: (selector_expression field: (field_identifier) @function)))
`

const tomlHighlightQuery = `
((comment) @comment)
((string) @string)
((integer) @number)
((float) @number)
((boolean) @constant)
((bare_key) @field)
((quoted_key) @field)
((table (bare_key) @type))
((table (quoted_key) @type))
((table_array_element (bare_key) @type))
`

const bashHighlightQuery = `
((comment) @comment)
((string) @string)
((raw_string) @string)
((number) @number)
((variable_name) @variable)
((command_name) @function)
((function_definition name: (word) @function))
[
  "if" "then" "else" "elif" "fi" "case" "esac" "for" "while" "until"
  "do" "done" "in" "function" "local" "export" "declare" "readonly"
] @keyword
`
