package sexp

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
)

// Grammar structures for participle. These are internal; parsed input is
// converted into the public Node tree.

type rawDocument struct {
	Root *rawNode `parser:"@@"`
}

type rawNode struct {
	Str  *string  `parser:"  @String"`
	Sym  *string  `parser:"| @Symbol"`
	List *rawList `parser:"| @@"`
}

type rawList struct {
	Items []*rawNode `parser:"LParen @@* RParen"`
}

// Parser parses KiCad S-expression documents
type Parser struct {
	parser *participle.Parser[rawDocument]
}

// NewParser creates a new S-expression parser instance
func NewParser() (*Parser, error) {
	parser, err := participle.Build[rawDocument](
		participle.Lexer(SexpLexer),
		participle.Elide("Whitespace"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}
	return &Parser{parser: parser}, nil
}

// Parse parses a single top-level S-expression from a reader
func (p *Parser) Parse(r io.Reader) (*Node, error) {
	doc, err := p.parser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return convertNode(doc.Root)
}

// ParseString parses a single top-level S-expression from a string
func (p *Parser) ParseString(input string) (*Node, error) {
	doc, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return convertNode(doc.Root)
}

// ParseFile parses a single top-level S-expression from a file
func (p *Parser) ParseFile(filename string) (*Node, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	node, err := p.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return node, nil
}

// convertNode translates a grammar node into the public Node tree
func convertNode(raw *rawNode) (*Node, error) {
	switch {
	case raw == nil:
		return nil, fmt.Errorf("empty expression")

	case raw.Str != nil:
		value, err := unquote(*raw.Str)
		if err != nil {
			return nil, err
		}
		return &Node{Value: value, Quoted: true}, nil

	case raw.Sym != nil:
		return &Node{Value: *raw.Sym}, nil

	case raw.List != nil:
		node := &Node{List: true, Children: make([]*Node, 0, len(raw.List.Items))}
		for _, item := range raw.List.Items {
			child, err := convertNode(item)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		}
		return node, nil

	default:
		return nil, fmt.Errorf("malformed expression node")
	}
}

// unquote decodes a quoted string token: strips the surrounding quotes and
// resolves backslash escapes
func unquote(token string) (string, error) {
	if len(token) < 2 || token[0] != '"' || token[len(token)-1] != '"' {
		return "", fmt.Errorf("malformed string token %q", token)
	}
	body := token[1 : len(token)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}

	var out strings.Builder
	out.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			out.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", fmt.Errorf("dangling backslash in string token %q", token)
		}
		switch body[i] {
		case 'n':
			out.WriteByte('\n')
		case 't':
			out.WriteByte('\t')
		case 'r':
			out.WriteByte('\r')
		default:
			// Includes \" and \\; unknown escapes pass through unchanged
			out.WriteByte(body[i])
		}
	}
	return out.String(), nil
}
