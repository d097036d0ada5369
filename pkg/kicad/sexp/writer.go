package sexp

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// Write serializes the node tree to the writer in KiCad style: nested lists
// indented with tabs, quoted strings re-quoted with escapes. The output is
// valid input for KiCad and for this package's parser.
func Write(w io.Writer, root *Node) error {
	bw := bufio.NewWriter(w)
	writeNode(bw, root, 0)
	bw.WriteByte('\n')
	return bw.Flush()
}

// WriteFile serializes the node tree to the named file
func WriteFile(filename string, root *Node) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := Write(file, root); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// String returns the serialized form of the node tree
func String(root *Node) string {
	var sb strings.Builder
	Write(&sb, root)
	return sb.String()
}

func writeNode(w *bufio.Writer, n *Node, depth int) {
	if n == nil {
		return
	}

	if !n.List {
		writeAtom(w, n)
		return
	}

	w.WriteByte('(')
	wrapped := false
	for i, child := range n.Children {
		if child.List {
			// Nested lists go on their own line
			w.WriteByte('\n')
			writeIndent(w, depth+1)
			writeNode(w, child, depth+1)
			wrapped = true
			continue
		}
		if i > 0 {
			if wrapped {
				w.WriteByte('\n')
				writeIndent(w, depth+1)
			} else {
				w.WriteByte(' ')
			}
		}
		writeAtom(w, child)
	}
	if wrapped {
		w.WriteByte('\n')
		writeIndent(w, depth)
	}
	w.WriteByte(')')
}

func writeAtom(w *bufio.Writer, n *Node) {
	if !n.Quoted {
		w.WriteString(n.Value)
		return
	}

	w.WriteByte('"')
	for i := 0; i < len(n.Value); i++ {
		switch c := n.Value[i]; c {
		case '"':
			w.WriteString(`\"`)
		case '\\':
			w.WriteString(`\\`)
		case '\n':
			w.WriteString(`\n`)
		case '\t':
			w.WriteString(`\t`)
		case '\r':
			w.WriteString(`\r`)
		default:
			w.WriteByte(c)
		}
	}
	w.WriteByte('"')
}

func writeIndent(w *bufio.Writer, depth int) {
	for i := 0; i < depth; i++ {
		w.WriteByte('\t')
	}
}
