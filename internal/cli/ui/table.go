// Package ui renders command output: aligned tables, key/value listings and
// colored messages. Color follows fatih/color's global switch unless a
// renderer is created with noColor.
package ui

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

const columnGap = "  "

// Table renders rows under a bold header, columns padded to the widest cell
type Table struct {
	writer  io.Writer
	headers []string
	rows    [][]string
	noColor bool
}

// NewTable creates a table with the given headers
func NewTable(w io.Writer, noColor bool, headers ...string) *Table {
	return &Table{writer: w, headers: headers, noColor: noColor}
}

// AddRow adds a row. Cells past the header count are dropped.
func (t *Table) AddRow(cells ...string) {
	if len(cells) > len(t.headers) {
		cells = cells[:len(t.headers)]
	}
	t.rows = append(t.rows, cells)
}

// Len returns the number of rows added
func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the table. A table without headers renders nothing.
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], width(cell))
		}
	}

	header := t.color(color.Bold, color.FgCyan)
	rule := t.color(color.FgHiBlack)

	cells := make([]string, len(t.headers))
	for i, h := range t.headers {
		cells[i] = header.Sprint(pad(h, widths[i], i == len(t.headers)-1))
	}
	fmt.Fprintln(t.writer, strings.Join(cells, columnGap))

	for i, w := range widths {
		cells[i] = rule.Sprint(strings.Repeat("─", w))
	}
	fmt.Fprintln(t.writer, strings.Join(cells, columnGap))

	for _, row := range t.rows {
		line := make([]string, len(row))
		for i, cell := range row {
			line[i] = pad(cell, widths[i], i == len(row)-1)
		}
		fmt.Fprintln(t.writer, strings.Join(line, columnGap))
	}
}

func (t *Table) color(attrs ...color.Attribute) *color.Color {
	return newColor(t.noColor, attrs...)
}

// KeyValueTable renders "key: value" lines with aligned values
type KeyValueTable struct {
	writer  io.Writer
	keys    []string
	values  []string
	noColor bool
}

// NewKeyValueTable creates a new key-value table
func NewKeyValueTable(w io.Writer, noColor bool) *KeyValueTable {
	return &KeyValueTable{writer: w, noColor: noColor}
}

// AddRow adds a key-value pair
func (t *KeyValueTable) AddRow(key, value string) {
	t.keys = append(t.keys, key)
	t.values = append(t.values, value)
}

// Render writes the pairs in insertion order
func (t *KeyValueTable) Render() {
	keyWidth := 0
	for _, k := range t.keys {
		keyWidth = max(keyWidth, width(k)+1)
	}

	key := newColor(t.noColor, color.FgCyan)
	for i, k := range t.keys {
		fmt.Fprintf(t.writer, "%s %s\n", key.Sprint(pad(k+":", keyWidth, false)), t.values[i])
	}
}

// pad right-pads s to w columns. The last column is never padded so lines
// carry no trailing blanks.
func pad(s string, w int, last bool) string {
	if last {
		return s
	}
	if n := width(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}

func width(s string) int {
	return utf8.RuneCountInString(s)
}

func newColor(noColor bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if noColor {
		c.DisableColor()
	}
	return c
}
