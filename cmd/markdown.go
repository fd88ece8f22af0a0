package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// printMarkdown prints a markdown report on stdout, rendered for the terminal
// or converted to HTML when -html is set.
func printMarkdown(md string) {
	if err := writeMarkdown(os.Stdout, md, *htmlOutput); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering output: %v\n", err)
		fmt.Print(md)
	}
}

func writeMarkdown(w io.Writer, md string, html bool) error {
	if html {
		return toHTML(w, md)
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// toHTML converts markdown, tables included, to HTML.
func toHTML(w io.Writer, md string) error {
	var buf bytes.Buffer
	if err := goldmark.New(goldmark.WithExtensions(extension.GFM)).Convert([]byte(md), &buf); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}
