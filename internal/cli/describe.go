package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/bpkcongli/schema-checker/internal/presentation/docs"
	"github.com/bpkcongli/schema-checker/internal/presentation/tui"
	"github.com/bpkcongli/schema-checker/pkg/catalog"
)

// DescribeOptions controls how the catalog is printed.
type DescribeOptions struct {
	Out io.Writer
	// Styled renders the markdown through glamour; otherwise it is printed raw.
	Styled bool
	Width  int
}

// Describe prints the catalog as markdown.
func Describe(env *Environment, opts DescribeOptions) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	entries := env.Catalog.Entries()
	defs := make([]catalog.Definition, 0, len(entries))
	for _, e := range entries {
		defs = append(defs, e.Definition)
	}
	markdown := docs.GenerateMarkdown(defs, env.Registry.Classes())

	if !opts.Styled {
		_, err := io.WriteString(out, markdown)
		return err
	}

	render, err := tui.NewRenderer(opts.Width)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	rendered, err := render(markdown)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(out, rendered)
	return err
}
