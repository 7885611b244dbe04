package tui

import (
	"fmt"
	"io"

	"github.com/bpkcongli/schema-checker/pkg/schema"
	"github.com/muesli/termenv"
)

// PrintVerdict writes one line per checked payload. Colors are only emitted
// when color is true.
func PrintVerdict(w io.Writer, label string, err error, color bool) {
	p := termenv.Ascii
	if color {
		p = termenv.ColorProfile()
	}

	if err == nil {
		mark := p.String("PASS").Foreground(p.Color("#34d399")).Bold()
		fmt.Fprintf(w, "%s %s\n", mark, label)
		return
	}

	mark := p.String("FAIL").Foreground(p.Color("#fb7185")).Bold()
	code := p.String(string(schema.CodeOf(err))).Foreground(p.Color("#fbbf24"))
	fmt.Fprintf(w, "%s %s %s\n", mark, label, code)
	fmt.Fprintf(w, "     %s\n", err)
}
