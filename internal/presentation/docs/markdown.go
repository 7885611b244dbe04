package docs

import (
	"fmt"
	"strings"

	"github.com/bpkcongli/schema-checker/pkg/catalog"
)

// GenerateMarkdown produces a markdown document describing every checker
// definition. Each definition gets a heading, its description and one table
// per declared schema. An absent schema is called out as such so readers can
// tell it apart from an empty one.
func GenerateMarkdown(defs []catalog.Definition, classes []string) string {
	var sb strings.Builder
	sb.WriteString("# Schemas\n\n")

	if len(defs) == 0 {
		sb.WriteString("_No schemas configured._\n")
	}

	for _, def := range defs {
		fmt.Fprintf(&sb, "## %s\n\n", def.Name)
		if def.Description != "" {
			sb.WriteString(strings.TrimSpace(def.Description))
			sb.WriteString("\n\n")
		}
		writeFields(&sb, "Mandatory", def.Mandatory)
		writeFields(&sb, "Non-mandatory", def.NonMandatory)
	}

	if len(classes) > 0 {
		sb.WriteString("## Registered classes\n\n")
		for _, c := range classes {
			fmt.Fprintf(&sb, "- `%s`\n", c)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func writeFields(sb *strings.Builder, title string, fields []catalog.FieldDef) {
	fmt.Fprintf(sb, "### %s\n\n", title)
	switch {
	case fields == nil:
		sb.WriteString("_Not checked._\n\n")
		return
	case len(fields) == 0:
		sb.WriteString("_No fields._\n\n")
		return
	}

	sb.WriteString("| Field | Type |\n")
	sb.WriteString("| --- | --- |\n")
	for _, f := range fields {
		fmt.Fprintf(sb, "| `%s` | %s |\n", escapeCell(f.Name), f.Type)
	}
	sb.WriteString("\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
