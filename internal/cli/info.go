package cli

import (
	"fmt"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
)

// DescribeMarkdown renders a definition as a markdown document. The info and
// library verbs pipe it through the glamour renderer for styled terminal
// output; the raw markdown doubles as a fallback when rendering fails.
func DescribeMarkdown(def *domain.Definition) string {
	var sb strings.Builder

	name := def.Name
	if name == "" {
		name = "(unnamed automaton)"
	}
	fmt.Fprintf(&sb, "# %s\n\n", name)
	if def.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", strings.TrimSpace(def.Description))
	}

	fmt.Fprintf(&sb, "- **States**: %s\n", stateList(def.States))
	fmt.Fprintf(&sb, "- **Input alphabet**: %s\n", symbolList(def.InputAlphabet))
	fmt.Fprintf(&sb, "- **Stack alphabet**: %s\n", symbolList(def.StackAlphabet))
	fmt.Fprintf(&sb, "- **Initial state**: %s\n", def.InitialState)
	fmt.Fprintf(&sb, "- **Initial stack**: %s\n", def.InitialStackSymbol)
	fmt.Fprintf(&sb, "- **Final states**: %s\n\n", stateList(def.FinalStates))

	fmt.Fprintf(&sb, "## Transitions (%d)\n\n", len(def.Transitions))
	sb.WriteString("| From | Read | Pop | Push | To |\n")
	sb.WriteString("|------|------|-----|------|----|\n")
	for _, t := range def.Transitions {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n",
			t.From, t.Input, t.Pop, domain.ListSymbols(t.Push), t.To)
	}

	return sb.String()
}

func stateList(states []domain.State) string {
	if len(states) == 0 {
		return "(none)"
	}
	parts := make([]string, len(states))
	for i, s := range states {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

func symbolList(symbols []domain.Symbol) string {
	if len(symbols) == 0 {
		return "(none)"
	}
	parts := make([]string, len(symbols))
	for i, s := range symbols {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
