package diagram

import (
	"fmt"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
)

// Overlay carries dynamic run data to highlight on top of the static
// diagram.
type Overlay struct {
	Visited []domain.State
	Current domain.State
}

// Mermaid produces a state diagram in Mermaid syntax. Edges are labeled
// "read, pop/push"; final states get a thicker stroke. An optional overlay
// paints visited states and the current one.
func Mermaid(def *domain.Definition, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")

	// Alias states whose raw names Mermaid would choke on.
	for _, s := range def.States {
		if safe := mermaidID(string(s)); safe != string(s) {
			sb.WriteString(fmt.Sprintf("    %s: %s\n", safe, s))
		}
	}

	if def.InitialState != "" {
		sb.WriteString(fmt.Sprintf("    [*] --> %s\n", mermaidID(string(def.InitialState))))
	}

	for _, t := range def.Transitions {
		label := fmt.Sprintf("%s, %s/%s", t.Input, t.Pop, domain.JoinSymbols(t.Push))
		sb.WriteString(fmt.Sprintf("    %s --> %s: %s\n",
			mermaidID(string(t.From)), mermaidID(string(t.To)), label))
	}

	if len(def.FinalStates) > 0 {
		sb.WriteString("\n    classDef accepting stroke-width:3px,stroke:#01579b;\n")
		for _, f := range def.FinalStates {
			sb.WriteString(fmt.Sprintf("    class %s accepting;\n", mermaidID(string(f))))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for contrast on both light and dark themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, s := range overlay.Visited {
			safe := mermaidID(string(s))
			if safe == "" || seen[safe] {
				continue
			}
			seen[safe] = true
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", safe))
		}
		if overlay.Current != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", mermaidID(string(overlay.Current))))
		}
	}

	return sb.String()
}

func mermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
