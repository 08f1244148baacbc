package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"github.com/aretw0/espalier/pkg/domain"
)

// Separator frames every step view block.
const Separator = "============================================"

// paint colors (and optionally bolds) s when the terminal supports styling.
// Piped output stays plain, so redirected step views carry no escape codes.
func paint(s, hex string, bold bool) string {
	p := termenv.ColorProfile()
	if p == termenv.Ascii {
		return s
	}
	styled := termenv.String(s).Foreground(p.Color(hex))
	if bold {
		styled = styled.Bold()
	}
	return styled.String()
}

// RenderConfiguration formats one machine configuration as a three-line
// block: control state, unread input, and the stack drawn bottom to top so
// the top symbol sits at the right edge.
func RenderConfiguration(cfg domain.Configuration) string {
	return fmt.Sprintf(
		"State: %s\nRemaining input: %s\nStack (top at the right): %s\n",
		paint(string(cfg.State), "#818cf8", true),
		domain.JoinSymbols(cfg.Remaining),
		stackRow(cfg.Stack),
	)
}

func stackRow(st domain.Stack) string {
	if st.Empty() {
		return string(domain.Epsilon)
	}
	parts := make([]string, len(st))
	for i, s := range st {
		parts[i] = string(s)
	}
	return strings.Join(parts, " ")
}

// RenderFrontier frames one or more configurations between separators. The
// follow mode feeds it every wave of the search; the interactive mode feeds
// it a single configuration at a time.
func RenderFrontier(cfgs []domain.Configuration) string {
	out := []string{Separator}
	if len(cfgs) == 1 {
		out = append(out, RenderConfiguration(cfgs[0]))
	} else {
		for i, cfg := range cfgs {
			out = append(out, fmt.Sprintf("--- Configuration %d ---", i+1), RenderConfiguration(cfg))
		}
	}
	out = append(out, Separator)
	return strings.Join(out, "\n")
}

// RenderCandidates lists the applicable transitions as a numbered menu with
// a preview of the configuration each choice leads to. Menu numbers are
// one-based; callers translate back when applying.
func RenderCandidates(candidates []domain.Candidate) string {
	if len(candidates) == 0 {
		return "No applicable transitions.\n"
	}
	var sb strings.Builder
	sb.WriteString("Applicable transitions:\n")
	for _, c := range candidates {
		num := paint(fmt.Sprintf("%2d)", c.Index+1), "#a78bfa", false)
		sb.WriteString(fmt.Sprintf("%s %s  =>  %s\n", num, c.Transition, c.Next))
	}
	return sb.String()
}

// RenderVerdict colors the closing verdict line.
func RenderVerdict(v domain.Verdict) string {
	switch v {
	case domain.VerdictAccepted:
		return paint("ACCEPTED ✔", "#22c55e", true)
	case domain.VerdictRejected:
		return paint("REJECTED ✘", "#ef4444", true)
	case domain.VerdictInconclusive:
		return paint("INCONCLUSIVE", "#eab308", true)
	default:
		return v.String()
	}
}
