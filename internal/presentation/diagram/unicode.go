package diagram

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/espalier/pkg/domain"
)

const (
	circleHeight = 5
	blockSpacing = 6
	labelRows    = 6
)

var trailingNumber = regexp.MustCompile(`^(\D*)(\d+)$`)

// naturalKey splits a trailing number off a state name so q2 sorts before
// q10.
func naturalKey(s string) (string, int) {
	if m := trailingNumber.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[2])
		if err == nil {
			return m[1], n
		}
	}
	return s, 0
}

func sortedStates(states []domain.State) []domain.State {
	out := make([]domain.State, len(states))
	copy(out, states)
	sort.SliceStable(out, func(i, j int) bool {
		pi, ni := naturalKey(string(out[i]))
		pj, nj := naturalKey(string(out[j]))
		if pi != pj {
			return pi < pj
		}
		return ni < nj
	})
	return out
}

func center(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}

// circleLines draws a state as five rows of box art. Final states get an
// inner ring.
func circleLines(label string, double bool) []string {
	l := utf8.RuneCountInString(label)
	w := l + 6
	if w < 7 {
		w = 7
	}
	inner := w - 4

	dashes := strings.Repeat("-", inner)
	gap := strings.Repeat(" ", inner)
	if !double {
		return []string{
			" ." + dashes + ". ",
			" /" + gap + "\\ ",
			"| " + center(label, inner) + " |",
			" \\" + gap + "/ ",
			" `" + dashes + "' ",
		}
	}

	inner2 := inner - 4
	if inner2 < l {
		inner2 = l
	}
	pad := inner - inner2
	leftPad := strings.Repeat(" ", pad/2)
	rightPad := strings.Repeat(" ", pad-pad/2)
	dashes2 := strings.Repeat("-", inner2)
	return []string{
		" ." + dashes + ". ",
		"/" + leftPad + "." + dashes2 + "." + rightPad + "\\",
		"| (" + center(label, inner2) + ") |",
		"\\" + leftPad + "`" + dashes2 + "'" + rightPad + "/",
		" `" + dashes + "' ",
	}
}

type edgeKey struct {
	from domain.State
	to   domain.State
}

// Unicode draws the whole automaton on a text canvas: one circle per state
// laid out left to right in natural order, straight arrows between circles
// and ↶ markers for self-loops, each edge labeled (read,pop,push).
func Unicode(def *domain.Definition) string {
	states := sortedStates(def.States)

	art := make(map[domain.State][]string, len(states))
	widths := make(map[domain.State]int, len(states))
	for _, s := range states {
		lines := circleLines(string(s), def.IsFinal(s))
		art[s] = lines
		widths[s] = utf8.RuneCountInString(lines[0])
	}

	offsets := make(map[domain.State]int, len(states))
	cursor := 0
	for _, s := range states {
		offsets[s] = cursor
		cursor += widths[s] + blockSpacing
	}
	totalWidth := 0
	if len(states) > 0 {
		totalWidth = cursor - blockSpacing
	}
	if totalWidth < 40 {
		totalWidth = 40
	}

	cv := newCanvas(labelRows+circleHeight+2, totalWidth)
	topRow := labelRows

	for _, s := range states {
		off := offsets[s]
		for r, line := range art[s] {
			for c, ch := range []rune(line) {
				cv.set(topRow+r, off+c, ch)
			}
		}
	}

	type block struct {
		center int
		left   int
		right  int
	}
	blocks := make(map[domain.State]block, len(states))
	for _, s := range states {
		off := offsets[s]
		blocks[s] = block{
			center: off + widths[s]/2,
			left:   off,
			right:  off + widths[s] - 1,
		}
	}
	arrowRow := topRow + 2

	// Group parallel edges so one arrow carries all their labels, keeping
	// declaration order.
	var order []edgeKey
	groups := make(map[edgeKey][]string)
	for _, t := range def.Transitions {
		key := edgeKey{from: t.From, to: t.To}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		label := fmt.Sprintf("(%s,%s,%s)", t.Input, t.Pop, domain.JoinSymbols(t.Push))
		groups[key] = append(groups[key], label)
	}

	// Self-loops first so their labels claim the rows right above the art
	// before the longer arrow labels move in.
	for _, key := range order {
		if key.from != key.to {
			continue
		}
		b, ok := blocks[key.from]
		if !ok {
			continue
		}
		text := "↶" + strings.Join(groups[key], " | ")
		col := b.center - utf8.RuneCountInString(text)/2
		if !cv.placeLabel(topRow-1, col, text, 0) {
			cv.forceString(topRow-1, col, text)
		}
		cv.setIfEmpty(topRow, b.center, '│')
	}

	for _, key := range order {
		if key.from == key.to {
			continue
		}
		from, ok := blocks[key.from]
		if !ok {
			continue
		}
		to, ok := blocks[key.to]
		if !ok {
			continue
		}

		var start, end int
		rightward := true
		switch {
		case from.right+1 <= to.left-1:
			start, end = from.right+1, to.left-1
		case to.right+1 <= from.left-1:
			start, end = to.right+1, from.left-1
			rightward = false
		case from.center < to.center:
			start, end = from.right+1, to.center-1
		default:
			start, end = to.center+1, from.left-1
			rightward = false
		}

		if rightward {
			for c := start; c < end; c++ {
				cv.setIfEmpty(arrowRow, c, '─')
			}
			cv.setIfEmpty(arrowRow, end, '▶')
		} else {
			cv.setIfEmpty(arrowRow, start, '◀')
			for c := start + 1; c <= end; c++ {
				cv.setIfEmpty(arrowRow, c, '─')
			}
		}

		text := strings.Join(groups[key], " | ")
		col := (start+end)/2 - utf8.RuneCountInString(text)/2
		if col < 0 {
			col = 0
		}
		if !cv.placeLabel(topRow-1, col, text, 0) {
			cv.forceString(topRow-3, col, text)
		}
	}

	title := def.Name
	if title == "" {
		title = "automaton"
	}
	finals := make([]string, len(def.FinalStates))
	for i, f := range def.FinalStates {
		finals[i] = string(f)
	}
	sort.Strings(finals)

	names := make([]string, len(states))
	for i, s := range states {
		names[i] = string(s)
	}

	header := []string{
		fmt.Sprintf("== %s ==", title),
		fmt.Sprintf("States (in order): %s", strings.Join(names, ", ")),
		fmt.Sprintf("Initial: %s   Final: %s", def.InitialState, strings.Join(finals, ", ")),
		"",
	}
	return strings.Join(append(header, cv.lines()...), "\n")
}
