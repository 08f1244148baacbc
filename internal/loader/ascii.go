package loader

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/espalier/internal/dto"
)

// transitionPattern matches the ASCII transition lines:
//
//	q0 -> q1 [read=a, pop=Z, push=XZ]
var transitionPattern = regexp.MustCompile(`^\s*(\w+)\s*->\s*(\w+)\s*\[([^\]]+)\]`)

// ParseASCII reads the textual mini-language:
//
//	# comments start with #
//	STATES: q0, q1, q2
//	INPUT: a, b
//	STACK: Z, X
//	INITIAL: q0
//	INITIAL_STACK: Z
//	FINAL: q2
//
//	q0 -> q1 [read=a, pop=Z, push=XZ]
//	q1 -> q2 [read=ε, pop=X, push=ε]
//
// Omitted read/pop parameters default to ε. The compact push form pushes
// left to right, so "XZ" leaves Z on top. Errors carry line numbers.
func ParseASCII(data []byte) (*dto.Document, error) {
	doc := &dto.Document{InitialStack: []string{}}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// Trailing comments are allowed after values.
		if idx := strings.Index(line, " #"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}

		switch {
		case strings.Contains(line, "->"):
			trans, err := parseASCIITransition(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			doc.Transitions = append(doc.Transitions, trans)

		case strings.Contains(line, ":"):
			if err := parseASCIIHeader(doc, line); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}

		default:
			return nil, fmt.Errorf("line %d: unrecognized line %q", lineNum, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading definition: %w", err)
	}

	return doc, nil
}

func parseASCIIHeader(doc *dto.Document, line string) error {
	key, value, _ := strings.Cut(line, ":")
	key = strings.ToUpper(strings.TrimSpace(key))

	var values []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}

	switch key {
	case "NAME":
		if len(values) > 0 {
			doc.Name = values[0]
		}
	case "STATES":
		doc.States = values
	case "INPUT":
		doc.InputAlphabet = values
	case "STACK":
		doc.StackAlphabet = values
	case "INITIAL":
		if len(values) > 0 {
			doc.InitialState = values[0]
		}
	case "INITIAL_STACK":
		doc.InitialStack = values
	case "FINAL":
		doc.FinalStates = values
	default:
		return fmt.Errorf("unknown key %q", key)
	}
	return nil
}

func parseASCIITransition(line string) (dto.TransitionDoc, error) {
	match := transitionPattern.FindStringSubmatch(line)
	if match == nil {
		return dto.TransitionDoc{}, fmt.Errorf("malformed transition %q", line)
	}

	trans := dto.TransitionDoc{
		From: match[1],
		To:   match[2],
		Read: "ε",
		Pop:  "ε",
	}

	for _, param := range strings.Split(match[3], ",") {
		key, value, found := strings.Cut(param, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "read":
			trans.Read = value
		case "pop":
			trans.Pop = value
		case "push":
			trans.Push = value // compact form, normalized at build
		}
	}
	return trans, nil
}
