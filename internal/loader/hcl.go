package loader

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/aretw0/espalier/internal/dto"
)

// hclRoot decodes the top-level blocks of a definition file.
type hclRoot struct {
	Automata    []hclAutomaton  `hcl:"automaton,block"`
	Transitions []hclTransition `hcl:"transition,block"`
}

type hclAutomaton struct {
	Name          string   `hcl:"name,label"`
	Description   string   `hcl:"description,optional"`
	States        []string `hcl:"states"`
	InputAlphabet []string `hcl:"input_alphabet"`
	StackAlphabet []string `hcl:"stack_alphabet"`
	InitialState  string   `hcl:"initial_state"`
	InitialStack  string   `hcl:"initial_stack"`
	FinalStates   []string `hcl:"final_states,optional"`
}

type hclTransition struct {
	From string   `hcl:"from,label"`
	To   string   `hcl:"to,label"`
	Read string   `hcl:"read,optional"`
	Pop  string   `hcl:"pop,optional"`
	Push []string `hcl:"push,optional"`
}

// hclEvalContext exposes the control symbols as named values, so rules can
// say `read = epsilon` instead of quoting the glyph.
var hclEvalContext = &hcl.EvalContext{
	Variables: map[string]cty.Value{
		"epsilon": cty.StringVal("ε"),
		"end":     cty.StringVal("?"),
	},
}

// ParseHCL reads the HCL format: one automaton block plus transition blocks
// in declaration order.
//
//	automaton "parens" {
//	  states         = ["q0"]
//	  input_alphabet = ["(", ")"]
//	  stack_alphabet = ["Z", "P"]
//	  initial_state  = "q0"
//	  initial_stack  = "Z"
//	}
//
//	transition "q0" "q0" {
//	  read = "("
//	  pop  = "Z"
//	  push = ["Z", "P"]
//	}
//
//	transition "q0" "q0" {
//	  read = epsilon
//	  pop  = "Z"
//	}
func ParseHCL(data []byte) (*dto.Document, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, "definition.hcl")
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing hcl: %w", diags)
	}

	var root hclRoot
	if diags := gohcl.DecodeBody(file.Body, hclEvalContext, &root); diags.HasErrors() {
		return nil, fmt.Errorf("decoding hcl: %w", diags)
	}

	if len(root.Automata) != 1 {
		return nil, fmt.Errorf("want exactly one automaton block, got %d", len(root.Automata))
	}
	a := root.Automata[0]

	doc := &dto.Document{
		Name:          a.Name,
		Description:   a.Description,
		States:        a.States,
		InputAlphabet: a.InputAlphabet,
		StackAlphabet: a.StackAlphabet,
		InitialState:  a.InitialState,
		InitialStack:  a.InitialStack,
		FinalStates:   a.FinalStates,
	}
	for _, t := range root.Transitions {
		doc.Transitions = append(doc.Transitions, dto.TransitionDoc{
			From: t.From,
			To:   t.To,
			Read: t.Read,
			Pop:  t.Pop,
			Push: t.Push,
		})
	}
	return doc, nil
}
