package loader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/espalier/internal/dto"
)

// ParseCSV reads the tabular format: #META rows for the automaton header,
// then a from,to,read,pop,push transition table.
//
//	#META,states,q0;q1;q2
//	#META,input_alphabet,a;b
//	#META,stack_alphabet,Z;X
//	#META,initial_state,q0
//	#META,initial_stack,Z
//	#META,final_states,q2
//	from,to,read,pop,push
//	q0,q1,a,Z,XZ
//	q1,q2,ε,X,ε
//
// META values hold multiple symbols separated by semicolons. Push uses the
// compact string form.
func ParseCSV(data []byte) (*dto.Document, error) {
	doc := &dto.Document{InitialStack: []string{}}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headerFound := false
	lineNum := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing csv: %w", err)
		}
		lineNum++

		if len(record) == 0 {
			continue
		}
		first := strings.TrimSpace(record[0])

		if first == "#META" {
			if err := parseCSVMeta(doc, record, lineNum); err != nil {
				return nil, err
			}
			continue
		}
		if first == "" || strings.HasPrefix(first, "#") {
			continue
		}

		if !headerFound {
			if strings.EqualFold(first, "from") {
				headerFound = true
			}
			continue
		}

		if len(record) < 5 {
			return nil, fmt.Errorf("line %d: incomplete transition (want 5 columns, got %d)", lineNum, len(record))
		}
		doc.Transitions = append(doc.Transitions, dto.TransitionDoc{
			From: strings.TrimSpace(record[0]),
			To:   strings.TrimSpace(record[1]),
			Read: strings.TrimSpace(record[2]),
			Pop:  strings.TrimSpace(record[3]),
			Push: strings.TrimSpace(record[4]), // compact form
		})
	}

	return doc, nil
}

func parseCSVMeta(doc *dto.Document, record []string, lineNum int) error {
	if len(record) < 3 {
		return fmt.Errorf("line %d: malformed #META row (want #META,key,values)", lineNum)
	}
	key := strings.TrimSpace(record[1])

	var values []string
	for _, v := range strings.Split(record[2], ";") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}

	switch key {
	case "name":
		if len(values) > 0 {
			doc.Name = values[0]
		}
	case "states":
		doc.States = values
	case "input_alphabet":
		doc.InputAlphabet = values
	case "stack_alphabet":
		doc.StackAlphabet = values
	case "initial_state":
		if len(values) > 0 {
			doc.InitialState = values[0]
		}
	case "initial_stack":
		doc.InitialStack = values
	case "final_states":
		doc.FinalStates = values
	}
	return nil
}
