/*
Package dsl provides a fluent builder for constructing automaton definitions
programmatically.

It lets developers assemble machines in type-safe Go instead of external
YAML or JSON files, which is useful for dynamic generation, unit testing,
and IDE autocompletion. States and alphabets are inferred from the
transitions unless declared explicitly.

Example usage:

	b := dsl.New("balanced-parens").
		Start("q0").
		StackStart("Z").
		Final("qf")

	b.From("q0").Read("(").Pop("Z").Push("Z", "P").To("q0")
	b.From("q0").Read("(").Pop("P").Push("P", "P").To("q0")
	b.From("q0").Read(")").Pop("P").To("q0")
	b.From("q0").Pop("Z").Push("Z").To("qf")

	def, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}

	// The definition plugs straight into the engine:
	eng, err := espalier.New("", espalier.WithDefinition(def))
*/
package dsl
