// Package schema provides field-level validation errors and a small type
// system for checking raw definition documents before they are decoded.
//
// Loaders parse files into loosely typed maps; Validate checks such a map
// against a Schema and reports every failure at once, so a user fixing a
// definition sees the whole list instead of one error per run:
//
//	doc := schema.Schema{
//	    "states":      schema.Slice(schema.String()),
//	    "transitions": schema.Optional(schema.Slice(schema.Map())),
//	}
//
//	if err := schema.Validate(doc, data); err != nil {
//	    for _, e := range schema.ValidationErrors(err) { ... }
//	}
//
// The automaton-level checks (membership, alphabet disjointness, dangling
// transition targets) live in internal/validator and reuse the same error
// types, so CLI and HTTP surfaces render both kinds uniformly.
package schema
