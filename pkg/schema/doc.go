// Package schema compiles declarative schema definitions and validates
// configuration trees against them.
//
// A schema is itself written as a configuration tree (see the document
// package) in which tags select the rule for each position: !string, !text,
// !integer, !decimal, !url and !email declare scalar leaves, !list wraps an
// element schema, !one_of and !any_of declare alternatives, and !optional
// marks a subtree as allowed to be absent. Compile turns such a tree into an
// immutable Node; Validate walks a plain document against it.
//
// The two failure classes are strictly separated. A defect in the schema
// definition (unknown tag, constraint on the wrong type, malformed match
// expression, empty alternative list) is a *Error returned by Compile: no
// partial schema is ever produced. A defect in the document being checked is
// never an error: Validate collects every Violation in the tree and reports
// them together in one Result, so a caller sees all problems in a single
// pass instead of fixing them one re-run at a time.
//
// Match expressions use RE2 syntax and are compiled eagerly by Compile,
// anchored at both ends: the whole value must match, not a substring. Length
// constraints count Unicode code points. Bounds that a schema leaves out are
// nil in the compiled node and unlimited during validation.
//
// Compiled nodes are immutable and safe to share: any number of goroutines
// may validate different documents against the same Node concurrently.
//
// Basic usage, with the schema source produced by a format adapter such as
// yamldoc:
//
//	node, err := schema.Compile(schemaTree)
//	if err != nil {
//		// the schema itself is broken; fix it before validating anything
//	}
//
//	result := schema.Validate(node, configTree)
//	if !result.Valid() {
//		for _, v := range result.Violations {
//			fmt.Println(v)
//		}
//	}
//
// A valid Result carries the normalized document: declared defaults are
// substituted for absent fields, mapping keys follow schema declaration
// order, and the winning alternative of a one_of is recorded as a tag on the
// normalized node.
package schema
