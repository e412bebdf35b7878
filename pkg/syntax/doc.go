// Package syntax is the reference front end of pyfmt: a tokenizer and a
// recursive-descent parser for the subset of Python the formatter lays out.
//
// # Overview
//
// [Parse] turns source text into a [Module] whose statements and expressions
// carry byte spans into the source. Comments are not part of the tree; they
// are returned in source order on [Module.Comments] and placed onto nodes by
// package comments.
//
// # Supported Grammar
//
// A module is a sequence of simple statements, one per logical line:
//
//   - assignment with chained targets: a = b = value
//   - augmented assignment: a += value
//   - annotated assignment: a: int = value
//   - expression statements, return, pass, del
//
// Expressions cover names, numbers, None/True/False/..., string, bytes and
// f-string literals (prefixes, triple quotes, implicit concatenation),
// attribute access, calls with positional, keyword and starred arguments,
// subscripts with slices, tuples, lists, sets, dicts, unary, binary, boolean
// and comparison operators, and parentheses.
//
// Redundant parentheses are not separate nodes: an expression records how
// many pairs enclosed it ([ExprNode.Parenthesized]) and its span excludes
// them. Bracketed sequences record a magic trailing comma.
//
// # Errors
//
// Parse errors are [*errors.ParseError] values wrapped with the
// PARSE_ERROR code and carry a line:column position.
package syntax
