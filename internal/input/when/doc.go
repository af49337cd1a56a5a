// Package when implements the context expression language used to guard
// key bindings.
//
// A when clause is parsed once, when bindings are merged, into an
// immutable Expr tree and then evaluated against a Snapshot on every
// keystroke. Parsing is the only fallible step: Evaluate is total and never
// panics or returns an error, so the per-keystroke path stays error-free.
//
// # Grammar
//
// From loosest to tightest binding:
//
//	or      := and ( "||" and )*
//	and     := cmp ( "&&" cmp )*
//	cmp     := unary ( ("==" | "!=") unary )?
//	unary   := "!" unary | primary
//	primary := IDENT | STRING | NUMBER | "true" | "false" | "(" or ")"
//
// Identifiers may contain dots ("config.editor.tabSize") and name a single
// context key. Strings are quoted with single or double quotes. Comparison
// operands must be identifiers or literals, and at least one side must be
// an identifier.
//
// # Evaluation
//
//	editorTextFocus                  true when the key holds a truthy value
//	!editorReadonly                  negation
//	resourceLangId == 'go'           string comparison
//	config.editor.tabSize == 4       numeric when both sides are numbers
//	inDiffEditor && !isMerge || x    && binds tighter than ||
//
// A key missing from the snapshot is false in boolean position and the
// empty string in a comparison. Booleans compare as "true"/"false".
package when
