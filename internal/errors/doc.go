// Package errors provides structured, reportable errors for vtree.
//
// Reconciliation never aborts a whole render: a failing node is reported as an
// *Error and only its subtree is skipped. Each error carries a registered code
// that maps to a category, a short message and a longer explanation, plus the
// child-index path of the node that failed.
//
// # Error Categories
//
//   - structure: a node violates the TEXT/ELEMENT shape rules
//   - live: an update had no live node to act on
//   - tree: a tree description file could not be decoded
//   - config: vtree.json is invalid
//   - cli: command-line usage errors
//   - transport: mirror server failures
//
// # Usage
//
//	err := errors.New(errors.CodeStructural).
//	    WithPath("0/2").
//	    WithDetail("text node carries children")
//
//	if errors.Is(err, errors.New(errors.CodeStructural)) { ... }
//	fmt.Println(err.Format())
package errors
