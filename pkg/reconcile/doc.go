// Package reconcile diffs virtual trees against the previous render and
// patches a live surface in place.
//
// A Renderer owns the link between live nodes and the VNodes they were last
// rendered from. Each Render call extracts the current tree for the root
// (reusing that link when it exists), reconciles it against the new tree and
// applies the smallest set of Surface mutations it can find:
//
//   - a VNode identical to the previous one is skipped entirely
//   - text nodes are rewritten in place
//   - a changed tag or kind rebuilds the subtree
//   - matching elements get their properties merged and children diffed
//
// Children are matched by key when they carry one, by position otherwise.
// Keyed children keep their live node across reorders.
//
// # Errors
//
// Malformed nodes and missing live nodes do not abort a render. The failing
// subtree is left as it was, the error is logged, and Render returns all of
// them joined. Use errors.Is with ErrStructural, ErrMissingLiveNode or
// ErrMissingParent to classify.
//
// # Concurrency
//
// A Renderer is not safe for concurrent use. Calls for the same live tree
// must be serialized by the caller.
package reconcile
