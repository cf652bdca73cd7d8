package vdom

// If returns the node if condition is true, nil otherwise.
func If(condition bool, node *VNode) *VNode {
	if condition {
		return node
	}
	return nil
}

// IfElse returns the first node if condition is true, the second otherwise.
func IfElse(condition bool, ifTrue, ifFalse *VNode) *VNode {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// When is like If but with lazy evaluation.
func When(condition bool, fn func() *VNode) *VNode {
	if condition {
		return fn()
	}
	return nil
}

// Range maps a slice to VNodes, dropping nil results.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	result := make([]*VNode, 0, len(items))
	for i, item := range items {
		if node := fn(item, i); node != nil {
			result = append(result, node)
		}
	}
	return result
}

// Repeat creates n nodes using the given function.
func Repeat(n int, fn func(i int) *VNode) []*VNode {
	if n <= 0 {
		return nil
	}
	result := make([]*VNode, 0, n)
	for i := 0; i < n; i++ {
		if node := fn(i); node != nil {
			result = append(result, node)
		}
	}
	return result
}

// Walk visits node and its descendants depth-first, pre-order. Returning
// false from fn skips the node's children.
func Walk(node *VNode, fn func(n *VNode) bool) {
	if node == nil {
		return
	}
	if !fn(node) {
		return
	}
	for _, child := range node.Children {
		Walk(child, fn)
	}
}

// Count returns the number of nodes in the tree.
func Count(node *VNode) int {
	n := 0
	Walk(node, func(*VNode) bool {
		n++
		return true
	})
	return n
}

// Clone returns a deep copy of the tree without live references.
func Clone(node *VNode) *VNode {
	if node == nil {
		return nil
	}
	out := &VNode{
		Kind: node.Kind,
		Name: node.Name,
		Key:  node.Key,
	}
	if node.Props != nil {
		out.Props = make(Props, len(node.Props))
		for k, v := range node.Props {
			out.Props[k] = v
		}
	}
	if len(node.Children) > 0 {
		out.Children = make([]*VNode, len(node.Children))
		for i, c := range node.Children {
			out.Children[i] = Clone(c)
		}
	}
	return out
}
