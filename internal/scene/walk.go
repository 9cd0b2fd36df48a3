package scene

// Walk visits root and its subtree in document order (parents before
// children, siblings back-to-front). When includeHidden is false,
// invisible nodes are skipped along with their entire subtrees, which
// is what makes default-visibility traversal cheap on documents with
// large hidden branches. The visit function returns false to stop the
// walk; Walk then returns false.
func Walk(root *Node, includeHidden bool, visit func(*Node) bool) bool {
	if root == nil {
		return true
	}
	// Iterative to stay safe on very deep trees.
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !includeHidden && !n.Visible && n != root {
			continue
		}
		if !visit(n) {
			return false
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return true
}

// Descendants collects root's subtree in document order, excluding root
// itself. Hidden subtrees are pruned unless includeHidden is set.
func Descendants(root *Node, includeHidden bool) []*Node {
	var out []*Node
	Walk(root, includeHidden, func(n *Node) bool {
		if n != root {
			out = append(out, n)
		}
		return true
	})
	return out
}
