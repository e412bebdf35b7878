package syntax

// Children returns the direct child nodes of n in source order.
func Children(n Node) []Node {
	var out []Node
	add := func(es ...Expr) {
		for _, e := range es {
			if e != nil {
				out = append(out, e)
			}
		}
	}
	switch n := n.(type) {
	case *Module:
		for _, s := range n.Body {
			out = append(out, s)
		}
	case *AssignStmt:
		add(n.Targets...)
		add(n.Value)
	case *AugAssignStmt:
		add(n.Target, n.Value)
	case *AnnAssignStmt:
		add(n.Target, n.Annotation, n.Value)
	case *ExprStmt:
		add(n.Value)
	case *ReturnStmt:
		add(n.Value)
	case *DelStmt:
		add(n.Targets...)
	case *Attribute:
		add(n.Value)
	case *Call:
		add(n.Func)
		add(n.Args...)
	case *Keyword:
		add(n.Value)
	case *Subscript:
		add(n.Value, n.Index)
	case *Slice:
		add(n.Lower, n.Upper, n.Step)
	case *Tuple:
		add(n.Elts...)
	case *List:
		add(n.Elts...)
	case *Set:
		add(n.Elts...)
	case *Dict:
		for _, it := range n.Items {
			out = append(out, it)
		}
	case *DictItem:
		add(n.Key, n.Value)
	case *Starred:
		add(n.Value)
	case *UnaryOp:
		add(n.Operand)
	case *BinOp:
		add(n.Left, n.Right)
	}
	return out
}

// Walk traverses the tree rooted at n in depth-first source order. If fn
// returns false the children of that node are skipped.
func Walk(n Node, fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}
