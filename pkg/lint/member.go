package lint

import (
	"fmt"

	"github.com/matzehuels/pyfmt/pkg/syntax"
)

// AccessMemberBeforeDefinition reports reads of name.attr that happen
// before the first statement assigning name.attr. The read in
// `x.a = x.a + 1` counts as before the definition, as does the implicit
// read of an augmented assignment.
type AccessMemberBeforeDefinition struct{}

func (AccessMemberBeforeDefinition) Name() string { return "access-member-before-definition" }
func (AccessMemberBeforeDefinition) Code() string { return "PLE0203" }

// Check implements [Rule].
func (AccessMemberBeforeDefinition) Check(mod *syntax.Module, src string) []Diagnostic {
	defined := map[string]int{} // member -> index of the first defining statement
	for i, st := range mod.Body {
		for _, t := range definedTargets(st) {
			if key, ok := memberKey(t); ok {
				if _, seen := defined[key]; !seen {
					defined[key] = i
				}
			}
		}
	}
	if len(defined) == 0 {
		return nil
	}

	var out []Diagnostic
	report := func(i int, a *syntax.Attribute) {
		key, ok := memberKey(a)
		if !ok {
			return
		}
		if def, ok := defined[key]; ok && def >= i {
			line, _ := syntax.LineCol(src, mod.Body[def].Span().Start)
			out = append(out, Diagnostic{
				Message: fmt.Sprintf("Access to member `%s` before its definition line %d", a.Attr, line),
				Span:    a.Span(),
			})
		}
	}
	for i, st := range mod.Body {
		if aug, ok := st.(*syntax.AugAssignStmt); ok {
			if a, ok := aug.Target.(*syntax.Attribute); ok {
				report(i, a)
			}
		}
		for _, e := range reads(st) {
			syntax.Walk(e, func(n syntax.Node) bool {
				if a, ok := n.(*syntax.Attribute); ok {
					report(i, a)
				}
				return true
			})
		}
	}
	return out
}

// definedTargets returns the expressions a statement binds.
func definedTargets(st syntax.Stmt) []syntax.Expr {
	var out []syntax.Expr
	var add func(e syntax.Expr)
	add = func(e syntax.Expr) {
		switch e := e.(type) {
		case *syntax.Tuple:
			for _, x := range e.Elts {
				add(x)
			}
		case *syntax.List:
			for _, x := range e.Elts {
				add(x)
			}
		case *syntax.Starred:
			add(e.Value)
		default:
			out = append(out, e)
		}
	}
	switch st := st.(type) {
	case *syntax.AssignStmt:
		for _, t := range st.Targets {
			add(t)
		}
	case *syntax.AnnAssignStmt:
		if st.Value != nil {
			add(st.Target)
		}
	}
	return out
}

// reads returns the expressions of st that are evaluated for their value.
// For a bound attribute only its object is read.
func reads(st syntax.Stmt) []syntax.Expr {
	var out []syntax.Expr
	targetReads := func(t syntax.Expr) {
		for _, e := range definedTargetsOf(t) {
			switch e := e.(type) {
			case *syntax.Attribute:
				out = append(out, e.Value)
			case *syntax.Subscript:
				out = append(out, e.Value, e.Index)
			}
		}
	}
	switch st := st.(type) {
	case *syntax.AssignStmt:
		out = append(out, st.Value)
		for _, t := range st.Targets {
			targetReads(t)
		}
	case *syntax.AugAssignStmt:
		out = append(out, st.Value)
		targetReads(st.Target)
	case *syntax.AnnAssignStmt:
		if st.Value != nil {
			out = append(out, st.Value)
		}
		out = append(out, st.Annotation)
		targetReads(st.Target)
	case *syntax.ExprStmt:
		out = append(out, st.Value)
	case *syntax.ReturnStmt:
		if st.Value != nil {
			out = append(out, st.Value)
		}
	case *syntax.DelStmt:
		for _, t := range st.Targets {
			targetReads(t)
		}
	}
	return out
}

func definedTargetsOf(t syntax.Expr) []syntax.Expr {
	return definedTargets(&syntax.AssignStmt{Targets: []syntax.Expr{t}})
}

// memberKey returns "name.attr" for an attribute on a plain name.
func memberKey(e syntax.Expr) (string, bool) {
	a, ok := e.(*syntax.Attribute)
	if !ok {
		return "", false
	}
	n, ok := a.Value.(*syntax.Name)
	if !ok {
		return "", false
	}
	return n.ID + "." + a.Attr, true
}

var _ Rule = AccessMemberBeforeDefinition{}
