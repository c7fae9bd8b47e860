package analyzer

import (
	"github.com/Gabzxcv/Syntaxy-FL/internal/parser"
)

// scopeTable records which names are bound in each scope.
// The nil key is the module scope; classes do not open a scope.
type scopeTable struct {
	declared map[*parser.Node]map[string]bool
}

func isScope(n *parser.Node) bool {
	return n.Kind == parser.KindFunction || n.Kind == parser.KindLambda
}

func buildScopes(root *parser.Node) *scopeTable {
	st := &scopeTable{declared: make(map[*parser.Node]map[string]bool)}
	if root == nil {
		return st
	}
	root.Walk(func(n *parser.Node) bool {
		if n.Kind == parser.KindIdentifier && n.Declares {
			owner := bindingOwner(n)
			names := st.declared[owner]
			if names == nil {
				names = make(map[string]bool)
				st.declared[owner] = names
			}
			names[n.Text] = true
		}
		return true
	})
	return st
}

// bindingOwner returns the scope a binding identifier belongs to.
// A function's own name binds in the scope around the function.
func bindingOwner(ident *parser.Node) *parser.Node {
	for cur := ident.Parent; cur != nil; cur = cur.Parent {
		if !isScope(cur) {
			continue
		}
		if ident.Parent == cur && ident.Field == "name" {
			continue
		}
		return cur
	}
	return nil
}

// renamable reports whether an identifier refers to a name bound in one of
// its enclosing scopes
func (st *scopeTable) renamable(ident *parser.Node) bool {
	for cur := ident.Parent; cur != nil; cur = cur.Parent {
		if isScope(cur) && st.declared[cur][ident.Text] {
			return true
		}
	}
	return st.declared[nil][ident.Text]
}

// boundIn reports whether name is bound directly in scope
func (st *scopeTable) boundIn(scope *parser.Node, name string) bool {
	return st.declared[scope][name]
}
