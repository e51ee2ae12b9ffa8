package engine

import (
	"strings"

	"github.com/menuconf/menuconf/pkg/telemetry"
)

// finalize runs once after parsing: it propagates dependencies down the
// tree, merges node-level properties into their items, derives implicit
// submenus, infers missing types, and builds the reverse-dependency
// adjacency the cache invalidation walks.
func (e *Engine) finalize() error {
	e.finalizeNode(e.root, e.ySym)
	promoteImplicitSubmenus(e.root)
	e.inferTypes()
	e.buildDependents()
	return e.checkReferences()
}

// finalizeNode folds the parent's dependency into each child, applies the
// accumulated visible-if conditions to prompts, and merges staged
// properties. visibleIf is the conjunction of the visible-if conditions of
// every enclosing menu.
func (e *Engine) finalizeNode(node *MenuNode, visibleIf Expr) {
	if node.kind == NodeMenu {
		visibleIf = makeAnd(visibleIf, node.visibleIf)
	}
	for child := node.child; child != nil; child = child.next {
		child.dep = makeAnd(child.dep, node.dep)
		if child.hasPrompt {
			child.promptCond = makeAnd(child.promptCond, makeAnd(child.dep, visibleIf))
		}
		e.mergeNodeProps(child)
		e.finalizeNode(child, visibleIf)
	}
}

// mergeNodeProps copies a node's staged properties into its item, with the
// node's full dependency condition ANDed onto every property condition.
func (e *Engine) mergeNodeProps(node *MenuNode) {
	switch {
	case node.sym != nil:
		sym := node.sym
		sym.directDep = makeOr(sym.directDep, node.dep)

		for _, d := range node.defaults {
			sym.defaults = append(sym.defaults,
				DefaultEntry{Value: d.Value, Cond: makeAnd(d.Cond, node.dep)})
		}
		for _, sel := range node.selects {
			cond := makeAnd(sel.Cond, node.dep)
			sym.selects = append(sym.selects, TargetEntry{Target: sel.Target, Cond: cond})
			sel.Target.revDep = makeOr(sel.Target.revDep, makeAnd(sym, cond))
		}
		for _, imp := range node.implies {
			cond := makeAnd(imp.Cond, node.dep)
			sym.implies = append(sym.implies, TargetEntry{Target: imp.Target, Cond: cond})
			imp.Target.weakRevDep = makeOr(imp.Target.weakRevDep, makeAnd(sym, cond))
		}
		for _, rng := range node.ranges {
			sym.ranges = append(sym.ranges,
				RangeEntry{Low: rng.Low, High: rng.High, Cond: makeAnd(rng.Cond, node.dep)})
		}

		if node.parent.kind == NodeChoice {
			choice := node.parent.choice
			if sym.choice == nil {
				sym.choice = choice
				choice.members = append(choice.members, sym)
			}
		}

	case node.choice != nil:
		c := node.choice
		c.directDep = makeOr(c.directDep, node.dep)
		for _, d := range node.defaults {
			c.defaults = append(c.defaults,
				DefaultEntry{Value: d.Value, Cond: makeAnd(d.Cond, node.dep)})
		}
	}
}

// promoteImplicitSubmenus moves runs of siblings that depend on a preceding
// symbol below that symbol's node. This is display-only nesting: the moved
// nodes keep their already-propagated dependencies.
func promoteImplicitSubmenus(parent *MenuNode) {
	for node := parent.child; node != nil; node = node.next {
		if node.child != nil {
			promoteImplicitSubmenus(node)
		}
		if node.kind != NodeSymbol || node.child != nil {
			continue
		}

		var first, last *MenuNode
		for node.next != nil && exprDependsOn(node.next.dep, node.sym) {
			moved := node.next
			node.next = moved.next
			moved.next = nil
			moved.parent = node
			if first == nil {
				first = moved
			} else {
				last.next = moved
			}
			last = moved
		}
		if first != nil {
			node.child = first
			promoteImplicitSubmenus(node)
		}
	}
}

// inferTypes assigns a type to symbols defined without one, from how they
// are used: the first default's value shape wins, and symbols that are only
// selected or implied are boolean. Choices without a type are bool.
func (e *Engine) inferTypes() {
	for _, sym := range e.definedSyms {
		if sym.symType != UnknownType {
			continue
		}
		sym.symType = e.inferSymType(sym)
	}
	for _, c := range e.choices {
		if c.symType == UnknownType {
			c.symType = BoolType
		}
	}
}

func (e *Engine) inferSymType(sym *Symbol) SymbolType {
	for _, def := range sym.defaults {
		leaf, ok := def.Value.(*Symbol)
		if !ok || !leaf.isConstant {
			// A compound default expression only makes sense in a boolean
			// context.
			return BoolType
		}
		switch {
		case leaf.name == "m":
			return TristateType
		case leaf.isTriConst():
			return BoolType
		case isNumber(leaf.name):
			if strings.HasPrefix(strings.ToLower(strings.TrimPrefix(leaf.name, "-")), "0x") {
				return HexType
			}
			return IntType
		default:
			return StringType
		}
	}
	if !isNConstExpr(sym.revDep) || !isNConstExpr(sym.weakRevDep) {
		return BoolType
	}
	return UnknownType
}

func isNConstExpr(e Expr) bool {
	s, ok := e.(*Symbol)
	return ok && s.isNConst()
}

// buildDependents precomputes the reverse adjacency: for every expression
// an item's value or visibility reads, the leaves gain the item as a
// dependent. recInvalidate walks these edges.
func (e *Engine) buildDependents() {
	added := make(map[invalidator]map[invalidator]bool)
	add := func(leaf Expr, dep invalidator) {
		switch l := leaf.(type) {
		case *Symbol:
			if l.isConstant || l == dep {
				return
			}
			if added[l] == nil {
				added[l] = make(map[invalidator]bool)
			}
			if !added[l][dep] {
				added[l][dep] = true
				l.dependents = append(l.dependents, dep)
			}
		case *Choice:
			if l == dep {
				return
			}
			if added[l] == nil {
				added[l] = make(map[invalidator]bool)
			}
			if !added[l][dep] {
				added[l][dep] = true
				l.dependents = append(l.dependents, dep)
			}
		}
	}
	depend := func(dep invalidator, exprs ...Expr) {
		for _, expr := range exprs {
			if expr == nil {
				continue
			}
			walkExprLeaves(expr, func(leaf Expr) { add(leaf, dep) })
		}
	}

	for _, sym := range e.definedSyms {
		depend(sym, sym.directDep, sym.revDep, sym.weakRevDep)
		for _, d := range sym.defaults {
			depend(sym, d.Value, d.Cond)
		}
		for _, r := range sym.ranges {
			depend(sym, r.Low, r.High, r.Cond)
		}
		for _, node := range sym.nodes {
			if node.hasPrompt {
				depend(sym, node.promptCond)
			}
		}
		// Tristate symbols demote to bool with modules off, so every value
		// read depends on the modules symbol.
		if e.modulesSym != nil && sym != e.modulesSym {
			add(e.modulesSym, sym)
		}
	}

	for _, c := range e.choices {
		depend(c, c.directDep)
		for _, d := range c.defaults {
			depend(c, d.Value, d.Cond)
		}
		for _, node := range c.nodes {
			if node.hasPrompt {
				depend(c, node.promptCond)
			}
		}
		// Mode and selection read member visibility; member values read the
		// mode and selection.
		for _, member := range c.members {
			add(member, c)
			add(c, member)
		}
		if e.modulesSym != nil {
			add(e.modulesSym, c)
		}
	}
}

// checkReferences reports every referenced-but-undefined symbol, fatally in
// strict mode.
func (e *Engine) checkReferences() error {
	undefined := e.UndefinedSyms()
	for _, sym := range undefined {
		e.reporter.Warnf(telemetry.CategoryUndefined,
			"undefined symbol %s referenced in the configuration tree", sym.name)
	}
	if e.strictRef && len(undefined) > 0 {
		names := make([]string, len(undefined))
		for i, sym := range undefined {
			names[i] = sym.name
		}
		return newError(ErrorClassReference,
			"undefined symbols: %s", strings.Join(names, ", "))
	}
	return nil
}
