package engine

import (
	"github.com/menuconf/menuconf/pkg/telemetry"
)

// StaticChecks reports tree-level problems that are legal but almost
// certainly mistakes: prompt-less symbols that nothing references (a
// symbol without a prompt exists only to be referenced), and prompt-less
// bool/tristate symbols that can never leave n. Both go to the warnings
// channel.
func (e *Engine) StaticChecks() {
	referenced := make(map[*Symbol]bool)
	collect := func(exprs ...Expr) {
		for _, expr := range exprs {
			if expr == nil {
				continue
			}
			walkExprLeaves(expr, func(leaf Expr) {
				if sym, ok := leaf.(*Symbol); ok && !sym.isConstant {
					referenced[sym] = true
				}
			})
		}
	}

	for _, sym := range e.definedSyms {
		collect(sym.directDep)
		for _, d := range sym.defaults {
			collect(d.Value, d.Cond)
		}
		for _, sel := range sym.selects {
			referenced[sel.Target] = true
			collect(sel.Cond)
		}
		for _, imp := range sym.implies {
			referenced[imp.Target] = true
			collect(imp.Cond)
		}
		for _, r := range sym.ranges {
			collect(r.Low, r.High, r.Cond)
		}
		for _, node := range sym.nodes {
			collect(node.promptCond)
		}
	}
	for _, c := range e.choices {
		collect(c.directDep)
		for _, d := range c.defaults {
			collect(d.Value, d.Cond)
		}
		for _, node := range c.nodes {
			collect(node.promptCond)
		}
	}

	for _, sym := range e.definedSyms {
		if sym == e.modulesSym || sym == e.defconfigList || sym.envVar != "" || sym.choice != nil {
			continue
		}
		hasPrompt := false
		for _, node := range sym.nodes {
			if node.hasPrompt {
				hasPrompt = true
			}
		}
		if hasPrompt {
			continue
		}

		if !referenced[sym] && len(sym.defaults) == 0 &&
			isNConstExpr(sym.revDep) && isNConstExpr(sym.weakRevDep) {
			e.reporter.Warnf(telemetry.CategoryGeneral,
				"%s has no prompt and nothing references it", sym.name)
			continue
		}

		if t := sym.symType; t != BoolType && t != TristateType {
			continue
		}
		if len(sym.defaults) == 0 && isNConstExpr(sym.revDep) && isNConstExpr(sym.weakRevDep) {
			e.reporter.Warnf(telemetry.CategoryGeneral,
				"%s has no prompt, no default, and is never selected or implied; it can only be n", sym.name)
		}
	}
}
