package engine

// Choice is an exactly-one or at-most-one grouping of symbols. The selected
// member is derived from the current mode, user selection, defaults, and
// member visibility; it is never stored independently except as the user
// override.
type Choice struct {
	eng  *Engine
	name string

	symType    SymbolType // bool or tristate
	isOptional bool

	nodes    []*MenuNode
	members  []*Symbol
	defaults []DefaultEntry

	directDep Expr

	// userValue is the user-assigned mode; userSelection the member the
	// user picked while the choice was in y mode.
	userValue     *Tristate
	userSelection *Symbol

	cachedTri Tristate
	triValid  bool
	cachedVis Tristate
	visValid  bool
	cachedSel *Symbol
	selValid  bool

	dependents []invalidator
}

func (c *Choice) exprNode() {}

// String returns the expression spelling of the choice.
func (c *Choice) String() string {
	if c.name != "" {
		return "<choice " + c.name + ">"
	}
	return "<choice>"
}

// Name returns the choice name, or "" for anonymous choices.
func (c *Choice) Name() string { return c.name }

// Type returns the choice type (bool or tristate).
func (c *Choice) Type() SymbolType { return c.symType }

// IsOptional reports at-most-one mode: an optional choice may have no
// member selected.
func (c *Choice) IsOptional() bool { return c.isOptional }

// Members returns the member symbols in declaration order.
func (c *Choice) Members() []*Symbol { return c.members }

// Nodes returns the menu nodes defining the choice.
func (c *Choice) Nodes() []*MenuNode { return c.nodes }

// Defaults returns the declared (member, condition) default pairs.
func (c *Choice) Defaults() []DefaultEntry { return c.defaults }

// DirectDep returns the OR over all defining nodes of their dependency
// conditions.
func (c *Choice) DirectDep() Expr { return c.directDep }

// TriValue returns the current mode: n (disabled), m (members individually
// selectable as modules), or y (exactly one member on).
func (c *Choice) TriValue() Tristate {
	if !c.triValid {
		c.cachedTri = c.calcTri()
		c.triValid = true
	}
	return c.cachedTri
}

func (c *Choice) calcTri() Tristate {
	// Non-optional choices start out in at least m mode.
	val := M
	if c.isOptional {
		val = N
	}
	if c.userValue != nil {
		val = triMax(val, *c.userValue)
	}
	val = triMin(val, c.Visibility())

	// m is promoted to y for bool choices.
	if val == M && c.symType == BoolType {
		val = Y
	}
	return val
}

// Visibility returns the maximum mode the prompts currently permit.
func (c *Choice) Visibility() Tristate {
	if !c.visValid {
		c.cachedVis = promptVisibility(c.nodes, c.symType)
		c.visValid = true
	}
	return c.cachedVis
}

// SetValue assigns the choice mode.
func (c *Choice) SetValue(mode Tristate) bool {
	if mode == M && c.symType == BoolType {
		mode = Y
	}
	v := mode
	c.userValue = &v
	c.recInvalidate()
	return true
}

// Unset removes the user-assigned mode and selection.
func (c *Choice) Unset() {
	if c.userValue == nil && c.userSelection == nil {
		return
	}
	c.userValue = nil
	c.userSelection = nil
	c.recInvalidate()
}

// UserSelection returns the member the user picked, regardless of whether
// it is still visible.
func (c *Choice) UserSelection() *Symbol { return c.userSelection }

// Selection returns the currently selected member: the user selection if
// still visible, else the first default whose condition holds and whose
// member is visible, else the first visible member. It is nil unless the
// choice is in y mode.
func (c *Choice) Selection() *Symbol {
	if !c.selValid {
		c.cachedSel = c.calcSelection()
		c.selValid = true
	}
	return c.cachedSel
}

func (c *Choice) calcSelection() *Symbol {
	if c.TriValue() != Y {
		return nil
	}
	if c.userSelection != nil && c.userSelection.Visibility() == Y {
		return c.userSelection
	}
	for _, def := range c.defaults {
		sym, ok := def.Value.(*Symbol)
		if !ok {
			continue
		}
		if ExprValue(def.Cond) != N && sym.Visibility() != N {
			return sym
		}
	}
	for _, sym := range c.members {
		if sym.Visibility() != N {
			return sym
		}
	}
	return nil
}

// cachesValid reports whether any cached state would need invalidation.
func (c *Choice) cachesValid() bool {
	return c.triValid || c.visValid || c.selValid
}

// invalidate drops the cached mode, visibility, and selection.
func (c *Choice) invalidate() {
	c.triValid = false
	c.visValid = false
	c.selValid = false
}

// recInvalidate invalidates the choice and everything depending on it,
// including every member symbol.
func (c *Choice) recInvalidate() {
	c.invalidate()
	for _, dep := range c.dependents {
		if dep.cachesValid() {
			dep.recInvalidate()
		}
	}
}
