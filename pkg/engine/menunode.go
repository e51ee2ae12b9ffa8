package engine

// NodeKind distinguishes what a menu node represents.
type NodeKind int

const (
	// NodeMenu is an explicit menu, or the implicit root.
	NodeMenu NodeKind = iota

	// NodeSymbol is a config or menuconfig entry.
	NodeSymbol

	// NodeChoice is a choice block.
	NodeChoice

	// NodeComment is a comment entry.
	NodeComment
)

// MenuNode is one entry in the ordered item tree. A symbol defined in
// several places is one Symbol referenced from several nodes; each node
// owns at most one item.
type MenuNode struct {
	eng  *Engine
	kind NodeKind

	// sym and choice reference the item, at most one non-nil. Both are
	// nil for menus, comments, and the root.
	sym    *Symbol
	choice *Choice

	// isMenuconfig marks config entries declared with menuconfig, hinting
	// front-ends to render an explicit submenu.
	isMenuconfig bool

	prompt     string
	promptCond Expr
	hasPrompt  bool

	// dep is the node's dependency condition: its own depends-on clauses,
	// the enclosing if conditions, and after finalization the parents'
	// conditions too.
	dep Expr

	// visibleIf accumulates the menu's visible-if conditions. It limits
	// contained prompts without affecting values.
	visibleIf Expr

	help string

	parent *MenuNode
	next   *MenuNode
	child  *MenuNode

	file string
	line int

	// Properties parsed at this node, merged into the item with the
	// node's condition applied during finalization.
	defaults []DefaultEntry
	selects  []TargetEntry
	implies  []TargetEntry
	ranges   []RangeEntry
}

// Kind returns what the node represents.
func (n *MenuNode) Kind() NodeKind { return n.kind }

// Sym returns the symbol the node declares, or nil.
func (n *MenuNode) Sym() *Symbol { return n.sym }

// Choice returns the choice the node declares, or nil.
func (n *MenuNode) Choice() *Choice { return n.choice }

// IsMenuconfig reports whether the entry was declared with menuconfig.
func (n *MenuNode) IsMenuconfig() bool { return n.isMenuconfig }

// Prompt returns the prompt text, its visibility condition, and whether the
// node has a prompt at all.
func (n *MenuNode) Prompt() (string, Expr, bool) {
	return n.prompt, n.promptCond, n.hasPrompt
}

// Dep returns the node's full dependency condition.
func (n *MenuNode) Dep() Expr { return n.dep }

// Help returns the help text, or "".
func (n *MenuNode) Help() string { return n.help }

// Parent returns the parent node; the root's parent is nil.
func (n *MenuNode) Parent() *MenuNode { return n.parent }

// Next returns the next sibling, or nil.
func (n *MenuNode) Next() *MenuNode { return n.next }

// Child returns the first child, or nil.
func (n *MenuNode) Child() *MenuNode { return n.child }

// Location returns the source file and line the node was declared at.
func (n *MenuNode) Location() (string, int) { return n.file, n.line }

// walkNodes visits every node below root in tree order.
func walkNodes(root *MenuNode, visit func(*MenuNode)) {
	for node := root.child; node != nil; node = node.next {
		visit(node)
		if node.child != nil {
			walkNodes(node, visit)
		}
	}
}

// WalkNodes visits every menu node in declaration order, depth first.
func (e *Engine) WalkNodes(visit func(*MenuNode)) {
	walkNodes(e.root, visit)
}
