package engine

import (
	"os"
	"sort"

	"github.com/menuconf/menuconf/pkg/macro"
	"github.com/menuconf/menuconf/pkg/telemetry"
)

// Engine owns every Symbol, Choice, MenuNode, and Expr built from one
// configuration tree. External collaborators receive read references and
// mutate only through the assignment API.
type Engine struct {
	root *MenuNode

	syms      map[string]*Symbol
	constSyms map[string]*Symbol

	// definedSyms lists unique defined symbols in definition order.
	definedSyms []*Symbol

	choices      []*Choice
	namedChoices map[string]*Choice
	menus        []*MenuNode
	comments     []*MenuNode

	ySym, mSym, nSym *Symbol
	modulesSym       *Symbol
	defconfigList    *Symbol

	pre      *macro.Preprocessor
	reporter *telemetry.Reporter
	logger   *telemetry.Logger
	fsys     FS
	getenv   func(string) (string, bool)
	runner   macro.Runner

	srcTree      string
	configPrefix string
	mainmenuText string
	topFile      string

	// strictRef promotes undefined-reference warnings to fatal errors.
	strictRef bool
	// strictUndefVar makes undefined $(...) references fatal.
	strictUndefVar bool

	missing []Assignment

	// registered holds function registrations to install before parsing.
	registered []registration

	// parse state
	readers []*fileReader
	active  map[string]bool
	pending *lineTokens
}

type registration struct {
	name             string
	minArgs, maxArgs int
	fn               macro.Func
}

// Assignment is one saved-configuration line that named a symbol the engine
// does not know. It is recorded but does not change the live configuration.
type Assignment struct {
	Name  string
	Value string
	File  string
	Line  int
}

// Option configures an Engine before parsing.
type Option func(*Engine)

// WithReporter sets the warnings channel.
func WithReporter(r *telemetry.Reporter) Option {
	return func(e *Engine) { e.reporter = r }
}

// WithLogger sets the structured logger.
func WithLogger(l *telemetry.Logger) Option {
	return func(e *Engine) { e.logger = l.NewComponentLogger("engine") }
}

// WithFS sets the filesystem capability.
func WithFS(fsys FS) Option {
	return func(e *Engine) { e.fsys = fsys }
}

// WithGetenv sets the environment-lookup capability.
func WithGetenv(fn func(string) (string, bool)) Option {
	return func(e *Engine) { e.getenv = fn }
}

// WithRunner sets the command-execution capability used by $(shell,...) and
// the toolchain probes.
func WithRunner(r macro.Runner) Option {
	return func(e *Engine) { e.runner = r }
}

// WithSrcTree sets the directory non-relative source statements resolve
// against. Defaults to the $srctree environment variable, else the current
// directory.
func WithSrcTree(dir string) Option {
	return func(e *Engine) { e.srcTree = dir }
}

// WithConfigPrefix overrides the CONFIG_ prefix used in configuration files
// and generated headers.
func WithConfigPrefix(prefix string) Option {
	return func(e *Engine) { e.configPrefix = prefix }
}

// WithStrictReferences promotes undefined-symbol-reference warnings to
// fatal parse errors.
func WithStrictReferences() Option {
	return func(e *Engine) { e.strictRef = true }
}

// WithStrictUndefinedVars makes expanding an undefined preprocessor
// variable a fatal "referenced before assignment" diagnostic.
func WithStrictUndefinedVars() Option {
	return func(e *Engine) { e.strictUndefVar = true }
}

// WithFunction registers a preprocessor function before parsing begins.
// Host hooks (see pkg/script) register through this.
func WithFunction(name string, minArgs, maxArgs int, fn macro.Func) Option {
	return func(e *Engine) {
		e.registered = append(e.registered, registration{name, minArgs, maxArgs, fn})
	}
}

// Load parses a configuration tree rooted at topFile and returns the
// engine holding it. Structural errors (syntax, inclusion) abort the parse
// and are returned; semantic problems surface on the warnings channel.
func Load(topFile string, opts ...Option) (*Engine, error) {
	e := &Engine{
		syms:         make(map[string]*Symbol),
		constSyms:    make(map[string]*Symbol),
		namedChoices: make(map[string]*Choice),
		active:       make(map[string]bool),
		fsys:         osFS{},
		getenv:       os.LookupEnv,
		topFile:      topFile,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = telemetry.NopLogger()
	}
	if e.srcTree == "" {
		if dir, ok := e.getenv("srctree"); ok {
			e.srcTree = dir
		}
	}
	if e.configPrefix == "" {
		if prefix, ok := e.getenv("CONFIG_"); ok {
			e.configPrefix = prefix
		} else {
			e.configPrefix = "CONFIG_"
		}
	}

	preOpts := []macro.Option{
		macro.WithGetenv(e.getenv),
		macro.WithReporter(e.reporter),
	}
	if e.runner != nil {
		preOpts = append(preOpts, macro.WithRunner(e.runner))
	}
	if e.strictUndefVar {
		preOpts = append(preOpts, macro.WithStrictUndefined())
	}
	e.pre = macro.New(preOpts...)
	for _, reg := range e.registered {
		e.pre.Register(reg.name, reg.minArgs, reg.maxArgs, reg.fn)
	}

	e.nSym = e.newConstSym("n")
	e.mSym = e.newConstSym("m")
	e.ySym = e.newConstSym("y")

	e.root = &MenuNode{
		eng:        e,
		kind:       NodeMenu,
		prompt:     "Main menu",
		promptCond: e.ySym,
		hasPrompt:  true,
		dep:        e.ySym,
		visibleIf:  e.ySym,
		file:       topFile,
	}

	if err := e.parseTop(); err != nil {
		return nil, err
	}
	if err := e.finalize(); err != nil {
		return nil, err
	}
	e.logger.Debugf("parsed %d symbols, %d choices", len(e.definedSyms), len(e.choices))
	return e, nil
}

func (e *Engine) newConstSym(name string) *Symbol {
	s := &Symbol{eng: e, name: name, isConstant: true}
	s.directDep = s
	e.constSyms[name] = s
	return s
}

// lookupSym returns the symbol named name, creating an undefined entry on
// first reference.
func (e *Engine) lookupSym(name string) *Symbol {
	if s, ok := e.syms[name]; ok {
		return s
	}
	s := &Symbol{eng: e, name: name}
	s.revDep = e.nSym
	s.weakRevDep = e.nSym
	s.directDep = e.nSym
	e.syms[name] = s
	return s
}

// lookupConstSym returns the constant symbol for a quoted string or number
// literal.
func (e *Engine) lookupConstSym(name string) *Symbol {
	if s, ok := e.constSyms[name]; ok {
		return s
	}
	s := &Symbol{eng: e, name: name, isConstant: true}
	s.directDep = s
	e.constSyms[name] = s
	return s
}

// Sym returns the symbol with the given name, or nil. Constant symbols are
// not reachable this way.
func (e *Engine) Sym(name string) *Symbol {
	return e.syms[name]
}

// UniqueDefinedSyms returns every defined symbol once, in definition order.
func (e *Engine) UniqueDefinedSyms() []*Symbol {
	return e.definedSyms
}

// UndefinedSyms returns symbols that are referenced somewhere but defined
// nowhere, sorted by name.
func (e *Engine) UndefinedSyms() []*Symbol {
	var out []*Symbol
	for _, s := range e.syms {
		if !s.IsDefined() {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Choices returns every choice in definition order.
func (e *Engine) Choices() []*Choice {
	return e.choices
}

// NamedChoice returns the choice with the given name, or nil.
func (e *Engine) NamedChoice(name string) *Choice {
	return e.namedChoices[name]
}

// Menus returns every explicit menu node in definition order.
func (e *Engine) Menus() []*MenuNode { return e.menus }

// Comments returns every comment node in definition order.
func (e *Engine) Comments() []*MenuNode { return e.comments }

// Root returns the implicit root menu node.
func (e *Engine) Root() *MenuNode { return e.root }

// MainmenuText returns the mainmenu prompt, or a default when the tree
// declares none.
func (e *Engine) MainmenuText() string { return e.root.prompt }

// TopFile returns the path the engine was loaded from.
func (e *Engine) TopFile() string { return e.topFile }

// ConfigPrefix returns the prefix used in configuration files, normally
// "CONFIG_".
func (e *Engine) ConfigPrefix() string { return e.configPrefix }

// MissingSyms returns the assignments to unknown symbols seen by the most
// recent LoadConfig.
func (e *Engine) MissingSyms() []Assignment { return e.missing }

// DefconfigList returns the symbol carrying option defconfig_list, or nil.
func (e *Engine) DefconfigList() *Symbol { return e.defconfigList }

// Preprocessor returns the engine's macro preprocessor, mainly so tools can
// inspect variables after parsing.
func (e *Engine) Preprocessor() *macro.Preprocessor { return e.pre }

// StandardConfigFilename returns the configuration-file name tools default
// to: $KCONFIG_CONFIG, else ".config".
func (e *Engine) StandardConfigFilename() string {
	if name, ok := e.getenv("KCONFIG_CONFIG"); ok && name != "" {
		return name
	}
	return ".config"
}
