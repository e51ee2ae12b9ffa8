package engine

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/menuconf/menuconf/pkg/macro"
	"github.com/menuconf/menuconf/pkg/telemetry"
)

// This file turns source text into the menu-node tree. Each statement line
// goes through three stages: the preprocessor's assignment check (variable
// assignments never reach the lexer), full macro expansion, and
// tokenization. Block statements recurse; sourced files splice their
// content into the enclosing block.

// fileReader reads the physical lines of one source file. Logical lines
// join trailing-backslash continuations; help bodies bypass the joining and
// read physical lines.
type fileReader struct {
	path  string
	lines []string
	idx   int
}

// next returns the next logical line with continuations joined.
func (r *fileReader) next() (string, int, bool) {
	if r.idx >= len(r.lines) {
		return "", 0, false
	}
	lineno := r.idx + 1
	line := r.lines[r.idx]
	r.idx++
	for strings.HasSuffix(line, "\\") && r.idx < len(r.lines) {
		line = line[:len(line)-1] + r.lines[r.idx]
		r.idx++
	}
	return line, lineno, true
}

// rawNext returns the next physical line, without continuation joining.
func (r *fileReader) rawNext() (string, bool) {
	if r.idx >= len(r.lines) {
		return "", false
	}
	line := r.lines[r.idx]
	r.idx++
	return line, true
}

// unread steps back one physical line.
func (r *fileReader) unread() {
	if r.idx > 0 {
		r.idx--
	}
}

// lineTokens is one tokenized statement line with its source location.
type lineTokens struct {
	toks []token
	i    int
	file string
	line int
}

func (lt *lineTokens) next() token {
	if lt.i < len(lt.toks) {
		t := lt.toks[lt.i]
		lt.i++
		return t
	}
	return token{kind: tEOL}
}

func (lt *lineTokens) peek() tokenKind {
	if lt.i < len(lt.toks) {
		return lt.toks[lt.i].kind
	}
	return tEOL
}

func (lt *lineTokens) errf(format string, args ...interface{}) error {
	return newError(ErrorClassSyntax, format, args...).At(lt.file, lt.line)
}

func (lt *lineTokens) expectEOL() error {
	if lt.peek() != tEOL {
		return lt.errf("extra tokens at end of line")
	}
	return nil
}

// parseTop parses the top file into the root node's children.
func (e *Engine) parseTop() error {
	_, err := e.parseFile(e.topFile, e.root, e.root, e.ySym)
	return err
}

// parseFile pushes a reader for path and parses its statements into the
// current block. prev is the last node of the block so far; the updated
// value is returned so sourcing splices in place.
func (e *Engine) parseFile(path string, parent, prev *MenuNode, dep Expr) (*MenuNode, error) {
	key := filepath.Clean(path)
	if e.active[key] {
		return nil, newError(ErrorClassInclusion, "recursive inclusion of %q", path)
	}

	data, err := e.fsys.ReadFile(path)
	if err != nil {
		return nil, wrapError(ErrorClassIO, err, "could not read %q", path)
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")

	r := &fileReader{path: path, lines: strings.Split(text, "\n")}
	e.active[key] = true
	e.readers = append(e.readers, r)
	defer func() {
		e.readers = e.readers[:len(e.readers)-1]
		delete(e.active, key)
	}()

	return e.parseBlock(r, tEOL, parent, prev, dep)
}

// nextLine returns the next tokenized statement line from r, applying
// preprocessor assignments and macro expansion on the way. It returns nil
// at end of file.
func (e *Engine) nextLine(r *fileReader) (*lineTokens, error) {
	if lt := e.pending; lt != nil {
		e.pending = nil
		return lt, nil
	}
	for {
		line, lineno, ok := r.next()
		if !ok {
			return nil, nil
		}
		loc := macro.Location{File: r.path, Line: lineno}

		handled, err := e.pre.ParseAssignment(line, loc)
		if err != nil {
			return nil, wrapError(ErrorClassSyntax, err, "preprocessor assignment failed").At(r.path, lineno)
		}
		if handled {
			continue
		}

		expanded, err := e.pre.Expand(line, loc)
		if err != nil {
			return nil, wrapError(ErrorClassSyntax, err, "macro expansion failed").At(r.path, lineno)
		}

		toks, err := tokenize(expanded)
		if err != nil {
			var cerr *ConfigError
			if ce, ok := err.(*ConfigError); ok {
				cerr = ce
			} else {
				cerr = wrapError(ErrorClassSyntax, err, "tokenization failed")
			}
			return nil, cerr.At(r.path, lineno)
		}
		if len(toks) == 0 {
			continue
		}
		return &lineTokens{toks: toks, file: r.path, line: lineno}, nil
	}
}

// unget stores lt so the next nextLine call returns it again.
func (e *Engine) unget(lt *lineTokens) {
	lt.i = 0
	e.pending = lt
}

// parseBlock parses statements until endTok (tEOL means until end of file),
// appending nodes after prev under parent. dep is the conjunction of the
// enclosing if conditions.
func (e *Engine) parseBlock(r *fileReader, endTok tokenKind, parent, prev *MenuNode, dep Expr) (*MenuNode, error) {
	link := func(node *MenuNode) {
		node.parent = parent
		if prev == parent {
			parent.child = node
		} else {
			prev.next = node
		}
		prev = node
	}

	for {
		lt, err := e.nextLine(r)
		if err != nil {
			return nil, err
		}
		if lt == nil {
			if endTok != tEOL {
				return nil, newError(ErrorClassSyntax,
					"unexpected end of file within a block started at %s:%d",
					parent.file, parent.line).At(r.path, r.idx)
			}
			return prev, nil
		}

		t := lt.next()
		switch t.kind {
		case tConfig, tMenuconfig:
			nameTok := lt.next()
			if nameTok.kind != tWord || isNumber(nameTok.text) {
				return nil, lt.errf("expected a symbol name after %s", t.text)
			}
			if err := lt.expectEOL(); err != nil {
				return nil, err
			}
			sym := e.defineSym(nameTok.text)
			node := &MenuNode{
				eng:          e,
				kind:         NodeSymbol,
				sym:          sym,
				isMenuconfig: t.kind == tMenuconfig,
				promptCond:   e.ySym,
				dep:          dep,
				visibleIf:    e.ySym,
				file:         lt.file,
				line:         lt.line,
			}
			sym.nodes = append(sym.nodes, node)
			if err := e.parseProps(r, node); err != nil {
				return nil, err
			}
			link(node)

		case tChoice:
			var name string
			if lt.peek() == tWord {
				name = lt.next().text
			}
			if err := lt.expectEOL(); err != nil {
				return nil, err
			}
			choice := e.defineChoice(name)
			node := &MenuNode{
				eng:        e,
				kind:       NodeChoice,
				choice:     choice,
				promptCond: e.ySym,
				dep:        dep,
				visibleIf:  e.ySym,
				file:       lt.file,
				line:       lt.line,
			}
			choice.nodes = append(choice.nodes, node)
			if err := e.parseProps(r, node); err != nil {
				return nil, err
			}
			if _, err := e.parseBlock(r, tEndchoice, node, node, e.ySym); err != nil {
				return nil, err
			}
			link(node)

		case tMenu:
			prompt := lt.next()
			if prompt.kind != tString {
				return nil, lt.errf("expected a quoted prompt after menu")
			}
			if err := lt.expectEOL(); err != nil {
				return nil, err
			}
			node := &MenuNode{
				eng:        e,
				kind:       NodeMenu,
				prompt:     prompt.text,
				promptCond: e.ySym,
				hasPrompt:  true,
				dep:        dep,
				visibleIf:  e.ySym,
				file:       lt.file,
				line:       lt.line,
			}
			if err := e.parseProps(r, node); err != nil {
				return nil, err
			}
			if _, err := e.parseBlock(r, tEndmenu, node, node, e.ySym); err != nil {
				return nil, err
			}
			e.menus = append(e.menus, node)
			link(node)

		case tComment:
			prompt := lt.next()
			if prompt.kind != tString {
				return nil, lt.errf("expected a quoted prompt after comment")
			}
			if err := lt.expectEOL(); err != nil {
				return nil, err
			}
			node := &MenuNode{
				eng:        e,
				kind:       NodeComment,
				prompt:     prompt.text,
				promptCond: e.ySym,
				hasPrompt:  true,
				dep:        dep,
				visibleIf:  e.ySym,
				file:       lt.file,
				line:       lt.line,
			}
			if err := e.parseProps(r, node); err != nil {
				return nil, err
			}
			e.comments = append(e.comments, node)
			link(node)

		case tIf:
			cond, err := e.parseExpr(lt)
			if err != nil {
				return nil, err
			}
			if err := lt.expectEOL(); err != nil {
				return nil, err
			}
			prev, err = e.parseBlock(r, tEndif, parent, prev, makeAnd(dep, cond))
			if err != nil {
				return nil, err
			}

		case tSource, tRsource, tOsource, tOrsource:
			prev, err = e.parseSource(r, lt, t.kind, parent, prev, dep)
			if err != nil {
				return nil, err
			}

		case tMainmenu:
			prompt := lt.next()
			if prompt.kind != tString {
				return nil, lt.errf("expected a quoted prompt after mainmenu")
			}
			if err := lt.expectEOL(); err != nil {
				return nil, err
			}
			e.root.prompt = prompt.text
			e.mainmenuText = prompt.text

		case tEndchoice, tEndmenu, tEndif:
			if t.kind != endTok {
				return nil, lt.errf("unexpected %s", t.text)
			}
			if err := lt.expectEOL(); err != nil {
				return nil, err
			}
			return prev, nil

		default:
			return nil, lt.errf("unexpected token %q at start of statement", t.text)
		}
	}
}

// parseSource resolves a source statement's pattern and splices every match
// into the current block, in sorted order.
func (e *Engine) parseSource(r *fileReader, lt *lineTokens, kind tokenKind, parent, prev *MenuNode, dep Expr) (*MenuNode, error) {
	arg := lt.next()
	if arg.kind != tString && arg.kind != tWord {
		return nil, lt.errf("expected a file pattern after source")
	}
	if err := lt.expectEOL(); err != nil {
		return nil, err
	}

	pattern := arg.text
	relative := kind == tRsource || kind == tOrsource
	optional := kind == tOsource || kind == tOrsource

	if relative {
		pattern = filepath.Join(filepath.Dir(r.path), pattern)
	} else if !filepath.IsAbs(pattern) && e.srcTree != "" {
		pattern = filepath.Join(e.srcTree, pattern)
	}

	matches, err := e.fsys.Glob(pattern)
	if err != nil {
		return nil, wrapError(ErrorClassInclusion, err, "bad source pattern %q", arg.text).At(lt.file, lt.line)
	}
	if len(matches) == 0 {
		if optional {
			return prev, nil
		}
		return nil, newError(ErrorClassInclusion,
			"%q does not match any file (no intent to include it optionally was expressed)",
			arg.text).At(lt.file, lt.line)
	}
	sort.Strings(matches)

	for _, match := range matches {
		prev, err = e.parseFile(match, parent, prev, dep)
		if err != nil {
			return nil, err
		}
	}
	return prev, nil
}

// defineSym returns the symbol for a definition site, registering it among
// the defined symbols the first time.
func (e *Engine) defineSym(name string) *Symbol {
	sym := e.lookupSym(name)
	if len(sym.nodes) == 0 {
		e.definedSyms = append(e.definedSyms, sym)
	}
	return sym
}

// defineChoice returns the choice for a definition site. Named choices with
// the same name share one Choice across all their blocks.
func (e *Engine) defineChoice(name string) *Choice {
	if name != "" {
		if c, ok := e.namedChoices[name]; ok {
			return c
		}
	}
	c := &Choice{eng: e, name: name, directDep: e.nSym}
	e.choices = append(e.choices, c)
	if name != "" {
		e.namedChoices[name] = c
	}
	return c
}

// parseProps consumes the property lines following a config, menuconfig,
// choice, menu, or comment statement, staging them on the node. The first
// non-property line is pushed back for the enclosing block.
func (e *Engine) parseProps(r *fileReader, node *MenuNode) error {
	for {
		lt, err := e.nextLine(r)
		if err != nil {
			return err
		}
		if lt == nil {
			return nil
		}

		t := lt.next()
		switch t.kind {
		case tBool, tTristate, tStringKw, tInt, tHex:
			if err := e.setNodeType(lt, node, typeForToken(t.kind)); err != nil {
				return err
			}
			if lt.peek() == tString {
				if err := e.parsePrompt(lt, node); err != nil {
					return err
				}
			}
			if err := lt.expectEOL(); err != nil {
				return err
			}

		case tDefBool, tDefTristate, tDefInt, tDefHex, tDefString:
			if err := e.setNodeType(lt, node, typeForToken(t.kind)); err != nil {
				return err
			}
			if err := e.parseDefault(lt, node); err != nil {
				return err
			}

		case tPrompt:
			if err := e.parsePrompt(lt, node); err != nil {
				return err
			}
			if err := lt.expectEOL(); err != nil {
				return err
			}

		case tDefault:
			if err := e.parseDefault(lt, node); err != nil {
				return err
			}

		case tDepends:
			if lt.next().kind != tOn {
				return lt.errf("expected on after depends")
			}
			expr, err := e.parseExpr(lt)
			if err != nil {
				return err
			}
			if err := lt.expectEOL(); err != nil {
				return err
			}
			node.dep = makeAnd(node.dep, expr)

		case tSelect, tImply:
			if node.sym == nil {
				return lt.errf("%s is only valid on a symbol", t.text)
			}
			target := lt.next()
			if target.kind != tWord || isNumber(target.text) {
				return lt.errf("expected a symbol name after %s", t.text)
			}
			cond, err := e.parseOptionalIf(lt)
			if err != nil {
				return err
			}
			entry := TargetEntry{Target: e.lookupSym(target.text), Cond: cond}
			if t.kind == tSelect {
				node.selects = append(node.selects, entry)
			} else {
				node.implies = append(node.implies, entry)
			}

		case tRange:
			if node.sym == nil {
				return lt.errf("range is only valid on a symbol")
			}
			low, err := e.parseLeafSym(lt)
			if err != nil {
				return err
			}
			high, err := e.parseLeafSym(lt)
			if err != nil {
				return err
			}
			cond, err := e.parseOptionalIf(lt)
			if err != nil {
				return err
			}
			node.ranges = append(node.ranges, RangeEntry{Low: low, High: high, Cond: cond})

		case tOption:
			if err := e.parseOption(lt, node); err != nil {
				return err
			}

		case tVisible:
			if lt.next().kind != tIf {
				return lt.errf("expected if after visible")
			}
			expr, err := e.parseExpr(lt)
			if err != nil {
				return err
			}
			if err := lt.expectEOL(); err != nil {
				return err
			}
			if node.kind != NodeMenu {
				return lt.errf("visible if is only valid on a menu")
			}
			node.visibleIf = makeAnd(node.visibleIf, expr)

		case tOptional:
			if node.choice == nil {
				return lt.errf("optional is only valid on a choice")
			}
			if err := lt.expectEOL(); err != nil {
				return err
			}
			node.choice.isOptional = true

		case tHelp:
			if err := lt.expectEOL(); err != nil {
				return err
			}
			e.parseHelp(r, node)

		default:
			e.unget(lt)
			return nil
		}
	}
}

// typeForToken maps a type or def_ keyword to the symbol type it declares.
func typeForToken(kind tokenKind) SymbolType {
	switch kind {
	case tBool, tDefBool:
		return BoolType
	case tTristate, tDefTristate:
		return TristateType
	case tInt, tDefInt:
		return IntType
	case tHex, tDefHex:
		return HexType
	default:
		return StringType
	}
}

// setNodeType records a type declaration on the node's item, warning on
// conflicting redeclarations.
func (e *Engine) setNodeType(lt *lineTokens, node *MenuNode, typ SymbolType) error {
	switch {
	case node.sym != nil:
		if node.sym.symType != UnknownType && node.sym.symType != typ {
			e.reporter.WarnAt(telemetry.CategoryGeneral, lt.file, lt.line,
				"%s defined with multiple types, %s will be used", node.sym.name, typ)
		}
		node.sym.symType = typ
	case node.choice != nil:
		if typ != BoolType && typ != TristateType {
			return lt.errf("invalid type %s for a choice", typ)
		}
		if node.choice.symType != UnknownType && node.choice.symType != typ {
			e.reporter.WarnAt(telemetry.CategoryGeneral, lt.file, lt.line,
				"choice defined with multiple types, %s will be used", typ)
		}
		node.choice.symType = typ
	default:
		return lt.errf("a type is not valid here")
	}
	return nil
}

// parsePrompt reads a quoted prompt plus its optional condition.
func (e *Engine) parsePrompt(lt *lineTokens, node *MenuNode) error {
	prompt := lt.next()
	if prompt.kind != tString {
		return lt.errf("expected a quoted prompt")
	}
	if node.hasPrompt {
		e.reporter.WarnAt(telemetry.CategoryGeneral, lt.file, lt.line,
			"%s defined with multiple prompts in a single location", node.itemName())
	}
	cond, err := e.parseOptionalIf(lt)
	if err != nil {
		return err
	}
	node.prompt = prompt.text
	node.promptCond = cond
	node.hasPrompt = true
	return nil
}

// parseDefault reads a default's value expression and optional condition.
func (e *Engine) parseDefault(lt *lineTokens, node *MenuNode) error {
	value, err := e.parseExpr(lt)
	if err != nil {
		return err
	}
	cond, err := e.parseOptionalIf(lt)
	if err != nil {
		return err
	}
	node.defaults = append(node.defaults, DefaultEntry{Value: value, Cond: cond})
	return nil
}

// parseOption handles the option property: env, modules, defconfig_list,
// and allnoconfig_y.
func (e *Engine) parseOption(lt *lineTokens, node *MenuNode) error {
	if node.sym == nil {
		return lt.errf("option is only valid on a symbol")
	}
	sym := node.sym
	name := lt.next()
	if name.kind != tWord {
		return lt.errf("expected an option name")
	}

	switch name.text {
	case "env":
		if lt.next().kind != tEq {
			return lt.errf("expected = after option env")
		}
		val := lt.next()
		if val.kind != tString {
			return lt.errf("expected a quoted environment variable name")
		}
		sym.envVar = val.text
		if sym.name != val.text {
			e.reporter.WarnAt(telemetry.CategoryGeneral, lt.file, lt.line,
				"%s has option env=%q, which is redundant; the symbol name and the "+
					"environment variable name are expected to match", sym.name, val.text)
		}
		if env, ok := e.getenv(val.text); ok {
			node.defaults = append(node.defaults,
				DefaultEntry{Value: e.lookupConstSym(env), Cond: e.ySym})
		} else {
			e.reporter.WarnAt(telemetry.CategoryGeneral, lt.file, lt.line,
				"%s has option env=%q, but the environment variable %s is not set",
				sym.name, val.text, val.text)
		}

	case "modules":
		e.modulesSym = sym

	case "defconfig_list":
		if e.defconfigList == nil {
			e.defconfigList = sym
		} else if e.defconfigList != sym {
			e.reporter.WarnAt(telemetry.CategoryGeneral, lt.file, lt.line,
				"option defconfig_list set on multiple symbols (%s and %s); only the first is used",
				e.defconfigList.name, sym.name)
		}

	case "allnoconfig_y":
		sym.isAllnoconfigY = true

	default:
		return lt.errf("unrecognized option %q", name.text)
	}
	return lt.expectEOL()
}

// parseHelp reads the indented help body following a help line. The first
// non-blank line fixes the base indentation; the first line indented less
// ends the body.
func (e *Engine) parseHelp(r *fileReader, node *MenuNode) {
	// Skip blank lines before the body.
	var first string
	var ok bool
	for {
		first, ok = r.rawNext()
		if !ok {
			e.reporter.WarnAt(telemetry.CategoryGeneral, r.path, r.idx,
				"%s has a help block with no text", node.itemName())
			return
		}
		if strings.TrimSpace(first) != "" {
			break
		}
	}

	indent := helpIndent(first)
	if indent == 0 {
		r.unread()
		e.reporter.WarnAt(telemetry.CategoryGeneral, r.path, r.idx,
			"%s has a help block with no text", node.itemName())
		return
	}

	var lines []string
	lines = append(lines, expandTabs(first)[indent:])
	for {
		line, ok := r.rawNext()
		if !ok {
			break
		}
		if strings.TrimSpace(line) == "" {
			lines = append(lines, "")
			continue
		}
		if helpIndent(line) < indent {
			r.unread()
			break
		}
		lines = append(lines, expandTabs(line)[indent:])
	}

	node.help = strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n"
}

// helpIndent returns the leading-whitespace width of a line, with tabs
// advancing to the next multiple of eight.
func helpIndent(line string) int {
	n := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			n++
		case '\t':
			n = 8 * (n/8 + 1)
		default:
			return n
		}
	}
	return n
}

// expandTabs converts tabs to spaces with a tab stop of eight, so that help
// bodies mixing tabs and spaces dedent consistently.
func expandTabs(line string) string {
	if !strings.Contains(line, "\t") {
		return line
	}
	var b strings.Builder
	for i := 0; i < len(line); i++ {
		if line[i] == '\t' {
			b.WriteByte(' ')
			for b.Len()%8 != 0 {
				b.WriteByte(' ')
			}
		} else {
			b.WriteByte(line[i])
		}
	}
	return b.String()
}

// itemName names the node's item for diagnostics.
func (n *MenuNode) itemName() string {
	switch {
	case n.sym != nil:
		return n.sym.name
	case n.choice != nil:
		return n.choice.String()
	case n.kind == NodeMenu:
		return "menu " + n.prompt
	default:
		return "comment " + n.prompt
	}
}

// parseOptionalIf reads a trailing "if expr", returning y when absent.
func (e *Engine) parseOptionalIf(lt *lineTokens) (Expr, error) {
	if lt.peek() != tIf {
		if err := lt.expectEOL(); err != nil {
			return nil, err
		}
		return e.ySym, nil
	}
	lt.next()
	expr, err := e.parseExpr(lt)
	if err != nil {
		return nil, err
	}
	if err := lt.expectEOL(); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseExpr parses a full expression: || binds loosest, then &&, then !,
// then the relational operators on leaves.
func (e *Engine) parseExpr(lt *lineTokens) (Expr, error) {
	left, err := e.parseAnd(lt)
	if err != nil {
		return nil, err
	}
	for lt.peek() == tOrOr {
		lt.next()
		right, err := e.parseAnd(lt)
		if err != nil {
			return nil, err
		}
		left = &OrExpr{Left: left, Right: right}
	}
	return left, nil
}

func (e *Engine) parseAnd(lt *lineTokens) (Expr, error) {
	left, err := e.parseFactor(lt)
	if err != nil {
		return nil, err
	}
	for lt.peek() == tAndAnd {
		lt.next()
		right, err := e.parseFactor(lt)
		if err != nil {
			return nil, err
		}
		left = &AndExpr{Left: left, Right: right}
	}
	return left, nil
}

func (e *Engine) parseFactor(lt *lineTokens) (Expr, error) {
	switch lt.peek() {
	case tNot:
		lt.next()
		operand, err := e.parseFactor(lt)
		if err != nil {
			return nil, err
		}
		return &NotExpr{Operand: operand}, nil

	case tLParen:
		lt.next()
		expr, err := e.parseExpr(lt)
		if err != nil {
			return nil, err
		}
		if lt.next().kind != tRParen {
			return nil, lt.errf("missing closing parenthesis in expression")
		}
		return expr, nil

	default:
		left, err := e.parseLeafSym(lt)
		if err != nil {
			return nil, err
		}
		op, ok := compareOpFor(lt.peek())
		if !ok {
			return left, nil
		}
		lt.next()
		right, err := e.parseLeafSym(lt)
		if err != nil {
			return nil, err
		}
		return &CompareExpr{Op: op, Left: left, Right: right}, nil
	}
}

// parseLeafSym reads one expression leaf: a symbol reference, a tri-state
// constant, a numeric constant, or a quoted string constant.
func (e *Engine) parseLeafSym(lt *lineTokens) (*Symbol, error) {
	t := lt.next()
	switch t.kind {
	case tString:
		return e.lookupConstSym(t.text), nil
	case tWord:
		if t.text == "y" || t.text == "m" || t.text == "n" || isNumber(t.text) {
			return e.lookupConstSym(t.text), nil
		}
		return e.lookupSym(t.text), nil
	}
	return nil, lt.errf("expected a symbol or constant in expression")
}

func compareOpFor(kind tokenKind) (CompareOp, bool) {
	switch kind {
	case tEq:
		return OpEqual, true
	case tNeq:
		return OpUnequal, true
	case tLt:
		return OpLess, true
	case tLe:
		return OpLessEqual, true
	case tGt:
		return OpGreater, true
	case tGe:
		return OpGreaterEqual, true
	}
	return 0, false
}
