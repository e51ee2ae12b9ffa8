package macro

import (
	"os"
	"strconv"
	"strings"

	"github.com/menuconf/menuconf/pkg/telemetry"
)

// registerBuiltins installs the built-in function table. Hosts may replace
// any entry through Register.
func registerBuiltins(p *Preprocessor) {
	p.Register("info", 1, 1, infoFn)
	p.Register("warning-if", 2, 2, warningIfFn)
	p.Register("error-if", 2, 2, errorIfFn)
	p.Register("error", 1, 1, errorFn)
	p.Register("filename", 0, 0, filenameFn)
	p.Register("lineno", 0, 0, linenoFn)
	p.Register("shell", 1, 1, shellFn)
	p.Register("success", 1, 1, successFn)
	p.Register("failure", 1, 1, failureFn)
	p.Register("if-success", 3, 3, ifSuccessFn)
	p.Register("cc-option", 1, 1, ccOptionFn)
	p.Register("cc-option-bit", 1, 1, ccOptionBitFn)
	p.Register("as-option", 1, 1, asOptionFn)
	p.Register("as-instr", 1, 1, asInstrFn)
	p.Register("ld-option", 1, 1, ldOptionFn)
	p.Register("rustc-option", 1, 1, rustcOptionFn)
}

func infoFn(p *Preprocessor, loc Location, _ string, args []string) (string, error) {
	p.reporter.Report(telemetry.Warning{
		Severity: telemetry.SeverityInfo,
		Category: telemetry.CategoryGeneral,
		Message:  args[0],
		File:     loc.File,
		Line:     loc.Line,
	})
	return "", nil
}

func warningIfFn(p *Preprocessor, loc Location, _ string, args []string) (string, error) {
	if args[0] == "y" {
		p.reporter.WarnAt(telemetry.CategoryGeneral, loc.File, loc.Line, "%s", args[1])
	}
	return "", nil
}

func errorIfFn(p *Preprocessor, loc Location, _ string, args []string) (string, error) {
	if args[0] == "y" {
		return "", p.errorf(loc, "%s", args[1])
	}
	return "", nil
}

func errorFn(p *Preprocessor, loc Location, _ string, args []string) (string, error) {
	return "", p.errorf(loc, "%s", args[0])
}

func filenameFn(_ *Preprocessor, loc Location, _ string, _ []string) (string, error) {
	return loc.File, nil
}

func linenoFn(_ *Preprocessor, loc Location, _ string, _ []string) (string, error) {
	return strconv.Itoa(loc.Line), nil
}

// shellFn runs a command line through the platform command interpreter and
// substitutes its standard output, with trailing whitespace dropped and
// inner newlines converted to spaces.
func shellFn(p *Preprocessor, loc Location, _ string, args []string) (string, error) {
	stdout, stderr, _, err := p.runner.Shell(p.ctx, args[0])
	if err != nil {
		p.reporter.WarnAt(telemetry.CategoryProbe, loc.File, loc.Line,
			"running %q failed: %v", args[0], err)
		return "", nil
	}
	if stderr != "" {
		p.reporter.WarnAt(telemetry.CategoryProbe, loc.File, loc.Line,
			"%q wrote to stderr: %s", args[0], strings.TrimSpace(stderr))
	}
	return flattenOutput(stdout), nil
}

// runArgv splits a command string into argv (no shell interpretation) and
// runs it, reporting whether it exited zero. A spawn failure or timeout is
// a probe failure, never fatal.
func (p *Preprocessor) runArgv(loc Location, command, stdin string) bool {
	argv := shellSplit(command)
	if len(argv) == 0 {
		return false
	}
	exit, err := p.runner.Run(p.ctx, argv, stdin)
	if err != nil {
		p.reporter.WarnAt(telemetry.CategoryProbe, loc.File, loc.Line,
			"probe command %q could not run: %v", command, err)
		return false
	}
	return exit == 0
}

func successFn(p *Preprocessor, loc Location, _ string, args []string) (string, error) {
	if p.runArgv(loc, args[0], "") {
		return "y", nil
	}
	return "n", nil
}

func failureFn(p *Preprocessor, loc Location, _ string, args []string) (string, error) {
	if p.runArgv(loc, args[0], "") {
		return "n", nil
	}
	return "y", nil
}

func ifSuccessFn(p *Preprocessor, loc Location, _ string, args []string) (string, error) {
	if p.runArgv(loc, args[0], "") {
		return args[1], nil
	}
	return args[2], nil
}

// tool resolves the command for a toolchain probe: a preprocessor variable
// if one is set, else the environment, else the fallback.
func (p *Preprocessor) tool(loc Location, name, fallback string) string {
	if v, ok := p.vars[name]; ok {
		if val, err := p.ExpandedValue(v, loc); err == nil && val != "" {
			return val
		}
	}
	if val, ok := p.getenv(name); ok && val != "" {
		return val
	}
	return fallback
}

// probe runs a fixed argv and maps the exit status to the y/n sentinels.
func (p *Preprocessor) probe(loc Location, argv []string, stdin string) string {
	exit, err := p.runner.Run(p.ctx, argv, stdin)
	if err != nil {
		p.reporter.WarnAt(telemetry.CategoryProbe, loc.File, loc.Line,
			"probe %q could not run: %v", strings.Join(argv, " "), err)
		return "n"
	}
	if exit == 0 {
		return "y"
	}
	return "n"
}

func ccOptionFn(p *Preprocessor, loc Location, _ string, args []string) (string, error) {
	cc := p.tool(loc, "CC", "cc")
	argv := append(shellSplit(cc), "-Werror")
	argv = append(argv, shellSplit(args[0])...)
	argv = append(argv, "-c", "-x", "c", os.DevNull, "-o", os.DevNull)
	return p.probe(loc, argv, ""), nil
}

// ccOptionBitFn returns the flag itself when the compiler accepts it and
// the empty string otherwise, matching the Kbuild m32/m64 helpers.
func ccOptionBitFn(p *Preprocessor, loc Location, _ string, args []string) (string, error) {
	cc := p.tool(loc, "CC", "cc")
	argv := append(shellSplit(cc), "-Werror")
	argv = append(argv, shellSplit(args[0])...)
	argv = append(argv, "-E", "-x", "c", os.DevNull, "-o", os.DevNull)
	if p.probe(loc, argv, "") == "y" {
		return args[0], nil
	}
	return "", nil
}

func asOptionFn(p *Preprocessor, loc Location, _ string, args []string) (string, error) {
	cc := p.tool(loc, "CC", "cc")
	argv := append(shellSplit(cc), "-Werror")
	argv = append(argv, shellSplit(args[0])...)
	argv = append(argv, "-c", "-x", "assembler-with-cpp", os.DevNull, "-o", os.DevNull)
	return p.probe(loc, argv, ""), nil
}

func asInstrFn(p *Preprocessor, loc Location, _ string, args []string) (string, error) {
	cc := p.tool(loc, "CC", "cc")
	argv := append(shellSplit(cc), "-Werror", "-c", "-x", "assembler-with-cpp", "-", "-o", os.DevNull)
	return p.probe(loc, argv, args[0]+"\n"), nil
}

func ldOptionFn(p *Preprocessor, loc Location, _ string, args []string) (string, error) {
	ld := p.tool(loc, "LD", "ld")
	argv := append(shellSplit(ld), shellSplit(args[0])...)
	argv = append(argv, "-v")
	return p.probe(loc, argv, ""), nil
}

func rustcOptionFn(p *Preprocessor, loc Location, _ string, args []string) (string, error) {
	rustc := p.tool(loc, "RUSTC", "rustc")
	argv := append(shellSplit(rustc), shellSplit(args[0])...)
	argv = append(argv, "--emit=metadata", "-o", os.DevNull)
	return p.probe(loc, argv, ""), nil
}

// flattenOutput trims trailing whitespace and joins output lines with
// single spaces, the way $(shell,...) substitutes multi-line output.
func flattenOutput(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimRight(strings.Join(lines, " "), " \t")
}

// shellSplit splits a command string into argv on whitespace, honoring
// single and double quotes and backslash escapes.
func shellSplit(s string) []string {
	var argv []string
	var cur strings.Builder
	inWord := false
	quote := byte(0)

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' && quote == '"' && i+1 < len(s) {
				i++
				cur.WriteByte(s[i])
			} else if c == quote {
				quote = 0
			} else {
				cur.WriteByte(c)
			}
		case c == '\'' || c == '"':
			quote = c
			inWord = true
		case c == '\\' && i+1 < len(s):
			i++
			cur.WriteByte(s[i])
			inWord = true
		case c == ' ' || c == '\t':
			if inWord {
				argv = append(argv, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteByte(c)
			inWord = true
		}
	}
	if inWord {
		argv = append(argv, cur.String())
	}
	return argv
}
