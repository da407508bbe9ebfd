// Package vm implements the runtime embedding surface: create_vm, execute,
// tokenize, parse, reset, get_variables, register_builtin, and run_tests,
// as a Go API a host program links against directly. It is the seam
// between the tree-walking evaluator in internal/interp and everything
// outside the language core.
package vm

import (
	"bytes"
	"crypto/rand"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/pyrl-lang/pyrl/internal/ast"
	"github.com/pyrl-lang/pyrl/internal/config"
	"github.com/pyrl-lang/pyrl/internal/interp"
	"github.com/pyrl-lang/pyrl/internal/lexer"
	"github.com/pyrl-lang/pyrl/internal/object"
	"github.com/pyrl-lang/pyrl/internal/parser"
	"github.com/pyrl-lang/pyrl/internal/token"
)

// EngineVersion is the semantic version of this runtime, parsed once at
// package init so it can be compared against other versions instead of
// treated as an opaque string.
var EngineVersion = semver.MustParse("0.1.0")

// VM is one embedded Pyrl runtime instance: a global environment plus the
// registered test blocks accumulated across calls to Execute.
type VM struct {
	id     ulid.ULID
	interp *interp.Interpreter
	stdout *bytes.Buffer
	limits config.Limits
}

// New implements create_vm(): a VM with empty user globals and every
// built-in already registered, using the hard-coded default runtime
// limits.
func New() *VM {
	return NewWithLimits(config.Defaults())
}

// NewWithLimits implements create_vm() with an explicit config.Limits,
// typically the result of config.Load.
func NewWithLimits(limits config.Limits) *VM {
	buf := &bytes.Buffer{}
	in := interp.NewInterpreter(buf)
	in.SetMaxCallDepth(limits.MaxCallDepth)
	if limits.Deterministic {
		interp.Seed(limits.RandomSeed)
	}
	return &VM{
		id:     newID(),
		interp: in,
		stdout: buf,
		limits: limits,
	}
}

// entropy and idMu provide one monotonic entropy source guarded by a
// mutex, shared across every VM so IDs sort in creation order even when
// VMs are created concurrently.
var (
	entropy = ulid.Monotonic(rand.Reader, 0)
	idMu    sync.Mutex
)

func newID() ulid.ULID {
	idMu.Lock()
	defer idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
}

// ExecResult is execute()'s result envelope: `{ ok, value, stdout, error? }`.
type ExecResult struct {
	OK     bool
	Value  string
	Stdout string
	Error  *ExecError
}

// ExecError carries the kind/message/location triple every runtime error
// reports.
type ExecError struct {
	Kind    string
	Message string
	Line    int
	Col     int
}

// Execute implements execute(source): lexes, parses, resolves, and runs
// the source against the VM's accumulated global frame, so successive
// calls behave like successive REPL entries.
func (v *VM) Execute(source string) ExecResult {
	prog, err := v.parseProgram(source)
	if err != nil {
		return v.errResult(err)
	}

	r := interp.NewResolver()
	r.Resolve(prog)
	v.interp.SetLocals(r.Locals())

	before := v.stdout.Len()
	err = v.interp.Run(prog)
	out := v.stdout.String()[before:]
	if err != nil {
		res := v.errResult(err)
		res.Stdout = out
		return res
	}
	return ExecResult{OK: true, Value: "None", Stdout: out}
}

func (v *VM) errResult(err error) ExecResult {
	line, col := interp.Position(err)
	return ExecResult{
		OK: false,
		Error: &ExecError{
			Kind:    string(interp.ErrorKind(err)),
			Message: err.Error(),
			Line:    line,
			Col:     col,
		},
	}
}

func (v *VM) parseProgram(source string) (*ast.Program, error) {
	toks, err := lexer.New([]byte(source)).Scan()
	if err != nil {
		b := oops.Code(string(interp.KindLex))
		if le, ok := err.(*lexer.Error); ok {
			b = b.With("line", le.Line).With("col", le.Col)
		}
		return nil, b.Wrapf(err, "lexing source")
	}
	p := parser.New(toks)
	prog, err := p.Parse()
	if err != nil {
		return nil, oops.Code(string(interp.KindParse)).Wrapf(err, "parsing source")
	}
	return prog, nil
}

// TokenInfo is one entry of tokenize()'s result list: `{kind, value, line,
// col}`.
type TokenInfo struct {
	Kind  string
	Value string
	Line  int
	Col   int
}

// Tokenize implements tokenize(source): the raw token stream with no
// parsing performed.
func (v *VM) Tokenize(source string) ([]TokenInfo, error) {
	toks, err := lexer.New([]byte(source)).Scan()
	if err != nil {
		return nil, oops.Code(string(interp.KindLex)).Wrapf(err, "tokenizing source")
	}
	out := make([]TokenInfo, 0, len(toks))
	for _, t := range toks {
		out = append(out, TokenInfo{Kind: t.Kind.String(), Value: tokenValue(t), Line: t.Line, Col: t.Col})
	}
	return out, nil
}

func tokenValue(t token.Token) string {
	if t.Text != "" {
		return t.Text
	}
	return t.Lexeme
}

// Parse implements parse(source): the AST rendered as a serialized tree
// of plain maps and slices, the same shape a host would get back from
// marshaling it with the json_stringify built-in, built directly from the
// Node without an intermediate Go struct round-trip.
func (v *VM) Parse(source string) (any, error) {
	prog, err := v.parseProgram(source)
	if err != nil {
		return nil, err
	}
	return treeOf(prog), nil
}

// Reset implements reset(): discards all user globals but keeps the
// built-ins and the VM's identity. Registered test blocks are user state
// too, so they're discarded along with the globals that declared them.
func (v *VM) Reset() {
	v.stdout.Reset()
	in := interp.NewInterpreter(v.stdout)
	in.SetMaxCallDepth(v.limits.MaxCallDepth)
	if v.limits.Deterministic {
		interp.Seed(v.limits.RandomSeed)
	}
	v.interp = in
}

// GetVariables implements get_variables(): a snapshot of top-level
// bindings, rendered as their string forms. Only the global frame is
// captured, never an enclosing call's locals.
func (v *VM) GetVariables() map[string]string {
	snap := v.interp.Globals.Snapshot()
	out := make(map[string]string, len(snap))
	for k, val := range snap {
		out[k] = val.String()
	}
	return out
}

// RegisterBuiltin implements register_builtin(name, handler, arity): it
// adds or overrides a built-in in the global frame under its bare name,
// the same namespace RegisterBuiltins populates.
func (v *VM) RegisterBuiltin(name string, handler object.Handler, arity object.Arity) {
	v.interp.Globals.Define(name, &object.BuiltIn{Name: name, Arity: arity, Handler: handler})
}

// TestSummary is run_tests()'s result envelope: `{ passed, failed, total,
// failures[] }`, plus every test's individual outcome so
// a caller (e.g. the CLI's pass/fail table) can report each one, not
// just the failing subset.
type TestSummary struct {
	Passed   int
	Failed   int
	Total    int
	Results  []TestOutcome
	Failures []TestFailure
}

// TestOutcome is one `test "label" { ... }` block's pass/fail verdict.
type TestOutcome struct {
	Label  string
	Passed bool
}

// TestFailure is one entry of TestSummary.Failures: the failing block's
// label, the diagnostic, and the source line of the assert (or other
// error) that failed it.
type TestFailure struct {
	Label   string
	Message string
	Line    int
}

// RunTests implements run_tests(): executes every `test "label" { ... }`
// block registered so far and tallies outcomes.
func (v *VM) RunTests() TestSummary {
	results := v.interp.RunTests()
	sum := TestSummary{Total: len(results)}
	for _, r := range results {
		sum.Results = append(sum.Results, TestOutcome{Label: r.Label, Passed: r.Passed})
		if r.Passed {
			sum.Passed++
			continue
		}
		sum.Failed++
		line, _ := interp.Position(r.Err)
		sum.Failures = append(sum.Failures, TestFailure{Label: r.Label, Message: r.Err.Error(), Line: line})
	}
	return sum
}

// ID is the VM instance's run identifier, a ULID so multiple embedded VMs
// (e.g. one per REPL session or test-suite run) can be told apart in
// host-side logs.
func (v *VM) ID() string { return v.id.String() }

// Version reports the runtime's semantic version.
func Version() string { return EngineVersion.String() }
