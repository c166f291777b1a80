package conformance

import (
	"fmt"
	"strings"

	"kiln/ast"
	"kiln/config"
	"kiln/lower"
	"kiln/types"
)

// Result is the outcome of running one case
type Result struct {
	Output string
	IR     string
	Err    error
}

// RunCase compiles one case's program. Cases that pin only errors or IR
// shape lower without executing; cases that pin output run the program
// in process.
func RunCase(c Case) Result {
	root, err := ast.DecodeProgram([]byte(c.Program))
	if err != nil {
		return Result{Err: types.NewError(types.ErrParse, "%v", err)}
	}

	sess, err := lower.NewSession(config.Default())
	if err != nil {
		return Result{Err: err}
	}

	if _, err := sess.Lowerer().Lower(root); err != nil {
		sess.Lowerer().Builder().Dispose()
		return Result{Err: err}
	}

	// IR is rendered before Finish consumes the module, so shape pins work
	// on executing cases too
	ir := sess.IR()
	if c.Expect.Output == "" {
		sess.Lowerer().Builder().Dispose()
		return Result{IR: ir}
	}

	out, err := sess.Lowerer().Builder().Finish()
	return Result{Output: out, IR: ir, Err: err}
}

// Check compares a result against the case's expectation and returns a
// description of the first divergence, or empty when the case passes.
func Check(c Case, r Result) string {
	if c.Expect.Error != "" {
		if r.Err == nil {
			return fmt.Sprintf("expected error %s, got none", c.Expect.Error)
		}
		code, ok := types.CodeOf(r.Err)
		if !ok {
			return fmt.Sprintf("expected error %s, got unclassified: %v", c.Expect.Error, r.Err)
		}
		if code.String() != c.Expect.Error {
			return fmt.Sprintf("expected error %s, got %s: %v", c.Expect.Error, code, r.Err)
		}
		return ""
	}

	if r.Err != nil {
		return fmt.Sprintf("unexpected error: %v", r.Err)
	}

	if c.Expect.Output != "" && r.Output != c.Expect.Output {
		return fmt.Sprintf("output mismatch:\nwant %q\ngot  %q", c.Expect.Output, r.Output)
	}

	for _, want := range c.Expect.IRContains {
		if !strings.Contains(r.IR, want) {
			return fmt.Sprintf("IR missing %q", want)
		}
	}
	return ""
}
