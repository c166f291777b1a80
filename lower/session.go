package lower

import (
	"kiln/ast"
	"kiln/codegen"
	"kiln/config"
	"kiln/trace"
)

// Session ties one backend builder to one lowerer for a single compile.
// Sessions are single-use: Run consumes the backend state and a second call
// would build on disposed handles.
type Session struct {
	cg  *codegen.Builder
	low *Lowerer
}

// NewSession builds the backend per opts and a lowerer over it
func NewSession(opts config.Options) (*Session, error) {
	cg, err := codegen.New(opts)
	if err != nil {
		return nil, err
	}
	return &Session{cg: cg, low: New(cg)}, nil
}

// Lowerer exposes the session's lowerer, mainly for tests
func (s *Session) Lowerer() *Lowerer {
	return s.low
}

// IR renders the module built so far as textual IR
func (s *Session) IR() string {
	return s.cg.IR()
}

// Run lowers the whole program and finishes the module: the entry routine is
// sealed, then either run in process or emitted and linked, per the options
// the session was built with. The captured program output is returned.
// Backend handles are released on every path.
func (s *Session) Run(root *ast.BlockStmt) (string, error) {
	if _, err := s.low.Lower(root); err != nil {
		trace.Abort("run", err)
		s.cg.Dispose()
		return "", err
	}
	out, err := s.cg.Finish()
	if err != nil {
		trace.Abort("finish", err)
		return "", err
	}
	return out, nil
}
