package codegen

import (
	"io"
	"os"
	"os/exec"
	"syscall"

	"kiln/types"

	"tinygo.org/x/go-llvm"
)

// Fixed output paths for the ahead-of-time path
const (
	irPath  = "bin/main.ll"
	binPath = "bin/main"
)

// IR returns the module's textual intermediate representation.
// Only valid before Finish or Dispose.
func (b *Builder) IR() string {
	return b.module.String()
}

// Finish seals the entry routine with an implicit void return when its final
// block is still open, then either
// runs the module in-process under MCJIT or prints it to bin/main.ll and
// shells out to clang. Both paths return the program's captured standard
// output. All backend handles are released before returning: builder first,
// module (owned by the execution engine on the in-process path), context
// last.
func (b *Builder) Finish() (string, error) {
	if b.disposed {
		return "", types.NewError(types.ErrBackend, "session already finished")
	}

	if !b.BlockTerminated() {
		if b.execEngine {
			// Flush C stdio before main returns so the captured pipe
			// sees everything printf buffered
			if fflush, ok := b.LookupFunc(helperFflush); ok {
				null := llvm.ConstPointerNull(b.bytePtrType())
				b.Call(fflush, []llvm.Value{null}, "")
			}
		}
		b.RetVoid()
	}

	if b.execEngine {
		return b.runInProcess()
	}
	return b.emitAndLink()
}

// runInProcess JIT-compiles the module and calls main directly, capturing
// its standard output. The execution engine takes ownership of the module.
func (b *Builder) runInProcess() (string, error) {
	engine, err := llvm.NewMCJITCompiler(b.module, llvm.NewMCJITCompilerOptions())
	if err != nil {
		b.Dispose()
		return "", types.NewError(types.ErrBackend, "create execution engine: %v", err)
	}

	mainFn := b.module.NamedFunction("main")
	out, err := captureStdout(func() {
		engine.RunFunction(mainFn, nil)
	})

	b.builder.Dispose()
	engine.Dispose()
	b.ctx.Dispose()
	b.disposed = true

	if err != nil {
		return "", types.NewError(types.ErrBackend, "capture output: %v", err)
	}
	return out, nil
}

// emitAndLink prints the module, invokes the external toolchain to build a
// standalone executable and runs it.
func (b *Builder) emitAndLink() (string, error) {
	ir := b.module.String()
	b.Dispose()

	if err := os.MkdirAll("bin", 0o755); err != nil {
		return "", types.NewError(types.ErrBackend, "create output dir: %v", err)
	}
	if err := os.WriteFile(irPath, []byte(ir), 0o644); err != nil {
		return "", types.NewError(types.ErrBackend, "write %s: %v", irPath, err)
	}

	if out, err := exec.Command("clang", irPath, "-o", binPath).CombinedOutput(); err != nil {
		return "", types.NewError(types.ErrBackend, "clang: %v: %s", err, out)
	}

	out, err := exec.Command("./" + binPath).Output()
	if err != nil {
		return "", types.NewError(types.ErrBackend, "run %s: %v", binPath, err)
	}
	return string(out), nil
}

// Dispose releases the backend handles on abnormal exit paths.
// Safe to call more than once; Finish performs its own ordered teardown.
func (b *Builder) Dispose() {
	if b.disposed {
		return
	}
	b.builder.Dispose()
	b.module.Dispose()
	b.ctx.Dispose()
	b.disposed = true
}

// captureStdout redirects fd 1 into a pipe around fn.
// The JIT's printf writes through C stdio, so the redirect has to happen at
// the descriptor level, not on os.Stdout.
func captureStdout(fn func()) (string, error) {
	saved, err := syscall.Dup(1)
	if err != nil {
		return "", err
	}
	defer syscall.Close(saved)

	r, w, err := os.Pipe()
	if err != nil {
		return "", err
	}

	if err := syscall.Dup3(int(w.Fd()), 1, 0); err != nil {
		r.Close()
		w.Close()
		return "", err
	}

	// Drain concurrently: a program writing more than the pipe buffer
	// would otherwise block printf and never return from fn
	type readResult struct {
		data []byte
		err  error
	}
	done := make(chan readResult, 1)
	go func() {
		data, err := io.ReadAll(r)
		r.Close()
		done <- readResult{data, err}
	}()

	fn()

	// Restore fd 1 before waiting so the pipe write side closes
	syscall.Dup3(saved, 1, 0)
	w.Close()

	res := <-done
	if res.err != nil {
		return "", res.err
	}
	return string(res.data), nil
}
