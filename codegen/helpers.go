package codegen

import (
	"kiln/types"

	"tinygo.org/x/go-llvm"
)

// Helper routine names expected by the fixed print ABI
const (
	helperPrintf    = "printf"
	helperSprintf   = "sprintf"
	helperBoolToStr = "bool_to_str"
	helperFflush    = "fflush"
)

// declareHelpers materializes the fixed helper-routine surface once at
// session start: a variadic printf, a declared-but-external sprintf, the
// generated bool_to_str selector and fflush for the in-process run path.
// The cache is read-only after this point except for user functions.
func (b *Builder) declareHelpers() {
	bytePtr := b.bytePtrType()

	// printf: variadic, first argument is the format string
	printfType := llvm.FunctionType(b.ctx.VoidType(), []llvm.Type{bytePtr}, true)
	printf := llvm.AddFunction(b.module, helperPrintf, printfType)
	b.RegisterFunc(helperPrintf, Function{
		Fn: printf, FnType: printfType,
		Entry: b.current.Entry, Block: b.current.Entry,
		RetKind: types.KindVoid,
	})

	// sprintf: declared only, resolved by the external C runtime
	sprintfType := llvm.FunctionType(bytePtr, []llvm.Type{bytePtr, bytePtr, bytePtr, bytePtr}, true)
	sprintf := llvm.AddFunction(b.module, helperSprintf, sprintfType)
	b.RegisterFunc(helperSprintf, Function{
		Fn: sprintf, FnType: sprintfType,
		Entry: b.current.Entry, Block: b.current.Entry,
		RetKind: types.KindVoid,
	})

	// fflush(i8*): flushes all C streams when passed null; the in-process
	// run path calls it before returning so captured output is complete
	fflushType := llvm.FunctionType(b.ctx.Int32Type(), []llvm.Type{bytePtr}, false)
	fflush := llvm.AddFunction(b.module, helperFflush, fflushType)
	b.RegisterFunc(helperFflush, Function{
		Fn: fflush, FnType: fflushType,
		Entry: b.current.Entry, Block: b.current.Entry,
		RetKind: types.KindVoid,
	})

	b.buildBoolToStr()
}

// buildBoolToStr generates the i1 -> i8* selector returning "true\n" or
// "false\n" via a conditional branch. Built with a scratch builder so the
// session builder's position is untouched.
func (b *Builder) buildBoolToStr() {
	bytePtr := b.bytePtrType()
	fnType := llvm.FunctionType(bytePtr, []llvm.Type{b.ctx.Int1Type()}, false)
	fn := llvm.AddFunction(b.module, helperBoolToStr, fnType)

	entry := b.ctx.AddBasicBlock(fn, "entry")
	then := b.ctx.AddBasicBlock(fn, "then")
	els := b.ctx.AddBasicBlock(fn, "else")

	scratch := b.ctx.NewBuilder()
	defer scratch.Dispose()

	scratch.SetInsertPointAtEnd(entry)
	trueStr := scratch.CreateGlobalStringPtr("true\n", "true_str")
	falseStr := scratch.CreateGlobalStringPtr("false\n", "false_str")
	scratch.CreateCondBr(fn.Param(0), then, els)

	scratch.SetInsertPointAtEnd(then)
	scratch.CreateRet(trueStr)

	scratch.SetInsertPointAtEnd(els)
	scratch.CreateRet(falseStr)

	b.RegisterFunc(helperBoolToStr, Function{
		Fn: fn, FnType: fnType,
		Entry: entry, Block: entry,
		RetKind: types.KindString,
	})
}
