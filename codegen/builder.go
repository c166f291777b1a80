// Package codegen is the emission façade over the LLVM backend.
//
// A single Builder owns the backend handles (context, module, IR builder),
// the cursor for the routine under construction, and the routine cache for
// helper and user functions. Handles are acquired once per session and
// released in a fixed order: builder first, module only on the ahead-of-time
// path, context last.
package codegen

import (
	"kiln/config"
	"kiln/types"

	"tinygo.org/x/go-llvm"
)

// Function tracks one backend routine: its handle, type, entry block, the
// block the builder is currently appending to, and the declared return kind.
type Function struct {
	Fn      llvm.Value
	FnType  llvm.Type
	Entry   llvm.BasicBlock
	Block   llvm.BasicBlock
	RetKind types.Kind
}

// Builder owns all backend emission state for one compile session
type Builder struct {
	ctx     llvm.Context
	module  llvm.Module
	builder llvm.Builder

	funcs   map[string]Function
	current Function

	fmtNum32 llvm.Value // "%d\n"
	fmtNum64 llvm.Value // "%llu\n"
	fmtStr   llvm.Value // "%s\n"
	fmtRaw   llvm.Value // "%s" (bool_to_str output carries its own newline)

	execEngine bool
	disposed   bool
}

// New initializes the backend: native target, context, module, IR builder,
// the entry routine, the shared format-string globals and the helper
// routines. The builder is left positioned in the entry routine's block.
func New(opts config.Options) (*Builder, error) {
	if opts.ExecutionEngine {
		llvm.LinkInMCJIT()
	}
	if opts.Target == "" {
		if err := llvm.InitializeNativeTarget(); err != nil {
			return nil, types.NewError(types.ErrBackend, "initialize native target: %v", err)
		}
		if err := llvm.InitializeNativeAsmPrinter(); err != nil {
			return nil, types.NewError(types.ErrBackend, "initialize native asm printer: %v", err)
		}
	}

	ctx := llvm.NewContext()
	module := ctx.NewModule("main")
	if opts.Target != "" {
		module.SetTarget(opts.Target)
	}
	builder := ctx.NewBuilder()

	mainType := llvm.FunctionType(ctx.VoidType(), nil, false)
	mainFn := llvm.AddFunction(module, "main", mainType)
	entry := ctx.AddBasicBlock(mainFn, "main")
	builder.SetInsertPointAtEnd(entry)

	b := &Builder{
		ctx:     ctx,
		module:  module,
		builder: builder,
		funcs:   make(map[string]Function),
		current: Function{
			Fn:      mainFn,
			FnType:  mainType,
			Entry:   entry,
			Block:   entry,
			RetKind: types.KindVoid,
		},
		execEngine: opts.ExecutionEngine,
	}

	b.fmtNum32 = builder.CreateGlobalStringPtr("%d\n", "number_printf_val")
	b.fmtNum64 = builder.CreateGlobalStringPtr("%llu\n", "number64_printf_val")
	b.fmtStr = builder.CreateGlobalStringPtr("%s\n", "str_printf_val")
	b.fmtRaw = builder.CreateGlobalStringPtr("%s", "raw_printf_val")

	b.declareHelpers()
	return b, nil
}

// Current returns the routine the builder is appending to
func (b *Builder) Current() Function {
	return b.current
}

// CreateBlock appends a new basic block to the current routine
func (b *Builder) CreateBlock(name string) llvm.BasicBlock {
	return b.ctx.AddBasicBlock(b.current.Fn, name)
}

// SetBlock repositions emission at the end of block and records it as the
// current position
func (b *Builder) SetBlock(block llvm.BasicBlock) {
	b.builder.SetInsertPointAtEnd(block)
	b.current.Block = block
}

// PositionAtEnd moves the raw builder without touching the recorded position
func (b *Builder) PositionAtEnd(block llvm.BasicBlock) {
	b.builder.SetInsertPointAtEnd(block)
}

// kindType maps a value kind to its backend scalar type
func (b *Builder) kindType(k types.Kind) llvm.Type {
	switch k {
	case types.KindNumber32:
		return b.ctx.Int32Type()
	case types.KindNumber64:
		return b.ctx.Int64Type()
	case types.KindBool:
		return b.ctx.Int1Type()
	case types.KindString:
		return b.bytePtrType()
	default:
		return b.ctx.VoidType()
	}
}

func (b *Builder) bytePtrType() llvm.Type {
	return llvm.PointerType(b.ctx.Int8Type(), 0)
}

// Alloca reserves one stack slot of the given type
func (b *Builder) Alloca(t llvm.Type, name string) llvm.Value {
	return b.builder.CreateAlloca(t, name)
}

// Store writes val into the slot at ptr
func (b *Builder) Store(val, ptr llvm.Value) {
	b.builder.CreateStore(val, ptr)
}

// Load reads a value of type t from the slot at ptr
func (b *Builder) Load(t llvm.Type, ptr llvm.Value, name string) llvm.Value {
	return b.builder.CreateLoad(t, ptr, name)
}

// AllocaStore reserves a stack slot, stores val into it and returns the slot.
// Every non-constant value is stored immediately after construction.
func (b *Builder) AllocaStore(val llvm.Value, t llvm.Type, name string) llvm.Value {
	ptr := b.Alloca(t, name)
	b.Store(val, ptr)
	return ptr
}

// Br emits an unconditional branch
func (b *Builder) Br(block llvm.BasicBlock) {
	b.builder.CreateBr(block)
}

// CondBr emits a conditional branch
func (b *Builder) CondBr(cond llvm.Value, then, els llvm.BasicBlock) {
	b.builder.CreateCondBr(cond, then, els)
}

// Ret emits a return with a value
func (b *Builder) Ret(val llvm.Value) {
	b.builder.CreateRet(val)
}

// RetVoid emits a void return
func (b *Builder) RetVoid() {
	b.builder.CreateRetVoid()
}

// GEP computes an element address inside the aggregate at ptr
func (b *Builder) GEP(t llvm.Type, ptr llvm.Value, indices []llvm.Value, name string) llvm.Value {
	return b.builder.CreateGEP(t, ptr, indices, name)
}

// ConstInt32 materializes a 32-bit integer constant
func (b *Builder) ConstInt32(val int32) llvm.Value {
	return llvm.ConstInt(b.ctx.Int32Type(), uint64(uint32(val)), true)
}

// ConstInt64 materializes a 64-bit integer constant
func (b *Builder) ConstInt64(val int64) llvm.Value {
	return llvm.ConstInt(b.ctx.Int64Type(), uint64(val), true)
}

// ConstBool materializes a 1-bit constant
func (b *Builder) ConstBool(val bool) llvm.Value {
	n := uint64(0)
	if val {
		n = 1
	}
	return llvm.ConstInt(b.ctx.Int1Type(), n, false)
}

// AllocaBool reserves one boolean scratch cell
func (b *Builder) AllocaBool(name string) llvm.Value {
	return b.Alloca(b.ctx.Int1Type(), name)
}

// ICmpRaw emits an integer compare on raw backend values
func (b *Builder) ICmpRaw(op string, lhs, rhs llvm.Value, name string) (llvm.Value, error) {
	pred, ok := icmpPredicate(op)
	if !ok {
		return llvm.Value{}, types.NewError(types.ErrUnsupportedOperator, "operator %s", op)
	}
	return b.builder.CreateICmp(pred, lhs, rhs, name), nil
}

// AddRaw emits an integer add on raw backend values
func (b *Builder) AddRaw(lhs, rhs llvm.Value, name string) llvm.Value {
	return b.builder.CreateAdd(lhs, rhs, name)
}

// BlockTerminated reports whether the current block already ends in a
// terminator. Implicit returns are emitted only when it does not, so a block
// never gets a second terminator or instructions after one.
func (b *Builder) BlockTerminated() bool {
	last := b.current.Block.LastInstruction()
	if last.IsNil() {
		return false
	}
	switch last.InstructionOpcode() {
	case llvm.Ret, llvm.Br, llvm.Switch, llvm.IndirectBr, llvm.Invoke, llvm.Unreachable:
		return true
	}
	return false
}

// Call emits a call to a cached routine
func (b *Builder) Call(fn Function, args []llvm.Value, name string) llvm.Value {
	return b.builder.CreateCall(fn.FnType, fn.Fn, args, name)
}

// widen sign-extends the 32-bit side of a mixed-width pair to 64 bits.
// The 64-bit side is never narrowed.
func (b *Builder) widen(val, other llvm.Value) llvm.Value {
	if val.Type().TypeKind() != llvm.IntegerTypeKind || other.Type().TypeKind() != llvm.IntegerTypeKind {
		return val
	}
	if val.Type().IntTypeWidth() == 32 && other.Type().IntTypeWidth() == 64 {
		return b.builder.CreateSExt(val, b.ctx.Int64Type(), "cast_to_i64")
	}
	return val
}

// StartFunction adds a routine, opens its entry block and repositions the
// builder inside it. The previous cursor is returned for EndFunction.
func (b *Builder) StartFunction(name string, paramKinds []types.Kind, retKind types.Kind) (Function, Function, error) {
	paramTypes := make([]llvm.Type, len(paramKinds))
	for i, k := range paramKinds {
		if !k.Numeric() && k != types.KindBool {
			return Function{}, Function{}, types.NewError(types.ErrKindMismatch,
				"function %s: parameter kind %s not supported", name, k)
		}
		paramTypes[i] = b.kindType(k)
	}

	var retType llvm.Type
	switch retKind {
	case types.KindNumber32, types.KindNumber64, types.KindBool:
		retType = b.kindType(retKind)
	case types.KindVoid:
		retType = b.ctx.VoidType()
	default:
		return Function{}, Function{}, types.NewError(types.ErrUnsupportedReturnKind,
			"function %s: return kind %s", name, retKind)
	}

	fnType := llvm.FunctionType(retType, paramTypes, false)
	fn := llvm.AddFunction(b.module, name, fnType)
	entry := b.ctx.AddBasicBlock(fn, "entry")

	prev := b.current
	b.current = Function{Fn: fn, FnType: fnType, Entry: entry, Block: entry, RetKind: retKind}
	b.builder.SetInsertPointAtEnd(entry)
	return b.current, prev, nil
}

// Param returns the i-th raw parameter of a routine
func (b *Builder) Param(fn Function, i int) llvm.Value {
	return fn.Fn.Param(i)
}

// EndFunction restores the cursor saved by StartFunction
func (b *Builder) EndFunction(prev Function) {
	b.current = prev
	b.builder.SetInsertPointAtEnd(prev.Block)
}

// RegisterFunc caches a routine handle under its name
func (b *Builder) RegisterFunc(name string, fn Function) {
	b.funcs[name] = fn
}

// LookupFunc resolves a cached helper or user routine
func (b *Builder) LookupFunc(name string) (Function, bool) {
	fn, ok := b.funcs[name]
	return fn, ok
}

// MaterializeString lays down a string constant and returns its value.
// The i8* view doubles as the value's storage location.
func (b *Builder) MaterializeString(name, content string) types.StringValue {
	ptr := b.builder.CreateGlobalStringPtr(content, name)
	return types.NewString(name, ptr, ptr, content)
}

// MaterializeNumber32 materializes and stores a 32-bit literal
func (b *Builder) MaterializeNumber32(val int32) types.Number32Value {
	c := b.ConstInt32(val)
	slot := b.AllocaStore(c, b.ctx.Int32Type(), "num32")
	return types.NewNumber32("num32", c, slot)
}

// MaterializeNumber64 materializes and stores a 64-bit literal
func (b *Builder) MaterializeNumber64(val int64) types.Number64Value {
	c := b.ConstInt64(val)
	slot := b.AllocaStore(c, b.ctx.Int64Type(), "num64")
	return types.NewNumber64("num64", c, slot)
}

// MaterializeBool materializes and stores a boolean literal
func (b *Builder) MaterializeBool(val bool) types.BoolValue {
	c := b.ConstBool(val)
	slot := b.AllocaStore(c, b.ctx.Int1Type(), "bool_value")
	return types.NewBool("bool_value", c, slot)
}

// MaterializeList lays down a fixed-length homogeneous array from already
// lowered elements. The element type comes from the first element.
func (b *Builder) MaterializeList(elems []types.Value) (types.Value, error) {
	if len(elems) == 0 {
		return nil, types.NewError(types.ErrKindMismatch, "empty list literal")
	}
	elemKind := elems[0].Kind()
	elemType := b.kindType(elemKind)

	consts := make([]llvm.Value, len(elems))
	for i, e := range elems {
		if e.Kind() != elemKind {
			return nil, types.NewError(types.ErrKindMismatch,
				"list element %d: %s in a %s list", i, e.Kind(), elemKind)
		}
		consts[i] = e.LLVM()
	}

	arrType := llvm.ArrayType(elemType, len(elems))
	arr := llvm.ConstArray(elemType, consts)
	slot := b.AllocaStore(arr, arrType, "array")
	return types.NewList("array", arr, slot, elemKind, elemType, arrType, len(elems)), nil
}

// CurrentValue reads a value's present contents: a load through the stack
// slot when one exists, else the materialized constant.
func (b *Builder) CurrentValue(v types.Value) llvm.Value {
	switch v.Kind() {
	case types.KindString, types.KindList, types.KindFunc, types.KindVoid, types.KindReturn:
		return v.LLVM()
	}
	if ptr := v.Ptr(); !ptr.IsNil() {
		return b.Load(b.kindType(v.Kind()), ptr, "load")
	}
	return v.LLVM()
}
