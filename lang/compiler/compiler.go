// Package compiler implements the single-pass, precedence-climbing
// compiler: it drives the scanner on demand and emits bytecode directly
// into a value.Chunk embedded in a top-level script Function, with no
// intermediate abstract syntax tree.
package compiler

import (
	"fmt"
	"io"
	"strconv"

	"github.com/emberlang/ember/lang/gc"
	"github.com/emberlang/ember/lang/scanner"
	"github.com/emberlang/ember/lang/token"
	"github.com/emberlang/ember/lang/value"
)

// FunctionKind distinguishes the four shapes of compiled function body: the
// implicit top-level script, an ordinary function, a class method, and a
// class initializer (its "init" method, which implicitly returns the
// instance).
type FunctionKind int

const (
	KindScript FunctionKind = iota
	KindFunction
	KindMethod
	KindInitializer
)

const maxLocals = 256
const maxUpvalues = 256

type local struct {
	name       string
	depth      int // -1 while being initialised
	isCaptured bool
}

type upvalueSlot struct {
	index   int
	isLocal bool
}

// funcCompiler holds the state for compiling one function body: the
// function object being built, its locals and upvalues, and a link to the
// compiler for the lexically enclosing function (nil at the top level).
type funcCompiler struct {
	enclosing  *funcCompiler
	function   *value.ObjFunction
	kind       FunctionKind
	locals     []local
	upvalues   []upvalueSlot
	scopeDepth int
}

// classScope tracks that compilation is currently inside a class body, so
// "this" resolves there and a "this" outside any class is rejected at
// compile time. "super" does not consult it: super_ rejects every use.
type classScope struct {
	enclosing *classScope
}

// Compiler is the parser/codegen state for one call to Compile. It is not
// reused across calls.
type Compiler struct {
	scanner *scanner.Scanner
	gc      *gc.GC
	stderr  io.Writer

	current *funcCompiler
	class   *classScope

	previous token.Token
	cur      token.Token

	hadError  bool
	panicMode bool
}

// Compile compiles source into a top-level script Function. It returns
// (fn, true) on success. On failure it returns (nil, false) after writing
// one "[line N] Error ...: message" line per error to stderr.
func Compile(g *gc.GC, source string, stderr io.Writer) (*value.ObjFunction, bool) {
	c := &Compiler{scanner: scanner.New(source), gc: g, stderr: stderr}
	c.pushFunc(KindScript, "")

	remove := g.AddRoot(c)
	defer remove()

	c.advance()
	for !c.matchTok(token.EOF) {
		c.declaration()
	}

	fn := c.endFunc()
	if c.hadError {
		return nil, false
	}
	return fn, true
}

// MarkRoots implements gc.RootProvider: while compiling, every function
// object under construction in the enclosing-compiler chain must survive
// any collection triggered by interning a constant or identifier, since
// none of them are reachable from the machine yet.
func (c *Compiler) MarkRoots(t value.Tracer) {
	for fc := c.current; fc != nil; fc = fc.enclosing {
		t.MarkObject(fc.function)
	}
}

func (c *Compiler) pushFunc(kind FunctionKind, name string) {
	fn := c.gc.NewFunction()
	if name != "" {
		// fn is not in the compiler chain yet; root it while interning.
		c.gc.Pin(value.FromObj(fn))
		fn.Name = c.gc.InternString(name)
		c.gc.Unpin()
	}
	fc := &funcCompiler{enclosing: c.current, function: fn, kind: kind}
	// Slot 0 is reserved for the call's receiver. Methods name it "this" so
	// the ordinary local-resolution path finds it; functions and the script
	// leave it unnamed so user code cannot reference it.
	if kind == KindMethod || kind == KindInitializer {
		fc.locals = append(fc.locals, local{name: "this", depth: 0})
	} else {
		fc.locals = append(fc.locals, local{name: "", depth: 0})
	}
	c.current = fc
}

func (c *Compiler) endFunc() *value.ObjFunction {
	c.emitReturn()
	fn := c.current.function
	fn.UpvalueCount = len(c.current.upvalues)
	c.current = c.current.enclosing
	return fn
}

func (c *Compiler) currentChunk() *value.Chunk { return &c.current.function.Chunk }

// --- token stream -----------------------------------------------------

func (c *Compiler) advance() {
	c.previous = c.cur
	for {
		c.cur = c.scanner.ScanToken()
		if c.cur.Kind != token.ILLEGAL {
			break
		}
		c.errorAtCurrent(c.cur.Lexeme)
	}
}

func (c *Compiler) check(k token.Kind) bool { return c.cur.Kind == k }

func (c *Compiler) matchTok(k token.Kind) bool {
	if !c.check(k) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(k token.Kind, msg string) {
	if c.cur.Kind == k {
		c.advance()
		return
	}
	c.errorAtCurrent(msg)
}

// --- error reporting ----------------------------------------------------

func (c *Compiler) errorAtCurrent(msg string) { c.errorAt(c.cur, msg) }
func (c *Compiler) error(msg string)          { c.errorAt(c.previous, msg) }

func (c *Compiler) errorAt(tok token.Token, msg string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true
	if c.stderr == nil {
		return
	}
	if tok.Kind == token.EOF {
		fmt.Fprintf(c.stderr, "[line %d] Error at end: %s\n", tok.Line, msg)
	} else if tok.Kind == token.ILLEGAL {
		fmt.Fprintf(c.stderr, "[line %d] Error: %s\n", tok.Line, msg)
	} else {
		fmt.Fprintf(c.stderr, "[line %d] Error at '%s': %s\n", tok.Line, tok.Lexeme, msg)
	}
}

// synchronize discards tokens until it reaches a plausible statement
// boundary, so one error does not cascade into a wall of spurious ones.
func (c *Compiler) synchronize() {
	c.panicMode = false
	for c.cur.Kind != token.EOF {
		if c.previous.Kind == token.SEMICOLON {
			return
		}
		switch c.cur.Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		c.advance()
	}
}

// --- emission -----------------------------------------------------------

func (c *Compiler) emitByte(b byte) { c.currentChunk().Write(b, c.previous.Line) }
func (c *Compiler) emitOp(op value.Opcode) { c.currentChunk().WriteOp(op, c.previous.Line) }

func (c *Compiler) emitOpByte(op value.Opcode, b byte) {
	c.emitOp(op)
	c.emitByte(b)
}

func (c *Compiler) emitReturn() {
	if c.current.kind == KindInitializer {
		// init() implicitly returns the receiver, sitting in slot 0.
		c.emitOpByte(value.OpGetLocal, 0)
	} else {
		c.emitOp(value.OpNil)
	}
	c.emitOp(value.OpReturn)
}

func (c *Compiler) makeConstant(v value.Value) byte {
	if len(c.currentChunk().Constants) >= value.MaxConstants {
		c.error("Too many constants in one chunk.")
		return 0
	}
	c.gc.Pin(v)
	idx := c.currentChunk().AddConstant(v)
	c.gc.Unpin()
	return byte(idx)
}

func (c *Compiler) emitConstant(v value.Value) {
	c.emitOpByte(value.OpConstant, c.makeConstant(v))
}

// emitJump writes a jump opcode with a placeholder 16-bit operand and
// returns the offset of its first operand byte, to be fixed up by
// patchJump once the jump target is known.
func (c *Compiler) emitJump(op value.Opcode) int {
	c.emitOp(op)
	c.emitByte(0xff)
	c.emitByte(0xff)
	return len(c.currentChunk().Code) - 2
}

func (c *Compiler) patchJump(offset int) {
	jump := len(c.currentChunk().Code) - offset - 2
	if jump > 0xffff {
		c.error("Loop body too large.")
		return
	}
	c.currentChunk().Code[offset] = byte(jump >> 8)
	c.currentChunk().Code[offset+1] = byte(jump)
}

func (c *Compiler) emitLoop(loopStart int) {
	c.emitOp(value.OpLoop)
	offset := len(c.currentChunk().Code) - loopStart + 2
	if offset > 0xffff {
		c.error("Loop body too large.")
		return
	}
	c.emitByte(byte(offset >> 8))
	c.emitByte(byte(offset))
}

// --- identifiers as constants --------------------------------------------

func (c *Compiler) identifierConstant(name string) byte {
	return c.makeConstant(value.FromObj(c.gc.InternString(name)))
}

func parseNumber(lexeme string) value.Value {
	n, _ := strconv.ParseFloat(lexeme, 64)
	return value.Number(n)
}
