package compiler

import (
	"github.com/emberlang/ember/lang/token"
	"github.com/emberlang/ember/lang/value"
)

// declaration = class_decl | fun_decl | var_decl | statement ;
func (c *Compiler) declaration() {
	switch {
	case c.matchTok(token.CLASS):
		c.classDeclaration()
	case c.matchTok(token.FUN):
		c.funDeclaration()
	case c.matchTok(token.VAR):
		c.varDeclaration()
	default:
		c.statement()
	}

	if c.panicMode {
		c.synchronize()
	}
}

// statement = print_stmt | if_stmt | while_stmt | for_stmt | return_stmt
//           | block | expression_stmt ;
func (c *Compiler) statement() {
	switch {
	case c.matchTok(token.PRINT):
		c.printStatement()
	case c.matchTok(token.IF):
		c.ifStatement()
	case c.matchTok(token.WHILE):
		c.whileStatement()
	case c.matchTok(token.FOR):
		c.forStatement()
	case c.matchTok(token.RETURN):
		c.returnStatement()
	case c.matchTok(token.LEFT_BRACE):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

func (c *Compiler) block() {
	for !c.check(token.RIGHT_BRACE) && !c.check(token.EOF) {
		c.declaration()
	}
	c.consume(token.RIGHT_BRACE, "Expect '}' after block.")
}

func (c *Compiler) printStatement() {
	c.expression()
	c.consume(token.SEMICOLON, "Expect ';' after value.")
	c.emitOp(value.OpPrint)
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.consume(token.SEMICOLON, "Expect ';' after expression.")
	c.emitOp(value.OpPop)
}

func (c *Compiler) ifStatement() {
	c.consume(token.LEFT_PAREN, "Expect '(' after 'if'.")
	c.expression()
	c.consume(token.RIGHT_PAREN, "Expect ')' after condition.")

	thenJump := c.emitJump(value.OpJumpIfFalse)
	c.emitOp(value.OpPop)
	c.statement()

	elseJump := c.emitJump(value.OpJump)
	c.patchJump(thenJump)
	c.emitOp(value.OpPop)

	if c.matchTok(token.ELSE) {
		c.statement()
	}
	c.patchJump(elseJump)
}

func (c *Compiler) whileStatement() {
	loopStart := len(c.currentChunk().Code)
	c.consume(token.LEFT_PAREN, "Expect '(' after 'while'.")
	c.expression()
	c.consume(token.RIGHT_PAREN, "Expect ')' after condition.")

	exitJump := c.emitJump(value.OpJumpIfFalse)
	c.emitOp(value.OpPop)
	c.statement()
	c.emitLoop(loopStart)

	c.patchJump(exitJump)
	c.emitOp(value.OpPop)
}

// forStatement desugars entirely to while: it opens its own scope so a
// declared loop variable doesn't leak, then stitches initializer / condition
// / increment together with the jump/loop primitives already used by
// ifStatement and whileStatement.
func (c *Compiler) forStatement() {
	c.beginScope()
	c.consume(token.LEFT_PAREN, "Expect '(' after 'for'.")

	switch {
	case c.matchTok(token.SEMICOLON):
		// no initializer
	case c.matchTok(token.VAR):
		c.varDeclaration()
	default:
		c.expressionStatement()
	}

	loopStart := len(c.currentChunk().Code)
	exitJump := -1
	if !c.matchTok(token.SEMICOLON) {
		c.expression()
		c.consume(token.SEMICOLON, "Expect ';' after loop condition.")
		exitJump = c.emitJump(value.OpJumpIfFalse)
		c.emitOp(value.OpPop)
	}

	if !c.matchTok(token.RIGHT_PAREN) {
		bodyJump := c.emitJump(value.OpJump)
		incrementStart := len(c.currentChunk().Code)
		c.expression()
		c.emitOp(value.OpPop)
		c.consume(token.RIGHT_PAREN, "Expect ')' after for clauses.")

		c.emitLoop(loopStart)
		loopStart = incrementStart
		c.patchJump(bodyJump)
	}

	c.statement()
	c.emitLoop(loopStart)

	if exitJump != -1 {
		c.patchJump(exitJump)
		c.emitOp(value.OpPop)
	}
	c.endScope()
}

func (c *Compiler) returnStatement() {
	if c.current.kind == KindScript {
		c.error("Can't return from top-level code.")
	}
	if c.matchTok(token.SEMICOLON) {
		c.emitReturn()
		return
	}
	if c.current.kind == KindInitializer {
		c.error("Can't return a value from an initializer.")
	}
	c.expression()
	c.consume(token.SEMICOLON, "Expect ';' after return value.")
	c.emitOp(value.OpReturn)
}

// --- declarations --------------------------------------------------------

func (c *Compiler) varDeclaration() {
	global := c.parseVariable("Expect variable name.")

	if c.matchTok(token.EQUAL) {
		c.expression()
	} else {
		c.emitOp(value.OpNil)
	}
	c.consume(token.SEMICOLON, "Expect ';' after variable declaration.")
	c.defineVariable(global)
}

// parseVariable consumes the variable's name and, for a local, declares it
// immediately; the constant index it returns is meaningful only for
// globals, where OP_DEFINE_GLOBAL needs the name at runtime.
func (c *Compiler) parseVariable(errMsg string) byte {
	c.consume(token.IDENT, errMsg)
	name := c.previous.Lexeme
	c.declareVariable(name)
	if c.current.scopeDepth > 0 {
		return 0
	}
	return c.identifierConstant(name)
}

func (c *Compiler) defineVariable(global byte) {
	if c.current.scopeDepth > 0 {
		c.markInitialized()
		return
	}
	c.emitOpByte(value.OpDefineGlobal, global)
}

func (c *Compiler) funDeclaration() {
	global := c.parseVariable("Expect function name.")
	c.markInitialized()
	c.function(KindFunction)
	c.defineVariable(global)
}

// function compiles a parameter list and body into a brand new funcCompiler
// frame, then emits OP_CLOSURE in the enclosing frame with one {isLocal,
// index} pair per byte-pair trailing the opcode, for the VM to resolve
// upvalue captures against its current frame.
func (c *Compiler) function(kind FunctionKind) {
	name := c.previous.Lexeme
	c.pushFunc(kind, name)
	c.beginScope()

	c.consume(token.LEFT_PAREN, "Expect '(' after function name.")
	if !c.check(token.RIGHT_PAREN) {
		for {
			c.current.function.Arity++
			if c.current.function.Arity > 255 {
				c.errorAtCurrent("Can't have more than 255 parameters.")
			}
			paramConst := c.parseVariable("Expect parameter name.")
			c.defineVariable(paramConst)
			if !c.matchTok(token.COMMA) {
				break
			}
		}
	}
	c.consume(token.RIGHT_PAREN, "Expect ')' after parameters.")
	c.consume(token.LEFT_BRACE, "Expect '{' before function body.")
	c.block()

	upvalues := c.current.upvalues
	fn := c.endFunc()

	c.emitOpByte(value.OpClosure, c.makeConstant(value.FromObj(fn)))
	for _, uv := range upvalues {
		if uv.isLocal {
			c.emitByte(1)
		} else {
			c.emitByte(0)
		}
		c.emitByte(byte(uv.index))
	}
}

func (c *Compiler) classDeclaration() {
	c.consume(token.IDENT, "Expect class name.")
	nameTok := c.previous
	nameConst := c.identifierConstant(nameTok.Lexeme)
	c.declareVariable(nameTok.Lexeme)

	c.emitOpByte(value.OpClass, nameConst)
	c.defineVariable(nameConst)

	c.class = &classScope{enclosing: c.class}
	defer func() { c.class = c.class.enclosing }()

	c.namedVariable(nameTok.Lexeme, false)
	c.consume(token.LEFT_BRACE, "Expect '{' before class body.")
	for !c.check(token.RIGHT_BRACE) && !c.check(token.EOF) {
		c.method()
	}
	c.consume(token.RIGHT_BRACE, "Expect '}' after class body.")
	c.emitOp(value.OpPop) // the class, pushed back on the stack by namedVariable
}

func (c *Compiler) method() {
	c.consume(token.IDENT, "Expect method name.")
	name := c.previous.Lexeme
	nameConst := c.identifierConstant(name)

	kind := KindMethod
	if name == "init" {
		kind = KindInitializer
	}
	c.function(kind)
	c.emitOpByte(value.OpMethod, nameConst)
}
