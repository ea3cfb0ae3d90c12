package compiler

import (
	"github.com/emberlang/ember/lang/token"
	"github.com/emberlang/ember/lang/value"
)

// Precedence orders binding strength from loosest to tightest, per the
// language grammar: assignment binds loosest (other than "no expression at
// all"), primary expressions tightest.
type Precedence int

const (
	PrecNone       Precedence = iota
	PrecAssignment            // =
	PrecOr                    // or
	PrecAnd                   // and
	PrecEquality              // == !=
	PrecComparison            // < > <= >=
	PrecTerm                  // + -
	PrecFactor                // * /
	PrecUnary                 // ! -
	PrecCall                  // . ()
	PrecPrimary
)

type parseFn func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

var rules map[token.Kind]parseRule

func init() {
	rules = map[token.Kind]parseRule{
		token.LEFT_PAREN:    {prefix: (*Compiler).grouping, infix: (*Compiler).call, precedence: PrecCall},
		token.DOT:           {infix: (*Compiler).dot, precedence: PrecCall},
		token.MINUS:         {prefix: (*Compiler).unary, infix: (*Compiler).binary, precedence: PrecTerm},
		token.PLUS:          {infix: (*Compiler).binary, precedence: PrecTerm},
		token.SLASH:         {infix: (*Compiler).binary, precedence: PrecFactor},
		token.STAR:          {infix: (*Compiler).binary, precedence: PrecFactor},
		token.BANG:          {prefix: (*Compiler).unary},
		token.BANG_EQUAL:    {infix: (*Compiler).binary, precedence: PrecEquality},
		token.EQUAL_EQUAL:   {infix: (*Compiler).binary, precedence: PrecEquality},
		token.GREATER:       {infix: (*Compiler).binary, precedence: PrecComparison},
		token.GREATER_EQUAL: {infix: (*Compiler).binary, precedence: PrecComparison},
		token.LESS:          {infix: (*Compiler).binary, precedence: PrecComparison},
		token.LESS_EQUAL:    {infix: (*Compiler).binary, precedence: PrecComparison},
		token.IDENT:         {prefix: (*Compiler).variable},
		token.STRING:        {prefix: (*Compiler).stringLiteral},
		token.NUMBER:        {prefix: (*Compiler).numberLiteral},
		token.AND:           {infix: (*Compiler).and_, precedence: PrecAnd},
		token.OR:            {infix: (*Compiler).or_, precedence: PrecOr},
		token.FALSE:         {prefix: (*Compiler).literal},
		token.NIL:           {prefix: (*Compiler).literal},
		token.TRUE:          {prefix: (*Compiler).literal},
		token.THIS:          {prefix: (*Compiler).this_},
		token.SUPER:         {prefix: (*Compiler).super_},
	}
}

func ruleFor(k token.Kind) parseRule { return rules[k] }

// parsePrecedence is the heart of the Pratt parser: consume a token that
// must have a prefix rule, dispatch it, then keep folding in infix
// operators whose precedence meets the floor, left to right.
func (c *Compiler) parsePrecedence(prec Precedence) {
	c.advance()
	prefix := ruleFor(c.previous.Kind).prefix
	if prefix == nil {
		c.error("Expect expression.")
		return
	}

	canAssign := prec <= PrecAssignment
	prefix(c, canAssign)

	for prec <= ruleFor(c.cur.Kind).precedence {
		c.advance()
		infix := ruleFor(c.previous.Kind).infix
		infix(c, canAssign)
	}

	if canAssign && c.matchTok(token.EQUAL) {
		c.error("Invalid assignment target.")
	}
}

func (c *Compiler) expression() { c.parsePrecedence(PrecAssignment) }

func (c *Compiler) grouping(_ bool) {
	c.expression()
	c.consume(token.RIGHT_PAREN, "Expect ')' after expression.")
}

func (c *Compiler) numberLiteral(_ bool) {
	c.emitConstant(parseNumber(c.previous.Lexeme))
}

func (c *Compiler) stringLiteral(_ bool) {
	raw := c.previous.Lexeme
	s := raw[1 : len(raw)-1] // strip the surrounding quotes; no escapes
	c.emitConstant(value.FromObj(c.gc.InternString(s)))
}

func (c *Compiler) literal(_ bool) {
	switch c.previous.Kind {
	case token.FALSE:
		c.emitOp(value.OpFalse)
	case token.TRUE:
		c.emitOp(value.OpTrue)
	case token.NIL:
		c.emitOp(value.OpNil)
	}
}

func (c *Compiler) unary(_ bool) {
	opKind := c.previous.Kind
	c.parsePrecedence(PrecUnary)
	switch opKind {
	case token.BANG:
		c.emitOp(value.OpNot)
	case token.MINUS:
		c.emitOp(value.OpNegate)
	}
}

func (c *Compiler) binary(_ bool) {
	opKind := c.previous.Kind
	rule := ruleFor(opKind)
	c.parsePrecedence(rule.precedence + 1)

	switch opKind {
	case token.BANG_EQUAL:
		c.emitOp(value.OpEqual)
		c.emitOp(value.OpNot)
	case token.EQUAL_EQUAL:
		c.emitOp(value.OpEqual)
	case token.GREATER:
		c.emitOp(value.OpGreater)
	case token.GREATER_EQUAL:
		c.emitOp(value.OpLess)
		c.emitOp(value.OpNot)
	case token.LESS:
		c.emitOp(value.OpLess)
	case token.LESS_EQUAL:
		c.emitOp(value.OpGreater)
		c.emitOp(value.OpNot)
	case token.PLUS:
		c.emitOp(value.OpAdd)
	case token.MINUS:
		c.emitOp(value.OpSubtract)
	case token.STAR:
		c.emitOp(value.OpMultiply)
	case token.SLASH:
		c.emitOp(value.OpDivide)
	}
}

// and_ and or_ implement short-circuit evaluation: the left operand is
// already on the stack (JUMP_IF_FALSE peeks it), so each branch pops it
// exactly once before evaluating the right operand, and leaves whichever
// operand decided the result on the stack.
func (c *Compiler) and_(_ bool) {
	endJump := c.emitJump(value.OpJumpIfFalse)
	c.emitOp(value.OpPop)
	c.parsePrecedence(PrecAnd)
	c.patchJump(endJump)
}

func (c *Compiler) or_(_ bool) {
	elseJump := c.emitJump(value.OpJumpIfFalse)
	endJump := c.emitJump(value.OpJump)

	c.patchJump(elseJump)
	c.emitOp(value.OpPop)

	c.parsePrecedence(PrecOr)
	c.patchJump(endJump)
}

func (c *Compiler) variable(canAssign bool) {
	c.namedVariable(c.previous.Lexeme, canAssign)
}

func (c *Compiler) this_(_ bool) {
	if c.class == nil {
		c.error("Can't use 'this' outside of a class.")
		return
	}
	c.namedVariable("this", false)
}

func (c *Compiler) super_(_ bool) {
	c.error("Superclasses are not supported.")
	// Consume the rest of the expression so parsing can continue.
	if c.matchTok(token.DOT) {
		c.consume(token.IDENT, "Expect superclass method name.")
	}
}

func (c *Compiler) namedVariable(name string, canAssign bool) {
	var getOp, setOp value.Opcode
	slot, err := resolveLocal(c.current, name)
	if err != "" {
		c.error(err)
		return
	}
	if slot != -1 {
		getOp, setOp = value.OpGetLocal, value.OpSetLocal
	} else if up, uerr := resolveUpvalue(c.current, name); uerr != "" {
		c.error(uerr)
		return
	} else if up != -1 {
		slot = up
		getOp, setOp = value.OpGetUpvalue, value.OpSetUpvalue
	} else {
		slot = int(c.identifierConstant(name))
		getOp, setOp = value.OpGetGlobal, value.OpSetGlobal
	}

	if canAssign && c.matchTok(token.EQUAL) {
		c.expression()
		c.emitOpByte(setOp, byte(slot))
	} else {
		c.emitOpByte(getOp, byte(slot))
	}
}

func (c *Compiler) call(_ bool) {
	argCount := c.argumentList()
	c.emitOpByte(value.OpCall, argCount)
}

func (c *Compiler) argumentList() byte {
	var count int
	if !c.check(token.RIGHT_PAREN) {
		for {
			c.expression()
			if count == 255 {
				c.error("Can't have more than 255 arguments.")
			}
			count++
			if !c.matchTok(token.COMMA) {
				break
			}
		}
	}
	c.consume(token.RIGHT_PAREN, "Expect ')' after arguments.")
	return byte(count)
}

func (c *Compiler) dot(canAssign bool) {
	c.consume(token.IDENT, "Expect property name after '.'.")
	name := c.identifierConstant(c.previous.Lexeme)

	switch {
	case canAssign && c.matchTok(token.EQUAL):
		c.expression()
		c.emitOpByte(value.OpSetProperty, name)
	case c.matchTok(token.LEFT_PAREN):
		argCount := c.argumentList()
		c.emitOp(value.OpInvoke)
		c.emitByte(name)
		c.emitByte(argCount)
	default:
		c.emitOpByte(value.OpGetProperty, name)
	}
}
