package compiler

import "github.com/emberlang/ember/lang/value"

func (c *Compiler) beginScope() { c.current.scopeDepth++ }

// endScope pops every local declared in the scope being closed. A local
// that outlived closures capturing it must be closed on the heap first
// (OP_CLOSE_UPVALUE); the rest are simply popped.
func (c *Compiler) endScope() {
	c.current.scopeDepth--
	fc := c.current
	for len(fc.locals) > 0 && fc.locals[len(fc.locals)-1].depth > fc.scopeDepth {
		if fc.locals[len(fc.locals)-1].isCaptured {
			c.emitOp(value.OpCloseUpvalue)
		} else {
			c.emitOp(value.OpPop)
		}
		fc.locals = fc.locals[:len(fc.locals)-1]
	}
}

func (c *Compiler) addLocal(name string) {
	if len(c.current.locals) >= maxLocals {
		c.error("Too many local variables in function.")
		return
	}
	c.current.locals = append(c.current.locals, local{name: name, depth: -1})
}

// declareVariable registers the variable named by the previous (identifier)
// token as a local if inside a scope; global variables are not declared
// ahead of time, only defined once their initialiser has run.
func (c *Compiler) declareVariable(name string) {
	if c.current.scopeDepth == 0 {
		return
	}
	for i := len(c.current.locals) - 1; i >= 0; i-- {
		l := c.current.locals[i]
		if l.depth != -1 && l.depth < c.current.scopeDepth {
			break
		}
		if l.name == name {
			c.error("Already a variable with this name in this scope.")
		}
	}
	c.addLocal(name)
}

func (c *Compiler) markInitialized() {
	if c.current.scopeDepth == 0 {
		return
	}
	c.current.locals[len(c.current.locals)-1].depth = c.current.scopeDepth
}

// resolveLocal searches fc's locals from the top (innermost declaration)
// down. A local whose depth is still -1 is in the middle of evaluating its
// own initialiser, which is a compile error ("var a = a;").
func resolveLocal(fc *funcCompiler, name string) (slot int, err string) {
	for i := len(fc.locals) - 1; i >= 0; i-- {
		if fc.locals[i].name == name {
			if fc.locals[i].depth == -1 {
				return -1, "Can't read local variable in its own initializer."
			}
			return i, ""
		}
	}
	return -1, ""
}

// resolveUpvalue looks for name in an enclosing function, recursively. A
// hit on an enclosing local marks it captured (so endScope emits
// OP_CLOSE_UPVALUE for it) and records a {index, isLocal=true} capture; a
// hit on an enclosing upvalue records {index, isLocal=false}. Either way
// the capture is added to fc (deduplicated) so fc's own closures can use
// OP_GET_UPVALUE/OP_SET_UPVALUE.
func resolveUpvalue(fc *funcCompiler, name string) (slot int, err string) {
	if fc.enclosing == nil {
		return -1, ""
	}
	if local, lerr := resolveLocal(fc.enclosing, name); lerr != "" {
		return -1, lerr
	} else if local != -1 {
		fc.enclosing.locals[local].isCaptured = true
		return addUpvalue(fc, local, true)
	}
	if up, uerr := resolveUpvalue(fc.enclosing, name); uerr != "" {
		return -1, uerr
	} else if up != -1 {
		return addUpvalue(fc, up, false)
	}
	return -1, ""
}

func addUpvalue(fc *funcCompiler, index int, isLocal bool) (int, string) {
	for i, uv := range fc.upvalues {
		if uv.index == index && uv.isLocal == isLocal {
			return i, ""
		}
	}
	if len(fc.upvalues) >= maxUpvalues {
		return -1, "Too many closure variables in function."
	}
	fc.upvalues = append(fc.upvalues, upvalueSlot{index: index, isLocal: isLocal})
	return len(fc.upvalues) - 1, ""
}
