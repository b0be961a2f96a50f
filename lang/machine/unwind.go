package machine

import "github.com/mna/pyvm/lang/values"

// pendingFinally records a return/yield value that must be delivered only
// after a finally/with block currently running to completion; END_FINALLY
// picks this back up once the handler body falls off the end without
// itself returning, breaking, continuing or re-raising.
type pendingFinally struct {
	why   Why
	value values.Value
}

// unwindBlockStack implements spec.md §4.4's (block_kind, why) → action
// matrix: given that the frame is currently unwinding for reason why
// (carrying val and/or exc as appropriate), find the innermost block that
// handles it, transfer control to its handler, and report whether the
// unwind was absorbed (WhyNot) or must keep propagating to the caller.
func (t *Thread) unwindBlockStack(f *Frame, why Why, val values.Value, exc *values.Exception) Why {
	for f.hasBlock() {
		b := f.topBlock()

		switch why {
		case WhyBreak:
			if b.Kind == BlockLoop {
				f.popBlock()
				f.unwindStackTo(b.StackDepth)
				f.IP = b.HandlerOffset
				return WhyNot
			}
			f.popBlock()
			f.unwindStackTo(b.StackDepth)
			continue

		case WhyContinue:
			if b.Kind == BlockLoop {
				if target, ok := val.(values.Int); ok {
					f.IP = int(target)
					return WhyNot
				}
				return why
			}
			f.popBlock()
			f.unwindStackTo(b.StackDepth)
			continue

		case WhyException, WhyReraise:
			if b.Kind == BlockExcept || b.Kind == BlockFinally || b.Kind == BlockWith {
				f.popBlock()
				f.unwindStackTo(b.StackDepth)
				f.pushBlock(Block{Kind: BlockExceptHandler, StackDepth: b.StackDepth})
				f.push(exc)
				t.lastException = exc
				f.IP = b.HandlerOffset
				return WhyNot
			}
			f.popBlock()
			f.unwindStackTo(b.StackDepth)
			continue

		case WhyReturn, WhyYield:
			if b.Kind == BlockFinally || b.Kind == BlockWith {
				f.popBlock()
				f.unwindStackTo(b.StackDepth)
				f.pushBlock(Block{Kind: BlockExceptHandler, StackDepth: b.StackDepth})
				f.pendingExc = nil
				f.pending = &pendingFinally{why: why, value: val}
				f.IP = b.HandlerOffset
				return WhyNot
			}
			f.popBlock()
			f.unwindStackTo(b.StackDepth)
			continue

		default:
			f.popBlock()
			f.unwindStackTo(b.StackDepth)
			continue
		}
	}
	return why
}
