package hir

import (
	"github.com/shiika-lang/shiikac/internal/errors"
	"github.com/shiika-lang/shiikac/internal/ty"
)

// FrameKind tags a context-stack frame (spec §4.5's "Toplevel, Class,
// Method, Lambda, MatchClause, While").
type FrameKind int

const (
	FToplevel FrameKind = iota
	FClass
	FMethod
	FLambda
	FMatchClause
	FWhile
)

// localVar is a declared local variable's type and mutability, keyed by
// name within a single frame.
type localVar struct {
	ty       ty.TermTy
	readonly bool
}

// Frame is one entry of the context stack. Lookups of a local walk frames
// outward (spec §4.5); a lookup that crosses an FLambda frame boundary is
// recorded as a capture on that lambda frame instead of resolving directly.
type Frame struct {
	Kind FrameKind

	locals map[string]localVar
	order  []string // declaration order, for LVar extraction

	// FClass / FMethod: the enclosing class's and method's own type
	// parameters, consulted by name resolution for TyParamRef shadowing
	// (method type parameters shadow class ones of the same name, per
	// spec §8's boundary behavior).
	classTypeParam  []string
	methodTypeParam []string

	// FLambda only.
	captures   []Capture
	blocksBody bool // true for a `{ }` block (participates in break-scoping), false for standalone `fn`

	// FWhile and FLambda: set on a while frame when a break targets it, and
	// on every lambda frame that break crosses. Whether a non-block lambda
	// separates a while loop from the break is computed by InnermostWhile,
	// not stored (spec §4.5's "break inside a lambda is permitted only when
	// the innermost enclosing while-loop is not separated by a non-block
	// lambda").
	hasBreak bool
}

func newFrame(kind FrameKind) *Frame {
	return &Frame{Kind: kind, locals: map[string]localVar{}}
}

// Stack is the HIR builder's scoped context stack (spec §5's "scoped
// acquisition": every Push is paired with a Pop on every exit path,
// including error paths).
type Stack struct {
	frames []*Frame
}

// NewStack returns a stack seeded with a single Toplevel frame.
func NewStack() *Stack {
	return &Stack{frames: []*Frame{newFrame(FToplevel)}}
}

// Push enters a new frame.
func (s *Stack) Push(kind FrameKind) *Frame {
	f := newFrame(kind)
	s.frames = append(s.frames, f)
	return f
}

// Pop leaves the innermost frame, returning it. Returns an InternalBug
// report (HIR006) if called with only the Toplevel frame remaining, since
// that would desynchronize Push/Pop pairing.
func (s *Stack) Pop() (*Frame, error) {
	if len(s.frames) <= 1 {
		return nil, errors.WrapReport(errors.NewInternalBug(errors.HIR006, "context stack underflow", nil, nil))
	}
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return f, nil
}

// Unwind truncates the stack back to snapshot, used on an error exit path
// to restore a clean state regardless of how many frames a failed inner
// construction pushed (spec §5's scoped-acquisition contract).
func (s *Stack) Unwind(snapshot int) {
	s.frames = s.frames[:snapshot]
}

// Snapshot returns the current frame count, to be passed to Unwind.
func (s *Stack) Snapshot() int { return len(s.frames) }

// Current returns the innermost frame.
func (s *Stack) Current() *Frame { return s.frames[len(s.frames)-1] }

// Declare adds a local to the innermost frame.
func (s *Stack) Declare(name string, t ty.TermTy, readonly bool) {
	f := s.Current()
	if _, exists := f.locals[name]; !exists {
		f.order = append(f.order, name)
	}
	f.locals[name] = localVar{ty: t, readonly: readonly}
}

// Resolve walks frames from innermost outward looking for name. If the walk
// crosses one or more FLambda frames before finding it, each crossed lambda
// frame records a Capture (spec §4.5's "by identity, not value": captured
// once per lambda, regardless of how many times referenced).
func (s *Stack) Resolve(name string) (ty.TermTy, bool, bool) {
	var crossedLambdas []*Frame
	for i := len(s.frames) - 1; i >= 0; i-- {
		f := s.frames[i]
		if v, ok := f.locals[name]; ok {
			for _, lf := range crossedLambdas {
				lf.addCapture(name, v.ty)
			}
			return v.ty, v.readonly, true
		}
		if f.Kind == FLambda {
			crossedLambdas = append(crossedLambdas, f)
		}
	}
	return nil, false, false
}

func (f *Frame) addCapture(name string, t ty.TermTy) {
	for _, c := range f.captures {
		if c.Name == name {
			return
		}
	}
	f.captures = append(f.captures, Capture{Name: name, Ty: t})
}

// ExtractLVars returns the frame's declared locals in declaration order, as
// the LVar list a method/lambda/match-clause body carries (spec §3).
func (f *Frame) ExtractLVars() []LVar {
	out := make([]LVar, len(f.order))
	for i, name := range f.order {
		v := f.locals[name]
		out[i] = LVar{Name: name, Ty: v.ty, Readonly: v.readonly}
	}
	return out
}

// CurrentClassTypeParam / CurrentMethodTypeParam walk outward to the
// nearest FClass/FMethod frame, used by type-name resolution during
// lowering (name-shadowing: method type parameters are checked first by
// the caller, matching spec §8's boundary behavior).
func (s *Stack) CurrentClassTypeParam() []string {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if k := s.frames[i].Kind; k == FClass || k == FMethod {
			return s.frames[i].classTypeParam
		}
	}
	return nil
}

func (s *Stack) CurrentMethodTypeParam() []string {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Kind == FMethod {
			return s.frames[i].methodTypeParam
		}
	}
	return nil
}

// InnermostWhile returns the nearest enclosing FWhile frame and whether a
// non-block lambda frame separates it from the current position (spec
// §4.5's break-legality rule).
func (s *Stack) InnermostWhile() (frame *Frame, separatedByLambda bool, ok bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		f := s.frames[i]
		if f.Kind == FWhile {
			return f, separatedByLambda, true
		}
		if f.Kind == FLambda && !f.blocksBody {
			separatedByLambda = true
		}
	}
	return nil, false, false
}
