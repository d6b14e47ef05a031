// Package ast defines the typed statement/condition tree this module's
// translator consumes, and the read-only collaborator interfaces (PIC table,
// string-literal table, data manager) it is translated against.
//
// Source lexing and parsing, and symbol/data-manager construction, are
// external collaborators per the core's scope - this package only fixes
// the shapes those collaborators must produce and satisfy.
package ast

import "fmt"

// PIC is the immutable byte-layout contract of one source-language symbol.
// A PIC reporting IsStr() and IsFloat() both true is never valid; neither
// reporting true means the variable is an integer.
type PIC interface {
	IsStr() bool
	IsFloat() bool

	// CompSize is the total byte footprint of the variable, including the
	// trailing NUL for strings (so a length-1 string has CompSize() == 2).
	CompSize() int

	// VerifyLit reports whether lit can be stored into a variable with this
	// PIC without truncation or type mismatch.
	VerifyLit(table StringTable, lit Literal) bool

	// FitsWithinComp reports whether a full-buffer copy from a variable with
	// this PIC into a variable with other's PIC is in-bounds.
	FitsWithinComp(other PIC) bool
}

// StringTable resolves interned string literals to their raw bytes (no NUL).
type StringTable interface {
	Get(id int) ([]byte, bool)
}

// DataID identifies one piece of module-level static data: a variable's
// backing buffer, or a string literal's backing buffer.
type DataID string

// DataManager is the read-only, shared per-compilation context that maps
// source symbols and string-literal IDs to their PIC/storage.
type DataManager interface {
	SymPic(sym string) (PIC, error)
	SymDataID(sym string) (DataID, error)
	StrDataID(stringID int) (DataID, error)
}

// LitKind tags the variant of a Literal.
type LitKind int

const (
	LitInt LitKind = iota
	LitFloat
	LitString
)

// Literal is a constant value appearing directly in source. String literals
// are interned and referenced by StringID into a StringTable.
type Literal struct {
	Kind     LitKind
	IntVal   int64
	FloatVal float64
	StringID int
}

func (l Literal) String() string {
	switch l.Kind {
	case LitInt:
		return fmt.Sprintf("%d", l.IntVal)
	case LitFloat:
		return fmt.Sprintf("%g", l.FloatVal)
	case LitString:
		return fmt.Sprintf("<str#%d>", l.StringID)
	default:
		return "<invalid literal>"
	}
}

// ValueKind tags the variant of a Value.
type ValueKind int

const (
	ValVariable ValueKind = iota
	ValLiteral
)

// Value is a parser-level operand: either a reference to a variable, or a
// literal constant.
type Value struct {
	Kind ValueKind
	Sym  string
	Lit  Literal
}

// Var constructs a variable-reference Value.
func Var(sym string) Value { return Value{Kind: ValVariable, Sym: sym} }

// Lit constructs a literal Value.
func Lit(lit Literal) Value { return Value{Kind: ValLiteral, Lit: lit} }

// IsFloat reports whether this value, once loaded, is a floating-point value.
func (v Value) IsFloat(data DataManager) (bool, error) {
	switch v.Kind {
	case ValLiteral:
		return v.Lit.Kind == LitFloat, nil
	case ValVariable:
		pic, err := data.SymPic(v.Sym)
		if err != nil {
			return false, err
		}
		return pic.IsFloat(), nil
	default:
		return false, fmt.Errorf("unknown value kind %d", v.Kind)
	}
}

// IsStr reports whether this value, once loaded, is a string pointer.
func (v Value) IsStr(data DataManager) (bool, error) {
	switch v.Kind {
	case ValLiteral:
		return v.Lit.Kind == LitString, nil
	case ValVariable:
		pic, err := data.SymPic(v.Sym)
		if err != nil {
			return false, err
		}
		return pic.IsStr(), nil
	default:
		return false, fmt.Errorf("unknown value kind %d", v.Kind)
	}
}

// MoveSpan is a 1-based, optionally partial substring reference.
// Len absent means "from StartIdx to end-of-string, excluding the NUL".
type MoveSpan struct {
	StartIdx Value
	Len      *Value
}

// MoveRef is a destination or source variable reference, optionally spanned.
// A span is legal only when Sym's PIC is a string.
type MoveRef struct {
	Sym  string
	Span *MoveSpan
}

// HasStaticLengthOf reports whether this reference's span has a literal
// integer length equal to n (used to pick the single-byte charcpy path).
func (r MoveRef) HasStaticLengthOf(n int64) bool {
	if r.Span == nil || r.Span.Len == nil {
		return false
	}
	l := *r.Span.Len
	return l.Kind == ValLiteral && l.Lit.Kind == LitInt && l.Lit.IntVal == n
}

// Validate checks this reference's span (if any) against pic: a span on a
// non-string PIC is rejected, and span indices/lengths must be integers.
func (r MoveRef) Validate(pic PIC, data DataManager) error {
	if r.Span == nil {
		return nil
	}
	if !pic.IsStr() {
		return fmt.Errorf("cannot reference a span within non-string variable %s", r.Sym)
	}
	if isFloat, err := r.Span.StartIdx.IsFloat(data); err != nil {
		return err
	} else if isFloat {
		return fmt.Errorf("value of span start index for %s must be of type integer", r.Sym)
	}
	if isStr, err := r.Span.StartIdx.IsStr(data); err != nil {
		return err
	} else if isStr {
		return fmt.Errorf("value of span start index for %s must be of type integer", r.Sym)
	}
	if r.Span.Len != nil {
		if isFloat, err := r.Span.Len.IsFloat(data); err != nil {
			return err
		} else if isFloat {
			return fmt.Errorf("value of span length for %s must be of type integer", r.Sym)
		}
		if isStr, err := r.Span.Len.IsStr(data); err != nil {
			return err
		} else if isStr {
			return fmt.Errorf("value of span length for %s must be of type integer", r.Sym)
		}
	}
	return nil
}

// IntrinsicReturn tags the backend type family of a runtime-intrinsic call's
// result, so the translator can check it against a MOVE destination without
// importing a concrete IR type system into this package.
type IntrinsicReturn int

const (
	RetInt IntrinsicReturn = iota
	RetFloat
	RetStr
)

// IntrinsicCall is a call to a named runtime helper, used as the source of a
// MOVE. It is distinct from the strcmp/strcpy/charcpy copy intrinsics, which
// the Move/Condition translators emit internally and never appear here.
type IntrinsicCall struct {
	Name    string
	Args    []Value
	Returns IntrinsicReturn
}

// MoveSourceKind tags the variant of a MoveSource.
type MoveSourceKind int

const (
	MoveSrcLiteral MoveSourceKind = iota
	MoveSrcRef
	MoveSrcIntrinsic
)

// MoveSource is the right-hand side of a MOVE statement.
type MoveSource struct {
	Kind      MoveSourceKind
	Lit       Literal
	Ref       *MoveRef
	Intrinsic *IntrinsicCall
}

// MoveData is one MOVE statement: source -> dest.
type MoveData struct {
	Source MoveSource
	Dest   MoveRef
}

// CondKind tags the variant of a Cond.
type CondKind int

const (
	CondEq CondKind = iota
	CondGe
	CondLe
	CondGt
	CondLt
	CondNot
	CondAnd
	CondOr
)

// Cond is a condition tree: comparisons over two Values, or a boolean
// combinator over one or two sub-conditions.
type Cond struct {
	Kind  CondKind
	Left  Value
	Right Value
	Inner *Cond
	L     *Cond
	R     *Cond
}

// CmpCond builds a comparison condition.
func CmpCond(kind CondKind, l, r Value) Cond {
	return Cond{Kind: kind, Left: l, Right: r}
}

// NotCond builds a NOT combinator.
func NotCond(inner Cond) Cond { return Cond{Kind: CondNot, Inner: &inner} }

// AndCond builds an AND combinator.
func AndCond(l, r Cond) Cond { return Cond{Kind: CondAnd, L: &l, R: &r} }

// OrCond builds an OR combinator.
func OrCond(l, r Cond) Cond { return Cond{Kind: CondOr, L: &l, R: &r} }

// IfData is a single IF statement. An IF with neither branch is a no-op; an
// IF with a then-branch must have a non-empty then-branch.
type IfData struct {
	Condition Cond
	IfStats   []Stat
	ElseStats []Stat
}

// StatKind tags the variant of a Stat.
type StatKind int

const (
	StatMove StatKind = iota
	StatIf
	// StatTerminate represents an unconditional, self-terminating statement
	// (the real source language's GOBACK/STOP RUN family). Lowering MOVE and
	// IF alone never produces a self-terminating statement, but the If
	// Translator's unreachable-statement bookkeeping (see spec) is defined
	// against an arbitrary statement stream, so this stand-in exercises that
	// bookkeeping without pulling the rest of the statement language into
	// this core's scope.
	StatTerminate
)

// Stat is a single source-language statement.
type Stat struct {
	Kind StatKind
	Move *MoveData
	If   *IfData
}

// MoveStat builds a MOVE statement.
func MoveStat(m MoveData) Stat { return Stat{Kind: StatMove, Move: &m} }

// IfStat builds an IF statement.
func IfStat(f IfData) Stat { return Stat{Kind: StatIf, If: &f} }

// TerminateStat builds a self-terminating statement.
func TerminateStat() Stat { return Stat{Kind: StatTerminate} }
