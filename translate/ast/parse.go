package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Program is the parsed result of one function body written in the minimal
// fixed-format DSL this package understands (see Parse). It is not a
// general source-language grammar - only enough to exercise FuncTranslator
// end to end without a real front end.
type Program struct {
	// PicDecls declares each variable's kind/size, in declaration order.
	PicDecls []PicDecl
	Stats    []Stat
	// Strings is the literal table populated by string literals encountered
	// during parsing, indexed by StringID.
	Strings [][]byte
}

// PicDecl is one `PIC <name> <STR <n>|INT|FLOAT>` declaration.
type PicDecl struct {
	Sym      string
	Kind     string // "STR", "INT", or "FLOAT"
	StrChars int    // usable character capacity for STR (excludes NUL)
}

// Parse reads the minimal textual DSL, for example:
//
//	PIC A STR 10
//	PIC R INT
//	MOVE "HI" TO A
//	IF A = "HI" THEN MOVE 1 TO R ELSE MOVE 0 TO R
//
// One statement per line; blank lines and lines starting with '#' are
// ignored. IF/THEN/ELSE must be on a single line (no block IF bodies) -
// sufficient to drive the translator's core logic without a real grammar.
func Parse(src string) (*Program, error) {
	p := &Program{}
	for lineNo, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := p.parseLine(line); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
		}
	}
	return p, nil
}

func (p *Program) parseLine(line string) error {
	switch {
	case strings.HasPrefix(line, "PIC "):
		decl, err := parsePic(line)
		if err != nil {
			return err
		}
		p.PicDecls = append(p.PicDecls, decl)
		return nil
	case strings.HasPrefix(line, "MOVE "):
		stat, err := p.parseMove(line)
		if err != nil {
			return err
		}
		p.Stats = append(p.Stats, stat)
		return nil
	case strings.HasPrefix(line, "IF "):
		stat, err := p.parseIf(line)
		if err != nil {
			return err
		}
		p.Stats = append(p.Stats, stat)
		return nil
	default:
		return fmt.Errorf("unrecognized statement: %q", line)
	}
}

func parsePic(line string) (PicDecl, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return PicDecl{}, fmt.Errorf("malformed PIC declaration: %q", line)
	}
	sym, kind := fields[1], strings.ToUpper(fields[2])
	switch kind {
	case "INT", "FLOAT":
		return PicDecl{Sym: sym, Kind: kind}, nil
	case "STR":
		if len(fields) < 4 {
			return PicDecl{}, fmt.Errorf("STR PIC %q missing character count", sym)
		}
		n, err := strconv.Atoi(fields[3])
		if err != nil {
			return PicDecl{}, fmt.Errorf("STR PIC %q has invalid character count: %w", sym, err)
		}
		return PicDecl{Sym: sym, Kind: "STR", StrChars: n}, nil
	default:
		return PicDecl{}, fmt.Errorf("unknown PIC kind %q", kind)
	}
}

// parseMove handles `MOVE <src> TO <dest>`, where dest may carry a span
// `NAME(start:)` or `NAME(start:len)`.
func (p *Program) parseMove(line string) (Stat, error) {
	rest := strings.TrimPrefix(line, "MOVE ")
	srcText, destText, ok := splitOnKeyword(rest, "TO")
	if !ok {
		return Stat{}, fmt.Errorf("MOVE statement missing TO: %q", line)
	}
	dest, err := parseMoveRef(strings.TrimSpace(destText))
	if err != nil {
		return Stat{}, err
	}

	var source MoveSource
	trimmedSrc := strings.TrimSpace(srcText)
	if strings.HasPrefix(trimmedSrc, "\"") {
		lit, err := p.internString(trimmedSrc)
		if err != nil {
			return Stat{}, err
		}
		source = MoveSource{Kind: MoveSrcLiteral, Lit: lit}
	} else if n, err := strconv.ParseInt(trimmedSrc, 10, 64); err == nil {
		source = MoveSource{Kind: MoveSrcLiteral, Lit: Literal{Kind: LitInt, IntVal: n}}
	} else if f, err := strconv.ParseFloat(trimmedSrc, 64); err == nil {
		source = MoveSource{Kind: MoveSrcLiteral, Lit: Literal{Kind: LitFloat, FloatVal: f}}
	} else {
		// A variable reference, possibly spanned - the only MOVE source that
		// may carry one.
		ref, err := parseMoveRef(trimmedSrc)
		if err != nil {
			return Stat{}, err
		}
		source = MoveSource{Kind: MoveSrcRef, Ref: &ref}
	}
	return MoveStat(MoveData{Source: source, Dest: dest}), nil
}

// parseIf handles `IF <cond> THEN <stat> [ELSE <stat>]`, where <stat> is a
// single MOVE statement (sufficient for the scenarios this DSL targets).
func (p *Program) parseIf(line string) (Stat, error) {
	rest := strings.TrimPrefix(line, "IF ")
	condText, tail, ok := splitOnKeyword(rest, "THEN")
	if !ok {
		return Stat{}, fmt.Errorf("IF statement missing THEN: %q", line)
	}
	cond, err := p.parseCond(strings.TrimSpace(condText))
	if err != nil {
		return Stat{}, err
	}

	thenText, elseText, hasElse := splitOnKeyword(tail, "ELSE")
	if !hasElse {
		thenText = tail
	}

	thenStat, err := p.parseMove("MOVE " + strings.TrimPrefix(strings.TrimSpace(thenText), "MOVE "))
	if err != nil {
		return Stat{}, err
	}
	ifData := IfData{Condition: cond, IfStats: []Stat{thenStat}}
	if hasElse {
		elseStat, err := p.parseMove("MOVE " + strings.TrimPrefix(strings.TrimSpace(elseText), "MOVE "))
		if err != nil {
			return Stat{}, err
		}
		ifData.ElseStats = []Stat{elseStat}
	}
	return IfStat(ifData), nil
}

var condOps = []struct {
	token string
	kind  CondKind
}{
	{"=", CondEq},
	{">=", CondGe},
	{"<=", CondLe},
	{">", CondGt},
	{"<", CondLt},
}

func (p *Program) parseCond(text string) (Cond, error) {
	// Longest operators first so ">=" isn't split as ">" followed by "=".
	for _, op := range []string{">=", "<=", "=", ">", "<"} {
		if idx := strings.Index(text, op); idx >= 0 {
			lhs := strings.TrimSpace(text[:idx])
			rhs := strings.TrimSpace(text[idx+len(op):])
			l, err := p.parseOperand(lhs)
			if err != nil {
				return Cond{}, err
			}
			r, err := p.parseOperand(rhs)
			if err != nil {
				return Cond{}, err
			}
			for _, co := range condOps {
				if co.token == op {
					return CmpCond(co.kind, l, r), nil
				}
			}
		}
	}
	return Cond{}, fmt.Errorf("unrecognized condition: %q", text)
}

func (p *Program) parseOperand(text string) (Value, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "\"") {
		lit, err := p.internString(text)
		if err != nil {
			return Value{}, err
		}
		return Lit(lit), nil
	}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return Lit(Literal{Kind: LitInt, IntVal: n}), nil
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return Lit(Literal{Kind: LitFloat, FloatVal: f}), nil
	}
	// Bare identifier (possibly spanned) - a variable reference.
	ref, err := parseMoveRef(text)
	if err != nil {
		return Value{}, err
	}
	if ref.Span != nil {
		return Value{}, fmt.Errorf("spans are only valid on MOVE references, not %q", text)
	}
	return Var(ref.Sym), nil
}

func (p *Program) internString(text string) (Literal, error) {
	if !strings.HasPrefix(text, "\"") || !strings.HasSuffix(text, "\"") || len(text) < 2 {
		return Literal{}, fmt.Errorf("malformed string literal: %q", text)
	}
	raw := []byte(text[1 : len(text)-1])
	id := len(p.Strings)
	p.Strings = append(p.Strings, raw)
	return Literal{Kind: LitString, StringID: id}, nil
}

// parseMoveRef parses `NAME`, `NAME(start:)`, or `NAME(start:len)`.
func parseMoveRef(text string) (MoveRef, error) {
	open := strings.Index(text, "(")
	if open < 0 {
		return MoveRef{Sym: text}, nil
	}
	if !strings.HasSuffix(text, ")") {
		return MoveRef{}, fmt.Errorf("malformed span on %q", text)
	}
	sym := text[:open]
	inner := text[open+1 : len(text)-1]
	colon := strings.Index(inner, ":")
	if colon < 0 {
		return MoveRef{}, fmt.Errorf("span on %q missing ':'", text)
	}
	startText := strings.TrimSpace(inner[:colon])
	lenText := strings.TrimSpace(inner[colon+1:])

	startIdx, err := parseIntOperand(startText)
	if err != nil {
		return MoveRef{}, fmt.Errorf("span start on %q: %w", text, err)
	}
	span := &MoveSpan{StartIdx: startIdx}
	if lenText != "" {
		lenVal, err := parseIntOperand(lenText)
		if err != nil {
			return MoveRef{}, fmt.Errorf("span length on %q: %w", text, err)
		}
		span.Len = &lenVal
	}
	return MoveRef{Sym: sym, Span: span}, nil
}

func parseIntOperand(text string) (Value, error) {
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return Lit(Literal{Kind: LitInt, IntVal: n}), nil
	}
	return Var(text), nil
}

// splitOnKeyword splits text on the first standalone occurrence of keyword
// (surrounded by whitespace), returning (before, after, found).
func splitOnKeyword(text, keyword string) (string, string, bool) {
	fields := strings.Fields(text)
	for i, f := range fields {
		if strings.EqualFold(f, keyword) {
			before := strings.Join(fields[:i], " ")
			after := strings.Join(fields[i+1:], " ")
			return before, after, true
		}
	}
	return text, "", false
}
