// Command cobaltgen reads one function body written in the minimal DSL
// translate/ast.Parse understands, lowers it through the translator, and
// emits an ELF object file via the core-codegen backend.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/arc-language/core-builder/builder"
	"github.com/arc-language/core-builder/types"

	codegen "github.com/arc-language/core-codegen-translate"
	"github.com/arc-language/core-codegen-translate/translate"
	"github.com/arc-language/core-codegen-translate/translate/ast"
	"github.com/arc-language/core-codegen-translate/translate/data"
	"github.com/arc-language/core-codegen-translate/translate/intrinsics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "cobaltgen:", err)
		os.Exit(1)
	}
}

func run() error {
	in := flag.String("in", "", "path to a DSL source file")
	out := flag.String("out", "a.o", "path to write the ELF object file to")
	fn := flag.String("func", "main", "name of the generated function")
	flag.Parse()

	if *in == "" {
		return fmt.Errorf("-in is required")
	}
	src, err := os.ReadFile(*in)
	if err != nil {
		return fmt.Errorf("reading %s: %w", *in, err)
	}

	prog, err := ast.Parse(string(src))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", *in, err)
	}

	b := builder.New()
	module := b.CreateModule(*fn + "_module")
	mgr := data.NewManager(b)

	// Declaration order matters here: the Manager assigns each interned
	// string the same sequential ID Parse already baked into its literals.
	for _, raw := range prog.Strings {
		mgr.InternString(raw)
	}
	for _, decl := range prog.PicDecls {
		pic, err := picFromDecl(decl)
		if err != nil {
			return err
		}
		if err := mgr.DeclareVar(decl.Sym, pic); err != nil {
			return err
		}
	}

	b.CreateFunction(*fn, types.Void, nil, false)
	entry := b.CreateBlock("entry")
	b.SetInsertPoint(entry)

	copyIntrinsics := intrinsics.NewRegistry(b)
	externs := intrinsics.NewFuncTable(b)
	ft := translate.NewFuncTranslator(b, mgr, copyIntrinsics, externs)
	terminated, err := ft.TranslateFunction(prog.Stats)
	if err != nil {
		return fmt.Errorf("translating %s: %w", *in, err)
	}
	if !terminated {
		b.CreateRet(nil)
	}

	obj, err := codegen.GenerateObject(module)
	if err != nil {
		return fmt.Errorf("generating object code: %w", err)
	}
	if err := os.WriteFile(*out, obj, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", *out, err)
	}
	return nil
}

func picFromDecl(decl ast.PicDecl) (data.Pic, error) {
	switch decl.Kind {
	case "INT":
		return data.NewIntPic(), nil
	case "FLOAT":
		return data.NewFloatPic(), nil
	case "STR":
		return data.NewStrPic(decl.StrChars), nil
	default:
		return data.Pic{}, fmt.Errorf("unknown PIC kind %q for %s", decl.Kind, decl.Sym)
	}
}
