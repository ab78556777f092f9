package passes

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"tsa/internal/compiler"
	"tsa/internal/discovery"
	"tsa/internal/domain"
)

// blake3Template is the Blake3 reference implementation
//
//go:embed templates/blake3.rs
var blake3Template string

// langItemsPrelude declares the lang items a #![no_core] crate needs
//
//go:embed templates/lang_items.rs
var langItemsPrelude string

// Blake3Variant is one prelude and compiler combination
type Blake3Variant int

const (
	Blake3GccrsOriginal Blake3Variant = iota
	Blake3GccrsPrelude
	Blake3RustcNoStd
	Blake3RustcNoCore
)

// Blake3Variants returns every variant
func Blake3Variants() []Blake3Variant {
	return []Blake3Variant{
		Blake3GccrsOriginal,
		Blake3GccrsPrelude,
		Blake3RustcNoStd,
		Blake3RustcNoCore,
	}
}

// Suffix is appended to the file and test names of the variant
func (v Blake3Variant) Suffix() string {
	switch v {
	case Blake3GccrsPrelude:
		return "gccrs-prelude"
	case Blake3RustcNoStd:
		return "rustc-no-std"
	case Blake3RustcNoCore:
		return "rustc-no-core"
	default:
		return "original"
	}
}

func (v Blake3Variant) prelude() string {
	switch v {
	case Blake3GccrsPrelude:
		return langItemsPrelude
	case Blake3RustcNoStd:
		return "#![no_std]\n"
	case Blake3RustcNoCore:
		return "#![feature(no_core)]\n#![no_core]\n" + langItemsPrelude
	default:
		return ""
	}
}

func (v Blake3Variant) compiler() compiler.Kind {
	switch v {
	case Blake3RustcNoStd, Blake3RustcNoCore:
		return compiler.Reference
	default:
		return compiler.Target
	}
}

// Blake3Template compiles the embedded Blake3 template with one variant's prelude
type Blake3Template struct {
	Variant Blake3Variant
}

func (b Blake3Template) Name() string { return Blake3.String() + "-" + b.Variant.Suffix() }

func (Blake3Template) FetchMode() FetchMode { return FetchParallel }

// Fetch synthesizes the single source file of the variant
func (b Blake3Template) Fetch(_ context.Context, env *Env) ([]domain.TestFile, error) {
	name := fmt.Sprintf("blake3-%s.rs", b.Variant.Suffix())
	path := env.Config.StagingDir(Blake3.String(), name)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", discovery.ErrMaterialize, err)
	}
	if err := os.WriteFile(path, []byte(b.Variant.prelude()+blake3Template), 0644); err != nil {
		return nil, fmt.Errorf("%w: %v", discovery.ErrMaterialize, err)
	}

	return []domain.TestFile{domain.NewTestFile(path, name)}, nil
}

func (b Blake3Template) Adapt(_ context.Context, env *Env, file domain.TestFile) (domain.TestCase, error) {
	inv := env.Compiler(b.Variant.compiler()).
		CrateType(compiler.CrateTypeLibrary).
		Arg(file.Path)

	return newTest(fmt.Sprintf("Compile Blake3 reference implementation (%s)", b.Variant.Suffix()), inv, 0)
}
