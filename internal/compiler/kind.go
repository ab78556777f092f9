package compiler

import "fmt"

// Kind identifies one of the two compilers being cross-validated
type Kind int

const (
	// Reference is the reference implementation (rustc)
	Reference Kind = iota
	// Target is the implementation under test (gccrs)
	Target
)

func (k Kind) String() string {
	switch k {
	case Reference:
		return "rustc"
	case Target:
		return "gccrs"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Edition is a Rust edition understood by both compilers
type Edition string

// Edition2021 is the only edition the passes use
const Edition2021 Edition = "2021"

// CrateType is the kind of crate to produce
type CrateType string

// CrateTypeLibrary produces a library crate
const CrateTypeLibrary CrateType = "lib"

// backend maps the capability vocabulary onto one compiler's flags and environment.
// Returning nil means the compiler has no equivalent and the capability is ignored.
type backend interface {
	defaultArgs() []string
	defaultEnv() []string
	crateName(name string) []string
	crateType(t CrateType) []string
	edition(e Edition) []string
}

func backendFor(k Kind) backend {
	if k == Target {
		return gccrs{}
	}
	return rustc{}
}

type rustc struct{}

func (rustc) defaultArgs() []string { return nil }

// RUSTC_BOOTSTRAP unlocks -Z flags and feature gates on a stable toolchain
func (rustc) defaultEnv() []string { return []string{"RUSTC_BOOTSTRAP=1"} }

func (rustc) crateName(name string) []string { return []string{"--crate-name", name} }

func (rustc) crateType(t CrateType) []string { return []string{"--crate-type", string(t)} }

func (rustc) edition(e Edition) []string { return []string{"--edition", string(e)} }

type gccrs struct{}

// -x rust makes gccrs accept files with other extensions, such as pretty-printed dumps
func (gccrs) defaultArgs() []string {
	return []string{"-x", "rust", "-frust-incomplete-and-experimental-compiler-do-not-use"}
}

func (gccrs) defaultEnv() []string { return nil }

func (gccrs) crateName(name string) []string { return []string{"-frust-crate=" + name} }

func (gccrs) crateType(CrateType) []string { return nil }

func (gccrs) edition(e Edition) []string { return []string{"-frust-edition=" + string(e)} }
