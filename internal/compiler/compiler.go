// Package compiler builds invocations of the reference and target compilers.
//
// An Invocation collects capabilities (crate name, crate type, edition) and
// positional arguments. Finalize materializes it into a Command whose
// argument list is always kind defaults, then capabilities, then positional
// arguments, since both compilers are sensitive to flag order.
package compiler

import (
	"errors"
	"io"
	"slices"

	"tsa/internal/process"
)

// ErrFinalized is returned when an invocation is finalized twice
var ErrFinalized = errors.New("compiler invocation already finalized")

// Invocation is a compiler invocation under construction
type Invocation struct {
	kind   Kind
	binary string
	args   []string
	env    []string

	crateName string
	crateType CrateType
	edition   Edition

	stdout io.Writer
	stderr io.Writer
	dir    string

	finalized bool
}

// New creates an invocation of the given compiler binary
func New(kind Kind, binary string) *Invocation {
	return &Invocation{kind: kind, binary: binary}
}

// Kind returns the compiler kind
func (inv *Invocation) Kind() Kind {
	return inv.kind
}

// CrateName sets the crate name
func (inv *Invocation) CrateName(name string) *Invocation {
	inv.crateName = name
	return inv
}

// CrateType sets the crate type. gccrs has no equivalent and ignores it.
func (inv *Invocation) CrateType(t CrateType) *Invocation {
	inv.crateType = t
	return inv
}

// Edition sets the language edition
func (inv *Invocation) Edition(e Edition) *Invocation {
	inv.edition = e
	return inv
}

// Arg appends positional arguments
func (inv *Invocation) Arg(args ...string) *Invocation {
	inv.args = append(inv.args, args...)
	return inv
}

// Env adds an environment override in KEY=value form
func (inv *Invocation) Env(key, value string) *Invocation {
	inv.env = append(inv.env, key+"="+value)
	return inv
}

// Dir sets the working directory of the compiler process
func (inv *Invocation) Dir(dir string) *Invocation {
	inv.dir = dir
	return inv
}

// Stdout captures standard output instead of discarding it
func (inv *Invocation) Stdout(w io.Writer) *Invocation {
	inv.stdout = w
	return inv
}

// Stderr captures standard error instead of discarding it
func (inv *Invocation) Stderr(w io.Writer) *Invocation {
	inv.stderr = w
	return inv
}

// Finalize applies the kind defaults and materializes the invocation.
// It can only be called once.
func (inv *Invocation) Finalize() (Command, error) {
	if inv.finalized {
		return Command{}, ErrFinalized
	}
	inv.finalized = true

	b := backendFor(inv.kind)

	args := slices.Clone(b.defaultArgs())
	if inv.edition != "" {
		args = append(args, b.edition(inv.edition)...)
	}
	if inv.crateName != "" {
		args = append(args, b.crateName(inv.crateName)...)
	}
	if inv.crateType != "" {
		args = append(args, b.crateType(inv.crateType)...)
	}
	args = append(args, inv.args...)

	env := append(slices.Clone(b.defaultEnv()), inv.env...)

	return Command{
		kind:   inv.kind,
		binary: inv.binary,
		args:   args,
		env:    env,
		dir:    inv.dir,
		stdout: inv.stdout,
		stderr: inv.stderr,
	}, nil
}

// Command is a finalized, immutable compiler invocation
type Command struct {
	kind   Kind
	binary string
	args   []string
	env    []string
	dir    string
	stdout io.Writer
	stderr io.Writer
}

// Kind returns the compiler kind
func (c Command) Kind() Kind {
	return c.kind
}

// Binary returns the compiler binary
func (c Command) Binary() string {
	return c.binary
}

// Args returns a copy of the full argument list
func (c Command) Args() []string {
	return slices.Clone(c.args)
}

// Env returns a copy of the environment overrides
func (c Command) Env() []string {
	return slices.Clone(c.env)
}

// Spec converts the command into a process specification
func (c Command) Spec() process.Spec {
	return process.Spec{
		Binary: c.binary,
		Args:   c.Args(),
		Env:    c.Env(),
		Dir:    c.dir,
		Stdout: c.stdout,
		Stderr: c.stderr,
	}
}
