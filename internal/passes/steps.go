package passes

import "strings"

// Step is a gccrs pipeline stage compilation can be stopped at
type Step int

const (
	StepExpansion Step = iota
	StepTypeCheck
	StepEnd
)

// Steps returns every step in pipeline order
func Steps() []Step {
	return []Step{StepExpansion, StepTypeCheck, StepEnd}
}

func (s Step) String() string {
	switch s {
	case StepExpansion:
		return "expansion"
	case StepTypeCheck:
		return "typecheck"
	default:
		return "end"
	}
}

// Flag is the gccrs argument stopping compilation after the step
func (s Step) Flag() string {
	return "-frust-compile-until=" + s.String()
}

// LibraryVersion locates the core library inside a rust checkout of a given tag
type LibraryVersion struct {
	Tag string
	// Subtree is the directory holding the library sources, relative to the repository
	Subtree string
	// Entry is the crate root, relative to the repository
	Entry string
}

var libraryVersions = map[string]LibraryVersion{
	"1.49.0": {Tag: "1.49.0", Subtree: "library/core", Entry: "library/core/src/lib.rs"},
	"1.29.0": {Tag: "1.29.0", Subtree: "src/libcore", Entry: "src/libcore/lib.rs"},
}

// LookupLibraryVersion returns the layout of a known tag. Unknown tags are
// assumed to use the library/ layout rust adopted in 1.47.
func LookupLibraryVersion(tag string) LibraryVersion {
	tag = strings.TrimSpace(tag)
	if v, ok := libraryVersions[tag]; ok {
		return v
	}
	return LibraryVersion{Tag: tag, Subtree: "library/core", Entry: "library/core/src/lib.rs"}
}
