package passes

import (
	"errors"
	"fmt"
	"strings"

	"tsa/internal/config"
)

// ErrUnknownPass is returned when a pass name does not name a Kind
var ErrUnknownPass = errors.New("invalid pass name provided")

// Kind is a pass that can be selected by name. Some kinds expand to several
// concrete Pass instances at dispatch time.
type Kind int

const (
	// GccrsParsing runs gccrs and rustc in parse-only mode on the rustc test suite
	GccrsParsing Kind = iota
	// RustcDejagnu runs rustc on gccrs' test suite
	RustcDejagnu
	// GccrsRustcSuccess runs gccrs on valid rustc test cases
	GccrsRustcSuccess
	// GccrsRustcSuccessNoStd runs gccrs on valid rustc test cases in #![no_std] mode
	GccrsRustcSuccessNoStd
	// GccrsRustcSuccessNoCore runs gccrs on valid rustc test cases in #![no_core] mode
	GccrsRustcSuccessNoCore
	// Blake3 compiles the reference implementation of the Blake3 hash function
	Blake3
	// LibCore compiles the core library of several Rust versions
	LibCore
	// AstExport round-trips the gccrs test suite through the AST pretty-printer
	AstExport
)

var kindNames = map[Kind]string{
	GccrsParsing:            "gccrs-parsing",
	RustcDejagnu:            "rustc-dejagnu",
	GccrsRustcSuccess:       "gccrs-rustc-success",
	GccrsRustcSuccessNoStd:  "gccrs-rustc-success-no-std",
	GccrsRustcSuccessNoCore: "gccrs-rustc-success-no-core",
	Blake3:                  "blake3",
	LibCore:                 "libcore",
	AstExport:               "ast-export",
}

// Kinds returns every kind in declaration order
func Kinds() []Kind {
	return []Kind{
		GccrsParsing,
		RustcDejagnu,
		GccrsRustcSuccess,
		GccrsRustcSuccessNoStd,
		GccrsRustcSuccessNoCore,
		Blake3,
		LibCore,
		AstExport,
	}
}

// Names returns the name of every kind
func Names() []string {
	var names []string
	for _, k := range Kinds() {
		names = append(names, k.String())
	}
	return names
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind returns the kind with the given name
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == strings.TrimSpace(name) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %s (expected one of %s)", ErrUnknownPass, name, strings.Join(Names(), ", "))
}

// ParseKinds parses every name, failing on the first unknown one
func ParseKinds(names []string) ([]Kind, error) {
	kinds := make([]Kind, 0, len(names))
	for _, name := range names {
		k, err := ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// Dispatch expands a kind into its concrete instances, in a fixed order
func Dispatch(kind Kind, cfg *config.Config) []Pass {
	switch kind {
	case GccrsParsing:
		return []Pass{Parsing{}}
	case RustcDejagnu:
		return []Pass{Dejagnu{}}
	case GccrsRustcSuccess:
		return []Pass{Successes{Variant: SuccessFull}}
	case GccrsRustcSuccessNoStd:
		return []Pass{Successes{Variant: SuccessNoStd}}
	case GccrsRustcSuccessNoCore:
		return []Pass{Successes{Variant: SuccessNoCore}}
	case Blake3:
		var instances []Pass
		for _, v := range Blake3Variants() {
			instances = append(instances, Blake3Template{Variant: v})
		}
		return instances
	case LibCore:
		var instances []Pass
		for _, tag := range cfg.LibcoreVersions {
			version := LookupLibraryVersion(tag)
			for _, step := range Steps() {
				instances = append(instances, Libcore{Version: version, Step: step})
			}
		}
		return instances
	case AstExport:
		return []Pass{
			AstRoundTrip{Mode: RoundTripCompile},
			AstRoundTrip{Mode: RoundTripRun},
		}
	default:
		return nil
	}
}
