package version

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Package returns the import path under which the binary was built.
func Package() string {
	return mainpkg
}

// Tool returns the generator name written into file headers.
func Tool() string {
	return tool
}

// Version returns the version the running binary was built from.
func Version() string {
	return version
}

// Revision returns the VCS revision used at link time.
func Revision() string {
	return revision
}

// Semver returns Version without the leading "v" and any build metadata,
// the form recorded in generated headers: "v0.3.0+unknown" yields "0.3.0".
func Semver() string {
	v := strings.TrimPrefix(version, "v")
	if i := strings.IndexByte(v, '+'); i >= 0 {
		v = v[:i]
	}

	return v
}

// FprintVersion outputs the version string to the writer, in the following
// format, followed by a newline:
//
//	<cmd> <project> <version>
func FprintVersion(w io.Writer) {
	fmt.Fprintln(w, os.Args[0], Package(), Version())
}

// PrintVersion outputs the version information, from Fprint, to stdout.
func PrintVersion() {
	FprintVersion(os.Stdout)
}
