package version

// mainpkg is the canonical import path the binary was built from.
var mainpkg = "mirror-generator"

// tool is the generator name recorded in generated file headers.
var tool = "mirror-generator"

// version is set at link time with
// -ldflags "-X mirror-generator/internal/version.version=v0.3.0".
var version = "v0.3.0+unknown"

// revision is filled with the VCS revision at link time.
var revision = ""
