// Package config defines the format-agnostic configuration of the harness and
// the Loader interface implemented by the HCL, YAML and TOML loaders.
//
// A configuration file decodes into File, whose fields are all optional. File
// is then applied on top of Default() to produce the Settings used by the
// app package. Concrete loaders live in separate packages.
package config
