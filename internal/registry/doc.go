// Package registry holds the units that the loader can resolve by name and
// the handles produced by loading them.
//
// A unit is a namespace of exported top-level symbols. Compiled-in modules
// register their units at startup through the Module interface; units coming
// from Go plugins are produced by the loader and never stored here. Each App
// owns exactly one Registry, so there is no process-wide table and nothing
// leaks between invocations.
package registry
