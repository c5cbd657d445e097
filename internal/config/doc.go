// Package config defines the format-agnostic model of a reactive program and
// of the scripted event streams used to drive it, along with the Loader and
// Converter interfaces that format-specific packages implement.
//
// The `config.Program` is the single source of truth the reactor builds a
// graph instance from. Concrete implementations of the interfaces, such as
// for HCL, are provided in separate packages.
package config
