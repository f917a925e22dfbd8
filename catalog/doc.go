// Package catalog is the fixed set of effects a pedalboard can be built
// from. Each entry pairs an effect name with its parameter defaults, in the
// order they are presented, and the fx constructor that builds it.
//
// The registry is immutable once built; Default returns the shared
// built-in catalog.
package catalog
