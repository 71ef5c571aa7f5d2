// Package types holds project-wide identifiers shared by the abacus binary
// and its stored data.
package types

// Version is the canonical project version reported by `abacus version`.
const Version = "0.1.0"
