// Package core contains canonical announcement domain contracts and entities.
// Lower-level adapters and stores must depend on this package; core must not
// depend on format-specific or transport-specific adapters.
package core
