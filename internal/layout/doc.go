// Package layout owns the fixed mount-position tables.
//
// Four tables exist, keyed by (symmetric, count==4). Each entry is an
// ordered list of offsets relative to the anchor's placement origin:
// one per component slot, indexed from 0. Nothing is computed at
// runtime; the values match the physical base and part geometry.
//
// Count must be 4 or 6. Callers validate at the boundary (see
// ClampCount and Lookup); Resolve treats anything else as a
// programming error.
package layout
