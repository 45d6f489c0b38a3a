// Package service turns decoded save files into the views callers use.
//
// This package contains:
//
//   - Extract: locates turn, age and players by marker
//   - Simplify: strips offsets and types from a chunk tree and prunes
//     branches with no readable value
//   - SaveService: decode entry point with caching, metrics and logging
//
// Extract and Simplify are pure functions. SaveService is safe for
// concurrent use.
package service
