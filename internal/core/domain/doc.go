// Package domain defines the core domain models for civ7save.
//
// Domain models are plain values without IO dependencies:
//
//   - Chunk: one tagged record, with a closed set of payload shapes
//   - Marker: the 4-byte record identity tag and the known marker table
//   - RawChunkData: the five top-level record groups of a save
//   - ParsedSave: turn, age and players extracted from the raw groups
//   - Node: the marker+value projection used for external rendering
//   - Errors: coded domain errors, including the three decode failures
//
// A decoded tree is built once and never mutated; parents own their
// children by value.
package domain
