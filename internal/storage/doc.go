// Package storage persists the save index.
//
//   - kv.go: KVEngine interface and configuration
//   - badger.go: Badger v3 implementation, on disk or in memory
//   - index.go: SaveIndex, decoded save summaries keyed by ULID
//
// Keys:
//
//	save/<ulid>         JSON SaveRecord
//	fp/<fingerprint>    ulid of the record with that content
package storage
