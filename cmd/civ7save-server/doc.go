// Package main provides the entry point for civ7save-server.
//
// civ7save-server decodes Civilization VII save files over HTTP and keeps
// an index of their summaries.
//
// Usage:
//
//	civ7save-server [flags]
//	civ7save-server --config /etc/civ7save/server.yaml
//
// Environment variables prefixed CIV7SAVE_ override the file
// (CIV7SAVE_SERVER_HTTP_ADDR -> server.http.addr). Editing the file while
// the server runs applies a new log.level without a restart.
package main
