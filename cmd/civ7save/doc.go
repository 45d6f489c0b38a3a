// Package main provides the entry point for civ7save, a command-line tool
// that decodes Civilization VII save files.
//
// Usage:
//
// 	civ7save decode FILE [--group N]
// 	civ7save summary FILE...
// 	civ7save scan [DIR] [--index] [--jobs N]
// 	civ7save watch [DIR] [--index]
// 	civ7save index list|show|rm
//
// Output is a table by default; --output json|yaml selects a machine
// format. Settings are read from ~/.civ7save/cli.yaml and CIV7SAVE_CLI_*
// variables.
package main
