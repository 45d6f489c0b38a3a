// Package command provides the command definitions of the civ7save CLI.
//
// Commands decode save files locally; nothing talks to a server. The save
// index used by scan, watch and index lives in a badger directory named by
// the CLI configuration.
package command
