// Package output renders civ7save CLI results as a table, JSON or YAML.
//
// Values that know how to lay themselves out as rows implement Tabular;
// anything else falls back to indented JSON in table mode.
package output
