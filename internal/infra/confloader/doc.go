// Package confloader provides configuration loading mechanism.
//
// It uses koanf to merge configuration from several sources into a typed
// struct. Priority (highest to lowest):
//
//  1. Maps loaded with LoadMap (command-line flags)
//  2. Environment variables
//  3. Configuration file (YAML)
//  4. Values already present in the target struct (defaults)
//
// Watcher wraps fsnotify for config reloads and for directories that
// receive new save files.
package confloader
