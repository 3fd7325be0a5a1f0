// Package confloader loads layered configuration with koanf.
//
// Sources, highest priority first:
//
//  1. Explicit overrides (command-line flags, via LoadMap)
//  2. Environment variables (TRACKER_ prefix, "__" separates sections)
//  3. The YAML configuration file
//  4. Defaults already present in the target struct
//
// Watcher reports edits to the configuration file so long-running
// processes can re-apply the settings that are safe to change live.
package confloader
