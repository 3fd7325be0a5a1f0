// Package output renders command results for tracker-cli.
//
// Results are rendered as aligned tables for people, or as JSON or YAML
// for scripts. Field names follow the json tags of the rendered types in
// every format. Spinner gives feedback while a remote call is in flight.
package output
