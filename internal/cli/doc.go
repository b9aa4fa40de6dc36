// Package cli builds the harp command line. It merges defaults, the optional
// config file, the environment and flags into the run configuration, sets up
// logging and maps failures to process exit codes.
package cli
