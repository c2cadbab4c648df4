// Package cli contains the command line interface for choixe.
//
// # Usage
//
// The CLI provides three subcommands plus logging and profiling
// configuration:
//
//	choixe process doc.yaml
//	choixe inspect doc.yaml
//	choixe repl doc.yaml
//	choixe --log-level=debug --pprof-mode=cpu process doc.yaml
//
// # Subcommands
//
//   - [cmd.Process]: compile a document and evaluate every directive it
//     contains, printing one result per sweep alternative
//   - [cmd.Inspect]: report a document's external dependencies (variables,
//     imports, calls, models, loops) without evaluating it
//   - [cmd.Repl]: start an interactive evaluator against a live context
//
// # Configuration Loader
//
// The package includes a Kong configuration loader ([resolve]) that reads
// YAML config files and converts a named top-level mapping to Kong flag
// values, mapping underscores to hyphens so either spelling resolves.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o choixe .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/choixe/pprof)
//
// # Examples
//
//	# Debug logging with CPU profiling
//	choixe --log-level=debug --pprof-mode=cpu process doc.yaml
//
//	# Text format with heap profiling
//	choixe --log-format=text --pprof-mode=heap process doc.yaml
//
//	# Custom profile directory
//	choixe --pprof-mode=allocs --pprof-dir=/tmp/profiles process doc.yaml
package cli
