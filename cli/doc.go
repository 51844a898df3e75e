// Package cli contains the command line interface for grand.
//
// # Usage
//
// The default command generates samples from a Grand Expression:
//
//	grand '0..100|*5'
//	grand -n 10 --seed 42 '[1, 2, 3]'
//	grand gen --where 'x > 50' '0..100'
//
// Expressions starting with a minus sign must follow the "--" terminator:
//
//	grand -- '-10..10'
//
// Other commands inspect an expression without sampling it:
//
//	grand tokens '0..10|!*3'
//	grand tree --format yaml '(0..10),,20'
//	grand fmt '0  ..  10 | * 2'
//
// The repl command starts an interactive session with persistent history.
//
// # Configuration
//
// Flags may also be set in a YAML file at the path returned by
// [pkg.ConfigFile], or the JSON file of the same name with extension ".json".
// Logging is configured with the --log-* flags and profiling, when built with
// the pprof tag, with the --pprof-* flags.
package cli
