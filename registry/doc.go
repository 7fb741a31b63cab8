// Package registry provides the central "glue" for the plugin system.
//
// The Registry is responsible for storing mappings between the module
// names used in config documents (e.g. "file_writer") and the compiled
// Go implementations behind them: the config schema, the optional typed
// config struct, and the init hook that produces a plugin instance.
//
// During application startup, the registry is populated and then
// validated to ensure that the declared schemas and the Go config
// structs are perfectly in sync, preventing a wide class of runtime
// decode errors.
package registry
