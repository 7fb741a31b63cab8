// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the resolve, check, and list-vars run
// modes, decoupled from any specific entrypoint like a CLI.
package app
