// Package app contains the core application logic: it finds and loads the
// recipe file, then lists, dumps or runs recipes, once or in watch mode. It
// is decoupled from the command line; see internal/cli for that.
package app
