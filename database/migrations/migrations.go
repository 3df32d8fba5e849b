// Package migrations declares the schema history. Every file in this
// package registers one migration from init, so a blank import of the
// package is enough to make the full set available to the migrate
// commands.
package migrations
