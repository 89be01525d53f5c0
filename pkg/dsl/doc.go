/*
Package dsl provides a Go DSL for programmatically constructing scene
definitions.

It lets developers define node-and-edge scenes with a type-safe, fluent
builder instead of external YAML or JSON files. This is particularly useful
for embedded demo scenes, unit tests, and IDE autocompletion.

Example usage:

	package main

	import (
		"github.com/aretw0/nexus/pkg/dsl"
	)

	func main() {
		b := dsl.New("dashboard")

		b.ML("neural-net").Label("Neural Net").
			Link("risk-engine")

		b.Financial("ledger").
			Link("neural-net")

		b.Advanced("risk-engine")

		// The resulting loader can be passed to nexus.New(...)
		loader, _ := b.Build()
		_ = loader
	}
*/
package dsl
