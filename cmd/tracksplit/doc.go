// Package main hosts the tracksplit CLI.
//
// The Cobra command tree resolves configuration and logging once, wires the
// splitter with its transcoder, local retriever, event bus, and history
// store, and renders results as tables or JSON. Commands stay thin; the
// behaviour lives in the internal packages.
package main
