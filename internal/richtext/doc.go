// Package richtext implements the note editing engine: a block/run document
// model with markup round-tripping, the list line classifier and renumbering
// engine, selection snapshots, toolbar format commands and the keystroke
// interpreter that turns Enter/Tab inside list lines into list structure.
//
// The engine talks to the editable surface only through the Host interface.
// DocumentHost is the in-process implementation used by the TUI; tests can
// substitute their own.
package richtext
