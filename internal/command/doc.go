// Package command encodes structured launcher commands into protocol lines.
//
// The launcher reads one command per line on stdin:
//
//	<command>[ <positional tokens>][ -<flag>]*[ --<key> <value>]*
//
// Each command family (login, launch, fabric, forge, download, quit) has a
// typed record that yields its positional tokens and an insertion-ordered
// option list. Encode turns a record into a line; Parse reverses it.
package command
