// Package cliapp implements the interactive client REPL: parsing
// newline-terminated commands from standard input and rendering cache
// responses back to the user. This is explicitly the CLI front-end named
// out-of-core by the specification, built here only as the external
// collaborator the core's client multiplexer needs for end-to-end use.
package cliapp

import (
	"fmt"
	"strings"
)

// Verb identifies which cache operation a parsed Command requests.
type Verb int

const (
	VerbGet Verb = iota
	VerbSet
	VerbDelete
	VerbFlush
	VerbExit
)

// Command is one parsed REPL input line.
type Command struct {
	Verb  Verb
	Key   string
	Value string
}

// ParseLine parses a single line of user input. Keys and values must not
// contain whitespace, which strings.Fields enforces implicitly by using
// whitespace as the only field separator.
func ParseLine(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}

	switch strings.ToLower(fields[0]) {
	case "get":
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("usage: get <key>")
		}
		return Command{Verb: VerbGet, Key: fields[1]}, nil

	case "set":
		if len(fields) != 3 {
			return Command{}, fmt.Errorf("usage: set <key> <value>")
		}
		return Command{Verb: VerbSet, Key: fields[1], Value: fields[2]}, nil

	case "delete":
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("usage: delete <key>")
		}
		return Command{Verb: VerbDelete, Key: fields[1]}, nil

	case "flush":
		if len(fields) != 1 {
			return Command{}, fmt.Errorf("usage: flush")
		}
		return Command{Verb: VerbFlush}, nil

	case "exit":
		if len(fields) != 1 {
			return Command{}, fmt.Errorf("usage: exit")
		}
		return Command{Verb: VerbExit}, nil

	default:
		return Command{}, fmt.Errorf("unknown command: %s", fields[0])
	}
}
