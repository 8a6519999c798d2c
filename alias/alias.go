// SPDX-License-Identifier: GPL-2.0-or-later

// Package alias implements console aliases, named pieces of console text.
package alias

import (
	"sort"
	"strings"

	"quakemodel/cbuf"
	"quakemodel/cmd"
	"quakemodel/conlog"
)

type Aliases map[string]string

func New() Aliases {
	return make(Aliases)
}

// Register adds the alias, unalias and unaliasall commands to c.
func (al Aliases) Register(c cmd.Commands) error {
	if err := c.Add("alias", al.alias); err != nil {
		return err
	}
	if err := c.Add("unalias", al.unalias); err != nil {
		return err
	}
	return c.Add("unaliasall", al.unaliasAll)
}

func (al Aliases) alias(a cmd.Arguments) error {
	args := a.Args()[1:]
	switch len(args) {
	case 0:
		al.list()
	case 1:
		if v, ok := al[args[0].String()]; ok {
			conlog.Printf("  %s: %s", args[0].String(), v)
		}
	default:
		// quotes are already stripped from the parts
		parts := make([]string, 0, len(args)-1)
		for _, p := range args[1:] {
			parts = append(parts, p.String())
		}
		al[args[0].String()] = strings.TrimSpace(strings.Join(parts, " ")) + "\n"
	}
	return nil
}

func (al Aliases) list() {
	if len(al) == 0 {
		conlog.SafePrintf("no alias commands found\n")
		return
	}
	names := make([]string, 0, len(al))
	for k := range al {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		// each value ends with a '\n'
		conlog.SafePrintf("  %s: %s", k, al[k])
	}
	conlog.SafePrintf("%v alias command(s)\n", len(al))
}

func (al Aliases) unalias(a cmd.Arguments) error {
	args := a.Args()[1:]
	if len(args) != 1 {
		conlog.Printf("unalias <name> : delete alias\n")
		return nil
	}
	name := args[0].String()
	if _, ok := al[name]; !ok {
		conlog.Printf("No alias named %s\n", name)
		return nil
	}
	delete(al, name)
	return nil
}

func (al Aliases) unaliasAll(_ cmd.Arguments) error {
	clear(al)
	return nil
}

// Execute returns an executor which expands aliases in front of the
// remaining buffer.
func (al Aliases) Execute() cbuf.Efunc {
	return func(cb *cbuf.CommandBuffer, a cmd.Arguments) (bool, error) {
		args := a.Args()
		if len(args) == 0 {
			return false, nil
		}
		v, ok := al[args[0].String()]
		if !ok {
			return false, nil
		}
		cb.InsertText(v)
		return true, nil
	}
}
