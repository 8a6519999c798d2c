// SPDX-License-Identifier: GPL-2.0-or-later

package cvar

import (
	"strings"

	"quakemodel/cmd"
	"quakemodel/conlog"
)

func init() {
	cmd.Must(cmd.AddCommand("cvarlist", list))
	cmd.Must(cmd.AddCommand("cycle", cycle))
	cmd.Must(cmd.AddCommand("inc", inc))
	cmd.Must(cmd.AddCommand("reset", reset))
	cmd.Must(cmd.AddCommand("resetall", resetAll))
	cmd.Must(cmd.AddCommand("set", set))
	cmd.Must(cmd.AddCommand("toggle", toggle))
}

func set(a cmd.Arguments) error {
	args := a.Args()[1:]
	if len(args) < 2 {
		conlog.Printf("set <cvar> <value>\n")
		return nil
	}
	if cmd.Exists(args[0].String()) {
		conlog.Printf("conflict with command\n")
		return nil
	}
	if cv, ok := Get(args[0].String()); ok {
		cv.SetByString(args[1].String())
		return nil
	}
	cv := create(args[0].String(), args[1].String())
	cv.user = true
	return nil
}

func toggle(a cmd.Arguments) error {
	args := a.Args()[1:]
	if len(args) != 1 {
		conlog.Printf("toggle <cvar> : toggle cvar\n")
		return nil
	}
	if cv, ok := Get(args[0].String()); ok {
		cv.Toggle()
	} else {
		conlog.Printf("toggle: variable %v not found\n", args[0].String())
	}
	return nil
}

func inc(a cmd.Arguments) error {
	args := a.Args()[1:]
	amount := float32(1)
	switch len(args) {
	case 2:
		amount = args[1].Float32()
	case 1:
	default:
		conlog.Printf("inc <cvar> [amount] : increment cvar\n")
		return nil
	}
	if cv, ok := Get(args[0].String()); ok {
		cv.SetValue(cv.Value() + amount)
	} else {
		conlog.Printf("Cvar_SetValue: variable %v not found\n", args[0].String())
	}
	return nil
}

func reset(a cmd.Arguments) error {
	args := a.Args()[1:]
	if len(args) != 1 {
		conlog.Printf("reset <cvar> : reset cvar to default\n")
		return nil
	}
	if cv, ok := Get(args[0].String()); ok {
		cv.Reset()
	} else {
		conlog.Printf("Cvar_Reset: variable %v not found\n", args[0].String())
	}
	return nil
}

func resetAll(_ cmd.Arguments) error {
	for _, cv := range All() {
		cv.Reset()
	}
	return nil
}

func list(a cmd.Arguments) error {
	prefix := ""
	if args := a.Args(); len(args) > 1 {
		prefix = args[1].String()
	}
	count := 0
	for _, v := range All() {
		if !strings.HasPrefix(v.Name(), prefix) {
			continue
		}
		archive, notify := " ", " "
		if v.Archive() {
			archive = "*"
		}
		if v.Notify() {
			notify = "s"
		}
		conlog.SafePrintf("%s%s %s \"%s\"\n", archive, notify, v.Name(), v.String())
		count++
	}
	if prefix != "" {
		conlog.SafePrintf("%v cvars beginning with \"%v\"\n", count, prefix)
		return nil
	}
	conlog.SafePrintf("%v cvars\n", count)
	return nil
}

func cycle(a cmd.Arguments) error {
	args := a.Args()[1:]
	if len(args) < 2 {
		conlog.Printf("cycle <cvar> <value list>: cycle cvar through a list of values\n")
		return nil
	}
	cv, ok := Get(args[0].String())
	if !ok {
		conlog.Printf("Cvar_Set: variable %v not found\n", args[0].String())
		return nil
	}
	values := args[1:]
	next := 0
	for i, v := range values {
		if v.String() == cv.String() {
			next = (i + 1) % len(values)
			break
		}
	}
	cv.SetByString(values[next].String())
	return nil
}
