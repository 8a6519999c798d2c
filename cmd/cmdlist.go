// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"strings"

	"quakemodel/conlog"
)

func init() {
	Must(AddCommand("cmdlist", printCmdList))
}

func printCmdList(a Arguments) error {
	prefix := ""
	if args := a.Args(); len(args) > 1 {
		prefix = args[1].String()
	}
	count := 0
	for _, c := range List() {
		if strings.HasPrefix(c, prefix) {
			conlog.SafePrintf("  %s\n", c)
			count++
		}
	}
	if prefix != "" {
		conlog.SafePrintf("%v commands beginning with \"%v\"\n", count, prefix)
		return nil
	}
	conlog.SafePrintf("%v commands\n", count)
	return nil
}
