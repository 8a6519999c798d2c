// SPDX-License-Identifier: GPL-2.0-or-later

// Package cbuf queues console text and runs it line by line.
package cbuf

import (
	"strings"
)

// CommandBuffer holds console text not yet executed. Commands are separated
// by newlines or by semicolons outside of quotes.
type CommandBuffer struct {
	buf  string
	wait bool
	ex   executors
}

func (c *CommandBuffer) SetCommandExecutors(e []Efunc) {
	c.ex = executors(e)
}

// Wait stops Execute after the current command. The remaining text runs
// on the next call.
func (c *CommandBuffer) Wait() {
	c.wait = true
}

func (c *CommandBuffer) AddText(text string) {
	c.buf += text
}

// InsertText puts text in front of everything already queued.
func (c *CommandBuffer) InsertText(text string) {
	c.buf = text + "\n" + c.buf
}

func (c *CommandBuffer) Empty() bool {
	return len(c.buf) == 0
}

func nextLine(s string) (line, rest string) {
	quote := false
	i := 0
LineLoop:
	for ; i < len(s); i++ {
		switch s[i] {
		case '"':
			quote = !quote
		case ';':
			if !quote {
				break LineLoop
			}
		case '\n':
			break LineLoop
		}
	}
	if i < len(s) {
		return s[:i], s[i+1:]
	}
	return s, ""
}

// Execute runs queued commands until the buffer is empty or a wait is hit.
func (c *CommandBuffer) Execute() error {
	for len(c.buf) != 0 {
		var line string
		line, c.buf = nextLine(c.buf)
		if strings.EqualFold(strings.TrimSpace(line), "wait") {
			c.wait = true
		} else if err := c.ex.execute(c, line); err != nil {
			return err
		}
		if c.wait {
			c.wait = false
			return nil
		}
	}
	return nil
}
