// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"strings"

	"github.com/pkg/errors"
)

// tokenizer splits entity text the way the console parser does: quoted
// strings, single character brackets and whitespace separated words.
type tokenizer struct {
	data string
}

func isSingleChar(c byte) bool {
	switch c {
	case '{', '}', '(', ')', '\'', ':':
		return true
	}
	return false
}

// next returns the next token, false at the end of the data.
func (t *tokenizer) next() (string, bool) {
	d := t.data
	for {
		for len(d) > 0 && d[0] <= ' ' {
			d = d[1:]
		}
		if len(d) == 0 {
			t.data = d
			return "", false
		}
		switch {
		case strings.HasPrefix(d, "//"):
			if i := strings.IndexByte(d, '\n'); i >= 0 {
				d = d[i:]
			} else {
				d = ""
			}
			continue
		case strings.HasPrefix(d, "/*"):
			if i := strings.Index(d[2:], "*/"); i >= 0 {
				d = d[i+4:]
			} else {
				d = ""
			}
			continue
		}
		break
	}

	if d[0] == '"' {
		d = d[1:]
		i := strings.IndexByte(d, '"')
		if i < 0 {
			t.data = ""
			return d, true
		}
		t.data = d[i+1:]
		return d[:i], true
	}
	if isSingleChar(d[0]) {
		t.data = d[1:]
		return d[:1], true
	}
	i := 0
	for i < len(d) && d[i] > ' ' && !isSingleChar(d[i]) {
		i++
	}
	t.data = d[i:]
	return d[:i], true
}

// Entity is one key value block of the entity string.
type Entity struct {
	properties map[string]string
	keys       []string
}

func (e *Entity) Property(name string) (string, bool) {
	v, ok := e.properties[name]
	return v, ok
}

func (e *Entity) Name() (string, bool) {
	return e.Property("classname")
}

// PropertyNames returns the keys in file order.
func (e *Entity) PropertyNames() []string {
	return append([]string(nil), e.keys...)
}

func (e *Entity) set(k, v string) {
	if _, ok := e.properties[k]; !ok {
		e.keys = append(e.keys, k)
	}
	e.properties[k] = v
}

func parseEntity(t *tokenizer) (*Entity, error) {
	e := &Entity{properties: make(map[string]string)}
	for {
		key, ok := t.next()
		if ok && key == "}" {
			return e, nil
		}
		if !ok {
			return nil, errors.New("ED_ParseEntity: EOF without closing brace")
		}
		if key == "light" {
			key = "light_lev" // single light def
		}
		// some editors write keys with trailing spaces
		key = strings.TrimRight(key, " ")

		value, ok := t.next()
		if !ok {
			return nil, errors.New("ED_ParseEntity: EOF without closing brace")
		}
		if value == "}" {
			return nil, errors.New("ED_ParseEntity: closing brace without data")
		}
		e.set(key, value)
	}
}

// ParseEntities splits the entity string of a level into entities.
func ParseEntities(data string) ([]*Entity, error) {
	t := &tokenizer{data: data}
	var es []*Entity
	for {
		tok, ok := t.next()
		if !ok {
			return es, nil
		}
		if tok != "{" {
			return nil, errors.Errorf("ED_LoadFromFile: found %s when expecting {", tok)
		}
		e, err := parseEntity(t)
		if err != nil {
			return nil, err
		}
		es = append(es, e)
	}
}
