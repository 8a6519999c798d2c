// SPDX-License-Identifier: GPL-2.0-or-later

package pack

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"
)

const (
	headerSize = 12
	entrySize  = 64
	nameSize   = 56
)

type header struct {
	ID     [4]byte
	Offset int32
	Size   int32
}

type entry struct {
	Name   [nameSize]byte
	Offset int32
	Size   int32
}

type Pack struct {
	f     *os.File
	files map[string]qfile
	name  string
}

type qfile struct {
	offset int64
	size   int64
}

// Open returns a io.SectionReader or os.ErrNotExist if the pak has no
// entry with the provided name.
func (p *Pack) Open(name string) (*io.SectionReader, error) {
	q, ok := p.files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NewSectionReader(p.f, q.offset, q.size), nil
}

// Names returns the sorted entry names.
func (p *Pack) Names() []string {
	n := make([]string, 0, len(p.files))
	for k := range p.files {
		n = append(n, k)
	}
	sort.Strings(n)
	return n
}

func (p *Pack) String() string {
	return p.name
}

func (p *Pack) Close() error {
	return p.f.Close()
}

func (p *Pack) init() error {
	st, err := p.f.Stat()
	if err != nil {
		return err
	}
	var h header
	if err := binary.Read(io.NewSectionReader(p.f, 0, headerSize), binary.LittleEndian, &h); err != nil {
		return errors.Wrapf(err, "%s: reading header", p.name)
	}
	if !bytes.Equal([]byte("PACK"), h.ID[:]) {
		return errors.Errorf("%s is not a packfile", p.name)
	}
	if h.Offset < 0 || h.Size < 0 || int64(h.Offset)+int64(h.Size) > st.Size() {
		return errors.Errorf("%s has a bad directory", p.name)
	}
	filenum := int(h.Size / entrySize)
	entries := make([]entry, filenum)
	dir := io.NewSectionReader(p.f, int64(h.Offset), int64(h.Size))
	if err := binary.Read(dir, binary.LittleEndian, entries); err != nil {
		return errors.Wrapf(err, "%s: reading directory", p.name)
	}
	p.files = make(map[string]qfile, filenum)
	for _, e := range entries {
		n := bytes.IndexByte(e.Name[:], 0)
		if n < 0 {
			n = nameSize
		}
		name := string(e.Name[:n])
		if _, ok := p.files[name]; ok {
			return errors.Errorf("%s: %s is not unique", p.name, name)
		}
		if e.Offset < 0 || e.Size < 0 || int64(e.Offset)+int64(e.Size) > st.Size() {
			return errors.Errorf("%s: %s points outside the file", p.name, name)
		}
		p.files[name] = qfile{
			offset: int64(e.Offset),
			size:   int64(e.Size),
		}
	}
	return nil
}

func NewPackReader(name string) (*Pack, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	p := &Pack{f: f, name: name}
	if err := p.init(); err != nil {
		f.Close()
		return nil, err
	}
	return p, nil
}

// File is a single entry for Write.
type File struct {
	Name string
	Data []byte
}

// Write stores files as a pak archive.
func Write(w io.Writer, files []File) error {
	var body bytes.Buffer
	dir := make([]entry, 0, len(files))
	offset := int32(headerSize)
	for _, f := range files {
		if len(f.Name) >= nameSize {
			return errors.Errorf("pack: name %q too long", f.Name)
		}
		var e entry
		copy(e.Name[:], f.Name)
		e.Offset = offset
		e.Size = int32(len(f.Data))
		dir = append(dir, e)
		body.Write(f.Data)
		offset += e.Size
	}
	h := header{
		ID:     [4]byte{'P', 'A', 'C', 'K'},
		Offset: offset,
		Size:   int32(len(dir) * entrySize),
	}
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return err
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, dir)
}
