// SPDX-License-Identifier: GPL-2.0-or-later

package filesystem

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"quakemodel/pack"
)

type File interface {
	io.ReadSeekCloser
	io.ReaderAt
}

// searchPath is one directory or one pak file. Every pak of a game dir
// shares the id of the directory. Later game dirs get higher ids.
type searchPath struct {
	id   int
	dir  string
	pack *pack.Pack
}

// Search is an ordered list of search paths, highest priority first.
type Search struct {
	mu      sync.RWMutex
	baseDir string
	gameDir string
	paths   []searchPath
}

func New() *Search {
	return &Search{}
}

type closer struct {
	*io.SectionReader
}

func (*closer) Close() error {
	return nil
}

type fileInfo struct {
	name string
	size int64
}

func (f *fileInfo) Name() string       { return f.name }
func (f *fileInfo) Size() int64        { return f.size }
func (f *fileInfo) Mode() fs.FileMode  { return 0 }
func (f *fileInfo) ModTime() time.Time { return time.Time{} }
func (f *fileInfo) IsDir() bool        { return false }
func (f *fileInfo) Sys() any           { return nil }

func (s *Search) GameDir() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gameDir
}

func (s *Search) BaseDir() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseDir
}

// UseBaseDir resets the search path to <dir>/id1.
func (s *Search) UseBaseDir(dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeAll()
	s.baseDir = dir
	return s.addGameDir(filepath.Join(dir, "id1"))
}

// UseGameDir adds <basedir>/<dir> on top of the current search path.
func (s *Search) UseGameDir(dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addGameDir(filepath.Join(s.baseDir, dir))
}

func (s *Search) closeAll() {
	for _, p := range s.paths {
		if p.pack != nil {
			p.pack.Close()
		}
	}
	s.paths = nil
}

func (s *Search) addGameDir(dir string) error {
	st, err := os.Stat(dir)
	if err != nil {
		return errors.Wrapf(err, "game directory %s", dir)
	}
	if !st.IsDir() {
		return errors.Errorf("%s is not a directory", dir)
	}
	id := 1
	if len(s.paths) > 0 {
		id = s.paths[0].id << 1
	}
	s.gameDir = dir
	added := []searchPath{{id: id, dir: dir}}
	// pak files in ascending order, the highest number is searched first
	for i := 0; ; i++ {
		p, err := pack.NewPackReader(filepath.Join(dir, fmt.Sprintf("pak%d.pak", i)))
		if err != nil {
			break
		}
		added = append([]searchPath{{id: id, pack: p}}, added...)
	}
	s.paths = append(added, s.paths...)
	return nil
}

// OpenWithID returns the first match on the search path together with
// the id of the game dir it came from.
func (s *Search) OpenWithID(name string) (File, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name = strings.TrimPrefix(filepath.ToSlash(name), "/")
	for _, p := range s.paths {
		if p.pack != nil {
			r, err := p.pack.Open(name)
			if err != nil {
				continue
			}
			return &closer{r}, p.id, nil
		}
		f, err := os.Open(filepath.Join(p.dir, filepath.FromSlash(name)))
		if err != nil {
			continue
		}
		if st, err := f.Stat(); err != nil || st.IsDir() {
			f.Close()
			continue
		}
		return f, p.id, nil
	}
	return nil, 0, os.ErrNotExist
}

func (s *Search) Open(name string) (File, error) {
	f, _, err := s.OpenWithID(name)
	return f, err
}

func (s *Search) ReadFileWithID(name string) ([]byte, int, error) {
	f, id, err := s.OpenWithID(name)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "reading %s", name)
	}
	return b, id, nil
}

func (s *Search) ReadFile(name string) ([]byte, error) {
	b, _, err := s.ReadFileWithID(name)
	return b, err
}

func (s *Search) Stat(name string) (os.FileInfo, error) {
	f, err := s.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	return &fileInfo{name: SkipPath(name), size: size}, nil
}

var std = New()

// Default returns the process wide search path used by the package
// level functions.
func Default() *Search {
	return std
}

func UseBaseDir(dir string) error                     { return std.UseBaseDir(dir) }
func UseGameDir(dir string) error                     { return std.UseGameDir(dir) }
func GameDir() string                                 { return std.GameDir() }
func BaseDir() string                                 { return std.BaseDir() }
func Open(name string) (File, error)                  { return std.Open(name) }
func OpenWithID(name string) (File, int, error)       { return std.OpenWithID(name) }
func ReadFile(name string) ([]byte, error)            { return std.ReadFile(name) }
func ReadFileWithID(name string) ([]byte, int, error) { return std.ReadFileWithID(name) }
func Stat(name string) (os.FileInfo, error)           { return std.Stat(name) }

func isSep(c uint8) bool {
	return c == '/' || c == '\\'
}

func Ext(path string) string {
	for i := len(path) - 1; i >= 0 && !isSep(path[i]); i-- {
		if path[i] == '.' {
			return path[i:]
		}
	}
	return ""
}

func StripExt(path string) string {
	for i := len(path) - 1; i >= 0 && !isSep(path[i]); i-- {
		if path[i] == '.' {
			return path[:i]
		}
	}
	return path
}

// SkipPath returns the part after the last path separator.
func SkipPath(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if isSep(path[i]) {
			return path[i+1:]
		}
	}
	return path
}

// FileBase returns the file name without directory and extension.
func FileBase(path string) string {
	return StripExt(SkipPath(path))
}
