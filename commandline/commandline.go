// SPDX-License-Identifier: GPL-2.0-or-later

package commandline

import (
	"flag"
	"fmt"
	"strconv"
)

var (
	lights     bool
	noExternal bool
	noVis      bool

	developer = boolInt{false, 1}

	cacheSize int

	basedir    string
	dumpDir    string
	dumpFormat string
	exec       string
	game       string
	point      string
)

type boolInt struct {
	set bool
	num int
}

func (b *boolInt) IsBoolFlag() bool {
	// We can not support both "-flag" and "-flag 10"
	// This allows "-flag", and "-flag=10"
	// and also "-flag=true" and "-flag=false"
	// but not "-flag 10"
	return true
}

func (b *boolInt) Set(s string) error {
	v, err := strconv.ParseInt(s, 0, strconv.IntSize)
	if err != nil {
		v, err := strconv.ParseBool(s)
		b.set = v
		return err
	}
	b.set = true
	b.num = int(v)
	return nil
}

func (b *boolInt) String() string {
	return fmt.Sprintf("Set: %v, Num: %v", b.set, b.num)
}

func init() {
	register(flag.CommandLine)
}

func register(fs *flag.FlagSet) {
	fs.BoolVar(&lights, "lights", false, "list the light entities of a level")
	fs.BoolVar(&noExternal, "noexternal", false, "ignore .ent and .vis files")
	fs.BoolVar(&noVis, "novis", false, "treat every leaf as visible")

	fs.Var(&developer, "developer", "print developer messages, optional level")

	fs.IntVar(&cacheSize, "cachesize", 16*1024*1024, "alias model cache budget in bytes, 0 is unlimited")

	fs.StringVar(&basedir, "basedir", ".", "directory holding the game directories")
	fs.StringVar(&dumpDir, "dump", "", "write all textures of the model into this directory")
	fs.StringVar(&dumpFormat, "format", "webp", "dump image format, png or webp")
	fs.StringVar(&exec, "exec", "", "console commands run before loading, separated by ;")
	fs.StringVar(&game, "game", "", "mod directory searched before id1")
	fs.StringVar(&point, "point", "", "\"x y z\" to report leaf, contents and light at")
}

func BaseDirectory() string {
	return basedir
}

func Game() string {
	return game
}

// Developer returns the developer level, 0 if unset.
func Developer() int {
	if !developer.set {
		return 0
	}
	return developer.num
}

func DumpDir() string {
	return dumpDir
}

func DumpFormat() string {
	return dumpFormat
}

// Exec returns the console text given with -exec.
func Exec() string {
	return exec
}

func Point() string {
	return point
}

func CacheSize() int {
	return cacheSize
}

func Lights() bool {
	return lights
}

func NoExternal() bool {
	return noExternal
}

func NoVis() bool {
	return noVis
}
