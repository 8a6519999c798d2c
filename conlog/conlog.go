// SPDX-License-Identifier: GPL-2.0-or-later

// Package conlog holds the console print sinks. Without a console the
// messages go to log/slog.
package conlog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
)

type PrintFunc func(string, ...interface{})

var (
	p         PrintFunc = slogSink(slog.LevelInfo)
	sp        PrintFunc = slogSink(slog.LevelInfo)
	w         PrintFunc = slogSink(slog.LevelWarn)
	d         PrintFunc = slogSink(slog.LevelDebug)
	developer atomic.Int32
)

func slogSink(l slog.Level) PrintFunc {
	return func(format string, v ...interface{}) {
		msg := strings.TrimRight(fmt.Sprintf(format, v...), "\n")
		slog.Log(context.Background(), l, msg)
	}
}

// Reset routes all sinks back to log/slog.
func Reset() {
	p = slogSink(slog.LevelInfo)
	sp = slogSink(slog.LevelInfo)
	w = slogSink(slog.LevelWarn)
	d = slogSink(slog.LevelDebug)
}

func SetPrintf(f PrintFunc) {
	p = f
}

func SetSafePrintf(f PrintFunc) {
	sp = f
}

func SetWarningf(f PrintFunc) {
	w = f
}

func SetDevPrintf(f PrintFunc) {
	d = f
}

// SetDeveloper sets the level that gates DPrintf and DPrintf2.
func SetDeveloper(level int) {
	developer.Store(int32(level))
}

func Developer() int {
	return int(developer.Load())
}

func Printf(format string, v ...interface{}) {
	p(format, v...)
}

// SafePrintf is Printf for callers that must not trigger a screen update.
func SafePrintf(format string, v ...interface{}) {
	sp(format, v...)
}

func Warning(format string, v ...interface{}) {
	w("Warning: "+format, v...)
}

func DPrintf(format string, v ...interface{}) {
	if developer.Load() >= 1 {
		d(format, v...)
	}
}

func DPrintf2(format string, v ...interface{}) {
	if developer.Load() >= 2 {
		d(format, v...)
	}
}

func DWarning(format string, v ...interface{}) {
	if developer.Load() >= 1 {
		w("Warning: "+format, v...)
	}
}
