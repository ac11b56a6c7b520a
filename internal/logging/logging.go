// Package logging provides the leveled loggers used across the demo.
// Every level writes to io.Discard until it is enabled.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/muesli/termenv"
)

// Level names a logger
type Level int

const (
	Info Level = iota
	Warn
	Debug
	Perf
	Fatal
	levelCount
)

var labels = [levelCount]string{
	Info:  "INFO",
	Warn:  "WARN",
	Debug: "DBUG",
	Perf:  "PERF",
	Fatal: "FATL",
}

// ANSI palette indexes per level (bright variants)
var colors = [levelCount]string{
	Info:  "15",
	Warn:  "11",
	Debug: "13",
	Perf:  "10",
	Fatal: "9",
}

func (l Level) String() string {
	if l < 0 || l >= levelCount {
		return "????"
	}
	return labels[l]
}

// Logger is a set of per-level std loggers
type Logger struct {
	loggers [levelCount]*log.Logger
	exit    func(int)
}

// New creates a Logger with every level discarded
func New() *Logger {
	lg := &Logger{exit: os.Exit}
	for i := range levelCount {
		flags := log.LstdFlags
		if i == Fatal || i == Debug {
			flags |= log.Lshortfile | log.Lmicroseconds
		}
		lg.loggers[i] = log.New(io.Discard, labels[i]+" ", flags)
	}
	return lg
}

// SetOutput routes one level to w
func (lg *Logger) SetOutput(level Level, w io.Writer) {
	lg.loggers[level].SetOutput(w)
}

// Enable routes the given levels to w
func (lg *Logger) Enable(w io.Writer, levels ...Level) {
	for _, l := range levels {
		lg.SetOutput(l, w)
	}
}

// SetColorized toggles colored level prefixes. Colors follow the color profile
// detected for w, so a non-terminal w gets plain prefixes.
func (lg *Logger) SetColorized(toggle bool, w io.Writer) {
	profile := termenv.Ascii
	if toggle {
		profile = termenv.NewOutput(w).EnvColorProfile()
	}
	out := termenv.NewOutput(w, termenv.WithProfile(profile))
	for i := range levelCount {
		prefix := labels[i]
		if toggle {
			prefix = out.String(prefix).Foreground(out.Color(colors[i])).String()
		}
		lg.loggers[i].SetPrefix(prefix + " ")
	}
}

func (lg *Logger) output(level Level, s string) {
	_ = lg.loggers[level].Output(3, s)
}

// Info logs at info level. Arguments are handled in the manner of fmt.Print.
func (lg *Logger) Info(v ...any) { lg.output(Info, fmt.Sprint(v...)) }

// Infof logs at info level. Arguments are handled in the manner of fmt.Printf.
func (lg *Logger) Infof(format string, v ...any) { lg.output(Info, fmt.Sprintf(format, v...)) }

// Warnf logs at warn level
func (lg *Logger) Warnf(format string, v ...any) { lg.output(Warn, fmt.Sprintf(format, v...)) }

// Debugf logs at debug level
func (lg *Logger) Debugf(format string, v ...any) { lg.output(Debug, fmt.Sprintf(format, v...)) }

// Perff logs at perf level
func (lg *Logger) Perff(format string, v ...any) { lg.output(Perf, fmt.Sprintf(format, v...)) }

// Error logs a failure at warn level. Failures never go silent while warn is enabled.
func (lg *Logger) Error(err error) { lg.output(Warn, err.Error()) }

// Fatal logs at fatal level and exits with status 1
func (lg *Logger) Fatal(v ...any) {
	lg.output(Fatal, fmt.Sprint(v...))
	lg.exit(1)
}

// Fatalf logs at fatal level and exits with status 1
func (lg *Logger) Fatalf(format string, v ...any) {
	lg.output(Fatal, fmt.Sprintf(format, v...))
	lg.exit(1)
}

// ConstErr is an error that can be declared as a constant
type ConstErr string

func (e ConstErr) Error() string {
	return string(e)
}
