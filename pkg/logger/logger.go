package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "2006-01-02T15:04:05.000Z07:00"

var current atomic.Pointer[zerolog.Logger]

func init() {
	l := zerolog.New(os.Stderr).With().Timestamp().Logger()
	current.Store(&l)
}

// Init configures the process-wide logger (called once from main).
func Init(level string, pretty bool) {
	var out io.Writer = os.Stderr
	if pretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: consoleTimeFormat}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	l := zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	current.Store(&l)
}

// SetOutput redirects logging, mostly useful in tests.
func SetOutput(w io.Writer) {
	l := current.Load().Output(w)
	current.Store(&l)
}

func Infof(format string, v ...any) {
	current.Load().Info().Msg(fmt.Sprintf(format, v...))
}

func Warnf(format string, v ...any) {
	current.Load().Warn().Msg(fmt.Sprintf(format, v...))
}

func Errorf(format string, v ...any) {
	current.Load().Error().Msg(fmt.Sprintf(format, v...))
}

func Debugf(format string, v ...any) {
	current.Load().Debug().Msg(fmt.Sprintf(format, v...))
}

func Fatalf(format string, v ...any) {
	current.Load().Fatal().Msg(fmt.Sprintf(format, v...))
}

type printfLogger struct{}

func (printfLogger) Printf(format string, v ...any) {
	Debugf(format, v...)
}

// Printf adapts the logger to libraries expecting a Printf method (logged at debug).
var Printf = printfLogger{}
