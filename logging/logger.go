package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/baolean/evm-semantics/logging/colors"
	"github.com/rs/zerolog"
)

// NilLogger describes a Logger that is disabled by default. It is used as the fallback diagnostic
// sink when a caller does not supply one, so that decoding/assembly code never has to nil-check
// its logger.
var NilLogger = NewLogger(zerolog.Disabled, false)

// Logger describes a diagnostic sink backed by zerolog. It can write structured output to any
// number of arbitrary channels and specialized, colorized output to console. Model construction
// code receives a Logger as an explicit capability rather than reaching for a global, so that
// recoverable-condition reporting is testable and substitutable.
type Logger struct {
	// level describes the log level.
	level zerolog.Level

	// multiLogger describes a logger used to output structured logs to any arbitrary channel(s).
	multiLogger zerolog.Logger

	// consoleLogger describes a logger used to output unstructured, colorized output to console.
	consoleLogger zerolog.Logger

	// writers describes the list of io.Writer objects where structured log output will go.
	writers []io.Writer
}

// StructuredLogInfo describes a key-value mapping that can be used to log structured data.
type StructuredLogInfo map[string]any

// NewLogger will create a new Logger object with a specific log level. The Logger can output to
// console, if enabled, and to any number of additional io.Writer channels.
func NewLogger(level zerolog.Level, consoleEnabled bool, writers ...io.Writer) *Logger {
	// The two base loggers start out disabled so that we do not get nil pointer dereferences if
	// neither console nor writer output is requested.
	baseMultiLogger := zerolog.New(os.Stdout).Level(zerolog.Disabled)
	baseConsoleLogger := zerolog.New(os.Stdout).Level(zerolog.Disabled)

	// If we are provided a list of writers, update the multi logger.
	if len(writers) > 0 {
		baseMultiLogger = zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp().Logger()
	}

	// If console logging is enabled, update the console logger.
	if consoleEnabled {
		consoleWriter := setupDefaultFormatting(zerolog.ConsoleWriter{Out: os.Stdout}, level)
		baseConsoleLogger = zerolog.New(consoleWriter).Level(level)
	}

	return &Logger{
		level:         level,
		multiLogger:   baseMultiLogger,
		consoleLogger: baseConsoleLogger,
		writers:       writers,
	}
}

// NewSubLogger will create a new Logger with unique context in the form of a key-value pair.
// Each package is expected to derive its own sub-logger so that log output is "grep-able" by key.
func (l *Logger) NewSubLogger(key string, value string) *Logger {
	subMultiLogger := l.multiLogger.With().Str(key, value).Logger()
	subConsoleLogger := l.consoleLogger.With().Str(key, value).Logger()
	return &Logger{
		level:         l.level,
		multiLogger:   subMultiLogger,
		consoleLogger: subConsoleLogger,
		writers:       l.writers,
	}
}

// AddWriter will add a writer to the list of channels where structured log output will be sent.
func (l *Logger) AddWriter(writer io.Writer) {
	for _, w := range l.writers {
		if writer == w {
			return
		}
	}
	l.writers = append(l.writers, writer)
	l.multiLogger = zerolog.New(zerolog.MultiLevelWriter(l.writers...)).Level(l.level).With().Timestamp().Logger()
}

// Level will get the log level of the Logger.
func (l *Logger) Level() zerolog.Level {
	return l.level
}

// SetLevel will update the log level of the Logger.
func (l *Logger) SetLevel(level zerolog.Level) {
	l.level = level
	l.multiLogger = l.multiLogger.Level(level)
	l.consoleLogger = l.consoleLogger.Level(level)
}

// Debug is a wrapper function that will log a debug event.
func (l *Logger) Debug(args ...any) {
	consoleMsg, multiMsg, err, info := buildMsgs(args...)
	l.send(l.consoleLogger.Debug(), l.multiLogger.Debug(), consoleMsg, multiMsg, err, info)
}

// Info is a wrapper function that will log an info event.
func (l *Logger) Info(args ...any) {
	consoleMsg, multiMsg, err, info := buildMsgs(args...)
	l.send(l.consoleLogger.Info(), l.multiLogger.Info(), consoleMsg, multiMsg, err, info)
}

// Warn is a wrapper function that will log a warning event.
func (l *Logger) Warn(args ...any) {
	consoleMsg, multiMsg, err, info := buildMsgs(args...)
	l.send(l.consoleLogger.Warn(), l.multiLogger.Warn(), consoleMsg, multiMsg, err, info)
}

// Error is a wrapper function that will log an error event.
func (l *Logger) Error(args ...any) {
	consoleMsg, multiMsg, err, info := buildMsgs(args...)
	l.send(l.consoleLogger.Error(), l.multiLogger.Error(), consoleMsg, multiMsg, err, info)
}

// send chains any error and structured log info onto the console and multi-log events, appends
// the built messages, and sends the logs out to their respective channels.
func (l *Logger) send(consoleLog *zerolog.Event, multiLog *zerolog.Event, consoleMsg string, multiMsg string, err error, info StructuredLogInfo) {
	// Note that even if err is nil, there will not be a panic here.
	consoleLog.Err(err)
	multiLog.Err(err)

	// If we are in debug mode or below, add stack traces for debugging.
	if l.level <= zerolog.DebugLevel {
		consoleLog.Stack()
		multiLog.Stack()
	}

	if info != nil {
		consoleLog.Any("info", info)
		multiLog.Any("info", info)
	}

	multiLog.Msg(multiMsg)
	consoleLog.Msg(consoleMsg)
}

// buildMsgs takes in a variadic list of arguments of any type and returns two strings and,
// optionally, an error and a StructuredLogInfo object. The first string is a colorized string
// for console logging while the second is a non-colorized one for structured logging. Color
// functions in the argument list switch the coloring context for the arguments that follow.
func buildMsgs(args ...any) (string, string, error, StructuredLogInfo) {
	if len(args) == 0 {
		return "", "", nil, nil
	}

	colorCtx := colors.Reset
	consoleOutput := make([]string, 0)
	multiOutput := make([]string, 0)
	var info StructuredLogInfo
	var err error

	for _, arg := range args {
		switch t := arg.(type) {
		case colors.ColorFunc:
			colorCtx = t
		case StructuredLogInfo:
			// Note that only one structured log info can be provided for each log message.
			info = t
		case error:
			// Note that only one error can be provided for each log message.
			err = t
		default:
			consoleOutput = append(consoleOutput, colorCtx(t))
			multiOutput = append(multiOutput, fmt.Sprintf("%v", t))
		}
	}

	return strings.Join(consoleOutput, ""), strings.Join(multiOutput, ""), err, info
}

// setupDefaultFormatting will update the console logger's formatting to the project standard.
func setupDefaultFormatting(writer zerolog.ConsoleWriter, level zerolog.Level) zerolog.ConsoleWriter {
	// Get rid of the timestamp for console output.
	writer.FormatTimestamp = func(i any) string {
		return ""
	}

	// Define a custom, colored format for each level.
	writer.FormatLevel = func(i any) string {
		parsedLevel, err := zerolog.ParseLevel(i.(string))
		if err != nil {
			panic(fmt.Sprintf("unable to parse the log level: %v", err))
		}

		switch parsedLevel {
		case zerolog.TraceLevel:
			return colors.CyanBold(zerolog.LevelTraceValue)
		case zerolog.DebugLevel:
			return colors.BlueBold(zerolog.LevelDebugValue)
		case zerolog.InfoLevel:
			return colors.GreenBold(zerolog.LevelInfoValue)
		case zerolog.WarnLevel:
			return colors.YellowBold(zerolog.LevelWarnValue)
		case zerolog.ErrorLevel:
			return colors.RedBold(zerolog.LevelErrorValue)
		case zerolog.FatalLevel:
			return colors.RedBold(zerolog.LevelFatalValue)
		case zerolog.PanicLevel:
			return colors.RedBold(zerolog.LevelPanicValue)
		default:
			return i.(string)
		}
	}

	// If we are above debug level, get rid of the sub-logger key when logging to console.
	if level > zerolog.DebugLevel {
		writer.FieldsExclude = []string{"module", "contract"}
	}

	return writer
}
