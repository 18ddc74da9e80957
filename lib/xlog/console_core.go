package xlog

import (
	"os"
	"time"

	"go.uber.org/zap/zapcore"
)

type xLogCore interface {
	// Build returns the core and an optional stop function that
	// releases the buffered writer behind it.
	Build(
		lvlEnabler zapcore.LevelEnabler,
		encoder LogEncoderType,
		writer LogOutWriterType,
		lvlEnc zapcore.LevelEncoder,
		tsEnc zapcore.TimeEncoder,
	) (zapcore.Core, func() error, error)
}

var _ xLogCore = (*consoleCore)(nil)

type consoleCore struct {
	// Replaces the std writers if not nil. The caller owns it.
	ws zapcore.WriteSyncer
}

func (cc *consoleCore) Build(
	lvlEnabler zapcore.LevelEnabler,
	encoder LogEncoderType,
	writer LogOutWriterType,
	lvlEnc zapcore.LevelEncoder,
	tsEnc zapcore.TimeEncoder,
) (zapcore.Core, func() error, error) {
	config := zapcore.EncoderConfig{
		MessageKey:    "msg",
		LevelKey:      "lvl",
		EncodeLevel:   lvlEnc,
		TimeKey:       "ts",
		EncodeTime:    tsEnc,
		CallerKey:     "callAt",
		EncodeCaller:  zapcore.ShortCallerEncoder,
		FunctionKey:   coreKeyIgnored,
		NameKey:       "component",
		EncodeName:    zapcore.FullNameEncoder,
		StacktraceKey: coreKeyIgnored,
	}
	var (
		ws   = cc.ws
		stop func() error
	)
	if ws == nil {
		ws, stop = getOutWriterByType(writer)
	}
	return zapcore.NewCore(getEncoderByType(encoder)(config), ws, lvlEnabler), stop, nil
}

func getEncoderByType(encoder LogEncoderType) func(cfg zapcore.EncoderConfig) zapcore.Encoder {
	if encoder == PlainText {
		return zapcore.NewConsoleEncoder
	}
	return zapcore.NewJSONEncoder
}

func getOutWriterByType(writer LogOutWriterType) (zapcore.WriteSyncer, func() error) {
	switch writer {
	case StdErr:
		// Errors are unbuffered, they must not be lost on crash.
		return zapcore.Lock(os.Stderr), nil
	case StdOut:
		fallthrough
	default:
	}
	ws := &zapcore.BufferedWriteSyncer{
		WS:            zapcore.AddSync(os.Stdout),
		Size:          512 * 1024,
		FlushInterval: 30 * time.Second,
	}
	return ws, ws.Stop
}
