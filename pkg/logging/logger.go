// Copyright (c) 2024 The Epollhttp Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logging sets up the default logger of epollhttp, powered by go.uber.org/zap.
//
// The environment variable `EPOLLHTTP_LOGGING_LEVEL` selects the zap level as an integer
// (-1 debug, 0 info, 1 warn, 2 error). The environment variable `EPOLLHTTP_LOGGING_FILE`
// redirects logs into a rotated local file instead of stdout.
//
// Any type implementing Logger can replace the default one through epollhttp.WithLogger.
package logging

import (
	"errors"
	"os"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	levelEnv = "EPOLLHTTP_LOGGING_LEVEL"
	fileEnv  = "EPOLLHTTP_LOGGING_FILE"
	prefix   = "[epollhttp]"
)

// Flusher flushes any buffered log entries to the underlying writer.
type Flusher = func() error

// Level is the alias of zapcore.Level.
type Level = zapcore.Level

const (
	// DebugLevel logs are typically voluminous, per-event loop traces.
	DebugLevel = zapcore.DebugLevel
	// InfoLevel is the default logging priority.
	InfoLevel = zapcore.InfoLevel
	// WarnLevel logs per-connection failures.
	WarnLevel = zapcore.WarnLevel
	// ErrorLevel logs failures that need a look.
	ErrorLevel = zapcore.ErrorLevel
	// FatalLevel logs a message, then calls os.Exit(1).
	FatalLevel = zapcore.FatalLevel
)

var (
	mu             sync.RWMutex
	defaultLogger  Logger
	defaultLevel   Level
	defaultFlusher Flusher
)

func init() {
	if lvl := os.Getenv(levelEnv); len(lvl) > 0 {
		l, err := strconv.ParseInt(lvl, 10, 8)
		if err != nil {
			panic("invalid " + levelEnv + ", " + err.Error())
		}
		defaultLevel = Level(l)
	}

	if fileName := os.Getenv(fileEnv); len(fileName) > 0 {
		var err error
		defaultLogger, defaultFlusher, err = CreateLoggerAsLocalFile(fileName, defaultLevel)
		if err != nil {
			panic("invalid " + fileEnv + ", " + err.Error())
		}
		return
	}

	defaultLogger, defaultFlusher = NewConsoleLogger(defaultLevel)
}

type prefixEncoder struct {
	zapcore.Encoder

	prefix  string
	bufPool buffer.Pool
}

func (e *prefixEncoder) Clone() zapcore.Encoder {
	return &prefixEncoder{Encoder: e.Encoder.Clone(), prefix: e.prefix, bufPool: e.bufPool}
}

func (e *prefixEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	logEntry, err := e.Encoder.EncodeEntry(entry, fields)
	if err != nil {
		return nil, err
	}
	defer logEntry.Free()

	buf := e.bufPool.Get()
	buf.AppendString(e.prefix)
	buf.AppendByte(' ')
	if _, err = buf.Write(logEntry.Bytes()); err != nil {
		buf.Free()
		return nil, err
	}
	return buf, nil
}

func newEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	cfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return &prefixEncoder{
		Encoder: zapcore.NewConsoleEncoder(cfg),
		prefix:  prefix,
		bufPool: buffer.NewPool(),
	}
}

// NewConsoleLogger builds a development logger writing to stdout.
func NewConsoleLogger(level Level) (Logger, Flusher) {
	core := zapcore.NewCore(newEncoder(zap.NewDevelopmentEncoderConfig()), zapcore.Lock(os.Stdout), level)
	zapLogger := zap.New(core,
		zap.Development(),
		zap.AddCaller(),
		zap.AddStacktrace(ErrorLevel),
		zap.ErrorOutput(zapcore.Lock(os.Stderr)))
	return zapLogger.Sugar(), zapLogger.Sync
}

// CreateLoggerAsLocalFile sets up a logger writing into a rotated local file.
func CreateLoggerAsLocalFile(localFilePath string, level Level) (logger Logger, flush Flusher, err error) {
	if len(localFilePath) == 0 {
		return nil, nil, errors.New("invalid local logger path")
	}

	// lumberjack.Logger is already safe for concurrent use.
	lumberJackLogger := &lumberjack.Logger{
		Filename:   localFilePath,
		MaxSize:    100, // megabytes
		MaxBackups: 2,
		MaxAge:     15, // days
	}

	core := zapcore.NewCore(newEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(lumberJackLogger), level)
	zapLogger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(ErrorLevel))
	return zapLogger.Sugar(), zapLogger.Sync, nil
}

// GetDefaultLogger returns the default logger.
func GetDefaultLogger() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// SetDefaultLoggerAndFlusher replaces the default logger and its flusher.
func SetDefaultLoggerAndFlusher(logger Logger, flusher Flusher) {
	mu.Lock()
	defaultLogger, defaultFlusher = logger, flusher
	mu.Unlock()
}

// LogLevel tells what the default logging level is.
func LogLevel() string {
	return defaultLevel.String()
}

// Cleanup flushes the default logger, call it before the process exits.
func Cleanup() {
	mu.RLock()
	flush := defaultFlusher
	mu.RUnlock()
	if flush != nil {
		_ = flush()
	}
}

// Debugf logs messages at DEBUG level.
func Debugf(format string, args ...any) {
	GetDefaultLogger().Debugf(format, args...)
}

// Infof logs messages at INFO level.
func Infof(format string, args ...any) {
	GetDefaultLogger().Infof(format, args...)
}

// Warnf logs messages at WARN level.
func Warnf(format string, args ...any) {
	GetDefaultLogger().Warnf(format, args...)
}

// Errorf logs messages at ERROR level.
func Errorf(format string, args ...any) {
	GetDefaultLogger().Errorf(format, args...)
}

// Fatalf logs messages at FATAL level, then exits.
func Fatalf(format string, args ...any) {
	GetDefaultLogger().Fatalf(format, args...)
}

// Logger is used for logging formatted messages.
type Logger interface {
	// Debugf logs messages at DEBUG level.
	Debugf(format string, args ...any)
	// Infof logs messages at INFO level.
	Infof(format string, args ...any)
	// Warnf logs messages at WARN level.
	Warnf(format string, args ...any)
	// Errorf logs messages at ERROR level.
	Errorf(format string, args ...any)
	// Fatalf logs messages at FATAL level.
	Fatalf(format string, args ...any)
}
