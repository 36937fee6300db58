package logging

import (
	"context"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Slog returns an *slog.Logger that writes through the zap core, so code
// built on log/slog shares the sink and trace fields with the rest of the
// service.
func (l *Logger) Slog() *slog.Logger {
	if l == nil {
		l = Default()
	}
	return slog.New(&slogBridge{logger: l})
}

type slogBridge struct {
	logger *Logger
	prefix string
	attrs  []slog.Attr
}

func (b *slogBridge) Enabled(_ context.Context, level slog.Level) bool {
	return b.logger.Zap().Core().Enabled(zapLevelFor(level))
}

func (b *slogBridge) Handle(ctx context.Context, rec slog.Record) error {
	fields := make([]zap.Field, 0, rec.NumAttrs()+len(b.attrs)+2)
	for _, attr := range b.attrs {
		fields = append(fields, b.field(attr))
	}
	rec.Attrs(func(attr slog.Attr) bool {
		fields = append(fields, b.field(attr))
		return true
	})
	fields = append(fields, traceFields(ctx)...)

	if ce := b.logger.Zap().Check(zapLevelFor(rec.Level), rec.Message); ce != nil {
		ce.Write(fields...)
	}
	return nil
}

func (b *slogBridge) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(b.attrs)+len(attrs))
	merged = append(merged, b.attrs...)
	merged = append(merged, attrs...)
	return &slogBridge{logger: b.logger, prefix: b.prefix, attrs: merged}
}

func (b *slogBridge) WithGroup(name string) slog.Handler {
	if name == "" {
		return b
	}
	return &slogBridge{logger: b.logger, prefix: b.prefix + name + ".", attrs: b.attrs}
}

func (b *slogBridge) field(attr slog.Attr) zap.Field {
	key := b.prefix + attr.Key
	value := attr.Value.Resolve().Any()
	if err, ok := value.(error); ok {
		return zap.NamedError(key, err)
	}
	return zap.Any(key, value)
}

func zapLevelFor(level slog.Level) zapcore.Level {
	switch {
	case level >= slog.LevelError:
		return zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		return zapcore.WarnLevel
	case level >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
