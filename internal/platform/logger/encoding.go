package logger

import (
	"strings"
	"sync"

	"github.com/nulzo/image-playground/internal/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const colorConsoleEncoding = "color-console"

var (
	registerOnce sync.Once
	bufferPool   = buffer.NewPool()
)

// registerColorEncoder makes the highlighting encoder available to zap.Config
// and returns its encoding name.
func registerColorEncoder() string {
	registerOnce.Do(func() {
		_ = zap.RegisterEncoder(colorConsoleEncoding, func(cfg zapcore.EncoderConfig) (zapcore.Encoder, error) {
			return NewColoredConsoleEncoder(cfg), nil
		})
	})
	return colorConsoleEncoding
}

// coloredConsoleEncoder wraps zap's standard console encoder to add syntax highlighting to JSON blobs
type coloredConsoleEncoder struct {
	zapcore.Encoder
}

func NewColoredConsoleEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return &coloredConsoleEncoder{
		Encoder: zapcore.NewConsoleEncoder(cfg),
	}
}

// Clone is required to implement the Encoder interface
func (c *coloredConsoleEncoder) Clone() zapcore.Encoder {
	return &coloredConsoleEncoder{
		Encoder: c.Encoder.Clone(),
	}
}

func (c *coloredConsoleEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf, err := c.Encoder.EncodeEntry(ent, fields)
	if err != nil {
		return nil, err
	}

	logLine := buf.String()

	// The console encoder separates the header from the JSON fields with a tab.
	splitIdx := strings.Index(logLine, "\t{")
	if splitIdx == -1 {
		return buf, nil
	}

	newBuf := bufferPool.Get()
	newBuf.AppendString(logLine[:splitIdx+1])
	newBuf.AppendString(cli.HighlightJSON(logLine[splitIdx+1:]))

	buf.Free()

	return newBuf, nil
}
