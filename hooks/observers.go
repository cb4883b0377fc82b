package hooks

import (
	"time"

	"go.uber.org/zap"

	"github.com/comalice/traitx"
)

// Logging wraps an observer and logs around its execution.
func Logging(logger *zap.Logger, inner traitx.ObserverFunc) traitx.ObserverFunc {
	return func(ev traitx.ChangeEvent) error {
		fields := []zap.Field{
			zap.String("attribute", ev.Name),
			zap.Stringer("kind", ev.Kind),
			zap.Any("old", ev.Old),
			zap.Any("new", ev.New),
		}
		if owner := ev.Owner(); owner != nil {
			fields = append(fields, zap.String("schema", owner.Schema().Name()), zap.Stringer("instance", owner.ID()))
		}
		logger.Debug("observer start", fields...)
		start := time.Now()
		err := inner(ev)
		fields = append(fields, zap.Duration("elapsed", time.Since(start)))
		if err != nil {
			logger.Error("observer failed", append(fields, zap.Error(err))...)
			return err
		}
		logger.Debug("observer done", fields...)
		return nil
	}
}

// Log returns an observer that only logs each event at info level.
func Log(logger *zap.Logger) traitx.ObserverFunc {
	return Logging(logger, func(ev traitx.ChangeEvent) error {
		logger.Info("attribute changed",
			zap.String("attribute", ev.Name),
			zap.Any("old", ev.Old),
			zap.Any("new", ev.New),
		)
		return nil
	})
}

// Channel forwards events to ch without blocking; events are dropped when
// the channel is full.
func Channel(ch chan<- traitx.ChangeEvent) traitx.ObserverFunc {
	return func(ev traitx.ChangeEvent) error {
		select {
		case ch <- ev:
		default:
		}
		return nil
	}
}
