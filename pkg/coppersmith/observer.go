package coppersmith

import "go.uber.org/zap"

// Round describes one escalation round.
type Round struct {
	Pipeline  Pipeline
	Param     int // m (univariate) or k (bivariate)
	Secondary int // t; zero for the bivariate pipeline
}

// RoundObserver is notified before every round is handed to the solver.
type RoundObserver interface {
	ObserveRound(Round)
}

// RoundObserverFunc adapts a function to RoundObserver.
type RoundObserverFunc func(Round)

// ObserveRound calls f(r).
func (f RoundObserverFunc) ObserveRound(r Round) { f(r) }

// LogObserver logs every round at debug level.
func LogObserver(logger *zap.Logger) RoundObserver {
	return RoundObserverFunc(func(r Round) {
		fields := []zap.Field{
			zap.String("pipeline", string(r.Pipeline)),
			zap.Int("param", r.Param),
		}
		if r.Pipeline == PipelineUnivariate {
			fields = append(fields, zap.Int("t", r.Secondary))
		}
		logger.Debug("Starting search round", fields...)
	})
}

// MultiObserver notifies every non-nil observer in order.
func MultiObserver(observers ...RoundObserver) RoundObserver {
	return RoundObserverFunc(func(r Round) {
		for _, o := range observers {
			if o != nil {
				o.ObserveRound(r)
			}
		}
	})
}
