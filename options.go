package multialloc

import (
	"github.com/sirupsen/logrus"

	"github.com/pavanmanishd/multialloc/internal/logging"
)

// Option configures a Multi.
type Option func(*options)

type options struct {
	logger logrus.FieldLogger
}

func defaultOptions() *options {
	return &options{
		logger: logging.Get().WithField("prefix", "multialloc"),
	}
}

// WithLogger sets the logger used for lifecycle events. Allocation and
// deallocation never log.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
