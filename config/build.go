package config

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/pavanmanishd/multialloc"
	"github.com/pavanmanishd/multialloc/backend"
	"github.com/pavanmanishd/multialloc/internal/logging"
)

// Build validates the configuration and constructs the dispatch table.
// A nil logger uses the package logger at LogLevel.
func (c *Config) Build(log logrus.FieldLogger) (*multialloc.Table, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		l := logging.Get()
		l.SetLevel(logging.Level(c.LogLevel))
		log = l
	}

	regs := make([]multialloc.Registration, 0, len(c.Backends))
	for _, b := range c.Backends {
		a, err := b.New(log)
		if err != nil {
			return nil, err
		}
		regs = append(regs, multialloc.Registration{Name: b.Name, Backend: a})
		log.WithFields(logrus.Fields{
			"tag":  len(regs) - 1,
			"name": b.Name,
			"kind": b.Kind,
		}).Debug("registered backend")
	}
	return multialloc.NewTable(regs...)
}

// New constructs the backend described by b.
func (b Backend) New(log logrus.FieldLogger) (multialloc.Allocator, error) {
	return newKind(b.Kind, b, log)
}

func newKind(kind string, b Backend, log logrus.FieldLogger) (multialloc.Allocator, error) {
	switch kind {
	case KindHeap:
		return backend.NewHeap(), nil
	case KindPool:
		return backend.NewPool(b.MaxPooled), nil
	case KindArena:
		a := backend.NewArena(b.ChunkSize)
		if b.Reserve > 0 {
			a.EnsureCapacity(b.Reserve)
		}
		return a, nil
	case KindMmap:
		return backend.NewMmap(), nil
	case KindDebug:
		if b.Wraps == KindDebug {
			return nil, fmt.Errorf("%w: %q wraps %q", ErrBadWraps, b.Name, b.Wraps)
		}
		inner, err := newKind(b.Wraps, b, log)
		if err != nil {
			return nil, err
		}
		return backend.NewDebug(inner,
			backend.WithPoison(b.Poison),
			backend.WithDebugLogger(log.WithField("backend", b.Name)),
		), nil
	}
	return nil, fmt.Errorf("%w: %q (backend %q)", ErrUnknownKind, kind, b.Name)
}
