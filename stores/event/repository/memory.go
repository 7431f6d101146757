package repository

import (
	"sync"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/domain/event"
)

type memory struct {
	mu     sync.RWMutex
	events []event.Event
}

// NewMemory records events in emission order
func NewMemory() event.Repo {
	return &memory{}
}

func (m *memory) Insert(c ctx.Ctx, e event.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

// FindAll returns the matching events newest first
func (m *memory) FindAll(c ctx.Ctx, optFns ...event.FindAllOptions) ([]event.Event, error) {
	opts, err := event.GetFindAllOptions(optFns...)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	res := []event.Event{}
	skip := 0
	if opts.Offset != nil {
		skip = *opts.Offset
	}
	for i := len(m.events) - 1; i >= 0; i-- {
		e := m.events[i]
		if !opts.Match(e) {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		if opts.Limit != nil && *opts.Limit > 0 && len(res) >= *opts.Limit {
			break
		}
		res = append(res, e)
	}
	return res, nil
}
