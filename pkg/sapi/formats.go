package sapi

import (
	"sync"
	"time"
)

// dateFormatter parses date strings for one fixed layout. Instances are
// shared through layoutCache, so they hold no mutable state.
type dateFormatter struct {
	layout   string
	location *time.Location
}

func (f *dateFormatter) parse(value string) (time.Time, error) {
	return time.ParseInLocation(f.layout, value, f.location)
}

// layoutCache maps date layouts to reusable formatters. It is populated
// lazily and never evicted; the set of layouts an API uses is finite.
// Concurrent lookups and inserts are safe.
type layoutCache struct {
	formatters sync.Map // layout string -> *dateFormatter
}

func (c *layoutCache) get(layout string) *dateFormatter {
	if f, ok := c.formatters.Load(layout); ok {
		return f.(*dateFormatter)
	}

	f, _ := c.formatters.LoadOrStore(layout, &dateFormatter{
		layout:   layout,
		location: time.UTC,
	})

	return f.(*dateFormatter)
}
