package monitor

import (
	"sort"
	"sync"
	"time"
)

type Collector interface {
	Record(metrics OpMetrics)
	Summary() Summary
	Reset()
}

type InMemoryCollector struct {
	mu        sync.RWMutex
	ops       []OpMetrics
	startTime time.Time
}

func NewInMemoryCollector() *InMemoryCollector {
	return &InMemoryCollector{
		startTime: time.Now(),
	}
}

func (c *InMemoryCollector) Record(metrics OpMetrics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = append(c.ops, metrics)
}

func (c *InMemoryCollector) Summary() Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Summary{Since: c.startTime, Namespaces: []string{}}
	var total time.Duration
	seen := make(map[string]bool)

	for _, m := range c.ops {
		total += m.Duration
		if !seen[m.Namespace] {
			seen[m.Namespace] = true
			s.Namespaces = append(s.Namespaces, m.Namespace)
		}
		if !m.Success {
			s.Failures++
		}

		switch m.Op {
		case OpAddTexts:
			s.Adds++
			if m.Success {
				s.TextsAdded += m.Count
			}
		case OpGetMatchingText:
			s.Queries++
			if m.Success {
				s.DocsReturned += m.Count
			}
		}
	}

	if len(c.ops) > 0 {
		s.AvgLatency = total / time.Duration(len(c.ops))
	}
	sort.Strings(s.Namespaces)
	return s
}

func (c *InMemoryCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = nil
	c.startTime = time.Now()
}

type NoOpCollector struct{}

func NewNoOpCollector() *NoOpCollector {
	return &NoOpCollector{}
}

func (c *NoOpCollector) Record(metrics OpMetrics) {}

func (c *NoOpCollector) Summary() Summary {
	return Summary{Namespaces: []string{}}
}

func (c *NoOpCollector) Reset() {}
