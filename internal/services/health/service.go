package health

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Checker reports whether one dependency is reachable.
type Checker func(ctx context.Context) error

// Report is the readiness payload served on /healthz.
type Report struct {
	OK     bool              `json:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Service runs the registered dependency checks.
type Service struct {
	Timeout time.Duration

	mu     sync.RWMutex
	checks map[string]Checker
}

// NewService constructs a health service with no checks; Status is then
// always ok, which is what memory-backed dev runs want.
func NewService() *Service {
	return &Service{Timeout: 2 * time.Second, checks: make(map[string]Checker)}
}

// Register adds a named check. A nil check is ignored.
func (s *Service) Register(name string, check Checker) {
	if check == nil {
		return
	}
	s.mu.Lock()
	s.checks[name] = check
	s.mu.Unlock()
}

// Status runs every check concurrently under Timeout.
func (s *Service) Status(ctx context.Context) Report {
	s.mu.RLock()
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	s.mu.RUnlock()
	sort.Strings(names)

	report := Report{OK: true}
	if len(names) == 0 {
		return report
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results := make([]error, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		s.mu.RLock()
		check := s.checks[name]
		s.mu.RUnlock()
		wg.Add(1)
		go func(i int, check Checker) {
			defer wg.Done()
			results[i] = check(ctx)
		}(i, check)
	}
	wg.Wait()

	report.Checks = make(map[string]string, len(names))
	for i, name := range names {
		if results[i] != nil {
			report.OK = false
			report.Checks[name] = results[i].Error()
			continue
		}
		report.Checks[name] = "ok"
	}
	return report
}
