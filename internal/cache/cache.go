package cache

import (
	"time"

	"gatherly/internal/log"
)

// Cache is the read-through surface the HTTP layer depends on.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	Len() int
}

// Cleaner is implemented by caches that can drop expired entries on demand.
type Cleaner interface {
	EvictExpired() int
}

// Janitor periodically evicts expired entries from every registered cache.
type Janitor struct {
	logger *log.Logger
	caches []Cleaner
	stop   chan struct{}
	done   chan struct{}
}

func NewJanitor(logger *log.Logger) *Janitor {
	return &Janitor{
		logger: logger.WithComponent(log.ComponentCache),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Register adds a cache to the sweep set. Not safe to call after Start.
func (j *Janitor) Register(c Cleaner) {
	j.caches = append(j.caches, c)
}

// Start launches the sweep loop.
func (j *Janitor) Start(interval time.Duration) {
	go j.run(interval)
}

func (j *Janitor) run(interval time.Duration) {
	defer close(j.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			evicted := 0
			for _, c := range j.caches {
				evicted += c.EvictExpired()
			}
			if evicted > 0 {
				j.logger.Debug("evicted expired cache entries", "evicted", evicted)
			}
		case <-j.stop:
			return
		}
	}
}

// Stop halts the sweep loop and waits for it to exit.
func (j *Janitor) Stop() {
	close(j.stop)
	<-j.done
}
