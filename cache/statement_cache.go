package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/sqlbind/sqlbind/template"
)

// StatementCache holds compiled statements so repeated prepares of the
// same template against an unchanged record store skip the scan and
// resolution pass.
type StatementCache struct {
	cache *lru.Cache[uint64, *template.Statement]
	mu    sync.RWMutex
}

func NewStatementCache(size int) *StatementCache {
	cache, _ := lru.New[uint64, *template.Statement](size)
	return &StatementCache{cache: cache}
}

func (s *StatementCache) Get(key uint64) (*template.Statement, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cache.Get(key)
}

func (s *StatementCache) Add(key uint64, stmt *template.Statement) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Add(key, stmt)
}

// GetOrCompile returns the cached statement for key, running compile and
// caching its result on a miss.
func (s *StatementCache) GetOrCompile(key uint64, compile func() (*template.Statement, error)) (*template.Statement, error) {
	// Fast path: try to get from cache with read lock
	s.mu.RLock()
	if stmt, ok := s.cache.Get(key); ok {
		s.mu.RUnlock()
		return stmt, nil
	}
	s.mu.RUnlock()

	// Slow path: compile and cache with write lock
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock
	if stmt, ok := s.cache.Get(key); ok {
		return stmt, nil
	}

	stmt, err := compile()
	if err != nil {
		return nil, err
	}

	s.cache.Add(key, stmt)
	return stmt, nil
}

func (s *StatementCache) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Purge()
}
