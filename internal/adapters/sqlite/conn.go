package sqlite

import (
	"errors"
	"sync"

	"github.com/atvirokodosprendimai/travelapi/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/travelapi/internal/core/domain"
)

var ErrAlreadyInitialized = errors.New("store connection already initialized")

// Conn is the process-wide store handle. It starts uninitialized and moves
// exactly once to ready or failed.
type Conn struct {
	mu    sync.RWMutex
	state domain.StoreState
	db    *gormsqlite.DB
	err   error
}

func NewConn() *Conn {
	return &Conn{}
}

func (c *Conn) Ready(db *gormsqlite.DB) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != domain.StoreUninitialized {
		return ErrAlreadyInitialized
	}
	c.state = domain.StoreReady
	c.db = db
	return nil
}

func (c *Conn) Fail(err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != domain.StoreUninitialized {
		return ErrAlreadyInitialized
	}
	c.state = domain.StoreFailed
	c.err = err
	return nil
}

func (c *Conn) State() (domain.StoreState, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state, c.err
}

// DB returns the connection, or domain.ErrStoreUnavailable unless ready.
func (c *Conn) DB() (*gormsqlite.DB, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state != domain.StoreReady {
		return nil, domain.ErrStoreUnavailable
	}
	return c.db, nil
}

func (c *Conn) Close() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}
