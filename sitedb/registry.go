package sitedb

import (
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/Psychotichub/report/models"
)

// OpenFunc opens the logical database for one tenant key. The key is already
// normalized to [a-z0-9_], so it is safe to splice into schema names and
// file paths. The returned close func tears down whatever the opener owns;
// nil means the connection is shared and outlives the tenant handle.
type OpenFunc func(key string) (db *gorm.DB, close func() error, err error)

// Handles bundles the per-tenant stores. One bundle per tenant key, created
// lazily and cached for the life of the process.
type Handles struct {
	Materials      *Store[models.SiteMaterial]
	DailyReports   *Store[models.SiteDailyReport]
	Received       *Store[models.SiteReceived]
	TotalPrices    *Store[models.SiteTotalPrice]
	MonthlyReports *Store[models.SiteMonthlyReport]
	ActivityLogs   *Store[models.SiteActivityLog]

	db    *gorm.DB
	close func() error
}

func (h *Handles) DB() *gorm.DB { return h.db }

type entry struct {
	once    sync.Once
	handles *Handles
	err     error
}

// Registry caches tenant handle bundles. Concurrent first calls for the same
// key run schema definition exactly once (sync.Once per entry); distinct keys
// never wait on each other. The registry lock only guards the map, never a
// database round trip.
type Registry struct {
	mu      sync.Mutex
	open    OpenFunc
	entries map[string]*entry
}

func NewRegistry(open OpenFunc) *Registry {
	return &Registry{open: open, entries: make(map[string]*entry)}
}

// Get returns the cached handle bundle for (site, company), defining the
// tenant's schema on first access. Failed definitions are evicted so the next
// request retries instead of pinning the error forever.
func (r *Registry) Get(site, company string) (*Handles, error) {
	key := Key(site, company)

	r.mu.Lock()
	e, ok := r.entries[key]
	if !ok {
		e = &entry{}
		r.entries[key] = e
	}
	r.mu.Unlock()

	e.once.Do(func() {
		e.handles, e.err = r.define(key)
	})
	if e.err != nil {
		r.mu.Lock()
		if r.entries[key] == e {
			delete(r.entries, key)
		}
		r.mu.Unlock()
		return nil, e.err
	}
	return e.handles, nil
}

func (r *Registry) define(key string) (*Handles, error) {
	db, closeDB, err := r.open(key)
	if err != nil {
		return nil, fmt.Errorf("open site database %s: %w", key, err)
	}
	if err := db.AutoMigrate(
		&models.SiteMaterial{},
		&models.SiteDailyReport{},
		&models.SiteReceived{},
		&models.SiteTotalPrice{},
		&models.SiteMonthlyReport{},
		&models.SiteActivityLog{},
	); err != nil {
		// The entry is evicted for retry; an owned connection must not
		// outlive it.
		if closeDB != nil {
			_ = closeDB()
		}
		return nil, fmt.Errorf("migrate site database %s: %w", key, err)
	}
	return &Handles{
		Materials:      NewStore[models.SiteMaterial](db),
		DailyReports:   NewStore[models.SiteDailyReport](db),
		Received:       NewStore[models.SiteReceived](db),
		TotalPrices:    NewStore[models.SiteTotalPrice](db),
		MonthlyReports: NewStore[models.SiteMonthlyReport](db),
		ActivityLogs:   NewStore[models.SiteActivityLog](db),
		db:             db,
		close:          closeDB,
	}, nil
}

// CloseAll closes every owned tenant connection and clears the cache. Shared
// pools (schema-per-tenant) have a nil closer and stay open; they belong to
// the main database, not the registry.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for key, e := range r.entries {
		if e.handles == nil || e.handles.close == nil {
			continue
		}
		if err := e.handles.close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close site database %s: %w", key, err)
		}
	}
	r.entries = make(map[string]*entry)
	return firstErr
}

// Default is the process-wide registry, populated by Init at startup.
var Default *Registry

func Init(open OpenFunc) {
	Default = NewRegistry(open)
}

// Get resolves tenant handles from the default registry.
func Get(site, company string) (*Handles, error) {
	if Default == nil {
		return nil, fmt.Errorf("site database registry not initialized")
	}
	return Default.Get(site, company)
}

// Shutdown tears down the default registry; used on process exit.
func Shutdown() error {
	if Default == nil {
		return nil
	}
	return Default.CloseAll()
}
