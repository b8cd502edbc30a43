package credentials

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/medportal/internal/client/models"
	"github.com/dmitrijs2005/medportal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/medportal/internal/dbx"
	"github.com/dmitrijs2005/medportal/internal/logging"
)

// Metadata keys of the persisted session.
const (
	KeyToken   = "token"
	KeyProfile = "user"
)

// Persistent is a Store that mirrors the in-memory slot into the local
// metadata table so the session survives a restart. The in-memory update
// happens first; a failed write is logged and does not undo it. Writers are
// serialized so the table always ends up holding what memory holds; Get
// never waits on them.
type Persistent struct {
	wmu  sync.Mutex
	mem  *Memory
	db   *sql.DB
	repo metadata.Repository
	log  logging.Logger
}

// NewPersistent binds the slot to db, which must already hold the metadata
// table (see migrations.Run).
func NewPersistent(db *sql.DB, log logging.Logger) *Persistent {
	if log == nil {
		log = logging.NopLogger{}
	}
	return &Persistent{mem: NewMemory(), db: db, repo: metadata.NewSQLiteRepository(db), log: log}
}

// Load restores the slot from storage. A missing row leaves the slot empty.
func (p *Persistent) Load(ctx context.Context) error {
	p.wmu.Lock()
	defer p.wmu.Unlock()

	v, err := p.repo.Get(ctx, KeyToken)
	if err != nil {
		return fmt.Errorf("load credential: %w", err)
	}
	p.mem.Set(string(v))
	return nil
}

func (p *Persistent) Get() (string, bool) {
	return p.mem.Get()
}

func (p *Persistent) Set(token string) {
	p.wmu.Lock()
	defer p.wmu.Unlock()

	p.mem.Set(token)
	ctx := context.Background()
	if token == "" {
		p.wipe(ctx)
		return
	}
	if err := p.store(ctx, token); err != nil {
		p.log.Error(ctx, "persist credential", "error", err)
	}
}

// store writes token and, when it replaces a different credential, drops
// the cached profile, which belonged to the previous session.
func (p *Persistent) store(ctx context.Context, token string) error {
	return dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := metadata.NewSQLiteRepository(tx)
		prev, err := r.Get(ctx, KeyToken)
		if err != nil {
			return err
		}
		if err := r.Set(ctx, KeyToken, []byte(token)); err != nil {
			return err
		}
		if prev != nil && string(prev) != token {
			return r.Delete(ctx, KeyProfile)
		}
		return nil
	})
}

func (p *Persistent) Clear() {
	p.wmu.Lock()
	defer p.wmu.Unlock()

	p.mem.Clear()
	p.wipe(context.Background())
}

func (p *Persistent) Take() (string, bool) {
	p.wmu.Lock()
	defer p.wmu.Unlock()

	token, ok := p.mem.Take()
	p.wipe(context.Background())
	return token, ok
}

// wipe removes both the credential and the cached profile, as logout does.
func (p *Persistent) wipe(ctx context.Context) {
	if err := p.repo.Delete(ctx, KeyToken, KeyProfile); err != nil {
		p.log.Error(ctx, "wipe persisted session", "error", err)
	}
}

// SaveProfile caches the last fetched profile next to the credential.
func (p *Persistent) SaveProfile(ctx context.Context, profile models.Profile) error {
	b, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return p.repo.Set(ctx, KeyProfile, b)
}

// LoadProfile returns the cached profile, or nil if none is stored.
func (p *Persistent) LoadProfile(ctx context.Context) (*models.Profile, error) {
	b, err := p.repo.Get(ctx, KeyProfile)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	var profile models.Profile
	if err := json.Unmarshal(b, &profile); err != nil {
		return nil, fmt.Errorf("decode cached profile: %w", err)
	}
	return &profile, nil
}
