package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/cache"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/testutil"
)

type memFiles struct {
	mu    sync.Mutex
	files map[string][]byte
	fail  bool
}

func newMemFiles() *memFiles { return &memFiles{files: map[string][]byte{}} }

func (m *memFiles) Put(dir, name string, r io.Reader) (string, error) {
	if m.fail {
		return "", errors.New("disk full")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p := dir + "/" + name
	m.files[p] = b
	return p, nil
}

func (m *memFiles) Delete(rel string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, rel)
	return nil
}

func (m *memFiles) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

type recordingBus struct {
	events []OrderCreatedEvent
	err    error
}

func (b *recordingBus) PublishOrderCreated(_ context.Context, e OrderCreatedEvent) error {
	b.events = append(b.events, e)
	return b.err
}

type fixture struct {
	db      *gorm.DB
	repo    *repo.GormRepo
	files   *memFiles
	bus     *recordingBus
	orders  *OrderService
	address *AddressService
	content *ContentService
	catalog *CatalogService
	cart    *CartService
	users   *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := testutil.NewDB(t)
	r := repo.New(gdb)
	files := newMemFiles()
	bus := &recordingBus{}
	return &fixture{
		db:      gdb,
		repo:    r,
		files:   files,
		bus:     bus,
		orders:  &OrderService{Repo: r, Files: files, Events: bus},
		address: &AddressService{Repo: r},
		content: &ContentService{Repo: r, Cache: cache.NewMemory()},
		catalog: &CatalogService{Repo: r, Files: files},
		cart:    &CartService{Repo: r},
		users:   &UserService{Repo: r},
	}
}

func requireKind(t *testing.T, err, kind error) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, kind)
}

func repoOrderFilter(userID *uint, status string) repo.OrderFilter {
	return repo.OrderFilter{UserID: userID, Status: status, Page: repo.Page{Limit: 15}}
}
