// Package fakeledgerrepo provides an in-memory ledger.Repo for tests.
package fakeledgerrepo

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/go-todo-server/token/ledger"
)

var _ ledger.Repo = (*FakeLedgerRepo)(nil)

type FakeLedgerRepo struct {
	records map[string]*ledger.Record
	lock    sync.RWMutex
}

func NewFakeLedgerRepo() *FakeLedgerRepo {
	return &FakeLedgerRepo{records: make(map[string]*ledger.Record)}
}

func (lr *FakeLedgerRepo) Create(_ context.Context, record *ledger.Record) error {
	lr.lock.Lock()
	defer lr.lock.Unlock()

	clone := *record
	lr.records[record.JTI] = &clone
	return nil
}

func (lr *FakeLedgerRepo) Get(_ context.Context, jti string) (*ledger.Record, error) {
	lr.lock.RLock()
	defer lr.lock.RUnlock()

	record, ok := lr.records[jti]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	clone := *record
	return &clone, nil
}

func (lr *FakeLedgerRepo) DeleteByJTI(_ context.Context, jti string) error {
	lr.lock.Lock()
	defer lr.lock.Unlock()

	delete(lr.records, jti)
	return nil
}

func (lr *FakeLedgerRepo) DeleteExpired(_ context.Context, cutoff time.Time) (int64, error) {
	lr.lock.Lock()
	defer lr.lock.Unlock()

	var n int64
	for jti, record := range lr.records {
		if record.ExpiresAt.Before(cutoff) {
			delete(lr.records, jti)
			n++
		}
	}
	return n, nil
}

// Count reports the number of live records, for test assertions.
func (lr *FakeLedgerRepo) Count() int {
	lr.lock.RLock()
	defer lr.lock.RUnlock()
	return len(lr.records)
}
