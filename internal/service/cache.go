package service

import (
	"sync"

	"cloud.google.com/go/civil"

	"github.com/jask/nestegg/internal/ledger"
)

type accrualKey struct {
	AccountID string
	Day       civil.Date
}

// AccrualCache memoizes accrual results per (account, calendar day).
// ComputeAccrual is pure, so the cache lives out here with the caller —
// never on the account itself — and a day rollover simply misses. Data
// loads once per session, so the only invalidation path is Reset.
type AccrualCache struct {
	mu      sync.RWMutex
	results map[accrualKey]ledger.Result
}

func NewAccrualCache() *AccrualCache {
	return &AccrualCache{results: make(map[accrualKey]ledger.Result)}
}

// Get returns the account's accrual bundle as of asOf, computing and
// remembering it on first request for that calendar day.
func (c *AccrualCache) Get(acct ledger.Account, asOf civil.Date) ledger.Result {
	key := accrualKey{AccountID: acct.ID, Day: asOf}

	c.mu.RLock()
	res, ok := c.results[key]
	c.mu.RUnlock()
	if ok {
		return res
	}

	res = ledger.ComputeAccrual(acct.Transactions, acct.Schedule, asOf)
	c.mu.Lock()
	c.results[key] = res
	c.mu.Unlock()
	return res
}

// Reset discards all memoized results.
func (c *AccrualCache) Reset() {
	c.mu.Lock()
	c.results = make(map[accrualKey]ledger.Result)
	c.mu.Unlock()
}
