// Package lending tokenizes merchant receivables and disburses loans against
// them. The ledger of receivable tokens is in-memory and demo-grade; it does
// not survive a restart.
package lending

import (
	"sync"
)

const (
	StatusTokenized      = "tokenized"
	StatusCollateralized = "collateralized"
)

// Token is a tokenized receivable. Loan fields are populated once the token
// has been used as collateral.
type Token struct {
	TokenID        string   `json:"token_id"`
	SaleID         string   `json:"sale_id"`
	AmountTotalBRL float64  `json:"amount_total_brl"`
	Installments   int      `json:"installments"`
	Merchant       string   `json:"merchant,omitempty"`
	CreatedAt      int64    `json:"created_at"`
	Status         string   `json:"status"`
	LoanRLUSD      *float64 `json:"loan_rlusd,omitempty"`
	EscrowSequence *uint32  `json:"escrow_sequence,omitempty"`
	PaymentTxHash  string   `json:"payment_tx_hash,omitempty"`
}

// Store keeps receivable tokens keyed by token id. Reads and writes are safe
// for concurrent use; LockToken additionally serializes whole borrow flows on
// the same token so a read-modify-write cannot lose an update.
type Store struct {
	mu     sync.RWMutex
	tokens map[string]Token

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

func NewStore() *Store {
	return &Store{
		tokens: make(map[string]Token),
		locks:  make(map[string]*sync.Mutex),
	}
}

// Put stores the token, replacing any record with the same id.
func (s *Store) Put(token Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.TokenID] = token
}

// Get returns a copy of the token, if present.
func (s *Store) Get(tokenID string) (Token, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[tokenID]
	return token, ok
}

// Len reports the number of stored tokens.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}

// LockToken acquires the per-token mutex. The returned function releases it.
// Locks are created on demand and never removed; the token space is bounded
// by the number of tokenized sales.
func (s *Store) LockToken(tokenID string) func() {
	s.lockMu.Lock()
	lock, ok := s.locks[tokenID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[tokenID] = lock
	}
	s.lockMu.Unlock()

	lock.Lock()
	return lock.Unlock
}
