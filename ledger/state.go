package ledger

import "sort"

// =============================================================================
// STATE - Snapshot of the in-memory cache
// =============================================================================

// State is a snapshot of the session's canonical arrays. Operations in this
// package never mutate it; they return Mutations describing the store writes
// and let the caller re-apply them to its own copy.
type State struct {
	Transactions []Transaction
	Cards        []Card
	Users        []User
}

// CardByID looks a card up by id.
func (s State) CardByID(id CardID) (Card, bool) {
	for _, c := range s.Cards {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

// UserByID looks a user up by id.
func (s State) UserByID(id UserID) (User, bool) {
	for _, u := range s.Users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// TransactionByID looks a transaction up by id.
func (s State) TransactionByID(id TransactionID) (Transaction, bool) {
	for _, t := range s.Transactions {
		if t.ID == id {
			return t, true
		}
	}
	return Transaction{}, false
}

// InstallmentGroup returns every transaction belonging to the group keyed by
// groupID: the anchor (matched by its own id) plus all siblings pointing at
// it.
func InstallmentGroup(txs []Transaction, groupID TransactionID) []Transaction {
	var group []Transaction
	for _, t := range txs {
		if t.ID == groupID || t.ParentTransactionID == groupID {
			group = append(group, t)
		}
	}
	return group
}

// SortByDateDesc returns a copy of txs ordered by booking date, most recent
// first. Table views rely on this ordering.
func SortByDateDesc(txs []Transaction) []Transaction {
	sorted := make([]Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[j].Date.Before(sorted[i].Date)
	})
	return sorted
}
