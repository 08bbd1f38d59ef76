/*
Package tracker is the session layer of the finance tracker.

PURPOSE:
  Owns the canonical in-memory arrays (transactions, cards, users), issues
  document-store writes for every mutation, and re-applies each mutation to
  the cache only after the corresponding write resolves. The external store
  is the system of record; the cache is a convenience kept consistent by
  this package.

WRITE ORDERING:
  Replacing an installment group is a multi-step write with no transactional
  guarantee: deletions of the superseded rows are issued together and must
  ALL complete before any replacement row is created, otherwise an
  interruption could leave duplicates behind. Row ids are generated
  client-side, so replacement rows already carry their group linkage and are
  created concurrently (errgroup fan-out, joint join).

PARTIAL FAILURE:
  When a step of a multi-write fails the store and the cache may disagree.
  The tracker logs which step failed, marks the cache dirty, and rejects
  further writes with ErrReloadRequired until Load has re-synced from the
  store. Nothing is rolled back automatically.

SEE ALSO:
  - ledger: the pure operations this package persists
  - ledger/store, store/sqlite: the Store implementations
*/
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/warp/finance-tracker/ledger"
)

// Tracker is a single user session over one document store. The session is
// logically single-threaded; the mutex only serializes the HTTP handlers
// sharing it.
type Tracker struct {
	store ledger.Store
	log   *slog.Logger
	newID ledger.IDGenerator

	mu    sync.Mutex
	state ledger.State
	dirty bool
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.log = l }
}

// WithIDGenerator replaces the uuid id source. Tests inject deterministic
// sequences.
func WithIDGenerator(g ledger.IDGenerator) Option {
	return func(t *Tracker) { t.newID = g }
}

// New creates a tracker over the given store. Call Load before anything
// else.
func New(store ledger.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store: store,
		log:   slog.Default().With("component", "tracker"),
		newID: ledger.UUIDs,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// =============================================================================
// LOADING & SEEDING
// =============================================================================

// Load replaces the cache with the store's current contents. Transactions
// come back newest-created first. When the users collection is empty a small
// default set is seeded so transaction entry has someone to book against.
func (t *Tracker) Load(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	txDocs, err := t.store.QueryAll(ctx, ledger.CollectionTransactions, ledger.OrderByCreatedDesc())
	if err != nil {
		return &StoreError{Op: "query", Collection: ledger.CollectionTransactions, Err: err}
	}
	cardDocs, err := t.store.QueryAll(ctx, ledger.CollectionCards)
	if err != nil {
		return &StoreError{Op: "query", Collection: ledger.CollectionCards, Err: err}
	}
	userDocs, err := t.store.QueryAll(ctx, ledger.CollectionUsers)
	if err != nil {
		return &StoreError{Op: "query", Collection: ledger.CollectionUsers, Err: err}
	}

	next := ledger.State{}
	for _, doc := range txDocs {
		tx, err := decodeTransaction(doc)
		if err != nil {
			return fmt.Errorf("load: %w", err)
		}
		next.Transactions = append(next.Transactions, tx)
	}
	for _, doc := range cardDocs {
		card, err := decodeCard(doc)
		if err != nil {
			return fmt.Errorf("load: %w", err)
		}
		next.Cards = append(next.Cards, card)
	}
	for _, doc := range userDocs {
		user, err := decodeUser(doc)
		if err != nil {
			return fmt.Errorf("load: %w", err)
		}
		next.Users = append(next.Users, user)
	}

	if len(next.Users) == 0 {
		seeded, err := t.seedDefaultUsers(ctx)
		if err != nil {
			return err
		}
		next.Users = seeded
	}

	t.state = next
	t.dirty = false
	t.log.InfoContext(ctx, "state loaded",
		"transactions", len(next.Transactions),
		"cards", len(next.Cards),
		"users", len(next.Users))
	return nil
}

func (t *Tracker) seedDefaultUsers(ctx context.Context) ([]ledger.User, error) {
	defaults := ledger.DefaultUsers()
	for i, u := range defaults {
		id, err := t.store.Create(ctx, ledger.CollectionUsers, encodeUser(u))
		if err != nil {
			return nil, &StoreError{Op: "seed", Collection: ledger.CollectionUsers, Err: err}
		}
		defaults[i].ID = ledger.UserID(id)
	}
	t.log.InfoContext(ctx, "seeded default users", "count", len(defaults))
	return defaults, nil
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// SaveTransaction persists a drafted transaction. With an empty editingID it
// records a new entry (one row, or a full installment schedule). With an
// editingID it either merges a plain edit in place or, when the target or
// the draft involves installments, regenerates the whole group from the
// draft.
func (t *Tracker) SaveTransaction(ctx context.Context, d ledger.Draft, editingID ledger.TransactionID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.dirty {
		return ErrReloadRequired
	}

	if editingID == "" {
		m, err := ledger.RecordTransaction(t.state, d, "", t.newID)
		if err != nil {
			return err
		}
		return t.applyMutation(ctx, m)
	}

	existing, ok := t.state.TransactionByID(editingID)
	if !ok {
		return fmt.Errorf("save transaction: %q: %w", editingID, ledger.ErrTransactionNotFound)
	}

	if existing.IsInstallment() || d.Split {
		m, err := ledger.RecordTransaction(t.state, d, existing.GroupKey(), t.newID)
		if err != nil {
			return err
		}
		return t.applyMutation(ctx, m)
	}

	// Plain single-row edit: validate and denormalize through the same path,
	// then merge under the existing id.
	m, err := ledger.RecordTransaction(t.state, d, "", func() ledger.TransactionID { return editingID })
	if err != nil {
		return err
	}
	row := m.ToCreate[0]
	fields := encodeTransaction(row)
	delete(fields, ledger.FieldID)
	if err := t.store.Update(ctx, ledger.CollectionTransactions, string(editingID), fields); err != nil {
		return &StoreError{Op: "update", Collection: ledger.CollectionTransactions, Err: err}
	}

	row.CreatedAt = existing.CreatedAt
	row.UpdatedAt = time.Now()
	for i := range t.state.Transactions {
		if t.state.Transactions[i].ID == editingID {
			t.state.Transactions[i] = row
		}
	}
	return nil
}

// applyMutation performs the mutation's store writes in the required order
// and re-applies it to the cache. Deletions run jointly and must all
// complete before any create is issued; creates then fan out together since
// their ids and linkage are already assigned.
func (t *Tracker) applyMutation(ctx context.Context, m ledger.Mutation) error {
	if len(m.ToDelete) > 0 {
		g, gctx := errgroup.WithContext(ctx)
		for _, id := range m.ToDelete {
			id := id
			g.Go(func() error {
				return t.store.Delete(gctx, ledger.CollectionTransactions, string(id))
			})
		}
		if err := g.Wait(); err != nil {
			t.dirty = true
			t.log.ErrorContext(ctx, "group replacement failed", "step", "delete", "error", err)
			return &StoreError{Op: "delete", Collection: ledger.CollectionTransactions, Err: err}
		}
	}

	if len(m.ToCreate) > 0 {
		g, gctx := errgroup.WithContext(ctx)
		for _, row := range m.ToCreate {
			row := row
			g.Go(func() error {
				_, err := t.store.Create(gctx, ledger.CollectionTransactions, encodeTransaction(row))
				return err
			})
		}
		if err := g.Wait(); err != nil {
			t.dirty = true
			t.log.ErrorContext(ctx, "group replacement failed", "step", "create", "error", err)
			return &StoreError{Op: "create", Collection: ledger.CollectionTransactions, Err: err}
		}
	}

	// Writes resolved; re-apply to the cache.
	deleted := make(map[ledger.TransactionID]bool, len(m.ToDelete))
	for _, id := range m.ToDelete {
		deleted[id] = true
	}
	kept := t.state.Transactions[:0:0]
	for _, tx := range t.state.Transactions {
		if !deleted[tx.ID] {
			kept = append(kept, tx)
		}
	}
	now := time.Now()
	created := make([]ledger.Transaction, 0, len(m.ToCreate))
	for _, row := range m.ToCreate {
		row.CreatedAt = now
		row.UpdatedAt = now
		created = append(created, row)
	}
	t.state.Transactions = append(created, kept...)
	return nil
}

// DeleteTransaction removes a single row.
func (t *Tracker) DeleteTransaction(ctx context.Context, id ledger.TransactionID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.dirty {
		return ErrReloadRequired
	}
	if _, ok := t.state.TransactionByID(id); !ok {
		return fmt.Errorf("delete transaction: %q: %w", id, ledger.ErrTransactionNotFound)
	}
	if err := t.store.Delete(ctx, ledger.CollectionTransactions, string(id)); err != nil {
		return &StoreError{Op: "delete", Collection: ledger.CollectionTransactions, Err: err}
	}
	kept := t.state.Transactions[:0:0]
	for _, tx := range t.state.Transactions {
		if tx.ID != id {
			kept = append(kept, tx)
		}
	}
	t.state.Transactions = kept
	return nil
}

// =============================================================================
// CARDS
// =============================================================================

// SaveCard creates the card when its ID is empty, otherwise merges an edit.
// Returns the stored card.
func (t *Tracker) SaveCard(ctx context.Context, card ledger.Card) (ledger.Card, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.dirty {
		return ledger.Card{}, ErrReloadRequired
	}
	if err := ledger.ValidateCard(card); err != nil {
		return ledger.Card{}, err
	}

	if card.ID == "" {
		id, err := t.store.Create(ctx, ledger.CollectionCards, encodeCard(card))
		if err != nil {
			return ledger.Card{}, &StoreError{Op: "create", Collection: ledger.CollectionCards, Err: err}
		}
		card.ID = ledger.CardID(id)
		card.CreatedAt = time.Now()
		card.UpdatedAt = card.CreatedAt
		t.state.Cards = append(t.state.Cards, card)
		return card, nil
	}

	existing, ok := t.state.CardByID(card.ID)
	if !ok {
		return ledger.Card{}, fmt.Errorf("save card: %q: %w", card.ID, ledger.ErrCardNotFound)
	}
	fields := encodeCard(card)
	delete(fields, ledger.FieldID)
	if err := t.store.Update(ctx, ledger.CollectionCards, string(card.ID), fields); err != nil {
		return ledger.Card{}, &StoreError{Op: "update", Collection: ledger.CollectionCards, Err: err}
	}
	card.CreatedAt = existing.CreatedAt
	card.UpdatedAt = time.Now()
	for i := range t.state.Cards {
		if t.state.Cards[i].ID == card.ID {
			t.state.Cards[i] = card
		}
	}
	return card, nil
}

// DeleteCard removes a card and cascades: every transaction referencing it
// is deleted first, then the card itself.
func (t *Tracker) DeleteCard(ctx context.Context, id ledger.CardID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.dirty {
		return ErrReloadRequired
	}
	cascade, err := ledger.DeleteCardCascade(t.state, id)
	if err != nil {
		return err
	}

	if len(cascade.DeleteTransactions) > 0 {
		g, gctx := errgroup.WithContext(ctx)
		for _, txID := range cascade.DeleteTransactions {
			txID := txID
			g.Go(func() error {
				return t.store.Delete(gctx, ledger.CollectionTransactions, string(txID))
			})
		}
		if err := g.Wait(); err != nil {
			t.dirty = true
			t.log.ErrorContext(ctx, "card cascade failed", "step", "delete-transactions", "error", err)
			return &StoreError{Op: "delete", Collection: ledger.CollectionTransactions, Err: err}
		}
	}
	if err := t.store.Delete(ctx, ledger.CollectionCards, string(cascade.DeleteCard)); err != nil {
		t.dirty = true
		t.log.ErrorContext(ctx, "card cascade failed", "step", "delete-card", "error", err)
		return &StoreError{Op: "delete", Collection: ledger.CollectionCards, Err: err}
	}

	removed := make(map[ledger.TransactionID]bool, len(cascade.DeleteTransactions))
	for _, txID := range cascade.DeleteTransactions {
		removed[txID] = true
	}
	keptTx := t.state.Transactions[:0:0]
	for _, tx := range t.state.Transactions {
		if !removed[tx.ID] {
			keptTx = append(keptTx, tx)
		}
	}
	t.state.Transactions = keptTx

	keptCards := t.state.Cards[:0:0]
	for _, c := range t.state.Cards {
		if c.ID != id {
			keptCards = append(keptCards, c)
		}
	}
	t.state.Cards = keptCards
	return nil
}

// =============================================================================
// USERS
// =============================================================================

// SaveUser creates the user when its ID is empty, otherwise merges an edit.
// The avatar resolves to explicit initials uppercased, else the first letter
// of the name.
func (t *Tracker) SaveUser(ctx context.Context, user ledger.User) (ledger.User, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.dirty {
		return ledger.User{}, ErrReloadRequired
	}
	if err := ledger.ValidateUser(user); err != nil {
		return ledger.User{}, err
	}
	user.Avatar = ledger.AvatarFor(user.Name, user.Avatar)

	if user.ID == "" {
		id, err := t.store.Create(ctx, ledger.CollectionUsers, encodeUser(user))
		if err != nil {
			return ledger.User{}, &StoreError{Op: "create", Collection: ledger.CollectionUsers, Err: err}
		}
		user.ID = ledger.UserID(id)
		user.CreatedAt = time.Now()
		user.UpdatedAt = user.CreatedAt
		t.state.Users = append(t.state.Users, user)
		return user, nil
	}

	existing, ok := t.state.UserByID(user.ID)
	if !ok {
		return ledger.User{}, fmt.Errorf("save user: %q: %w", user.ID, ledger.ErrUserNotFound)
	}
	fields := encodeUser(user)
	delete(fields, ledger.FieldID)
	if err := t.store.Update(ctx, ledger.CollectionUsers, string(user.ID), fields); err != nil {
		return ledger.User{}, &StoreError{Op: "update", Collection: ledger.CollectionUsers, Err: err}
	}
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now()
	for i := range t.state.Users {
		if t.state.Users[i].ID == user.ID {
			t.state.Users[i] = user
		}
	}
	return user, nil
}

// DeleteUser removes a user. Their transactions stay; table views fall back
// to a placeholder name for unknown payers.
func (t *Tracker) DeleteUser(ctx context.Context, id ledger.UserID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.dirty {
		return ErrReloadRequired
	}
	if _, ok := t.state.UserByID(id); !ok {
		return fmt.Errorf("delete user: %q: %w", id, ledger.ErrUserNotFound)
	}
	if err := t.store.Delete(ctx, ledger.CollectionUsers, string(id)); err != nil {
		return &StoreError{Op: "delete", Collection: ledger.CollectionUsers, Err: err}
	}
	kept := t.state.Users[:0:0]
	for _, u := range t.state.Users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	t.state.Users = kept
	return nil
}

// =============================================================================
// VIEWS
// =============================================================================

// UserExpense is one payer's expense total for the dashboard comparison.
type UserExpense struct {
	User    ledger.User
	Expense ledger.Amount
}

// DashboardSummary backs the dashboard cards for one period.
type DashboardSummary struct {
	Period  ledger.Period
	Income  ledger.Amount
	Expense ledger.Amount
	Balance ledger.Amount
	PerUser []UserExpense
}

// Dashboard computes the period's income/expense totals, their balance, and
// the per-user expense comparison.
func (t *Tracker) Dashboard(p ledger.Period) DashboardSummary {
	t.mu.Lock()
	defer t.mu.Unlock()

	income := ledger.PeriodTotals(t.state.Transactions, ledger.TypeIncome, p)
	expense := ledger.PeriodTotals(t.state.Transactions, ledger.TypeExpense, p)

	summary := DashboardSummary{
		Period:  p,
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	}
	for _, u := range t.state.Users {
		summary.PerUser = append(summary.PerUser, UserExpense{
			User:    u,
			Expense: ledger.UserPeriodTotals(t.state.Transactions, ledger.TypeExpense, u.ID, p),
		})
	}
	return summary
}

// CardSummary is one card's usage for the card grid.
type CardSummary struct {
	Card  ledger.Card
	Usage ledger.Usage
}

// CardSummaries computes every card's statement position for the period.
func (t *Tracker) CardSummaries(p ledger.Period) []CardSummary {
	t.mu.Lock()
	defer t.mu.Unlock()

	summaries := make([]CardSummary, 0, len(t.state.Cards))
	for _, c := range t.state.Cards {
		summaries = append(summaries, CardSummary{
			Card:  c,
			Usage: ledger.CardUsage(c, t.state.Transactions, p),
		})
	}
	return summaries
}

// Invoice builds the per-card invoice report for the period.
func (t *Tracker) Invoice(cardID ledger.CardID, p ledger.Period) (ledger.Invoice, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return ledger.BuildInvoice(t.state, cardID, p)
}

// Transactions returns the cached rows ordered by booking date, newest
// first.
func (t *Tracker) Transactions() []ledger.Transaction {
	t.mu.Lock()
	defer t.mu.Unlock()

	return ledger.SortByDateDesc(t.state.Transactions)
}

// Cards returns a copy of the cached cards.
func (t *Tracker) Cards() []ledger.Card {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]ledger.Card, len(t.state.Cards))
	copy(out, t.state.Cards)
	return out
}

// Users returns a copy of the cached users.
func (t *Tracker) Users() []ledger.User {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]ledger.User, len(t.state.Users))
	copy(out, t.state.Users)
	return out
}

// State returns a snapshot of the cache.
func (t *Tracker) State() ledger.State {
	t.mu.Lock()
	defer t.mu.Unlock()

	return ledger.State{
		Transactions: append([]ledger.Transaction(nil), t.state.Transactions...),
		Cards:        append([]ledger.Card(nil), t.state.Cards...),
		Users:        append([]ledger.User(nil), t.state.Users...),
	}
}
