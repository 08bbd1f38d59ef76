/*
codec.go - Document encoding for ledger types

PURPOSE:
  Converts between ledger structs and the schemaless documents the store
  holds. Documents use JSON-compatible values only: monetary values as
  float64 numbers, dates as "2006-01-02" strings, timestamps as RFC 3339
  strings.

WHOLESALE FIELDS:
  Encoders emit every field, including empty ones, so that a store-level
  merge of the encoded document amounts to a wholesale replacement. An edit
  that turns a credit-card entry into a cash entry clears the card fields
  instead of leaving stale values behind.
*/
package tracker

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/finance-tracker/ledger"
)

// =============================================================================
// TRANSACTIONS
// =============================================================================

func encodeTransaction(t ledger.Transaction) ledger.Document {
	doc := ledger.Document{
		"type":                string(t.Type),
		"description":         t.Description,
		"category":            string(t.Category),
		"paymentMethod":       string(t.PaymentMethod),
		"value":               t.Value.Float64(),
		"date":                t.Date.String(),
		"payerUserId":         string(t.PayerUserID),
		"cardId":              string(t.CardID),
		"cardName":            t.CardName,
		"cardUserId":          string(t.CardUserID),
		"parentTransactionId": string(t.ParentTransactionID),
		"installment":         nil,
	}
	if t.ID != "" {
		doc[ledger.FieldID] = string(t.ID)
	}
	if t.Installment != nil {
		doc["installment"] = map[string]any{
			"total":   t.Installment.Total,
			"current": t.Installment.Current,
			"label":   t.Installment.Label,
		}
	}
	return doc
}

func decodeTransaction(doc ledger.Document) (ledger.Transaction, error) {
	date, err := ledger.ParseDate(docString(doc, "date"))
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("transaction %s: date: %w", docString(doc, ledger.FieldID), err)
	}

	t := ledger.Transaction{
		ID:                  ledger.TransactionID(docString(doc, ledger.FieldID)),
		Type:                ledger.TransactionType(docString(doc, "type")),
		Description:         docString(doc, "description"),
		Category:            ledger.Category(docString(doc, "category")),
		PaymentMethod:       ledger.PaymentMethod(docString(doc, "paymentMethod")),
		Value:               ledger.Amount{Value: decimal.NewFromFloat(docFloat(doc, "value"))},
		Date:                date,
		PayerUserID:         ledger.UserID(docString(doc, "payerUserId")),
		CardID:              ledger.CardID(docString(doc, "cardId")),
		CardName:            docString(doc, "cardName"),
		CardUserID:          ledger.UserID(docString(doc, "cardUserId")),
		ParentTransactionID: ledger.TransactionID(docString(doc, "parentTransactionId")),
		CreatedAt:           docTime(doc, ledger.FieldCreatedAt),
		UpdatedAt:           docTime(doc, ledger.FieldUpdatedAt),
	}

	if inst, ok := doc["installment"].(map[string]any); ok {
		t.Installment = &ledger.Installment{
			Total:   docInt(inst, "total"),
			Current: docInt(inst, "current"),
			Label:   docString(inst, "label"),
		}
	}
	return t, nil
}

// =============================================================================
// CARDS
// =============================================================================

func encodeCard(c ledger.Card) ledger.Document {
	doc := ledger.Document{
		"name":       c.Name,
		"limit":      c.Limit.Float64(),
		"closingDay": c.ClosingDay,
		"dueDate":    c.DueDate,
	}
	if c.ID != "" {
		doc[ledger.FieldID] = string(c.ID)
	}
	return doc
}

func decodeCard(doc ledger.Document) (ledger.Card, error) {
	c := ledger.Card{
		ID:         ledger.CardID(docString(doc, ledger.FieldID)),
		Name:       docString(doc, "name"),
		Limit:      ledger.Amount{Value: decimal.NewFromFloat(docFloat(doc, "limit"))},
		ClosingDay: docInt(doc, "closingDay"),
		DueDate:    docInt(doc, "dueDate"),
		CreatedAt:  docTime(doc, ledger.FieldCreatedAt),
		UpdatedAt:  docTime(doc, ledger.FieldUpdatedAt),
	}
	if c.ID == "" {
		return ledger.Card{}, fmt.Errorf("card document without id")
	}
	return c, nil
}

// =============================================================================
// USERS
// =============================================================================

func encodeUser(u ledger.User) ledger.Document {
	doc := ledger.Document{
		"name":   u.Name,
		"email":  u.Email,
		"avatar": u.Avatar,
	}
	if u.ID != "" {
		doc[ledger.FieldID] = string(u.ID)
	}
	return doc
}

func decodeUser(doc ledger.Document) (ledger.User, error) {
	u := ledger.User{
		ID:        ledger.UserID(docString(doc, ledger.FieldID)),
		Name:      docString(doc, "name"),
		Email:     docString(doc, "email"),
		Avatar:    docString(doc, "avatar"),
		CreatedAt: docTime(doc, ledger.FieldCreatedAt),
		UpdatedAt: docTime(doc, ledger.FieldUpdatedAt),
	}
	if u.ID == "" {
		return ledger.User{}, fmt.Errorf("user document without id")
	}
	return u, nil
}

// =============================================================================
// VALUE HELPERS
// =============================================================================
// Numbers round-trip through JSON as float64; documents freshly built by the
// encoders may still carry int fields. Read both.

func docString(doc map[string]any, key string) string {
	s, _ := doc[key].(string)
	return s
}

func docFloat(doc map[string]any, key string) float64 {
	switch v := doc[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

func docInt(doc map[string]any, key string) int {
	return int(docFloat(doc, key))
}

func docTime(doc map[string]any, key string) time.Time {
	s, ok := doc[key].(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
