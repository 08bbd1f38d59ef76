/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the internal
  domain model from the wire contract. Field names follow the document
  field names (camelCase), so stored documents and API payloads read alike.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - Save*Request: Request body types from clients

MONTHS:
  Period query parameters use 0-based months (0 = January), matching the
  client's month selector. Conversion to time.Month happens at the handler
  boundary.
*/
package api

import (
	"time"

	"github.com/warp/finance-tracker/ledger"
	"github.com/warp/finance-tracker/tracker"
)

// =============================================================================
// TRANSACTIONS
// =============================================================================

type InstallmentDTO struct {
	Total   int    `json:"total"`
	Current int    `json:"current"`
	Label   string `json:"label"`
}

type TransactionDTO struct {
	ID                  string          `json:"id"`
	Type                string          `json:"type"`
	Description         string          `json:"description"`
	Category            string          `json:"category"`
	PaymentMethod       string          `json:"paymentMethod"`
	Value               float64         `json:"value"`
	Date                string          `json:"date"`
	PayerUserID         string          `json:"payerUserId"`
	CardID              string          `json:"cardId,omitempty"`
	CardName            string          `json:"cardName,omitempty"`
	CardUserID          string          `json:"cardUserId,omitempty"`
	Installment         *InstallmentDTO `json:"installment,omitempty"`
	ParentTransactionID string          `json:"parentTransactionId,omitempty"`
	CreatedAt           string          `json:"createdAt,omitempty"`
	UpdatedAt           string          `json:"updatedAt,omitempty"`
}

// SaveTransactionRequest is the entry-form submission.
type SaveTransactionRequest struct {
	Type          string  `json:"type"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	PaymentMethod string  `json:"paymentMethod"`
	Value         float64 `json:"value"`
	Date          string  `json:"date"`
	PayerUserID   string  `json:"payerUserId"`
	CardID        string  `json:"cardId"`
	CardUserID    string  `json:"cardUserId"`
	Split         bool    `json:"split"`
	Installments  int     `json:"installments"`
}

func transactionDTO(t ledger.Transaction) TransactionDTO {
	dto := TransactionDTO{
		ID:                  string(t.ID),
		Type:                string(t.Type),
		Description:         t.Description,
		Category:            string(t.Category),
		PaymentMethod:       string(t.PaymentMethod),
		Value:               t.Value.Float64(),
		Date:                t.Date.String(),
		PayerUserID:         string(t.PayerUserID),
		CardID:              string(t.CardID),
		CardName:            t.CardName,
		CardUserID:          string(t.CardUserID),
		ParentTransactionID: string(t.ParentTransactionID),
		CreatedAt:           formatTime(t.CreatedAt),
		UpdatedAt:           formatTime(t.UpdatedAt),
	}
	if t.Installment != nil {
		dto.Installment = &InstallmentDTO{
			Total:   t.Installment.Total,
			Current: t.Installment.Current,
			Label:   t.Installment.Label,
		}
	}
	return dto
}

func (r SaveTransactionRequest) toDraft() (ledger.Draft, error) {
	d := ledger.Draft{
		Type:          ledger.TransactionType(r.Type),
		Description:   r.Description,
		Category:      ledger.Category(r.Category),
		PaymentMethod: ledger.PaymentMethod(r.PaymentMethod),
		Value:         ledger.NewAmount(r.Value),
		PayerUserID:   ledger.UserID(r.PayerUserID),
		CardID:        ledger.CardID(r.CardID),
		CardUserID:    ledger.UserID(r.CardUserID),
		Split:         r.Split,
		Installments:  r.Installments,
	}
	if r.Date != "" {
		date, err := ledger.ParseDate(r.Date)
		if err != nil {
			return ledger.Draft{}, &ledger.ValidationError{Field: "date", Reason: "expected YYYY-MM-DD"}
		}
		d.Date = date
	}
	return d, nil
}

// =============================================================================
// CARDS
// =============================================================================

type CardDTO struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Limit      float64 `json:"limit"`
	ClosingDay int     `json:"closingDay"`
	DueDate    int     `json:"dueDate"`
	CreatedAt  string  `json:"createdAt,omitempty"`
	UpdatedAt  string  `json:"updatedAt,omitempty"`
}

type SaveCardRequest struct {
	Name       string  `json:"name"`
	Limit      float64 `json:"limit"`
	ClosingDay int     `json:"closingDay"`
	DueDate    int     `json:"dueDate"`
}

func cardDTO(c ledger.Card) CardDTO {
	return CardDTO{
		ID:         string(c.ID),
		Name:       c.Name,
		Limit:      c.Limit.Float64(),
		ClosingDay: c.ClosingDay,
		DueDate:    c.DueDate,
		CreatedAt:  formatTime(c.CreatedAt),
		UpdatedAt:  formatTime(c.UpdatedAt),
	}
}

func (r SaveCardRequest) toCard(id ledger.CardID) ledger.Card {
	return ledger.Card{
		ID:         id,
		Name:       r.Name,
		Limit:      ledger.NewAmount(r.Limit),
		ClosingDay: r.ClosingDay,
		DueDate:    r.DueDate,
	}
}

// =============================================================================
// USERS
// =============================================================================

type UserDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Avatar    string `json:"avatar"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

type SaveUserRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

func userDTO(u ledger.User) UserDTO {
	return UserDTO{
		ID:        string(u.ID),
		Name:      u.Name,
		Email:     u.Email,
		Avatar:    u.Avatar,
		CreatedAt: formatTime(u.CreatedAt),
		UpdatedAt: formatTime(u.UpdatedAt),
	}
}

func (r SaveUserRequest) toUser(id ledger.UserID) ledger.User {
	return ledger.User{ID: id, Name: r.Name, Email: r.Email, Avatar: r.Avatar}
}

// =============================================================================
// VIEWS
// =============================================================================

type UserExpenseDTO struct {
	User    UserDTO `json:"user"`
	Expense float64 `json:"expense"`
}

type DashboardDTO struct {
	Month   int              `json:"month"`
	Year    int              `json:"year"`
	Income  float64          `json:"income"`
	Expense float64          `json:"expense"`
	Balance float64          `json:"balance"`
	PerUser []UserExpenseDTO `json:"perUser"`
}

func dashboardDTO(s tracker.DashboardSummary) DashboardDTO {
	dto := DashboardDTO{
		Month:   int(s.Period.Month) - 1,
		Year:    s.Period.Year,
		Income:  s.Income.Float64(),
		Expense: s.Expense.Float64(),
		Balance: s.Balance.Float64(),
	}
	for _, ue := range s.PerUser {
		dto.PerUser = append(dto.PerUser, UserExpenseDTO{
			User:    userDTO(ue.User),
			Expense: ue.Expense.Float64(),
		})
	}
	return dto
}

type CardSummaryDTO struct {
	Card         CardDTO `json:"card"`
	Spent        float64 `json:"spent"`
	Available    float64 `json:"available"`
	UsagePercent float64 `json:"usagePercent"`
}

func cardSummaryDTO(s tracker.CardSummary) CardSummaryDTO {
	return CardSummaryDTO{
		Card:         cardDTO(s.Card),
		Spent:        s.Usage.Spent.Float64(),
		Available:    s.Usage.Available.Float64(),
		UsagePercent: s.Usage.UsagePercent,
	}
}

type InvoiceGroupDTO struct {
	UserID       string           `json:"userId"`
	UserName     string           `json:"userName,omitempty"`
	Transactions []TransactionDTO `json:"transactions"`
	Total        float64          `json:"total"`
}

type InvoiceDTO struct {
	Card       CardDTO           `json:"card"`
	Month      int               `json:"month"`
	Year       int               `json:"year"`
	Lines      []TransactionDTO  `json:"lines"`
	Groups     []InvoiceGroupDTO `json:"groups"`
	GrandTotal float64           `json:"grandTotal"`
	Count      int               `json:"count"`
}

func invoiceDTO(inv ledger.Invoice, users []ledger.User) InvoiceDTO {
	names := make(map[ledger.UserID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	dto := InvoiceDTO{
		Card:       cardDTO(inv.Card),
		Month:      int(inv.Period.Month) - 1,
		Year:       inv.Period.Year,
		GrandTotal: inv.GrandTotal.Float64(),
		Count:      len(inv.Lines),
	}
	for _, line := range inv.Lines {
		dto.Lines = append(dto.Lines, transactionDTO(line))
	}
	for _, g := range inv.Groups {
		groupDTO := InvoiceGroupDTO{
			UserID:   string(g.UserID),
			UserName: names[g.UserID],
			Total:    g.Total.Float64(),
		}
		for _, line := range g.Transactions {
			groupDTO.Transactions = append(groupDTO.Transactions, transactionDTO(line))
		}
		dto.Groups = append(dto.Groups, groupDTO)
	}
	return dto
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
