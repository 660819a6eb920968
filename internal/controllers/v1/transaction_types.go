package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taskbalance/backend/internal/currency"
	"github.com/taskbalance/backend/internal/models"
	tb_uuid "github.com/taskbalance/backend/internal/uuid"
)

type TransactionEditable struct {
	Type models.TransactionType `json:"type" example:"expense"` // Whether money comes in or goes out

	Date time.Time `json:"date" example:"2026-05-10T18:43:00.271152Z"` // Date of the transaction. Time is currently only used for sorting

	// The maximum value is "999999999999.99999999", swagger unfortunately rounds this.
	OriginalAmount decimal.Decimal `json:"originalAmount" example:"14.03" minimum:"0.00000001" maximum:"999999999999.99999999" multipleOf:"0.00000001"` // The amount as entered

	OriginalCurrency currency.Code `json:"originalCurrency" example:"USD"`                               // The currency the amount was entered in
	Category         string        `json:"category" example:"Groceries" default:""`                      // Category of the transaction. Auto-assigned from the category rules when empty
	Note             string        `json:"note" example:"Lunch" default:""`                              // A note
	Shared           bool          `json:"shared" example:"false" default:"false"`                       // Does this transaction count towards the household ledger?
	HouseholdID      *uuid.UUID    `json:"householdId" example:"2649c965-7999-4873-ae16-89d5d5fa972e"` // ID of the household for shared transactions
}

// model returns the database resource for the API representation of the editable fields
func (editable TransactionEditable) model() models.Transaction {
	return models.Transaction{
		Type:             editable.Type,
		Date:             editable.Date,
		OriginalAmount:   editable.OriginalAmount,
		OriginalCurrency: editable.OriginalCurrency,
		Category:         editable.Category,
		Note:             editable.Note,
		Shared:           editable.Shared,
		HouseholdID:      editable.HouseholdID,
	}
}

type TransactionLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/transactions/d430d7c3-d14c-4712-9336-ee56965a6673"` // The transaction itself
}

// Transaction is the representation of a Transaction in API v1.
type Transaction struct {
	models.DefaultModel
	TransactionEditable

	// The normalized fields are derived from the original amount and
	// currency when the transaction is created or its amount is
	// edited. They never change with later rate updates.
	Amount   decimal.Decimal `json:"amount" example:"596.27"` // The amount in the base currency at entry time
	Currency currency.Code   `json:"currency" example:"UYU"`  // The base currency the amount was normalized to

	Links TransactionLinks `json:"links"`
}

// newTransaction returns the API v1 representation of the resource
func newTransaction(c *gin.Context, model models.Transaction) Transaction {
	url := c.GetString(string(models.DBContextURL))

	return Transaction{
		DefaultModel: model.DefaultModel,
		TransactionEditable: TransactionEditable{
			Type:             model.Type,
			Date:             model.Date,
			OriginalAmount:   model.OriginalAmount,
			OriginalCurrency: model.OriginalCurrency,
			Category:         model.Category,
			Note:             model.Note,
			Shared:           model.Shared,
			HouseholdID:      model.HouseholdID,
		},
		Amount:   model.Amount,
		Currency: model.Currency,
		Links: TransactionLinks{
			Self: fmt.Sprintf("%s/v1/transactions/%s", url, model.ID),
		},
	}
}

type TransactionListResponse struct {
	Data       []Transaction `json:"data"`                                                          // List of transactions
	Error      *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination   `json:"pagination"`                                                    // Pagination information
}

type TransactionCreateResponse struct {
	Error *string               `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []TransactionResponse `json:"data"`                                                          // List of created Transactions
}

func (t *TransactionCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, TransactionResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type TransactionResponse struct {
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this transaction
	Data  *Transaction `json:"data"`                                                          // The Transaction data, if creation was successful
}

type TransactionQueryFilter struct {
	Date              time.Time              `form:"date" filterField:"false"`              // Exact date. Time is ignored.
	FromDate          time.Time              `form:"fromDate" filterField:"false"`          // From this date. Time is ignored.
	UntilDate         time.Time              `form:"untilDate" filterField:"false"`         // Until this date. Time is ignored.
	Month             string                 `form:"month" filterField:"false"`             // Month of the transaction in YYYY-MM format
	Amount            decimal.Decimal        `form:"amount"`                                // Exact normalized amount
	AmountLessOrEqual decimal.Decimal        `form:"amountLessOrEqual" filterField:"false"` // Normalized amount less than or equal to this
	AmountMoreOrEqual decimal.Decimal        `form:"amountMoreOrEqual" filterField:"false"` // Normalized amount more than or equal to this
	Note              string                 `form:"note" filterField:"false"`              // Note contains this string
	Type              models.TransactionType `form:"type" filterField:"false"`              // Type of the transaction
	Category          string                 `form:"category"`                              // Exact category
	OriginalCurrency  currency.Code          `form:"originalCurrency"`                      // Currency the transaction was entered in
	Shared            bool                   `form:"shared"`                                // Is the transaction part of the household ledger?
	HouseholdID       tb_uuid.UUID           `form:"household" filterField:"false"`         // ID of the household
	Offset            uint                   `form:"offset" filterField:"false"`            // The offset of the first Transaction returned. Defaults to 0.
	Limit             int                    `form:"limit" filterField:"false"`             // Maximum number of transactions to return. Defaults to 50.
}

func (f TransactionQueryFilter) model() models.Transaction {
	return models.Transaction{
		Amount:           f.Amount,
		Category:         f.Category,
		OriginalCurrency: f.OriginalCurrency,
		Shared:           f.Shared,
	}
}
