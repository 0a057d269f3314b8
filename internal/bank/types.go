package bank

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TransactionStatus is the settlement state of a bank transaction.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "Pending"
	StatusCompleted TransactionStatus = "Completed"
	StatusFailed    TransactionStatus = "Failed"
	StatusCancelled TransactionStatus = "Cancelled"
)

// TransactionType classifies the movement of funds.
type TransactionType string

const (
	TypeDeposit    TransactionType = "Deposit"
	TypeWithdrawal TransactionType = "Withdrawal"
	TypeTransfer   TransactionType = "Transfer"
	TypePayment    TransactionType = "Payment"
)

// FeeType classifies a predicted transfer fee component.
type FeeType string

const (
	FeeFixed              FeeType = "Fixed Fee"
	FeePercentage         FeeType = "Percentage Fee"
	FeeExchangeRateMarkup FeeType = "Exchange Rate Markup"
)

const (
	listDateLayout   = "01-02-06"
	detailDateLayout = "Jan 2, 2006 3:04 PM"
	feeDateLayout    = "Jan 2, 2006"
)

// Transaction is an immutable record fetched from the transaction provider.
type Transaction struct {
	ID              uuid.UUID         `json:"id"`
	Date            time.Time         `json:"date"`
	Amount          float64           `json:"amount"`
	Currency        string            `json:"currency"`
	SenderAccount   string            `json:"senderAccount"`
	ReceiverAccount *string           `json:"receiverAccount"`
	Type            TransactionType   `json:"type"`
	Status          TransactionStatus `json:"status"`
	Description     *string           `json:"description"`
}

// Summary renders the transaction as the multi-line detail block shown to the user.
func (t Transaction) Summary() string {
	receiver := "N/A"
	if t.ReceiverAccount != nil {
		receiver = *t.ReceiverAccount
	}
	description := "No description"
	if t.Description != nil {
		description = *t.Description
	}

	return strings.Join([]string{
		"Transaction Summary:",
		"- ID: " + t.ID.String(),
		"- Date: " + t.Date.Format(detailDateLayout),
		fmt.Sprintf("- Amount: %s %s", t.Currency, formatAmount(t.Amount)),
		"- Type: " + string(t.Type),
		"- Status: " + string(t.Status),
		"- Sender Account: " + t.SenderAccount,
		"- Receiver Account: " + receiver,
		"- Description: " + description,
	}, "\n")
}

// ListLine is one human-readable entry of a transaction listing, paired with
// the transaction it summarizes so a later choice can be resolved back.
type ListLine struct {
	Line        string
	Transaction Transaction
}

// Summarize renders transactions as short display lines
// ("<type> of <currency> <amount> on <date>", dash-separated date so the
// choice scorer's date pattern applies) plus the joined listing text.
func Summarize(transactions []Transaction) (listing string, lines []ListLine) {
	if len(transactions) == 0 {
		return "No transactions available.", nil
	}

	rendered := make([]string, 0, len(transactions))
	lines = make([]ListLine, 0, len(transactions))
	for _, tx := range transactions {
		line := fmt.Sprintf("%s of %s %s on %s",
			tx.Type, tx.Currency, formatAmount(tx.Amount), tx.Date.Format(listDateLayout))
		rendered = append(rendered, line)
		lines = append(lines, ListLine{Line: line, Transaction: tx})
	}
	return strings.Join(rendered, "\n\n"), lines
}

// PredictedFee is a single component of a transfer-fee prediction.
type PredictedFee struct {
	ID          uuid.UUID `json:"id"`
	Type        FeeType   `json:"type"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Description *string   `json:"description"`
}

// Summary renders the fee as a single readable line.
func (f PredictedFee) Summary() string {
	description := "No description provided"
	if f.Description != nil {
		description = *f.Description
	}
	return fmt.Sprintf("%s: %s %s (%s)", f.Type, f.Currency, formatAmount(f.Amount), description)
}

// ExchangeDetails carries the quoted rate and its markup for a currency pair.
type ExchangeDetails struct {
	FromCurrency       string  `json:"fromCurrency"`
	ToCurrency         string  `json:"toCurrency"`
	ExchangeRate       float64 `json:"exchangeRate"`
	ExchangeRateMarkup float64 `json:"exchangeRateMarkup"`
}

// TransferWindow lists candidate dates on which a transfer is predicted cheapest.
type TransferWindow struct {
	Dates []time.Time `json:"dates"`
}

// Summary renders the candidate dates, one per line.
func (w TransferWindow) Summary() string {
	formatted := make([]string, 0, len(w.Dates))
	for _, d := range w.Dates {
		formatted = append(formatted, d.Format(feeDateLayout))
	}
	return "Best Dates to Transfer:\n" + strings.Join(formatted, "\n")
}

// FeePrediction is an immutable transfer-fee forecast fetched from the fee provider.
type FeePrediction struct {
	TransferAmount                   float64         `json:"transferAmount"`
	FromCurrency                     string          `json:"fromCurrency"`
	ToCurrency                       string          `json:"toCurrency"`
	PredictedFees                    []PredictedFee  `json:"predictedFees"`
	ExchangeDetails                  ExchangeDetails `json:"exchangeDetails"`
	TotalFee                         float64         `json:"totalFee"`
	TotalAmountInDestinationCurrency float64         `json:"totalAmountInDestinationCurrency"`
	BestTimeToTransfer               TransferWindow  `json:"bestTimeToTransfer"`
}

// Summary renders the fee total, the quoted rate and the best transfer dates.
func (p FeePrediction) Summary() string {
	return fmt.Sprintf("Total Fees: %s %s\nCurrent Exchange Rate:\n1 %s = %s %s\n\n%s",
		p.FromCurrency, formatAmount(p.TotalFee),
		p.FromCurrency, formatAmount(p.ExchangeDetails.ExchangeRate), p.ToCurrency,
		p.BestTimeToTransfer.Summary())
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
