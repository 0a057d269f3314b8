package bank

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func strPtr(s string) *string { return &s }

func sampleTransaction() Transaction {
	return Transaction{
		ID:              uuid.MustParse("D7CF98E9-70BC-44EE-9E84-8E66FB0E3627"),
		Date:            time.Date(2024, 12, 13, 12, 0, 0, 0, time.UTC),
		Amount:          150.75,
		Currency:        "USD",
		SenderAccount:   "1234567890",
		ReceiverAccount: strPtr("0987654321"),
		Type:            TypeTransfer,
		Status:          StatusCompleted,
		Description:     strPtr("Transfer to savings account"),
	}
}

func TestTransactionSummaryFields(t *testing.T) {
	summary := sampleTransaction().Summary()

	for _, want := range []string{
		"Transaction Summary:",
		"- ID: d7cf98e9-70bc-44ee-9e84-8e66fb0e3627",
		"- Amount: USD 150.75",
		"- Type: Transfer",
		"- Status: Completed",
		"- Sender Account: 1234567890",
		"- Receiver Account: 0987654321",
		"- Description: Transfer to savings account",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestTransactionSummaryOptionalFields(t *testing.T) {
	tx := sampleTransaction()
	tx.ReceiverAccount = nil
	tx.Description = nil
	summary := tx.Summary()

	if !strings.Contains(summary, "- Receiver Account: N/A") {
		t.Errorf("missing receiver placeholder:\n%s", summary)
	}
	if !strings.Contains(summary, "- Description: No description") {
		t.Errorf("missing description placeholder:\n%s", summary)
	}
}

func TestSummarizeLines(t *testing.T) {
	first := sampleTransaction()
	second := sampleTransaction()
	second.Type = TypeDeposit
	second.Amount = 12000
	second.Date = time.Date(2024, 12, 10, 9, 30, 0, 0, time.UTC)

	listing, lines := Summarize([]Transaction{first, second})

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Line != "Transfer of USD 150.75 on 12-13-24" {
		t.Errorf("line[0] = %q", lines[0].Line)
	}
	if lines[1].Line != "Deposit of USD 12000.00 on 12-10-24" {
		t.Errorf("line[1] = %q", lines[1].Line)
	}
	if listing != lines[0].Line+"\n\n"+lines[1].Line {
		t.Errorf("listing = %q", listing)
	}
	if lines[0].Transaction.ID != first.ID {
		t.Error("line should carry its transaction")
	}
}

func TestSummarizeEmpty(t *testing.T) {
	listing, lines := Summarize(nil)
	if listing != "No transactions available." {
		t.Errorf("listing = %q", listing)
	}
	if lines != nil {
		t.Errorf("expected no lines, got %d", len(lines))
	}
}

func TestFeePredictionSummary(t *testing.T) {
	prediction := FeePrediction{
		FromCurrency: "USD",
		ToCurrency:   "PHP",
		TotalFee:     15,
		ExchangeDetails: ExchangeDetails{
			FromCurrency: "USD",
			ToCurrency:   "PHP",
			ExchangeRate: 58.31,
		},
		BestTimeToTransfer: TransferWindow{Dates: []time.Time{
			time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC),
		}},
	}

	summary := prediction.Summary()
	for _, want := range []string{
		"Total Fees: USD 15.00",
		"1 USD = 58.31 PHP",
		"Best Dates to Transfer:",
		"Dec 15, 2024\nDec 20, 2024",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestPredictedFeeSummary(t *testing.T) {
	fee := PredictedFee{
		ID:          uuid.New(),
		Type:        FeeFixed,
		Amount:      10,
		Currency:    "USD",
		Description: strPtr("Flat transfer fee"),
	}
	if got := fee.Summary(); got != "Fixed Fee: USD 10.00 (Flat transfer fee)" {
		t.Errorf("Summary = %q", got)
	}

	fee.Description = nil
	if got := fee.Summary(); got != "Fixed Fee: USD 10.00 (No description provided)" {
		t.Errorf("Summary = %q", got)
	}
}
