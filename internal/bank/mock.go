package bank

import (
	"context"
	"encoding/json"
	"fmt"
)

// fixtureTransactionsJSON and fixtureFeePredictionJSON are the canned provider
// payloads used in local mode and in tests, matching the real API shapes.
const fixtureTransactionsJSON = `[
    {
        "id": "D7CF98E9-70BC-44EE-9E84-8E66FB0E3627",
        "date": "2024-12-13T12:00:00Z",
        "amount": 150.75,
        "currency": "USD",
        "senderAccount": "1234567890",
        "receiverAccount": "0987654321",
        "type": "Transfer",
        "status": "Completed",
        "description": "Transfer to savings account"
    },
    {
        "id": "B2A4E5E9-CC44-4999-B92A-9654C08398C7",
        "date": "2024-12-10T09:30:00Z",
        "amount": 12000.00,
        "currency": "USD",
        "senderAccount": "1234567890",
        "receiverAccount": null,
        "type": "Deposit",
        "status": "Completed",
        "description": "Monthly Salary"
    }
]`

const fixtureFeePredictionJSON = `{
    "transferAmount": 100.00,
    "fromCurrency": "USD",
    "toCurrency": "PHP",
    "predictedFees": [
        {
            "id": "8BAA0D35-461D-4A62-B9FD-EB762E1C26DF",
            "type": "Fixed Fee",
            "amount": 10.00,
            "currency": "USD",
            "description": "Flat transfer fee"
        },
        {
            "id": "B67F5F82-8386-4EF7-89BC-CF4B7513F6DD",
            "type": "Exchange Rate Markup",
            "amount": 5.00,
            "currency": "USD",
            "description": "Markup due to exchange rate adjustment"
        }
    ],
    "exchangeDetails": {
        "fromCurrency": "USD",
        "toCurrency": "PHP",
        "exchangeRate": 58.31,
        "exchangeRateMarkup": 0.03
    },
    "totalFee": 15.00,
    "totalAmountInDestinationCurrency": 5750.23,
    "bestTimeToTransfer": {
        "dates": [
            "2024-12-15T00:00:00Z",
            "2024-12-20T00:00:00Z",
            "2024-12-25T00:00:00Z"
        ]
    }
}`

// Mock serves canned provider data. It stands in for the real API in local
// mode and is the test double for the dialogue engine; the engine cannot tell
// the difference.
type Mock struct {
	Records    []Transaction
	Prediction *FeePrediction
	Err        error
}

// NewMock returns a mock pre-loaded with the fixture payloads.
func NewMock() (*Mock, error) {
	var transactions []Transaction
	if err := json.Unmarshal([]byte(fixtureTransactionsJSON), &transactions); err != nil {
		return nil, fmt.Errorf("parse transaction fixtures: %w", err)
	}
	var fee FeePrediction
	if err := json.Unmarshal([]byte(fixtureFeePredictionJSON), &fee); err != nil {
		return nil, fmt.Errorf("parse fee prediction fixture: %w", err)
	}
	return &Mock{Records: transactions, Prediction: &fee}, nil
}

// Transactions implements the transaction provider.
func (m *Mock) Transactions(ctx context.Context) ([]Transaction, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]Transaction, len(m.Records))
	copy(out, m.Records)
	return out, nil
}

// PredictedFee implements the fee provider.
func (m *Mock) PredictedFee(ctx context.Context, from, to string) (*FeePrediction, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	fee := *m.Prediction
	return &fee, nil
}
