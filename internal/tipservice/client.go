package tipservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const advisorInstruction = "You are a financial advisor. Based on the user's transaction history, provide one personalized financial tip."

// HTTPGenerator calls an external advisory service over HTTP.
type HTTPGenerator struct {
	client *http.Client
	url    string
}

// NewHTTPGenerator returns an HTTPGenerator for the given endpoint.
func NewHTTPGenerator(url string, timeout time.Duration) *HTTPGenerator {
	return &HTTPGenerator{
		client: &http.Client{Timeout: timeout},
		url:    url,
	}
}

type generateRequest struct {
	Instruction        string `json:"instruction"`
	TransactionHistory string `json:"transaction_history"`
}

type generateResponse struct {
	FinancialTip string `json:"financial_tip"`
}

// Generate asks the advisory service for one tip over the given history.
func (g *HTTPGenerator) Generate(ctx context.Context, transactionHistory string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Instruction:        advisorInstruction,
		TransactionHistory: transactionHistory,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")

	res, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("advisor returned status %d", res.StatusCode)
	}

	var parsed generateResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return "", err
	}

	return parsed.FinancialTip, nil
}
