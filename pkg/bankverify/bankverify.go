package bankverify

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"net/url"
	"time"
)

// Client resolves a bank account number to its display name.
// With no secret key configured it falls back to a deterministic
// offline name so the withdrawal form still works in development.
type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

func New(baseURL, secretKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:   baseURL,
		secretKey: secretKey,
		http:      &http.Client{Timeout: timeout},
	}
}

type Result struct {
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	Offline       bool   `json:"offline,omitempty"`
}

// Resolve looks up the account holder name for the given account number
// and bank code.
func (c *Client) Resolve(ctx context.Context, accountNumber, bankCode string) (*Result, error) {
	if c.secretKey == "" {
		return &Result{
			AccountName:   fallbackName(accountNumber),
			AccountNumber: accountNumber,
			Offline:       true,
		}, nil
	}
	u := fmt.Sprintf("%s/bank/resolve?account_number=%s&bank_code=%s",
		c.baseURL, url.QueryEscape(accountNumber), url.QueryEscape(bankCode))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("account verification failed (status %d)", resp.StatusCode)
	}
	var body struct {
		Status bool `json:"status"`
		Data   struct {
			AccountName string `json:"account_name"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if !body.Status || body.Data.AccountName == "" {
		return nil, fmt.Errorf("account verification failed")
	}
	return &Result{AccountName: body.Data.AccountName, AccountNumber: accountNumber}, nil
}

var (
	firstNames = []string{"Chioma", "Tunde", "Zainab", "Ngozi", "David", "Grace", "Emeka", "Amara", "Kayode", "Blessing"}
	lastNames  = []string{"Okoro", "Adeyemi", "Hussein", "Ezeoke", "Okafor", "Nwosu", "Chukwu", "Iyanda", "Mwangi", "Ogunlade"}
)

// fallbackName hashes the account number to a stable, realistic name.
func fallbackName(accountNumber string) string {
	h := fnv.New32a()
	h.Write([]byte(accountNumber))
	n := int(h.Sum32() % 1000)
	first := firstNames[n%len(firstNames)]
	last := lastNames[(n/len(firstNames))%len(lastNames)]
	return first + " " + last
}

// Bank is an entry in the supported bank list shown on the withdrawal form.
type Bank struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Banks returns the supported Nigerian banks with their codes.
func Banks() []Bank {
	return []Bank{
		{"Access Bank", "044"},
		{"Citibank", "023"},
		{"Ecobank Nigeria", "050"},
		{"Fidelity Bank", "070"},
		{"First Bank of Nigeria", "011"},
		{"First City Monument Bank", "214"},
		{"Guaranty Trust Bank", "058"},
		{"Heritage Bank", "030"},
		{"Keystone Bank", "082"},
		{"Polaris Bank", "076"},
		{"Stanbic IBTC Bank", "221"},
		{"Standard Chartered Bank", "068"},
		{"Sterling Bank", "232"},
		{"Union Bank of Nigeria", "032"},
		{"United Bank For Africa", "033"},
		{"Unity Bank", "215"},
		{"Wema Bank", "035"},
		{"Zenith Bank", "057"},
		{"Opay", "999992"},
		{"PalmPay", "999991"},
		{"Kuda Bank", "090267"},
		{"Moniepoint", "090405"},
	}
}
