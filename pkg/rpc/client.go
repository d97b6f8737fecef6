// Package rpc is the transport glue between the search engine and the
// remote ledger service. It speaks just enough JSON-RPC to issue a single
// getProgramAccounts call with AND-combined memcmp filters and base64
// account data.
//
// The client deliberately defines no retry, pagination or caching policy;
// transport failures and server-side errors are passed through to the
// caller unchanged.
package rpc

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = time.Second * 60

// Client is a minimal JSON-RPC 2.0 client for a ledger RPC endpoint.
type Client struct {
	url    string
	client *http.Client
}

// Options represents configuration options for the RPC client.
type Options struct {
	timeout    time.Duration
	httpClient *http.Client
}

// Config is a function on the Options for the client.
type Config func(*Options) error

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Config {
	return func(o *Options) error {
		o.timeout = d
		return nil
	}
}

// WithHTTPClient supplies a custom HTTP client, overriding the timeout.
func WithHTTPClient(c *http.Client) Config {
	return func(o *Options) error {
		o.httpClient = c
		return nil
	}
}

// NewClient creates a client for the given RPC endpoint URL.
func NewClient(url string, cfgs ...Config) (*Client, error) {
	opts := &Options{timeout: defaultTimeout}
	for _, cfg := range cfgs {
		if err := cfg(opts); err != nil {
			return nil, err
		}
	}

	httpClient := opts.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.timeout}
	}

	return &Client{url: url, client: httpClient}, nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type memcmpFilter struct {
	Memcmp struct {
		Offset   int    `json:"offset"`
		Bytes    string `json:"bytes"`
		Encoding string `json:"encoding"`
	} `json:"memcmp"`
}

type programAccountsConfig struct {
	Encoding string         `json:"encoding"`
	Filters  []memcmpFilter `json:"filters,omitempty"`
}

type keyedAccountResult struct {
	Pubkey  string `json:"pubkey"`
	Account struct {
		Lamports   uint64   `json:"lamports"`
		Data       []string `json:"data"`
		Owner      string   `json:"owner"`
		Executable bool     `json:"executable"`
		RentEpoch  uint64   `json:"rentEpoch"`
	} `json:"account"`
}

type programAccountsResponse struct {
	Result []keyedAccountResult `json:"result"`
	Error  *rpcError            `json:"error"`
}

// ProgramAccounts fetches every record owned by the given program that
// matches all of the supplied equality filters. Filter bytes are shipped
// base64-encoded; account data comes back base64-encoded and is decoded
// before being returned.
func (c *Client) ProgramAccounts(ctx context.Context, program string, filters []Filter) ([]KeyedAccount, error) {
	cfg := programAccountsConfig{Encoding: "base64"}
	for _, f := range filters {
		var m memcmpFilter
		m.Memcmp.Offset = f.Offset
		m.Memcmp.Bytes = base64.StdEncoding.EncodeToString(f.Bytes)
		m.Memcmp.Encoding = "base64"
		cfg.Filters = append(cfg.Filters, m)
	}

	var resp programAccountsResponse
	if err := c.call(ctx, "getProgramAccounts", []any{program, cfg}, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("rpc error %d: %s", resp.Error.Code, resp.Error.Message)
	}

	accounts := make([]KeyedAccount, 0, len(resp.Result))
	for _, r := range resp.Result {
		if len(r.Account.Data) == 0 {
			return nil, fmt.Errorf("account %s: response carries no data", r.Pubkey)
		}

		data, err := base64.StdEncoding.DecodeString(r.Account.Data[0])
		if err != nil {
			return nil, fmt.Errorf("account %s: decoding data: %w", r.Pubkey, err)
		}

		accounts = append(accounts, KeyedAccount{
			Pubkey: r.Pubkey,
			Account: Account{
				Lamports:   r.Account.Lamports,
				Data:       data,
				Owner:      r.Account.Owner,
				Executable: r.Account.Executable,
				RentEpoch:  r.Account.RentEpoch,
			},
		})
	}

	return accounts, nil
}

func (c *Client) call(ctx context.Context, method string, params []any, out any) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("calling %s: unexpected status %s", method, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", method, err)
	}

	return nil
}
