// Package client is the HTTP client for the diarium API, mirroring the
// routes internal/server exposes.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/diarium/diarium/internal/ledger"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) CreatePlan(ctx context.Context, name string) (*ledger.Plan, error) {
	var result ledger.Plan
	if err := c.post(ctx, "/api/v1/plans", map[string]any{"name": name}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListPlans(ctx context.Context) ([]ledger.Plan, error) {
	var result []ledger.Plan
	if err := c.get(ctx, "/api/v1/plans", &result); err != nil {
		return nil, err
	}
	return result, nil
}

type CloneResult struct {
	Source      int64 `json:"source"`
	Destination int64 `json:"destination"`
	Copied      int   `json:"copied"`
}

func (c *Client) ClonePlan(ctx context.Context, src, dst int64) (*CloneResult, error) {
	var result CloneResult
	path := fmt.Sprintf("/api/v1/plans/%d/clone", src)
	if err := c.post(ctx, path, map[string]any{"destination": dst}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListPlanAccounts(ctx context.Context, planID int64) ([]ledger.Account, error) {
	var result []ledger.Account
	if err := c.get(ctx, fmt.Sprintf("/api/v1/plans/%d/accounts", planID), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) CreateType(ctx context.Context, planID int64, name, code string) (*ledger.AccountType, error) {
	body := map[string]any{"plan_id": planID, "name": name, "code": code}
	var result ledger.AccountType
	if err := c.post(ctx, "/api/v1/types", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListTypes(ctx context.Context, planID int64) ([]ledger.AccountType, error) {
	var result []ledger.AccountType
	if err := c.get(ctx, fmt.Sprintf("/api/v1/types?plan=%d", planID), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) UpdateType(ctx context.Context, id int64, name, code string) (*ledger.AccountType, error) {
	body := map[string]any{"name": name, "code": code}
	var result ledger.AccountType
	if err := c.patch(ctx, fmt.Sprintf("/api/v1/types/%d", id), body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DeleteType(ctx context.Context, id int64) error {
	return c.del(ctx, fmt.Sprintf("/api/v1/types/%d", id))
}

func (c *Client) CreateCategory(ctx context.Context, typeID int64, name, code string) (*ledger.AccountCategory, error) {
	body := map[string]any{"parent_id": typeID, "name": name, "code": code}
	var result ledger.AccountCategory
	if err := c.post(ctx, "/api/v1/categories", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListCategories(ctx context.Context, typeID int64) ([]ledger.AccountCategory, error) {
	var result []ledger.AccountCategory
	if err := c.get(ctx, fmt.Sprintf("/api/v1/categories?type=%d", typeID), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.del(ctx, fmt.Sprintf("/api/v1/categories/%d", id))
}

func (c *Client) CreateGroup(ctx context.Context, categoryID int64, name, code string) (*ledger.AccountGroup, error) {
	body := map[string]any{"parent_id": categoryID, "name": name, "code": code}
	var result ledger.AccountGroup
	if err := c.post(ctx, "/api/v1/groups", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListGroups(ctx context.Context, categoryID int64) ([]ledger.AccountGroup, error) {
	var result []ledger.AccountGroup
	if err := c.get(ctx, fmt.Sprintf("/api/v1/groups?category=%d", categoryID), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) DeleteGroup(ctx context.Context, id int64) error {
	return c.del(ctx, fmt.Sprintf("/api/v1/groups/%d", id))
}

func (c *Client) CreateAccount(ctx context.Context, groupID int64, name, description, code string) (*ledger.Account, error) {
	body := map[string]any{"parent_id": groupID, "name": name, "description": description, "code": code}
	var result ledger.Account
	if err := c.post(ctx, "/api/v1/accounts", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListAccounts(ctx context.Context, groupID int64) ([]ledger.Account, error) {
	var result []ledger.Account
	if err := c.get(ctx, fmt.Sprintf("/api/v1/accounts?group=%d", groupID), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) DeleteAccount(ctx context.Context, id int64) error {
	return c.del(ctx, fmt.Sprintf("/api/v1/accounts/%d", id))
}

func (c *Client) CreateBook(ctx context.Context, month, year int, company, accountant string, planID int64) (*ledger.Book, error) {
	body := map[string]any{
		"month": month, "year": year,
		"company": company, "accountant": accountant,
		"plan_id": planID,
	}
	var result ledger.Book
	if err := c.post(ctx, "/api/v1/books", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListBooks(ctx context.Context) ([]ledger.Book, error) {
	var result []ledger.Book
	if err := c.get(ctx, "/api/v1/books", &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) GetBook(ctx context.Context, id int64) (*ledger.Book, error) {
	var result ledger.Book
	if err := c.get(ctx, fmt.Sprintf("/api/v1/books/%d", id), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// EntryLine is one requested posting: either an account ID or a dotted
// code, plus exactly one of debit/credit as a decimal string.
type EntryLine struct {
	AccountID int64  `json:"account_id,omitempty"`
	Code      string `json:"code,omitempty"`
	Debit     string `json:"debit,omitempty"`
	Credit    string `json:"credit,omitempty"`
}

type EntryRequest struct {
	Day   int         `json:"day"`
	Memo  string      `json:"memo,omitempty"`
	Lines []EntryLine `json:"lines"`
}

func (c *Client) CreateEntry(ctx context.Context, bookID int64, req EntryRequest) (*ledger.Entry, error) {
	var result ledger.Entry
	if err := c.post(ctx, fmt.Sprintf("/api/v1/books/%d/entries", bookID), req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) UpdateEntry(ctx context.Context, entryID int64, req EntryRequest) (*ledger.Entry, error) {
	var result ledger.Entry
	if err := c.put(ctx, fmt.Sprintf("/api/v1/entries/%d", entryID), req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GetEntry(ctx context.Context, id int64) (*ledger.Entry, error) {
	var result ledger.Entry
	if err := c.get(ctx, fmt.Sprintf("/api/v1/entries/%d", id), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DeleteEntry(ctx context.Context, id int64) error {
	return c.del(ctx, fmt.Sprintf("/api/v1/entries/%d", id))
}

func (c *Client) ListEntries(ctx context.Context, bookID int64) ([]ledger.Entry, error) {
	var result []ledger.Entry
	if err := c.get(ctx, fmt.Sprintf("/api/v1/books/%d/entries", bookID), &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ExportBook streams a book's workbook into w.
func (c *Client) ExportBook(ctx context.Context, bookID int64, withChart bool, w io.Writer) error {
	path := fmt.Sprintf("/api/v1/books/%d/export", bookID)
	if withChart {
		path += "?chart=1"
	}
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, string(bodyBytes))
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("read workbook: %w", err)
	}
	return nil
}

// ImportBook uploads a workbook for import against planID's catalog.
func (c *Client) ImportBook(ctx context.Context, planID int64, workbook io.Reader) (*ledger.Book, error) {
	path := fmt.Sprintf("/api/v1/books/import?plan=%d", planID)
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, workbook)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	var result ledger.Book
	if err := c.doRequest(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Ping checks if the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/v1/plans", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.doRequest(req, result)
}

func (c *Client) del(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, "DELETE", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		var apiErr apiError
		if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}

func (c *Client) patch(ctx context.Context, path string, body any, result any) error {
	return c.send(ctx, "PATCH", path, body, result)
}

func (c *Client) post(ctx context.Context, path string, body any, result any) error {
	return c.send(ctx, "POST", path, body, result)
}

func (c *Client) put(ctx context.Context, path string, body any, result any) error {
	return c.send(ctx, "PUT", path, body, result)
}

func (c *Client) send(ctx context.Context, method, path string, body any, result any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doRequest(req, result)
}

type apiError struct {
	Error string `json:"error"`
}

func (c *Client) doRequest(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	if result != nil {
		if err := json.Unmarshal(bodyBytes, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
