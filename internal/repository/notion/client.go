// Package notion implements the ticket and feedback stores on top of the
// Notion REST API, as an alternative to the SQL repositories. Records live as
// pages in two Notion databases; a managed "ID" number property gives every
// page the numeric identity the rest of the system expects.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.notion.com"
	apiVersion     = "2022-06-28"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

type Option func(*Client)

// WithBaseURL points the client at a different endpoint, used by tests.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		token:      token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiError carries the error payload Notion returns on non-2xx responses.
type apiError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("notion: %s (%s)", e.Message, e.Code)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &apiError{Status: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// page is the subset of the Notion page object the adapters read.
type page struct {
	ID         string              `json:"id"`
	Archived   bool                `json:"archived"`
	Properties map[string]property `json:"properties"`
}

type property struct {
	Title       []richText  `json:"title,omitempty"`
	RichText    []richText  `json:"rich_text,omitempty"`
	Number      *float64    `json:"number,omitempty"`
	Select      *selectOpt  `json:"select,omitempty"`
	MultiSelect []selectOpt `json:"multi_select,omitempty"`
	Date        *dateValue  `json:"date,omitempty"`
}

type richText struct {
	PlainText string     `json:"plain_text,omitempty"`
	Text      *textValue `json:"text,omitempty"`
}

type textValue struct {
	Content string `json:"content"`
}

type selectOpt struct {
	Name string `json:"name"`
}

type dateValue struct {
	Start string `json:"start"`
}

type queryRequest struct {
	Filter      any    `json:"filter,omitempty"`
	PageSize    int    `json:"page_size,omitempty"`
	StartCursor string `json:"start_cursor,omitempty"`
	Sorts       []any  `json:"sorts,omitempty"`
}

type queryResponse struct {
	Results    []page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// queryAll walks database pagination until has_more is false.
func (c *Client) queryAll(ctx context.Context, databaseID string) ([]page, error) {
	var (
		pages  []page
		cursor string
	)
	for {
		req := queryRequest{PageSize: 100, StartCursor: cursor}
		var resp queryResponse
		if err := c.do(ctx, http.MethodPost, "/v1/databases/"+databaseID+"/query", req, &resp); err != nil {
			return nil, err
		}
		pages = append(pages, resp.Results...)
		if !resp.HasMore || resp.NextCursor == nil {
			return pages, nil
		}
		cursor = *resp.NextCursor
	}
}

// queryByNumber finds the single page whose numeric property equals value.
func (c *Client) queryByNumber(ctx context.Context, databaseID, propertyName string, value int64) (*page, error) {
	req := queryRequest{
		PageSize: 1,
		Filter: map[string]any{
			"property": propertyName,
			"number":   map[string]any{"equals": value},
		},
	}
	var resp queryResponse
	if err := c.do(ctx, http.MethodPost, "/v1/databases/"+databaseID+"/query", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}
	return &resp.Results[0], nil
}

// nextID returns one past the highest value of the numeric property, by
// querying a single page sorted descending on it.
func (c *Client) nextID(ctx context.Context, databaseID, propertyName string) (int64, error) {
	req := queryRequest{
		PageSize: 1,
		Sorts: []any{
			map[string]any{"property": propertyName, "direction": "descending"},
		},
	}
	var resp queryResponse
	if err := c.do(ctx, http.MethodPost, "/v1/databases/"+databaseID+"/query", req, &resp); err != nil {
		return 0, err
	}
	if len(resp.Results) == 0 {
		return 1, nil
	}
	if p := resp.Results[0].Properties[propertyName]; p.Number != nil {
		return int64(*p.Number) + 1, nil
	}
	return 1, nil
}

func (c *Client) createPage(ctx context.Context, databaseID string, props map[string]any) error {
	body := map[string]any{
		"parent":     map[string]any{"database_id": databaseID},
		"properties": props,
	}
	return c.do(ctx, http.MethodPost, "/v1/pages", body, nil)
}

func (c *Client) updatePage(ctx context.Context, pageID string, props map[string]any) error {
	body := map[string]any{"properties": props}
	return c.do(ctx, http.MethodPatch, "/v1/pages/"+pageID, body, nil)
}

// archivePage is the Notion equivalent of a delete.
func (c *Client) archivePage(ctx context.Context, pageID string) error {
	body := map[string]any{"archived": true}
	return c.do(ctx, http.MethodPatch, "/v1/pages/"+pageID, body, nil)
}

// Property read helpers; missing or differently typed properties read as zero.

func (p page) number(name string) int64 {
	if prop, ok := p.Properties[name]; ok && prop.Number != nil {
		return int64(*prop.Number)
	}
	return 0
}

func (p page) text(name string) string {
	prop, ok := p.Properties[name]
	if !ok {
		return ""
	}
	spans := prop.Title
	if len(spans) == 0 {
		spans = prop.RichText
	}
	var out string
	for _, s := range spans {
		if s.PlainText != "" {
			out += s.PlainText
		} else if s.Text != nil {
			out += s.Text.Content
		}
	}
	return out
}

func (p page) selectValue(name string) string {
	if prop, ok := p.Properties[name]; ok && prop.Select != nil {
		return prop.Select.Name
	}
	return ""
}

func (p page) multiSelect(name string) []string {
	prop, ok := p.Properties[name]
	if !ok || len(prop.MultiSelect) == 0 {
		return nil
	}
	out := make([]string, 0, len(prop.MultiSelect))
	for _, opt := range prop.MultiSelect {
		out = append(out, opt.Name)
	}
	return out
}

func (p page) date(name string) *time.Time {
	prop, ok := p.Properties[name]
	if !ok || prop.Date == nil || prop.Date.Start == "" {
		return nil
	}
	ts, err := time.Parse(time.RFC3339, prop.Date.Start)
	if err != nil {
		if ts, err = time.Parse("2006-01-02", prop.Date.Start); err != nil {
			return nil
		}
	}
	return &ts
}

// Property write helpers. Values are plain maps so an explicit null can be
// sent to clear a property, which typed structs with omitempty cannot express.

func titleProp(text string) map[string]any {
	return map[string]any{
		"title": []map[string]any{{"text": map[string]any{"content": text}}},
	}
}

func richTextProp(text string) map[string]any {
	if text == "" {
		return map[string]any{"rich_text": []any{}}
	}
	return map[string]any{
		"rich_text": []map[string]any{{"text": map[string]any{"content": text}}},
	}
}

func numberProp(v *int64) map[string]any {
	if v == nil {
		return map[string]any{"number": nil}
	}
	return map[string]any{"number": *v}
}

func selectProp(name string) map[string]any {
	if name == "" {
		return map[string]any{"select": nil}
	}
	return map[string]any{"select": map[string]any{"name": name}}
}

func multiSelectProp(tags []string) map[string]any {
	opts := make([]map[string]any, 0, len(tags))
	for _, t := range tags {
		opts = append(opts, map[string]any{"name": t})
	}
	return map[string]any{"multi_select": opts}
}

func dateProp(ts *time.Time) map[string]any {
	if ts == nil {
		return map[string]any{"date": nil}
	}
	return map[string]any{"date": map[string]any{"start": ts.UTC().Format(time.RFC3339)}}
}
