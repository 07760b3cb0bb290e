package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Tuyet3005/english-vocab-tracker/vocab"
)

const (
	DefaultBaseURL = "https://graph.microsoft.com/v1.0"

	maxConcurrentRanges = 4
)

// Client defines the Microsoft Graph workbook operations used by the tracker.
type Client interface {
	GetItem(ctx context.Context) (DriveItem, error)
	ListWorksheets(ctx context.Context) ([]WorksheetInfo, error)
	GetUsedRange(ctx context.Context, sheet string) (UsedRange, error)
	FetchWorkbook(ctx context.Context, sheetNames []string) (*vocab.RawDocument, error)
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientConfig struct {
	BaseURL    string
	FilePath   string
	UserAgent  string
	HTTPClient httpDoer
}

type HTTPClient struct {
	baseURL    string
	itemPath   string
	userAgent  string
	httpClient httpDoer
}

func NewClient(cfg ClientConfig) (*HTTPClient, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	parsedBase, err := url.Parse(baseURL)
	if err != nil || parsedBase.Scheme == "" || parsedBase.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}

	itemPath, err := drivePath(cfg.FilePath)
	if err != nil {
		return nil, err
	}

	doer := cfg.HTTPClient
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}

	return &HTTPClient{
		baseURL:    baseURL,
		itemPath:   itemPath,
		userAgent:  strings.TrimSpace(cfg.UserAgent),
		httpClient: doer,
	}, nil
}

// drivePath turns "/Documents/vocab.xlsx" into the escaped item-by-path
// segment "/me/drive/root:/Documents/vocab.xlsx".
func drivePath(filePath string) (string, error) {
	trimmed := strings.Trim(strings.TrimSpace(filePath), "/")
	if trimmed == "" {
		return "", errors.New("file path is required")
	}

	segments := strings.Split(trimmed, "/")
	for i, segment := range segments {
		if segment == "" || segment == "." || segment == ".." {
			return "", fmt.Errorf("invalid file path %q", filePath)
		}
		segments[i] = url.PathEscape(segment)
	}
	return "/me/drive/root:/" + strings.Join(segments, "/"), nil
}

type DriveItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

type WorksheetInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Position   int    `json:"position"`
	Visibility string `json:"visibility"`
}

type UsedRange struct {
	Address     string         `json:"address"`
	RowCount    int            `json:"rowCount"`
	ColumnCount int            `json:"columnCount"`
	Values      [][]vocab.Cell `json:"values"`
}

type listWorksheetsResponse struct {
	Value []WorksheetInfo `json:"value"`
}

// APIError is returned for non-2xx Graph responses.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	detail := e.Message
	if e.Code != "" {
		detail = e.Code + ": " + e.Message
	}
	return fmt.Sprintf("request %s %s failed with status %d: %s", e.Method, e.Path, e.StatusCode, strings.TrimSpace(detail))
}

func (c *HTTPClient) GetItem(ctx context.Context) (DriveItem, error) {
	var out DriveItem
	if err := c.doJSON(ctx, http.MethodGet, c.itemPath+"?$select=id,name,size", &out); err != nil {
		return DriveItem{}, err
	}
	return out, nil
}

func (c *HTTPClient) ListWorksheets(ctx context.Context) ([]WorksheetInfo, error) {
	var out listWorksheetsResponse
	if err := c.doJSON(ctx, http.MethodGet, c.itemPath+":/workbook/worksheets", &out); err != nil {
		return nil, err
	}
	return out.Value, nil
}

// WorksheetNames lists worksheet names in workbook order.
func (c *HTTPClient) WorksheetNames(ctx context.Context) ([]string, error) {
	sheets, err := c.ListWorksheets(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(sheets))
	for _, sheet := range sheets {
		names = append(names, sheet.Name)
	}
	return names, nil
}

func (c *HTTPClient) GetUsedRange(ctx context.Context, sheet string) (UsedRange, error) {
	name := strings.TrimSpace(sheet)
	if name == "" {
		return UsedRange{}, errors.New("worksheet name is required")
	}

	path := fmt.Sprintf(
		"%s:/workbook/worksheets/%s/usedRange?$select=address,rowCount,columnCount,values",
		c.itemPath,
		url.PathEscape(name),
	)
	var out UsedRange
	if err := c.doJSON(ctx, http.MethodGet, path, &out); err != nil {
		return UsedRange{}, err
	}
	return out, nil
}

// FetchWorkbook loads the item metadata and the used range of every
// requested worksheet, or of all worksheets when none are named. A worksheet
// that cannot be read is reported in its Error field instead of failing the
// whole call.
func (c *HTTPClient) FetchWorkbook(ctx context.Context, sheetNames []string) (*vocab.RawDocument, error) {
	item, err := c.GetItem(ctx)
	if err != nil {
		return nil, fmt.Errorf("get workbook item: %w", err)
	}

	names := sheetNames
	if len(names) == 0 {
		names, err = c.WorksheetNames(ctx)
		if err != nil {
			return nil, fmt.Errorf("list worksheets: %w", err)
		}
	}

	worksheets := make([]vocab.RawWorksheet, len(names))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentRanges)
	for i, name := range names {
		group.Go(func() error {
			used, err := c.GetUsedRange(groupCtx, name)
			if err != nil {
				if ctxErr := groupCtx.Err(); ctxErr != nil {
					return ctxErr
				}
				worksheets[i] = vocab.RawWorksheet{Name: name, Error: err.Error()}
				return nil
			}
			worksheets[i] = vocab.RawWorksheet{
				Name:        name,
				Range:       used.Address,
				RowCount:    used.RowCount,
				ColumnCount: used.ColumnCount,
				Values:      used.Values,
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return &vocab.RawDocument{
		FileName:   item.Name,
		FileSize:   item.Size,
		Worksheets: worksheets,
	}, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, endpointPath string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpointPath, nil)
	if err != nil {
		return fmt.Errorf("create request %s %s: %w", method, endpointPath, err)
	}

	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, endpointPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return newAPIError(method, endpointPath, resp.StatusCode, responseBody)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response %s %s: %w", method, endpointPath, err)
	}
	return nil
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	apiErr := &APIError{Method: method, Path: path, StatusCode: status}

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Code != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(body))
	return apiErr
}
