// Package client is a thin JSON client for the storefront REST API.
package client

import (
	"bytes"                        // Request bodies
	"context"                      // Request cancellation
	"encoding/json"                // JSON encoding/decoding
	"errors"                       // Error inspection
	"fmt"                          // Error wrapping
	"io"                           // Streams
	"mime/multipart"               // Upload bodies
	"mobil_market/internal/domain" // Importing domain models
	"net/http"                     // HTTP client and status codes
	"net/url"                      // Query building
	"strconv"                      // String conversion
	"strings"                      // String manipulation
	"sync"                         // Locking
	"time"                         // Time durations

	"github.com/shopspring/decimal" // Exact money arithmetic
)

// Sentinel errors for the outcomes callers branch on
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUnauthorized       = errors.New("not logged in")
)

// APIError is a non-2xx answer from the backend
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// AuthResult is returned by Login and Register
type AuthResult struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

// UploadFile is one file for UploadFiles
type UploadFile struct {
	Name    string
	Content io.Reader
}

// Client talks to one backend. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// Option customises a Client
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken starts the client with a bearer token
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New returns a client for the API rooted at baseURL, e.g. http://127.0.0.1:5000/api
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken sets the bearer token sent with every request
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login authenticates and stores the returned token.
// Wrong credentials yield ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	var res AuthResult
	err := c.doJSON(ctx, http.MethodPost, "/login", map[string]string{"username": username, "password": password}, &res)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, apiErr)
	}
	if err != nil {
		return nil, err
	}
	c.SetToken(res.Token)
	return &res, nil
}

// Register creates an account and stores the returned token.
// A duplicate username yields ErrUsernameTaken.
func (c *Client) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	var res AuthResult
	err := c.doJSON(ctx, http.MethodPost, "/register", map[string]string{"username": username, "password": password}, &res)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
		return nil, fmt.Errorf("%w: %w", ErrUsernameTaken, apiErr)
	}
	if err != nil {
		return nil, err
	}
	c.SetToken(res.Token)
	return &res, nil
}

// Products lists the catalog; empty arguments mean no filter
func (c *Client) Products(ctx context.Context, search, category string) ([]domain.Product, error) {
	params := url.Values{}
	if search != "" {
		params.Set("search", search)
	}
	if category != "" {
		params.Set("category", category)
	}
	path := "/products"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var out []domain.Product
	return out, c.doJSON(ctx, http.MethodGet, path, nil, &out)
}

// AddProduct creates a product and returns it with its ID
func (c *Client) AddProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	var out domain.Product
	return out, c.doJSON(ctx, http.MethodPost, "/products", p, &out)
}

// UpdateProduct replaces the product's fields
func (c *Client) UpdateProduct(ctx context.Context, id uint, p domain.Product) error {
	return c.doJSON(ctx, http.MethodPut, "/products/"+strconv.FormatUint(uint64(id), 10), p, nil)
}

// DeleteProduct removes a product
func (c *Client) DeleteProduct(ctx context.Context, id uint) error {
	return c.doJSON(ctx, http.MethodDelete, "/products/"+strconv.FormatUint(uint64(id), 10), nil, nil)
}

// Favorites returns the caller's favorite product IDs
func (c *Client) Favorites(ctx context.Context) ([]uint, error) {
	var ids []uint
	return ids, c.doJSON(ctx, http.MethodGet, "/favorites", nil, &ids)
}

// ToggleFavorite flips one product and returns the new favorite set
func (c *Client) ToggleFavorite(ctx context.Context, userID string, productID uint) ([]uint, error) {
	var ids []uint
	return ids, c.doJSON(ctx, http.MethodPost, "/favorites", toggleBody{userID, productID}, &ids)
}

// Saved returns the caller's saved product IDs
func (c *Client) Saved(ctx context.Context) ([]uint, error) {
	var ids []uint
	return ids, c.doJSON(ctx, http.MethodGet, "/saved", nil, &ids)
}

// ToggleSaved flips one product and returns the new saved set
func (c *Client) ToggleSaved(ctx context.Context, userID string, productID uint) ([]uint, error) {
	var ids []uint
	return ids, c.doJSON(ctx, http.MethodPost, "/saved", toggleBody{userID, productID}, &ids)
}

type toggleBody struct {
	UserID    string `json:"userId"`
	ProductID uint   `json:"productId"`
}

// PlaceOrder submits a cart snapshot
func (c *Client) PlaceOrder(ctx context.Context, userID, username string, items []domain.CartItem, total decimal.Decimal) (domain.Order, error) {
	body := struct {
		UserID     string            `json:"userId"`
		Username   string            `json:"username"`
		Items      []domain.CartItem `json:"items"`
		TotalPrice decimal.Decimal   `json:"totalPrice"`
	}{userID, username, items, total}
	var out domain.Order
	return out, c.doJSON(ctx, http.MethodPost, "/orders", body, &out)
}

// Orders lists orders, narrowed to userID when it is not empty
func (c *Client) Orders(ctx context.Context, userID string) ([]domain.Order, error) {
	path := "/orders"
	if userID != "" {
		path += "?userId=" + url.QueryEscape(userID)
	}
	var out []domain.Order
	return out, c.doJSON(ctx, http.MethodGet, path, nil, &out)
}

// UpdateOrderStatus sets an order's status
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	return c.doJSON(ctx, http.MethodPost, "/orders/"+url.PathEscape(orderID)+"/status", map[string]domain.OrderStatus{"status": status}, nil)
}

// UploadFiles sends files as multipart form data and returns their stored paths
func (c *Client) UploadFiles(ctx context.Context, files []UploadFile) ([]string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		fw, err := mw.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(fw, f.Content); err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	var out struct {
		Paths []string `json:"paths"`
	}
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	return out.Paths, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var payload struct {
			Error string `json:"error"`
		}
		if b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); json.Unmarshal(b, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		}
		if resp.StatusCode == http.StatusUnauthorized && !strings.HasSuffix(req.URL.Path, "/login") {
			return fmt.Errorf("%w: %w", ErrUnauthorized, apiErr)
		}
		return apiErr
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
