package storeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrRejected is returned when the server refuses a mutation; the cache
// rolls the optimistic change back on it.
var ErrRejected = errors.New("mutation rejected by server")

// API is the slice of the storefront server the cache mirrors.
type API interface {
	AddCartItem(ctx context.Context, productID, size string) error
	UpdateCartItem(ctx context.Context, productID, size string, quantity int) error
	ClearCart(ctx context.Context) error
	FetchCart(ctx context.Context) (map[string]map[string]int, error)
	ToggleWishlist(ctx context.Context, productID string) (bool, error)
}

// Client talks to the storefront REST surface with a bearer token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	if !env.Success {
		return fmt.Errorf("%w: %s (%s)", ErrRejected, env.Message, env.Code)
	}
	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data from %s: %w", path, err)
		}
	}
	return nil
}

func (c *Client) AddCartItem(ctx context.Context, productID, size string) error {
	return c.post(ctx, "/api/v1/cart/add", map[string]string{
		"itemId": productID,
		"size":   size,
	}, nil)
}

func (c *Client) UpdateCartItem(ctx context.Context, productID, size string, quantity int) error {
	return c.post(ctx, "/api/v1/cart/update", map[string]interface{}{
		"itemId":   productID,
		"size":     size,
		"quantity": quantity,
	}, nil)
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.post(ctx, "/api/v1/cart/clear", struct{}{}, nil)
}

func (c *Client) FetchCart(ctx context.Context) (map[string]map[string]int, error) {
	var out struct {
		Items map[string]map[string]int `json:"cartData"`
	}
	if err := c.post(ctx, "/api/v1/cart/get", struct{}{}, &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = map[string]map[string]int{}
	}
	return out.Items, nil
}

func (c *Client) ToggleWishlist(ctx context.Context, productID string) (bool, error) {
	var out struct {
		InWishlist bool `json:"in_wishlist"`
	}
	if err := c.post(ctx, "/api/v1/wishlist/toggle", map[string]string{
		"itemId": productID,
	}, &out); err != nil {
		return false, err
	}
	return out.InWishlist, nil
}
