// Package openfoodfacts provides a client for the Open Food Facts v3 product API
package openfoodfacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/UnendingLoop/FoodScanner/internal/model"
)

const (
	statusSuccess         = "success"
	statusSuccessWarnings = "success_with_warnings"
)

// fields - просим у API только то, что отдаем клиенту
var fields = strings.Join([]string{
	"product_name",
	"brands",
	"image_front_url",
	"nutriments",
}, ",")

type Client struct {
	baseURL   string
	userAgent string
	httpc     *http.Client
}

func New(baseURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		httpc:     &http.Client{Timeout: timeout},
	}
}

type response struct {
	Code    string   `json:"code"`
	Status  string   `json:"status"`
	Product *product `json:"product"`
}

type product struct {
	ProductName *string        `json:"product_name"`
	Brands      string         `json:"brands"`
	ImageURL    string         `json:"image_front_url"`
	Nutriments  map[string]any `json:"nutriments"`
}

// Product looks the barcode up. Errors are model.ErrProductNotFound,
// model.ErrLookupTimeout or model.ErrLookupUnavailable (wrapped with details).
func (c *Client) Product(ctx context.Context, code string) (*model.Product, error) {
	endpoint := fmt.Sprintf("%s/api/v3/product/%s.json?fields=%s",
		c.baseURL, url.PathEscape(code), url.QueryEscape(fields))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", model.ErrLookupUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", model.ErrLookupTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", model.ErrLookupUnavailable, err)
	}
	defer resp.Body.Close()

	// OFF отвечает 404 + status=failure на неизвестный код
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			x, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, fmt.Errorf("%w: off %d: %s", model.ErrLookupUnavailable, resp.StatusCode, string(x))
		}
		return nil, model.ErrProductNotFound
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", model.ErrLookupTimeout, err)
		}
		return nil, fmt.Errorf("%w: decode body: %v", model.ErrLookupUnavailable, err)
	}

	if (out.Status != statusSuccess && out.Status != statusSuccessWarnings) || out.Product == nil {
		return nil, model.ErrProductNotFound
	}

	return out.Product.toModel(code), nil
}

func (p *product) toModel(code string) *model.Product {
	res := &model.Product{
		ProductName: model.NotAvailable,
		Barcode:     code,
		Brands:      p.Brands,
		ImageURL:    p.ImageURL,
	}
	if p.ProductName != nil {
		res.ProductName = *p.ProductName
	}

	kcal, okK := number(p.Nutriments, "energy-kcal_100g")
	protein, okP := number(p.Nutriments, "proteins_100g")
	carbs, okC := number(p.Nutriments, "carbohydrates_100g")
	fat, okF := number(p.Nutriments, "fat_100g")
	if okK || okP || okC || okF {
		res.Nutrition = &model.Nutrition{
			Calories: kcal,
			Protein:  protein,
			Carbs:    carbs,
			Fat:      fat,
		}
	}

	return res
}

// number - в старых записях OFF встречаются числа строками
func number(m map[string]any, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
