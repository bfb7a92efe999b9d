package openfoodfacts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/UnendingLoop/FoodScanner/internal/model"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, status int, body string, delay time.Duration) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Product(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		delay   time.Duration
		want    *model.Product
		wantErr error
		timeout time.Duration
	}{
		{
			name:   "found",
			status: 200,
			body: `{"code":"4006381333931","status":"success","product":{"product_name":"Stabilo Pen","brands":"Stabilo",
				"image_front_url":"https://img/x.jpg","nutriments":{"energy-kcal_100g":120.5,"proteins_100g":"3.2","fat_100g":1}}}`,
			want: &model.Product{
				ProductName: "Stabilo Pen",
				Barcode:     "4006381333931",
				Brands:      "Stabilo",
				ImageURL:    "https://img/x.jpg",
				Nutrition:   &model.Nutrition{Calories: 120.5, Protein: 3.2, Fat: 1},
			},
		},
		{
			name:   "found with warnings and without name",
			status: 200,
			body:   `{"status":"success_with_warnings","product":{}}`,
			want: &model.Product{
				ProductName: model.NotAvailable,
				Barcode:     "4006381333931",
			},
		},
		{
			name:   "empty name is kept",
			status: 200,
			body:   `{"status":"success","product":{"product_name":""}}`,
			want: &model.Product{
				ProductName: "",
				Barcode:     "4006381333931",
			},
		},
		{
			name:    "failure status",
			status:  200,
			body:    `{"status":"failure","product":null}`,
			wantErr: model.ErrProductNotFound,
		},
		{
			name:    "status missing",
			status:  200,
			body:    `{"product":{"product_name":"x"}}`,
			wantErr: model.ErrProductNotFound,
		},
		{
			name:    "http 404",
			status:  404,
			body:    `{"status":"failure","result":{"id":"product_not_found"}}`,
			wantErr: model.ErrProductNotFound,
		},
		{
			name:    "http 503",
			status:  503,
			body:    `maintenance`,
			wantErr: model.ErrLookupUnavailable,
		},
		{
			name:    "garbage body",
			status:  200,
			body:    `<html>`,
			wantErr: model.ErrLookupUnavailable,
		},
		{
			name:    "slow upstream",
			status:  200,
			body:    `{"status":"success","product":{}}`,
			delay:   500 * time.Millisecond,
			timeout: 50 * time.Millisecond,
			wantErr: model.ErrLookupTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.status, tt.body, tt.delay)
			timeout := tt.timeout
			if timeout == 0 {
				timeout = 2 * time.Second
			}

			c := New(srv.URL, "FoodScanner-test", timeout)
			got, err := c.Product(context.Background(), "4006381333931")

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, got)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestClient_Product_RequestShape(t *testing.T) {
	var gotPath, gotUA, gotFields string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		gotFields = r.URL.Query().Get("fields")
		_, _ = w.Write([]byte(`{"status":"success","product":{"product_name":"Milk"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", "FoodScanner/1.0", time.Second)
	p, err := c.Product(context.Background(), "0123456789012")
	require.NoError(t, err)
	require.Equal(t, "Milk", p.ProductName)

	require.Equal(t, "/api/v3/product/0123456789012.json", gotPath)
	require.Equal(t, "FoodScanner/1.0", gotUA)
	require.Contains(t, gotFields, "product_name")
}

func TestClient_Product_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := New(addr, "", time.Second).Product(context.Background(), "1")
	require.ErrorIs(t, err, model.ErrLookupUnavailable)
	require.NotErrorIs(t, err, model.ErrProductNotFound)
}

func TestClient_Product_CanceledContext(t *testing.T) {
	srv := newTestServer(t, 200, `{"status":"success","product":{}}`, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := New(srv.URL, "", 5*time.Second).Product(ctx, "1")
	require.ErrorIs(t, err, model.ErrLookupTimeout)
}
