package catalogapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/openmart/catalog/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productListResponse struct {
	Count   int64            `json:"count"`
	Results []domain.Product `json:"results"`
}

type apiErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Detail  map[string][]string `json:"detail"`
}

func TestCreateThenList(t *testing.T) {
	a := newTestApp(t)

	payload := map[string]interface{}{
		"title":       "Wireless Mouse",
		"price":       24.99,
		"description": "2.4G ergonomic mouse",
		"category":    "Electronics",
		"image":       "https://img.example.com/mouse.jpg",
		"is_sale":     true,
	}
	c, rec := newTestContext(t, a, http.MethodPost, "/api/products/add", payload)
	require.NoError(t, createProduct(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var cp domain.Product
	decodeBody(t, rec, &cp)
	assert.NotZero(t, cp.ID)
	assert.Equal(t, "Wireless Mouse", cp.Title)
	assert.True(t, cp.Price.Equal(decimal.NewFromFloat(24.99)))
	assert.Equal(t, "Electronics", cp.Category)
	assert.True(t, cp.IsSale)
	assert.False(t, cp.Sold)
	assert.Nil(t, cp.DateOfSale)

	c, rec = newTestContext(t, a, http.MethodGet, "/api/products/list", nil)
	require.NoError(t, listProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var list productListResponse
	decodeBody(t, rec, &list)
	require.EqualValues(t, 1, list.Count)
	require.Len(t, list.Results, 1)
	got := list.Results[0]
	assert.Equal(t, cp.ID, got.ID)
	assert.Equal(t, "Wireless Mouse", got.Title)
	assert.True(t, got.Price.Equal(decimal.NewFromFloat(24.99)))
	assert.Equal(t, "2.4G ergonomic mouse", got.Description)
	assert.Equal(t, "https://img.example.com/mouse.jpg", got.Image)
}

func TestListFilters(t *testing.T) {
	a := newTestApp(t)
	db := a.DB()

	products := []domain.Product{
		{Title: "Gaming Laptop", Price: decimal.NewFromInt(1500), Description: "d", Category: "Electronics", Image: "https://img.example.com/1.jpg", Sold: true},
		{Title: "Office Laptop", Price: decimal.NewFromInt(45), Description: "d", Category: "Electronics", Image: "https://img.example.com/2.jpg"},
		{Title: "Paperback Novel", Price: decimal.NewFromInt(10), Description: "d", Category: "Books", Image: "https://img.example.com/3.jpg"},
		{Title: "Hardcover Novel", Price: decimal.NewFromInt(30), Description: "d", Category: "Books", Image: "https://img.example.com/4.jpg", Sold: true},
	}
	for i := range products {
		require.NoError(t, db.Create(&products[i]).Error)
	}

	// case-insensitive category match
	c, rec := newTestContext(t, a, http.MethodGet, "/api/products/list?category=electronics", nil)
	require.NoError(t, listProducts(c))
	var list productListResponse
	decodeBody(t, rec, &list)
	require.EqualValues(t, 2, list.Count)
	for _, p := range list.Results {
		assert.Equal(t, "Electronics", p.Category)
	}

	// price window composes with AND
	c, rec = newTestContext(t, a, http.MethodGet, "/api/products/list?min_price=10&max_price=50", nil)
	require.NoError(t, listProducts(c))
	list = productListResponse{}
	decodeBody(t, rec, &list)
	require.EqualValues(t, 3, list.Count)
	for _, p := range list.Results {
		assert.True(t, p.Price.GreaterThanOrEqual(decimal.NewFromInt(10)))
		assert.True(t, p.Price.LessThanOrEqual(decimal.NewFromInt(50)))
	}

	// sold flag
	c, rec = newTestContext(t, a, http.MethodGet, "/api/products/list?sold=true", nil)
	require.NoError(t, listProducts(c))
	list = productListResponse{}
	decodeBody(t, rec, &list)
	require.EqualValues(t, 2, list.Count)

	// title search
	c, rec = newTestContext(t, a, http.MethodGet, "/api/products/list?search=laptop", nil)
	require.NoError(t, listProducts(c))
	list = productListResponse{}
	decodeBody(t, rec, &list)
	require.EqualValues(t, 2, list.Count)

	// descending price ordering
	c, rec = newTestContext(t, a, http.MethodGet, "/api/products/list?ordering=-price", nil)
	require.NoError(t, listProducts(c))
	list = productListResponse{}
	decodeBody(t, rec, &list)
	require.Len(t, list.Results, 4)
	assert.Equal(t, "Gaming Laptop", list.Results[0].Title)

	// unknown ordering column is ignored
	c, rec = newTestContext(t, a, http.MethodGet, "/api/products/list?ordering=image", nil)
	require.NoError(t, listProducts(c))
	list = productListResponse{}
	decodeBody(t, rec, &list)
	require.EqualValues(t, 4, list.Count)
}

func TestListCategoryFilterIsLiteral(t *testing.T) {
	a := newTestApp(t)
	p := domain.Product{Title: "Desk Fan", Price: decimal.NewFromInt(15), Description: "d", Category: "Electronics", Image: "https://img.example.com/f.jpg"}
	require.NoError(t, a.DB().Create(&p).Error)

	// wildcard characters match nothing, they are not patterns
	for _, raw := range []string{"%25", "electronic_", "%25tron%25"} {
		c, rec := newTestContext(t, a, http.MethodGet, "/api/products/list?category="+raw, nil)
		require.NoError(t, listProducts(c))
		var list productListResponse
		decodeBody(t, rec, &list)
		assert.EqualValues(t, 0, list.Count, "category %q must not act as a pattern", raw)
	}

	c, rec := newTestContext(t, a, http.MethodGet, "/api/products/list?category=ELECTRONICS", nil)
	require.NoError(t, listProducts(c))
	var list productListResponse
	decodeBody(t, rec, &list)
	assert.EqualValues(t, 1, list.Count)
}

func TestUpdateProduct(t *testing.T) {
	a := newTestApp(t)
	p := domain.Product{Title: "Old Title", Price: decimal.NewFromInt(10), Description: "d", Category: "Books", Image: "https://img.example.com/b.jpg"}
	require.NoError(t, a.DB().Create(&p).Error)

	payload := map[string]interface{}{
		"title":        "New Title",
		"price":        12.50,
		"description":  "updated",
		"category":     "Books",
		"image":        "https://img.example.com/b.jpg",
		"sold":         true,
		"date_of_sale": "2024-03-05",
	}
	c, rec := newTestContext(t, a, http.MethodPut, "/api/products/1", payload)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, updateProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated domain.Product
	decodeBody(t, rec, &updated)
	assert.Equal(t, "New Title", updated.Title)
	assert.True(t, updated.Sold)
	require.NotNil(t, updated.DateOfSale)
	assert.Equal(t, time.March, updated.DateOfSale.Month())
	assert.Equal(t, 5, updated.DateOfSale.Day())
}

func TestPatchProductPartial(t *testing.T) {
	a := newTestApp(t)
	p := domain.Product{Title: "Stable Title", Price: decimal.NewFromInt(10), Description: "d", Category: "Books", Image: "https://img.example.com/b.jpg"}
	require.NoError(t, a.DB().Create(&p).Error)

	c, rec := newTestContext(t, a, http.MethodPatch, "/api/products/1", map[string]interface{}{"price": 99.95})
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, patchProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated domain.Product
	decodeBody(t, rec, &updated)
	assert.Equal(t, "Stable Title", updated.Title)
	assert.True(t, updated.Price.Equal(decimal.NewFromFloat(99.95)))
}

func TestDeleteProductTwice(t *testing.T) {
	a := newTestApp(t)
	p := domain.Product{Title: "Doomed", Price: decimal.NewFromInt(5), Description: "d", Category: "Toys", Image: "https://img.example.com/t.jpg"}
	require.NoError(t, a.DB().Create(&p).Error)

	c, rec := newTestContext(t, a, http.MethodDelete, "/api/products/1/delete", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, deleteProduct(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	c, rec = newTestContext(t, a, http.MethodDelete, "/api/products/1/delete", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, deleteProduct(c))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var errResp apiErrorResponse
	decodeBody(t, rec, &errResp)
	assert.Equal(t, "PRODUCT_NOT_FOUND", errResp.Code)
}

func TestPriceRange(t *testing.T) {
	a := newTestApp(t)

	// empty collection returns nulls
	c, rec := newTestContext(t, a, http.MethodGet, "/api/products/price_range", nil)
	require.NoError(t, priceRange(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var empty map[string]interface{}
	decodeBody(t, rec, &empty)
	assert.Nil(t, empty["min_price"])
	assert.Nil(t, empty["max_price"])

	for _, price := range []int64{5, 100, 42} {
		p := domain.Product{Title: "p", Price: decimal.NewFromInt(price), Description: "d", Category: "Misc", Image: "https://img.example.com/m.jpg"}
		require.NoError(t, a.DB().Create(&p).Error)
	}

	c, rec = newTestContext(t, a, http.MethodGet, "/api/products/price_range", nil)
	require.NoError(t, priceRange(c))

	var rangeResp map[string]float64
	decodeBody(t, rec, &rangeResp)
	assert.EqualValues(t, 5, rangeResp["min_price"])
	assert.EqualValues(t, 100, rangeResp["max_price"])
}

func TestListCategories(t *testing.T) {
	a := newTestApp(t)
	for _, cat := range []string{"Toys", "Books", "Toys", "Electronics"} {
		p := domain.Product{Title: "p-" + cat, Price: decimal.NewFromInt(1), Description: "d", Category: cat, Image: "https://img.example.com/c.jpg"}
		require.NoError(t, a.DB().Create(&p).Error)
	}

	c, rec := newTestContext(t, a, http.MethodGet, "/api/products/categories", nil)
	require.NoError(t, listCategories(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var categories []string
	decodeBody(t, rec, &categories)
	assert.Equal(t, []string{"Books", "Electronics", "Toys"}, categories)
}

func TestCreateProductValidation(t *testing.T) {
	a := newTestApp(t)

	payload := map[string]interface{}{
		"description": "no title, no price",
		"category":    "Books",
		"image":       "not-a-url",
	}
	c, rec := newTestContext(t, a, http.MethodPost, "/api/products/add", payload)
	require.NoError(t, createProduct(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp apiErrorResponse
	decodeBody(t, rec, &errResp)
	assert.Equal(t, "VALIDATION_ERROR", errResp.Code)
	assert.Contains(t, errResp.Detail, "title")
	assert.Contains(t, errResp.Detail, "price")
	assert.Contains(t, errResp.Detail, "image")
	assert.NotContains(t, errResp.Detail, "category")
}

func TestCreateProductPricePrecision(t *testing.T) {
	a := newTestApp(t)

	payload := map[string]interface{}{
		"title":       "Overpriced",
		"price":       123456789.99, // nine integer digits
		"description": "d",
		"category":    "Misc",
		"image":       "https://img.example.com/m.jpg",
	}
	c, rec := newTestContext(t, a, http.MethodPost, "/api/products/add", payload)
	require.NoError(t, createProduct(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp apiErrorResponse
	decodeBody(t, rec, &errResp)
	assert.Contains(t, errResp.Detail, "price")
}
