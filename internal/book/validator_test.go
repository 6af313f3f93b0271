package book

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func validRequest() CreateRequest {
	return CreateRequest{
		CategoryName: "Fiction",
		Title:        "Dune",
		Description:  "Desert planet",
		Publisher:    "Ace",
		Price:        ptr(20),
		Cost:         ptr(10),
		Units:        5,
	}
}

func TestValidateCreateRequest_Valid(t *testing.T) {
	assert.NoError(t, ValidateCreateRequest(validRequest()))
}

func TestValidateCreateRequest_PriceEqualToCost(t *testing.T) {
	req := validRequest()
	req.Price = ptr(10)
	assert.NoError(t, ValidateCreateRequest(req))
}

func TestValidateCreateRequest_ZeroValues(t *testing.T) {
	req := validRequest()
	req.Price = ptr(0)
	req.Cost = ptr(0)
	req.Units = 0
	assert.NoError(t, ValidateCreateRequest(req))
}

func TestValidateCreateRequest_PriceBelowCost(t *testing.T) {
	testCases := []struct {
		name  string
		price float64
		cost  float64
		units int
	}{
		{"small gap", 9.99, 10, 5},
		{"zero price", 0, 0.01, 0},
		{"large values", 1000, 1000.5, 100},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			req.Price = ptr(tc.price)
			req.Cost = ptr(tc.cost)
			req.Units = tc.units

			err := ValidateCreateRequest(req)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.True(t, verr.Has("price", "pricing"))
		})
	}
}

func TestValidateCreateRequest_NegativeUnits(t *testing.T) {
	req := validRequest()
	req.Units = -1

	err := ValidateCreateRequest(req)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("units", "gte"))
}

func TestValidateCreateRequest_NegativeMoney(t *testing.T) {
	req := validRequest()
	req.Price = ptr(-1)
	req.Cost = ptr(-2)

	err := ValidateCreateRequest(req)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("price", "gte"))
	assert.True(t, verr.Has("cost", "gte"))
}

func TestValidateCreateRequest_ReportsEveryViolation(t *testing.T) {
	req := CreateRequest{Units: -3}

	err := ValidateCreateRequest(req)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	for _, field := range []string{"categoryName", "title", "description", "publisher", "price", "cost"} {
		assert.True(t, verr.Has(field, "required"), "expected required error for %s", field)
	}
	assert.True(t, verr.Has("units", "gte"))
	assert.Len(t, verr.Fields, 7)
	assert.Contains(t, verr.Error(), "title is required")
}

func TestValidateCreateRequest_MissingFieldsAndBadPricingTogether(t *testing.T) {
	req := validRequest()
	req.Title = ""
	req.Price = ptr(1)
	req.Cost = ptr(2)

	err := ValidateCreateRequest(req)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("title", "required"))
	assert.True(t, verr.Has("price", "pricing"))
}

func TestValidateCreateRequest_NonFiniteMoney(t *testing.T) {
	req := validRequest()
	req.Price = ptr(math.Inf(1))
	req.Cost = ptr(math.Inf(1))

	err := ValidateCreateRequest(req)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("price", "finite"))
	assert.True(t, verr.Has("cost", "finite"))
	assert.False(t, verr.Has("price", "pricing"))

	req = validRequest()
	req.Cost = ptr(math.NaN())
	err = ValidateCreateRequest(req)
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("cost", "finite"))
}
