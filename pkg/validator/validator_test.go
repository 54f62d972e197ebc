package validator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type priced struct {
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price" validate:"gte=0"`
	Kind  string          `json:"kind" validate:"omitempty,oneof=A B"`
}

func TestValidate_UsesJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&priced{Price: decimal.NewFromInt(-1), Kind: "C"})
	require.Error(t, err)

	errs := v.FormatValidationErrors(err)
	assert.Equal(t, "name is required", errs["name"])
	assert.Equal(t, "price must be greater than or equal to 0", errs["price"])
	assert.Equal(t, "kind must be one of [A B]", errs["kind"])
}

func TestValidate_Passes(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Validate(&priced{Name: "x", Price: decimal.RequireFromString("10.50"), Kind: "A"}))
}
