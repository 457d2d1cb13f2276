package queries_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetSupplierOrdersQuery_Valid(t *testing.T) {
	query, err := queries.NewGetSupplierOrdersQuery(kernel.NewUUID())
	require.NoError(t, err)
	require.NoError(t, query.Validate())
}

func TestNewGetSupplierOrdersQuery_ZeroValueSupplierID(t *testing.T) {
	_, err := queries.NewGetSupplierOrdersQuery(kernel.UUID{})
	require.Error(t, err)
}

func TestGetSupplierOrdersQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetSupplierOrdersQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetSupplierOrdersQueryIsNotConstructed)
}
