package db

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-system/pkg/types"
)

var allowed = map[string]string{
	"serial":      "e.serial",
	"estado_id":   "e.estado_id",
	"sucursal_id": "e.sucursal_id",
}

func baseQuery() sq.SelectBuilder {
	return sq.Select("e.serial").From("equipos e").PlaceholderFormat(sq.Dollar)
}

func TestApplyListParamsFilters(t *testing.T) {
	filter := types.Filter{
		Filter: map[string]interface{}{
			"estado_id": "3",
			"ignored":   "x",
		},
	}

	sqlStr, args, err := ApplyListParams(baseQuery(), filter, allowed).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sqlStr, "e.estado_id = $1")
	assert.NotContains(t, sqlStr, "ignored")
	assert.Equal(t, []interface{}{"3"}, args)
}

func TestApplyListParamsCommaBecomesIn(t *testing.T) {
	filter := types.Filter{
		Filter: map[string]interface{}{"sucursal_id": "1,2,3"},
	}

	sqlStr, args, err := ApplyListParams(baseQuery(), filter, allowed).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sqlStr, "e.sucursal_id IN ($1,$2,$3)")
	assert.Len(t, args, 3)
}

func TestApplyListParamsSortAndPagination(t *testing.T) {
	filter := types.Filter{
		Sort:           map[string]string{"serial": "desc"},
		Limit:          20,
		Offset:         40,
		WithPagination: true,
	}

	sqlStr, _, err := ApplyListParams(baseQuery(), filter, allowed).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sqlStr, "ORDER BY e.serial DESC")
	assert.Contains(t, sqlStr, "LIMIT 20")
	assert.Contains(t, sqlStr, "OFFSET 40")
}

func TestApplyListParamsIgnoresUnknownSort(t *testing.T) {
	filter := types.Filter{
		Sort: map[string]string{"password": "asc"},
	}

	sqlStr, _, err := ApplyListParams(baseQuery(), filter, allowed).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, sqlStr, "ORDER BY")
}
