package directorycache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-directory-cache/filter"
)

func TestQuery_Misuse(t *testing.T) {
	ctx := context.Background()
	m, dir := newTestManager(t)

	tests := []struct {
		name  string
		build func(q *Query) *Query
	}{
		{"empty include", func(q *Query) *Query { return q.Includes("mail", " ") }},
		{"only without attributes", func(q *Query) *Query { return q.Only() }},
		{"only with blank attribute", func(q *Query) *Query { return q.Only("") }},
		{"blank base", func(q *Query) *Query { return q.In("  ") }},
		{"unknown specifier", func(q *Query) *Query { return q.For(Specifier(7)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.build(m.Users().Query())
			require.Error(t, q.Err())

			records, err := q.Call(ctx)
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
			assert.Nil(t, records)
			assert.Zero(t, dir.SearchCount())
		})
	}
}

func TestQuery_CalledTwice(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	q := m.Users().Query().Where(filter.Where{"sAMAccountName": "jdoe"})
	records, err := q.Call(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = q.Call(ctx)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestQuery_Specifiers(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	first, err := m.Groups().Query().Call(ctx)
	require.NoError(t, err)
	assert.Len(t, first, 1, "queries default to the first match")

	all, err := m.Groups().Query().First().All().Call(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestQuery_String(t *testing.T) {
	m, _ := newTestManager(t)

	q := m.Users().Query().All().Where(filter.Where{"cn": "Jane Doe"}).Includes("title")
	assert.Equal(t, "User [all] filters: 1 attributes: 1 (DC=example,DC=org)", q.String())
}

func TestSpecifier_String(t *testing.T) {
	assert.Equal(t, "first", First.String())
	assert.Equal(t, "all", All.String())
	assert.Equal(t, "specifier(9)", Specifier(9).String())
}
