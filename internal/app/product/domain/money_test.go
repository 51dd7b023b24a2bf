package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyFromString(t *testing.T) {
	m, err := MoneyFromString("49.90")
	require.NoError(t, err)
	assert.True(t, m.Equal(NewMoney(decimal.RequireFromString("49.9"))))
	assert.Equal(t, "49.9", m.String())

	_, err = MoneyFromString("forty")
	assert.Error(t, err)
}

func TestMoney_Arithmetic(t *testing.T) {
	a := MoneyFromInt(100)
	b := mustMoney(t, "0.1")

	assert.Equal(t, "100.1", a.Add(b).String())
	assert.Equal(t, "99.9", a.Subtract(b).String())
	assert.Equal(t, "450", MoneyFromInt(45).MultiplyInt(10).String())
	assert.Equal(t, "12.5", MoneyFromInt(50).Percent(decimal.NewFromInt(25)).String())
}

func TestMoney_Comparisons(t *testing.T) {
	assert.True(t, MoneyFromInt(80).LessThan(MoneyFromInt(100)))
	assert.True(t, MoneyFromInt(100).GreaterThan(MoneyFromInt(80)))
	assert.False(t, MoneyFromInt(100).LessThan(MoneyFromInt(100)))
	assert.True(t, MoneyFromInt(0).IsZero())
	assert.True(t, MoneyFromInt(-1).IsNegative())
}

func TestMoney_Precision(t *testing.T) {
	// 0.1 + 0.2 must be exactly 0.3
	sum := mustMoney(t, "0.1").Add(mustMoney(t, "0.2"))
	assert.True(t, sum.Equal(mustMoney(t, "0.3")))
}

func TestMoney_JSON(t *testing.T) {
	data, err := json.Marshal(mustMoney(t, "12.50"))
	require.NoError(t, err)
	assert.Equal(t, `"12.5"`, string(data))

	var m Money
	require.NoError(t, json.Unmarshal([]byte(`45`), &m))
	assert.True(t, m.Equal(MoneyFromInt(45)))
}

func mustMoney(t *testing.T, s string) Money {
	t.Helper()
	m, err := MoneyFromString(s)
	require.NoError(t, err)
	return m
}
