package query

import (
	"fmt"
	"strings"
)

// Condition renders one WHERE predicate. paramIndex is the number of
// parameters already bound, so generated names stay unique (@p0, @p1, ...).
type Condition interface {
	SQL(paramIndex int) (string, map[string]interface{})
}

type comparison struct {
	field string
	op    string
	value interface{}
}

func (c comparison) SQL(paramIndex int) (string, map[string]interface{}) {
	name := fmt.Sprintf("p%d", paramIndex)
	return fmt.Sprintf("%s %s @%s", c.field, c.op, name), map[string]interface{}{name: c.value}
}

// Eq renders "field = @pN".
func Eq(field string, value interface{}) Condition {
	return comparison{field: field, op: "=", value: value}
}

// Gt renders "field > @pN".
func Gt(field string, value interface{}) Condition {
	return comparison{field: field, op: ">", value: value}
}

// Gte renders "field >= @pN".
func Gte(field string, value interface{}) Condition {
	return comparison{field: field, op: ">=", value: value}
}

// Lte renders "field <= @pN".
func Lte(field string, value interface{}) Condition {
	return comparison{field: field, op: "<=", value: value}
}

type containsFold struct {
	field  string
	needle string
}

func (c containsFold) SQL(paramIndex int) (string, map[string]interface{}) {
	name := fmt.Sprintf("p%d", paramIndex)
	return fmt.Sprintf("STRPOS(LOWER(%s), @%s) > 0", c.field, name), map[string]interface{}{name: c.needle}
}

// ContainsFold matches rows whose string field contains needle, ignoring
// case. The needle is bound as a plain substring, so % and _ match literally.
func ContainsFold(field, needle string) Condition {
	return containsFold{field: field, needle: strings.ToLower(needle)}
}
