package query

import (
	"fmt"
	"strings"

	"cloud.google.com/go/spanner"
)

// Direction is an ORDER BY direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

type ordering struct {
	column string
	dir    Direction
}

type join struct {
	table string
	alias string
	on    string
}

// Builder assembles Spanner SELECT statements with generated parameter
// names. Every method returns a copy, so one filtered base can produce both
// the page query and its Count.
type Builder struct {
	table   string
	alias   string
	index   string
	columns []string
	joins   []join
	where   []Condition
	orders  []ordering
	limit   int64
	offset  int64
}

// From starts a query over table.
func From(table string) *Builder {
	return &Builder{table: table}
}

// As names the FROM table so joined queries can qualify columns.
func (b *Builder) As(alias string) *Builder {
	c := b.clone()
	c.alias = alias
	return c
}

// ForceIndex pins the secondary index scanned for the FROM table.
func (b *Builder) ForceIndex(index string) *Builder {
	c := b.clone()
	c.index = index
	return c
}

// Join adds an inner join. on is written verbatim and must not carry values.
func (b *Builder) Join(table, alias, on string) *Builder {
	c := b.clone()
	c.joins = append(c.joins, join{table: table, alias: alias, on: on})
	return c
}

func (b *Builder) Select(columns ...string) *Builder {
	c := b.clone()
	c.columns = append(c.columns, columns...)
	return c
}

// Where adds a condition; conditions are ANDed.
func (b *Builder) Where(cond Condition) *Builder {
	c := b.clone()
	c.where = append(c.where, cond)
	return c
}

// OrderBy appends a sort key. Later calls break ties of earlier ones.
func (b *Builder) OrderBy(column string, dir Direction) *Builder {
	c := b.clone()
	c.orders = append(c.orders, ordering{column: column, dir: dir})
	return c
}

func (b *Builder) Limit(n int64) *Builder {
	c := b.clone()
	c.limit = n
	return c
}

func (b *Builder) Offset(n int64) *Builder {
	c := b.clone()
	c.offset = n
	return c
}

// Count keeps FROM, joins and WHERE and drops everything else.
func (b *Builder) Count() *Builder {
	c := b.clone()
	c.columns = []string{"COUNT(*)"}
	c.orders = nil
	c.limit, c.offset = 0, 0
	return c
}

// Build renders the statement.
func (b *Builder) Build() spanner.Statement {
	var sql strings.Builder
	params := make(map[string]interface{})

	cols := "*"
	if len(b.columns) > 0 {
		cols = strings.Join(b.columns, ", ")
	}
	fmt.Fprintf(&sql, "SELECT %s FROM %s", cols, b.table)
	if b.index != "" {
		fmt.Fprintf(&sql, "@{FORCE_INDEX=%s}", b.index)
	}
	if b.alias != "" {
		fmt.Fprintf(&sql, " AS %s", b.alias)
	}
	for _, j := range b.joins {
		fmt.Fprintf(&sql, " JOIN %s AS %s ON %s", j.table, j.alias, j.on)
	}

	if len(b.where) > 0 {
		parts := make([]string, 0, len(b.where))
		for _, cond := range b.where {
			fragment, condParams := cond.SQL(len(params))
			parts = append(parts, fragment)
			for k, v := range condParams {
				params[k] = v
			}
		}
		sql.WriteString(" WHERE " + strings.Join(parts, " AND "))
	}

	if len(b.orders) > 0 {
		keys := make([]string, len(b.orders))
		for i, o := range b.orders {
			keys[i] = o.column + " " + o.dir.String()
		}
		sql.WriteString(" ORDER BY " + strings.Join(keys, ", "))
	}

	if b.limit > 0 {
		sql.WriteString(" LIMIT @limit")
		params["limit"] = b.limit
	}
	if b.offset > 0 {
		sql.WriteString(" OFFSET @offset")
		params["offset"] = b.offset
	}

	return spanner.Statement{SQL: sql.String(), Params: params}
}

func (b *Builder) clone() *Builder {
	c := *b
	c.columns = append([]string(nil), b.columns...)
	c.joins = append([]join(nil), b.joins...)
	c.where = append([]Condition(nil), b.where...)
	c.orders = append([]ordering(nil), b.orders...)
	return &c
}

// String is meant for debug logging.
func (b *Builder) String() string {
	stmt := b.Build()
	return fmt.Sprintf("SQL: %s\nParams: %v", stmt.SQL, stmt.Params)
}
