package querybuilder

import (
	"fmt"
	"strings"
)

type compareCondition struct {
	column   string
	operator string
	value    any
}

func Gte(column string, value any) Condition {
	return compareCondition{column: column, operator: ">=", value: value}
}

func Lte(column string, value any) Condition {
	return compareCondition{column: column, operator: "<=", value: value}
}

func (c compareCondition) appendSQL(buf *strings.Builder, args *[]any, argIndex *int) {
	buf.WriteString(c.column)
	buf.WriteString(" ")
	buf.WriteString(c.operator)
	buf.WriteString(" ")
	buf.WriteString(placeholder(*argIndex))
	*args = append(*args, c.value)
	*argIndex = *argIndex + 1
}

type groupCondition struct {
	joiner     string
	conditions []Condition
}

// Or groups conditions with OR and wraps them in parentheses so they
// compose safely with the builder's top-level AND chaining.
func Or(conditions ...Condition) Condition {
	return groupCondition{joiner: " OR ", conditions: conditions}
}

// And groups conditions with AND inside parentheses, for use inside Or.
func And(conditions ...Condition) Condition {
	return groupCondition{joiner: " AND ", conditions: conditions}
}

func (c groupCondition) appendSQL(buf *strings.Builder, args *[]any, argIndex *int) {
	if len(c.conditions) == 0 {
		buf.WriteString("1=0")
		return
	}

	buf.WriteString("(")
	for i, cond := range c.conditions {
		if i > 0 {
			buf.WriteString(c.joiner)
		}
		cond.appendSQL(buf, args, argIndex)
	}
	buf.WriteString(")")
}

type arrayOverlapsCondition struct {
	column string
	value  any
}

// ArrayOverlaps emits the Postgres && operator. The value should be a
// driver-compatible array, e.g. pq.Array.
func ArrayOverlaps(column string, value any) Condition {
	return arrayOverlapsCondition{column: column, value: value}
}

func (c arrayOverlapsCondition) appendSQL(buf *strings.Builder, args *[]any, argIndex *int) {
	buf.WriteString(c.column)
	buf.WriteString(" && ")
	buf.WriteString(placeholder(*argIndex))
	*args = append(*args, c.value)
	*argIndex = *argIndex + 1
}

type DeleteBuilder struct {
	table string
	where []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("delete table is required")
	}
	if len(b.where) == 0 {
		return "", nil, fmt.Errorf("delete conditions are required")
	}

	var buf strings.Builder
	buf.WriteString("DELETE FROM ")
	buf.WriteString(b.table)

	args := make([]any, 0, len(b.where))
	argIndex := 1
	appendWhereClause(&buf, b.where, &args, &argIndex)

	return buf.String(), args, nil
}
