// Package query assembles parameterized SQL fragments with Postgres $n
// placeholders from an ordered list of validated conditions.
package query

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNoConditions = errors.New("no conditions to build")

// Condition is one column/operator/value triple. Column and Op must come from
// code, never from request input.
type Condition struct {
	Column string
	Op     string
	Value  any
}

func Eq(column string, value any) Condition {
	return Condition{Column: column, Op: "=", Value: value}
}

type Fragments struct {
	Clauses []string
	Values  []any
}

// Build numbers placeholders from $1 in the order the conditions are given.
func Build(conds []Condition) Fragments {
	f := Fragments{
		Clauses: make([]string, 0, len(conds)),
		Values:  make([]any, 0, len(conds)),
	}
	for i, c := range conds {
		f.Clauses = append(f.Clauses, fmt.Sprintf("%s %s $%d", c.Column, c.Op, i+1))
		f.Values = append(f.Values, c.Value)
	}
	return f
}

func (f Fragments) Where() string {
	return strings.Join(f.Clauses, " AND ")
}

func (f Fragments) Set() string {
	return strings.Join(f.Clauses, ", ")
}

func (f Fragments) Len() int {
	return len(f.Values)
}

var (
	sortColumns = map[string]bool{"created_at": true, "year": true, "price": true, "mileage": true}
	sortOrders  = map[string]bool{"ASC": true, "DESC": true}
)

func ValidSort(sort string) bool {
	return sortColumns[sort]
}

func ValidOrder(order string) bool {
	return sortOrders[order]
}

type Search struct {
	Conditions []Condition
	Sort       string
	Order      string
}

// SearchStatement renders SELECT <columns> FROM <table> WHERE ... ORDER BY ...
func SearchStatement(table, columns string, s Search) (string, []any, error) {
	if len(s.Conditions) == 0 {
		return "", nil, ErrNoConditions
	}
	if !ValidSort(s.Sort) || !ValidOrder(s.Order) {
		return "", nil, fmt.Errorf("invalid ordering %q %q", s.Sort, s.Order)
	}

	f := Build(s.Conditions)
	stmt := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s %s", columns, table, f.Where(), s.Sort, s.Order)
	return stmt, f.Values, nil
}

// UpdateStatement renders UPDATE <table> SET ... WHERE id = $n+1 RETURNING <columns>,
// with id bound as the last parameter.
func UpdateStatement(table, columns string, conds []Condition, id any) (string, []any, error) {
	if len(conds) == 0 {
		return "", nil, ErrNoConditions
	}

	f := Build(conds)
	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s", table, f.Set(), f.Len()+1, columns)
	return stmt, append(f.Values, id), nil
}
