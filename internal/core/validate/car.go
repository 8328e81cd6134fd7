package validate

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/vncsmyrnk/carmarket/internal/core/domain"
	"github.com/vncsmyrnk/carmarket/internal/core/query"
)

const maxDescription = 1000

// CarCreate validates a sell-car body. The owner is not read from the body.
func CarCreate(body map[string]any) (*domain.Car, error) {
	car := &domain.Car{}
	texts := []*string{&car.Name, &car.Brand, &car.Model, &car.Color}
	for i, f := range carTextFields {
		s, ok := carText(body[f.key], f.max)
		if !ok {
			return nil, domain.Invalid(fmt.Sprintf("Valid %s Is Required!", f.label))
		}
		*texts[i] = s
	}

	y, ok := year(body["year"])
	if !ok {
		return nil, domain.Invalid("Valid Year Is Required!")
	}
	car.Year = y

	if car.Mileage, ok = nonNegative(body["mileage"]); !ok {
		return nil, domain.Invalid("Valid Mileage Is Required!")
	}
	if car.Price, ok = nonNegative(body["price"]); !ok {
		return nil, domain.Invalid("Valid Price Is Required!")
	}

	if raw, present := body["description"]; present && raw != nil {
		desc, err := description(raw)
		if err != nil {
			return nil, err
		}
		car.Description = desc
	}

	car.Status = domain.CarPending
	if s, ok := body["status"].(string); ok {
		if status := domain.CarStatus(strings.TrimSpace(s)); status.Valid() {
			car.Status = status
		}
	}

	return car, nil
}

// CarPatch validates a partial update. Only present fields are checked, in a
// fixed order, and at least one must be present.
func CarPatch(body map[string]any) ([]query.Condition, error) {
	var conds []query.Condition

	for _, f := range carTextFields {
		raw, present := body[f.key]
		if !present {
			continue
		}
		s, ok := carText(raw, f.max)
		if !ok {
			return nil, domain.Invalid(fmt.Sprintf("Please Provide a Valid %s!", f.label))
		}
		conds = append(conds, query.Eq(f.key, s))
	}

	if raw, present := body["year"]; present {
		y, ok := year(raw)
		if !ok {
			return nil, domain.Invalid("Please Provide a Valid Year!")
		}
		conds = append(conds, query.Eq("year", y))
	}

	if raw, present := body["mileage"]; present {
		m, ok := nonNegative(raw)
		if !ok {
			return nil, domain.Invalid("Please Provide a Valid Mileage!")
		}
		conds = append(conds, query.Eq("mileage", m))
	}

	if raw, present := body["price"]; present {
		p, ok := nonNegative(raw)
		if !ok {
			return nil, domain.Invalid("Please Provide a Valid Price!")
		}
		conds = append(conds, query.Eq("price", p))
	}

	if raw, present := body["description"]; present {
		desc, err := description(raw)
		if err != nil {
			return nil, err
		}
		var v any
		if desc != nil {
			v = *desc
		}
		conds = append(conds, query.Eq("description", v))
	}

	// Unlike create, a bad status on update is an error rather than a reset to pending.
	if raw, present := body["status"]; present {
		s, ok := raw.(string)
		status := domain.CarStatus(strings.TrimSpace(s))
		if !ok || !status.Valid() {
			return nil, domain.Invalid("Please Provide a Valid Status!")
		}
		conds = append(conds, query.Eq("status", string(status)))
	}

	if len(conds) == 0 {
		return nil, domain.Invalid("No Valid Field Provided For Update!")
	}
	return conds, nil
}

// description returns nil for a blank string.
func description(raw any) (*string, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, domain.Invalid("Invalid Description Type!")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(s) > maxDescription {
		return nil, domain.Invalid("Description Is Too Long!")
	}
	return &s, nil
}

type rangeField struct {
	key    string
	column string
	op     string
	label  string
}

var (
	yearFields = []rangeField{
		{key: "year", column: "year", op: "=", label: "Year"},
		{key: "minYear", column: "year", op: ">=", label: "Min-Year"},
		{key: "maxYear", column: "year", op: "<=", label: "Max-Year"},
	}
	priceFields = []rangeField{
		{key: "price", column: "price", op: "=", label: "Price"},
		{key: "minPrice", column: "price", op: ">=", label: "Min-Price"},
		{key: "maxPrice", column: "price", op: "<=", label: "Max-Price"},
	}
	mileageFields = []rangeField{
		{key: "mileage", column: "mileage", op: "=", label: "Mileage"},
		{key: "minMileage", column: "mileage", op: ">=", label: "Min-Mileage"},
		{key: "maxMileage", column: "mileage", op: "<=", label: "Max-Mileage"},
	}
)

func searchError(label string) error {
	return domain.Invalid(fmt.Sprintf("Please Provide a Valid %s!", label))
}

// CarSearch validates search filters and ordering from a query string.
func CarSearch(q url.Values) (query.Search, error) {
	var conds []query.Condition

	for _, f := range carTextFields {
		if !q.Has(f.key) {
			continue
		}
		s, ok := searchText(q.Get(f.key), f.max)
		if !ok {
			return query.Search{}, searchError(f.label)
		}
		conds = append(conds, query.Condition{Column: f.key, Op: "ILIKE", Value: "%" + s + "%"})
	}

	for _, f := range yearFields {
		if !q.Has(f.key) {
			continue
		}
		y, ok := parseYear(q.Get(f.key))
		if !ok {
			return query.Search{}, searchError(f.label)
		}
		conds = append(conds, query.Condition{Column: f.column, Op: f.op, Value: y})
	}

	for _, f := range priceFields {
		if !q.Has(f.key) {
			continue
		}
		p, ok := parseNumber(q.Get(f.key))
		// An exact price of zero is never a useful match.
		if !ok || p < 0 || (f.op == "=" && p == 0) {
			return query.Search{}, searchError(f.label)
		}
		conds = append(conds, query.Condition{Column: f.column, Op: f.op, Value: p})
	}

	for _, f := range mileageFields {
		if !q.Has(f.key) {
			continue
		}
		m, ok := parseCount(q.Get(f.key))
		if !ok {
			return query.Search{}, searchError(f.label)
		}
		conds = append(conds, query.Condition{Column: f.column, Op: f.op, Value: m})
	}

	if q.Has("status") {
		status := domain.CarStatus(strings.ToLower(strings.TrimSpace(q.Get("status"))))
		if !status.Valid() {
			return query.Search{}, searchError("Status")
		}
		conds = append(conds, query.Eq("status", string(status)))
	}

	sort := "created_at"
	if raw := q.Get("sort"); raw != "" {
		sort = strings.ToLower(strings.TrimSpace(raw))
	}
	if !query.ValidSort(sort) {
		return query.Search{}, domain.Invalid("Please Provide a Valid Sort Type!")
	}

	order := "ASC"
	if raw := q.Get("order"); raw != "" {
		order = strings.ToUpper(strings.TrimSpace(raw))
	}
	if !query.ValidOrder(order) {
		return query.Search{}, domain.Invalid("Please Provide a Valid Order Type!")
	}

	if len(conds) == 0 {
		return query.Search{}, domain.Invalid("No Valid Field Provided For Search!")
	}

	return query.Search{Conditions: conds, Sort: sort, Order: order}, nil
}
