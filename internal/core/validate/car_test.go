package validate

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/carmarket/internal/core/domain"
	"github.com/vncsmyrnk/carmarket/internal/core/query"
)

func carBody() map[string]any {
	return map[string]any{
		"name":    "Model 3",
		"brand":   "Tesla",
		"model":   "Long Range",
		"color":   "Midnight Silver",
		"year":    float64(2020),
		"mileage": float64(42000),
		"price":   float64(31500.5),
	}
}

func TestCarCreateNormalizes(t *testing.T) {
	body := carBody()
	body["name"] = "  Model 3  "
	body["description"] = "  One owner, full service history.  "

	car, err := CarCreate(body)
	require.NoError(t, err)

	assert.Equal(t, "Model 3", car.Name)
	assert.Equal(t, "Tesla", car.Brand)
	assert.Equal(t, 2020, car.Year)
	assert.Equal(t, 42000.0, car.Mileage)
	assert.Equal(t, 31500.5, car.Price)
	require.NotNil(t, car.Description)
	assert.Equal(t, "One owner, full service history.", *car.Description)
	assert.Equal(t, domain.CarPending, car.Status)
}

func TestCarCreateStatusDefaultsToPending(t *testing.T) {
	tests := []struct {
		name   string
		status any
		want   domain.CarStatus
	}{
		{"absent", nil, domain.CarPending},
		{"unknown value", "bogus", domain.CarPending},
		{"blank", "   ", domain.CarPending},
		{"wrong type", 3, domain.CarPending},
		{"valid with spaces", " sold ", domain.CarSold},
		{"active", "active", domain.CarActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := carBody()
			if tt.status != nil {
				body["status"] = tt.status
			}
			car, err := CarCreate(body)
			require.NoError(t, err)
			assert.Equal(t, tt.want, car.Status)
		})
	}
}

func TestCarCreateBlankDescriptionIsNull(t *testing.T) {
	body := carBody()
	body["description"] = "   "
	car, err := CarCreate(body)
	require.NoError(t, err)
	assert.Nil(t, car.Description)

	body["description"] = nil
	car, err = CarCreate(body)
	require.NoError(t, err)
	assert.Nil(t, car.Description)
}

func TestCarCreateRejects(t *testing.T) {
	pinYear(t, 2024)

	tests := []struct {
		name  string
		field string
		value any
		msg   string
	}{
		{"numeric name", "name", "12345", "Valid Car Name Is Required!"},
		{"blank name", "name", "   ", "Valid Car Name Is Required!"},
		{"long name", "name", strings.Repeat("a", 101), "Valid Car Name Is Required!"},
		{"missing brand", "brand", nil, "Valid Brand Is Required!"},
		{"long brand", "brand", strings.Repeat("b", 51), "Valid Brand Is Required!"},
		{"numeric model", "model", "3", "Valid Model Is Required!"},
		{"long color", "color", strings.Repeat("c", 31), "Valid Color Is Required!"},
		{"year too early", "year", float64(1899), "Valid Year Is Required!"},
		{"year in future", "year", float64(2025), "Valid Year Is Required!"},
		{"fractional year", "year", 2000.5, "Valid Year Is Required!"},
		{"year as string", "year", "2000", "Valid Year Is Required!"},
		{"negative mileage", "mileage", float64(-1), "Valid Mileage Is Required!"},
		{"mileage as string", "mileage", "100", "Valid Mileage Is Required!"},
		{"negative price", "price", float64(-0.01), "Valid Price Is Required!"},
		{"price beyond column precision", "price", float64(1e15), "Valid Price Is Required!"},
		{"mileage beyond column precision", "mileage", float64(1e10), "Valid Mileage Is Required!"},
		{"long description", "description", strings.Repeat("d", 1001), "Description Is Too Long!"},
		{"description type", "description", float64(7), "Invalid Description Type!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := carBody()
			body["year"] = float64(2020)
			if tt.value == nil {
				delete(body, tt.field)
			} else {
				body[tt.field] = tt.value
			}
			_, err := CarCreate(body)
			requireInvalid(t, err, tt.msg)
		})
	}
}

func TestCarCreateYearBoundaries(t *testing.T) {
	pinYear(t, 2024)

	for _, y := range []float64{1900, 2024} {
		body := carBody()
		body["year"] = y
		car, err := CarCreate(body)
		require.NoError(t, err)
		assert.Equal(t, int(y), car.Year)
	}
}

func TestCarCreateAcceptsMixedAlphanumericNames(t *testing.T) {
	body := carBody()
	body["name"] = "911 Carrera"
	body["model"] = "A4"
	_, err := CarCreate(body)
	require.NoError(t, err)
}

func TestCarCreateStopsAtFirstFailure(t *testing.T) {
	body := carBody()
	body["brand"] = ""
	body["year"] = float64(1000)
	body["price"] = float64(-5)

	_, err := CarCreate(body)
	requireInvalid(t, err, "Valid Brand Is Required!")
}

func TestCarPatchUsesFixedFieldOrder(t *testing.T) {
	conds, err := CarPatch(map[string]any{
		"status": "sold",
		"price":  float64(9000),
		"name":   " Civic ",
		"extra":  "ignored",
	})
	require.NoError(t, err)

	assert.Equal(t, []query.Condition{
		query.Eq("name", "Civic"),
		query.Eq("price", 9000.0),
		query.Eq("status", "sold"),
	}, conds)

	f := query.Build(conds)
	assert.Equal(t, "name = $1, price = $2, status = $3", f.Set())
}

func TestCarPatchDescription(t *testing.T) {
	conds, err := CarPatch(map[string]any{"description": "  "})
	require.NoError(t, err)
	require.Len(t, conds, 1)
	assert.Equal(t, "description", conds[0].Column)
	assert.Nil(t, conds[0].Value)

	_, err = CarPatch(map[string]any{"description": nil})
	requireInvalid(t, err, "Invalid Description Type!")
}

func TestCarPatchStatusIsStrict(t *testing.T) {
	_, err := CarPatch(map[string]any{"status": "bogus"})
	requireInvalid(t, err, "Please Provide a Valid Status!")

	_, err = CarPatch(map[string]any{"status": ""})
	requireInvalid(t, err, "Please Provide a Valid Status!")

	conds, err := CarPatch(map[string]any{"status": " archived "})
	require.NoError(t, err)
	assert.Equal(t, []query.Condition{query.Eq("status", "archived")}, conds)
}

func TestCarPatchRejects(t *testing.T) {
	pinYear(t, 2024)

	tests := []struct {
		name string
		body map[string]any
		msg  string
	}{
		{"empty body", map[string]any{}, "No Valid Field Provided For Update!"},
		{"only unknown fields", map[string]any{"user_id": float64(3)}, "No Valid Field Provided For Update!"},
		{"numeric name", map[string]any{"name": "2020"}, "Please Provide a Valid Car Name!"},
		{"bad brand", map[string]any{"brand": 5}, "Please Provide a Valid Brand!"},
		{"bad model", map[string]any{"model": ""}, "Please Provide a Valid Model!"},
		{"bad color", map[string]any{"color": "000"}, "Please Provide a Valid Color!"},
		{"future year", map[string]any{"year": float64(2025)}, "Please Provide a Valid Year!"},
		{"negative mileage", map[string]any{"mileage": float64(-3)}, "Please Provide a Valid Mileage!"},
		{"price as string", map[string]any{"price": "10"}, "Please Provide a Valid Price!"},
		{"price beyond column precision", map[string]any{"price": float64(1e15)}, "Please Provide a Valid Price!"},
		{"first failure wins", map[string]any{"name": "", "price": "x"}, "Please Provide a Valid Car Name!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CarPatch(tt.body)
			requireInvalid(t, err, tt.msg)
		})
	}
}

func TestCarSearch(t *testing.T) {
	pinYear(t, 2024)

	s, err := CarSearch(url.Values{
		"name":     {" civic "},
		"minYear":  {"2010"},
		"maxPrice": {"20000"},
		"status":   {" SOLD "},
		"sort":     {"PRICE"},
		"order":    {"desc"},
	})
	require.NoError(t, err)

	assert.Equal(t, []query.Condition{
		{Column: "name", Op: "ILIKE", Value: "%civic%"},
		{Column: "year", Op: ">=", Value: 2010},
		{Column: "price", Op: "<=", Value: 20000.0},
		query.Eq("status", "sold"),
	}, s.Conditions)
	assert.Equal(t, "price", s.Sort)
	assert.Equal(t, "DESC", s.Order)
}

func TestCarSearchDefaultsOrdering(t *testing.T) {
	s, err := CarSearch(url.Values{"brand": {"honda"}})
	require.NoError(t, err)
	assert.Equal(t, "created_at", s.Sort)
	assert.Equal(t, "ASC", s.Order)
}

func TestCarSearchMileageIsWholeNumber(t *testing.T) {
	s, err := CarSearch(url.Values{"minMileage": {" 1000 "}, "maxMileage": {"50000"}})
	require.NoError(t, err)
	assert.Equal(t, []query.Condition{
		{Column: "mileage", Op: ">=", Value: int64(1000)},
		{Column: "mileage", Op: "<=", Value: int64(50000)},
	}, s.Conditions)
}

func TestCarSearchRejects(t *testing.T) {
	pinYear(t, 2024)

	tests := []struct {
		name string
		q    url.Values
		msg  string
	}{
		{"no filters", url.Values{}, "No Valid Field Provided For Search!"},
		{"only ordering", url.Values{"sort": {"year"}, "order": {"DESC"}}, "No Valid Field Provided For Search!"},
		{"name without letters", url.Values{"name": {"123"}}, "Please Provide a Valid Car Name!"},
		{"blank brand", url.Values{"brand": {"  "}}, "Please Provide a Valid Brand!"},
		{"long model", url.Values{"model": {strings.Repeat("m", 51)}}, "Please Provide a Valid Model!"},
		{"color without letters", url.Values{"color": {"#000"}}, "Please Provide a Valid Color!"},
		{"year not a number", url.Values{"year": {"new"}}, "Please Provide a Valid Year!"},
		{"min year too early", url.Values{"minYear": {"1899"}}, "Please Provide a Valid Min-Year!"},
		{"max year in future", url.Values{"maxYear": {"2025"}}, "Please Provide a Valid Max-Year!"},
		{"zero exact price", url.Values{"price": {"0"}}, "Please Provide a Valid Price!"},
		{"negative min price", url.Values{"minPrice": {"-1"}}, "Please Provide a Valid Min-Price!"},
		{"max price not a number", url.Values{"maxPrice": {"cheap"}}, "Please Provide a Valid Max-Price!"},
		{"fractional mileage", url.Values{"mileage": {"1.5"}}, "Please Provide a Valid Mileage!"},
		{"negative min mileage", url.Values{"minMileage": {"-10"}}, "Please Provide a Valid Min-Mileage!"},
		{"blank max mileage", url.Values{"maxMileage": {" "}}, "Please Provide a Valid Max-Mileage!"},
		{"unknown status", url.Values{"status": {"stolen"}}, "Please Provide a Valid Status!"},
		{"bad sort", url.Values{"brand": {"honda"}, "sort": {"name"}}, "Please Provide a Valid Sort Type!"},
		{"bad order", url.Values{"brand": {"honda"}, "order": {"up"}}, "Please Provide a Valid Order Type!"},
		{"blank sort", url.Values{"brand": {"honda"}, "sort": {"   "}}, "Please Provide a Valid Sort Type!"},
		{"blank order", url.Values{"brand": {"honda"}, "order": {"   "}}, "Please Provide a Valid Order Type!"},
		{"sort checked before emptiness", url.Values{"sort": {"color"}}, "Please Provide a Valid Sort Type!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CarSearch(tt.q)
			requireInvalid(t, err, tt.msg)
		})
	}
}

func TestCarSearchAcceptsZeroMinPrice(t *testing.T) {
	s, err := CarSearch(url.Values{"minPrice": {"0"}})
	require.NoError(t, err)
	assert.Equal(t, []query.Condition{{Column: "price", Op: ">=", Value: 0.0}}, s.Conditions)
}

func TestCarCreateAcceptsLargestStorablePrice(t *testing.T) {
	body := carBody()
	body["price"] = float64(9999999999.99)

	car, err := CarCreate(body)
	require.NoError(t, err)
	assert.Equal(t, 9999999999.99, car.Price)
}
