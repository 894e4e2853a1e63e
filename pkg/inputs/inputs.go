// Package inputs provides typed parameter structs for each catalogue
// operation and converts them to and from resolver values.
package inputs

import (
	"fmt"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	gschema "github.com/gorilla/schema"

	"github.com/blimu-dev/netsuite-connector/pkg/resolver"
	"github.com/blimu-dev/netsuite-connector/pkg/schema"
)

var (
	validate = validator.New()
	encoder  = gschema.NewEncoder()
	decoder  = gschema.NewDecoder()
)

func init() {
	decoder.IgnoreUnknownKeys(true)
	decoder.RegisterConverter(time.Time{}, func(s string) reflect.Value {
		t, err := schema.ParseDate(s)
		if err != nil {
			return reflect.Value{}
		}
		return reflect.ValueOf(t)
	})
	encoder.RegisterEncoder(time.Time{}, func(v reflect.Value) string {
		t := v.Interface().(time.Time)
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format(time.RFC3339)
	})
}

// Input is a typed parameter set for one resource/operation pair.
type Input interface {
	Resource() string
	Operation() string
}

// CustomersGetAll lists every customer.
type CustomersGetAll struct{}

func (CustomersGetAll) Resource() string  { return schema.ResourceCustomers }
func (CustomersGetAll) Operation() string { return schema.OpGetAll }

// CustomersGetByEmail looks a customer up by email address.
type CustomersGetByEmail struct {
	Email string `schema:"email,omitempty" validate:"required,email"`
}

func (CustomersGetByEmail) Resource() string  { return schema.ResourceCustomers }
func (CustomersGetByEmail) Operation() string { return schema.OpGetByEmail }

// ProductsGetAll lists every product.
type ProductsGetAll struct{}

func (ProductsGetAll) Resource() string  { return schema.ResourceProducts }
func (ProductsGetAll) Operation() string { return schema.OpGetAll }

// ProductsGetPrice fetches the prices of one product.
type ProductsGetPrice struct {
	ProductID string `schema:"productId,omitempty" validate:"required"`
}

func (ProductsGetPrice) Resource() string  { return schema.ResourceProducts }
func (ProductsGetPrice) Operation() string { return schema.OpGetPrice }

// SalesOrdersGetItems fetches the items of a sales order.
type SalesOrdersGetItems struct {
	TransactionNumber string `schema:"transactionNumber,omitempty" validate:"required"`
}

func (SalesOrdersGetItems) Resource() string  { return schema.ResourceSalesOrders }
func (SalesOrdersGetItems) Operation() string { return schema.OpGetItems }

// SalesOrdersGetByDateRange searches sales orders between two dates.
type SalesOrdersGetByDateRange struct {
	StartDate time.Time `schema:"startDate" validate:"required"`
	EndDate   time.Time `schema:"endDate" validate:"required,gtefield=StartDate"`
}

func (SalesOrdersGetByDateRange) Resource() string  { return schema.ResourceSalesOrders }
func (SalesOrdersGetByDateRange) Operation() string { return schema.OpGetByDateRange }

// New returns an empty input for the pair, or false when the pair has no typed input.
func New(resource, operation string) (Input, bool) {
	switch resource + "." + operation {
	case schema.ResourceCustomers + "." + schema.OpGetAll:
		return &CustomersGetAll{}, true
	case schema.ResourceCustomers + "." + schema.OpGetByEmail:
		return &CustomersGetByEmail{}, true
	case schema.ResourceProducts + "." + schema.OpGetAll:
		return &ProductsGetAll{}, true
	case schema.ResourceProducts + "." + schema.OpGetPrice:
		return &ProductsGetPrice{}, true
	case schema.ResourceSalesOrders + "." + schema.OpGetItems:
		return &SalesOrdersGetItems{}, true
	case schema.ResourceSalesOrders + "." + schema.OpGetByDateRange:
		return &SalesOrdersGetByDateRange{}, true
	}
	return nil, false
}

// Validate checks the struct tags of in.
func Validate(in Input) error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%s.%s: %w", in.Resource(), in.Operation(), err)
	}
	return nil
}

// Encode flattens in into resolver values.
func Encode(in Input) (resolver.Values, error) {
	form := map[string][]string{}
	if err := encoder.Encode(in, form); err != nil {
		return nil, fmt.Errorf("encode %s.%s: %w", in.Resource(), in.Operation(), err)
	}
	values := resolver.Values{}
	for k, v := range form {
		if len(v) > 0 && v[0] != "" {
			values[k] = v[0]
		}
	}
	return values, nil
}

// Decode fills dst, a pointer to an input struct, from values.
func Decode(values resolver.Values, dst Input) error {
	form := make(map[string][]string, len(values))
	for k, v := range values {
		form[k] = []string{v}
	}
	if err := decoder.Decode(dst, form); err != nil {
		return fmt.Errorf("decode %s.%s: %w", dst.Resource(), dst.Operation(), err)
	}
	return nil
}

// Resolve validates in and resolves it with r.
func Resolve(r *resolver.Resolver, baseURL string, in Input) (*resolver.Descriptor, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	values, err := Encode(in)
	if err != nil {
		return nil, err
	}
	return r.Resolve(baseURL, in.Resource(), in.Operation(), values)
}
