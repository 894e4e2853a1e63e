package schema

import "sync"

const (
	ResourceCustomers   = "customers"
	ResourceProducts    = "products"
	ResourceSalesOrders = "salesOrders"

	OpGetAll         = "getAll"
	OpGetByEmail     = "getByEmail"
	OpGetPrice       = "getPrice"
	OpGetItems       = "getItems"
	OpGetByDateRange = "getByDateRange"
)

var (
	netSuiteOnce   sync.Once
	netSuiteSchema *Schema
)

// NetSuite returns the built-in NetSuite API catalogue. It is built once.
func NetSuite() *Schema {
	netSuiteOnce.Do(func() {
		netSuiteSchema = MustNew(netSuiteResources(), netSuiteFields())
	})
	return netSuiteSchema
}

func netSuiteResources() []Resource {
	return []Resource{
		{
			ID:               ResourceCustomers,
			Name:             "Customers",
			DefaultOperation: OpGetAll,
			Operations: []Operation{
				{
					ID:      OpGetAll,
					Name:    "Get All",
					Action:  "Retrieve all customers (GET)",
					Request: RequestTemplate{Method: "GET", URL: "/v1/customers"},
				},
				{
					ID:      OpGetByEmail,
					Name:    "Get by Email",
					Action:  "Retrieve a customer by email (POST)",
					Request: RequestTemplate{Method: "POST", URL: "/v1/customers/search/by-email"},
				},
			},
		},
		{
			ID:               ResourceProducts,
			Name:             "Products",
			DefaultOperation: OpGetAll,
			Operations: []Operation{
				{
					ID:      OpGetAll,
					Name:    "Get All",
					Action:  "Retrieve all products (GET)",
					Request: RequestTemplate{Method: "GET", URL: "/v1/products"},
				},
				{
					ID:      OpGetPrice,
					Name:    "Get Price by ID",
					Action:  "Retrieve product price by product ID (GET)",
					Request: RequestTemplate{Method: "GET", URL: "/v1/products/{productId}/prices"},
				},
			},
		},
		{
			ID:               ResourceSalesOrders,
			Name:             "Sales Orders",
			DefaultOperation: OpGetItems,
			Operations: []Operation{
				{
					ID:      OpGetItems,
					Name:    "Get Items by Transaction Number",
					Action:  "Retrieve items by Transaction Number (GET)",
					Request: RequestTemplate{Method: "GET", URL: "/v1/salesorders/{transactionNumber}/items"},
				},
				{
					ID:      OpGetByDateRange,
					Name:    "Get by Date Range",
					Action:  "Retrieve sales orders within a date range (POST)",
					Request: RequestTemplate{Method: "POST", URL: "/v1/salesorders/daterange"},
				},
			},
		},
	}
}

func netSuiteFields() []Field {
	return []Field{
		{
			ID:         "email",
			Label:      "Email",
			Type:       TypeString,
			Required:   true,
			Visibility: Visibility{Resources: []string{ResourceCustomers}, Operations: []string{OpGetByEmail}},
			Contribution: &Contribution{
				Location: LocationBody,
				Key:      "email",
			},
		},
		{
			ID:         "productId",
			Label:      "Product ID",
			Type:       TypeString,
			Required:   true,
			Visibility: Visibility{Resources: []string{ResourceProducts}, Operations: []string{OpGetPrice}},
			Contribution: &Contribution{
				Location: LocationURL,
				Key:      "productId",
			},
		},
		{
			ID:         "transactionNumber",
			Label:      "Transaction Number",
			Type:       TypeString,
			Required:   true,
			Visibility: Visibility{Resources: []string{ResourceSalesOrders}, Operations: []string{OpGetItems}},
			Contribution: &Contribution{
				Location: LocationURL,
				Key:      "transactionNumber",
			},
		},
		{
			ID:         "startDate",
			Label:      "Start Date",
			Type:       TypeDateTime,
			Required:   true,
			Visibility: Visibility{Resources: []string{ResourceSalesOrders}, Operations: []string{OpGetByDateRange}},
			Contribution: &Contribution{
				Location: LocationBody,
				Key:      "start_date",
			},
		},
		{
			ID:         "endDate",
			Label:      "End Date",
			Type:       TypeDateTime,
			Required:   true,
			Visibility: Visibility{Resources: []string{ResourceSalesOrders}, Operations: []string{OpGetByDateRange}},
			Contribution: &Contribution{
				Location: LocationBody,
				Key:      "end_date",
			},
		},
	}
}
