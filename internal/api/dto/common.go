package dto

import "github.com/shopspring/decimal"

func init() {
	// amounts leave the API as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// DateLayout is the wire format of invoice dates
const DateLayout = "2006-01-02"
