package settings

import "time"

// CompanySettings is the single row of seller defaults used to prefill new invoices
type CompanySettings struct {
	SellerName    string    `db:"seller_name" json:"seller_name"`
	RegdAddress   string    `db:"regd_address" json:"regd_address"`
	OffcAddress   string    `db:"offc_address" json:"offc_address"`
	GSTNumber     string    `db:"gst_number" json:"gst_number"`
	Phone         string    `db:"phone" json:"phone"`
	Email         string    `db:"email" json:"email"`
	BankName      string    `db:"bank_name" json:"bank_name"`
	AccountName   string    `db:"account_name" json:"account_name"`
	AccountNumber string    `db:"account_number" json:"account_number"`
	IFSCCode      string    `db:"ifsc_code" json:"ifsc_code"`
	Branch        string    `db:"branch" json:"branch"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
