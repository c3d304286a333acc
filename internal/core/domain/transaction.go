package domain

import "github.com/shopspring/decimal"

// SubTransactionRow is a single line item of a purchase: a quantity of one
// product at the unit price that applied at the time of sale.
// Amounts are in minor units (cents).
type SubTransactionRow struct {
	RowID            string          `json:"rowID"`            // Primary Key (e.g., UUID)
	SubTransactionID string          `json:"subTransactionID"` // FK -> SubTransaction
	ProductID        string          `json:"productID"`        // Catalog reference, opaque here
	UnitPriceInclVat decimal.Decimal `json:"unitPriceInclVat"` // Captured at sale time
	Amount           int64           `json:"amount"`           // Quantity, positive
}

// TotalInclVat returns amount x unit price for this row.
func (r SubTransactionRow) TotalInclVat() decimal.Decimal {
	return r.UnitPriceInclVat.Mul(decimal.NewFromInt(r.Amount))
}

// SubTransaction groups the rows of a purchase that settle to one receiver
// (the owner of the container the products were sold from).
type SubTransaction struct {
	SubTransactionID string              `json:"subTransactionID"` // Primary Key (e.g., UUID)
	TransactionID    string              `json:"transactionID"`    // FK -> Transaction
	ToID             string              `json:"toID"`             // Receiving UserID
	Rows             []SubTransactionRow `json:"rows"`
}

// Transaction is a point of sale purchase: an append-only ledger entry that
// debits the buyer for every row of every sub-transaction.
type Transaction struct {
	TransactionID   string           `json:"transactionID"` // Primary Key (e.g., UUID)
	FromID          string           `json:"fromID"`        // Buying UserID
	PointOfSaleID   *string          `json:"pointOfSaleID,omitempty"`
	SubTransactions []SubTransaction `json:"subTransactions"`
	AuditFields
}

// TotalInclVat sums every row of every sub-transaction.
func (t Transaction) TotalInclVat() decimal.Decimal {
	total := decimal.Zero
	for _, sub := range t.SubTransactions {
		for _, row := range sub.Rows {
			total = total.Add(row.TotalInclVat())
		}
	}
	return total
}

// FirstRowInclVat returns the value of the first row of the first
// sub-transaction, or zero when the transaction has no rows.
func (t Transaction) FirstRowInclVat() decimal.Decimal {
	if len(t.SubTransactions) == 0 || len(t.SubTransactions[0].Rows) == 0 {
		return decimal.Zero
	}
	return t.SubTransactions[0].Rows[0].TotalInclVat()
}
