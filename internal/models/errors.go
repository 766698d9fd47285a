package models

import "errors"

// Error taxonomy for the sale and debt-ledger core. Validation errors are
// raised before any storage write; ErrSettlementWriteFailed always means the
// whole settlement attempt was rolled back and the cart is intact.
var (
	// ErrProductNotFound: barcode has no matching catalog entry. Non-fatal,
	// the cart is unaffected.
	ErrProductNotFound = errors.New("product not found")

	// ErrLineNotFound: cart has no line for the given barcode.
	ErrLineNotFound = errors.New("cart line not found")

	// ErrEmptyCart: settlement attempted with no lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInsufficientPayment: cash tendered below the cart total.
	ErrInsufficientPayment = errors.New("tendered amount below cart total")

	// ErrNoCustomerSelected: debt settlement without an existing customer.
	ErrNoCustomerSelected = errors.New("no customer selected for debt settlement")

	// ErrSettlementWriteFailed: a transactional commit failed partway and was
	// rolled back in full. The attempt may be retried without double-charging.
	ErrSettlementWriteFailed = errors.New("settlement write failed, rolled back")

	// ErrAlreadyPaid: repayment attempted on an already-paid debt entry.
	// Informational, no state change.
	ErrAlreadyPaid = errors.New("debt entry already paid")

	// ErrDebtNotFound: no debt entry with the given id.
	ErrDebtNotFound = errors.New("debt entry not found")

	// ErrCustomerNotFound: no customer with the given id.
	ErrCustomerNotFound = errors.New("customer not found")
)
