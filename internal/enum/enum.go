package enum

// ── Order lifecycle (owned by the backend; mirrored here for validation) ──

const (
	OrderStatusReceived   = "RECEIVED"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusReady      = "READY"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
)

const (
	GarmentStatusReceived   = "RECEIVED"
	GarmentStatusProcessing = "PROCESSING"
	GarmentStatusReady      = "READY"
	GarmentStatusDelivered  = "DELIVERED"
)

const (
	TransactionTypePayment = "PAYMENT"
	TransactionTypeRefund  = "REFUND"
	TransactionTypeCredit  = "CREDIT"
)

// ── Intake wizard ──

const (
	PaymentOptionPayLater  = "PAY_LATER"
	PaymentOptionPayNow    = "PAY_NOW"
	PaymentOptionUseCredit = "USE_CREDIT"
)

const (
	PaymentMethodCash     = "CASH"
	PaymentMethodCard     = "CARD"
	PaymentMethodTransfer = "TRANSFER"
)

// ── Configurable labels (no constraint on this side) ──

const (
	PricingModelPerItem = "PER_ITEM"
	PricingModelPerKg   = "PER_KG"
	PricingModelFlat    = "FLAT"
)

const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusReceived, OrderStatusProcessing, OrderStatusReady,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// ValidGarmentStatus reports whether s is a known garment status.
func ValidGarmentStatus(s string) bool {
	switch s {
	case GarmentStatusReceived, GarmentStatusProcessing,
		GarmentStatusReady, GarmentStatusDelivered:
		return true
	}
	return false
}

// ValidTransactionType reports whether s is a known ledger transaction type.
func ValidTransactionType(s string) bool {
	switch s {
	case TransactionTypePayment, TransactionTypeRefund, TransactionTypeCredit:
		return true
	}
	return false
}

// ValidPaymentOption reports whether s is a known wizard payment option.
func ValidPaymentOption(s string) bool {
	switch s {
	case PaymentOptionPayLater, PaymentOptionPayNow, PaymentOptionUseCredit:
		return true
	}
	return false
}

// ValidPaymentMethod reports whether s is a known payment method.
func ValidPaymentMethod(s string) bool {
	switch s {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer:
		return true
	}
	return false
}
