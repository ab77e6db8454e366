package constants

// Payment status of an order
const (
	PAYMENT_PENDING   = "pending"
	PAYMENT_PAID      = "paid"
	PAYMENT_FAILED    = "failed"
	PAYMENT_CANCELLED = "cancelled"
)

var PaymentStatuses = []string{PAYMENT_PENDING, PAYMENT_PAID, PAYMENT_FAILED, PAYMENT_CANCELLED}

// Statuses an owner may cancel from.
var CancellableStatuses = []string{PAYMENT_PENDING, PAYMENT_PAID}

const (
	TICKET_NORMAL = "normal"
	TICKET_VIP    = "vip"
)

// Hours before an event's start after which an order can no longer be cancelled.
const CANCELLATION_WINDOW_HOURS = 24
