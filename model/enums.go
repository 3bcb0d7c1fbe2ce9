package model

// Role gates engine operations. Staff covers the front desk; barbers are
// staff for scheduling purposes but do not pass the staff-or-admin gate on
// financial operations.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleStaff  Role = "staff"
	RoleBarber Role = "barber"
)

// AppointmentStatus follows Waiting -> InService -> Done, with Cancelled
// reachable from any non-terminal state.
type AppointmentStatus string

const (
	StatusWaiting   AppointmentStatus = "waiting"
	StatusInService AppointmentStatus = "in_service"
	StatusDone      AppointmentStatus = "done"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusDone || s == StatusCancelled
}

// CanTransitionTo encodes the status machine.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if next == StatusCancelled {
		return !s.Terminal()
	}
	switch {
	case s == StatusWaiting && next == StatusInService:
		return true
	case s == StatusInService && next == StatusDone:
		return true
	}
	return false
}

// PaymentMethod is a label only; there is no gateway integration.
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "cash"
	PaymentDebitCard  PaymentMethod = "debit_card"
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentPix        PaymentMethod = "pix"
	PaymentOther      PaymentMethod = "other"
)

// ExpenseCategory classifies recurring shop expenses.
type ExpenseCategory string

const (
	ExpenseCleaning  ExpenseCategory = "cleaning"
	ExpenseCoffee    ExpenseCategory = "staff_coffee"
	ExpenseSupplies  ExpenseCategory = "supplies"
	ExpenseRent      ExpenseCategory = "rent"
	ExpenseElectric  ExpenseCategory = "electricity"
	ExpenseWater     ExpenseCategory = "water"
	ExpenseOther     ExpenseCategory = "other"
)

// ProductUseMode distinguishes products consumed during a service from
// products billed to the customer.
type ProductUseMode string

const (
	UseInternal ProductUseMode = "internal"
	UseBilled   ProductUseMode = "billed"
)
