package model

import "strings"

// Sort orders used by the engine listings. Each is a strict-weak "less"
// function suitable for sort.SliceStable.

// CustomerByName orders customers alphabetically, case-insensitive.
func CustomerByName(a, b *Customer) bool {
	return strings.ToLower(a.Name) < strings.ToLower(b.Name)
}

// CustomerByEmail orders customers by e-mail address.
func CustomerByEmail(a, b *Customer) bool {
	return strings.ToLower(a.Email.Address) < strings.ToLower(b.Email.Address)
}

// AppointmentByStart orders appointments chronologically.
func AppointmentByStart(a, b *Appointment) bool {
	return a.Start.Before(b.Start)
}

// AppointmentByCustomerName orders appointments by customer name.
func AppointmentByCustomerName(a, b *Appointment) bool {
	var an, bn string
	if a.Customer != nil {
		an = strings.ToLower(a.Customer.Name)
	}
	if b.Customer != nil {
		bn = strings.ToLower(b.Customer.Name)
	}
	return an < bn
}
