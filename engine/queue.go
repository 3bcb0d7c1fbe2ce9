/*
queue.go - Secondary waiting queue

PURPOSE:
  Holds appointments that could not be placed on the main schedule yet.
  Last-in-first-out: the most recently parked appointment is the first
  one promoted when a slot frees up.

INVARIANTS:
  - The queue holds references to appointments; parking does not change
    appointment status.
  - The queue is runtime-only state and is never part of a snapshot.
*/
package engine

import "github.com/gustavoponcell/Barbearia/model"

// ParkAppointment pushes an appointment onto the secondary queue.
func (e *Engine) ParkAppointment(requester *model.User, a *model.Appointment) error {
	if err := requireStaffOrAdmin(requester); err != nil {
		return err
	}
	if a == nil {
		return validationErr("cannot park a nil appointment")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.waiting = append(e.waiting, a)
	e.log.Debug("appointment parked", "appointment", a.ID, "depth", len(e.waiting))
	return nil
}

// PeekParked returns the appointment that would be promoted next without
// removing it.
func (e *Engine) PeekParked(requester *model.User) (*model.Appointment, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.waiting) == 0 {
		return nil, ErrEmptyQueue
	}
	return e.waiting[len(e.waiting)-1], nil
}

// PromoteParked pops the most recently parked appointment.
func (e *Engine) PromoteParked(requester *model.User) (*model.Appointment, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.waiting) == 0 {
		return nil, ErrEmptyQueue
	}
	last := len(e.waiting) - 1
	a := e.waiting[last]
	e.waiting[last] = nil
	e.waiting = e.waiting[:last]
	e.log.Debug("appointment promoted from queue", "appointment", a.ID, "depth", len(e.waiting))
	return a, nil
}

// ParkedDepth reports how many appointments are waiting.
func (e *Engine) ParkedDepth() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.waiting)
}
