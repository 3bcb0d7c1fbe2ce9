/*
persistence.go - Snapshot save and load with counter reconciliation

PURPOSE:
  SaveAll serializes the full engine state through the SnapshotCodec;
  LoadAll replaces every collection with the deserialized snapshot and
  reconciles the process-wide tallies from the loaded lists, so a tally
  can never drift from the data it counts across restarts.

INVARIANTS:
  - Both operations are administrator-only; the gate runs before the
    codec touches any file.
  - The waiting queue is runtime-only and survives a load untouched.
*/
package engine

import (
	"fmt"

	"github.com/gustavoponcell/Barbearia/model"
)

// Snapshot is the serialized form of the full engine state.
type Snapshot struct {
	Customers    []*model.Customer        `json:"customers,omitempty"`
	Users        []*model.User            `json:"users,omitempty"`
	Services     []*model.Service         `json:"services,omitempty"`
	Products     []*model.Product         `json:"products,omitempty"`
	Appointments []*model.Appointment     `json:"appointments,omitempty"`
	Sales        []*model.Sale            `json:"sales,omitempty"`
	Accounts     []*model.BillingAccount  `json:"accounts,omitempty"`
	Expenses     []*model.Expense         `json:"expenses,omitempty"`
	Receipts     []*model.SupplierReceipt `json:"receipts,omitempty"`
	Ledgers      []*model.DailyLedger     `json:"ledgers,omitempty"`
}

// SaveAll writes the full engine state to path. Administrator only.
func (e *Engine) SaveAll(requester *model.User, path string) error {
	if err := requireAdmin(requester); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	snap := &Snapshot{
		Customers:    e.customers,
		Users:        e.users,
		Services:     e.services,
		Products:     e.products,
		Appointments: e.appointments,
		Sales:        e.sales,
		Accounts:     e.accounts,
		Expenses:     e.expenses,
		Receipts:     e.receipts,
		Ledgers:      e.ledgers,
	}
	if err := e.codec.Save(snap, path); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	e.log.Info("snapshot saved", "path", path,
		"customers", len(snap.Customers),
		"appointments", len(snap.Appointments))
	return nil
}

// LoadAll replaces the in-memory collections with the snapshot at path
// and reconciles the tallies from the loaded lists. Administrator only.
func (e *Engine) LoadAll(requester *model.User, path string) error {
	if err := requireAdmin(requester); err != nil {
		return err
	}
	snap, err := e.codec.Load(path)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.customers = snap.Customers
	e.users = snap.Users
	e.services = snap.Services
	e.products = snap.Products
	e.appointments = snap.Appointments
	e.sales = snap.Sales
	e.accounts = snap.Accounts
	e.expenses = snap.Expenses
	e.receipts = snap.Receipts
	e.ledgers = snap.Ledgers
	e.resetCounters(len(snap.Appointments), len(snap.Services))
	e.log.Info("snapshot loaded", "path", path,
		"customers", len(snap.Customers),
		"appointments", e.appointmentCount,
		"services", e.serviceCount)
	return nil
}
