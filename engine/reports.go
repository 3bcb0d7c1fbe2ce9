/*
reports.go - Monthly balance and management reports

PURPOSE:
  Administrator-only aggregations: the monthly balance (sales revenue
  minus booked expenses for an accounting month) and two formatted text
  reports over the financial and operational state.
*/
package engine

import (
	"fmt"
	"strings"

	"github.com/gustavoponcell/Barbearia/model"
	"github.com/gustavoponcell/Barbearia/value"
)

// MonthlyBalance is revenue minus expenses for one accounting month.
type MonthlyBalance struct {
	Month    string
	Revenue  value.Money
	Expenses value.Money
	Net      value.Money
}

// ComputeMonthlyBalance aggregates sale totals and booked expenses for
// one month. Sales without a cached total are computed on the fly.
func (e *Engine) ComputeMonthlyBalance(requester *model.User, month, currency string) (MonthlyBalance, error) {
	if err := requireAdmin(requester); err != nil {
		return MonthlyBalance{}, err
	}
	normalized, err := model.ParseMonth(month)
	if err != nil {
		return MonthlyBalance{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	revenue := value.ZeroMoney(currency)
	for _, sale := range e.sales {
		if model.MonthOf(sale.At) != normalized {
			continue
		}
		total, err := sale.ComputedTotal()
		if err != nil {
			if total, err = sale.ComputeTotal(); err != nil {
				return MonthlyBalance{}, fmt.Errorf("sale %s: %w", sale.ID, err)
			}
		}
		if revenue, err = revenue.Add(total); err != nil {
			return MonthlyBalance{}, err
		}
	}
	for _, acct := range e.accounts {
		if !acct.Closed || acct.Appointment == nil {
			continue
		}
		if model.MonthOf(acct.Appointment.Start) != normalized {
			continue
		}
		total, err := acct.ComputedTotal()
		if err != nil {
			continue
		}
		if revenue, err = revenue.Add(total); err != nil {
			return MonthlyBalance{}, err
		}
	}

	spent := value.ZeroMoney(currency)
	for _, exp := range e.expenses {
		if exp.Month != normalized {
			continue
		}
		if spent, err = spent.Add(exp.Amount); err != nil {
			return MonthlyBalance{}, err
		}
	}

	net, err := revenue.Sub(spent)
	if err != nil {
		return MonthlyBalance{}, err
	}
	e.log.Info("monthly balance computed",
		"month", normalized,
		"revenue", revenue.String(),
		"expenses", spent.String(),
		"net", net.String())
	return MonthlyBalance{Month: normalized, Revenue: revenue, Expenses: spent, Net: net}, nil
}

// FinancialReport renders the month's balance and every ledger of the
// month as text. Administrator only.
func (e *Engine) FinancialReport(requester *model.User, month, currency string) (string, error) {
	balance, err := e.ComputeMonthlyBalance(requester, month, currency)
	if err != nil {
		return "", err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "FINANCIAL REPORT %s\n", balance.Month)
	b.WriteString("========================\n")
	fmt.Fprintf(&b, "Revenue:  %s\n", balance.Revenue.String())
	fmt.Fprintf(&b, "Expenses: %s\n", balance.Expenses.String())
	fmt.Fprintf(&b, "Net:      %s\n", balance.Net.String())
	b.WriteString("\nDaily ledgers:\n")
	for _, l := range e.ledgers {
		if model.MonthOf(l.Date) != balance.Month {
			continue
		}
		closing := "open"
		if c, err := l.ClosingBalance(); err == nil {
			closing = c.String()
		}
		fmt.Fprintf(&b, "  %s  in %s  out %s  closing %s\n",
			l.Date.Format("2006-01-02"), l.Inflows.String(), l.Outflows.String(), closing)
	}
	return b.String(), nil
}

// OperationalReport renders schedule and stock health as text.
func (e *Engine) OperationalReport(requester *model.User) (string, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return "", err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	byStatus := map[model.AppointmentStatus]int{}
	for _, a := range e.appointments {
		byStatus[a.Status]++
	}

	var b strings.Builder
	b.WriteString("OPERATIONAL REPORT\n")
	b.WriteString("==================\n")
	fmt.Fprintf(&b, "Appointments registered: %d\n", e.appointmentCount)
	fmt.Fprintf(&b, "Services catalogued:     %d\n", e.serviceCount)
	fmt.Fprintf(&b, "Waiting queue depth:     %d\n", len(e.waiting))
	b.WriteString("\nSchedule by status:\n")
	for _, st := range []model.AppointmentStatus{model.StatusWaiting, model.StatusInService, model.StatusDone, model.StatusCancelled} {
		fmt.Fprintf(&b, "  %-12s %d\n", st, byStatus[st])
	}
	b.WriteString("\nStock below minimum:\n")
	low := 0
	for _, p := range e.products {
		if p.BelowMinimum() {
			fmt.Fprintf(&b, "  %-30s %s %s (min %s)\n",
				p.Name, p.Stock.Amount.String(), p.Stock.Unit, p.MinStock.Amount.String())
			low++
		}
	}
	if low == 0 {
		b.WriteString("  none\n")
	}
	return b.String(), nil
}
