/*
main.go - Application entry point

PURPOSE:
  Boots the barbershop orchestration engine, optionally reloads the last
  snapshot, runs a demonstration day when the registry is empty, prints
  the management reports and saves the snapshot on the way out.

STARTUP SEQUENCE:
  1. Read configuration from the environment
  2. Build the statement writer (text files or SQLite archive)
  3. Wire the engine with the JSON snapshot codec
  4. Load the previous snapshot (empty file means a fresh start)
  5. Seed and run the demo day when no data was loaded
  6. Print reports and persist the snapshot

ENVIRONMENT (prefix BARBER_):
  BARBER_SNAPSHOT_PATH   snapshot file (default: data/barbershop.json)
  BARBER_STATEMENT_DIR   statement folder (default: data/statements)
  BARBER_STATEMENT_DB    when set, archive statements in this SQLite file
                         instead of text files
  BARBER_LOG_LEVEL       debug|info|warn|error (default: info)
  BARBER_CURRENCY        ISO currency for the demo seed (default: BRL)

EXAMPLES:
  # Text-file statements
  ./barbershop

  # SQLite statement archive
  BARBER_STATEMENT_DB=./data/statements.db ./barbershop

SEE ALSO:
  - engine/engine.go: the orchestration core
  - persist/snapshot.go: JSON snapshot codec
  - persist/sqlite/sqlite.go: SQLite statement archive
*/
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"

	"github.com/gustavoponcell/Barbearia/engine"
	"github.com/gustavoponcell/Barbearia/model"
	"github.com/gustavoponcell/Barbearia/persist"
	"github.com/gustavoponcell/Barbearia/persist/sqlite"
	"github.com/gustavoponcell/Barbearia/value"
)

type config struct {
	SnapshotPath string `envconfig:"SNAPSHOT_PATH" default:"data/barbershop.json"`
	StatementDir string `envconfig:"STATEMENT_DIR" default:"data/statements"`
	StatementDB  string `envconfig:"STATEMENT_DB"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	Currency     string `envconfig:"CURRENCY" default:"BRL"`
}

func main() {
	var cfg config
	if err := envconfig.Process("barber", &cfg); err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	var writer engine.StatementWriter = persist.NewFileStatementWriter()
	if cfg.StatementDB != "" {
		archive, err := sqlite.New(cfg.StatementDB)
		if err != nil {
			log.Fatalf("Failed to open statement archive: %v", err)
		}
		defer archive.Close()
		writer = archive
	}

	eng := engine.New(writer, persist.NewJSONSnapshotCodec(), cfg.StatementDir, logger)

	admin := bootstrapAdmin()
	if err := runDemo(eng, admin, cfg); err != nil {
		log.Fatalf("Demo run failed: %v", err)
	}
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// bootstrapAdmin builds the administrator every gated call runs under.
// It lives outside the registry on purpose: the engine gates on role,
// not on membership.
func bootstrapAdmin() *model.User {
	admin, err := model.NewUser(uuid.New(), "System Administrator",
		value.Address{Street: "Rua das Flores 100", City: "Recife"},
		mustPhone("81999990000"),
		mustEmail("admin@barbearia.local"),
		model.RoleAdmin, "admin", "bootstrap-hash", true)
	if err != nil {
		log.Fatalf("Failed to bootstrap administrator: %v", err)
	}
	return admin
}

func runDemo(eng *engine.Engine, admin *model.User, cfg config) error {
	if err := eng.LoadAll(admin, cfg.SnapshotPath); err != nil {
		return err
	}
	customers, _, appointments, _, _ := eng.Counts()
	if customers == 0 && appointments == 0 {
		if err := seedDay(eng, admin, cfg.Currency); err != nil {
			return err
		}
	}

	report, err := eng.OperationalReport(admin)
	if err != nil {
		return err
	}
	fmt.Println(report)

	month := model.MonthOf(time.Now())
	financial, err := eng.FinancialReport(admin, month, cfg.Currency)
	if err != nil {
		return err
	}
	fmt.Println(financial)

	return eng.SaveAll(admin, cfg.SnapshotPath)
}

// seedDay walks one full shop day: catalog, registrations, a completed
// order, a cancellation with retention and a counter sale.
func seedDay(eng *engine.Engine, admin *model.User, currency string) error {
	cut, err := model.NewService(uuid.New(), "Classic Cut", value.MustMoney("40.00", currency), 30, false)
	if err != nil {
		return err
	}
	washCut, err := model.NewService(uuid.New(), "Cut and Wash", value.MustMoney("55.00", currency), 45, true)
	if err != nil {
		return err
	}
	for _, svc := range []*model.Service{cut, washCut} {
		if err := eng.AddService(admin, svc); err != nil {
			return err
		}
	}

	pomade, err := model.NewProduct(uuid.New(), "Matte Pomade", "POM-01",
		value.Units(10), value.Units(3),
		value.MustMoney("35.00", currency), value.MustMoney("18.00", currency))
	if err != nil {
		return err
	}
	if err := eng.AddProduct(admin, pomade); err != nil {
		return err
	}

	barber, err := model.NewUser(uuid.New(), "Carlos Mendes",
		value.Address{Street: "Rua Aurora 55", City: "Recife"},
		mustPhone("81988887777"), mustEmail("carlos@barbearia.local"),
		model.RoleBarber, "carlos", "seed-hash", true)
	if err != nil {
		return err
	}
	if err := eng.RegisterUser(admin, barber); err != nil {
		return err
	}

	alice := mustCustomer("Alice Santos", "alice@example.com", "81977776666", "11122233344")
	bruno := mustCustomer("Bruno Lima", "bruno@example.com", "81966665555", "55566677788")
	for _, c := range []*model.Customer{alice, bruno} {
		if err := eng.RegisterCustomer(admin, c); err != nil {
			return err
		}
	}

	stations := model.Stations()
	start := time.Now().Add(1 * time.Hour)

	// Alice: full service, closed and paid.
	aliceAppt, err := model.NewAppointment(uuid.New(), alice, stations[0],
		start, start.Add(45*time.Minute), value.ZeroMoney(currency))
	if err != nil {
		return err
	}
	if err := eng.RegisterAppointment(admin, aliceAppt); err != nil {
		return err
	}
	if err := eng.BookService(admin, aliceAppt.ID, washCut.ID); err != nil {
		return err
	}
	if err := eng.AssignBarber(admin, aliceAppt.ID, barber.ID); err != nil {
		return err
	}
	if err := eng.StartService(admin, aliceAppt.ID); err != nil {
		return err
	}
	if err := eng.FinishService(admin, aliceAppt.ID); err != nil {
		return err
	}
	if _, err := eng.CloseAccount(admin, aliceAppt.ID, model.PaymentPix); err != nil {
		return err
	}

	// Bruno books and cancels; the shop keeps the retention.
	brunoAppt, err := model.NewAppointment(uuid.New(), bruno, stations[1],
		start.Add(2*time.Hour), start.Add(2*time.Hour+30*time.Minute), value.ZeroMoney(currency))
	if err != nil {
		return err
	}
	if err := eng.RegisterAppointment(admin, brunoAppt); err != nil {
		return err
	}
	if err := eng.BookService(admin, brunoAppt.ID, cut.ID); err != nil {
		return err
	}
	if _, err := eng.CancelAppointment(admin, brunoAppt.ID); err != nil {
		return err
	}

	// A walk-in buys pomade at the counter.
	_, err = eng.RecordSale(admin, nil, model.PaymentCash, nil, []engine.SaleLine{
		{ProductID: pomade.ID, Qty: value.Units(1)},
	})
	return err
}

func mustCustomer(name, email, phone, cpf string) *model.Customer {
	hash, err := value.HashCPF(cpf)
	if err != nil {
		log.Fatalf("Bad seed cpf for %s: %v", name, err)
	}
	c, err := model.NewCustomer(uuid.New(), name,
		value.Address{Street: "Rua do Sol 1", City: "Recife"},
		mustPhone(phone), mustEmail(email), hash, true)
	if err != nil {
		log.Fatalf("Failed to seed customer %s: %v", name, err)
	}
	return c
}

func mustPhone(digits string) value.Phone {
	p, err := value.ParsePhone(digits)
	if err != nil {
		log.Fatalf("Bad seed phone %q: %v", digits, err)
	}
	return p
}

func mustEmail(addr string) value.Email {
	e, err := value.ParseEmail(addr)
	if err != nil {
		log.Fatalf("Bad seed e-mail %q: %v", addr, err)
	}
	return e
}
