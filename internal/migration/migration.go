// Package migration creates the schema automatically on startup so a
// fresh install is usable out of the box.
package migration

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	authdomain "github.com/upeonet/mtandao/internal/auth/domain"
	"github.com/upeonet/mtandao/internal/config"
	customerdomain "github.com/upeonet/mtandao/internal/customer/domain"
	devicedomain "github.com/upeonet/mtandao/internal/device/domain"
	notificationdomain "github.com/upeonet/mtandao/internal/notification/domain"
	paymentdomain "github.com/upeonet/mtandao/internal/payment/domain"
	plandomain "github.com/upeonet/mtandao/internal/plan/domain"
	securityeventdomain "github.com/upeonet/mtandao/internal/securityevent/domain"
	ticketdomain "github.com/upeonet/mtandao/internal/ticket/domain"
	"gorm.io/gorm"
)

// Run applies the embedded SQL migrations on postgres. Other dialects
// (sqlite for local work, mysql) fall back to the ORM's auto migration.
func Run(db *gorm.DB, cfg config.Config) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	if cfg.DBType != "postgres" {
		return db.AutoMigrate(
			&authdomain.User{},
			&authdomain.Session{},
			&plandomain.Plan{},
			&customerdomain.Customer{},
			&paymentdomain.QueuedPayment{},
			&paymentdomain.Payment{},
			&notificationdomain.Notification{},
			&ticketdomain.Ticket{},
			&ticketdomain.Reply{},
			&devicedomain.Device{},
			&securityeventdomain.Event{},
		)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("unwrap database handle: %w", err)
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}
