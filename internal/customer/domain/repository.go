package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/upeonet/mtandao/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	Update(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Customer, error)
	// FindByPhone performs a single-row fetch by exact phone equality.
	// Zero rows and multiple rows both surface as nil (not found).
	FindByPhone(ctx context.Context, db *gorm.DB, phone string) (*Customer, error)
	List(ctx context.Context, db *gorm.DB, filter ListCustomerFilter, page pagination.Pagination) ([]*Customer, error)
	CountByStatus(ctx context.Context, db *gorm.DB) (map[string]int64, error)
}
