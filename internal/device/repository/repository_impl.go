package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/upeonet/mtandao/internal/device/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, device *domain.Device) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO devices (id, name, kind, ip_address, location, status, last_seen_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		device.ID,
		device.Name,
		device.Kind,
		device.IPAddress,
		device.Location,
		device.Status,
		device.LastSeenAt,
		device.CreatedAt,
		device.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, device *domain.Device) error {
	return db.WithContext(ctx).Exec(
		`UPDATE devices
		 SET name = ?, kind = ?, ip_address = ?, location = ?, status = ?, last_seen_at = ?, updated_at = ?
		 WHERE id = ?`,
		device.Name,
		device.Kind,
		device.IPAddress,
		device.Location,
		device.Status,
		device.LastSeenAt,
		device.UpdatedAt,
		device.ID,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Device, error) {
	var device domain.Device
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, kind, ip_address, location, status, last_seen_at, created_at, updated_at
		 FROM devices WHERE id = ?`,
		id,
	).Scan(&device).Error
	if err != nil {
		return nil, err
	}
	if device.ID == 0 {
		return nil, nil
	}
	return &device, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, status string) ([]domain.Device, error) {
	var devices []domain.Device
	stmt := db.WithContext(ctx).Model(&domain.Device{})
	if status != "" {
		stmt = stmt.Where("status = ?", status)
	}
	err := stmt.Order("name asc, id asc").Find(&devices).Error
	if err != nil {
		return nil, err
	}
	return devices, nil
}

func (r *repo) CountByStatus(ctx context.Context, db *gorm.DB) (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := db.WithContext(ctx).Raw(
		`SELECT status, COUNT(*) AS total FROM devices GROUP BY status`,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
