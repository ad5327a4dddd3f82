package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upeonet/mtandao/internal/device/domain"
	"github.com/upeonet/mtandao/internal/device/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDeviceService(t *testing.T, dsn string) (domain.Service, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Device{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})

	return svc, node
}

func TestRegisterDevice(t *testing.T) {
	svc, _ := setupDeviceService(t, "file:device_register?mode=memory&cache=shared")
	ctx := context.Background()

	device, err := svc.Register(ctx, domain.RegisterRequest{
		Name:      "core-router-1",
		Kind:      "router",
		IPAddress: "10.0.0.1",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOffline, device.Status)
	assert.Nil(t, device.LastSeenAt)

	_, err = svc.Register(ctx, domain.RegisterRequest{Kind: "router"})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Register(ctx, domain.RegisterRequest{Name: "unlabelled"})
	assert.ErrorIs(t, err, domain.ErrInvalidKind)
}

func TestUpdateStatusAndHeartbeat(t *testing.T) {
	svc, node := setupDeviceService(t, "file:device_status?mode=memory&cache=shared")
	ctx := context.Background()

	device, err := svc.Register(ctx, domain.RegisterRequest{
		Name: "ap-estate-3",
		Kind: "access_point",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, domain.UpdateStatusRequest{
		DeviceID: device.ID.String(),
		Status:   domain.StatusDegraded,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDegraded, updated.Status)
	require.NotNil(t, updated.LastSeenAt)

	_, err = svc.UpdateStatus(ctx, domain.UpdateStatusRequest{
		DeviceID: device.ID.String(),
		Status:   "rebooting",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	beat, err := svc.Heartbeat(ctx, device.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOnline, beat.Status)

	online, err := svc.List(ctx, domain.StatusOnline)
	require.NoError(t, err)
	assert.Len(t, online, 1)

	_, err = svc.List(ctx, "powered_off")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = svc.GetByID(ctx, node.Generate().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	counts, err := svc.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[domain.StatusOnline])
}
