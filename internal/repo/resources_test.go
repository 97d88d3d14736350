package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
	"github.com/DPR2204/atiexg-sub001/internal/repo"
	"github.com/DPR2204/atiexg-sub001/testutil"
)

func TestBoatRepo_CRUD(t *testing.T) {
	r := repo.NewBoatRepo(testutil.NewTx(t))
	ctx := context.Background()

	created, err := r.Create(ctx, domain.Boat{Name: "Lancha Azul", Capacity: 10, Status: domain.BoatActive})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = r.Create(ctx, domain.Boat{Name: "Lancha Roja", Capacity: 8, Status: domain.BoatMaintenance})
	require.NoError(t, err)

	active, err := r.List(ctx, domain.BoatActive)
	require.NoError(t, err)
	for _, b := range active {
		assert.Equal(t, domain.BoatActive, b.Status)
	}

	created.Capacity = 14
	updated, err := r.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, 14, updated.Capacity)

	require.NoError(t, r.Delete(ctx, created.ID))
	_, err = r.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, created.ID), domain.ErrNotFound)
}

func TestStaffRepo_ListByRole(t *testing.T) {
	r := repo.NewStaffRepo(testutil.NewTx(t))
	ctx := context.Background()

	driver, err := r.Create(ctx, domain.Staff{Name: "Pedro", Role: domain.RoleDriver, Active: true})
	require.NoError(t, err)
	_, err = r.Create(ctx, domain.Staff{Name: "Rosa", Role: domain.RoleGuide, Active: true})
	require.NoError(t, err)

	require.NoError(t, r.SetActive(ctx, driver.ID, false))

	drivers, err := r.List(ctx, repo.StaffFilter{Role: domain.RoleDriver, ActiveOnly: true})
	require.NoError(t, err)
	for _, s := range drivers {
		assert.Equal(t, domain.RoleDriver, s.Role)
		assert.NotEqual(t, driver.ID, s.ID, "deactivated driver must be filtered out")
	}

	got, err := r.GetByID(ctx, driver.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	assert.ErrorIs(t, r.SetActive(ctx, 999999999, true), domain.ErrNotFound)
}

func TestSupplierRepo_ListPaged(t *testing.T) {
	r := repo.NewSupplierRepo(testutil.NewTx(t))
	ctx := context.Background()

	for _, name := range []string{"Casa Cakchiquel", "Restaurante El Muelle", "Posada Santiago"} {
		_, err := r.Create(ctx, domain.Supplier{Name: name, Category: domain.SupplierRestaurant, Active: true})
		require.NoError(t, err)
	}

	limit := 2
	page, total, err := r.ListPaged(ctx, repo.SupplierFilter{Category: domain.SupplierRestaurant},
		domain.NewPaginationParams(nil, &limit))

	require.NoError(t, err)
	assert.Len(t, page, 2)
	assert.GreaterOrEqual(t, total, int64(3))
}

func TestDailyNoteRepo_Upsert(t *testing.T) {
	r := repo.NewDailyNoteRepo(testutil.NewTx(t))
	ctx := context.Background()

	_, err := r.Get(ctx, june1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = r.Upsert(ctx, domain.DailyNote{Date: june1, Content: "Viento fuerte", UpdatedBy: "Ana"})
	require.NoError(t, err)
	second, err := r.Upsert(ctx, domain.DailyNote{Date: june1, Content: "Viento fuerte por la tarde", UpdatedBy: "Luis"})
	require.NoError(t, err)
	assert.Equal(t, "Luis", second.UpdatedBy)

	got, err := r.Get(ctx, june1)
	require.NoError(t, err)
	assert.Equal(t, "Viento fuerte por la tarde", got.Content)
	assert.True(t, got.Date.Equal(june1))
}

func TestAuditRepo_InsertAndList(t *testing.T) {
	r := repo.NewAuditRepo(testutil.NewTx(t))
	ctx := context.Background()
	agent := uuid.New()

	require.NoError(t, r.InsertBatch(ctx, nil))

	err := r.InsertBatch(ctx, []domain.AuditLogEntry{
		{ReservationID: 42, AgentID: agent, AgentName: "Ana", Action: domain.ActionStatusChanged,
			FieldChanged: "status", OldValue: "reserved", NewValue: "paid"},
		{ReservationID: 42, AgentID: agent, AgentName: "Ana", Action: domain.ActionUpdated,
			FieldChanged: "pax_count", OldValue: "4", NewValue: "6"},
	})
	require.NoError(t, err)

	entries, total, err := r.ListByReservation(ctx, 42, domain.NewPaginationParams(nil, nil))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, entries, 2)
	fields := []string{entries[0].FieldChanged, entries[1].FieldChanged}
	assert.ElementsMatch(t, []string{"status", "pax_count"}, fields)
}
