package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/opsdesk-api/internal/domain/menu"
	apperrors "github.com/opsdesk/opsdesk-api/internal/errors"
	mocks "github.com/opsdesk/opsdesk-api/internal/mocks/auth"
)

func newMenuPermissionFixture(t *testing.T) (*MenuPermissionService, *mocks.MemoryMenuPermissionStore) {
	t.Helper()
	store := mocks.NewMemoryMenuPermissionStore()
	svc := NewMenuPermissionService(MenuPermissionServiceOptions{
		Permissions: store,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return svc, store
}

func TestMenuPermissionService_Lists(t *testing.T) {
	svc, store := newMenuPermissionFixture(t)
	store.Grant("e1", "client-directory")
	store.Grant("e1", "contract-list")
	store.Grant("e2", "client-directory")

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byKey, err := svc.ListByMenuKey(context.Background(), "client-directory")
	require.NoError(t, err)
	assert.Len(t, byKey, 2)

	byEmp, err := svc.ListByEmployee(context.Background(), "e1")
	require.NoError(t, err)
	assert.Len(t, byEmp, 2)
}

func TestMenuPermissionService_ListValidation(t *testing.T) {
	svc, _ := newMenuPermissionFixture(t)

	_, err := svc.ListByMenuKey(context.Background(), "  ")
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.ListByEmployee(context.Background(), "")
	assert.True(t, apperrors.IsValidation(err))
}

func TestMenuPermissionService_BulkUpsert(t *testing.T) {
	svc, store := newMenuPermissionFixture(t)

	res, err := svc.BulkUpsert(context.Background(), []menu.Permission{
		{MenuKey: "client-directory", EmployeeID: "e1", Allowed: true},
		{MenuKey: "contract-list", EmployeeID: "e1", Allowed: true},
		{MenuKey: "client-directory", EmployeeID: "e2", Allowed: false},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Applied)
	assert.Empty(t, res.Failed)
	assert.Len(t, store.Grants, 3)
}

func TestMenuPermissionService_BulkUpsert_ValidatesAllRowsFirst(t *testing.T) {
	svc, store := newMenuPermissionFixture(t)

	_, err := svc.BulkUpsert(context.Background(), []menu.Permission{
		{MenuKey: "client-directory", EmployeeID: "e1", Allowed: true},
		{MenuKey: "", EmployeeID: "e1", Allowed: true},
	})
	assert.True(t, apperrors.IsValidation(err))
	// Nothing is written when validation rejects the batch.
	assert.Empty(t, store.Grants)
}

func TestMenuPermissionService_BulkUpsert_PartialFailure(t *testing.T) {
	svc, store := newMenuPermissionFixture(t)
	store.UpsertErr = errors.New("deadlock detected")

	res, err := svc.BulkUpsert(context.Background(), []menu.Permission{
		{MenuKey: "client-directory", EmployeeID: "e1", Allowed: true},
		{MenuKey: "contract-list", EmployeeID: "e2", Allowed: true},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Applied)
	assert.Equal(t, []string{"client-directory/e1", "contract-list/e2"}, res.Failed)
}

func TestMenuPermissionService_BulkUpsert_Empty(t *testing.T) {
	svc, _ := newMenuPermissionFixture(t)

	res, err := svc.BulkUpsert(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Applied)
	assert.Empty(t, res.Failed)
}
