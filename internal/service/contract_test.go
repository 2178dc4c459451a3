package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/opsdesk/opsdesk-api/internal/data"
	"github.com/opsdesk/opsdesk-api/internal/domain/identity"
	"github.com/opsdesk/opsdesk-api/internal/domain/model"
	apperrors "github.com/opsdesk/opsdesk-api/internal/errors"
	"github.com/opsdesk/opsdesk-api/internal/mocks"
)

type contractFixture struct {
	svc       *ContractService
	contracts *mocks.MockContractRepository
	clients   *mocks.MockClientRepository
}

func newContractFixture(t *testing.T) *contractFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &contractFixture{
		contracts: mocks.NewMockContractRepository(ctrl),
		clients:   mocks.NewMockClientRepository(ctrl),
	}
	f.svc = NewContractService(ContractServiceOptions{Contracts: f.contracts, Clients: f.clients})
	return f
}

func validCreateContractRequest() *model.CreateContractRequest {
	return &model.CreateContractRequest{
		ClientID:    "c1",
		Title:       "Managed backups",
		AmountCents: 250_00,
		StartsOn:    time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestContractService_Create(t *testing.T) {
	f := newContractFixture(t)
	req := validCreateContractRequest()

	f.clients.EXPECT().FindByID(gomock.Any(), "c1", false).Return(identity.Client{ID: "c1"}, nil)
	f.contracts.EXPECT().Create(gomock.Any(), req).Return(model.Contract{ID: "k1", Status: model.ContractDraft}, nil)

	c, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, model.ContractDraft, c.Status)
}

func TestContractService_Create_UnknownClient(t *testing.T) {
	f := newContractFixture(t)

	f.clients.EXPECT().FindByID(gomock.Any(), "c1", false).Return(identity.Client{}, data.ErrClientNotFound)

	_, err := f.svc.Create(context.Background(), validCreateContractRequest())
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "client_id", apperrors.GetField(err))
}

func TestContractService_Create_Validation(t *testing.T) {
	f := newContractFixture(t)

	req := validCreateContractRequest()
	req.Title = "  "
	_, err := f.svc.Create(context.Background(), req)
	assert.Equal(t, "title", apperrors.GetField(err))

	req = validCreateContractRequest()
	req.AmountCents = -1
	_, err = f.svc.Create(context.Background(), req)
	assert.Equal(t, "amount_cents", apperrors.GetField(err))

	req = validCreateContractRequest()
	ends := req.StartsOn.Add(-24 * time.Hour)
	req.EndsOn = &ends
	_, err = f.svc.Create(context.Background(), req)
	assert.Equal(t, "ends_on", apperrors.GetField(err))
}

func TestContractService_Update(t *testing.T) {
	f := newContractFixture(t)

	status := model.ContractActive
	req := &model.UpdateContractRequest{Status: &status}
	f.contracts.EXPECT().Update(gomock.Any(), "k1", req).Return(model.Contract{ID: "k1", Status: status}, nil)

	c, err := f.svc.Update(context.Background(), "k1", req)
	require.NoError(t, err)
	assert.Equal(t, model.ContractActive, c.Status)
}

func TestContractService_Update_UnknownStatus(t *testing.T) {
	f := newContractFixture(t)

	bogus := model.ContractStatus("paused")
	_, err := f.svc.Update(context.Background(), "k1", &model.UpdateContractRequest{Status: &bogus})
	assert.True(t, apperrors.IsValidation(err))
}

func TestContractService_ListAndDelete(t *testing.T) {
	f := newContractFixture(t)

	f.contracts.EXPECT().List(gomock.Any(), "c1", 50, 0).Return([]model.Contract{{ID: "k1"}}, nil)
	out, err := f.svc.List(context.Background(), "c1", 50, 0)
	require.NoError(t, err)
	assert.Len(t, out, 1)

	f.contracts.EXPECT().Delete(gomock.Any(), "k1").Return(nil)
	require.NoError(t, f.svc.Delete(context.Background(), "k1"))
}
