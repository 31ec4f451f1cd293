package handlers

import (
	"context"
	"net/url"

	"invoicedash/internal/models"
	"invoicedash/internal/services"

	"github.com/stretchr/testify/mock"
)

type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) CreateInvoice(ctx context.Context, prevState models.ActionState, form url.Values) (services.Outcome, error) {
	args := m.Called(ctx, prevState, form)
	return args.Get(0).(services.Outcome), args.Error(1)
}

func (m *MockInvoiceService) UpdateInvoice(ctx context.Context, id string, form url.Values) services.Outcome {
	args := m.Called(ctx, id, form)
	return args.Get(0).(services.Outcome)
}

func (m *MockInvoiceService) DeleteInvoice(ctx context.Context, id string) (models.ActionResult, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.ActionResult), args.Error(1)
}

func (m *MockInvoiceService) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceService) ListInvoices(ctx context.Context, filter models.InvoiceFilter) ([]*models.Invoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Authenticate(ctx context.Context, prevState string, form url.Values) (string, *models.Session, error) {
	args := m.Called(ctx, prevState, form)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*models.Session), args.Error(2)
}

func (m *MockAuthService) SignOut(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
