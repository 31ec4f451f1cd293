package services

import (
	"context"
	"net/url"
	"time"

	"invoicedash/internal/caching"
	ierr "invoicedash/internal/errors"
	"invoicedash/internal/logger"
	"invoicedash/internal/models"
	"invoicedash/internal/repositories"
	"invoicedash/internal/validation"

	"github.com/google/uuid"
)

// InvoicesPath is the invoice list page every mutation invalidates and navigates to
const InvoicesPath = "/dashboard/invoices"

const dateLayout = "2006-01-02"

const (
	msgMissingFields = "Missing Fields. Failed to create invoice."
	msgCreateFailed  = "Fail on create invoice."
	msgUpdateFailed  = "Fail on update invoice."
	msgDeleteFailed  = "Database Error: Fail on delete invoice."
	msgDeleted       = "Invoice deleted."
)

// ValidationPolicy decides how an action treats a form that fails the schema
type ValidationPolicy int

const (
	// ReportFieldErrors returns the field errors to the form (create)
	ReportFieldErrors ValidationPolicy = iota
	// FailOnInvalid treats a schema mismatch like any other failure of the action (update)
	FailOnInvalid
)

// InvoiceService implements the invoice form actions
type InvoiceService interface {
	// CreateInvoice returns a Rerender outcome for invalid forms and an error when persisting fails
	CreateInvoice(ctx context.Context, prevState models.ActionState, form url.Values) (Outcome, error)
	// UpdateInvoice never fails: every failure is reported as an Error result
	UpdateInvoice(ctx context.Context, id string, form url.Values) Outcome
	// DeleteInvoice returns a Success result or an error
	DeleteInvoice(ctx context.Context, id string) (models.ActionResult, error)

	GetInvoice(ctx context.Context, id string) (*models.Invoice, error)
	ListInvoices(ctx context.Context, filter models.InvoiceFilter) ([]*models.Invoice, error)
}

type invoiceService struct {
	invoiceRepo repositories.InvoiceRepository
	cacheSvc    caching.CacheService
	schema      *validation.InvoiceSchema
	log         *logger.Logger

	createPolicy ValidationPolicy
	updatePolicy ValidationPolicy

	now   func() time.Time
	newID func() string
}

// InvoiceServiceOption configures invoiceService
type InvoiceServiceOption func(*invoiceService)

// WithClock overrides the clock used for invoice dates
func WithClock(now func() time.Time) InvoiceServiceOption {
	return func(s *invoiceService) { s.now = now }
}

// WithIDGenerator overrides how new invoice ids are generated
func WithIDGenerator(newID func() string) InvoiceServiceOption {
	return func(s *invoiceService) { s.newID = newID }
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(invoiceRepo repositories.InvoiceRepository, cacheSvc caching.CacheService, schema *validation.InvoiceSchema, log *logger.Logger, opts ...InvoiceServiceOption) InvoiceService {
	s := &invoiceService{
		invoiceRepo:  invoiceRepo,
		cacheSvc:     cacheSvc,
		schema:       schema,
		log:          log,
		createPolicy: ReportFieldErrors,
		updatePolicy: FailOnInvalid,
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *invoiceService) CreateInvoice(ctx context.Context, _ models.ActionState, form url.Values) (Outcome, error) {
	in, rejected, err := s.validate(s.createPolicy, form)
	if rejected != nil {
		s.log.Infow("invoice form rejected", "errors", rejected.Errors)
		return Rerender(*rejected), nil
	}
	if err != nil {
		s.log.Errorw("failed to create invoice", "error", err)
		return Outcome{}, ierr.NewError(msgCreateFailed).WithHint(msgCreateFailed).Mark(ierr.ErrValidation)
	}

	in.Date = s.now().UTC().Format(dateLayout)
	invoice := &models.Invoice{
		ID:         s.newID(),
		CustomerID: in.CustomerID,
		Amount:     in.AmountInCents(),
		Status:     in.Status,
		Date:       in.Date,
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		s.log.Errorw("failed to create invoice", "error", err)
		return Outcome{}, ierr.NewError(msgCreateFailed).WithHint(msgCreateFailed).Mark(ierr.ErrDatabase)
	}

	if err := s.cacheSvc.RevalidatePath(ctx, InvoicesPath); err != nil {
		s.log.Errorw("failed to revalidate invoices page", "path", InvoicesPath, "error", err)
		return Outcome{}, ierr.WithError(err).WithHint(msgCreateFailed).Mark(ierr.ErrCache)
	}

	s.log.Infow("invoice created", "invoice_id", invoice.ID, "customer_id", invoice.CustomerID)
	return Navigate(InvoicesPath), nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, id string, form url.Values) Outcome {
	if err := s.updateInvoice(ctx, id, form); err != nil {
		s.log.Errorw("failed to update invoice", "invoice_id", id, "error", err)
		return Respond(models.ActionResult{Type: models.ActionResultError, Message: msgUpdateFailed})
	}
	return Navigate(InvoicesPath)
}

func (s *invoiceService) updateInvoice(ctx context.Context, id string, form url.Values) error {
	in, rejected, err := s.validate(s.updatePolicy, form)
	if rejected != nil {
		return ierr.NewError(rejected.Message).Mark(ierr.ErrValidation)
	}
	if err != nil {
		return err
	}

	invoice := &models.Invoice{
		ID:         id,
		CustomerID: in.CustomerID,
		Amount:     in.AmountInCents(),
		Status:     in.Status,
	}
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return err
	}

	if err := s.cacheSvc.RevalidatePath(ctx, InvoicesPath); err != nil {
		return ierr.WithError(err).WithMessage("revalidate invoices page").Mark(ierr.ErrCache)
	}

	s.log.Infow("invoice updated", "invoice_id", id)
	return nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id string) (models.ActionResult, error) {
	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		s.log.Errorw("failed to delete invoice", "invoice_id", id, "error", err)
		return models.ActionResult{}, ierr.NewError(msgDeleteFailed).WithHint(msgDeleteFailed).Mark(ierr.ErrDatabase)
	}

	if err := s.cacheSvc.RevalidatePath(ctx, InvoicesPath); err != nil {
		s.log.Errorw("failed to revalidate invoices page", "path", InvoicesPath, "error", err)
		return models.ActionResult{}, ierr.WithError(err).WithHint(msgDeleteFailed).Mark(ierr.ErrCache)
	}

	s.log.Infow("invoice deleted", "invoice_id", id)
	return models.ActionResult{Type: models.ActionResultSuccess, Message: msgDeleted}, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, id)
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter models.InvoiceFilter) ([]*models.Invoice, error) {
	return s.invoiceRepo.List(ctx, filter)
}

// validate applies policy to form. Under ReportFieldErrors a failing form yields a
// non-nil state and no error; under FailOnInvalid it yields an error.
func (s *invoiceService) validate(policy ValidationPolicy, form url.Values) (models.InvoiceInput, *models.ActionState, error) {
	switch policy {
	case ReportFieldErrors:
		result := s.schema.SafeParse(form)
		if !result.Success {
			return models.InvoiceInput{}, &models.ActionState{Errors: result.FieldErrors, Message: msgMissingFields}, nil
		}
		return result.Data, nil, nil
	default:
		in, err := s.schema.Parse(form)
		return in, nil, err
	}
}
