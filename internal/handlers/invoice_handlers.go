package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"invoicedash/internal/caching"
	"invoicedash/internal/common"
	ierr "invoicedash/internal/errors"
	"invoicedash/internal/logger"
	"invoicedash/internal/models"
	"invoicedash/internal/services"

	"github.com/labstack/echo/v4"
)

// ItemsPerPage is the size of one page of the invoice list
const ItemsPerPage = 6

// InvoiceHandlers handles HTTP requests for invoices
type InvoiceHandlers struct {
	invoiceService services.InvoiceService
	cacheSvc       caching.CacheService
	pageTTL        time.Duration
	log            *logger.Logger
}

// NewInvoiceHandlers creates a new invoice handlers instance
func NewInvoiceHandlers(invoiceService services.InvoiceService, cacheSvc caching.CacheService, pageTTL time.Duration, log *logger.Logger) *InvoiceHandlers {
	return &InvoiceHandlers{
		invoiceService: invoiceService,
		cacheSvc:       cacheSvc,
		pageTTL:        pageTTL,
		log:            log,
	}
}

// InvoiceListResponse is the invoices page payload
type InvoiceListResponse struct {
	Invoices []*models.Invoice `json:"invoices"`
	Query    string            `json:"query"`
	Page     int               `json:"page"`
}

// CreateInvoice handles POST /dashboard/invoices
func (h *InvoiceHandlers) CreateInvoice(c echo.Context) error {
	form, err := c.FormParams()
	if err != nil {
		return ierr.WithError(err).WithHint("Invalid form submission.").Mark(ierr.ErrValidation)
	}

	outcome, err := h.invoiceService.CreateInvoice(c.Request().Context(), models.ActionState{}, form)
	if err != nil {
		return err
	}
	return renderOutcome(c, outcome)
}

// UpdateInvoice handles POST and PUT /dashboard/invoices/:id
func (h *InvoiceHandlers) UpdateInvoice(c echo.Context) error {
	form, err := c.FormParams()
	if err != nil {
		return ierr.WithError(err).WithHint("Invalid form submission.").Mark(ierr.ErrValidation)
	}

	outcome := h.invoiceService.UpdateInvoice(c.Request().Context(), c.Param("id"), form)
	return renderOutcome(c, outcome)
}

// DeleteInvoice handles POST /dashboard/invoices/:id/delete and DELETE /dashboard/invoices/:id
func (h *InvoiceHandlers) DeleteInvoice(c echo.Context) error {
	result, err := h.invoiceService.DeleteInvoice(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// GetInvoice handles GET /dashboard/invoices/:id
func (h *InvoiceHandlers) GetInvoice(c echo.Context) error {
	invoice, err := h.invoiceService.GetInvoice(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoice)
}

// ListInvoices handles GET /dashboard/invoices. Responses are cached per query string until an
// invoice mutation revalidates the page. The page version is read before the query so a
// response built from rows older than a concurrent revalidation is never served again.
func (h *InvoiceHandlers) ListInvoices(c echo.Context) error {
	ctx := c.Request().Context()
	variant := c.Request().URL.RawQuery

	version, err := h.cacheSvc.PageVersion(ctx, services.InvoicesPath)
	cacheable := err == nil
	if !cacheable {
		h.log.Warnw("failed to read invoices page version", "error", err)
	}

	if cacheable {
		cached, err := h.cacheSvc.GetPage(ctx, services.InvoicesPath, version, variant)
		if err != nil {
			h.log.Warnw("failed to read cached invoices page", "variant", variant, "error", err)
		}
		if cached != nil {
			c.Response().Header().Set("X-Cache", "HIT")
			return c.JSONBlob(http.StatusOK, cached)
		}
	}

	query := c.QueryParam("query")
	page := common.ParsePage(c)
	invoices, err := h.invoiceService.ListInvoices(ctx, models.InvoiceFilter{
		Query:  query,
		Limit:  ItemsPerPage,
		Offset: (page - 1) * ItemsPerPage,
	})
	if err != nil {
		return err
	}

	body, err := json.Marshal(InvoiceListResponse{Invoices: invoices, Query: query, Page: page})
	if err != nil {
		return ierr.WithError(err).WithMessage("encode invoices page").Mark(ierr.ErrSystem)
	}
	if cacheable {
		if err := h.cacheSvc.SetPage(ctx, services.InvoicesPath, version, variant, body, h.pageTTL); err != nil {
			h.log.Warnw("failed to cache invoices page", "variant", variant, "error", err)
		}
	}

	c.Response().Header().Set("X-Cache", "MISS")
	return c.JSONBlob(http.StatusOK, body)
}

// renderOutcome writes a form action's outcome: Navigate as 303 See Other, a rejected form as
// 422 with its field errors, and a result as 200 or 422 by its type.
func renderOutcome(c echo.Context, outcome services.Outcome) error {
	switch outcome.Kind {
	case services.OutcomeNavigate:
		return c.Redirect(http.StatusSeeOther, outcome.Location)
	case services.OutcomeRerender:
		return c.JSON(http.StatusUnprocessableEntity, outcome.State)
	default:
		status := http.StatusOK
		if outcome.Result.Type == models.ActionResultError {
			status = http.StatusUnprocessableEntity
		}
		return c.JSON(status, outcome.Result)
	}
}
