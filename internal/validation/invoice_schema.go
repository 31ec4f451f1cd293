package validation

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	ierr "invoicedash/internal/errors"
	"invoicedash/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Form field names shared by the create and edit invoice forms
const (
	FieldCustomerID = "customerId"
	FieldAmount     = "amount"
	FieldStatus     = "status"
)

const (
	msgSelectCustomer = "Please select a customer."
	msgAmountPositive = "Please enter an amount greater than $0."
	msgAmountNumber   = "Please enter a valid number for the amount."
	msgSelectStatus   = "Please select an invoice status."
	msgAmountTooLarge = "Please enter a smaller amount."
)

// invoiceForm is the raw create/edit payload. It has no id or date:
// the id is assigned server side and the date is always generated on create.
type invoiceForm struct {
	CustomerID string          `form:"customerId" validate:"required"`
	Amount     decimal.Decimal `form:"amount" validate:"gt=0"`
	Status     string          `form:"status" validate:"required"`
}

// Result is the outcome of SafeParse: Data when Success, FieldErrors otherwise
type Result struct {
	Success     bool
	Data        models.InvoiceInput
	FieldErrors models.FieldErrors
}

// InvalidFormError carries the field errors of a failed Parse
type InvalidFormError struct {
	Fields models.FieldErrors
}

func (e *InvalidFormError) Error() string {
	fields := lo.Keys(e.Fields)
	sort.Strings(fields)
	return fmt.Sprintf("invalid invoice form: %s", strings.Join(fields, ", "))
}

// InvoiceSchema validates and coerces invoice form submissions
type InvoiceSchema struct {
	validate   *validator.Validate
	statusRule string
}

// NewInvoiceSchema creates the invoice form schema
func NewInvoiceSchema() *InvoiceSchema {
	statuses := lo.Map(models.InvoiceStatuses, func(s models.InvoiceStatus, _ int) string {
		return string(s)
	})
	return &InvoiceSchema{
		validate:   New(),
		statusRule: "oneof=" + strings.Join(statuses, " "),
	}
}

// SafeParse validates form without failing: errors come back as field errors
func (s *InvoiceSchema) SafeParse(form url.Values) Result {
	in, fieldErrs := s.parse(form)
	if len(fieldErrs) > 0 {
		return Result{Success: false, FieldErrors: fieldErrs}
	}
	return Result{Success: true, Data: in}
}

// Parse validates form and returns an error marked ErrValidation on any mismatch
func (s *InvoiceSchema) Parse(form url.Values) (models.InvoiceInput, error) {
	in, fieldErrs := s.parse(form)
	if len(fieldErrs) > 0 {
		return models.InvoiceInput{}, ierr.WithError(&InvalidFormError{Fields: fieldErrs}).
			WithHint("Invoice form validation failed").
			Mark(ierr.ErrValidation)
	}
	return in, nil
}

func (s *InvoiceSchema) parse(form url.Values) (models.InvoiceInput, models.FieldErrors) {
	fieldErrs := models.FieldErrors{}

	raw := invoiceForm{
		CustomerID: form.Get(FieldCustomerID),
		Status:     form.Get(FieldStatus),
	}

	// A blank amount coerces to zero and is then rejected by gt=0.
	amount := strings.TrimSpace(form.Get(FieldAmount))
	if amount == "" {
		raw.Amount = decimal.Zero
	} else if d, err := decimal.NewFromString(amount); err != nil {
		fieldErrs[FieldAmount] = append(fieldErrs[FieldAmount], msgAmountNumber)
	} else if cents, ok := models.CentsOf(d); !ok {
		fieldErrs[FieldAmount] = append(fieldErrs[FieldAmount], msgAmountTooLarge)
	} else if d.IsPositive() && cents == 0 {
		// rounds to $0.00
		fieldErrs[FieldAmount] = append(fieldErrs[FieldAmount], msgAmountPositive)
	} else {
		raw.Amount = d
	}

	if err := s.validate.Struct(raw); err != nil {
		var validationErrs validator.ValidationErrors
		if !ierr.As(err, &validationErrs) {
			fieldErrs[FieldAmount] = append(fieldErrs[FieldAmount], err.Error())
			return models.InvoiceInput{}, fieldErrs
		}
		for _, fe := range validationErrs {
			field := fe.Field()
			// a coercion failure already explains the field
			if field == FieldAmount && len(fieldErrs[FieldAmount]) > 0 {
				continue
			}
			fieldErrs[field] = append(fieldErrs[field], messageFor(field))
		}
	}
	if raw.Status != "" && s.validate.Var(raw.Status, s.statusRule) != nil {
		fieldErrs[FieldStatus] = append(fieldErrs[FieldStatus], msgSelectStatus)
	}

	if len(fieldErrs) > 0 {
		return models.InvoiceInput{}, fieldErrs
	}

	return models.InvoiceInput{
		CustomerID: raw.CustomerID,
		Amount:     raw.Amount,
		Status:     models.InvoiceStatus(raw.Status),
	}, nil
}

func messageFor(field string) string {
	switch field {
	case FieldCustomerID:
		return msgSelectCustomer
	case FieldAmount:
		return msgAmountPositive
	case FieldStatus:
		return msgSelectStatus
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
