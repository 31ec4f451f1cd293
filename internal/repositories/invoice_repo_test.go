package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"

	ierr "invoicedash/internal/errors"
	"invoicedash/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type InvoiceRepoTestSuite struct {
	suite.Suite
	mock       pgxmock.PgxPoolIface
	repo       InvoiceRepository
	invoiceID  string
	customerID string
	context    context.Context
}

func (suite *InvoiceRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewInvoiceRepo(mock)
	suite.invoiceID = uuid.NewString()
	suite.customerID = uuid.NewString()
	suite.context = context.Background()
}

func (suite *InvoiceRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestInvoiceRepoTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceRepoTestSuite))
}

const (
	insertInvoiceSQL = `INSERT INTO invoices (id, customer_id, amount, status, date)`
	updateInvoiceSQL = `UPDATE invoices`
	deleteInvoiceSQL = `DELETE FROM invoices WHERE id = $1`
	selectInvoiceSQL = `SELECT id, customer_id, amount, status, to_char(date, 'YYYY-MM-DD')`
)

func (suite *InvoiceRepoTestSuite) TestCreate_Success() {
	invoice := &models.Invoice{
		ID:         suite.invoiceID,
		CustomerID: suite.customerID,
		Amount:     15620,
		Status:     models.InvoiceStatusPending,
		Date:       "2026-10-19",
	}

	suite.mock.ExpectExec(regexp.QuoteMeta(insertInvoiceSQL)).
		WithArgs(invoice.ID, invoice.CustomerID, int64(15620), "pending", "2026-10-19").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, invoice)
	assert.NoError(suite.T(), err)
}

func (suite *InvoiceRepoTestSuite) TestCreate_DatabaseError() {
	invoice := &models.Invoice{
		ID:         suite.invoiceID,
		CustomerID: suite.customerID,
		Amount:     100,
		Status:     models.InvoiceStatusPaid,
		Date:       "2026-10-19",
	}

	suite.mock.ExpectExec(regexp.QuoteMeta(insertInvoiceSQL)).
		WithArgs(invoice.ID, invoice.CustomerID, int64(100), "paid", "2026-10-19").
		WillReturnError(errors.New("database connection failed"))

	err := suite.repo.Create(suite.context, invoice)
	assert.Error(suite.T(), err)
	assert.True(suite.T(), ierr.IsDatabase(err))
	assert.Contains(suite.T(), err.Error(), "database connection failed")
}

func (suite *InvoiceRepoTestSuite) TestUpdate_UsesIDVerbatimAsKey() {
	invoice := &models.Invoice{
		ID:         "not-a-uuid",
		CustomerID: suite.customerID,
		Amount:     4200,
		Status:     models.InvoiceStatusPaid,
	}

	suite.mock.ExpectExec(regexp.QuoteMeta(updateInvoiceSQL)).
		WithArgs(invoice.CustomerID, int64(4200), "paid", "not-a-uuid").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.Update(suite.context, invoice)
	assert.NoError(suite.T(), err)
}

func (suite *InvoiceRepoTestSuite) TestUpdate_DatabaseError() {
	invoice := &models.Invoice{ID: suite.invoiceID, CustomerID: suite.customerID, Amount: 1, Status: models.InvoiceStatusPending}

	suite.mock.ExpectExec(regexp.QuoteMeta(updateInvoiceSQL)).
		WithArgs(invoice.CustomerID, int64(1), "pending", invoice.ID).
		WillReturnError(errors.New("deadlock detected"))

	err := suite.repo.Update(suite.context, invoice)
	assert.True(suite.T(), ierr.IsDatabase(err))
}

func (suite *InvoiceRepoTestSuite) TestDelete_Success() {
	suite.mock.ExpectExec(regexp.QuoteMeta(deleteInvoiceSQL)).
		WithArgs(suite.invoiceID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.context, suite.invoiceID)
	assert.NoError(suite.T(), err)
}

func (suite *InvoiceRepoTestSuite) TestDelete_MissingRowIsNotAnError() {
	suite.mock.ExpectExec(regexp.QuoteMeta(deleteInvoiceSQL)).
		WithArgs(suite.invoiceID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := suite.repo.Delete(suite.context, suite.invoiceID)
	assert.NoError(suite.T(), err)
}

func (suite *InvoiceRepoTestSuite) TestDelete_DatabaseError() {
	suite.mock.ExpectExec(regexp.QuoteMeta(deleteInvoiceSQL)).
		WithArgs(suite.invoiceID).
		WillReturnError(errors.New("connection reset"))

	err := suite.repo.Delete(suite.context, suite.invoiceID)
	assert.True(suite.T(), ierr.IsDatabase(err))
}

func (suite *InvoiceRepoTestSuite) TestGetByID_Success() {
	rows := pgxmock.NewRows([]string{"id", "customer_id", "amount", "status", "date"}).
		AddRow(suite.invoiceID, suite.customerID, int64(666), "paid", "2026-10-01")

	suite.mock.ExpectQuery(regexp.QuoteMeta(selectInvoiceSQL)).
		WithArgs(suite.invoiceID).
		WillReturnRows(rows)

	invoice, err := suite.repo.GetByID(suite.context, suite.invoiceID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), &models.Invoice{
		ID:         suite.invoiceID,
		CustomerID: suite.customerID,
		Amount:     666,
		Status:     models.InvoiceStatusPaid,
		Date:       "2026-10-01",
	}, invoice)
}

func (suite *InvoiceRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(selectInvoiceSQL)).
		WithArgs(suite.invoiceID).
		WillReturnError(pgx.ErrNoRows)

	invoice, err := suite.repo.GetByID(suite.context, suite.invoiceID)
	assert.Nil(suite.T(), invoice)
	assert.True(suite.T(), ierr.IsNotFound(err))
}

func (suite *InvoiceRepoTestSuite) TestList_Success() {
	rows := pgxmock.NewRows([]string{"id", "customer_id", "amount", "status", "date"}).
		AddRow("inv-2", suite.customerID, int64(200), "pending", "2026-10-02").
		AddRow("inv-1", suite.customerID, int64(100), "paid", "2026-10-01")

	suite.mock.ExpectQuery(regexp.QuoteMeta(selectInvoiceSQL)).
		WithArgs("paid", 6, 12).
		WillReturnRows(rows)

	invoices, err := suite.repo.List(suite.context, models.InvoiceFilter{Query: "paid", Limit: 6, Offset: 12})
	require.NoError(suite.T(), err)
	require.Len(suite.T(), invoices, 2)
	assert.Equal(suite.T(), "inv-2", invoices[0].ID)
	assert.Equal(suite.T(), models.InvoiceStatusPending, invoices[0].Status)
	assert.Equal(suite.T(), int64(100), invoices[1].Amount)
}

func (suite *InvoiceRepoTestSuite) TestList_Empty() {
	rows := pgxmock.NewRows([]string{"id", "customer_id", "amount", "status", "date"})

	suite.mock.ExpectQuery(regexp.QuoteMeta(selectInvoiceSQL)).
		WithArgs("", 6, 0).
		WillReturnRows(rows)

	invoices, err := suite.repo.List(suite.context, models.InvoiceFilter{Limit: 6})
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), invoices)
	assert.NotNil(suite.T(), invoices)
}

func (suite *InvoiceRepoTestSuite) TestList_QueryError() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(selectInvoiceSQL)).
		WithArgs("", 6, 0).
		WillReturnError(errors.New("timeout"))

	invoices, err := suite.repo.List(suite.context, models.InvoiceFilter{Limit: 6})
	assert.Nil(suite.T(), invoices)
	assert.True(suite.T(), ierr.IsDatabase(err))
}
