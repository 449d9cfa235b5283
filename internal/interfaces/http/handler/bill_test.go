package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	billingapp "github.com/fundbilling/backend/internal/application/billing"
	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/fundbilling/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBillService struct {
	mock.Mock
}

func (m *mockBillService) GetByID(ctx context.Context, billID uuid.UUID) (*billingapp.BillResponse, error) {
	args := m.Called(ctx, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingapp.BillResponse), args.Error(1)
}

func (m *mockBillService) List(ctx context.Context, filter billingapp.BillListFilter) ([]billingapp.BillResponse, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]billingapp.BillResponse), args.Get(1).(int64), args.Error(2)
}

func (m *mockBillService) UpdateStatus(ctx context.Context, billID uuid.UUID, req billingapp.UpdateBillStatusRequest) (*billingapp.BillResponse, error) {
	args := m.Called(ctx, billID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingapp.BillResponse), args.Error(1)
}

func (m *mockBillService) Delete(ctx context.Context, billID uuid.UUID) error {
	return m.Called(ctx, billID).Error(0)
}

type mockSweeper struct {
	mock.Mock
}

func (m *mockSweeper) SweepNow(ctx context.Context) (*billingapp.SweepResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingapp.SweepResult), args.Error(1)
}

func billRouter(svc BillService, sweeper OverdueSweeper) *gin.Engine {
	router := gin.New()
	BillRoutes(NewBillHandler(svc, sweeper)).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sampleBill() *billingapp.BillResponse {
	return &billingapp.BillResponse{
		ID:       uuid.New(),
		Type:     "yearly_fees",
		FeesYear: 2,
		Currency: "EUR",
		Amount:   decimal.RequireFromString("1800"),
		Status:   "pending",
		Date:     "2024-05-01",
		DueDate:  "2024-05-31",
		Version:  1,
	}
}

func TestBillHandler_List(t *testing.T) {
	svc := new(mockBillService)
	investorID := uuid.New().String()
	svc.On("List", mock.Anything, billingapp.BillListFilter{
		ToInvestorID: investorID,
		Status:       "pending",
		Page:         2,
		PageSize:     10,
	}).Return([]billingapp.BillResponse{*sampleBill()}, int64(11), nil)

	w := doRequest(billRouter(svc, new(mockSweeper)), http.MethodGet,
		"/api/v1/bills?to_investor_id="+investorID+"&status=pending&page=2&page_size=10", "")

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(11), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.TotalPages)
	assert.Len(t, resp.Data, 1)
	svc.AssertExpectations(t)
}

func TestBillHandler_ListRejectsUnknownStatus(t *testing.T) {
	svc := new(mockBillService)

	w := doRequest(billRouter(svc, new(mockSweeper)), http.MethodGet, "/api/v1/bills?status=settled", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "status", resp.Error.Details[0].Field)
	svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestBillHandler_GetByID(t *testing.T) {
	svc := new(mockBillService)
	bill := sampleBill()
	svc.On("GetByID", mock.Anything, bill.ID).Return(bill, nil)
	missing := uuid.New()
	svc.On("GetByID", mock.Anything, missing).Return(nil, shared.NewNotFoundError("bill", missing))
	router := billRouter(svc, new(mockSweeper))

	w := doRequest(router, http.MethodGet, "/api/v1/bills/"+bill.ID.String(), "")
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, "1800", data["amount"])
	assert.Equal(t, "2024-05-31", data["due_date"])

	w = doRequest(router, http.MethodGet, "/api/v1/bills/"+missing.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/bills/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid bill ID format", decodeResponse(t, w).Error.Message)
}

func TestBillHandler_UpdateStatus(t *testing.T) {
	svc := new(mockBillService)
	bill := sampleBill()
	bill.Status = "paid"
	svc.On("UpdateStatus", mock.Anything, bill.ID, billingapp.UpdateBillStatusRequest{Status: "paid"}).Return(bill, nil)
	router := billRouter(svc, new(mockSweeper))

	for _, path := range []string{"/api/v1/bills/" + bill.ID.String(), "/api/v1/bills/" + bill.ID.String() + "/status"} {
		method := http.MethodPut
		if strings.HasSuffix(path, "/status") {
			method = http.MethodPatch
		}
		w := doRequest(router, method, path, `{"status": "paid"}`)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := doRequest(router, http.MethodPut, "/api/v1/bills/"+bill.ID.String(), `{"status": "refunded"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, decodeResponse(t, w).Error.Code)
}

func TestBillHandler_UpdateStatusInvalidTransition(t *testing.T) {
	svc := new(mockBillService)
	billID := uuid.New()
	svc.On("UpdateStatus", mock.Anything, billID, mock.Anything).
		Return(nil, shared.NewDomainError(shared.CodeInvalidState, "cannot move a paid bill to pending"))

	w := doRequest(billRouter(svc, new(mockSweeper)), http.MethodPut, "/api/v1/bills/"+billID.String(), `{"status": "pending"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidState, decodeResponse(t, w).Error.Code)
}

func TestBillHandler_Delete(t *testing.T) {
	svc := new(mockBillService)
	billID := uuid.New()
	svc.On("Delete", mock.Anything, billID).Return(nil)

	w := doRequest(billRouter(svc, new(mockSweeper)), http.MethodDelete, "/api/v1/bills/"+billID.String(), "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}

func TestBillHandler_SweepOverdue(t *testing.T) {
	sweeper := new(mockSweeper)
	sweeper.On("SweepNow", mock.Anything).Return(&billingapp.SweepResult{Date: "2024-06-15", MarkedCount: 4}, nil).Once()
	sweeper.On("SweepNow", mock.Anything).Return(nil, shared.NewPersistenceError("sweep failed", assert.AnError)).Once()
	router := billRouter(new(mockBillService), sweeper)

	w := doRequest(router, http.MethodPost, "/api/v1/bills/sweep_overdue", "")
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.EqualValues(t, 4, data["marked_count"])

	w = doRequest(router, http.MethodPost, "/api/v1/bills/sweep_overdue", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, dto.ErrCodePersistence, decodeResponse(t, w).Error.Code)
}
