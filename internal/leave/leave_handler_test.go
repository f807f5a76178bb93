package leave_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/leave"
	leaveerrors "github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/leave/errors"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveService struct {
	createFn      func(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
	getAllFn      func(ctx context.Context, filter leave.ListLeaveFilter) ([]leave.LeaveResponse, error)
	getByIDFn     func(ctx context.Context, id string) (leave.LeaveResponse, error)
	decideFn      func(ctx context.Context, id string, req leave.DecideLeaveRequest) (leave.LeaveDecisionResponse, error)
	getBalancesFn func(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalanceResponse, error)
	getLedgerFn   func(ctx context.Context, employeeID string, year int) ([]leave.LeaveLedgerEntryResponse, error)
}

func (f *fakeLeaveService) Create(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	return f.createFn(ctx, req)
}

func (f *fakeLeaveService) GetAll(ctx context.Context, filter leave.ListLeaveFilter) ([]leave.LeaveResponse, error) {
	return f.getAllFn(ctx, filter)
}

func (f *fakeLeaveService) GetByID(ctx context.Context, id string) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeLeaveService) Decide(ctx context.Context, id string, req leave.DecideLeaveRequest) (leave.LeaveDecisionResponse, error) {
	return f.decideFn(ctx, id, req)
}

func (f *fakeLeaveService) GetBalances(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalanceResponse, error) {
	return f.getBalancesFn(ctx, employeeID, year)
}

func (f *fakeLeaveService) GetLedger(ctx context.Context, employeeID string, year int) ([]leave.LeaveLedgerEntryResponse, error) {
	return f.getLedgerFn(ctx, employeeID, year)
}

func TestLeaveHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		employeeID := uuid.New().String()
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, employeeID, req.EmployeeID)
				assert.Equal(t, 1, req.LeaveTypeID)
				return leave.LeaveResponse{
					ID:            uuid.New().String(),
					EmployeeID:    req.EmployeeID,
					LeaveTypeID:   req.LeaveTypeID,
					LeaveKind:     "annual",
					StartDate:     req.StartDate,
					EndDate:       req.EndDate,
					DurationHours: 4,
					Status:        leave.StatusPending,
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"employee_id":"` + employeeID + `","leave_type_id":1,"start_date":"2025-07-14","end_date":"2025-07-14","start_time":"09:00","end_time":"13:00"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leave.LeaveResponse
		err := json.Unmarshal(env.Data, &got)
		assert.NoError(t, err)
		assert.Equal(t, employeeID, got.EmployeeID)
		assert.Equal(t, 4.0, got.DurationHours)
		assert.Equal(t, leave.StatusPending, got.Status)
	})

	t.Run("negative validation error", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("negative service error", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, errors.New("create failed")
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"employee_id":"` + uuid.New().String() + `","leave_type_id":1,"start_date":"2025-07-14","end_date":"2025-07-14"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
		assert.Equal(t, "Internal server error", env.Error.Message)
	})
}

func TestLeaveHandler_GetAll(t *testing.T) {
	t.Run("success forwards query filters", func(t *testing.T) {
		employeeID := uuid.New().String()
		svc := &fakeLeaveService{
			getAllFn: func(ctx context.Context, filter leave.ListLeaveFilter) ([]leave.LeaveResponse, error) {
				assert.Equal(t, employeeID, filter.EmployeeID)
				assert.Equal(t, leave.StatusPending, filter.Status)
				assert.Equal(t, 2025, filter.Year)
				return []leave.LeaveResponse{
					{ID: uuid.New().String(), EmployeeID: employeeID, Status: leave.StatusPending},
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet,
			"/leaves?employee_id="+employeeID+"&status=PENDING&year=2025", nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got []leave.LeaveResponse
		err := json.Unmarshal(env.Data, &got)
		assert.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("negative service error", func(t *testing.T) {
		svc := &fakeLeaveService{
			getAllFn: func(ctx context.Context, filter leave.ListLeaveFilter) ([]leave.LeaveResponse, error) {
				return nil, errors.New("db error")
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves", nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
	})
}

func TestLeaveHandler_Decide(t *testing.T) {
	t.Run("success approve", func(t *testing.T) {
		leaveID := uuid.New().String()
		svc := &fakeLeaveService{
			decideFn: func(ctx context.Context, id string, req leave.DecideLeaveRequest) (leave.LeaveDecisionResponse, error) {
				assert.Equal(t, leaveID, id)
				assert.Equal(t, leave.ActionApprove, req.Action)
				return leave.LeaveDecisionResponse{
					LeaveResponse:     leave.LeaveResponse{ID: id, Status: leave.StatusApproved},
					DaysUsed:          2,
					BalanceAfter:      15,
					LimitDays:         14,
					UnpaidExcessDays:  1,
					UnpaidLeaveRaised: true,
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/decision",
			strings.NewReader(`{"action":"APPROVE"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: leaveID}}

		h.Decide(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leave.LeaveDecisionResponse
		err := json.Unmarshal(env.Data, &got)
		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, got.Status)
		assert.True(t, got.UnpaidLeaveRaised)
		assert.Equal(t, 1.0, got.UnpaidExcessDays)
	})

	t.Run("negative unknown action", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+uuid.New().String()+"/decision",
			strings.NewReader(`{"action":"MAYBE"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: uuid.New().String()}}

		h.Decide(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("negative already decided returns conflict", func(t *testing.T) {
		svc := &fakeLeaveService{
			decideFn: func(ctx context.Context, id string, req leave.DecideLeaveRequest) (leave.LeaveDecisionResponse, error) {
				return leave.LeaveDecisionResponse{}, leaveerrors.ErrAlreadyDecided
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+uuid.New().String()+"/decision",
			strings.NewReader(`{"action":"APPROVE"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: uuid.New().String()}}

		h.Decide(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_STATE", env.Error.Code)
	})
}

func TestLeaveHandler_GetBalances(t *testing.T) {
	t.Run("success defaults year to current", func(t *testing.T) {
		employeeID := uuid.New().String()
		svc := &fakeLeaveService{
			getBalancesFn: func(ctx context.Context, id string, year int) ([]leave.LeaveBalanceResponse, error) {
				assert.Equal(t, employeeID, id)
				assert.NotZero(t, year)
				return []leave.LeaveBalanceResponse{
					{EmployeeID: id, LeaveTypeID: 1, LeaveKind: "annual", Year: year, UsedDays: 3},
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		r := gin.New()
		r.GET("/leaves/balances/:employeeId", h.GetBalances)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/leaves/balances/"+employeeID, nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got []leave.LeaveBalanceResponse
		err := json.Unmarshal(env.Data, &got)
		assert.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, "annual", got[0].LeaveKind)
	})

	t.Run("success explicit year", func(t *testing.T) {
		employeeID := uuid.New().String()
		svc := &fakeLeaveService{
			getLedgerFn: func(ctx context.Context, id string, year int) ([]leave.LeaveLedgerEntryResponse, error) {
				assert.Equal(t, 2024, year)
				return nil, nil
			},
		}

		h := leave.NewHandler(svc)
		r := gin.New()
		r.GET("/leaves/ledger/:employeeId", h.GetLedger)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/leaves/ledger/"+employeeID+"?year=2024", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
