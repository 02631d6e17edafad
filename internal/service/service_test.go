package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workshophub/internal/model"
	"workshophub/internal/repo"
)

// stubRepo overrides only the methods a test needs; anything else
// panics through the embedded nil interface.
type stubRepo struct {
	repo.Repository

	getWorkshop   func(id int64) (*model.Workshop, error)
	submit        func(reg *model.Registration) (*model.Registration, error)
	approve       func(id int64, notes string) (*model.Registration, error)
	reject        func(id int64, notes string) (*model.Registration, error)
	verifyPayment func(id int64) (*model.Registration, error)
	deleteTx      func(id int64) error
}

func (s *stubRepo) GetWorkshopByID(_ context.Context, id int64) (*model.Workshop, error) {
	return s.getWorkshop(id)
}

func (s *stubRepo) SubmitRegistrationTx(_ context.Context, reg *model.Registration) (*model.Registration, error) {
	return s.submit(reg)
}

func (s *stubRepo) ApproveRegistrationTx(_ context.Context, id int64, notes string) (*model.Registration, error) {
	return s.approve(id, notes)
}

func (s *stubRepo) RejectRegistrationTx(_ context.Context, id int64, notes string) (*model.Registration, error) {
	return s.reject(id, notes)
}

func (s *stubRepo) VerifyPaymentTx(_ context.Context, id int64) (*model.Registration, error) {
	return s.verifyPayment(id)
}

func (s *stubRepo) DeleteWorkshopTx(_ context.Context, id int64) error {
	return s.deleteTx(id)
}

type stubPublisher struct {
	published [][]byte
}

func (p *stubPublisher) Publish(message []byte) error {
	p.published = append(p.published, message)
	return nil
}

func newTestService(t *testing.T, r repo.Repository) (Service, *stubPublisher) {
	t.Helper()
	log := zerolog.Nop()
	pub := &stubPublisher{}
	return NewService(r, &log, pub, nil, nil), pub
}

func newTestRouter(svc Service, userID int64, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
	})
	r.POST("/workshops/:id/register", svc.SubmitRegistration)
	r.DELETE("/workshops/:id", svc.DeleteWorkshop)
	r.POST("/registrations/:id/approve", svc.ApproveRegistration)
	r.POST("/registrations/:id/reject", svc.RejectRegistration)
	r.POST("/registrations/:id/verify-payment", svc.VerifyPayment)
	return r
}

type apiResponse struct {
	Status string `json:"status"`
	Error  *struct {
		Code string `json:"code"`
		Desc string `json:"desc"`
	} `json:"error"`
	Data json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, r *gin.Engine, method, path, body string) (int, apiResponse) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func activeWorkshop(price float64, mode string) *model.Workshop {
	return &model.Workshop{
		ID:             1,
		Title:          "Intro to Pottery",
		Price:          price,
		Mode:           mode,
		Status:         model.WorkshopActive,
		MaxSeats:       10,
		AvailableSeats: 10,
	}
}

func TestSubmitPaidWorkshopWithoutEvidence(t *testing.T) {
	submitted := false
	stub := &stubRepo{
		getWorkshop: func(int64) (*model.Workshop, error) {
			return activeWorkshop(500, model.ModeManual), nil
		},
		submit: func(*model.Registration) (*model.Registration, error) {
			submitted = true
			return nil, nil
		},
	}
	svc, _ := newTestService(t, stub)
	r := newTestRouter(svc, 7, model.RoleUser)

	code, resp := doRequest(t, r, http.MethodPost, "/workshops/1/register", `{"payment_method":"upi"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FIELD_INCORRECT", resp.Error.Code)
	assert.False(t, submitted, "workflow must not run with incomplete payment evidence")
}

func TestSubmitFreeAutomatedConfirms(t *testing.T) {
	stub := &stubRepo{
		getWorkshop: func(int64) (*model.Workshop, error) {
			return activeWorkshop(0, model.ModeAutomated), nil
		},
		submit: func(reg *model.Registration) (*model.Registration, error) {
			assert.Equal(t, int64(7), reg.UserID)
			assert.Equal(t, int64(1), reg.WorkshopID)
			now := time.Now()
			reg.ID = 42
			reg.Status = model.StatusConfirmed
			reg.PaymentStatus = model.PaymentNotRequired
			reg.ConfirmedAt = &now
			return reg, nil
		},
	}
	svc, pub := newTestService(t, stub)
	r := newTestRouter(svc, 7, model.RoleUser)

	code, resp := doRequest(t, r, http.MethodPost, "/workshops/1/register", "")
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "ok", resp.Status)

	var reg model.Registration
	require.NoError(t, json.Unmarshal(resp.Data, &reg))
	assert.Equal(t, model.StatusConfirmed, reg.Status)
	assert.Len(t, pub.published, 1, "a confirmed submission publishes a notice")
}

func TestSubmitDuplicate(t *testing.T) {
	stub := &stubRepo{
		getWorkshop: func(int64) (*model.Workshop, error) {
			return activeWorkshop(0, model.ModeManual), nil
		},
		submit: func(*model.Registration) (*model.Registration, error) {
			return nil, repo.ErrDuplicateRegistration
		},
	}
	svc, _ := newTestService(t, stub)
	r := newTestRouter(svc, 7, model.RoleUser)

	code, resp := doRequest(t, r, http.MethodPost, "/workshops/1/register", "")
	assert.Equal(t, http.StatusConflict, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "REGISTRATION_DUPLICATE", resp.Error.Code)
}

func TestSubmitSoldOut(t *testing.T) {
	stub := &stubRepo{
		getWorkshop: func(int64) (*model.Workshop, error) {
			return activeWorkshop(0, model.ModeAutomated), nil
		},
		submit: func(*model.Registration) (*model.Registration, error) {
			return nil, repo.ErrSoldOut
		},
	}
	svc, _ := newTestService(t, stub)
	r := newTestRouter(svc, 7, model.RoleUser)

	code, resp := doRequest(t, r, http.MethodPost, "/workshops/1/register", "")
	assert.Equal(t, http.StatusConflict, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "WORKSHOP_SOLD_OUT", resp.Error.Code)
}

func TestApproveSuccess(t *testing.T) {
	now := time.Now()
	stub := &stubRepo{
		approve: func(id int64, notes string) (*model.Registration, error) {
			assert.Equal(t, int64(5), id)
			assert.Equal(t, "looks good", notes)
			return &model.Registration{
				ID:          5,
				Status:      model.StatusConfirmed,
				ConfirmedAt: &now,
			}, nil
		},
	}
	svc, pub := newTestService(t, stub)
	r := newTestRouter(svc, 1, model.RoleAdmin)

	code, resp := doRequest(t, r, http.MethodPost, "/registrations/5/approve", `{"admin_notes":"looks good"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Status)
	assert.Len(t, pub.published, 1)
}

func TestApproveSeatsExhausted(t *testing.T) {
	stub := &stubRepo{
		approve: func(int64, string) (*model.Registration, error) {
			return nil, repo.ErrSeatsExhausted
		},
	}
	svc, pub := newTestService(t, stub)
	r := newTestRouter(svc, 1, model.RoleAdmin)

	code, resp := doRequest(t, r, http.MethodPost, "/registrations/5/approve", "")
	assert.Equal(t, http.StatusConflict, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SEATS_EXHAUSTED", resp.Error.Code)
	assert.Empty(t, pub.published)
}

func TestApprovePaymentNotVerified(t *testing.T) {
	stub := &stubRepo{
		approve: func(int64, string) (*model.Registration, error) {
			return nil, repo.ErrPaymentNotVerified
		},
	}
	svc, _ := newTestService(t, stub)
	r := newTestRouter(svc, 1, model.RoleAdmin)

	code, resp := doRequest(t, r, http.MethodPost, "/registrations/5/approve", "")
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "PAYMENT_NOT_VERIFIED", resp.Error.Code)
}

func TestRejectClosedRegistration(t *testing.T) {
	stub := &stubRepo{
		reject: func(int64, string) (*model.Registration, error) {
			return nil, repo.ErrInvalidStatus
		},
	}
	svc, _ := newTestService(t, stub)
	r := newTestRouter(svc, 1, model.RoleAdmin)

	code, resp := doRequest(t, r, http.MethodPost, "/registrations/5/reject", "")
	assert.Equal(t, http.StatusConflict, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "REGISTRATION_CLOSED", resp.Error.Code)
}

func TestVerifyPaymentIdempotent(t *testing.T) {
	calls := 0
	stub := &stubRepo{
		verifyPayment: func(id int64) (*model.Registration, error) {
			calls++
			return &model.Registration{
				ID:              id,
				Status:          model.StatusPending,
				PaymentStatus:   model.PaymentPending,
				PaymentVerified: true,
			}, nil
		},
	}
	svc, _ := newTestService(t, stub)
	r := newTestRouter(svc, 1, model.RoleAdmin)

	for i := 0; i < 2; i++ {
		code, resp := doRequest(t, r, http.MethodPost, "/registrations/9/verify-payment", "")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ok", resp.Status)
	}
	assert.Equal(t, 2, calls)
}

func TestDeleteWorkshopForbiddenForNonOwner(t *testing.T) {
	owner := int64(99)
	stub := &stubRepo{
		getWorkshop: func(int64) (*model.Workshop, error) {
			w := activeWorkshop(0, model.ModeManual)
			w.OrganizerUserID = &owner
			return w, nil
		},
	}
	svc, _ := newTestService(t, stub)
	r := newTestRouter(svc, 7, model.RoleEnterprise)

	code, resp := doRequest(t, r, http.MethodDelete, "/workshops/1", "")
	assert.Equal(t, http.StatusForbidden, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "PERMISSION_DENIED", resp.Error.Code)
}

func TestDeleteWorkshopWithRegistrations(t *testing.T) {
	owner := int64(7)
	stub := &stubRepo{
		getWorkshop: func(int64) (*model.Workshop, error) {
			w := activeWorkshop(0, model.ModeManual)
			w.OrganizerUserID = &owner
			return w, nil
		},
		deleteTx: func(int64) error {
			return repo.ErrHasRegistrations
		},
	}
	svc, _ := newTestService(t, stub)
	r := newTestRouter(svc, 7, model.RoleEnterprise)

	code, resp := doRequest(t, r, http.MethodDelete, "/workshops/1", "")
	assert.Equal(t, http.StatusConflict, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "HAS_REGISTRATIONS", resp.Error.Code)
}
