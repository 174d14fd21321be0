package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rcarvalho-pb/debt_payment-go/internal/application/auth"
	paymentApplication "github.com/rcarvalho-pb/debt_payment-go/internal/application/payment"
	"github.com/rcarvalho-pb/debt_payment-go/internal/domain/payment"
	"github.com/rcarvalho-pb/debt_payment-go/internal/infra/metrics"
)

type PaymentHandler struct {
	Service *paymentApplication.Service
}

func (h *PaymentHandler) Create(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	method, err := payment.ParseMethod(req.Method)
	if err != nil {
		writeError(c, err)
		return
	}

	p, err := h.Service.Create(c.Request.Context(), paymentApplication.CreateCommand{
		DebtCode:   req.DebtCode,
		PayerID:    req.PayerID,
		Method:     method,
		CardNumber: req.CardNumber,
		Amount:     req.Amount,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toResponse(p))
}

func (h *PaymentHandler) UpdateStatus(c *gin.Context) {
	id, ok := paymentID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	status, err := payment.ParseStatus(req.Status)
	if err != nil {
		writeError(c, err)
		return
	}

	p, err := h.Service.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(p))
}

func (h *PaymentHandler) Deactivate(c *gin.Context) {
	id, ok := paymentID(c)
	if !ok {
		return
	}

	p, err := h.Service.Deactivate(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(p))
}

func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := paymentID(c)
	if !ok {
		return
	}

	p, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(p))
}

func (h *PaymentHandler) List(c *gin.Context) {
	ps, err := h.Service.FindAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponses(ps))
}

// Filter reads debtCode, payerId and status from the query string. Only the
// first one present is applied.
func (h *PaymentHandler) Filter(c *gin.Context) {
	var f paymentApplication.Filter

	if raw, ok := c.GetQuery("debtCode"); ok && raw != "" {
		code, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			badRequest(c, "debtCode must be an integer")
			return
		}
		f.DebtCode = &code
	}

	if raw, ok := c.GetQuery("payerId"); ok {
		f.PayerID = &raw
	}

	if raw, ok := c.GetQuery("status"); ok && raw != "" {
		status, err := payment.ParseStatus(raw)
		if err != nil {
			writeError(c, err)
			return
		}
		f.Status = &status
	}

	ps, err := h.Service.FindByFilter(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponses(ps))
}

func paymentID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "payment id must be a positive integer")
		return 0, false
	}
	return id, true
}

type AuthHandler struct {
	Service *auth.Service
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "username and password are required")
		return
	}

	token, err := h.Service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

type MetricsHandler struct {
	Counters *metrics.Counters
}

func (h *MetricsHandler) Snapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.Counters.Snapshot())
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
