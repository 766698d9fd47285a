package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"pos-service/internal/cart"
	"pos-service/internal/models"
	"pos-service/internal/service"
	"pos-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler exposes the register-session boundary over HTTP. It owns no
// ledger state; carts live in the session manager and everything else goes
// through the services.
type Handler struct {
	carts       *cart.Manager
	settlements *service.SettlementService
	debts       *service.DebtService
	reliability *service.ReliabilityService
	reports     *service.ReportService
	catalogAdm  *service.CatalogAdminService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	carts *cart.Manager,
	settlements *service.SettlementService,
	debts *service.DebtService,
	reliability *service.ReliabilityService,
	reports *service.ReportService,
	catalogAdm *service.CatalogAdminService,
) *Handler {
	return &Handler{
		carts:       carts,
		settlements: settlements,
		debts:       debts,
		reliability: reliability,
		reports:     reports,
		catalogAdm:  catalogAdm,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/sessions/:id/cart", h.getCart)
		v1.POST("/sessions/:id/lines", h.addLine)
		v1.DELETE("/sessions/:id/lines/:barcode", h.removeLine)
		v1.DELETE("/sessions/:id/cart", h.cancelCart)
		v1.POST("/sessions/:id/settlement", h.settle)

		v1.POST("/customers", h.createCustomer)
		v1.GET("/customers", h.listCustomers)
		v1.GET("/customers/:id/debts", h.customerDebts)
		v1.GET("/customers/:id/balance", h.customerBalance)
		v1.GET("/customers/:id/score", h.customerScore)
		v1.POST("/debts/:id/pay", h.payDebt)

		v1.PUT("/products", h.saveProduct)
		v1.GET("/products", h.searchProducts)
		v1.GET("/products/brands", h.listBrands)
		v1.POST("/products/price-increase", h.increasePrices)

		v1.GET("/reports/sales", h.salesReport)
		v1.GET("/reports/daily-revenue", h.dailyRevenue)
	}
}

func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "time": time.Now().Unix()})
}

func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready", "time": time.Now().Unix()})
}

type cartView struct {
	Lines []models.CartLine `json:"lines"`
	Total string            `json:"total"`
}

func viewOf(c *cart.Cart) cartView {
	return cartView{Lines: c.Lines(), Total: c.Total().StringFixed(2)}
}

func (h *Handler) getCart(c *gin.Context) {
	session := h.carts.Get(c.Param("id"))
	c.JSON(http.StatusOK, viewOf(session))
}

type addLineRequest struct {
	Barcode string `json:"barcode" binding:"required"`
}

func (h *Handler) addLine(c *gin.Context) {
	var req addLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	session := h.carts.Get(c.Param("id"))
	line, err := session.AddByBarcode(c.Request.Context(), req.Barcode)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"line": line, "cart": viewOf(session)})
}

func (h *Handler) removeLine(c *gin.Context) {
	session := h.carts.Get(c.Param("id"))
	if err := session.RemoveLine(c.Param("barcode")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(session))
}

func (h *Handler) cancelCart(c *gin.Context) {
	session := h.carts.Get(c.Param("id"))
	session.Clear()
	c.JSON(http.StatusOK, viewOf(session))
}

func (h *Handler) settle(c *gin.Context) {
	var req service.SettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	session := h.carts.Get(c.Param("id"))
	result, err := h.settlements.Settle(c.Request.Context(), session, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

type createCustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

func (h *Handler) createCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	customer, err := h.debts.AddCustomer(c.Request.Context(), req.Name, req.Phone)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *Handler) listCustomers(c *gin.Context) {
	customers, err := h.debts.ListCustomers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

func (h *Handler) customerDebts(c *gin.Context) {
	customerID, ok := pathID(c)
	if !ok {
		return
	}
	debts, err := h.debts.CustomerDebts(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"debts": debts})
}

func (h *Handler) customerBalance(c *gin.Context) {
	customerID, ok := pathID(c)
	if !ok {
		return
	}
	balance, err := h.debts.OutstandingBalance(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}

func (h *Handler) customerScore(c *gin.Context) {
	customerID, ok := pathID(c)
	if !ok {
		return
	}
	classification, err := h.reliability.Score(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer_id": customerID, "classification": classification})
}

func (h *Handler) payDebt(c *gin.Context) {
	debtID, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.debts.MarkPaid(c.Request.Context(), debtID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"debt_id": debtID, "paid": true})
}

func (h *Handler) saveProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if err := h.catalogAdm.SaveProduct(c.Request.Context(), &product); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) searchProducts(c *gin.Context) {
	products, err := h.catalogAdm.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) listBrands(c *gin.Context) {
	brands, err := h.catalogAdm.Brands(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"brands": brands})
}

func (h *Handler) increasePrices(c *gin.Context) {
	var req service.PriceIncreaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	count, err := h.catalogAdm.IncreasePrices(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": count})
}

func (h *Handler) salesReport(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	report, err := h.reports.SalesReport(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) dailyRevenue(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	revenue, err := h.reports.DailyRevenue(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"daily_revenue": revenue})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

// dateRange parses from/to query params (YYYY-MM-DD); to is made exclusive
// by adding one day so the named end date is included.
func dateRange(c *gin.Context) (time.Time, time.Time, bool) {
	const layout = "2006-01-02"

	from, err := time.Parse(layout, c.DefaultQuery("from", time.Now().Format(layout)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date"})
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse(layout, c.DefaultQuery("to", time.Now().Format(layout)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date"})
		return time.Time{}, time.Time{}, false
	}
	return from, to.AddDate(0, 0, 1), true
}

// respondError maps the ledger error taxonomy onto HTTP statuses
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrProductNotFound),
		errors.Is(err, models.ErrLineNotFound),
		errors.Is(err, models.ErrDebtNotFound),
		errors.Is(err, models.ErrCustomerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrEmptyCart),
		errors.Is(err, models.ErrInsufficientPayment),
		errors.Is(err, models.ErrNoCustomerSelected):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrAlreadyPaid):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrSettlementWriteFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "retryable": true})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
