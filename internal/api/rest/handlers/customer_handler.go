package handlers

import (
	"net/http"
	"strings"

	"github.com/Dhoini/customer-service/internal/domain"
	"github.com/Dhoini/customer-service/internal/service"
	"github.com/Dhoini/customer-service/internal/validation"
	"github.com/Dhoini/customer-service/pkg/logger"
	"github.com/Dhoini/customer-service/pkg/req"
	"github.com/Dhoini/customer-service/pkg/res"
	"github.com/gin-gonic/gin"
)

// Success messages
const (
	MsgCustomerCreated = "Customer created successfully"
	MsgCustomerUpdated = "Customer updated successfully"
	MsgCustomerDeleted = "Customer deleted successfully"
)

// CustomerHandler обработчик для клиентов
type CustomerHandler struct {
	service service.CustomerService
	log     *logger.Logger
}

// NewCustomerHandler создает новый обработчик клиентов
func NewCustomerHandler(svc service.CustomerService, log *logger.Logger) *CustomerHandler {
	return &CustomerHandler{
		service: svc,
		log:     log,
	}
}

// pageParams reads page and size, falling back to 0 and DefaultPageSize
// when a value is missing or not a number
func pageParams(c *gin.Context) (int, int) {
	page := req.IntOrDefault(c.Query("page"), 0)
	size := req.IntOrDefault(c.Query("size"), domain.DefaultPageSize)
	return page, size
}

// CreateCustomer создает нового клиента
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	body, err := req.Decode[domain.CreateCustomerRequest](c.Request.Body)
	if err != nil {
		h.log.Warnw("Invalid create request body", "error", err)
		c.JSON(http.StatusBadRequest, res.Error(MsgMalformedRequest, nil))
		return
	}

	customer, err := h.service.Create(c.Request.Context(), body)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, res.Success(MsgCustomerCreated, customer))
}

// GetCustomer возвращает клиента по ID
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	customer, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, res.Success("", customer))
}

// GetCustomers возвращает страницу клиентов, optionally filtered by status
func (h *CustomerHandler) GetCustomers(c *gin.Context) {
	page, size := pageParams(c)

	var status *domain.CustomerStatus
	if raw, ok := c.GetQuery("status"); ok && strings.TrimSpace(raw) != "" {
		parsed, valid := domain.ParseCustomerStatus(raw)
		if !valid {
			respondError(c, h.log, validation.InvalidStatus())
			return
		}
		status = &parsed
	}

	list, err := h.service.List(c.Request.Context(), page, size, status)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, res.Success("", list))
}

// UpdateCustomer частично обновляет клиента: absent fields keep their values
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id := c.Param("id")

	body, err := req.Decode[domain.UpdateCustomerRequest](c.Request.Body)
	if err != nil {
		h.log.Warnw("Invalid update request body", "error", err, "customerID", id)
		c.JSON(http.StatusBadRequest, res.Error(MsgMalformedRequest, nil))
		return
	}

	customer, err := h.service.Update(c.Request.Context(), id, body)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, res.Success(MsgCustomerUpdated, customer))
}

// DeleteCustomer удаляет клиента
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, res.Success(MsgCustomerDeleted, id))
}

// SearchCustomers ищет клиентов по имени или фамилии
func (h *CustomerHandler) SearchCustomers(c *gin.Context) {
	page, size := pageParams(c)

	list, err := h.service.Search(c.Request.Context(), c.Query("name"), page, size)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, res.Success("", list))
}

// LookupCustomer возвращает клиента по email
func (h *CustomerHandler) LookupCustomer(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		var errs domain.ValidationErrors
		errs.Add("email", "Email is required")
		respondError(c, h.log, errs)
		return
	}

	customer, err := h.service.GetByEmail(c.Request.Context(), email)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, res.Success("", customer))
}
