package controllers

import (
	"math"
	"net/http"
	"strconv"
	"tech-store/models"
	"tech-store/services"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	checkoutService *services.CheckoutService
	orderService    *services.OrderService
}

func NewOrderController(checkoutService *services.CheckoutService, orderService *services.OrderService) *OrderController {
	return &OrderController{
		checkoutService: checkoutService,
		orderService:    orderService,
	}
}

func getPaginationParams(c *gin.Context, defaultLimit int) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func paginated(message string, data interface{}, page, limit, totalItems int) models.PaginationResponse {
	totalPages := 0
	if totalItems > 0 {
		totalPages = int(math.Ceil(float64(totalItems) / float64(limit)))
	}
	return models.PaginationResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta: models.MetaData{
			Page:       page,
			Limit:      limit,
			TotalItems: totalItems,
			TotalPages: totalPages,
		},
	}
}

// @Summary Checkout
// @Description Convert the cart (or direct-buy items) into an order
// @Tags Orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param checkout body models.CheckoutRequest true "Checkout data"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /order [post]
func (ctrl *OrderController) Checkout(c *gin.Context) {
	userID := c.GetInt("user_id")
	userEmail := c.GetString("user_email")

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Invalid request body",
			Error:   err.Error(),
		})
		return
	}

	order, err := ctrl.checkoutService.Checkout(c.Request.Context(), userID, userEmail, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Order created successfully",
		Data: models.CheckoutResponse{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			Status:      string(order.Status),
			Subtotal:    order.Subtotal,
			ShippingFee: order.ShippingFee,
			Discount:    order.DiscountAmount,
			Total:       order.TotalAmount,
		},
	})
}

// @Summary List my orders
// @Description Get the current user's orders
// @Tags Orders
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} models.PaginationResponse
// @Router /order/my-orders [get]
func (ctrl *OrderController) GetMyOrders(c *gin.Context) {
	userID := c.GetInt("user_id")
	page, limit := getPaginationParams(c, 10)

	orders, total, err := ctrl.orderService.ListMyOrders(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, paginated("Orders retrieved successfully", orders, page, limit, total))
}

// @Summary Get order by ID
// @Description Get order details (owner or admin)
// @Tags Orders
// @Security BearerAuth
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} models.Response
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /order/{id} [get]
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: "Invalid order ID"})
		return
	}

	userID := c.GetInt("user_id")
	isAdmin := c.GetString("user_role") == "admin"

	order, err := ctrl.orderService.GetOrder(c.Request.Context(), id, userID, isAdmin)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Order retrieved successfully",
		Data:    order,
	})
}

// @Summary List all orders
// @Description Get all orders with optional status filter (Admin)
// @Tags Admin - Orders
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param status query string false "Filter by status"
// @Success 200 {object} models.PaginationResponse
// @Router /admin/orders [get]
func (ctrl *OrderController) GetAllOrders(c *gin.Context) {
	page, limit := getPaginationParams(c, 10)
	status := c.Query("status")
	if status == "All" {
		status = ""
	}

	orders, total, err := ctrl.orderService.ListOrders(c.Request.Context(), status, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, paginated("Orders retrieved successfully", orders, page, limit, total))
}

// @Summary Update order status
// @Description Transition an order to a new status (Admin)
// @Tags Admin - Orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param status body models.UpdateOrderStatusRequest true "New status"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/orders/{id}/status [put]
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: "Invalid order ID"})
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Status is required",
			Error:   err.Error(),
		})
		return
	}

	order, err := ctrl.orderService.UpdateStatus(c.Request.Context(), id, models.OrderStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Order status updated successfully",
		Data:    order,
	})
}

// @Summary Cancel order
// @Description Cancel an order (owner while pending; admin also from processing)
// @Tags Orders
// @Security BearerAuth
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /order/{id}/cancel [put]
func (ctrl *OrderController) CancelOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: "Invalid order ID"})
		return
	}

	userID := c.GetInt("user_id")
	isAdmin := c.GetString("user_role") == "admin"

	order, err := ctrl.orderService.Cancel(c.Request.Context(), id, userID, isAdmin)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Order cancelled successfully",
		Data:    order,
	})
}
