package controllers

import (
	"net/http"
	"strconv"
	"tech-store/models"
	"tech-store/services"

	"github.com/gin-gonic/gin"
)

type CartController struct {
	cartService *services.CartService
}

func NewCartController(cartService *services.CartService) *CartController {
	return &CartController{cartService: cartService}
}

// @Summary Get cart
// @Description Get the current user's cart with recomputed totals
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /cart-items [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	userID := c.GetInt("user_id")

	cart, err := ctrl.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Cart retrieved successfully",
		Data:    cart,
	})
}

// @Summary Add cart item
// @Description Add a product to the cart or increment its quantity
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param item body models.AddCartItemRequest true "Item"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /cart-items [post]
func (ctrl *CartController) AddItem(c *gin.Context) {
	userID := c.GetInt("user_id")

	var req models.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Invalid request body",
			Error:   err.Error(),
		})
		return
	}

	line, err := ctrl.cartService.AddItem(c.Request.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Item added to cart",
		Data:    line,
	})
}

// @Summary Update cart item
// @Description Set a cart line's quantity; zero removes the line
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Cart item ID"
// @Param item body models.UpdateCartItemRequest true "Quantity"
// @Success 200 {object} models.Response
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /cart-items/{id} [put]
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	userID := c.GetInt("user_id")

	lineID, err := strconv.Atoi(c.Param("id"))
	if err != nil || lineID <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: "Invalid cart item ID"})
		return
	}

	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Invalid request body",
			Error:   err.Error(),
		})
		return
	}

	cart, err := ctrl.cartService.UpdateItem(c.Request.Context(), userID, lineID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Cart updated successfully",
		Data:    cart,
	})
}

// @Summary Remove cart item
// @Description Remove a line from the cart
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Param id path int true "Cart item ID"
// @Success 200 {object} models.Response
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /cart-items/{id} [delete]
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	userID := c.GetInt("user_id")

	lineID, err := strconv.Atoi(c.Param("id"))
	if err != nil || lineID <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: "Invalid cart item ID"})
		return
	}

	cart, err := ctrl.cartService.RemoveItem(c.Request.Context(), userID, lineID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Item removed from cart",
		Data:    cart,
	})
}
