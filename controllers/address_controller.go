package controllers

import (
	"net/http"
	"tech-store/models"
	"tech-store/repositories"

	"github.com/gin-gonic/gin"
)

type AddressController struct {
	addressRepo *repositories.AddressRepository
}

func NewAddressController(addressRepo *repositories.AddressRepository) *AddressController {
	return &AddressController{addressRepo: addressRepo}
}

// @Summary List addresses
// @Description Get the current user's shipping addresses
// @Tags Addresses
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /addresses [get]
func (ctrl *AddressController) ListAddresses(c *gin.Context) {
	userID := c.GetInt("user_id")

	addresses, err := ctrl.addressRepo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Addresses retrieved successfully",
		Data:    addresses,
	})
}

// @Summary Create address
// @Description Add a shipping address for the current user
// @Tags Addresses
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param address body models.CreateAddressRequest true "Address data"
// @Success 201 {object} models.Response
// @Router /addresses [post]
func (ctrl *AddressController) CreateAddress(c *gin.Context) {
	userID := c.GetInt("user_id")

	var req models.CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Invalid request body",
			Error:   err.Error(),
		})
		return
	}

	address := &models.Address{
		UserID:    userID,
		Recipient: req.Recipient,
		Phone:     req.Phone,
		Street:    req.Street,
		City:      req.City,
		IsDefault: req.IsDefault,
	}

	if err := ctrl.addressRepo.Create(c.Request.Context(), address); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Address created successfully",
		Data:    address,
	})
}
