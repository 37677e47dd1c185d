package controllers

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/middleware"
	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/models"
	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/repository"
)

// AdminController backs the order-management dashboard: login, order listing
// and status transitions.
type AdminController struct {
	Orders        repository.OrderRepository
	Logger        *zap.Logger
	AdminUser     string
	AdminPassword string
	JWTSecret     string
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (ac *AdminController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, ac.Logger, http.StatusBadRequest, "Username and password are required", err)
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(ac.AdminUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(ac.AdminPassword)) == 1
	if !userOK || !passOK {
		respondError(c, ac.Logger, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	token, err := middleware.IssueAdminToken(ac.JWTSecret, req.Username)
	if err != nil {
		respondError(c, ac.Logger, http.StatusInternalServerError, "Failed to issue token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

func (ac *AdminController) ListOrders(c *gin.Context) {
	status := c.Query("status")

	orders, err := ac.Orders.ListOrders(c.Request.Context(), status)
	if err != nil {
		respondError(c, ac.Logger, http.StatusInternalServerError, "Failed to list orders", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// Dashboard transitions move an order forward: active orders get scheduled,
// scheduled orders get completed. Cancellation goes through the refund
// pipeline, never through here.
var adminStatuses = map[string]bool{
	models.StatusScheduled: true,
	models.StatusCompleted: true,
}

func (ac *AdminController) UpdateOrderStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, ac.Logger, http.StatusBadRequest, "Invalid order id", err)
		return
	}

	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil || !adminStatuses[req.Status] {
		respondError(c, ac.Logger, http.StatusBadRequest, "Invalid status", err)
		return
	}

	if err := ac.Orders.UpdateOrderStatus(c.Request.Context(), id, req.Status, time.Now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, ac.Logger, http.StatusNotFound, "Order not found", nil)
			return
		}
		respondError(c, ac.Logger, http.StatusInternalServerError, "Failed to update order status", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "status": req.Status})
}
