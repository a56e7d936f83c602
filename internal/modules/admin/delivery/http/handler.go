package handler

import (
	"net/http"

	"campuscrafter.id/academy/internal/modules/admin/dto"
	adminService "campuscrafter.id/academy/internal/modules/admin/service"
	"campuscrafter.id/academy/pkg/response"
	"campuscrafter.id/academy/pkg/validator"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminService adminService.AdminService
}

func NewAdminHandler(adminService adminService.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	caller, err := response.GetIdentity(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.CreateUserInput
	if err := validator.DecodeJSON(c, &input); err != nil {
		response.ResponseError(c, err)
		return
	}

	user, err := h.adminService.CreateUser(c.Request.Context(), caller, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user_id": user.ID,
	})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	caller, err := response.GetIdentity(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	userID, err := response.ParamID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.adminService.DeleteUser(c.Request.Context(), caller, userID); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Message(c, http.StatusOK, "User deleted successfully")
}
