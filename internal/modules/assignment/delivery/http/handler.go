package handler

import (
	"net/http"

	"campuscrafter.id/academy/internal/modules/assignment/dto"
	assignment "campuscrafter.id/academy/internal/modules/assignment/service"
	commonDto "campuscrafter.id/academy/pkg/dto"
	"campuscrafter.id/academy/pkg/response"
	"campuscrafter.id/academy/pkg/validator"
	"github.com/gin-gonic/gin"
)

type AssignmentHandler struct {
	service assignment.AssignmentService
}

func NewAssignmentHandler(service assignment.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: service}
}

func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	caller, err := response.GetIdentity(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	courseID, err := response.ParamID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateAssignmentRequest
	if err := validator.DecodeJSON(c, &req); err != nil {
		response.ResponseError(c, err)
		return
	}

	created, err := h.service.CreateAssignment(c.Request.Context(), caller, courseID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Assignment created successfully",
		"assignment_id": created.ID,
	})
}

func (h *AssignmentHandler) GetAssignmentsForCourse(c *gin.Context) {
	courseID, err := response.ParamID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	assignments, err := h.service.GetAssignmentsForCourse(c.Request.Context(), courseID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	out := make([]commonDto.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, commonDto.NewAssignmentResponse(a))
	}
	c.JSON(http.StatusOK, out)
}

func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	id, err := response.ParamID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	found, err := h.service.GetAssignment(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, commonDto.NewAssignmentResponse(found))
}

func (h *AssignmentHandler) UpdateAssignment(c *gin.Context) {
	caller, err := response.GetIdentity(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	id, err := response.ParamID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.UpdateAssignmentRequest
	if err := validator.DecodeJSON(c, &req); err != nil {
		response.ResponseError(c, err)
		return
	}

	updated, err := h.service.UpdateAssignment(c.Request.Context(), caller, id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, commonDto.MessageResponse{
		Message: "Assignment updated successfully",
		Data:    commonDto.NewAssignmentResponse(updated),
	})
}

func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	caller, err := response.GetIdentity(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	id, err := response.ParamID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.DeleteAssignment(c.Request.Context(), caller, id); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Assignment deleted successfully")
}
