package handler

import (
	"net/http"

	"campuscrafter.id/academy/internal/entity"
	"campuscrafter.id/academy/internal/modules/course/dto"
	course "campuscrafter.id/academy/internal/modules/course/service"
	commonDto "campuscrafter.id/academy/pkg/dto"
	"campuscrafter.id/academy/pkg/response"
	"campuscrafter.id/academy/pkg/validator"
	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	service course.CourseService
}

func NewCourseHandler(service course.CourseService) *CourseHandler {
	return &CourseHandler{service: service}
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	caller, err := response.GetIdentity(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateCourseRequest
	if err := validator.DecodeJSON(c, &req); err != nil {
		response.ResponseError(c, err)
		return
	}

	created, err := h.service.CreateCourse(c.Request.Context(), caller, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Course created successfully",
		"course_id": created.ID,
	})
}

func (h *CourseHandler) GetAllCourses(c *gin.Context) {
	courses, err := h.service.GetAllCourses(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCourseResponses(courses))
}

func (h *CourseHandler) SearchCourses(c *gin.Context) {
	var q dto.SearchCoursesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ResponseError(c, validator.BindingError(err))
		return
	}

	courses, err := h.service.SearchCourses(c.Request.Context(), q.Query)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCourseResponses(courses))
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, err := response.ParamID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	found, err := h.service.GetCourse(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, commonDto.NewCourseResponse(found))
}

func (h *CourseHandler) UpdateCourse(c *gin.Context) {
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

	var req dto.UpdateCourseRequest
	if err := validator.DecodeJSON(c, &req); err != nil {
		response.ResponseError(c, err)
		return
	}

	updated, err := h.service.UpdateCourse(c.Request.Context(), caller, id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, commonDto.MessageResponse{
		Message: "Course updated successfully",
		Data:    commonDto.NewCourseResponse(updated),
	})
}

func (h *CourseHandler) DeleteCourse(c *gin.Context) {
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

	if err := h.service.DeleteCourse(c.Request.Context(), caller, id); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Course deleted successfully")
}

func toCourseResponses(courses []*entity.Course) []commonDto.CourseResponse {
	out := make([]commonDto.CourseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, commonDto.NewCourseResponse(c))
	}
	return out
}
