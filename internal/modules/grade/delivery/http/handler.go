package handler

import (
	"net/http"

	"campuscrafter.id/academy/internal/modules/grade/dto"
	grade "campuscrafter.id/academy/internal/modules/grade/service"
	commonDto "campuscrafter.id/academy/pkg/dto"
	"campuscrafter.id/academy/pkg/response"
	"campuscrafter.id/academy/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type GradeHandler struct {
	service  grade.GradeService
	upgrader websocket.Upgrader
}

func NewGradeHandler(service grade.GradeService, allowedOrigins []string) *GradeHandler {
	return &GradeHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func (h *GradeHandler) SubmitGrade(c *gin.Context) {
	caller, err := response.GetIdentity(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	assignmentID, err := response.ParamID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.SubmitGradeRequest
	if err := validator.DecodeJSON(c, &req); err != nil {
		response.ResponseError(c, err)
		return
	}

	created, err := h.service.SubmitGrade(c.Request.Context(), caller, assignmentID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Grade submitted successfully",
		"grade_id": created.ID,
	})
}

func (h *GradeHandler) GetGradesForStudent(c *gin.Context) {
	caller, err := response.GetIdentity(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	studentID, err := response.ParamID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	grades, err := h.service.GetGradesForStudent(c.Request.Context(), caller, studentID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	out := make([]commonDto.GradeResponse, 0, len(grades))
	for _, g := range grades {
		out = append(out, commonDto.NewGradeResponse(g))
	}
	c.JSON(http.StatusOK, out)
}

// StreamGrades upgrades to a websocket and forwards every grade recorded for the student.
func (h *GradeHandler) StreamGrades(c *gin.Context) {
	caller, err := response.GetIdentity(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	studentID, err := response.ParamID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	ctx := c.Request.Context()
	log := zerolog.Ctx(ctx)

	// Authorize and subscribe before the upgrade so failures still get a JSON status.
	messages, closeFeed, err := h.service.WatchGrades(ctx, caller, studentID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	defer closeFeed()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("failed to upgrade websocket")
		return
	}
	defer conn.Close()

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-messages:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Warn().Err(err).Uint("student_id", studentID).Msg("failed to write grade to websocket")
				return
			}
		case <-clientClosed:
			return
		case <-ctx.Done():
			return
		}
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}
