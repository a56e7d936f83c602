package handler

import (
	"net/http"

	profileDto "campuscrafter.id/academy/internal/modules/profile/dto"
	profile "campuscrafter.id/academy/internal/modules/profile/service"
	"campuscrafter.id/academy/pkg/apperror"
	commonDto "campuscrafter.id/academy/pkg/dto"
	"campuscrafter.id/academy/pkg/response"
	"campuscrafter.id/academy/pkg/validator"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService profile.ProfileService
}

func NewProfileHandler(profileService profile.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
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

	user, err := h.profileService.GetProfile(c.Request.Context(), caller, userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, commonDto.NewUserResponse(user))
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
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

	var input profileDto.UpdateProfileInput
	if err := validator.DecodeJSON(c, &input); err != nil {
		response.ResponseError(c, err)
		return
	}

	user, err := h.profileService.UpdateProfile(c.Request.Context(), caller, userID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, commonDto.MessageResponse{
		Message: "Profile updated successfully",
		Data:    commonDto.NewUserResponse(user),
	})
}

func (h *ProfileHandler) UploadProfilePicture(c *gin.Context) {
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

	fileHeader, err := c.FormFile("picture")
	if err != nil {
		response.ResponseError(c, apperror.Validation("picture file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.ResponseError(c, apperror.Validation("failed to read picture"))
		return
	}
	defer file.Close()

	user, err := h.profileService.UploadProfilePicture(c.Request.Context(), caller, userID, profileDto.PictureFile{
		Reader:   file,
		FileName: fileHeader.Filename,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, commonDto.MessageResponse{
		Message: "Profile picture updated successfully",
		Data:    commonDto.NewUserResponse(user),
	})
}
