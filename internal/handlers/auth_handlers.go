package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/campusmart/internal/repository"
	"github.com/01moynul/campusmart/internal/service"
)

// Signup handles POST /api/auth/signup (multipart, optional profileImage).
func (h *Handlers) Signup(c *gin.Context) {
	in := service.SignupInput{
		Name:              c.PostForm("name"),
		Username:          c.PostForm("username"),
		Email:             c.PostForm("email"),
		Password:          c.PostForm("password"),
		Role:              c.PostForm("role"),
		Phone:             formString(c, "phone"),
		Address:           formString(c, "address"),
		PreferredCategory: formString(c, "preferredCategory"),
	}

	var saved []string
	if file, err := c.FormFile("profileImage"); err == nil {
		name, err := h.saveUpload(c, file)
		if err != nil {
			respondMessage(c, http.StatusBadRequest, "Invalid profile image: "+err.Error())
			return
		}
		saved = append(saved, name)
		in.ProfileImage = &name
	}

	user, err := h.Auth.Signup(c.Request.Context(), in)
	if err != nil {
		h.removeUploads(saved)
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Signup successful", user)
}

type loginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=buyer seller"`
}

// Login handles POST /api/auth/login.
func (h *Handlers) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondMessage(c, http.StatusBadRequest, "Email, password and role (buyer or seller) are required")
		return
	}

	token, user, err := h.Auth.Login(c.Request.Context(), input.Email, input.Password, input.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Login successful", gin.H{"token": token, "user": user})
}

func (h *Handlers) Me(c *gin.Context) {
	userID, _ := identity(c)
	user, err := h.Auth.Me(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Profile fetched", user)
}

// UpdateMe handles PUT /api/auth/me. Only the fields sent are changed.
func (h *Handlers) UpdateMe(c *gin.Context) {
	userID, _ := identity(c)
	p := repository.ProfileUpdate{
		Name:              formString(c, "name"),
		Phone:             formString(c, "phone"),
		Address:           formString(c, "address"),
		PreferredCategory: formString(c, "preferredCategory"),
	}

	var saved []string
	if file, err := c.FormFile("profileImage"); err == nil {
		name, err := h.saveUpload(c, file)
		if err != nil {
			respondMessage(c, http.StatusBadRequest, "Invalid profile image: "+err.Error())
			return
		}
		saved = append(saved, name)
		p.ProfileImage = &name
	}

	user, err := h.Auth.UpdateMe(c.Request.Context(), userID, p)
	if err != nil {
		h.removeUploads(saved)
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Update successful", user)
}
