package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"beercomi.dev/BeerComi/pkg/auth"
	"beercomi.dev/BeerComi/pkg/storage"
)

type signupRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name" binding:"required,min=2,max=40"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) Signup(c *gin.Context) {
	var request signupRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		s.badRequest(c, bindingMessage(err))

		return
	}

	hash, err := auth.HashPassword(request.Password)
	if err != nil {
		s.respondError(c, err)

		return
	}

	user, err := s.repository.AddUser(c.Request.Context(), request.Email, hash, request.DisplayName)
	if err != nil {
		s.respondError(c, err)

		return
	}

	token, err := s.auth.IssueToken(user)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

func (s *Server) Login(c *gin.Context) {
	var request loginRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		s.badRequest(c, bindingMessage(err))

		return
	}

	user, err := s.repository.GetUserByEmail(c.Request.Context(), request.Email)
	if err != nil || !auth.CheckPassword(user.Password, request.Password) {
		// Same response for unknown email and wrong password.
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})

		return
	}

	token, err := s.auth.IssueToken(user)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

func (s *Server) ListUsers(c *gin.Context) {
	users, err := s.repository.GetUsers(c.Request.Context())
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"data": users})
}

func (s *Server) GetUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		s.badRequest(c, "invalid user id")

		return
	}

	user, err := s.repository.GetUserByID(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}

type updateProfileRequest struct {
	PresentLocation string `json:"present_location" binding:"max=100"`
	Introduction    string `json:"introduction" binding:"max=500"`
}

func (s *Server) UpdateUserProfile(c *gin.Context) {
	id, _, ok := s.subjectUser(c)
	if !ok {
		return
	}

	var request updateProfileRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		s.badRequest(c, bindingMessage(err))

		return
	}

	if err := s.repository.UpdateUserProfile(c.Request.Context(), id, request.PresentLocation, request.Introduction); err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"data": "updated"})
}

type updatePasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}

func (s *Server) UpdateUserPassword(c *gin.Context) {
	id, _, ok := s.subjectUser(c)
	if !ok {
		return
	}

	var request updatePasswordRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		s.badRequest(c, bindingMessage(err))

		return
	}

	hash, err := auth.HashPassword(request.Password)
	if err != nil {
		s.respondError(c, err)

		return
	}

	if err = s.repository.UpdateUserPassword(c.Request.Context(), id, hash); err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"data": "updated"})
}

type updateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=basic admin"`
}

func (s *Server) UpdateUserRole(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		s.badRequest(c, "invalid user id")

		return
	}

	var request updateRoleRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		s.badRequest(c, bindingMessage(err))

		return
	}

	if err := s.repository.UpdateUserRole(c.Request.Context(), id, request.Role); err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"data": "updated"})
}

func (s *Server) DeleteUser(c *gin.Context) {
	id, _, ok := s.subjectUser(c)
	if !ok {
		return
	}

	user, err := s.repository.GetUserByID(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)

		return
	}

	if err = s.repository.DeleteUser(c.Request.Context(), id); err != nil {
		s.respondError(c, err)

		return
	}

	if user.ProfileImgURL != nil {
		s.uploads.RemoveAll([]string{*user.ProfileImgURL})
	}

	c.JSON(http.StatusOK, gin.H{"data": "deleted"})
}

// UploadUserAvatar stages the image, points the user row at it and
// promotes the file only after the row is saved.
func (s *Server) UploadUserAvatar(c *gin.Context) {
	id, _, ok := s.subjectUser(c)
	if !ok {
		return
	}

	staged, ok := s.stageUpload(c, "image", storage.FlatImagePath(time.Now()))
	if !ok {
		return
	}

	previous, err := s.repository.SetUserAvatar(c.Request.Context(), id, staged.FinalPath())
	if err != nil {
		_ = staged.Discard()
		s.respondError(c, err)

		return
	}

	if err = staged.Promote(); err != nil {
		s.respondError(c, err)

		return
	}

	if previous != nil {
		s.uploads.RemoveAll([]string{*previous})
	}

	c.JSON(http.StatusOK, gin.H{"data": staged.FinalPath()})
}

// subjectUser resolves the :id parameter and enforces that only the
// user themselves or an admin may act on the account.
func (s *Server) subjectUser(c *gin.Context) (uint, auth.Principal, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		s.badRequest(c, "invalid user id")

		return 0, auth.Principal{}, false
	}

	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})

		return 0, auth.Principal{}, false
	}

	if principal.UserID != id && !principal.IsAdmin() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not allowed for this account"})

		return 0, auth.Principal{}, false
	}

	return id, principal, true
}
