package controllers

import (
	"net/http"

	"github.com/ndthang/techmart/app/resources"
	"github.com/ndthang/techmart/app/services"
	"github.com/ndthang/techmart/pkg/bind"
	"github.com/ndthang/techmart/pkg/middleware"
	"github.com/ndthang/techmart/pkg/response"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if errs, err := bind.JSON(w, r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.auth.Register(r.Context(), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, resources.User(user))
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"    validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if errs, err := bind.JSON(w, r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	token, user, err := c.auth.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]interface{}{
		"token": token,
		"user":  resources.User(user),
	})
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.TokenFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	if err := c.auth.Logout(token); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"status": "logged out"})
}

func (c *AuthController) Profile(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromCtx(r)

	user, err := c.auth.Profile(r.Context(), userID)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, resources.User(user))
}

func (c *AuthController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromCtx(r)

	var in services.ProfileInput
	if errs, err := bind.JSON(w, r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.auth.UpdateProfile(r.Context(), userID, in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, resources.User(user))
}
