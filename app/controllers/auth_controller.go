package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/villageangel/app/resources"
	"github.com/shashiranjanraj/villageangel/app/services"
	"github.com/shashiranjanraj/villageangel/config"
	"github.com/shashiranjanraj/villageangel/pkg/bind"
	"github.com/shashiranjanraj/villageangel/pkg/httperr"
	"github.com/shashiranjanraj/villageangel/pkg/middleware"
	"github.com/shashiranjanraj/villageangel/pkg/resource"
	"github.com/shashiranjanraj/villageangel/pkg/response"
	"github.com/shashiranjanraj/villageangel/pkg/token"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController() *AuthController {
	return &AuthController{service: services.NewAuthService()}
}

// Register creates an account and returns the activation token the
// client needs for the verify-otp step.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, err.Error(), http.StatusBadRequest)
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, activationToken, herr := c.service.Register(in)
	if herr != nil {
		response.Error(w, herr)
		return
	}

	extra := response.Payload{
		"user": resource.New(&resources.UserResource{}, *user),
	}
	if activationToken != "" {
		extra["activationToken"] = activationToken
	}
	response.Created(w, "User registered successfully", extra)
}

// Login issues the access/refresh pair, in the body and as cookies.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"    validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, err.Error(), http.StatusBadRequest)
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, herr := c.service.Login(in.Email, in.Password)
	if herr != nil {
		response.Error(w, herr)
		return
	}

	setAuthCookies(w, result.AccessToken, result.RefreshToken)
	response.Success(w, "Login successful", response.Payload{
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
		"user":         resource.New(&resources.UserResource{}, result.User),
	})
}

// Refresh exchanges the refresh token (header, cookie or body) for a
// fresh access token.
func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	refresh := r.Header.Get(middleware.RefreshHeader)
	if refresh == "" {
		if cookie, err := r.Cookie("refreshToken"); err == nil {
			refresh = cookie.Value
		}
	}
	if refresh == "" {
		var in struct {
			RefreshToken string `json:"refreshToken"`
		}
		_, _ = bind.JSON(r, &in)
		refresh = in.RefreshToken
	}
	if refresh == "" {
		response.Fail(w, "Invalid refresh token", http.StatusUnauthorized)
		return
	}

	access, herr := c.service.Refresh(refresh)
	if herr != nil {
		response.Error(w, herr)
		return
	}

	w.Header().Set(middleware.NewAccessHeader, access)
	setCookie(w, "accessToken", access, int(token.AccessTTL().Seconds()))
	response.Success(w, "Token refreshed", response.Payload{"accessToken": access})
}

// Logout clears the auth cookies. Tokens already issued simply age out.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	setCookie(w, "accessToken", "", -1)
	setCookie(w, "refreshToken", "", -1)
	response.Success(w, "Logged out", nil)
}

// Activate verifies the activation OTP and unlocks the account.
func (c *AuthController) Activate(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Token string `json:"token" validate:"required"`
		Code  int    `json:"code"  validate:"required"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, err.Error(), http.StatusBadRequest)
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, herr := c.service.Activate(in.Token, in.Code)
	if herr != nil {
		response.Error(w, herr)
		return
	}

	response.Success(w, "Account verified successfully", response.Payload{
		"user": resource.New(&resources.UserResource{}, *user),
	})
}

// ResendActivation reissues the activation token and code.
func (c *AuthController) ResendActivation(w http.ResponseWriter, r *http.Request) {
	email, ok := bindEmail(w, r)
	if !ok {
		return
	}

	activationToken, herr := c.service.ResendActivation(email)
	if herr != nil {
		response.Error(w, herr)
		return
	}
	response.Success(w, "Activation code sent", response.Payload{"activationToken": activationToken})
}

// ForgotPassword starts the password-reset flow.
func (c *AuthController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	email, ok := bindEmail(w, r)
	if !ok {
		return
	}

	otpToken, herr := c.service.ForgotPassword(email)
	if herr != nil {
		response.Error(w, herr)
		return
	}
	response.Success(w, "Password reset code sent", response.Payload{"forgotPasswordToken": otpToken})
}

// VerifyResetOTP trades the reset code for a reset token.
func (c *AuthController) VerifyResetOTP(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Token string `json:"token" validate:"required"`
		Code  int    `json:"code"  validate:"required"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, err.Error(), http.StatusBadRequest)
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	resetToken, herr := c.service.VerifyResetOTP(in.Token, in.Code)
	if herr != nil {
		response.Error(w, herr)
		return
	}
	response.Success(w, "Code verified", response.Payload{"resetToken": resetToken})
}

// ResetPassword sets a new password using the reset token.
func (c *AuthController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Token    string `json:"token"    validate:"required"`
		Password string `json:"password" validate:"required,min=6"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, err.Error(), http.StatusBadRequest)
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if herr := c.service.ResetPassword(in.Token, in.Password); herr != nil {
		response.Error(w, herr)
		return
	}
	response.Success(w, "Password reset successfully", nil)
}

// Profile returns the authenticated user.
func (c *AuthController) Profile(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Error(w, httperr.Unauthorized("No access token provided"))
		return
	}

	email, role, found := c.service.Lookup(id)
	if !found {
		response.Error(w, httperr.NotFound("User not found"))
		return
	}

	response.Success(w, "", response.Payload{
		"user": response.Payload{"id": id, "email": email, "role": role},
	})
}

func bindEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	var in struct {
		Email string `json:"email" validate:"required,email"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, err.Error(), http.StatusBadRequest)
		return "", false
	} else if errs != nil {
		response.ValidationError(w, errs)
		return "", false
	}
	return in.Email, true
}

func setAuthCookies(w http.ResponseWriter, access, refresh string) {
	setCookie(w, "accessToken", access, int(token.AccessTTL().Seconds()))
	setCookie(w, "refreshToken", refresh, int(token.RefreshTTL().Seconds()))
}

func setCookie(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   config.AppEnv() == "production",
		SameSite: http.SameSiteLaxMode,
	})
}
