package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/villageangel/app/jobs"
	"github.com/shashiranjanraj/villageangel/app/models"
	"github.com/shashiranjanraj/villageangel/app/repositories"
	"github.com/shashiranjanraj/villageangel/pkg/httperr"
	"github.com/shashiranjanraj/villageangel/pkg/logger"
	"github.com/shashiranjanraj/villageangel/pkg/metrics"
	"github.com/shashiranjanraj/villageangel/pkg/nonce"
	"github.com/shashiranjanraj/villageangel/pkg/queue"
	"github.com/shashiranjanraj/villageangel/pkg/token"
)

// AuthService implements registration, login and the OTP flows.
type AuthService struct {
	users  *repositories.UserRepository
	nonces *nonce.Store
}

func NewAuthService() *AuthService {
	return &AuthService{
		users:  repositories.NewUserRepository(),
		nonces: nonce.Default(),
	}
}

// RegisterInput is the payload accepted by Register.
type RegisterInput struct {
	FullName string `json:"fullName" validate:"required,max=255"`
	UserName string `json:"userName" validate:"required,min=3,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Phone    string `json:"phone"    validate:"required,min=7,max=30"`
	Password string `json:"password" validate:"required,min=6"`
	Address  string `json:"address"  validate:"nullable,max=500"`
	KYCCard  string `json:"kycCard"  validate:"nullable,max=100"`
	Role     string `json:"role"     validate:"nullable,in=USER,ADMIN"`
}

// LoginResult carries the session tokens and the authenticated user.
type LoginResult struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         models.User `json:"user"`
}

// Register creates an account and hands back an activation token. The
// matching 6-digit code travels out of band via the job queue. Admin
// accounts skip activation entirely.
func (s *AuthService) Register(in RegisterInput) (*models.User, string, *httperr.ErrorResponse) {
	if _, err := s.users.FindByUserName(in.UserName); err == nil {
		return nil, "", httperr.BadRequest("Username already taken")
	}
	if _, err := s.users.FindByPhone(in.Phone); err == nil {
		return nil, "", httperr.BadRequest("Phone number already taken")
	}
	if _, err := s.users.FindByEmail(in.Email); err == nil {
		return nil, "", httperr.BadRequest("User already exists")
	}

	hash, err := token.HashPassword(in.Password)
	if err != nil {
		return nil, "", httperr.Internal("Could not process password")
	}

	role := in.Role
	if role == "" {
		role = models.RoleUser
	}

	user := models.User{
		FullName: in.FullName,
		UserName: in.UserName,
		Email:    in.Email,
		Phone:    in.Phone,
		Password: hash,
		Address:  in.Address,
		KYCCard:  in.KYCCard,
		Role:     role,
		// Admins are trusted at creation; everyone else activates by OTP.
		KYCVerified: role == models.RoleAdmin,
	}

	if err := s.users.Create(&user); err != nil {
		return nil, "", httperr.Internal("Could not create user")
	}

	if user.KYCVerified {
		return &user, "", nil
	}

	activationToken, code, err := token.GenerateOTP(user.UserName, user.Email, user.Role, token.PurposeActivation)
	if err != nil {
		return nil, "", httperr.Internal("Could not generate activation token")
	}

	metrics.OTPIssued.WithLabelValues(token.PurposeActivation).Inc()
	s.deliver(&jobs.ActivationCodeJob{Email: user.Email, UserName: user.UserName, Code: code})
	return &user, activationToken, nil
}

// Login verifies credentials and issues the access/refresh token pair.
// Unverified accounts are rejected until they complete activation.
func (s *AuthService) Login(email, password string) (*LoginResult, *httperr.ErrorResponse) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, httperr.NotFound("User not found")
	}

	if !token.CheckPassword(user.Password, password) {
		return nil, httperr.BadRequest("Invalid Password")
	}

	if !user.KYCVerified {
		return nil, httperr.Forbidden("User is not verified yet!")
	}

	access, err := token.GenerateAccess(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, httperr.Internal("Could not issue tokens")
	}
	refresh, err := token.GenerateRefresh(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, httperr.Internal("Could not issue tokens")
	}

	return &LoginResult{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// account is re-fetched first: a refresh token outlives the user row
// by days, and must stop minting the moment the account is gone.
func (s *AuthService) Refresh(refreshToken string) (string, *httperr.ErrorResponse) {
	claims, err := token.ValidateRefresh(refreshToken)
	if err != nil {
		return "", httperr.Unauthorized("Invalid refresh token")
	}

	user, ferr := s.users.FindByID(claims.UserID)
	if ferr != nil {
		return "", httperr.Unauthorized("User not found")
	}

	access, err := token.GenerateAccess(user.ID, user.Email, user.Role)
	if err != nil {
		return "", httperr.Internal("Could not issue tokens")
	}
	return access, nil
}

// Activate completes registration: the activation token must be live,
// unused, and carry the submitted code. Succeeding marks the account
// verified and burns the token.
func (s *AuthService) Activate(activationToken string, code int) (*models.User, *httperr.ErrorResponse) {
	claims, err := token.ValidateOTP(activationToken, token.PurposeActivation)
	if err != nil {
		return nil, httperr.Unauthorized("Invalid or expired token")
	}

	if claims.Code != code {
		return nil, httperr.BadRequest("Invalid OTP")
	}

	if !s.nonces.Claim(activationToken, claims.Remaining()) {
		return nil, httperr.BadRequest("OTP has already been used")
	}

	user, ferr := s.users.FindByEmail(claims.Email)
	if ferr != nil {
		return nil, httperr.NotFound("User not found")
	}

	user.KYCVerified = true
	if err := s.users.Update(&user); err != nil {
		return nil, httperr.Internal("Could not verify user")
	}
	return &user, nil
}

// ResendActivation issues a fresh activation token and code for an
// account that has not verified yet.
func (s *AuthService) ResendActivation(email string) (string, *httperr.ErrorResponse) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return "", httperr.NotFound("User not found")
	}
	if user.KYCVerified {
		return "", httperr.BadRequest("User is already verified")
	}

	activationToken, code, err := token.GenerateOTP(user.UserName, user.Email, user.Role, token.PurposeActivation)
	if err != nil {
		return "", httperr.Internal("Could not generate activation token")
	}

	metrics.OTPIssued.WithLabelValues(token.PurposeActivation).Inc()
	s.deliver(&jobs.ActivationCodeJob{Email: user.Email, UserName: user.UserName, Code: code})
	return activationToken, nil
}

// ForgotPassword starts the reset flow with a short-lived OTP.
func (s *AuthService) ForgotPassword(email string) (string, *httperr.ErrorResponse) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return "", httperr.NotFound("User not found")
	}

	resetOTP, code, err := token.GenerateOTP(user.UserName, user.Email, user.Role, token.PurposeForgotPassword)
	if err != nil {
		return "", httperr.Internal("Could not generate reset token")
	}

	metrics.OTPIssued.WithLabelValues(token.PurposeForgotPassword).Inc()
	s.deliver(&jobs.ResetCodeJob{Email: user.Email, UserName: user.UserName, Code: code})
	return resetOTP, nil
}

// VerifyResetOTP trades a correct reset code for a reset token that
// authorises exactly one password change.
func (s *AuthService) VerifyResetOTP(otpToken string, code int) (string, *httperr.ErrorResponse) {
	claims, err := token.ValidateOTP(otpToken, token.PurposeForgotPassword)
	if err != nil {
		return "", httperr.Unauthorized("Invalid or expired token")
	}

	if claims.Code != code {
		return "", httperr.BadRequest("Invalid OTP")
	}

	if !s.nonces.Claim(otpToken, claims.Remaining()) {
		return "", httperr.BadRequest("OTP has already been used")
	}

	resetToken, err := token.GenerateReset(claims.UserName, claims.Email)
	if err != nil {
		return "", httperr.Internal("Could not generate reset token")
	}
	return resetToken, nil
}

// ResetPassword sets a new password for the account named by a live,
// unused reset token.
func (s *AuthService) ResetPassword(resetToken, newPassword string) *httperr.ErrorResponse {
	claims, err := token.ValidateReset(resetToken)
	if err != nil {
		return httperr.Unauthorized("Invalid or expired token")
	}

	if !s.nonces.Claim(resetToken, claims.Remaining()) {
		return httperr.BadRequest("Reset token has already been used")
	}

	user, ferr := s.users.FindByEmail(claims.Email)
	if ferr != nil {
		if errors.Is(ferr, gorm.ErrRecordNotFound) {
			return httperr.NotFound("User not found")
		}
		return httperr.Internal("Could not reset password")
	}

	hash, err := token.HashPassword(newPassword)
	if err != nil {
		return httperr.Internal("Could not process password")
	}

	user.Password = hash
	if err := s.users.Update(&user); err != nil {
		return httperr.Internal("Could not reset password")
	}
	return nil
}

// Lookup adapts the repository for the auth middleware's user check.
func (s *AuthService) Lookup(id uint) (email, role string, ok bool) {
	user, err := s.users.FindByID(id)
	if err != nil {
		return "", "", false
	}
	return user.Email, user.Role, true
}

// deliver queues a job, degrading to a log line if the queue rejects it
// so an outbound-mail hiccup never fails the request.
func (s *AuthService) deliver(job queue.Job) {
	if err := queue.Dispatch(job); err != nil {
		logger.Error("auth: could not queue delivery", "error", err)
	}
}
