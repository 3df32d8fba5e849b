// Package token signs and verifies every credential the storefront issues:
//
//   - access tokens: short-lived, carried as a bearer header on each request
//   - refresh tokens: long-lived, exchanged for fresh access tokens
//   - OTP tokens: single-use, carry a 6-digit code for account activation and
//     password-reset confirmation
//   - reset tokens: the short-lived credential handed out after a successful
//     OTP verification, consumed by the password-reset endpoint
//
// Each kind signs with its own HS256 secret. Password hashing lives here too
// so callers deal with one package for credentials.
package token

import (
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shashiranjanraj/villageangel/config"
	"golang.org/x/crypto/bcrypt"
)

// Default lifetimes. Overridable via config keys of the same spelling.
const (
	DefaultAccessTTL     = 15 * time.Minute
	DefaultRefreshTTL    = 7 * 24 * time.Hour
	DefaultActivationTTL = 48 * time.Hour
	DefaultResetOTPTTL   = 5 * time.Minute
	DefaultResetTTL      = 15 * time.Minute
)

// OTP purposes. The purpose is embedded in the token and checked on
// verification so an activation token cannot be replayed as a reset token.
const (
	PurposeActivation     = "activation"
	PurposeForgotPassword = "forgotPassword"
)

var (
	ErrInvalidToken   = errors.New("token: invalid token")
	ErrWrongPurpose   = errors.New("token: wrong purpose")
	ErrBadCredentials = errors.New("token: invalid credentials")
)

// Claims is the typed payload of access and refresh tokens.
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// OTPClaims is the typed payload of OTP and reset tokens. Code is zero on
// reset tokens (they are minted only after the code was already checked).
type OTPClaims struct {
	UserName string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Code     int    `json:"code,omitempty"`
	Purpose  string `json:"type"`
	jwt.RegisteredClaims
}

// Remaining is the time left until the claims expire. Used-token
// markers take this as their TTL so the marker dies with the token
// instead of outliving it, whatever lifetime the token was signed with.
func (c *OTPClaims) Remaining() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return time.Until(c.ExpiresAt.Time)
}

func AccessTTL() time.Duration  { return config.Duration("ACCESS_TOKEN_TTL", DefaultAccessTTL) }
func RefreshTTL() time.Duration { return config.Duration("REFRESH_TOKEN_TTL", DefaultRefreshTTL) }

func otpTTL(purpose string) time.Duration {
	if purpose == PurposeActivation {
		return config.Duration("ACTIVATION_TOKEN_TTL", DefaultActivationTTL)
	}
	return config.Duration("RESET_OTP_TTL", DefaultResetOTPTTL)
}

func otpSecret(purpose string) []byte {
	if purpose == PurposeActivation {
		return []byte(config.ActivationTokenSecret())
	}
	return []byte(config.ResetTokenSecret())
}

// ── Access / refresh ─────────────────────────────────────────────────────────

// GenerateAccess creates a signed short-lived access token.
func GenerateAccess(userID uint, email, role string) (string, error) {
	return signIdentity(userID, email, role, AccessTTL(), config.AccessTokenSecret())
}

// GenerateRefresh creates a signed long-lived refresh token.
func GenerateRefresh(userID uint, email, role string) (string, error) {
	return signIdentity(userID, email, role, RefreshTTL(), config.RefreshTokenSecret())
}

func signIdentity(userID uint, email, role string, ttl time.Duration, secret string) (string, error) {
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ValidateAccess parses and validates an access token.
func ValidateAccess(t string) (*Claims, error) {
	return validateIdentity(t, config.AccessTokenSecret())
}

// ValidateRefresh parses and validates a refresh token.
func ValidateRefresh(t string) (*Claims, error) {
	return validateIdentity(t, config.RefreshTokenSecret())
}

func validateIdentity(t, secret string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(t, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ── OTP / reset ──────────────────────────────────────────────────────────────

// GenerateOTP creates a single-use OTP token for the given purpose and returns
// the token together with its 6-digit code. The code travels out of band (it
// would go in an email; this deployment only logs it) while the token goes to
// the client verbatim.
func GenerateOTP(username, email, role, purpose string) (tok string, code int, err error) {
	code, err = randomCode()
	if err != nil {
		return "", 0, err
	}

	claims := OTPClaims{
		UserName: username,
		Email:    email,
		Role:     role,
		Code:     code,
		Purpose:  purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(otpTTL(purpose))),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	tok, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(otpSecret(purpose))
	return tok, code, err
}

// GenerateReset creates the password-reset token issued after a successful OTP
// verification. It carries no code and lives 15 minutes.
func GenerateReset(username, email string) (string, error) {
	claims := OTPClaims{
		UserName: username,
		Email:    email,
		Purpose:  PurposeForgotPassword,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(config.Duration("RESET_TOKEN_TTL", DefaultResetTTL))),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(config.ResetTokenSecret()))
}

// ValidateReset parses and validates a password-reset token.
func ValidateReset(t string) (*OTPClaims, error) {
	return ValidateOTP(t, PurposeForgotPassword)
}

// ValidateOTP parses an OTP or reset token and checks its purpose.
func ValidateOTP(t, purpose string) (*OTPClaims, error) {
	parsed, err := jwt.ParseWithClaims(t, &OTPClaims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return otpSecret(purpose), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*OTPClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != purpose {
		return nil, ErrWrongPurpose
	}

	return claims, nil
}

func randomCode() (int, error) {
	// 100000–999999 inclusive.
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()) + 100000, nil
}

// ── Passwords ────────────────────────────────────────────────────────────────

// HashPassword returns a bcrypt hash of the plain-text password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
