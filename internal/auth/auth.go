package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/thekillingspree/quick-entry/internal/model"
)

// Identity kinds carried in a token.
const (
	KindUser  = "user"
	KindAdmin = "admin"
)

var (
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidCredentials = errors.New("username or password incorrect")
)

// Claims is the verified identity carried by a token. Subject holds the
// account ID.
type Claims struct {
	Kind     string `json:"kind"`
	Username string `json:"username"`
	FullName string `json:"fullname,omitempty"`
	TecID    string `json:"tecid,omitempty"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// AccountID returns the numeric account ID from the token subject.
func (c *Claims) AccountID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// Service issues and verifies HS256 tokens and hashes passwords.
type Service struct {
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

// NewService creates an auth service with the given signing secret.
func NewService(secret string, tokenTTL time.Duration) *Service {
	return &Service{secret: []byte(secret), tokenTTL: tokenTTL, now: time.Now}
}

// HashPassword hashes a plaintext password with bcrypt.
func (s *Service) HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckPassword compares a plaintext password against a stored bcrypt hash.
func (s *Service) CheckPassword(hash, plain string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// IssueUserToken signs a token for a user account.
func (s *Service) IssueUserToken(user *model.User) (string, error) {
	return s.sign(Claims{
		Kind:     KindUser,
		Username: user.Username,
		FullName: user.FullName,
		TecID:    user.TecID,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: strconv.FormatInt(user.ID, 10),
		},
	})
}

// IssueAdminToken signs a token for an admin account.
func (s *Service) IssueAdminToken(admin *model.Admin) (string, error) {
	return s.sign(Claims{
		Kind:     KindAdmin,
		Username: admin.Username,
		FullName: admin.FName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: strconv.FormatInt(admin.ID, 10),
		},
	})
}

func (s *Service) sign(claims Claims) (string, error) {
	now := s.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.tokenTTL))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses and validates a signed token. Only HS256 is accepted.
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
