package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/01moynul/campusmart/internal/auth"
	"github.com/01moynul/campusmart/internal/models"
	"github.com/01moynul/campusmart/internal/repository"
)

type AuthService struct {
	users         UserStore
	tokens        *auth.TokenManager
	sellerDomains []string
}

func NewAuthService(users UserStore, tokens *auth.TokenManager, sellerDomains []string) *AuthService {
	return &AuthService{users: users, tokens: tokens, sellerDomains: sellerDomains}
}

type SignupInput struct {
	Name              string
	Username          string
	Email             string
	Password          string
	Role              string
	Phone             *string
	Address           *string
	PreferredCategory *string
	ProfileImage      *string
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.TrimSpace(in.Username)
	in.Name = strings.TrimSpace(in.Name)

	if in.Name == "" || in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, Validation("Name, username, email and password are required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, Validation("Invalid email address")
	}
	if len(in.Password) < 6 {
		return nil, Validation("Password must be at least 6 characters")
	}
	if in.Role != models.RoleBuyer && in.Role != models.RoleSeller {
		return nil, Validation("Role must be buyer or seller")
	}
	if in.Role == models.RoleSeller && !s.campusEmail(in.Email) {
		return nil, Validation("Sellers must register with a campus email address")
	}

	// Checked up front for clear messages; the unique keys still catch races.
	if _, err := s.users.GetByEmailAndRole(ctx, in.Email, in.Role); err == nil {
		return nil, Validation("Email already registered as " + in.Role)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, Internal(err)
	}
	taken, err := s.users.UsernameTaken(ctx, in.Username)
	if err != nil {
		return nil, Internal(err)
	}
	if taken {
		return nil, Validation("Username already taken")
	}

	var pw models.Password
	if err := pw.Set(in.Password); err != nil {
		return nil, Internal(err)
	}

	u := &models.User{
		Name:              in.Name,
		Username:          in.Username,
		Email:             in.Email,
		Role:              in.Role,
		PasswordHash:      pw.Hash,
		Phone:             in.Phone,
		Address:           in.Address,
		PreferredCategory: in.PreferredCategory,
		ProfileImage:      in.ProfileImage,
	}
	if err := s.users.Create(ctx, u); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, Validation("Username already taken")
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, Validation("Email already registered as " + in.Role)
		}
		return nil, Internal(err)
	}
	return u, nil
}

func (s *AuthService) campusEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := email[at+1:]
	for _, d := range s.sellerDomains {
		if strings.EqualFold(domain, d) {
			return true
		}
	}
	return false
}

// Login checks the credentials for the given role and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password, role string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" || role == "" {
		return "", nil, Validation("Email, password and role are required")
	}

	u, err := s.users.GetByEmailAndRole(ctx, email, role)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, Unauthorized("Invalid credentials")
	}
	if err != nil {
		return "", nil, Internal(err)
	}

	pw := models.Password{Hash: u.PasswordHash}
	ok, err := pw.Matches(password)
	if err != nil {
		return "", nil, Internal(err)
	}
	if !ok {
		return "", nil, Unauthorized("Invalid credentials")
	}

	token, err := s.tokens.GenerateToken(u.ID, u.Role)
	if err != nil {
		return "", nil, Internal(err)
	}
	return token, u, nil
}

func (s *AuthService) Me(ctx context.Context, userID int64) (*models.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("User not found")
	}
	if err != nil {
		return nil, Internal(err)
	}
	return u, nil
}

func (s *AuthService) UpdateMe(ctx context.Context, userID int64, p repository.ProfileUpdate) (*models.User, error) {
	if p.Name != nil {
		trimmed := strings.TrimSpace(*p.Name)
		if trimmed == "" {
			return nil, Validation("Name cannot be empty")
		}
		p.Name = &trimmed
	}
	if _, err := s.Me(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.users.UpdateProfile(ctx, userID, p); err != nil {
		return nil, Internal(err)
	}
	return s.Me(ctx, userID)
}
