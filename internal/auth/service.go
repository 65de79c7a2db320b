package auth

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"campusquery/internal/apperror"
)

const tokenDuration = 24 * time.Hour

type UserService struct {
	store  UserStore
	logger *zap.Logger
}

func NewUserService(store UserStore, logger *zap.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

func validateRegister(req RegisterRequest) (Role, error) {
	if strings.TrimSpace(req.Name) == "" {
		return "", apperror.Validation("Name is required")
	}
	if !strings.Contains(req.Email, "@") {
		return "", apperror.Validation("A valid email is required")
	}
	if len(req.Password) < 6 {
		return "", apperror.Validation("Password must be at least 6 characters")
	}
	if req.Role == "" {
		return RoleStudent, nil
	}
	role, ok := ParseRole(req.Role)
	if !ok {
		return "", apperror.Validation("Unknown role: " + req.Role)
	}
	return role, nil
}

// RegisterUser creates an identity and returns it with a fresh bearer token.
func (s *UserService) RegisterUser(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	role, err := validateRegister(req)
	if err != nil {
		return AuthResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return AuthResponse{}, apperror.Internal(err)
	}
	if existing != nil {
		return AuthResponse{}, apperror.Conflict("Email already registered")
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return AuthResponse{}, apperror.Internal(err)
	}

	user := &User{
		ID:           primitive.NewObjectID(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Department:   strings.TrimSpace(req.Department),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if apperror.Code(err) == apperror.CodeConflict {
			return AuthResponse{}, err
		}
		return AuthResponse{}, apperror.Internal(err)
	}

	token, err := GenerateJWT(user, tokenDuration)
	if err != nil {
		return AuthResponse{}, apperror.Internal(err)
	}

	s.logger.Info("User registered", zap.String("email", user.Email), zap.String("role", string(user.Role)))
	return NewAuthResponse(user, token), nil
}

// AuthenticateUser checks credentials and returns the identity with a token.
// Unknown email and wrong password produce the same error shape.
func (s *UserService) AuthenticateUser(ctx context.Context, cred Credential) (AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(cred.Email))
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return AuthResponse{}, apperror.Internal(err)
	}
	if user == nil || !CheckPasswordHash(cred.Password, user.PasswordHash) {
		return AuthResponse{}, apperror.Unauthenticated("Invalid credentials")
	}

	token, err := GenerateJWT(user, tokenDuration)
	if err != nil {
		return AuthResponse{}, apperror.Internal(err)
	}
	return NewAuthResponse(user, token), nil
}
