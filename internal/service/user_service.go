package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"marketplace-backend/internal/auth"
	"marketplace-backend/internal/entity"
	"marketplace-backend/internal/repository"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

var (
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrSessionRevoked means the token is cryptographically valid but its
	// session was ended by logout.
	ErrSessionRevoked = errors.New("session revoked")
)

type UserService struct {
	userRepo     repository.UserRepository
	cartRepo     repository.CartRepository
	wishlistRepo repository.WishlistRepository
	rdb          *redis.Client
	jwtSecret    []byte
}

// NewUserService creates a new instance of UserService.
func NewUserService(userRepo repository.UserRepository, cartRepo repository.CartRepository, wishlistRepo repository.WishlistRepository, rdb *redis.Client, jwtSecret []byte) *UserService {
	return &UserService{
		userRepo:     userRepo,
		cartRepo:     cartRepo,
		wishlistRepo: wishlistRepo,
		rdb:          rdb,
		jwtSecret:    jwtSecret,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
	Phone    string
	Address  string
}

// Register creates a user. Buyers get their cart and wishlist rows up
// front; sellers start unapproved.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	role := in.Role
	if role == "" {
		role = entity.RoleBuyer
	}
	if role != entity.RoleBuyer && role != entity.RoleSeller {
		return nil, fmt.Errorf("%w: role must be buyer or seller", repository.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		Phone:        in.Phone,
		Address:      in.Address,
	}

	created, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating user")
		return nil, err
	}

	if created.Role == entity.RoleBuyer {
		if _, err := s.cartRepo.GetOrCreateCart(ctx, created.ID); err != nil {
			logger.Error().Err(err).Msgf("Error creating cart for user %d", created.ID)
		}
		if _, err := s.wishlistRepo.GetOrCreateWishlist(ctx, created.ID); err != nil {
			logger.Error().Err(err).Msgf("Error creating wishlist for user %d", created.ID)
		}
	}

	return created, nil
}

// Login validates credentials and issues a 24h JWT. The token is mirrored
// into redis keyed by email so sessions can be inspected and revoked.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	claims := &auth.Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := tkn.SignedString(s.jwtSecret)
	if err != nil {
		return "", err
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, sessionKey(email), t, 24*time.Hour).Err(); err != nil {
			logger.Error().Err(err).Msg("Error storing session")
		}
	}

	return t, nil
}

// ValidateSession checks that the token is still the live session for the
// account. Logout deletes the session key, revoking every copy of the
// token before its expiry.
func (s *UserService) ValidateSession(ctx context.Context, email, token string) error {
	if s.rdb == nil {
		return nil
	}
	stored, err := s.rdb.Get(ctx, sessionKey(email)).Result()
	if err != nil || stored != token {
		return ErrSessionRevoked
	}
	return nil
}

// Logout ends the actor's session.
func (s *UserService) Logout(ctx context.Context, actor *entity.User) error {
	if actor == nil {
		return auth.ErrForbidden
	}
	if s.rdb == nil {
		return nil
	}
	if err := s.rdb.Del(ctx, sessionKey(actor.Email)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (*entity.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting user by ID %d", id)
		return nil, err
	}
	return user, nil
}

// ApplySeller flips a buyer to an unapproved seller awaiting moderation.
func (s *UserService) ApplySeller(ctx context.Context, actor *entity.User) (*entity.User, error) {
	if actor == nil {
		return nil, auth.ErrForbidden
	}
	if actor.Role == entity.RoleSeller {
		return nil, fmt.Errorf("%w: already a seller", repository.ErrInvalidInput)
	}

	actor.Role = entity.RoleSeller
	actor.SellerApproved = false
	if err := s.userRepo.UpdateUser(ctx, actor); err != nil {
		logger.Error().Err(err).Msgf("Error updating user %d", actor.ID)
		return nil, err
	}
	return actor, nil
}

func (s *UserService) ApproveSeller(ctx context.Context, actor *entity.User, userID int) (*entity.User, error) {
	if err := auth.Authorize(actor, auth.CapModerate); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != entity.RoleSeller {
		return nil, fmt.Errorf("%w: user %d is not a seller", repository.ErrInvalidInput, userID)
	}

	user.SellerApproved = true
	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, actor *entity.User, pendingSellersOnly bool) ([]entity.User, error) {
	if err := auth.Authorize(actor, auth.CapModerate); err != nil {
		return nil, err
	}
	return s.userRepo.ListUsers(ctx, pendingSellersOnly)
}

func sessionKey(email string) string {
	return fmt.Sprintf("session:%s", email)
}
