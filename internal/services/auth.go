package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jaatdharmendra53-star/Svbh-help/internal/models"
	"github.com/jaatdharmendra53-star/Svbh-help/internal/store"
)

// Reserved warden identity. Entering this name switches the login form into
// the staff path; the synthesized profile is fixed and never persisted to
// the users table.
const (
	wardenName = "warden"

	WardenUID  = "WARDEN_ROOT"
	wardenRoom = "W-01"
)

// Login validation errors, surfaced to the user as short recoverable
// messages.
var (
	ErrNotInDirectory = errors.New("registration number not in directory")
	ErrNameMismatch   = errors.New("details mismatch")
	ErrRoomRequired   = errors.New("room number required")
	ErrWrongPIN       = errors.New("incorrect warden PIN")
)

// AuthService resolves login attempts into persisted session profiles.
// It is the only place a UserProfile is created or loaded.
type AuthService struct {
	store      store.Store
	sessions   SessionStore
	logger     *zap.SugaredLogger
	jwtSecret  []byte
	pinHash    []byte
	sessionTTL time.Duration
}

// NewAuthService creates an auth service. pinHash is the bcrypt hash of the
// shared warden PIN.
func NewAuthService(s store.Store, sessions SessionStore, logger *zap.SugaredLogger, jwtSecret string, pinHash []byte, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		store:      s,
		sessions:   sessions,
		logger:     logger,
		jwtSecret:  []byte(jwtSecret),
		pinHash:    pinHash,
		sessionTTL: sessionTTL,
	}
}

// Login resolves a login attempt into a profile, persists a session for it,
// and mints the session token. The staff path triggers when the entered
// name case-insensitively equals the reserved warden literal; everything
// else takes the student directory path.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.UserProfile, string, error) {
	var (
		profile *models.UserProfile
		err     error
	)

	if strings.EqualFold(strings.TrimSpace(req.Name), wardenName) {
		profile, err = s.wardenLogin(req.PIN)
	} else {
		profile, err = s.studentLogin(ctx, req)
	}
	if err != nil {
		return nil, "", err
	}

	sessionID := uuid.New().String()
	if err := s.sessions.Save(ctx, sessionID, profile); err != nil {
		return nil, "", fmt.Errorf("save session: %w", err)
	}

	token, err := s.mintToken(sessionID, profile)
	if err != nil {
		return nil, "", fmt.Errorf("mint token: %w", err)
	}

	s.logger.Infow("Login", "uid", profile.UID, "role", profile.Role, "floor", profile.Floor)
	return profile, token, nil
}

// Logout removes the session blob; the token becomes useless immediately.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// wardenLogin grants the fixed staff profile when the shared PIN matches.
func (s *AuthService) wardenLogin(pin string) (*models.UserProfile, error) {
	if bcrypt.CompareHashAndPassword(s.pinHash, []byte(pin)) != nil {
		return nil, ErrWrongPIN
	}
	return &models.UserProfile{
		UID:        WardenUID,
		Name:       "Warden Admin",
		Email:      "warden@svbh.edu",
		Role:       models.RoleWarden,
		Floor:      0,
		RoomNumber: wardenRoom,
		RegNo:      "WARDEN",
		Branch:     "Management",
	}, nil
}

// studentLogin validates the claimed name/regNo pair against the resident
// directory, then loads the sticky profile or creates one on first login.
func (s *AuthService) studentLogin(ctx context.Context, req *models.LoginRequest) (*models.UserProfile, error) {
	regNo := strings.TrimSpace(req.RegNo)

	canonical, err := s.store.DirectoryName(ctx, regNo)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotInDirectory
	}
	if err != nil {
		return nil, fmt.Errorf("directory lookup: %w", err)
	}
	if !strings.EqualFold(canonical, strings.TrimSpace(req.Name)) {
		return nil, ErrNameMismatch
	}

	// Room and floor are sticky after the first login.
	existing, err := s.store.GetUserProfile(ctx, regNo)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	if req.RoomNumber == "" {
		return nil, ErrRoomRequired
	}

	profile := &models.UserProfile{
		UID:        regNo,
		Name:       canonical,
		Email:      regNo + "@svbh.edu",
		Role:       models.RoleStudent,
		Floor:      FloorFromRoom(req.RoomNumber),
		RoomNumber: req.RoomNumber,
		RegNo:      regNo,
		Branch:     "Student",
	}
	if err := s.store.SaveUserProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	s.logger.Infow("New student profile", "regNo", regNo, "floor", profile.Floor)
	return profile, nil
}

func (s *AuthService) mintToken(sessionID string, profile *models.UserProfile) (string, error) {
	claims := jwt.MapClaims{
		"sid":  sessionID,
		"uid":  profile.UID,
		"role": profile.Role,
		"exp":  time.Now().Add(s.sessionTTL).Unix(),
		"iat":  time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

// FloorFromRoom derives the floor from the hostel's room numbering
// convention: floor = room / 100, falling back to floor 1 when the room
// number does not parse or lands on floor 0.
func FloorFromRoom(room string) int {
	n, err := strconv.Atoi(strings.TrimSpace(room))
	if err != nil {
		return 1
	}
	floor := n / 100
	if floor == 0 {
		return 1
	}
	return floor
}
