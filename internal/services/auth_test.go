package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jaatdharmendra53-star/Svbh-help/internal/models"
	"github.com/jaatdharmendra53-star/Svbh-help/internal/services"
	"github.com/jaatdharmendra53-star/Svbh-help/internal/store"
)

const testJWTSecret = "test-secret"

func newAuthService(t *testing.T, mem *store.Memory) (*services.AuthService, *services.MemorySessionStore) {
	t.Helper()
	pinHash, err := bcrypt.GenerateFromPassword([]byte("warden123"), bcrypt.MinCost)
	require.NoError(t, err)
	sessions := services.NewMemorySessionStore()
	return services.NewAuthService(mem, sessions, zap.NewNop().Sugar(), testJWTSecret, pinHash, time.Hour), sessions
}

func TestLogin_FirstTimeStudent(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	mem.SeedDirectory("21CS045", "Asha Rao")
	svc, sessions := newAuthService(t, mem)

	profile, token, err := svc.Login(ctx, &models.LoginRequest{
		Name: "asha rao", RegNo: "21CS045", RoomNumber: "204",
	})
	require.NoError(t, err)

	assert.Equal(t, "21CS045", profile.UID)
	assert.Equal(t, "Asha Rao", profile.Name, "name comes back in directory casing")
	assert.Equal(t, models.RoleStudent, profile.Role)
	assert.Equal(t, 2, profile.Floor)
	assert.Equal(t, "21CS045@svbh.edu", profile.Email)

	// Token carries the session id and the session resolves back to the profile.
	claims := parseClaims(t, token)
	loaded, err := sessions.Load(ctx, claims["sid"].(string))
	require.NoError(t, err)
	assert.Equal(t, profile.UID, loaded.UID)
}

func TestLogin_ReturningStudentKeepsStoredRoom(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	mem.SeedDirectory("21CS045", "Asha Rao")
	svc, _ := newAuthService(t, mem)

	_, _, err := svc.Login(ctx, &models.LoginRequest{
		Name: "Asha Rao", RegNo: "21CS045", RoomNumber: "204",
	})
	require.NoError(t, err)

	// Second login omits the room; the sticky profile wins even if a
	// different room is supplied.
	profile, _, err := svc.Login(ctx, &models.LoginRequest{
		Name: "ASHA RAO", RegNo: "21CS045", RoomNumber: "517",
	})
	require.NoError(t, err)
	assert.Equal(t, "204", profile.RoomNumber)
	assert.Equal(t, 2, profile.Floor)
}

func TestLogin_StudentValidation(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	mem.SeedDirectory("21CS045", "Asha Rao")
	svc, _ := newAuthService(t, mem)

	_, _, err := svc.Login(ctx, &models.LoginRequest{Name: "Asha Rao", RegNo: "99XX999"})
	assert.ErrorIs(t, err, services.ErrNotInDirectory)

	_, _, err = svc.Login(ctx, &models.LoginRequest{Name: "Someone Else", RegNo: "21CS045"})
	assert.ErrorIs(t, err, services.ErrNameMismatch)

	_, _, err = svc.Login(ctx, &models.LoginRequest{Name: "Asha Rao", RegNo: "21CS045"})
	assert.ErrorIs(t, err, services.ErrRoomRequired)
}

func TestLogin_Warden(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t, store.NewMemory())

	profile, _, err := svc.Login(ctx, &models.LoginRequest{Name: "Warden", PIN: "warden123"})
	require.NoError(t, err)
	assert.Equal(t, services.WardenUID, profile.UID)
	assert.Equal(t, models.RoleWarden, profile.Role)
	assert.Equal(t, 0, profile.Floor)
	assert.Equal(t, "W-01", profile.RoomNumber)

	_, _, err = svc.Login(ctx, &models.LoginRequest{Name: "warden", PIN: "letmein"})
	assert.ErrorIs(t, err, services.ErrWrongPIN)
}

func TestLogout_RemovesSession(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	mem.SeedDirectory("21CS045", "Asha Rao")
	svc, sessions := newAuthService(t, mem)

	_, token, err := svc.Login(ctx, &models.LoginRequest{
		Name: "Asha Rao", RegNo: "21CS045", RoomNumber: "204",
	})
	require.NoError(t, err)

	sid := parseClaims(t, token)["sid"].(string)
	require.NoError(t, svc.Logout(ctx, sid))

	_, err = sessions.Load(ctx, sid)
	assert.ErrorIs(t, err, services.ErrNoSession)
}

func TestFloorFromRoom(t *testing.T) {
	cases := []struct {
		room string
		want int
	}{
		{"204", 2},
		{"101", 1},
		{"517", 5},
		{"1203", 12},
		{"42", 1},
		{"0", 1},
		{"G-12", 1},
		{" 304 ", 3},
		{"", 1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, services.FloorFromRoom(tc.room), "room %q", tc.room)
	}
}

func parseClaims(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}
