package auth

import (
	"context"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mfigueira/echochat/internal/bus"
	"github.com/mfigueira/echochat/internal/state"
)

func testFlow(t *testing.T, secret string) (*Flow, *state.Store) {
	t.Helper()
	store := state.New(bus.New())
	f := NewFlow(store, NewVerifier(secret), bus.New(), zap.NewNop())
	f.SetDelay(time.Millisecond)
	return f, store
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"ten digits", "1234567890", false},
		{"more digits", "123456789012", false},
		{"too short", "123456789", true},
		{"empty", "", true},
		{"letters", "12345abcde", true},
		{"plus sign", "+1234567890", true},
		{"spaces", "123 456 7890", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePhone(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPhone)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRequestCodeRejectsBadNumber(t *testing.T) {
	f, _ := testFlow(t, "")

	err := f.RequestCode(context.Background(), "+91", "12345")
	assert.ErrorIs(t, err, ErrInvalidPhone)
	assert.Equal(t, SignedOut, f.Step())
}

func TestFullDemoLogin(t *testing.T) {
	f, store := testFlow(t, "")
	ctx := context.Background()

	require.NoError(t, f.RequestCode(ctx, "+91", "1234567890"))
	assert.Equal(t, CodeSent, f.Step())

	user, err := f.VerifyCode(ctx, DemoCode)
	require.NoError(t, err)
	assert.Equal(t, "+911234567890", user.Phone)
	assert.Equal(t, SignedIn, f.Step())

	snap := store.Snapshot()
	assert.True(t, snap.Session.Authenticated)
	require.NotNil(t, snap.Session.User)
	assert.Equal(t, user.ID, snap.Session.User.ID)
}

func TestVerifyWrongCode(t *testing.T) {
	f, store := testFlow(t, "")
	ctx := context.Background()

	require.NoError(t, f.RequestCode(ctx, "+1", "5550001111"))

	_, err := f.VerifyCode(ctx, "000000")
	assert.ErrorIs(t, err, ErrWrongCode)
	assert.Equal(t, CodeSent, f.Step(), "wrong code keeps the flow on the code step")
	assert.False(t, store.Snapshot().Session.Authenticated)
}

func TestVerifyBeforeRequestIsInvalid(t *testing.T) {
	f, _ := testFlow(t, "")

	_, err := f.VerifyCode(context.Background(), DemoCode)
	assert.Error(t, err, "SignedOut -> SignedIn is not a valid transition")
}

func TestBackReturnsToPhoneStep(t *testing.T) {
	f, _ := testFlow(t, "")
	ctx := context.Background()

	require.NoError(t, f.RequestCode(ctx, "+44", "7700900000"))
	require.NoError(t, f.Back())
	assert.Equal(t, SignedOut, f.Step())
}

func TestSignOutWipesSession(t *testing.T) {
	f, store := testFlow(t, "")
	ctx := context.Background()

	require.NoError(t, f.RequestCode(ctx, "+55", "1199998888"))
	_, err := f.VerifyCode(ctx, DemoCode)
	require.NoError(t, err)

	require.NoError(t, f.SignOut())
	assert.Equal(t, SignedOut, f.Step())
	assert.False(t, store.Snapshot().Session.Authenticated)
}

func TestFlowResumesSignedInFromSeededStore(t *testing.T) {
	store := state.New(bus.New())
	store.Seed(state.Snapshot{User: &state.User{ID: 1, Phone: "+15550001111"}})

	f := NewFlow(store, NewVerifier(""), bus.New(), zap.NewNop())
	assert.Equal(t, SignedIn, f.Step())
}

func TestTOTPMode(t *testing.T) {
	key, err := totp.Generate(totp.GenerateOpts{Issuer: "echochat", AccountName: "test"})
	require.NoError(t, err)
	secret := key.Secret()

	f, _ := testFlow(t, secret)
	ctx := context.Background()
	require.NoError(t, f.RequestCode(ctx, "+49", "1512345678"))

	// The static demo literal must not pass in TOTP mode.
	_, err = f.VerifyCode(ctx, DemoCode)
	assert.ErrorIs(t, err, ErrWrongCode)

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	_, err = f.VerifyCode(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, SignedIn, f.Step())
}

func TestRequestCodeCancellable(t *testing.T) {
	f, _ := testFlow(t, "")
	f.SetDelay(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.RequestCode(ctx, "+1", "5550001111") }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("RequestCode did not honor cancellation")
	}
	assert.Equal(t, SignedOut, f.Step())
}
