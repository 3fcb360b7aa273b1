// Package auth implements the simulated phone/OTP login flow.
package auth

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mfigueira/echochat/internal/bus"
	"github.com/mfigueira/echochat/internal/state"
)

// Step is a stage of the login flow.
type Step string

const (
	SignedOut Step = "SIGNED_OUT"
	CodeSent  Step = "CODE_SENT"
	SignedIn  Step = "SIGNED_IN"
)

// validTransitions defines the allowed step transitions.
var validTransitions = map[Step][]Step{
	SignedOut: {CodeSent},
	CodeSent:  {SignedOut, SignedIn},
	SignedIn:  {SignedOut},
}

// sendDelay simulates the latency of delivering a code. The real app has
// no delivery channel, so this is the entire "network".
const sendDelay = time.Second

// Flow drives the phone/OTP login. It owns the step machine, delegates
// code checking to the Verifier and commits the resulting identity to
// the state store.
type Flow struct {
	mu       sync.Mutex
	step     Step
	phone    string // full number incl. country prefix, set by RequestCode
	store    *state.Store
	verifier *Verifier
	bus      *bus.Bus
	logger   *zap.Logger
	delay    time.Duration
}

// NewFlow creates a flow in the SignedOut step, or SignedIn when the
// store was seeded with a persisted user.
func NewFlow(store *state.Store, verifier *Verifier, b *bus.Bus, logger *zap.Logger) *Flow {
	step := SignedOut
	if store.Snapshot().Session.Authenticated {
		step = SignedIn
	}
	return &Flow{
		step:     step,
		store:    store,
		verifier: verifier,
		bus:      b,
		logger:   logger,
		delay:    sendDelay,
	}
}

// SetDelay overrides the simulated delivery delay. Intended for tests.
func (f *Flow) SetDelay(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delay = d
}

// Step returns the current flow step.
func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

func (f *Flow) transition(to Step) error {
	f.mu.Lock()
	allowed := validTransitions[f.step]
	if !slices.Contains(allowed, to) {
		from := f.step
		f.mu.Unlock()
		return fmt.Errorf("invalid login transition from %s to %s", from, to)
	}
	f.step = to
	f.mu.Unlock()
	f.bus.Emit(bus.KindAuthStepChanged, to)
	return nil
}

// RequestCode validates the number and simulates sending a code to it.
// Blocks for the simulated delivery delay (cancellable via ctx).
func (f *Flow) RequestCode(ctx context.Context, countryCode, number string) error {
	if err := ValidatePhone(number); err != nil {
		return err
	}
	if err := f.wait(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	f.phone = countryCode + number
	f.mu.Unlock()
	if err := f.transition(CodeSent); err != nil {
		return err
	}
	f.logger.Info("verification code issued", zap.String("phone", countryCode+number))
	return nil
}

// VerifyCode checks the submitted code and, on success, creates the
// user identity and logs it into the store.
func (f *Flow) VerifyCode(ctx context.Context, code string) (state.User, error) {
	if err := f.verifier.Verify(code); err != nil {
		return state.User{}, err
	}
	if err := f.wait(ctx); err != nil {
		return state.User{}, err
	}
	f.mu.Lock()
	phone := f.phone
	f.mu.Unlock()
	user := state.User{
		ID:    f.store.AllocID(),
		Phone: phone,
	}
	if err := f.transition(SignedIn); err != nil {
		return state.User{}, err
	}
	f.store.Login(user)
	f.logger.Info("login successful", zap.Int64("user", user.ID))
	return user, nil
}

// Back returns from the code entry step to the phone form.
func (f *Flow) Back() error {
	return f.transition(SignedOut)
}

// SignOut resets the flow and wipes the session in the store.
func (f *Flow) SignOut() error {
	if err := f.transition(SignedOut); err != nil {
		return err
	}
	f.store.Logout()
	return nil
}

func (f *Flow) wait(ctx context.Context) error {
	f.mu.Lock()
	d := f.delay
	f.mu.Unlock()
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
