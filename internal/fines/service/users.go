package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/finepay/internal/fines/domain"
	"github.com/aussiebroadwan/finepay/internal/fines/metrics"
	"github.com/aussiebroadwan/finepay/internal/fines/store"
	"github.com/aussiebroadwan/finepay/pkg/cryptox"
	"github.com/aussiebroadwan/finepay/pkg/finesdk"
	"github.com/aussiebroadwan/finepay/pkg/identx"
	"github.com/aussiebroadwan/finepay/pkg/idx"
	"github.com/aussiebroadwan/finepay/pkg/jwtx"
	"github.com/aussiebroadwan/finepay/pkg/slogx"
	"golang.org/x/sync/errgroup"
)

// AccessToken is a signed bearer token and when it stops being accepted.
type AccessToken struct {
	Value     string
	ExpiresAt time.Time
}

type UserService struct {
	Store    store.Store
	Hasher   *cryptox.PasswordHasher
	Signer   jwtx.Signer
	Issuer   string
	TokenTTL time.Duration
	Metrics  *metrics.Metrics
	Latency  time.Duration
	Now      func() time.Time

	// AcceptAnyPassword skips password verification on login, matching the
	// demo backend where any password opened a known account.
	AcceptAnyPassword bool
}

// Register creates an account and signs the new user in. On any failure the
// store is left untouched.
func (s *UserService) Register(ctx context.Context, req finesdk.RegisterUserRequest) (domain.User, AccessToken, error) {
	l := slogx.FromContext(ctx)
	if err := simulateLatency(ctx, s.Latency); err != nil {
		return domain.User{}, AccessToken{}, err
	}

	req.Email = strings.TrimSpace(req.Email)
	req.IDNumber = identx.CleanNationalID(req.IDNumber)
	if err := validateStruct(req); err != nil {
		return domain.User{}, AccessToken{}, err
	}

	// Hash before the transaction so the write lock is not held for argon2.
	hash, err := s.Hasher.Hash(req.Password)
	if err != nil {
		return domain.User{}, AccessToken{}, err
	}

	now := clock(s.Now)
	user := domain.User{
		ID:           idx.NewAt(now).String(),
		IDNumber:     req.IDNumber,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        req.Email,
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := ensureAvailable(ctx, tx, "", user.Email, user.IDNumber); err != nil {
			return err
		}
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrDuplicateAccount
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateAccount) {
			l.Info("registration rejected", slog.String("reason", err.Error()))
		} else {
			l.Error("failed to register user", slog.Any("error", err))
		}
		return domain.User{}, AccessToken{}, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return domain.User{}, AccessToken{}, err
	}

	s.Metrics.IncrementRegistrations()
	l.Info("user registered", slog.String("user_id", user.ID))

	user.Vehicles = []domain.Vehicle{}
	user.PaymentHistory = []domain.PaymentRecord{}
	return user, token, nil
}

// Login checks the credentials and returns the user with a fresh token. Every
// failure is reported as ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, req finesdk.LoginRequest) (domain.User, AccessToken, error) {
	l := slogx.FromContext(ctx)
	if err := simulateLatency(ctx, s.Latency); err != nil {
		return domain.User{}, AccessToken{}, err
	}

	fail := func(reason string) (domain.User, AccessToken, error) {
		s.Metrics.ObserveLogin("failure")
		l.Info("login failed", slog.String("reason", reason))
		return domain.User{}, AccessToken{}, ErrInvalidCredentials
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		return fail("missing email")
	}

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fail("unknown email")
		}
		l.Error("failed to fetch user", slog.Any("error", err))
		return domain.User{}, AccessToken{}, err
	}

	if !s.AcceptAnyPassword {
		if u.PasswordHash == "" {
			return fail("no password set")
		}
		if err := s.Hasher.Verify(req.Password, u.PasswordHash); err != nil {
			return fail("password mismatch")
		}
	}

	user, err := attachHoldings(ctx, s.Store, u)
	if err != nil {
		return domain.User{}, AccessToken{}, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return domain.User{}, AccessToken{}, err
	}

	s.Metrics.ObserveLogin("success")
	l.Info("user logged in", slog.String("user_id", user.ID))
	return user, token, nil
}

func (s *UserService) issueToken(u domain.User) (AccessToken, error) {
	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultTokenTTL
	}
	claims := jwtx.NewUserClaims(u.ID, u.Email, s.Issuer, ttl, clock(s.Now))
	signed, err := s.Signer.Sign(claims)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Value: signed, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// GetUser returns the user with vehicles and payment history attached.
func (s *UserService) GetUser(ctx context.Context, userID string) (domain.User, error) {
	if err := simulateLatency(ctx, s.Latency); err != nil {
		return domain.User{}, err
	}
	return loadUser(ctx, s.Store, userID)
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	if err := simulateLatency(ctx, s.Latency); err != nil {
		return domain.User{}, err
	}
	u, err := s.Store.Users().GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return domain.User{}, mapUserErr(err)
	}
	return attachHoldings(ctx, s.Store, u)
}

func (s *UserService) GetUserByIDNumber(ctx context.Context, idNumber string) (domain.User, error) {
	if err := simulateLatency(ctx, s.Latency); err != nil {
		return domain.User{}, err
	}
	u, err := s.Store.Users().GetUserByIDNumber(ctx, identx.CleanNationalID(idNumber))
	if err != nil {
		return domain.User{}, mapUserErr(err)
	}
	return attachHoldings(ctx, s.Store, u)
}

// UpdateProfile applies the non-nil fields of req. Changing the email or ID
// number to one held by another account fails with ErrDuplicateAccount.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req finesdk.UpdateProfileRequest) (domain.User, error) {
	if err := simulateLatency(ctx, s.Latency); err != nil {
		return domain.User{}, err
	}

	if req.IDNumber != nil {
		cleaned := identx.CleanNationalID(*req.IDNumber)
		req.IDNumber = &cleaned
	}
	if req.Email != nil {
		trimmed := strings.TrimSpace(*req.Email)
		req.Email = &trimmed
	}
	if err := validateStruct(req); err != nil {
		return domain.User{}, err
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			return mapUserErr(err)
		}

		apply(&u.FirstName, req.FirstName)
		apply(&u.LastName, req.LastName)
		apply(&u.Email, req.Email)
		apply(&u.Phone, req.Phone)
		apply(&u.IDNumber, req.IDNumber)
		u.UpdatedAt = clock(s.Now)

		if err := ensureAvailable(ctx, tx, u.ID, u.Email, u.IDNumber); err != nil {
			return err
		}
		if err := tx.Users().UpdateUser(ctx, u); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrDuplicateAccount
			}
			return mapUserErr(err)
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("profile updated", slog.String("user_id", userID))
	return loadUser(ctx, s.Store, userID)
}

// AddVehicle registers a vehicle to the user and returns the updated user.
// The registration is stored cleaned and uppercased.
func (s *UserService) AddVehicle(ctx context.Context, userID string, req finesdk.AddVehicleRequest) (domain.User, error) {
	if err := simulateLatency(ctx, s.Latency); err != nil {
		return domain.User{}, err
	}

	req.Registration = identx.CleanVehicleRegistration(req.Registration)
	req.Make = strings.TrimSpace(req.Make)
	req.Model = strings.TrimSpace(req.Model)
	if err := validateStruct(req); err != nil {
		return domain.User{}, err
	}

	now := clock(s.Now)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByID(ctx, userID); err != nil {
			return mapUserErr(err)
		}
		err := tx.Vehicles().CreateVehicle(ctx, domain.Vehicle{
			ID:           idx.NewAt(now).String(),
			UserID:       userID,
			Registration: req.Registration,
			Make:         req.Make,
			Model:        req.Model,
			Year:         req.Year,
			CreatedAt:    now,
		})
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrDuplicateVehicle
		}
		return err
	})
	if err != nil {
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("vehicle added",
		slog.String("user_id", userID),
		slog.String("registration", req.Registration),
	)
	return loadUser(ctx, s.Store, userID)
}

// RemoveVehicle deletes one of the user's vehicles and returns the updated user.
func (s *UserService) RemoveVehicle(ctx context.Context, userID, vehicleID string) (domain.User, error) {
	if err := simulateLatency(ctx, s.Latency); err != nil {
		return domain.User{}, err
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByID(ctx, userID); err != nil {
			return mapUserErr(err)
		}
		err := tx.Vehicles().DeleteVehicle(ctx, userID, vehicleID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrVehicleNotFound
		}
		return err
	})
	if err != nil {
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("vehicle removed",
		slog.String("user_id", userID),
		slog.String("vehicle_id", vehicleID),
	)
	return loadUser(ctx, s.Store, userID)
}

// PaymentHistory lists the user's payments. An unknown user has no payments,
// so it yields an empty list rather than an error.
func (s *UserService) PaymentHistory(ctx context.Context, userID string) ([]domain.PaymentRecord, error) {
	if err := simulateLatency(ctx, s.Latency); err != nil {
		return nil, err
	}
	ps, err := s.Store.Payments().ListPaymentsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ps == nil {
		ps = []domain.PaymentRecord{}
	}
	return ps, nil
}

// ensureAvailable fails when email or idNumber belongs to an account other
// than selfID.
func ensureAvailable(ctx context.Context, st store.Store, selfID, email, idNumber string) error {
	if other, err := st.Users().GetUserByEmail(ctx, email); err == nil {
		if other.ID != selfID {
			return ErrEmailTaken
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	if other, err := st.Users().GetUserByIDNumber(ctx, idNumber); err == nil {
		if other.ID != selfID {
			return ErrIDNumberTaken
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}

func loadUser(ctx context.Context, st store.Store, userID string) (domain.User, error) {
	u, err := st.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, mapUserErr(err)
	}
	return attachHoldings(ctx, st, u)
}

// attachHoldings loads the user's vehicles and payment history.
func attachHoldings(ctx context.Context, st store.Store, u domain.User) (domain.User, error) {
	var (
		vehicles []domain.Vehicle
		payments []domain.PaymentRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		vehicles, err = st.Vehicles().ListVehiclesByUser(gctx, u.ID)
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = st.Payments().ListPaymentsByUser(gctx, u.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.User{}, err
	}
	u.Vehicles = vehicles
	u.PaymentHistory = payments

	if u.Vehicles == nil {
		u.Vehicles = []domain.Vehicle{}
	}
	if u.PaymentHistory == nil {
		u.PaymentHistory = []domain.PaymentRecord{}
	}
	return u, nil
}

func mapUserErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

func apply(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
