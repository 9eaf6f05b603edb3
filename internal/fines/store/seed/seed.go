// Package seed loads reference data and demo records into a store from YAML
// fixtures. The default fixtures are embedded in the binary.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aussiebroadwan/finepay/internal/fines/domain"
	"github.com/aussiebroadwan/finepay/internal/fines/store"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

type Fixtures struct {
	Municipalities []Municipality `yaml:"municipalities"`
	Offenses       []Offense      `yaml:"offenses"`
	Fines          []Fine         `yaml:"fines"`
	Users          []User         `yaml:"users"`
}

type Municipality struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Province  string `yaml:"province"`
	Supported bool   `yaml:"supported"`
	LogoURL   string `yaml:"logoUrl"`
	Contact   struct {
		Phone   string `yaml:"phone"`
		Email   string `yaml:"email"`
		Address string `yaml:"address"`
	} `yaml:"contact"`
}

type Offense struct {
	Code        string `yaml:"code"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Points      int    `yaml:"points"`
}

type Fine struct {
	ID                  string     `yaml:"id"`
	NoticeNumber        string     `yaml:"noticeNumber"`
	VehicleRegistration string     `yaml:"vehicleRegistration"`
	DriverIDNumber      string     `yaml:"driverIdNumber"`
	Municipality        string     `yaml:"municipality"`
	Offense             string     `yaml:"offense"`
	Amount              float64    `yaml:"amount"`
	IssueDate           time.Time  `yaml:"issueDate"`
	DueDate             time.Time  `yaml:"dueDate"`
	Location            string     `yaml:"location"`
	Status              string     `yaml:"status"`
	DiscountAmount      *float64   `yaml:"discountAmount"`
	DiscountValidUntil  *time.Time `yaml:"discountValidUntil"`
}

type User struct {
	ID        string `yaml:"id"`
	IDNumber  string `yaml:"idNumber"`
	FirstName string `yaml:"firstName"`
	LastName  string `yaml:"lastName"`
	Email     string `yaml:"email"`
	Phone     string `yaml:"phone"`
	Password  string `yaml:"password"`
	Vehicles  []struct {
		ID           string `yaml:"id"`
		Registration string `yaml:"registration"`
		Make         string `yaml:"make"`
		Model        string `yaml:"model"`
		Year         int    `yaml:"year"`
	} `yaml:"vehicles"`
	Payments []struct {
		ID            string    `yaml:"id"`
		FineID        string    `yaml:"fineId"`
		Amount        float64   `yaml:"amount"`
		PaymentDate   time.Time `yaml:"paymentDate"`
		PaymentMethod string    `yaml:"paymentMethod"`
		TransactionID string    `yaml:"transactionId"`
		Status        string    `yaml:"status"`
	} `yaml:"payments"`
}

// Hasher hashes demo account passwords.
type Hasher interface {
	Hash(password string) (string, error)
}

// Parse decodes fixtures from YAML.
func Parse(raw []byte) (Fixtures, error) {
	var fx Fixtures
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return Fixtures{}, fmt.Errorf("seed: parse fixtures: %w", err)
	}
	return fx, nil
}

// Default returns the embedded fixtures.
func Default() (Fixtures, error) {
	return Parse(defaultFixtures)
}

// LoadFile reads fixtures from path, or the embedded ones when path is empty.
func LoadFile(path string) (Fixtures, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Fixtures{}, fmt.Errorf("seed: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Apply writes fx into st in a single transaction. Reference data and fines
// are upserted so a changed feed is picked up on restart. Users that already
// exist are left alone so their changes survive restarts.
func Apply(ctx context.Context, st store.Store, fx Fixtures, hasher Hasher, logger *slog.Logger) error {
	var created int
	err := st.WithTx(ctx, func(tx store.Tx) error {
		for _, m := range fx.Municipalities {
			if err := tx.Reference().UpsertMunicipality(ctx, m.toDomain()); err != nil {
				return fmt.Errorf("municipality %s: %w", m.ID, err)
			}
		}
		for _, o := range fx.Offenses {
			if err := tx.Reference().UpsertOffense(ctx, o.toDomain()); err != nil {
				return fmt.Errorf("offense %s: %w", o.Code, err)
			}
		}
		for _, f := range fx.Fines {
			if err := tx.Fines().UpsertFine(ctx, f.toDomain()); err != nil {
				return fmt.Errorf("fine %s: %w", f.ID, err)
			}
		}

		for _, u := range fx.Users {
			ok, err := createUser(ctx, tx, u, hasher)
			if err != nil {
				return fmt.Errorf("user %s: %w", u.ID, err)
			}
			if ok {
				created++
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	logger.Info("fixtures applied",
		slog.Int("municipalities", len(fx.Municipalities)),
		slog.Int("offenses", len(fx.Offenses)),
		slog.Int("fines", len(fx.Fines)),
		slog.Int("users_created", created),
	)
	return nil
}

func createUser(ctx context.Context, tx store.Tx, u User, hasher Hasher) (bool, error) {
	_, err := tx.Users().GetUserByID(ctx, u.ID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}

	var hash string
	if u.Password != "" {
		if hash, err = hasher.Hash(u.Password); err != nil {
			return false, err
		}
	}

	if err := tx.Users().CreateUser(ctx, domain.User{
		ID:           u.ID,
		IDNumber:     u.IDNumber,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Phone:        u.Phone,
		PasswordHash: hash,
	}); err != nil {
		return false, err
	}

	for _, v := range u.Vehicles {
		if err := tx.Vehicles().CreateVehicle(ctx, domain.Vehicle{
			ID:           v.ID,
			UserID:       u.ID,
			Registration: v.Registration,
			Make:         v.Make,
			Model:        v.Model,
			Year:         v.Year,
		}); err != nil {
			return false, err
		}
	}

	for _, p := range u.Payments {
		if err := tx.Payments().CreatePayment(ctx, domain.PaymentRecord{
			ID:            p.ID,
			UserID:        u.ID,
			FineID:        p.FineID,
			Amount:        p.Amount,
			PaymentDate:   p.PaymentDate,
			PaymentMethod: p.PaymentMethod,
			TransactionID: p.TransactionID,
			Status:        domain.PaymentStatus(p.Status),
		}); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (m Municipality) toDomain() domain.Municipality {
	return domain.Municipality{
		ID:          m.ID,
		Name:        m.Name,
		Province:    m.Province,
		IsSupported: m.Supported,
		LogoURL:     m.LogoURL,
		Contact: domain.ContactInfo{
			Phone:   m.Contact.Phone,
			Email:   m.Contact.Email,
			Address: m.Contact.Address,
		},
	}
}

func (o Offense) toDomain() domain.Offense {
	return domain.Offense{
		Code:        o.Code,
		Description: o.Description,
		Category:    domain.OffenseCategory(o.Category),
		Points:      o.Points,
	}
}

// toDomain leaves Municipality and Offense holding only their keys; the
// store resolves them on read.
func (f Fine) toDomain() domain.TrafficFine {
	return domain.TrafficFine{
		ID:                  f.ID,
		NoticeNumber:        f.NoticeNumber,
		VehicleRegistration: f.VehicleRegistration,
		DriverIDNumber:      f.DriverIDNumber,
		Municipality:        domain.Municipality{ID: f.Municipality},
		Offense:             domain.Offense{Code: f.Offense},
		Amount:              f.Amount,
		IssueDate:           f.IssueDate,
		DueDate:             f.DueDate,
		Location:            f.Location,
		Status:              domain.FineStatus(f.Status),
		DiscountAmount:      f.DiscountAmount,
		DiscountValidUntil:  f.DiscountValidUntil,
	}
}
