package parent

import (
	"context"
	"net/mail"
	"time"

	"github.com/trezcool/wazazi/core"
)

var ErrNotFound = core.NewNotFoundError("parent profile not found")

// Parent owns students; it is the authorization boundary of every read in the portal.
type Parent struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone_number" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

func (p Parent) MailAddress() mail.Address {
	return mail.Address{Name: p.Name, Address: p.Email}
}

// NewParent contains information needed to create a new Parent.
type NewParent struct {
	Name  string `json:"name" validate:"required,notblank"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone_number" validate:"omitempty,max=20"`
}

type (
	Repository interface {
		CreateParent(ctx context.Context, p Parent, exec ...core.DBExecutor) (Parent, error)
		GetParent(ctx context.Context, id int64, exec ...core.DBExecutor) (Parent, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, np NewParent) (Parent, error) {
	return svc.repo.CreateParent(ctx, Parent{
		Name:      core.CleanString(np.Name),
		Email:     core.CleanString(np.Email, true /* lower */),
		Phone:     core.CleanString(np.Phone),
		CreatedAt: time.Now().UTC(),
	})
}

func (svc *Service) GetByID(ctx context.Context, id int64) (Parent, error) {
	return svc.repo.GetParent(ctx, id)
}
