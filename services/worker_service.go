package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"qc-registry/access"
	"qc-registry/idgen"
	"qc-registry/models"
	"qc-registry/repositories"
	"qc-registry/utils"

	"github.com/go-playground/validator"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var mobilePattern = regexp.MustCompile(`^\d{10}$`)

// NewValidator returns a validator with the registry's custom tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return mobilePattern.MatchString(fl.Field().String())
	})
	return v
}

type WorkerService struct {
	repo     *repositories.WorkerRepository
	validate *validator.Validate
	log      *zap.Logger
	now      func() time.Time
}

func NewWorkerService(repo *repositories.WorkerRepository, log *zap.Logger) *WorkerService {
	return &WorkerService{repo: repo, validate: NewValidator(), log: log, now: time.Now}
}

// List returns every enrolled worker without password hashes.
func (s *WorkerService) List(actor models.Worker) ([]models.Worker, error) {
	if !access.CanAdminister(actor) {
		return nil, ErrForbidden
	}
	all := s.repo.GetAll()
	out := make([]models.Worker, len(all))
	for i, w := range all {
		out[i] = w.Public()
	}
	return out, nil
}

// Enroll validates the input and stores a new active worker. Staff get ledger
// visibility by default; a password, when given, is stored as a bcrypt hash.
func (s *WorkerService) Enroll(ctx context.Context, actor models.Worker, in models.WorkerInput) (models.Worker, error) {
	if !access.CanAdminister(actor) {
		return models.Worker{}, ErrForbidden
	}

	in.Name = strings.TrimSpace(in.Name)
	in.MobileNumber = strings.TrimSpace(in.MobileNumber)
	in.EmployeeCode = strings.TrimSpace(in.EmployeeCode)
	if err := s.validate.Struct(in); err != nil {
		return models.Worker{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	for _, c := range in.Permissions {
		if !c.Valid() {
			return models.Worker{}, fmt.Errorf("%w: unknown category %q", ErrValidation, c)
		}
	}

	department := in.Department
	if department == "" {
		department = "Operations"
	}

	w := models.Worker{
		ID:             idgen.NewID(),
		Name:           in.Name,
		MobileNumber:   in.MobileNumber,
		EmployeeCode:   in.EmployeeCode,
		Department:     department,
		JoinDate:       utils.Today(s.now()),
		Status:         models.StatusActive,
		Role:           in.Role,
		Permissions:    append([]models.QCCategory{}, in.Permissions...),
		CanViewHistory: in.Role == models.RoleStaff,
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.Worker{}, fmt.Errorf("hash password: %w", err)
		}
		w.Password = string(hash)
	}

	if err := s.repo.Create(ctx, w); err != nil {
		if errors.Is(err, repositories.ErrDuplicateWorker) {
			return models.Worker{}, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return models.Worker{}, err
	}

	s.log.Info("worker enrolled",
		zap.String("worker_id", w.ID),
		zap.String("role", string(w.Role)),
		zap.String("by", actor.ID))
	return w.Public(), nil
}

func (s *WorkerService) Delete(ctx context.Context, actor models.Worker, id string, confirmed bool) error {
	if !access.CanAdminister(actor) {
		return ErrForbidden
	}
	if !confirmed {
		return ErrNotConfirmed
	}
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	s.log.Info("worker removed", zap.String("worker_id", id), zap.String("by", actor.ID))
	return nil
}
