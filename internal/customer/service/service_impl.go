package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/upeonet/mtandao/internal/customer/domain"
	plandomain "github.com/upeonet/mtandao/internal/plan/domain"
	"github.com/upeonet/mtandao/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	PlanRepo plandomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	planRepo plandomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("customer.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		planRepo: p.PlanRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Customer{}, domain.ErrInvalidName
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Customer{}, domain.ErrInvalidEmail
	}
	phone := domain.NormalizePhone(req.Phone)
	if phone == "" {
		return domain.Customer{}, domain.ErrInvalidPhone
	}

	var planID *snowflake.ID
	if strings.TrimSpace(req.PlanID) != "" {
		id, err := snowflake.ParseString(strings.TrimSpace(req.PlanID))
		if err != nil {
			return domain.Customer{}, domain.ErrInvalidPlan
		}
		plan, err := s.planRepo.FindByID(ctx, s.db, id)
		if err != nil {
			return domain.Customer{}, err
		}
		if plan == nil || !plan.Active {
			return domain.Customer{}, domain.ErrInvalidPlan
		}
		planID = &id
	}

	now := time.Now().UTC()
	customer := domain.Customer{
		ID:        s.genID.Generate(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		PlanID:    planID,
		Status:    domain.StatusActive,
		Balance:   decimal.Zero,
		Address:   strings.TrimSpace(req.Address),
		Metadata:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		return domain.Customer{}, err
	}

	return customer, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCustomerRequest) (domain.Customer, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Customer{}, err
	}

	customer, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if customer == nil {
		return domain.Customer{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Customer{}, domain.ErrInvalidName
		}
		customer.Name = name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" || !strings.Contains(email, "@") {
			return domain.Customer{}, domain.ErrInvalidEmail
		}
		customer.Email = email
	}
	if req.Phone != nil {
		phone := domain.NormalizePhone(*req.Phone)
		if phone == "" {
			return domain.Customer{}, domain.ErrInvalidPhone
		}
		customer.Phone = phone
	}
	if req.PlanID != nil {
		raw := strings.TrimSpace(*req.PlanID)
		if raw == "" {
			customer.PlanID = nil
		} else {
			planID, err := snowflake.ParseString(raw)
			if err != nil {
				return domain.Customer{}, domain.ErrInvalidPlan
			}
			plan, err := s.planRepo.FindByID(ctx, s.db, planID)
			if err != nil {
				return domain.Customer{}, err
			}
			if plan == nil {
				return domain.Customer{}, domain.ErrInvalidPlan
			}
			customer.PlanID = &planID
		}
	}
	if req.Status != nil {
		if !domain.ValidStatus(*req.Status) {
			return domain.Customer{}, domain.ErrInvalidStatus
		}
		customer.Status = *req.Status
	}
	if req.Address != nil {
		customer.Address = strings.TrimSpace(*req.Address)
	}
	customer.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, customer); err != nil {
		return domain.Customer{}, err
	}

	return *customer, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCustomerRequest) (domain.ListCustomerResponse, error) {
	if req.Status != "" && !domain.ValidStatus(req.Status) {
		return domain.ListCustomerResponse{}, domain.ErrInvalidStatus
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, domain.ListCustomerFilter{
		Name:   strings.TrimSpace(req.Name),
		Phone:  domain.NormalizePhone(req.Phone),
		Status: req.Status,
	}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListCustomerResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(customer *domain.Customer) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        customer.ID.String(),
			CreatedAt: customer.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	customers := make([]domain.Customer, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		customers = append(customers, *item)
	}

	resp := domain.ListCustomerResponse{Customers: customers}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetCustomerRequest) (domain.Customer, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Customer{}, err
	}

	customer, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if customer == nil {
		return domain.Customer{}, domain.ErrNotFound
	}
	return *customer, nil
}

func (s *Service) GetByPhone(ctx context.Context, phone string) (domain.Customer, error) {
	phone = domain.NormalizePhone(phone)
	if phone == "" {
		return domain.Customer{}, domain.ErrInvalidPhone
	}

	customer, err := s.repo.FindByPhone(ctx, s.db, phone)
	if err != nil {
		return domain.Customer{}, err
	}
	if customer == nil {
		return domain.Customer{}, domain.ErrNotFound
	}
	return *customer, nil
}

func (s *Service) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return s.repo.CountByStatus(ctx, s.db)
}

func (s *Service) parseID(raw string) (snowflake.ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, domain.ErrInvalidID
	}
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
