package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/partner"
	"github.com/opsboard/backend/internal/domain/shared"
)

// CompanyService handles client company operations
type CompanyService struct {
	companyRepo partner.CompanyRepository
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(companyRepo partner.CompanyRepository) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
	}
}

// Create creates a new company
func (s *CompanyService) Create(ctx context.Context, req CreateCompanyRequest) (*CompanyResponse, error) {
	company, err := partner.NewCompany(req.Name)
	if err != nil {
		return nil, err
	}

	if req.ContactName != "" || req.Phone != "" || req.Email != "" {
		if err := company.SetContact(req.ContactName, req.Phone, req.Email); err != nil {
			return nil, err
		}
	}
	if req.Address != "" {
		if err := company.SetAddress(req.Address); err != nil {
			return nil, err
		}
	}
	company.Notes = req.Notes

	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, err
	}

	response := ToCompanyResponse(company)
	return &response, nil
}

// GetByID retrieves a company by ID
func (s *CompanyService) GetByID(ctx context.Context, id uuid.UUID) (*CompanyResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCompanyResponse(company)
	return &response, nil
}

// List retrieves a page of companies
func (s *CompanyService) List(ctx context.Context, filter CompanyListFilter) ([]CompanyResponse, int64, error) {
	domainFilter := partner.CompanyFilter{
		Filter: toSharedFilter(filter.Search, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir),
	}

	companies, total, err := s.companyRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToCompanyResponses(companies), total, nil
}

// Update updates a company's fields; nil fields are left unchanged
func (s *CompanyService) Update(ctx context.Context, id uuid.UUID, req UpdateCompanyRequest) (*CompanyResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := company.Rename(*req.Name); err != nil {
			return nil, err
		}
	}

	if req.ContactName != nil || req.Phone != nil || req.Email != nil {
		contactName := company.ContactName
		phone := company.Phone
		email := company.Email
		if req.ContactName != nil {
			contactName = *req.ContactName
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Email != nil {
			email = *req.Email
		}
		if err := company.SetContact(contactName, phone, email); err != nil {
			return nil, err
		}
	}

	if req.Address != nil {
		if err := company.SetAddress(*req.Address); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		company.Notes = *req.Notes
		company.Touch()
	}

	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, err
	}

	response := ToCompanyResponse(company)
	return &response, nil
}

// Delete deletes a company that no project references
func (s *CompanyService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.companyRepo.FindByID(ctx, id); err != nil {
		return err
	}

	hasProjects, err := s.companyRepo.HasProjects(ctx, id)
	if err != nil {
		return err
	}
	if hasProjects {
		return shared.NewDomainError("HAS_PROJECTS", "Cannot delete a company that still has projects")
	}

	return s.companyRepo.Delete(ctx, id)
}

func toSharedFilter(search string, page, pageSize int, orderBy, orderDir string) shared.Filter {
	filter := shared.DefaultFilter()
	filter.Search = search
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	if orderBy != "" {
		filter.OrderBy = orderBy
	}
	if orderDir != "" {
		filter.OrderDir = orderDir
	}
	return filter
}
