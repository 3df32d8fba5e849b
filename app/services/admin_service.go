package services

import (
	"github.com/shashiranjanraj/villageangel/app/models"
	"github.com/shashiranjanraj/villageangel/app/repositories"
	"github.com/shashiranjanraj/villageangel/pkg/httperr"
	"github.com/shashiranjanraj/villageangel/pkg/orm"
)

// AdminService backs the admin console: KYC review and credit limits.
type AdminService struct {
	users *repositories.UserRepository
}

func NewAdminService() *AdminService {
	return &AdminService{users: repositories.NewUserRepository()}
}

// Users lists accounts for review.
func (s *AdminService) Users(page, limit int) ([]models.User, orm.Pagination, *httperr.ErrorResponse) {
	users, pagination, err := s.users.All(page, limit)
	if err != nil {
		return nil, pagination, httperr.Internal("Could not load users")
	}
	return users, pagination, nil
}

// UnverifiedUsers lists only the accounts still awaiting KYC review —
// the admin console's work queue.
func (s *AdminService) UnverifiedUsers(page, limit int) ([]models.User, orm.Pagination, *httperr.ErrorResponse) {
	users, pagination, err := s.users.Unverified(page, limit)
	if err != nil {
		return nil, pagination, httperr.Internal("Could not load users")
	}
	return users, pagination, nil
}

// VerifyKYC marks an account's KYC as reviewed and approved.
func (s *AdminService) VerifyKYC(userID uint) (*models.User, *httperr.ErrorResponse) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, httperr.NotFound("User not found")
	}

	user.KYCVerified = true
	if err := s.users.Update(&user); err != nil {
		return nil, httperr.Internal("Could not verify user")
	}
	return &user, nil
}

// SetCreditLimit sets an account's purchase credit balance, used for
// EMI payment approval.
func (s *AdminService) SetCreditLimit(userID uint, amount float64) (*models.User, *httperr.ErrorResponse) {
	if amount < 0 {
		return nil, httperr.BadRequest("Credit balance cannot be negative")
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, httperr.NotFound("User not found")
	}

	user.CreditBal = amount
	if err := s.users.Update(&user); err != nil {
		return nil, httperr.Internal("Could not update credit balance")
	}
	return &user, nil
}
