package repositories

import (
	"github.com/shashiranjanraj/villageangel/app/models"
	"github.com/shashiranjanraj/villageangel/pkg/orm"
)

// UserRepository handles database operations for User.
type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) findBy(column string, value interface{}) (models.User, error) {
	var user models.User
	err := orm.DB().Model(&models.User{}).Where(column+" = ?", value).First(&user)
	return user, err
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(email string) (models.User, error) {
	return r.findBy("email", email)
}

// FindByUserName looks up a user by username.
func (r *UserRepository) FindByUserName(userName string) (models.User, error) {
	return r.findBy("user_name", userName)
}

// FindByPhone looks up a user by phone number.
func (r *UserRepository) FindByPhone(phone string) (models.User, error) {
	return r.findBy("phone", phone)
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(id uint) (models.User, error) {
	return r.findBy("id", id)
}

// Create persists a new user record.
func (r *UserRepository) Create(user *models.User) error {
	return orm.DB().Create(user)
}

// Update persists changes to an existing user.
func (r *UserRepository) Update(user *models.User) error {
	return orm.DB().Save(user)
}

// All returns one page of users, newest first.
func (r *UserRepository) All(page, limit int) ([]models.User, orm.Pagination, error) {
	var users []models.User
	pagination, err := orm.DB().Model(&models.User{}).
		Order("created_at desc").
		GetWithPagination(&users, page, limit)
	return users, pagination, err
}

// Unverified returns one page of accounts still awaiting KYC review.
func (r *UserRepository) Unverified(page, limit int) ([]models.User, orm.Pagination, error) {
	var users []models.User
	pagination, err := orm.DB().Model(&models.User{}).
		Where("kyc_verified = ?", false).
		Order("created_at desc").
		GetWithPagination(&users, page, limit)
	return users, pagination, err
}
