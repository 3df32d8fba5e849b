// Package resources shapes API output for models that expose more than
// their JSON tags should reveal.
package resources

import (
	"github.com/shashiranjanraj/villageangel/app/models"
	"github.com/shashiranjanraj/villageangel/pkg/resource"
)

// UserResource is the public shape of a user account.
type UserResource struct{ resource.Base }

func (r *UserResource) ToArray(v interface{}) resource.Map {
	switch u := v.(type) {
	case models.User:
		return userMap(u)
	case *models.User:
		return userMap(*u)
	}
	return resource.Map{}
}

func userMap(u models.User) resource.Map {
	return resource.Map{
		"id":          u.ID,
		"fullName":    u.FullName,
		"userName":    u.UserName,
		"email":       u.Email,
		"phone":       u.Phone,
		"address":     u.Address,
		"kycCard":     u.KYCCard,
		"role":        u.Role,
		"kycVerified": u.KYCVerified,
		"creditBal":   u.CreditBal,
		"createdAt":   u.CreatedAt,
	}
}
