package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/villageangel/app/models"
	"github.com/shashiranjanraj/villageangel/app/repositories"
	"github.com/shashiranjanraj/villageangel/app/resources"
	"github.com/shashiranjanraj/villageangel/app/services"
	"github.com/shashiranjanraj/villageangel/pkg/bind"
	"github.com/shashiranjanraj/villageangel/pkg/orm"
	"github.com/shashiranjanraj/villageangel/pkg/resource"
	"github.com/shashiranjanraj/villageangel/pkg/response"
)

// AdminController backs the admin console: account review, credit
// limits and the order pipeline.
type AdminController struct {
	admin  *services.AdminService
	orders *services.OrderService
	repo   *repositories.OrderRepository
}

func NewAdminController() *AdminController {
	return &AdminController{
		admin:  services.NewAdminService(),
		orders: services.NewOrderService(),
		repo:   repositories.NewOrderRepository(),
	}
}

// Users lists accounts for review, paged.
func (c *AdminController) Users(w http.ResponseWriter, r *http.Request) {
	users, pagination, herr := c.admin.Users(queryInt(r, "page", 1), queryInt(r, "limit", 20))
	if herr != nil {
		response.Error(w, herr)
		return
	}

	resource.CollectionOf(&resources.UserResource{}, users).
		WithPagination(pagination).
		Respond(w)
}

// UnverifiedUsers lists only the accounts awaiting KYC review, paged.
func (c *AdminController) UnverifiedUsers(w http.ResponseWriter, r *http.Request) {
	users, pagination, herr := c.admin.UnverifiedUsers(queryInt(r, "page", 1), queryInt(r, "limit", 20))
	if herr != nil {
		response.Error(w, herr)
		return
	}

	resource.CollectionOf(&resources.UserResource{}, users).
		WithPagination(pagination).
		Respond(w)
}

// VerifyKYC approves an account's KYC. The account comes from the
// path, or from ?userId= on the original console's route.
func (c *AdminController) VerifyKYC(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	if id == 0 {
		id = uint(queryInt(r, "userId", 0))
	}

	user, herr := c.admin.VerifyKYC(id)
	if herr != nil {
		response.Error(w, herr)
		return
	}
	response.Success(w, "User verified", response.Payload{
		"user": resource.New(&resources.UserResource{}, *user),
	})
}

// SetCredit sets an account's credit balance. The account comes from
// the path, or from the body on the original set/update-credit routes.
func (c *AdminController) SetCredit(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserID    uint    `json:"userId"`
		CreditBal float64 `json:"creditBal" validate:"gte=0"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, err.Error(), http.StatusBadRequest)
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	id := pathID(r, "id")
	if id == 0 {
		id = in.UserID
	}

	user, herr := c.admin.SetCreditLimit(id, in.CreditBal)
	if herr != nil {
		response.Error(w, herr)
		return
	}
	response.Success(w, "Credit balance updated", response.Payload{
		"user": resource.New(&resources.UserResource{}, *user),
	})
}

// Orders lists every order, paged, newest first. ?status= narrows to
// one lifecycle state.
func (c *AdminController) Orders(w http.ResponseWriter, r *http.Request) {
	page, limit := queryInt(r, "page", 1), queryInt(r, "limit", 20)

	var (
		orders     []models.Order
		pagination orm.Pagination
		err        error
	)
	if status := r.URL.Query().Get("status"); status != "" {
		orders, pagination, err = c.repo.ByStatus(status, page, limit)
	} else {
		orders, pagination, err = c.repo.All(page, limit)
	}
	if err != nil {
		response.Fail(w, "Could not load orders", http.StatusInternalServerError)
		return
	}
	response.Success(w, "", response.Payload{"orders": orders, "pagination": pagination})
}

// PendingOrders lists only orders awaiting approval — the admin
// console's order queue.
func (c *AdminController) PendingOrders(w http.ResponseWriter, r *http.Request) {
	orders, pagination, err := c.repo.ByStatus(models.OrderStatusPending, queryInt(r, "page", 1), queryInt(r, "limit", 20))
	if err != nil {
		response.Fail(w, "Could not load orders", http.StatusInternalServerError)
		return
	}
	response.Success(w, "", response.Payload{"orders": orders, "pagination": pagination})
}

// orderID resolves the order an action targets: the path parameter, or
// ?orderId=, or an {orderId} body on the original console's routes.
func orderID(r *http.Request) uint {
	if id := pathID(r, "id"); id != 0 {
		return id
	}
	if id := uint(queryInt(r, "orderId", 0)); id != 0 {
		return id
	}
	var in struct {
		OrderID uint `json:"orderId"`
	}
	_, _ = bind.JSON(r, &in)
	return in.OrderID
}

// ApproveOrder moves a pending order to paid, drawing down credit for
// EMI payments.
func (c *AdminController) ApproveOrder(w http.ResponseWriter, r *http.Request) {
	order, herr := c.orders.Approve(orderID(r))
	if herr != nil {
		response.Error(w, herr)
		return
	}
	response.Success(w, "Order approved", response.Payload{"order": order})
}

// ShipOrder moves a paid order to shipped.
func (c *AdminController) ShipOrder(w http.ResponseWriter, r *http.Request) {
	order, herr := c.orders.Ship(orderID(r))
	if herr != nil {
		response.Error(w, herr)
		return
	}
	response.Success(w, "Order shipped", response.Payload{"order": order})
}
