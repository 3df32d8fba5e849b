package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/villageangel/app/services"
	"github.com/shashiranjanraj/villageangel/pkg/bind"
	"github.com/shashiranjanraj/villageangel/pkg/middleware"
	"github.com/shashiranjanraj/villageangel/pkg/response"
)

type OrderController struct {
	service *services.OrderService
}

func NewOrderController() *OrderController {
	return &OrderController{service: services.NewOrderService()}
}

// Place checks out the caller's active cart.
func (c *OrderController) Place(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromCtx(r)

	var in struct {
		PaymentOption string `json:"paymentOption" validate:"required,in=FULL_PAYMENT,EMI_3_MONTH,EMI_6_MONTH"`
		Address       string `json:"address"       validate:"nullable,max=500"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, err.Error(), http.StatusBadRequest)
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, herr := c.service.Place(userID, in.PaymentOption, in.Address)
	if herr != nil {
		response.Error(w, herr)
		return
	}
	response.Created(w, "Order placed successfully", response.Payload{"order": order})
}

// Mine lists the caller's orders.
func (c *OrderController) Mine(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromCtx(r)

	orders, herr := c.service.ForUser(userID)
	if herr != nil {
		response.Error(w, herr)
		return
	}
	response.Success(w, "", response.Payload{"orders": orders})
}

// Show returns one order; buyers only see their own.
func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromCtx(r)
	role, _ := middleware.RoleFromCtx(r)

	order, herr := c.service.Get(pathID(r, "id"), userID, role)
	if herr != nil {
		response.Error(w, herr)
		return
	}
	response.Success(w, "", response.Payload{"order": order})
}
