package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/shop-admin/internal/application"
	"github.com/oksasatya/shop-admin/internal/interface/middleware"
	"github.com/oksasatya/shop-admin/pkg/response"
)

type OrderHandler struct {
	Svc    *application.OrderService
	Errors *ErrorWriter
}

func NewOrderHandler(svc *application.OrderService, errs *ErrorWriter) *OrderHandler {
	return &OrderHandler{Svc: svc, Errors: errs}
}

type orderItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gte=1"`
}

// UnmarshalJSON also accepts the product reference under "product".
func (r *orderItemRequest) UnmarshalJSON(b []byte) error {
	type plain orderItemRequest
	var aux struct {
		plain
		Product string `json:"product"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*r = orderItemRequest(aux.plain)
	if r.ProductID == "" {
		r.ProductID = aux.Product
	}
	return nil
}

type createOrderRequest struct {
	Items           []orderItemRequest `json:"items" binding:"required,min=1,dive"`
	ShippingAddress string             `json:"shippingAddress" binding:"required"`
	PaymentMethod   string             `json:"paymentMethod" binding:"omitempty,oneof=cash card"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Errors.Bind(c, err)
		return
	}
	uc, _ := middleware.CurrentUser(c)
	in := application.CreateOrderInput{
		Items:           make([]application.OrderItemInput, 0, len(req.Items)),
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, application.OrderItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	o, err := h.Svc.Create(c.Request.Context(), uc.UserID, in)
	if err != nil {
		h.Errors.Write(c, err)
		return
	}
	response.Success(c, http.StatusCreated, o, "order created", nil)
}

func (h *OrderHandler) ListMine(c *gin.Context) {
	uc, _ := middleware.CurrentUser(c)
	orders, err := h.Svc.ListForUser(c.Request.Context(), uc.UserID)
	if err != nil {
		h.Errors.Write(c, err)
		return
	}
	response.Success(c, http.StatusOK, orders, "orders", gin.H{"count": len(orders)})
}

func (h *OrderHandler) ListAll(c *gin.Context) {
	orders, err := h.Svc.ListAll(c.Request.Context())
	if err != nil {
		h.Errors.Write(c, err)
		return
	}
	response.Success(c, http.StatusOK, orders, "orders", gin.H{"count": len(orders)})
}

func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.Svc.GetByID(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		h.Errors.Write(c, err)
		return
	}
	response.Success(c, http.StatusOK, o, "order", nil)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Errors.Bind(c, err)
		return
	}
	o, err := h.Svc.SetStatus(c.Request.Context(), c.Param("orderId"), req.Status)
	if err != nil {
		h.Errors.Write(c, err)
		return
	}
	response.Success(c, http.StatusOK, o, "order status updated", nil)
}

func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("orderId")); err != nil {
		h.Errors.Write(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "order deleted", nil)
}
