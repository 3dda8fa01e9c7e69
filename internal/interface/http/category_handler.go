package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/shop-admin/internal/application"
	"github.com/oksasatya/shop-admin/pkg/response"
)

type CategoryHandler struct {
	Svc    *application.CatalogService
	Errors *ErrorWriter
}

func NewCategoryHandler(svc *application.CatalogService, errs *ErrorWriter) *CategoryHandler {
	return &CategoryHandler{Svc: svc, Errors: errs}
}

type categoryRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Errors.Bind(c, err)
		return
	}
	cat, err := h.Svc.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		h.Errors.Write(c, err)
		return
	}
	response.Success(c, http.StatusCreated, cat, "category created", nil)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Errors.Bind(c, err)
		return
	}
	cat, err := h.Svc.UpdateCategory(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		h.Errors.Write(c, err)
		return
	}
	response.Success(c, http.StatusOK, cat, "category updated", nil)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		h.Errors.Write(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "category deleted", nil)
}

func (h *CategoryHandler) List(c *gin.Context) {
	cats, err := h.Svc.ListCategories(c.Request.Context())
	if err != nil {
		h.Errors.Write(c, err)
		return
	}
	response.Success(c, http.StatusOK, cats, "categories", gin.H{"count": len(cats)})
}

func (h *CategoryHandler) Get(c *gin.Context) {
	cat, err := h.Svc.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Errors.Write(c, err)
		return
	}
	response.Success(c, http.StatusOK, cat, "category", nil)
}
