package controllers

import (
	"net/http"

	"techzone-backend/cache"
	apperrors "techzone-backend/common/errors"
	"techzone-backend/middleware"
	"techzone-backend/models"
	"techzone-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductController struct {
	Products *services.ProductService
	Cache    *cache.ProductCache
	Logger   *zap.Logger
}

// GetProduct serves a product detail, from cache when possible.
func (pc *ProductController) GetProduct(c *gin.Context) {
	id := c.Param("id")

	if product, ok := pc.Cache.GetProduct(c.Request.Context(), id); ok {
		c.JSON(http.StatusOK, gin.H{"success": true, "result": product})
		return
	}

	product, appErr := pc.Products.GetProduct(c.Request.Context(), id)
	if appErr != nil {
		c.Error(appErr)
		return
	}
	pc.Cache.SetProduct(c.Request.Context(), product)

	c.JSON(http.StatusOK, gin.H{"success": true, "result": product})
}

type addLicenseRequest struct {
	LicenseKey string `json:"licenseKey" binding:"required"`
}

func (pc *ProductController) AddLicense(c *gin.Context) {
	var req addLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.InvalidInput("Invalid license payload", err))
		return
	}

	license, appErr := pc.Products.AddLicense(c.Request.Context(), c.Param("id"), c.Param("skuId"), req.LicenseKey)
	if appErr != nil {
		c.Error(appErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "result": license})
}

func (pc *ProductController) GetLicenses(c *gin.Context) {
	licenses, appErr := pc.Products.GetLicenses(c.Request.Context(), c.Param("skuId"))
	if appErr != nil {
		c.Error(appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": licenses})
}

func (pc *ProductController) UpdateLicense(c *gin.Context) {
	var req addLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.InvalidInput("Invalid license payload", err))
		return
	}

	license, appErr := pc.Products.UpdateLicense(c.Request.Context(), c.Param("licenseId"), req.LicenseKey)
	if appErr != nil {
		c.Error(appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": license})
}

func (pc *ProductController) RemoveLicense(c *gin.Context) {
	if appErr := pc.Products.RemoveLicense(c.Request.Context(), c.Param("licenseId")); appErr != nil {
		c.Error(appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type addReviewRequest struct {
	Rating      int    `json:"rating" binding:"required,min=1,max=5"`
	FeedbackMsg string `json:"feedbackMsg" binding:"required"`
}

func (pc *ProductController) AddReview(c *gin.Context) {
	var req addReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.InvalidInput("Invalid review payload", err))
		return
	}

	user := &models.User{ID: middleware.GetUserID(c), Type: middleware.GetUserType(c)}
	if name, exists := c.Get(middleware.UserName); exists {
		user.Name, _ = name.(string)
	}

	productID := c.Param("id")
	if appErr := pc.Products.AddReview(c.Request.Context(), productID, user, req.Rating, req.FeedbackMsg); appErr != nil {
		c.Error(appErr)
		return
	}
	pc.Cache.InvalidateProduct(c.Request.Context(), productID)

	c.JSON(http.StatusCreated, gin.H{"success": true})
}

func (pc *ProductController) RemoveReview(c *gin.Context) {
	productID := c.Param("id")
	if appErr := pc.Products.RemoveReview(c.Request.Context(), productID, c.Param("reviewId")); appErr != nil {
		c.Error(appErr)
		return
	}
	pc.Cache.InvalidateProduct(c.Request.Context(), productID)

	c.JSON(http.StatusOK, gin.H{"success": true})
}
