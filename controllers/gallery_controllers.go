package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkhaus/studio-app/models"
	"github.com/inkhaus/studio-app/storage"
	"github.com/inkhaus/studio-app/store"
	"github.com/inkhaus/studio-app/utils"
)

type GalleryController struct {
	Store   *store.Store
	Storage *storage.DiskStore
}

func NewGalleryController(st *store.Store, objects *storage.DiskStore) *GalleryController {
	return &GalleryController{Store: st, Storage: objects}
}

// GetAllImages lists content images, optionally filtered by ?category=.
func (gc *GalleryController) GetAllImages(c *gin.Context) {
	images, err := gc.Store.ListContentImages(c.Query("category"))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of images", images)
}

// GetFeaturedImages lists images flagged for the home page.
func (gc *GalleryController) GetFeaturedImages(c *gin.Context) {
	images, err := gc.Store.ListFeaturedImages()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Featured images", images)
}

// CreateImage uploads one file to the gallery bucket and inserts the row.
func (gc *GalleryController) CreateImage(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("error processing form"))
		return
	}

	category := c.PostForm("category")
	switch category {
	case models.ImageCategoryFeatured, models.ImageCategoryPortfolio, models.ImageCategoryFlash:
	default:
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid category"))
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("an image file is required"))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	defer f.Close()

	result, err := gc.Storage.Upload(storage.BucketGalleryImages, fileHeader.Filename, f)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	image := models.ContentImage{
		URL:      result.PublicURL,
		Category: category,
		Title:    c.PostForm("title"),
		Featured: c.PostForm("featured") == "true",
	}
	if desc := c.PostForm("description"); desc != "" {
		image.Description = &desc
	}
	if priceStr := c.PostForm("price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid price"))
			return
		}
		image.Price = &price
	}
	if size := c.PostForm("size"); size != "" {
		image.Size = &size
	}
	if orderStr := c.PostForm("display_order"); orderStr != "" {
		order, err := strconv.Atoi(orderStr)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid display_order"))
			return
		}
		image.DisplayOrder = &order
	}

	if err := gc.Store.CreateContentImage(&image); err != nil {
		// The row failed, leave no orphan behind.
		_ = gc.Storage.Delete(storage.BucketGalleryImages, result.Path)
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Image created", image)
}

// UpdateImage applies a partial JSON field set.
func (gc *GalleryController) UpdateImage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("image_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid image id"))
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	delete(fields, "id")
	delete(fields, "created_at")

	image, err := gc.Store.UpdateContentImage(uint(id), fields)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Image updated", image)
}

// DeleteImage removes the row and, when the URL points into our own storage,
// the backing object as well.
func (gc *GalleryController) DeleteImage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("image_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid image id"))
		return
	}

	// Deleting an absent id is not an error, so a failed lookup here only
	// skips the object cleanup.
	var objectPath string
	if image, err := gc.Store.GetContentImage(uint(id)); err == nil {
		prefix := gc.Storage.PublicURL(storage.BucketGalleryImages, "")
		if strings.HasPrefix(image.URL, prefix) {
			objectPath = strings.TrimPrefix(image.URL, prefix)
		}
	}

	if err := gc.Store.DeleteContentImage(uint(id)); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if objectPath != "" {
		_ = gc.Storage.Delete(storage.BucketGalleryImages, objectPath)
	}

	utils.RespondJSON(c, http.StatusOK, "Image deleted", gin.H{"image_id": id})
}
