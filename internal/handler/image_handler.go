package handler

import (
	"errors"
	"net/http"
	"strings"

	"storefront-api/pkg/logger"
	"storefront-api/pkg/mediastore"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// FolderRequest names a folder under the media root
type FolderRequest struct {
	Folder string `json:"folder"`
}

// ListFolderImages returns the image files directly inside one media folder
func ListFolderImages(c echo.Context) error {
	log := logger.FromContext(c)

	var req FolderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Invalid request data"})
	}

	folder := strings.Trim(req.Folder, "/")

	files, err := store.ListFolder(folder)
	if err != nil {
		switch {
		case errors.Is(err, mediastore.ErrInvalidPath):
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Invalid folder path."})
		case errors.Is(err, mediastore.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Folder not found."})
		default:
			log.Error("Failed to list media folder", zap.String("folder", folder), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Failed to list folder"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"folder":  folder,
		"count":   len(files),
		"results": files,
	})
}
