package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumen-signage/lumen/internal/http/api"
	"github.com/lumen-signage/lumen/internal/http/api/admin/packets"
	"github.com/lumen-signage/lumen/internal/storage"
)

// MediaModule mounts the media upload endpoint backing media/video playlist
// items.
func MediaModule(store storage.Storage) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/media", func(ctx *gin.Context) (any, *api.APIError) {
			fileHeader, err := ctx.FormFile("file")
			if err != nil {
				return nil, &api.APIError{Code: http.StatusBadRequest, Message: "file field is required"}
			}
			url, err := store.SaveFile(fileHeader, fileHeader.Filename)
			if err != nil {
				return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "upload failed"}
			}
			return packets.MediaUploadResponse{URL: url}, nil
		})
	})
}
