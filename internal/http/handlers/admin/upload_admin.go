package admin

import (
	"github.com/tokoline/tokoline/internal/http/response"

	"github.com/gin-gonic/gin"
)

// UploadFile 上传文件，按场景存放
func (h *Handler) UploadFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Missing file")
		return
	}
	scene := c.DefaultPostForm("scene", "common")
	path, err := h.UploadService.SaveFile(file, scene)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"path": path})
}
