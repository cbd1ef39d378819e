package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"order-dashboard/internal/storage"
)

type writeConfigRequest struct {
	Content json.RawMessage `json:"content"`
}

func (s *Server) listConfigFiles(c *gin.Context) {
	files, err := s.files.List(c.Request.Context())
	if err != nil {
		s.fail(c, "list config files", err)
		return
	}
	c.JSON(http.StatusOK, files)
}

func (s *Server) readConfigFile(c *gin.Context) {
	name := c.Param("filename")
	content, err := s.files.Read(c.Request.Context(), name)
	if err != nil {
		s.fail(c, "read config file", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"filename": name,
		"content":  content,
	})
}

func (s *Server) writeConfigFile(c *gin.Context) {
	name := c.Param("filename")

	body, err := c.GetRawData()
	if err != nil {
		s.fail(c, "write config file", fmt.Errorf("%w: read body: %w", storage.ErrIO, err))
		return
	}
	if len(body) == 0 {
		s.fail(c, "write config file", fmt.Errorf("%w: request body is required", storage.ErrInvalidInput))
		return
	}

	var req writeConfigRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.fail(c, "write config file", fmt.Errorf("%w: request body: %w", storage.ErrMalformedJSON, err))
		return
	}

	if err := s.files.Write(c.Request.Context(), name, req.Content); err != nil {
		s.fail(c, "write config file", err)
		return
	}

	s.logger.Info("config file saved", zap.String("filename", name))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("%s saved successfully", name),
	})
}
