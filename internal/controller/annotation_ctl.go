package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"target_annotator_v1_202608/internal/api/dto"
	"target_annotator_v1_202608/internal/service"
)

// AnnotationController 注释视图：字段必填表 + 导出
type AnnotationController struct {
	sessionService *service.SessionService
	exportService  *service.ExportService
}

func NewAnnotationController(sessionService *service.SessionService, exportService *service.ExportService) *AnnotationController {
	return &AnnotationController{
		sessionService: sessionService,
		exportService:  exportService,
	}
}

// ==================== 字段表 ====================

// ListFields 字段必填表
// @Summary 获取字段目录（目录顺序）
// @Tags Annotation
// @Param id path string true "会话ID"
// @Success 200 {object} dto.FieldListResp
// @Router /api/sessions/{id}/fields [get]
func (ctrl *AnnotationController) ListFields(c *gin.Context) {
	fields, err := ctrl.sessionService.ListFields(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondSessionErr(c, err)
		return
	}

	c.JSON(200, dto.FieldListResp{Code: 0, Message: "success", Data: fields})
}

// ToggleField 切换字段必填状态
// @Summary 切换字段必填状态
// @Tags Annotation
// @Accept json
// @Param id path string true "会话ID"
// @Param name path string true "字段名"
// @Param body body dto.ToggleFieldReq true "required"
// @Success 200 {object} map[string]interface{}
// @Router /api/sessions/{id}/fields/{name} [put]
func (ctrl *AnnotationController) ToggleField(c *gin.Context) {
	var req dto.ToggleFieldReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "请提供 required 布尔值"})
		return
	}

	field, err := ctrl.sessionService.ToggleField(c.Request.Context(), c.Param("id"), c.Param("name"), *req.Required)
	if err != nil {
		respondSessionErr(c, err)
		return
	}

	c.JSON(200, gin.H{"code": 0, "message": "success", "data": field})
}

// AddField 追加目录行
// @Summary 追加字段目录行
// @Tags Annotation
// @Accept json
// @Param id path string true "会话ID"
// @Param body body dto.AddFieldReq true "字段"
// @Success 200 {object} map[string]interface{}
// @Router /api/sessions/{id}/fields [post]
func (ctrl *AnnotationController) AddField(c *gin.Context) {
	var req dto.AddFieldReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "无效的字段名"})
		return
	}

	field, err := ctrl.sessionService.AddField(c.Request.Context(), c.Param("id"), req.Field, req.Required)
	if err != nil {
		respondSessionErr(c, err)
		return
	}

	c.JSON(200, gin.H{"code": 0, "message": "success", "data": field})
}

// RemoveField 删除目录行
// @Summary 删除字段目录行
// @Tags Annotation
// @Param id path string true "会话ID"
// @Param name path string true "字段名"
// @Success 200 {object} map[string]interface{}
// @Router /api/sessions/{id}/fields/{name} [delete]
func (ctrl *AnnotationController) RemoveField(c *gin.Context) {
	if err := ctrl.sessionService.RemoveField(c.Request.Context(), c.Param("id"), c.Param("name")); err != nil {
		respondSessionErr(c, err)
		return
	}

	c.JSON(200, gin.H{"code": 0, "message": "success"})
}

// ==================== 导出 ====================

// Export 导出必填字段
// @Summary 导出当前必填字段投影为 JSON 文档（4 空格缩进，目录顺序）
// @Tags Annotation
// @Param id path string true "会话ID"
// @Success 200 {object} service.ExportResult
// @Failure 409 {object} map[string]interface{} "没有可导出的数据"
// @Router /api/sessions/{id}/export [post]
func (ctrl *AnnotationController) Export(c *gin.Context) {
	result, err := ctrl.exportService.ExportRequired(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrEmptyExport) {
			c.JSON(409, gin.H{"code": 409, "message": err.Error()})
			return
		}
		respondSessionErr(c, err)
		return
	}

	c.JSON(200, gin.H{"code": 0, "message": "success", "data": result})
}
