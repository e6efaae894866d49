package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"target_annotator_v1_202608/internal/api/dto"
	"target_annotator_v1_202608/internal/model"
	"target_annotator_v1_202608/internal/service"
)

type SessionController struct {
	sessionService *service.SessionService
}

func NewSessionController(sessionService *service.SessionService) *SessionController {
	return &SessionController{sessionService: sessionService}
}

// ==================== 会话 ====================

// CreateSession 新建标注会话
// @Summary 新建标注会话（播种内置字段目录）
// @Tags Session
// @Accept json
// @Param body body dto.CreateSessionReq false "可选的 API Key"
// @Success 200 {object} dto.SessionResp
// @Router /api/sessions [post]
func (ctrl *SessionController) CreateSession(c *gin.Context) {
	var req dto.CreateSessionReq
	// body 可以整个不传
	_ = c.ShouldBindJSON(&req)

	session, err := ctrl.sessionService.CreateSession(c.Request.Context(), req.APIKey)
	if err != nil {
		c.JSON(500, gin.H{"code": 500, "message": "创建会话失败: " + err.Error()})
		return
	}

	c.JSON(200, dto.SessionResp{
		Code:    0,
		Message: "success",
		Data:    toSessionData(session),
	})
}

// GetSession 会话概要
// @Summary 获取会话概要
// @Tags Session
// @Param id path string true "会话ID"
// @Success 200 {object} dto.SessionResp
// @Router /api/sessions/{id} [get]
func (ctrl *SessionController) GetSession(c *gin.Context) {
	session, err := ctrl.sessionService.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondSessionErr(c, err)
		return
	}

	c.JSON(200, dto.SessionResp{
		Code:    0,
		Message: "success",
		Data:    toSessionData(session),
	})
}

// SetCredential 设置 API Key
// @Summary 设置/替换会话凭证
// @Tags Session
// @Accept json
// @Param id path string true "会话ID"
// @Param body body dto.SetCredentialReq true "API Key"
// @Success 200 {object} map[string]interface{}
// @Router /api/sessions/{id}/credential [put]
func (ctrl *SessionController) SetCredential(c *gin.Context) {
	var req dto.SetCredentialReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "请提供 API Key"})
		return
	}

	if err := ctrl.sessionService.SetCredential(c.Request.Context(), c.Param("id"), req.APIKey); err != nil {
		respondSessionErr(c, err)
		return
	}

	c.JSON(200, gin.H{"code": 0, "message": "success"})
}

// ==================== 辅助 ====================

func toSessionData(session *model.AnnotationSession) *dto.SessionData {
	return &dto.SessionData{
		ID:            session.ID,
		HasCredential: session.APIKey != "",
		HasData:       session.HasData(),
		LastTCIN:      session.LastTCIN,
		Fields:        session.Fields,
	}
}

// respondSessionErr 会话层错误统一映射
func respondSessionErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(404, gin.H{"code": 404, "message": err.Error()})
	case errors.Is(err, service.ErrEmptyCredential):
		c.JSON(400, gin.H{"code": 400, "message": err.Error()})
	case errors.Is(err, service.ErrFieldNotFound):
		c.JSON(404, gin.H{"code": 404, "message": err.Error()})
	case errors.Is(err, service.ErrFieldExists):
		c.JSON(409, gin.H{"code": 409, "message": err.Error()})
	default:
		c.JSON(500, gin.H{"code": 500, "message": "内部错误: " + err.Error()})
	}
}
