package dto

import "target_annotator_v1_202608/internal/model"

// ==================== 请求 DTO ====================

// CreateSessionReq 新建会话，API Key 可后补
type CreateSessionReq struct {
	APIKey string `json:"api_key"`
}

// SetCredentialReq 设置凭证
type SetCredentialReq struct {
	APIKey string `json:"api_key" binding:"required"`
}

// FetchReq 按 TCIN 抓取
type FetchReq struct {
	TCIN string `json:"tcin" binding:"required,max=32"`
}

// ToggleFieldReq 切换必填状态
// 用指针区分 "false" 和 "没传"
type ToggleFieldReq struct {
	Required *bool `json:"required" binding:"required"`
}

// AddFieldReq 追加目录行
type AddFieldReq struct {
	Field    string `json:"field" binding:"required,max=64"`
	Required bool   `json:"required"`
}

// ==================== 响应 DTO ====================

// SessionResp 会话概要
type SessionResp struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Data    *SessionData `json:"data,omitempty"`
}

// SessionData 会话概要数据
type SessionData struct {
	ID            string            `json:"id"`
	HasCredential bool              `json:"has_credential"`
	HasData       bool              `json:"has_data"`
	LastTCIN      string            `json:"last_tcin,omitempty"`
	Fields        []model.FieldSpec `json:"fields"`
}

// FieldListResp 注释视图的字段表
type FieldListResp struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    []model.FieldSpec `json:"data"`
}
