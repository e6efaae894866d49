package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"target_annotator_v1_202608/internal/model"
	"target_annotator_v1_202608/internal/repository"
)

// ==================== 错误 ====================

var (
	ErrSessionNotFound = errors.New("会话不存在或已过期")
	ErrFieldNotFound   = errors.New("字段不存在")
	ErrFieldExists     = errors.New("字段已存在")
	ErrEmptyCredential = errors.New("请先提供 API Key")
)

// ==================== 会话服务 ====================

// SessionService 会话生命周期与字段目录维护
type SessionService struct {
	repo repository.SessionRepository
}

func NewSessionService(repo repository.SessionRepository) *SessionService {
	return &SessionService{repo: repo}
}

// CreateSession 新建会话并播种内置字段目录
func (s *SessionService) CreateSession(ctx context.Context, apiKey string) (*model.AnnotationSession, error) {
	session := &model.AnnotationSession{
		ID:     uuid.NewString(),
		APIKey: apiKey,
		Fields: model.DefaultFieldSpecs(),
	}
	if err := session.SetRecord(nil); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession 读取会话（字段按目录顺序）
func (s *SessionService) GetSession(ctx context.Context, id string) (*model.AnnotationSession, error) {
	session, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	return session, err
}

// SetCredential 设置/替换 API Key，只校验非空
func (s *SessionService) SetCredential(ctx context.Context, id, apiKey string) error {
	if apiKey == "" {
		return ErrEmptyCredential
	}

	session, err := s.GetSession(ctx, id)
	if err != nil {
		return err
	}
	session.APIKey = apiKey
	return s.repo.Update(ctx, session)
}

// ==================== 字段目录 ====================

// ListFields 目录快照（目录顺序）
func (s *SessionService) ListFields(ctx context.Context, sessionID string) ([]model.FieldSpec, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.repo.GetFields(ctx, sessionID)
}

// ToggleField 切换字段的必填状态
func (s *SessionService) ToggleField(ctx context.Context, sessionID, name string, required bool) (*model.FieldSpec, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	field, err := s.repo.GetFieldByName(ctx, sessionID, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFieldNotFound
	}
	if err != nil {
		return nil, err
	}

	field.Required = required
	if err := s.repo.UpdateField(ctx, field); err != nil {
		return nil, err
	}
	return field, nil
}

// AddField 追加目录行（动态行数），名字唯一，排在末尾
func (s *SessionService) AddField(ctx context.Context, sessionID, name string, required bool) (*model.FieldSpec, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetFieldByName(ctx, sessionID, name); err == nil {
		return nil, ErrFieldExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sort, err := s.repo.NextSort(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	field := &model.FieldSpec{
		SessionID: sessionID,
		Name:      name,
		Required:  required,
		Sort:      sort,
	}
	if err := s.repo.CreateField(ctx, field); err != nil {
		return nil, err
	}
	return field, nil
}

// RemoveField 删除目录行
func (s *SessionService) RemoveField(ctx context.Context, sessionID, name string) error {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return err
	}

	if _, err := s.repo.GetFieldByName(ctx, sessionID, name); errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrFieldNotFound
	} else if err != nil {
		return err
	}

	return s.repo.DeleteField(ctx, sessionID, name)
}

// ==================== 清理 ====================

// CleanupStale 删除超过 ttl 未活动的会话，返回删除数量（定时任务调用）
func (s *SessionService) CleanupStale(ctx context.Context, ttl time.Duration) (int, error) {
	stale, err := s.repo.ListStale(ctx, time.Now().Add(-ttl))
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, session := range stale {
		if err := s.repo.Delete(ctx, session.ID); err != nil {
			log.Printf("[Cron] 清理会话 %s 失败: %v", session.ID, err)
			continue
		}
		removed++
	}
	return removed, nil
}
