package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"target_annotator_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// SessionRepository 会话仓储接口
type SessionRepository interface {
	// 会话
	Create(ctx context.Context, session *model.AnnotationSession) error
	GetByID(ctx context.Context, id string) (*model.AnnotationSession, error)
	Update(ctx context.Context, session *model.AnnotationSession) error
	Delete(ctx context.Context, id string) error
	ListStale(ctx context.Context, before time.Time) ([]model.AnnotationSession, error)

	// 字段目录
	GetFields(ctx context.Context, sessionID string) ([]model.FieldSpec, error)
	GetFieldByName(ctx context.Context, sessionID, name string) (*model.FieldSpec, error)
	CreateField(ctx context.Context, field *model.FieldSpec) error
	UpdateField(ctx context.Context, field *model.FieldSpec) error
	DeleteField(ctx context.Context, sessionID, name string) error
	NextSort(ctx context.Context, sessionID string) (int, error)
}

type sessionRepo struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepo{db: db}
}

// ==================== 会话 ====================

func (r *sessionRepo) Create(ctx context.Context, session *model.AnnotationSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*model.AnnotationSession, error) {
	var session model.AnnotationSession
	err := r.db.WithContext(ctx).
		Preload("Fields", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort ASC")
		}).
		First(&session, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) Update(ctx context.Context, session *model.AnnotationSession) error {
	// Save 会整体落盘，快照字段（空 JSON）也要覆盖写
	return r.db.WithContext(ctx).Omit("Fields").Save(session).Error
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&model.FieldSpec{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.AnnotationSession{}, "id = ?", id).Error
	})
}

func (r *sessionRepo) ListStale(ctx context.Context, before time.Time) ([]model.AnnotationSession, error) {
	var sessions []model.AnnotationSession
	err := r.db.WithContext(ctx).
		Where("updated_at < ?", before).
		Find(&sessions).Error
	return sessions, err
}

// ==================== 字段目录 ====================

func (r *sessionRepo) GetFields(ctx context.Context, sessionID string) ([]model.FieldSpec, error) {
	var fields []model.FieldSpec
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("sort ASC").
		Find(&fields).Error
	return fields, err
}

func (r *sessionRepo) GetFieldByName(ctx context.Context, sessionID, name string) (*model.FieldSpec, error) {
	var field model.FieldSpec
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND name = ?", sessionID, name).
		First(&field).Error
	if err != nil {
		return nil, err
	}
	return &field, nil
}

func (r *sessionRepo) CreateField(ctx context.Context, field *model.FieldSpec) error {
	return r.db.WithContext(ctx).Create(field).Error
}

func (r *sessionRepo) UpdateField(ctx context.Context, field *model.FieldSpec) error {
	return r.db.WithContext(ctx).Save(field).Error
}

func (r *sessionRepo) DeleteField(ctx context.Context, sessionID, name string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ? AND name = ?", sessionID, name).
		Delete(&model.FieldSpec{}).Error
}

func (r *sessionRepo) NextSort(ctx context.Context, sessionID string) (int, error) {
	var maxSort *int
	err := r.db.WithContext(ctx).
		Model(&model.FieldSpec{}).
		Where("session_id = ?", sessionID).
		Select("MAX(sort)").
		Scan(&maxSort).Error
	if err != nil {
		return 0, err
	}
	if maxSort == nil {
		return 0, nil
	}
	return *maxSort + 1, nil
}
