package service

import (
	"context"
	"log"

	"target_annotator_v1_202608/internal/model"
	"target_annotator_v1_202608/internal/repository"
	"target_annotator_v1_202608/pkg/redcircle"
	"target_annotator_v1_202608/pkg/utils"
)

// ==================== 抓取结果 ====================

// FetchOutcome 单次抓取的终态
// 抓取失败不向上抛错：快照清空，带回一条按类别措辞的诊断
type FetchOutcome struct {
	OK        bool   `json:"ok"`
	HasData   bool   `json:"has_data"`
	FromCache bool   `json:"from_cache"`
	Category  string `json:"category,omitempty"` // timeout / http / network / format / unexpected
	Message   string `json:"message,omitempty"`  // 用户可见诊断，成功为空
}

// DetailsView 商品详情视图，交给外部展示层渲染
// 有可展示主图时走双栏（图片栏 + 明细栏），否则单列
type DetailsView struct {
	HasData   bool         `json:"has_data"`
	Layout    string       `json:"layout"` // two_column / single
	MainImage string       `json:"main_image,omitempty"`
	Fields    []FieldValue `json:"fields"`
}

const (
	LayoutTwoColumn = "two_column"
	LayoutSingle    = "single"
)

// ==================== 商品服务 ====================

// ProductService 抓取编排：凭证检查、缓存、调用 RedCircle、落会话
type ProductService struct {
	sessionRepo repository.SessionRepository
	sessions    *SessionService
	projector   *ProjectorService
	client      *redcircle.Client
	cache       *utils.FetchCache
}

func NewProductService(
	sessionRepo repository.SessionRepository,
	sessions *SessionService,
	projector *ProjectorService,
	client *redcircle.Client,
	cache *utils.FetchCache,
) *ProductService {
	return &ProductService{
		sessionRepo: sessionRepo,
		sessions:    sessions,
		projector:   projector,
		client:      client,
		cache:       cache,
	}
}

// Fetch 按 TCIN 抓取商品并整体替换会话快照
// 成功结果进缓存；失败时快照清空，返回失败类别的诊断
func (s *ProductService) Fetch(ctx context.Context, sessionID, tcin string) (*FetchOutcome, error) {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.APIKey == "" {
		return nil, ErrEmptyCredential
	}

	key := utils.CacheKey(session.APIKey, tcin)
	if record, ok := s.cache.Get(key); ok {
		if err := s.storeRecord(ctx, session, tcin, record); err != nil {
			return nil, err
		}
		return &FetchOutcome{OK: true, HasData: len(record) > 0, FromCache: true}, nil
	}

	record, fetchErr := s.client.FetchProduct(ctx, session.APIKey, tcin)
	if fetchErr != nil {
		// 抓取边界：清空快照，转成一条诊断，不再向上抛
		if err := s.storeRecord(ctx, session, tcin, nil); err != nil {
			return nil, err
		}
		outcome := failureOutcome(fetchErr)
		log.Printf("❌ 抓取失败 [tcin=%s] [%s]: %s", tcin, outcome.Category, outcome.Message)
		return outcome, nil
	}

	s.cache.Set(key, record)
	if err := s.storeRecord(ctx, session, tcin, record); err != nil {
		return nil, err
	}
	return &FetchOutcome{OK: true, HasData: len(record) > 0}, nil
}

func (s *ProductService) storeRecord(ctx context.Context, session *model.AnnotationSession, tcin string, record redcircle.Record) error {
	session.LastTCIN = tcin
	if err := session.SetRecord(record); err != nil {
		return err
	}
	return s.sessionRepo.Update(ctx, session)
}

// failureOutcome 每个失败类别恰好一条措辞
func failureOutcome(err error) *FetchOutcome {
	outcome := &FetchOutcome{OK: false}
	switch redcircle.KindOf(err) {
	case redcircle.ErrKindTimeout:
		outcome.Category = "timeout"
		outcome.Message = "请求超时，重试后仍未成功，请稍后再试"
	case redcircle.ErrKindHTTPStatus:
		outcome.Category = "http"
		outcome.Message = "HTTP 错误: " + err.Error()
	case redcircle.ErrKindNetwork:
		outcome.Category = "network"
		outcome.Message = "网络/请求错误: " + err.Error()
	case redcircle.ErrKindFormat:
		outcome.Category = "format"
		outcome.Message = "商品数据不是 JSON 对象，请检查接口返回格式"
	default:
		outcome.Category = "unexpected"
		outcome.Message = "抓取时发生未知错误: " + err.Error()
	}
	return outcome
}

// ==================== 详情视图 ====================

// Details 组装商品详情视图
// 字段顺序：必填在前（目录顺序），showOptional 时可选字段跟在后面；
// Main Image 不进明细列表，只决定布局
func (s *ProductService) Details(ctx context.Context, sessionID string, showOptional bool) (*DetailsView, error) {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	data := session.Record()
	if len(data) == 0 {
		return &DetailsView{HasData: false, Layout: LayoutSingle, Fields: []FieldValue{}}, nil
	}

	fields, err := s.sessionRepo.GetFields(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	displayed := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.Required && f.Name != fieldMainImage {
			displayed = append(displayed, f.Name)
		}
	}
	if showOptional {
		for _, f := range fields {
			if !f.Required && f.Name != fieldMainImage {
				displayed = append(displayed, f.Name)
			}
		}
	}

	view := &DetailsView{
		HasData: true,
		Layout:  LayoutSingle,
		Fields:  s.projector.Project(data, displayed),
	}
	if url, ok := s.projector.MainImageURL(data); ok {
		view.Layout = LayoutTwoColumn
		view.MainImage = url
	}
	return view, nil
}
