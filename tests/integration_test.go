package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"target_annotator_v1_202608/internal/controller"
	"target_annotator_v1_202608/internal/model"
	"target_annotator_v1_202608/internal/repository"
	"target_annotator_v1_202608/internal/router"
	"target_annotator_v1_202608/internal/service"
	"target_annotator_v1_202608/pkg/redcircle"
	"target_annotator_v1_202608/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const upstreamEnvelope = `{
	"product": {
		"tcin": "89603872",
		"title": "Good & Gather Organic Honey",
		"brand": "Good & Gather",
		"upc": "085239124567",
		"main_image": {"link": "http://img.example/honey.jpg"},
		"buybox_winner": {"price": {"currency_symbol": "$", "value": 9.99}}
	}
}`

// ==================== 集成测试套件 ====================

// fakeUpstream 可切换响应的 RedCircle 假上游
type fakeUpstream struct {
	mu     sync.Mutex
	status int
	body   string
	hits   int
	server *httptest.Server
}

func newFakeUpstream() *fakeUpstream {
	up := &fakeUpstream{status: http.StatusOK, body: upstreamEnvelope}
	up.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		up.mu.Lock()
		status, body := up.status, up.body
		up.hits++
		up.mu.Unlock()

		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	return up
}

func (up *fakeUpstream) hitCount() int {
	up.mu.Lock()
	defer up.mu.Unlock()
	return up.hits
}

func (up *fakeUpstream) respond(status int, body string) {
	up.mu.Lock()
	up.status, up.body = status, body
	up.mu.Unlock()
}

type IntegrationSuite struct {
	DB       *gorm.DB
	Router   *gin.Engine
	Upstream *fakeUpstream
	T        *testing.T
}

func NewIntegrationSuite(t *testing.T, fetchCooldown time.Duration) *IntegrationSuite {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接数据库失败: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取底层连接失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.AnnotationSession{}, &model.FieldSpec{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}

	upstream := newFakeUpstream()
	t.Cleanup(upstream.server.Close)

	// 和 cmd/main.go 一样的装配，只是换成测试配置
	sessionRepo := repository.NewSessionRepository(db)
	sessionSvc := service.NewSessionService(sessionRepo)
	projectorSvc := service.NewProjectorService()
	client := redcircle.NewClient(&redcircle.Config{
		BaseURL: upstream.server.URL,
		Sleep:   func(time.Duration) {},
	})
	cache := utils.NewFetchCache(time.Hour)
	productSvc := service.NewProductService(sessionRepo, sessionSvc, projectorSvc, client, cache)
	exportSvc := service.NewExportService(sessionRepo, sessionSvc, projectorSvc)

	ctl := &router.Controllers{
		Session:    controller.NewSessionController(sessionSvc),
		Product:    controller.NewProductController(productSvc),
		Annotation: controller.NewAnnotationController(sessionSvc, exportSvc),
	}

	return &IntegrationSuite{
		DB:       db,
		Router:   router.SetupRouter(ctl, fetchCooldown),
		Upstream: upstream,
		T:        t,
	}
}

// do 发送一次请求并解析 {code, message, data} 信封
func (s *IntegrationSuite) do(method, path string, body interface{}) (int, map[string]interface{}) {
	s.T.Helper()

	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.T.Fatalf("请求体序列化失败: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	var envelope map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		s.T.Fatalf("响应不是 JSON: %v (body=%s)", err, w.Body.String())
	}
	return w.Code, envelope
}

func (s *IntegrationSuite) createSession() string {
	s.T.Helper()

	status, resp := s.do(http.MethodPost, "/api/sessions", nil)
	if status != 200 {
		s.T.Fatalf("创建会话失败: status=%d resp=%v", status, resp)
	}
	data := resp["data"].(map[string]interface{})
	id, _ := data["id"].(string)
	if id == "" {
		s.T.Fatal("会话 ID 为空")
	}
	return id
}

func (s *IntegrationSuite) setCredential(id, key string) {
	s.T.Helper()

	status, resp := s.do(http.MethodPut, "/api/sessions/"+id+"/credential", gin.H{"api_key": key})
	if status != 200 {
		s.T.Fatalf("设置凭证失败: status=%d resp=%v", status, resp)
	}
}

// ==================== 会话生命周期 ====================

func TestIntegration_SessionLifecycle(t *testing.T) {
	suite := NewIntegrationSuite(t, 0)

	t.Run("CreateSeedsCatalog", func(t *testing.T) {
		status, resp := suite.do(http.MethodPost, "/api/sessions", nil)
		if status != 200 {
			t.Fatalf("status = %d", status)
		}
		data := resp["data"].(map[string]interface{})
		if data["has_credential"].(bool) {
			t.Error("新会话不应有凭证")
		}
		if data["has_data"].(bool) {
			t.Error("新会话不应有商品数据")
		}
		fields := data["fields"].([]interface{})
		if len(fields) != 14 {
			t.Errorf("内置目录行数 = %d, 期望 14", len(fields))
		}
		first := fields[0].(map[string]interface{})
		if first["field"] != "TCIN" || first["required"] != true {
			t.Errorf("目录首行 = %v", first)
		}
	})

	t.Run("GetUnknownSession", func(t *testing.T) {
		status, _ := suite.do(http.MethodGet, "/api/sessions/no-such-id", nil)
		if status != 404 {
			t.Errorf("未知会话 status = %d, 期望 404", status)
		}
	})

	t.Run("CredentialValidation", func(t *testing.T) {
		id := suite.createSession()

		// 空 Key 拒绝
		status, _ := suite.do(http.MethodPut, "/api/sessions/"+id+"/credential", gin.H{"api_key": ""})
		if status != 400 {
			t.Errorf("空凭证 status = %d, 期望 400", status)
		}

		suite.setCredential(id, "demo-key")
		_, resp := suite.do(http.MethodGet, "/api/sessions/"+id, nil)
		data := resp["data"].(map[string]interface{})
		if !data["has_credential"].(bool) {
			t.Error("凭证未生效")
		}
	})
}

// ==================== 抓取与详情 ====================

func TestIntegration_FetchAndDetails(t *testing.T) {
	suite := NewIntegrationSuite(t, 0)
	id := suite.createSession()

	t.Run("FetchWithoutCredential", func(t *testing.T) {
		status, _ := suite.do(http.MethodPost, "/api/sessions/"+id+"/fetch", gin.H{"tcin": "89603872"})
		if status != 400 {
			t.Errorf("无凭证抓取 status = %d, 期望 400", status)
		}
	})

	suite.setCredential(id, "demo-key")

	t.Run("FetchSuccess", func(t *testing.T) {
		status, resp := suite.do(http.MethodPost, "/api/sessions/"+id+"/fetch", gin.H{"tcin": "89603872"})
		if status != 200 {
			t.Fatalf("status = %d", status)
		}
		data := resp["data"].(map[string]interface{})
		if data["ok"] != true || data["has_data"] != true {
			t.Errorf("outcome = %v", data)
		}
	})

	t.Run("DetailsRequiredOnly", func(t *testing.T) {
		status, resp := suite.do(http.MethodGet, "/api/sessions/"+id+"/details", nil)
		if status != 200 {
			t.Fatalf("status = %d", status)
		}
		data := resp["data"].(map[string]interface{})
		if data["layout"] != "two_column" {
			t.Errorf("布局 = %v, 期望 two_column", data["layout"])
		}
		if data["main_image"] != "http://img.example/honey.jpg" {
			t.Errorf("主图 = %v", data["main_image"])
		}

		fields := data["fields"].([]interface{})
		if len(fields) != 4 {
			t.Fatalf("必填明细行数 = %d, 期望 4", len(fields))
		}
		for _, raw := range fields {
			fv := raw.(map[string]interface{})
			if fv["field"] == "Main Image" {
				t.Error("明细不应包含 Main Image")
			}
		}
		price := fields[3].(map[string]interface{})
		if price["field"] != "Price" || price["value"] != "$9.99" {
			t.Errorf("价格行 = %v", price)
		}
	})

	t.Run("DetailsShowOptional", func(t *testing.T) {
		_, resp := suite.do(http.MethodGet, "/api/sessions/"+id+"/details?show_optional=true", nil)
		data := resp["data"].(map[string]interface{})
		fields := data["fields"].([]interface{})
		if len(fields) != 13 {
			t.Errorf("全量明细行数 = %d, 期望 13", len(fields))
		}
		// 可选字段跟在必填后面；缺失的走占位值
		upc := fields[4].(map[string]interface{})
		if upc["field"] != "UPC" || upc["value"] != "085239124567" {
			t.Errorf("UPC 行 = %v", upc)
		}
		dpci := fields[5].(map[string]interface{})
		if dpci["field"] != "DPCI" || dpci["value"] != "N/A" {
			t.Errorf("DPCI 行 = %v", dpci)
		}
	})

	t.Run("FetchFailureClearsSnapshot", func(t *testing.T) {
		suite.Upstream.respond(http.StatusNotFound, `{"error": "not found"}`)

		status, resp := suite.do(http.MethodPost, "/api/sessions/"+id+"/fetch", gin.H{"tcin": "11111111"})
		if status != 200 {
			t.Fatalf("抓取失败应是业务终态, status = %d", status)
		}
		data := resp["data"].(map[string]interface{})
		if data["ok"] != false || data["category"] != "http" {
			t.Errorf("outcome = %v", data)
		}
		if resp["message"] == "success" {
			t.Error("失败响应不应是 success")
		}

		_, detail := suite.do(http.MethodGet, "/api/sessions/"+id+"/details", nil)
		view := detail["data"].(map[string]interface{})
		if view["has_data"] != false {
			t.Error("失败后快照应清空")
		}
	})
}

// ==================== 字段目录与导出 ====================

func TestIntegration_CatalogAndExport(t *testing.T) {
	suite := NewIntegrationSuite(t, 0)
	id := suite.createSession()
	suite.setCredential(id, "demo-key")

	t.Run("ExportBeforeFetch", func(t *testing.T) {
		status, _ := suite.do(http.MethodPost, "/api/sessions/"+id+"/export", nil)
		if status != 409 {
			t.Errorf("无数据导出 status = %d, 期望 409", status)
		}
	})

	if status, _ := suite.do(http.MethodPost, "/api/sessions/"+id+"/fetch", gin.H{"tcin": "89603872"}); status != 200 {
		t.Fatalf("抓取失败: status = %d", status)
	}

	t.Run("ToggleAndAddFields", func(t *testing.T) {
		// UPC 提升为必填，Brand 降为可选
		status, _ := suite.do(http.MethodPut, "/api/sessions/"+id+"/fields/UPC", gin.H{"required": true})
		if status != 200 {
			t.Fatalf("切换 UPC status = %d", status)
		}
		status, _ = suite.do(http.MethodPut, "/api/sessions/"+id+"/fields/Brand", gin.H{"required": false})
		if status != 200 {
			t.Fatalf("切换 Brand status = %d", status)
		}

		// 未知字段
		status, _ = suite.do(http.MethodPut, "/api/sessions/"+id+"/fields/Nope", gin.H{"required": true})
		if status != 404 {
			t.Errorf("未知字段 status = %d, 期望 404", status)
		}

		// 追加自定义行，重复追加冲突
		status, _ = suite.do(http.MethodPost, "/api/sessions/"+id+"/fields", gin.H{"field": "Shelf Position", "required": false})
		if status != 200 {
			t.Errorf("追加字段 status = %d", status)
		}
		status, _ = suite.do(http.MethodPost, "/api/sessions/"+id+"/fields", gin.H{"field": "Shelf Position"})
		if status != 409 {
			t.Errorf("重复追加 status = %d, 期望 409", status)
		}
	})

	t.Run("ExportFollowsToggles", func(t *testing.T) {
		status, resp := suite.do(http.MethodPost, "/api/sessions/"+id+"/export", nil)
		if status != 200 {
			t.Fatalf("导出失败: status = %d resp=%v", status, resp)
		}
		data := resp["data"].(map[string]interface{})
		doc, _ := data["json"].(string)

		expected := "{\n" +
			"    \"TCIN\": \"89603872\",\n" +
			"    \"Product Title\": \"Good & Gather Organic Honey\",\n" +
			"    \"Price\": \"$9.99\",\n" +
			"    \"Main Image\": \"http://img.example/honey.jpg\",\n" +
			"    \"UPC\": \"085239124567\"\n" +
			"}"
		if doc != expected {
			t.Errorf("导出文档不符:\n得到:\n%s\n期望:\n%s", doc, expected)
		}

		fields := data["fields"].([]interface{})
		for i, raw := range fields {
			fv := raw.(map[string]interface{})
			if fv["field"] == "Brand" {
				t.Errorf("第 %d 行不应出现已降级的 Brand", i)
			}
		}
	})

	t.Run("RemoveField", func(t *testing.T) {
		status, _ := suite.do(http.MethodDelete, "/api/sessions/"+id+"/fields/Shelf%20Position", nil)
		if status != 200 {
			t.Errorf("删除字段 status = %d", status)
		}
		status, _ = suite.do(http.MethodDelete, "/api/sessions/"+id+"/fields/Shelf%20Position", nil)
		if status != 404 {
			t.Errorf("重复删除 status = %d, 期望 404", status)
		}
	})
}

// ==================== 抓取冷却 ====================

func TestIntegration_FetchCooldown(t *testing.T) {
	suite := NewIntegrationSuite(t, time.Second)
	id := suite.createSession()
	suite.setCredential(id, "demo-key")

	status, _ := suite.do(http.MethodPost, "/api/sessions/"+id+"/fetch", gin.H{"tcin": "89603872"})
	if status != 200 {
		t.Fatalf("首次抓取 status = %d", status)
	}

	before := suite.Upstream.hitCount()
	status, resp := suite.do(http.MethodPost, "/api/sessions/"+id+"/fetch", gin.H{"tcin": "89603872"})
	if status != 429 {
		t.Fatalf("冷却期内 status = %d, 期望 429", status)
	}
	if msg, _ := resp["message"].(string); msg == "" {
		t.Error("429 响应应带提示")
	}
	if suite.Upstream.hitCount() != before {
		t.Error("限流后不应再打到上游")
	}

	// 另一个会话不受影响
	other := suite.createSession()
	suite.setCredential(other, "demo-key")
	if status, _ := suite.do(http.MethodPost, "/api/sessions/"+other+"/fetch", gin.H{"tcin": "89603872"}); status != 200 {
		t.Errorf("其他会话被误限流: status = %d", status)
	}
}

// ==================== 并发 ====================

func TestIntegration_ConcurrentSessions(t *testing.T) {
	suite := NewIntegrationSuite(t, 0)

	const workers = 8
	var wg sync.WaitGroup
	ids := make([]string, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := suite.createSession()
			suite.setCredential(id, fmt.Sprintf("key-%d", i))
			ids[i] = id
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, workers)
	for _, id := range ids {
		if id == "" {
			t.Fatal("存在未创建成功的会话")
		}
		if seen[id] {
			t.Fatalf("会话 ID 冲突: %s", id)
		}
		seen[id] = true
	}
}
