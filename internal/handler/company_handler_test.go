package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tmtperez/track-my-bids/internal/middleware"
	"github.com/tmtperez/track-my-bids/internal/model/entity"
	"github.com/tmtperez/track-my-bids/internal/policy"
	"github.com/tmtperez/track-my-bids/internal/repository"
	"github.com/tmtperez/track-my-bids/internal/service"
	"github.com/tmtperez/track-my-bids/internal/testutil"
)

type companyTestEnv struct {
	db     *gorm.DB
	router *gin.Engine
	admin  *entity.User
}

func setupCompanyTest(t *testing.T) *companyTestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	admin := testutil.SeedUser(t, db, "Test Admin", "admin@test.com", entity.RoleAdmin)

	repos := repository.NewRepositories(db)
	gate := policy.Default()
	dashboard := service.NewDashboardService(repos.Bid, nil, zap.NewNop())
	companySvc := service.NewCompanyService(repos.Company, repos.Bid)
	bidSvc := service.NewBidService(repos.Bid, repos.Company, repos.Contact, repos.User, gate, dashboard)
	companyHandler := NewCompanyHandler(companySvc)
	bidHandler := NewBidHandler(bidSvc, service.NewAttachmentService(repos.Attachment, repos.Bid, nil, "", gate))

	router := testutil.SetupRouter()
	api := router.Group("/api/v1", middleware.JWTAuth(testutil.JWTSecret))

	companies := api.Group("/companies")
	companies.GET("", companyHandler.List)
	companies.POST("", companyHandler.Create)
	companies.GET("/:id", companyHandler.Get)
	companies.DELETE("/:id", companyHandler.Delete)
	companies.GET("/:id/activity", companyHandler.ListActivity)
	companies.POST("/:id/activity", companyHandler.AddActivity)

	api.POST("/bids", bidHandler.Create)

	return &companyTestEnv{db: db, router: router, admin: admin}
}

func (env *companyTestEnv) token() string {
	return testutil.GenerateTestToken(env.admin.ID, env.admin.Name, env.admin.Email, env.admin.Role)
}

func TestCompanyCreateAndDuplicate(t *testing.T) {
	env := setupCompanyTest(t)

	w := testutil.DoRequest(env.router, "POST", "/api/v1/companies",
		map[string]string{"name": "Acme Corp"}, env.token())
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// Same name in a different casing is still a duplicate.
	w = testutil.DoRequest(env.router, "POST", "/api/v1/companies",
		map[string]string{"name": "ACME corp"}, env.token())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCompanyListRollups(t *testing.T) {
	env := setupCompanyTest(t)

	w := testutil.DoRequest(env.router, "POST", "/api/v1/companies",
		map[string]string{"name": "Rollup Inc"}, env.token())
	companyID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(float64)

	w = testutil.DoRequest(env.router, "POST", "/api/v1/bids", map[string]interface{}{
		"project_name":      "Rollup Job",
		"client_company_id": companyID,
		"scopes": []map[string]interface{}{
			{"name": "Roofing", "cost": 300, "status": "Won"},
			{"name": "Paving", "cost": 120, "status": "Lost"},
			{"name": "Pending One", "cost": 999, "status": "Pending"},
		},
	}, env.token())
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.router, "GET", "/api/v1/companies", nil, env.token())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	rows := testutil.ParseResponse(w)["data"].([]interface{})
	if len(rows) != 1 {
		t.Fatalf("Expected 1 company, got %d", len(rows))
	}
	row := rows[0].(map[string]interface{})
	if row["won"].(float64) != 300 {
		t.Errorf("Expected won 300, got %v", row["won"])
	}
	if row["lost"].(float64) != 120 {
		t.Errorf("Expected lost 120, got %v", row["lost"])
	}
	projects := row["projects"].([]interface{})
	if len(projects) != 1 {
		t.Errorf("Expected 1 project ref, got %d", len(projects))
	}
}

func TestCompanyDeleteBlockedByBids(t *testing.T) {
	env := setupCompanyTest(t)

	w := testutil.DoRequest(env.router, "POST", "/api/v1/companies",
		map[string]string{"name": "Busy Co"}, env.token())
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	id := jsonID(data)

	w = testutil.DoRequest(env.router, "POST", "/api/v1/bids", map[string]interface{}{
		"project_name":      "Blocker",
		"client_company_id": data["id"],
	}, env.token())
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.router, "DELETE", "/api/v1/companies/"+id, nil, env.token())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCompanyDeleteWithoutBids(t *testing.T) {
	env := setupCompanyTest(t)

	w := testutil.DoRequest(env.router, "POST", "/api/v1/companies",
		map[string]string{"name": "Ephemeral"}, env.token())
	id := jsonID(testutil.ParseResponse(w)["data"].(map[string]interface{}))

	w = testutil.DoRequest(env.router, "DELETE", "/api/v1/companies/"+id, nil, env.token())
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.router, "GET", "/api/v1/companies/"+id, nil, env.token())
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", w.Code)
	}
}

func TestCompanyActivityLog(t *testing.T) {
	env := setupCompanyTest(t)

	w := testutil.DoRequest(env.router, "POST", "/api/v1/companies",
		map[string]string{"name": "Chatty Co"}, env.token())
	id := jsonID(testutil.ParseResponse(w)["data"].(map[string]interface{}))

	w = testutil.DoRequest(env.router, "POST", "/api/v1/companies/"+id+"/activity",
		map[string]string{"kind": "call", "detail": "spoke with purchasing"}, env.token())
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.router, "GET", "/api/v1/companies/"+id+"/activity", nil, env.token())
	entries := testutil.ParseResponse(w)["data"].([]interface{})
	if len(entries) != 1 {
		t.Fatalf("Expected 1 activity entry, got %d", len(entries))
	}
	entry := entries[0].(map[string]interface{})
	if entry["kind"] != "call" {
		t.Errorf("Expected kind 'call', got %v", entry["kind"])
	}
}
