package handler

import (
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

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

type bidTestEnv struct {
	db      *gorm.DB
	router  *gin.Engine
	admin   *entity.User
	user    *entity.User
	company *entity.Company
}

func setupBidTest(t *testing.T) *bidTestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	admin := testutil.SeedUser(t, db, "Test Admin", "admin@test.com", entity.RoleAdmin)
	user := testutil.SeedUser(t, db, "Plain User", "user@test.com", entity.RoleUser)
	company := testutil.SeedCompany(t, db, "Acme Corp")

	repos := repository.NewRepositories(db)
	gate := policy.Default()
	dashboard := service.NewDashboardService(repos.Bid, nil, zap.NewNop())
	bidSvc := service.NewBidService(repos.Bid, repos.Company, repos.Contact, repos.User, gate, dashboard)
	attachSvc := service.NewAttachmentService(repos.Attachment, repos.Bid, nil, "", gate)
	bidHandler := NewBidHandler(bidSvc, attachSvc)

	router := testutil.SetupRouter()
	api := router.Group("/api/v1", middleware.JWTAuth(testutil.JWTSecret))

	bids := api.Group("/bids")
	bids.GET("", bidHandler.List)
	bids.POST("", bidHandler.Create)
	bids.GET("/:id", bidHandler.Get)
	bids.PUT("/:id", bidHandler.Update)
	bids.DELETE("/:id", bidHandler.Delete)
	bids.POST("/:id/notes", bidHandler.AddNote)

	return &bidTestEnv{db: db, router: router, admin: admin, user: user, company: company}
}

func (env *bidTestEnv) adminToken() string {
	return testutil.GenerateTestToken(env.admin.ID, env.admin.Name, env.admin.Email, env.admin.Role)
}

func (env *bidTestEnv) userToken() string {
	return testutil.GenerateTestToken(env.user.ID, env.user.Name, env.user.Email, env.user.Role)
}

func createBid(t *testing.T, env *bidTestEnv, token string, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	w := testutil.DoRequest(env.router, "POST", "/api/v1/bids", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	return resp["data"].(map[string]interface{})
}

func TestBidCreateSanitizesScopes(t *testing.T) {
	env := setupBidTest(t)

	bid := createBid(t, env, env.adminToken(), map[string]interface{}{
		"project_name":      "Harbor Renovation",
		"client_company_id": env.company.ID,
		"bid_status":        "Active",
		"scopes": []map[string]interface{}{
			{"name": "  Demolition  ", "cost": 1000, "status": "won"},
			{"name": "   ", "cost": 50, "status": "Pending"},
			{"name": "Paving", "cost": -20, "status": "Maybe"},
		},
	})

	scopes := bid["scopes"].([]interface{})
	if len(scopes) != 2 {
		t.Fatalf("Expected blank-named scope dropped, got %d scopes", len(scopes))
	}
	first := scopes[0].(map[string]interface{})
	if first["name"] != "Demolition" {
		t.Errorf("Expected trimmed name 'Demolition', got %v", first["name"])
	}
	if first["status"] != "Won" {
		t.Errorf("Expected coerced status 'Won', got %v", first["status"])
	}
	second := scopes[1].(map[string]interface{})
	if second["cost"].(float64) != 0 {
		t.Errorf("Expected negative cost clamped to 0, got %v", second["cost"])
	}
	if second["status"] != "Pending" {
		t.Errorf("Expected unrecognized status defaulted to 'Pending', got %v", second["status"])
	}
}

func TestBidCreateRejectsUnknownCompany(t *testing.T) {
	env := setupBidTest(t)

	w := testutil.DoRequest(env.router, "POST", "/api/v1/bids", map[string]interface{}{
		"project_name":      "Ghost Job",
		"client_company_id": 99999,
	}, env.adminToken())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestBidListComputesSummary(t *testing.T) {
	env := setupBidTest(t)

	createBid(t, env, env.adminToken(), map[string]interface{}{
		"project_name":      "Summary Job",
		"client_company_id": env.company.ID,
		"scopes": []map[string]interface{}{
			{"name": "Roofing", "cost": 100, "status": "Won"},
			{"name": "Electrical", "cost": 50.5, "status": "Pending"},
		},
	})

	w := testutil.DoRequest(env.router, "GET", "/api/v1/bids", nil, env.adminToken())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	rows := resp["data"].([]interface{})
	if len(rows) != 1 {
		t.Fatalf("Expected 1 bid, got %d", len(rows))
	}
	row := rows[0].(map[string]interface{})
	if row["amount"].(float64) != 150.5 {
		t.Errorf("Expected amount 150.5, got %v", row["amount"])
	}
	if row["scope_status"] != "Pending" {
		t.Errorf("Expected aggregate status 'Pending', got %v", row["scope_status"])
	}
	if row["client_name"] != "Acme Corp" {
		t.Errorf("Expected client name 'Acme Corp', got %v", row["client_name"])
	}
}

func TestBidListOwnerScoping(t *testing.T) {
	env := setupBidTest(t)

	createBid(t, env, env.adminToken(), map[string]interface{}{
		"project_name":      "Mine",
		"client_company_id": env.company.ID,
		"owner_id":          env.user.ID,
	})
	createBid(t, env, env.adminToken(), map[string]interface{}{
		"project_name":      "Someone Elses",
		"client_company_id": env.company.ID,
		"owner_id":          env.admin.ID,
	})

	// USER sees only their own bid in the list.
	w := testutil.DoRequest(env.router, "GET", "/api/v1/bids", nil, env.userToken())
	resp := testutil.ParseResponse(w)
	rows := resp["data"].([]interface{})
	if len(rows) != 1 {
		t.Fatalf("Expected 1 visible bid for USER, got %d", len(rows))
	}
	if rows[0].(map[string]interface{})["project_name"] != "Mine" {
		t.Errorf("Expected own bid, got %v", rows[0])
	}

	// ADMIN sees both.
	w = testutil.DoRequest(env.router, "GET", "/api/v1/bids", nil, env.adminToken())
	resp = testutil.ParseResponse(w)
	if got := len(resp["data"].([]interface{})); got != 2 {
		t.Errorf("Expected 2 bids for ADMIN, got %d", got)
	}
}

func TestBidGetForbiddenForOtherOwner(t *testing.T) {
	env := setupBidTest(t)

	bid := createBid(t, env, env.adminToken(), map[string]interface{}{
		"project_name":      "Locked",
		"client_company_id": env.company.ID,
		"owner_id":          env.admin.ID,
	})
	id := jsonID(bid)

	w := testutil.DoRequest(env.router, "GET", "/api/v1/bids/"+id, nil, env.userToken())
	if w.Code != http.StatusForbidden {
		t.Fatalf("Expected 403, got %d: %s", w.Code, w.Body.String())
	}

	// Unowned bids stay reachable under the permissive default policy.
	unowned := createBid(t, env, env.adminToken(), map[string]interface{}{
		"project_name":      "Open",
		"client_company_id": env.company.ID,
	})
	w = testutil.DoRequest(env.router, "GET", "/api/v1/bids/"+jsonID(unowned), nil, env.userToken())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for unowned bid, got %d: %s", w.Code, w.Body.String())
	}
}

func TestBidUpdateReplacesScopes(t *testing.T) {
	env := setupBidTest(t)

	bid := createBid(t, env, env.adminToken(), map[string]interface{}{
		"project_name":      "Rework",
		"client_company_id": env.company.ID,
		"scopes": []map[string]interface{}{
			{"name": "Old A", "cost": 10, "status": "Pending"},
			{"name": "Old B", "cost": 20, "status": "Pending"},
		},
	})
	id := jsonID(bid)

	w := testutil.DoRequest(env.router, "PUT", "/api/v1/bids/"+id, map[string]interface{}{
		"project_name":      "Rework",
		"client_company_id": env.company.ID,
		"scopes": []map[string]interface{}{
			{"name": "New Only", "cost": 500, "status": "Won"},
		},
	}, env.adminToken())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	scopes := resp["data"].(map[string]interface{})["scopes"].([]interface{})
	if len(scopes) != 1 {
		t.Fatalf("Expected old scopes fully replaced, got %d", len(scopes))
	}
	if scopes[0].(map[string]interface{})["name"] != "New Only" {
		t.Errorf("Expected scope 'New Only', got %v", scopes[0])
	}

	var count int64
	env.db.Model(&entity.Scope{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected 1 scope row total, got %d", count)
	}
}

func TestBidUpdateRollsBackOnScopeFailure(t *testing.T) {
	env := setupBidTest(t)

	bid := createBid(t, env, env.adminToken(), map[string]interface{}{
		"project_name":      "Atomic",
		"client_company_id": env.company.ID,
		"scopes": []map[string]interface{}{
			{"name": "Keep Me", "cost": 10, "status": "Pending"},
		},
	})
	id := jsonID(bid)

	// A scope name over the column limit fails the insert after the delete
	// already ran inside the same transaction.
	oversized := strings.Repeat("x", 200)
	w := testutil.DoRequest(env.router, "PUT", "/api/v1/bids/"+id, map[string]interface{}{
		"project_name":      "Atomic",
		"client_company_id": env.company.ID,
		"scopes": []map[string]interface{}{
			{"name": oversized, "cost": 1, "status": "Pending"},
		},
	}, env.adminToken())
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d: %s", w.Code, w.Body.String())
	}

	// The original scope set survives untouched.
	w = testutil.DoRequest(env.router, "GET", "/api/v1/bids/"+id, nil, env.adminToken())
	resp := testutil.ParseResponse(w)
	scopes := resp["data"].(map[string]interface{})["scopes"].([]interface{})
	if len(scopes) != 1 {
		t.Fatalf("Expected original scope intact, got %d scopes", len(scopes))
	}
	if scopes[0].(map[string]interface{})["name"] != "Keep Me" {
		t.Errorf("Expected 'Keep Me' to survive rollback, got %v", scopes[0])
	}
}

func TestBidDeleteCascades(t *testing.T) {
	env := setupBidTest(t)

	bid := createBid(t, env, env.adminToken(), map[string]interface{}{
		"project_name":      "Doomed",
		"client_company_id": env.company.ID,
		"scopes": []map[string]interface{}{
			{"name": "Scope", "cost": 10, "status": "Pending"},
		},
	})
	id := jsonID(bid)

	w := testutil.DoRequest(env.router, "POST", "/api/v1/bids/"+id+"/notes",
		map[string]string{"body": "call back tuesday"}, env.adminToken())
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201 for note, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.router, "DELETE", "/api/v1/bids/"+id, nil, env.adminToken())
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d: %s", w.Code, w.Body.String())
	}

	var scopes, notes int64
	env.db.Model(&entity.Scope{}).Count(&scopes)
	env.db.Model(&entity.Note{}).Count(&notes)
	if scopes != 0 || notes != 0 {
		t.Errorf("Expected children removed, got %d scopes %d notes", scopes, notes)
	}

	w = testutil.DoRequest(env.router, "GET", "/api/v1/bids/"+id, nil, env.adminToken())
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", w.Code)
	}
}

func TestBidUpdateOwnerScoping(t *testing.T) {
	env := setupBidTest(t)

	theirs := createBid(t, env, env.adminToken(), map[string]interface{}{
		"project_name":      "Theirs",
		"client_company_id": env.company.ID,
		"owner_id":          env.admin.ID,
	})
	mine := createBid(t, env, env.adminToken(), map[string]interface{}{
		"project_name":      "Mine",
		"client_company_id": env.company.ID,
		"owner_id":          env.user.ID,
	})
	unowned := createBid(t, env, env.adminToken(), map[string]interface{}{
		"project_name":      "Unowned",
		"client_company_id": env.company.ID,
	})

	update := func(id string) int {
		w := testutil.DoRequest(env.router, "PUT", "/api/v1/bids/"+id, map[string]interface{}{
			"project_name":      "Renamed",
			"client_company_id": env.company.ID,
		}, env.userToken())
		return w.Code
	}

	if code := update(jsonID(theirs)); code != http.StatusForbidden {
		t.Errorf("Expected 403 updating another owner's bid, got %d", code)
	}
	if code := update(jsonID(mine)); code != http.StatusOK {
		t.Errorf("Expected 200 updating own bid, got %d", code)
	}
	if code := update(jsonID(unowned)); code != http.StatusOK {
		t.Errorf("Expected 200 updating unowned bid, got %d", code)
	}
}

func TestBidUpdatePreservesCreatedAt(t *testing.T) {
	env := setupBidTest(t)

	bid := createBid(t, env, env.adminToken(), map[string]interface{}{
		"project_name":      "Long Running",
		"client_company_id": env.company.ID,
		"scopes": []map[string]interface{}{
			{"name": "Sitework", "cost": 40, "status": "Pending"},
		},
	})
	id := uint(bid["id"].(float64))

	original := time.Date(2025, 2, 1, 9, 30, 0, 0, time.UTC)
	if err := env.db.Model(&entity.Bid{}).Where("id = ?", id).
		Update("created_at", original).Error; err != nil {
		t.Fatalf("Failed to backdate bid: %v", err)
	}

	w := testutil.DoRequest(env.router, "PUT", "/api/v1/bids/"+jsonID(bid), map[string]interface{}{
		"project_name":      "Long Running v2",
		"client_company_id": env.company.ID,
		"scopes": []map[string]interface{}{
			{"name": "Paving", "cost": 75, "status": "Won"},
		},
	}, env.adminToken())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var stored entity.Bid
	if err := env.db.First(&stored, id).Error; err != nil {
		t.Fatalf("Failed to reload bid: %v", err)
	}
	if !stored.CreatedAt.Equal(original) {
		t.Fatalf("Expected created_at %v to survive update, got %v", original, stored.CreatedAt)
	}

	// The updated bid still falls inside a window over its original
	// creation date, using the documented parameter names.
	w = testutil.DoRequest(env.router, "GET",
		"/api/v1/bids?createdFrom=2025-01-15&createdTo=2025-03-01", nil, env.adminToken())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	rows := testutil.ParseResponse(w)["data"].([]interface{})
	if len(rows) != 1 {
		t.Fatalf("Expected 1 bid in creation window, got %d", len(rows))
	}
	if rows[0].(map[string]interface{})["project_name"] != "Long Running v2" {
		t.Errorf("Expected updated bid in window, got %v", rows[0])
	}
}

func TestBidListFilterComposition(t *testing.T) {
	env := setupBidTest(t)

	backdate := func(bid map[string]interface{}, day time.Time) {
		t.Helper()
		id := uint(bid["id"].(float64))
		if err := env.db.Model(&entity.Bid{}).Where("id = ?", id).
			Update("created_at", day).Error; err != nil {
			t.Fatalf("Failed to backdate bid %d: %v", id, err)
		}
	}

	old := createBid(t, env, env.adminToken(), map[string]interface{}{
		"project_name":      "January Job",
		"client_company_id": env.company.ID,
	})
	backdate(old, time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))

	recent := createBid(t, env, env.adminToken(), map[string]interface{}{
		"project_name":      "June Job",
		"client_company_id": env.company.ID,
	})
	backdate(recent, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	done := createBid(t, env, env.adminToken(), map[string]interface{}{
		"project_name":      "June Done",
		"client_company_id": env.company.ID,
		"bid_status":        "Complete",
	})
	backdate(done, time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))

	list := func(query string) []interface{} {
		w := testutil.DoRequest(env.router, "GET", "/api/v1/bids"+query, nil, env.adminToken())
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200 for %q, got %d: %s", query, w.Code, w.Body.String())
		}
		return testutil.ParseResponse(w)["data"].([]interface{})
	}

	if rows := list("?created_from=2025-03-01"); len(rows) != 2 {
		t.Errorf("Expected 2 bids after March, got %d", len(rows))
	}
	rows := list("?created_from=2025-03-01&status=Active")
	if len(rows) != 1 {
		t.Fatalf("Expected filters to compose down to 1 bid, got %d", len(rows))
	}
	if rows[0].(map[string]interface{})["project_name"] != "June Job" {
		t.Errorf("Expected 'June Job', got %v", rows[0])
	}
}

func TestBidInvalidID(t *testing.T) {
	env := setupBidTest(t)

	w := testutil.DoRequest(env.router, "GET", "/api/v1/bids/abc", nil, env.adminToken())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for non-numeric id, got %d", w.Code)
	}
}

// jsonID reads the numeric id out of a decoded JSON object.
func jsonID(m map[string]interface{}) string {
	f, _ := m["id"].(float64)
	return strconv.FormatUint(uint64(f), 10)
}
