package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/hospital-task-points/internal/models"
	"github.com/yukikurage/hospital-task-points/internal/repository"
	"github.com/yukikurage/hospital-task-points/internal/services"
	"github.com/yukikurage/hospital-task-points/internal/testutil"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "password123"

// handlerSuite serves the full router over an in-memory database with a
// cookie session store.
type handlerSuite struct {
	suite.Suite
	db     *gorm.DB
	svc    *services.Services
	router *gin.Engine
	ctx    context.Context

	department *models.Department
	admin      *models.User
	staff      *models.User
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Current map[string]any `json:"current"`
}

func (s *handlerSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (s *handlerSuite) SetupTest() {
	s.db = testutil.NewDB(s.T())
	s.svc = services.New(repository.NewStore(s.db), 5*time.Second)
	s.router = NewRouter(s.svc, cookie.NewStore([]byte("test-secret")))
	s.ctx = context.Background()

	s.department = testutil.CreateDepartment(s.T(), s.db, "Pharmacy")
	s.admin = s.createUser("admin@example.com", models.RoleAdministrator)
	s.staff = s.createUser("staff@example.com", models.RoleStaff)
}

func (s *handlerSuite) createUser(email string, role models.Role) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	s.Require().NoError(err)

	user := &models.User{
		Name:         email,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		DepartmentID: s.department.ID,
		IsActive:     true,
	}
	s.Require().NoError(s.db.Create(user).Error)
	return user
}

func (s *handlerSuite) createTask(title string, points int, opts ...testutil.TaskOption) *models.Task {
	return testutil.CreateTask(s.T(), s.db, title, points, s.department.ID, s.admin.ID, opts...)
}

// login returns the session cookies of user.
func (s *handlerSuite) login(user *models.User) []*http.Cookie {
	w := s.request(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    user.Email,
		"password": testPassword,
	}, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	cookies := w.Result().Cookies()
	s.Require().NotEmpty(cookies, "expected session cookie to be set")
	return cookies
}

func (s *handlerSuite) request(method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		req = httptest.NewRequest(method, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *handlerSuite) decode(w *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (s *handlerSuite) assertError(w *httptest.ResponseRecorder, status int, code string) errorBody {
	s.Require().Equal(status, w.Code, w.Body.String())
	var body errorBody
	s.decode(w, &body)
	s.Equal(code, body.Error.Code)
	s.NotEmpty(body.Error.Message)
	return body
}
