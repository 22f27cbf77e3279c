package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"reviewcycle/internal/compliance/dashboard"
	"reviewcycle/internal/compliance/models"
	"reviewcycle/internal/compliance/service"
	employeestore "reviewcycle/internal/compliance/store/employee"
	permissionstore "reviewcycle/internal/compliance/store/permission"
	"reviewcycle/internal/compliance/store/submission"
	windowmodels "reviewcycle/internal/window/models"
	windowservice "reviewcycle/internal/window/service"
	cyclestore "reviewcycle/internal/window/store/cycle"
	windowstore "reviewcycle/internal/window/store/window"
	id "reviewcycle/pkg/domain"
	"reviewcycle/pkg/platform/middleware/request"
	"reviewcycle/pkg/platform/middleware/requesttime"
	"reviewcycle/pkg/requestcontext"
	"reviewcycle/pkg/testutil"
)

var now = time.Date(2026, time.March, 20, 10, 0, 0, 0, time.UTC)

func date(m time.Month, day int) *civil.Date {
	return &civil.Date{Year: 2026, Month: m, Day: day}
}

type HandlerSuite struct {
	suite.Suite
	router      http.Handler
	cycle       *windowmodels.Cycle
	cycleSvc    *windowservice.CycleService
	directory   *employeestore.InMemory
	submissions *submission.InMemory
	manager     models.Employee
	alice       models.Employee
	bob         models.Employee
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cycles := cyclestore.NewInMemory()
	var err error
	s.cycle, err = windowmodels.NewCycle(id.NewCycleID(), "FY26", 2026, *date(time.January, 1), *date(time.December, 31),
		windowmodels.CycleSchedule{}, now)
	s.Require().NoError(err)
	s.Require().NoError(cycles.Create(ctx, s.cycle))

	windows, err := windowservice.New(cycles, windowstore.NewInMemory(), windowservice.WithLogger(logger))
	s.Require().NoError(err)
	s.cycleSvc, err = windowservice.NewCycleService(cycles, windowservice.WithCycleLogger(logger))
	s.Require().NoError(err)
	_, err = windows.UpsertReviewWindow(requestcontext.WithTime(ctx, now), s.cycle.ID, id.Q1, windowmodels.ReviewWindowUpdate{
		SelfReviewStart: date(time.March, 1),
		SelfReviewEnd:   date(time.March, 15),
	})
	s.Require().NoError(err)

	s.directory = employeestore.NewInMemory()
	s.submissions = submission.NewInMemory()
	s.manager = s.hire("M001", nil)
	s.alice = s.hire("E001", &s.manager.ID)
	s.bob = s.hire("E002", &s.manager.ID)
	s.submissions.SetReview(s.cycle.ID, id.Q1, s.alice.ID, submission.StatusSubmitted, "")

	permissions := permissionstore.NewInMemory()
	opts := []service.Option{service.WithLogger(logger)}
	stats, err := service.NewStatsService(windows, s.cycleSvc, s.directory, s.submissions, permissions, opts...)
	s.Require().NoError(err)
	grants, err := service.NewPermissionService(permissions, s.cycleSvc, s.directory, opts...)
	s.Require().NoError(err)
	dashboards, err := dashboard.New(s.directory, s.submissions, s.submissions, windows, s.cycleSvc, dashboard.WithLogger(logger))
	s.Require().NoError(err)

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Actor)
	r.Use(requesttime.MiddlewareWithClock(func() time.Time { return now }))
	New(stats, grants, dashboards, logger).Register(r)
	s.router = r
}

func (s *HandlerSuite) hire(code string, manager *id.EmployeeID) models.Employee {
	e := models.Employee{
		ID:        id.NewEmployeeID(),
		EmpCode:   code,
		FullName:  "Employee " + code,
		ManagerID: manager,
		JoinDate:  *date(time.January, 1),
		Status:    models.EmployeeActive,
	}
	s.Require().NoError(s.directory.Save(context.Background(), &e))
	return e
}

func (s *HandlerSuite) cyclePath(suffix string) string {
	return "/cycles/" + s.cycle.ID.String() + suffix
}

func (s *HandlerSuite) grant(employeeID id.EmployeeID, quarter string) *httptest.ResponseRecorder {
	body := testutil.MustMarshal(s.T(), map[string]any{
		"employee_id": employeeID.String(),
		"cycle_id":    s.cycle.ID.String(),
		"quarter":     quarter,
		"reason":      "medical leave",
	})
	req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/permissions/late-submission", body)
	req.Header.Set(request.HeaderActor, "hr-admin")
	return testutil.DoRequest(s.router, req)
}

func (s *HandlerSuite) TestStats() {
	s.Run("past deadline counts the missing employees", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, s.cyclePath("/late-submissions/stats?quarter=1")))
		testutil.AssertStatusOK(s.T(), rr)
		body := testutil.UnmarshalResponse[struct {
			Total          int    `json:"total_employees"`
			Submitted      int    `json:"submitted"`
			Missed         int    `json:"missed_deadline"`
			IsPastDeadline bool   `json:"is_past_deadline"`
			Kind           string `json:"kind"`
		}](s.T(), rr)
		// Manager, alice and bob are all eligible; only alice submitted.
		s.Equal(3, body.Total)
		s.Equal(1, body.Submitted)
		s.Equal(2, body.Missed)
		s.True(body.IsPastDeadline)
		s.Equal("self-review", body.Kind)
	})

	s.Run("missing quarter is rejected", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, s.cyclePath("/late-submissions/stats")))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("unknown kind is rejected", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, s.cyclePath("/late-submissions/stats?quarter=1&kind=essay")))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("unconfigured window is a validation error", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, s.cyclePath("/late-submissions/stats?quarter=2")))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("malformed cycle id", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/cycles/nope/late-submissions/stats?quarter=1"))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})
}

func (s *HandlerSuite) TestRoster() {
	s.Equal(http.StatusCreated, s.grant(s.bob.ID, "1").Code)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, s.cyclePath("/late-submissions?quarter=1")))
	testutil.AssertStatusOK(s.T(), rr)
	body := testutil.UnmarshalResponse[struct {
		Employees []struct {
			EmpCode       string `json:"emp_code"`
			HasPermission bool   `json:"has_permission"`
		} `json:"employees"`
	}](s.T(), rr)
	s.Require().Len(body.Employees, 2)
	byCode := map[string]bool{}
	for _, e := range body.Employees {
		byCode[e.EmpCode] = e.HasPermission
	}
	s.True(byCode["E002"])
	s.False(byCode["M001"])
	s.NotContains(byCode, "E001")
}

func (s *HandlerSuite) TestGrantLifecycle() {
	created := s.grant(s.alice.ID, "")
	s.Require().Equal(http.StatusCreated, created.Code)
	grant := testutil.UnmarshalResponse[struct {
		Permission struct {
			ID        string `json:"id"`
			Quarter   string `json:"quarter"`
			GrantedBy string `json:"granted_by"`
		} `json:"permission"`
		Reactivated bool `json:"reactivated"`
	}](s.T(), created)
	s.Equal("any", grant.Permission.Quarter)
	s.Equal("hr-admin", grant.Permission.GrantedBy)
	s.False(grant.Reactivated)

	s.Run("duplicate active grant conflicts", func() {
		testutil.AssertStatusAndError(s.T(), s.grant(s.alice.ID, ""), http.StatusConflict, "conflict")
	})

	s.Run("check resolves the any-quarter grant", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet,
			s.cyclePath("/employees/"+s.alice.ID.String()+"/late-submission?quarter=3")))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "has_permission", true)
	})

	path := "/permissions/late-submission/" + grant.Permission.ID
	s.Run("get", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, path))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "id", grant.Permission.ID)
	})

	s.Run("revoke twice", func() {
		for range 2 {
			rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, path))
			testutil.AssertStatusOK(s.T(), rr)
			testutil.AssertJSONHasKey(s.T(), rr, "revoked_at")
		}
	})

	s.Run("regrant reactivates", func() {
		again := s.grant(s.alice.ID, "")
		s.Equal(http.StatusOK, again.Code)
		testutil.AssertJSONContains(s.T(), again, "reactivated", true)
	})
}

func (s *HandlerSuite) TestUpdatePermission() {
	created := s.grant(s.bob.ID, "1")
	s.Require().Equal(http.StatusCreated, created.Code)
	grant := testutil.UnmarshalResponse[struct {
		Permission struct {
			ID string `json:"id"`
		} `json:"permission"`
	}](s.T(), created)
	path := "/permissions/late-submission/" + grant.Permission.ID

	s.Run("amends reason and expiry", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPut, path,
			`{"reason":"parental leave","expires_at":"2026-04-15T00:00:00Z"}`))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "reason", "parental leave")
		testutil.AssertJSONContains(s.T(), rr, "expires_at", "2026-04-15T00:00:00Z")
	})

	s.Run("past expiry is a validation error", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPut, path,
			`{"expires_at":"2026-03-01T00:00:00Z"}`))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("empty update is a bad request", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPut, path, `{}`))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("unknown permission", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPut,
			"/permissions/late-submission/"+id.NewPermissionID().String(), `{"reason":"x"}`))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})

	s.Run("revoked permission conflicts", func() {
		testutil.AssertStatusOK(s.T(), testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, path)))
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPut, path, `{"reason":"x"}`))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
	})
}

func (s *HandlerSuite) TestGrantRejectsBadBodies() {
	s.Run("empty body", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/permissions/late-submission", ""))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})
	s.Run("unknown field", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/permissions/late-submission", `{"nope":1}`))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})
	s.Run("unknown employee", func() {
		res := s.grant(id.NewEmployeeID(), "1")
		testutil.AssertStatusAndError(s.T(), res, http.StatusNotFound, "not_found")
	})
}

func (s *HandlerSuite) TestRevokeFor() {
	s.Require().Equal(http.StatusCreated, s.grant(s.bob.ID, "1").Code)
	s.Require().Equal(http.StatusCreated, s.grant(s.bob.ID, "2").Code)
	path := s.cyclePath("/employees/" + s.bob.ID.String() + "/late-submission")

	rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPut, path+"/revoke", `{"quarter":"2"}`))
	testutil.AssertStatusOK(s.T(), rr)
	body := testutil.UnmarshalResponse[struct {
		Revoked []map[string]any `json:"revoked"`
	}](s.T(), rr)
	s.Len(body.Revoked, 1)

	rr = testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPut, path+"/revoke", `{}`))
	testutil.AssertStatusOK(s.T(), rr)

	rr = testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPut, path+"/revoke", `{}`))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, path))
	testutil.AssertStatusOK(s.T(), rr)
	list := testutil.UnmarshalResponse[struct {
		Permissions []map[string]any `json:"permissions"`
	}](s.T(), rr)
	s.Len(list.Permissions, 2)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, s.cyclePath("/permissions?active=true")))
	testutil.AssertStatusOK(s.T(), rr)
	active := testutil.UnmarshalResponse[struct {
		Permissions []map[string]any `json:"permissions"`
	}](s.T(), rr)
	s.Empty(active.Permissions)
}

func (s *HandlerSuite) TestDashboard() {
	s.submissions.AddGoal(s.cycle.ID, id.Q1, s.bob.ID, submission.StatusSubmitted)
	path := "/managers/" + s.manager.ID.String() + "/dashboard"

	s.Run("explicit cycle", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, path+"?cycle_id="+s.cycle.ID.String()))
		testutil.AssertStatusOK(s.T(), rr)
		body := testutil.UnmarshalResponse[struct {
			Dashboard *models.Dashboard `json:"dashboard"`
		}](s.T(), rr)
		s.Require().NotNil(body.Dashboard)
		s.Equal(2, body.Dashboard.DirectReportsCount)
		s.Equal(1, body.Dashboard.GoalsPendingApproval)
	})

	s.Run("no active cycle yields null", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, path))
		testutil.AssertStatusOK(s.T(), rr)
		body := testutil.UnmarshalResponse[struct {
			Dashboard *models.Dashboard `json:"dashboard"`
		}](s.T(), rr)
		s.Nil(body.Dashboard)
	})

	s.Run("active cycle is used when none is given", func() {
		_, err := s.cycleSvc.TransitionCycle(requestcontext.WithTime(context.Background(), now), s.cycle.ID,
			&windowmodels.TransitionCycleRequest{Status: windowmodels.CycleStatusActive})
		s.Require().NoError(err)
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, path))
		testutil.AssertStatusOK(s.T(), rr)
		body := testutil.UnmarshalResponse[struct {
			Dashboard *models.Dashboard `json:"dashboard"`
		}](s.T(), rr)
		s.Require().NotNil(body.Dashboard)
		s.Equal(s.cycle.ID, body.Dashboard.CycleID)
	})

	s.Run("unknown manager", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet,
			"/managers/"+id.NewEmployeeID().String()+"/dashboard?cycle_id="+s.cycle.ID.String()))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})
}
