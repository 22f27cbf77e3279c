package service

import (
	"context"
	"errors"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"reviewcycle/internal/compliance/models"
	"reviewcycle/internal/compliance/ports/mocks"
	id "reviewcycle/pkg/domain"
	dErrors "reviewcycle/pkg/domain-errors"
	"reviewcycle/pkg/platform/audit"
	"reviewcycle/pkg/platform/sentinel"
)

type PermissionServiceSuite struct {
	suite.Suite
	w        *world
	service  *PermissionService
	employee models.Employee
	ctx      context.Context
}

func TestPermissionServiceSuite(t *testing.T) {
	suite.Run(t, new(PermissionServiceSuite))
}

func (s *PermissionServiceSuite) SetupTest() {
	s.w = newWorld(s.T())
	var err error
	s.service, err = NewPermissionService(s.w.permissions, s.w.cycles, s.w.directory, s.w.options()...)
	s.Require().NoError(err)
	s.employee = s.w.hire(s.T(), "E100", d(time.January, 5))
	s.ctx = ctxAt(at(time.April, 1))
}

func (s *PermissionServiceSuite) grantRequest(quarter string) *models.GrantRequest {
	return &models.GrantRequest{
		EmployeeID: s.employee.ID.String(),
		CycleID:    s.w.cycle.ID.String(),
		Quarter:    quarter,
		Reason:     "medical leave",
	}
}

func (s *PermissionServiceSuite) auditActions() []string {
	events, err := s.w.auditor.ListByCycle(context.Background(), s.w.cycle.ID.String())
	s.Require().NoError(err)
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Action)
	}
	return out
}

func (s *PermissionServiceSuite) TestNew() {
	_, err := NewPermissionService(nil, s.w.cycles, s.w.directory)
	s.Require().Error(err)
	s.Contains(err.Error(), "permission store is required")

	_, err = NewPermissionService(s.w.permissions, s.w.cycles, nil)
	s.Require().Error(err)
	s.Contains(err.Error(), "employee directory is required")
}

func (s *PermissionServiceSuite) TestGrant() {
	s.Run("creates a grant attributed to the caller", func() {
		p, reactivated, err := s.service.Grant(s.ctx, s.grantRequest("2"))
		s.Require().NoError(err)
		s.False(reactivated)
		s.Equal(id.Q2, p.Scope)
		s.Equal("hr-admin", p.GrantedBy)
		s.Equal(at(time.April, 1), p.GrantedAt)
		s.Equal([]string{string(audit.EventLateSubmissionGranted)}, s.auditActions())
	})

	s.Run("a second active grant for the same scope conflicts", func() {
		_, _, err := s.service.Grant(s.ctx, s.grantRequest("q2"))
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("an empty quarter grants every quarter", func() {
		p, _, err := s.service.Grant(s.ctx, s.grantRequest(""))
		s.Require().NoError(err)
		s.Equal(id.AnyQuarter, p.Scope)
	})

	s.Run("metrics count created and conflicting grants", func() {
		s.Equal(2.0, promtest.ToFloat64(s.w.metrics.Grants.WithLabelValues("created")))
		s.Equal(1.0, promtest.ToFloat64(s.w.metrics.Grants.WithLabelValues("conflict")))
	})
}

func (s *PermissionServiceSuite) TestGrantRejectsBadInput() {
	s.Run("expiry in the past", func() {
		req := s.grantRequest("1")
		past := at(time.March, 1)
		req.ExpiresAt = &past
		_, _, err := s.service.Grant(s.ctx, req)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unknown employee", func() {
		req := s.grantRequest("1")
		req.EmployeeID = id.NewEmployeeID().String()
		_, _, err := s.service.Grant(s.ctx, req)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("unknown cycle", func() {
		req := s.grantRequest("1")
		req.CycleID = id.NewCycleID().String()
		_, _, err := s.service.Grant(s.ctx, req)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("malformed quarter", func() {
		_, _, err := s.service.Grant(s.ctx, s.grantRequest("q9"))
		s.Require().Error(err)
		s.False(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	perms, err := s.service.List(s.ctx, s.w.cycle.ID, false)
	s.Require().NoError(err)
	s.Empty(perms, "rejected grants write nothing")
}

func (s *PermissionServiceSuite) TestRevokedGrantIsReactivatedInPlace() {
	first, _, err := s.service.Grant(s.ctx, s.grantRequest("1"))
	s.Require().NoError(err)
	_, err = s.service.Revoke(s.ctx, first.ID)
	s.Require().NoError(err)

	later := ctxAt(at(time.April, 20))
	req := s.grantRequest("1")
	req.Reason = "second extension"
	again, reactivated, err := s.service.Grant(later, req)
	s.Require().NoError(err)
	s.True(reactivated)
	s.Equal(first.ID, again.ID, "the existing row is reused")
	s.Nil(again.RevokedAt)
	s.Equal("second extension", again.Reason)
	s.Equal(at(time.April, 20), again.GrantedAt)

	s.Equal([]string{
		string(audit.EventLateSubmissionGranted),
		string(audit.EventLateSubmissionRevoked),
		string(audit.EventLateSubmissionReactivated),
	}, s.auditActions())
}

func (s *PermissionServiceSuite) TestExpiredGrantIsInactive() {
	req := s.grantRequest("1")
	expiry := at(time.April, 10)
	req.ExpiresAt = &expiry
	p, _, err := s.service.Grant(s.ctx, req)
	s.Require().NoError(err)

	s.Run("check matches before expiry", func() {
		match, err := s.service.Check(ctxAt(at(time.April, 9)), s.employee.ID, s.w.cycle.ID, id.Q1)
		s.Require().NoError(err)
		s.Require().NotNil(match)
		s.Equal(p.ID, match.ID)
	})

	s.Run("check misses at the expiry instant", func() {
		match, err := s.service.Check(ctxAt(expiry), s.employee.ID, s.w.cycle.ID, id.Q1)
		s.Require().NoError(err)
		s.Nil(match)
	})

	s.Run("active listing drops it", func() {
		active, err := s.service.List(ctxAt(at(time.May, 1)), s.w.cycle.ID, true)
		s.Require().NoError(err)
		s.Empty(active)
		all, err := s.service.List(ctxAt(at(time.May, 1)), s.w.cycle.ID, false)
		s.Require().NoError(err)
		s.Len(all, 1)
	})

	s.Run("a new grant reactivates it", func() {
		_, reactivated, err := s.service.Grant(ctxAt(at(time.May, 1)), s.grantRequest("1"))
		s.Require().NoError(err)
		s.True(reactivated)
	})
}

func (s *PermissionServiceSuite) TestRevokeIsIdempotent() {
	p, _, err := s.service.Grant(s.ctx, s.grantRequest("3"))
	s.Require().NoError(err)

	first, err := s.service.Revoke(ctxAt(at(time.April, 2)), p.ID)
	s.Require().NoError(err)
	s.Require().NotNil(first.RevokedAt)

	second, err := s.service.Revoke(ctxAt(at(time.April, 3)), p.ID)
	s.Require().NoError(err)
	s.Equal(*first.RevokedAt, *second.RevokedAt, "the original revocation time is kept")
	s.Len(s.auditActions(), 2, "only the first revoke is audited")

	_, err = s.service.Revoke(s.ctx, id.NewPermissionID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *PermissionServiceSuite) TestRevokeFor() {
	grant := func(q string) *models.Permission {
		p, _, err := s.service.Grant(s.ctx, s.grantRequest(q))
		s.Require().NoError(err)
		return p
	}
	q1, q2, anyQ, yearEnd := grant("1"), grant("2"), grant("any"), grant("year-end")

	s.Run("a quarter revokes its own and the every-quarter grant", func() {
		revoked, err := s.service.RevokeFor(s.ctx, s.w.cycle.ID, s.employee.ID, id.Q1)
		s.Require().NoError(err)
		s.ElementsMatch([]id.PermissionID{q1.ID, anyQ.ID}, permissionIDs(revoked))
	})

	s.Run("year-end revokes only year-end", func() {
		revoked, err := s.service.RevokeFor(s.ctx, s.w.cycle.ID, s.employee.ID, id.YearEnd)
		s.Require().NoError(err)
		s.Equal([]id.PermissionID{yearEnd.ID}, permissionIDs(revoked))
	})

	s.Run("nothing left to match is not found", func() {
		_, err := s.service.RevokeFor(s.ctx, s.w.cycle.ID, s.employee.ID, id.Q3)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("unset scope revokes everything remaining", func() {
		revoked, err := s.service.RevokeFor(s.ctx, s.w.cycle.ID, s.employee.ID, id.QuarterUnset)
		s.Require().NoError(err)
		s.Equal([]id.PermissionID{q2.ID}, permissionIDs(revoked))
	})

	s.Equal(4.0, promtest.ToFloat64(s.w.metrics.Revocations))
}

func (s *PermissionServiceSuite) TestUpdate() {
	p, _, err := s.service.Grant(s.ctx, s.grantRequest("2"))
	s.Require().NoError(err)

	s.Run("changes reason and expiry", func() {
		reason := "  extended medical leave "
		expires := at(time.May, 1)
		got, err := s.service.Update(s.ctx, p.ID, &models.UpdatePermissionRequest{Reason: &reason, ExpiresAt: &expires})
		s.Require().NoError(err)
		s.Equal("extended medical leave", got.Reason)
		s.Require().NotNil(got.ExpiresAt)
		s.True(expires.Equal(*got.ExpiresAt))

		stored, err := s.service.Get(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal("extended medical leave", stored.Reason)
		s.Equal(p.GrantedAt, stored.GrantedAt, "an amendment is not a new grant")
	})

	s.Run("clearing the expiry makes the grant open-ended", func() {
		got, err := s.service.Update(s.ctx, p.ID, &models.UpdatePermissionRequest{ClearExpiry: true})
		s.Require().NoError(err)
		s.Nil(got.ExpiresAt)
	})

	s.Run("an update that changes nothing is not audited", func() {
		before := len(s.auditActions())
		reason := "extended medical leave"
		_, err := s.service.Update(s.ctx, p.ID, &models.UpdatePermissionRequest{Reason: &reason})
		s.Require().NoError(err)
		s.Len(s.auditActions(), before)
	})

	s.Run("rejects bad input", func() {
		past := at(time.March, 1)
		_, err := s.service.Update(s.ctx, p.ID, &models.UpdatePermissionRequest{ExpiresAt: &past})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = s.service.Update(s.ctx, p.ID, &models.UpdatePermissionRequest{})
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))

		future := at(time.June, 1)
		_, err = s.service.Update(s.ctx, p.ID, &models.UpdatePermissionRequest{ExpiresAt: &future, ClearExpiry: true})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		reason := "x"
		_, err = s.service.Update(s.ctx, id.NewPermissionID(), &models.UpdatePermissionRequest{Reason: &reason})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("a revoked grant cannot be amended", func() {
		_, err := s.service.Revoke(s.ctx, p.ID)
		s.Require().NoError(err)
		reason := "too late"
		_, err = s.service.Update(s.ctx, p.ID, &models.UpdatePermissionRequest{Reason: &reason})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Equal([]string{
		string(audit.EventLateSubmissionGranted),
		string(audit.EventLateSubmissionUpdated),
		string(audit.EventLateSubmissionUpdated),
		string(audit.EventLateSubmissionRevoked),
	}, s.auditActions())
}

func permissionIDs(perms []models.Permission) []id.PermissionID {
	out := make([]id.PermissionID, len(perms))
	for i, p := range perms {
		out[i] = p.ID
	}
	return out
}

func (s *PermissionServiceSuite) TestCheckPrefersSpecificGrant() {
	_, _, err := s.service.Grant(s.ctx, s.grantRequest("any"))
	s.Require().NoError(err)
	specific, _, err := s.service.Grant(s.ctx, s.grantRequest("2"))
	s.Require().NoError(err)

	match, err := s.service.Check(s.ctx, s.employee.ID, s.w.cycle.ID, id.Q2)
	s.Require().NoError(err)
	s.Equal(specific.ID, match.ID)

	match, err = s.service.Check(s.ctx, s.employee.ID, s.w.cycle.ID, id.YearEnd)
	s.Require().NoError(err)
	s.Nil(match, "every-quarter grants do not cover year-end")
}

func (s *PermissionServiceSuite) TestStoreFailures() {
	ctrl := gomock.NewController(s.T())
	store := mocks.NewMockPermissionStore(ctrl)
	svc, err := NewPermissionService(store, s.w.cycles, s.w.directory, s.w.options()...)
	s.Require().NoError(err)

	s.Run("lookup failure is internal", func() {
		store.EXPECT().FindByKey(gomock.Any(), s.employee.ID, s.w.cycle.ID, id.Q1).
			Return(nil, errors.New("connection reset"))
		_, _, err := svc.Grant(s.ctx, s.grantRequest("1"))
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("a racing insert surfaces as conflict", func() {
		store.EXPECT().FindByKey(gomock.Any(), s.employee.ID, s.w.cycle.ID, id.Q1).
			Return(nil, sentinel.ErrNotFound)
		store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict)
		_, _, err := svc.Grant(s.ctx, s.grantRequest("1"))
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("a failed bulk revoke records no revocation", func() {
		perms := []models.Permission{
			{ID: id.NewPermissionID(), EmployeeID: s.employee.ID, CycleID: s.w.cycle.ID, Scope: id.Q1},
			{ID: id.NewPermissionID(), EmployeeID: s.employee.ID, CycleID: s.w.cycle.ID, Scope: id.AnyQuarter},
		}
		store.EXPECT().ListForEmployee(gomock.Any(), s.w.cycle.ID, s.employee.ID).Return(perms, nil)
		gomock.InOrder(
			store.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil),
			store.EXPECT().Update(gomock.Any(), gomock.Any()).Return(errors.New("connection reset")),
		)

		_, err := svc.RevokeFor(s.ctx, s.w.cycle.ID, s.employee.ID, id.Q1)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		s.Empty(s.auditActions(), "no revocation is audited when any write fails")
		s.Equal(0.0, promtest.ToFloat64(s.w.metrics.Revocations))
		s.Nil(perms[0].RevokedAt, "the caller's slice is not mutated")
	})
}
