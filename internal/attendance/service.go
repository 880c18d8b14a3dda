package attendance

import (
	"context"
	"log/slog"
	"time"

	attendanceDatamodel "github.com/stafftrack/hrm-backend/internal/core/datamodel/attendance"
	"github.com/stafftrack/hrm-backend/internal/core/events"
)

// Repository is the data access the tracker needs. Transact runs the given
// function against a transaction-scoped repository; every check-and-mutate
// sequence below goes through it so the day-row, open-break and totals
// invariants hold under concurrent requests.
type Repository interface {
	Transact(fn func(Repository) error) error
	GetForDay(userID int64, day time.Time) (*attendanceDatamodel.UserAttendance, error)
	Create(att *attendanceDatamodel.UserAttendance) error
	Update(att *attendanceDatamodel.UserAttendance) error
	OpenBreak(attendanceID int64) (*attendanceDatamodel.BreakLog, error)
	CreateBreak(b *attendanceDatamodel.BreakLog) error
	UpdateBreak(b *attendanceDatamodel.BreakLog) error
	ListBreaks(attendanceID int64) ([]*attendanceDatamodel.BreakLog, error)
}

// Publisher is satisfied by the event bus.
type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service tracks per-day work and break time.
type Service struct {
	repo   Repository
	bus    Publisher
	logger *slog.Logger
}

func NewService(repo Repository, bus Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

// StartSession opens (or resumes) today's attendance row. The first login of
// the day fixes login_time; later logins on the same day only re-activate
// the session.
func (s *Service) StartSession(ctx context.Context, userID int64, now time.Time) error {
	day := DayOf(now)

	return s.repo.Transact(func(tx Repository) error {
		att, err := tx.GetForDay(userID, day)
		if err != nil {
			return err
		}

		if att == nil {
			att = &attendanceDatamodel.UserAttendance{
				UserID:          userID,
				WorkDate:        day,
				LoginTime:       now,
				IsActiveSession: true,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			return tx.Create(att)
		}

		if att.IsActiveSession {
			return nil
		}

		att.IsActiveSession = true
		att.LogoutTime = nil
		att.UpdatedAt = now
		return tx.Update(att)
	})
}

// StartBreak opens a break on today's active session. Conflict when a break
// is already open or no session is active.
func (s *Service) StartBreak(ctx context.Context, userID int64, now time.Time) error {
	day := DayOf(now)

	return s.repo.Transact(func(tx Repository) error {
		att, err := tx.GetForDay(userID, day)
		if err != nil {
			return err
		}
		if att == nil || !att.IsActiveSession {
			return ErrNoActiveSession
		}

		open, err := tx.OpenBreak(att.ID)
		if err != nil {
			return err
		}
		if open != nil {
			return ErrBreakAlreadyOpen
		}

		if err := tx.CreateBreak(&attendanceDatamodel.BreakLog{
			AttendanceID: att.ID,
			BreakStart:   now,
			CreatedAt:    now,
		}); err != nil {
			return err
		}

		att.BreakStartTime = &now
		att.BreakEndTime = nil
		att.UpdatedAt = now
		return tx.Update(att)
	})
}

// EndBreak closes the open break, charging ceil(duration) minutes to the
// day's break total.
func (s *Service) EndBreak(ctx context.Context, userID int64, now time.Time) error {
	day := DayOf(now)

	return s.repo.Transact(func(tx Repository) error {
		att, err := tx.GetForDay(userID, day)
		if err != nil {
			return err
		}
		if att == nil {
			return ErrNoOpenBreak
		}

		open, err := tx.OpenBreak(att.ID)
		if err != nil {
			return err
		}
		if open == nil {
			return ErrNoOpenBreak
		}

		open.BreakEnd = &now
		if err := tx.UpdateBreak(open); err != nil {
			return err
		}

		att.TotalBreakMinutes += BreakMinutes(open.BreakStart, now)
		att.BreakEndTime = &now
		att.UpdatedAt = now
		return tx.Update(att)
	})
}

// CloseSessionOnLogout ends the session for the day. A break still open at
// logout is closed first and its minutes charged before the worked total is
// computed. Absent or inactive sessions are a no-op.
func (s *Service) CloseSessionOnLogout(ctx context.Context, userID int64, now time.Time) error {
	day := DayOf(now)
	var closed *attendanceDatamodel.UserAttendance

	err := s.repo.Transact(func(tx Repository) error {
		att, err := tx.GetForDay(userID, day)
		if err != nil {
			return err
		}
		if att == nil || !att.IsActiveSession {
			return nil
		}

		// edge case: user logs out during a break
		open, err := tx.OpenBreak(att.ID)
		if err != nil {
			return err
		}
		if open != nil {
			open.BreakEnd = &now
			if err := tx.UpdateBreak(open); err != nil {
				return err
			}
			att.TotalBreakMinutes += BreakMinutes(open.BreakStart, now)
		}

		att.TotalWorkingMinutes = WorkedMinutes(att.LoginTime, now, att.TotalBreakMinutes)
		att.LogoutTime = &now
		att.IsActiveSession = false
		att.BreakStartTime = nil
		att.BreakEndTime = nil
		att.UpdatedAt = now

		if err := tx.Update(att); err != nil {
			return err
		}
		closed = att
		return nil
	})
	if err != nil {
		return err
	}

	if closed != nil && s.bus != nil {
		s.bus.Publish(ctx, events.NewSessionClosedEvent(
			userID, closed.WorkDate, closed.TotalWorkingMinutes, closed.TotalBreakMinutes))
		s.logger.Info("attendance session closed",
			"user_id", userID,
			"worked_minutes", closed.TotalWorkingMinutes,
			"break_minutes", closed.TotalBreakMinutes)
	}

	return nil
}

// Today returns today's attendance row with its break log.
func (s *Service) Today(ctx context.Context, userID int64, now time.Time) (*Attendance, error) {
	att, err := s.repo.GetForDay(userID, DayOf(now))
	if err != nil {
		return nil, err
	}
	if att == nil {
		return nil, ErrNotFound
	}

	breaks, err := s.repo.ListBreaks(att.ID)
	if err != nil {
		return nil, err
	}

	return FromDataModel(att, breaks), nil
}
