package attendance

import (
	"errors"
	"time"

	attendanceDatamodel "github.com/stafftrack/hrm-backend/internal/core/datamodel/attendance"
)

var (
	ErrNoActiveSession  = errors.New("no active attendance session")
	ErrBreakAlreadyOpen = errors.New("a break is already open")
	ErrNoOpenBreak      = errors.New("no open break to end")
	ErrNotFound         = errors.New("attendance record not found")
)

// DayOf truncates a timestamp to local midnight; the result is the work-date
// key of the one-row-per-user-per-day invariant.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// BreakMinutes rounds a break duration up to whole minutes: a 90 second
// break costs 2 minutes.
func BreakMinutes(start, end time.Time) int {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	minutes := int(d / time.Minute)
	if d%time.Minute != 0 {
		minutes++
	}
	return minutes
}

// WorkedMinutes rounds elapsed session time down to whole minutes, subtracts
// accumulated break minutes and floors the result at zero. Clock skew or
// concurrent break edits can push the break total past the elapsed time; net
// worked time must never go negative.
func WorkedMinutes(login, logout time.Time, breakMinutes int) int {
	elapsed := int(logout.Sub(login) / time.Minute)
	worked := elapsed - breakMinutes
	if worked < 0 {
		return 0
	}
	return worked
}

// Attendance is the API view of a day's session.
type Attendance struct {
	ID                  int64       `json:"id"`
	UserID              int64       `json:"user_id"`
	WorkDate            string      `json:"work_date"`
	LoginTime           time.Time   `json:"login_time"`
	LogoutTime          *time.Time  `json:"logout_time,omitempty"`
	TotalBreakMinutes   int         `json:"total_break_minutes"`
	TotalWorkingMinutes int         `json:"total_working_minutes"`
	IsActiveSession     bool        `json:"is_active_session"`
	Breaks              []BreakView `json:"breaks,omitempty"`
}

type BreakView struct {
	ID         int64      `json:"id"`
	BreakStart time.Time  `json:"break_start"`
	BreakEnd   *time.Time `json:"break_end,omitempty"`
}

func FromDataModel(a *attendanceDatamodel.UserAttendance, breaks []*attendanceDatamodel.BreakLog) *Attendance {
	view := &Attendance{
		ID:                  a.ID,
		UserID:              a.UserID,
		WorkDate:            a.WorkDate.Format("2006-01-02"),
		LoginTime:           a.LoginTime,
		LogoutTime:          a.LogoutTime,
		TotalBreakMinutes:   a.TotalBreakMinutes,
		TotalWorkingMinutes: a.TotalWorkingMinutes,
		IsActiveSession:     a.IsActiveSession,
	}
	for _, b := range breaks {
		view.Breaks = append(view.Breaks, BreakView{
			ID:         b.ID,
			BreakStart: b.BreakStart,
			BreakEnd:   b.BreakEnd,
		})
	}
	return view
}
