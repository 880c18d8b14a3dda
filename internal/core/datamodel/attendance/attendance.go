package attendance

import "time"

// UserAttendance is one work session per user per calendar day. WorkDate is
// truncated to local midnight and part of the compound unique key.
type UserAttendance struct {
	ID                  int64      `gorm:"primaryKey"`
	UserID              int64      `gorm:"column:user_id;not null;uniqueIndex:idx_attendance_user_day"`
	WorkDate            time.Time  `gorm:"column:work_date;not null;uniqueIndex:idx_attendance_user_day"`
	LoginTime           time.Time  `gorm:"column:login_time"`
	LogoutTime          *time.Time `gorm:"column:logout_time"`
	TotalBreakMinutes   int        `gorm:"column:total_break_minutes;default:0"`
	TotalWorkingMinutes int        `gorm:"column:total_working_minutes;default:0"`
	IsActiveSession     bool       `gorm:"column:is_active_session;default:false"`
	BreakStartTime      *time.Time `gorm:"column:break_start_time"`
	BreakEndTime        *time.Time `gorm:"column:break_end_time"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at"`
}

func (UserAttendance) TableName() string {
	return "user_attendances"
}

// BreakLog is a child of UserAttendance. BreakEnd stays nil while the break
// is open; at most one open break may exist per attendance row.
type BreakLog struct {
	ID           int64      `gorm:"primaryKey"`
	AttendanceID int64      `gorm:"column:attendance_id;index;not null"`
	BreakStart   time.Time  `gorm:"column:break_start;not null"`
	BreakEnd     *time.Time `gorm:"column:break_end"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
}

func (BreakLog) TableName() string {
	return "break_logs"
}
