package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/stafftrack/hrm-backend/internal/attendance"
	attendanceDatamodel "github.com/stafftrack/hrm-backend/internal/core/datamodel/attendance"
)

// AttendanceRepository implements attendance.Repository using GORM. The
// partial unique index on break_logs(attendance_id) WHERE break_end IS NULL
// backs the one-open-break invariant at the storage layer; Transact covers
// the read-then-write windows.
type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) attendance.Repository {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) Transact(fn func(attendance.Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&AttendanceRepository{db: tx})
	})
}

func (r *AttendanceRepository) GetForDay(userID int64, day time.Time) (*attendanceDatamodel.UserAttendance, error) {
	var att attendanceDatamodel.UserAttendance
	err := r.db.Where("user_id = ? AND work_date = ?", userID, day).First(&att).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &att, nil
}

func (r *AttendanceRepository) Create(att *attendanceDatamodel.UserAttendance) error {
	return r.db.Create(att).Error
}

func (r *AttendanceRepository) Update(att *attendanceDatamodel.UserAttendance) error {
	return r.db.Save(att).Error
}

// OpenBreak returns the most recently started break without an end time, or
// nil when none is open.
func (r *AttendanceRepository) OpenBreak(attendanceID int64) (*attendanceDatamodel.BreakLog, error) {
	var b attendanceDatamodel.BreakLog
	err := r.db.Where("attendance_id = ? AND break_end IS NULL", attendanceID).
		Order("break_start DESC").
		First(&b).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *AttendanceRepository) CreateBreak(b *attendanceDatamodel.BreakLog) error {
	return r.db.Create(b).Error
}

func (r *AttendanceRepository) UpdateBreak(b *attendanceDatamodel.BreakLog) error {
	return r.db.Save(b).Error
}

func (r *AttendanceRepository) ListBreaks(attendanceID int64) ([]*attendanceDatamodel.BreakLog, error) {
	var breaks []*attendanceDatamodel.BreakLog
	err := r.db.Where("attendance_id = ?", attendanceID).
		Order("break_start ASC").
		Find(&breaks).Error
	return breaks, err
}
