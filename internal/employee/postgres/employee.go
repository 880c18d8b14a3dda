package postgres

import (
	"gorm.io/gorm"

	"github.com/stafftrack/hrm-backend/internal"
	employeeDatamodel "github.com/stafftrack/hrm-backend/internal/core/datamodel/employee"
	"github.com/stafftrack/hrm-backend/internal/employee"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.Repository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) ListByManager(managerUserID int64) ([]*employeeDatamodel.Employee, error) {
	var rows []*employeeDatamodel.Employee
	err := r.db.Where("manager_id = ?", managerUserID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *EmployeeRepository) GetByID(id int64) (*employeeDatamodel.Employee, error) {
	var e employeeDatamodel.Employee
	err := r.db.Where("id = ?", id).First(&e).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *EmployeeRepository) GetByUserID(userID int64) (*employeeDatamodel.Employee, error) {
	var e employeeDatamodel.Employee
	err := r.db.Where("user_id = ?", userID).First(&e).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *EmployeeRepository) Create(e *employeeDatamodel.Employee) error {
	return r.db.Create(e).Error
}

func (r *EmployeeRepository) Update(e *employeeDatamodel.Employee) error {
	return r.db.Save(e).Error
}

// ListUnassignedOperators returns operator profiles with no manager, newest
// first.
func (r *EmployeeRepository) ListUnassignedOperators() ([]*employeeDatamodel.Employee, error) {
	var rows []*employeeDatamodel.Employee
	err := r.db.
		Joins("JOIN users ON users.id = employees.user_id").
		Where("employees.manager_id IS NULL AND users.role = ?", internal.RoleOperator).
		Order("employees.created_at DESC").
		Find(&rows).Error
	return rows, err
}
