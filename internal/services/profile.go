package services

import (
	"context"
	"net/url"

	"github.com/sarkargroup/smd-backend/internal/models"
	"github.com/sarkargroup/smd-backend/internal/querybuilder"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserUpdate holds the user-side fields a profile update may change.
type UserUpdate struct {
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	ProfileImage *string `json:"profileImage"`
}

func (u *UserUpdate) updates() map[string]any {
	m := map[string]any{}
	if u == nil {
		return m
	}
	if u.FirstName != nil {
		m["first_name"] = *u.FirstName
	}
	if u.LastName != nil {
		m["last_name"] = *u.LastName
	}
	if u.ProfileImage != nil {
		m["profile_image"] = *u.ProfileImage
	}
	return m
}

type EmployeeUpdateRequest struct {
	Mobile            *string               `json:"mobile"`
	UserName          *string               `json:"userName"`
	Dob               *string               `json:"dob"`
	MaritalStatus     *models.MaritalStatus `json:"maritalStatus" binding:"omitempty,enum"`
	Gender            *models.Gender        `json:"gender" binding:"omitempty,enum"`
	EmployeeType      *models.EmployeeType  `json:"employeeType" binding:"omitempty,enum"`
	Department        *models.Category      `json:"department" binding:"omitempty,enum"`
	Designation       *models.Designation   `json:"designation" binding:"omitempty,enum"`
	OfficeLocation    *string               `json:"officeLocation"`
	Nationality       *string               `json:"nationality"`
	Street            *string               `json:"street"`
	City              *string               `json:"city"`
	State             *string               `json:"state"`
	Zip               *int                  `json:"zip"`
	AppointmentLetter *string               `json:"appointmentLetter"`
	SalarySlips       []string              `json:"salarySlips"`
	RelivingLetter    *string               `json:"relivingLetter"`
	ExperienceLetter  *string               `json:"experienceLetter"`
	User              *UserUpdate           `json:"user"`
}

func (r *EmployeeUpdateRequest) Updates() map[string]any {
	m := map[string]any{}
	setString(m, "mobile", r.Mobile)
	setString(m, "user_name", r.UserName)
	setString(m, "dob", r.Dob)
	if r.MaritalStatus != nil {
		m["marital_status"] = *r.MaritalStatus
	}
	if r.Gender != nil {
		m["gender"] = *r.Gender
	}
	if r.EmployeeType != nil {
		m["employee_type"] = *r.EmployeeType
	}
	if r.Department != nil {
		m["department"] = *r.Department
	}
	if r.Designation != nil {
		m["designation"] = *r.Designation
	}
	setString(m, "office_location", r.OfficeLocation)
	setString(m, "nationality", r.Nationality)
	setString(m, "street", r.Street)
	setString(m, "city", r.City)
	setString(m, "state", r.State)
	if r.Zip != nil {
		m["zip"] = *r.Zip
	}
	setString(m, "appointment_letter", r.AppointmentLetter)
	if r.SalarySlips != nil {
		m["salary_slips"] = datatypes.JSONSlice[string](r.SalarySlips)
	}
	setString(m, "reliving_letter", r.RelivingLetter)
	setString(m, "experience_letter", r.ExperienceLetter)
	return m
}

type ClientUpdateRequest struct {
	Mobile      *string     `json:"mobile"`
	ProductList []string    `json:"productList"`
	Street      *string     `json:"street"`
	City        *string     `json:"city"`
	State       *string     `json:"state"`
	Zip         *int        `json:"zip"`
	Documents   []string    `json:"documents"`
	User        *UserUpdate `json:"user"`
}

func (r *ClientUpdateRequest) Updates() map[string]any {
	m := map[string]any{}
	setString(m, "mobile", r.Mobile)
	if r.ProductList != nil {
		m["product_list"] = datatypes.JSONSlice[string](r.ProductList)
	}
	setString(m, "street", r.Street)
	setString(m, "city", r.City)
	setString(m, "state", r.State)
	if r.Zip != nil {
		m["zip"] = *r.Zip
	}
	if r.Documents != nil {
		m["documents"] = datatypes.JSONSlice[string](r.Documents)
	}
	return m
}

func setString(m map[string]any, column string, v *string) {
	if v != nil {
		m[column] = *v
	}
}

// ProfileUpdate is the user after an update together with its profile.
type ProfileUpdate[T any] struct {
	*models.User
	OtherInfo *T `json:"otherInfo"`
}

// ProfileService lists, reads and updates one kind of role profile.
type ProfileService[T any] struct {
	db    *gorm.DB
	query *listQuery
	name  string
}

func NewAdminService(db *gorm.DB) *ProfileService[models.Admin] {
	return &ProfileService[models.Admin]{db: db, query: adminQuery, name: "Admin"}
}

func NewEngineerService(db *gorm.DB) *ProfileService[models.Engineer] {
	return &ProfileService[models.Engineer]{db: db, query: engineerQuery, name: "Engineer"}
}

func NewProjectManagerService(db *gorm.DB) *ProfileService[models.ProjectManager] {
	return &ProfileService[models.ProjectManager]{db: db, query: projectManagerQuery, name: "Project manager"}
}

func NewClientService(db *gorm.DB) *ProfileService[models.Client] {
	return &ProfileService[models.Client]{db: db, query: clientQuery, name: "Client"}
}

// List returns one page of profiles.
func (s *ProfileService[T]) List(ctx context.Context, query url.Values) ([]T, *querybuilder.Meta, error) {
	return list[T](ctx, s.db, s.query, query)
}

// Get returns a profile by its own id.
func (s *ProfileService[T]) Get(ctx context.Context, id string) (*T, error) {
	var item T
	if err := preload(s.db.WithContext(ctx), s.query).First(&item, "id = ?", id).Error; err != nil {
		return nil, notFound(err, s.name)
	}
	return &item, nil
}

// UpdateData updates the user row and the profile row of userID in one
// transaction. The user must be active and not deleted.
func (s *ProfileService[T]) UpdateData(ctx context.Context, userID string, user *UserUpdate, fields map[string]any) (*ProfileUpdate[T], error) {
	result := &ProfileUpdate[T]{User: &models.User{}, OtherInfo: new(T)}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(result.User, "id = ?", userID).Error; err != nil {
			return notFound(err, "User")
		}

		userUpdates := user.updates()
		if len(userUpdates) == 0 {
			// Still refresh updated_at so the active guard below touches a row.
			userUpdates["updated_at"] = gorm.Expr("CURRENT_TIMESTAMP")
		}
		res := tx.Model(&models.User{}).
			Where("id = ? AND is_active = ? AND is_deleted = ?", userID, true, false).
			Updates(userUpdates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAccountBlocked
		}

		if len(fields) > 0 {
			res = tx.Model(new(T)).Where("user_id = ?", userID).Updates(fields)
		} else {
			res = tx.Model(new(T)).Where("user_id = ?", userID).Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP"))
		}
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound, s.name)
		}

		if err := tx.First(result.User, "id = ?", userID).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).First(result.OtherInfo).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
