package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Base carries the UUID primary key and timestamps shared by every table.
type Base struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// User is the identity record behind every role profile.
type User struct {
	Base
	FirstName    string  `gorm:"size:100;not null" json:"firstName"`
	LastName     string  `gorm:"size:100;not null" json:"lastName"`
	Email        string  `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password     string  `gorm:"size:255;not null" json:"-"`
	Role         Role    `gorm:"size:30;not null;index" json:"role"`
	ProfileImage *string `gorm:"size:500" json:"profileImage"`
	IsActive     bool    `gorm:"not null;default:true" json:"isActive"`
	IsDeleted    bool    `gorm:"not null;default:false" json:"isDeleted"`

	Admin          *Admin          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"admin,omitempty"`
	ProjectManager *ProjectManager `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"projectManager,omitempty"`
	Engineer       *Engineer       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"engineer,omitempty"`
	Client         *Client         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"client,omitempty"`
}

func (User) TableName() string { return "users" }

// Usable reports whether the account may log in or be updated.
func (u *User) Usable() bool {
	return u.IsActive && !u.IsDeleted
}

// UserSafeColumns are the user columns exposed when a user is embedded in
// another entity's response.
var UserSafeColumns = []string{"id", "first_name", "last_name", "email", "role", "profile_image", "is_active", "is_deleted", "created_at", "updated_at"}

// EmployeeInfo is the employment record shared by admins, project managers
// and engineers.
type EmployeeInfo struct {
	EmployeeID        string                      `gorm:"uniqueIndex;size:80;not null" json:"employeeId"`
	Mobile            string                      `gorm:"size:30" json:"mobile"`
	UserName          string                      `gorm:"size:100" json:"userName"`
	Dob               string                      `gorm:"size:40" json:"dob"`
	MaritalStatus     MaritalStatus               `gorm:"size:20" json:"maritalStatus"`
	Gender            Gender                      `gorm:"size:20" json:"gender"`
	EmployeeType      EmployeeType                `gorm:"size:30" json:"employeeType"`
	Department        Category                    `gorm:"size:30" json:"department"`
	Designation       Designation                 `gorm:"size:60" json:"designation"`
	JoiningDate       time.Time                   `json:"joiningDate"`
	OfficeLocation    string                      `gorm:"size:200" json:"officeLocation"`
	Nationality       string                      `gorm:"size:100" json:"nationality"`
	Street            string                      `gorm:"size:200" json:"street"`
	City              string                      `gorm:"size:100" json:"city"`
	State             string                      `gorm:"size:100" json:"state"`
	Zip               int                         `json:"zip"`
	AppointmentLetter *string                     `gorm:"size:500" json:"appointmentLetter"`
	SalarySlips       datatypes.JSONSlice[string] `json:"salarySlips"`
	RelivingLetter    *string                     `gorm:"size:500" json:"relivingLetter"`
	ExperienceLetter  *string                     `gorm:"size:500" json:"experienceLetter"`
}

type Admin struct {
	Base
	UserID string `gorm:"uniqueIndex;size:36;not null" json:"userId"`
	User   *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	EmployeeInfo

	Products []Product `gorm:"foreignKey:CreatedAdminID" json:"products,omitempty"`
	Projects []Project `gorm:"foreignKey:CreatedBy" json:"projects,omitempty"`
}

func (Admin) TableName() string { return "admins" }

type ProjectManager struct {
	Base
	UserID string `gorm:"uniqueIndex;size:36;not null" json:"userId"`
	User   *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	EmployeeInfo

	Projects []Project `gorm:"foreignKey:ProjectManagerID" json:"projects,omitempty"`
}

func (ProjectManager) TableName() string { return "project_managers" }

type Engineer struct {
	Base
	UserID string `gorm:"uniqueIndex;size:36;not null" json:"userId"`
	User   *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	EmployeeInfo

	Projects []ProjectEngineer `gorm:"foreignKey:EngineerID;constraint:OnDelete:CASCADE" json:"projects,omitempty"`
}

func (Engineer) TableName() string { return "engineers" }

type Client struct {
	Base
	UserID      string                      `gorm:"uniqueIndex;size:36;not null" json:"userId"`
	User        *User                       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Mobile      string                      `gorm:"size:30" json:"mobile"`
	Street      string                      `gorm:"size:200" json:"street"`
	City        string                      `gorm:"size:100" json:"city"`
	State       string                      `gorm:"size:100" json:"state"`
	Zip         int                         `json:"zip"`
	ProductList datatypes.JSONSlice[string] `json:"productList"`
	Documents   datatypes.JSONSlice[string] `json:"documents"`

	Projects []Project `gorm:"foreignKey:ClientID" json:"projects,omitempty"`
}

func (Client) TableName() string { return "clients" }
