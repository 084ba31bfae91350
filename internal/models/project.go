package models

import (
	"time"

	"gorm.io/datatypes"
)

// Product is a tracked piece of equipment.
type Product struct {
	Base
	EquipmentID            string                      `gorm:"uniqueIndex;size:60;not null" json:"equipmentId"`
	EquipmentName          string                      `gorm:"size:200;not null" json:"equipmentName"`
	EquipmentImage         datatypes.JSONSlice[string] `json:"equipmentImage"`
	RegistrationNumber     string                      `gorm:"size:100" json:"registrationNumber"`
	Category               Category                    `gorm:"size:30" json:"category"`
	Status                 EquipmentStatus             `gorm:"size:30;not null;index" json:"status"`
	OwnerName              string                      `gorm:"size:200" json:"ownerName"`
	OwnerAddress           string                      `gorm:"size:300" json:"ownerAddress"`
	OwnerNumber            string                      `gorm:"size:30" json:"ownerNumber"`
	CharteredBy            string                      `gorm:"size:200" json:"charteredBy"`
	CharteredPersonPhone   string                      `gorm:"size:30" json:"charteredPersonPhone"`
	CharteredPersonAddress string                      `gorm:"size:300" json:"charteredPersonAddress"`
	BrandName              string                      `gorm:"size:100" json:"brandName"`
	Model                  string                      `gorm:"size:100" json:"model"`
	Dimensions             string                      `gorm:"size:100" json:"dimensions"`
	ManufacturingYear      string                      `gorm:"size:10" json:"manufacturingYear"`
	CreatedAdminID         string                      `gorm:"size:36;not null;index" json:"createdAdminId"`
	CreatedAdmin           *Admin                      `gorm:"foreignKey:CreatedAdminID" json:"createdAdmin,omitempty"`

	Projects []ProjectProduct `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"projects,omitempty"`
	Crews    []Crew           `gorm:"foreignKey:ProductID" json:"crews,omitempty"`
}

func (Product) TableName() string { return "products" }

// Crew is a named worker assigned to a product.
type Crew struct {
	Base
	FullName  string   `gorm:"size:200;not null" json:"fullName"`
	Phone     string   `gorm:"size:30" json:"phone"`
	NID       string   `gorm:"column:nid;size:50" json:"nid"`
	ProductID string   `gorm:"size:36;not null;index" json:"productId"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (Crew) TableName() string { return "crews" }

type Project struct {
	Base
	ProjectName      string          `gorm:"size:200;not null" json:"projectName"`
	Department       Category        `gorm:"size:30" json:"department"`
	ClientID         string          `gorm:"size:36;not null;index" json:"clientId"`
	Client           *Client         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	ProjectManagerID string          `gorm:"size:36;not null;index" json:"projectManagerId"`
	ProjectManager   *ProjectManager `gorm:"foreignKey:ProjectManagerID" json:"projectManager,omitempty"`
	StartDate        time.Time       `json:"startDate"`
	EstimatedEndDate time.Time       `json:"estimatedEndDate"`
	ProjectType      Category        `gorm:"size:30" json:"projectType"`
	ProductType      Category        `gorm:"size:30" json:"productType"`
	Status           ProjectStatus   `gorm:"size:30;not null;index" json:"status"`
	Street           string          `gorm:"size:200" json:"street"`
	City             string          `gorm:"size:100" json:"city"`
	State            string          `gorm:"size:100" json:"state"`
	Zip              int             `json:"zip"`
	CreatedBy        string          `gorm:"size:36;not null;index" json:"createdBy"`
	Creator          *Admin          `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`

	Engineers []ProjectEngineer `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"engineers,omitempty"`
	Products  []ProjectProduct  `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"products,omitempty"`
	Galleries []ProjectGallery  `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"galleries,omitempty"`
}

func (Project) TableName() string { return "projects" }

// Completed reports whether the project is frozen.
func (p *Project) Completed() bool {
	return p.Status == ProjectCompleted
}

// ProjectEngineer links an engineer to a project.
type ProjectEngineer struct {
	Base
	ProjectID  string    `gorm:"size:36;not null;uniqueIndex:idx_project_engineer" json:"projectId"`
	EngineerID string    `gorm:"size:36;not null;uniqueIndex:idx_project_engineer" json:"engineerId"`
	Engineer   *Engineer `gorm:"foreignKey:EngineerID" json:"engineer,omitempty"`
}

func (ProjectEngineer) TableName() string { return "projects_engineers" }

// ProjectProduct links a product to a project.
type ProjectProduct struct {
	Base
	ProjectID string   `gorm:"size:36;not null;uniqueIndex:idx_project_product" json:"projectId"`
	ProductID string   `gorm:"size:36;not null;uniqueIndex:idx_project_product" json:"productId"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (ProjectProduct) TableName() string { return "products_projects" }

// GalleryComment is a commenter snapshot stored inline on the gallery.
type GalleryComment struct {
	UserID       string    `json:"userId"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	ProfileImage *string   `json:"profileImage"`
	Role         Role      `json:"role"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ProjectGallery struct {
	Base
	ProjectID  string                               `gorm:"size:36;not null;index" json:"projectId"`
	Project    *Project                             `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	UploaderID string                               `gorm:"size:36;not null;index" json:"uploaderId"`
	Uploader   *User                                `gorm:"foreignKey:UploaderID" json:"uploader,omitempty"`
	Title      string                               `gorm:"size:200;not null" json:"title"`
	Image      string                               `gorm:"size:500;not null" json:"image"`
	Comments   datatypes.JSONSlice[*GalleryComment] `json:"comments"`
}

func (ProjectGallery) TableName() string { return "project_galleries" }
