package models

// Role is the closed set of user roles.
type Role string

const (
	RoleSuperAdmin     Role = "SUPER_ADMIN"
	RoleAdmin          Role = "ADMIN"
	RoleProjectManager Role = "PROJECT_MANAGER"
	RoleEngineer       Role = "ENGINEER"
	RoleClient         Role = "CLIENT"
)

// AllRoles lists every role, used for routes open to any authenticated user.
var AllRoles = []Role{RoleSuperAdmin, RoleAdmin, RoleProjectManager, RoleEngineer, RoleClient}

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleProjectManager, RoleEngineer, RoleClient:
		return true
	}
	return false
}

// IsAdministrative reports whether the role belongs to the admin tier.
func (r Role) IsAdministrative() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

type ProjectStatus string

const (
	ProjectNotStarted  ProjectStatus = "NOT_STARTED"
	ProjectInProgress  ProjectStatus = "IN_PROGRESS"
	ProjectOnHold      ProjectStatus = "ON_HOLD"
	ProjectCompleted   ProjectStatus = "COMPLETED"
	ProjectCancelled   ProjectStatus = "CANCELLED"
	ProjectDelayed     ProjectStatus = "DELAYED"
	ProjectUnderReview ProjectStatus = "UNDER_REVIEW"
	ProjectApproved    ProjectStatus = "APPROVED"
	ProjectArchived    ProjectStatus = "ARCHIVED"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectNotStarted, ProjectInProgress, ProjectOnHold, ProjectCompleted, ProjectCancelled,
		ProjectDelayed, ProjectUnderReview, ProjectApproved, ProjectArchived:
		return true
	}
	return false
}

type EquipmentStatus string

const (
	EquipmentWorking           EquipmentStatus = "WORKING"
	EquipmentStandBy           EquipmentStatus = "STAND_BY"
	EquipmentBreakDown         EquipmentStatus = "BREAK_DOWN"
	EquipmentUnderMaintenance  EquipmentStatus = "UNDER_MAINTENANCE"
	EquipmentOutOfService      EquipmentStatus = "OUT_OF_SERVICE"
	EquipmentInRepair          EquipmentStatus = "IN_REPAIR"
	EquipmentDecommissioned    EquipmentStatus = "DECOMMISSIONED"
	EquipmentPendingInspection EquipmentStatus = "PENDING_INSPECTION"
	EquipmentAvailable         EquipmentStatus = "AVAILABLE"
	EquipmentReserved          EquipmentStatus = "RESERVED"
	EquipmentLost              EquipmentStatus = "LOST"
	EquipmentDamaged           EquipmentStatus = "DAMAGED"
)

func (s EquipmentStatus) Valid() bool {
	switch s {
	case EquipmentWorking, EquipmentStandBy, EquipmentBreakDown, EquipmentUnderMaintenance,
		EquipmentOutOfService, EquipmentInRepair, EquipmentDecommissioned, EquipmentPendingInspection,
		EquipmentAvailable, EquipmentReserved, EquipmentLost, EquipmentDamaged:
		return true
	}
	return false
}

// Category is shared by departments, project types, product types and
// equipment categories.
type Category string

const (
	CategoryCivil       Category = "CIVIL"
	CategoryMarin       Category = "MARIN"
	CategoryEngineering Category = "ENGINEERING"
)

func (c Category) Valid() bool {
	return c == CategoryCivil || c == CategoryMarin || c == CategoryEngineering
}

type MaritalStatus string

const (
	Married MaritalStatus = "MARRIED"
	Single  MaritalStatus = "SINGLE"
)

func (m MaritalStatus) Valid() bool { return m == Married || m == Single }

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

func (g Gender) Valid() bool { return g == GenderMale || g == GenderFemale || g == GenderOther }

type EmployeeType string

var employeeTypes = map[EmployeeType]struct{}{
	"FULL_TIME": {}, "PART_TIME": {}, "INTERN": {}, "TEMPORARY": {}, "CONTRACTOR": {},
	"FREELANCER": {}, "CONSULTANT": {}, "REMOTE": {}, "ON_SITE": {}, "SHIFT_WORKER": {},
	"SEASONAL": {}, "CASUAL": {}, "VOLUNTEER": {}, "APPRENTICE": {}, "TRAINEE": {},
}

func (e EmployeeType) Valid() bool {
	_, ok := employeeTypes[e]
	return ok
}

type Designation string

var designations = map[Designation]struct{}{
	"CEO": {}, "COO": {}, "CFO": {}, "CTO": {}, "CMO": {}, "CHRO": {}, "CIO": {}, "CPO": {}, "CLO": {},
	"VICE_PRESIDENT_OPERATIONS": {}, "VICE_PRESIDENT_SALES": {}, "VICE_PRESIDENT_ENGINEERING": {},
	"VICE_PRESIDENT_MARKETING": {}, "VICE_PRESIDENT_PRODUCT_MANAGEMENT": {},
	"VICE_PRESIDENT_HUMAN_RESOURCES": {}, "VICE_PRESIDENT_FINANCE": {}, "VICE_PRESIDENT_SUPPLY_CHAIN": {},
	"DIRECTOR_OPERATIONS": {}, "DIRECTOR_ENGINEERING": {}, "DIRECTOR_SALES": {}, "DIRECTOR_MARKETING": {},
	"DIRECTOR_PRODUCT_DEVELOPMENT": {}, "DIRECTOR_FINANCE": {}, "DIRECTOR_HUMAN_RESOURCES": {},
	"DIRECTOR_CUSTOMER_SERVICE": {}, "ENGINEERING_MANAGER": {}, "PRODUCT_MANAGER": {}, "SALES_MANAGER": {},
	"MARKETING_MANAGER": {}, "OPERATIONS_MANAGER": {}, "FINANCE_MANAGER": {}, "HUMAN_RESOURCES_MANAGER": {},
	"IT_MANAGER": {}, "QUALITY_ASSURANCE_MANAGER": {}, "SUPPLY_CHAIN_MANAGER": {},
	"LEAD_SOFTWARE_ENGINEER": {}, "SENIOR_DATA_SCIENTIST": {}, "PRINCIPAL_ARCHITECT": {},
	"UX_UI_DESIGN_LEAD": {}, "DEVOPS_ENGINEER": {}, "SENIOR_PROJECT_MANAGER": {}, "LEGAL_COUNSEL": {},
	"COMPLIANCE_OFFICER": {}, "DATA_PROTECTION_OFFICER": {}, "TALENT_ACQUISITION_MANAGER": {},
	"CORPORATE_COMMUNICATIONS_MANAGER": {}, "SOFTWARE_ENGINEER": {}, "DATA_ANALYST": {},
	"SALES_EXECUTIVE": {}, "MARKETING_SPECIALIST": {}, "HR_SPECIALIST": {}, "ACCOUNTANT": {},
	"CUSTOMER_SUPPORT_REPRESENTATIVE": {}, "SUPPLY_CHAIN_COORDINATOR": {}, "ADMINISTRATIVE_ASSISTANT": {},
	"TECHNICAL_WRITER": {}, "JUNIOR_SOFTWARE_DEVELOPER": {}, "MARKETING_ASSOCIATE": {},
	"SALES_ASSOCIATE": {}, "HR_ASSISTANT": {}, "FINANCIAL_ANALYST": {}, "CUSTOMER_SUPPORT_AGENT": {},
	"OPERATIONS_ANALYST": {}, "IT_SUPPORT_TECHNICIAN": {}, "PROJECT_COORDINATOR": {},
}

func (d Designation) Valid() bool {
	_, ok := designations[d]
	return ok
}
