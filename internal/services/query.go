package services

import (
	"context"
	"net/url"

	"github.com/sarkargroup/smd-backend/internal/models"
	"github.com/sarkargroup/smd-backend/internal/querybuilder"
	"gorm.io/gorm"
)

// listQuery is the fixed list behaviour of one entity.
type listQuery struct {
	config     *querybuilder.Config
	searchable []string
	includes   []string
}

var newestFirst = []querybuilder.OrderBy{{Column: "created_at", Desc: true}}

// safeUsers limits include paths that end at a users row to the columns
// that may leave the service.
func safeUsers(paths ...string) map[string][]string {
	cols := make(map[string][]string, len(paths))
	for _, p := range paths {
		cols[p] = models.UserSafeColumns
	}
	return cols
}

var userRelation = querybuilder.Relation{
	Preload:    "User",
	Table:      "users",
	LocalKey:   "user_id",
	ForeignKey: "id",
	Fields: map[string]querybuilder.Field{
		"firstName": {Column: "first_name"},
		"lastName":  {Column: "last_name"},
		"email":     {Column: "email"},
		"role":      {Column: "role"},
	},
}

func employeeFields() map[string]querybuilder.Field {
	return map[string]querybuilder.Field{
		"id":             {Column: "id"},
		"userId":         {Column: "user_id"},
		"employeeId":     {Column: "employee_id"},
		"mobile":         {Column: "mobile"},
		"userName":       {Column: "user_name"},
		"dob":            {Column: "dob"},
		"maritalStatus":  {Column: "marital_status"},
		"gender":         {Column: "gender"},
		"employeeType":   {Column: "employee_type"},
		"department":     {Column: "department"},
		"designation":    {Column: "designation"},
		"officeLocation": {Column: "office_location"},
		"nationality":    {Column: "nationality"},
		"street":         {Column: "street"},
		"city":           {Column: "city"},
		"state":          {Column: "state"},
		"zip":            {Column: "zip", Kind: querybuilder.Typed},
		"joiningDate":    {Column: "joining_date", Kind: querybuilder.Typed},
		"createdAt":      {Column: "created_at", Kind: querybuilder.Typed},
		"updatedAt":      {Column: "updated_at", Kind: querybuilder.Typed},
	}
}

func employeeQuery(table string, includes ...string) *listQuery {
	return &listQuery{
		config: &querybuilder.Config{
			Table:          table,
			Fields:         employeeFields(),
			Relations:      map[string]querybuilder.Relation{"user": userRelation},
			DefaultOrder:   newestFirst,
			IncludeColumns: safeUsers("User"),
		},
		searchable: []string{"user.firstName", "user.lastName", "userName", "mobile"},
		includes:   append([]string{"User"}, includes...),
	}
}

var (
	adminQuery          = employeeQuery("admins")
	engineerQuery       = employeeQuery("engineers", "Projects")
	projectManagerQuery = employeeQuery("project_managers", "Projects")
)

var clientQuery = &listQuery{
	config: &querybuilder.Config{
		Table: "clients",
		Fields: map[string]querybuilder.Field{
			"id":        {Column: "id"},
			"userId":    {Column: "user_id"},
			"mobile":    {Column: "mobile"},
			"street":    {Column: "street"},
			"city":      {Column: "city"},
			"state":     {Column: "state"},
			"zip":       {Column: "zip", Kind: querybuilder.Typed},
			"createdAt": {Column: "created_at", Kind: querybuilder.Typed},
			"updatedAt": {Column: "updated_at", Kind: querybuilder.Typed},
		},
		Relations:      map[string]querybuilder.Relation{"user": userRelation},
		DefaultOrder:   newestFirst,
		IncludeColumns: safeUsers("User"),
	},
	searchable: []string{"user.firstName", "user.lastName", "mobile"},
	includes:   []string{"User", "Projects"},
}

var productQuery = &listQuery{
	config: &querybuilder.Config{
		Table: "products",
		Fields: map[string]querybuilder.Field{
			"id":                     {Column: "id"},
			"equipmentId":            {Column: "equipment_id"},
			"equipmentName":          {Column: "equipment_name"},
			"registrationNumber":     {Column: "registration_number"},
			"category":               {Column: "category"},
			"status":                 {Column: "status"},
			"ownerName":              {Column: "owner_name"},
			"ownerAddress":           {Column: "owner_address"},
			"ownerNumber":            {Column: "owner_number"},
			"charteredBy":            {Column: "chartered_by"},
			"charteredPersonPhone":   {Column: "chartered_person_phone"},
			"charteredPersonAddress": {Column: "chartered_person_address"},
			"brandName":              {Column: "brand_name"},
			"model":                  {Column: "model"},
			"dimensions":             {Column: "dimensions"},
			"manufacturingYear":      {Column: "manufacturing_year"},
			"createdAdminId":         {Column: "created_admin_id"},
			"createdAt":              {Column: "created_at", Kind: querybuilder.Typed},
			"updatedAt":              {Column: "updated_at", Kind: querybuilder.Typed},
		},
		Relations: map[string]querybuilder.Relation{
			"createdAdmin": {
				Preload:    "CreatedAdmin",
				Table:      "admins",
				LocalKey:   "created_admin_id",
				ForeignKey: "id",
				Fields: map[string]querybuilder.Field{
					"employeeId": {Column: "employee_id"},
					"userName":   {Column: "user_name"},
					"mobile":     {Column: "mobile"},
				},
			},
		},
		DefaultOrder:   newestFirst,
		IncludeColumns: safeUsers("CreatedAdmin.User"),
	},
	searchable: []string{"equipmentName", "brandName", "model"},
	includes:   []string{"CreatedAdmin.User", "Projects", "Crews"},
}

var crewQuery = &listQuery{
	config: &querybuilder.Config{
		Table: "crews",
		Fields: map[string]querybuilder.Field{
			"id":        {Column: "id"},
			"fullName":  {Column: "full_name"},
			"phone":     {Column: "phone"},
			"nid":       {Column: "nid"},
			"productId": {Column: "product_id"},
			"createdAt": {Column: "created_at", Kind: querybuilder.Typed},
			"updatedAt": {Column: "updated_at", Kind: querybuilder.Typed},
		},
		Relations: map[string]querybuilder.Relation{
			"product": {
				Preload:    "Product",
				Table:      "products",
				LocalKey:   "product_id",
				ForeignKey: "id",
				Fields: map[string]querybuilder.Field{
					"equipmentId":   {Column: "equipment_id"},
					"equipmentName": {Column: "equipment_name"},
					"brandName":     {Column: "brand_name"},
					"model":         {Column: "model"},
					"status":        {Column: "status"},
				},
			},
		},
		DefaultOrder: newestFirst,
	},
	searchable: []string{"fullName", "phone"},
	includes:   []string{"Product"},
}

var projectQuery = &listQuery{
	config: &querybuilder.Config{
		Table: "projects",
		Fields: map[string]querybuilder.Field{
			"id":               {Column: "id"},
			"projectName":      {Column: "project_name"},
			"department":       {Column: "department"},
			"clientId":         {Column: "client_id"},
			"projectManagerId": {Column: "project_manager_id"},
			"projectType":      {Column: "project_type"},
			"productType":      {Column: "product_type"},
			"status":           {Column: "status"},
			"street":           {Column: "street"},
			"city":             {Column: "city"},
			"state":            {Column: "state"},
			"createdBy":        {Column: "created_by"},
			"zip":              {Column: "zip", Kind: querybuilder.Typed},
			"startDate":        {Column: "start_date", Kind: querybuilder.Typed},
			"estimatedEndDate": {Column: "estimated_end_date", Kind: querybuilder.Typed},
			"createdAt":        {Column: "created_at", Kind: querybuilder.Typed},
			"updatedAt":        {Column: "updated_at", Kind: querybuilder.Typed},
		},
		Relations: map[string]querybuilder.Relation{
			"client": {
				Preload:    "Client",
				Table:      "clients",
				LocalKey:   "client_id",
				ForeignKey: "id",
				Fields: map[string]querybuilder.Field{
					"mobile": {Column: "mobile"},
					"city":   {Column: "city"},
				},
			},
			"projectManager": {
				Preload:    "ProjectManager",
				Table:      "project_managers",
				LocalKey:   "project_manager_id",
				ForeignKey: "id",
				Fields: map[string]querybuilder.Field{
					"employeeId": {Column: "employee_id"},
					"userName":   {Column: "user_name"},
					"mobile":     {Column: "mobile"},
				},
			},
		},
		DefaultOrder:   newestFirst,
		IncludeColumns: safeUsers("ProjectManager.User", "Engineers.Engineer.User", "Client.User"),
	},
	searchable: []string{"projectName", "street", "city"},
	includes: []string{
		"ProjectManager.User",
		"Engineers.Engineer.User",
		"Products.Product",
		"Client.User",
	},
}

var galleryQuery = &listQuery{
	config: &querybuilder.Config{
		Table: "project_galleries",
		Fields: map[string]querybuilder.Field{
			"id":         {Column: "id"},
			"title":      {Column: "title"},
			"projectId":  {Column: "project_id"},
			"uploaderId": {Column: "uploader_id"},
			"createdAt":  {Column: "created_at", Kind: querybuilder.Typed},
			"updatedAt":  {Column: "updated_at", Kind: querybuilder.Typed},
		},
		Relations: map[string]querybuilder.Relation{
			"project": {
				Preload:    "Project",
				Table:      "projects",
				LocalKey:   "project_id",
				ForeignKey: "id",
				Fields: map[string]querybuilder.Field{
					"projectName": {Column: "project_name"},
					"status":      {Column: "status"},
					"city":        {Column: "city"},
				},
			},
			"uploader": {
				Preload:    "Uploader",
				Table:      "users",
				LocalKey:   "uploader_id",
				ForeignKey: "id",
				Fields: map[string]querybuilder.Field{
					"firstName": {Column: "first_name"},
					"lastName":  {Column: "last_name"},
					"email":     {Column: "email"},
				},
			},
		},
		DefaultOrder:   newestFirst,
		IncludeColumns: safeUsers("Uploader"),
	},
	searchable: []string{"title"},
	includes:   []string{"Project", "Uploader"},
}

// list runs the search, filter, sort, paginate, projection and include chain
// of q against model T.
func list[T any](ctx context.Context, db *gorm.DB, q *listQuery, query url.Values) ([]T, *querybuilder.Meta, error) {
	coll := querybuilder.NewGormCollection(db, new(T), q.config)

	items := []T{}
	meta, err := querybuilder.New(coll, q.config, query).
		Search(q.searchable...).
		Filter().
		Sort().
		Paginate().
		FieldsFromQuery().
		IncludeRelations(q.includes...).
		Execute(ctx, &items)
	if err != nil {
		return nil, nil, err
	}
	return items, meta, nil
}
