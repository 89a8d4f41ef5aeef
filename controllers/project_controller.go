package controllers

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rk-consultants/rk-server/config"
	"github.com/rk-consultants/rk-server/models"
	"github.com/rk-consultants/rk-server/utils"
	"gorm.io/gorm"
)

var leadingNumber = regexp.MustCompile(`^\s*([0-9]+(?:\.[0-9]+)?)`)

// POST /api/project/create
func CreateProject(c *gin.Context) {
	in := models.ProjectFields{Visible: true}
	if !bindAndValidate(c, &in) {
		return
	}
	in.ApplyDefaults()

	ctx, cancel := dbContext(c)
	defer cancel()

	project := models.Project{ProjectFields: in}
	err := saveWithSlug(ctx, &models.Project{}, &project, 0, project.Title, nil, func(s string) { project.Slug = s })
	if err != nil {
		utils.LogError("Failed to create project %q: %v", in.Title, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Project %d created with slug %s", project.ID, project.Slug)
	utils.Created(c, "Project created successfully", project)
}

// GET /api/project
func GetProjects(c *gin.Context) {
	ctx, cancel := dbContext(c)
	defer cancel()

	p := utils.NewPagination(c)
	var total int64
	if err := config.DB.WithContext(ctx).Model(&models.Project{}).Count(&total).Error; err != nil {
		utils.RespondError(c, utils.PersistenceError("Failed to count projects", err))
		return
	}
	p.SetTotal(total)

	var projects []models.Project
	if err := config.DB.WithContext(ctx).Order("created_at DESC").Offset(p.Offset).Limit(p.Limit).Find(&projects).Error; err != nil {
		utils.RespondError(c, utils.PersistenceError("Failed to fetch projects", err))
		return
	}
	utils.SuccessWithPagination(c, "Projects retrieved successfully", projects, p)
}

// GET /api/project/slug/:slug
func GetProjectBySlug(c *gin.Context) {
	ctx, cancel := dbContext(c)
	defer cancel()

	var project models.Project
	if err := loadBySlug(ctx, &project, c.Param("slug"), "Project"); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Project retrieved successfully", project)
}

// GET /api/project/:id
func GetProjectByID(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	var project models.Project
	if err := loadByID(ctx, &project, id, "Project"); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Project retrieved successfully", project)
}

// PUT /api/project/:id
func UpdateProject(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	var project models.Project
	if err := loadByID(ctx, &project, id, "Project"); err != nil {
		utils.RespondError(c, err)
		return
	}

	in := project.ProjectFields
	if !bindAndValidate(c, &in) {
		return
	}
	in.ApplyDefaults()

	slugChanged := in.Title != project.Title || project.Slug == ""
	project.ProjectFields = in

	if slugChanged {
		err = saveWithSlug(ctx, &models.Project{}, &project, project.ID, project.Title, nil, func(s string) { project.Slug = s })
	} else if err = config.DB.WithContext(ctx).Save(&project).Error; err != nil {
		err = utils.PersistenceError("Failed to update project", err)
	}
	if err != nil {
		utils.LogError("Failed to update project %d: %v", id, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Project %d updated (slug %s)", project.ID, project.Slug)
	utils.Success(c, "Project updated successfully", project)
}

// DELETE /api/project/:id
func DeleteProject(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	if err := deleteByID(ctx, &models.Project{}, id, "Project"); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.LogInfo("Project %d deleted", id)
	utils.Success(c, "Project deleted successfully", nil)
}

// ProjectSearch holds the query parameters of GET /api/project/search
type ProjectSearch struct {
	Keyword      string
	Location     string
	PropertyType string
	MinPrice     *float64
	MaxPrice     *float64
	MinSize      *float64
	MaxSize      *float64
	BuildYear    int
}

func parseProjectSearch(c *gin.Context) (ProjectSearch, error) {
	s := ProjectSearch{
		Keyword:      strings.TrimSpace(c.Query("keyword")),
		Location:     strings.TrimSpace(c.Query("location")),
		PropertyType: strings.TrimSpace(c.Query("propertyType")),
	}
	floats := []struct {
		name string
		dst  **float64
	}{
		{"minPrice", &s.MinPrice},
		{"maxPrice", &s.MaxPrice},
		{"minSize", &s.MinSize},
		{"maxSize", &s.MaxSize},
	}
	for _, f := range floats {
		raw := c.Query(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return s, utils.InvalidInputError("Invalid "+f.name, err)
		}
		*f.dst = &v
	}
	if raw := c.Query("buildYear"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || year < 1800 || year > 9999 {
			return s, utils.InvalidInputError("Invalid buildYear", err)
		}
		s.BuildYear = year
	}
	return s, nil
}

// hasVariantFilter reports whether price or size bounds are set
func (s ProjectSearch) hasVariantFilter() bool {
	return s.MinPrice != nil || s.MaxPrice != nil || s.MinSize != nil || s.MaxSize != nil
}

// MatchesVariant reports whether a single variant satisfies every price and size bound
func (s ProjectSearch) MatchesVariant(v models.Variant) bool {
	if s.MinPrice != nil && v.Price < *s.MinPrice {
		return false
	}
	if s.MaxPrice != nil && v.Price > *s.MaxPrice {
		return false
	}
	if s.MinSize != nil || s.MaxSize != nil {
		m := leadingNumber.FindStringSubmatch(v.CarpetArea)
		if m == nil {
			return false
		}
		size, _ := strconv.ParseFloat(m[1], 64)
		if s.MinSize != nil && size < *s.MinSize {
			return false
		}
		if s.MaxSize != nil && size > *s.MaxSize {
			return false
		}
	}
	return true
}

func (s ProjectSearch) apply(q *gorm.DB) *gorm.DB {
	q = q.Where("visible = ?", true)
	if s.Keyword != "" && s.Keyword != "*" {
		like := containsPattern(s.Keyword)
		q = q.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR `+
			`LOWER(landmark) LIKE ? ESCAPE '\' OR LOWER(nearby) LIKE ? ESCAPE '\')`,
			like, like, like, like)
	}
	if s.Location != "" {
		q = q.Where(`LOWER(city) LIKE ? ESCAPE '\'`, containsPattern(s.Location))
	}
	if s.PropertyType != "" {
		q = q.Where("property_type = ?", s.PropertyType)
	}
	if s.BuildYear != 0 {
		q = q.Where("created_at >= ?", time.Date(s.BuildYear, time.January, 1, 0, 0, 0, 0, time.UTC))
	}
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a case-insensitive substring LIKE pattern; % and _ in
// the input match literally.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

// GET /api/project/search
func SearchProjects(c *gin.Context) {
	search, err := parseProjectSearch(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	p := utils.NewPagination(c)

	ctx, cancel := dbContext(c)
	defer cancel()

	var candidates []models.Project
	if err := search.apply(config.DB.WithContext(ctx).Model(&models.Project{})).
		Order("created_at DESC").Find(&candidates).Error; err != nil {
		utils.RespondError(c, utils.PersistenceError("Failed to search projects", err))
		return
	}

	// Variants are stored as JSON, so price and size bounds are checked here.
	matched := candidates
	if search.hasVariantFilter() {
		matched = make([]models.Project, 0, len(candidates))
		for _, project := range candidates {
			for _, v := range project.Variants {
				if search.MatchesVariant(v) {
					matched = append(matched, project)
					break
				}
			}
		}
	}

	p.SetTotal(int64(len(matched)))
	page := []models.Project{}
	if p.Offset < len(matched) {
		end := p.Offset + p.Limit
		if end > len(matched) {
			end = len(matched)
		}
		page = matched[p.Offset:end]
	}

	utils.LogInfo("Project search matched %d projects", len(matched))
	utils.SuccessWithPagination(c, "Projects retrieved successfully", page, p)
}
