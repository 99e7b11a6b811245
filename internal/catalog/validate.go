package catalog

import (
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Masterminds/semver/v3"

	"github.com/thoreinstein/mcpi/internal/git"
	"github.com/thoreinstein/mcpi/internal/validator"
)

// Field length limits, counted in characters.
const (
	MaxNameLength       = 100
	MaxDescriptionLen   = 500
	MaxCategoryLength   = 50
	MaxCapabilityLength = 100
	MaxDependencyLength = 100
	MaxParamLength      = 100
)

// ValidPlatforms lists the platform identifiers a recipe may declare.
var ValidPlatforms = []string{"darwin", "linux", "windows"}

var (
	idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

	// npm names: optional @scope/, lowercase, optional @version suffix
	npmPattern = regexp.MustCompile(`^(@[a-z0-9~-][a-z0-9._~-]*/)?[a-z0-9~-][a-z0-9._~-]*(@[A-Za-z0-9._^~<>=*+-]+)?$`)

	// PEP 508 project name with optional extras and a single version clause
	pyPattern = regexp.MustCompile(`^([A-Za-z0-9]|[A-Za-z0-9][A-Za-z0-9._-]*[A-Za-z0-9])(\[[A-Za-z0-9._,-]+\])?((==|>=|<=|~=|!=|>|<)[A-Za-z0-9.*+!-]+)?$`)

	paramPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)
)

// ValidID reports whether id is a well-formed recipe id: lowercase
// alphanumerics, hyphen and underscore, not starting or ending with a hyphen.
func ValidID(id string) bool {
	return idPattern.MatchString(id) && !strings.HasSuffix(id, "-")
}

// Validate checks a recipe and returns every violation found.
func Validate(r Recipe) *validator.Result {
	res := &validator.Result{}

	if !ValidID(r.ID) {
		res.AddError("id", "must match [a-z0-9][a-z0-9_-]* and not end with a hyphen", r.ID)
	}

	requireText(res, "name", r.Name, MaxNameLength)
	requireText(res, "description", r.Description, MaxDescriptionLen)
	requireText(res, "author", r.Author, MaxNameLength)

	if len(r.Categories) == 0 {
		res.AddError("categories", "at least one category is required", nil)
	}
	checkList(res, "categories", r.Categories, MaxCategoryLength)
	checkList(res, "capabilities", r.Capabilities, MaxCapabilityLength)

	if len(r.Platforms) == 0 {
		res.AddError("platforms", "at least one platform is required", nil)
	}
	for i, p := range r.Platforms {
		if !slices.Contains(ValidPlatforms, p) {
			res.AddError(fmt.Sprintf("platforms[%d]", i),
				"unknown platform (valid: "+strings.Join(ValidPlatforms, ", ")+")", p)
		}
	}

	checkURL(res, "repository", r.Repository)
	checkURL(res, "documentation", r.Documentation)

	checkVersion(res, "versions.latest", r.Versions.Latest)
	for i, v := range r.Versions.Supported {
		checkVersion(res, fmt.Sprintf("versions.supported[%d]", i), v)
	}

	validateInstallation(res, r.Installation)
	validateConfiguration(res, r.Configuration)

	return res
}

func validateInstallation(res *validator.Result, inst Installation) {
	if inst.Method.IsZero() {
		res.AddError("installation.method", "is required (js-pkg, py-pkg, git-clone)", nil)
	}

	pkg := inst.Package
	switch {
	case strings.TrimSpace(pkg) == "":
		res.AddError("installation.package", "must not be empty", nil)
	case inst.Method == MethodJSPkg && !npmPattern.MatchString(pkg):
		res.AddError("installation.package", "is not a valid JavaScript package name", pkg)
	case inst.Method == MethodPyPkg && !pyPattern.MatchString(pkg):
		res.AddError("installation.package", "is not a valid Python package name", pkg)
	case inst.Method == MethodGitClone:
		if err := git.ValidateURL(pkg); err != nil {
			res.AddError("installation.package", "is not a git repository URL", pkg)
		}
	}

	checkList(res, "installation.system_dependencies", inst.SystemDependencies, MaxDependencyLength)
	checkList(res, "installation.language_dependencies", inst.LanguageDependencies, MaxDependencyLength)
}

func validateConfiguration(res *validator.Result, cfg Configuration) {
	seen := make(map[string]string)
	check := func(field string, params []string) {
		for i, p := range params {
			f := fmt.Sprintf("%s[%d]", field, i)
			switch {
			case p == "":
				res.AddError(f, "must not be empty", nil)
				continue
			case utf8.RuneCountInString(p) > MaxParamLength:
				res.AddError(f, fmt.Sprintf("exceeds %d characters", MaxParamLength), len(p))
				continue
			case !paramPattern.MatchString(p):
				res.AddError(f, "must be an identifier", p)
				continue
			}
			if prev, ok := seen[p]; ok {
				res.AddError(f, "duplicates "+prev, p)
				continue
			}
			seen[p] = f
		}
	}
	check("configuration.required_params", cfg.RequiredParams)
	check("configuration.optional_params", cfg.OptionalParams)

	if utf8.RuneCountInString(cfg.TemplateName) > MaxNameLength {
		res.AddError("configuration.template_name", fmt.Sprintf("exceeds %d characters", MaxNameLength), len(cfg.TemplateName))
	}
}

// ValidateMetadata checks the catalog's top-level fields.
func ValidateMetadata(m Metadata) *validator.Result {
	res := &validator.Result{}
	if m.Version != "" {
		checkVersion(res, "version", m.Version)
	}
	if m.Updated != "" && !validTimestamp(m.Updated) {
		res.AddError("updated", "must be an ISO-8601 date or timestamp", m.Updated)
	}
	return res
}

// ValidVersion reports whether v is a strict semantic version
// (MAJOR.MINOR.PATCH with optional pre-release and build metadata).
func ValidVersion(v string) bool {
	_, err := semver.StrictNewVersion(v)
	return err == nil
}

func checkVersion(res *validator.Result, field, v string) {
	if v == "" {
		res.AddError(field, "semantic version is required", nil)
		return
	}
	if !ValidVersion(v) {
		res.AddError(field, "is not a valid semantic version", v)
	}
}

func requireText(res *validator.Result, field, v string, limit int) {
	if strings.TrimSpace(v) == "" {
		res.AddError(field, "is required", nil)
		return
	}
	if n := utf8.RuneCountInString(v); n > limit {
		res.AddError(field, fmt.Sprintf("exceeds %d characters", limit), n)
	}
}

func checkList(res *validator.Result, field string, items []string, limit int) {
	for i, item := range items {
		f := fmt.Sprintf("%s[%d]", field, i)
		if strings.TrimSpace(item) == "" {
			res.AddError(f, "must not be empty", nil)
			continue
		}
		if n := utf8.RuneCountInString(item); n > limit {
			res.AddError(f, fmt.Sprintf("exceeds %d characters", limit), n)
		}
	}
}

func checkURL(res *validator.Result, field, raw string) {
	if raw == "" {
		return
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		res.AddError(field, "is not a valid http(s) URL", raw)
	}
}

func validTimestamp(s string) bool {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", time.DateOnly} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
