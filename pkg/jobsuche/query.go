package jobsuche

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"

	"github.com/go-playground/validator/v10"
)

const (
	// MaxPageSize is the largest page size the service accepts.
	MaxPageSize = 100
	// MaxPage is the last page the service serves, whatever the declared total.
	MaxPage = 100
	// DefaultPageSize is used when the builder is not given a size.
	DefaultPageSize = 50
)

// Query parameter names of the search endpoint.
const (
	paramTitle             = "was"
	paramLocation          = "wo"
	paramOccupationalField = "berufsfeld"
	paramEmployer          = "arbeitgeber"
	paramRadius            = "umkreis"
	paramEmploymentType    = "angebotsart"
	paramContractType      = "befristung"
	paramWorkingTime       = "arbeitszeit"
	paramPublishedWithin   = "veroeffentlichtseit"
	paramTempAgency        = "zeitarbeit"
	paramDisability        = "behinderung"
	paramCorona            = "corona"
	paramPage              = "page"
	paramSize              = "size"
)

// EmploymentType filters by kind of offer (angebotsart).
type EmploymentType string

const (
	EmploymentWork              EmploymentType = "1"
	EmploymentSelfEmployment    EmploymentType = "2"
	EmploymentApprenticeship    EmploymentType = "4"
	EmploymentInternshipTrainee EmploymentType = "34"
)

// ContractType filters by contract duration (befristung).
type ContractType string

const (
	ContractFixedTerm ContractType = "1"
	ContractPermanent ContractType = "2"
)

// WorkingTime filters by working-time model (arbeitszeit).
type WorkingTime string

const (
	WorkingTimeFullTime   WorkingTime = "vz"
	WorkingTimePartTime   WorkingTime = "tz"
	WorkingTimeShift      WorkingTime = "snw"
	WorkingTimeHomeOffice WorkingTime = "ho"
	WorkingTimeMinijob    WorkingTime = "mj"
)

// queryFields holds builder input; tags carry the validation rules.
type queryFields struct {
	Title             string
	Location          string
	OccupationalField string
	Employer          string
	Radius            *int             `field:"radius" validate:"omitempty,gte=0"`
	EmploymentTypes   []EmploymentType `field:"employment_types" validate:"omitempty,dive,oneof=1 2 4 34"`
	ContractTypes     []ContractType   `field:"contract_types" validate:"omitempty,dive,oneof=1 2"`
	WorkingTimes      []WorkingTime    `field:"working_times" validate:"omitempty,dive,oneof=vz tz snw ho mj"`
	PublishedWithin   *int             `field:"published_within_days" validate:"omitempty,gte=0,lte=100"`
	TempAgency        *bool
	Disability        *bool
	Corona            *bool
	Page              int `field:"page" validate:"gte=1"`
	Size              int `field:"size" validate:"gte=1,lte=100"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("field"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// SearchQuery is an immutable, validated set of search parameters.
// The zero value searches everything: page 1, DefaultPageSize, no filters.
type SearchQuery struct {
	f queryFields
}

// QueryBuilder assembles a SearchQuery. Errors are reported by Build.
type QueryBuilder struct {
	f queryFields
}

// NewQuery starts a query on page 1 with DefaultPageSize.
func NewQuery() *QueryBuilder {
	return &QueryBuilder{f: queryFields{Page: 1, Size: DefaultPageSize}}
}

// Title is free text matched against job title and occupation (was).
func (b *QueryBuilder) Title(s string) *QueryBuilder { b.f.Title = s; return b }

// Location is free text for the place of work (wo).
func (b *QueryBuilder) Location(s string) *QueryBuilder { b.f.Location = s; return b }

// OccupationalField filters by occupational field (berufsfeld).
func (b *QueryBuilder) OccupationalField(s string) *QueryBuilder {
	b.f.OccupationalField = s
	return b
}

// Employer filters by employer name. The service matches exactly and case-sensitively.
func (b *QueryBuilder) Employer(s string) *QueryBuilder { b.f.Employer = s; return b }

// Radius limits results to km around Location.
func (b *QueryBuilder) Radius(km int) *QueryBuilder { b.f.Radius = &km; return b }

func (b *QueryBuilder) EmploymentTypes(types ...EmploymentType) *QueryBuilder {
	b.f.EmploymentTypes = append([]EmploymentType{}, types...)
	return b
}

func (b *QueryBuilder) ContractTypes(types ...ContractType) *QueryBuilder {
	b.f.ContractTypes = append([]ContractType{}, types...)
	return b
}

func (b *QueryBuilder) WorkingTimes(models ...WorkingTime) *QueryBuilder {
	b.f.WorkingTimes = append([]WorkingTime{}, models...)
	return b
}

// PublishedWithin keeps listings published in the last days (0-100).
// The service is known to ignore this filter at times.
func (b *QueryBuilder) PublishedWithin(days int) *QueryBuilder {
	b.f.PublishedWithin = &days
	return b
}

// TempAgency includes (true) or excludes (false) temporary employment agencies.
func (b *QueryBuilder) TempAgency(include bool) *QueryBuilder {
	b.f.TempAgency = &include
	return b
}

func (b *QueryBuilder) Disability(suitable bool) *QueryBuilder {
	b.f.Disability = &suitable
	return b
}

func (b *QueryBuilder) Corona(related bool) *QueryBuilder { b.f.Corona = &related; return b }

// Page is 1-based.
func (b *QueryBuilder) Page(n int) *QueryBuilder { b.f.Page = n; return b }

func (b *QueryBuilder) Size(n int) *QueryBuilder { b.f.Size = n; return b }

// Build validates the collected parameters. On failure it returns a
// *ValidationError naming every offending field.
func (b *QueryBuilder) Build() (SearchQuery, error) {
	var problems []FieldError

	if err := validate.Struct(b.f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return SearchQuery{}, fmt.Errorf("jobsuche: validate query: %w", err)
		}
		for _, fe := range verrs {
			problems = append(problems, FieldError{Field: fieldName(fe), Reason: reason(fe)})
		}
	}

	if b.f.EmploymentTypes != nil && len(b.f.EmploymentTypes) == 0 {
		problems = append(problems, FieldError{Field: "employment_types", Reason: "must not be empty when set"})
	}
	if b.f.ContractTypes != nil && len(b.f.ContractTypes) == 0 {
		problems = append(problems, FieldError{Field: "contract_types", Reason: "must not be empty when set"})
	}
	if b.f.WorkingTimes != nil && len(b.f.WorkingTimes) == 0 {
		problems = append(problems, FieldError{Field: "working_times", Reason: "must not be empty when set"})
	}

	if len(problems) > 0 {
		return SearchQuery{}, &ValidationError{Fields: problems}
	}

	f := b.f
	f.EmploymentTypes = append([]EmploymentType(nil), b.f.EmploymentTypes...)
	f.ContractTypes = append([]ContractType(nil), b.f.ContractTypes...)
	f.WorkingTimes = append([]WorkingTime(nil), b.f.WorkingTimes...)
	return SearchQuery{f: f}, nil
}

// fieldName strips the slice index validator appends for dive errors.
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	for i := 0; i < len(name); i++ {
		if name[i] == '[' {
			return name[:i]
		}
	}
	return name
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return "must be >= " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	case "oneof":
		return fmt.Sprintf("unknown value %v (allowed: %s)", fe.Value(), fe.Param())
	default:
		return "failed " + fe.Tag()
	}
}

// Page is the 1-based page this query requests.
func (q SearchQuery) Page() int {
	if q.f.Page < 1 {
		return 1
	}
	return q.f.Page
}

// Size is the page size this query requests.
func (q SearchQuery) Size() int {
	if q.f.Size < 1 {
		return DefaultPageSize
	}
	return q.f.Size
}

// WithPage returns a copy requesting page n. n is not validated; only
// iteration enforces MaxPage.
func (q SearchQuery) WithPage(n int) SearchQuery {
	q.f.Page = n
	return q
}

// Values serializes the query into the parameters the search endpoint expects.
// Repeatable filters appear once per value, in the order given.
func (q SearchQuery) Values() url.Values {
	v := url.Values{}
	setString := func(key, s string) {
		if s != "" {
			v.Set(key, s)
		}
	}
	setBool := func(key string, b *bool) {
		if b != nil {
			v.Set(key, strconv.FormatBool(*b))
		}
	}

	setString(paramTitle, q.f.Title)
	setString(paramLocation, q.f.Location)
	setString(paramOccupationalField, q.f.OccupationalField)
	setString(paramEmployer, q.f.Employer)
	if q.f.Radius != nil {
		v.Set(paramRadius, strconv.Itoa(*q.f.Radius))
	}
	for _, t := range q.f.EmploymentTypes {
		v.Add(paramEmploymentType, string(t))
	}
	for _, t := range q.f.ContractTypes {
		v.Add(paramContractType, string(t))
	}
	for _, t := range q.f.WorkingTimes {
		v.Add(paramWorkingTime, string(t))
	}
	if q.f.PublishedWithin != nil {
		v.Set(paramPublishedWithin, strconv.Itoa(*q.f.PublishedWithin))
	}
	setBool(paramTempAgency, q.f.TempAgency)
	setBool(paramDisability, q.f.Disability)
	setBool(paramCorona, q.f.Corona)
	v.Set(paramPage, strconv.Itoa(q.Page()))
	v.Set(paramSize, strconv.Itoa(q.Size()))
	return v
}
