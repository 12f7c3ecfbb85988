package jobsuche

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Doer performs a single HTTP round trip. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config defines Jobsuche API client settings
type Config struct {
	BaseURL string
	// APIKey is sent as X-API-Key. Defaults to the public key.
	APIKey     string
	HTTPClient Doer
	// Timeout applies to the default HTTP client only.
	Timeout time.Duration
	Retry   RetryPolicy
	Logger  *zap.Logger
}

// Client queries the Jobsuche API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient Doer
	retry      RetryPolicy
	logger     *zap.Logger
	now        func() time.Time
}

// ResultPage is one search response.
type ResultPage struct {
	Jobs []JobSummary
	// Total is the declared match count. It may exceed what MaxPage allows to retrieve.
	Total  int64
	Page   int
	Size   int
	Facets json.RawMessage
}

// JobSummary is one listing of a search result.
type JobSummary struct {
	Refnr       string       `json:"refnr"`
	HashID      string       `json:"hashId,omitempty"`
	Occupation  string       `json:"beruf"`
	Title       string       `json:"titel,omitempty"`
	Employer    string       `json:"arbeitgeber"`
	PublishedAt string       `json:"aktuelleVeroeffentlichungsdatum,omitempty"`
	StartDate   string       `json:"eintrittsdatum,omitempty"`
	Location    WorkLocation `json:"arbeitsort"`
	ModifiedAt  string       `json:"modifikationsTimestamp,omitempty"`
	ExternalURL string       `json:"externeUrl,omitempty"`
	// EmployerHash identifies the employer for EmployerLogo; often absent.
	EmployerHash string `json:"kundennummerHash,omitempty"`
}

// DisplayTitle prefers the listing title over the occupation.
func (j JobSummary) DisplayTitle() string {
	if j.Title != "" {
		return j.Title
	}
	return j.Occupation
}

// WorkLocation describes where a job is located.
type WorkLocation struct {
	PostalCode  string       `json:"plz,omitempty"`
	City        string       `json:"ort,omitempty"`
	Street      string       `json:"strasse,omitempty"`
	Region      string       `json:"region,omitempty"`
	Country     string       `json:"land,omitempty"`
	Coordinates *Coordinates `json:"koordinaten,omitempty"`
	// Distance from the searched location in km, as reported by the server.
	Distance string `json:"entfernung,omitempty"`
}

func (l WorkLocation) String() string {
	place := strings.TrimSpace(l.PostalCode + " " + l.City)
	switch {
	case place == "":
		return l.Region
	case l.Region == "" || l.Region == l.City:
		return place
	default:
		return place + ", " + l.Region
	}
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// JobDetail is the full record of one listing.
type JobDetail struct {
	Refnr                string         `json:"refnr,omitempty"`
	HashID               string         `json:"hashId,omitempty"`
	Title                string         `json:"titel,omitempty"`
	OfferType            string         `json:"stellenangebotsArt,omitempty"`
	Employer             string         `json:"arbeitgeber,omitempty"`
	EmployerHashID       string         `json:"arbeitgeberHashId,omitempty"`
	MainOccupation       string         `json:"hauptberuf,omitempty"`
	Occupation           string         `json:"beruf,omitempty"`
	IndustryGroup        string         `json:"branchengruppe,omitempty"`
	Industry             string         `json:"branche,omitempty"`
	PublishedAt          string         `json:"aktuelleVeroeffentlichungsdatum,omitempty"`
	FirstPublishedAt     string         `json:"ersteVeroeffentlichungsdatum,omitempty"`
	StartDate            string         `json:"eintrittsdatum,omitempty"`
	ModifiedAt           string         `json:"modifikationsTimestamp,omitempty"`
	Description          string         `json:"stellenbeschreibung,omitempty"`
	Locations            []WorkLocation `json:"arbeitsorte,omitempty"`
	EmployerAddress      *Address       `json:"arbeitgeberAdresse,omitempty"`
	WorkingTimeModels    []string       `json:"arbeitszeitmodelle,omitempty"`
	Contract             string         `json:"befristung,omitempty"`
	ContractDuration     string         `json:"vertragsdauer,omitempty"`
	Takeover             *bool          `json:"uebernahme,omitempty"`
	CompanySize          string         `json:"betriebsgroesse,omitempty"`
	OpenPositions        *int           `json:"anzahlOffeneStellen,omitempty"`
	OnlyForDisabled      *bool          `json:"nurFuerSchwerbehinderte,omitempty"`
	SuitableForRefugees  *bool          `json:"fuerFluechtlingeGeeignet,omitempty"`
	EmployerPresentation string         `json:"arbeitgeberdarstellung,omitempty"`
	EmployerPresentURL   string         `json:"arbeitgeberdarstellungUrl,omitempty"`
	AlliancePartner      string         `json:"allianzpartner,omitempty"`
	AlliancePartnerURL   string         `json:"allianzpartnerUrl,omitempty"`
	Salary               string         `json:"verguetung,omitempty"`
	Skills               []Skill        `json:"fertigkeiten,omitempty"`
	Mobility             *Mobility      `json:"mobilitaet,omitempty"`
	Leadership           *Leadership    `json:"fuehrungskompetenzen,omitempty"`
	Supervised           *bool          `json:"istBetreut,omitempty"`
	GoogleJobsRelevant   *bool          `json:"istGoogleJobsRelevant,omitempty"`
	Anonymous            *bool          `json:"anzeigeAnonym,omitempty"`
}

type Address struct {
	Country    string `json:"land,omitempty"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"plz,omitempty"`
	City       string `json:"ort,omitempty"`
	Street     string `json:"strasse,omitempty"`
	StreetNo   string `json:"strasseHausnummer,omitempty"`
}

// Skill is a competency requirement grouped by level.
type Skill struct {
	Hierarchy string              `json:"hierarchieName"`
	Levels    map[string][]string `json:"auspraegungen,omitempty"`
}

type Mobility struct {
	Travel string `json:"reisebereitschaft,omitempty"`
}

type Leadership struct {
	HasAuthority         *bool `json:"hatVollmacht,omitempty"`
	HasBudgetResponsible *bool `json:"hatBudgetverantwortung,omitempty"`
}

type searchResponse struct {
	Jobs   []JobSummary    `json:"stellenangebote"`
	Total  flexInt         `json:"maxErgebnisse"`
	Page   flexInt         `json:"page"`
	Size   flexInt         `json:"size"`
	Facets json.RawMessage `json:"facetten"`
}

// flexInt accepts a JSON number, a numeric string or null; the service
// has shipped counts in both forms.
type flexInt int64

func (n *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("jobsuche: invalid count %s: %w", data, err)
	}
	*n = flexInt(v)
	return nil
}
