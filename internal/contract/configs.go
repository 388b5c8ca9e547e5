package contract

import (
	"time"

	"github.com/abarry/gapcast/schema"
)

// Default values for configuration.
const (
	DefaultHouseholdSize = 5
	DefaultOffsetDays    = 90
	DefaultPrecision     = 1
	DefaultValidStatus   = "valid"
	DefaultDateLayout    = time.DateOnly
	DefaultRunLimit      = 25
	MaxRunLimit          = 1000
)

// Default column names for the snapshot exports. Every one of them can be
// overridden through the config file, since upstream form revisions rename
// columns more often than anyone would like.
const (
	DefaultUUIDColumn           = "uuid"
	DefaultIncidentColumn       = "incident_date"
	DefaultStatusColumn         = "status"
	DefaultValidationColumn     = "validation_date"
	DefaultHouseholdColumn      = "hh_number"
	DefaultIndividualColumn     = "ind_number"
	DefaultRespHouseholdColumn  = "households_supported"
	DefaultRespIndividualColumn = "individuals_supported"
	DefaultStartColumn          = "response_start_date"
	DefaultEndColumn            = "response_end_date"
	DefaultActorColumn          = "actor"
	DefaultDonorColumn          = "donor"
	DefaultAdmin1Column         = "admin1"
	DefaultAdmin2Column         = "admin2"
	NeedColumnPrefix            = "need_"
)

// Config holds the runtime configuration for a reporting run.
// This struct remains the "final, validated" config.
type Config struct {
	AlertsPath      string
	EvaluationsPath string
	RRMPath         string
	PostRRMPath     string

	PrevPeriod    time.Time
	CurrentPeriod time.Time
	Threshold     time.Time

	HouseholdSize  int
	OffsetDays     int
	ValidStatus    string
	DateLayout     string
	Disaggregation schema.Disaggregation

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	UseColors  bool
	Width      int // Terminal width override (0 = auto-detect)

	RunBackend   schema.DatabaseBackend
	RunDBConnect string // Please use env var as this is plaintext

	Columns ColumnNames
}

// ColumnNames maps semantic roles to snapshot column names.
type ColumnNames struct {
	UUID           string
	IncidentDate   string
	Status         string
	ValidationDate string
	Household      string
	Individual     string
	RespHousehold  string
	RespIndividual string
	StartDate      string
	EndDate        string
	Actor          string
	Donor          string
	Admin1         string
	Admin2         string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config
// file). Viper unmarshals into this struct.
type ConfigRawInput struct {
	Alerts      string `mapstructure:"alerts"`
	Evaluations string `mapstructure:"evaluations"`
	RRM         string `mapstructure:"rrm"`
	PostRRM     string `mapstructure:"postrrm"`

	PrevPeriod    string `mapstructure:"prev-period"`
	CurrentPeriod string `mapstructure:"current-period"`
	Threshold     string `mapstructure:"threshold"`

	HouseholdSize int    `mapstructure:"hhsize"`
	OffsetDays    int    `mapstructure:"offset"`
	ValidStatus   string `mapstructure:"valid-status"`
	DateLayout    string `mapstructure:"date-layout"`
	Disagg        string `mapstructure:"disagg"`

	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Precision  int    `mapstructure:"precision"`
	Color      string `mapstructure:"color"`
	Width      int    `mapstructure:"width"`

	RunBackend   string `mapstructure:"run-backend"`
	RunDBConnect string `mapstructure:"run-db-connect"`

	Columns ColumnsRawInput `mapstructure:"columns"`
}

// ColumnsRawInput holds column-name overrides from the config file.
type ColumnsRawInput struct {
	UUID           string `mapstructure:"uuid"`
	IncidentDate   string `mapstructure:"incident-date"`
	Status         string `mapstructure:"status"`
	ValidationDate string `mapstructure:"validation-date"`
	Household      string `mapstructure:"household"`
	Individual     string `mapstructure:"individual"`
	RespHousehold  string `mapstructure:"resp-household"`
	RespIndividual string `mapstructure:"resp-individual"`
	StartDate      string `mapstructure:"start-date"`
	EndDate        string `mapstructure:"end-date"`
	Actor          string `mapstructure:"actor"`
	Donor          string `mapstructure:"donor"`
	Admin1         string `mapstructure:"admin1"`
	Admin2         string `mapstructure:"admin2"`
}

// SectorFlagColumns returns the raw response sector flag columns, which are
// named by the sector tokens themselves.
func SectorFlagColumns() []string {
	out := make([]string, 0, len(schema.AllSectors))
	for _, s := range schema.AllSectors {
		out = append(out, string(s))
	}
	return out
}

// Clone returns a copy of the configuration safe for per-request mutation.
func (c *Config) Clone() *Config {
	out := *c
	return &out
}

// Window returns the reporting window of the run.
func (c *Config) Window() schema.Window {
	return schema.Window{PrevPeriod: c.PrevPeriod, CurrentPeriod: c.CurrentPeriod}
}

// AlertParseConfig returns the date-parse config for the alert snapshot.
func (c *Config) AlertParseConfig() schema.ParseDatesConfig {
	return schema.ParseDatesConfig{Columns: []string{c.Columns.IncidentDate}, Layout: c.DateLayout}
}

// EvaluationParseConfig returns the date-parse config for the evaluation
// snapshot.
func (c *Config) EvaluationParseConfig() schema.ParseDatesConfig {
	return schema.ParseDatesConfig{Columns: []string{c.Columns.ValidationDate}, Layout: c.DateLayout}
}

// ResponseParseConfig returns the date-parse config for the response
// snapshots.
func (c *Config) ResponseParseConfig() schema.ParseDatesConfig {
	return schema.ParseDatesConfig{Columns: []string{c.Columns.StartDate, c.Columns.EndDate}, Layout: c.DateLayout}
}

// AlertCountsConfig returns the cleaner config for alert counts.
func (c *Config) AlertCountsConfig() schema.CleanCountsConfig {
	return schema.CleanCountsConfig{
		Columns:       schema.CountColumns{Household: c.Columns.Household, Individual: c.Columns.Individual},
		HouseholdSize: c.HouseholdSize,
	}
}

// ResponseCountsConfig returns the cleaner config for response counts.
func (c *Config) ResponseCountsConfig() schema.CleanCountsConfig {
	return schema.CleanCountsConfig{
		Columns:       schema.CountColumns{Household: c.Columns.RespHousehold, Individual: c.Columns.RespIndividual},
		HouseholdSize: c.HouseholdSize,
	}
}

// ResponseDatesConfig returns the cleaner config for response date gaps.
func (c *Config) ResponseDatesConfig() schema.CleanDatesConfig {
	return schema.CleanDatesConfig{StartDate: c.Columns.StartDate, EndDate: c.Columns.EndDate}
}

// AggregateConfig returns the response aggregator config.
func (c *Config) AggregateConfig() schema.AggregateConfig {
	return schema.AggregateConfig{
		UUID:        c.Columns.UUID,
		SectorFlags: SectorFlagColumns(),
		Counts:      schema.CountColumns{Household: c.Columns.RespHousehold, Individual: c.Columns.RespIndividual},
		StartDate:   c.Columns.StartDate,
		EndDate:     c.Columns.EndDate,
		Actor:       c.Columns.Actor,
		Donor:       c.Columns.Donor,
		Admin1:      c.Columns.Admin1,
		Admin2:      c.Columns.Admin2,
	}
}

// JoinConfig returns the dataset joiner config.
func (c *Config) JoinConfig() schema.JoinConfig {
	responseSide := schema.JoinTable{
		UUID:      c.Columns.UUID,
		StartDate: c.Columns.StartDate,
		EndDate:   c.Columns.EndDate,
		Count:     schema.ColResponseNumber,
	}
	return schema.JoinConfig{
		UUID:           c.Columns.UUID,
		IncidentDate:   c.Columns.IncidentDate,
		EvaluationUUID: c.Columns.UUID,
		ValidationDate: c.Columns.ValidationDate,
		RRM:            responseSide,
		PostRRM:        responseSide,
	}
}

// ForecastConfig returns the forecast estimator config.
func (c *Config) ForecastConfig() schema.ForecastConfig {
	return schema.ForecastConfig{
		Status:         c.Columns.Status,
		ValidStatus:    c.ValidStatus,
		IncidentDate:   c.Columns.IncidentDate,
		HasRRM:         schema.ColHasRRMResponse,
		RRMStartDate:   schema.RRMPrefix + c.Columns.StartDate,
		TimeAlertToRRM: schema.ColTimeAlertToRRM,
		OffsetDays:     c.OffsetDays,
	}
}

// ClassifyConfig returns the temporal classifier config.
func (c *Config) ClassifyConfig() schema.ClassifyConfig {
	return schema.ClassifyConfig{
		Window:           c.Window(),
		Status:           c.Columns.Status,
		ValidStatus:      c.ValidStatus,
		ValidationDate:   c.Columns.ValidationDate,
		PostRRMStartDate: schema.PostRRMPrefix + c.Columns.StartDate,
		HasPostRRM:       schema.ColHasPostRRMResponse,
		ForecastDate:     schema.ColForecastDate,
		Threshold:        c.Threshold,
	}
}

// CoverageConfig returns the coverage indicator config. Alert-side needs use
// the need_<sector> columns, response-side flags the joined rrm_<sector>
// columns.
func (c *Config) CoverageConfig() schema.CoverageConfig {
	needs := make(map[schema.Sector]string, len(schema.AllSectors))
	responses := make(map[schema.Sector]string, len(schema.AllSectors))
	for _, s := range schema.AllSectors {
		needs[s] = NeedColumnPrefix + string(s)
		responses[s] = schema.RRMPrefix + string(s)
	}
	return schema.CoverageConfig{
		Window:            c.Window(),
		Status:            c.Columns.Status,
		ValidStatus:       c.ValidStatus,
		IncidentDate:      c.Columns.IncidentDate,
		ResponseStartDate: schema.RRMPrefix + c.Columns.StartDate,
		AlertCounts:       schema.CountColumns{Household: c.Columns.Household, Individual: c.Columns.Individual},
		ResponseCounts:    schema.CountColumns{Household: schema.RRMPrefix + c.Columns.RespHousehold, Individual: schema.RRMPrefix + c.Columns.RespIndividual},
		SectorNeeds:       needs,
		SectorResponses:   responses,
		Admin1:            c.Columns.Admin1,
		Admin2:            c.Columns.Admin2,
		Disaggregation:    c.Disaggregation,
	}
}

// RunParams returns the parameters persisted with each run record.
func (c *Config) RunParams() map[string]any {
	return map[string]any{
		"prev_period":    c.PrevPeriod.Format(time.DateOnly),
		"current_period": c.CurrentPeriod.Format(time.DateOnly),
		"threshold":      c.Threshold.Format(time.DateOnly),
		"hhsize":         c.HouseholdSize,
		"offset":         c.OffsetDays,
		"disagg":         string(c.Disaggregation),
	}
}
