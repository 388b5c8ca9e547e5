package contract

import (
	"time"

	"github.com/abarry/gapcast/schema"
)

// ProcessAndValidate turns the raw input from all config sources into the
// final validated Config. Configuration problems fail here, before any data
// is read.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if input.Alerts == "" {
		return schema.ConfigError("alerts snapshot path is required")
	}
	cfg.AlertsPath = input.Alerts
	cfg.EvaluationsPath = input.Evaluations
	cfg.RRMPath = input.RRM
	cfg.PostRRMPath = input.PostRRM

	var err error
	if cfg.PrevPeriod, err = parseDateInput("prev-period", input.PrevPeriod); err != nil {
		return err
	}
	if cfg.CurrentPeriod, err = parseDateInput("current-period", input.CurrentPeriod); err != nil {
		return err
	}
	if cfg.Threshold, err = parseDateInput("threshold", input.Threshold); err != nil {
		return err
	}
	if err := (schema.Window{PrevPeriod: cfg.PrevPeriod, CurrentPeriod: cfg.CurrentPeriod}).Validate(); err != nil {
		return err
	}

	if input.HouseholdSize <= 0 {
		return schema.ConfigError("hhsize must be positive, got %d", input.HouseholdSize)
	}
	cfg.HouseholdSize = input.HouseholdSize

	if input.OffsetDays <= 0 {
		return schema.ConfigError("offset must be positive, got %d", input.OffsetDays)
	}
	cfg.OffsetDays = input.OffsetDays

	cfg.ValidStatus = orDefault(input.ValidStatus, DefaultValidStatus)
	cfg.DateLayout = orDefault(input.DateLayout, DefaultDateLayout)

	disagg := schema.Disaggregation(orDefault(input.Disagg, string(schema.DisaggNone)))
	if _, ok := schema.ValidDisaggregations[disagg]; !ok {
		return schema.ConfigError("unsupported disaggregation %q", input.Disagg)
	}
	cfg.Disaggregation = disagg

	output := schema.OutputMode(orDefault(input.Output, string(schema.TextOut)))
	if _, ok := schema.ValidOutputModes[output]; !ok {
		return schema.ConfigError("unsupported output mode %q", input.Output)
	}
	cfg.Output = output
	cfg.OutputFile = input.OutputFile

	if input.Precision < 0 || input.Precision > 2 {
		return schema.ConfigError("precision must be 0, 1 or 2, got %d", input.Precision)
	}
	cfg.Precision = input.Precision
	cfg.UseColors = input.Color != "no"
	cfg.Width = input.Width

	backend := schema.DatabaseBackend(orDefault(input.RunBackend, string(schema.NoneBackend)))
	if err := ValidateDatabaseConnectionString(backend, input.RunDBConnect); err != nil {
		return err
	}
	cfg.RunBackend = backend
	cfg.RunDBConnect = input.RunDBConnect

	cfg.Columns = resolveColumns(input.Columns)
	return nil
}

// ValidateDatabaseConnectionString checks the backend token and its required
// connection string before a store is opened.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return schema.ConfigError("unsupported run backend %q", backend)
	}
	if (backend == schema.MySQLBackend || backend == schema.PostgreSQLBackend) && connStr == "" {
		return schema.ConfigError("%s run backend requires run-db-connect", backend)
	}
	return nil
}

// RevalidateWindow applies reporting-window overrides and re-checks the
// window. Used by callers that adjust an already-validated config.
func RevalidateWindow(cfg *Config, prevRaw, currentRaw string) error {
	var err error
	if prevRaw != "" {
		if cfg.PrevPeriod, err = parseDateInput("prev-period", prevRaw); err != nil {
			return err
		}
	}
	if currentRaw != "" {
		if cfg.CurrentPeriod, err = parseDateInput("current-period", currentRaw); err != nil {
			return err
		}
	}
	return cfg.Window().Validate()
}

// parseDateInput parses a required ISO date parameter.
func parseDateInput(name, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, schema.ConfigError("%s date is required", name)
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, schema.ConfigError("%s must be a YYYY-MM-DD date, got %q", name, raw)
	}
	return t, nil
}

// resolveColumns applies default column names over the configured overrides.
func resolveColumns(in ColumnsRawInput) ColumnNames {
	return ColumnNames{
		UUID:           orDefault(in.UUID, DefaultUUIDColumn),
		IncidentDate:   orDefault(in.IncidentDate, DefaultIncidentColumn),
		Status:         orDefault(in.Status, DefaultStatusColumn),
		ValidationDate: orDefault(in.ValidationDate, DefaultValidationColumn),
		Household:      orDefault(in.Household, DefaultHouseholdColumn),
		Individual:     orDefault(in.Individual, DefaultIndividualColumn),
		RespHousehold:  orDefault(in.RespHousehold, DefaultRespHouseholdColumn),
		RespIndividual: orDefault(in.RespIndividual, DefaultRespIndividualColumn),
		StartDate:      orDefault(in.StartDate, DefaultStartColumn),
		EndDate:        orDefault(in.EndDate, DefaultEndColumn),
		Actor:          orDefault(in.Actor, DefaultActorColumn),
		Donor:          orDefault(in.Donor, DefaultDonorColumn),
		Admin1:         orDefault(in.Admin1, DefaultAdmin1Column),
		Admin2:         orDefault(in.Admin2, DefaultAdmin2Column),
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
