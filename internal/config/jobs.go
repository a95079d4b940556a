package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/PickariaJobs_Go/internal/domain"
	"github.com/osse101/PickariaJobs_Go/internal/validation"
)

//go:embed default_jobs.json
var defaultCatalog []byte

var jobKeyRegexp = regexp.MustCompile(jobKeyPattern)

// LoadCatalog reads the job catalog from path, or the built-in catalog when path is empty
func LoadCatalog(path string) (*domain.JobCatalog, error) {
	if path == "" {
		return DefaultCatalog()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// DefaultCatalog returns the seven built-in jobs
func DefaultCatalog() (*domain.JobCatalog, error) {
	return ParseCatalog(defaultCatalog)
}

// ParseCatalog validates data against the catalog schema and the struct rules,
// then copies the shared max level into every job
func ParseCatalog(data []byte) (*domain.JobCatalog, error) {
	if err := validation.NewSchemaValidator().ValidateBytes(data, validation.SchemaJobCatalog); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidCatalog, err)
	}

	var catalog domain.JobCatalog
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&catalog); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidCatalog, err)
	}

	if err := newCatalogValidator().Struct(&catalog); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidCatalog, err)
	}

	for i := range catalog.Jobs {
		catalog.Jobs[i].MaxLevel = catalog.MaxLevel
	}
	return &catalog, nil
}

func newCatalogValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("jobkey", validateJobKey)
	return v
}

func validateJobKey(fl validator.FieldLevel) bool {
	return jobKeyRegexp.MatchString(fl.Field().String())
}
