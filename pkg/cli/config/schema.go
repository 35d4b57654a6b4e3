package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/formgate/pkg/domain/model"
	"gopkg.in/yaml.v3"
)

// LoadFormSchema reads a form schema file. The format is chosen by the file
// extension: .toml, .yaml or .yml. The schema is not validated.
func LoadFormSchema(path string) (*model.FormInput, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrSchemaNotFound, "schema file does not exist", goerr.V(SchemaPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read schema file", goerr.V(SchemaPathKey, path))
	}

	var input model.FormInput
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &input); err != nil {
			return nil, goerr.Wrap(ErrInvalidSchema, "failed to parse TOML schema",
				goerr.V(SchemaPathKey, path), goerr.V("cause", err.Error()))
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &input); err != nil {
			return nil, goerr.Wrap(ErrInvalidSchema, "failed to parse YAML schema",
				goerr.V(SchemaPathKey, path), goerr.V("cause", err.Error()))
		}
	default:
		return nil, goerr.Wrap(ErrUnsupportedSchema, "schema file must be .toml, .yaml or .yml",
			goerr.V(SchemaPathKey, path), goerr.V("extension", ext))
	}

	return &input, nil
}

// ValidateFormSchema reports every authoring defect of a schema instead of
// stopping at the first one. Form level checks run only once every field
// is valid on its own.
func ValidateFormSchema(input *model.FormInput) []error {
	var errs []error
	if strings.TrimSpace(input.Title) == "" {
		errs = append(errs, goerr.Wrap(ErrInvalidSchema, "title is required"))
	}

	fields := model.FieldInputs(input.Fields)
	fieldsValid := true
	for i, f := range fields {
		if _, err := model.ValidateFieldDefinition(f); err != nil {
			fieldsValid = false
			errs = append(errs, goerr.Wrap(err, "invalid field",
				goerr.V(FieldIndexKey, i),
				goerr.V(FieldIDKey, input.Fields[i].ID)))
		}
	}
	if !fieldsValid {
		return errs
	}

	if _, err := model.ValidateFields(fields); err != nil {
		errs = append(errs, err)
	}
	return errs
}
