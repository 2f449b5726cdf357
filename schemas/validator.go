package schemas

import (
	_ "embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed issue-request-schema.json
var issueSchemaBytes []byte

//go:embed oracle-config-schema.json
var oracleSchemaBytes []byte

var (
	issueSchema  *gojsonschema.Schema
	oracleSchema *gojsonschema.Schema
)

func init() {
	issueSchema = mustLoadSchema("issue request", issueSchemaBytes)
	oracleSchema = mustLoadSchema("oracle config", oracleSchemaBytes)
}

func mustLoadSchema(name string, data []byte) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		panic(fmt.Sprintf("failed to load %s schema: %v", name, err))
	}
	return schema
}

func validate(schema *gojsonschema.Schema, data []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var errorMsg string
		for _, desc := range result.Errors() {
			if errorMsg != "" {
				errorMsg += "; "
			}
			errorMsg += desc.String()
		}
		return fmt.Errorf("schema validation failed: %s", errorMsg)
	}

	return nil
}

// ValidateIssueRequest validates JSON issue request data against the schema
func ValidateIssueRequest(data []byte) error {
	return validate(issueSchema, data)
}

// ValidateIssueRequestStruct validates an IssueRequest struct against the schema
func ValidateIssueRequestStruct(req *IssueRequest) error {
	data, err := req.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize request: %w", err)
	}

	return ValidateIssueRequest(data)
}

// ValidateOracleConfig validates raw oracle configuration JSON
func ValidateOracleConfig(data []byte) error {
	return validate(oracleSchema, data)
}
