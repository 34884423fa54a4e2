package catalogs

import (
	"github.com/santhosh-tekuri/jsonschema/v5"
)

var blocksSchema = jsonschema.MustCompileString("blocks.schema.json", blocksSchemaJSON)
