package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"
)

func stringsToJSON(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	raw, _ := json.Marshal(values)
	return datatypes.JSON(raw)
}

func stringsFromJSON(raw datatypes.JSON) []string {
	var values []string
	if len(raw) == 0 {
		return values
	}
	_ = json.Unmarshal(raw, &values)
	return values
}
