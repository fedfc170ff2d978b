package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// BlueprintSection is one block of a paper's mark structure.
type BlueprintSection struct {
	Name      string `json:"name"`
	Questions int    `json:"questions"`
	Marks     int    `json:"marks"`
}

// BlueprintSections is stored as a JSON column.
type BlueprintSections []BlueprintSection

// Value marshals sections for persistence.
func (s BlueprintSections) Value() (driver.Value, error) {
	if s == nil {
		s = BlueprintSections{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal blueprint sections: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into sections.
func (s *BlueprintSections) Scan(value interface{}) error {
	if value == nil {
		*s = BlueprintSections{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for BlueprintSections", value)
	}
	if len(data) == 0 {
		*s = BlueprintSections{}
		return nil
	}
	return json.Unmarshal(data, s)
}

// TotalMarks sums the marks of all sections.
func (s BlueprintSections) TotalMarks() int {
	total := 0
	for _, section := range s {
		total += section.Marks
	}
	return total
}

// Blueprint defines the section/mark structure a Test is generated from.
type Blueprint struct {
	ID        string            `db:"id" json:"id"`
	TenantID  string            `db:"tenant_id" json:"tenantId"`
	Name      string            `db:"name" json:"name"`
	Subject   string            `db:"subject" json:"subject"`
	Grade     string            `db:"grade" json:"grade"`
	Sections  BlueprintSections `db:"sections" json:"sections"`
	CreatedAt time.Time         `db:"created_at" json:"createdAt"`
}
