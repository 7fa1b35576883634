package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"eduquiz/internal/domain"
)

// jsonValue marshals v into the string form stored in the column. Oracle CLOB
// columns take strings, not []byte.
func jsonValue(v interface{}) (driver.Value, error) {
	jsonData, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// jsonScan unmarshals a column value into dst. NULL and empty columns leave
// dst untouched.
func jsonScan(value interface{}, dst interface{}) error {
	if value == nil {
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return fmt.Errorf("json column scan: unsupported type %T", value)
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		return nil
	}
	return json.Unmarshal(bytesToParse, dst)
}

// Value implements the driver.Valuer interface
func (c QuestionsColumn) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	return jsonValue([]domain.Question(c))
}

// Scan implements the sql.Scanner interface
func (c *QuestionsColumn) Scan(value interface{}) error {
	*c = QuestionsColumn{}
	return jsonScan(value, (*[]domain.Question)(c))
}

func (c AnswersColumn) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	return jsonValue([]domain.Answer(c))
}

func (c *AnswersColumn) Scan(value interface{}) error {
	*c = AnswersColumn{}
	return jsonScan(value, (*[]domain.Answer)(c))
}

func (c IncorrectQuestionsColumn) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	return jsonValue([]domain.IncorrectQuestion(c))
}

func (c *IncorrectQuestionsColumn) Scan(value interface{}) error {
	*c = IncorrectQuestionsColumn{}
	return jsonScan(value, (*[]domain.IncorrectQuestion)(c))
}

func (c PayloadColumn) Value() (driver.Value, error) {
	return jsonValue(domain.RecommendationPayload(c))
}

func (c *PayloadColumn) Scan(value interface{}) error {
	*c = PayloadColumn{}
	return jsonScan(value, (*domain.RecommendationPayload)(c))
}

func (c StringMapColumn) Value() (driver.Value, error) {
	if c == nil {
		return "{}", nil
	}
	return jsonValue(map[string]string(c))
}

func (c *StringMapColumn) Scan(value interface{}) error {
	*c = StringMapColumn{}
	return jsonScan(value, (*map[string]string)(c))
}
