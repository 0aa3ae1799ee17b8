package database

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"
	"unicode"

	"userprofiles/internal/core/port"
)

var ErrNoRows = errors.New("no rows in result set")

// timeLayouts covers RFC 3339 plus the layouts go-sqlite3 writes and reads.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

type Scanner struct{}

func NewScanner() *Scanner {
	return &Scanner{}
}

// ScanRow copies the columns of row into the struct dest points to. Columns
// without a matching field are ignored.
func (s *Scanner) ScanRow(row port.Row, dest interface{}) error {
	destValue := reflect.ValueOf(dest)

	if destValue.Kind() != reflect.Ptr || destValue.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("dest must be a pointer to struct")
	}

	destElem := destValue.Elem()
	destType := destElem.Type()

	for colName, val := range row {
		field := s.findStructField(destType, colName)

		if field.Name == "" || field.Type == nil {
			continue
		}

		if err := s.setFieldValue(destElem.FieldByIndex(field.Index), val, field); err != nil {
			return fmt.Errorf("column %s: %w", colName, err)
		}
	}

	return nil
}

// ScanFirst scans the first row, or returns ErrNoRows.
func (s *Scanner) ScanFirst(rows []port.Row, dest interface{}) error {
	if len(rows) == 0 {
		return ErrNoRows
	}

	return s.ScanRow(rows[0], dest)
}

func (s *Scanner) ScanRows(rows []port.Row, dest interface{}) error {
	destValue := reflect.ValueOf(dest)

	if destValue.Kind() != reflect.Ptr || destValue.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("dest must be a pointer to slice")
	}

	sliceValue := destValue.Elem()
	elemType := sliceValue.Type().Elem()
	isPtr := elemType.Kind() == reflect.Ptr

	if isPtr {
		elemType = elemType.Elem()
	}

	if elemType.Kind() != reflect.Struct {
		return fmt.Errorf("slice elements must be structs or pointers to structs")
	}

	for _, row := range rows {
		elemValue := reflect.New(elemType)

		if err := s.ScanRow(row, elemValue.Interface()); err != nil {
			return err
		}

		if isPtr {
			sliceValue.Set(reflect.Append(sliceValue, elemValue))
		} else {
			sliceValue.Set(reflect.Append(sliceValue, elemValue.Elem()))
		}
	}

	return nil
}

func (s *Scanner) findStructField(structType reflect.Type, colName string) reflect.StructField {
	colNameLower := strings.ToLower(colName)

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if tag := field.Tag.Get("db"); tag != "" && strings.ToLower(tag) == colNameLower {
			return field
		}
	}

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if strings.ToLower(field.Name) == colNameLower {
			return field
		}
	}

	camelCaseName := s.snakeToCamel(colName)
	if field, found := structType.FieldByName(camelCaseName); found {
		return field
	}

	return reflect.StructField{}
}

func (s *Scanner) snakeToCamel(snake string) string {
	parts := strings.Split(snake, "_")
	for i := range parts {
		if len(parts[i]) > 0 {
			parts[i] = strings.ToUpper(parts[i][:1]) + strings.ToLower(parts[i][1:])
		}
	}
	return strings.Join(parts, "")
}

func (s *Scanner) camelToSnake(camel string) string {
	var result []rune
	for i, r := range camel {
		if i > 0 && unicode.IsUpper(r) {
			result = append(result, '_')
		}
		result = append(result, unicode.ToLower(r))
	}
	return string(result)
}

// Columns lists the db column of every tagged field of model, or the snake
// case field name when untagged.
func (s *Scanner) Columns(model interface{}) []string {
	modelType := reflect.TypeOf(model)
	if modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}

	columns := make([]string, 0, modelType.NumField())
	for i := 0; i < modelType.NumField(); i++ {
		field := modelType.Field(i)

		if s.shouldSkipField(field) {
			continue
		}

		if tag := field.Tag.Get("db"); tag != "" {
			columns = append(columns, tag)
			continue
		}

		columns = append(columns, s.camelToSnake(field.Name))
	}

	return columns
}

func (s *Scanner) shouldSkipField(field reflect.StructField) bool {
	return field.Tag.Get("db") == "-" || field.Tag.Get("scan") == "skip"
}

func (s *Scanner) setFieldValue(field reflect.Value, val interface{}, structField reflect.StructField) error {
	if !field.CanSet() {
		return fmt.Errorf("field cannot be set")
	}

	if s.shouldSkipField(structField) {
		return nil
	}

	if val == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	if field.Kind() == reflect.Ptr {
		target := reflect.New(field.Type().Elem())

		if err := s.setFieldValue(target.Elem(), val, structField); err != nil {
			return err
		}

		field.Set(target)
		return nil
	}

	fieldType := field.Type()
	valValue := reflect.ValueOf(val)

	if valValue.Type().AssignableTo(fieldType) {
		field.Set(valValue)
		return nil
	}

	if fieldType == reflect.TypeOf(time.Time{}) {
		return s.setTime(field, val)
	}

	switch fieldType.Kind() {
	case reflect.String:
		switch v := val.(type) {
		case string:
			field.SetString(v)
		case []byte:
			field.SetString(string(v))
		default:
			return fmt.Errorf("cannot assign %T to string", val)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if !valValue.CanInt() {
			return fmt.Errorf("cannot assign %T to %s", val, fieldType)
		}
		field.SetInt(valValue.Int())
	case reflect.Bool:
		switch v := val.(type) {
		case bool:
			field.SetBool(v)
		case int64:
			field.SetBool(v != 0)
		default:
			return fmt.Errorf("cannot assign %T to bool", val)
		}
	case reflect.Float64, reflect.Float32:
		if f, ok := val.(float64); ok {
			field.SetFloat(f)
		}
	default:
		return fmt.Errorf("unsupported field type %s", fieldType)
	}

	return nil
}

func (s *Scanner) setTime(field reflect.Value, val interface{}) error {
	var str string

	switch v := val.(type) {
	case time.Time:
		field.Set(reflect.ValueOf(v.UTC()))
		return nil
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		return fmt.Errorf("cannot assign %T to time.Time", val)
	}

	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, str); err == nil {
			field.Set(reflect.ValueOf(parsed.UTC()))
			return nil
		}
	}

	slog.Warn("Failed to parse time", "value", str)
	return fmt.Errorf("cannot parse time %q", str)
}
