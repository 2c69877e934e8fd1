package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/th3void/lotus-routine/pkg/reflectutil"
)

func bindRequest(r *http.Request, method string, out any) error {
	if method == http.MethodGet {
		return bindQuery(r, out)
	}

	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		// An empty body means a request object with all zero fields.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	return nil
}

// bindQuery fills out from URL query parameters. Parameter names follow the
// json tag when present, otherwise the snake_case field name.
func bindQuery(r *http.Request, out any) error {
	values := r.URL.Query()
	v := reflect.ValueOf(out).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Tag.Get("json")
		name, _, _ = strings.Cut(name, ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = reflectutil.ToSnakeCase(field.Name)
		}

		raw := values.Get(name)
		if raw == "" {
			continue
		}

		if err := setQueryField(v.Field(i), raw); err != nil {
			return fmt.Errorf("query parameter %s: %w", name, err)
		}
	}

	return nil
}

func setQueryField(f reflect.Value, raw string) error {
	switch f.Kind() {
	case reflect.String:
		f.SetString(raw)

	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		f.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		f.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return err
		}
		f.SetUint(n)

	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		f.SetFloat(n)

	default:
		return fmt.Errorf("unsupported field kind %s", f.Kind())
	}

	return nil
}
